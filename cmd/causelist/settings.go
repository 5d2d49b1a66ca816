package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/causelist/internal/config"
	"github.com/nao1215/causelist/internal/extract"
	"github.com/nao1215/causelist/internal/fetcher"
	cllog "github.com/nao1215/causelist/internal/log"
	"github.com/nao1215/causelist/internal/pipeline"
)

// loadConfig builds the configuration from defaults, the configuration
// file and the environment. Command flags are applied by the caller.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	cfg.ConfigFilePath = getConfigFlag(cmd)
	cfg.Verbose = getVerboseFlag(cmd)

	// An explicit path must exist; otherwise a missing file means defaults.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := cfg.Apply(file); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	cfg.ApplyEnv(os.Getenv)

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getConfigFlag retrieves the config flag from the command or its parent.
func getConfigFlag(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path, err = cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return ""
		}
	}
	return path
}

// addFetchFlags registers the flags shared by search and serve.
func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout of one document request")
	cmd.Flags().IntP("retries", "r", config.DefaultRetries,
		"Retries after a transient fetch failure (0 to 2)")
	cmd.Flags().String("proxy", "",
		"Route requests through a SOCKS5 proxy (host:port)")
	cmd.Flags().Bool("insecure", config.DefaultInsecureTLS,
		"Skip TLS certificate verification")
	cmd.Flags().String("user-agent", "",
		"Override the User-Agent header")
	cmd.Flags().Bool("history", false,
		"Record lookups in the history database")
}

// applyFetchFlags overrides cfg with the fetch flags the user set.
func applyFetchFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("retries") {
		if cfg.Retries, err = flags.GetInt("retries"); err != nil {
			return err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return err
		}
	}
	if flags.Changed("insecure") {
		if cfg.InsecureTLS, err = flags.GetBool("insecure"); err != nil {
			return err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return err
		}
	}
	if flags.Changed("history") {
		if cfg.HistoryEnabled, err = flags.GetBool("history"); err != nil {
			return err
		}
	}
	return nil
}

// newPipeline wires the locator, fetcher and extractor from cfg.
func newPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline.Pipeline, error) {
	loc, err := cfg.Locator()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	clientOpts := []fetcher.ClientOption{
		fetcher.WithTimeout(cfg.Timeout),
		fetcher.WithInsecureTLS(cfg.InsecureTLS),
		fetcher.WithMaxRedirects(cfg.MaxRedirects),
		fetcher.WithCookie(cfg.Cookie),
		fetcher.WithHeaders(cfg.Headers),
	}
	if cfg.ProxyAddress != "" {
		clientOpts = append(clientOpts, fetcher.WithSOCKS5Proxy(cfg.ProxyAddress))
	}
	client, err := fetcher.NewHTTPClient(clientOpts...)
	if err != nil {
		if errors.Is(err, fetcher.ErrInvalidProxyAddress) {
			return nil, fmt.Errorf("configuration error: %w: %q", err, cfg.ProxyAddress)
		}
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	f := fetcher.New(client,
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
		fetcher.WithRetries(cfg.Retries),
		fetcher.WithBackoff(cfg.Backoff),
		fetcher.WithLogger(logger),
	)
	x := extract.New(extract.WithLogger(logger))

	return pipeline.NewCauseList(loc, f, x, pipeline.WithLogger(logger)), nil
}

// setupLogger creates the CLI logger: warnings only unless verbose.
func setupLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	return cllog.NewSecureLogger(cmd.ErrOrStderr(), verbose)
}
