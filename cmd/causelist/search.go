package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/causelist/internal/config"
	"github.com/nao1215/causelist/internal/database"
	"github.com/nao1215/causelist/internal/model"
	"github.com/nao1215/causelist/internal/pipeline"
	"github.com/nao1215/causelist/internal/report"
)

// bothSides selects the lists of every side in one search.
const bothSides = "both"

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search DATE SIDE ADVOCATE [BASE_URL]",
		Short: "Search a cause list for an advocate",
		Long: `Search downloads the cause list of DATE (DDMMYYYY) for SIDE and prints
every entry that names ADVOCATE.

SIDE is "Original Side" or "Appellate Side" (also "original", "OS",
"appellate", "AS"), or "both" to search the two lists concurrently.
Matching ignores case, punctuation and titles such as "Mr." and accepts
names broken across lines.

Examples:
  # Search the appellate list of 15 May 2025
  causelist search 15052025 "Appellate Side" "Syed Nurul Arefin"

  # Search both sides and write a Markdown report
  causelist search 15052025 both "Arefin" --markdown -o report.md

  # Print the response envelope as JSON
  causelist search 15052025 AS "Arefin" --json`,
		Args: cobra.RangeArgs(3, 4),
		RunE: runSearchCmd,
	}

	addFetchFlags(cmd)

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().BoolP("quiet", "q", false,
		"Print only the matching entries")

	return cmd
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildSearchConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg.Verbose)

	baseURL := cfg.BaseURL
	if len(args) == 4 {
		baseURL = args[3]
	}
	reqs, err := buildRequests(args[0], args[1], args[2], baseURL)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := newPipeline(cfg, logger)
	if err != nil {
		return err
	}

	results, err := runSearch(ctx, runner, reqs, logger)
	if err != nil {
		return err
	}

	if cfg.HistoryEnabled {
		recordHistory(ctx, cfg.DBDir, results, logger)
	}

	responses := make([]*model.Response, 0, len(results))
	for _, r := range results {
		responses = append(responses, model.NewResponse(r.Request, r.Outcome))
	}

	return outputReport(cmd.OutOrStdout(), cfg, quiet, responses)
}

// buildSearchConfig loads the configuration and applies the search flags.
func buildSearchConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := applyFetchFlags(cmd, cfg); err != nil {
		return nil, err
	}

	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// buildRequests validates the arguments and returns one request per side.
func buildRequests(date, side, advocate, baseURL string) ([]model.FetchRequest, error) {
	sides := []string{side}
	if strings.EqualFold(strings.TrimSpace(side), bothSides) {
		sides = sides[:0]
		for _, s := range model.Sides {
			sides = append(sides, s.String())
		}
	}

	reqs := make([]model.FetchRequest, 0, len(sides))
	for _, s := range sides {
		req, err := model.ParseFetchRequest(date, s, advocate, baseURL)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// runSearch runs a single request directly and several through a
// BatchProcessor. An invalid request fails the whole search.
func runSearch(ctx context.Context, runner pipeline.Runner, reqs []model.FetchRequest, logger *slog.Logger) ([]pipeline.BatchResult, error) {
	if len(reqs) == 1 {
		start := time.Now()
		outcome, err := runner.Run(ctx, reqs[0])
		if err != nil {
			return nil, err
		}
		return []pipeline.BatchResult{{
			Request:  reqs[0],
			Outcome:  outcome,
			Duration: time.Since(start),
		}}, nil
	}

	bp := pipeline.NewBatchProcessor(runner,
		pipeline.WithConcurrency(len(reqs)),
		pipeline.WithBatchLogger(logger),
	)
	results, err := bp.ProcessBatch(ctx, reqs)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		if r.Err != nil {
			return nil, r.Err
		}
	}
	return results, nil
}

// recordHistory stores the results. Failures are logged, not returned:
// history never changes the outcome of a search.
func recordHistory(ctx context.Context, dir string, results []pipeline.BatchResult, logger *slog.Logger) {
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		logger.Warn("failed to open history database", "dir", dir, "error", err)
		return
	}
	defer db.Close()

	for _, r := range results {
		record := database.NewLookupRecord(r.Request, r.Outcome, r.Duration)
		if _, err := db.Record(ctx, record); err != nil {
			logger.Warn("failed to record lookup", "error", err)
		}
	}
}

// outputReport writes the responses in the requested format to stdout.
// With cfg.ReportFile the formatted report goes to the file and a plain
// summary still goes to stdout.
func outputReport(stdout io.Writer, cfg *config.Config, quiet bool, responses []*model.Response) error {
	console := report.NewSimpleWriter(stdout, report.WithQuiet(quiet))

	if cfg.ReportFile == "" {
		_, err := formatWriter(stdout, cfg, console).Write(responses...)
		return err
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	fileWriter := formatWriter(f, cfg, report.NewSimpleWriter(f))
	if _, err := report.NewMultiWriter(fileWriter, console).Write(responses...); err != nil {
		return err
	}
	return f.Close()
}

// formatWriter returns the JSON or Markdown writer selected in cfg, or
// fallback.
func formatWriter(output io.Writer, cfg *config.Config, fallback report.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output, report.WithGenerator("causelist "+getVersion()))
	default:
		return fallback
	}
}
