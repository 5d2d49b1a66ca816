package config

import (
	"fmt"
	"maps"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/causelist/internal/locator"
	"github.com/nao1215/causelist/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "causelist"

	// DefaultBaseURL is the Calcutta High Court website.
	DefaultBaseURL = "https://www.calcuttahighcourt.gov.in"

	// DefaultTimeout bounds one document request. The court's server is
	// slow on the morning the lists are published.
	DefaultTimeout = 30 * time.Second

	// DefaultRetries is the number of retries after a transient failure.
	DefaultRetries = 0

	// MaxRetries caps Retries.
	MaxRetries = 2

	// DefaultBackoff is the delay before the first retry.
	DefaultBackoff = time.Second

	// DefaultMaxBodySize limits the size of a downloaded document.
	DefaultMaxBodySize = 50 * 1024 * 1024

	// DefaultMaxRedirects limits redirect chains.
	DefaultMaxRedirects = 10

	// DefaultInsecureTLS skips certificate verification. The court website
	// has served incomplete certificate chains.
	DefaultInsecureTLS = true

	// DefaultPort is the HTTP server port.
	DefaultPort = 5000

	// DefaultMaxRequestBody limits API request bodies.
	DefaultMaxRequestBody = 64 * 1024
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey       = "CAUSELIST_API_KEY"
	EnvLegacyAPIKey = "API_KEY"
	EnvPort         = "PORT"
)

// Config holds all configuration options. It is built once at startup and
// passed to the components that need it.
type Config struct {
	// BaseURL is the court website used when a request names none.
	BaseURL string

	// SideTemplates maps each side to its document path template.
	SideTemplates map[model.Side]string

	// Timeout bounds one document request.
	Timeout time.Duration

	// Retries is the number of retries after a transient fetch failure.
	Retries int

	// Backoff is the delay before the first retry; it doubles afterwards.
	Backoff time.Duration

	// UserAgent overrides the browser-like default when set.
	UserAgent string

	// ProxyAddress routes requests through a SOCKS5 proxy (host:port).
	ProxyAddress string

	// InsecureTLS disables certificate verification.
	InsecureTLS bool

	// Headers are sent with every document request.
	Headers map[string]string

	// Cookie is sent with every document request.
	Cookie string

	// MaxBodySize limits a downloaded document in bytes. Zero means the
	// default.
	MaxBodySize int64

	// MaxRedirects limits redirect chains.
	MaxRedirects int

	// ListenAddress is the HTTP server address.
	ListenAddress string

	// APIKey is required from API clients.
	APIKey string

	// LogJSON switches server logs to JSON.
	LogJSON bool

	// HistoryEnabled records each lookup in the history database.
	HistoryEnabled bool

	// DBDir is the directory of the history database.
	DBDir string

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path given with --config.
	ConfigFilePath string

	// JSONReport selects JSON output for search. Mutually exclusive with
	// MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output for search.
	MarkdownReport bool

	// ReportFile writes the search report to a file instead of stdout.
	ReportFile string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		BaseURL:       DefaultBaseURL,
		SideTemplates: locator.DefaultTemplates(),
		Timeout:       DefaultTimeout,
		Retries:       DefaultRetries,
		Backoff:       DefaultBackoff,
		InsecureTLS:   DefaultInsecureTLS,
		MaxBodySize:   DefaultMaxBodySize,
		MaxRedirects:  DefaultMaxRedirects,
		ListenAddress: ":" + strconv.Itoa(DefaultPort),
		DBDir:         XDGDataDir(),
	}
}

// XDGDataDir returns the data directory, home of the history database.
// On Linux: ~/.local/share/causelist
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the configuration directory.
// On Linux: ~/.config/causelist
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Apply overrides c with the values set in f.
func (c *Config) Apply(f *File) error {
	if f == nil {
		return nil
	}

	if f.BaseURL != "" {
		c.BaseURL = strings.TrimRight(f.BaseURL, "/")
	}

	if len(f.Sides) > 0 {
		templates := maps.Clone(c.SideTemplates)
		if templates == nil {
			templates = make(map[model.Side]string)
		}
		for key, tmpl := range f.Sides {
			side, err := model.ParseSide(key)
			if err != nil {
				return fmt.Errorf("%w: %q", ErrUnknownSide, key)
			}
			templates[side] = tmpl
		}
		c.SideTemplates = templates
	}

	if err := c.applyFetch(f.Fetch); err != nil {
		return err
	}

	if f.Server.Listen != "" {
		c.ListenAddress = f.Server.Listen
	}
	if f.Server.APIKey != "" {
		c.APIKey = f.Server.APIKey
	}

	if f.History.Enabled != nil {
		c.HistoryEnabled = *f.History.Enabled
	}
	if f.History.Dir != "" {
		c.DBDir = f.History.Dir
	}

	return nil
}

func (c *Config) applyFetch(f FetchSection) error {
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("fetch.timeout: %w", err)
		}
		c.Timeout = d
	}
	if f.Backoff != "" {
		d, err := time.ParseDuration(f.Backoff)
		if err != nil {
			return fmt.Errorf("fetch.backoff: %w", err)
		}
		c.Backoff = d
	}
	if f.Retries != nil {
		c.Retries = *f.Retries
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.Proxy != "" {
		c.ProxyAddress = f.Proxy
	}
	if f.InsecureTLS != nil {
		c.InsecureTLS = *f.InsecureTLS
	}
	if len(f.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = make(map[string]string, len(f.Headers))
		}
		maps.Copy(c.Headers, f.Headers)
	}
	if f.Cookie != "" {
		c.Cookie = f.Cookie
	}
	if f.MaxBodySize != 0 {
		c.MaxBodySize = f.MaxBodySize
	}
	if f.MaxRedirects != nil {
		c.MaxRedirects = *f.MaxRedirects
	}
	return nil
}

// ApplyEnv reads the API key and port from the environment. getenv is
// normally os.Getenv. CAUSELIST_API_KEY wins over API_KEY; PORT replaces
// the port of the listen address.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if key := getenv(EnvAPIKey); key != "" {
		c.APIKey = key
	} else if key := getenv(EnvLegacyAPIKey); key != "" {
		c.APIKey = key
	}

	if port := getenv(EnvPort); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 && n <= 65535 {
			host, _, err := net.SplitHostPort(c.ListenAddress)
			if err != nil {
				host = ""
			}
			c.ListenAddress = net.JoinHostPort(host, port)
		}
	}
}

// Validate checks the settings shared by every command and returns the
// first problem found.
func (c *Config) Validate() error {
	if err := model.ValidateBaseURL(c.BaseURL); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.BaseURL)
	}

	for _, side := range model.Sides {
		tmpl, ok := c.SideTemplates[side]
		if !ok {
			return fmt.Errorf("%w: no template for %s", ErrInvalidSideTemplate, side)
		}
		if err := locator.ValidateTemplate(tmpl); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidSideTemplate, side, err)
		}
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Retries < 0 || c.Retries > MaxRetries {
		return ErrInvalidRetries
	}
	if c.Backoff < 0 {
		return ErrInvalidBackoff
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.MaxRedirects < 0 {
		return ErrInvalidMaxRedirects
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}

// ValidateServer runs Validate and checks the HTTP server settings.
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.ListenAddress == "" {
		return ErrInvalidListenAddress
	}
	return nil
}

// Locator builds a locator from the side templates.
func (c *Config) Locator() (*locator.Locator, error) {
	return locator.New(c.SideTemplates)
}
