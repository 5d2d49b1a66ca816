package config

// File is the structure of the .causelist YAML configuration file.
//
//	baseURL: https://www.calcuttahighcourt.gov.in
//	sides:
//	  original: /downloads/old_cause_lists/OS/clo{date}.pdf
//	  appellate: /downloads/old_cause_lists/AS/cla{date}.pdf
//	fetch:
//	  timeout: 30s
//	  retries: 1
//	server:
//	  listen: ":5000"
//	history:
//	  enabled: true
type File struct {
	// BaseURL is the court website root.
	BaseURL string `yaml:"baseURL,omitempty"`

	// Sides maps "original" and "appellate" to document path templates
	// containing the {date} placeholder.
	Sides map[string]string `yaml:"sides,omitempty"`

	// Fetch configures document download.
	Fetch FetchSection `yaml:"fetch,omitempty"`

	// Server configures `causelist serve`.
	Server ServerSection `yaml:"server,omitempty"`

	// History configures the lookup history database.
	History HistorySection `yaml:"history,omitempty"`
}

// FetchSection holds the fetch settings. Durations use Go syntax ("30s").
type FetchSection struct {
	Timeout      string            `yaml:"timeout,omitempty"`
	Retries      *int              `yaml:"retries,omitempty"`
	Backoff      string            `yaml:"backoff,omitempty"`
	UserAgent    string            `yaml:"userAgent,omitempty"`
	Proxy        string            `yaml:"proxy,omitempty"`
	InsecureTLS  *bool             `yaml:"insecureTLS,omitempty"`
	Headers      map[string]string `yaml:"headers,omitempty"`
	Cookie       string            `yaml:"cookie,omitempty"`
	MaxBodySize  int64             `yaml:"maxBodySize,omitempty"`
	MaxRedirects *int              `yaml:"maxRedirects,omitempty"`
}

// ServerSection holds the HTTP server settings.
type ServerSection struct {
	Listen string `yaml:"listen,omitempty"`
	APIKey string `yaml:"apiKey,omitempty"`
}

// HistorySection holds the lookup history settings.
type HistorySection struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
}
