package config

import "errors"

// Configuration validation errors returned by Config.Validate and
// Config.ValidateServer. Callers match them with errors.Is.
var (
	// ErrInvalidBaseURL is returned when the court website URL is not an
	// absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http or https URL")

	// ErrInvalidSideTemplate is returned when a side's document path
	// template is malformed.
	ErrInvalidSideTemplate = errors.New("invalid side template")

	// ErrUnknownSide is returned when the configuration file names a side
	// other than "original" or "appellate".
	ErrUnknownSide = errors.New("unknown side in configuration")

	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRetries is returned when retries is outside 0..2.
	ErrInvalidRetries = errors.New("invalid retries: must be between 0 and 2")

	// ErrInvalidBackoff is returned when the retry backoff is negative.
	ErrInvalidBackoff = errors.New("invalid backoff: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidMaxRedirects is returned when the redirect limit is negative.
	ErrInvalidMaxRedirects = errors.New("invalid max redirects: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrMissingAPIKey is returned by ValidateServer when no API key is set.
	ErrMissingAPIKey = errors.New("missing API key: set server.apiKey, CAUSELIST_API_KEY or API_KEY")

	// ErrInvalidListenAddress is returned by ValidateServer when the listen
	// address is empty.
	ErrInvalidListenAddress = errors.New("invalid listen address")
)
