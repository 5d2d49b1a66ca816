// Package log builds slog loggers that never print credentials.
//
// The service handles an API key on every request and may be configured
// with a session cookie for the court website or a proxy URL carrying a
// password. SecureHandler wraps any slog.Handler and masks:
//   - attributes whose key names a secret (api_key, x-api-key, cookie,
//     authorization, password, token, ...)
//   - string values that look like bearer/basic credentials or JWTs
//   - the password part of URLs with user information, in strings and
//     in error values
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Info("request", "x-api-key", key) // x-api-key=***REDACTED***
//
// The CLI logs at Warn (Debug with --verbose); the HTTP server logs at Info
// and can emit JSON with --log-json.
package log
