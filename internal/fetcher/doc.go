// Package fetcher downloads cause list PDFs over HTTP.
//
// The court website is slow, sometimes sits behind anti-bot filtering and
// publishes nothing on weekends and holidays. The fetcher therefore never
// treats a missing or malformed document as a hard failure: every expected
// failure mode (non-200 status, HTML error page, non-PDF body, timeout,
// connection error) is reported as a *model.UnavailableError, which the
// pipeline turns into the published unavailable message.
//
// Client builds the underlying *http.Client: bounded timeout, redirect
// following, a cookie jar for session cookies set by the site, optional
// TLS verification bypass and optional SOCKS5 egress.
package fetcher
