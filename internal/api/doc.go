// Package api exposes the cause list pipeline over HTTP.
//
// The server is a thin collaborator around pipeline.Runner. It checks the
// API key, parses the JSON body, wraps the outcome in the response
// envelope and picks the status code:
//
//	200  success or unavailable (the sentinel is in Output)
//	400  malformed body or invalid date, side, advocate or base URL
//	401  missing or wrong API key
//	404  unknown endpoint
//	405  wrong method
//	500  unexpected runner failure
//
// Endpoints:
//
//	GET  /health
//	POST /fetch-cause-list   {"date", "side", "advocate", "base_url"?, "api_key"?}
package api
