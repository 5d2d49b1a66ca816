// Package model defines the data structures shared by the cause list
// lookup pipeline: the validated request, the extracted pages and entries,
// the pipeline outcome and the JSON response envelope.
//
// All values are request-scoped. Nothing in this package is cached or
// shared between lookups.
package model
