// Package pipeline runs a cause list lookup as an ordered list of steps.
//
// A lookup moves through five steps: locate (build the document URL),
// fetch (download the PDF), extract (read text lines per page), segment
// (split lines into case entries) and match (keep the entries naming the
// advocate). Each step reads and fills in a shared *Lookup.
//
// Run is the single entry point used by the CLI and the HTTP API. It
// returns an error only for invalid input; every other failure becomes
// the unavailable outcome, so callers always have an Output to return.
//
// BatchProcessor runs independent lookups (for example both sides of the
// court for one date) concurrently with errgroup.
package pipeline
