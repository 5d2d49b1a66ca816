// Package database records the history of cause list lookups in SQLite.
//
// Each row holds the request metadata, the outcome status, the number of
// matching entries and the duration of the run. Document bytes and entry
// text are never stored; the court's website remains the source of truth.
//
// The database is a single file opened through modernc.org/sqlite, which
// needs no cgo. WAL mode is enabled by default so that `causelist history`
// can read while a server is writing.
package database
