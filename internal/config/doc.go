// Package config holds the runtime configuration of the cause list tools:
// court website and document path templates, fetch behaviour, HTTP server
// settings and lookup history. Values come from defaults, then an optional
// YAML file, then environment variables and command line flags.
package config
