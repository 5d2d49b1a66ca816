// Package main provides the entry point for the causelist CLI.
//
// causelist downloads the daily cause list of the High Court at Calcutta
// and prints the entries that name a given advocate.
//
// Usage:
//
//	causelist search 15052025 "Appellate Side" "Syed Nurul Arefin"
//	causelist serve --listen :5000
//
// See --help for all available options.
package main

func main() {
	Execute()
}
