// Package report writes lookup responses for people and programs.
//
// Three formats are provided:
//   - JSONWriter: the response envelope exactly as the HTTP API returns it
//   - MarkdownWriter: a document laid out like the court's own list
//   - SimpleWriter: plain text for the terminal
//
// Writers implement the Writer interface and can be combined with
// MultiWriter.
package report
