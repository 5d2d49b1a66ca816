// Package extract turns cause list PDF bytes into ordered lines of text.
//
// Extraction happens in two passes. pdfcpu reads and validates the document
// structure first; anything it cannot make sense of is a corrupt document.
// Text is then read row by row with ledongthuc/pdf, which groups text
// fragments by baseline and so preserves the visual line structure the
// entry segmenter depends on. When that reader fails on a page the page's
// content stream is decoded from the pdfcpu context instead.
package extract
