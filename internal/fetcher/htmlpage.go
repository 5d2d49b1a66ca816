package fetcher

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// maxTitleLength caps the title copied into error details.
const maxTitleLength = 120

// looksLikeHTML reports whether body (or its declared content type) is an
// HTML page. Court error pages and bot challenges are served as HTML.
func looksLikeHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "html") {
		return true
	}
	head := bytes.ToLower(bytes.TrimSpace(body[:min(len(body), 512)]))
	return bytes.HasPrefix(head, []byte("<!doctype html")) ||
		bytes.HasPrefix(head, []byte("<html")) ||
		bytes.Contains(head, []byte("<head"))
}

// pageTitle returns the text of the first <title> element, or "" when the
// page has none.
func pageTitle(body []byte) string {
	z := html.NewTokenizer(bytes.NewReader(body))
	inTitle := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := z.TagName()
			inTitle = string(name) == "title"
		case html.TextToken:
			if inTitle {
				return truncate(strings.Join(strings.Fields(string(z.Text())), " "), maxTitleLength)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "title" {
				return ""
			}
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
