package validation

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy drops every tag, keeping only the text content
var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips markup from user supplied text and trims surrounding space.
// Entities produced by the policy are decoded again so stored text stays plain.
func SanitizeText(input string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(input)))
}

// SanitizeAll applies SanitizeText to every element, dropping empty results
func SanitizeAll(inputs []string) []string {
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if s := SanitizeText(in); s != "" {
			out = append(out, s)
		}
	}
	return out
}
