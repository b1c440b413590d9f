package shared

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips all markup. Catalog descriptions and AI-generated text
// arrive from the backend unescaped and are rendered into the terminal UI, so
// everything user-visible goes through here first.
var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText removes any HTML markup from server- or AI-sourced text and
// unescapes the surviving entities for terminal display.
func SanitizeText(s string) string {
	cleaned := strictPolicy.Sanitize(s)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}
