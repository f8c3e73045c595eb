// Package sanitize cleans user-supplied movie text for display. Stored
// values are kept exactly as submitted; sanitization happens on the way out
// so a policy change applies to existing records too.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  *bluemonday.Policy
	plainPolicy *bluemonday.Policy
	policyOnce  sync.Once
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		richPolicy = bluemonday.UGCPolicy()
		richPolicy.AllowAttrs("class").OnElements("p", "span", "div")
		richPolicy.RequireNoFollowOnLinks(true)
		richPolicy.AddTargetBlankToFullyQualifiedLinks(true)

		plainPolicy = bluemonday.StrictPolicy()
	})
	return richPolicy, plainPolicy
}

// HTML returns input with scripts, event handlers and javascript: URLs
// removed. Basic formatting and links survive. Plain text passes through
// with its special characters escaped.
func HTML(input string) string {
	if input == "" {
		return ""
	}
	rich, _ := policies()
	return rich.Sanitize(input)
}

// Text strips all markup from input and returns plain text with whitespace
// collapsed, suitable for excerpts.
func Text(input string) string {
	if input == "" {
		return ""
	}
	_, plain := policies()
	return strings.Join(strings.Fields(html.UnescapeString(plain.Sanitize(input))), " ")
}

// Excerpt returns at most n runes of Text(input), ending in an ellipsis
// when shortened.
func Excerpt(input string, n int) string {
	text := []rune(Text(input))
	if n <= 0 || len(text) <= n {
		return string(text)
	}
	return strings.TrimRight(string(text[:n]), " ") + "…"
}
