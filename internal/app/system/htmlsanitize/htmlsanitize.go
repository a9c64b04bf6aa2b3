// Package htmlsanitize strips dangerous markup from user-supplied content.
// Post bodies, comments and questions pass through here before they are
// stored, so script injection never reaches other clients.
package htmlsanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.UGCPolicy()

// Sanitize removes unsafe HTML (scripts, event handlers, javascript: URLs)
// while keeping common formatting tags.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

// StripTags removes all markup, leaving plain text. Used for fields that
// should never contain HTML, like titles and names.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return bluemonday.StrictPolicy().Sanitize(s)
}
