// internal/app/system/normalize/normalize.go

// Package normalize trims and canonicalizes user-supplied identity fields
// before they are stored or matched against unique indexes.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Username trims surrounding whitespace. Usernames are matched exactly,
// so case is preserved.
func Username(s string) string {
	return strings.TrimSpace(s)
}
