// ABOUTME: Slug derivation for company identity
// ABOUTME: Produces stable URL-safe slugs used as CMS idempotency keys
package models

import (
	"strings"
	"unicode"
)

// Slugify converts a company name into a URL-safe slug. The result is
// stable for a given input, which makes it usable as the idempotency key
// for remote CMS items.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true // suppress leading dash

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}

	return strings.TrimRight(b.String(), "-")
}
