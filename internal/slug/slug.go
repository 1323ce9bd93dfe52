// Package slug produces URL-safe identifiers for user-entered names.
// Tag slugs are the store's uniqueness key, so "Sci-Fi" and "sci fi"
// collapse to the same tag.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Matches spaces, underscores, and slashes (replaced with hyphens).
	wordSeparators = regexp.MustCompile(`[\s_/]+`)
	// Matches non-alphanumeric characters except hyphens (removed).
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]`)
	// Matches multiple hyphens.
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Make converts a string to a URL-safe slug. Word separators become
// hyphens; other punctuation is dropped entirely.
// "Science Fiction" -> "science-fiction".
// "Café Culture" -> "cafe-culture".
// "don't" -> "dont".
func Make(s string) string {
	// Normalize unicode (decompose accented characters).
	s = norm.NFKD.String(s)

	// Remove non-ASCII characters.
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(strings.TrimSpace(s))
	s = wordSeparators.ReplaceAllString(s, "-")
	s = nonAlphanumeric.ReplaceAllString(s, "")
	s = multipleHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
