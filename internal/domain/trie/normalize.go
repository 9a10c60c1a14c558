package trie

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize trims surrounding whitespace and lowercases s. Every trie
// operation compares keys in this form.
func Normalize(s string) string {
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

func trimmed(s string) string { return strings.TrimSpace(s) }
