package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize lower-cases text using Unicode case mapping and trims leading and
// trailing whitespace. Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	return strings.TrimSpace(cases.Lower(language.Und).String(text))
}

// Words splits text into whitespace-separated words.
func Words(text string) []string {
	return strings.Fields(text)
}
