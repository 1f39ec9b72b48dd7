package registry

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes a label or intent for table lookups:
// NFKC, lower-cased, trimmed, inner whitespace collapsed to one space.
func Normalize(label string) string {
	s := norm.NFKC.String(label)
	s = cases.Lower(language.Und).String(s)
	return strings.Join(strings.Fields(s), " ")
}
