package kardex

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining marks after NFD decomposition, so "CAFÉ"
// and "CAFE" compare equal.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeText folds free text into the canonical comparison form:
// diacritics stripped, uppercased, everything outside [A-Z0-9] removed.
// Invoice descriptions are typed by hand and arrive in every imaginable
// casing and spacing.
func normalizeText(s string) string {
	flat, _, err := transform.String(stripMarks, s)
	if err != nil {
		flat = s
	}
	var b strings.Builder
	b.Grow(len(flat))
	for _, r := range strings.ToUpper(flat) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
