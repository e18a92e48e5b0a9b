package content

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented characters and removes the combining
// marks, so "Introducción" becomes "Introduccion".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives a URL-safe slug from a lesson filename stem. Filenames
// that are already lowercase ASCII with hyphens pass through unchanged.
func Slugify(stem string) string {
	out, _, err := transform.String(stripMarks, stem)
	if err != nil {
		out = stem
	}
	out = strings.ToLower(out)

	var b strings.Builder
	b.Grow(len(out))
	lastHyphen := false
	for _, r := range out {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == '-' || r == '_' || unicode.IsSpace(r):
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
