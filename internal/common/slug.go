package common

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalidRX    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespaceRX = regexp.MustCompile(`\s+`)
	slugDashRX       = regexp.MustCompile(`-+`)
)

// Slugify turns a title into a URL-safe slug. Accents are folded to their
// base letter, everything outside [a-z0-9] and dashes is dropped and runs of
// whitespace or dashes collapse to a single dash. Slugify(Slugify(s)) == Slugify(s).
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	slug := strings.ToLower(folded)
	slug = slugInvalidRX.ReplaceAllString(slug, "")
	slug = slugWhitespaceRX.ReplaceAllString(slug, "-")
	slug = slugDashRX.ReplaceAllString(slug, "-")

	return strings.Trim(slug, "-")
}
