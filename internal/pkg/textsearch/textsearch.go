// Package textsearch normalizes Turkish names for case and accent
// insensitive matching.
package textsearch

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var lowerTR = cases.Lower(language.Turkish)

// dotless ı has no decomposition, so it is mapped by hand
var asciiFold = strings.NewReplacer("ı", "i")

// Fold lower-cases s with Turkish rules, strips diacritics and collapses
// whitespace. "ŞAHİN  Işık" becomes "sahin isik".
func Fold(s string) string {
	s = lowerTR.String(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = asciiFold.Replace(folded)
	return strings.Join(strings.Fields(folded), " ")
}

// LikeEscape is the escape character LikePattern uses. Queries must say
// "LIKE ? ESCAPE '!'" so SQLite, MySQL and PostgreSQL agree.
const LikeEscape = "!"

// LikePattern returns a SQL LIKE pattern matching values containing q after
// folding, with LIKE wildcards in q escaped.
func LikePattern(q string) string {
	q = Fold(q)
	q = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(q)
	return "%" + q + "%"
}
