package identity

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var designationPattern = regexp.MustCompile(`(?i)\s*\((?:c|wk)\)\s*`)

// Display strips captain and wicketkeeper markers and collapses whitespace,
// keeping the original casing and code points.
func Display(name string) string {
	name = designationPattern.ReplaceAllString(name, " ")
	return strings.Join(strings.Fields(name), " ")
}

// Key is the lower-cased, NFC-composed join key for a player or team label.
// It is used for lookups only and never shown to users.
func Key(name string) string {
	display := Display(name)
	if display == "" {
		return ""
	}
	return norm.NFC.String(cases.Lower(language.Und).String(display))
}

// Collapse trims and collapses inner whitespace without touching markers.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
