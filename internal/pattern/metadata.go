package pattern

import (
	"regexp"
	"slices"
	"strings"
)

var (
	nonAlnumRe    = regexp.MustCompile(`[^A-Z0-9 ]+`)
	spacesRe      = regexp.MustCompile(`\s+`)
	dimensionRe   = regexp.MustCompile(`(\d+)\s*X\s*(\d+)`)
	leadingConnRe = regexp.MustCompile(`^(?:(?:DE|DU|ET)\b\s*)+`)
	trailConnRe   = regexp.MustCompile(`(?:\s*\b(?:DE|DU|ET|MAX))+$`)
)

// ignoredMetadata lists leftovers that carry no information.
var ignoredMetadata = []string{"", "TEMPS", "NON CONFORME", "P"}

// CleanMetadata tidies the text left after extraction. It returns nil when
// nothing meaningful remains.
func CleanMetadata(rest string) *string {
	s := nonAlnumRe.ReplaceAllString(strings.ToUpper(rest), " ")
	s = strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
	s = dimensionRe.ReplaceAllString(s, "$1 X $2")

	for {
		trimmed := strings.TrimSpace(trailConnRe.ReplaceAllString(leadingConnRe.ReplaceAllString(s, ""), ""))
		if trimmed == s {
			break
		}
		s = trimmed
	}

	if slices.Contains(ignoredMetadata, s) {
		return nil
	}
	return &s
}
