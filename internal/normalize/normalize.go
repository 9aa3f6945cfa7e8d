// Package normalize cleans raw RPA sign descriptions into the canonical
// uppercase form the extractor understands, and splits descriptions that
// span several days into one fragment per day.
package normalize

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/muhamm-ad/rpasign/internal/model"
)

// RuleSeparator joins independent rule fragments inside a normalized
// description.
const RuleSeparator = " | "

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	punctuationRe = regexp.MustCompile(`[.,]`)
)

type compiledRewrite struct {
	re *regexp.Regexp
	Rewrite
}

// Normalizer rewrites raw descriptions. It holds only compiled tables and is
// safe for concurrent use.
type Normalizer struct {
	markers  []compiledRewrite
	spelling []compiledRewrite
	spacing  []compiledRewrite
}

// New compiles a normalizer from the given rewrite tables.
func New(markers, spelling, spacing []Rewrite) (*Normalizer, error) {
	n := &Normalizer{}

	var err error
	if n.markers, err = compileRewrites(markers); err != nil {
		return nil, err
	}
	if n.spelling, err = compileRewrites(spelling); err != nil {
		return nil, err
	}

	spacing = append(slices.Clip(spacing), Rewrite{
		Name:    "Day number then month",
		Regex:   `(\d)(ER)?(` + strings.Join(model.MonthLiterals(), "|") + `)\b`,
		Replace: "$1$2 $3",
	})
	if n.spacing, err = compileRewrites(spacing); err != nil {
		return nil, err
	}

	return n, nil
}

// NewDefault compiles a normalizer from the built-in tables.
func NewDefault() (*Normalizer, error) {
	return New(DefaultMarkerRewrites(), DefaultSpellingRewrites(), DefaultSpacingRewrites())
}

func compileRewrites(rewrites []Rewrite) ([]compiledRewrite, error) {
	compiled := make([]compiledRewrite, 0, len(rewrites))
	for _, rw := range rewrites {
		re, err := regexp.Compile(rw.Regex)
		if err != nil {
			return nil, fmt.Errorf("failed to compile rewrite %s: %w", rw.Name, err)
		}
		compiled = append(compiled, compiledRewrite{Rewrite: rw, re: re})
	}
	return compiled, nil
}

var defaultNormalizer = mustDefault()

func mustDefault() *Normalizer {
	n, err := NewDefault()
	if err != nil {
		panic(err)
	}
	return n
}

// Default returns the normalizer compiled from the built-in tables.
func Default() *Normalizer {
	return defaultNormalizer
}

// Normalize cleans raw with the built-in tables.
func Normalize(raw string) (string, error) {
	return defaultNormalizer.Normalize(raw)
}

// Normalize returns the canonical form of raw. Applying it to its own output
// returns the output unchanged. A cross-day window naming an unknown day
// yields a format error.
func (n *Normalizer) Normalize(raw string) (string, error) {
	var fragments []string
	for _, frag := range strings.Split(n.clean(raw), RuleSeparator) {
		expanded, err := expandCrossDay(frag)
		if err != nil {
			return "", err
		}
		for _, f := range strings.Split(expanded, RuleSeparator) {
			fragments = append(fragments, splitClauses(f)...)
		}
	}
	return strings.Join(fragments, RuleSeparator), nil
}

// clean applies the first, purely lexical, stage.
func (n *Normalizer) clean(raw string) string {
	s := strings.ToUpper(raw)
	s = collapse(s)
	s = punctuationRe.ReplaceAllString(s, "")
	s = foldAccents(s)

	s = apply(s, n.markers)
	s = apply(s, n.spelling)
	s = apply(s, n.spacing)

	return collapse(s)
}

func apply(s string, rewrites []compiledRewrite) string {
	for _, rw := range rewrites {
		s = rw.re.ReplaceAllString(s, rw.Replace)
	}
	return s
}

func collapse(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// foldAccents strips combining marks, turning É into E.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
