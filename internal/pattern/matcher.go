package pattern

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/muhamm-ad/rpasign/internal/model"
)

// Pattern describes how one rule component appears in description text.
type Pattern struct {
	Name     string
	Category Category
	Regex    string
	Priority int // Higher priority patterns are scanned first

	// Accept, when set, vets each match against the text being scanned.
	// Rejected matches stay in the text.
	Accept func(text string, start, end int) bool
}

type compiledPattern struct {
	re *regexp.Regexp
	Pattern
}

// Matcher implements Extractor by scanning text with compiled patterns and
// removing every match before the next pattern runs.
type Matcher struct {
	patterns []compiledPattern
}

// Ensure Matcher implements Extractor.
var _ Extractor = (*Matcher)(nil)

// NewMatcher compiles patterns into a matcher.
func NewMatcher(patterns []Pattern) (*Matcher, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern %s: %w", p.Name, err)
		}
		compiled = append(compiled, compiledPattern{Pattern: p, re: re})
	}

	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].Priority > compiled[j].Priority
	})

	return &Matcher{patterns: compiled}, nil
}

var defaultMatcher = mustDefaultMatcher()

func mustDefaultMatcher() *Matcher {
	m, err := NewMatcher(DefaultPatterns())
	if err != nil {
		panic(err)
	}
	return m
}

// Default returns the matcher compiled from DefaultPatterns.
func Default() *Matcher {
	return defaultMatcher
}

// Extract splits text using the default patterns.
func Extract(text string) Components {
	return defaultMatcher.Extract(text)
}

// Extract records every non-overlapping match of each pattern in canonical
// form and cleans the unclaimed remainder into metadata.
func (m *Matcher) Extract(text string) Components {
	var out Components
	rest := text

	for _, p := range m.patterns {
		spans := p.re.FindAllStringIndex(rest, -1)
		if len(spans) == 0 {
			continue
		}

		items := make([]string, 0, len(spans))
		var b strings.Builder
		last := 0
		for _, span := range spans {
			if p.Accept != nil && !p.Accept(rest, span[0], span[1]) {
				continue
			}
			items = append(items, canonical(p.Category, rest[span[0]:span[1]]))
			b.WriteString(rest[last:span[0]])
			b.WriteByte(' ')
			last = span[1]
		}
		if len(items) == 0 {
			continue
		}
		b.WriteString(rest[last:])
		rest = b.String()

		if prev := out.Get(p.Category); prev != "" {
			items = append([]string{prev}, items...)
		}
		out.set(p.Category, strings.Join(items, ItemSeparator))
	}

	out.Metadata = CleanMetadata(rest)
	return out
}

var (
	dayRangeRe = regexp.MustCompile(`^(\S+?)\s*` + model.ConnectorPattern + `\s*(\S+)$`)
	leadingDu  = regexp.MustCompile(`^DU\s+`)
)

// canonical rewrites a match into the form the model parsers read back.
// Text that cannot be canonicalized is returned as matched so the failure
// surfaces when the rule is assembled.
func canonical(category Category, match string) string {
	match = strings.TrimSpace(match)

	switch category {
	case CategoryDuration:
		if d, err := model.ParseDuration(match); err == nil {
			return d.Token()
		}

	case CategoryTimeRange:
		if start, end, err := model.ParseTimeSpan(match); err == nil {
			return start.Token() + "-" + end.Token()
		}

	case CategoryWeekdays:
		if d, ok := model.LookupWeekday(match); ok {
			return model.WeekdayToken(d)
		}
		if expr, ok := model.LookupWeekExpr(match); ok {
			return expr.Token()
		}
		if r := dayRangeRe.FindStringSubmatch(match); r != nil {
			from, okFrom := model.LookupWeekday(r[1])
			to, okTo := model.LookupWeekday(r[2])
			if okFrom && okTo {
				return model.WeekdayToken(from) + "-" + model.WeekdayToken(to)
			}
		}

	case CategoryMonthRange:
		if start, end, err := model.ParseMonthSpan(leadingDu.ReplaceAllString(match, "")); err == nil {
			return start.Token() + "-" + end.Token()
		}
	}

	return match
}
