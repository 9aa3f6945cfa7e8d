package pattern

import (
	"regexp"
	"strings"

	"github.com/muhamm-ad/rpasign/internal/model"
)

// DefaultPatterns returns the component patterns for Montreal RPA text.
// Earlier categories claim ambiguous text first.
func DefaultPatterns() []Pattern {
	day := alternation(model.WeekdayLiterals())
	month := alternation(model.MonthLiterals())

	return []Pattern{
		{
			Name:     "Maximum stay",
			Category: CategoryDuration,
			Regex:    `\b` + model.DurationPattern,
			Priority: 100,
		},
		{
			Name:     "Daily time range",
			Category: CategoryTimeRange,
			Regex:    `\b` + model.TimePattern + `\s*` + model.ConnectorPattern + `\s*` + model.TimePattern,
			Priority: 90,
		},
		{
			Name:     "Weekly days",
			Category: CategoryWeekdays,
			Regex: `\b(?:` + alternation(model.WeekExprLiterals()) +
				`|` + day + `\s*` + model.ConnectorPattern + `\s*` + day +
				`|` + day + `)\b`,
			Priority: 80,
			Accept:   exceptFollowedByDays(day),
		},
		{
			Name:     "Annual month range",
			Category: CategoryMonthRange,
			Regex: `(?:\bDU\s+)?\b(?:` + model.DayNumberPattern + `\s*)?` + month + `\b\s*` + model.ConnectorPattern +
				`\s*(?:` + model.DayNumberPattern + `\s*)?` + month + `\b`,
			Priority: 70,
		},
	}
}

func alternation(literals []string) string {
	quoted := make([]string, len(literals))
	for i, lit := range literals {
		quoted[i] = regexp.QuoteMeta(lit)
	}
	return `(?:` + strings.Join(quoted, "|") + `)`
}

// exceptFollowedByDays rejects a bare except literal unless day names or
// nothing follow it, so SAUF AUTOBUS stays metadata.
func exceptFollowedByDays(day string) func(string, int, int) bool {
	daysNext := regexp.MustCompile(`^(?:LES?\s+)?(?:` + day + `|` + alternation(model.WeekExprLiterals()) + `)\b`)

	return func(text string, start, end int) bool {
		if !model.IsBareExcept(text[start:end]) {
			return true
		}
		after := strings.TrimSpace(text[end:])
		return after == "" || daysNext.MatchString(after)
	}
}
