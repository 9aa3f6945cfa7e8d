// Package pattern extracts the rule components of a normalized sign
// description: maximum stays, daily time ranges, weekly days and annual
// month ranges, plus whatever text none of them claimed.
package pattern

// Extractor splits normalized description text into rule components.
type Extractor interface {
	// Extract scans text with every configured pattern, in priority order.
	Extract(text string) Components
}

// Category identifies the rule component a pattern extracts.
type Category string

const (
	// CategoryDuration matches maximum stays such as 15 MIN.
	CategoryDuration Category = "duration"
	// CategoryTimeRange matches daily windows such as 09H-17H.
	CategoryTimeRange Category = "daily_time_range"
	// CategoryWeekdays matches days, day ranges and week keywords.
	CategoryWeekdays Category = "weekly_days"
	// CategoryMonthRange matches annual windows such as 1 AVRIL AU 30 NOV.
	CategoryMonthRange Category = "annual_month_range"
)

// ItemSeparator joins several matches of one category.
const ItemSeparator = ";"

// Components holds the canonical text of each category, with multiple
// matches joined by ItemSeparator. Metadata is nil when nothing meaningful
// is left over.
type Components struct {
	Metadata    *string
	Duration    string
	TimeRanges  string
	Weekdays    string
	MonthRanges string
}

// Get returns the extracted text for category.
func (c Components) Get(category Category) string {
	switch category {
	case CategoryDuration:
		return c.Duration
	case CategoryTimeRange:
		return c.TimeRanges
	case CategoryWeekdays:
		return c.Weekdays
	case CategoryMonthRange:
		return c.MonthRanges
	default:
		return ""
	}
}

func (c *Components) set(category Category, value string) {
	switch category {
	case CategoryDuration:
		c.Duration = value
	case CategoryTimeRange:
		c.TimeRanges = value
	case CategoryWeekdays:
		c.Weekdays = value
	case CategoryMonthRange:
		c.MonthRanges = value
	}
}
