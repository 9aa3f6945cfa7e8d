package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/muhamm-ad/rpasign/internal/common"
)

// AnnualMonthRange is a window of calendar days within one year.
type AnnualMonthRange = Range[MonthDay]

// referenceYear is the non-leap year month-days are validated against.
const referenceYear = 2001

// MonthDay is a day of the year without a year.
type MonthDay struct {
	Month time.Month
	Day   int
}

// Bounds of the month-day domain.
var (
	FirstDayOfYear = MonthDay{Month: time.January, Day: 1}
	LastDayOfYear  = MonthDay{Month: time.December, Day: 31}
)

// DayNumberPattern matches a day of month, including the French ordinal 1ER.
const DayNumberPattern = `\d{1,2}(?:ER)?`

var (
	monthDayRe  = regexp.MustCompile(`^(?:(\d{1,2})(?:ER)?\s*)?([A-Z]+)$`)
	monthSpanRe = regexp.MustCompile(`^(.+?)\s*` + ConnectorPattern + `\s*(.+)$`)
	isoDayRe    = regexp.MustCompile(`^(\d{2})-(\d{2})$`)
)

// NewMonthDay validates day against the length of month in a non-leap year.
func NewMonthDay(month time.Month, day int) (MonthDay, error) {
	if month < time.January || month > time.December || day < 1 || day > DaysIn(month) {
		return MonthDay{}, common.NewFormatError(common.KindCalendar, fmt.Sprintf("%02d-%02d", int(month), day))
	}
	return MonthDay{Month: month, Day: day}, nil
}

// DaysIn returns the number of days in month for the reference year.
func DaysIn(month time.Month) int {
	return time.Date(referenceYear, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseMonthDay parses "1ER AVRIL" or "15 NOV". A bare month resolves to its
// first day, or to its last day when asEnd is set.
func ParseMonthDay(s string, asEnd bool) (MonthDay, error) {
	s = strings.TrimSpace(s)

	m := monthDayRe.FindStringSubmatch(s)
	if m == nil {
		return MonthDay{}, common.NewFormatError(common.KindMonthDay, s)
	}

	month, ok := LookupMonth(m[2])
	if !ok {
		return MonthDay{}, common.NewFormatError(common.KindMonthDay, s)
	}

	day := 1
	switch {
	case m[1] != "":
		day, _ = strconv.Atoi(m[1])
	case asEnd:
		day = DaysIn(month)
	}

	md, err := NewMonthDay(month, day)
	if err != nil {
		return MonthDay{}, common.WrapFormatError(common.KindMonthDay, s, err)
	}
	return md, nil
}

// ParseMonthSpan splits "1 AVRIL-30 NOV" style text into its two bounds
// without ordering them.
func ParseMonthSpan(s string) (MonthDay, MonthDay, error) {
	s = strings.TrimSpace(s)

	m := monthSpanRe.FindStringSubmatch(s)
	if m == nil {
		return MonthDay{}, MonthDay{}, common.NewFormatError(common.KindMonthDay, s)
	}

	start, err := ParseMonthDay(m[1], false)
	if err != nil {
		return MonthDay{}, MonthDay{}, err
	}
	end, err := ParseMonthDay(m[2], true)
	if err != nil {
		return MonthDay{}, MonthDay{}, err
	}
	return start, end, nil
}

// ResolveMonthRange builds the annual windows for a start/end pair, splitting
// windows that cross the new year.
func ResolveMonthRange(start, end MonthDay) ([]AnnualMonthRange, error) {
	return Resolve(start, end, FirstDayOfYear, LastDayOfYear)
}

// parseISOMonthDay parses the MM-DD form produced by String.
func parseISOMonthDay(s string) (MonthDay, error) {
	m := isoDayRe.FindStringSubmatch(s)
	if m == nil {
		return MonthDay{}, common.NewFormatError(common.KindMonthDay, s)
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	return NewMonthDay(time.Month(month), day)
}

// Compare orders month-days within a year.
func (d MonthDay) Compare(other MonthDay) int {
	if d.Month != other.Month {
		return int(d.Month) - int(other.Month)
	}
	return d.Day - other.Day
}

// Token renders the month-day the way signs write it, e.g. 1 AVRIL.
func (d MonthDay) Token() string {
	return fmt.Sprintf("%d %s", d.Day, MonthToken(d.Month))
}

func (d MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(d.Month), d.Day)
}
