package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/muhamm-ad/rpasign/internal/common"
)

// DailyTimeRange is a time-of-day window within a single day.
type DailyTimeRange = Range[TimeOfDay]

// TimeOfDay is a wall-clock time with minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Bounds of the time-of-day domain.
var (
	StartOfDay = TimeOfDay{Hour: 0, Minute: 0}
	EndOfDay   = TimeOfDay{Hour: 23, Minute: 59}
)

// TimePattern matches one sign time such as 9H, 09H30 or 9:30.
const TimePattern = `\d{1,2}\s?[H:](?:\d{2})?`

// ConnectorPattern matches the French "to" connectors between two bounds.
const ConnectorPattern = `(?:-|(?:AU|A|JUSQU'? ?A)\b)`

var (
	timeRe     = regexp.MustCompile(`^(\d{1,2})\s?[H:]\s?(\d{2})?$`)
	timeSpanRe = regexp.MustCompile(`^(` + TimePattern + `)\s*` + ConnectorPattern + `\s*(` + TimePattern + `)$`)
	isoTimeRe  = regexp.MustCompile(`^(\d{2}):(\d{2})$`)
)

// NewTimeOfDay validates hour and minute against the 24-hour clock.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, common.NewFormatError(common.KindCalendar, fmt.Sprintf("%02d:%02d", hour, minute))
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// ParseTimeOfDay parses a sign time. 24H denotes the end of the day and maps
// to 23:59.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)

	m := timeRe.FindStringSubmatch(s)
	if m == nil {
		m = isoTimeRe.FindStringSubmatch(s)
	}
	if m == nil {
		return TimeOfDay{}, common.NewFormatError(common.KindTime, s)
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}

	if hour == 24 && minute == 0 {
		return EndOfDay, nil
	}

	t, err := NewTimeOfDay(hour, minute)
	if err != nil {
		return TimeOfDay{}, common.WrapFormatError(common.KindTime, s, err)
	}
	return t, nil
}

// ParseTimeSpan splits "09H-17H" style text into its two bounds without
// ordering them.
func ParseTimeSpan(s string) (TimeOfDay, TimeOfDay, error) {
	s = strings.TrimSpace(s)

	m := timeSpanRe.FindStringSubmatch(s)
	if m == nil {
		return TimeOfDay{}, TimeOfDay{}, common.NewFormatError(common.KindTime, s)
	}

	start, err := ParseTimeOfDay(m[1])
	if err != nil {
		return TimeOfDay{}, TimeOfDay{}, err
	}
	end, err := ParseTimeOfDay(m[2])
	if err != nil {
		return TimeOfDay{}, TimeOfDay{}, err
	}
	return start, end, nil
}

// ResolveTimeRange builds the daily windows for a start/end pair, splitting
// windows that cross midnight.
func ResolveTimeRange(start, end TimeOfDay) ([]DailyTimeRange, error) {
	return Resolve(start, end, StartOfDay, EndOfDay)
}

// Compare orders times within a day.
func (t TimeOfDay) Compare(other TimeOfDay) int {
	return t.Minutes() - other.Minutes()
}

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Token renders the time the way signs write it, e.g. 09H30.
func (t TimeOfDay) Token() string {
	return fmt.Sprintf("%02dH%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
