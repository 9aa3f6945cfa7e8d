package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/muhamm-ad/rpasign/internal/common"
)

// CalendarWeek lists the days of the week in sign order, Monday first.
var CalendarWeek = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// WeekdaySet is a duplicate-free set of weekdays that remembers insertion
// order. Membership alone defines equality.
type WeekdaySet struct {
	order []time.Weekday
	mask  uint8
}

// NewWeekdaySet creates a set from days in the given order.
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s.Add(d)
	}
	return s
}

// Add inserts d and reports whether it was absent.
func (s *WeekdaySet) Add(d time.Weekday) bool {
	bit := uint8(1) << (uint(d) % 7)
	if s.mask&bit != 0 {
		return false
	}
	s.mask |= bit
	s.order = append(slices.Clip(s.order), d)
	return true
}

// AddAll inserts every day of other, in other's order.
func (s *WeekdaySet) AddAll(other WeekdaySet) {
	for _, d := range other.order {
		s.Add(d)
	}
}

// Contains reports membership.
func (s WeekdaySet) Contains(d time.Weekday) bool {
	return s.mask&(uint8(1)<<(uint(d)%7)) != 0
}

// Len returns the number of days.
func (s WeekdaySet) Len() int {
	return len(s.order)
}

// Days returns the days in insertion order.
func (s WeekdaySet) Days() []time.Weekday {
	return slices.Clone(s.order)
}

// Complement returns the days not in s, Monday first.
func (s WeekdaySet) Complement() WeekdaySet {
	var out WeekdaySet
	for _, d := range CalendarWeek {
		if !s.Contains(d) {
			out.Add(d)
		}
	}
	return out
}

// Equal compares membership, ignoring order.
func (s WeekdaySet) Equal(other WeekdaySet) bool {
	return s.mask == other.mask
}

// Names returns the English day names in insertion order.
func (s WeekdaySet) Names() []string {
	names := make([]string, len(s.order))
	for i, d := range s.order {
		names[i] = d.String()
	}
	return names
}

func (s WeekdaySet) String() string {
	toks := make([]string, len(s.order))
	for i, d := range s.order {
		toks[i] = WeekdayToken(d)
	}
	return strings.Join(toks, " ")
}

// MarshalJSON encodes the set as an ordered list of day names.
func (s WeekdaySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// UnmarshalJSON decodes an ordered list of English day names.
func (s *WeekdaySet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}

	*s = WeekdaySet{}
	for _, name := range names {
		d, ok := weekdayByName(name)
		if !ok {
			return fmt.Errorf("unknown weekday %q", name)
		}
		s.Add(d)
	}
	return nil
}

func weekdayByName(name string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return d, true
		}
	}
	return 0, false
}

// WeekExpr is a keyword that stands for a fixed set of days.
type WeekExpr int

// Week keyword expressions.
const (
	WeekExprAllTimes WeekExpr = iota + 1
	WeekExprAllTimesExcept
	WeekExprSchoolDays
	WeekExprWeekEnd
)

// weekExprLiterals lists the sign spellings of each keyword; the first entry
// is the canonical token.
var weekExprLiterals = map[WeekExpr][]string{
	WeekExprAllTimes:       {"EN_TOUT_TEMPS", "EN TOUT TEMPS", "TOUS LES JOURS", "EN TOUS TEMPS"},
	WeekExprAllTimesExcept: {"EN_TOUT_TEMPS_EXCEPTE", "EN TOUT TEMPS EXCEPTE", "EXCEPTE", "EXCEPTES", "SAUF"},
	WeekExprSchoolDays:     {"JOURS_ECOLE", "JOURS D'ECOLE", "JOURS D ECOLE", "JOURS DE CLASSE", "JOURS SCOLAIRES"},
	WeekExprWeekEnd:        {"FIN_DE_SEMAINE", "FIN DE SEMAINE", "WEEK-END", "WEEKEND"},
}

// bareExceptLiterals mean "every day except" only when day names or nothing
// follow them. Otherwise they open an exemption such as SAUF AUTOBUS.
var bareExceptLiterals = []string{"EXCEPTE", "EXCEPTES", "SAUF"}

// IsBareExcept reports whether lit is a short except literal that needs days
// after it to act as the except keyword.
func IsBareExcept(lit string) bool {
	return slices.Contains(bareExceptLiterals, strings.TrimSpace(lit))
}

// Literals returns the sign spellings of the keyword, canonical first.
func (e WeekExpr) Literals() []string {
	return slices.Clone(weekExprLiterals[e])
}

// LookupWeekExpr resolves a keyword literal.
func LookupWeekExpr(tok string) (WeekExpr, bool) {
	tok = strings.TrimSpace(tok)
	for expr, lits := range weekExprLiterals {
		if slices.Contains(lits, tok) {
			return expr, true
		}
	}
	return 0, false
}

// WeekExprLiterals returns every keyword literal, longest first.
func WeekExprLiterals() []string {
	table := make(map[string]WeekExpr)
	for expr, lits := range weekExprLiterals {
		for _, lit := range lits {
			table[lit] = expr
		}
	}
	return longestFirst(table)
}

// Token returns the canonical literal.
func (e WeekExpr) Token() string {
	if lits, ok := weekExprLiterals[e]; ok {
		return lits[0]
	}
	return ""
}

// Days returns the days the keyword stands for. AllTimesExcept contributes
// none of its own.
func (e WeekExpr) Days() WeekdaySet {
	switch e {
	case WeekExprAllTimes:
		return NewWeekdaySet(CalendarWeek...)
	case WeekExprSchoolDays:
		return NewWeekdaySet(CalendarWeek[:5]...)
	case WeekExprWeekEnd:
		return NewWeekdaySet(time.Saturday, time.Sunday)
	default:
		return WeekdaySet{}
	}
}

func (e WeekExpr) String() string {
	return e.Token()
}

// WeekdayResult is the outcome of BuildWeekdays. When Except is set, Days
// holds the days named alongside the except keyword and the rule applies on
// every other day.
type WeekdayResult struct {
	Days   WeekdaySet
	Except bool
}

// Operative returns the days the rule applies on.
func (r WeekdayResult) Operative() WeekdaySet {
	if r.Except {
		return r.Days.Complement()
	}
	return r.Days
}

// BuildWeekdays expands a ";"-separated list of day tokens, "A-B" day ranges
// and keyword literals into a day set.
func BuildWeekdays(expr string) (WeekdayResult, error) {
	if strings.TrimSpace(expr) == "" {
		return WeekdayResult{}, common.NewFormatError(common.KindWeekday, expr)
	}

	var res WeekdayResult
	for _, item := range strings.Split(expr, ";") {
		item = strings.TrimSpace(item)

		if d, ok := LookupWeekday(item); ok {
			res.Days.Add(d)
			continue
		}

		if from, to, ok := splitDayRange(item); ok {
			res.Days.AddAll(WeekdaySpan(from, to))
			continue
		}

		if kw, ok := LookupWeekExpr(item); ok {
			if kw == WeekExprAllTimesExcept {
				res.Except = true
			} else {
				res.Days.AddAll(kw.Days())
			}
			continue
		}

		return WeekdayResult{}, common.NewFormatError(common.KindWeekday, item)
	}

	return res, nil
}

// WeekdaySpan returns the days from..to inclusive walking forward through the
// week, wrapping from Sunday to Monday.
func WeekdaySpan(from, to time.Weekday) WeekdaySet {
	var s WeekdaySet
	for d := from; ; d = (d + 1) % 7 {
		s.Add(d)
		if d == to {
			break
		}
	}
	return s
}

func splitDayRange(item string) (time.Weekday, time.Weekday, bool) {
	a, b, found := strings.Cut(item, "-")
	if !found {
		return 0, 0, false
	}
	from, ok := LookupWeekday(a)
	if !ok {
		return 0, 0, false
	}
	to, ok := LookupWeekday(b)
	if !ok {
		return 0, 0, false
	}
	return from, to, true
}
