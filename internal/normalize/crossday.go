package normalize

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/muhamm-ad/rpasign/internal/common"
	"github.com/muhamm-ad/rpasign/internal/model"
)

var (
	// 17H MAR A 17H MER
	timeFirstRe = regexp.MustCompile(`(` + model.TimePattern + `)\s+([A-Z]{3,9})\s*` + model.ConnectorPattern +
		`\s*(` + model.TimePattern + `)\s+([A-Z]{3,9})\b`)
	// MAR 17H A MER 17H
	dayFirstRe = regexp.MustCompile(`\b([A-Z]{3,9})\s+(` + model.TimePattern + `)\s*` + model.ConnectorPattern +
		`\s*([A-Z]{3,9})\s+(` + model.TimePattern + `)`)

	clauseGapRe  = regexp.MustCompile(`^(?:[\s;+-]|\bET\b)*$`)
	sepEdgeRe    = regexp.MustCompile(`^(?:[\s;+-]|\bET\b)+|(?:[\s;+-]|\bET\b)+$`)
	carryRe      = regexp.MustCompile(`^((?:\\P|` + model.DurationPattern + `|\s)*)(.*)$`)
	timeSpanRe   = regexp.MustCompile(`\b` + model.TimePattern + `\s*` + model.ConnectorPattern + `\s*` + model.TimePattern)
	dayMentionRe = regexp.MustCompile(wordAlternation(dayMentionLiterals()))
	exceptRe     = regexp.MustCompile(wordAlternation(model.WeekExprAllTimesExcept.Literals()))

	notDayWords = map[string]bool{
		"JUSQU": true, "JUSQUA": true, "HEURE": true, "HEURES": true, "HRES": true,
		"MIN": true, "MINUTE": true, "MINUTES": true, "MAX": true,
	}
)

// dayMentionLiterals lists the day names and keywords that qualify a
// window, leaving out the except keyword.
func dayMentionLiterals() []string {
	var lits []string
	for _, lit := range append(model.WeekdayLiterals(), model.WeekExprLiterals()...) {
		if expr, ok := model.LookupWeekExpr(lit); ok && expr == model.WeekExprAllTimesExcept {
			continue
		}
		lits = append(lits, lit)
	}
	return lits
}

func wordAlternation(lits []string) string {
	quoted := make([]string, len(lits))
	for i, lit := range lits {
		quoted[i] = regexp.QuoteMeta(lit)
	}
	return `\b(?:` + strings.Join(quoted, "|") + `)\b`
}

// crossDayClause is one "TIME DAY to TIME DAY" window.
type crossDayClause struct {
	fromTime model.TimeOfDay
	toTime   model.TimeOfDay
	fromDay  time.Weekday
	toDay    time.Weekday
	start    int
	end      int
}

// expandCrossDay rewrites every cross-day window of s into one fragment per
// day. Text outside the windows is kept: a leading no-parking marker or
// duration is repeated on every fragment, trailing text is appended to each.
func expandCrossDay(s string) (string, error) {
	clauses, err := findCrossDayClauses(s)
	if err != nil || len(clauses) == 0 {
		return s, err
	}

	lead := carryRe.FindStringSubmatch(s[:clauses[0].start])
	carry := collapse(lead[1])
	rest := trimSeparators(lead[2])

	var trailing []string
	for i := 1; i < len(clauses); i++ {
		gap := s[clauses[i-1].end:clauses[i].start]
		if !clauseGapRe.MatchString(gap) {
			trailing = append(trailing, trimSeparators(gap))
		}
	}
	trailing = append(trailing, trimSeparators(s[clauses[len(clauses)-1].end:]))
	suffix := joinNonEmpty(trailing...)

	var fragments []string
	if rest != "" {
		fragments = append(fragments, joinNonEmpty(carry, rest))
	}
	for _, c := range clauses {
		for _, w := range c.perDay() {
			fragments = append(fragments, joinNonEmpty(carry, w, suffix))
		}
	}
	return strings.Join(fragments, RuleSeparator), nil
}

// findCrossDayClauses tries the time-first syntax, then the day-first one.
func findCrossDayClauses(s string) ([]crossDayClause, error) {
	for _, timeFirst := range []bool{true, false} {
		re := dayFirstRe
		if timeFirst {
			re = timeFirstRe
		}

		var clauses []crossDayClause
		for _, m := range re.FindAllStringSubmatchIndex(s, -1) {
			group := func(i int) string { return s[m[2*i]:m[2*i+1]] }

			fromTime, fromWord, toTime, toWord := group(1), group(2), group(3), group(4)
			if !timeFirst {
				fromWord, fromTime, toWord, toTime = group(1), group(2), group(3), group(4)
			}
			if isNotDayWord(fromWord) || isNotDayWord(toWord) {
				continue
			}

			c, err := newCrossDayClause(fromTime, fromWord, toTime, toWord)
			if err != nil {
				return nil, err
			}
			c.start, c.end = m[0], m[1]
			clauses = append(clauses, c)
		}

		if len(clauses) > 0 {
			return clauses, nil
		}
	}
	return nil, nil
}

func newCrossDayClause(fromTime, fromWord, toTime, toWord string) (crossDayClause, error) {
	var c crossDayClause
	var ok bool
	var err error

	if c.fromDay, ok = model.LookupWeekday(fromWord); !ok {
		return c, common.NewFormatError(common.KindWeekday, fromWord)
	}
	if c.toDay, ok = model.LookupWeekday(toWord); !ok {
		return c, common.NewFormatError(common.KindWeekday, toWord)
	}
	if c.fromTime, err = model.ParseTimeOfDay(fromTime); err != nil {
		return c, err
	}
	if c.toTime, err = model.ParseTimeOfDay(toTime); err != nil {
		return c, err
	}
	return c, nil
}

// isNotDayWord reports words the clause patterns can capture that are
// clearly not meant as day names.
func isNotDayWord(w string) bool {
	if notDayWords[w] {
		return true
	}
	if _, ok := model.LookupMonth(w); ok {
		return true
	}
	_, ok := model.LookupWeekExpr(w)
	return ok
}

// perDay returns the same-day windows covering the clause.
func (c crossDayClause) perDay() []string {
	if c.fromDay == c.toDay && c.fromTime.Compare(c.toTime) <= 0 {
		return []string{window(c.fromTime, c.toTime, c.fromDay)}
	}

	out := []string{window(c.fromTime, model.EndOfDay, c.fromDay)}
	for d := (c.fromDay + 1) % 7; d != c.toDay; d = (d + 1) % 7 {
		out = append(out, window(model.StartOfDay, model.EndOfDay, d))
	}
	if c.toTime != model.StartOfDay {
		out = append(out, window(model.StartOfDay, c.toTime, c.toDay))
	}
	return out
}

func window(from, to model.TimeOfDay, day time.Weekday) string {
	return from.Token() + "-" + to.Token() + " " + model.WeekdayToken(day)
}

type mentionKind int

const (
	spanMention mentionKind = iota + 1
	dayMention
)

// mentionRun is a stretch of consecutive time spans, or of consecutive day
// mentions, starting at byte offset start.
type mentionRun struct {
	kind  mentionKind
	start int
}

// mentionRuns returns the runs of frag in order. Runs alternate in kind.
func mentionRuns(frag string) []mentionRun {
	type mention struct {
		kind       mentionKind
		start, end int
	}

	var mentions []mention
	for _, m := range timeSpanRe.FindAllStringIndex(frag, -1) {
		mentions = append(mentions, mention{kind: spanMention, start: m[0], end: m[1]})
	}
	for _, m := range dayMentionRe.FindAllStringIndex(frag, -1) {
		mentions = append(mentions, mention{kind: dayMention, start: m[0], end: m[1]})
	}
	slices.SortFunc(mentions, func(a, b mention) int { return cmp.Compare(a.start, b.start) })

	var runs []mentionRun
	covered := 0
	for _, m := range mentions {
		if m.start < covered {
			continue
		}
		covered = m.end
		if len(runs) > 0 && runs[len(runs)-1].kind == m.kind {
			continue
		}
		runs = append(runs, mentionRun{kind: m.kind, start: m.start})
	}
	return runs
}

// splitClauses breaks a fragment listing several windows that each name
// their own days into one fragment per window. Clauses may be written times
// first ("09H-12H LUN 13H-17H MAR") or days first ("LUN 9H-17H ET MAR
// 10H-16H"), with or without a separator between them; whichever comes first
// in the fragment opens every clause. A window without days of its own stays
// with the clause before it.
func splitClauses(frag string) []string {
	if exceptRe.MatchString(frag) {
		return []string{frag}
	}

	runs := mentionRuns(frag)
	var cuts []int
	for i := 2; i+1 < len(runs); i += 2 {
		cuts = append(cuts, runs[i].start)
	}
	if len(cuts) == 0 {
		return []string{frag}
	}

	pieces := make([]string, 0, len(cuts)+1)
	prev := 0
	for _, cut := range append(cuts, len(frag)) {
		pieces = append(pieces, trimSeparators(frag[prev:cut]))
		prev = cut
	}

	carry := collapse(carryRe.FindStringSubmatch(pieces[0])[1])
	for i := 1; i < len(pieces); i++ {
		if carry != "" && !strings.HasPrefix(pieces[i], carry) {
			pieces[i] = carry + " " + pieces[i]
		}
	}
	return pieces
}

func trimSeparators(s string) string {
	return strings.TrimSpace(sepEdgeRe.ReplaceAllString(s, ""))
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
