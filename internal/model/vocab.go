// Package model defines the structured parking-rule model compiled from RPA
// sign descriptions, and the French vocabulary tables it is parsed from.
package model

import (
	"sort"
	"strings"
	"time"
)

// NoParkingMarker is the canonical token meaning parking is forbidden for the
// rest of a rule fragment.
const NoParkingMarker = `\P`

// weekdayTokens maps French day names and abbreviations to weekdays.
var weekdayTokens = map[string]time.Weekday{
	"LUN": time.Monday, "LUNDI": time.Monday,
	"MAR": time.Tuesday, "MARDI": time.Tuesday,
	"MER": time.Wednesday, "MERCREDI": time.Wednesday,
	"JEU": time.Thursday, "JEUDI": time.Thursday,
	"VEN": time.Friday, "VENDREDI": time.Friday,
	"SAM": time.Saturday, "SAMEDI": time.Saturday,
	"DIM": time.Sunday, "DIMANCHE": time.Sunday,
}

// weekdayAbbrev is the canonical abbreviation of each weekday, indexed by time.Weekday.
var weekdayAbbrev = [7]string{"DIM", "LUN", "MAR", "MER", "JEU", "VEN", "SAM"}

// monthTokens maps French month names and abbreviations to months. MAR is
// deliberately absent: on signs it always means MARDI.
var monthTokens = map[string]time.Month{
	"JANVIER": time.January, "JANV": time.January, "JAN": time.January,
	"FEVRIER": time.February, "FEVR": time.February, "FEV": time.February,
	"MARS":  time.March,
	"AVRIL": time.April, "AVR": time.April,
	"MAI":  time.May,
	"JUIN": time.June,
	"JUILLET": time.July, "JUIL": time.July,
	"AOUT":      time.August,
	"SEPTEMBRE": time.September, "SEPT": time.September, "SEP": time.September,
	"OCTOBRE": time.October, "OCT": time.October,
	"NOVEMBRE": time.November, "NOV": time.November,
	"DECEMBRE": time.December, "DEC": time.December,
}

// monthAbbrev is the canonical abbreviation of each month, indexed by time.Month.
var monthAbbrev = [13]string{"", "JAN", "FEV", "MARS", "AVRIL", "MAI", "JUIN", "JUIL", "AOUT", "SEPT", "OCT", "NOV", "DEC"}

// LookupWeekday resolves a French day token.
func LookupWeekday(tok string) (time.Weekday, bool) {
	d, ok := weekdayTokens[strings.TrimSpace(tok)]
	return d, ok
}

// WeekdayToken returns the canonical French abbreviation of d.
func WeekdayToken(d time.Weekday) string {
	return weekdayAbbrev[d%7]
}

// LookupMonth resolves a French month token.
func LookupMonth(tok string) (time.Month, bool) {
	m, ok := monthTokens[strings.TrimSpace(tok)]
	return m, ok
}

// MonthToken returns the canonical French abbreviation of m.
func MonthToken(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthAbbrev[m]
}

// WeekdayLiterals returns every recognized day token, longest first.
func WeekdayLiterals() []string {
	return longestFirst(weekdayTokens)
}

// MonthLiterals returns every recognized month token, longest first.
func MonthLiterals() []string {
	return longestFirst(monthTokens)
}

func longestFirst[V any](table map[string]V) []string {
	out := make([]string, 0, len(table))
	for k := range table {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}
