package engine

import (
	"fmt"
	"strings"

	"github.com/muhamm-ad/rpasign/internal/common"
	"github.com/muhamm-ad/rpasign/internal/model"
	"github.com/muhamm-ad/rpasign/internal/pattern"
)

// Assembler builds one SignRule from one normalized rule fragment.
type Assembler struct {
	extractor pattern.Extractor
}

// NewAssembler creates an assembler around extractor.
func NewAssembler(extractor pattern.Extractor) *Assembler {
	return &Assembler{extractor: extractor}
}

var defaultAssembler = NewAssembler(pattern.Default())

// AssembleRule builds a rule from fragment with the default patterns.
func AssembleRule(fragment string) (model.SignRule, error) {
	return defaultAssembler.Assemble(fragment)
}

// Assemble builds a rule from fragment. Parking is authorized unless the
// fragment carries the no-parking marker; an except keyword authorizes it
// on every day it does not list.
func (a *Assembler) Assemble(fragment string) (model.SignRule, error) {
	text, marked := stripMarker(fragment)
	spec := model.RuleSpec{ParkingAuthorized: !marked}

	c := a.extractor.Extract(text)
	spec.Metadata = c.Metadata

	for _, item := range items(c.Duration) {
		d, err := model.ParseDuration(item)
		if err != nil {
			return model.SignRule{}, err
		}
		spec.Durations = append(spec.Durations, d)
	}

	for _, item := range items(c.TimeRanges) {
		start, end, err := model.ParseTimeSpan(item)
		if err != nil {
			return model.SignRule{}, err
		}
		ranges, err := model.ResolveTimeRange(start, end)
		if err != nil {
			return model.SignRule{}, common.WrapFormatError(common.KindRange, item, err)
		}
		spec.DailyTimeRanges = append(spec.DailyTimeRanges, ranges...)
	}

	if c.Weekdays != "" {
		res, err := model.BuildWeekdays(c.Weekdays)
		if err != nil {
			return model.SignRule{}, err
		}
		if res.Except {
			spec.ParkingAuthorized = true
		}
		spec.WeeklyDays = res.Operative()
	}

	for _, item := range items(c.MonthRanges) {
		start, end, err := model.ParseMonthSpan(item)
		if err != nil {
			return model.SignRule{}, err
		}
		ranges, err := model.ResolveMonthRange(start, end)
		if err != nil {
			return model.SignRule{}, common.WrapFormatError(common.KindRange, item, err)
		}
		spec.AnnualMonthRanges = append(spec.AnnualMonthRanges, ranges...)
	}

	return model.NewSignRule(spec), nil
}

// stripMarker removes every standalone no-parking marker from fragment.
func stripMarker(fragment string) (string, bool) {
	fields := strings.Fields(fragment)
	kept := fields[:0]
	found := false
	for _, f := range fields {
		if f == model.NoParkingMarker {
			found = true
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " "), found
}

func items(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, pattern.ItemSeparator)
}

// FragmentError reports a rule fragment that could not be compiled.
type FragmentError struct {
	Err      error
	Fragment string
	Index    int
}

func (e *FragmentError) Error() string {
	return fmt.Sprintf("fragment %d %q: %v", e.Index, e.Fragment, e.Err)
}

func (e *FragmentError) Unwrap() error {
	return e.Err
}
