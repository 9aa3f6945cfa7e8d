package model

import (
	"encoding/json"
	"fmt"
	"slices"
)

// RuleSpec carries the parts a SignRule is assembled from.
type RuleSpec struct {
	Metadata          *string
	Durations         []Duration
	DailyTimeRanges   []DailyTimeRange
	AnnualMonthRanges []AnnualMonthRange
	WeeklyDays        WeekdaySet
	ParkingAuthorized bool
}

// SignRule is one independently evaluable parking rule compiled from a
// description fragment. It is read-only once built.
type SignRule struct {
	metadata          *string
	durations         []Duration
	dailyTimeRanges   []DailyTimeRange
	annualMonthRanges []AnnualMonthRange
	weeklyDays        WeekdaySet
	parkingAuthorized bool
}

// NewSignRule copies spec into a rule.
func NewSignRule(spec RuleSpec) SignRule {
	r := SignRule{
		durations:         slices.Clone(spec.Durations),
		dailyTimeRanges:   slices.Clone(spec.DailyTimeRanges),
		annualMonthRanges: slices.Clone(spec.AnnualMonthRanges),
		weeklyDays:        NewWeekdaySet(spec.WeeklyDays.Days()...),
		parkingAuthorized: spec.ParkingAuthorized,
	}
	if spec.Metadata != nil {
		md := *spec.Metadata
		r.metadata = &md
	}
	return r
}

// ParkingAuthorized reports whether the rule permits parking.
func (r SignRule) ParkingAuthorized() bool { return r.parkingAuthorized }

// Durations returns the maximum stays.
func (r SignRule) Durations() []Duration { return slices.Clone(r.durations) }

// DailyTimeRanges returns the time-of-day windows.
func (r SignRule) DailyTimeRanges() []DailyTimeRange { return slices.Clone(r.dailyTimeRanges) }

// WeeklyDays returns the days the rule applies on.
func (r SignRule) WeeklyDays() WeekdaySet { return NewWeekdaySet(r.weeklyDays.Days()...) }

// AnnualMonthRanges returns the annual date windows.
func (r SignRule) AnnualMonthRanges() []AnnualMonthRange { return slices.Clone(r.annualMonthRanges) }

// Metadata returns the uninterpreted leftover text, if any.
func (r SignRule) Metadata() (string, bool) {
	if r.metadata == nil {
		return "", false
	}
	return *r.metadata, true
}

// Export returns the rule as a nested map suitable for embedding in a larger
// document.
func (r SignRule) Export() map[string]any {
	durations := make([]int, len(r.durations))
	for i, d := range r.durations {
		durations[i] = d.Minutes()
	}

	times := make([]map[string]any, len(r.dailyTimeRanges))
	for i, tr := range r.dailyTimeRanges {
		times[i] = tr.Export()
	}

	months := make([]map[string]any, len(r.annualMonthRanges))
	for i, mr := range r.annualMonthRanges {
		months[i] = mr.Export()
	}

	var metadata any
	if r.metadata != nil {
		metadata = *r.metadata
	}

	return map[string]any{
		"parking_authorized":  r.parkingAuthorized,
		"durations":           durations,
		"daily_time_ranges":   times,
		"weekly_days":         r.weeklyDays.Names(),
		"annual_month_ranges": months,
		"additional_metadata": metadata,
	}
}

type spanJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ruleJSON struct {
	Metadata          *string    `json:"additional_metadata"`
	Durations         []int      `json:"durations"`
	DailyTimeRanges   []spanJSON `json:"daily_time_ranges"`
	WeeklyDays        WeekdaySet `json:"weekly_days"`
	AnnualMonthRanges []spanJSON `json:"annual_month_ranges"`
	ParkingAuthorized bool       `json:"parking_authorized"`
}

// MarshalJSON encodes the rule with the same field names as Export.
func (r SignRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Export())
}

// UnmarshalJSON decodes a rule written by MarshalJSON, re-validating every value.
func (r *SignRule) UnmarshalJSON(data []byte) error {
	var wire ruleJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	spec := RuleSpec{
		Metadata:          wire.Metadata,
		WeeklyDays:        wire.WeeklyDays,
		ParkingAuthorized: wire.ParkingAuthorized,
	}

	for _, n := range wire.Durations {
		d, err := NewDuration(n)
		if err != nil {
			return err
		}
		spec.Durations = append(spec.Durations, d)
	}

	for _, s := range wire.DailyTimeRanges {
		start, err := ParseTimeOfDay(s.Start)
		if err != nil {
			return err
		}
		end, err := ParseTimeOfDay(s.End)
		if err != nil {
			return err
		}
		tr, err := NewRange(start, end)
		if err != nil {
			return fmt.Errorf("daily time range: %w", err)
		}
		spec.DailyTimeRanges = append(spec.DailyTimeRanges, tr)
	}

	for _, s := range wire.AnnualMonthRanges {
		start, err := parseISOMonthDay(s.Start)
		if err != nil {
			return err
		}
		end, err := parseISOMonthDay(s.End)
		if err != nil {
			return err
		}
		mr, err := NewRange(start, end)
		if err != nil {
			return fmt.Errorf("annual month range: %w", err)
		}
		spec.AnnualMonthRanges = append(spec.AnnualMonthRanges, mr)
	}

	*r = NewSignRule(spec)
	return nil
}
