package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRule(t *testing.T) SignRule {
	t.Helper()

	times, err := ResolveTimeRange(tod(22, 0), tod(6, 0))
	require.NoError(t, err)
	months, err := ResolveMonthRange(md(time.April, 1), md(time.November, 30))
	require.NoError(t, err)

	meta := "PANONCEAU 2 X 3"
	return NewSignRule(RuleSpec{
		Metadata:          &meta,
		Durations:         []Duration{60},
		DailyTimeRanges:   times,
		AnnualMonthRanges: months,
		WeeklyDays:        NewWeekdaySet(time.Friday, time.Saturday),
		ParkingAuthorized: false,
	})
}

func TestSignRule_Export(t *testing.T) {
	r := sampleRule(t)

	want := map[string]any{
		"parking_authorized": false,
		"durations":          []int{60},
		"daily_time_ranges": []map[string]any{
			{"start": "22:00", "end": "23:59"},
			{"start": "00:00", "end": "06:00"},
		},
		"weekly_days": []string{"Friday", "Saturday"},
		"annual_month_ranges": []map[string]any{
			{"start": "04-01", "end": "11-30"},
		},
		"additional_metadata": "PANONCEAU 2 X 3",
	}
	if diff := cmp.Diff(want, r.Export()); diff != "" {
		t.Errorf("Export() mismatch (-want +got):\n%s", diff)
	}
}

func TestSignRule_JSONRoundTrip(t *testing.T) {
	r := sampleRule(t)

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var back SignRule
	require.NoError(t, json.Unmarshal(data, &back))

	assert.Equal(t, r.Export(), back.Export())
	md, ok := back.Metadata()
	assert.True(t, ok)
	assert.Equal(t, "PANONCEAU 2 X 3", md)
}

func TestSignRule_UnmarshalRejectsInvalid(t *testing.T) {
	var r SignRule
	err := json.Unmarshal([]byte(`{"daily_time_ranges":[{"start":"17:00","end":"09:00"}]}`), &r)
	assert.ErrorIs(t, err, ErrRangeOrder)

	err = json.Unmarshal([]byte(`{"annual_month_ranges":[{"start":"02-30","end":"03-01"}]}`), &r)
	assert.Error(t, err)
}

func TestSignRule_AccessorsReturnCopies(t *testing.T) {
	r := sampleRule(t)

	d := r.Durations()
	d[0] = 5
	assert.Equal(t, Duration(60), r.Durations()[0])

	days := r.WeeklyDays()
	days.Add(time.Monday)
	assert.Equal(t, 2, r.WeeklyDays().Len())
}

func TestSignDesc_Metadata(t *testing.T) {
	a, b := "ZONE 12", "ZONE 12"
	desc := SignDesc{
		Rules: []SignRule{
			NewSignRule(RuleSpec{Metadata: &a}),
			NewSignRule(RuleSpec{}),
			NewSignRule(RuleSpec{Metadata: &b}),
		},
	}

	assert.Equal(t, []string{"ZONE 12", "ZONE 12"}, desc.Metadata())
	assert.Len(t, desc.Export()["rules"], 3)
}
