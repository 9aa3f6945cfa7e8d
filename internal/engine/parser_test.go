package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhamm-ad/rpasign/internal/common"
	"github.com/muhamm-ad/rpasign/internal/model"
	"github.com/muhamm-ad/rpasign/internal/pattern"
)

// windows renders time ranges as "HH:MM-HH:MM" strings for comparison.
func windows(rs []model.DailyTimeRange) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.String()
	}
	return out
}

func monthWindows(rs []model.AnnualMonthRange) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.String()
	}
	return out
}

func TestParse_CrossDayWindow(t *testing.T) {
	desc, err := Parse("17H MAR A 17H MER")
	require.NoError(t, err)
	require.Len(t, desc.Rules, 2)

	tue, wed := desc.Rules[0], desc.Rules[1]
	assert.Equal(t, []string{"17:00-23:59"}, windows(tue.DailyTimeRanges()))
	assert.Equal(t, []time.Weekday{time.Tuesday}, tue.WeeklyDays().Days())
	assert.Equal(t, []string{"00:00-17:00"}, windows(wed.DailyTimeRanges()))
	assert.Equal(t, []time.Weekday{time.Wednesday}, wed.WeeklyDays().Days())

	for _, r := range desc.Rules {
		assert.Empty(t, r.Durations())
		assert.Empty(t, r.AnnualMonthRanges())
	}
	assert.Equal(t, "17H MAR A 17H MER", desc.RawText)
	assert.Equal(t, "17H00-23H59 MAR | 00H00-17H00 MER", desc.CleanedText)
}

func TestParse_DurationOnly(t *testing.T) {
	desc, err := Parse("15 MIN")
	require.NoError(t, err)
	require.Len(t, desc.Rules, 1)

	r := desc.Rules[0]
	assert.Equal(t, []model.Duration{15}, r.Durations())
	assert.Empty(t, r.DailyTimeRanges())
	assert.Equal(t, 0, r.WeeklyDays().Len())
	assert.Empty(t, r.AnnualMonthRanges())
	assert.True(t, r.ParkingAuthorized())
	_, ok := r.Metadata()
	assert.False(t, ok)
}

func TestParse_ExceptInvertsDays(t *testing.T) {
	desc, err := Parse(`\P EXCEPTE 09H-17H LUNDI`)
	require.NoError(t, err)
	require.Len(t, desc.Rules, 1)

	r := desc.Rules[0]
	assert.True(t, r.ParkingAuthorized())
	assert.Equal(t, []string{"09:00-17:00"}, windows(r.DailyTimeRanges()))
	assert.Equal(t,
		[]time.Weekday{time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday},
		r.WeeklyDays().Days())
}

func TestParse_FullYear(t *testing.T) {
	desc, err := Parse("01 JAN - 31 DEC")
	require.NoError(t, err)
	require.Len(t, desc.Rules, 1)
	assert.Equal(t, []string{"01-01-12-31"}, monthWindows(desc.Rules[0].AnnualMonthRanges()))
}

func TestParse_CrossDaySyntaxesAgree(t *testing.T) {
	export := func(t *testing.T, raw string) []map[string]any {
		t.Helper()
		desc, err := Parse(raw)
		require.NoError(t, err)
		out := make([]map[string]any, len(desc.Rules))
		for i, r := range desc.Rules {
			out[i] = r.Export()
		}
		return out
	}

	timeFirst := export(t, "17H MAR A 17H MER")
	dayFirst := export(t, "MAR 17H A MER 17H")
	if diff := cmp.Diff(timeFirst, dayFirst); diff != "" {
		t.Errorf("day-first syntax mismatch (-time-first +day-first):\n%s", diff)
	}

	multi := export(t, "17H MAR A 17H MER ET 22H JEU A 6H VEN")
	single := append(export(t, "17H MAR A 17H MER"), export(t, "JEU 22H A VEN 6H")...)
	if diff := cmp.Diff(single, multi); diff != "" {
		t.Errorf("multi-clause syntax mismatch (-separate +multi):\n%s", diff)
	}
}

func TestParse_ClauseListsKeepTheirDays(t *testing.T) {
	type window struct {
		times []string
		days  []time.Weekday
	}

	tests := []struct {
		name       string
		input      string
		authorized bool
		want       []window
	}{
		{
			name:       "times first with comma",
			input:      "09H-12H LUN, 13H-17H MAR",
			authorized: true,
			want: []window{
				{times: []string{"09:00-12:00"}, days: []time.Weekday{time.Monday}},
				{times: []string{"13:00-17:00"}, days: []time.Weekday{time.Tuesday}},
			},
		},
		{
			name:       "days first with connector",
			input:      "LUN 9H-17H ET MAR 10H-16H",
			authorized: true,
			want: []window{
				{times: []string{"09:00-17:00"}, days: []time.Weekday{time.Monday}},
				{times: []string{"10:00-16:00"}, days: []time.Weekday{time.Tuesday}},
			},
		},
		{
			name:       "days first with comma and marker",
			input:      `\P LUN 13H-14H, MAR 14H-15H`,
			authorized: false,
			want: []window{
				{times: []string{"13:00-14:00"}, days: []time.Weekday{time.Monday}},
				{times: []string{"14:00-15:00"}, days: []time.Weekday{time.Tuesday}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := Parse(tt.input)
			require.NoError(t, err)
			require.Len(t, desc.Rules, len(tt.want))

			for i, w := range tt.want {
				r := desc.Rules[i]
				assert.Equal(t, tt.authorized, r.ParkingAuthorized())
				assert.Equal(t, w.times, windows(r.DailyTimeRanges()))
				assert.Equal(t, w.days, r.WeeklyDays().Days())
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  common.FormatKind
	}{
		{name: "empty", input: "   ", kind: common.KindDescription},
		{name: "unknown day in cross-day window", input: "17H MARDO A 17H MER", kind: common.KindWeekday},
		{name: "impossible hour", input: "9H-26H", kind: common.KindTime},
		{name: "impossible date", input: "1 FEV AU 30 FEV", kind: common.KindMonthDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := Parse(tt.input)
			assert.Nil(t, desc)
			require.ErrorIs(t, err, common.ErrInvalidFormat)

			var fe *common.FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.kind, fe.Kind)
		})
	}
}

func TestParser_FragmentPolicy(t *testing.T) {
	const raw = "17H MAR A 17H MER | 9H-26H LUN"

	t.Run("skip keeps siblings", func(t *testing.T) {
		desc, err := New().Parse(raw)
		require.NoError(t, err)
		assert.Len(t, desc.Rules, 2)
		require.Len(t, desc.Failures, 1)
		assert.Equal(t, 2, desc.Failures[0].Index)
		assert.Equal(t, "9H-26H LUN", desc.Failures[0].Fragment)
		assert.Contains(t, desc.Failures[0].Reason, "26H")
	})

	t.Run("abort fails the description", func(t *testing.T) {
		p := NewWithConfig(Config{FragmentPolicy: FragmentPolicyAbort})
		desc, err := p.Parse(raw)
		assert.Nil(t, desc)

		var fragErr *FragmentError
		require.ErrorAs(t, err, &fragErr)
		assert.Equal(t, 2, fragErr.Index)
		assert.Equal(t, "9H-26H LUN", fragErr.Fragment)
		assert.ErrorIs(t, err, common.ErrInvalidFormat)
	})

	t.Run("skip with every fragment bad", func(t *testing.T) {
		_, err := New().Parse("9H-26H LUN | 9H-25H MAR")
		var fragErr *FragmentError
		require.ErrorAs(t, err, &fragErr)
		assert.Equal(t, 0, fragErr.Index)
	})
}

func TestParseFragmentPolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    FragmentPolicy
		wantErr bool
	}{
		{input: "", want: FragmentPolicySkip},
		{input: "skip", want: FragmentPolicySkip},
		{input: " ABORT ", want: FragmentPolicyAbort},
		{input: "retry", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFragmentPolicy(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type failingNormalizer struct{}

func (failingNormalizer) Normalize(string) (string, error) {
	return "", errors.New("boom")
}

func TestParser_NormalizerError(t *testing.T) {
	p := NewWithComponents(failingNormalizer{}, pattern.Default(), Config{})
	assert.Equal(t, FragmentPolicySkip, p.Policy())

	_, err := p.Parse("anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestSignDesc_MetadataAcrossRules(t *testing.T) {
	desc, err := Parse("60 MIN 8H-12H LUN ZONE 12 | 13H-17H MAR ZONE 12")
	require.NoError(t, err)
	assert.Equal(t, []string{"ZONE 12", "ZONE 12"}, desc.Metadata())
}
