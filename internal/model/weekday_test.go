package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/muhamm-ad/rpasign/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdaySet(t *testing.T) {
	var s WeekdaySet
	assert.True(t, s.Add(time.Friday))
	assert.True(t, s.Add(time.Monday))
	assert.False(t, s.Add(time.Friday), "duplicates are rejected")

	assert.Equal(t, []time.Weekday{time.Friday, time.Monday}, s.Days())
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(time.Monday))
	assert.False(t, s.Contains(time.Sunday))

	other := NewWeekdaySet(time.Monday, time.Friday)
	assert.True(t, s.Equal(other), "equality ignores insertion order")
	assert.Equal(t, "VEN LUN", s.String())

	comp := s.Complement()
	assert.Equal(t, []time.Weekday{time.Tuesday, time.Wednesday, time.Thursday, time.Saturday, time.Sunday}, comp.Days())
}

func TestWeekdaySet_CopiesDoNotAlias(t *testing.T) {
	base := NewWeekdaySet(time.Monday, time.Tuesday)
	a := base
	b := base
	a.Add(time.Wednesday)
	b.Add(time.Sunday)

	assert.Equal(t, []time.Weekday{time.Monday, time.Tuesday, time.Wednesday}, a.Days())
	assert.Equal(t, []time.Weekday{time.Monday, time.Tuesday, time.Sunday}, b.Days())
}

func TestBuildWeekdays(t *testing.T) {
	tests := []struct {
		name       string
		expr       string
		wantDays   []time.Weekday
		wantExcept bool
	}{
		{
			name:     "simple range",
			expr:     "LUN-JEU",
			wantDays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday},
		},
		{
			name:     "range wraps across the week",
			expr:     "VEN-LUN",
			wantDays: []time.Weekday{time.Friday, time.Saturday, time.Sunday, time.Monday},
		},
		{
			name:     "single range day",
			expr:     "MER-MER",
			wantDays: []time.Weekday{time.Wednesday},
		},
		{
			name:     "insertion order follows items",
			expr:     "VEN;LUNDI;MER",
			wantDays: []time.Weekday{time.Friday, time.Monday, time.Wednesday},
		},
		{
			name:     "all times",
			expr:     "EN_TOUT_TEMPS",
			wantDays: CalendarWeek,
		},
		{
			name:     "school days",
			expr:     "JOURS_ECOLE",
			wantDays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		},
		{
			name:     "week end with a duplicate",
			expr:     "SAM;FIN_DE_SEMAINE",
			wantDays: []time.Weekday{time.Saturday, time.Sunday},
		},
		{
			name:       "except carries explicit days",
			expr:       "EN_TOUT_TEMPS_EXCEPTE;LUN;VEN",
			wantDays:   []time.Weekday{time.Monday, time.Friday},
			wantExcept: true,
		},
		{
			name:       "except anywhere in the list",
			expr:       "SAM-DIM;EXCEPTE",
			wantDays:   []time.Weekday{time.Saturday, time.Sunday},
			wantExcept: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildWeekdays(tt.expr)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.wantDays, got.Days.Days()); diff != "" {
				t.Errorf("BuildWeekdays(%q) days mismatch (-want +got):\n%s", tt.expr, diff)
			}
			assert.Equal(t, tt.wantExcept, got.Except)
		})
	}
}

func TestBuildWeekdays_ExceptOperativeSet(t *testing.T) {
	got, err := BuildWeekdays("EN_TOUT_TEMPS_EXCEPTE;LUN;VEN")
	require.NoError(t, err)
	require.True(t, got.Except)

	op := got.Operative()
	assert.Equal(t, 5, op.Len())
	assert.Equal(t, []time.Weekday{time.Tuesday, time.Wednesday, time.Thursday, time.Saturday, time.Sunday}, op.Days())
}

func TestBuildWeekdays_Errors(t *testing.T) {
	for _, expr := range []string{"", "  ", "LUN;;VEN", "LUNX", "LUN-XYZ", "LUN;BOF"} {
		t.Run(expr, func(t *testing.T) {
			_, err := BuildWeekdays(expr)
			var fe *common.FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, common.KindWeekday, fe.Kind)
		})
	}
}

func TestWeekdaySet_JSON(t *testing.T) {
	s := NewWeekdaySet(time.Saturday, time.Sunday, time.Monday)
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["Saturday","Sunday","Monday"]`, string(data))

	var back WeekdaySet
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s.Days(), back.Days())

	assert.Error(t, json.Unmarshal([]byte(`["Caturday"]`), &back))
}

func TestLookupWeekExpr(t *testing.T) {
	expr, ok := LookupWeekExpr("EN TOUT TEMPS EXCEPTE")
	require.True(t, ok)
	assert.Equal(t, WeekExprAllTimesExcept, expr)
	assert.Equal(t, "EN_TOUT_TEMPS_EXCEPTE", expr.Token())

	_, ok = LookupWeekExpr("LUN")
	assert.False(t, ok)

	lits := WeekExprLiterals()
	require.NotEmpty(t, lits)
	for i := 1; i < len(lits); i++ {
		assert.GreaterOrEqual(t, len(lits[i-1]), len(lits[i]))
	}
}

func TestIsBareExcept(t *testing.T) {
	for _, lit := range WeekExprAllTimesExcept.Literals() {
		assert.Equal(t, !strings.Contains(lit, "TEMPS"), IsBareExcept(lit), lit)
	}
	assert.False(t, IsBareExcept("LUN"))
	assert.True(t, IsBareExcept(" SAUF "))
}
