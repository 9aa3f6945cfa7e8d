package model

import (
	"testing"
	"time"

	"github.com/muhamm-ad/rpasign/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "9H", want: tod(9, 0)},
		{in: "09H30", want: tod(9, 30)},
		{in: "17H", want: tod(17, 0)},
		{in: "9:45", want: tod(9, 45)},
		{in: "24H", want: EndOfDay},
		{in: "24H00", want: EndOfDay},
		{in: "00:00", want: StartOfDay},
		{in: "25H", wantErr: true},
		{in: "12H75", wantErr: true},
		{in: "NOON", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimeSpan(t *testing.T) {
	tests := []struct {
		in        string
		start     TimeOfDay
		end       TimeOfDay
		wantErr   bool
		wantKind  common.FormatKind
		wantToken string
	}{
		{in: "09H-17H", start: tod(9, 0), end: tod(17, 0)},
		{in: "8H30 A 9H30", start: tod(8, 30), end: tod(9, 30)},
		{in: "7H AU 9H", start: tod(7, 0), end: tod(9, 0)},
		{in: "18H-24H", start: tod(18, 0), end: EndOfDay},
		{in: "22H-6H", start: tod(22, 0), end: tod(6, 0)},
		{in: "9H", wantErr: true, wantKind: common.KindTime, wantToken: "9H"},
		{in: "9H-26H", wantErr: true, wantKind: common.KindTime, wantToken: "26H"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			start, end, err := ParseTimeSpan(tt.in)
			if tt.wantErr {
				var fe *common.FormatError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.wantKind, fe.Kind)
				assert.Equal(t, tt.wantToken, fe.Token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "15 MIN", want: 15},
		{in: "120MIN", want: 120},
		{in: "30 MINUTES", want: 30},
		{in: "2 HEURES", want: 120},
		{in: "1 HRE", want: 60},
		{in: "MIN", wantErr: true},
		{in: "15", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Minutes())
		})
	}

	_, err := NewDuration(-1)
	assert.ErrorIs(t, err, common.ErrInvalidFormat)
}

func TestParseMonthDay(t *testing.T) {
	tests := []struct {
		in      string
		asEnd   bool
		want    MonthDay
		wantErr bool
	}{
		{in: "1ER AVRIL", want: md(time.April, 1)},
		{in: "01 JAN", want: md(time.January, 1)},
		{in: "15 MARS", want: md(time.March, 15)},
		{in: "31 DECEMBRE", want: md(time.December, 31)},
		{in: "NOV", want: md(time.November, 1)},
		{in: "NOV", asEnd: true, want: md(time.November, 30)},
		{in: "FEV", asEnd: true, want: md(time.February, 28)},
		{in: "30 FEV", wantErr: true},
		{in: "29 FEV", wantErr: true},
		{in: "31 AVRIL", wantErr: true},
		{in: "1 MAR", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMonthDay(tt.in, tt.asEnd)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMonthSpan(t *testing.T) {
	start, end, err := ParseMonthSpan("1 AVRIL-30 NOV")
	require.NoError(t, err)
	assert.Equal(t, md(time.April, 1), start)
	assert.Equal(t, md(time.November, 30), end)

	start, end, err = ParseMonthSpan("01 JAN - 31 DEC")
	require.NoError(t, err)
	assert.Equal(t, FirstDayOfYear, start)
	assert.Equal(t, LastDayOfYear, end)

	start, end, err = ParseMonthSpan("AVRIL AU NOV")
	require.NoError(t, err)
	assert.Equal(t, md(time.April, 1), start)
	assert.Equal(t, md(time.November, 30), end)

	_, _, err = ParseMonthSpan("1 AVRIL")
	assert.ErrorIs(t, err, common.ErrInvalidFormat)
}

func TestNewMonthDay_Calendar(t *testing.T) {
	_, err := NewMonthDay(time.February, 30)

	var fe *common.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, common.KindCalendar, fe.Kind)
	assert.Equal(t, "02-30", fe.Token)
}
