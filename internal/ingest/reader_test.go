package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhamm-ad/rpasign/internal/common"
)

func TestReadRecords(t *testing.T) {
	input := "\ufeffPANNEAU_ID_RPA,CODE_RPA,DESCRIPTION_RPA\n" +
		"1,SD-TT,\\P 08h-12h LUN\n" +
		"2,SB-AC,15 min\n" +
		"3,, orphan\n" +
		"4,SX-00,\n" +
		"5,AD-RR,\"17H MAR A 17H MER\"\n"

	records, err := ReadRecords(strings.NewReader(input), DefaultReaderOptions())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Record{Code: "SD-TT", Description: `\P 08h-12h LUN`, Line: 2}, records[0])
	assert.Equal(t, "SB-AC", records[1].Code)
	assert.Equal(t, "15 min", records[1].Description)
	assert.Equal(t, "17H MAR A 17H MER", records[2].Description)
	assert.Equal(t, 6, records[2].Line)
}

func TestReadRecords_Semicolon(t *testing.T) {
	input := "description_rpa;code_rpa\n15 MIN;SB-AC\n"

	records, err := ReadRecords(strings.NewReader(input), ReaderOptions{Delimiter: ';'})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "SB-AC", records[0].Code)
	assert.Equal(t, "15 MIN", records[0].Description)
}

func TestReadRecords_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty file", input: "", wantErr: common.ErrNoRecords},
		{name: "header only", input: "CODE_RPA,DESCRIPTION_RPA\n", wantErr: common.ErrNoRecords},
		{name: "missing code", input: "ID,DESCRIPTION_RPA\n1,15 MIN\n", wantErr: common.ErrMissingColumn},
		{name: "missing description", input: "CODE_RPA,TEXT\nA,15 MIN\n", wantErr: common.ErrMissingColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRecords(strings.NewReader(tt.input), DefaultReaderOptions())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		input   string
		want    rune
		wantErr bool
	}{
		{input: ",", want: ','},
		{input: ";", want: ';'},
		{input: "tab", want: '\t'},
		{input: `\t`, want: '\t'},
		{input: "", wantErr: true},
		{input: ";;", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDelimiter(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
