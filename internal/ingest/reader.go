// Package ingest reads RPA codification files and compiles their
// descriptions in parallel.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/muhamm-ad/rpasign/internal/common"
)

// Column names of the municipal RPA codification export.
const (
	CodeColumn        = "CODE_RPA"
	DescriptionColumn = "DESCRIPTION_RPA"
)

// Record is one sign description read from a codification file.
type Record struct {
	Code        string
	Description string
	Line        int
}

// ReaderOptions configures CSV reading.
type ReaderOptions struct {
	Delimiter rune
}

// DefaultReaderOptions returns comma-separated reading.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{Delimiter: ','}
}

// ParseDelimiter accepts a single-character delimiter, or "tab".
func ParseDelimiter(s string) (rune, error) {
	if strings.EqualFold(s, "tab") || s == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: delimiter must be one character, got %q", common.ErrInvalidConfig, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// ReadRecords reads every row with a non-blank description. The header row
// must name CODE_RPA and DESCRIPTION_RPA; other columns are ignored.
func ReadRecords(r io.Reader, opts ReaderOptions) ([]Record, error) {
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, common.ErrNoRecords
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	codeIdx, descIdx := -1, -1
	for i, name := range header {
		switch strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case CodeColumn:
			codeIdx = i
		case DescriptionColumn:
			descIdx = i
		}
	}
	if codeIdx < 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingColumn, CodeColumn)
	}
	if descIdx < 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingColumn, DescriptionColumn)
	}

	var records []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		line, _ := cr.FieldPos(0)
		if codeIdx >= len(row) || descIdx >= len(row) {
			slog.Debug("Skipping short row", "line", line, "fields", len(row))
			continue
		}

		rec := Record{
			Code:        strings.TrimSpace(row[codeIdx]),
			Description: strings.TrimSpace(row[descIdx]),
			Line:        line,
		}
		if rec.Code == "" || rec.Description == "" {
			slog.Debug("Skipping blank row", "line", line)
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, common.ErrNoRecords
	}
	return records, nil
}
