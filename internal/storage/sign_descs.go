package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/muhamm-ad/rpasign/internal/common"
	"github.com/muhamm-ad/rpasign/internal/model"
	"github.com/muhamm-ad/rpasign/internal/service"
)

// SaveSignDesc stores a compiled description, replacing any previous
// compilation stored under the same code. An empty batchID stores the
// description outside any import batch.
func (s *SQLiteStorage) SaveSignDesc(ctx context.Context, desc *model.SignDesc, batchID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSignDesc(desc); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.saveSignDescTx(ctx, tx, desc, batchID)
	})
}

func (s *SQLiteStorage) saveSignDescTx(ctx context.Context, q queryable, desc *model.SignDesc, batchID string) error {
	batch := sql.NullString{String: batchID, Valid: batchID != ""}

	_, err := q.ExecContext(ctx, `
		INSERT INTO sign_descriptions (code, raw_text, cleaned_text, batch_id, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			raw_text = excluded.raw_text,
			cleaned_text = excluded.cleaned_text,
			batch_id = excluded.batch_id,
			updated_at = excluded.updated_at
	`, desc.Code, desc.RawText, desc.CleanedText, batch, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save sign description %s: %w", desc.Code, classify(err))
	}

	for _, table := range []string{"sign_rules", "fragment_failures"} {
		if _, err := q.ExecContext(ctx, "DELETE FROM "+table+" WHERE code = ?", desc.Code); err != nil {
			return fmt.Errorf("failed to clear %s for %s: %w", table, desc.Code, classify(err))
		}
	}

	for i, rule := range desc.Rules {
		ruleJSON, err := json.Marshal(rule)
		if err != nil {
			return fmt.Errorf("failed to encode rule %d of %s: %w", i, desc.Code, err)
		}

		var metadata sql.NullString
		if md, ok := rule.Metadata(); ok {
			metadata = sql.NullString{String: md, Valid: true}
		}

		_, err = q.ExecContext(ctx, `
			INSERT INTO sign_rules (code, position, parking_authorized, metadata, rule_json)
			VALUES (?, ?, ?, ?, ?)
		`, desc.Code, i, rule.ParkingAuthorized(), metadata, string(ruleJSON))
		if err != nil {
			return fmt.Errorf("failed to save rule %d of %s: %w", i, desc.Code, classify(err))
		}
	}

	for _, f := range desc.Failures {
		_, err := q.ExecContext(ctx, `
			INSERT INTO fragment_failures (code, position, fragment, reason)
			VALUES (?, ?, ?, ?)
		`, desc.Code, f.Index, f.Fragment, f.Reason)
		if err != nil {
			return fmt.Errorf("failed to save fragment failure %d of %s: %w", f.Index, desc.Code, classify(err))
		}
	}

	return nil
}

// GetSignDesc retrieves a description and its rules by sign code.
func (s *SQLiteStorage) GetSignDesc(ctx context.Context, code string) (*model.SignDesc, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(code, "code"); err != nil {
		return nil, err
	}

	return s.getSignDescTx(ctx, s.db, code)
}

func (s *SQLiteStorage) getSignDescTx(ctx context.Context, q queryable, code string) (*model.SignDesc, error) {
	desc := model.SignDesc{Code: code}

	err := q.QueryRowContext(ctx, `
		SELECT raw_text, cleaned_text
		FROM sign_descriptions
		WHERE code = ?
	`, code).Scan(&desc.RawText, &desc.CleanedText)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sign description %s: %w", code, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sign description: %w", err)
	}

	rules, err := s.getRulesTx(ctx, q, code)
	if err != nil {
		return nil, err
	}
	desc.Rules = rules

	failures, err := s.getFailuresTx(ctx, q, code)
	if err != nil {
		return nil, err
	}
	desc.Failures = failures

	return &desc, nil
}

func (s *SQLiteStorage) getRulesTx(ctx context.Context, q queryable, code string) ([]model.SignRule, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT rule_json
		FROM sign_rules
		WHERE code = ?
		ORDER BY position
	`, code)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []model.SignRule
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}

		var rule model.SignRule
		if err := json.Unmarshal([]byte(raw), &rule); err != nil {
			return nil, fmt.Errorf("failed to decode rule of %s: %w", code, err)
		}
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

func (s *SQLiteStorage) getFailuresTx(ctx context.Context, q queryable, code string) ([]model.FragmentFailure, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT position, fragment, reason
		FROM fragment_failures
		WHERE code = ?
		ORDER BY position
	`, code)
	if err != nil {
		return nil, fmt.Errorf("failed to query fragment failures: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var failures []model.FragmentFailure
	for rows.Next() {
		var f model.FragmentFailure
		if err := rows.Scan(&f.Index, &f.Fragment, &f.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan fragment failure: %w", err)
		}
		failures = append(failures, f)
	}

	return failures, rows.Err()
}

// ListSignDescs returns descriptions ordered by code.
func (s *SQLiteStorage) ListSignDescs(ctx context.Context, filter service.SignFilter) ([]model.SignDesc, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	query, args := buildListQuery(filter)
	codes, err := s.queryCodes(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	descs := make([]model.SignDesc, 0, len(codes))
	for _, code := range codes {
		desc, err := s.getSignDescTx(ctx, s.db, code)
		if err != nil {
			return nil, err
		}
		descs = append(descs, *desc)
	}

	return descs, nil
}

func buildListQuery(filter service.SignFilter) (string, []any) {
	var (
		where []string
		args  []any
	)

	if filter.CodePrefix != "" {
		where = append(where, "d.code LIKE ? ESCAPE '\\'")
		args = append(args, escapeLike(filter.CodePrefix)+"%")
	}
	if filter.MetadataOnly {
		where = append(where, "EXISTS (SELECT 1 FROM sign_rules r WHERE r.code = d.code AND r.metadata IS NOT NULL)")
	}
	if filter.FailedOnly {
		where = append(where, "EXISTS (SELECT 1 FROM fragment_failures f WHERE f.code = d.code)")
	}

	var b strings.Builder
	b.WriteString("SELECT d.code FROM sign_descriptions d")
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY d.code")

	if filter.Limit > 0 {
		b.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, filter.Limit, filter.Offset)
	} else if filter.Offset > 0 {
		b.WriteString(" LIMIT -1 OFFSET ?")
		args = append(args, filter.Offset)
	}

	return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (s *SQLiteStorage) queryCodes(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sign descriptions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan sign code: %w", err)
		}
		codes = append(codes, code)
	}

	return codes, rows.Err()
}

// CountSignDescs returns the number of stored descriptions.
func (s *SQLiteStorage) CountSignDescs(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sign_descriptions").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sign descriptions: %w", err)
	}
	return count, nil
}
