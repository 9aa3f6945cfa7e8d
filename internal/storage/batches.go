package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/muhamm-ad/rpasign/internal/common"
	"github.com/muhamm-ad/rpasign/internal/model"
)

// CreateImportBatch records the start of an import run. A zero StartedAt is
// set to the current time.
func (s *SQLiteStorage) CreateImportBatch(ctx context.Context, batch *model.ImportBatch) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateImportBatch(batch); err != nil {
		return err
	}

	if batch.StartedAt.IsZero() {
		batch.StartedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO import_batches (id, source, started_at, total, failed)
		VALUES (?, ?, ?, ?, ?)
	`, batch.ID, batch.Source, batch.StartedAt, batch.Total, batch.Failed)
	if err != nil {
		return fmt.Errorf("failed to create import batch %s: %w", batch.ID, classify(err))
	}
	return nil
}

// FinishImportBatch stores the final counts of a batch and marks it finished.
func (s *SQLiteStorage) FinishImportBatch(ctx context.Context, id string, total, failed int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateImportBatch(&model.ImportBatch{ID: id, Total: total, Failed: failed}); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE import_batches
		SET total = ?, failed = ?, finished_at = ?
		WHERE id = ?
	`, total, failed, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to finish import batch %s: %w", id, classify(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("import batch %s: %w", id, common.ErrNotFound)
	}
	return nil
}

// GetImportBatch retrieves a batch by ID.
func (s *SQLiteStorage) GetImportBatch(ctx context.Context, id string) (*model.ImportBatch, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var (
		batch    model.ImportBatch
		finished sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source, started_at, finished_at, total, failed
		FROM import_batches
		WHERE id = ?
	`, id).Scan(&batch.ID, &batch.Source, &batch.StartedAt, &finished, &batch.Total, &batch.Failed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("import batch %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get import batch: %w", err)
	}

	if finished.Valid {
		t := finished.Time
		batch.FinishedAt = &t
	}
	return &batch, nil
}
