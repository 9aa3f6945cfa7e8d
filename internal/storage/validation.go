// Package storage provides the data persistence layer for compiled sign
// descriptions.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/muhamm-ad/rpasign/internal/model"
	"github.com/muhamm-ad/rpasign/internal/service"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidSignDesc = errors.New("invalid sign description")
	ErrInvalidBatch    = errors.New("invalid import batch")
	ErrInvalidFilter   = errors.New("invalid filter")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateSignDesc checks that a description can be stored under its code.
func validateSignDesc(desc *model.SignDesc) error {
	if desc == nil {
		return fmt.Errorf("%w: desc", ErrNilParameter)
	}
	if strings.TrimSpace(desc.Code) == "" {
		return fmt.Errorf("%w: missing code", ErrInvalidSignDesc)
	}
	if strings.TrimSpace(desc.RawText) == "" {
		return fmt.Errorf("%w: missing raw text", ErrInvalidSignDesc)
	}
	if len(desc.Rules) == 0 {
		return fmt.Errorf("%w: no rules", ErrInvalidSignDesc)
	}
	return nil
}

func validateImportBatch(batch *model.ImportBatch) error {
	if batch == nil {
		return fmt.Errorf("%w: batch", ErrNilParameter)
	}
	if strings.TrimSpace(batch.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidBatch)
	}
	if batch.Total < 0 || batch.Failed < 0 || batch.Failed > batch.Total {
		return fmt.Errorf("%w: counts total=%d failed=%d", ErrInvalidBatch, batch.Total, batch.Failed)
	}
	return nil
}

func validateFilter(filter service.SignFilter) error {
	if filter.Limit < 0 {
		return fmt.Errorf("%w: negative limit", ErrInvalidFilter)
	}
	if filter.Offset < 0 {
		return fmt.Errorf("%w: negative offset", ErrInvalidFilter)
	}
	return nil
}
