// Package service defines the interfaces shared between the command layer
// and the persistence layer.
package service

import (
	"context"

	"github.com/muhamm-ad/rpasign/internal/model"
)

// SignFilter defines filtering options for sign description queries.
type SignFilter struct {
	CodePrefix   string
	MetadataOnly bool // Only descriptions with at least one metadata string
	FailedOnly   bool // Only descriptions with recorded fragment failures
	Limit        int
	Offset       int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Sign description operations
	SaveSignDesc(ctx context.Context, desc *model.SignDesc, batchID string) error
	GetSignDesc(ctx context.Context, code string) (*model.SignDesc, error)
	ListSignDescs(ctx context.Context, filter SignFilter) ([]model.SignDesc, error)
	CountSignDescs(ctx context.Context) (int, error)

	// Import batch operations
	CreateImportBatch(ctx context.Context, batch *model.ImportBatch) error
	FinishImportBatch(ctx context.Context, id string, total, failed int) error
	GetImportBatch(ctx context.Context, id string) (*model.ImportBatch, error)

	// Schema
	Migrate(ctx context.Context) error
	SchemaVersion(ctx context.Context) (int, error)

	Close() error
}
