// Package testutil provides test helpers shared across packages.
package testutil

import (
	"context"
	"sort"
	"testing"

	"github.com/muhamm-ad/rpasign/internal/engine"
	"github.com/muhamm-ad/rpasign/internal/model"
	"github.com/muhamm-ad/rpasign/internal/storage"
)

// TestDB wraps a migrated in-memory database.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database. It automatically
// handles migrations and cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(storage.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return &TestDB{Storage: store, t: t}
}

// MustCompile compiles raw with the default parser and assigns code.
func MustCompile(t *testing.T, code, raw string) *model.SignDesc {
	t.Helper()

	desc, err := engine.Parse(raw)
	if err != nil {
		t.Fatalf("failed to compile %q: %v", raw, err)
	}
	desc.Code = code
	return desc
}

// SeedSigns compiles and stores each code/description pair outside any
// batch, in code order.
func (db *TestDB) SeedSigns(signs map[string]string) {
	db.t.Helper()

	codes := make([]string, 0, len(signs))
	for code := range signs {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		desc := MustCompile(db.t, code, signs[code])
		if err := db.Storage.SaveSignDesc(context.Background(), desc, ""); err != nil {
			db.t.Fatalf("failed to seed sign %q: %v", code, err)
		}
	}
}

// MustGetSign returns the stored description for code or fails the test.
func (db *TestDB) MustGetSign(code string) *model.SignDesc {
	db.t.Helper()

	desc, err := db.Storage.GetSignDesc(context.Background(), code)
	if err != nil {
		db.t.Fatalf("failed to get sign %q: %v", code, err)
	}
	return desc
}
