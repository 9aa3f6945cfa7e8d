package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhamm-ad/rpasign/internal/common"
	"github.com/muhamm-ad/rpasign/internal/engine"
	"github.com/muhamm-ad/rpasign/internal/model"
	"github.com/muhamm-ad/rpasign/internal/service"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func compile(t *testing.T, code, raw string) *model.SignDesc {
	t.Helper()
	desc, err := engine.Parse(raw)
	require.NoError(t, err)
	desc.Code = code
	return desc
}

func exports(descs ...model.SignDesc) []map[string]any {
	out := make([]map[string]any, len(descs))
	for i := range descs {
		out[i] = descs[i].Export()
	}
	return out
}

func TestSQLiteStorage_SaveAndGet(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	want := compile(t, "SD-1", `\P 17H MAR A 17H MER ZONE 4`)
	require.NoError(t, store.SaveSignDesc(ctx, want, ""))

	got, err := store.GetSignDesc(ctx, "SD-1")
	require.NoError(t, err)
	if diff := cmp.Diff(exports(*want), exports(*got)); diff != "" {
		t.Errorf("stored description mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteStorage_SaveReplaces(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSignDesc(ctx, compile(t, "SD-1", "17H MAR A 17H MER | 9H-26H LUN"), ""))
	first, err := store.GetSignDesc(ctx, "SD-1")
	require.NoError(t, err)
	assert.Len(t, first.Rules, 2)
	assert.Len(t, first.Failures, 1)

	require.NoError(t, store.SaveSignDesc(ctx, compile(t, "SD-1", "15 MIN"), ""))
	second, err := store.GetSignDesc(ctx, "SD-1")
	require.NoError(t, err)
	require.Len(t, second.Rules, 1)
	assert.Equal(t, []model.Duration{15}, second.Rules[0].Durations())
	assert.Empty(t, second.Failures)

	count, err := store.CountSignDescs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLiteStorage_GetMissing(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetSignDesc(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteStorage_SaveValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		desc    *model.SignDesc
		wantErr error
		name    string
	}{
		{name: "nil", desc: nil, wantErr: ErrNilParameter},
		{name: "missing code", desc: compile(t, "", "15 MIN"), wantErr: ErrInvalidSignDesc},
		{name: "no rules", desc: &model.SignDesc{Code: "X", RawText: "15 MIN"}, wantErr: ErrInvalidSignDesc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.SaveSignDesc(ctx, tt.desc, "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSQLiteStorage_UnknownBatchRejected(t *testing.T) {
	store := createTestStorage(t)

	err := store.SaveSignDesc(context.Background(), compile(t, "SD-1", "15 MIN"), "missing-batch")
	assert.Error(t, err)
}

func TestSQLiteStorage_ListSignDescs(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	seed := map[string]string{
		"AD-1":   "15 MIN",
		"AD-2":   "9H-17H LUN-VEN SECTEUR 9",
		"SD-1":   "17H MAR A 17H MER | 9H-26H LUN",
		"SD-2":   `\P 1 DEC AU 1 MARS`,
		"SD_100": "60 MIN",
	}
	for code, raw := range seed {
		require.NoError(t, store.SaveSignDesc(ctx, compile(t, code, raw), ""))
	}

	tests := []struct {
		name   string
		filter service.SignFilter
		want   []string
	}{
		{name: "all in code order", want: []string{"AD-1", "AD-2", "SD-1", "SD-2", "SD_100"}},
		{name: "prefix", filter: service.SignFilter{CodePrefix: "AD"}, want: []string{"AD-1", "AD-2"}},
		{name: "prefix underscore is literal", filter: service.SignFilter{CodePrefix: "SD_"}, want: []string{"SD_100"}},
		{name: "metadata only", filter: service.SignFilter{MetadataOnly: true}, want: []string{"AD-2"}},
		{name: "failed only", filter: service.SignFilter{FailedOnly: true}, want: []string{"SD-1"}},
		{name: "limit and offset", filter: service.SignFilter{Limit: 2, Offset: 1}, want: []string{"AD-2", "SD-1"}},
		{name: "offset without limit", filter: service.SignFilter{Offset: 3}, want: []string{"SD-2", "SD_100"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			descs, err := store.ListSignDescs(ctx, tt.filter)
			require.NoError(t, err)

			codes := make([]string, len(descs))
			for i, d := range descs {
				codes[i] = d.Code
			}
			assert.Equal(t, tt.want, codes)
		})
	}

	_, err := store.ListSignDescs(ctx, service.SignFilter{Limit: -1})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestSQLiteStorage_ImportBatch(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	batch := &model.ImportBatch{ID: "b-1", Source: "signs.csv"}
	require.NoError(t, store.CreateImportBatch(ctx, batch))
	assert.False(t, batch.StartedAt.IsZero())

	require.NoError(t, store.SaveSignDesc(ctx, compile(t, "SD-1", "15 MIN"), batch.ID))

	got, err := store.GetImportBatch(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, "signs.csv", got.Source)
	assert.False(t, got.Finished())

	require.NoError(t, store.FinishImportBatch(ctx, "b-1", 10, 2))
	got, err = store.GetImportBatch(ctx, "b-1")
	require.NoError(t, err)
	assert.True(t, got.Finished())
	assert.Equal(t, 10, got.Total)
	assert.Equal(t, 2, got.Failed)

	assert.ErrorIs(t, store.CreateImportBatch(ctx, &model.ImportBatch{ID: "b-1"}), common.ErrDuplicateEntry)
	assert.ErrorIs(t, store.FinishImportBatch(ctx, "b-2", 1, 0), common.ErrNotFound)
	assert.ErrorIs(t, store.FinishImportBatch(ctx, "b-1", 1, 2), ErrInvalidBatch)

	_, err = store.GetImportBatch(ctx, "b-2")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestNewSQLiteStorage_Memory(t *testing.T) {
	store, err := NewSQLiteStorage(MemoryPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.SaveSignDesc(ctx, compile(t, "SD-1", "15 MIN"), ""))

	count, err := store.CountSignDescs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, MemoryPath, store.Path())
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}
