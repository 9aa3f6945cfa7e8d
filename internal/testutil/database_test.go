package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestDB_SeedSigns(t *testing.T) {
	db := SetupTestDB(t)
	db.SeedSigns(map[string]string{
		"SD-1": "17H MAR A 17H MER",
		"SD-2": "15 MIN",
	})

	count, err := db.Storage.CountSignDescs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	desc := db.MustGetSign("SD-1")
	assert.Len(t, desc.Rules, 2)
	assert.Equal(t, "17H MAR A 17H MER", desc.RawText)
}
