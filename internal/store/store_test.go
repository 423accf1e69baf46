package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveRun(t *testing.T) {
	db := openTestDB(t)

	patches := []PatchRecord{
		{Index: 0, Z: 500e-9, Area: 1e-17, Electrons: 0.25},
		{Index: 1, X: 3e-9, Z: 499e-9, Area: 2e-17, Electrons: 0.1},
	}
	id, err := db.SaveRun(RunRecord{
		Model:          "sharp",
		Identifier:     "R=10nm_L=1um",
		FieldAmplitude: 1e9,
		WorkFunction:   4.5,
		TotalElectrons: 0.35,
	}, patches)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	runs, err := db.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, "sharp", runs[0].Model)
	assert.Equal(t, 2, runs[0].Patches)
	assert.Equal(t, 4.5, runs[0].WorkFunction)
	assert.WithinDuration(t, time.Now(), runs[0].CreatedAt, time.Minute)

	stored, err := db.PatchesOf(id)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, id, stored[0].RunID)
	assert.Equal(t, 1, stored[1].Index)
	assert.Equal(t, 3e-9, stored[1].X)
	assert.Equal(t, 0.1, stored[1].Electrons)
}

func TestRunsAreKeptApart(t *testing.T) {
	db := openTestDB(t)
	first, err := db.SaveRun(RunRecord{Model: "a", Identifier: "R=10nm_L=1um", CreatedAt: time.Now().UTC().Add(-time.Hour)},
		[]PatchRecord{{Index: 0, Area: 1e-17}})
	require.NoError(t, err)
	second, err := db.SaveRun(RunRecord{Model: "b", Identifier: "R=20nm_L=1um"}, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	runs, err := db.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, 0, runs[0].Patches)

	patches, err := db.PatchesOf(second)
	require.NoError(t, err)
	assert.Empty(t, patches)

	// duplicate ids roll the whole run back
	_, err = db.SaveRun(RunRecord{ID: first, Model: "c", Identifier: "x"}, []PatchRecord{{Index: 5}})
	assert.Error(t, err)
	patches, err = db.PatchesOf(first)
	require.NoError(t, err)
	assert.Len(t, patches, 1)
}
