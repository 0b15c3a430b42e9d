package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuhlman-labs/descope-migrator/internal/config"
	"github.com/kuhlman-labs/descope-migrator/internal/models"
)

func testDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(config.DatabaseConfig{
		Type: "sqlite",
		DSN:  filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSaveAndGetRun(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()

	run := &models.MigrationRun{
		ID:          "run-1",
		StartedAt:   time.Now().UTC().Add(-time.Minute),
		CompletedAt: time.Now().UTC(),
		UsersFound:  2,
	}
	items := []models.MigrationItem{
		{Kind: models.ItemKindUser, Key: "a@x.com", Status: models.ItemStatusSuccess},
		{Kind: models.ItemKindUser, Key: "b@x.com", Status: models.ItemStatusFailed, Error: "boom"},
	}

	require.NoError(t, db.SaveRun(ctx, run, items))

	got, err := db.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.UsersFound)

	saved, err := db.ListRunItems(ctx, "run-1", "")
	require.NoError(t, err)
	require.Len(t, saved, 2)
	// Items inherit the run ID and keep insertion order.
	assert.Equal(t, "run-1", saved[0].RunID)
	assert.Equal(t, "a@x.com", saved[0].Key)
	assert.Equal(t, "boom", saved[1].Error)
}

func TestListRunItems_FilterByKind(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()

	run := &models.MigrationRun{ID: "run-2", StartedAt: time.Now().UTC()}
	items := []models.MigrationItem{
		{Kind: models.ItemKindUser, Key: "a@x.com", Status: models.ItemStatusSuccess},
		{Kind: models.ItemKindRole, Key: "Admin", Status: models.ItemStatusSuccess},
	}
	require.NoError(t, db.SaveRun(ctx, run, items))

	roles, err := db.ListRunItems(ctx, "run-2", models.ItemKindRole)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "Admin", roles[0].Key)
}

func TestListRuns_NewestFirst(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()

	older := &models.MigrationRun{ID: "run-old", StartedAt: time.Now().UTC().Add(-time.Hour)}
	newer := &models.MigrationRun{ID: "run-new", StartedAt: time.Now().UTC()}
	require.NoError(t, db.SaveRun(ctx, older, nil))
	require.NoError(t, db.SaveRun(ctx, newer, nil))

	runs, err := db.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].ID)
}

func TestGetRun_NotFound(t *testing.T) {
	db := testDatabase(t)

	_, err := db.GetRun(context.Background(), "missing")
	assert.Error(t, err)
}
