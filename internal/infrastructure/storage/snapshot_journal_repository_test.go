package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/estlcameo/backend/internal/domain/snapshot"
	"github.com/estlcameo/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// setupTestDB 创建临时测试数据库
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "journal_test_*")
	require.NoError(t, err)

	db, err := OpenDB(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return db, cleanup
}

func TestSnapshotJournalRepository_AppendAndList(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSnapshotJournalRepository(db)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(&snapshot.JournalEntry{
		ProjectPath:  `C:\cam\Bracket.e12`,
		SnapshotPath: `C:\cam\.snapshots\Bracket\20240501_100000.e12`,
		Action:       snapshot.ActionCreated,
		Reason:       "Saved",
		ContentHash:  "00ff",
		CreatedAt:    base,
	}))
	require.NoError(t, repo.Append(&snapshot.JournalEntry{
		ProjectPath:  `C:\cam\Bracket.e12`,
		SnapshotPath: `C:\cam\.snapshots\Bracket\20240501_100000.e12`,
		TargetPath:   `C:\cam\Bracket.e12`,
		Action:       snapshot.ActionRestored,
		CreatedAt:    base.Add(time.Minute),
	}))
	require.NoError(t, repo.Append(&snapshot.JournalEntry{
		ProjectPath:  `C:\cam\Plate.e12`,
		SnapshotPath: `C:\cam\.snapshots\Plate\20240501_100500.e12`,
		Action:       snapshot.ActionCreated,
		CreatedAt:    base.Add(2 * time.Minute),
	}))

	entries, err := repo.ListByProject(`c:\cam\bracket.e12`, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2, "project lookup is case-insensitive")
	assert.Equal(t, snapshot.ActionRestored, entries[0].Action)
	assert.Equal(t, `C:\cam\Bracket.e12`, entries[0].TargetPath)
	assert.Equal(t, "Saved", entries[1].Reason)
	assert.Equal(t, "00ff", entries[1].ContentHash)
	assert.NotEmpty(t, entries[1].ID)
	assert.True(t, base.Equal(entries[1].CreatedAt))

	recent, err := repo.ListRecent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, `C:\cam\Plate.e12`, recent[0].ProjectPath)
}

func TestSnapshotJournalRepository_DefaultsAndEmpty(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSnapshotJournalRepository(db)

	entries, err := repo.ListRecent(0)
	require.NoError(t, err)
	assert.Empty(t, entries)

	entry := &snapshot.JournalEntry{ProjectPath: "/cam/a.e12", SnapshotPath: "/s/1.e12", Action: snapshot.ActionCreated}
	require.NoError(t, repo.Append(entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestGetDBPath(t *testing.T) {
	assert.Equal(t, "/explicit/db.sqlite", GetDBPath(&config.DatabaseConfig{Path: "/explicit/db.sqlite"}))

	dir := t.TempDir()
	config.ResetDataDir()
	t.Setenv(config.EnvDataDir, dir)
	t.Cleanup(config.ResetDataDir)

	assert.Equal(t, filepath.Join(dir, config.DatabaseFileName), GetDBPath(&config.DatabaseConfig{}))
	assert.Equal(t, filepath.Join(dir, config.DatabaseFileName), GetDBPath(nil))
}
