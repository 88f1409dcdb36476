package iostore

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, dbPath, table string) bool {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&count)
	require.NoError(t, err)
	return count == 1
}

func TestMigrateHistory_NoneBackend(t *testing.T) {
	err := MigrateHistory(schema.NoneBackend, "", -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported")
}

func TestMigrateHistory_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))
	_, err := os.Stat(dbPath)
	require.NoError(t, err)
	for _, table := range historyTables {
		assert.True(t, tableExists(t, dbPath, table), table)
	}

	// Already at latest
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))

	// Step down to version 1
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 1))
	assert.True(t, tableExists(t, dbPath, runsTable))
	assert.False(t, tableExists(t, dbPath, fileMetricsTable))
	assert.False(t, tableExists(t, dbPath, survivalSamplesTable))

	// Roll everything back
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 0))
	for _, table := range historyTables {
		assert.False(t, tableExists(t, dbPath, table), table)
	}

	// And back up again
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 3))
	for _, table := range historyTables {
		assert.True(t, tableExists(t, dbPath, table), table)
	}
}

func TestMigrateTo_Versions(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "versions.db")

	res, err := migrateTo(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.Equal(t, migrationResult{from: 0, to: 3, changed: true}, res)

	res, err = migrateTo(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.Equal(t, migrationResult{from: 3, to: 3, changed: false}, res)

	res, err = migrateTo(schema.SQLiteBackend, dbPath, 2)
	require.NoError(t, err)
	assert.Equal(t, migrationResult{from: 3, to: 2, changed: true}, res)

	res, err = migrateTo(schema.SQLiteBackend, dbPath, 0)
	require.NoError(t, err)
	assert.Equal(t, migrationResult{from: 2, to: 0, changed: true}, res)
}

func TestMigrateTo_UnknownVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "unknown.db")

	_, err := migrateTo(schema.SQLiteBackend, dbPath, 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to migrate to version 99")
}

func TestMigrationsEmbedded(t *testing.T) {
	for _, backend := range []string{"sqlite", "mysql", "postgresql"} {
		entries, err := migrationsFS.ReadDir("migrations/" + backend)
		require.NoError(t, err, backend)
		assert.Len(t, entries, 6, backend)
	}
}
