package scorestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/siri/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_NoneBackend(t *testing.T) {
	err := Migrate(schema.NoneBackend, "", -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported for the none backend")
}

func TestMigrate_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, -1))
	_, err := os.Stat(dbPath)
	require.NoError(t, err)

	// Already at latest
	assert.NoError(t, Migrate(schema.SQLiteBackend, dbPath, -1))

	assert.NoError(t, Migrate(schema.SQLiteBackend, dbPath, 1))
	assert.NoError(t, Migrate(schema.SQLiteBackend, dbPath, 0))
	assert.NoError(t, Migrate(schema.SQLiteBackend, dbPath, 0))
	assert.NoError(t, Migrate(schema.SQLiteBackend, dbPath, 2))

	// The store finishes the remaining migrations on open
	store, err := NewScoreStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Contains(t, status.TableSizes, scoreRunsTable)
}

func TestMigrate_UnknownVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")
	err := Migrate(schema.SQLiteBackend, dbPath, 99)
	assert.Error(t, err)
}

func TestMigrationsEmbedded(t *testing.T) {
	for _, backend := range []schema.DatabaseBackend{schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend} {
		entries, err := migrationsFS.ReadDir("migrations/" + string(backend))
		require.NoError(t, err, backend)
		assert.Len(t, entries, 6, "up and down files for every version of %s", backend)
	}
}
