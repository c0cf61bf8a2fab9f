package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_AppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "location.db")

	db, err := Open(Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(Config{Path: path})
	require.NoError(t, err)
	defer db.Close()

	var versions int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&versions))
	assert.Equal(t, 1, versions)

	var snapshots int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&snapshots))
	assert.Zero(t, snapshots)
}

func TestLoadMigrations(t *testing.T) {
	m := NewMigrationManager(nil)

	migrations, err := m.LoadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "001_create_snapshots", migrations[0].Name)
	assert.Contains(t, migrations[0].SQL, "CREATE TABLE IF NOT EXISTS snapshots")
}
