package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "inspect.db")})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE migration_runs (id INTEGER PRIMARY KEY, run_id TEXT, Command TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "migration_runs")
	require.NoError(t, err)
	require.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}
	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["run_id"])
	assert.Equal(t, "text", colMap["command"])

	// PRAGMA table_info yields no rows for an unknown table.
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestMissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "inspect.db")})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE runs (id INTEGER PRIMARY KEY, run_id TEXT)").Error)

	missing, err := MissingColumns(db, "runs", []string{"id", "RUN_ID", "status"})
	require.NoError(t, err)
	assert.Equal(t, []string{"status"}, missing)

	missing, err = MissingColumns(db, "absent", []string{"id"})
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, missing)
}
