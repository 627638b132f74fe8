package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSQLite_CreatesExpensesTableIdempotently(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "expenses.db")

	require.NoError(t, RunSQLite(dbPath))
	// A second start must be a no-op.
	require.NoError(t, RunSQLite(dbPath))

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(`SELECT name FROM pragma_table_info('expenses') ORDER BY cid`)
	require.NoError(t, err)
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		columns = append(columns, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"id", "amount", "category", "description", "date", "created_at"}, columns)
}
