package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionalArgs(t *testing.T) {
	assert.Equal(t, []any{"a", 2}, PositionalArgs(map[string]any{"2": 2, "1": "a", "4": "gap"}))
	assert.Empty(t, PositionalArgs(nil))
}

func TestCheckReadOnly(t *testing.T) {
	allowed := []string{
		"SELECT * FROM records",
		"  select count(*) from history;",
		"WITH x AS (SELECT 1) SELECT * FROM x",
		"PRAGMA table_info(records)",
		"EXPLAIN SELECT 1",
		"SELECT\nrecord_id FROM records",
		"SELECT\trecord_id FROM records",
		"SELECT * FROM history WHERE title = 'Delete the past'",
		"SELECT created_at FROM history",
	}
	for _, q := range allowed {
		assert.NoError(t, CheckReadOnly(q), q)
	}

	rejected := []string{
		"DELETE FROM records",
		"UPDATE history SET title = 'x'",
		"SELECT 1; DROP TABLE records",
		"PRAGMA journal_mode = DELETE",
		"PRAGMA query_only(0)",
		"WITH x AS (SELECT 1) DELETE FROM records",
		"WITH x AS (SELECT 1) INSERT INTO records SELECT * FROM records",
		"with x as (select 1) update records set name = 'x'",
		"WITH x AS (SELECT 1) REPLACE INTO records SELECT * FROM records",
		"EXPLAIN DELETE FROM records",
		"VALUES (1)\n; DROP TABLE records",
		"   ",
		"",
	}
	for _, q := range rejected {
		assert.ErrorIs(t, CheckReadOnly(q), ErrWriteQuery, q)
	}
}
