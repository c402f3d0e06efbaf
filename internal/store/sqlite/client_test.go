package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
	"github.com/guyeu9/Interactive-story-game-editor/internal/session"
	"github.com/guyeu9/Interactive-story-game-editor/internal/store"
	"github.com/guyeu9/Interactive-story-game-editor/internal/story"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()
	c, err := New(ctx, "sqlite://"+filepath.Join(t.TempDir(), "dramaweaver.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(ctx) })
	require.NoError(t, c.EnsureSchema(ctx))
	require.NoError(t, c.EnsureSchema(ctx), "schema creation is idempotent")
	return c
}

func TestDatasetRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	empty, err := c.LoadDataset(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Scenes)

	d := dataset.Demo()
	d.Layers = append(d.Layers, dataset.Layer{ID: "L1_SETUP", Name: "重复层级", Sequence: 4, Worldview: dataset.DefaultWorldview})
	require.NoError(t, c.ReplaceDataset(ctx, d))

	got, err := c.LoadDataset(ctx)
	require.NoError(t, err)
	assert.Equal(t, d, got)

	smaller := dataset.Demo()
	smaller.Scenes = smaller.Scenes[:1]
	require.NoError(t, c.ReplaceDataset(ctx, smaller))
	got, err = c.LoadDataset(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Scenes, 1)
}

func TestListRecordsAndWorldviews(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	require.NoError(t, c.ReplaceDataset(ctx, dataset.Demo()))

	plays, err := c.ListRecords(ctx, dataset.KindPlay, "")
	require.NoError(t, err)
	require.Len(t, plays, 4)
	assert.Equal(t, "P001", plays[0].ID)

	all, err := c.ListRecords(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, all, 14)
	assert.Equal(t, dataset.KindScene, all[0].Kind)
	assert.Equal(t, dataset.KindCommand, all[13].Kind)

	moon, err := c.ListRecords(ctx, "", "月王故事")
	require.NoError(t, err)
	require.Len(t, moon, 1)

	wvs, err := c.ListWorldviews(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.CountWorldviews(dataset.Demo()), wvs)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	require.NoError(t, c.ReplaceDataset(ctx, dataset.Demo()))

	_, err := c.Search(ctx, "  ", "", "")
	assert.Error(t, err)

	indexed, err := c.Search(ctx, "实验室", "", "")
	require.NoError(t, err)
	require.Len(t, indexed, 1)
	assert.Equal(t, "S001", indexed[0].ID)
	assert.Contains(t, indexed[0].Snippet, "**")

	scanned, err := c.Search(ctx, "钥匙", dataset.KindPlay, "")
	require.NoError(t, err)
	assert.Len(t, scanned, 2)

	none, err := c.Search(ctx, "密码锁", dataset.KindScene, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	older := &story.Story{ID: "a", Title: "废弃实验室", SceneID: "S001", CreatedAt: base,
		Items: []story.Item{{Type: story.ItemHeader, Text: "场景：废弃实验室"}}}
	newer := &story.Story{ID: "b", Title: "中央公园 (剧情走向)", Interactive: true, CreatedAt: base.Add(1500 * time.Millisecond)}
	require.NoError(t, c.AppendHistory(ctx, older))
	require.NoError(t, c.AppendHistory(ctx, newer))

	list, err := c.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID, "newest first")
	assert.True(t, list[0].Interactive)

	got, err := c.GetHistory(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, older.Items, got.Items)
	assert.True(t, base.Equal(got.CreatedAt))

	require.NoError(t, c.RenameHistory(ctx, "a", "新标题"))
	got, err = c.GetHistory(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "新标题", got.Title)

	_, err = c.GetHistory(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, c.RenameHistory(ctx, "missing", "x"), store.ErrNotFound)
	assert.ErrorIs(t, c.DeleteHistory(ctx, "missing"), store.ErrNotFound)

	require.NoError(t, c.DeleteHistory(ctx, "b"))
	n, err := c.ClearHistory(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestSession(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	s, err := c.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.State{}, s)

	want := session.State{SelectedWorldview: "月王故事", WorldviewFilter: true, SelectedSceneID: "S003",
		UpdatedAt: time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)}
	require.NoError(t, c.SaveSession(ctx, want))
	want.SelectedSceneID = ""
	require.NoError(t, c.SaveSession(ctx, want))

	got, err := c.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRunSQL(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	require.NoError(t, c.ReplaceDataset(ctx, dataset.Demo()))

	rows, err := c.RunSQL(ctx, "SELECT record_id FROM records WHERE kind = ? ORDER BY position", map[string]any{"1": "command"})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "C001", rows[0]["record_id"])
}

func TestSplitStatementsKeepsTriggers(t *testing.T) {
	ddl := `
	CREATE TABLE a (x INTEGER);
	-- comment;
	CREATE TRIGGER t AFTER INSERT ON a BEGIN
		INSERT INTO a VALUES (1);
		INSERT INTO a VALUES (2);
	END;
	CREATE INDEX i ON a (x);
	`
	stmts := splitStatements(ddl)
	require.GreaterOrEqual(t, len(stmts), 3)
	assert.Contains(t, stmts[1], "INSERT INTO a VALUES (2);")
	assert.Contains(t, stmts[1], "END;")
	assert.Contains(t, stmts[2], "CREATE INDEX")
}

func TestRunSQLRejectsWrites(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	require.NoError(t, c.ReplaceDataset(ctx, dataset.Demo()))

	for _, q := range []string{
		"DELETE FROM records",
		"WITH x AS (SELECT 1) DELETE FROM records",
		"WITH x AS (SELECT 1) UPDATE records SET name = 'x'",
	} {
		_, err := c.RunSQL(ctx, q, nil)
		assert.ErrorIs(t, err, store.ErrWriteQuery, q)
	}

	got, err := c.LoadDataset(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Scenes, len(dataset.Demo().Scenes))
	assert.Len(t, got.Layers, len(dataset.Demo().Layers))

	rows, err := c.RunSQL(ctx, "SELECT\nrecord_id FROM records WHERE kind = 'scene'", nil)
	require.NoError(t, err)
	assert.Len(t, rows, len(dataset.Demo().Scenes))

	// The pooled connection must accept writes again afterwards.
	require.NoError(t, c.ReplaceDataset(ctx, dataset.Demo()))
}

func TestRunSQLConnectionIsQueryOnly(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	require.NoError(t, c.ReplaceDataset(ctx, dataset.Demo()))

	rows, err := c.RunSQL(ctx, "PRAGMA query_only", nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 1, rows[0]["query_only"])
}
