package mcp

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
	"github.com/guyeu9/Interactive-story-game-editor/internal/ident"
	"github.com/guyeu9/Interactive-story-game-editor/internal/ingest"
	"github.com/guyeu9/Interactive-story-game-editor/internal/session"
	"github.com/guyeu9/Interactive-story-game-editor/internal/store"
	"github.com/guyeu9/Interactive-story-game-editor/internal/story"
)

type mockStore struct {
	data       *dataset.Dataset
	state      session.State
	records    []store.RecordSummary
	worldviews []store.WorldviewSummary
	results    []store.SearchResult
	searchErr  error

	replaced       *dataset.Dataset
	history        []story.Story
	historyCleared bool
	sessionSaved   bool

	lastKind      dataset.Kind
	lastWorldview string
	lastQuery     string
}

func (m *mockStore) Close(ctx context.Context) error        { return nil }
func (m *mockStore) EnsureSchema(ctx context.Context) error { return nil }

func (m *mockStore) LoadDataset(ctx context.Context) (*dataset.Dataset, error) {
	if m.data == nil {
		return &dataset.Dataset{}, nil
	}
	return m.data.Clone(), nil
}

func (m *mockStore) ReplaceDataset(ctx context.Context, d *dataset.Dataset) error {
	m.replaced = d
	m.data = d
	return nil
}

func (m *mockStore) ListRecords(ctx context.Context, kind dataset.Kind, worldview string) ([]store.RecordSummary, error) {
	m.lastKind = kind
	m.lastWorldview = worldview
	return m.records, nil
}

func (m *mockStore) ListWorldviews(ctx context.Context) ([]store.WorldviewSummary, error) {
	return m.worldviews, nil
}

func (m *mockStore) Search(ctx context.Context, query string, kind dataset.Kind, worldview string) ([]store.SearchResult, error) {
	m.lastQuery = query
	m.lastKind = kind
	m.lastWorldview = worldview
	return m.results, m.searchErr
}

func (m *mockStore) AppendHistory(ctx context.Context, s *story.Story) error {
	m.history = append(m.history, *s)
	return nil
}

func (m *mockStore) ListHistory(ctx context.Context) ([]story.Story, error) { return m.history, nil }

func (m *mockStore) GetHistory(ctx context.Context, id string) (*story.Story, error) {
	return nil, store.ErrNotFound
}

func (m *mockStore) RenameHistory(ctx context.Context, id, title string) error { return nil }
func (m *mockStore) DeleteHistory(ctx context.Context, id string) error        { return nil }

func (m *mockStore) ClearHistory(ctx context.Context) (int64, error) {
	n := int64(len(m.history))
	m.history = nil
	m.historyCleared = true
	return n, nil
}

func (m *mockStore) LoadSession(ctx context.Context) (session.State, error) { return m.state, nil }

func (m *mockStore) SaveSession(ctx context.Context, s session.State) error {
	m.state = s
	m.sessionSaved = true
	return nil
}

func newTestServer(db *mockStore) *Server {
	gen := story.NewGenerator(
		story.WithRand(rand.New(rand.NewPCG(7, 11))),
		story.WithIDFunc(func() string { return "story-1" }),
	)
	return NewServer(db, ident.New(), gen, ingest.Options{}, "test")
}

func TestListRecords(t *testing.T) {
	db := &mockStore{records: []store.RecordSummary{{Kind: dataset.KindScene, ID: "S001", Name: "废弃实验室"}}}
	server := newTestServer(db)

	_, output, err := server.handleListRecords(context.Background(), nil, ListRecordsInput{Kind: "scenes", Worldview: "月王故事"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Records) != 1 || output.Records[0].ID != "S001" {
		t.Fatalf("unexpected list output: %+v", output)
	}
	if db.lastKind != dataset.KindScene || db.lastWorldview != "月王故事" {
		t.Fatalf("unexpected list params: %q %q", db.lastKind, db.lastWorldview)
	}
}

func TestListRecords_UnknownKind(t *testing.T) {
	server := newTestServer(&mockStore{})

	_, _, err := server.handleListRecords(context.Background(), nil, ListRecordsInput{Kind: "npc"})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestListWorldviews_Empty(t *testing.T) {
	server := newTestServer(&mockStore{})

	_, output, err := server.handleListWorldviews(context.Background(), nil, ListWorldviewsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Worldviews == nil || len(output.Worldviews) != 0 {
		t.Fatalf("expected empty non-nil list, got %+v", output.Worldviews)
	}
}

func TestSearchRecords(t *testing.T) {
	db := &mockStore{results: []store.SearchResult{{
		RecordSummary: store.RecordSummary{Kind: dataset.KindPlay, ID: "P002", Name: "破解密码锁"},
		Score:         2,
	}}}
	server := newTestServer(db)

	_, output, err := server.handleSearchRecords(context.Background(), nil, SearchRecordsInput{Query: "密码", Kind: "play"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Results) != 1 || output.Results[0].ID != "P002" {
		t.Fatalf("unexpected search output: %+v", output)
	}
	if db.lastQuery != "密码" || db.lastKind != dataset.KindPlay {
		t.Fatalf("unexpected search params")
	}
}

func TestSearchRecords_Errors(t *testing.T) {
	server := newTestServer(&mockStore{searchErr: errors.New("boom")})

	if _, _, err := server.handleSearchRecords(context.Background(), nil, SearchRecordsInput{}); err == nil {
		t.Fatalf("expected error for empty query")
	}
	if _, _, err := server.handleSearchRecords(context.Background(), nil, SearchRecordsInput{Query: "x"}); err == nil {
		t.Fatalf("expected store error")
	}
}

const importDoc = `{"scenes":[{"id":"S1","name":"皇庭","tags":["政治"],"worldview":"月王故事"}],
"layers":[{"layer_id":"L1","layer_name":"开端","sequence":1,"worldview":"月王故事"}],
"plays":[{"id":"P1","name":"觐见","fk_layer_id":"L1","worldview":"月王故事"}],
"commands":[]}`

func TestImportDatasets_DryRun(t *testing.T) {
	db := &mockStore{data: dataset.Demo()}
	server := newTestServer(db)

	_, output, err := server.handleImportDatasets(context.Background(), nil, ImportDatasetsInput{JSON: importDoc, DryRun: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Saved || db.replaced != nil {
		t.Fatalf("dry run must not save")
	}
	if output.Imported["scene"] != 1 || output.Imported["layer"] != 1 || output.Imported["play"] != 1 {
		t.Fatalf("unexpected import counts: %+v", output.Imported)
	}
}

func TestImportDatasets_Saves(t *testing.T) {
	db := &mockStore{
		data:    dataset.Demo(),
		state:   session.State{SelectedSceneID: "S001"},
		history: []story.Story{{ID: "old"}},
	}
	server := newTestServer(db)

	_, output, err := server.handleImportDatasets(context.Background(), nil, ImportDatasetsInput{JSON: importDoc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !output.Saved || db.replaced == nil {
		t.Fatalf("expected dataset to be saved")
	}
	if len(db.replaced.Scenes) != len(dataset.Demo().Scenes)+1 {
		t.Fatalf("unexpected scene count %d", len(db.replaced.Scenes))
	}
	if !db.historyCleared {
		t.Fatalf("expected history to be cleared")
	}
	if !db.sessionSaved || db.state.SelectedSceneID != "" {
		t.Fatalf("expected selection reset, got %+v", db.state)
	}
}

func TestImportDatasets_KeepHistory(t *testing.T) {
	db := &mockStore{history: []story.Story{{ID: "old"}}}
	server := newTestServer(db)

	_, _, err := server.handleImportDatasets(context.Background(), nil, ImportDatasetsInput{JSON: importDoc, KeepHistory: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.historyCleared || len(db.history) != 1 {
		t.Fatalf("history should be kept")
	}
}

func TestImportDatasets_InvalidJSON(t *testing.T) {
	db := &mockStore{}
	server := newTestServer(db)

	_, _, err := server.handleImportDatasets(context.Background(), nil, ImportDatasetsInput{JSON: "{"})
	if !errors.Is(err, ingest.ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
	if db.replaced != nil {
		t.Fatalf("store must be untouched")
	}
}

func TestRepairIDs(t *testing.T) {
	demo := dataset.Demo()
	db := &mockStore{data: demo}
	server := newTestServer(db)

	_, output, err := server.handleRepairIDs(context.Background(), nil, RepairIDsInput{DryRun: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	total := len(demo.Scenes) + len(demo.Layers) + len(demo.Plays) + len(demo.Commands)
	if len(output.Changes) != total {
		t.Fatalf("expected %d changes, got %d", total, len(output.Changes))
	}
	if output.Saved || db.replaced != nil {
		t.Fatalf("dry run must not save")
	}

	_, output, err = server.handleRepairIDs(context.Background(), nil, RepairIDsInput{Relink: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !output.Saved || db.replaced == nil {
		t.Fatalf("expected repaired dataset to be saved")
	}
	if output.Relinked == 0 {
		t.Fatalf("expected references to be relinked")
	}
}

func TestValidateDataset(t *testing.T) {
	d := dataset.Demo()
	d.Plays[0].LayerID = "L9_MISSING"
	server := newTestServer(&mockStore{data: d})

	_, output, err := server.handleValidateDataset(context.Background(), nil, ValidateDatasetInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Errors == 0 {
		t.Fatalf("expected errors, got %+v", output)
	}
	found := false
	for _, issue := range output.Issues {
		if issue.Code == "dangling_layer_ref" && issue.RecordID == "P001" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected dangling layer issue, got %+v", output.Issues)
	}
}

func TestGenerateStory(t *testing.T) {
	db := &mockStore{data: dataset.Demo()}
	server := newTestServer(db)

	_, output, err := server.handleGenerateStory(context.Background(), nil, GenerateStoryInput{SceneID: "S001", Save: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Story.ID != "story-1" || output.Story.SceneID != "S001" {
		t.Fatalf("unexpected story: %+v", output.Story)
	}
	if len(output.Story.Items) == 0 || output.Story.Items[0].Type != story.ItemHeader {
		t.Fatalf("expected header item first, got %+v", output.Story.Items)
	}
	if output.Text == "" {
		t.Fatalf("expected formatted text")
	}
	if !output.Saved || len(db.history) != 1 {
		t.Fatalf("expected story saved to history")
	}
}

func TestGenerateStory_SelectedScene(t *testing.T) {
	db := &mockStore{data: dataset.Demo(), state: session.State{SelectedSceneID: "S002"}}
	server := newTestServer(db)

	_, output, err := server.handleGenerateStory(context.Background(), nil, GenerateStoryInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Story.SceneID != "S002" || output.Saved {
		t.Fatalf("unexpected output: %+v", output)
	}
}

func TestGenerateStory_Errors(t *testing.T) {
	server := newTestServer(&mockStore{data: dataset.Demo()})

	_, _, err := server.handleGenerateStory(context.Background(), nil, GenerateStoryInput{})
	if !errors.Is(err, story.ErrNoSceneSelected) {
		t.Fatalf("expected ErrNoSceneSelected, got %v", err)
	}
	_, _, err = server.handleGenerateStory(context.Background(), nil, GenerateStoryInput{SceneID: "S001", Worldview: "月王故事"})
	if !errors.Is(err, story.ErrWorldviewMismatch) {
		t.Fatalf("expected ErrWorldviewMismatch, got %v", err)
	}
}
