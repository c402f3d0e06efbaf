package ingest

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
	"github.com/guyeu9/Interactive-story-game-editor/internal/ident"
)

type mockStore struct {
	data         *dataset.Dataset
	saved        []*dataset.Dataset
	ensureCalled bool
	failLoad     bool
	failSave     bool
}

func (m *mockStore) EnsureSchema(ctx context.Context) error {
	m.ensureCalled = true
	return nil
}

func (m *mockStore) LoadDataset(ctx context.Context) (*dataset.Dataset, error) {
	if m.failLoad {
		return nil, errors.New("forced load error")
	}
	if m.data == nil {
		return &dataset.Dataset{}, nil
	}
	return m.data.Clone(), nil
}

func (m *mockStore) ReplaceDataset(ctx context.Context, d *dataset.Dataset) error {
	if m.failSave {
		return errors.New("forced save error")
	}
	m.saved = append(m.saved, d)
	m.data = d.Clone()
	return nil
}

func TestRun_ImportsDirectory(t *testing.T) {
	db := &mockStore{data: dataset.Demo()}

	result, err := Run(context.Background(), db, ident.New(), []string{filepath.Join("testdata", "datasets")}, Options{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !db.ensureCalled {
		t.Fatalf("expected EnsureSchema to be called")
	}
	if len(db.saved) != 1 {
		t.Fatalf("expected one save, got %d", len(db.saved))
	}
	if result.FilesSkipped != 1 {
		t.Fatalf("expected duplicate file to be skipped, got %d", result.FilesSkipped)
	}
	if result.Datasets != 2 {
		t.Fatalf("expected 2 datasets, got %d", result.Datasets)
	}
	if got := result.Imported[dataset.KindScene]; got != 3 {
		t.Fatalf("expected 3 scenes imported, got %d", got)
	}

	saved := db.saved[0]
	if len(saved.Scenes) != 7 {
		t.Fatalf("expected 7 scenes after import, got %d", len(saved.Scenes))
	}
	if saved.HasDuplicates() {
		t.Fatalf("expected unique ids after import")
	}

	worldviews := map[string]bool{}
	for _, w := range result.Worldviews {
		worldviews[w] = true
	}
	if !worldviews["月王故事"] || !worldviews["王勇和体育生故事"] {
		t.Fatalf("unexpected worldviews: %v", result.Worldviews)
	}

	var gymLayer dataset.Layer
	for _, l := range saved.Layers {
		if l.Worldview == "王勇和体育生故事" {
			gymLayer = l
		}
	}
	for _, c := range saved.Commands {
		if c.Name == "教练来了" && c.TargetIDs != gymLayer.ID {
			t.Fatalf("expected command target %s, got %s", gymLayer.ID, c.TargetIDs)
		}
	}
}

func TestRun_DryRunDoesNotSave(t *testing.T) {
	db := &mockStore{data: dataset.Demo()}

	result, err := Run(context.Background(), db, ident.New(), []string{filepath.Join("testdata", "datasets", "moon.json")}, Options{DryRun: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(db.saved) != 0 {
		t.Fatalf("expected no save on dry run")
	}
	if len(result.Dataset.Scenes) != 6 {
		t.Fatalf("expected merged preview with 6 scenes, got %d", len(result.Dataset.Scenes))
	}
}

func TestRun_ParseErrorAbortsBeforeMerge(t *testing.T) {
	db := &mockStore{data: dataset.Demo()}

	_, err := Run(context.Background(), db, ident.New(), []string{filepath.Join("testdata", "datasets"), filepath.Join("testdata", "excluded")}, Options{})
	if !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
	if len(db.saved) != 0 {
		t.Fatalf("expected no save after parse error")
	}
}

func TestRun_Exclude(t *testing.T) {
	db := &mockStore{}
	excluded := filepath.Join("testdata", "excluded")

	_, err := Run(context.Background(), db, ident.New(), []string{"testdata"}, Options{Exclude: []string{excluded}})
	if err != nil {
		t.Fatalf("expected excluded broken file to be ignored, got %v", err)
	}
}

func TestRun_NoFiles(t *testing.T) {
	db := &mockStore{}
	if _, err := Run(context.Background(), db, ident.New(), []string{t.TempDir()}, Options{}); err == nil {
		t.Fatalf("expected error for empty directory")
	}
}

func TestRun_SaveError(t *testing.T) {
	db := &mockStore{failSave: true}
	_, err := Run(context.Background(), db, ident.New(), []string{filepath.Join("testdata", "datasets", "moon.json")}, Options{})
	if err == nil {
		t.Fatalf("expected save error")
	}
}

func TestLoad(t *testing.T) {
	t.Run("clean data is returned as is", func(t *testing.T) {
		db := &mockStore{data: dataset.Demo()}
		d, repaired, err := Load(context.Background(), db, ident.New(), Options{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if repaired != nil {
			t.Fatalf("expected no repair")
		}
		if d.Scenes[0].ID != "S001" {
			t.Fatalf("expected original ids, got %s", d.Scenes[0].ID)
		}
		if len(db.saved) != 0 {
			t.Fatalf("expected no save")
		}
	})

	t.Run("duplicates are repaired and saved", func(t *testing.T) {
		data := dataset.Demo()
		data.Plays[1].ID = data.Plays[0].ID
		db := &mockStore{data: data}

		d, repaired, err := Load(context.Background(), db, ident.New(), Options{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if repaired == nil || len(repaired.Changes) == 0 {
			t.Fatalf("expected repair result")
		}
		if d.HasDuplicates() {
			t.Fatalf("expected unique ids")
		}
		if len(db.saved) != 1 {
			t.Fatalf("expected repaired dataset to be saved")
		}
	})

	t.Run("load error", func(t *testing.T) {
		db := &mockStore{failLoad: true}
		if _, _, err := Load(context.Background(), db, ident.New(), Options{}); err == nil {
			t.Fatalf("expected error")
		}
	})
}
