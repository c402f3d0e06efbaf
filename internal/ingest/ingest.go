// Package ingest brings records into a dataset: JSON dataset files are
// re-keyed and merged, batch text becomes new records, and stored data with
// repeated IDs is repaired.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
	"github.com/guyeu9/Interactive-story-game-editor/internal/ident"
)

// Store is the persistence the ingest entry points need.
type Store interface {
	EnsureSchema(ctx context.Context) error
	LoadDataset(ctx context.Context) (*dataset.Dataset, error)
	ReplaceDataset(ctx context.Context, d *dataset.Dataset) error
}

// Run imports every JSON file under paths into the stored dataset. All files
// are read and decoded before anything is merged; a decode failure leaves
// the store untouched. With opts.DryRun the merged dataset is returned but
// not saved.
func Run(ctx context.Context, db Store, alloc *ident.Allocator, paths []string, opts Options) (*Result, error) {
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	files, err := walkJSONFiles(paths, opts.Exclude)
	if err != nil {
		return nil, fmt.Errorf("walking import paths: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no JSON files found")
	}

	var sources []Source
	seen := make(map[string]string)
	skipped := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		hash := computeHash(data)
		if first, ok := seen[hash]; ok {
			opts.logger().Warn("skipping duplicate import file", "path", path, "same_as", first)
			skipped++
			continue
		}
		seen[hash] = path

		decoded, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		for _, src := range decoded {
			src.Index = len(sources)
			sources = append(sources, src)
		}
	}

	current, err := db.LoadDataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	result := Merge(current, sources, alloc, opts)
	result.FilesSkipped = skipped
	if opts.DryRun {
		return result, nil
	}
	if err := db.ReplaceDataset(ctx, result.Dataset); err != nil {
		return nil, fmt.Errorf("saving dataset: %w", err)
	}
	return result, nil
}

// Load returns the stored dataset. When any kind holds a repeated ID the
// dataset is repaired and saved first, and the repair is returned so the
// caller can tell the user.
func Load(ctx context.Context, db Store, alloc *ident.Allocator, opts Options) (*dataset.Dataset, *RepairResult, error) {
	d, err := db.LoadDataset(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading dataset: %w", err)
	}
	if !d.HasDuplicates() {
		return d, nil, nil
	}

	for _, kind := range dataset.Kinds {
		if dups := d.Duplicates(kind); len(dups) > 0 {
			opts.logger().Warn("duplicate ids detected", "kind", string(kind), "ids", dups)
		}
	}
	repaired := Repair(d, alloc, opts)
	if err := db.ReplaceDataset(ctx, repaired.Dataset); err != nil {
		return nil, nil, fmt.Errorf("saving repaired dataset: %w", err)
	}
	return repaired.Dataset, repaired, nil
}

func walkJSONFiles(roots []string, excludes []string) ([]string, error) {
	excluded := make([]string, 0, len(excludes))
	for _, path := range excludes {
		if path == "" {
			continue
		}
		excluded = append(excluded, filepath.Clean(path))
	}

	var files []string
	for _, root := range roots {
		if root == "" {
			continue
		}
		root = filepath.Clean(root)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && isExcluded(path, excluded) {
				return filepath.SkipDir
			}
			if d.IsDir() {
				return nil
			}
			// Explicitly named files are taken whatever their extension.
			if path != root && !strings.HasSuffix(strings.ToLower(d.Name()), ".json") {
				return nil
			}
			if isExcluded(path, excluded) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func isExcluded(path string, excludes []string) bool {
	clean := filepath.Clean(path)
	for _, exclude := range excludes {
		if exclude == clean || strings.HasPrefix(clean, exclude+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
