// Package jsonfile reads review exports stored as reviews_*.json files, each
// holding a JSON array of review records, and serves them as a read-only
// in-memory ReviewStore.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/ericfisherdev/greedyreview/internal/domain/model"
)

// ErrNoExports is returned when a directory holds no matching export files.
var ErrNoExports = errors.New("no review exports found")

// LoadFile decodes a single export file.
func LoadFile(path string) ([]model.Review, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var reviews []model.Review
	if err := json.NewDecoder(f).Decode(&reviews); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return reviews, nil
}

// LoadDir decodes every reviews_*.json file in dir, in file name order.
func LoadDir(dir string) ([]model.Review, error) {
	return loadGlob(dir, "reviews_*.json")
}

// LoadCategory decodes the exports of one category, named
// reviews_<category>.json or reviews_<category>_*.json.
func LoadCategory(dir, category string) ([]model.Review, error) {
	if category == "" || filepath.Base(category) != category {
		return nil, fmt.Errorf("invalid category %q", category)
	}

	exact, err := filepath.Glob(filepath.Join(dir, "reviews_"+category+".json"))
	if err != nil {
		return nil, fmt.Errorf("match exports: %w", err)
	}
	parts, err := filepath.Glob(filepath.Join(dir, "reviews_"+category+"_*.json"))
	if err != nil {
		return nil, fmt.Errorf("match exports: %w", err)
	}

	reviews, err := loadFiles(append(exact, parts...))
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		return nil, fmt.Errorf("category %q in %s: %w", category, dir, ErrNoExports)
	}

	return reviews, nil
}

func loadGlob(dir, pattern string) ([]model.Review, error) {
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("match exports: %w", err)
	}

	reviews, err := loadFiles(paths)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		return nil, fmt.Errorf("%s in %s: %w", pattern, dir, ErrNoExports)
	}

	return reviews, nil
}

// loadFiles returns nil only when paths is empty. Records missing a
// comment_id get a derived one.
func loadFiles(paths []string) ([]model.Review, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	slices.Sort(paths)

	all := []model.Review{}
	for _, p := range paths {
		reviews, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		all = append(all, reviews...)
	}
	AssignMissingIDs(all)

	return all, nil
}
