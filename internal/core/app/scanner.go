package app

import (
	"errors"
	"hdrgen/internal/core/app/helpers"
	"hdrgen/internal/shared/observability"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// ScanSources returns every Rust source under the configured source roots
// that is not excluded, sorted by path. A root nested inside another root is
// walked only on its own, so each file is listed once.
func (a *App) ScanSources() ([]string, error) {
	var files []string

	roots := helpers.UniqueScanRoots(a.Paths.SourceRoots)
	isRoot := make(map[string]bool, len(roots))
	for _, root := range roots {
		isRoot[root] = true
	}

	for _, root := range roots {
		if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
			slog.Warn("source root does not exist", "path", root)
			continue
		}

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if path != root && (isRoot[path] || a.filter.ExcludeDir(path)) {
					return filepath.SkipDir
				}
				return nil
			}

			if a.filter.ExcludeFile(path) {
				return nil
			}

			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	observability.FilesScannedTotal.Add(float64(len(files)))
	return files, nil
}
