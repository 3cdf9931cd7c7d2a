package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// UniqueScanRoots returns the absolute, de-duplicated, sorted roots.
func UniqueScanRoots(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		normalized := filepath.Clean(p)
		if abs, err := filepath.Abs(normalized); err == nil {
			normalized = filepath.Clean(abs)
		}
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		roots = append(roots, normalized)
	}
	sort.Strings(roots)
	return roots
}

// FindContainingRoot returns the deepest root that contains path, so nested
// source roots name headers relative to the closest one.
func FindContainingRoot(path string, roots []string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve file path %q: %w", path, err)
	}

	best := ""
	for _, root := range roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return "", fmt.Errorf("resolve source root %q: %w", root, err)
		}

		rel, err := filepath.Rel(absRoot, absPath)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))) {
			if len(absRoot) > len(best) {
				best = absRoot
			}
		}
	}

	if best == "" {
		return "", fmt.Errorf("source file %q is not under any configured source root", path)
	}
	return best, nil
}
