package watcher

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// SourceExt is the only file extension headers are generated from.
const SourceExt = ".rs"

// Filter decides which directories and files take part in a scan. Patterns
// are matched against base names.
type Filter struct {
	dirs  []glob.Glob
	files []glob.Glob
}

func NewFilter(excludeDirs, excludeFiles []string) (*Filter, error) {
	dirs, err := compileAll(excludeDirs)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude dir pattern: %w", err)
	}
	files, err := compileAll(excludeFiles)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude file pattern: %w", err)
	}
	return &Filter{dirs: dirs, files: files}, nil
}

func compileAll(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", pattern, err)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

func (f *Filter) ExcludeDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range f.dirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// ExcludeFile reports whether path is not a Rust source or matches an
// exclude pattern.
func (f *Filter) ExcludeFile(path string) bool {
	base := filepath.Base(path)
	if filepath.Ext(base) != SourceExt {
		return true
	}
	for _, g := range f.files {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// ExcludePath reports whether any directory between root and path, or the
// file itself, is excluded.
func (f *Filter) ExcludePath(root, path string) bool {
	if f.ExcludeFile(path) {
		return true
	}
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || rel == "." {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		for _, g := range f.dirs {
			if g.Match(part) {
				return true
			}
		}
	}
	return false
}
