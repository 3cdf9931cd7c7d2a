package app

import (
	"errors"
	"fmt"
	"hdrgen/internal/core/app/helpers"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// OutputPathFor maps a source file to its header path. The directories
// between the source root and the file, plus the file stem, are joined with
// dashes, so src/dns/log.rs becomes <output.dir>/rust-dns-log-gen.h.
func (a *App) OutputPathFor(source string) (string, error) {
	root, err := helpers.FindContainingRoot(source, a.Paths.SourceRoots)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		return "", fmt.Errorf("resolve source path %q: %w", source, err)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", fmt.Errorf("relativize %q: %w", source, err)
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	last := parts[len(parts)-1]
	stem := strings.TrimSuffix(last, filepath.Ext(last))
	dirs := strings.Join(parts[:len(parts)-1], "-")

	out := a.Config.Output
	name := fmt.Sprintf("%s-%s-%s%s", out.Prefix, dirs, stem, out.Suffix)
	name = strings.ReplaceAll(name, "--", "-")
	return filepath.Join(a.Paths.OutputDir, name), nil
}

// ShouldRegenerate reports whether output is missing or older than source.
// generate.force makes it always true.
func (a *App) ShouldRegenerate(source, output string) (bool, error) {
	if a.Config.Generate.Force {
		return true, nil
	}
	outInfo, err := os.Stat(output)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat header %q: %w", output, err)
	}
	srcInfo, err := os.Stat(source)
	if err != nil {
		return false, fmt.Errorf("stat source %q: %w", source, err)
	}
	return srcInfo.ModTime().After(outInfo.ModTime()), nil
}
