package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePaths_DefaultLayout(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte("[package]\nname = \"x\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "src"), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	got, err := ResolvePaths(cfg, root)
	if err != nil {
		t.Fatal(err)
	}
	if got.ProjectRoot != filepath.Clean(root) {
		t.Fatalf("expected project root %q, got %q", root, got.ProjectRoot)
	}
	if len(got.SourceRoots) != 1 || got.SourceRoots[0] != filepath.Join(root, "src") {
		t.Fatalf("unexpected source roots: %v", got.SourceRoots)
	}
	if got.OutputDir != filepath.Join(root, "gen", "c-headers") {
		t.Fatalf("unexpected output dir: %q", got.OutputDir)
	}
	if got.DBPath != filepath.Join(root, "data/database", "history.db") {
		t.Fatalf("unexpected db path: %q", got.DBPath)
	}
	if got.LicenseFile != "" {
		t.Fatalf("expected no license file, got %q", got.LicenseFile)
	}
}

func TestResolvePaths_AbsoluteOverrides(t *testing.T) {
	root := t.TempDir()
	dbPath := filepath.Join(root, "custom", "history.db")
	cfg := DefaultConfig()
	cfg.Paths.ProjectRoot = root
	cfg.Paths.DatabaseDir = filepath.Join(root, "db")
	cfg.DB.Path = dbPath
	cfg.Output.Dir = filepath.Join(root, "out")
	cfg.Output.LicenseFile = "LICENSE.txt"

	got, err := ResolvePaths(cfg, "/somewhere/else")
	if err != nil {
		t.Fatal(err)
	}
	if got.DBPath != dbPath {
		t.Fatalf("unexpected db path: %q", got.DBPath)
	}
	if got.OutputDir != filepath.Join(root, "out") {
		t.Fatalf("unexpected output dir: %q", got.OutputDir)
	}
	if got.LicenseFile != filepath.Join(root, "LICENSE.txt") {
		t.Fatalf("unexpected license file: %q", got.LicenseFile)
	}
}

func TestResolvePaths_EmptyCwd(t *testing.T) {
	if _, err := ResolvePaths(DefaultConfig(), " "); err == nil {
		t.Fatal("expected error for empty cwd")
	}
}

func TestDetectProjectRoot_FallbackOrder(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, DefaultFile), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := DetectProjectRoot([]string{sub})
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Clean(root) {
		t.Fatalf("expected %q, got %q", root, got)
	}
}
