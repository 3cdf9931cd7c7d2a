package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newFilter(t *testing.T, dirs, files []string) *Filter {
	t.Helper()
	f, err := NewFilter(dirs, files)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestNewWatcher_RejectsNilCallback(t *testing.T) {
	w, err := NewWatcher(100*time.Millisecond, newFilter(t, nil, nil), nil)
	if err == nil {
		t.Fatal("expected error for nil callback")
	}
	if !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("expected os.ErrInvalid, got %v", err)
	}
	if w != nil {
		t.Fatal("expected nil watcher when callback is invalid")
	}
}

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 4)
	filter := newFilter(t, []string{"target"}, []string{"*_generated.rs"})
	w, err := NewWatcher(100*time.Millisecond, filter, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	testFile := filepath.Join(tmpDir, "lib.rs")
	if err := os.WriteFile(testFile, []byte("pub extern \"C\" fn a() {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-changedFiles:
		found := false
		for _, p := range paths {
			if p == testFile {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected to find %s in changed files %v", testFile, paths)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for file change event")
	}

	// Excluded by pattern and by extension.
	if err := os.WriteFile(filepath.Join(tmpDir, "ffi_generated.rs"), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-changedFiles:
		t.Errorf("Excluded files triggered event: %v", paths)
	case <-time.After(500 * time.Millisecond):
	}

	// New directories are watched recursively after create.
	subdir := filepath.Join(tmpDir, "dns")
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		t.Fatal(err)
	}
	subFile := filepath.Join(subdir, "log.rs")
	if err := os.WriteFile(subFile, []byte("fn x() {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	foundNested := false
	timeout := time.After(2 * time.Second)
	for !foundNested {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == subFile {
					foundNested = true
					break
				}
			}
		case <-timeout:
			t.Fatal("timed out waiting for nested file event in newly created directory")
		}
	}
}

func TestWatcher_RemoveTriggersChange(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "gone.rs")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(50*time.Millisecond, newFilter(t, nil, nil), func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(2 * time.Second)
	for {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == path {
					return
				}
			}
		case <-timeout:
			t.Fatalf("timed out waiting for remove event for %s", path)
		}
	}
}

func TestFilter(t *testing.T) {
	f := newFilter(t, []string{".git", "target", "vendor*"}, []string{"*_test.rs"})

	if !f.ExcludeFile("src/main.c") {
		t.Error("expected non-Rust files to be excluded")
	}
	if f.ExcludeFile("src/lib.rs") {
		t.Error("expected lib.rs to be included")
	}
	if !f.ExcludeFile("src/LIB.RS") {
		t.Error("expected the extension match to be case-sensitive")
	}
	if !f.ExcludeFile("src/parser_test.rs") {
		t.Error("expected file pattern to exclude parser_test.rs")
	}
	if !f.ExcludeDir("/work/target") || f.ExcludeDir("/work/src") {
		t.Error("unexpected directory exclusion result")
	}
	if !f.ExcludePath("/work/src", "/work/src/vendored/x.rs") {
		t.Error("expected nested excluded dir to exclude the file")
	}
	if f.ExcludePath("/work/src", "/work/src/dns/log.rs") {
		t.Error("expected dns/log.rs to be included")
	}

	if _, err := NewFilter([]string{"["}, nil); err == nil {
		t.Error("expected invalid pattern to fail")
	}
}
