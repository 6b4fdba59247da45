package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}
}

func TestClearDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.svg", "ab/cd.json", "ab/ef.txt", "zz/deep/x.png"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	n, err := clearDir(dir)
	if err != nil {
		t.Fatalf("clearDir() error: %v", err)
	}
	if n != 4 {
		t.Errorf("clearDir() removed %d files, want 4", n)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("dir itself should be kept: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("dir should be empty, has %d entries", len(entries))
	}
}

func TestClearDirMissing(t *testing.T) {
	n, err := clearDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil || n != 0 {
		t.Errorf("clearDir(missing) = %d, %v; want 0, nil", n, err)
	}
}

func TestDirStats(t *testing.T) {
	dir := t.TempDir()
	for name, size := range map[string]int{"a.svg": 10, "sub/b.png": 32} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	st, err := dirStats(dir)
	if err != nil {
		t.Fatalf("dirStats() error: %v", err)
	}
	if st.files != 2 || st.bytes != 42 {
		t.Errorf("dirStats() = %d files, %d bytes; want 2, 42", st.files, st.bytes)
	}
	if st.newest.IsZero() {
		t.Error("newest write time not set")
	}

	st, err = dirStats(filepath.Join(dir, "missing"))
	if err != nil || st.files != 0 {
		t.Errorf("dirStats(missing) = %+v, %v", st, err)
	}
}
