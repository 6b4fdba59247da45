package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperr "github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/storage"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Storage.Backend != storage.BackendFile || cfg.Storage.Key != storage.DefaultKey {
		t.Errorf("storage defaults = %+v", cfg.Storage)
	}
	if cfg.Editor.SaveDebounce.Duration != 250*time.Millisecond {
		t.Errorf("save debounce = %v", cfg.Editor.SaveDebounce)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestDirXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := Dir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", "mindmap") {
		t.Errorf("Dir() = %q", dir)
	}
	path, _ := Path()
	if filepath.Base(path) != "config.toml" {
		t.Errorf("Path() = %q", path)
	}
}

func TestDirHomeFallback(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	dir, err := Dir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".config", "mindmap"); dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if cfg != Default() {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[storage]
backend = "sqlite"
sqlite_path = "/var/lib/mindmap.db"

[layout]
ring_spacing = 120
gap = 4

[editor]
save_debounce = "1s"

[server]
addr = ":9000"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.SQLitePath != "/var/lib/mindmap.db" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Storage.Key != storage.DefaultKey {
		t.Error("unset key should keep its default")
	}
	if cfg.Layout.RingSpacing != 120 || cfg.Layout.Gap != 4 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Editor.SaveDebounce.Duration != time.Second {
		t.Errorf("save debounce = %v", cfg.Editor.SaveDebounce)
	}
	if cfg.Editor.DefaultText == "" {
		t.Error("unset default text should keep its default")
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[storage\nbackend ="},
		{"unknown key", "[storage]\nflavour = \"x\"\n"},
		{"unknown backend", "[storage]\nbackend = \"etcd\"\n"},
		{"bad key", "[storage]\nkey = \"a b\"\n"},
		{"negative size", "[layout]\nindent = -3\n"},
		{"bad duration", "[editor]\nsave_debounce = \"soon\"\n"},
		{"multiline default text", "[editor]\ndefault_text = \"a\\nb\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.data), Default())
			if err == nil {
				t.Fatal("expected an error")
			}
			if cfg != Default() {
				t.Error("failed parse must return the base config")
			}
			if apperr.GetCode(err) == "" {
				t.Errorf("error should carry a code: %v", err)
			}
		})
	}
}

func TestApplyLayout(t *testing.T) {
	cfg := Default()
	cfg.Layout = LayoutConfig{RingSpacing: 100, Indent: 40, Gap: 2}

	opts := pipeline.Options{Indent: 16}
	cfg.ApplyLayout(&opts)

	if opts.RingSpacing != 100 || opts.Gap != 2 {
		t.Errorf("unset fields should come from the config: %+v", opts)
	}
	if opts.Indent != 16 {
		t.Errorf("flag value should win, got indent %v", opts.Indent)
	}
}

func TestStorageOptions(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = storage.BackendRedis
	cfg.Storage.RedisAddr = "localhost:6379"

	opts := cfg.StorageOptions()
	if opts.Backend != "redis" || opts.RedisAddr != "localhost:6379" {
		t.Errorf("StorageOptions() = %+v", opts)
	}
}

func TestCoordinatorOptions(t *testing.T) {
	cfg := Default()
	cfg.Editor.DefaultText = "Idea"
	if got := len(cfg.CoordinatorOptions()); got < 4 {
		t.Errorf("CoordinatorOptions() returned %d options", got)
	}
}
