// Package config loads the mindmap configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/mindmap/config.toml, falling
// back to ~/.config/mindmap/config.toml:
//
//	[storage]
//	backend = "sqlite"
//	sqlite_path = "/home/me/.local/share/mindmap/mindmap.db"
//
//	[layout]
//	ring_spacing = 160
//
//	[editor]
//	save_debounce = "500ms"
//
//	[server]
//	addr = ":8080"
//
// A missing file is not an error: [Load] returns [Default]. Command-line flags
// override whatever the file sets.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	apperr "github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/storage"
	"github.com/matzehuels/mindmap/pkg/tree"
	"github.com/matzehuels/mindmap/pkg/view"
)

const (
	appName  = "mindmap"
	fileName = "config.toml"

	// DefaultAddr is the listen address of the HTTP server.
	DefaultAddr = "127.0.0.1:7420"
)

// Config is the decoded configuration file.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Layout  LayoutConfig  `toml:"layout"`
	Editor  EditorConfig  `toml:"editor"`
	Server  ServerConfig  `toml:"server"`
}

// StorageConfig selects the snapshot backend.
type StorageConfig struct {
	Backend       string `toml:"backend"` // file, redis, mongo, sqlite or none
	Dir           string `toml:"dir"`
	Key           string `toml:"key"`
	RedisAddr     string `toml:"redis_addr"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
	SQLitePath    string `toml:"sqlite_path"`
}

// LayoutConfig overrides layout sizes. Zero values keep the built-in sizes.
type LayoutConfig struct {
	RingSpacing float64 `toml:"ring_spacing"`
	Indent      float64 `toml:"indent"`
	LineHeight  float64 `toml:"line_height"`
	CharWidth   float64 `toml:"char_width"`
	Gap         float64 `toml:"gap"`
	CenterX     float64 `toml:"center_x"`
	CenterY     float64 `toml:"center_y"`
}

// EditorConfig tunes the interactive editor.
type EditorConfig struct {
	SaveDebounce Duration `toml:"save_debounce"`
	DefaultText  string   `toml:"default_text"`
}

// ServerConfig configures "mindmap serve".
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a Go duration string ("250ms").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Storage: StorageConfig{Backend: storage.BackendFile, Key: storage.DefaultKey},
		Editor: EditorConfig{
			SaveDebounce: Duration{view.DefaultSaveDelay},
			DefaultText:  tree.DefaultText,
		},
		Server: ServerConfig{Addr: DefaultAddr},
	}
}

// Dir returns the configuration directory.
func Dir() (string, error) {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the location of the configuration file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads the configuration file at path. An empty path uses [Path].
// Keys the file leaves out keep their [Default] values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, apperr.Wrap(apperr.ErrCodeInvalidPath, err, "read config %s", path)
	}
	return Parse(data, cfg)
}

// Parse decodes TOML data on top of base and validates the result.
func Parse(data []byte, base Config) (Config, error) {
	cfg := base
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return base, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "parse config")
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return base, apperr.New(apperr.ErrCodeInvalidInput, "unknown config key %q", undec[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case "", storage.BackendFile, storage.BackendRedis, storage.BackendMongo,
		storage.BackendSQLite, storage.BackendNone:
	default:
		return apperr.New(apperr.ErrCodeInvalidInput, "unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Key != "" {
		if err := apperr.ValidateStorageKey(c.Storage.Key); err != nil {
			return err
		}
	}
	l := c.Layout
	for _, v := range []float64{l.RingSpacing, l.Indent, l.LineHeight, l.CharWidth, l.Gap, l.CenterX, l.CenterY} {
		if v < 0 {
			return apperr.New(apperr.ErrCodeInvalidInput, "layout sizes must not be negative")
		}
	}
	if c.Editor.SaveDebounce.Duration < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "save_debounce must not be negative")
	}
	if c.Editor.DefaultText != "" {
		return apperr.ValidateNodeText(c.Editor.DefaultText)
	}
	return nil
}

// StorageOptions returns the options for storage.Open.
func (c Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:       c.Storage.Backend,
		Dir:           c.Storage.Dir,
		RedisAddr:     c.Storage.RedisAddr,
		MongoURI:      c.Storage.MongoURI,
		MongoDatabase: c.Storage.MongoDatabase,
		SQLitePath:    c.Storage.SQLitePath,
	}
}

// ApplyLayout copies the layout sizes into opts where opts leaves them unset.
func (c Config) ApplyLayout(opts *pipeline.Options) {
	set := func(dst *float64, v float64) {
		if *dst == 0 {
			*dst = v
		}
	}
	set(&opts.RingSpacing, c.Layout.RingSpacing)
	set(&opts.Indent, c.Layout.Indent)
	set(&opts.LineHeight, c.Layout.LineHeight)
	set(&opts.CharWidth, c.Layout.CharWidth)
	set(&opts.Gap, c.Layout.Gap)
	set(&opts.CenterX, c.Layout.CenterX)
	set(&opts.CenterY, c.Layout.CenterY)
}

// CoordinatorOptions returns the view options for an editing session.
func (c Config) CoordinatorOptions() []view.Option {
	var opts pipeline.Options
	c.ApplyLayout(&opts)
	out := opts.CoordinatorOptions()
	if c.Editor.DefaultText != "" {
		out = append(out, view.WithDefaultText(c.Editor.DefaultText))
	}
	return out
}
