package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindmap/pkg/config"
	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/storage"
)

// appName names the cache and config directories.
const appName = "mindmap"

// Levels accepted by New.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// Shared state
// =============================================================================

// CLI is the state every subcommand shares: one logger and the loaded
// configuration.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string // --config
}

// New returns a CLI logging to w. Config starts at the built-in defaults and
// is replaced from disk in the root command's PersistentPreRunE.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), Config: config.Default()}
}

// SetLogLevel changes the level of the shared logger.
func (c *CLI) SetLogLevel(level log.Level) { c.Logger.SetLevel(level) }

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg
	return nil
}

// applyConfig copies the configured layout sizes into opts where no flag set
// them, and hands the pipeline our logger.
func (c *CLI) applyConfig(opts *pipeline.Options) {
	c.Config.ApplyLayout(opts)
	opts.Logger = c.Logger
}

// =============================================================================
// Stores
// =============================================================================

// newRunner returns a pipeline runner backed by the on-disk artifact cache,
// or by a null store when noCache is set or no cache directory exists.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	artifacts, err := artifactStore(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(artifacts, c.Logger), nil
}

func artifactStore(disabled bool) (storage.Store, error) {
	if disabled {
		return storage.NewNullStore(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return storage.NewNullStore(), nil
	}
	return storage.NewFileStore(dir)
}

// openStore opens the snapshot store. backend, when non-empty, wins over
// the configured one.
func (c *CLI) openStore(ctx context.Context, backend string) (storage.Store, error) {
	opts := c.Config.StorageOptions()
	if backend != "" {
		opts.Backend = backend
	}
	s, err := storage.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", opts.Backend, err)
	}
	return storage.Instrument(s), nil
}

func (c *CLI) snapshotKey() string {
	if key := c.Config.Storage.Key; key != "" {
		return key
	}
	return storage.DefaultKey
}

// cacheDir is $XDG_CACHE_HOME/mindmap, falling back to ~/.cache/mindmap.
func cacheDir() (string, error) {
	if base := os.Getenv("XDG_CACHE_HOME"); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats splits a --format value such as "svg, json". Blank entries
// are dropped; an empty value means SVG only.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return []string{pipeline.FormatSVG}
	}
	return out
}
