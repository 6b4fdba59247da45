package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// cacheCommand groups the subcommands that inspect the artifact cache of
// render, watch and serve.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or empty the render cache",
		Long: `Inspect or empty the render cache.

Artifacts are keyed by document content, format and layout settings, so an
unchanged map renders from the cache.`,
	}
	cmd.AddCommand(
		&cobra.Command{Use: "info", Short: "Show how much the render cache holds", RunE: inCacheDir(showCacheInfo)},
		&cobra.Command{Use: "clear", Short: "Remove all cached renders", RunE: inCacheDir(clearCache)},
		&cobra.Command{Use: "path", Short: "Print the cache directory", RunE: inCacheDir(func(dir string) error {
			fmt.Fprintln(stdout, dir)
			return nil
		})},
	)
	return cmd
}

// inCacheDir adapts fn to a cobra RunE that receives the cache directory.
func inCacheDir(fn func(dir string) error) func(*cobra.Command, []string) error {
	return func(*cobra.Command, []string) error {
		dir, err := cacheDir()
		if err != nil {
			return fmt.Errorf("locate cache: %w", err)
		}
		return fn(dir)
	}
}

func showCacheInfo(dir string) error {
	st, err := dirStats(dir)
	if err != nil {
		return err
	}
	printKeyValue("directory", dir)
	printKeyValue("artifacts", StyleNumber.Render(fmt.Sprint(st.files)))
	printKeyValue("size", humanize.Bytes(uint64(st.bytes)))
	if !st.newest.IsZero() {
		printKeyValue("last write", humanize.Time(st.newest))
	}
	return nil
}

func clearCache(dir string) error {
	n, err := clearDir(dir)
	switch {
	case err != nil:
		return err
	case n == 0:
		printInfo("Nothing cached")
	default:
		printSuccess("Removed %s", humanize.Comma(int64(n))+" cached "+pluralRender(n))
		printDetail("from %s", dir)
	}
	return nil
}

func pluralRender(n int) string {
	if n == 1 {
		return "render"
	}
	return "renders"
}

// clearDir removes every file below dir, then the emptied subdirectories.
// dir itself is kept. A missing dir counts as empty.
func clearDir(dir string) (int, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}

	count := 0
	var subdirs []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || path == dir {
			return nil
		}
		if d.IsDir() {
			subdirs = append(subdirs, path)
			return nil
		}
		if err := os.Remove(path); err == nil {
			count++
		}
		return nil
	})
	if err != nil {
		return count, err
	}
	for i := len(subdirs) - 1; i >= 0; i-- {
		os.Remove(subdirs[i])
	}
	return count, nil
}

type cacheStats struct {
	files  int
	bytes  int64
	newest time.Time
}

// dirStats totals the regular files below dir. A missing dir is empty.
func dirStats(dir string) (cacheStats, error) {
	var st cacheStats
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == dir {
				return filepath.SkipDir
			}
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		st.files++
		st.bytes += info.Size()
		if info.ModTime().After(st.newest) {
			st.newest = info.ModTime()
		}
		return nil
	})
	return st, err
}
