package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/view"
)

// watchDebounce coalesces the burst of events an editor emits on save.
const watchDebounce = 100 * time.Millisecond

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-render a map whenever the file changes",
		Long: `Re-render a map whenever the file changes.

The file is rendered once at start and again after every save. Render errors
are reported and watching continues, so a half-written file does not end the
session. Stop with Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateMode(opts.Mode); err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), args[0], opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, txt, dot, md (comma-separated)")
	cmd.Flags().StringVar(&opts.Style, "style", pipeline.DefaultStyle, "visual style: simple (default), bare")
	addLayoutFlags(cmd, &opts)

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, input string, opts pipeline.Options, output string) error {
	path, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()
	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	// Uncached: every save is a new document.
	runner := pipeline.NewRunner(nil, c.Logger)
	defer runner.Close()
	opts.Input = input
	c.applyConfig(&opts)

	trigger := make(chan struct{}, 1)
	debouncer := view.NewDebouncer(watchDebounce, func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}, nil)
	defer debouncer.Stop()

	c.rerender(ctx, runner, opts, output)
	printInfo("Watching %s", StyleHighlight.Render(input))

	for {
		select {
		case <-ctx.Done():
			printNewline()
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				c.Logger.Debug("file changed", "op", ev.Op.String())
				debouncer.Notify()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watcher error", "err", err)
		case <-trigger:
			c.rerender(ctx, runner, opts, output)
		}
	}
}

// rerender renders once and reports the outcome. Errors are printed, not
// returned.
func (c *CLI) rerender(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, output string) {
	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		printError("Render failed: %v", err)
		return
	}
	paths, err := writeArtifacts(result.Artifacts, opts.Formats, opts.Input, output)
	if err != nil {
		printError("%v", err)
		return
	}
	for _, p := range paths {
		printFile(p)
	}
	prog.done(fmt.Sprintf("Rendered %d nodes", result.Stats.NodeCount))
}
