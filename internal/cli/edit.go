package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	mmio "github.com/matzehuels/mindmap/pkg/io"
	"github.com/matzehuels/mindmap/pkg/tree"
	"github.com/matzehuels/mindmap/pkg/view"
)

type editOpts struct {
	backend   string
	noPersist bool
	logFile   string
}

// editCommand creates the edit command.
func (c *CLI) editCommand() *cobra.Command {
	var opts editOpts

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a map in the terminal",
		Long: `Edit a map in the terminal.

Without a file the last session is restored from the configured store.
With a file the session starts from that file, and ctrl+s writes it back.
Every edit is saved to the store shortly after it happens. Press ? for the
key bindings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runEdit(cmd.Context(), input, opts)
		},
	}

	cmd.Flags().StringVar(&opts.backend, "backend", "", "snapshot backend: file, redis, mongo, sqlite, none")
	cmd.Flags().BoolVar(&opts.noPersist, "no-persist", false, "do not restore or save the session")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to this file while the editor runs")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, input string, opts editOpts) error {
	// The terminal belongs to the editor; logs go to --log-file or nowhere.
	var logw io.Writer = io.Discard
	if opts.logFile != "" {
		f, err := tea.LogToFile(opts.logFile, "mindmap")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logw = f
	}
	logger := newLogger(logw, c.Logger.GetLevel())

	var prog atomic.Pointer[tea.Program]
	var saver *view.Debouncer
	var persister *view.Persister
	var coord *view.Coordinator

	persist := func() {
		if persister != nil {
			_ = persister.Save(ctx, coord)
		}
	}
	// Timer-driven saves are sent through the event loop so they never run
	// concurrently with Update.
	saver = view.NewDebouncer(c.Config.Editor.SaveDebounce.Duration, persist, func(fn func()) {
		if p := prog.Load(); p != nil {
			p.Send(runMsg{fn: fn})
			return
		}
		saver.Notify()
	})
	defer saver.Stop()

	viewOpts := append(c.Config.CoordinatorOptions(), view.WithLogger(logger), view.WithSaver(saver))
	coord = view.New(tree.New(), viewOpts...)

	if !opts.noPersist {
		store, err := c.openStore(ctx, opts.backend)
		if err != nil {
			return err
		}
		defer store.Close()
		persister = view.NewPersister(store, c.snapshotKey(), logger)
	}

	switch {
	case input != "":
		if err := coord.LoadFile(input); err != nil {
			return err
		}
	case persister != nil:
		if _, err := persister.Restore(ctx, coord); err != nil {
			c.Logger.Warn("could not restore the last session", "err", err)
		}
	}

	hooks := editorHooks{
		Quit: saver.Flush,
		Save: func() (string, error) {
			saver.Stop()
			if input != "" {
				if err := mmio.WriteFile(input, coord.Snapshot()); err != nil {
					return "", err
				}
				persist()
				return input, nil
			}
			if persister == nil {
				return "", fmt.Errorf("persistence is disabled")
			}
			if err := persister.Save(ctx, coord); err != nil {
				return "", err
			}
			return persister.Key, nil
		},
	}

	p := tea.NewProgram(NewEditorModel(coord, hooks),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
	)
	prog.Store(p)
	if _, err := p.Run(); err != nil {
		// Ctrl+C through the context still leaves an edit to save.
		saver.Flush()
		return fmt.Errorf("editor: %w", err)
	}
	return nil
}
