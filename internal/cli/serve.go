package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/config"
	mmio "github.com/matzehuels/mindmap/pkg/io"
	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/server"
	"github.com/matzehuels/mindmap/pkg/view"
)

type serveOpts struct {
	addr      string
	backend   string
	noPersist bool
	noCache   bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve an editing session over HTTP",
		Long: `Serve an editing session over HTTP.

The session is restored from the configured store and saved back after
every edit. With a file argument the session starts from that file instead.
Run with -v to log every request.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runServe(cmd.Context(), input, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default: from config, "+config.DefaultAddr+")")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "snapshot backend: file, redis, mongo, sqlite, none")
	cmd.Flags().BoolVar(&opts.noPersist, "no-persist", false, "do not restore or save the session")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input string, opts serveOpts) error {
	addr := opts.addr
	if addr == "" {
		addr = c.Config.Server.Addr
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var render pipeline.Options
	c.applyConfig(&render)

	srvOpts := []server.Option{
		server.WithLogger(c.Logger),
		server.WithRunner(runner),
		server.WithRenderOptions(render),
		server.WithViewOptions(c.Config.CoordinatorOptions()...),
		server.WithSaveDelay(c.Config.Editor.SaveDebounce.Duration),
	}
	if !opts.noPersist {
		store, err := c.openStore(ctx, opts.backend)
		if err != nil {
			return err
		}
		defer store.Close()
		srvOpts = append(srvOpts, server.WithPersister(view.NewPersister(store, c.snapshotKey(), c.Logger)))
	}
	srv := server.New(srvOpts...)

	if input != "" {
		if err := loadInto(srv, input); err != nil {
			return err
		}
	} else if _, err := srv.Restore(ctx); err != nil {
		c.Logger.Warn("could not restore the last session", "err", err)
	}

	printInfo("Serving on %s", StyleHighlight.Render("http://"+addr))
	return srv.ListenAndServe(ctx, addr)
}

// loadInto replaces the server session with the document at path.
func loadInto(srv *server.Server, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return srv.Load(mmio.FormatForPath(path), data)
}
