package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	mmio "github.com/matzehuels/mindmap/pkg/io"
	"github.com/matzehuels/mindmap/pkg/storage"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// storeCommand creates the store command for the persisted editing session.
func (c *CLI) storeCommand() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect the persisted editing session",
		Long: `Inspect the persisted editing session.

The editor and the server save the session under one key (default
"mindmap_v1") in the backend chosen by the [storage] section of the config.`,
	}
	cmd.PersistentFlags().StringVar(&backend, "backend", "", "snapshot backend: file, redis, mongo, sqlite (default: from config)")

	cmd.AddCommand(c.storeShowCommand(&backend))
	cmd.AddCommand(c.storeExportCommand(&backend))
	cmd.AddCommand(c.storeClearCommand(&backend))
	cmd.AddCommand(c.storePathCommand(&backend))

	return cmd
}

// storeShowCommand creates the "store show" subcommand.
func (c *CLI) storeShowCommand(backend *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored session as an outline",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, found, err := c.readSnapshot(cmd.Context(), *backend)
			if err != nil {
				return err
			}
			if !found {
				printInfo("No stored session")
				return nil
			}
			f := tree.New(doc.Roots...)
			printKeyValue("key", c.snapshotKey())
			printKeyValue("mode", mmio.NormalizeViewMode(doc.ViewMode))
			printKeyValue("nodes", StyleNumber.Render(fmt.Sprint(f.Len())))
			printNewline()
			fmt.Fprint(stdout, mmio.Markdown(doc.Roots))
			return nil
		},
	}
}

// storeExportCommand creates the "store export" subcommand.
func (c *CLI) storeExportCommand(backend *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored session to a file",
		Long: `Write the stored session to a file. A .json output keeps the view
state; any other extension writes a Markdown outline. Without --output the
file is named after the first node.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, found, err := c.readSnapshot(cmd.Context(), *backend)
			if err != nil {
				return err
			}
			if !found {
				printWarning("No stored session to export")
				return nil
			}
			if output == "" {
				output = mmio.ExportName(tree.New(doc.Roots...))
			}
			if err := mmio.WriteFile(output, doc); err != nil {
				return err
			}
			printSuccess("Exported session")
			printFile(output)
			printNewline()
			printNextStep("Render it", appName+" render "+output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.json or .md)")
	return cmd
}

// storeClearCommand creates the "store clear" subcommand.
func (c *CLI) storeClearCommand(backend *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openStore(ctx, *backend)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.Delete(ctx, c.snapshotKey()); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
			printSuccess("Cleared stored session")
			printDetail("Backend: %s", storage.BackendName(s))
			return nil
		},
	}
}

// storePathCommand creates the "store path" subcommand.
func (c *CLI) storePathCommand(backend *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the session is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := c.storeLocation(*backend)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, loc)
			return nil
		},
	}
}

// readSnapshot loads the stored session document.
func (c *CLI) readSnapshot(ctx context.Context, backend string) (mmio.Document, bool, error) {
	s, err := c.openStore(ctx, backend)
	if err != nil {
		return mmio.Document{}, false, err
	}
	defer s.Close()

	data, found, err := s.Get(ctx, c.snapshotKey())
	if err != nil || !found {
		return mmio.Document{}, false, err
	}
	doc, err := mmio.DecodeJSON(data)
	if err != nil {
		return mmio.Document{}, false, fmt.Errorf("stored session is corrupt: %w", err)
	}
	return doc, true, nil
}

// storeLocation describes where the configured backend keeps the session.
func (c *CLI) storeLocation(backend string) (string, error) {
	cfg := c.Config.Storage
	if backend == "" {
		backend = cfg.Backend
	}
	switch backend {
	case "", storage.BackendFile:
		s, err := storage.NewFileStore(cfg.Dir)
		if err != nil {
			return "", err
		}
		return s.Path(c.snapshotKey()), nil
	case storage.BackendSQLite:
		if cfg.SQLitePath != "" {
			return cfg.SQLitePath, nil
		}
		dir, err := storage.DefaultDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "mindmap.db"), nil
	case storage.BackendRedis:
		return "redis://" + cfg.RedisAddr + "/" + c.snapshotKey(), nil
	case storage.BackendMongo:
		return cfg.MongoURI + " (" + cfg.MongoDatabase + ")", nil
	case storage.BackendNone:
		return "(not persisted)", nil
	}
	return "", fmt.Errorf("unknown storage backend %q", backend)
}
