package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The root command owns the persistent flags:
//   - --verbose (-v): debug-level logging
//   - --log-format: text, json or logfmt log lines
//   - --config: path of the TOML config file (default: $XDG_CONFIG_HOME/mindmap/config.toml)
//
// The config file is read once, before any subcommand runs. The logger is
// attached to the command context and is reachable via loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		verbose   bool
		logFormat string
	)

	root := &cobra.Command{
		Use:   appName,
		Short: "Mindmap edits outlines as mind maps",
		Long: `Mindmap is an outline editor that shows the same tree as an indented
outline with elbow connectors, as a plain text hierarchy, or as a radial
mind map. Maps are stored as JSON or Markdown and can be rendered to SVG,
PNG, PDF, JSON, DOT and text.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			formatter, err := parseLogFormat(logFormat)
			if err != nil {
				return err
			}
			c.Logger.SetFormatter(formatter)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "log output: text (default), json, logfmt")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/mindmap/config.toml)")

	root.AddCommand(c.editCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	registerFlagCompletions(root)
	return root
}
