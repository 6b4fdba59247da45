package cli

import (
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/storage"
)

// completionGenerators writes the completion script of each supported shell.
var completionGenerators = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <shell>",
		Short: "Print a shell completion script",
		Long: `Print a completion script for bash, zsh, fish or powershell.

Load it for the current session, for example:

  source <(mindmap completion bash)
  mindmap completion fish | source

or write it to your shell's completion directory to load it permanently.
Besides commands and flags, the scripts complete view modes, output
formats and storage backends.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             slices.Sorted(maps.Keys(completionGenerators)),
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionGenerators[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// flagValues lists the fixed values of flags shared across commands.
var flagValues = map[string][]string{
	"mode":       {"normal", "plain", "radial"},
	"log-format": {"text", "json", "logfmt"},
	"format":     slices.Sorted(maps.Keys(pipeline.ValidFormats)),
	"to":         {"json", "md"},
	"style":      slices.Sorted(maps.Keys(pipeline.ValidStyles)),
	"backend":    {storage.BackendFile, storage.BackendSQLite, storage.BackendRedis, storage.BackendMongo, storage.BackendNone},
}

// registerFlagCompletions attaches value completion to every flag of cmd
// and its subcommands whose name appears in flagValues.
func registerFlagCompletions(cmd *cobra.Command) {
	for name, values := range flagValues {
		complete := cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp)
		if cmd.Flags().Lookup(name) != nil || cmd.PersistentFlags().Lookup(name) != nil {
			_ = cmd.RegisterFlagCompletionFunc(name, complete)
		}
	}
	for _, sub := range cmd.Commands() {
		registerFlagCompletions(sub)
	}
}
