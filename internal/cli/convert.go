package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	mmio "github.com/matzehuels/mindmap/pkg/io"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var output, to string

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert between the JSON document and the Markdown outline",
		Long: `Convert between the JSON document and the Markdown outline.

A .json input becomes Markdown and anything else becomes JSON, unless --to
is given. Converting to Markdown drops the view state (mode, zoom, pan) and
colors; fold state is kept only in JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), args[0], output, to)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, or - for stdout (default: input name with the new extension)")
	cmd.Flags().StringVar(&to, "to", "", "target format: json, md")

	return cmd
}

func (c *CLI) runConvert(ctx context.Context, input, output, to string) error {
	logger := loggerFromContext(ctx)

	doc, err := mmio.ReadFile(input)
	if err != nil {
		return err
	}
	from := mmio.FormatForPath(input)

	target := mmio.FormatJSON
	if from == mmio.FormatJSON {
		target = mmio.FormatMarkdown
	}
	if to != "" {
		if target, err = mmio.ParseFormat(to); err != nil {
			return err
		}
	}

	data, err := mmio.Encode(target, doc)
	if err != nil {
		return err
	}
	if output == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if output == "" {
		output = convertedPath(input, target)
	}
	if filepath.Clean(output) == filepath.Clean(input) {
		return fmt.Errorf("refusing to overwrite %s; pass --output", input)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	logger.Debugf("Converted %s (%s) to %s (%s)", input, from, output, target)
	printSuccess("Converted %s", input)
	printFile(output)
	printStats(tree.New(doc.Roots...).Len(), countVisible(doc.Roots), false)
	printNewline()
	printNextStep("Edit it", appName+" edit "+output)
	return nil
}

// convertedPath swaps the extension of input for the target format.
func convertedPath(input string, target mmio.Format) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if target == mmio.FormatJSON {
		return base + ".json"
	}
	return base + ".md"
}

// countVisible counts the nodes not hidden by a folded ancestor.
func countVisible(roots []*tree.Node) int {
	n := 0
	for _, r := range roots {
		n++
		n += countVisible(tree.VisibleChildren(r))
	}
	return n
}
