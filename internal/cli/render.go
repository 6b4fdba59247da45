package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [map.json|outline.md]",
		Short: "Render a map to SVG, PNG, PDF, JSON, text, DOT or Markdown",
		Long: `Render a map to one or more output formats.

The input is a JSON document or a Markdown outline (chosen by extension).
The view mode stored in the document is used unless --mode is given; the
plain mode renders the outline without connectors.

Formats:
  svg   vector drawing of the frame
  png   raster image (needs rsvg-convert)
  pdf   PDF document (needs rsvg-convert)
  json  node boxes and connector polylines
  txt   terminal drawing of the frame
  dot   Graphviz source of the tree
  md    Markdown outline

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateMode(opts.Mode); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, txt, dot, md (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-render even when cached")

	addLayoutFlags(cmd, &opts)
	cmd.Flags().StringVar(&opts.Style, "style", pipeline.DefaultStyle, "visual style: simple (default), bare, nodelink (Graphviz diagram)")
	cmd.Flags().BoolVar(&opts.Transform, "transform", false, "apply the stored zoom and pan")
	cmd.Flags().BoolVar(&opts.Selection, "selection", false, "highlight the first node")
	cmd.Flags().BoolVar(&opts.ShowFolded, "show-folded", false, "include folded-away nodes in json and dot output")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultPNGScale, "PNG scale factor")

	return cmd
}

// addLayoutFlags registers the flags shared by render and watch.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "", "view mode: normal, plain, radial (default: from the document)")
	cmd.Flags().Float64Var(&opts.RingSpacing, "ring-spacing", 0, "distance between radial rings")
	cmd.Flags().Float64Var(&opts.Indent, "indent", 0, "horizontal offset of each outline level")
	cmd.Flags().Float64Var(&opts.Gap, "gap", 0, "gap between a connector and its label")
}

// runRender executes the pipeline for one input and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Input = input
	c.applyConfig(&opts)

	quiet := output == "-"
	var act *activity
	if !quiet {
		act = startActivity(ctx, os.Stderr, fmt.Sprintf("Rendering %s...", filepath.Base(input)))
	}

	result, err := runner.Execute(ctx, opts)
	if act != nil {
		if err != nil {
			act.fail("Render failed")
		} else {
			act.stop()
		}
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", input, err)
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}
	if quiet {
		return nil
	}

	printSuccess("Rendered %s", input)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.NodeCount, result.Stats.VisibleCount, result.CacheInfo.RenderHit)
	return nil
}

// writeArtifacts writes one file per format and returns the written paths.
// With output "-" the single artifact goes to stdout.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	if output == "-" {
		if len(formats) != 1 {
			return nil, fmt.Errorf("stdout output needs exactly one format, got %d", len(formats))
		}
		_, err := stdout.Write(artifacts[formats[0]])
		return nil, err
	}

	var paths []string
	for _, format := range formats {
		path := outputPath(input, output, format, len(formats) > 1)
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath derives the file name of one artifact. A single format writes
// to output as given; several formats treat output as a base path. A
// derived name never overwrites the input.
func outputPath(input, output, format string, multiple bool) string {
	if output != "" && !multiple {
		return output
	}
	base := basePath(output, input)
	if path := base + "." + format; path != input {
		return path
	}
	return base + ".out." + format
}

// basePath strips a known format extension from output, or derives the
// base from input when output is empty.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
