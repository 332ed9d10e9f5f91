package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/statboard/pkg/dashboard"
	"github.com/matzehuels/statboard/pkg/render"
)

// outputOpts holds the flags shared by every chart command.
type outputOpts struct {
	formats string // comma-separated output formats
	output  string // output file (single format), base path (multiple) or "-" for stdout
	width   int    // canvas width in pixels; 0 keeps the chart default
	height  int    // canvas height in pixels; 0 keeps the chart default
	refresh bool   // re-render even when the artifact is cached
}

func (o *outputOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.formats, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	cmd.Flags().IntVar(&o.width, "width", 0, "canvas width in pixels")
	cmd.Flags().IntVar(&o.height, "height", 0, "canvas height in pixels")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "ignore cached artifacts")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
}

func (o *outputOpts) apply(opts *dashboard.Options) {
	opts.Formats = parseFormats(o.formats)
	opts.Width = o.width
	opts.Height = o.height
	opts.Refresh = o.refresh
}

// runView executes one view and writes its artifacts.
func (c *CLI) runView(ctx context.Context, opts dashboard.Options, out outputOpts) error {
	out.apply(&opts)
	opts.Logger = loggerFromContext(ctx)

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	sp := newSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %s...", opts.View))
	sp.start()
	res, err := runner.Execute(ctx, opts)
	switch {
	case err != nil && sp.interrupted():
		sp.stop()
		return err
	case err != nil:
		sp.fail(fmt.Sprintf("Rendering %s failed", opts.View))
		return err
	}
	sp.stop()

	if err := writeArtifacts(res.View, opts.Formats, res.Artifacts, out.output); err != nil {
		return err
	}
	if out.output != "-" {
		printStats(res.Stats.Rows, res.CacheInfo.RenderHit)
	}
	return nil
}

// writeArtifacts writes one file per format. A single format goes to
// output as given; several formats share output as a base path.
func writeArtifacts(view string, formats []string, artifacts map[string][]byte, output string) error {
	if output == "-" {
		if len(formats) != 1 {
			return fmt.Errorf("stdout output needs exactly one format, got %d", len(formats))
		}
		_, err := os.Stdout.Write(artifacts[formats[0]])
		return err
	}

	for _, format := range formats {
		path := output
		if path == "" || len(formats) > 1 {
			path = basePath(output, view) + "." + format
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// basePath strips a known format extension from output, or returns the
// view name when output is empty.
func basePath(output, view string) string {
	if output == "" {
		return view
	}
	ext := filepath.Ext(output)
	for _, f := range render.Formats {
		if strings.EqualFold(ext, "."+f) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}
