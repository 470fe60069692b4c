package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vabarbosa/simple-data-vis/pkg/errors"
	"github.com/vabarbosa/simple-data-vis/pkg/export"
	"github.com/vabarbosa/simple-data-vis/pkg/pipeline"
)

// sourceFlags are the flags shared by commands that read one data source.
type sourceFlags struct {
	chartType string
	view      string
	options   []string
	params    []string
	noCache   bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.chartType, "type", "t", "", "chart type, e.g. bar-chart (default: inferred from the data)")
	cmd.Flags().StringVar(&f.view, "view", "", "view path appended to the source")
	cmd.Flags().StringArrayVar(&f.options, "option", nil, "chart or query option as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&f.params, "param", nil, "extra query parameter as key=value, sent in order (repeatable)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// pipelineOptions builds pipeline options for source from the flags.
func (f *sourceFlags) pipelineOptions(source string) (pipeline.Options, error) {
	opts := pipeline.Options{
		Source: source,
		Type:   f.chartType,
		View:   f.view,
	}
	for _, kv := range f.options {
		k, v, err := splitPair("option", kv)
		if err != nil {
			return opts, err
		}
		if opts.Options == nil {
			opts.Options = make(map[string]any)
		}
		opts.Options[k] = v
	}
	for _, kv := range f.params {
		k, v, err := splitPair("param", kv)
		if err != nil {
			return opts, err
		}
		opts.Params = append(opts.Params, pipeline.Param{Key: k, Value: v})
	}
	return opts, nil
}

// splitPair splits a key=value flag value at the first '='.
func splitPair(flag, kv string) (string, string, error) {
	k, v, ok := strings.Cut(kv, "=")
	if !ok || k == "" {
		return "", "", errors.New(errors.ErrCodeInvalidOption, "--%s %q must have the form key=value", flag, kv)
	}
	return k, v, nil
}

// renderCommand creates the render command for drawing one data source.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		src     sourceFlags
		output  string
		refresh bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [source]",
		Short: "Render a data source as a chart",
		Long: `Render a data source as a chart.

The source is a URL, a database view base (with --view) or a local JSON file.
The chart type is inferred from the shape of the records unless --type names
one; 'simpledatavis types' lists them.

The format follows the --output extension and defaults to SVG. Without
--output the chart is written to stdout. Rendered charts are cached locally;
use --refresh to draw again.`,
		Example: `  simpledatavis render data.json -o chart.svg
  simpledatavis render https://example.com/db --view _design/stats/_view/by_state \
      --option group=true --type map-vis -o states.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := src.pipelineOptions(args[0])
			if err != nil {
				return err
			}
			base.Width, base.Height = opts.Width, opts.Height
			base.Title, base.Background, base.Tooltips = opts.Title, opts.Background, opts.Tooltips
			base.Format = opts.Format
			if base.Format == "" && output != "" {
				base.Format = export.FormatFromPath(output)
			}
			base.Refresh = refresh
			return c.runRender(cmd.Context(), base, output, src.noCache)
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "output format: svg (default), html, png, pdf")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "container width in pixels (default: config or 800)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "container height in pixels (default: config or 600)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "accessible title embedded in the chart")
	cmd.Flags().StringVar(&opts.Background, "background", "", "background color of the exported chart")
	cmd.Flags().BoolVar(&opts.Tooltips, "tooltips", false, "show tooltips as SVG titles")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached charts")

	return cmd
}

// runRender executes the pipeline and writes the artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, runnerOpts{noCache: noCache, allowFiles: true})
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	toStdout := output == "" || output == "-"

	var spinner *Spinner
	if !toStdout {
		spinner = newSpinnerWithContext(ctx, "Rendering "+opts.Source+"...")
		spinner.Start()
	}
	res, err := runner.Execute(ctx, opts)
	if spinner != nil {
		if err != nil {
			spinner.StopWithError("Render failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return fmt.Errorf("render: %s", errors.UserMessage(err))
	}

	if toStdout {
		_, err := os.Stdout.Write(res.Artifact)
		return err
	}
	if err := export.File(output, func(w io.Writer) error {
		_, err := w.Write(res.Artifact)
		return err
	}); err != nil {
		return err
	}

	printRendered(res.Type, res.Stats.Records, res.CacheInfo.ArtifactHit, output)
	return nil
}
