package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vabarbosa/simple-data-vis/pkg/errors"
	"github.com/vabarbosa/simple-data-vis/pkg/export"
	"github.com/vabarbosa/simple-data-vis/pkg/scene"
	"github.com/vabarbosa/simple-data-vis/pkg/vis"
)

const defaultFetchLimit = 4

type pageOpts struct {
	output  string
	origin  string
	limit   int
	noCache bool
}

// pageCommand creates the page command for rendering data-vis elements.
func (c *CLI) pageCommand() *cobra.Command {
	opts := pageOpts{limit: defaultFetchLimit}

	cmd := &cobra.Command{
		Use:   "page [file.html]",
		Short: "Render every data-vis element of an HTML page",
		Long: `Render every data-vis element of an HTML page.

Each element carrying a data-vis attribute is bound to that data source and
configured from its data-vis-* attributes. Sources are fetched concurrently
and charts are drawn into their elements in document order. The page is
written back with the tooltip overlay added.

Local data files are resolved against the working directory; relative URLs
against --origin. Named callbacks (data-vis-on*) have no scope here and are
replaced by the command's own progress reporting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.limit < 1 {
				return errors.New(errors.ErrCodeInvalidOption, "--concurrency must be at least 1")
			}
			return c.runPage(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&opts.origin, "origin", "", "base URL for relative data sources")
	cmd.Flags().IntVar(&opts.limit, "concurrency", opts.limit, "maximum concurrent fetches")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// pageChart tracks one binding through fetch and draw.
type pageChart struct {
	binding *vis.Binding
	raw     any
	failure string
}

func (c *CLI) runPage(ctx context.Context, input string, opts pageOpts) error {
	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	doc, err := scene.ParseHTML(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, runnerOpts{noCache: opts.noCache, allowFiles: true})
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	runner.Resolver.Origin = opts.origin

	bindings := vis.Discover(doc.Root(),
		vis.WithResolver(runner.Resolver),
		vis.WithEngine(runner.Engine),
		vis.WithLogger(c.Logger),
	)
	if len(bindings) == 0 {
		c.Logger.Warn("no data-vis elements", "file", input)
		return c.writePage(doc, opts.output, 0, 0)
	}

	charts := make([]*pageChart, len(bindings))
	for i, b := range bindings {
		pc := &pageChart{binding: b}
		b.On(vis.HookFail, func(msg string) {
			if pc.failure == "" {
				pc.failure = msg
			}
		})
		charts[i] = pc
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Fetching %d data sources...", len(charts)))
	spinner.Start()

	// Each goroutine owns one chart, so the fail hooks never share state.
	var g errgroup.Group
	g.SetLimit(opts.limit)
	for _, pc := range charts {
		g.Go(func() error {
			raw, err := pc.binding.Fetch(ctx)
			if err == nil {
				pc.raw = raw
			}
			return nil
		})
	}
	_ = g.Wait()
	if ctx.Err() != nil {
		spinner.Stop()
		return ctx.Err()
	}

	spinner.SetMessage("Drawing charts...")
	for _, pc := range charts {
		if pc.failure != "" {
			continue
		}
		pc.binding.Draw(ctx, pc.binding.Target(), pc.raw)
	}
	vis.Tooltip().Overlay(doc)
	spinner.Stop()

	failed := 0
	for _, pc := range charts {
		if pc.failure != "" {
			failed++
			c.Logger.Error("chart failed", "source", pc.binding.Source(), "err", pc.failure)
		}
	}

	if err := c.writePage(doc, opts.output, len(charts)-failed, len(charts)); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d of %d charts", len(charts)-failed, len(charts)))
	if failed > 0 {
		return fmt.Errorf("%d of %d charts failed", failed, len(charts))
	}
	return nil
}

// writePage writes doc to output, or to stdout without status lines.
func (c *CLI) writePage(doc *scene.Document, output string, drawn, total int) error {
	if output == "" || output == "-" {
		return scene.WriteDocument(os.Stdout, doc)
	}
	if err := export.File(output, func(w io.Writer) error {
		return scene.WriteDocument(w, doc)
	}); err != nil {
		return err
	}
	printPageWritten(drawn, total, output)
	return nil
}
