package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vabarbosa/simple-data-vis/pkg/errors"
	"github.com/vabarbosa/simple-data-vis/pkg/export"
	"github.com/vabarbosa/simple-data-vis/pkg/vis"
)

// typesCommand creates the types command listing registered chart types.
func (c *CLI) typesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the registered chart types",
		Long: `List the registered chart types in registration order.

When several types accept a dataset the highest priority wins; ties go to the
type registered first. The table view accepts any data and is the fallback.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(uiOut, typesTable(vis.Default().All(), "", -1, 0, 0))
			printTypeHint()
			return nil
		},
	}
}

// pickCommand creates the pick command for choosing a chart type interactively.
func (c *CLI) pickCommand() *cobra.Command {
	var (
		src    sourceFlags
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "pick [source]",
		Short: "Choose among the chart types that fit a data source",
		Long: `Choose among the chart types that fit a data source.

The data is fetched once and the chart types accepting it are listed best
first, with the automatic choice marked. The selected type is rendered like
'simpledatavis render --type'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPick(cmd.Context(), args[0], &src, output, format)
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: svg (default), html, png, pdf")

	return cmd
}

func (c *CLI) runPick(ctx context.Context, source string, src *sourceFlags, output, format string) error {
	opts, err := src.pipelineOptions(source)
	if err != nil {
		return err
	}
	opts.Logger = c.Logger

	runner, err := c.newRunner(ctx, runnerOpts{noCache: src.noCache, allowFiles: true})
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	sel, err := runner.Select(ctx, opts)
	runner.Close()
	if err != nil {
		return fmt.Errorf("select: %s", errors.UserMessage(err))
	}
	if len(sel.Candidates) == 0 {
		return errors.New(errors.ErrCodeNoRenderer, "no chart type accepts this data")
	}

	chosen := ""
	if sel.Chosen != nil {
		chosen = sel.Chosen.Type
	}
	model := NewChartListModel(sel.Candidates, chosen, sel.Dataset.Len())
	final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return fmt.Errorf("chart picker: %w", err)
	}
	picked := final.(ChartListModel).Selected
	if picked == nil {
		printInfo("No chart type selected")
		return nil
	}

	opts.Type = picked.Type
	opts.Format = format
	if opts.Format == "" && output != "" {
		opts.Format = export.FormatFromPath(output)
	}
	// The data was just fetched; the response cache serves it again.
	return c.runRender(ctx, opts, output, src.noCache)
}
