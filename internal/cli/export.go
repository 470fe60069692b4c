package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
	"github.com/vabarbosa/simple-data-vis/pkg/export"
	"github.com/vabarbosa/simple-data-vis/pkg/pipeline"
)

// exportCommand creates the export command for writing the records of a
// data source as a table.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		src    sourceFlags
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export [source]",
		Short: "Write the records of a data source as CSV, JSON or XLSX",
		Long: `Write the records of a data source as CSV, JSON or XLSX.

The records are normalized the way a chart would see them, so the export
shows exactly the key, value and extra fields that get drawn.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := src.pipelineOptions(args[0])
			if err != nil {
				return err
			}
			if format == "" {
				format = export.FormatFromPath(output)
				if !export.IsDataFormat(format) {
					format = export.FormatCSV
				}
			}
			if err := pipeline.ValidateDataFormat(format); err != nil {
				return err
			}
			return c.runExport(cmd.Context(), opts, format, output, src.noCache)
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: csv (default), json, xlsx")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, opts pipeline.Options, format, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, runnerOpts{noCache: noCache, allowFiles: true})
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	write := func(w io.Writer) (*dataset.Dataset, error) {
		ds, err := runner.Export(ctx, w, opts, format)
		if err != nil {
			return nil, fmt.Errorf("export: %s", errors.UserMessage(err))
		}
		return ds, nil
	}

	if output == "" || output == "-" {
		_, err := write(os.Stdout)
		return err
	}

	var ds *dataset.Dataset
	if err := export.File(output, func(w io.Writer) error {
		var err error
		ds, err = write(w)
		return err
	}); err != nil {
		return err
	}
	printExported(ds.Len(), format, output)
	return nil
}
