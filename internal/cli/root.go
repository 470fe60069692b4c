package cli

import (
	"github.com/spf13/cobra"

	"github.com/vabarbosa/simple-data-vis/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "SimpleDataVis draws charts from JSON data sources",
		Long: `SimpleDataVis fetches JSON records from a URL, a database view or a local
file, picks the chart type that fits them and draws it as SVG.

Charts can be rendered one at a time, attached to the data-vis elements of an
HTML page, or served over HTTP and MCP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: $XDG_CONFIG_HOME/"+appName+"/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.pageCommand())
	root.AddCommand(c.typesCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.mcpCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
