package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vabarbosa/simple-data-vis/internal/mcpserver"
	"github.com/vabarbosa/simple-data-vis/internal/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve chart rendering over HTTP",
		Long: `Serve chart rendering over HTTP.

Routes:
  GET  /healthz   liveness and version
  GET  /types     registered chart types
  GET  /render    render from query parameters (source, type, view, format,
                  option.<name>, param.<name>, ...)
  POST /render    render from a JSON body, optionally with inline data

Local files may be named as sources only when server.allow_files is set in
the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config or "+server.DefaultAddr+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, runnerOpts{noCache: noCache, allowFiles: cfg.Server.AllowFiles})
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	s := server.New(runner, c.Logger)
	switch {
	case addr != "":
		s.Addr = addr
	case cfg.Server.Addr != "":
		s.Addr = cfg.Server.Addr
	}
	return s.ListenAndServe(ctx)
}

// mcpCommand creates the mcp command for the stdio MCP server.
func (c *CLI) mcpCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve chart tools over MCP on stdio",
		Long: `Serve chart tools over the Model Context Protocol on stdio.

Tools:
  list_chart_types    registered chart types with priority and description
  select_chart_type   which types accept a data source, best first
  render_chart        render a data source as SVG, HTML or PNG`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, runnerOpts{noCache: noCache})
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			return mcpserver.New(runner, c.Logger).Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
