// Package mcpserver exposes chart selection and rendering as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vabarbosa/simple-data-vis/pkg/buildinfo"
	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
	"github.com/vabarbosa/simple-data-vis/pkg/export"
	"github.com/vabarbosa/simple-data-vis/pkg/pipeline"
)

// Name is the implementation name announced to clients.
const Name = "simpledatavis"

// Server wraps the MCP server and connects it to the render pipeline.
type Server struct {
	mcp    *mcp.Server
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates an MCP server rendering through runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, nil, logger)
	}
	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    Name,
			Version: buildinfo.Version,
		}, nil),
		runner: runner,
		logger: logger,
	}
	s.registerTools()
	return s
}

// Run serves on the stdio transport until ctx is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server on stdio transport")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

type listTypesArgs struct{}

type paramArg struct {
	Key   string `json:"key" jsonschema:"Query parameter name"`
	Value string `json:"value" jsonschema:"Query parameter value"`
}

// sourceArgs name the data to chart.
type sourceArgs struct {
	Source  string         `json:"source,omitempty" jsonschema:"Location of the data: a URL or database view base"`
	Data    string         `json:"data,omitempty" jsonschema:"Inline JSON data: an array of records or an object with a rows array. Used instead of source."`
	View    string         `json:"view,omitempty" jsonschema:"View path appended to the source"`
	Type    string         `json:"type,omitempty" jsonschema:"Requested chart type, e.g. bar-chart. Omit to infer from the data."`
	Options map[string]any `json:"options,omitempty" jsonschema:"Chart and query options such as group, startkey, min, max or donut"`
	Params  []paramArg     `json:"params,omitempty" jsonschema:"Extra query parameters in the order they are sent"`
}

type renderArgs struct {
	Source  string         `json:"source,omitempty" jsonschema:"Location of the data: a URL or database view base"`
	Data    string         `json:"data,omitempty" jsonschema:"Inline JSON data: an array of records or an object with a rows array. Used instead of source."`
	View    string         `json:"view,omitempty" jsonschema:"View path appended to the source"`
	Type    string         `json:"type,omitempty" jsonschema:"Requested chart type, e.g. bar-chart. Omit to infer from the data."`
	Options map[string]any `json:"options,omitempty" jsonschema:"Chart and query options such as group, startkey, min, max or donut"`
	Params  []paramArg     `json:"params,omitempty" jsonschema:"Extra query parameters in the order they are sent"`
	Format  string         `json:"format,omitempty" jsonschema:"Output format: svg (default), html or png"`
	Width   float64        `json:"width,omitempty" jsonschema:"Container width in pixels"`
	Height  float64        `json:"height,omitempty" jsonschema:"Container height in pixels"`
	Title   string         `json:"title,omitempty" jsonschema:"Accessible title embedded in the SVG"`
}

// registerTools adds the chart tools.
func (s *Server) registerTools() {
	// Tool: list_chart_types
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_chart_types",
		Description: "List the registered chart types in registration order with their priority and a short description.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args listTypesArgs) (*mcp.CallToolResult, any, error) {
		var b strings.Builder
		for _, d := range s.runner.Types() {
			fmt.Fprintf(&b, "- %s (priority %d): %s\n", d.Type, d.Priority, d.Description)
		}
		return textResult(b.String()), nil, nil
	})

	// Tool: select_chart_type
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "select_chart_type",
		Description: "Fetch the data and report which chart types accept it, best first, and the one that would be drawn.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args sourceArgs) (*mcp.CallToolResult, any, error) {
		opts, err := args.options()
		if err != nil {
			return errorResult(errors.UserMessage(err)), nil, nil
		}
		sel, err := s.runner.Select(ctx, opts)
		if err != nil {
			return errorResult(errors.UserMessage(err)), nil, nil
		}
		candidates := make([]string, len(sel.Candidates))
		for i, d := range sel.Candidates {
			candidates[i] = d.Type
		}
		out, err := json.MarshalIndent(map[string]any{
			"selected":   sel.Chosen.Type,
			"candidates": candidates,
			"records":    sel.Dataset.Len(),
			"columns":    sel.Dataset.Columns(),
		}, "", "  ")
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return textResult(string(out)), nil, nil
	})

	// Tool: render_chart
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "render_chart",
		Description: "Render the data as a chart. SVG and HTML are returned as text, PNG as an image.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args renderArgs) (*mcp.CallToolResult, any, error) {
		opts, err := sourceArgs{
			Source:  args.Source,
			Data:    args.Data,
			View:    args.View,
			Type:    args.Type,
			Options: args.Options,
			Params:  args.Params,
		}.options()
		if err != nil {
			return errorResult(errors.UserMessage(err)), nil, nil
		}
		opts.Format = args.Format
		if opts.Format == "" {
			opts.Format = export.FormatSVG
		}
		if opts.Format == export.FormatPDF {
			return errorResult("pdf output is not available over MCP; use svg, html or png"), nil, nil
		}
		opts.Width = args.Width
		opts.Height = args.Height
		opts.Title = args.Title

		res, err := s.runner.Execute(ctx, opts)
		if err != nil {
			return errorResult(errors.UserMessage(err)), nil, nil
		}
		if opts.Format == export.FormatPNG {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					&mcp.ImageContent{Data: res.Artifact, MIMEType: "image/png"},
				},
			}, nil, nil
		}
		return textResult(string(res.Artifact)), nil, nil
	})
}

// options converts the tool arguments to pipeline options.
func (a sourceArgs) options() (pipeline.Options, error) {
	opts := pipeline.Options{
		Source:  a.Source,
		View:    a.View,
		Type:    a.Type,
		Options: a.Options,
	}
	for _, p := range a.Params {
		opts.Params = append(opts.Params, pipeline.Param{Key: p.Key, Value: p.Value})
	}
	if strings.TrimSpace(a.Data) != "" {
		v, err := dataset.DecodeBytes([]byte(a.Data))
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidData, err, "data is not valid JSON: %v", err)
		}
		opts.Data = v
	}
	return opts, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
