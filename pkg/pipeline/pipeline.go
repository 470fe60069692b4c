// Package pipeline provides the resolve → draw → export sequence shared by the
// CLI, the HTTP server and the MCP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Resolve: fetch the data named by a location, or take inline data
//  2. Draw: normalize the data, select a chart and render it into a fresh
//     scene document, completing every transition
//  3. Export: serialize the chart root as SVG, HTML, PNG or PDF
//
// Each stage can be run on its own. Rendered artifacts are cached under a
// hash of the resolved data and the render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source: "https://example.com/db/_design/d/_view/v",
//	    Type:   "bar-chart",
//	    Format: "svg",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifact
package pipeline

import (
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vabarbosa/simple-data-vis/pkg/cache"
	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
	"github.com/vabarbosa/simple-data-vis/pkg/export"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
	"github.com/vabarbosa/simple-data-vis/pkg/scene"
	"github.com/vabarbosa/simple-data-vis/pkg/vis"
)

// Default values shared by the CLI, the server and the MCP tools.
const (
	// DefaultWidth is the default container width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default container height in pixels.
	DefaultHeight = 600.0

	// DefaultFormat is the default chart format.
	DefaultFormat = export.FormatSVG

	// DefaultTTL is how long rendered artifacts stay cached.
	DefaultTTL = time.Hour
)

// Param is one query parameter, kept in request order.
type Param struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Source is a location string. Data, when set, is used instead.
	Source string `json:"source,omitempty"`
	Data   any    `json:"-"`

	Type    string         `json:"type,omitempty"`
	View    string         `json:"view,omitempty"`
	Width   float64        `json:"width,omitempty"`
	Height  float64        `json:"height,omitempty"`
	Options map[string]any `json:"options,omitempty"`
	Params  []Param        `json:"params,omitempty"`

	Format     string `json:"format,omitempty"`
	Title      string `json:"title,omitempty"`
	Background string `json:"background,omitempty"`
	Tooltips   bool   `json:"tooltips,omitempty"`

	// Refresh bypasses the artifact cache for this run.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run. A run answered from the
// cache carries only the artifact and the resolve statistics.
type Result struct {
	// Dataset is the normalized data the chart was drawn from.
	Dataset *dataset.Dataset

	// Document holds the drawn chart; Root is its root element.
	Document *scene.Document
	Root     *scene.Node

	// Type is the selected chart type, empty for the no-results message.
	Type string

	// URL is the final request URL for remote sources.
	URL string

	// DataHash is the content hash the artifact is cached under.
	DataHash string

	// Artifact is the exported chart.
	Artifact []byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records     int
	ResolveTime time.Duration
	RenderTime  time.Duration
	ExportTime  time.Duration
}

// CacheInfo tracks whether the artifact came from the cache.
type CacheInfo struct {
	ArtifactHit bool
}

// Selection is the outcome of matching a dataset against the registry.
type Selection struct {
	Dataset    *dataset.Dataset
	Candidates []*vis.Descriptor
	// Chosen is the descriptor Draw would use.
	Chosen *vis.Descriptor
}

// ValidateFormat checks that format is a chart format.
func ValidateFormat(format string) error {
	if !export.IsChartFormat(format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, html, png, pdf)", format)
	}
	return nil
}

// ValidateDataFormat checks that format is a table export format.
func ValidateDataFormat(format string) error {
	if !export.IsDataFormat(format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: csv, json, xlsx)", format)
	}
	return nil
}

// ValidateForResolve checks that a source is present and every option name
// is usable.
func (o *Options) ValidateForResolve() error {
	if o.Source == "" && o.Data == nil {
		return errors.New(errors.ErrCodeInvalidSource, "source or data is required")
	}
	for k := range o.Options {
		if err := errors.ValidateOptionKey(k); err != nil {
			return err
		}
	}
	for _, p := range o.Params {
		if err := errors.ValidateOptionKey(p.Key); err != nil {
			return err
		}
	}
	if o.Type != "" {
		if err := errors.ValidateTypeTag(o.Type); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateAndSetDefaults validates opts for a full render and applies the
// defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForResolve(); err != nil {
		return err
	}
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets the container size and format defaults.
func (o *Options) SetRenderDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
}

// ArtifactKeyOpts returns cache key options for the exported chart.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		ChartType: o.Type,
		Format:    o.Format,
		Width:     o.Width,
		Height:    o.Height,
	}
}

// ChartOptions returns the export settings.
func (o *Options) ChartOptions() export.ChartOptions {
	return export.ChartOptions{
		Title:      o.Title,
		Background: o.Background,
		Tooltips:   o.Tooltips,
	}
}

// source returns what the binding resolves.
func (o *Options) source() any {
	if o.Data != nil {
		return o.Data
	}
	return o.Source
}

// apply copies the chart options and query parameters onto b. Free-form
// options go first so the dedicated fields win.
func (o *Options) apply(b *vis.Binding) {
	keys := make([]string, 0, len(o.Options))
	for k := range o.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.Set(k, o.Options[k])
	}
	if o.Type != "" {
		b.Set(options.Type, o.Type)
	}
	if o.View != "" {
		b.Set(options.View, o.View)
	}
	if o.Width > 0 {
		b.Set(options.Width, o.Width)
	}
	if o.Height > 0 {
		b.Set(options.Height, o.Height)
	}
	for _, p := range o.Params {
		b.Param(p.Key, p.Value)
	}
}
