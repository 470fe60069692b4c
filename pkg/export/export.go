// Package export writes rendered charts and their data to files.
//
// Charts are serialized from the scene as SVG or HTML; PNG and PDF go
// through rsvg-convert. Data exports flatten a dataset into one row per
// record and one column per field, as CSV, JSON or an XLSX workbook.
package export

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
	"github.com/vabarbosa/simple-data-vis/pkg/scene"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatHTML = "html"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

var (
	chartFormats = []string{FormatSVG, FormatHTML, FormatPNG, FormatPDF}
	dataFormats  = []string{FormatCSV, FormatJSON, FormatXLSX}
)

// ChartFormats lists the formats accepted by Chart.
func ChartFormats() []string { return slices.Clone(chartFormats) }

// DataFormats lists the formats accepted by Data.
func DataFormats() []string { return slices.Clone(dataFormats) }

// IsChartFormat reports whether Chart can write format.
func IsChartFormat(format string) bool { return slices.Contains(chartFormats, format) }

// IsDataFormat reports whether Data can write format.
func IsDataFormat(format string) bool { return slices.Contains(dataFormats, format) }

// FormatFromPath returns the format named by path's extension.
func FormatFromPath(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// ChartOptions configures Chart.
type ChartOptions struct {
	Title      string
	Background string
	// Tooltips embeds a script showing each mark's tooltip on hover.
	Tooltips bool
	// Scale is the PNG resolution factor. Zero means 2.
	Scale float64
}

// Chart writes the chart rooted at root in format.
func Chart(ctx context.Context, w io.Writer, root *scene.Node, format string, opts ChartOptions) error {
	if root == nil {
		return errors.New(errors.ErrCodeInvalidTarget, "nothing rendered")
	}
	if format == FormatHTML {
		return scene.WriteDocument(w, root.Document())
	}
	if !IsChartFormat(format) {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown chart format: %s (must be one of %s)",
			format, strings.Join(chartFormats, ", "))
	}

	var svg bytes.Buffer
	var svgOpts []scene.SVGOption
	if opts.Title != "" {
		svgOpts = append(svgOpts, scene.WithTitle(opts.Title))
	}
	if opts.Background != "" {
		svgOpts = append(svgOpts, scene.WithBackground(opts.Background))
	}
	if opts.Tooltips && format == FormatSVG {
		svgOpts = append(svgOpts, scene.WithTooltips())
	}
	if err := scene.WriteSVG(&svg, root, svgOpts...); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write svg")
	}

	var data []byte
	var err error
	switch format {
	case FormatSVG:
		data = svg.Bytes()
	case FormatPDF:
		data, err = ToPDF(ctx, svg.Bytes())
	case FormatPNG:
		scale := opts.Scale
		if scale == 0 {
			scale = 2
		}
		data, err = ToPNG(ctx, svg.Bytes(), scale)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Data writes the records of ds in format.
func Data(w io.Writer, ds *dataset.Dataset, format string) error {
	if ds == nil {
		ds = &dataset.Dataset{}
	}
	switch format {
	case FormatCSV:
		return WriteCSV(w, ds)
	case FormatJSON:
		return WriteJSON(w, ds)
	case FormatXLSX:
		return WriteXLSX(w, ds)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown data format: %s (must be one of %s)",
		format, strings.Join(dataFormats, ", "))
}

// File writes to path through fn, creating parent directories. The file is
// removed again when fn fails.
func File(path string, fn func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	if err := fn(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
