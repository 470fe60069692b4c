package charts

import (
	"strconv"

	"github.com/vabarbosa/simple-data-vis/internal/conv"
	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
	"github.com/vabarbosa/simple-data-vis/pkg/scene"
	"github.com/vabarbosa/simple-data-vis/pkg/vis"
)

type cell struct {
	column string
	value  any
}

func cellText(v any) string {
	if f, ok := v.(float64); ok {
		return dataset.FormatInteger(f)
	}
	return conv.String(v)
}

func columnItems(cols []string) []scene.Item {
	return scene.Keyed(columnKeys(cols), cols)
}

// tableChart lists every record field in an HTML table under a header that
// stays in place while the body scrolls.
func tableChart(c *scene.Node, ds *dataset.Dataset, opts options.Options) error {
	const pad = 25
	w, h := canvas(c, opts, 800, 500)
	width := w - 2*pad
	height := h - 2*pad
	cols := ds.Columns()

	root := group(c, "div.table-vis").SetAttr("width", width)

	fixed := group(root, "div.table-vis-fixed").
		SetStyle("overflow", "hidden").
		SetStyle("position", "relative").
		SetStyle("color", "#008571")
	fixedRow := group(group(fixed, "div.table-vis-fixed-thead").
		SetStyle("display", "table").
		SetStyle("border-bottom", "2px solid").
		SetStyle("padding-left", "10px").
		SetStyle("position", "relative").
		SetStyle("width", px(width)), "div.table-vis-fixed-tr").
		SetStyle("display", "table-row").
		SetStyle("margin", "0").
		SetStyle("padding", "0")
	fsel := scene.Join(fixedRow, "div.table-vis-fixed-th", columnItems(cols))
	for _, n := range fsel.Nodes() {
		n.SetStyle("display", "table-cell").
			SetStyle("margin", "0").
			SetStyle("text-align", "left").
			SetStyle("word-wrap", "break-word").
			SetText(n.Datum().(string))
	}
	for _, n := range fsel.Exit {
		n.Remove()
	}

	scroll := group(root, "div.table-vis-table").
		SetStyle("max-height", px(height)).
		SetStyle("overflow", "scroll")
	table := group(scroll, "table").
		SetAttr("width", width).
		SetAttr("class", "table table_basic")

	headRow := group(group(table, "thead").SetStyle("border", "0 none"), "tr")
	hsel := scene.Join(headRow, "th", columnItems(cols))
	for _, n := range hsel.Enter {
		n.SetStyle("padding", "0").
			Append("div").
			SetStyle("max-height", "1px").
			SetStyle("visibility", "hidden")
	}
	for _, n := range hsel.Nodes() {
		n.Select("div").SetText(n.Datum().(string))
	}
	for _, n := range hsel.Exit {
		n.Remove()
	}

	body := group(table, "tbody")
	rows := scene.Join(body, "tr", keyed(ds.Records))
	html := opts.Bool(options.HTMLCells)
	for i, row := range rows.Nodes() {
		rec := row.Datum().(dataset.Record)
		cells := make([]cell, len(cols))
		for ci, col := range cols {
			v, _ := rec.Field(col)
			cells[ci] = cell{column: col, value: v}
		}
		csel := scene.Join(row, "td", scene.Keyed(columnKeys(cols), cells))
		for _, td := range csel.Nodes() {
			text := cellText(td.Datum().(cell).value)
			if html {
				td.SetHTML(text)
			} else {
				td.SetText(text)
			}
		}
		for _, td := range csel.Exit {
			td.Remove()
		}
		vis.WireClick(row, rec, i, opts)
	}
	for _, n := range rows.Exit {
		n.Remove()
	}
	return nil
}

func columnKeys(cols []string) []string {
	keys := make([]string, len(cols))
	for i, c := range cols {
		keys[i] = c + "-" + strconv.Itoa(i)
	}
	return keys
}

func px(f float64) string {
	return num(f) + "px"
}
