package charts

import (
	"math"
	"slices"
	"strconv"

	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
	"github.com/vabarbosa/simple-data-vis/pkg/scene"
	"github.com/vabarbosa/simple-data-vis/pkg/vis"
)

const GroupedType = "grouped-bar-chart"

var groupedMargin = margin{top: 20, right: 150, bottom: 120, left: 80}

func canGroup(ds *dataset.Dataset) bool {
	first, ok := ds.First()
	return ok && first.HasKey && first.Value.Kind == dataset.KindGrouped
}

// series splits records into rows of at most maxGroups, with the standout
// keys pulled into a leading row of their own.
func series(records []dataset.Record, standout []string, maxGroups int) [][]dataset.Record {
	if maxGroups <= 0 {
		maxGroups = len(records)
	}
	var out [][]dataset.Record
	var lead, row []dataset.Record
	for _, r := range records {
		if slices.Contains(standout, r.Key) {
			lead = append(lead, r)
			continue
		}
		row = append(row, r)
		if len(row) == maxGroups {
			out = append(out, row)
			row = nil
		}
	}
	if len(row) > 0 {
		out = append(out, row)
	}
	if len(lead) > 0 {
		out = append([][]dataset.Record{lead}, out...)
	}
	return out
}

// groupedBarChart draws a cluster of vertical bars per record, one bar per
// group name.
func groupedBarChart(c *scene.Node, ds *dataset.Dataset, opts options.Options) error {
	m := groupedMargin
	names := ds.GroupNames()
	maxGroups, _ := opts.Int(options.MaxGroups)
	rows := series(ds.Records, opts.Strings(options.Standout), maxGroups)

	w, h := canvas(c, opts, 1024, 600)
	width := w - m.left - m.right
	height := h - m.top - m.bottom
	color := newOrdinal(category10, names...)

	svg := chartSVG(c, width+m.left+m.right, (height+m.top+m.bottom)*float64(len(rows)))

	ids := make([]string, len(rows))
	for i := range rows {
		ids[i] = "series-" + strconv.Itoa(i)
	}
	graphs := scene.Join(svg, "g.series", scene.Keyed(ids, rows))
	for i, g := range graphs.Nodes() {
		g.SetAttr("transform", translate(m.left, m.top+(height+m.bottom)*float64(i)))
		drawSeries(g, rows[i], names, width, height, color, opts)
	}
	for _, g := range graphs.Exit {
		g.Remove()
	}

	_, labels := legend(svg, names, width+m.left+25, m.top, color.color)
	for _, l := range labels {
		name := l.Datum().(string)
		others := func() []*scene.Node {
			var out []*scene.Node
			for _, b := range svg.SelectAll("rect.bar") {
				if !b.Classed("bar-" + classSuffix(name)) {
					out = append(out, b)
				}
			}
			return out
		}
		l.On(vis.EventMouseover, func(n *scene.Node, _ *scene.Event) {
			n.SetStyle("font-weight", "bold")
			for _, b := range others() {
				b.SetAttr("opacity", 0)
			}
		})
		l.On(vis.EventMouseout, func(n *scene.Node, _ *scene.Event) {
			n.SetStyle("font-weight", nil)
			for _, b := range others() {
				b.SetAttr("opacity", 1)
			}
		})
	}
	return nil
}

func drawSeries(g *scene.Node, rows []dataset.Record, names []string, width, height float64, color *ordinal, opts options.Options) {
	keys := make([]string, len(rows))
	maxValue := 0.0
	for i, r := range rows {
		keys[i] = r.Key
		maxValue = math.Max(maxValue, r.Value.Max())
	}

	nb := len(rows) * len(names)
	bw := 15.0
	switch {
	case nb <= 15:
		bw = 55
	case len(rows) <= 21:
		bw = 35
	}
	x := newBand(keys, 0, math.Min(float64(nb)*bw, width), 0.25)
	inner := newBand(names, 0, x.width(), 0)
	y := newLinear(0, maxValue, height, 0)

	xa := axis(g, "x", axisBottom, 0, math.Min(float64(nb)*bw, width), bandTicks(x, keys))
	xa.SetAttr("transform", translate(0, height))
	xa.Select("path.domain").SetStyle("stroke", "none")
	rotateLabels(xa)

	format := dataset.FormatNumber
	if maxValue > 1000 {
		format = siFormat
	}
	axis(g, "y", axisLeft, height, 0, linearTicks(y, 10, format))

	clusters := scene.Join(g, "g.group", keyed(rows))
	for _, n := range clusters.Enter {
		n.SetAttr("opacity", 0)
	}
	for _, n := range clusters.Nodes() {
		rec := n.Datum().(dataset.Record)
		n.Transition().Attr("opacity", 1).Attr("transform", translate(x.at(rec.Key), 0))

		bars := scene.Join(n, "rect.bar", labelItems(rec.Value.Names()))
		for _, b := range bars.Enter {
			b.SetAttr("opacity", 0)
		}
		for bi, b := range bars.Nodes() {
			grp := rec.Value.Groups[bi]
			seg := dataset.Record{Key: grp.Name, HasKey: true, Value: dataset.ScalarValue(grp.Value), Index: rec.Index}
			b.SetClassed("bar-"+classSuffix(grp.Name), true).SetStyle("fill", color.color(grp.Name))
			top, size := height, 0.0
			if grp.Value != 0 {
				top, size = y.at(grp.Value), height-y.at(grp.Value)
			}
			b.Transition().
				Attr("opacity", 1).
				Attr("width", inner.width()).
				Attr("x", inner.at(grp.Name)).
				Attr("y", top).
				Attr("height", size)
			vis.WireTooltip(b, seg, bi, opts, "")
			vis.WireClick(b, rec, bi, opts)
		}
		exitFade(bars.Exit, "width")
	}
	exitFade(clusters.Exit)
}

// siFormat writes v with two significant digits and an SI suffix.
func siFormat(v float64) string {
	prefixes := []struct {
		exp    float64
		suffix string
	}{{1e12, "T"}, {1e9, "G"}, {1e6, "M"}, {1e3, "k"}}
	a := math.Abs(v)
	for _, p := range prefixes {
		if a >= p.exp {
			return strconv.FormatFloat(sig2(v/p.exp), 'f', -1, 64) + p.suffix
		}
	}
	return strconv.FormatFloat(sig2(v), 'f', -1, 64)
}

func sig2(v float64) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 2, 64), 64)
	return f
}
