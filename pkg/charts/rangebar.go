package charts

import (
	"math"
	"slices"

	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
	"github.com/vabarbosa/simple-data-vis/pkg/scene"
	"github.com/vabarbosa/simple-data-vis/pkg/vis"
)

const RangeType = "range-bar-chart"

func canRange(ds *dataset.Dataset) bool {
	first, ok := ds.First()
	return ok && first.HasKey && first.Value.Kind == dataset.KindRange
}

func rangeText(rec dataset.Record) string {
	r := rec.Value.Range
	return rec.Key + ": Min (" + dataset.FormatNumber(r.Min) + "), Avg (" +
		dataset.FormatNumber(r.Avg) + "), Max (" + dataset.FormatNumber(r.Max) + ")"
}

// rangeBarChart draws a bar from each record's min to its max with a
// marker at the average.
func rangeBarChart(c *scene.Node, ds *dataset.Dataset, opts options.Options) error {
	m := margin{left: 100, right: 75, bottom: 25}
	width, h := canvas(c, opts, 1024, 600)
	height := math.Min(h, float64(ds.Len())*85)

	lo, hi := math.Inf(1), math.Inf(-1)
	keys := make([]string, ds.Len())
	for i, r := range ds.Records {
		lo = math.Min(lo, r.Value.Range.Min)
		hi = math.Max(hi, r.Value.Range.Max)
		keys[i] = r.Key
	}
	lo, hi = widen(lo, hi, opts)
	slices.Sort(keys)
	color := newOrdinal(category10, keys...)

	x := newLinear(lo, hi, m.left, width-m.right)
	y := newLinear(0, float64(ds.Len()), 0, height-m.bottom)

	svg := chartSVG(c, width, height)

	xa := axis(svg, "x", axisBottom, m.left, width-m.right, linearTicks(x, 10, nil))
	xa.SetAttr("transform", translate(0, height-m.bottom))

	span := func(i int, a, b float64) float64 { return y.at(float64(i)+b) - y.at(float64(i)+a) }

	bars := scene.Join(svg, "rect.bar", keyed(ds.Records))
	for _, n := range bars.Enter {
		n.SetAttr("opacity", 0)
	}
	for i, n := range bars.Nodes() {
		rec := n.Datum().(dataset.Record)
		r := rec.Value.Range
		vis.WireTooltip(n, rec, i, opts, rangeText(rec))
		vis.WireClick(n, rec, i, opts)
		n.SetStyle("fill", color.color(rec.Key))
		n.Transition().
			Attr("x", x.at(r.Min)).
			Attr("y", y.at(float64(i)+0.1)+span(i, 0.4, 0.9)/3.5).
			Attr("height", span(i, 0.4, 0.9)).
			Attr("width", x.at(r.Max)-x.at(r.Min)).
			Attr("opacity", 1)
	}
	exitFade(bars.Exit, "width")

	labels := scene.Join(svg, "text.barkey", keyed(ds.Records))
	for _, n := range labels.Enter {
		n.SetAttr("opacity", 0).
			SetAttr("dy", "0.35em").
			SetAttr("text-anchor", "end")
	}
	for i, n := range labels.Nodes() {
		rec := n.Datum().(dataset.Record)
		vis.WireTooltip(n, rec, i, opts, rangeText(rec))
		n.SetText(truncate(rec.Key, int(m.left/10)))
		n.Transition().
			Attr("x", m.left).
			Attr("y", y.at(float64(i)+0.5)).
			Attr("dx", "-5px").
			Attr("opacity", 1)
	}
	for _, n := range labels.Exit {
		n.Transition().Attr("opacity", 0).Attr("x", 0).Remove()
	}

	markers := scene.Join(svg, "rect.avgvalue", keyed(ds.Records))
	for _, n := range markers.Enter {
		n.SetAttr("opacity", 0)
	}
	for i, n := range markers.Nodes() {
		rec := n.Datum().(dataset.Record)
		vis.WireTooltip(n, rec, i, opts, rangeText(rec))
		n.Transition().
			Attr("x", x.at(rec.Value.Range.Avg)).
			Attr("y", y.at(float64(i)+0.1)).
			Attr("height", span(i, 0.1, 0.9)).
			Attr("width", 4).
			Attr("opacity", 1)
	}
	exitFade(markers.Exit, "width")
	return nil
}
