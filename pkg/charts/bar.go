package charts

import (
	"math"

	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
	"github.com/vabarbosa/simple-data-vis/pkg/scene"
	"github.com/vabarbosa/simple-data-vis/pkg/vis"
)

const BarType = "bar-chart"

// barChart draws one horizontal bar per record. Bar lengths are measured
// from the zero line, so they stay proportional to the values.
func barChart(c *scene.Node, ds *dataset.Dataset, opts options.Options) error {
	m := margin{left: 100, right: 75}
	width, h := canvas(c, opts, 600, 600)
	height := math.Min(h, float64(ds.Len())*50)

	lo, hi := 0.0, 0.0
	for _, r := range ds.Records {
		v := r.Value.Float()
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	lo, hi = widen(lo, hi, opts)
	x := newLinear(lo, hi, m.left, width-m.right)
	y := newLinear(0, float64(ds.Len()), 0, height)
	color := newOrdinal(category10)
	zero := x.at(0)

	svg := chartSVG(c, width, height)

	bars := scene.Join(svg, "rect.bar", keyed(ds.Records))
	for _, n := range bars.Enter {
		n.SetAttr("opacity", 0).SetAttr("x", zero).SetAttr("width", 0)
	}
	for i, n := range bars.Nodes() {
		rec := n.Datum().(dataset.Record)
		v := rec.Value.Float()
		end := x.at(v)
		vis.WireTooltip(n, rec, i, opts, "")
		vis.WireClick(n, rec, i, opts)
		n.SetStyle("fill", color.color(rec.Key))
		n.Transition().
			Attr("x", math.Min(zero, end)).
			Attr("y", y.at(float64(i)+0.1)).
			Attr("width", math.Abs(end-zero)).
			Attr("height", y.at(float64(i)+0.9)-y.at(float64(i)+0.1)).
			Attr("opacity", 1)
	}
	exitFade(bars.Exit, "width")

	keys := scene.Join(svg, "text.barkey", keyed(ds.Records))
	for _, n := range keys.Enter {
		n.SetAttr("opacity", 0).
			SetAttr("dx", "-0.3em").
			SetAttr("dy", "0.35em").
			SetAttr("text-anchor", "end")
	}
	for i, n := range keys.Nodes() {
		rec := n.Datum().(dataset.Record)
		vis.WireTooltip(n, rec, i, opts, "")
		n.SetText(truncate(rec.Key, int(m.left/10)))
		n.Transition().
			Attr("x", m.left).
			Attr("y", y.at(float64(i)+0.5)).
			Attr("opacity", 1)
	}
	exitFade(keys.Exit)

	values := scene.Join(svg, "text.barvalue", keyed(ds.Records))
	for _, n := range values.Enter {
		n.SetAttr("opacity", 0).
			SetAttr("dx", "0.3em").
			SetAttr("dy", "0.35em")
	}
	for i, n := range values.Nodes() {
		rec := n.Datum().(dataset.Record)
		v := rec.Value.Float()
		n.SetText("(" + dataset.FormatNumber(v) + ")")
		n.Transition().
			Attr("x", math.Max(zero, x.at(v))).
			Attr("y", y.at(float64(i)+0.5)).
			Attr("opacity", 1)
	}
	exitFade(values.Exit)
	return nil
}
