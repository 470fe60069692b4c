package charts

import (
	"math"
	"slices"
	"time"

	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
	"github.com/vabarbosa/simple-data-vis/pkg/scene"
	"github.com/vabarbosa/simple-data-vis/pkg/vis"
)

const StackedType = "stacked-bar-chart"

type segment struct {
	rec    dataset.Record
	y0, y1 float64
}

// stack returns one layer per group name holding each record's segment.
func stack(records []dataset.Record, names []string) ([][]segment, float64) {
	layers := make([][]segment, len(names))
	base := make([]float64, len(records))
	for li, name := range names {
		layer := make([]segment, len(records))
		for i, r := range records {
			v, _ := r.Value.Group(name)
			layer[i] = segment{rec: r, y0: base[i], y1: base[i] + v}
			base[i] += v
		}
		layers[li] = layer
	}
	top := 0.0
	for _, b := range base {
		top = math.Max(top, b)
	}
	return layers, top
}

// stackedBarChart draws one column per record with its groups stacked.
func stackedBarChart(c *scene.Node, ds *dataset.Dataset, opts options.Options) error {
	m := groupedMargin
	names := ds.GroupNames()
	w, h := canvas(c, opts, 1024, 600)
	width := w - m.left - m.right
	height := h - m.top - m.bottom
	color := newOrdinal(category10, names...)

	keys := make([]string, ds.Len())
	for i, r := range ds.Records {
		keys[i] = r.Key
	}
	layers, top := stack(ds.Records, names)

	x := newBand(keys, 25, width, 0.08)
	if x.width() > 100 {
		x = newBand(keys, 25, float64(len(keys))*100, 0.08)
	}
	y := newLinear(0, top, height, 0)

	svg := chartSVG(c, width+m.left+m.right, height+m.top+m.bottom)
	graph := group(svg, "g.series").SetAttr("transform", translate(m.left, m.top))

	lsel := scene.Join(graph, "g.layer", scene.Keyed(names, layers))
	for li, layer := range lsel.Nodes() {
		layer.SetStyle("fill", color.color(names[li]))
		segs := layer.Datum().([]segment)
		rects := scene.Join(layer, "rect", scene.Keyed(dataset.Identities(ds.Records), segs))
		for _, n := range rects.Enter {
			n.SetAttr("y", height).SetAttr("height", 0)
		}
		for i, n := range rects.Nodes() {
			s := n.Datum().(segment)
			idx := i
			part := dataset.Record{Key: s.rec.Key, HasKey: true, Value: dataset.ScalarValue(s.y1 - s.y0), Index: s.rec.Index}
			n.Transition().
				Duration(300*time.Millisecond).
				Delay(delay(i, 10)).
				Attr("x", x.at(s.rec.Key)).
				Attr("width", x.width()).
				Attr("y", y.at(s.y1)).
				Attr("height", y.at(s.y0)-y.at(s.y1)).
				OnEnd(func(n *scene.Node) {
					vis.WireTooltip(n, part, idx, opts, "")
					vis.WireClick(n, s.rec, idx, opts)
				})
		}
		for _, n := range rects.Exit {
			n.Remove()
		}
	}
	for _, n := range lsel.Exit {
		n.Remove()
	}

	xa := axis(graph, "x", axisBottom, 25, x.start+x.step*float64(len(keys)), bandTicks(x, keys))
	xa.SetAttr("transform", translate(0, height))
	xa.Select("path.domain").SetStyle("stroke", "none")
	for _, t := range xa.SelectAll("g.tick text") {
		t.SetAttr("text-anchor", "start").
			SetAttr("dx", ".8em").
			SetAttr("dy", ".15em").
			SetAttr("transform", "rotate(45)")
	}
	ya := axis(graph, "y", axisLeft, height, 0, linearTicks(y, 10, siFormat))
	ya.SetAttr("transform", translate(20, 0))

	reversed := slices.Clone(names)
	slices.Reverse(reversed)
	legend(svg, reversed, width+m.left+25, m.top, color.color)
	return nil
}
