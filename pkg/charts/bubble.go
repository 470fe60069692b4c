package charts

import (
	"math"

	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
	"github.com/vabarbosa/simple-data-vis/pkg/scene"
	"github.com/vabarbosa/simple-data-vis/pkg/vis"
)

const (
	BubbleType = "bubble-chart"
	maxBubbles = 50
)

func canBubble(ds *dataset.Dataset) bool {
	n := ds.Len()
	if n == 0 || n > maxBubbles || !scalarKeyed(ds) {
		return false
	}
	first, _ := ds.First()
	return first.Has("value")
}

// bubbleChart packs one circle per record, sized by the square root of its
// value.
func bubbleChart(c *scene.Node, ds *dataset.Dataset, opts options.Options) error {
	width, height := canvas(c, opts, 600, 600)
	color := newOrdinal(category20)

	radii := make([]float64, ds.Len())
	for i, r := range ds.Records {
		radii[i] = math.Sqrt(math.Max(r.Value.Float(), 0))
	}
	layout := pack(radii, width, height, 3)

	svg := chartSVG(c, width, height)
	nodes := scene.Join(svg, "g.node", keyed(ds.Records))
	for _, n := range nodes.Enter {
		i := n.Index()
		n.SetAttr("transform", translate(layout[i].x, layout[i].y)).SetStyle("opacity", 0)
		n.Append("circle")
		n.Append("text").
			SetAttr("dy", ".3em").
			SetClassed("bubbletext", true).
			SetStyle("fill", "#ffffff").
			SetStyle("font-size", "0.8rem").
			SetStyle("pointer-events", "none").
			SetStyle("text-anchor", "middle")
	}
	for i, n := range nodes.Nodes() {
		rec := n.Datum().(dataset.Record)
		p := layout[i]
		n.Transition().
			Delay(delay(i, 7)).
			Attr("transform", translate(p.x, p.y)).
			Style("opacity", 1)

		circle := n.Select("circle")
		circle.SetStyle("fill", color.color(dataset.FormatNumber(rec.Value.Float())))
		circle.Transition().Delay(delay(i, 7)).Attr("r", p.r)
		vis.WireHover(circle, rec, i, opts, "", vis.Hover{
			Over: func(m *scene.Node) { m.Transition().Attr("opacity", 0.75) },
			Out:  func(m *scene.Node) { m.Transition().Attr("opacity", 1) },
		})
		vis.WireClick(circle, rec, i, opts)

		n.Select("text.bubbletext").SetText(truncate(rec.Key, int(p.r/5)))
	}
	for _, n := range nodes.Exit {
		n.Transition().Style("opacity", 0).Remove()
	}
	return nil
}
