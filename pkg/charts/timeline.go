package charts

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
	"github.com/vabarbosa/simple-data-vis/pkg/scene"
	"github.com/vabarbosa/simple-data-vis/pkg/vis"
)

const TimelineType = "timeline"

var timelineMargin = margin{top: 20, right: 150, bottom: 30, left: 75}

func canTimeline(ds *dataset.Dataset) bool {
	first, ok := ds.First()
	return ok && first.HasKey && first.HasDate && first.Value.Kind == dataset.KindScalar
}

func dayFormat(ms float64) string {
	return time.UnixMilli(int64(ms)).UTC().Format(time.DateOnly)
}

// timelineChart plots values over their dates: one line per key, or one
// dot per record when the scatter option is set.
func timelineChart(c *scene.Node, ds *dataset.Dataset, opts options.Options) error {
	m := timelineMargin
	bw, _ := canvas(c, opts, 1024, 0)
	width := math.Max(800, bw) - m.left - m.right
	height := 500 - m.top - m.bottom

	records := slices.Clone(ds.Records)
	slices.SortStableFunc(records, func(a, b dataset.Record) int { return a.Date.Compare(b.Date) })

	keys := slices.Clone(ds.Keys)
	if len(keys) == 0 {
		for _, r := range records {
			if r.Key != "" && !slices.Contains(keys, r.Key) {
				keys = append(keys, r.Key)
			}
		}
	}
	color := newOrdinal(category10, keys...)

	t0, t1 := math.Inf(1), math.Inf(-1)
	top := 0.0
	for _, r := range records {
		ms := float64(r.Date.UnixMilli())
		t0, t1 = math.Min(t0, ms), math.Max(t1, ms)
		top = math.Max(top, r.Value.Float())
	}
	x := newLinear(t0, t1, 0, width)
	y := newLinear(0, top, height, 0)

	svg := chartSVG(c, width+m.left+m.right, height+m.top+m.bottom).
		SetStyle("color", "#264a60").
		SetStyle("fill", "#264a60")
	graph := group(svg, "g.plot").SetAttr("transform", translate(m.left, m.top))

	xa := axis(graph, "x", axisBottom, 0, width, linearTicks(x, 8, dayFormat))
	xa.SetAttr("transform", translate(0, height))
	axis(graph, "y", axisLeft, height, 0, linearTicks(y, 10, nil))

	var dots, lines []scene.Item
	if opts.Bool(options.Scatter) {
		dots = keyed(records)
	} else {
		for _, k := range keys {
			lines = append(lines, scene.Item{Key: k, Datum: k})
		}
	}

	dsel := scene.Join(graph, "circle.dot", dots)
	for _, n := range dsel.Enter {
		n.SetAttr("r", 5).SetAttr("opacity", 0)
	}
	for i, n := range dsel.Nodes() {
		rec := n.Datum().(dataset.Record)
		n.SetAttr("class", "dot key-"+classSuffix(rec.Key)).
			SetStyle("fill", color.color(rec.Key))
		n.Transition().
			Attr("cx", x.at(float64(rec.Date.UnixMilli()))).
			Attr("cy", y.at(rec.Value.Float())).
			Attr("opacity", 1)
		text := rec.Date.UTC().Format(time.DateOnly) + ", " + rec.Key + ", " + dataset.FormatNumber(rec.Value.Float())
		vis.WireHover(n, rec, i, opts, text, vis.Hover{
			Over: func(dot *scene.Node) { dot.Transition().Attr("r", 10).Attr("opacity", 0.75) },
			Out:  func(dot *scene.Node) { dot.Transition().Attr("r", 5).Attr("opacity", 1) },
		})
		vis.WireClick(n, rec, i, opts)
	}
	exitFade(dsel.Exit, "r")

	events := group(graph, "g.event")
	lsel := scene.Join(events, "path.line", lines)
	for _, n := range lsel.Enter {
		n.SetAttr("opacity", 0)
	}
	for _, n := range lsel.Nodes() {
		key := n.Datum().(string)
		var d strings.Builder
		for _, r := range records {
			if r.Key != key {
				continue
			}
			if d.Len() == 0 {
				d.WriteByte('M')
			} else {
				d.WriteByte('L')
			}
			d.WriteString(num(x.at(float64(r.Date.UnixMilli()))) + "," + num(y.at(r.Value.Float())))
		}
		n.SetAttr("class", "line key-"+classSuffix(key)).
			SetStyle("fill", "none").
			SetStyle("stroke", color.color(key))
		n.Transition().Attr("d", d.String()).Attr("opacity", 1)
	}
	exitFade(lsel.Exit)

	_, labels := legend(svg, keys, width+m.left+25, m.top, color.color)
	for _, l := range labels {
		suffix := classSuffix(l.Datum().(string))
		l.On(vis.EventMouseover, func(n *scene.Node, _ *scene.Event) {
			n.SetStyle("cursor", "pointer").SetStyle("font-weight", "bold")
			for _, d := range svg.SelectAll(".dot.key-" + suffix) {
				d.SetAttr("r", 10).SetAttr("opacity", 0.7)
			}
			for _, p := range svg.SelectAll(".line.key-" + suffix) {
				p.SetStyle("stroke-width", 5).SetAttr("opacity", 0.7)
			}
		})
		l.On(vis.EventMouseout, func(n *scene.Node, _ *scene.Event) {
			n.SetStyle("cursor", nil).SetStyle("font-weight", nil)
			for _, d := range svg.SelectAll(".dot.key-" + suffix) {
				d.SetAttr("r", 5).SetAttr("opacity", 1)
			}
			for _, p := range svg.SelectAll(".line.key-" + suffix) {
				p.SetStyle("stroke-width", nil).SetAttr("opacity", 1)
			}
		})
		l.On(vis.EventClick, func(n *scene.Node, _ *scene.Event) {
			display := "none"
			if n.Attr("data-hidden") == "true" {
				display = ""
			}
			n.SetAttr("data-hidden", display == "none")
			for _, mark := range graph.SelectAll(".key-" + suffix) {
				mark.Transition().Duration(100 * time.Millisecond).Style("display", display)
			}
		})
	}
	return nil
}
