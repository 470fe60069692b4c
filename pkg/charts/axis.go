package charts

import (
	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/scene"
)

type orient int

const (
	axisBottom orient = iota
	axisLeft
)

const tickSize = 6

type tick struct {
	pos   float64
	label string
}

// axis draws a g.<class>.axis under parent with a domain line spanning
// [r0, r1] and one labelled tick per entry. Ticks are joined by label.
func axis(parent *scene.Node, class string, o orient, r0, r1 float64, ticks []tick) *scene.Node {
	g, entered := scene.JoinOne(parent, "g."+class+".axis", "", nil)
	if entered {
		g.SetAttr("opacity", 0).SetStyle("font-size", "0.8rem")
	}
	g.Transition().Attr("opacity", 1)

	domain := group(g, "path.domain").
		SetStyle("fill", "none").
		SetStyle("stroke", axisStroke)
	if o == axisBottom {
		domain.SetAttr("d", "M"+num(r0)+","+num(tickSize)+"V0H"+num(r1)+"V"+num(tickSize))
	} else {
		domain.SetAttr("d", "M"+num(-tickSize)+","+num(r0)+"H0V"+num(r1)+"H"+num(-tickSize))
	}

	labels := make([]string, len(ticks))
	for i, t := range ticks {
		labels[i] = t.label
	}
	sel := scene.Join(g, "g.tick", scene.Keyed(labels, ticks))
	for _, n := range sel.Enter {
		n.SetAttr("opacity", 0)
		n.Append("line").SetStyle("stroke", axisStroke)
		n.Append("text").SetStyle("fill", "currentColor")
	}
	for _, n := range sel.Nodes() {
		t := n.Datum().(tick)
		line := n.Select("line")
		text := n.Select("text").SetText(t.label)
		if o == axisBottom {
			n.Transition().Attr("transform", translate(t.pos, 0)).Attr("opacity", 1)
			line.SetAttr("y2", tickSize)
			text.SetAttr("y", tickSize+3).SetAttr("dy", "0.71em").SetAttr("text-anchor", "middle")
		} else {
			n.Transition().Attr("transform", translate(0, t.pos)).Attr("opacity", 1)
			line.SetAttr("x2", -tickSize)
			text.SetAttr("x", -(tickSize + 3)).SetAttr("dy", "0.32em").SetAttr("text-anchor", "end")
		}
	}
	exitFade(sel.Exit)
	return g
}

// linearTicks formats the ticks of a linear scale.
func linearTicks(s linear, n int, format func(float64) string) []tick {
	if format == nil {
		format = dataset.FormatNumber
	}
	vals := s.ticks(n)
	out := make([]tick, len(vals))
	for i, v := range vals {
		out[i] = tick{pos: s.at(v), label: format(v)}
	}
	return out
}

// bandTicks places a tick at the center of each band.
func bandTicks(b band, keys []string) []tick {
	out := make([]tick, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, tick{pos: b.at(k) + b.width()/2, label: k})
	}
	return out
}

// rotateLabels tilts the tick labels of a bottom axis by 45 degrees.
func rotateLabels(ax *scene.Node) {
	for _, t := range ax.SelectAll("g.tick text") {
		t.SetAttr("y", 7).SetAttr("x", 7).SetAttr("dy", ".35em").
			SetAttr("transform", "rotate(45)").
			SetAttr("text-anchor", "start")
	}
}

// legend draws 18px swatches and labels at x, one row per key.
func legend(svg *scene.Node, keys []string, x, y float64, color func(string) string) (swatches, labels []*scene.Node) {
	sel := scene.Join(svg, "rect.legend", labelItems(keys))
	for i, n := range sel.Nodes() {
		n.SetStyle("fill", color(keys[i])).
			SetAttr("x", x).
			SetAttr("y", y+float64(i)*20).
			SetAttr("width", 18).
			SetAttr("height", 18)
	}
	exitFade(sel.Exit)
	swatches = sel.Nodes()

	tsel := scene.Join(svg, "text.legend", labelItems(keys))
	for i, n := range tsel.Nodes() {
		n.SetText(keys[i]).
			SetAttr("x", x+20).
			SetAttr("y", y+float64(i)*20+9).
			SetAttr("dy", ".35em")
	}
	exitFade(tsel.Exit)
	return swatches, tsel.Nodes()
}
