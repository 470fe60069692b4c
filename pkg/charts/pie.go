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

const (
	PieType   = "pie-chart"
	maxSlices = 20
	padAngle  = 0.01
)

func canPie(ds *dataset.Dataset) bool {
	n := ds.Len()
	if n == 0 || n > maxSlices || !scalarKeyed(ds) {
		return false
	}
	first, _ := ds.First()
	return first.Has("value")
}

type slice struct {
	rec        dataset.Record
	start, end float64
}

// pieSlices lays the records around the circle in data order.
func pieSlices(records []dataset.Record) []slice {
	total := 0.0
	for _, r := range records {
		total += math.Max(r.Value.Float(), 0)
	}
	out := make([]slice, len(records))
	a := 0.0
	for i, r := range records {
		span := 0.0
		if total > 0 {
			span = math.Max(r.Value.Float(), 0) / total * 2 * math.Pi
		}
		out[i] = slice{rec: r, start: a, end: a + span}
		a += span
	}
	return out
}

// arc builds the path of an annular sector. Angles run clockwise from
// twelve o'clock. The pad angle is held constant along padRadius, so the
// inner edge collapses to a point when it cannot fit.
func arc(s slice, inner, outer, padRadius float64) string {
	if outer <= 0 || s.end <= s.start {
		return ""
	}
	da := s.end - s.start
	if da >= 2*math.Pi-1e-6 {
		return ring(inner, outer)
	}
	ap := padAngle / 2
	pad := func(r float64) (float64, float64) {
		if r <= 0 {
			mid := (s.start + s.end) / 2
			return mid, mid
		}
		p := math.Asin(math.Min(1, padRadius/r*math.Sin(ap)))
		if da-2*p <= 0 {
			mid := (s.start + s.end) / 2
			return mid, mid
		}
		return s.start + p, s.end - p
	}
	o0, o1 := pad(outer)
	i0, i1 := pad(inner)
	pt := func(r, a float64) string {
		return num(r*math.Sin(a)) + "," + num(-r*math.Cos(a))
	}
	large := "0"
	if o1-o0 > math.Pi {
		large = "1"
	}
	d := "M" + pt(outer, o0) +
		"A" + num(outer) + "," + num(outer) + " 0 " + large + ",1 " + pt(outer, o1)
	if inner > 0 && i1 > i0 {
		li := "0"
		if i1-i0 > math.Pi {
			li = "1"
		}
		d += "L" + pt(inner, i1) +
			"A" + num(inner) + "," + num(inner) + " 0 " + li + ",0 " + pt(inner, i0)
	} else {
		d += "L" + pt(math.Max(inner, 0), i0)
	}
	return d + "Z"
}

func ring(inner, outer float64) string {
	d := "M0," + num(-outer) +
		"A" + num(outer) + "," + num(outer) + " 0 1,1 0," + num(outer) +
		"A" + num(outer) + "," + num(outer) + " 0 1,1 0," + num(-outer)
	if inner > 0 {
		d += "M0," + num(-inner) +
			"A" + num(inner) + "," + num(inner) + " 0 1,0 0," + num(inner) +
			"A" + num(inner) + "," + num(inner) + " 0 1,0 0," + num(-inner)
	}
	return d + "Z"
}

// pieChart draws one arc per record. The donut option hollows the center.
func pieChart(c *scene.Node, ds *dataset.Dataset, opts options.Options) error {
	const padding = 5
	width, height := canvas(c, opts, 1024, 600)
	outer := math.Min(height, width)/2 - 20
	inner := 1.0
	if opts.Bool(options.Donut) {
		inner = outer / 3
	}

	keys := slices.Clone(ds.Keys)
	if len(keys) == 0 {
		for _, r := range ds.Records {
			keys = append(keys, r.Key)
		}
	}
	slices.Sort(keys)
	color := newOrdinal(category10, keys...)

	svg := chartSVG(c, width, height).SetAttr("version", "1.1")
	graph := group(svg, "g.pie").SetAttr("transform", translate(width/2, height/2))

	layout := pieSlices(ds.Records)
	arcs := scene.Join(graph, "path.arc", keyed(ds.Records))
	for _, n := range arcs.Enter {
		n.SetAttr("opacity", 0)
	}
	for i, n := range arcs.Nodes() {
		s := layout[i]
		idx := i
		n.SetAttr("fill", color.color(s.rec.Key))
		n.Transition().
			Attr("d", arc(s, inner, outer-20, outer)).
			Attr("opacity", 1).
			OnEnd(func(n *scene.Node) {
				vis.WireHover(n, s.rec, idx, opts, "", vis.Hover{
					Over: func(m *scene.Node) { m.Transition().Attr("d", arc(s, inner, outer, outer)) },
					Out: func(m *scene.Node) {
						m.Transition().Delay(150*time.Millisecond).Attr("d", arc(s, inner, outer-20, outer))
					},
				})
				vis.WireClick(n, s.rec, idx, opts)
			})
	}
	for _, n := range arcs.Exit {
		n.Transition().Style("opacity", 0).Remove()
	}

	total := 0.0
	byKey := make(map[string]float64, ds.Len())
	for _, r := range ds.Records {
		total += r.Value.Float()
		if _, ok := byKey[r.Key]; !ok {
			byKey[r.Key] = r.Value.Float()
		}
	}
	_, labels := legend(svg, keys, padding, padding, color.color)
	for _, l := range labels {
		key := l.Datum().(string)
		l.SetAttr("x", 24+padding).SetText(key + ": " + percent(byKey[key], total))
	}
	return nil
}

func percent(v, total float64) string {
	if total == 0 {
		return "NaN%"
	}
	return dataset.FormatInteger(v/total*100) + "%"
}
