package charts

import (
	"fmt"
	"image/color"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/aclements/go-moremath/scale"

	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
	"github.com/vabarbosa/simple-data-vis/pkg/scene"
)

const (
	svgNS      = "http://www.w3.org/2000/svg"
	axisStroke = "#152935"
	fontFamily = "HelvNeue,Helvetica,sans-serif"
)

type margin struct {
	top, right, bottom, left float64
}

// canvas returns the drawing size: the width/height options, else the
// container box, else the fallbacks.
func canvas(c *scene.Node, opts options.Options, defWidth, defHeight float64) (float64, float64) {
	bw, bh := c.Box()
	w := opts.FloatOr(options.Width, bw)
	h := opts.FloatOr(options.Height, bh)
	if w <= 0 {
		w = defWidth
	}
	if h <= 0 {
		h = defHeight
	}
	return w, h
}

// chartSVG joins the single root svg of a chart and sizes it.
func chartSVG(c *scene.Node, width, height float64) *scene.Node {
	svg, entered := scene.JoinOne(c, "svg", "", nil)
	if entered {
		svg.SetAttr("xmlns", svgNS).
			SetStyle("font-family", fontFamily).
			SetStyle("font-size", "0.8rem").
			SetStyle("font-weight", "300")
	}
	return svg.SetAttr("width", width).SetAttr("height", height)
}

// group joins a single keyed child group.
func group(parent *scene.Node, sel string) *scene.Node {
	g, _ := scene.JoinOne(parent, sel, "", nil)
	return g
}

// linear maps a numeric domain onto a pixel range.
type linear struct {
	domain *scale.Linear
	q      scale.QQ
}

func newLinear(d0, d1, r0, r1 float64) linear {
	domain := &scale.Linear{Min: d0, Max: d1}
	return linear{domain: domain, q: scale.QQ{Src: domain, Dest: &scale.Linear{Min: r0, Max: r1}}}
}

func (l linear) at(x float64) float64 {
	return l.q.Map(x)
}

// ticks returns at most n round values inside the domain.
func (l linear) ticks(n int) []float64 {
	major, _ := l.domain.Ticks(scale.TickOptions{Max: n})
	lo, hi := math.Min(l.domain.Min, l.domain.Max), math.Max(l.domain.Min, l.domain.Max)
	out := major[:0:0]
	for _, t := range major {
		if t >= lo-1e-9 && t <= hi+1e-9 {
			out = append(out, t)
		}
	}
	return out
}

// widen extends [lo, hi] to include the numeric min/max options. The
// options never shrink the data extent.
func widen(lo, hi float64, opts options.Options) (float64, float64) {
	if m, ok := opts.Float(options.Min); ok {
		lo = math.Min(lo, m)
	}
	if m, ok := opts.Float(options.Max); ok {
		hi = math.Max(hi, m)
	}
	return lo, hi
}

// band divides a pixel range into equal bands, one per key, with padding
// expressed as a fraction of the step on both sides.
type band struct {
	index   map[string]int
	start   float64
	step    float64
	padding float64
}

func newBand(keys []string, r0, r1, padding float64) band {
	b := band{index: make(map[string]int, len(keys)), padding: padding}
	for i, k := range keys {
		if _, ok := b.index[k]; !ok {
			b.index[k] = i
		}
	}
	n := float64(len(keys))
	if n == 0 {
		b.start = r0
		return b
	}
	b.step = (r1 - r0) / (n + padding)
	b.start = r0 + b.step*padding
	return b
}

func (b band) at(key string) float64 {
	return b.start + float64(b.index[key])*b.step
}

func (b band) width() float64 {
	return b.step * (1 - b.padding)
}

// ordinal assigns colors to keys in first-seen order, cycling the scheme.
type ordinal struct {
	scheme []string
	seen   map[string]int
}

func newOrdinal(scheme []string, domain ...string) *ordinal {
	o := &ordinal{scheme: scheme, seen: make(map[string]int)}
	for _, k := range domain {
		o.color(k)
	}
	return o
}

func (o *ordinal) color(key string) string {
	i, ok := o.seen[key]
	if !ok {
		i = len(o.seen)
		o.seen[key] = i
	}
	return o.scheme[i%len(o.scheme)]
}

var category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

var category20 = []string{
	"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
	"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
	"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
	"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
}

func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// truncate shortens s to n runes followed by "...".
func truncate(s string, n int) string {
	if n < 0 {
		n = 0
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

var spaces = regexp.MustCompile(`\s+`)

// classSuffix strips whitespace so a key can be used in a class name.
func classSuffix(key string) string {
	return spaces.ReplaceAllString(key, "")
}

func translate(x, y float64) string {
	return "translate(" + num(x) + "," + num(y) + ")"
}

func num(f float64) string {
	r := math.Round(f*1000) / 1000
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// keyed builds join items for records using their stable identities.
func keyed(records []dataset.Record) []scene.Item {
	return scene.Keyed(dataset.Identities(records), records)
}

// labelItems builds join items keyed by the labels themselves.
func labelItems(labels []string) []scene.Item {
	return scene.Keyed(labels, labels)
}

// delay staggers the transition of the i-th mark.
func delay(i, ms int) time.Duration {
	return time.Duration(i*ms) * time.Millisecond
}

// exitFade transitions exiting nodes to invisible and removes them.
func exitFade(nodes []*scene.Node, attrs ...string) {
	for _, n := range nodes {
		t := n.Transition().Attr("opacity", 0)
		for _, a := range attrs {
			t.Attr(a, 0)
		}
		t.Remove()
	}
}

// scalarKeyed accepts records with a key and a numeric value, judged by
// the first record.
func scalarKeyed(ds *dataset.Dataset) bool {
	first, ok := ds.First()
	return ok && first.HasKey && first.Value.Kind == dataset.KindScalar
}
