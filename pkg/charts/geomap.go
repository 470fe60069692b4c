package charts

import (
	"image/color"
	"math"
	"strconv"

	"github.com/aclements/go-gg/palette"
	"github.com/paulmach/orb"

	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
	"github.com/vabarbosa/simple-data-vis/pkg/geo"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
	"github.com/vabarbosa/simple-data-vis/pkg/scene"
	"github.com/vabarbosa/simple-data-vis/pkg/vis"
)

const (
	MapType   = "map-vis"
	landColor = "#d3d9dd"
)

var pinColors = palette.RGBGradient{Colors: []color.RGBA{
	{0x1f, 0x77, 0xb4, 0xff},
	{0x2c, 0xa0, 0x2c, 0xff},
	{0xff, 0x7f, 0x0e, 0xff},
	{0xd6, 0x27, 0x28, 0xff},
}}

func canMap(ds *dataset.Dataset) bool {
	first, ok := ds.First()
	return ok && first.HasKey && first.Has("geo") && first.Value.Kind == dataset.KindScalar
}

type pin struct {
	rec   dataset.Record
	at    orb.Point
	count float64
}

// coordinate picks where a record is drawn. Geo groups prefer a coordinate
// key over their first point; single points prefer the geo field.
func coordinate(r dataset.Record, group bool) (orb.Point, bool) {
	kp, keyOK := r.KeyPoint()
	switch {
	case group && keyOK:
		return kp, true
	case r.HasGeo():
		return r.Geo[0], true
	case keyOK:
		return kp, true
	}
	return orb.Point{}, false
}

// mapChart draws the envelope features as land and a pin per record.
func mapChart(c *scene.Node, ds *dataset.Dataset, opts options.Options) error {
	if ds.Features == nil {
		return errors.New(errors.ErrCodeMissingFeatures, "Missing map features")
	}
	bw, _ := canvas(c, opts, 800, 0)
	width := math.Max(800, bw)
	height := width / 2

	name := ds.Projection
	if opts.Has(options.Projection) {
		name = opts.String(options.Projection)
	}
	proj, err := geo.ForCanvas(name, width, height)
	if err != nil {
		return err
	}

	first, _ := ds.First()
	grouped := first.GeoGroup
	pins := make([]pin, 0, ds.Len())
	for _, r := range ds.Records {
		at, ok := coordinate(r, grouped)
		if !ok {
			continue
		}
		count := r.Value.Float()
		if grouped {
			count = float64(len(r.Geo))
		}
		pins = append(pins, pin{rec: r, at: at, count: count})
	}

	vlo, vhi := math.Inf(1), math.Inf(-1)
	clo, chi := math.Inf(1), math.Inf(-1)
	for _, p := range pins {
		v := p.rec.Value.Float()
		vlo, vhi = math.Min(vlo, v), math.Max(vhi, v)
		clo, chi = math.Min(clo, p.count), math.Max(chi, p.count)
	}
	radius := newLinear(vlo, vhi, 5, 15)
	explode := newLinear(clo, chi, 15, 30)
	shade := newLinear(clo, chi, 0, 1)
	if !grouped {
		shade = newLinear(0, float64(max(len(pins)-1, 1)), 0, 1)
	}

	svg := chartSVG(c, width, height)

	paths := geo.FeaturePaths(ds.Features, proj)
	ids := make([]string, len(paths))
	for i := range paths {
		ids[i] = "land-" + strconv.Itoa(i)
	}
	land := scene.Join(svg, "path.land", scene.Keyed(ids, paths))
	for _, n := range land.Nodes() {
		n.SetAttr("d", n.Datum().(string)).SetStyle("fill", landColor)
	}
	for _, n := range land.Exit {
		n.Remove()
	}

	recs := make([]dataset.Record, len(pins))
	for i, p := range pins {
		recs[i] = p.rec
	}
	sel := scene.Join(svg, "circle.pin", scene.Keyed(dataset.Identities(recs), pins))
	for _, n := range sel.Enter {
		n.SetAttr("r", 0).SetAttr("opacity", 0)
	}
	for i, n := range sel.Nodes() {
		p := n.Datum().(pin)
		idx := i
		fill := shade.at(float64(i))
		if grouped {
			fill = shade.at(p.count)
		}
		n.SetStyle("fill", hex(pinColors.Map(fill)))

		r := radius.at(p.rec.Value.Float())
		burst := 15.0
		if grouped {
			burst = explode.at(p.count)
		}
		x, y := proj.Project(p.at)
		text := dataset.FormatNumber(p.rec.Value.Float()) + " points near [" +
			strconv.FormatFloat(p.at.Lon(), 'f', -1, 64) + "," + strconv.FormatFloat(p.at.Lat(), 'f', -1, 64) + "]"
		vis.WireHover(n, p.rec, idx, opts, text, vis.Hover{
			Over: func(m *scene.Node) { m.Transition().Attr("r", burst).Attr("opacity", 0.5) },
			Out:  func(m *scene.Node) { m.Transition().Attr("r", r).Attr("opacity", 0.75) },
		})
		n.Transition().
			Attr("transform", translate(x, y)).
			Attr("r", r).
			Attr("opacity", 0.75).
			OnEnd(func(n *scene.Node) { vis.WireClick(n, p.rec, idx, opts) })
	}
	for _, n := range sel.Exit {
		n.Transition().Attr("r", 0).Attr("opacity", 0).Remove()
	}
	return nil
}
