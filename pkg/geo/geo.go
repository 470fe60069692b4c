// Package geo projects geographic coordinates onto a chart canvas and turns
// GeoJSON geometry into SVG path data.
package geo

import (
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/vabarbosa/simple-data-vis/pkg/errors"
)

// Projection maps a lon/lat point to canvas coordinates.
type Projection interface {
	Project(p orb.Point) (x, y float64)
	Name() string
}

// Equirectangular is the plate carrée projection.
type Equirectangular struct {
	Scale      float64
	TranslateX float64
	TranslateY float64
}

func (e Equirectangular) Name() string { return "equirectangular" }

func (e Equirectangular) Project(p orb.Point) (float64, float64) {
	lambda, phi := radians(p.Lon()), radians(p.Lat())
	return e.TranslateX + e.Scale*lambda, e.TranslateY - e.Scale*phi
}

// Mercator is the spherical Mercator projection. Latitudes are clamped to
// ±85° to keep the poles finite.
type Mercator struct {
	Scale      float64
	TranslateX float64
	TranslateY float64
}

func (m Mercator) Name() string { return "mercator" }

func (m Mercator) Project(p orb.Point) (float64, float64) {
	lat := math.Max(-85, math.Min(85, p.Lat()))
	lambda, phi := radians(p.Lon()), radians(lat)
	return m.TranslateX + m.Scale*lambda, m.TranslateY - m.Scale*math.Log(math.Tan(math.Pi/4+phi/2))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// ForCanvas returns the named projection fitted to a width×height canvas:
// scale height/π and the origin at the center. An empty name selects
// equirectangular.
func ForCanvas(name string, width, height float64) (Projection, error) {
	scale := height / math.Pi
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "equirectangular":
		return Equirectangular{Scale: scale, TranslateX: width / 2, TranslateY: height / 2}, nil
	case "mercator":
		return Mercator{Scale: scale, TranslateX: width / 2, TranslateY: height / 2}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidOption, "unknown projection: %q", name)
}

// PointRadius is the radius of the circle drawn for point geometry.
const PointRadius = 4.5

// Path returns SVG path data for a geometry.
func Path(g orb.Geometry, proj Projection) string {
	var b strings.Builder
	writeGeometry(&b, g, proj)
	return b.String()
}

// FeaturePaths returns one path per feature in fc, skipping features
// without geometry.
func FeaturePaths(fc *geojson.FeatureCollection, proj Projection) []string {
	if fc == nil {
		return nil
	}
	out := make([]string, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		out = append(out, Path(f.Geometry, proj))
	}
	return out
}

func writeGeometry(b *strings.Builder, g orb.Geometry, proj Projection) {
	switch geom := g.(type) {
	case orb.Point:
		writeCircle(b, geom, proj)
	case orb.MultiPoint:
		for _, p := range geom {
			writeCircle(b, p, proj)
		}
	case orb.LineString:
		writeLine(b, geom, proj, false)
	case orb.MultiLineString:
		for _, ls := range geom {
			writeLine(b, ls, proj, false)
		}
	case orb.Ring:
		writeLine(b, orb.LineString(geom), proj, true)
	case orb.Polygon:
		for _, r := range geom {
			writeLine(b, orb.LineString(r), proj, true)
		}
	case orb.MultiPolygon:
		for _, poly := range geom {
			for _, r := range poly {
				writeLine(b, orb.LineString(r), proj, true)
			}
		}
	case orb.Collection:
		for _, c := range geom {
			writeGeometry(b, c, proj)
		}
	case orb.Bound:
		writeGeometry(b, geom.ToPolygon(), proj)
	}
}

func writeLine(b *strings.Builder, ls orb.LineString, proj Projection, closed bool) {
	for i, p := range ls {
		x, y := proj.Project(p)
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteByte('L')
		}
		b.WriteString(num(x))
		b.WriteByte(',')
		b.WriteString(num(y))
	}
	if closed && len(ls) > 0 {
		b.WriteByte('Z')
	}
}

func writeCircle(b *strings.Builder, p orb.Point, proj Projection) {
	x, y := proj.Project(p)
	r := PointRadius
	b.WriteString("M" + num(x) + "," + num(y-r))
	b.WriteString("a" + num(r) + "," + num(r) + " 0 1,1 0," + num(2*r))
	b.WriteString("a" + num(r) + "," + num(r) + " 0 1,1 0," + num(-2*r))
	b.WriteByte('Z')
}

func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}
