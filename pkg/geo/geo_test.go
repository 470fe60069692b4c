package geo

import (
	"math"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquirectangularCenters(t *testing.T) {
	proj, err := ForCanvas("", 800, 400)
	require.NoError(t, err)
	assert.Equal(t, "equirectangular", proj.Name())

	x, y := proj.Project(orb.Point{0, 0})
	assert.InDelta(t, 400, x, 1e-9)
	assert.InDelta(t, 200, y, 1e-9)

	// The antimeridian maps to the canvas edge: scale h/π times π.
	x, _ = proj.Project(orb.Point{180, 0})
	assert.InDelta(t, 800, x, 1e-9)
	_, y = proj.Project(orb.Point{0, 90})
	assert.InDelta(t, 0, y, 1e-9)
}

func TestMercatorClampsPoles(t *testing.T) {
	proj, err := ForCanvas("Mercator", 800, 400)
	require.NoError(t, err)
	_, y := proj.Project(orb.Point{0, 90})
	assert.False(t, math.IsInf(y, 0))
	_, y85 := proj.Project(orb.Point{0, 85})
	assert.InDelta(t, y85, y, 1e-9)
}

func TestUnknownProjection(t *testing.T) {
	_, err := ForCanvas("azimuthal", 10, 10)
	assert.Error(t, err)
}

func TestPath(t *testing.T) {
	proj := Equirectangular{Scale: 1, TranslateX: 0, TranslateY: 0}

	line := Path(orb.LineString{{0, 0}, {180, 0}}, proj)
	assert.Equal(t, "M0,0L3.14,0", line)

	poly := Path(orb.Polygon{{{0, 0}, {90, 0}, {90, 90}, {0, 0}}}, proj)
	assert.True(t, strings.HasPrefix(poly, "M0,0L"))
	assert.True(t, strings.HasSuffix(poly, "Z"))

	point := Path(orb.Point{0, 0}, proj)
	assert.Contains(t, point, "a4.5,4.5")
}

func TestFeaturePaths(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.LineString{{0, 0}, {1, 1}}))
	fc.Append(&geojson.Feature{})

	paths := FeaturePaths(fc, Equirectangular{Scale: 10})
	assert.Len(t, paths, 1)
	assert.Nil(t, FeaturePaths(nil, Equirectangular{}))
}
