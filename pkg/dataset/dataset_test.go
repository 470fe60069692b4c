package dataset

import (
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vabarbosa/simple-data-vis/pkg/errors"
)

func TestNormalizeScalarRecords(t *testing.T) {
	raw := []any{
		map[string]any{"key": "a", "value": 1.0},
		map[string]any{"key": "b", "value": "2"},
	}
	ds, err := Normalize(raw)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	a := ds.Records[0]
	assert.Equal(t, "a", a.Key)
	assert.True(t, a.HasKey)
	assert.Equal(t, KindScalar, a.Value.Kind)
	assert.Equal(t, 1.0, a.Value.Scalar)

	b := ds.Records[1]
	assert.Equal(t, KindScalar, b.Value.Kind)
	assert.Equal(t, 2.0, b.Value.Scalar)
	assert.Equal(t, 1, b.Index)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	rec := map[string]any{"key": "a", "value": map[string]any{"y": 2.0, "x": 1.0}}
	_, err := Normalize([]any{rec})
	require.NoError(t, err)
	assert.Len(t, rec, 2)
	assert.Equal(t, map[string]any{"y": 2.0, "x": 1.0}, rec["value"])
}

func TestNormalizeGroupedSorted(t *testing.T) {
	ds := MustNormalize([]any{
		map[string]any{"key": "k", "value": map[string]any{"zeta": 3.0, "alpha": "1", "mid": "x"}},
	})
	v := ds.Records[0].Value
	require.Equal(t, KindGrouped, v.Kind)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, v.Names())

	alpha, ok := v.Group("alpha")
	assert.True(t, ok)
	assert.Equal(t, 1.0, alpha)

	mid, _ := v.Group("mid")
	assert.Equal(t, 0.0, mid)
	assert.Equal(t, 4.0, v.Float())
	assert.Equal(t, 3.0, v.Max())
}

func TestRangeDerivation(t *testing.T) {
	tests := []struct {
		name string
		rec  map[string]any
		want Range
	}{
		{
			name: "top level",
			rec:  map[string]any{"key": "a", "min": 1.0, "max": 9.0, "avg": 4.0},
			want: Range{Min: 1, Max: 9, Avg: 4},
		},
		{
			name: "sum over count",
			rec:  map[string]any{"key": "a", "min": 2.0, "max": 8.0, "sum": 30.0, "count": 6.0},
			want: Range{Min: 2, Max: 8, Avg: 5},
		},
		{
			name: "nested value",
			rec:  map[string]any{"key": "a", "value": map[string]any{"min": 1.0, "max": 5.0, "sum": 12.0, "count": 4.0}},
			want: Range{Min: 1, Max: 5, Avg: 3},
		},
		{
			name: "min defaults to max",
			rec:  map[string]any{"key": "a", "max": 6.0},
			want: Range{Min: 6, Max: 6, Avg: 6},
		},
		{
			name: "midpoint average",
			rec:  map[string]any{"key": "a", "value": map[string]any{"min": 2.0, "max": 4.0}},
			want: Range{Min: 2, Max: 4, Avg: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := MustNormalize([]any{tt.rec})
			v := ds.Records[0].Value
			require.Equal(t, KindRange, v.Kind)
			assert.Equal(t, tt.want, v.Range)
		})
	}
}

func TestCompositeKey(t *testing.T) {
	ds := MustNormalize([]any{map[string]any{"key": []any{"2017", 3.0}, "value": 1.0}})
	r := ds.Records[0]
	assert.Equal(t, "2017,3", r.Key)
	assert.Len(t, r.KeyParts, 2)

	p, ok := r.KeyPoint()
	assert.True(t, ok)
	assert.Equal(t, orb.Point{2017, 3}, p)
}

func TestDateParsing(t *testing.T) {
	ds := MustNormalize([]any{
		map[string]any{"key": "a", "value": 1.0, "date": 1483228800000.0},
		map[string]any{"key": "b", "value": 1.0, "date": "2017-02-01"},
		map[string]any{"key": "c", "value": 1.0, "date": "not a date"},
	})
	assert.True(t, ds.Records[0].HasDate)
	assert.Equal(t, time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC), ds.Records[0].Date)
	assert.True(t, ds.Records[1].HasDate)
	assert.Equal(t, time.February, ds.Records[1].Date.Month())
	assert.False(t, ds.Records[2].HasDate)
}

func TestGeoParsing(t *testing.T) {
	ds := MustNormalize([]any{
		map[string]any{"key": "a", "value": 1.0, "geo": "-71.06,42.36"},
		map[string]any{"key": "b", "value": 1.0, "geo": []any{-0.12, 51.5}},
		map[string]any{"key": "c", "value": 1.0, "geo": []any{[]any{1.0, 2.0}, []any{3.0, 4.0}}},
	})
	assert.Equal(t, []orb.Point{{-71.06, 42.36}}, ds.Records[0].Geo)
	assert.False(t, ds.Records[0].GeoGroup)
	assert.Equal(t, []orb.Point{{-0.12, 51.5}}, ds.Records[1].Geo)
	assert.True(t, ds.Records[2].GeoGroup)
	assert.Len(t, ds.Records[2].Geo, 2)
}

func TestEnvelope(t *testing.T) {
	raw, err := DecodeBytes([]byte(`{
		"fields": ["name", "count"],
		"keys": ["b", "a"],
		"projection": "mercator",
		"features": {"type": "FeatureCollection", "features": [
			{"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [1, 2]}}
		]},
		"data": [{"key": "x", "value": 3}]
	}`))
	require.NoError(t, err)

	ds, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "count"}, ds.Fields)
	assert.Equal(t, []string{"b", "a"}, ds.Keys)
	assert.Equal(t, "mercator", ds.Projection)
	require.NotNil(t, ds.Features)
	assert.Len(t, ds.Features.Features, 1)
	assert.Equal(t, 3.0, ds.Records[0].Value.Scalar)
}

func TestEnvelopeRowsAndFeatureList(t *testing.T) {
	raw := map[string]any{
		"rows": []any{map[string]any{"key": "x", "value": 1.0}},
		"features": []any{
			map[string]any{"type": "Feature", "geometry": map[string]any{"type": "Point", "coordinates": []any{0.0, 0.0}}},
		},
	}
	ds, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
	require.NotNil(t, ds.Features)
	assert.Len(t, ds.Features.Features, 1)
}

func TestEnvelopeGeometry(t *testing.T) {
	raw := map[string]any{
		"data":     []any{},
		"features": map[string]any{"type": "LineString", "coordinates": []any{[]any{0.0, 0.0}, []any{1.0, 1.0}}},
	}
	ds, err := Normalize(raw)
	require.NoError(t, err)
	assert.True(t, ds.Empty())
	require.Len(t, ds.Features.Features, 1)
}

func TestNormalizeInvalid(t *testing.T) {
	_, err := Normalize(42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidData))

	_, err = Normalize(map[string]any{"unrelated": true})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidData))

	ds, err := Normalize(nil)
	require.NoError(t, err)
	assert.True(t, ds.Empty())
}

func TestColumnsFirstSeenOrder(t *testing.T) {
	raw, err := Decode(strings.NewReader(`[
		{"name": "a", "count": 1},
		{"zeta": true, "name": "b", "extra": 2}
	]`))
	require.NoError(t, err)

	ds := MustNormalize(raw)
	assert.Equal(t, []string{"name", "count", "zeta", "extra"}, ds.Columns())
}

func TestIdentities(t *testing.T) {
	ds := MustNormalize([]any{
		map[string]any{"key": "a"},
		map[string]any{"key": "b"},
		map[string]any{"key": "a"},
	})
	assert.Equal(t, []string{"a#0", "b#0", "a#1"}, Identities(ds.Records))
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	_, err := DecodeBytes([]byte(`[1] [2]`))
	assert.Error(t, err)
}

func TestObjectMarshalKeepsOrder(t *testing.T) {
	raw, err := DecodeBytes([]byte(`{"b": 1, "a": 2}`))
	require.NoError(t, err)
	obj := raw.(*Object)
	data, err := obj.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":2}`, string(data))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1,234.5", FormatNumber(1234.5))
	assert.Equal(t, "12", FormatNumber(12))
	assert.Equal(t, "1,235", FormatInteger(1234.6))
}
