package dataset

import (
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"

	"github.com/vabarbosa/simple-data-vis/internal/conv"
)

// Record is one normalized row. Records are values: renderers receive
// copies and never write back into caller data.
type Record struct {
	// Key is the display label. Composite keys are comma joined.
	Key string
	// KeyParts holds the elements of a composite key.
	KeyParts []any
	HasKey   bool

	Value Value

	Date    time.Time
	HasDate bool

	// Geo holds one point, or several for a geo group.
	Geo      []orb.Point
	GeoGroup bool

	// Fields is a plain copy of every raw field; Order lists their names.
	Fields map[string]any
	Order  []string

	// Index is the position of the record in its dataset.
	Index int
}

// Field returns a raw field.
func (r Record) Field(name string) (any, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// Has reports whether the raw record carried the named field.
func (r Record) Has(name string) bool {
	_, ok := r.Fields[name]
	return ok
}

// HasGeo reports whether at least one geo point was parsed.
func (r Record) HasGeo() bool {
	return len(r.Geo) > 0
}

// KeyPoint interprets the key as a coordinate: a two element numeric key, or
// a "lon,lat" string.
func (r Record) KeyPoint() (orb.Point, bool) {
	if len(r.KeyParts) == 2 {
		lon, ok1 := conv.Float(r.KeyParts[0])
		lat, ok2 := conv.Float(r.KeyParts[1])
		if ok1 && ok2 {
			return orb.Point{lon, lat}, true
		}
	}
	if len(r.KeyParts) == 0 {
		return parsePointString(r.Key)
	}
	return orb.Point{}, false
}

func newRecord(raw any, index int) Record {
	rec := Record{Index: index}

	if !isObject(raw) {
		rec.Fields = map[string]any{"value": Plain(raw)}
		rec.Order = []string{"value"}
		if f, ok := conv.Float(raw); ok {
			rec.Value = ScalarValue(f)
		}
		return rec
	}

	rec.Order = keysOf(raw)
	rec.Fields = make(map[string]any, len(rec.Order))
	for _, name := range rec.Order {
		v, _ := lookup(raw, name)
		rec.Fields[name] = Plain(v)
	}

	if key, ok := lookup(raw, "key"); ok {
		rec.HasKey = true
		if parts, ok := asSlice(key); ok {
			rec.KeyParts = make([]any, len(parts))
			labels := make([]string, len(parts))
			for i, p := range parts {
				rec.KeyParts[i] = Plain(p)
				labels[i] = conv.String(Plain(p))
			}
			rec.Key = strings.Join(labels, ",")
		} else {
			rec.Key = conv.String(Plain(key))
		}
	}

	rec.Value = parseValue(raw)

	if d, ok := lookup(raw, "date"); ok {
		rec.Date, rec.HasDate = parseDate(d)
	}
	if g, ok := lookup(raw, "geo"); ok {
		rec.Geo, rec.GeoGroup = parseGeo(g)
	}
	return rec
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"Jan 2, 2006",
}

// parseDate accepts epoch milliseconds or a date string.
func parseDate(v any) (time.Time, bool) {
	if conv.IsNumber(v) {
		ms, _ := conv.Float(v)
		return time.UnixMilli(int64(ms)).UTC(), true
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseGeo accepts "lon,lat", [lon, lat] or a list of either.
func parseGeo(v any) ([]orb.Point, bool) {
	if s, ok := v.(string); ok {
		if p, ok := parsePointString(s); ok {
			return []orb.Point{p}, false
		}
		return nil, false
	}
	elems, ok := asSlice(v)
	if !ok || len(elems) == 0 {
		return nil, false
	}
	if p, ok := parsePair(elems); ok {
		return []orb.Point{p}, false
	}

	points := make([]orb.Point, 0, len(elems))
	for _, e := range elems {
		if s, ok := e.(string); ok {
			if p, ok := parsePointString(s); ok {
				points = append(points, p)
			}
			continue
		}
		if pair, ok := asSlice(e); ok {
			if p, ok := parsePair(pair); ok {
				points = append(points, p)
			}
		}
	}
	return points, len(points) > 0
}

func parsePair(elems []any) (orb.Point, bool) {
	if len(elems) != 2 {
		return orb.Point{}, false
	}
	lon, ok1 := conv.Float(elems[0])
	lat, ok2 := conv.Float(elems[1])
	if !ok1 || !ok2 {
		return orb.Point{}, false
	}
	return orb.Point{lon, lat}, true
}

func parsePointString(s string) (orb.Point, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return orb.Point{}, false
	}
	return parsePair([]any{parts[0], parts[1]})
}
