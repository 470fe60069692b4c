// Package dataset normalizes raw chart data into read-only records.
//
// Input arrives as a bare record sequence or as an envelope object carrying
// the sequence under "rows" or "data" together with metadata ("fields",
// "keys", "features", "projection"). Normalize resolves each record's value
// into a tagged Value once, so renderers never re-inspect raw fields.
package dataset

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/paulmach/orb/geojson"

	"github.com/vabarbosa/simple-data-vis/internal/conv"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
)

// Dataset is a normalized record sequence plus envelope metadata.
type Dataset struct {
	Records []Record

	// Fields lists table columns supplied by the envelope.
	Fields []string
	// Keys lists series keys supplied by the envelope.
	Keys []string
	// Features holds map geometry supplied by the envelope.
	Features *geojson.FeatureCollection
	// Projection names the map projection supplied by the envelope.
	Projection string

	raw any
}

// Normalize converts raw input into a Dataset. A nil input yields an empty
// dataset; a *Dataset is returned unchanged.
func Normalize(raw any) (*Dataset, error) {
	if ds, ok := raw.(*Dataset); ok {
		return ds, nil
	}
	ds := &Dataset{raw: raw}
	if raw == nil {
		return ds, nil
	}

	if records, ok := raw.([]Record); ok {
		ds.Records = append([]Record(nil), records...)
		for i := range ds.Records {
			ds.Records[i].Index = i
		}
		return ds, nil
	}

	seq, ok := asSlice(raw)
	if !ok {
		if !isObject(raw) {
			return nil, errors.New(errors.ErrCodeInvalidData, "expected a record sequence or envelope, got %T", raw)
		}
		var err error
		if seq, err = ds.unwrap(raw); err != nil {
			return nil, err
		}
	}

	ds.Records = make([]Record, len(seq))
	for i, e := range seq {
		ds.Records[i] = newRecord(e, i)
	}
	return ds, nil
}

// MustNormalize is Normalize for literal data in tests and examples.
func MustNormalize(raw any) *Dataset {
	ds, err := Normalize(raw)
	if err != nil {
		panic(err)
	}
	return ds
}

func (ds *Dataset) unwrap(env any) ([]any, error) {
	var body any
	if rows, ok := lookup(env, "rows"); ok {
		body = rows
	} else if data, ok := lookup(env, "data"); ok {
		body = data
	} else {
		return nil, errors.New(errors.ErrCodeInvalidData, "envelope has neither rows nor data")
	}

	var seq []any
	if body != nil {
		var ok bool
		if seq, ok = asSlice(body); !ok {
			return nil, errors.New(errors.ErrCodeInvalidData, "envelope data is %T, not a sequence", body)
		}
	}

	if fields, ok := lookup(env, "fields"); ok {
		ds.Fields = conv.Strings(Plain(fields))
	}
	if keys, ok := lookup(env, "keys"); ok {
		ds.Keys = conv.Strings(Plain(keys))
	}
	if proj, ok := lookup(env, "projection"); ok {
		ds.Projection = conv.String(proj)
	}
	if features, ok := lookup(env, "features"); ok && features != nil {
		fc, err := parseFeatures(features)
		if err != nil {
			return nil, err
		}
		ds.Features = fc
	}
	return seq, nil
}

// parseFeatures accepts a FeatureCollection, a list of features, a single
// feature, or a bare geometry.
func parseFeatures(v any) (*geojson.FeatureCollection, error) {
	plain := Plain(v)
	if list, ok := plain.([]any); ok {
		plain = map[string]any{"type": "FeatureCollection", "features": list}
	}
	data, err := json.Marshal(plain)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "encode map features")
	}

	m, _ := plain.(map[string]any)
	switch conv.String(m["type"]) {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "parse map features")
		}
		return fc, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "parse map feature")
		}
		fc := geojson.NewFeatureCollection()
		fc.Append(f)
		return fc, nil
	}

	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "parse map geometry")
	}
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(g.Geometry()))
	return fc, nil
}

// Raw returns the input Normalize was called with.
func (ds *Dataset) Raw() any {
	return ds.raw
}

// Len returns the number of records.
func (ds *Dataset) Len() int {
	if ds == nil {
		return 0
	}
	return len(ds.Records)
}

// Empty reports whether the dataset has no records.
func (ds *Dataset) Empty() bool {
	return ds.Len() == 0
}

// First returns the first record. Shape predicates inspect it the way a
// reader skims the first row.
func (ds *Dataset) First() (Record, bool) {
	if ds.Empty() {
		return Record{}, false
	}
	return ds.Records[0], true
}

// Columns returns the envelope fields, or the union of record field names in
// first-seen order.
func (ds *Dataset) Columns() []string {
	if len(ds.Fields) > 0 {
		return append([]string(nil), ds.Fields...)
	}
	seen := make(map[string]bool)
	var cols []string
	for _, r := range ds.Records {
		for _, name := range r.Order {
			if !seen[name] {
				seen[name] = true
				cols = append(cols, name)
			}
		}
	}
	return cols
}

// Rows returns the raw fields of each record.
func (ds *Dataset) Rows() []map[string]any {
	rows := make([]map[string]any, len(ds.Records))
	for i, r := range ds.Records {
		rows[i] = r.Fields
	}
	return rows
}

// GroupNames returns the sorted union of group names across records.
func (ds *Dataset) GroupNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range ds.Records {
		for _, g := range r.Value.Groups {
			if !seen[g.Name] {
				seen[g.Name] = true
				names = append(names, g.Name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// WithRecords returns a dataset sharing ds's metadata with a new record list.
func (ds *Dataset) WithRecords(records []Record) *Dataset {
	out := *ds
	out.Records = records
	return &out
}

// Identities returns a stable identity per record: the key plus its
// occurrence count, so repeated keys stay distinct.
func Identities(records []Record) []string {
	seen := make(map[string]int, len(records))
	ids := make([]string, len(records))
	for i, r := range records {
		n := seen[r.Key]
		seen[r.Key] = n + 1
		ids[i] = r.Key + "#" + strconv.Itoa(n)
	}
	return ids
}
