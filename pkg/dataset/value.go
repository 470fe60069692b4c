package dataset

import (
	"sort"
	"strings"

	"github.com/vabarbosa/simple-data-vis/internal/conv"
)

// Kind identifies the shape of a record's value.
type Kind int

const (
	KindNone Kind = iota
	KindScalar
	KindGrouped
	KindRange
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindGrouped:
		return "grouped"
	case KindRange:
		return "range"
	}
	return "none"
}

// Group is one named entry of a grouped value.
type Group struct {
	Name  string
	Value float64
}

// Range is a min/max/avg aggregate.
type Range struct {
	Min float64
	Max float64
	Avg float64
}

// Value is the tagged variant held by every record.
type Value struct {
	Kind   Kind
	Scalar float64
	Groups []Group
	Range  Range
}

// ScalarValue returns a scalar Value.
func ScalarValue(f float64) Value {
	return Value{Kind: KindScalar, Scalar: f}
}

// GroupedValue returns a grouped Value with groups sorted by name.
func GroupedValue(groups []Group) Value {
	gs := append([]Group(nil), groups...)
	sort.SliceStable(gs, func(i, j int) bool { return gs[i].Name < gs[j].Name })
	return Value{Kind: KindGrouped, Groups: gs}
}

// RangeValue returns a range Value.
func RangeValue(min, max, avg float64) Value {
	return Value{Kind: KindRange, Range: Range{Min: min, Max: max, Avg: avg}}
}

// Float collapses the value to one number: the scalar, the sum of the
// groups, or the range average.
func (v Value) Float() float64 {
	switch v.Kind {
	case KindScalar:
		return v.Scalar
	case KindGrouped:
		var sum float64
		for _, g := range v.Groups {
			sum += g.Value
		}
		return sum
	case KindRange:
		return v.Range.Avg
	}
	return 0
}

// Max returns the largest number the value spans.
func (v Value) Max() float64 {
	switch v.Kind {
	case KindScalar:
		return v.Scalar
	case KindGrouped:
		var m float64
		for i, g := range v.Groups {
			if i == 0 || g.Value > m {
				m = g.Value
			}
		}
		return m
	case KindRange:
		return v.Range.Max
	}
	return 0
}

// Group returns the entry named name.
func (v Value) Group(name string) (float64, bool) {
	for _, g := range v.Groups {
		if g.Name == name {
			return g.Value, true
		}
	}
	return 0, false
}

// Names returns the group names in order.
func (v Value) Names() []string {
	names := make([]string, len(v.Groups))
	for i, g := range v.Groups {
		names[i] = g.Name
	}
	return names
}

// String formats the value for tooltips and table cells.
func (v Value) String() string {
	switch v.Kind {
	case KindScalar:
		return FormatNumber(v.Scalar)
	case KindGrouped:
		parts := make([]string, len(v.Groups))
		for i, g := range v.Groups {
			parts[i] = g.Name + ": " + FormatNumber(g.Value)
		}
		return strings.Join(parts, ", ")
	case KindRange:
		return "Min (" + FormatNumber(v.Range.Min) + "), Avg (" + FormatNumber(v.Range.Avg) +
			"), Max (" + FormatNumber(v.Range.Max) + ")"
	}
	return ""
}

// parseValue resolves the value field of a raw record, consulting the
// record's top-level min/max/avg/sum/count for range values.
func parseValue(raw any) Value {
	value, hasValue := lookup(raw, "value")
	_, topMax := lookup(raw, "max")
	_, nestedMax := lookup(value, "max")

	if topMax || nestedMax {
		return deriveRange(raw, value)
	}
	if !hasValue {
		return Value{}
	}
	if f, ok := conv.Float(value); ok {
		return ScalarValue(f)
	}
	if isObject(value) {
		names := keysOf(value)
		groups := make([]Group, 0, len(names))
		for _, name := range names {
			e, _ := lookup(value, name)
			f, _ := conv.Float(e)
			groups = append(groups, Group{Name: name, Value: f})
		}
		return GroupedValue(groups)
	}
	return Value{}
}

func deriveRange(raw, value any) Value {
	num := func(obj any, key string) (float64, bool) {
		v, ok := lookup(obj, key)
		if !ok {
			return 0, false
		}
		return conv.Float(v)
	}
	ratio := func(obj any) (float64, bool) {
		sum, ok1 := num(obj, "sum")
		count, ok2 := num(obj, "count")
		if !ok1 || !ok2 || count == 0 {
			return 0, false
		}
		return sum / count, true
	}

	max, ok := num(raw, "max")
	if !ok {
		max, _ = num(value, "max")
	}
	min, ok := num(raw, "min")
	if !ok {
		if min, ok = num(value, "min"); !ok {
			min = max
		}
	}

	avg, ok := num(raw, "avg")
	if !ok {
		avg, ok = ratio(raw)
	}
	if !ok {
		avg, ok = num(value, "avg")
	}
	if !ok {
		avg, ok = ratio(value)
	}
	if !ok {
		avg = (max + min) / 2
	}
	return RangeValue(min, max, avg)
}
