// Package options holds the render options and query parameters attached to
// a visualization binding.
//
// Options is a plain map so that values can arrive from HTML attributes, JSON
// request bodies, config files and Go callers alike. Typed getters apply the
// coercion rules from internal/conv. Query parameters live in an
// insertion-ordered Params value stored under the "param" key.
package options

import (
	"net/url"
	"sort"

	"github.com/vabarbosa/simple-data-vis/internal/conv"
)

// Recognized option names.
const (
	Type       = "type"
	View       = "view"
	Param      = "param"
	Tooltip    = "tooltip"
	Click      = "click"
	Min        = "min"
	Max        = "max"
	Standout   = "standout"
	MaxGroups  = "maxgroups"
	Donut      = "donut"
	Scatter    = "scatter"
	HTMLCells  = "htmlcells"
	Projection = "projection"
	Width      = "width"
	Height     = "height"
	Group      = "group"
	GroupLevel = "group_level"
	StartKey   = "startkey"
	EndKey     = "endkey"
)

// Options is a set of named render options.
type Options map[string]any

// Has reports whether key is set to a non-nil value.
func (o Options) Has(key string) bool {
	v, ok := o[key]
	return ok && v != nil
}

// Get returns the raw value for key.
func (o Options) Get(key string) any {
	return o[key]
}

// String returns the value for key formatted as a string.
func (o Options) String(key string) string {
	return conv.String(o[key])
}

// Float returns the numeric value for key.
func (o Options) Float(key string) (float64, bool) {
	return conv.Float(o[key])
}

// FloatOr returns the numeric value for key, or def when unset or non-numeric.
func (o Options) FloatOr(key string, def float64) float64 {
	if f, ok := conv.Float(o[key]); ok {
		return f
	}
	return def
}

// Int returns the value for key truncated to an int.
func (o Options) Int(key string) (int, bool) {
	f, ok := conv.Float(o[key])
	return int(f), ok
}

// Bool reports the truthiness of the value for key.
func (o Options) Bool(key string) bool {
	return conv.Bool(o[key])
}

// Strings returns the value for key as a string slice. A single string
// becomes a one-element slice.
func (o Options) Strings(key string) []string {
	return conv.Strings(o[key])
}

// Set stores value under key. A nil value deletes the key.
func (o Options) Set(key string, value any) {
	if value == nil {
		delete(o, key)
		return
	}
	o[key] = value
}

// Delete removes key.
func (o Options) Delete(key string) {
	delete(o, key)
}

// Keys returns the option names in sorted order.
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Params returns the query parameters stored under "param", creating an
// empty set when none exists or the stored value is not a parameter set.
// Mappings are converted with their keys sorted.
func (o Options) Params() *Params {
	if p, ok := o[Param].(*Params); ok && p != nil {
		return p
	}
	p, ok := ParamsFrom(o[Param])
	if !ok {
		p = NewParams()
	}
	o[Param] = p
	return p
}

// ParamsFrom converts v to a parameter set. It accepts *Params,
// map[string]any, map[string]string and url.Values; a url.Values key with
// several values keeps them all as a sequence. nil yields an empty set.
func ParamsFrom(v any) (*Params, bool) {
	p := NewParams()
	switch m := v.(type) {
	case nil:
	case *Params:
		if m != nil {
			return m, true
		}
	case map[string]any:
		for _, k := range sortedKeys(m) {
			p.Set(k, m[k])
		}
	case map[string]string:
		for _, k := range sortedKeys(m) {
			p.Set(k, m[k])
		}
	case url.Values:
		for _, k := range sortedKeys(m) {
			switch vs := m[k]; len(vs) {
			case 0:
			case 1:
				p.Set(k, vs[0])
			default:
				p.Set(k, append([]string(nil), vs...))
			}
		}
	default:
		return nil, false
	}
	return p, true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy of o whose Params can be modified independently.
// Other values are copied shallowly.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	if p, ok := o[Param].(*Params); ok && p != nil {
		out[Param] = p.Clone()
	}
	return out
}

// Merge copies every entry of other into o, replacing existing values.
func (o Options) Merge(other Options) {
	for k, v := range other {
		if p, ok := v.(*Params); ok {
			o[k] = p.Clone()
			continue
		}
		o[k] = v
	}
}

// Entry is one query parameter.
type Entry struct {
	Key   string
	Value any
}

// Params is an insertion-ordered set of query parameters.
// Setting an existing key keeps its original position.
type Params struct {
	entries []Entry
}

// NewParams returns an empty parameter set.
func NewParams() *Params {
	return &Params{}
}

// Set stores value under key.
func (p *Params) Set(key string, value any) {
	for i := range p.entries {
		if p.entries[i].Key == key {
			p.entries[i].Value = value
			return
		}
	}
	p.entries = append(p.entries, Entry{Key: key, Value: value})
}

// Get returns the value stored under key.
func (p *Params) Get(key string) (any, bool) {
	for _, e := range p.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (p *Params) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Delete removes key, preserving the order of the remaining entries.
func (p *Params) Delete(key string) {
	for i, e := range p.entries {
		if e.Key == key {
			p.entries = append(p.entries[:i], p.entries[i+1:]...)
			return
		}
	}
}

// Clear removes every parameter.
func (p *Params) Clear() {
	p.entries = nil
}

// Len returns the number of parameters.
func (p *Params) Len() int {
	return len(p.entries)
}

// Entries returns the parameters in insertion order.
func (p *Params) Entries() []Entry {
	return append([]Entry(nil), p.entries...)
}

// Map returns the parameters as an unordered map.
func (p *Params) Map() map[string]any {
	m := make(map[string]any, len(p.entries))
	for _, e := range p.entries {
		m[e.Key] = e.Value
	}
	return m
}

// Clone returns an independent copy of p.
func (p *Params) Clone() *Params {
	return &Params{entries: append([]Entry(nil), p.entries...)}
}
