package resolve

import (
	"strings"

	"github.com/vabarbosa/simple-data-vis/internal/conv"
	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
)

// BuildURL appends a view name and query string to a base location.
//
// The base gets a trailing slash unless it already ends with one or carries a
// query. Parameters come from opts' "param" set in insertion order, followed
// by the derived group, group_level, startkey and endkey values. Parameters
// that are nil, false, empty or numeric zero are skipped. Values are written
// as-is except sequence startkey/endkey values, which are encoded as a
// JSON-like key literal. opts is not modified.
func BuildURL(base, view string, opts options.Options) string {
	u := base
	if !strings.HasSuffix(u, "/") && !strings.Contains(u, "?") {
		u += "/"
	}

	if opts == nil {
		opts = options.Options{}
	}
	params := opts.Clone().Params()

	if g, ok := opts[options.Group]; ok && g != nil {
		params.Delete(options.GroupLevel)
		s := strings.ToLower(strings.TrimSpace(conv.String(g)))
		switch {
		case s == "true":
			params.Set(options.Group, true)
		case s == "false":
			params.Set(options.Group, false)
		case isNumeric(g):
			params.Set(options.GroupLevel, g)
			params.Delete(options.Group)
		default:
			params.Set(options.Group, g)
		}
	}

	for _, name := range []string{options.StartKey, options.EndKey} {
		v, ok := opts[name]
		if !ok {
			continue
		}
		if elems, ok := sequence(v); ok {
			parts := make([]string, len(elems))
			for i, e := range elems {
				parts[i] = keyLiteral(e)
			}
			params.Set(name, EncodeURIComponent("["+strings.Join(parts, ",")+"]"))
		} else {
			params.Set(name, v)
		}
	}

	u += view
	if strings.Contains(u, "?") {
		u += "&"
	} else {
		u += "?"
	}

	var b strings.Builder
	b.WriteString(u)
	for _, e := range params.Entries() {
		if !conv.Present(e.Value) {
			continue
		}
		s := conv.String(e.Value)
		if s == "" {
			continue
		}
		b.WriteString(e.Key)
		b.WriteByte('=')
		b.WriteString(s)
		b.WriteByte('&')
	}
	return strings.TrimRight(b.String(), "?&")
}

func isNumeric(v any) bool {
	_, ok := conv.Float(v)
	return ok
}

func sequence(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

// keyLiteral renders one element of a startkey/endkey sequence: strings are
// quoted, mappings, sequences and nil become the {} placeholder, anything
// else is written as-is.
func keyLiteral(v any) string {
	switch x := v.(type) {
	case string:
		return `"` + x + `"`
	case nil, map[string]any, []any, []string, *dataset.Object:
		return "{}"
	}
	return conv.String(v)
}

// EncodeURIComponent percent-encodes s, leaving only letters, digits and
// -_.!~*'() unescaped.
func EncodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
