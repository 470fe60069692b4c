package vis

import (
	"context"
	"strings"

	"github.com/vabarbosa/simple-data-vis/pkg/scene"
)

// Attribute names for declarative attachment.
const (
	AttrSource      = "data-vis"
	attrPrefix      = "data-vis-"
	attrHookPrefix  = "data-vis-on"
	attrParamPrefix = "data-vis-param"
)

// Discover builds a binding for every element under root carrying a
// non-empty data-vis attribute, in document order. Attributes are applied
// in the order they appear on the element:
//
//	data-vis-on<hook>="name"  sets a hook to a scope name
//	data-vis-param*="k=v"     sets a query parameter; a malformed pair clears them
//	data-vis-<option>="v"     sets an option
//
// The bindings are not rendered.
func Discover(root *scene.Node, opts ...BindingOption) []*Binding {
	if root == nil {
		return nil
	}
	var out []*Binding
	candidates := append([]*scene.Node{root}, root.Descendants()...)
	for _, n := range candidates {
		src := n.Attr(AttrSource)
		if src == "" {
			continue
		}
		b := New(src, opts...)
		b.target = n
		for _, a := range n.Attrs() {
			applyAttr(b, a)
		}
		out = append(out, b)
	}
	return out
}

func applyAttr(b *Binding, a scene.Attr) {
	switch {
	case strings.HasPrefix(a.Name, attrHookPrefix):
		b.On(a.Name[len(attrHookPrefix):], a.Value)
	case strings.HasPrefix(a.Name, attrParamPrefix):
		k, v, ok := strings.Cut(a.Value, "=")
		if !ok || strings.Contains(v, "=") {
			b.ClearParams()
			return
		}
		b.Param(k, v)
	case strings.HasPrefix(a.Name, attrPrefix):
		b.Set(a.Name[len(attrPrefix):], a.Value)
	}
}

// Init discovers the bindings under root, renders each into its element in
// document order and materializes the tooltip overlay. Failures reach each
// binding's fail hook; the first one is also returned after every binding
// has been rendered.
func Init(ctx context.Context, root *scene.Node, scope Scope, opts ...BindingOption) ([]*Binding, error) {
	if root == nil {
		return nil, nil
	}
	bindings := Discover(root, opts...)
	var first error
	for _, b := range bindings {
		if err := b.Render(ctx, b.target, scope); err != nil && first == nil {
			first = err
		}
	}
	Tooltip().Overlay(root.Document())
	return bindings, first
}
