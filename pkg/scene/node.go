// Package scene is a small retained element tree that chart renderers draw
// into.
//
// A Document owns a tree of Nodes. Nodes carry ordered attributes, inline
// styles, bound data, event handlers and pending transitions. Renderers
// reconcile marks against data with Join, schedule animated changes with
// Node.Transition, and the host applies them with Document.Flush. Trees are
// serialized to SVG with WriteSVG or to HTML with WriteHTML.
package scene

import (
	"math"
	"strconv"
	"strings"

	"github.com/vabarbosa/simple-data-vis/internal/conv"
)

// Attr is one name/value pair. Attributes and styles keep insertion order.
type Attr struct {
	Name  string
	Value string
}

// Node is an element in a scene tree.
type Node struct {
	Tag string

	doc      *Document
	parent   *Node
	children []*Node

	attrs  []Attr
	styles []Attr
	text   string
	html   bool

	datum any
	key   string
	index int

	handlers map[string]Handler
	pending  *Transition

	seq        int
	removedSeq int
	exiting    bool
}

// Document returns the document that owns n.
func (n *Node) Document() *Document { return n.doc }

// Parent returns the parent node, or nil for a detached node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of n's child list.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// FirstChild returns the first child element, or nil. Text nodes are
// skipped.
func (n *Node) FirstChild() *Node {
	for _, c := range n.children {
		if c.Tag != TextTag {
			return c
		}
	}
	return nil
}

// TextTag is the tag of text nodes kept from parsed documents with mixed
// content.
const TextTag = "#text"

// AppendText adds a text node child.
func (n *Node) AppendText(s string) *Node {
	c := n.Append(TextTag)
	c.text = s
	return c
}

// Seq is the document sequence number at which n was created.
func (n *Node) Seq() int { return n.seq }

// RemovedSeq is the sequence number at which n was removed, or 0.
func (n *Node) RemovedSeq() int { return n.removedSeq }

// Removed reports whether n has been removed from the tree.
func (n *Node) Removed() bool { return n.removedSeq > 0 }

// Exiting reports whether n was placed in a join's exit set.
func (n *Node) Exiting() bool { return n.exiting }

// Append creates a child element with the given tag.
func (n *Node) Append(tag string) *Node {
	c := n.doc.newNode(tag)
	c.parent = n
	n.children = append(n.children, c)
	return c
}

// Prepend creates a child element inserted before every other child.
func (n *Node) Prepend(tag string) *Node {
	c := n.doc.newNode(tag)
	c.parent = n
	n.children = append([]*Node{c}, n.children...)
	return c
}

// AppendChild attaches an existing node as the last child of n.
func (n *Node) AppendChild(c *Node) {
	if c.parent != nil {
		c.parent.detach(c)
	}
	c.parent = n
	n.children = append(n.children, c)
}

// Remove detaches n from its parent. Removing a node twice is a no-op.
func (n *Node) Remove() {
	if n.removedSeq > 0 {
		return
	}
	if n.parent != nil {
		n.parent.detach(n)
	}
	n.doc.seq++
	n.removedSeq = n.doc.seq
	n.doc.stats.Removed++
}

// Empty removes every child of n.
func (n *Node) Empty() {
	for _, c := range n.Children() {
		c.Remove()
	}
}

func (n *Node) detach(c *Node) {
	for i, e := range n.children {
		if e == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			break
		}
	}
	c.parent = nil
}

// Attr returns the attribute value, or "" when unset.
func (n *Node) Attr(name string) string {
	v, _ := n.LookupAttr(name)
	return v
}

// LookupAttr returns the attribute value and whether it is set.
func (n *Node) LookupAttr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attrs returns a copy of n's attributes in insertion order.
func (n *Node) Attrs() []Attr {
	return append([]Attr(nil), n.attrs...)
}

// SetAttr sets an attribute. A nil value removes it. Numbers are written
// with at most three decimals.
func (n *Node) SetAttr(name string, value any) *Node {
	if value == nil {
		n.RemoveAttr(name)
		return n
	}
	n.attrs = setPair(n.attrs, name, format(value))
	return n
}

// RemoveAttr deletes an attribute.
func (n *Node) RemoveAttr(name string) *Node {
	n.attrs = deletePair(n.attrs, name)
	return n
}

// AttrFloat parses a numeric attribute.
func (n *Node) AttrFloat(name string) float64 {
	f, _ := conv.Float(strings.TrimSuffix(n.Attr(name), "px"))
	return f
}

// Style returns an inline style property.
func (n *Node) Style(name string) string {
	for _, s := range n.styles {
		if s.Name == name {
			return s.Value
		}
	}
	return ""
}

// Styles returns a copy of n's inline styles in insertion order.
func (n *Node) Styles() []Attr {
	return append([]Attr(nil), n.styles...)
}

// SetStyle sets an inline style property. A nil or empty value removes it.
func (n *Node) SetStyle(name string, value any) *Node {
	v := ""
	if value != nil {
		v = format(value)
	}
	if v == "" {
		n.styles = deletePair(n.styles, name)
		return n
	}
	n.styles = setPair(n.styles, name, v)
	return n
}

// Classes returns the class list.
func (n *Node) Classes() []string {
	return strings.Fields(n.Attr("class"))
}

// Classed reports whether n has the class.
func (n *Node) Classed(class string) bool {
	for _, c := range n.Classes() {
		if c == class {
			return true
		}
	}
	return false
}

// SetClassed adds or removes classes. Several space separated classes may be
// given at once.
func (n *Node) SetClassed(classes string, on bool) *Node {
	list := n.Classes()
	for _, class := range strings.Fields(classes) {
		idx := -1
		for i, c := range list {
			if c == class {
				idx = i
				break
			}
		}
		switch {
		case on && idx < 0:
			list = append(list, class)
		case !on && idx >= 0:
			list = append(list[:idx], list[idx+1:]...)
		}
	}
	if len(list) == 0 {
		n.RemoveAttr("class")
		return n
	}
	n.attrs = setPair(n.attrs, "class", strings.Join(list, " "))
	return n
}

// Text returns n's text content.
func (n *Node) Text() string { return n.text }

// HTML reports whether n's text is raw markup.
func (n *Node) HTML() bool { return n.html }

// SetText replaces n's children with a text value.
func (n *Node) SetText(s string) *Node {
	n.Empty()
	n.text = s
	n.html = false
	return n
}

// SetHTML replaces n's children with raw markup, written unescaped.
func (n *Node) SetHTML(s string) *Node {
	n.Empty()
	n.text = s
	n.html = true
	return n
}

// Datum returns the data bound to n.
func (n *Node) Datum() any { return n.datum }

// SetDatum binds data to n.
func (n *Node) SetDatum(d any) *Node {
	n.datum = d
	return n
}

// Key returns the join identity bound to n.
func (n *Node) Key() string { return n.key }

// Index returns n's position in the data of its last join.
func (n *Node) Index() int { return n.index }

// Box returns the rendered size of n: width/height attributes, else px
// styles, else zero.
func (n *Node) Box() (width, height float64) {
	return n.dimension("width"), n.dimension("height")
}

func (n *Node) dimension(name string) float64 {
	if v, ok := n.LookupAttr(name); ok {
		if f, ok := conv.Float(strings.TrimSuffix(v, "px")); ok {
			return f
		}
	}
	if v := n.Style(name); strings.HasSuffix(v, "px") {
		if f, ok := conv.Float(strings.TrimSuffix(v, "px")); ok {
			return f
		}
	}
	return 0
}

// Descendants returns every node below n in document order.
func (n *Node) Descendants() []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(p *Node) {
		for _, c := range p.children {
			out = append(out, c)
			walk(c)
		}
	}
	walk(n)
	return out
}

// Contains reports whether c is n or one of its descendants.
func (n *Node) Contains(c *Node) bool {
	for p := c; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

func setPair(pairs []Attr, name, value string) []Attr {
	for i := range pairs {
		if pairs[i].Name == name {
			pairs[i].Value = value
			return pairs
		}
	}
	return append(pairs, Attr{Name: name, Value: value})
}

func deletePair(pairs []Attr, name string) []Attr {
	for i := range pairs {
		if pairs[i].Name == name {
			return append(pairs[:i], pairs[i+1:]...)
		}
	}
	return pairs
}

// format renders attribute and style values.
func format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "0"
		}
		r := conv.Round(x, 3)
		if r == 0 {
			r = 0 // drop negative zero
		}
		return strconv.FormatFloat(r, 'f', -1, 64)
	case float32:
		return format(float64(x))
	case int:
		return strconv.Itoa(x)
	}
	return conv.String(v)
}
