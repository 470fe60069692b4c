package scene

import (
	"strings"
)

// compound is one space-free selector step: tag, classes, id and attribute
// tests that must all hold.
type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrTest
}

type attrTest struct {
	name   string
	value  string
	prefix bool
	exact  bool
}

// selector is a descendant chain of compounds.
type selector []compound

// parseSelector understands "tag", "*", ".class", "#id", "[attr]",
// "[attr=value]", "[attr^=prefix]" and descendant chains separated by
// spaces.
func parseSelector(s string) selector {
	var sel selector
	for _, part := range strings.Fields(s) {
		sel = append(sel, parseCompound(part))
	}
	return sel
}

func parseCompound(s string) compound {
	var c compound
	i := 0
	readName := func() string {
		start := i
		for i < len(s) && !strings.ContainsRune(".#[", rune(s[i])) {
			i++
		}
		return s[start:i]
	}

	c.tag = readName()
	if c.tag == "*" {
		c.tag = ""
	}
	for i < len(s) {
		switch s[i] {
		case '.':
			i++
			c.classes = append(c.classes, readName())
		case '#':
			i++
			c.id = readName()
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				end = len(s) - i
			}
			c.attrs = append(c.attrs, parseAttrTest(s[i+1:i+end]))
			i += end + 1
		default:
			i++
		}
	}
	return c
}

func parseAttrTest(s string) attrTest {
	if idx := strings.Index(s, "^="); idx >= 0 {
		return attrTest{name: s[:idx], value: unquote(s[idx+2:]), prefix: true}
	}
	if idx := strings.IndexByte(s, '='); idx >= 0 {
		return attrTest{name: s[:idx], value: unquote(s[idx+1:]), exact: true}
	}
	return attrTest{name: s}
}

func unquote(s string) string {
	return strings.Trim(s, `"'`)
}

func (c compound) match(n *Node) bool {
	if c.tag != "" && !strings.EqualFold(c.tag, n.Tag) {
		return false
	}
	if c.id != "" && n.Attr("id") != c.id {
		return false
	}
	for _, class := range c.classes {
		if !n.Classed(class) {
			return false
		}
	}
	for _, a := range c.attrs {
		if !a.match(n) {
			return false
		}
	}
	return true
}

func (a attrTest) match(n *Node) bool {
	v, ok := n.LookupAttr(a.name)
	switch {
	case !ok:
		return false
	case a.prefix:
		return strings.HasPrefix(v, a.value)
	case a.exact:
		return v == a.value
	}
	return true
}

func (sel selector) match(n, scope *Node) bool {
	if len(sel) == 0 || !sel[len(sel)-1].match(n) {
		return false
	}
	rest := sel[:len(sel)-1]
	for p := n.parent; len(rest) > 0 && p != nil && p != scope; p = p.parent {
		if rest[len(rest)-1].match(p) {
			rest = rest[:len(rest)-1]
		}
	}
	return len(rest) == 0
}

// Matches reports whether n satisfies the selector.
func (n *Node) Matches(s string) bool {
	return parseSelector(s).match(n, nil)
}

// Select returns the first descendant of n matching s in document order.
func (n *Node) Select(s string) *Node {
	sel := parseSelector(s)
	for _, d := range n.Descendants() {
		if sel.match(d, n) {
			return d
		}
	}
	return nil
}

// SelectAll returns every descendant of n matching s in document order.
func (n *Node) SelectAll(s string) []*Node {
	sel := parseSelector(s)
	var out []*Node
	for _, d := range n.Descendants() {
		if sel.match(d, n) {
			out = append(out, d)
		}
	}
	return out
}

// ChildrenMatching returns the direct children of n matching s.
func (n *Node) ChildrenMatching(s string) []*Node {
	sel := parseSelector(s)
	var out []*Node
	for _, c := range n.children {
		if sel.match(c, n) {
			out = append(out, c)
		}
	}
	return out
}
