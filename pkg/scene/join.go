package scene

import "strconv"

// Item is one datum offered to a join with its identity.
type Item struct {
	Key   string
	Datum any
}

// Selection is the result of a keyed join.
type Selection struct {
	Enter  []*Node
	Update []*Node
	Exit   []*Node

	nodes []*Node
}

// Nodes returns the entered and updated nodes in data order.
func (s *Selection) Nodes() []*Node {
	return append([]*Node(nil), s.nodes...)
}

// Len returns the number of joined data items.
func (s *Selection) Len() int { return len(s.nodes) }

// Join reconciles the children of parent matching sel with items.
//
// Existing children whose key matches an item are updated in place, items
// without a node get a new child built from sel's tag and classes, and
// children left unmatched are returned in Exit for the caller to transition
// out and remove. Children already marked as exiting are ignored. Items with
// an empty key are identified by position.
func Join(parent *Node, sel string, items []Item) *Selection {
	steps := parseSelector(sel)
	var tmpl compound
	if len(steps) > 0 {
		tmpl = steps[len(steps)-1]
	}
	if tmpl.tag == "" {
		tmpl.tag = "g"
	}

	var existing []*Node
	for _, c := range parent.ChildrenMatching(sel) {
		if !c.exiting && !c.Removed() {
			existing = append(existing, c)
		}
	}

	byKey := make(map[string]*Node, len(existing))
	for i, c := range existing {
		k := c.key
		if k == "" {
			k = "\x00" + strconv.Itoa(i)
		}
		if _, dup := byKey[k]; !dup {
			byKey[k] = c
		}
	}

	res := &Selection{nodes: make([]*Node, len(items))}
	used := make(map[*Node]bool, len(items))
	entered := make(map[*Node]bool)

	for i, it := range items {
		k := it.Key
		if k == "" {
			k = "\x00" + strconv.Itoa(i)
		}
		n, ok := byKey[k]
		if ok && !used[n] {
			used[n] = true
			res.Update = append(res.Update, n)
		} else {
			n = parent.doc.newNode(tmpl.tag)
			for _, class := range tmpl.classes {
				n.SetClassed(class, true)
			}
			entered[n] = true
			res.Enter = append(res.Enter, n)
		}
		n.datum = it.Datum
		n.key = it.Key
		n.index = i
		res.nodes[i] = n
	}

	// Entered nodes go before the next joined sibling so document order
	// follows data order.
	for i := len(res.nodes) - 1; i >= 0; i-- {
		n := res.nodes[i]
		if !entered[n] {
			continue
		}
		var next *Node
		for _, m := range res.nodes[i+1:] {
			if m.parent == parent {
				next = m
				break
			}
		}
		parent.insertBefore(n, next)
	}

	for _, c := range existing {
		if !used[c] {
			c.exiting = true
			res.Exit = append(res.Exit, c)
		}
	}

	d := parent.doc
	d.stats.Entered += len(res.Enter)
	d.stats.Updated += len(res.Update)
	d.stats.Exited += len(res.Exit)
	return res
}

// JoinOne joins a single keyed item and returns its node. Nodes previously
// joined under other keys exit and are removed at once.
func JoinOne(parent *Node, sel, key string, datum any) (n *Node, entered bool) {
	s := Join(parent, sel, []Item{{Key: key, Datum: datum}})
	for _, e := range s.Exit {
		e.Remove()
	}
	return s.nodes[0], len(s.Enter) == 1
}

// Keyed builds join items from identities and data.
func Keyed[T any](keys []string, data []T) []Item {
	items := make([]Item, len(data))
	for i, d := range data {
		var k string
		if i < len(keys) {
			k = keys[i]
		}
		items[i] = Item{Key: k, Datum: d}
	}
	return items
}

func (n *Node) insertBefore(c, ref *Node) {
	c.parent = n
	if ref != nil {
		for i, e := range n.children {
			if e == ref {
				n.children = append(n.children[:i], append([]*Node{c}, n.children[i:]...)...)
				return
			}
		}
	}
	n.children = append(n.children, c)
}
