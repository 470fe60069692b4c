package scene

// Stats counts structural operations performed on a document.
type Stats struct {
	Created int
	Removed int
	Entered int
	Updated int
	Exited  int
}

// Document owns a scene tree and its pending transitions.
// A document is not safe for concurrent use.
type Document struct {
	root  *Node
	queue []*Transition
	stats Stats
	seq   int
}

// NewDocument returns a document with an html root holding head and body.
func NewDocument() *Document {
	d := &Document{}
	d.root = d.newNode("html")
	d.root.Append("head")
	d.root.Append("body")
	d.stats = Stats{}
	return d
}

// NewContainer returns a sized div inside the body of a fresh document.
func NewContainer(width, height float64) *Node {
	return NewDocument().Container(width, height)
}

// Root returns the document element.
func (d *Document) Root() *Node { return d.root }

// Body returns the body element, creating it when missing.
func (d *Document) Body() *Node {
	if b := d.root.Select("body"); b != nil {
		return b
	}
	return d.root.Append("body")
}

// Head returns the head element, creating it when missing.
func (d *Document) Head() *Node {
	if h := d.root.Select("head"); h != nil {
		return h
	}
	return d.root.Prepend("head")
}

// Container appends a div to the body. Non-zero sizes become px styles.
func (d *Document) Container(width, height float64) *Node {
	c := d.Body().Append("div")
	if width > 0 {
		c.SetStyle("width", format(width)+"px")
	}
	if height > 0 {
		c.SetStyle("height", format(height)+"px")
	}
	return c
}

// CreateElement returns a detached node owned by d.
func (d *Document) CreateElement(tag string) *Node {
	return d.newNode(tag)
}

// ElementByID returns the first element whose id attribute matches.
func (d *Document) ElementByID(id string) *Node {
	for _, n := range d.root.Descendants() {
		if n.Attr("id") == id {
			return n
		}
	}
	return nil
}

// Stats returns the operation counters.
func (d *Document) Stats() Stats { return d.stats }

// ResetStats zeroes the operation counters.
func (d *Document) ResetStats() { d.stats = Stats{} }

// Pending returns the number of scheduled transitions.
func (d *Document) Pending() int {
	n := 0
	for _, t := range d.queue {
		if t.state == statePending {
			n++
		}
	}
	return n
}

func (d *Document) newNode(tag string) *Node {
	d.seq++
	d.stats.Created++
	return &Node{Tag: tag, doc: d, seq: d.seq}
}
