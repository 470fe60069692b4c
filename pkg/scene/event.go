package scene

// Event is a pointer or click event dispatched through the tree.
type Event struct {
	Type   string
	Target *Node
	// Current is the node whose handler is running.
	Current *Node
	PageX   float64
	PageY   float64

	stopped bool
}

// StopPropagation prevents the event from reaching ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

// Stopped reports whether propagation was stopped.
func (e *Event) Stopped() bool { return e.stopped }

// Handler reacts to an event on a node.
type Handler func(n *Node, e *Event)

// On sets the handler for an event type, replacing any previous one.
// A nil handler removes it.
func (n *Node) On(event string, h Handler) *Node {
	if h == nil {
		delete(n.handlers, event)
		return n
	}
	if n.handlers == nil {
		n.handlers = make(map[string]Handler)
	}
	n.handlers[event] = h
	return n
}

// HasHandler reports whether n handles the event type.
func (n *Node) HasHandler(event string) bool {
	_, ok := n.handlers[event]
	return ok
}

// Dispatch delivers an event at (x, y) to n, then bubbles it to ancestors
// until a handler stops propagation.
func (n *Node) Dispatch(event string, x, y float64) *Event {
	e := &Event{Type: event, Target: n, PageX: x, PageY: y}
	for p := n; p != nil && !e.stopped; p = p.parent {
		if h, ok := p.handlers[event]; ok {
			e.Current = p
			h(p, e)
		}
	}
	return e
}
