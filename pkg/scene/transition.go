package scene

import "time"

type transitionState int

const (
	statePending transitionState = iota
	stateDone
	stateInterrupted
)

type change struct {
	name  string
	value any
}

// Transition records attribute, style and text changes that are applied
// together when the document is flushed. Starting a new transition on a node
// interrupts its pending one: the old changes are dropped and its end
// callbacks never run.
type Transition struct {
	node   *Node
	attrs  []change
	styles []change
	text   *string
	remove bool

	delay    time.Duration
	duration time.Duration

	onEnd []func(*Node)
	state transitionState
}

// DefaultDuration is the nominal length of a transition.
const DefaultDuration = 250 * time.Millisecond

// Transition schedules a new transition on n.
func (n *Node) Transition() *Transition {
	n.Interrupt()
	t := &Transition{node: n, duration: DefaultDuration}
	n.pending = t
	n.doc.queue = append(n.doc.queue, t)
	return t
}

// Interrupt cancels n's pending transition, if any.
func (n *Node) Interrupt() {
	if n.pending != nil && n.pending.state == statePending {
		n.pending.state = stateInterrupted
	}
	n.pending = nil
}

// Pending returns n's scheduled transition, or nil.
func (n *Node) Pending() *Transition {
	if n.pending != nil && n.pending.state == statePending {
		return n.pending
	}
	return nil
}

// Node returns the node being transitioned.
func (t *Transition) Node() *Node { return t.node }

// Attr sets an attribute when the transition ends.
func (t *Transition) Attr(name string, value any) *Transition {
	t.attrs = append(t.attrs, change{name, value})
	return t
}

// Style sets a style property when the transition ends.
func (t *Transition) Style(name string, value any) *Transition {
	t.styles = append(t.styles, change{name, value})
	return t
}

// Text replaces the node text when the transition ends.
func (t *Transition) Text(s string) *Transition {
	t.text = &s
	return t
}

// Remove detaches the node when the transition ends.
func (t *Transition) Remove() *Transition {
	t.remove = true
	return t
}

// Delay records a start delay.
func (t *Transition) Delay(d time.Duration) *Transition {
	t.delay = d
	return t
}

// Duration records the transition length.
func (t *Transition) Duration(d time.Duration) *Transition {
	t.duration = d
	return t
}

// Timing returns the recorded delay and duration.
func (t *Transition) Timing() (delay, duration time.Duration) {
	return t.delay, t.duration
}

// OnEnd registers a callback run after the changes are applied.
func (t *Transition) OnEnd(fn func(*Node)) *Transition {
	t.onEnd = append(t.onEnd, fn)
	return t
}

// Done reports whether the transition has been applied.
func (t *Transition) Done() bool { return t.state == stateDone }

// Interrupted reports whether a newer transition replaced this one.
func (t *Transition) Interrupted() bool { return t.state == stateInterrupted }

// Target returns the attribute value the transition will set.
func (t *Transition) Target(name string) (any, bool) {
	for i := len(t.attrs) - 1; i >= 0; i-- {
		if t.attrs[i].name == name {
			return t.attrs[i].value, true
		}
	}
	return nil, false
}

func (t *Transition) apply() {
	t.state = stateDone
	n := t.node
	if n.pending == t {
		n.pending = nil
	}
	for _, c := range t.attrs {
		n.SetAttr(c.name, c.value)
	}
	for _, c := range t.styles {
		n.SetStyle(c.name, c.value)
	}
	if t.text != nil {
		n.SetText(*t.text)
	}
	if t.remove {
		n.Remove()
	}
	for _, fn := range t.onEnd {
		fn(n)
	}
}

// Flush applies pending transitions in the order they were scheduled,
// including any scheduled by end callbacks, and returns how many ran.
func (d *Document) Flush() int {
	ran := 0
	for len(d.queue) > 0 {
		q := d.queue
		d.queue = nil
		for _, t := range q {
			if t.state != statePending {
				continue
			}
			t.apply()
			ran++
		}
	}
	return ran
}
