package vis

import (
	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
	"github.com/vabarbosa/simple-data-vis/pkg/scene"
)

// Pointer event names dispatched to chart marks.
const (
	EventMouseover = "mouseover"
	EventMousemove = "mousemove"
	EventMouseout  = "mouseout"
	EventClick     = "click"
)

// Hover is an effect run on a mark as the pointer enters and leaves it.
type Hover struct {
	Over func(n *scene.Node)
	Out  func(n *scene.Node)
}

// WireTooltip attaches the shared tooltip to a mark. text is the chart's own
// formatting for rec, or "" for the default text; a tooltip configured in
// opts still wins over it. The resolved text is also stored in the
// data-tooltip attribute so that static SVG output can show it.
func WireTooltip(n *scene.Node, rec dataset.Record, index int, opts options.Options, text string) {
	WireHover(n, rec, index, opts, text, Hover{})
}

// WireHover is WireTooltip plus a hover effect on the mark itself.
func WireHover(n *scene.Node, rec dataset.Record, index int, opts options.Options, text string, h Hover) {
	override := ChartText(opts, text)
	n.SetAttr("data-tooltip", Text(rec, index, opts, override))
	n.On(EventMouseover, func(m *scene.Node, _ *scene.Event) {
		if h.Over != nil {
			h.Over(m)
		}
		Tooltip().Mouseover(rec, index, opts, override)
	})
	n.On(EventMousemove, func(_ *scene.Node, e *scene.Event) {
		Tooltip().Mousemove(e.PageX, e.PageY)
	})
	n.On(EventMouseout, func(m *scene.Node, _ *scene.Event) {
		if h.Out != nil {
			h.Out(m)
		}
		Tooltip().Mouseout()
	})
}

// WireClick forwards clicks on a mark to the click callback in opts and
// stops the event there. It does nothing when no callback is configured.
func WireClick(n *scene.Node, rec dataset.Record, index int, opts options.Options) {
	fn := ClickOption(opts)
	if fn == nil {
		n.On(EventClick, nil)
		return
	}
	n.SetStyle("cursor", "pointer")
	n.On(EventClick, func(_ *scene.Node, e *scene.Event) {
		e.StopPropagation()
		fn(rec, index)
	})
}
