package vis

import (
	"strconv"
	"strings"
	"sync"

	"github.com/vabarbosa/simple-data-vis/internal/conv"
	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
	"github.com/vabarbosa/simple-data-vis/pkg/scene"
)

// TooltipClass is the class of the overlay element.
const TooltipClass = "simpledatavis-tooltip"

// TooltipState is the overlay's current content and position.
type TooltipState struct {
	Visible bool
	Text    string
	Top     float64
	Left    float64
}

// TooltipController drives the tooltip overlay shared by every chart.
type TooltipController struct {
	mu       sync.Mutex
	state    TooltipState
	overlays []*scene.Node
}

var (
	tooltipOnce sync.Once
	tooltip     *TooltipController
)

// Tooltip returns the process-wide controller, creating it on first use.
func Tooltip() *TooltipController {
	tooltipOnce.Do(func() {
		tooltip = &TooltipController{state: TooltipState{Text: TooltipClass}}
	})
	return tooltip
}

// Overlay materializes the overlay element in doc's body and keeps it in
// sync with the controller. Calling it again for the same document returns
// the existing element.
func (t *TooltipController) Overlay(doc *scene.Document) *scene.Node {
	body := doc.Body()
	n, entered := scene.JoinOne(body, "div."+TooltipClass, TooltipClass, TooltipClass)
	n.SetStyle("background-color", "rgba(21, 41, 53, 0.9)").
		SetStyle("color", "#ffffff").
		SetStyle("font-family", "HelvNeue,Helvetica,sans-serif").
		SetStyle("font-size", "0.75rem").
		SetStyle("font-weight", "300").
		SetStyle("max-width", "300px").
		SetStyle("padding", "8px").
		SetStyle("position", "absolute").
		SetStyle("z-index", "100")

	t.mu.Lock()
	defer t.mu.Unlock()
	if entered {
		t.overlays = append(t.overlays, n)
	}
	t.sync(n)
	return n
}

// Mouseover shows the text for rec. See Text for precedence.
func (t *TooltipController) Mouseover(rec dataset.Record, index int, opts options.Options, override string) {
	text := Text(rec, index, opts, override)
	t.update(func(s *TooltipState) {
		s.Text = text
		s.Visible = true
	})
}

// Mousemove places the overlay next to the pointer.
func (t *TooltipController) Mousemove(x, y float64) {
	t.update(func(s *TooltipState) {
		s.Top = y - 10
		s.Left = x + 10
	})
}

// Mouseout hides the overlay.
func (t *TooltipController) Mouseout() {
	t.update(func(s *TooltipState) { s.Visible = false })
}

// State returns a snapshot of the overlay.
func (t *TooltipController) State() TooltipState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Reset hides the overlay and forgets every materialized element.
func (t *TooltipController) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = TooltipState{Text: TooltipClass}
	t.overlays = nil
}

func (t *TooltipController) update(fn func(*TooltipState)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.state)
	live := t.overlays[:0]
	for _, n := range t.overlays {
		if n.Removed() {
			continue
		}
		t.sync(n)
		live = append(live, n)
	}
	t.overlays = live
}

func (t *TooltipController) sync(n *scene.Node) {
	s := t.state
	n.SetText(s.Text)
	if s.Visible {
		n.SetStyle("visibility", "visible")
	} else {
		n.SetStyle("visibility", "hidden")
	}
	n.SetStyle("top", strconv.FormatFloat(s.Top, 'f', -1, 64)+"px")
	n.SetStyle("left", strconv.FormatFloat(s.Left, 'f', -1, 64)+"px")
}

// Text returns the tooltip text for rec.
//
// An explicit override wins, then a tooltip function in opts, then a tooltip
// string in opts, then the default "key: value" text with the date and geo
// appended when present.
func Text(rec dataset.Record, index int, opts options.Options, override string) string {
	if override != "" {
		return override
	}
	if v := opts.Get(options.Tooltip); v != nil {
		if fn := asTooltip(v); fn != nil {
			return fn(rec)
		}
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return DefaultText(rec)
}

// ChartText returns text as a Mouseover override unless opts configures its
// own tooltip, which then takes precedence over a chart's formatting.
func ChartText(opts options.Options, text string) string {
	if opts.Has(options.Tooltip) {
		return ""
	}
	return text
}

// DefaultText formats "key: value" with thousands separators.
func DefaultText(rec dataset.Record) string {
	var b strings.Builder
	b.WriteString(rec.Key)
	b.WriteString(": ")
	switch rec.Value.Kind {
	case dataset.KindScalar:
		b.WriteString(dataset.FormatNumber(rec.Value.Scalar))
	case dataset.KindNone:
		if v, ok := rec.Field("value"); ok {
			b.WriteString(conv.String(v))
		}
	default:
		b.WriteString(rec.Value.String())
	}
	if rec.HasDate {
		b.WriteString(" , date: ")
		b.WriteString(conv.String(rec.Fields["date"]))
	}
	if rec.HasGeo() {
		b.WriteString(" , geo: ")
		if rec.GeoGroup {
			b.WriteString(strconv.Itoa(len(rec.Geo)))
		} else {
			b.WriteString(conv.String(rec.Fields["geo"]))
		}
	}
	return b.String()
}
