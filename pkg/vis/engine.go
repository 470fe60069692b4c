package vis

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
	"github.com/vabarbosa/simple-data-vis/pkg/observability"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
	"github.com/vabarbosa/simple-data-vis/pkg/scene"
)

const (
	// RootClass marks the root element of a drawn chart.
	RootClass = "simpledatavis"
	// MessageClass marks the empty-data message root.
	MessageClass = "message"

	// NoResults is shown for empty datasets.
	NoResults = "No results available"

	invalidTarget = "invalid render target"
)

// Engine draws datasets into containers, replacing charts of a different
// type and letting charts of the same type update in place.
type Engine struct {
	Selector *Selector
	Logger   *log.Logger
}

// NewEngine returns an Engine selecting from reg, or from the default
// registry when nil.
func NewEngine(reg *Registry, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{Selector: NewSelector(reg, logger), Logger: logger}
}

// Render draws ds into container.
//
// Empty data replaces any chart with the "No results available" message and
// calls OnEnd with a nil root. Otherwise a chart is selected; when the chart
// in the container is of another type its marks fade out first and the new
// chart is drawn once the last one is removed, which happens while the
// document is flushed. On success the container's first child is tagged with
// the root classes and OnEnd receives it.
func (e *Engine) Render(ctx context.Context, container *scene.Node, ds *dataset.Dataset, opts options.Options, cb Callbacks) {
	if container == nil {
		e.logger().Error(invalidTarget)
		cb.fail(invalidTarget)
		return
	}
	if opts == nil {
		opts = options.Options{}
	}

	if ds == nil || ds.Empty() {
		e.message(container, NoResults)
		cb.end(ds, nil)
		return
	}

	sel := e.Selector
	if sel == nil {
		sel = NewSelector(nil, e.logger())
	}
	requested := opts.String(options.Type)
	desc, candidates, err := sel.selectCounted(ds, requested)
	if err != nil {
		e.logger().Error("no chart selected", "err", err)
		cb.fail(errors.UserMessage(err))
		return
	}
	observability.Chart().OnSelect(ctx, requested, desc.Type, candidates)
	e.logger().Debug("chart selected", "requested", requested, "type", desc.Type, "candidates", candidates)

	clearChart(container, desc.Type, func() {
		start := time.Now()
		observability.Chart().OnRenderStart(ctx, desc.Type, ds.Len())
		err := desc.Render(container, ds, opts)
		observability.Chart().OnRenderComplete(ctx, desc.Type, time.Since(start), err)
		if err != nil {
			e.logger().Error("render failed", "type", desc.Type, "err", err)
			cb.fail(errors.UserMessage(err))
			return
		}
		root := container.FirstChild()
		if root != nil {
			root.SetClassed(RootClass+" "+desc.Type, true)
		}
		cb.end(ds, root)
	})
}

// clearChart removes the chart in c unless it carries the keep class, then calls
// next. Marks fade out first; next runs when the last one is gone.
func clearChart(c *scene.Node, keep string, next func()) {
	roots := c.ChildrenMatching("." + RootClass)
	if len(roots) == 0 {
		next()
		return
	}
	root := roots[0]
	if keep != "" && root.Classed(keep) {
		next()
		return
	}

	marks := root.Descendants()
	if len(marks) == 0 {
		root.Remove()
		next()
		return
	}
	left := len(marks)
	for _, m := range marks {
		m.Transition().
			Attr("opacity", 0).
			Attr("width", 0).
			Remove().
			OnEnd(func(*scene.Node) {
				left--
				if left == 0 {
					root.Remove()
					next()
				}
			})
	}
}

func (e *Engine) message(c *scene.Node, msg string) {
	clearChart(c, MessageClass, func() {
		width, _ := c.Box()
		svg, _ := scene.JoinOne(c, "svg", MessageClass, msg)
		svg.SetAttr("width", width).
			SetAttr("height", 200).
			SetClassed(RootClass+" "+MessageClass, true)

		text, entered := scene.JoinOne(svg, "text."+MessageClass, MessageClass, msg)
		if entered {
			text.SetAttr("opacity", 0).
				SetAttr("x", 50).
				SetAttr("y", 40)
		}
		text.Transition().Attr("opacity", 1).Text(msg)
	})
}

func (e *Engine) logger() *log.Logger {
	if e.Logger == nil {
		return log.Default()
	}
	return e.Logger
}
