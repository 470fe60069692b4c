// Package vis binds data sources to chart renderers.
//
// # Overview
//
// A [Binding] pairs a data source with options and lifecycle hooks. Render
// resolves the source (see package resolve), lets the "data" hook adjust the
// result, normalizes it into a [dataset.Dataset] and hands it to the
// [Engine]. The engine asks a [Selector] for a chart type, clears a chart
// of a different type from the container, draws, tags the root element and
// calls the "end" hook.
//
// Chart types live in a [Registry]. Package charts fills [Default] at init:
//
//	import _ "github.com/vabarbosa/simple-data-vis/pkg/charts"
//
//	b := vis.New("http://localhost:5984/db/_design/stats").
//		Set("view", "_view/by_day").
//		Set("group", 1).
//		On("end", func(ds *dataset.Dataset, root *scene.Node) { ... })
//	err := b.Render(ctx, container, nil)
//
// # Declarative attachment
//
// [Init] turns every element carrying a data-vis attribute into a binding.
// Hook attributes name functions in a caller supplied [Scope], resolved each
// time the hook fires.
//
// # Selection
//
// A requested type that matches exactly one registered chart wins. Otherwise
// the charts whose predicate accepts the data compete: highest priority
// first, then registration order. When none accepts it, table-vis draws it.
//
// # Tooltips
//
// All charts share one [TooltipController]. Marks are wired with
// [WireTooltip] and [WireClick].
package vis
