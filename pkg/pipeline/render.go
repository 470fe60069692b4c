package pipeline

import (
	"context"
	"time"

	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
	"github.com/vabarbosa/simple-data-vis/pkg/scene"
	"github.com/vabarbosa/simple-data-vis/pkg/vis"
)

// Draw renders raw into a fresh document sized by opts. Every transition has
// completed when Draw returns. A failure reported through the binding's fail
// hook is returned as an error carrying the same message.
func (r *Runner) Draw(ctx context.Context, raw any, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	r.applySize(&opts)
	opts.SetRenderDefaults()

	doc := scene.NewDocument()
	container := doc.Container(opts.Width, opts.Height)
	result := &Result{Document: doc}

	var failure string
	b := r.binding(&opts)
	b.On(vis.HookFail, func(msg string) {
		if failure == "" {
			failure = msg
		}
	})
	b.On(vis.HookEnd, func(ds *dataset.Dataset, root *scene.Node) {
		result.Dataset = ds
		result.Root = root
	})

	start := time.Now()
	b.Draw(ctx, container, raw)
	result.Stats.RenderTime = time.Since(start)

	if failure != "" {
		return nil, errors.New(errors.ErrCodeInvalidData, "%s", failure)
	}
	if result.Root == nil {
		// Empty data leaves the message in place of a chart.
		result.Root = container.FirstChild()
	}
	if result.Dataset != nil {
		result.Stats.Records = result.Dataset.Len()
	}
	result.Type = r.chartType(result.Root)
	return result, nil
}

// chartType returns the registered type root is tagged with.
func (r *Runner) chartType(root *scene.Node) string {
	if root == nil || root.Classed(vis.MessageClass) {
		return ""
	}
	for _, t := range r.registry().Types() {
		if root.Classed(t) {
			return t
		}
	}
	return ""
}
