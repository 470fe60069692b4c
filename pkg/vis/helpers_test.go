package vis

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
	"github.com/vabarbosa/simple-data-vis/pkg/scene"
)

var quiet = log.New(io.Discard)

// rectChart draws one rect per record whose width is the record value.
func rectChart(c *scene.Node, ds *dataset.Dataset, opts options.Options) error {
	svg, _ := scene.JoinOne(c, "svg", "", nil)
	sel := scene.Join(svg, "rect.mark", scene.Keyed(dataset.Identities(ds.Records), ds.Records))
	for _, n := range sel.Enter {
		n.SetAttr("width", 0).SetAttr("opacity", 0)
	}
	for i, n := range sel.Nodes() {
		rec := n.Datum().(dataset.Record)
		WireTooltip(n, rec, i, opts, "")
		WireClick(n, rec, i, opts)
		n.Transition().Attr("width", rec.Value.Float()).Attr("opacity", 1)
	}
	for _, n := range sel.Exit {
		n.Transition().Attr("width", 0).Remove()
	}
	return nil
}

func failingChart(*scene.Node, *dataset.Dataset, options.Options) error {
	return errors.New(errors.ErrCodeMissingFeatures, "Missing map features")
}

func hasKey(ds *dataset.Dataset) bool {
	if ds.Empty() {
		return false
	}
	for _, r := range ds.Records {
		if !r.HasKey {
			return false
		}
	}
	return true
}

func scalarOnly(ds *dataset.Dataset) bool {
	if !hasKey(ds) {
		return false
	}
	for _, r := range ds.Records {
		if r.Value.Kind != dataset.KindScalar {
			return false
		}
	}
	return true
}

func groupedOnly(ds *dataset.Dataset) bool {
	if !hasKey(ds) {
		return false
	}
	for _, r := range ds.Records {
		if r.Value.Kind != dataset.KindGrouped {
			return false
		}
	}
	return true
}

// testRegistry holds a scalar chart, a grouped chart and the table.
func testRegistry() *Registry {
	reg := NewRegistry()
	reg.MustRegister(Descriptor{Type: "a-chart", CanRender: scalarOnly, Render: rectChart})
	reg.MustRegister(Descriptor{Type: "b-chart", Priority: 10, CanRender: groupedOnly, Render: rectChart})
	reg.MustRegister(Descriptor{Type: TableType, Priority: -1, CanRender: func(*dataset.Dataset) bool { return true }, Render: rectChart})
	return reg
}

func scalarData() *dataset.Dataset {
	return dataset.MustNormalize([]any{
		map[string]any{"key": "a", "value": 1.0},
		map[string]any{"key": "b", "value": 2.0},
	})
}

func groupedData() *dataset.Dataset {
	return dataset.MustNormalize([]any{
		map[string]any{"key": "a", "value": map[string]any{"x": 1.0, "y": 2.0}},
		map[string]any{"key": "b", "value": map[string]any{"x": 3.0, "y": 4.0}},
	})
}
