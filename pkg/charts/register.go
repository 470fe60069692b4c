package charts

import (
	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/vis"
)

// Descriptors returns the built-in chart types in registration order.
func Descriptors() []vis.Descriptor {
	return []vis.Descriptor{
		{Type: BarType, Description: "Horizontal bars, one per key", CanRender: scalarKeyed, Render: barChart},
		{Type: BubbleType, Description: "Packed circles sized by value (1-50 records)", CanRender: canBubble, Render: bubbleChart},
		{Type: GroupedType, Description: "Clustered vertical bars per key", Priority: 10, CanRender: canGroup, Render: groupedBarChart},
		{Type: PieType, Description: "Pie or donut of values (1-20 records)", CanRender: canPie, Render: pieChart},
		{Type: RangeType, Description: "Min to max bars with an average marker", Priority: 20, CanRender: canRange, Render: rangeBarChart},
		{Type: StackedType, Description: "Stacked vertical bars per key", Priority: 5, CanRender: canGroup, Render: stackedBarChart},
		{Type: TimelineType, Description: "Values over time as lines or dots", Priority: 30, CanRender: canTimeline, Render: timelineChart},
		{Type: MapType, Description: "Pins over GeoJSON features", Priority: 40, CanRender: canMap, Render: mapChart},
		{Type: vis.TableType, Description: "Table of every record field", Priority: -1, CanRender: func(*dataset.Dataset) bool { return true }, Render: tableChart},
	}
}

// Register adds the built-in chart types to reg.
func Register(reg *vis.Registry) error {
	for _, d := range Descriptors() {
		if err := reg.Register(d); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	if err := Register(vis.Default()); err != nil {
		panic(err)
	}
}
