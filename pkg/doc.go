// Package pkg provides the libraries behind SimpleDataVis.
//
// # Overview
//
// SimpleDataVis draws charts from JSON data. A data source is resolved to
// raw JSON, normalized to records, matched against the registered chart
// types and drawn into an in-memory SVG scene that can be exported.
//
//	URL / database view / file / inline value
//	         ↓
//	    [resolve] (build the query, fetch, cache)
//	         ↓
//	    [dataset] (normalize rows to key/value records)
//	         ↓
//	    [vis] (select a chart type, bind options and hooks)
//	         ↓
//	    [charts] (draw into a [scene] document)
//	         ↓
//	    [export] (SVG, HTML, PNG, PDF, CSV, JSON, XLSX)
//
// # Quick Start
//
// Render a source through the pipeline:
//
//	runner := pipeline.NewRunner(nil, nil, nil, nil)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Source: "https://example.com/db",
//	    View:   "_design/stats/_view/by_state",
//	    Options: map[string]any{"group": true},
//	})
//	os.Stdout.Write(res.Artifact)
//
// Or configure a binding and draw it into a document of your own:
//
//	doc := scene.NewDocument()
//	vis.New(records).Set("type", "pie-chart").Render(ctx, doc.Container(400, 400), nil)
//
// # Main Packages
//
// [vis] - Bindings, the chart registry, type selection, the render engine
// and the shared tooltip.
//
// [charts] - The built-in chart renderers, registered on import.
//
// [scene] - The element tree charts draw into, with keyed joins and
// transitions.
//
// [resolve] - Data source resolution and the caching HTTP client.
//
// [pipeline] - Resolve, draw and export in one call, with an artifact cache.
//
// [cache] - File, Redis and null cache backends.
//
// [geo] - Map features and projections.
package pkg
