package pipeline

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vabarbosa/simple-data-vis/pkg/cache"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
	"github.com/vabarbosa/simple-data-vis/pkg/resolve"
	"github.com/vabarbosa/simple-data-vis/pkg/vis"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func sampleData() []any {
	return []any{
		map[string]any{"key": "a", "value": 1.0},
		map[string]any{"key": "b", "value": 2.0},
		map[string]any{"key": "c", "value": 3.0},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"html", false},
		{"png", false},
		{"pdf", false},
		{"csv", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateDataFormat(t *testing.T) {
	for _, f := range []string{"csv", "json", "xlsx"} {
		if err := ValidateDataFormat(f); err != nil {
			t.Errorf("ValidateDataFormat(%q) should pass: %v", f, err)
		}
	}
	if err := ValidateDataFormat("svg"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("svg is not a data format, got %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Source: "https://example.com/db"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("size = %gx%g, want %gx%g", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if opts.Format != DefaultFormat {
		t.Errorf("Format = %q, want %q", opts.Format, DefaultFormat)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discarding logger")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no source", Options{}, errors.ErrCodeInvalidSource},
		{"bad type", Options{Source: "x", Type: "Bar Chart"}, errors.ErrCodeInvalidDescriptor},
		{"bad option", Options{Source: "x", Options: map[string]any{"a=b": 1}}, errors.ErrCodeInvalidOption},
		{"bad param", Options{Source: "x", Params: []Param{{Key: "a&b", Value: 1}}}, errors.ErrCodeInvalidOption},
		{"negative size", Options{Source: "x", Width: -1}, errors.ErrCodeInvalidOption},
		{"bad format", Options{Source: "x", Format: "gif"}, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		err := tt.opts.ValidateAndSetDefaults()
		if !errors.Is(err, tt.code) {
			t.Errorf("%s: error = %v, want code %s", tt.name, err, tt.code)
		}
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Data: sampleData(), Width: 300}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	opts.Format = "gif" // not revalidated
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call should be a no-op: %v", err)
	}
	if opts.Width != 300 {
		t.Errorf("Width = %g, want 300", opts.Width)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Type: "pie-chart", Format: "png", Width: 10, Height: 20}
	got := opts.ArtifactKeyOpts()
	want := cache.ArtifactKeyOpts{ChartType: "pie-chart", Format: "png", Width: 10, Height: 20}
	if got != want {
		t.Errorf("ArtifactKeyOpts() = %+v, want %+v", got, want)
	}
}

func TestExecuteInlineData(t *testing.T) {
	r := NewRunner(nil, nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), Options{Data: sampleData()})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Type != "bar-chart" {
		t.Errorf("Type = %q, want bar-chart", res.Type)
	}
	if res.Stats.Records != 3 {
		t.Errorf("Records = %d, want 3", res.Stats.Records)
	}
	if !bytes.Contains(res.Artifact, []byte("<svg")) {
		t.Errorf("artifact is not svg: %.80s", res.Artifact)
	}
	if res.Root == nil || !res.Root.Classed(vis.RootClass) {
		t.Error("root should carry the chart root class")
	}
	if res.CacheInfo.ArtifactHit {
		t.Error("first run cannot hit the cache")
	}
}

func TestExecuteRequestedType(t *testing.T) {
	r := NewRunner(nil, nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), Options{Data: sampleData(), Type: "pie-chart", Format: "html"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Type != "pie-chart" {
		t.Errorf("Type = %q, want pie-chart", res.Type)
	}
	if !strings.HasPrefix(strings.ToLower(string(res.Artifact)), "<!doctype html>") {
		t.Errorf("html artifact should start with a doctype: %.40s", res.Artifact)
	}
}

func TestExecuteEmptyData(t *testing.T) {
	r := NewRunner(nil, nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), Options{Data: []any{}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Type != "" {
		t.Errorf("Type = %q, want empty for the message", res.Type)
	}
	if !bytes.Contains(res.Artifact, []byte(vis.NoResults)) {
		t.Errorf("artifact should contain %q", vis.NoResults)
	}
}

func TestExecuteDrawFailure(t *testing.T) {
	r := NewRunner(nil, nil, nil, quietLogger())
	data := []any{map[string]any{"key": "a", "value": 1.0, "geo": "1,2"}}
	_, err := r.Execute(context.Background(), Options{Data: data, Type: "map-vis"})
	if err == nil {
		t.Fatal("map without features should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidData) {
		t.Errorf("error code = %s", errors.GetCode(err))
	}
}

func TestExecuteCachesArtifact(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(nil, c, nil, quietLogger())
	ctx := context.Background()

	first, err := r.Execute(ctx, Options{Data: sampleData()})
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(ctx, Options{Data: sampleData()})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.ArtifactHit {
		t.Error("second run should hit the cache")
	}
	if !bytes.Equal(first.Artifact, second.Artifact) {
		t.Error("cached artifact differs")
	}
	if first.DataHash == "" || first.DataHash != second.DataHash {
		t.Errorf("hashes %q and %q should match", first.DataHash, second.DataHash)
	}

	refreshed, err := r.Execute(ctx, Options{Data: sampleData(), Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.ArtifactHit {
		t.Error("refresh should bypass the cache")
	}

	other, err := r.Execute(ctx, Options{Data: sampleData(), Type: "pie-chart"})
	if err != nil {
		t.Fatal(err)
	}
	if other.CacheInfo.ArtifactHit {
		t.Error("a different chart type must not share the cached artifact")
	}
}

func TestExecuteRemoteSource(t *testing.T) {
	var hits atomic.Int32
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		query = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"rows":[{"key":"x","value":4},{"key":"y","value":6}]}`)
	}))
	defer srv.Close()

	r := NewRunner(resolve.New(nil, quietLogger()), nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), Options{
		Source:  srv.URL + "/db",
		View:    "_design/d/_view/v",
		Options: map[string]any{options.Group: true},
		Params:  []Param{{Key: "limit", Value: 5}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}
	if !strings.HasPrefix(res.URL, srv.URL+"/db/_design/d/_view/v?") {
		t.Errorf("URL = %q", res.URL)
	}
	if !strings.Contains(query, "group=true") || !strings.Contains(query, "limit=5") {
		t.Errorf("query = %q", query)
	}
	if res.Stats.Records != 2 {
		t.Errorf("Records = %d, want 2", res.Stats.Records)
	}
}

func TestResolveFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	r := NewRunner(nil, nil, nil, quietLogger())
	_, _, err := r.Resolve(context.Background(), Options{Source: srv.URL})
	if err == nil {
		t.Fatal("404 should fail")
	}
}

func TestSelect(t *testing.T) {
	r := NewRunner(nil, nil, nil, quietLogger())
	sel, err := r.Select(context.Background(), Options{Data: sampleData()})
	if err != nil {
		t.Fatal(err)
	}
	if sel.Chosen.Type != "bar-chart" {
		t.Errorf("Chosen = %q, want bar-chart", sel.Chosen.Type)
	}
	var types []string
	for _, d := range sel.Candidates {
		types = append(types, d.Type)
	}
	for _, want := range []string{"bar-chart", "bubble-chart", "pie-chart", vis.TableType} {
		found := false
		for _, got := range types {
			if got == want {
				found = true
			}
		}
		if !found {
			t.Errorf("candidates %v missing %s", types, want)
		}
	}
	if types[len(types)-1] != vis.TableType {
		t.Errorf("table should rank last, got %v", types)
	}
}

func TestExport(t *testing.T) {
	r := NewRunner(nil, nil, nil, quietLogger())
	var buf bytes.Buffer
	ds, err := r.Export(context.Background(), &buf, Options{Data: sampleData()}, "csv")
	if err != nil {
		t.Fatal(err)
	}
	if ds.Len() != 3 {
		t.Errorf("Len = %d, want 3", ds.Len())
	}
	if !strings.HasPrefix(buf.String(), "key,value\n") {
		t.Errorf("csv = %q", buf.String())
	}
	if _, err := r.Export(context.Background(), &buf, Options{Data: sampleData()}, "svg"); err == nil {
		t.Error("svg is not a data format")
	}
}

func TestTypes(t *testing.T) {
	r := NewRunner(nil, nil, nil, quietLogger())
	if n := len(r.Types()); n < 9 {
		t.Errorf("Types() = %d descriptors, want at least 9", n)
	}
}

func TestDefaultsApplied(t *testing.T) {
	r := NewRunner(nil, nil, nil, quietLogger())
	r.Defaults = options.Options{options.Type: "pie-chart"}
	res, err := r.Execute(context.Background(), Options{Data: sampleData()})
	if err != nil {
		t.Fatal(err)
	}
	if res.Type != "pie-chart" {
		t.Errorf("Type = %q, want the default pie-chart", res.Type)
	}

	res, err = r.Execute(context.Background(), Options{Data: sampleData(), Type: "bar-chart"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Type != "bar-chart" {
		t.Errorf("Type = %q, request should override the default", res.Type)
	}
}

func TestDrawUsesDefaultSize(t *testing.T) {
	r := NewRunner(nil, nil, nil, quietLogger())
	r.Defaults = options.Options{options.Width: 320.0, options.Height: 240.0}

	res, err := r.Draw(context.Background(), sampleData(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	container := res.Root.Parent()
	if got := container.Style("width"); got != "320px" {
		t.Errorf("container width = %q, want the default 320px", got)
	}

	res, err = r.Draw(context.Background(), sampleData(), Options{Width: 500})
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Root.Parent().Style("width"); got != "500px" {
		t.Errorf("container width = %q, request should override the default", got)
	}
	if got := res.Root.Parent().Style("height"); got != "240px" {
		t.Errorf("container height = %q, want the default 240px", got)
	}
}
