package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vabarbosa/simple-data-vis/pkg/pipeline"
)

func TestRunExportCSV(t *testing.T) {
	c, _ := newTestCLI(t)
	data := writeFile(t, "data.json", sampleJSON)
	out := filepath.Join(t.TempDir(), "records.csv")

	if err := c.runExport(context.Background(), pipeline.Options{Source: data}, "csv", out, true); err != nil {
		t.Fatalf("runExport() error: %v", err)
	}
	csv := readFile(t, out)
	if !strings.HasPrefix(csv, "key,value\n") {
		t.Errorf("csv should start with the header row, got %q", csv)
	}
	if strings.Count(csv, "\n") != 4 {
		t.Errorf("csv should have a header and 3 rows, got %q", csv)
	}
}

func TestRunExportJSON(t *testing.T) {
	c, _ := newTestCLI(t)
	data := writeFile(t, "data.json", sampleJSON)
	out := filepath.Join(t.TempDir(), "records.json")

	if err := c.runExport(context.Background(), pipeline.Options{Source: data}, "json", out, true); err != nil {
		t.Fatalf("runExport() error: %v", err)
	}
	var got struct {
		Fields []string         `json:"fields"`
		Rows   []map[string]any `json:"rows"`
	}
	if err := json.Unmarshal([]byte(readFile(t, out)), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(got.Rows) != 3 {
		t.Errorf("got %d rows, want 3", len(got.Rows))
	}
	if len(got.Fields) != 2 || got.Fields[0] != "key" {
		t.Errorf("fields = %v, want [key value]", got.Fields)
	}
}

func TestRunExportBadFormat(t *testing.T) {
	c, _ := newTestCLI(t)
	data := writeFile(t, "data.json", sampleJSON)
	out := filepath.Join(t.TempDir(), "records.svg")

	if err := c.runExport(context.Background(), pipeline.Options{Source: data}, "svg", out, true); err == nil {
		t.Error("runExport() should reject chart formats")
	}
}
