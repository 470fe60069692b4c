package cli

import (
	"bytes"
	"strings"
	"testing"
)

func captureUI(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := uiOut
	uiOut = &buf
	t.Cleanup(func() { uiOut = prev })
	return &buf
}

func TestPrintRendered(t *testing.T) {
	tests := []struct {
		name      string
		chartType string
		records   int
		cached    bool
		want      []string
	}{
		{"drawn", "bar-chart", 3, false, []string{"Rendered bar-chart", "3 records", "drawn", "out.svg"}},
		{"single record", "pie-chart", 1, false, []string{"1 record ·", "drawn"}},
		{"cache hit", "", 0, true, []string{"Rendered chart", "from cache"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureUI(t)
			printRendered(tt.chartType, tt.records, tt.cached, "out.svg")
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output %q missing %q", buf.String(), w)
				}
			}
		})
	}
}

func TestPrintRenderedOmitsZeroRecords(t *testing.T) {
	buf := captureUI(t)
	printRendered("", 0, true, "out.svg")
	if strings.Contains(buf.String(), "records") {
		t.Errorf("output %q mentions records", buf.String())
	}
}

func TestPrintExported(t *testing.T) {
	buf := captureUI(t)
	printExported(4, "xlsx", "data.xlsx")
	got := buf.String()
	if !strings.Contains(got, "Exported 4 records as xlsx") || !strings.Contains(got, "→ data.xlsx") {
		t.Errorf("output = %q", got)
	}
}

func TestPrintPageWritten(t *testing.T) {
	buf := captureUI(t)
	printPageWritten(2, 3, "page.html")
	if got := buf.String(); !strings.Contains(got, "Drew 2 of 3 charts") {
		t.Errorf("output = %q", got)
	}

	buf.Reset()
	printPageWritten(0, 0, "page.html")
	if got := buf.String(); !strings.Contains(got, "No data-vis elements") {
		t.Errorf("output = %q", got)
	}
}

func TestPrintCacheCleared(t *testing.T) {
	buf := captureUI(t)
	printCacheCleared(5, "/tmp/cache")
	got := buf.String()
	if !strings.Contains(got, "Cleared 5 cached responses and charts") || !strings.Contains(got, "/tmp/cache") {
		t.Errorf("output = %q", got)
	}
}

func TestPrintTypeHint(t *testing.T) {
	buf := captureUI(t)
	printTypeHint()
	if got := buf.String(); !strings.Contains(got, "render <source> --type <type>") {
		t.Errorf("output = %q", got)
	}
}
