package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
	"github.com/vabarbosa/simple-data-vis/pkg/scene"
)

func sample() *dataset.Dataset {
	return dataset.MustNormalize([]any{
		map[string]any{"key": "a", "value": 1234.5},
		map[string]any{"key": "b, c", "note": "x", "value": map[string]any{"n": 1.0}},
	})
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Data(&buf, sample(), FormatCSV))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"key", "value", "note"},
		{"a", "1234.5", ""},
		{"b, c", `{"n":1}`, "x"},
	}, rows)
}

func TestWriteJSONReadsBack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Data(&buf, sample(), FormatJSON))

	raw, err := dataset.Decode(&buf)
	require.NoError(t, err)
	ds := dataset.MustNormalize(raw)
	assert.Equal(t, []string{"key", "value", "note"}, ds.Fields)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, 1234.5, ds.Records[0].Value.Float())
	assert.Equal(t, "b, c", ds.Records[1].Key)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, File(path, func(w io.Writer) error { return Data(w, sample(), FormatXLSX) }))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"key", "value", "note"}, rows[0])
	assert.Equal(t, "a", rows[1][0])

	typ, err := f.GetCellType(sheetName, "B2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ)
}

func TestDataUnknownFormat(t *testing.T) {
	err := Data(&bytes.Buffer{}, sample(), "yaml")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func chartRoot() *scene.Node {
	c := scene.NewContainer(200, 100)
	svg := c.Append("svg").SetAttr("width", 200).SetAttr("height", 100)
	svg.Append("rect").SetAttr("width", 50).SetAttr("height", 20).SetAttr("data-tooltip", "a: 1")
	return svg
}

func TestChartSVG(t *testing.T) {
	var buf bytes.Buffer
	err := Chart(context.Background(), &buf, chartRoot(), FormatSVG, ChartOptions{Title: "demo", Tooltips: true})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "<title>demo</title>")
	assert.Contains(t, out, "<rect")
	assert.Contains(t, out, "<script>")
}

func TestChartHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Chart(context.Background(), &buf, chartRoot(), FormatHTML, ChartOptions{}))
	assert.True(t, strings.HasPrefix(buf.String(), "<!DOCTYPE html>"))
	assert.Contains(t, buf.String(), "<rect")
}

func TestChartErrors(t *testing.T) {
	err := Chart(context.Background(), &bytes.Buffer{}, nil, FormatSVG, ChartOptions{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidTarget))

	err = Chart(context.Background(), &bytes.Buffer{}, chartRoot(), "gif", ChartOptions{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestFileRemovesOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "bad.csv")
	err := File(path, func(io.Writer) error { return errors.New(errors.ErrCodeInternal, "boom") })
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, "xlsx", FormatFromPath("out/Data.XLSX"))
	assert.True(t, IsChartFormat(FormatFromPath("a.svg")))
	assert.True(t, IsDataFormat(FormatFromPath("a.csv")))
	assert.False(t, IsDataFormat(FormatFromPath("a.svg")))
}
