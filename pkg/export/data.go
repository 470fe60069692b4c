package export

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/vabarbosa/simple-data-vis/internal/conv"
	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
)

const sheetName = "Data"

// table flattens ds into its columns and one cell per record and column.
// Missing fields are nil.
func table(ds *dataset.Dataset) ([]string, [][]any) {
	cols := ds.Columns()
	rows := make([][]any, ds.Len())
	for i, r := range ds.Records {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j], _ = r.Field(c)
		}
		rows[i] = row
	}
	return cols, rows
}

// cellString formats a field for text output. Nested values are written as
// JSON.
func cellString(v any) string {
	switch v.(type) {
	case nil:
		return ""
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err == nil {
			return string(b)
		}
	}
	return conv.String(v)
}

// WriteCSV writes a header row followed by one row per record.
func WriteCSV(w io.Writer, ds *dataset.Dataset) error {
	cols, rows := table(ds)
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write csv")
	}
	line := make([]string, len(cols))
	for _, row := range rows {
		for j, v := range row {
			line[j] = cellString(v)
		}
		if err := cw.Write(line); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write csv")
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonExport struct {
	Fields []string         `json:"fields"`
	Rows   []map[string]any `json:"rows"`
}

// WriteJSON writes the records as an envelope with fields and rows, which
// reads back as the same dataset.
func WriteJSON(w io.Writer, ds *dataset.Dataset) error {
	cols, rows := table(ds)
	out := jsonExport{Fields: cols, Rows: make([]map[string]any, len(rows))}
	for i, row := range rows {
		m := make(map[string]any, len(cols))
		for j, v := range row {
			if v != nil {
				m[cols[j]] = v
			}
		}
		out.Rows[i] = m
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode json")
	}
	return nil
}

// WriteXLSX writes a workbook with a single sheet holding the records under
// a bold header row. Numbers and booleans keep their cell types.
func WriteXLSX(w io.Writer, ds *dataset.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "xlsx sheet")
	}
	cols, rows := table(ds)

	for j, c := range cols {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "xlsx header")
		}
		if err := f.SetCellValue(sheetName, cell, c); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "xlsx header")
		}
	}
	if len(cols) > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "xlsx style")
		}
		last, _ := excelize.CoordinatesToCellName(len(cols), 1)
		if err := f.SetCellStyle(sheetName, "A1", last, bold); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "xlsx style")
		}
	}

	for i, row := range rows {
		for j, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "xlsx cell")
			}
			var value any = v
			switch v.(type) {
			case float64, bool, string:
			default:
				value = cellString(v)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "xlsx cell %s", cell)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write xlsx")
	}
	return nil
}
