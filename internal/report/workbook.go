package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ontelworks/copscan/internal/store"
)

const sheetName = "Package Records"

const (
	fmtTimestamp = "YYYY-MM-DD HH:MM"
	fmtDateTime  = "MM/DD/YYYY HH:MM AM/PM"
	fmtDate      = "MM/DD/YYYY"
)

// Build renders the report rows into an xlsx workbook. The header row is the
// fixed columns followed by any field keys discovered across the rows that
// are not covered by a fixed column, in first-appearance order.
func Build(rows []store.ReportRow) ([]byte, error) {
	if len(rows) == 0 {
		return emptyWorkbook()
	}

	extraKeys := discoverExtraKeys(rows)

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, err
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	headers := make([]string, 0, len(FixedColumns)+len(extraKeys))
	for _, col := range FixedColumns {
		headers = append(headers, col.Label)
	}
	headers = append(headers, extraKeys...)

	widths := make([]int, len(headers))
	for i, h := range headers {
		if err := setCell(f, i+1, 1, h, 0); err != nil {
			return nil, err
		}
		widths[i] = len(h)
	}

	for rowIdx, row := range rows {
		colIdx := 1
		for _, col := range FixedColumns {
			if err := writeFixedCell(f, styles, row, col, colIdx, rowIdx+2, widths); err != nil {
				return nil, err
			}
			colIdx++
		}
		for _, key := range extraKeys {
			val, _ := row.Fields.Get(key)
			if err := writeDynamicCell(f, styles, val, colIdx, rowIdx+2, widths); err != nil {
				return nil, err
			}
			colIdx++
		}
	}

	if err := applyWidths(f, widths); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// discoverExtraKeys returns field keys not covered by the fixed columns, in
// first-appearance order across all rows.
func discoverExtraKeys(rows []store.ReportRow) []string {
	var extras []string
	seen := make(map[string]struct{})
	for _, row := range rows {
		for _, key := range row.Fields.Keys() {
			if _, known := knownFieldKeys[key]; known {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			extras = append(extras, key)
		}
	}
	return extras
}

type cellStyles struct {
	timestamp int
	dateTime  int
	dateOnly  int
}

func newStyles(f *excelize.File) (cellStyles, error) {
	var s cellStyles
	var err error

	ts := fmtTimestamp
	if s.timestamp, err = f.NewStyle(&excelize.Style{CustomNumFmt: &ts}); err != nil {
		return s, err
	}
	dt := fmtDateTime
	if s.dateTime, err = f.NewStyle(&excelize.Style{CustomNumFmt: &dt}); err != nil {
		return s, err
	}
	d := fmtDate
	if s.dateOnly, err = f.NewStyle(&excelize.Style{CustomNumFmt: &d}); err != nil {
		return s, err
	}
	return s, nil
}

func writeFixedCell(f *excelize.File, styles cellStyles, row store.ReportRow, col Column, colIdx, rowIdx int, widths []int) error {
	val := row.Columns[col.Key]

	switch v := val.(type) {
	case nil:
		return setCell(f, colIdx, rowIdx, "", 0)
	case time.Time:
		trackWidth(widths, colIdx, len(fmtTimestamp))
		return setCell(f, colIdx, rowIdx, v, styles.timestamp)
	case string:
		if _, isDate := dateColumns[col.Key]; isDate {
			return writeCoerced(f, styles, v, colIdx, rowIdx, widths)
		}
		trackWidth(widths, colIdx, len(v))
		return setCell(f, colIdx, rowIdx, v, 0)
	default:
		s := fmt.Sprint(v)
		trackWidth(widths, colIdx, len(s))
		return setCell(f, colIdx, rowIdx, s, 0)
	}
}

func writeDynamicCell(f *excelize.File, styles cellStyles, val string, colIdx, rowIdx int, widths []int) error {
	if val == "" {
		return setCell(f, colIdx, rowIdx, "", 0)
	}
	return writeCoerced(f, styles, val, colIdx, rowIdx, widths)
}

// writeCoerced writes a value that may be a date rendered as text.
func writeCoerced(f *excelize.File, styles cellStyles, val string, colIdx, rowIdx int, widths []int) error {
	t, ok, blank := CoerceDate(val)
	switch {
	case blank:
		return setCell(f, colIdx, rowIdx, "", 0)
	case ok:
		style := styles.dateOnly
		width := len(fmtDate)
		if t.Hour() != 0 || t.Minute() != 0 {
			style = styles.dateTime
			width = len(fmtDateTime)
		}
		trackWidth(widths, colIdx, width)
		return setCell(f, colIdx, rowIdx, t, style)
	default:
		trackWidth(widths, colIdx, len(val))
		return setCell(f, colIdx, rowIdx, val, 0)
	}
}

func setCell(f *excelize.File, col, row int, value any, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		return err
	}
	if style != 0 {
		return f.SetCellStyle(sheetName, cell, cell, style)
	}
	return nil
}

func trackWidth(widths []int, colIdx, length int) {
	if colIdx-1 < len(widths) && length > widths[colIdx-1] {
		widths[colIdx-1] = length
	}
}

// applyWidths sizes each column to its longest value plus padding, capped.
func applyWidths(f *excelize.File, widths []int) error {
	for i, w := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := float64(w + 2)
		if width > 60 {
			width = 60
		}
		if err := f.SetColWidth(sheetName, name, name, width); err != nil {
			return err
		}
	}
	return nil
}

// emptyWorkbook returns a minimal file noting that the run had no records.
func emptyWorkbook() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheetName, "A1", "No new package records this run"); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
