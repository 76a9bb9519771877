package core

// workbook.go decodes an uploaded xlsx buffer into per-sheet row sets.
//
// The first row of each sheet is treated as the header; every following row
// becomes a Row keyed by those headers. No type coercion happens here: cell
// values stay strings until the importer coerces accepted rows.

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// SheetRows holds one sheet's parsed rows in sheet order.
type SheetRows struct {
	Name string
	Rows []Row
}

// ParseWorkbook decodes a workbook buffer into its sheets in
// container-declared order. Returns ErrMalformedWorkbook if the buffer is
// not an xlsx container.
func ParseWorkbook(buf []byte) ([]SheetRows, error) {
	f, err := excelize.OpenReader(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWorkbook, err)
	}
	defer f.Close()

	sheets := make([]SheetRows, 0, f.SheetCount)
	for _, name := range f.GetSheetList() {
		lines, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		sheets = append(sheets, SheetRows{Name: name, Rows: rowsFromLines(lines)})
	}
	return sheets, nil
}

// rowsFromLines keys each data line by the header row and assigns every row
// a stable opaque identifier. Empty cells are left out of the map entirely
// so validators can distinguish a missing field from a blank one.
func rowsFromLines(lines [][]string) []Row {
	if len(lines) < 2 {
		return nil
	}

	headers := lines[0]
	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		row := Row{FieldRowID: uuid.NewString()}
		for i, cell := range line {
			if i >= len(headers) || cell == "" {
				continue
			}
			header := strings.TrimSpace(headers[i])
			if header == "" {
				continue
			}
			row[header] = cell
		}
		rows = append(rows, row)
	}
	return rows
}
