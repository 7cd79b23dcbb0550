package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// parseXLSX reads the first worksheet. The first row is the header; rows
// shorter than the header are padded with missing values because excelize
// drops trailing empty cells. Cells are read as stored, not as displayed:
// a number formatted "#,##0.00" or "0%" stays numeric, and dates come back
// as spreadsheet serial numbers.
func parseXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	rows = trimTrailingBlankRows(rows)
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	records := make([][]string, len(rows))
	for i, row := range rows {
		rec := make([]string, width)
		copy(rec, row)
		records[i] = rec
	}
	for j, name := range records[0] {
		if strings.TrimSpace(name) == "" {
			records[0][j] = fmt.Sprintf("Unnamed: %d", j)
		}
	}
	return FromRecords(records)
}

func trimTrailingBlankRows(rows [][]string) [][]string {
	for len(rows) > 0 && isBlankRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
