package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// parseCSV splits records itself, the way dataframe.ReadCSV does, so a
// header-only file reaches FromRecords instead of failing as an empty frame.
func parseCSV(data []byte) (*Table, error) {
	records, err := csv.NewReader(newTextReader(bytes.NewReader(data))).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return FromRecords(records)
}

// WriteCSV writes t as UTF-8 CSV with a header row. Missing values are
// written as empty cells and floats use the shortest exact form, so the
// output loads back into an identical table.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// EncodeCSV returns t as CSV bytes.
func EncodeCSV(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
