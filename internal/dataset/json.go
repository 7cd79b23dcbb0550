package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// parseJSON accepts the common shapes of a JSON table:
//
//	[{"a": 1, "b": "x"}, {"a": 2, "b": "y"}]      records
//	{"a": [1, 2], "b": ["x", "y"]}                 column arrays
//	{"a": {"0": 1, "1": 2}, "b": {"0": "x", ...}}  column objects keyed by row label
//
// Column order follows the order keys first appear in the document.
func parseJSON(data []byte) (*Table, error) {
	trimmed := bytes.TrimSpace(newJSONBytes(data))
	if len(trimmed) == 0 {
		return nil, errEmptyFile
	}
	switch trimmed[0] {
	case '[':
		return parseJSONRecords(trimmed)
	case '{':
		return parseJSONColumns(trimmed)
	default:
		return nil, errors.New("json table must be an array of objects or an object of columns")
	}
}

// newJSONBytes drops a UTF-8 BOM, which encoding/json rejects.
func newJSONBytes(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

func parseJSONRecords(data []byte) (*Table, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}

	var names []string
	seen := make(map[string]int)
	rows := make([]map[string]string, 0, len(raws))
	for i, raw := range raws {
		keys, vals, err := decodeObject(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		row := make(map[string]string, len(keys))
		for k, key := range keys {
			if _, ok := seen[key]; !ok {
				seen[key] = len(names)
				names = append(names, key)
			}
			cell, err := cellText(vals[k])
			if err != nil {
				return nil, fmt.Errorf("record %d, field %q: %w", i, key, err)
			}
			row[key] = cell
		}
		rows = append(rows, row)
	}
	if len(names) == 0 {
		return nil, errors.New("json table has no columns")
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, names)
	for _, row := range rows {
		rec := make([]string, len(names))
		for j, name := range names {
			if v, ok := row[name]; ok {
				rec[j] = v
			} else {
				rec[j] = "NaN"
			}
		}
		records = append(records, rec)
	}
	return FromRecords(records)
}

func parseJSONColumns(data []byte) (*Table, error) {
	names, vals, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errors.New("json table has no columns")
	}

	cols := make([][]string, len(names))
	var labels []string
	for j, raw := range vals {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			return nil, fmt.Errorf("column %q: empty value", names[j])
		}
		switch raw[0] {
		case '[':
			cols[j], err = decodeArrayColumn(raw)
		case '{':
			if labels == nil {
				labels, err = rowLabels(raw)
				if err != nil {
					break
				}
			}
			cols[j], err = decodeObjectColumn(raw, labels)
		default:
			err = errors.New("column values must be an array or an object")
		}
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", names[j], err)
		}
	}

	n := len(cols[0])
	for j, col := range cols {
		if len(col) != n {
			return nil, fmt.Errorf("column %q has %d values, want %d", names[j], len(col), n)
		}
	}

	records := make([][]string, n+1)
	records[0] = names
	for i := 0; i < n; i++ {
		rec := make([]string, len(names))
		for j := range cols {
			rec[j] = cols[j][i]
		}
		records[i+1] = rec
	}
	return FromRecords(records)
}

func decodeArrayColumn(raw []byte) ([]string, error) {
	var cells []json.RawMessage
	if err := json.Unmarshal(raw, &cells); err != nil {
		return nil, err
	}
	out := make([]string, len(cells))
	for i, c := range cells {
		s, err := cellText(c)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}

// decodeObjectColumn reads a {"label": value} column in the row order given
// by labels. Labels missing from this column are missing values.
func decodeObjectColumn(raw []byte, labels []string) ([]string, error) {
	keys, vals, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	byLabel := make(map[string]string, len(keys))
	for i, k := range keys {
		s, err := cellText(vals[i])
		if err != nil {
			return nil, fmt.Errorf("row %q: %w", k, err)
		}
		byLabel[k] = s
	}
	out := make([]string, len(labels))
	for i, label := range labels {
		if s, ok := byLabel[label]; ok {
			out[i] = s
		} else {
			out[i] = "NaN"
		}
	}
	return out, nil
}

// rowLabels returns the keys of the first object column. Integer labels
// are ordered numerically; any other labels keep document order.
func rowLabels(raw []byte) ([]string, error) {
	keys, _, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		if _, err := strconv.Atoi(k); err != nil {
			return keys, nil
		}
	}
	sort.SliceStable(keys, func(a, b int) bool {
		na, _ := strconv.Atoi(keys[a])
		nb, _ := strconv.Atoi(keys[b])
		return na < nb
	})
	return keys, nil
}

// decodeObject returns the keys of a JSON object in document order together
// with their raw values. encoding/json maps do not keep key order.
func decodeObject(raw []byte) ([]string, []json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	var vals []json.RawMessage
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		vals = append(vals, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, vals, nil
}

// cellText converts a scalar JSON value to the text the type detector sees.
// Numbers keep their literal spelling; null becomes a missing value; nested
// values are kept as compact JSON text.
func cellText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "NaN", nil
	}
	switch raw[0] {
	case 'n':
		return "NaN", nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return string(raw), nil
	}
}
