package codec

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"slices"
)

// CSV stores a sequence of flat string mappings as rows under a shared
// header.
type CSV struct{}

// Name implements Codec.
func (CSV) Name() string { return "csv" }

// Decode treats the first row as the header and returns one mapping per
// subsequent row. Short rows leave the missing columns out of the mapping.
func (CSV) Decode(data []byte) (any, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	rows := []map[string]string{}
	if len(records) == 0 {
		return rows, nil
	}
	header := records[0]
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Encode writes v, which must be a []map[string]string, with the header
// taken from the first row's keys in sorted order. Later rows are not
// validated against the header: missing keys become empty cells and extra
// keys are dropped, a long-standing limitation callers rely on. An empty
// slice encodes to nothing at all.
func (CSV) Encode(v any) ([]byte, error) {
	rows, ok := v.([]map[string]string)
	if !ok {
		return nil, fmt.Errorf("%w: CSV value must be []map[string]string, got %T", ErrInvalidType, v)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		header = append(header, k)
	}
	slices.Sort(header)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}
	for _, row := range rows {
		rec := make([]string, len(header))
		for i, col := range header {
			rec[i] = row[col]
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("writing CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV: %w", err)
	}
	return buf.Bytes(), nil
}
