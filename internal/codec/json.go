package codec

import (
	"encoding/json"
	"fmt"
)

// JSON stores arbitrary nested mappings as indented JSON.
type JSON struct{}

// Name implements Codec.
func (JSON) Name() string { return "json" }

// Decode parses data into a mapping.
func (JSON) Decode(data []byte) (any, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

// Encode marshals v, which must be a map[string]any, as indented JSON.
func (JSON) Encode(v any) ([]byte, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: JSON value must be map[string]any, got %T", ErrInvalidType, v)
	}
	out, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return append(out, '\n'), nil
}
