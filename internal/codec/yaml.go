package codec

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAML stores arbitrary nested mappings, mirroring the JSON contract.
type YAML struct{}

// Name implements Codec.
func (YAML) Name() string { return "yaml" }

// Decode parses data into a mapping.
func (YAML) Decode(data []byte) (any, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

// Encode marshals v, which must be a map[string]any, as YAML.
func (YAML) Encode(v any) ([]byte, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: YAML value must be map[string]any, got %T", ErrInvalidType, v)
	}
	out, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshaling YAML: %w", err)
	}
	return out, nil
}
