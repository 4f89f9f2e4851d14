// Package codec implements the on-disk formats the store can read and write.
package codec

import "errors"

// ErrInvalidType reports that a value has the wrong shape for a codec, such
// as a scalar where a mapping is required.
var ErrInvalidType = errors.New("invalid value type")

// A Codec decodes file bytes into a structured value and encodes a
// structured value back into file bytes.
//
// Decode returns the format's natural Go representation: map[string]any for
// JSON and YAML, map[string]string for XML, []map[string]string for CSV.
// Encode validates the value's shape before producing any bytes and wraps
// ErrInvalidType when the shape is wrong. An Encode that returns nil bytes
// with a nil error means there is nothing to write.
type Codec interface {
	Name() string
	Decode(data []byte) (any, error)
	Encode(v any) ([]byte, error)
}
