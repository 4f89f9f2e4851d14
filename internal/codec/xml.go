package codec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// XML stores a flat string mapping as a <config> root with one child element
// per key. Nested values are not representable; the flat layout is a format
// limitation kept for compatibility with existing files.
type XML struct{}

// Name implements Codec.
func (XML) Name() string { return "xml" }

// Decode maps each direct child of the root element to its text content.
// Element names become keys; anything nested deeper than one level is
// ignored.
func (XML) Decode(data []byte) (any, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	m := map[string]string{}

	depth := 0
	var key string
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				key = t.Name.Local
				text.Reset()
			}
		case xml.CharData:
			if depth == 2 {
				text.Write(t)
			}
		case xml.EndElement:
			if depth == 2 {
				m[key] = text.String()
			}
			depth--
		}
	}
	return m, nil
}

// Encode writes v, which must be a map[string]string, as a <config> element
// with one child per key, sorted by key so output is deterministic.
func (XML) Encode(v any) ([]byte, error) {
	m, ok := v.(map[string]string)
	if !ok {
		return nil, fmt.Errorf("%w: XML value must be map[string]string, got %T", ErrInvalidType, v)
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	root := xml.StartElement{Name: xml.Name{Local: "config"}}
	if err := enc.EncodeToken(root); err != nil {
		return nil, fmt.Errorf("encoding XML: %w", err)
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		el := xml.StartElement{Name: xml.Name{Local: k}}
		for _, tok := range []xml.Token{el, xml.CharData(m[k]), el.End()} {
			if err := enc.EncodeToken(tok); err != nil {
				return nil, fmt.Errorf("encoding XML element %s: %w", k, err)
			}
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, fmt.Errorf("encoding XML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding XML: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
