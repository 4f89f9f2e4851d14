package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- JSON ----

func TestJSON_RoundTrip(t *testing.T) {
	in := map[string]any{
		"name":    "Test",
		"version": "1.0",
		"nested":  map[string]any{"enabled": true},
	}

	data, err := JSON{}.Encode(in)
	require.NoError(t, err)

	out, err := JSON{}.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestJSON_EncodeIsIndented(t *testing.T) {
	data, err := JSON{}.Encode(map[string]any{"name": "Test"})
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"name\": \"Test\"\n}\n", string(data))
}

func TestJSON_EncodeRejectsNonMapping(t *testing.T) {
	for _, v := range []any{"not a mapping", 42, []string{"a"}, nil} {
		_, err := JSON{}.Encode(v)
		assert.ErrorIs(t, err, ErrInvalidType, "value %#v", v)
	}
}

func TestJSON_DecodeMalformed(t *testing.T) {
	_, err := JSON{}.Decode([]byte("not json"))
	assert.Error(t, err)
}

func TestJSON_DecodeNullYieldsEmptyMapping(t *testing.T) {
	out, err := JSON{}.Decode([]byte("null"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, out)
}

// ---- XML ----

func TestXML_RoundTrip(t *testing.T) {
	in := map[string]string{"name": "Test", "version": "1.0"}

	data, err := XML{}.Encode(in)
	require.NoError(t, err)

	out, err := XML{}.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestXML_EncodeLayout(t *testing.T) {
	data, err := XML{}.Encode(map[string]string{"version": "1.0", "name": "Test"})
	require.NoError(t, err)
	// Keys are sorted, so output is stable.
	assert.Equal(t, "<config><name>Test</name><version>1.0</version></config>\n", string(data))
}

func TestXML_EncodeEscapesText(t *testing.T) {
	data, err := XML{}.Encode(map[string]string{"cmd": "a < b & c"})
	require.NoError(t, err)

	out, err := XML{}.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"cmd": "a < b & c"}, out)
}

func TestXML_EncodeRejectsNonMapping(t *testing.T) {
	_, err := XML{}.Encode("not a mapping")
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestXML_DecodeIgnoresNestedElements(t *testing.T) {
	out, err := XML{}.Decode([]byte("<config><name>Test</name><extra><deep>x</deep></extra></config>"))
	require.NoError(t, err)

	m, ok := out.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "Test", m["name"])
	// Only the direct text of a child counts.
	assert.Empty(t, m["extra"])
}

func TestXML_DecodeMalformed(t *testing.T) {
	_, err := XML{}.Decode([]byte("<config><name>unclosed"))
	assert.Error(t, err)
}

// ---- CSV ----

func TestCSV_RoundTrip(t *testing.T) {
	in := []map[string]string{
		{"name": "Test", "version": "1.0"},
		{"name": "Example", "version": "2.0"},
	}

	data, err := CSV{}.Encode(in)
	require.NoError(t, err)

	out, err := CSV{}.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestCSV_EncodeLayout(t *testing.T) {
	data, err := CSV{}.Encode([]map[string]string{{"version": "1.0", "name": "Test"}})
	require.NoError(t, err)
	assert.Equal(t, "name,version\nTest,1.0\n", string(data))
}

func TestCSV_EncodeEmptyYieldsNothing(t *testing.T) {
	data, err := CSV{}.Encode([]map[string]string{})
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestCSV_EncodeRaggedRows(t *testing.T) {
	// The header comes from the first row only; extra keys in later rows are
	// dropped and missing keys become empty cells.
	data, err := CSV{}.Encode([]map[string]string{
		{"name": "Test", "version": "1.0"},
		{"name": "Other"},
		{"name": "Odd", "unrelated": "x"},
	})
	require.NoError(t, err)
	assert.Equal(t, "name,version\nTest,1.0\nOther,\nOdd,\n", string(data))
}

func TestCSV_EncodeRejectsNonSequence(t *testing.T) {
	for _, v := range []any{"not a sequence", map[string]string{"a": "b"}, 7} {
		_, err := CSV{}.Encode(v)
		assert.ErrorIs(t, err, ErrInvalidType, "value %#v", v)
	}
}

func TestCSV_DecodeHeaderOnly(t *testing.T) {
	out, err := CSV{}.Decode([]byte("name,version\n"))
	require.NoError(t, err)
	assert.Equal(t, []map[string]string{}, out)
}

func TestCSV_DecodeShortRow(t *testing.T) {
	out, err := CSV{}.Decode([]byte("name,version\nTest\n"))
	require.NoError(t, err)
	assert.Equal(t, []map[string]string{{"name": "Test"}}, out)
}

func TestCSV_DecodeEmpty(t *testing.T) {
	out, err := CSV{}.Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, []map[string]string{}, out)
}

// ---- YAML ----

func TestYAML_RoundTrip(t *testing.T) {
	in := map[string]any{
		"name": "Test",
		"nested": map[string]any{
			"region": "eu-west-1",
		},
	}

	data, err := YAML{}.Encode(in)
	require.NoError(t, err)

	out, err := YAML{}.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestYAML_EncodeRejectsNonMapping(t *testing.T) {
	_, err := YAML{}.Encode([]string{"a", "b"})
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestYAML_DecodeMalformed(t *testing.T) {
	_, err := YAML{}.Decode([]byte("key: [unclosed"))
	assert.Error(t, err)
}

func TestYAML_DecodeEmptyYieldsEmptyMapping(t *testing.T) {
	out, err := YAML{}.Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, out)
}
