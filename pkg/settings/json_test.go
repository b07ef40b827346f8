package settings

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testJSON is the settings JSON form of testBinary.
var testJSON = []byte(`{
  "settings": [
    {
      "key": "Num2",
      "valueType": "number",
      "defaultValue": 1450744508
    },
    {
      "key": "Url1",
      "valueType": "string",
      "defaultValue": "https://your.url.com"
    },
    {
      "key": "Str2",
      "valueType": "string",
      "defaultValue": "another string here"
    },
    {
      "key": "UseMilFmt",
      "valueType": "boolean",
      "defaultValue": true
    },
    {
      "key": "Num1",
      "valueType": "number",
      "defaultValue": 591751049
    }
  ]
}
`)

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	doc, err := DecodeJSON(testJSON)
	require.NoError(t, err)

	want := []Property{
		mustProp(t, "Num2", TypeInt32, int32(0x56789ABC)),
		mustProp(t, "Url1", TypeString, "https://your.url.com"),
		mustProp(t, "Str2", TypeString, "another string here"),
		mustProp(t, "UseMilFmt", TypeBoolean, true),
		mustProp(t, "Num1", TypeInt32, int32(0x23456789)),
	}
	assert.Equal(t, want, doc.Properties())
}

func TestJSONEncodesToBinary(t *testing.T) {
	t.Parallel()

	doc, err := DecodeJSON(testJSON)
	require.NoError(t, err)

	encoded, err := doc.Encode()
	require.NoError(t, err)
	if diff := cmp.Diff(testBinary, encoded); diff != "" {
		t.Fatalf("binary form mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeJSON(t *testing.T) {
	t.Parallel()

	doc, err := Decode(testBinary)
	require.NoError(t, err)

	out, err := doc.EncodeJSON()
	require.NoError(t, err)
	assert.Equal(t, string(testJSON), string(out))
}

func TestDecodeJSONAllTypes(t *testing.T) {
	t.Parallel()

	doc, err := DecodeJSON([]byte(`{
		"settings": [
			{"key": "Num", "valueType": "number", "defaultValue": 123},
			{"key": "NumText", "valueType": "number", "defaultValue": "0x23456789"},
			{"key": "Flt", "valueType": "float", "defaultValue": 21.3456},
			{"key": "Str", "valueType": "string", "defaultValue": "some text"},
			{"key": "Bool", "valueType": "boolean", "defaultValue": false},
			{"key": "BoolText", "valueType": "boolean", "defaultValue": "true"},
			{"key": "Long", "valueType": "long", "defaultValue": 81985529216486895},
			{"key": "Dbl", "valueType": "double", "defaultValue": 121245454521.34568723}
		]
	}`))
	require.NoError(t, err)

	want := []Property{
		mustProp(t, "Num", TypeInt32, int32(123)),
		mustProp(t, "NumText", TypeInt32, int32(0x23456789)),
		mustProp(t, "Flt", TypeFloat32, float32(21.3456)),
		mustProp(t, "Str", TypeString, "some text"),
		mustProp(t, "Bool", TypeBoolean, false),
		mustProp(t, "BoolText", TypeBoolean, true),
		mustProp(t, "Long", TypeInt64, int64(0x0123456789ABCDEF)),
		mustProp(t, "Dbl", TypeFloat64, 121245454521.34568723),
	}
	assert.Equal(t, want, doc.Properties())
}

func TestDecodeJSONInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "not JSON",
			data:    `{not json`,
			wantErr: "invalid settings JSON",
		},
		{
			name:    "no settings key",
			data:    `{"other": []}`,
			wantErr: `must contain a "settings" key`,
		},
		{
			name:    "entry without key",
			data:    `{"settings": [{"valueType": "number", "defaultValue": 1}]}`,
			wantErr: `entry is missing a "key"`,
		},
		{
			name:    "unknown value type",
			data:    `{"settings": [{"key": "A", "valueType": "decimal", "defaultValue": 1}]}`,
			wantErr: `setting "A": unknown property type: "decimal"`,
		},
		{
			name:    "entry without default value",
			data:    `{"settings": [{"key": "A", "valueType": "number"}]}`,
			wantErr: `setting "A" is missing a "defaultValue"`,
		},
		{
			name:    "fractional value for number",
			data:    `{"settings": [{"key": "A", "valueType": "number", "defaultValue": 123.5}]}`,
			wantErr: `invalid default value for setting "A": expected an integer, got 123.5`,
		},
		{
			name:    "number out of range",
			data:    `{"settings": [{"key": "A", "valueType": "number", "defaultValue": 4294967295}]}`,
			wantErr: "value 4294967295 out of range for number",
		},
		{
			name:    "boolean for number",
			data:    `{"settings": [{"key": "A", "valueType": "number", "defaultValue": true}]}`,
			wantErr: "expected number, got boolean",
		},
		{
			name:    "number for string",
			data:    `{"settings": [{"key": "A", "valueType": "string", "defaultValue": 123}]}`,
			wantErr: "expected string, got a number",
		},
		{
			name:    "null default value",
			data:    `{"settings": [{"key": "A", "valueType": "number", "defaultValue": null}]}`,
			wantErr: "expected number, got <nil>",
		},
		{
			name:    "non-ASCII string value",
			data:    `{"settings": [{"key": "A", "valueType": "string", "defaultValue": "snow☃"}]}`,
			wantErr: "not a valid ASCII string",
		},
		{
			name: "duplicate keys",
			data: `{"settings": [
				{"key": "A", "valueType": "number", "defaultValue": 1},
				{"key": "A", "valueType": "number", "defaultValue": 2}
			]}`,
			wantErr: `property "A" already exists`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	doc, err := Load(testBinary)
	require.NoError(t, err)
	assert.Equal(t, 5, doc.Len())

	doc, err = Load(testJSON)
	require.NoError(t, err)
	assert.Equal(t, 5, doc.Len())

	_, err = Load([]byte{0xAB, 0xCD, 0xAB, 0xCD})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings file too small: 4 bytes")
}

func TestIsBinary(t *testing.T) {
	t.Parallel()

	assert.True(t, IsBinary(testBinary))
	assert.False(t, IsBinary(testJSON))
	assert.False(t, IsBinary([]byte{0xAB, 0xCD}))
}
