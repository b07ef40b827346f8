package settings

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBinary is a complete canonical SET file holding five properties.
var testBinary = []byte{
	0xAB, 0xCD, 0xAB, 0xCD, // file magic
	0x00, 0x00, 0x00, 0x55, // string table body length (85)
	0x00, 0x05, 'N', 'u', 'm', '2', 0x00,
	0x00, 0x05, 'U', 'r', 'l', '1', 0x00,
	0x00, 0x15, 'h', 't', 't', 'p', 's', ':', '/', '/', 'y', 'o', 'u', 'r', '.', 'u', 'r', 'l', '.', 'c', 'o', 'm', 0x00,
	0x00, 0x05, 'S', 't', 'r', '2', 0x00,
	0x00, 0x14, 'a', 'n', 'o', 't', 'h', 'e', 'r', ' ', 's', 't', 'r', 'i', 'n', 'g', ' ', 'h', 'e', 'r', 'e', 0x00,
	0x00, 0x0A, 'U', 's', 'e', 'M', 'i', 'l', 'F', 'm', 't', 0x00,
	0x00, 0x05, 'N', 'u', 'm', '1', 0x00,
	0xDA, 0x7A, 0xDA, 0x7A, // section magic
	0x00, 0x00, 0x00, 0x34, // payload length (52)
	0x0B,
	0x00, 0x00, 0x00, 0x05, // property count
	0x03, 0x00, 0x00, 0x00, 0x00, 0x01, 0x56, 0x78, 0x9A, 0xBC, // Num2 = 0x56789ABC
	0x03, 0x00, 0x00, 0x00, 0x07, 0x03, 0x00, 0x00, 0x00, 0x0E, // Url1 -> https://your.url.com
	0x03, 0x00, 0x00, 0x00, 0x25, 0x03, 0x00, 0x00, 0x00, 0x2C, // Str2 -> another string here
	0x03, 0x00, 0x00, 0x00, 0x42, 0x09, 0x01, // UseMilFmt = true
	0x03, 0x00, 0x00, 0x00, 0x4E, 0x01, 0x23, 0x45, 0x67, 0x89, // Num1 = 0x23456789
}

func mustProp(t *testing.T, name string, typ PropertyType, value any) Property {
	t.Helper()
	p, err := NewProperty(name, typ, value)
	require.NoError(t, err)
	return p
}

func tableTexts(table *StringTable) []string {
	texts := make([]string, 0, table.Len())
	for _, s := range table.Strings() {
		texts = append(texts, s.Text())
	}
	return texts
}

func TestDecodeCanonicalFile(t *testing.T) {
	t.Parallel()

	doc, err := Decode(testBinary)
	require.NoError(t, err)
	assert.Equal(t, 5, doc.Len())

	want := []Property{
		mustProp(t, "Num2", TypeInt32, int32(0x56789ABC)),
		mustProp(t, "Url1", TypeString, "https://your.url.com"),
		mustProp(t, "Str2", TypeString, "another string here"),
		mustProp(t, "UseMilFmt", TypeBoolean, true),
		mustProp(t, "Num1", TypeInt32, int32(0x23456789)),
	}
	assert.Equal(t, want, doc.Properties())

	// The rebuilt table lists names and string values in property order.
	assert.Equal(t, []string{
		"Num2", "Url1", "https://your.url.com",
		"Str2", "another string here",
		"UseMilFmt", "Num1",
	}, tableTexts(doc.StringTable()))
}

func TestCanonicalFileRoundTrip(t *testing.T) {
	t.Parallel()

	doc, err := Decode(testBinary)
	require.NoError(t, err)

	encoded, err := doc.Encode()
	require.NoError(t, err)
	if diff := cmp.Diff(testBinary, encoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	origSum := sha256.Sum256(testBinary)
	newSum := sha256.Sum256(encoded)
	assert.Equal(t, hex.EncodeToString(origSum[:]), hex.EncodeToString(newSum[:]))
}

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		tableTexts []string
		props      []Property
		payload    []byte
		wantSize   int
	}{
		{
			name: "two int properties",
			props: []Property{
				mustProp(t, "Num1", TypeInt32, int32(0x7BCDEF01)),
				mustProp(t, "Num2", TypeInt32, int32(0x56789ABC)),
			},
			tableTexts: []string{"Num1", "Num2"},
			payload: []byte{
				0x0B, 0x00, 0x00, 0x00, 0x02,
				0x03, 0x00, 0x00, 0x00, 0x00, 0x01, 0x7B, 0xCD, 0xEF, 0x01,
				0x03, 0x00, 0x00, 0x00, 0x07, 0x01, 0x56, 0x78, 0x9A, 0xBC,
			},
			wantSize: 55,
		},
		{
			name: "string value deduplicates against a name",
			props: []Property{
				mustProp(t, "Num1", TypeInt32, int32(0x7BCDEF01)),
				mustProp(t, "Str1", TypeString, "Num1"),
			},
			tableTexts: []string{"Num1", "Str1"},
			payload: []byte{
				0x0B, 0x00, 0x00, 0x00, 0x02,
				0x03, 0x00, 0x00, 0x00, 0x00, 0x01, 0x7B, 0xCD, 0xEF, 0x01,
				0x03, 0x00, 0x00, 0x00, 0x07, 0x03, 0x00, 0x00, 0x00, 0x00,
			},
			wantSize: 55,
		},
		{
			name: "string value gets its own table entry",
			props: []Property{
				mustProp(t, "Num1", TypeInt32, int32(0x7BCDEF01)),
				mustProp(t, "Str1", TypeString, "StrVal"),
			},
			tableTexts: []string{"Num1", "Str1", "StrVal"},
			payload: []byte{
				0x0B, 0x00, 0x00, 0x00, 0x02,
				0x03, 0x00, 0x00, 0x00, 0x00, 0x01, 0x7B, 0xCD, 0xEF, 0x01,
				0x03, 0x00, 0x00, 0x00, 0x07, 0x03, 0x00, 0x00, 0x00, 0x0E,
			},
			wantSize: 64,
		},
		{
			name: "mixed types",
			props: []Property{
				mustProp(t, "Num1", TypeInt32, int32(0x7BCDEF01)),
				mustProp(t, "Str1", TypeString, "StrVal"),
				mustProp(t, "Bool", TypeBoolean, true),
			},
			tableTexts: []string{"Num1", "Str1", "StrVal", "Bool"},
			payload: []byte{
				0x0B, 0x00, 0x00, 0x00, 0x03,
				0x03, 0x00, 0x00, 0x00, 0x00, 0x01, 0x7B, 0xCD, 0xEF, 0x01,
				0x03, 0x00, 0x00, 0x00, 0x07, 0x03, 0x00, 0x00, 0x00, 0x0E,
				0x03, 0x00, 0x00, 0x00, 0x17, 0x09, 0x01,
			},
			wantSize: 78,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewFromProperties(tt.props)
			require.NoError(t, err)

			var want []byte
			want = binary.BigEndian.AppendUint32(want, fileMagic)
			want = append(want, newTestTable(t, tt.tableTexts...).Bytes()...)
			want = binary.BigEndian.AppendUint32(want, sectionMagic)
			want = binary.BigEndian.AppendUint32(want, uint32(len(tt.payload)))
			want = append(want, tt.payload...)

			got, err := doc.Encode()
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("encoded bytes mismatch (-want +got):\n%s", diff)
			}
			assert.Len(t, got, tt.wantSize)

			// Decoding the encoded form restores the same document.
			parsed, err := Decode(got)
			require.NoError(t, err)
			assert.Equal(t, tt.props, parsed.Properties())
			assert.Equal(t, tt.tableTexts, tableTexts(parsed.StringTable()))
		})
	}
}

func TestSettingsGetAndHas(t *testing.T) {
	t.Parallel()

	doc, err := NewFromProperties([]Property{
		mustProp(t, "Num1", TypeInt32, int32(0x23456789)),
		mustProp(t, "Url1", TypeString, "https://your.url.com"),
	})
	require.NoError(t, err)

	p, err := doc.Get("Num1")
	require.NoError(t, err)
	assert.Equal(t, "Num1", p.Name.Text())
	assert.Equal(t, TypeInt32, p.Type)
	assert.Equal(t, int32(0x23456789), p.Value)

	_, err = doc.Get("Num3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `property "Num3" not found`)

	assert.True(t, doc.Has("Num1"))
	assert.False(t, doc.Has("Num5"))
}

func TestSettingsAdd(t *testing.T) {
	t.Parallel()

	doc, err := NewFromProperties([]Property{
		mustProp(t, "Num1", TypeInt32, int32(1)),
	})
	require.NoError(t, err)

	err = doc.Add(mustProp(t, "Num1", TypeFloat32, float32(1.23)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `property "Num1" already exists`)

	require.NoError(t, doc.Add(mustProp(t, "NewProp", TypeString, "new property")))
	assert.Equal(t, 2, doc.Len())
	assert.Equal(t, []string{"Num1", "NewProp", "new property"}, tableTexts(doc.StringTable()))

	require.NoError(t, doc.Add(mustProp(t, "NewProp2", TypeFloat32, float32(1.23))))
	assert.Equal(t, 3, doc.Len())
	assert.Equal(t, []string{"Num1", "NewProp", "new property", "NewProp2"}, tableTexts(doc.StringTable()))
}

func TestNewFromPropertiesRejectsDuplicates(t *testing.T) {
	t.Parallel()

	_, err := NewFromProperties([]Property{
		mustProp(t, "Num1", TypeInt32, int32(1)),
		mustProp(t, "Num2", TypeInt32, int32(2)),
		mustProp(t, "Num1", TypeInt32, int32(1)),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `property "Num1" already exists`)
}

func TestSettingsEdit(t *testing.T) {
	t.Parallel()

	doc, err := NewFromProperties([]Property{
		mustProp(t, "Num1", TypeInt32, int32(0x23456789)),
		mustProp(t, "Str2", TypeString, "another string here"),
		mustProp(t, "UseMilFmt", TypeBoolean, true),
	})
	require.NoError(t, err)

	require.NoError(t, doc.Edit("Num1", int32(0x0BCDEF01)))
	p, err := doc.Get("Num1")
	require.NoError(t, err)
	assert.Equal(t, int32(0x0BCDEF01), p.Value)

	err = doc.Edit("Num1", 0.23)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected number, got float64")

	require.NoError(t, doc.Edit("UseMilFmt", false))
	p, err = doc.Get("UseMilFmt")
	require.NoError(t, err)
	assert.Equal(t, false, p.Value)

	err = doc.Edit("UseMilFmt", int32(123))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected boolean, got int32")

	err = doc.Edit("Number10", int32(123))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no property with key "Number10"`)

	// Editing a string swaps the table entry and drops the orphaned one.
	require.NoError(t, doc.Edit("Str2", "new value"))
	p, err = doc.Get("Str2")
	require.NoError(t, err)
	assert.Equal(t, mustString(t, "new value"), p.Value)
	assert.Equal(t, []string{"Num1", "Str2", "UseMilFmt", "new value"}, tableTexts(doc.StringTable()))
}

func TestSettingsRemove(t *testing.T) {
	t.Parallel()

	doc, err := NewFromProperties([]Property{
		mustProp(t, "Num1", TypeInt32, int32(1)),
		mustProp(t, "Str2", TypeString, "another string here"),
		mustProp(t, "Url1", TypeString, "https://your.url.com"),
	})
	require.NoError(t, err)

	require.NoError(t, doc.Remove("Str2"))
	assert.Equal(t, 2, doc.Len())
	assert.False(t, doc.Has("Str2"))
	assert.Equal(t, []string{"Num1", "Url1", "https://your.url.com"}, tableTexts(doc.StringTable()))

	err = doc.Remove("Num3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no property with key "Num3"`)
}

func TestSettingsRemoveKeepsSharedStrings(t *testing.T) {
	t.Parallel()

	doc, err := NewFromProperties([]Property{
		mustProp(t, "PrimaryUrl", TypeString, "https://your.url.com"),
		mustProp(t, "BackupUrl", TypeString, "https://your.url.com"),
	})
	require.NoError(t, err)

	require.NoError(t, doc.Remove("BackupUrl"))
	assert.Equal(t, []string{"PrimaryUrl", "https://your.url.com"}, tableTexts(doc.StringTable()))
}

func TestDecodeCorruptFiles(t *testing.T) {
	t.Parallel()

	doc, err := NewFromProperties([]Property{
		mustProp(t, "Num1", TypeInt32, int32(0x7BCDEF01)),
		mustProp(t, "Num2", TypeInt32, int32(0x56789ABC)),
	})
	require.NoError(t, err)
	base, err := doc.Encode()
	require.NoError(t, err)
	require.Len(t, base, 55)

	// Layout of base: magic [0:4), table length [4:8), table body [8:22),
	// section magic [22:26), payload length [26:30), payload lead at 30,
	// property count [31:35), first property [35:45).
	tests := []struct {
		mutate  func([]byte) []byte
		name    string
		wantErr string
	}{
		{
			name:    "file too small",
			mutate:  func(b []byte) []byte { return b[:10] },
			wantErr: "settings file too small: 10 bytes",
		},
		{
			name: "bad file magic",
			mutate: func(b []byte) []byte {
				b[0] = 0x00
				return b
			},
			wantErr: "bad file magic",
		},
		{
			name: "string table longer than file",
			mutate: func(b []byte) []byte {
				b[7] = 0xFF
				return b
			},
			wantErr: "string table truncated",
		},
		{
			name: "bad section magic",
			mutate: func(b []byte) []byte {
				b[22] = 0x00
				return b
			},
			wantErr: "bad section magic",
		},
		{
			name:    "payload length mismatch",
			mutate:  func(b []byte) []byte { return b[:len(b)-1] },
			wantErr: "payload length mismatch",
		},
		{
			name: "bad payload lead byte",
			mutate: func(b []byte) []byte {
				b[30] = 0x0C
				return b
			},
			wantErr: "bad payload lead byte",
		},
		{
			name: "property count exceeds payload",
			mutate: func(b []byte) []byte {
				b[34] = 0x09
				return b
			},
			wantErr: "property count 9 exceeds payload size",
		},
		{
			name: "trailing bytes after properties",
			mutate: func(b []byte) []byte {
				b[34] = 0x01
				return b
			},
			wantErr: "10 trailing bytes after properties",
		},
		{
			name: "unknown property value type",
			mutate: func(b []byte) []byte {
				b[40] = 0x55
				return b
			},
			wantErr: "unknown property type: 0x55",
		},
		{
			name: "property name offset out of table",
			mutate: func(b []byte) []byte {
				b[39] = 0x63
				return b
			},
			wantErr: "property name offset 99 not in string table",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]byte, len(base))
			copy(data, base)
			_, err := Decode(tt.mutate(data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDecodeTruncatedAfterStringTable(t *testing.T) {
	t.Parallel()

	data := []byte{
		0xAB, 0xCD, 0xAB, 0xCD,
		0x00, 0x00, 0x00, 0x08,
		0x00, 0x02, 'A', 0x00,
		0x00, 0x02, 'B', 0x00,
	}
	_, err := Decode(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated after string table")
}

// Benchmark tests for performance
func BenchmarkDecode(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(testBinary); err != nil {
			b.Fatalf("Unexpected error: %v", err)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	doc, err := Decode(testBinary)
	if err != nil {
		b.Fatalf("Unexpected error: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := doc.Encode(); err != nil {
			b.Fatalf("Unexpected error: %v", err)
		}
	}
}
