// Package settings implements the Garmin SET settings-file format: an ASCII
// string table followed by typed key/value properties, big-endian throughout.
// Documents round-trip between the binary format and the settings JSON
// interchange schema.
package settings

import (
	"encoding/binary"
	"fmt"
)

// Wire framing constants.
const (
	fileMagic    uint32 = 0xABCDABCD
	sectionMagic uint32 = 0xDA7ADA7A
	payloadLead  byte   = 0x0B

	magicSize         = 4
	payloadPrefixSize = 5 // lead byte plus the u32 property count
	minPropertyRecord = propertyHeaderSize + 1
)

// MinFileSize is the smallest byte count any settings file can have: both
// magics, the string-table length field, and the payload length field.
const MinFileSize = 16

// Settings is a parsed settings document: an ordered property list plus the
// string table its encoded form references. Mutations keep the table
// canonical (property order, names before string values), so encoding a
// decoded document reproduces it byte for byte.
type Settings struct {
	table *StringTable
	props []Property
}

// New returns an empty document.
func New() *Settings {
	return &Settings{table: NewStringTable()}
}

// NewFromProperties builds a document from props, constructing the canonical
// string table in property order. Duplicate property names are rejected.
func NewFromProperties(props []Property) (*Settings, error) {
	s := New()
	for _, p := range props {
		if err := s.Add(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Len returns the number of properties in the document.
func (s *Settings) Len() int { return len(s.props) }

// Properties returns the properties in document order.
func (s *Settings) Properties() []Property {
	out := make([]Property, len(s.props))
	copy(out, s.props)
	return out
}

// StringTable returns the document's string table.
func (s *Settings) StringTable() *StringTable { return s.table }

// Get returns the property named key.
func (s *Settings) Get(key string) (Property, error) {
	if i := s.index(key); i >= 0 {
		return s.props[i], nil
	}
	return Property{}, fmt.Errorf("property %q not found", key)
}

// Has reports whether a property named key exists.
func (s *Settings) Has(key string) bool {
	return s.index(key) >= 0
}

// Add appends a property, registering its name and any string value in the
// string table. Adding a key that already exists is an error.
func (s *Settings) Add(p Property) error {
	if s.Has(p.Name.Text()) {
		return fmt.Errorf("property %q already exists", p.Name.Text())
	}
	v, err := coerceValue(p.Type, p.Value)
	if err != nil {
		return fmt.Errorf("property %q: %w", p.Name.Text(), err)
	}
	p.Value = v
	s.props = append(s.props, p)
	s.table.Add(p.Name)
	if sv, ok := p.Value.(SettingString); ok && p.Type == TypeString {
		s.table.Add(sv)
	}
	return nil
}

// Edit replaces the value of an existing property. The value must match the
// property's declared type; string values may be passed as string or
// SettingString. Editing a string property drops the old table entry if
// nothing else references it.
func (s *Settings) Edit(key string, value any) error {
	i := s.index(key)
	if i < 0 {
		return fmt.Errorf("no property with key %q", key)
	}
	p := &s.props[i]
	v, err := coerceValue(p.Type, value)
	if err != nil {
		return fmt.Errorf("property %q: %w", key, err)
	}
	p.Value = v
	if p.Type == TypeString {
		s.table.Add(v.(SettingString))
		s.gcStringTable()
	}
	return nil
}

// Remove deletes the property named key and drops any strings the table no
// longer references.
func (s *Settings) Remove(key string) error {
	i := s.index(key)
	if i < 0 {
		return fmt.Errorf("no property with key %q", key)
	}
	s.props = append(s.props[:i], s.props[i+1:]...)
	s.gcStringTable()
	return nil
}

func (s *Settings) index(key string) int {
	for i, p := range s.props {
		if p.Name.Text() == key {
			return i
		}
	}
	return -1
}

// gcStringTable removes table strings no property references any more.
func (s *Settings) gcStringTable() {
	active := make(map[SettingString]bool, len(s.props)*2)
	for _, p := range s.props {
		active[p.Name] = true
		if v, ok := p.Value.(SettingString); ok {
			active[v] = true
		}
	}
	for _, str := range s.table.Strings() {
		if !active[str] {
			s.table.Remove(str)
		}
	}
}

// IsBinary reports whether data starts with the SET file magic.
func IsBinary(data []byte) bool {
	return len(data) >= magicSize && binary.BigEndian.Uint32(data) == fileMagic
}

// Load parses data as either a binary SET file or a settings JSON document,
// deciding by the leading file magic.
func Load(data []byte) (*Settings, error) {
	if len(data) < MinFileSize {
		return nil, fmt.Errorf("settings file too small: %d bytes", len(data))
	}
	if IsBinary(data) {
		return Decode(data)
	}
	return DecodeJSON(data)
}

// Decode parses a binary SET file. The document is rebuilt from the parsed
// properties, so its string table is canonical regardless of the table layout
// in data.
func Decode(data []byte) (*Settings, error) {
	if len(data) < MinFileSize {
		return nil, fmt.Errorf("settings file too small: %d bytes", len(data))
	}
	if got := binary.BigEndian.Uint32(data); got != fileMagic {
		return nil, fmt.Errorf("bad file magic: got 0x%08X, want 0x%08X", got, fileMagic)
	}

	table, n, err := decodeStringTable(data[magicSize:])
	if err != nil {
		return nil, err
	}
	pos := magicSize + n
	if len(data) < pos+2*magicSize {
		return nil, fmt.Errorf("settings file truncated after string table")
	}
	if got := binary.BigEndian.Uint32(data[pos:]); got != sectionMagic {
		return nil, fmt.Errorf("bad section magic: got 0x%08X, want 0x%08X", got, sectionMagic)
	}

	payloadLen := int(binary.BigEndian.Uint32(data[pos+magicSize:]))
	payload := data[pos+2*magicSize:]
	if len(payload) != payloadLen {
		return nil, fmt.Errorf("payload length mismatch: header says %d bytes, file has %d",
			payloadLen, len(payload))
	}
	if len(payload) < payloadPrefixSize {
		return nil, fmt.Errorf("settings payload too small: %d bytes", len(payload))
	}
	if payload[0] != payloadLead {
		return nil, fmt.Errorf("bad payload lead byte: got 0x%02X, want 0x%02X",
			payload[0], payloadLead)
	}

	count := int(binary.BigEndian.Uint32(payload[1:payloadPrefixSize]))
	if count > (len(payload)-payloadPrefixSize)/minPropertyRecord {
		return nil, fmt.Errorf("property count %d exceeds payload size", count)
	}
	props := make([]Property, 0, count)
	off := payloadPrefixSize
	for i := 0; i < count; i++ {
		p, n, err := decodeProperty(payload[off:], table)
		if err != nil {
			return nil, fmt.Errorf("property %d: %w", i, err)
		}
		props = append(props, p)
		off += n
	}
	if off != len(payload) {
		return nil, fmt.Errorf("%d trailing bytes after properties", len(payload)-off)
	}

	return NewFromProperties(props)
}

// Encode serializes the document to the binary SET format.
func (s *Settings) Encode() ([]byte, error) {
	payload := make([]byte, 0, payloadPrefixSize+len(s.props)*(propertyHeaderSize+8))
	payload = append(payload, payloadLead)
	payload = binary.BigEndian.AppendUint32(payload, uint32(len(s.props)))
	for _, p := range s.props {
		b, err := p.Bytes(s.table)
		if err != nil {
			return nil, err
		}
		payload = append(payload, b...)
	}

	tableBytes := s.table.Bytes()
	buf := make([]byte, 0, 3*magicSize+len(tableBytes)+len(payload))
	buf = binary.BigEndian.AppendUint32(buf, fileMagic)
	buf = append(buf, tableBytes...)
	buf = binary.BigEndian.AppendUint32(buf, sectionMagic)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(payload)))
	return append(buf, payload...), nil
}
