package settings

import (
	"encoding/binary"
	"fmt"
)

// stringTableHeaderSize is the u32 body-length prefix of an encoded table.
const stringTableHeaderSize = 4

// StringTable is the string pool of a settings document. Properties reference
// strings by the byte offset of their record within the table body, so
// insertion order determines every offset and removing a string shifts all
// later offsets down.
type StringTable struct {
	offsets map[SettingString]uint32
	strings []SettingString
	next    uint32
}

// NewStringTable returns an empty table.
func NewStringTable() *StringTable {
	return &StringTable{offsets: make(map[SettingString]uint32)}
}

// Len returns the number of strings in the table.
func (t *StringTable) Len() int { return len(t.strings) }

// Strings returns the table's strings in record order.
func (t *StringTable) Strings() []SettingString {
	out := make([]SettingString, len(t.strings))
	copy(out, t.strings)
	return out
}

// Add appends s to the table and returns its byte offset. Adding a string
// that is already present returns the existing offset unchanged.
func (t *StringTable) Add(s SettingString) uint32 {
	if off, ok := t.offsets[s]; ok {
		return off
	}
	off := t.next
	t.strings = append(t.strings, s)
	t.offsets[s] = off
	t.next += uint32(s.Size())
	return off
}

// Offset returns the byte offset of s within the table body.
func (t *StringTable) Offset(s SettingString) (uint32, bool) {
	off, ok := t.offsets[s]
	return off, ok
}

// Contains reports whether s is in the table.
func (t *StringTable) Contains(s SettingString) bool {
	_, ok := t.offsets[s]
	return ok
}

// At returns the string whose record starts at the given body offset.
func (t *StringTable) At(offset uint32) (SettingString, error) {
	var pos uint32
	for _, s := range t.strings {
		if pos == offset {
			return s, nil
		}
		if pos > offset {
			break
		}
		pos += uint32(s.Size())
	}
	return SettingString{}, fmt.Errorf("no string at offset %d", offset)
}

// Remove deletes s from the table, shifting every later offset down. Removing
// a string that is not present is a no-op.
func (t *StringTable) Remove(s SettingString) {
	if !t.Contains(s) {
		return
	}
	kept := make([]SettingString, 0, len(t.strings)-1)
	for _, v := range t.strings {
		if v != s {
			kept = append(kept, v)
		}
	}
	t.strings = nil
	t.offsets = make(map[SettingString]uint32, len(kept))
	t.next = 0
	for _, v := range kept {
		t.Add(v)
	}
}

// Bytes encodes the table: u32 body length followed by the string records.
func (t *StringTable) Bytes() []byte {
	buf := make([]byte, 0, stringTableHeaderSize+int(t.next))
	buf = binary.BigEndian.AppendUint32(buf, t.next)
	for _, s := range t.strings {
		buf = append(buf, s.Bytes()...)
	}
	return buf
}

// decodeStringTable reads an encoded table from the front of data and returns
// it along with the number of bytes consumed.
func decodeStringTable(data []byte) (*StringTable, int, error) {
	if len(data) < stringTableHeaderSize {
		return nil, 0, fmt.Errorf(
			"string table truncated: expecting at least %d bytes, got %d",
			stringTableHeaderSize, len(data))
	}
	bodyLen := int(binary.BigEndian.Uint32(data))
	if len(data)-stringTableHeaderSize < bodyLen {
		return nil, 0, fmt.Errorf(
			"string table truncated: expecting at least %d bytes, got %d",
			bodyLen, len(data)-stringTableHeaderSize)
	}
	t := NewStringTable()
	pos := stringTableHeaderSize
	end := stringTableHeaderSize + bodyLen
	for pos < end {
		s, n, err := decodeSettingString(data[pos:end])
		if err != nil {
			return nil, 0, fmt.Errorf("string table: %w", err)
		}
		t.Add(s)
		pos += n
	}
	return t, end, nil
}
