package settings

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// settingStringHeaderSize is the u16 length prefix preceding every string record.
const settingStringHeaderSize = 2

// SettingString is a single ASCII string record as stored in a SET file
// string table. On the wire it is a big-endian u16 length counting the NUL
// terminator, the ASCII bytes, and the trailing NUL.
type SettingString struct {
	text string
}

// NewSettingString builds a SettingString from text. Trailing NUL bytes are
// stripped; non-ASCII text is rejected.
func NewSettingString(text string) (SettingString, error) {
	text = strings.TrimRight(text, "\x00")
	if !isASCII(text) {
		return SettingString{}, fmt.Errorf("not a valid ASCII string: %q", text)
	}
	return SettingString{text: text}, nil
}

// Text returns the string contents without the NUL terminator.
func (s SettingString) Text() string { return s.text }

// StrLen returns the wire length field: the text length plus one for the NUL.
func (s SettingString) StrLen() int { return len(s.text) + 1 }

// Size returns the full record size in bytes, header included.
func (s SettingString) Size() int { return settingStringHeaderSize + s.StrLen() }

// Bytes encodes the record: u16 length, ASCII bytes, NUL.
func (s SettingString) Bytes() []byte {
	buf := make([]byte, 0, s.Size())
	buf = binary.BigEndian.AppendUint16(buf, uint16(s.StrLen()))
	buf = append(buf, s.text...)
	return append(buf, 0)
}

// decodeSettingString reads one string record from the front of data and
// returns it along with the number of bytes consumed.
func decodeSettingString(data []byte) (SettingString, int, error) {
	if len(data) < settingStringHeaderSize {
		return SettingString{}, 0, fmt.Errorf(
			"string record truncated: expecting at least %d bytes, got %d",
			settingStringHeaderSize, len(data))
	}
	strLen := int(binary.BigEndian.Uint16(data))
	if strLen == 0 {
		return SettingString{}, 0, fmt.Errorf("string record has a zero length field")
	}
	size := settingStringHeaderSize + strLen
	if len(data) < size {
		return SettingString{}, 0, fmt.Errorf(
			"string record truncated: expecting at least %d bytes, got %d", size, len(data))
	}
	s, err := NewSettingString(string(data[settingStringHeaderSize : size-1]))
	if err != nil {
		return SettingString{}, 0, err
	}
	return s, size, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}
