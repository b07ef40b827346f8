package settings

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// PropertyType identifies the wire encoding of a property value.
type PropertyType byte

// Property value types as they appear on the wire.
const (
	TypeInt32   PropertyType = 0x01
	TypeFloat32 PropertyType = 0x02
	TypeString  PropertyType = 0x03
	TypeBoolean PropertyType = 0x09
	TypeInt64   PropertyType = 0x0E
	TypeFloat64 PropertyType = 0x0F
)

// propertyHeaderSize covers the name tag, the u32 name offset, and the value
// type byte that lead every property record.
const propertyHeaderSize = 6

// Size returns the encoded width of a value of this type. String values
// encode as a u32 string-table offset.
func (t PropertyType) Size() int {
	switch t {
	case TypeInt32, TypeFloat32, TypeString:
		return 4
	case TypeBoolean:
		return 1
	case TypeInt64, TypeFloat64:
		return 8
	}
	return 0
}

// String returns the textual type name used in settings JSON documents.
func (t PropertyType) String() string {
	switch t {
	case TypeInt32:
		return "number"
	case TypeFloat32:
		return "float"
	case TypeString:
		return "string"
	case TypeBoolean:
		return "boolean"
	case TypeInt64:
		return "long"
	case TypeFloat64:
		return "double"
	}
	return fmt.Sprintf("unknown(0x%02X)", byte(t))
}

func (t PropertyType) valid() bool {
	switch t {
	case TypeInt32, TypeFloat32, TypeString, TypeBoolean, TypeInt64, TypeFloat64:
		return true
	}
	return false
}

// ParsePropertyType maps a JSON valueType name to its wire type.
func ParsePropertyType(name string) (PropertyType, error) {
	switch name {
	case "number":
		return TypeInt32, nil
	case "float":
		return TypeFloat32, nil
	case "string":
		return TypeString, nil
	case "boolean":
		return TypeBoolean, nil
	case "long":
		return TypeInt64, nil
	case "double":
		return TypeFloat64, nil
	}
	return 0, fmt.Errorf("unknown property type: %q", name)
}

// PropertyTypeNames returns the valid JSON valueType names.
func PropertyTypeNames() []string {
	return []string{"number", "float", "string", "boolean", "long", "double"}
}

// Property is one key/value pair of a settings document. Value holds int32,
// float32, SettingString, bool, int64, or float64 depending on Type.
type Property struct {
	Value any
	Name  SettingString
	Type  PropertyType
}

// NewProperty builds a property, validating that value matches typ. String
// values may be given as string or SettingString.
func NewProperty(name string, typ PropertyType, value any) (Property, error) {
	n, err := NewSettingString(name)
	if err != nil {
		return Property{}, err
	}
	v, err := coerceValue(typ, value)
	if err != nil {
		return Property{}, fmt.Errorf("property %q: %w", n.Text(), err)
	}
	return Property{Name: n, Type: typ, Value: v}, nil
}

// coerceValue checks that value matches the canonical Go type for typ and
// normalizes string values to SettingString.
func coerceValue(typ PropertyType, value any) (any, error) {
	switch typ {
	case TypeInt32:
		if v, ok := value.(int32); ok {
			return v, nil
		}
	case TypeFloat32:
		if v, ok := value.(float32); ok {
			return v, nil
		}
	case TypeString:
		switch v := value.(type) {
		case SettingString:
			return v, nil
		case string:
			return NewSettingString(v)
		}
	case TypeBoolean:
		if v, ok := value.(bool); ok {
			return v, nil
		}
	case TypeInt64:
		if v, ok := value.(int64); ok {
			return v, nil
		}
	case TypeFloat64:
		if v, ok := value.(float64); ok {
			return v, nil
		}
	default:
		return nil, fmt.Errorf("unknown property type: 0x%02X", byte(typ))
	}
	return nil, fmt.Errorf("invalid value type: expected %s, got %T", typ, value)
}

// ParseValue converts CLI text into a value of the given type. Integer types
// accept base-10 and 0x-prefixed hex digits.
func ParseValue(typ PropertyType, text string) (any, error) {
	switch typ {
	case TypeInt32:
		v, err := strconv.ParseInt(text, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid number value %q", text)
		}
		return int32(v), nil
	case TypeInt64:
		v, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid long value %q", text)
		}
		return v, nil
	case TypeFloat32:
		v, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid float value %q", text)
		}
		return float32(v), nil
	case TypeFloat64:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid double value %q", text)
		}
		return v, nil
	case TypeBoolean:
		v, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value %q", text)
		}
		return v, nil
	case TypeString:
		s, err := NewSettingString(text)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown property type: 0x%02X", byte(typ))
}

// FormatValue renders the property value for display.
func (p Property) FormatValue() string {
	switch v := p.Value.(type) {
	case SettingString:
		return v.Text()
	case bool:
		return strconv.FormatBool(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return fmt.Sprintf("%v", p.Value)
}

// Bytes encodes the property against table, which must already contain the
// property name and, for string properties, the value.
func (p Property) Bytes(table *StringTable) ([]byte, error) {
	nameOff, ok := table.Offset(p.Name)
	if !ok {
		return nil, fmt.Errorf("property name %q not in string table", p.Name.Text())
	}

	buf := make([]byte, 0, propertyHeaderSize+p.Type.Size())
	// The name reference leads every record and is itself string-typed.
	buf = append(buf, byte(TypeString))
	buf = binary.BigEndian.AppendUint32(buf, nameOff)
	buf = append(buf, byte(p.Type))

	switch p.Type {
	case TypeInt32:
		v, ok := p.Value.(int32)
		if !ok {
			return nil, p.typeMismatch()
		}
		buf = binary.BigEndian.AppendUint32(buf, uint32(v))
	case TypeFloat32:
		v, ok := p.Value.(float32)
		if !ok {
			return nil, p.typeMismatch()
		}
		buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(v))
	case TypeString:
		v, ok := p.Value.(SettingString)
		if !ok {
			return nil, p.typeMismatch()
		}
		valOff, ok := table.Offset(v)
		if !ok {
			return nil, fmt.Errorf("string property value %q not in string table", v.Text())
		}
		buf = binary.BigEndian.AppendUint32(buf, valOff)
	case TypeBoolean:
		v, ok := p.Value.(bool)
		if !ok {
			return nil, p.typeMismatch()
		}
		if v {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	case TypeInt64:
		v, ok := p.Value.(int64)
		if !ok {
			return nil, p.typeMismatch()
		}
		buf = binary.BigEndian.AppendUint64(buf, uint64(v))
	case TypeFloat64:
		v, ok := p.Value.(float64)
		if !ok {
			return nil, p.typeMismatch()
		}
		buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(v))
	default:
		return nil, fmt.Errorf("unknown property type: 0x%02X", byte(p.Type))
	}
	return buf, nil
}

func (p Property) typeMismatch() error {
	return fmt.Errorf("invalid value type for property %q: expected %s, got %T",
		p.Name.Text(), p.Type, p.Value)
}

// decodeProperty reads one property record from the front of data, resolving
// string references against table, and returns it along with the number of
// bytes consumed.
func decodeProperty(data []byte, table *StringTable) (Property, int, error) {
	if len(data) < propertyHeaderSize {
		return Property{}, 0, fmt.Errorf(
			"property record truncated: expecting at least %d bytes, got %d",
			propertyHeaderSize, len(data))
	}
	if data[0] != byte(TypeString) {
		return Property{}, 0, fmt.Errorf(
			"property record must start with a string name reference (0x%02X), got 0x%02X",
			byte(TypeString), data[0])
	}
	nameOff := binary.BigEndian.Uint32(data[1:5])
	name, err := table.At(nameOff)
	if err != nil {
		return Property{}, 0, fmt.Errorf("property name offset %d not in string table", nameOff)
	}

	typ := PropertyType(data[5])
	if !typ.valid() {
		return Property{}, 0, fmt.Errorf("unknown property type: 0x%02X", data[5])
	}
	size := propertyHeaderSize + typ.Size()
	if len(data) < size {
		return Property{}, 0, fmt.Errorf(
			"property record truncated: expecting at least %d bytes, got %d", size, len(data))
	}

	raw := data[propertyHeaderSize:size]
	var value any
	switch typ {
	case TypeInt32:
		value = int32(binary.BigEndian.Uint32(raw))
	case TypeFloat32:
		value = math.Float32frombits(binary.BigEndian.Uint32(raw))
	case TypeString:
		valOff := binary.BigEndian.Uint32(raw)
		s, err := table.At(valOff)
		if err != nil {
			return Property{}, 0, fmt.Errorf("property value offset %d not in string table", valOff)
		}
		value = s
	case TypeBoolean:
		value = raw[0] != 0
	case TypeInt64:
		value = int64(binary.BigEndian.Uint64(raw))
	case TypeFloat64:
		value = math.Float64frombits(binary.BigEndian.Uint64(raw))
	}
	return Property{Name: name, Type: typ, Value: value}, size, nil
}
