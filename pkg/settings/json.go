package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// jsonDocument mirrors the settings JSON interchange schema:
//
//	{"settings": [{"key": ..., "valueType": ..., "defaultValue": ...}]}
type jsonDocument struct {
	Settings *[]jsonSetting `json:"settings"`
}

type jsonSetting struct {
	Key          string          `json:"key"`
	ValueType    string          `json:"valueType"`
	DefaultValue json.RawMessage `json:"defaultValue"`
}

// DecodeJSON parses a settings JSON document.
func DecodeJSON(data []byte) (*Settings, error) {
	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid settings JSON: %w", err)
	}
	if doc.Settings == nil {
		return nil, fmt.Errorf("settings JSON must contain a %q key", "settings")
	}

	s := New()
	for _, entry := range *doc.Settings {
		if entry.Key == "" {
			return nil, fmt.Errorf("settings JSON entry is missing a %q", "key")
		}
		typ, err := ParsePropertyType(entry.ValueType)
		if err != nil {
			return nil, fmt.Errorf("setting %q: %w", entry.Key, err)
		}
		if len(entry.DefaultValue) == 0 {
			return nil, fmt.Errorf("setting %q is missing a %q", entry.Key, "defaultValue")
		}
		value, err := jsonValue(typ, entry.DefaultValue)
		if err != nil {
			return nil, fmt.Errorf("invalid default value for setting %q: %w", entry.Key, err)
		}
		p, err := NewProperty(entry.Key, typ, value)
		if err != nil {
			return nil, err
		}
		if err := s.Add(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// jsonValue converts a raw JSON default value to the target type. Values may
// arrive as JSON numbers, booleans, or as strings parseable as the target
// type ("123" for a number, "true" for a boolean).
func jsonValue(typ PropertyType, raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	switch v := v.(type) {
	case json.Number:
		return numberValue(typ, v)
	case string:
		return ParseValue(typ, v)
	case bool:
		if typ != TypeBoolean {
			return nil, fmt.Errorf("expected %s, got boolean", typ)
		}
		return v, nil
	}
	return nil, fmt.Errorf("expected %s, got %T", typ, v)
}

// numberValue converts a JSON number. Integer targets reject fractional and
// out-of-range values instead of truncating them.
func numberValue(typ PropertyType, n json.Number) (any, error) {
	switch typ {
	case TypeInt32:
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %s", n)
		}
		if i < math.MinInt32 || i > math.MaxInt32 {
			return nil, fmt.Errorf("value %s out of range for number", n)
		}
		return int32(i), nil
	case TypeInt64:
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %s", n)
		}
		return i, nil
	case TypeFloat32:
		f, err := strconv.ParseFloat(n.String(), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid float value %s", n)
		}
		return float32(f), nil
	case TypeFloat64:
		f, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid double value %s", n)
		}
		return f, nil
	}
	return nil, fmt.Errorf("expected %s, got a number", typ)
}

// EncodeJSON serializes the document to the settings JSON schema, properties
// in document order.
func (s *Settings) EncodeJSON() ([]byte, error) {
	entries := make([]jsonSetting, 0, len(s.props))
	for _, p := range s.props {
		raw, err := json.Marshal(jsonDefault(p))
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", p.Name.Text(), err)
		}
		entries = append(entries, jsonSetting{
			Key:          p.Name.Text(),
			ValueType:    p.Type.String(),
			DefaultValue: raw,
		})
	}
	out, err := json.MarshalIndent(jsonDocument{Settings: &entries}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// jsonDefault unwraps SettingString values for JSON encoding.
func jsonDefault(p Property) any {
	if v, ok := p.Value.(SettingString); ok {
		return v.Text()
	}
	return p.Value
}
