package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ValueKind identifies the shape of a configurator option value.
type ValueKind int

const (
	KindEmpty ValueKind = iota
	KindFlag
	KindScalar
	KindNamed
	KindNested
)

// String returns the kind name
func (k ValueKind) String() string {
	switch k {
	case KindFlag:
		return "flag"
	case KindScalar:
		return "scalar"
	case KindNamed:
		return "named"
	case KindNested:
		return "nested"
	default:
		return "empty"
	}
}

// OptionField is one key/value pair of an option object. Order matters.
type OptionField struct {
	Key   string
	Value OptionValue
}

// OptionValue is a tagged union over the shapes the storefront sends:
// Empty, Flag(bool), Scalar(string), Named(name) and Nested(fields).
//
// Named values keep every field of the original object so they can be
// serialized back without loss; only the display name is used for rendering.
type OptionValue struct {
	kind    ValueKind
	text    string
	numeric bool
	flag    bool
	fields  []OptionField
}

// EmptyValue returns the absent value.
func EmptyValue() OptionValue { return OptionValue{kind: KindEmpty} }

// FlagValue wraps a boolean.
func FlagValue(b bool) OptionValue { return OptionValue{kind: KindFlag, flag: b} }

// ScalarValue wraps a string.
func ScalarValue(s string) OptionValue { return OptionValue{kind: KindScalar, text: s} }

// NumberValue wraps a JSON number literal.
func NumberValue(literal string) OptionValue {
	return OptionValue{kind: KindScalar, text: literal, numeric: true}
}

// NamedValue builds a value displayed by name.
func NamedValue(name string, fields ...OptionField) OptionValue {
	if len(fields) == 0 {
		fields = []OptionField{{Key: "name", Value: ScalarValue(name)}}
	}
	return OptionValue{kind: KindNamed, text: name, fields: fields}
}

// NestedValue builds an object value from ordered fields.
func NestedValue(fields ...OptionField) OptionValue {
	return OptionValue{kind: KindNested, fields: fields}
}

// Field is shorthand for building an OptionField.
func Field(key string, value OptionValue) OptionField {
	return OptionField{Key: key, Value: value}
}

// Kind returns the value's tag
func (v OptionValue) Kind() ValueKind { return v.kind }

// Text returns the scalar text or the display name of a Named value
func (v OptionValue) Text() string { return v.text }

// Bool returns the flag
func (v OptionValue) Bool() bool { return v.flag }

// IsNumeric reports whether a scalar came from a JSON number
func (v OptionValue) IsNumeric() bool { return v.numeric }

// Fields returns the ordered fields of Named and Nested values
func (v OptionValue) Fields() []OptionField { return v.fields }

// Lookup returns the field with the given key.
func (v OptionValue) Lookup(key string) (OptionValue, bool) {
	for _, f := range v.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return OptionValue{}, false
}

// IsPresent reports whether the value should be rendered.
// Null, false, "", numeric zero and objects without any present field are absent.
func (v OptionValue) IsPresent() bool {
	switch v.kind {
	case KindFlag:
		return v.flag
	case KindScalar:
		if v.text == "" {
			return false
		}
		if v.numeric {
			f, err := strconv.ParseFloat(v.text, 64)
			return err != nil || f != 0
		}
		return true
	case KindNamed:
		return true
	case KindNested:
		for _, f := range v.fields {
			if f.Value.IsPresent() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// String renders the value the way a loosely typed client would stringify it.
func (v OptionValue) String() string {
	switch v.kind {
	case KindFlag:
		return strconv.FormatBool(v.flag)
	case KindScalar, KindNamed:
		return v.text
	case KindNested:
		b, err := v.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return ""
	}
}

// UnmarshalJSON decodes any JSON value, keeping object key order.
func (v *OptionValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	decoded, err := decodeOptionValue(dec)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// MarshalJSON encodes the value, keeping object key order.
func (v OptionValue) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v OptionValue) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindFlag:
		buf.WriteString(strconv.FormatBool(v.flag))
	case KindScalar:
		if v.numeric {
			buf.WriteString(v.text)
			return nil
		}
		b, err := json.Marshal(v.text)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindNamed, KindNested:
		return encodeFields(buf, v.fields)
	default:
		buf.WriteString("null")
	}
	return nil
}

func encodeFields(buf *bytes.Buffer, fields []OptionField) error {
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := f.Value.encode(buf); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func decodeOptionValue(dec *json.Decoder) (OptionValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return OptionValue{}, err
	}

	switch t := tok.(type) {
	case nil:
		return EmptyValue(), nil
	case bool:
		return FlagValue(t), nil
	case string:
		return ScalarValue(t), nil
	case json.Number:
		return NumberValue(t.String()), nil
	case json.Delim:
		switch t {
		case '{':
			fields, err := decodeObjectFields(dec)
			if err != nil {
				return OptionValue{}, err
			}
			return objectValue(fields), nil
		case '[':
			var fields []OptionField
			for i := 0; dec.More(); i++ {
				item, err := decodeOptionValue(dec)
				if err != nil {
					return OptionValue{}, err
				}
				fields = append(fields, Field(strconv.Itoa(i), item))
			}
			if _, err := dec.Token(); err != nil {
				return OptionValue{}, err
			}
			return NestedValue(fields...), nil
		}
	}

	return OptionValue{}, fmt.Errorf("unexpected JSON token %v", tok)
}

// decodeObjectFields reads the members of an object whose '{' has been consumed.
// A repeated key keeps its first position and its last value.
func decodeObjectFields(dec *json.Decoder) ([]OptionField, error) {
	var fields []OptionField
	index := make(map[string]int)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", keyTok)
		}
		value, err := decodeOptionValue(dec)
		if err != nil {
			return nil, err
		}
		if i, seen := index[key]; seen {
			fields[i].Value = value
			continue
		}
		index[key] = len(fields)
		fields = append(fields, Field(key, value))
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return fields, nil
}

func objectValue(fields []OptionField) OptionValue {
	for _, f := range fields {
		if f.Key == "name" && f.Value.IsPresent() {
			return OptionValue{kind: KindNamed, text: f.Value.String(), fields: fields}
		}
	}
	return NestedValue(fields...)
}

// OptionCategory is one configurator section, e.g. "BRODERI".
type OptionCategory struct {
	Key     string
	Options []OptionField
}

// HasPresentOptions reports whether any option in the category would render.
func (c OptionCategory) HasPresentOptions() bool {
	for _, o := range c.Options {
		if o.Value.IsPresent() {
			return true
		}
	}
	return false
}

// SelectedOptions is the ordered category → options tree from the configurator.
type SelectedOptions struct {
	Categories []OptionCategory
}

// ErrOptionsNotObject is returned when selectedOptions is not a JSON object.
var ErrOptionsNotObject = errors.New("selectedOptions must be a JSON object")

// UnmarshalJSON decodes the tree keeping category and option order.
// A category whose value is not an object becomes a single option keyed by
// the category name.
func (s *SelectedOptions) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrOptionsNotObject
	}

	fields, err := decodeObjectFields(dec)
	if err != nil {
		return err
	}

	categories := make([]OptionCategory, 0, len(fields))
	for _, f := range fields {
		category := OptionCategory{Key: f.Key}
		switch f.Value.Kind() {
		case KindNamed, KindNested:
			category.Options = f.Value.Fields()
		default:
			category.Options = []OptionField{f}
		}
		categories = append(categories, category)
	}

	s.Categories = categories
	return nil
}

// MarshalJSON encodes the tree as an ordered object.
func (s SelectedOptions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range s.Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := encodeFields(&buf, c.Options); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
