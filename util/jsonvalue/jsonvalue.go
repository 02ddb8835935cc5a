// Package jsonvalue is a small tagged-union representation of JSON documents.
// Unlike map[string]any it keeps object members in document order,
// so walking a document is deterministic.
package jsonvalue

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
)

var (
	ErrInvalid = fmt.Errorf("invalid json")
)

type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Member struct {
	Key   string
	Value *Value
}

// Value is one JSON value. Only the field matching Kind is meaningful.
type Value struct {
	Kind    Kind
	Bool    bool
	Num     json.Number // number literal as written in the source
	Str     string
	Items   []*Value
	Members []Member
}

// Parse parses a complete JSON document.
func Parse(data []byte) (*Value, error) {
	if !json.Valid(data) {
		return nil, ErrInvalid
	}
	raw, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return build(raw, typ)
}

func build(raw []byte, typ jsonparser.ValueType) (*Value, error) {
	switch typ {
	case jsonparser.Null:
		return &Value{Kind: Null}, nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: Bool, Bool: b}, nil
	case jsonparser.Number:
		return &Value{Kind: Number, Num: json.Number(raw)}, nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: String, Str: s}, nil
	case jsonparser.Array:
		v := &Value{Kind: Array}
		var itemErr error
		_, err := jsonparser.ArrayEach(raw, func(item []byte, t jsonparser.ValueType, _ int, e error) {
			if itemErr != nil {
				return
			}
			if e != nil {
				itemErr = e
				return
			}
			child, e := build(item, t)
			if e != nil {
				itemErr = e
				return
			}
			v.Items = append(v.Items, child)
		})
		if err == nil {
			err = itemErr
		}
		if err != nil {
			return nil, err
		}
		return v, nil
	case jsonparser.Object:
		v := &Value{Kind: Object}
		err := jsonparser.ObjectEach(raw, func(key []byte, item []byte, t jsonparser.ValueType, _ int) error {
			k, err := jsonparser.ParseString(key)
			if err != nil {
				return err
			}
			child, err := build(item, t)
			if err != nil {
				return err
			}
			v.Members = append(v.Members, Member{Key: k, Value: child})
			return nil
		})
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: unexpected value type %s", ErrInvalid, typ)
}

// Get returns the member named key of an object. A JSON object may repeat a key;
// the last one wins, same as encoding/json. Returns nil if v is not an object or has no such member.
func (v *Value) Get(key string) *Value {
	if v == nil || v.Kind != Object {
		return nil
	}
	var found *Value
	for _, m := range v.Members {
		if m.Key == key {
			found = m.Value
		}
	}
	return found
}

// Path is a chained Get: v.Path("a", "b") == v.Get("a").Get("b").
func (v *Value) Path(keys ...string) *Value {
	for _, key := range keys {
		v = v.Get(key)
	}
	return v
}

func (v *Value) IsString() bool {
	return v != nil && v.Kind == String
}

// String returns the string payload, or "" if v is not a string.
func (v *Value) String() string {
	if v == nil || v.Kind != String {
		return ""
	}
	return v.Str
}

// TrimmedString returns the whitespace-trimmed string payload.
func (v *Value) TrimmedString() string {
	return strings.TrimSpace(v.String())
}

// Scalar returns the Go value of a number (json.Number), string or bool.
// Null, arrays and objects report ok=false.
func (v *Value) Scalar() (value any, ok bool) {
	if v == nil {
		return nil, false
	}
	switch v.Kind {
	case Number:
		return v.Num, true
	case String:
		return v.Str, true
	case Bool:
		return v.Bool, true
	}
	return nil, false
}
