package document

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

var (
	// ErrInvalidJSON is returned when the input is not well-formed JSON.
	ErrInvalidJSON = errors.New("invalid JSON")
	// ErrNotObject is returned when the top-level JSON value is not an object.
	ErrNotObject = errors.New("top-level JSON value is not an object")
	// ErrInvalidUTF8 is returned when the input is not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("input is not valid UTF-8")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse decodes a JSON object into a Mapping, preserving key order at every
// level.
func Parse(data []byte) (*Mapping, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, ErrInvalidUTF8
	}
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, ErrNotObject
	}
	return convertObject(root), nil
}

func convert(r gjson.Result) Value {
	switch {
	case r.IsObject():
		return convertObject(r)
	case r.IsArray():
		seq := Sequence{}
		r.ForEach(func(_, item gjson.Result) bool {
			seq = append(seq, convert(item))
			return true
		})
		return seq
	}

	switch r.Type {
	case gjson.String:
		return Scalar{Kind: KindString, Text: r.Str}
	case gjson.Number:
		return Scalar{Kind: KindNumber, Text: r.Raw}
	case gjson.True:
		return Scalar{Kind: KindBool, Text: "true"}
	case gjson.False:
		return Scalar{Kind: KindBool, Text: "false"}
	default:
		return Scalar{Kind: KindNull, Text: "null"}
	}
}

func convertObject(r gjson.Result) *Mapping {
	m := NewMapping()
	r.ForEach(func(key, val gjson.Result) bool {
		m.Set(key.String(), convert(val))
		return true
	})
	return m
}
