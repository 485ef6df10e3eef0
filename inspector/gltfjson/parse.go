package gltfjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Carmen-Shannon/oxy-loupe/common"
)

// Parse decodes a single JSON document into a Value.
// Object key order is preserved and numbers keep their integer/float spelling.
// Trailing whitespace (GLB JSON chunks are space padded) is accepted; any other
// trailing data is an error.
//
// Parameters:
//   - data: the JSON text
//
// Returns:
//   - Value: the decoded value
//   - error: error wrapping common.ErrFormat if data is not a single well-formed JSON value
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec, 0)
	if err != nil {
		return Value{}, fmt.Errorf("%w: failed to parse JSON: %w", common.ErrFormat, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, fmt.Errorf("%w: failed to parse JSON: trailing data after top-level value", common.ErrFormat)
	}
	return v, nil
}

// MaxDepth is the deepest array/object nesting Parse accepts, matching encoding/json.
const MaxDepth = 10000

func parseValue(dec *json.Decoder, depth int) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Number:
		return parseNumber(t)
	case json.Delim:
		if depth >= MaxDepth {
			return Value{}, fmt.Errorf("%w: nesting deeper than %d", common.ErrFormat, MaxDepth)
		}
		switch t {
		case '[':
			elems := []Value{}
			for dec.More() {
				e, err := parseValue(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				elems = append(elems, e)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return ArrayValue(elems...), nil
		case '{':
			members := []Member{}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := kt.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key is %T", kt)
				}
				val, err := parseValue(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				members = append(members, Member{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return ObjectValue(members...), nil
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

func parseNumber(n json.Number) (Value, error) {
	if !strings.ContainsAny(n.String(), ".eE") {
		if i, err := n.Int64(); err == nil {
			return IntValue(i), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return Value{}, fmt.Errorf("number %q: %w", n, err)
	}
	return FloatValue(f), nil
}
