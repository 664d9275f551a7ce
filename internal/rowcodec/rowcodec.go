// Package rowcodec serializes Row tuples to and from the byte values
// stored under the per-table data prefix. Each Value is wrapped with
// its tag so decode failures are detectable per-row and null is
// distinguishable from the text "null".
package rowcodec

import (
	"encoding/json"
	"fmt"

	"nexumdb/internal/value"
)

// wireValue is the self-describing encoding of a single Value: t
// carries the tag discriminator, v the raw payload (absent for null).
type wireValue struct {
	T string          `json:"t"`
	V json.RawMessage `json:"v,omitempty"`
}

// DecodeError marks a row whose bytes could not be decoded. Per spec
// §4.3, this is non-fatal during reads (the row is skipped) but fatal
// on a committed path (UPDATE/DELETE).
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode row: %v", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// Encode serializes a Row's values to bytes.
func Encode(values []value.Value) ([]byte, error) {
	wire := make([]wireValue, len(values))
	for i, v := range values {
		w, err := encodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("encode value %d: %w", i, err)
		}
		wire[i] = w
	}
	raw, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	return raw, nil
}

func encodeValue(v value.Value) (wireValue, error) {
	switch v.Tag {
	case value.Integer:
		payload, err := json.Marshal(v.I)
		return wireValue{T: "int", V: payload}, err
	case value.Float:
		payload, err := json.Marshal(v.F)
		return wireValue{T: "float", V: payload}, err
	case value.Text:
		payload, err := json.Marshal(v.S)
		return wireValue{T: "text", V: payload}, err
	case value.Boolean:
		payload, err := json.Marshal(v.B)
		return wireValue{T: "bool", V: payload}, err
	case value.Null:
		return wireValue{T: "null"}, nil
	default:
		return wireValue{}, fmt.Errorf("unknown value tag %v", v.Tag)
	}
}

// Decode deserializes bytes produced by Encode back into a Row's
// values. Any structural failure is wrapped in a *DecodeError so
// callers can distinguish "corrupt row" from other errors.
func Decode(raw []byte) ([]value.Value, error) {
	var wire []wireValue
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, &DecodeError{Err: err}
	}
	values := make([]value.Value, len(wire))
	for i, w := range wire {
		v, err := decodeValue(w)
		if err != nil {
			return nil, &DecodeError{Err: fmt.Errorf("value %d: %w", i, err)}
		}
		values[i] = v
	}
	return values, nil
}

func decodeValue(w wireValue) (value.Value, error) {
	switch w.T {
	case "int":
		var i int64
		if err := json.Unmarshal(w.V, &i); err != nil {
			return value.Value{}, err
		}
		return value.Int(i), nil
	case "float":
		var f float64
		if err := json.Unmarshal(w.V, &f); err != nil {
			return value.Value{}, err
		}
		return value.Flt(f), nil
	case "text":
		var s string
		if err := json.Unmarshal(w.V, &s); err != nil {
			return value.Value{}, err
		}
		return value.Str(s), nil
	case "bool":
		var b bool
		if err := json.Unmarshal(w.V, &b); err != nil {
			return value.Value{}, err
		}
		return value.Bool(b), nil
	case "null":
		return value.Nil(), nil
	default:
		return value.Value{}, fmt.Errorf("unknown wire tag %q", w.T)
	}
}
