// Package coerce normalizes an incoming literal Value into the Value
// tagged with a column's declared type.
package coerce

import (
	"fmt"
	"strconv"
	"strings"

	"nexumdb/internal/value"
)

// MismatchError is the typed coercion failure, naming the offending
// column so the executor can surface a precise message.
type MismatchError struct {
	Column   string
	From, To value.Tag
	Reason   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("cannot coerce column %q from %s to %s: %s", e.Column, e.From, e.To, e.Reason)
}

// To coerces v into a Value tagged with target, naming column in any
// resulting error. Null input always passes through as Null,
// regardless of target.
func To(column string, target value.Tag, v value.Value) (value.Value, error) {
	if v.Tag == value.Null {
		return value.Nil(), nil
	}
	switch target {
	case value.Integer:
		return toInteger(column, v)
	case value.Float:
		return toFloat(column, v)
	case value.Text:
		return toText(column, v), nil
	case value.Boolean:
		return toBoolean(column, v)
	default:
		return value.Value{}, &MismatchError{Column: column, From: v.Tag, To: target, Reason: "unsupported target type"}
	}
}

func toInteger(column string, v value.Value) (value.Value, error) {
	switch v.Tag {
	case value.Integer:
		return v, nil
	case value.Float:
		if v.F != float64(int64(v.F)) {
			return value.Value{}, &MismatchError{Column: column, From: v.Tag, To: value.Integer, Reason: "float has a non-zero fractional part"}
		}
		return value.Int(int64(v.F)), nil
	case value.Text:
		i, err := strconv.ParseInt(strings.TrimSpace(v.S), 10, 64)
		if err != nil {
			return value.Value{}, &MismatchError{Column: column, From: v.Tag, To: value.Integer, Reason: "not a valid integer literal"}
		}
		return value.Int(i), nil
	case value.Boolean:
		if v.B {
			return value.Int(1), nil
		}
		return value.Int(0), nil
	default:
		return value.Value{}, &MismatchError{Column: column, From: v.Tag, To: value.Integer, Reason: "no conversion defined"}
	}
}

func toFloat(column string, v value.Value) (value.Value, error) {
	switch v.Tag {
	case value.Integer:
		return value.Flt(float64(v.I)), nil
	case value.Float:
		return v, nil
	case value.Text:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.S), 64)
		if err != nil {
			return value.Value{}, &MismatchError{Column: column, From: v.Tag, To: value.Float, Reason: "not a valid float literal"}
		}
		return value.Flt(f), nil
	case value.Boolean:
		if v.B {
			return value.Flt(1.0), nil
		}
		return value.Flt(0.0), nil
	default:
		return value.Value{}, &MismatchError{Column: column, From: v.Tag, To: value.Float, Reason: "no conversion defined"}
	}
}

func toText(_ string, v value.Value) value.Value {
	switch v.Tag {
	case value.Integer:
		return value.Str(strconv.FormatInt(v.I, 10))
	case value.Float:
		return value.Str(strconv.FormatFloat(v.F, 'g', -1, 64))
	case value.Text:
		return v
	case value.Boolean:
		if v.B {
			return value.Str("true")
		}
		return value.Str("false")
	default:
		return value.Str("")
	}
}

func toBoolean(column string, v value.Value) (value.Value, error) {
	switch v.Tag {
	case value.Integer:
		switch v.I {
		case 0:
			return value.Bool(false), nil
		case 1:
			return value.Bool(true), nil
		default:
			return value.Value{}, &MismatchError{Column: column, From: v.Tag, To: value.Boolean, Reason: "integer must be 0 or 1"}
		}
	case value.Float:
		switch v.F {
		case 0.0:
			return value.Bool(false), nil
		case 1.0:
			return value.Bool(true), nil
		default:
			return value.Value{}, &MismatchError{Column: column, From: v.Tag, To: value.Boolean, Reason: "float must be 0.0 or 1.0"}
		}
	case value.Text:
		switch strings.ToLower(strings.TrimSpace(v.S)) {
		case "true", "1":
			return value.Bool(true), nil
		case "false", "0":
			return value.Bool(false), nil
		default:
			return value.Value{}, &MismatchError{Column: column, From: v.Tag, To: value.Boolean, Reason: `expected "true"/"false"/"1"/"0"`}
		}
	case value.Boolean:
		return v, nil
	default:
		return value.Value{}, &MismatchError{Column: column, From: v.Tag, To: value.Boolean, Reason: "no conversion defined"}
	}
}
