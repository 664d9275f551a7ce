// Package value implements the tagged-union Value type shared by every
// layer of the engine: rows, literals, comparisons, and coercions all
// dispatch on its Tag rather than on a type hierarchy.
package value

import (
	"fmt"
	"math"
)

// Tag identifies which field of a Value is meaningful.
type Tag int

const (
	Integer Tag = iota
	Float
	Text
	Boolean
	Null
)

// String renders the tag name, used in error messages and the catalog's
// discriminator vocabulary.
func (t Tag) String() string {
	switch t {
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case Text:
		return "Text"
	case Boolean:
		return "Boolean"
	case Null:
		return "Null"
	default:
		return fmt.Sprintf("Tag(%d)", int(t))
	}
}

// ParseTag recovers a Tag from its discriminator string. Unknown
// strings map to Null.
func ParseTag(s string) Tag {
	switch s {
	case "Integer":
		return Integer
	case "Float":
		return Float
	case "Text":
		return Text
	case "Boolean":
		return Boolean
	default:
		return Null
	}
}

// Value is a tagged union over the five value kinds the engine knows
// about. Only the field matching Tag is meaningful.
type Value struct {
	Tag Tag
	I   int64
	F   float64
	S   string
	B   bool
}

func Int(i int64) Value   { return Value{Tag: Integer, I: i} }
func Flt(f float64) Value { return Value{Tag: Float, F: f} }
func Str(s string) Value  { return Value{Tag: Text, S: s} }
func Bool(b bool) Value   { return Value{Tag: Boolean, B: b} }
func Nil() Value          { return Value{Tag: Null} }

// IsNull reports whether v carries the Null tag.
func (v Value) IsNull() bool { return v.Tag == Null }

// Raw returns the Go-native representation of v, useful for callers that
// just want to print or marshal the value without caring about the tag.
func (v Value) Raw() any {
	switch v.Tag {
	case Integer:
		return v.I
	case Float:
		return v.F
	case Text:
		return v.S
	case Boolean:
		return v.B
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.Tag {
	case Integer:
		return fmt.Sprintf("%d", v.I)
	case Float:
		return fmt.Sprintf("%g", v.F)
	case Text:
		return v.S
	case Boolean:
		if v.B {
			return "true"
		}
		return "false"
	default:
		return "NULL"
	}
}

// floatEpsilon is the smallest representable f64 epsilon, used for the
// same-tag float equality rule. This makes float equality effectively
// bit-equality; that is a deliberately preserved quirk, not a bug to
// fix.
const floatEpsilon = 2.220446049250313e-16

// CompareResult is the outcome of a same-tag comparison.
type CompareResult int

const (
	Less    CompareResult = -1
	Equal   CompareResult = 0
	Greater CompareResult = 1
)

// ErrCrossTag is returned by Compare when the two operands carry
// different tags and neither is the null/null special case.
type ErrCrossTag struct {
	Left, Right Tag
}

func (e *ErrCrossTag) Error() string {
	return fmt.Sprintf("cannot compare %s with %s", e.Left, e.Right)
}

// Compare implements the same-tag comparison rule:
// cross-tag comparisons are errors except null = null, which compares
// Equal, and null vs anything else, which also errors (callers that
// need the "null compares unequal to everything but null" semantics
// special-case IsNull before calling Compare).
func Compare(a, b Value) (CompareResult, error) {
	if a.Tag != b.Tag {
		if a.Tag == Null && b.Tag == Null {
			return Equal, nil
		}
		return 0, &ErrCrossTag{Left: a.Tag, Right: b.Tag}
	}
	switch a.Tag {
	case Null:
		return Equal, nil
	case Integer:
		switch {
		case a.I < b.I:
			return Less, nil
		case a.I > b.I:
			return Greater, nil
		default:
			return Equal, nil
		}
	case Float:
		return compareFloat(a.F, b.F), nil
	case Text:
		switch {
		case a.S < b.S:
			return Less, nil
		case a.S > b.S:
			return Greater, nil
		default:
			return Equal, nil
		}
	case Boolean:
		switch {
		case a.B == b.B:
			return Equal, nil
		case !a.B && b.B:
			return Less, nil
		default:
			return Greater, nil
		}
	default:
		return 0, &ErrCrossTag{Left: a.Tag, Right: b.Tag}
	}
}

// compareFloat applies the epsilon-equality rule for "=" / "!=" while
// still giving a usable strict ordering for "<" / ">". NaN is treated
// as equal to everything for ordering purposes; this keeps a stable
// sort from panicking or producing an inconsistent order when a NaN
// sneaks in through coercion.
func compareFloat(a, b float64) CompareResult {
	if math.IsNaN(a) || math.IsNaN(b) {
		return Equal
	}
	if math.Abs(a-b) < floatEpsilon {
		return Equal
	}
	if a < b {
		return Less
	}
	return Greater
}

// SameTagEqual reports same-tag equality, special-casing null = null
// -> true.
func SameTagEqual(a, b Value) (bool, error) {
	if a.Tag == Null && b.Tag == Null {
		return true, nil
	}
	cmp, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return cmp == Equal, nil
}
