package value

import (
	"encoding/json"
	"fmt"
)

// jsonValue is the on-the-wire shape for a Value at the CLI/JSON
// boundary (statement literals, config-driven test fixtures). This is
// a separate, simpler encoding from rowcodec's: rowcodec's wireValue
// is a storage-format concern for persisted rows, this one is a
// human-authorable DTO for callers building a Statement by hand.
type jsonValue struct {
	Tag string   `json:"tag"`
	I   *int64   `json:"i,omitempty"`
	F   *float64 `json:"f,omitempty"`
	S   *string  `json:"s,omitempty"`
	B   *bool    `json:"b,omitempty"`
}

// MarshalJSON renders v as a tagged JSON object.
func (v Value) MarshalJSON() ([]byte, error) {
	jv := jsonValue{Tag: v.Tag.String()}
	switch v.Tag {
	case Integer:
		jv.I = &v.I
	case Float:
		jv.F = &v.F
	case Text:
		jv.S = &v.S
	case Boolean:
		jv.B = &v.B
	}
	return json.Marshal(jv)
}

// UnmarshalJSON parses a tagged JSON object produced by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var jv jsonValue
	if err := json.Unmarshal(data, &jv); err != nil {
		return err
	}
	tag := ParseTag(jv.Tag)
	switch tag {
	case Integer:
		if jv.I == nil {
			return fmt.Errorf("value: Integer requires field \"i\"")
		}
		*v = Int(*jv.I)
	case Float:
		if jv.F == nil {
			return fmt.Errorf("value: Float requires field \"f\"")
		}
		*v = Flt(*jv.F)
	case Text:
		if jv.S == nil {
			return fmt.Errorf("value: Text requires field \"s\"")
		}
		*v = Str(*jv.S)
	case Boolean:
		if jv.B == nil {
			return fmt.Errorf("value: Boolean requires field \"b\"")
		}
		*v = Bool(*jv.B)
	default:
		*v = Nil()
	}
	return nil
}
