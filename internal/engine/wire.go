package engine

import (
	"encoding/json"
	"fmt"

	"nexumdb/internal/eval"
)

// WireStatement is the JSON encoding of a Statement, the shape a CLI
// or embedding caller builds by hand in place of a surface SQL parser.
// Kind selects which fields apply.
type WireStatement struct {
	Kind string `json:"kind"`

	Table    string         `json:"table,omitempty"`
	Columns  []CreateColumn `json:"columns,omitempty"`
	IfExists bool           `json:"if_exists,omitempty"`

	InsertColumns []string            `json:"insert_columns,omitempty"`
	Rows          [][]json.RawMessage `json:"rows,omitempty"`

	Projection []ProjectionItem `json:"projection,omitempty"`
	Predicate  json.RawMessage  `json:"predicate,omitempty"`
	Order      []OrderKey       `json:"order,omitempty"`
	Limit      *int             `json:"limit,omitempty"`

	Assignments []wireAssignment `json:"assignments,omitempty"`
}

type wireAssignment struct {
	Column string          `json:"column"`
	Value  json.RawMessage `json:"value"`
}

// DecodeStatement parses raw JSON into a Statement.
func DecodeStatement(raw []byte) (Statement, error) {
	var w WireStatement
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("engine: decode statement: %w", err)
	}

	switch w.Kind {
	case "create_table":
		return CreateTable{Table: w.Table, Columns: w.Columns}, nil

	case "drop_table":
		return DropTable{Table: w.Table, IfExists: w.IfExists}, nil

	case "show_tables":
		return ShowTables{}, nil

	case "describe_table":
		return DescribeTable{Table: w.Table}, nil

	case "insert":
		rows := make([][]InsertValue, len(w.Rows))
		for i, row := range w.Rows {
			iv := make([]InsertValue, len(row))
			for j, raw := range row {
				v, err := decodeLiteral(raw)
				if err != nil {
					return nil, err
				}
				iv[j] = InsertValue{Value: v}
			}
			rows[i] = iv
		}
		return Insert{Table: w.Table, Columns: w.InsertColumns, Rows: rows}, nil

	case "select":
		predicate, err := eval.DecodeExprJSON(w.Predicate)
		if err != nil {
			return nil, err
		}
		s := Select{Table: w.Table, Projection: w.Projection, Predicate: predicate, Order: w.Order}
		if w.Limit != nil {
			s.Limit = *w.Limit
			s.HasLimit = true
		}
		return s, nil

	case "update":
		predicate, err := eval.DecodeExprJSON(w.Predicate)
		if err != nil {
			return nil, err
		}
		assignments := make([]Assignment, len(w.Assignments))
		for i, a := range w.Assignments {
			v, err := decodeLiteral(a.Value)
			if err != nil {
				return nil, err
			}
			assignments[i] = Assignment{Column: a.Column, Value: InsertValue{Value: v}}
		}
		return Update{Table: w.Table, Assignments: assignments, Predicate: predicate}, nil

	case "delete":
		predicate, err := eval.DecodeExprJSON(w.Predicate)
		if err != nil {
			return nil, err
		}
		return Delete{Table: w.Table, Predicate: predicate}, nil

	default:
		return nil, fmt.Errorf("engine: unknown statement kind %q", w.Kind)
	}
}

// decodeLiteral unmarshals a single insert/assignment cell. JSON null
// decodes to Go nil (literalToValue's Null case); a number decodes to
// float64 when its token contains a '.' or an exponent (or its value
// has a fractional part), and to int64 otherwise.
func decodeLiteral(raw json.RawMessage) (any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("engine: decode literal: %w", err)
	}
	switch x := generic.(type) {
	case float64:
		if x == float64(int64(x)) && !jsonLooksFloat(raw) {
			return int64(x), nil
		}
		return x, nil
	default:
		return generic, nil
	}
}

// jsonLooksFloat reports whether the raw JSON number token contains a
// decimal point or exponent, so "7" decodes as an integer literal but
// "7.0" decodes as a float literal even though both round-trip to the
// same float64 value.
func jsonLooksFloat(raw json.RawMessage) bool {
	for _, b := range raw {
		if b == '.' || b == 'e' || b == 'E' {
			return true
		}
	}
	return false
}
