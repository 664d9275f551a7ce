package output

import (
	"encoding/json"
	"fmt"

	"nexumdb/internal/engine"
)

type jsonFormatter struct{}

// envelope tags every JSON result with a "kind" discriminator, the
// same convention engine.WireStatement uses on the input side, so a
// caller can dispatch on one field regardless of result shape.
type envelope struct {
	Kind   string `json:"kind"`
	Result any    `json:"result"`
}

func (jsonFormatter) Format(r engine.ExecutionResult) (string, error) {
	kind, err := resultKind(r)
	if err != nil {
		return "", err
	}
	raw, err := json.MarshalIndent(envelope{Kind: kind, Result: r}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("output: marshal result: %w", err)
	}
	return string(raw) + "\n", nil
}

func resultKind(r engine.ExecutionResult) (string, error) {
	switch r.(type) {
	case engine.Created:
		return "created", nil
	case engine.TableList:
		return "table_list", nil
	case engine.TableDescription:
		return "table_description", nil
	case engine.Inserted:
		return "inserted", nil
	case engine.Selected:
		return "selected", nil
	case engine.Updated:
		return "updated", nil
	case engine.Deleted:
		return "deleted", nil
	default:
		return "", fmt.Errorf("output: unsupported result type %T", r)
	}
}
