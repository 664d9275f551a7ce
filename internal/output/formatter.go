// Package output renders an engine.ExecutionResult for a human or
// machine consumer: a small Formatter interface plus a name-keyed
// factory, so the CLI picks a rendering strategy without a type
// switch of its own.
package output

import (
	"fmt"
	"strings"

	"nexumdb/internal/engine"
)

// Format is an enum of the supported rendering strategies.
type Format string

const (
	FormatHuman   Format = "human"
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
)

// Formatter renders a single ExecutionResult as a string.
type Formatter interface {
	Format(engine.ExecutionResult) (string, error)
}

// NewFormatter builds a Formatter for name. An empty name defaults to
// the human-readable table format.
func NewFormatter(name string) (Formatter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "", FormatHuman:
		return humanFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	case FormatSummary:
		return summaryFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s; use 'human', 'json', or 'summary'", name)
	}
}
