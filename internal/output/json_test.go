package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexumdb/internal/engine"
)

func TestJSONFormatIncludesKind(t *testing.T) {
	out, err := jsonFormatter{}.Format(engine.Inserted{Table: "t", Rows: 2})
	require.NoError(t, err)
	assert.Contains(t, out, `"kind": "inserted"`)
	assert.Contains(t, out, `"Rows": 2`)
}

func TestJSONFormatUnknownType(t *testing.T) {
	_, err := jsonFormatter{}.Format(nil)
	require.Error(t, err)
}
