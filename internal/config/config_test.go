package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nexum.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadMemoryConfig(t *testing.T) {
	path := writeTemp(t, `
[store]
durability = "memory"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Durability)
}

func TestLoadSqliteConfigRequiresPath(t *testing.T) {
	path := writeTemp(t, `
[store]
durability = "sqlite"
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadSqliteConfigWithPath(t *testing.T) {
	path := writeTemp(t, `
[store]
durability = "sqlite"
path = "/tmp/nexum.db"

[cache]
file = "/tmp/nexum-cache.json"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/nexum.db", cfg.Store.Path)
	assert.Equal(t, "/tmp/nexum-cache.json", cfg.Cache.File)
}

func TestDefaultConfigIsMemory(t *testing.T) {
	assert.Equal(t, "memory", Default().Store.Durability)
}
