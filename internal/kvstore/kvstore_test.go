package kvstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testStoreContract(t *testing.T, store Store) {
	t.Helper()
	defer store.Close()

	_, ok, err := store.Get([]byte("missing"))
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set([]byte("data:users:1"), []byte("alice")))
	require.NoError(t, store.Set([]byte("data:users:2"), []byte("bob")))
	require.NoError(t, store.Set([]byte("data:orders:1"), []byte("order-1")))

	v, ok, err := store.Get([]byte("data:users:1"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "alice", string(v))

	rows, err := store.ScanPrefix([]byte("data:users:"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "data:users:1", string(rows[0].Key))
	require.Equal(t, "data:users:2", string(rows[1].Key))

	require.NoError(t, store.Delete([]byte("data:users:1")))
	rows, err = store.ScanPrefix([]byte("data:users:"))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, store.BatchSet([]KV{
		{Key: []byte("data:users:3"), Value: []byte("carol")},
		{Key: []byte("data:users:4"), Value: []byte("dave")},
	}))
	rows, err = store.ScanPrefix([]byte("data:users:"))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.NoError(t, store.Flush())
}

func TestMemoryStoreContract(t *testing.T) {
	testStoreContract(t, NewMemory())
}

func TestSQLiteStoreContract(t *testing.T) {
	store, err := OpenMemory()
	require.NoError(t, err)
	testStoreContract(t, store)
}

func TestSQLiteStorePersistsToDisk(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/engine.db"

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set([]byte("catalog:users"), []byte(`{"name":"users"}`)))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get([]byte("catalog:users"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"name":"users"}`, string(v))
}

func TestDeleteMissingKeyIsNotError(t *testing.T) {
	for _, store := range []Store{NewMemory()} {
		require.NoError(t, store.Delete([]byte("nope")))
	}
}
