// Package keyspace implements the deterministic key layout shared by
// the catalog and the executor: two disjoint byte-string prefixes
// carve the single KV namespace into a catalog region and a per-table
// data region.
package keyspace

import (
	"encoding/binary"
	"sync/atomic"
)

const (
	catalogPrefix = "catalog:"
	dataPrefix    = "data:"
)

// CatalogPrefix returns the byte-string prefix under which every
// catalog entry lives.
func CatalogPrefix() []byte {
	return []byte(catalogPrefix)
}

// CatalogKey returns the catalog key for the given table name:
// "catalog:" ∥ name.
func CatalogKey(table string) []byte {
	return []byte(catalogPrefix + table)
}

// DataPrefix returns the byte-string prefix under which every row of
// table lives: "data:" ∥ table ∥ ":". The trailing colon is mandatory:
// without it, a prefix scan for table "a" would also return rows of
// table "ab".
func DataPrefix(table string) []byte {
	return []byte(dataPrefix + table + ":")
}

// suffixCounter disambiguates row keys generated within the same
// nanosecond. A raw timestamp suffix is collision-prone on fast insert
// streams; this process-wide counter is added to the timestamp, so
// that with a non-decreasing clock every new suffix is strictly
// greater than the previous one and scan order matches insertion
// order.
var suffixCounter uint64

// NextSuffix returns a fresh, monotonically non-decreasing 8-byte
// sequence derived from nowNanos, the caller's wall-clock timestamp
// source (nanoseconds since epoch). Mixing in the counter with
// addition rather than overwriting preserves the big-endian
// byte-lexicographic ordering contract even when the clock does not
// advance between two calls in the same process.
func NextSuffix(nowNanos int64) []byte {
	n := atomic.AddUint64(&suffixCounter, 1)
	suffix := uint64(nowNanos) + n
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, suffix)
	return buf
}

// DataKey returns the row key for a single insert: the table's data
// prefix followed by an 8-byte big-endian monotonic suffix.
func DataKey(table string, suffix []byte) []byte {
	return append(DataPrefix(table), suffix...)
}

// nextPrefix returns the smallest byte string that is strictly greater
// than every string with the given prefix, i.e. the exclusive upper
// bound of a prefix range scan. A nil result means "no upper bound"
// (the prefix is all 0xFF bytes, or empty).
func nextPrefix(prefix []byte) []byte {
	upper := make([]byte, len(prefix))
	copy(upper, prefix)
	for i := len(upper) - 1; i >= 0; i-- {
		if upper[i] != 0xFF {
			upper[i]++
			return upper[:i+1]
		}
	}
	return nil
}

// PrefixBounds returns the inclusive lower bound and exclusive upper
// bound ([lo, hi)) describing every key with prefix. hi is nil when
// the scan is unbounded above.
func PrefixBounds(prefix []byte) (lo, hi []byte) {
	return prefix, nextPrefix(prefix)
}
