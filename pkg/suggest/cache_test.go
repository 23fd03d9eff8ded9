package suggest

import (
	"testing"

	"github.com/bastiangx/prefixrank/pkg/prefixtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func res(v string, w float64) []prefixtree.Result[string] {
	return []prefixtree.Result[string]{{Value: v, Weight: w}}
}

func TestQueryCacheGetPut(t *testing.T) {
	qc := NewQueryCache[string](4)
	_, ok := qc.Get([]byte("he"), 3)
	assert.False(t, ok)

	qc.Put([]byte("he"), 3, res("hello", 2))
	got, ok := qc.Get([]byte("he"), 3)
	require.True(t, ok)
	assert.Equal(t, res("hello", 2), got)

	// Another limit is another answer.
	_, ok = qc.Get([]byte("he"), 5)
	assert.False(t, ok)

	// Callers get their own copy.
	got[0].Value = "mutated"
	again, _ := qc.Get([]byte("he"), 3)
	assert.Equal(t, "hello", again[0].Value)

	stats := qc.Stats()
	assert.Equal(t, 1, stats["cacheEntries"])
	assert.Equal(t, 2, stats["cacheHits"])
	assert.Equal(t, 2, stats["cacheMisses"])
}

func TestQueryCacheEmptyQuery(t *testing.T) {
	qc := NewQueryCache[string](4)
	qc.Put(nil, 0, res("a", 1))
	got, ok := qc.Get([]byte{}, 0)
	require.True(t, ok)
	assert.Equal(t, res("a", 1), got)

	qc.InvalidateInsert([]byte("xyz"))
	_, ok = qc.Get(nil, 0)
	assert.False(t, ok)
}

func TestQueryCacheInvalidateInsert(t *testing.T) {
	qc := NewQueryCache[string](8)
	for _, q := range []string{"h", "he", "hel", "hex", "a"} {
		qc.Put([]byte(q), 0, res(q, 1))
	}

	qc.InvalidateInsert([]byte("help"))
	for q, cached := range map[string]bool{"h": false, "he": false, "hel": false, "hex": true, "a": true} {
		_, ok := qc.Get([]byte(q), 0)
		assert.Equal(t, cached, ok, q)
	}
	assert.Equal(t, 2, qc.Stats()["cacheEntries"])
}

func TestQueryCacheInvalidateRemove(t *testing.T) {
	qc := NewQueryCache[string](8)
	for _, q := range []string{"h", "he", "hel", "help", "hex", "a"} {
		qc.Put([]byte(q), 0, res(q, 1))
		qc.Put([]byte(q), 2, res(q, 1))
	}

	qc.InvalidateRemove([]byte("hel"))
	for q, cached := range map[string]bool{"h": false, "he": false, "hel": false, "help": false, "hex": true, "a": true} {
		_, ok := qc.Get([]byte(q), 2)
		assert.Equal(t, cached, ok, q)
	}
	assert.Equal(t, 4, qc.Stats()["cacheEntries"])
}

func TestQueryCacheClear(t *testing.T) {
	qc := NewQueryCache[string](8)
	qc.Put([]byte("a"), 0, res("a", 1))
	qc.Put([]byte("b"), 1, res("b", 1))
	qc.Clear()

	_, ok := qc.Get([]byte("a"), 0)
	assert.False(t, ok)
	assert.Zero(t, qc.Stats()["cacheEntries"])
}

func TestQueryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	qc := NewQueryCache[string](2)
	qc.Put([]byte("a"), 0, res("a", 1))
	qc.Put([]byte("b"), 0, res("b", 1))
	_, _ = qc.Get([]byte("a"), 0)

	qc.Put([]byte("c"), 0, res("c", 1))
	_, ok := qc.Get([]byte("b"), 0)
	assert.False(t, ok)
	_, ok = qc.Get([]byte("a"), 0)
	assert.True(t, ok)
	_, ok = qc.Get([]byte("c"), 0)
	assert.True(t, ok)
	assert.Equal(t, 2, qc.Stats()["cacheEntries"])
}

func TestQueryCacheDisabled(t *testing.T) {
	qc := NewQueryCache[string](0)
	qc.Put([]byte("a"), 0, res("a", 1))
	_, ok := qc.Get([]byte("a"), 0)
	assert.False(t, ok)
	assert.Zero(t, qc.Stats()["cacheEntries"])
}

func TestKeyEncodingsArePrefixFree(t *testing.T) {
	// A word key must not be a byte prefix of a longer word's key.
	assert.NotEqual(t, encodeWords([]string{"how"})[:4], encodeWords([]string{"howl"})[:4])
	assert.Equal(t, encodeWords([]string{"how"}), encodeWords([]string{"how", "to"})[:4])

	assert.Equal(t, encodeIntervals([]int{-5}), encodeIntervals([]int{-5, 3})[:len(encodeIntervals([]int{-5}))])
	assert.NotEqual(t, encodeIntervals([]int{1}), encodeIntervals([]int{-1}))
	assert.Equal(t, []byte("hé"), encodeRunes([]rune("hé")))
}
