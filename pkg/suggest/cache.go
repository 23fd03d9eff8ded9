package suggest

import (
	"math"
	"slices"
	"sync"

	"github.com/bastiangx/prefixrank/pkg/prefixtree"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// keyMarker starts every cache key so the empty query still has a node.
const keyMarker = 0x01

type cacheKey struct {
	query string
	limit int
}

// QueryCache memoizes autocomplete results per encoded query and limit.
// Keys are prefix-free encodings of symbol sequences: one key is a byte
// prefix of another exactly when its query is a symbol prefix of the other.
// That lets inserts and removals drop only the answers they can change.
type QueryCache[V any] struct {
	trie       *patricia.Trie
	accessTime map[cacheKey]int64
	clock      int64
	maxEntries int
	hits       int64
	misses     int64
	mu         sync.Mutex
}

// NewQueryCache holds up to maxEntries (query, limit) answers. Zero disables it.
func NewQueryCache[V any](maxEntries int) *QueryCache[V] {
	return &QueryCache[V]{
		trie:       patricia.NewTrie(),
		accessTime: make(map[cacheKey]int64),
		maxEntries: max(maxEntries, 0),
	}
}

func cacheTrieKey(encoded []byte) patricia.Prefix {
	return append(patricia.Prefix{keyMarker}, encoded...)
}

// Get returns a copy of the cached answer for encoded and limit.
func (qc *QueryCache[V]) Get(encoded []byte, limit int) ([]prefixtree.Result[V], bool) {
	if qc.maxEntries == 0 {
		return nil, false
	}
	qc.mu.Lock()
	defer qc.mu.Unlock()

	if item := qc.trie.Get(cacheTrieKey(encoded)); item != nil {
		if results, ok := item.(map[int][]prefixtree.Result[V])[limit]; ok {
			qc.hits++
			qc.markAccessed(cacheKey{string(encoded), limit})
			return slices.Clone(results), true
		}
	}
	qc.misses++
	return nil, false
}

// Put stores results for encoded and limit, evicting the least recently
// used answer when full.
func (qc *QueryCache[V]) Put(encoded []byte, limit int, results []prefixtree.Result[V]) {
	if qc.maxEntries == 0 {
		return
	}
	qc.mu.Lock()
	defer qc.mu.Unlock()

	key := cacheKey{string(encoded), limit}
	if _, ok := qc.accessTime[key]; !ok && len(qc.accessTime) >= qc.maxEntries {
		qc.evictLRU()
	}

	trieKey := cacheTrieKey(encoded)
	byLimit, _ := qc.trie.Get(trieKey).(map[int][]prefixtree.Result[V])
	if byLimit == nil {
		byLimit = make(map[int][]prefixtree.Result[V], 1)
		qc.trie.Insert(trieKey, byLimit)
	}
	byLimit[limit] = slices.Clone(results)
	qc.markAccessed(key)
}

// InvalidateInsert drops every answer a value stored under encoded can
// change: the answers of all queries that are a prefix of it.
func (qc *QueryCache[V]) InvalidateInsert(encoded []byte) {
	if qc.maxEntries == 0 {
		return
	}
	qc.mu.Lock()
	defer qc.mu.Unlock()

	qc.drop(qc.collect(qc.trie.VisitPrefixes, cacheTrieKey(encoded)))
}

// InvalidateRemove drops the answers a removal of encoded can change: those
// of its prefixes and of every query extending it.
func (qc *QueryCache[V]) InvalidateRemove(encoded []byte) {
	if qc.maxEntries == 0 {
		return
	}
	qc.mu.Lock()
	defer qc.mu.Unlock()

	key := cacheTrieKey(encoded)
	stale := qc.collect(qc.trie.VisitPrefixes, key)
	stale = append(stale, qc.collect(qc.trie.VisitSubtree, key)...)
	qc.drop(stale)
}

// Clear drops every cached answer.
func (qc *QueryCache[V]) Clear() {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	qc.trie = patricia.NewTrie()
	clear(qc.accessTime)
}

// Stats reports cache size and hit counters.
func (qc *QueryCache[V]) Stats() map[string]int {
	qc.mu.Lock()
	defer qc.mu.Unlock()

	return map[string]int{
		"cacheEntries": len(qc.accessTime),
		"maxEntries":   qc.maxEntries,
		"cacheHits":    int(qc.hits),
		"cacheMisses":  int(qc.misses),
	}
}

type visitor func(patricia.Prefix, patricia.VisitorFunc) error

// collect lists the keys visit reaches. The trie must not change while a
// visit is running, so deletion happens afterwards.
func (qc *QueryCache[V]) collect(visit visitor, key patricia.Prefix) []string {
	var keys []string
	err := visit(key, func(p patricia.Prefix, item patricia.Item) error {
		keys = append(keys, string(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting query cache: %v", err)
	}
	return keys
}

func (qc *QueryCache[V]) drop(trieKeys []string) {
	for _, k := range trieKeys {
		item := qc.trie.Get(patricia.Prefix(k))
		byLimit, ok := item.(map[int][]prefixtree.Result[V])
		if !ok {
			continue
		}
		query := k[1:]
		for limit := range byLimit {
			delete(qc.accessTime, cacheKey{query, limit})
		}
		qc.trie.Delete(patricia.Prefix(k))
	}
}

func (qc *QueryCache[V]) markAccessed(key cacheKey) {
	qc.clock++
	qc.accessTime[key] = qc.clock
}

func (qc *QueryCache[V]) evictLRU() {
	var oldest cacheKey
	var oldestTime int64 = math.MaxInt64

	for key, t := range qc.accessTime {
		if t < oldestTime {
			oldestTime = t
			oldest = key
		}
	}
	if oldestTime == math.MaxInt64 {
		return
	}

	delete(qc.accessTime, oldest)
	trieKey := cacheTrieKey([]byte(oldest.query))
	if byLimit, ok := qc.trie.Get(trieKey).(map[int][]prefixtree.Result[V]); ok {
		delete(byLimit, oldest.limit)
		if len(byLimit) == 0 {
			qc.trie.Delete(trieKey)
		}
	}
	log.Debugf("Evicted query %q (limit %d) from cache", oldest.query, oldest.limit)
}
