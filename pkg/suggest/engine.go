package suggest

import (
	"sync"

	"github.com/bastiangx/prefixrank/internal/logger"
	"github.com/bastiangx/prefixrank/pkg/prefixtree"
	"github.com/charmbracelet/log"
)

// Engine guards a prefix tree for concurrent use and memoizes answers in a
// QueryCache. encode maps a prefix sequence to its cache key and must be
// prefix-free per symbol.
type Engine[V comparable, S comparable] struct {
	tree   prefixtree.Autocompleter[V, S]
	cache  *QueryCache[V]
	encode func([]S) []byte
	logger *log.Logger
	mu     sync.RWMutex
}

// NewEngine wraps tree. A cacheSize of 0 disables the cache.
func NewEngine[V comparable, S comparable](tree prefixtree.Autocompleter[V, S], cacheSize int, encode func([]S) []byte) *Engine[V, S] {
	return &Engine[V, S]{
		tree:   tree,
		cache:  NewQueryCache[V](cacheSize),
		encode: encode,
		logger: logger.New("engine"),
	}
}

// Insert stores value under prefix and drops the cached answers it changes.
func (e *Engine[V, S]) Insert(value V, weight float64, prefix []S) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.tree.Insert(value, weight, prefix); err != nil {
		return err
	}
	e.cache.InvalidateInsert(e.encode(prefix))
	e.logger.Debug("insert", "value", value, "weight", weight, "depth", len(prefix))
	return nil
}

// Autocomplete answers from the cache when it can.
func (e *Engine[V, S]) Autocomplete(prefix []S, limit int) []prefixtree.Result[V] {
	if limit < 0 {
		limit = prefixtree.NoLimit
	}
	key := e.encode(prefix)

	e.mu.RLock()
	defer e.mu.RUnlock()

	if results, ok := e.cache.Get(key, limit); ok {
		return results
	}
	results := e.tree.Autocomplete(prefix, limit)
	// Stored under the read lock so no writer can slip in between.
	e.cache.Put(key, limit, results)
	return results
}

// Remove deletes every value under prefix.
func (e *Engine[V, S]) Remove(prefix []S) {
	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.tree.Len()
	e.tree.Remove(prefix)
	if len(prefix) == 0 {
		e.cache.Clear()
	} else {
		e.cache.InvalidateRemove(e.encode(prefix))
	}
	e.logger.Debug("remove", "depth", len(prefix), "removed", before-e.tree.Len())
}

// Len returns the number of values stored.
func (e *Engine[V, S]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree.Len()
}

// Stats merges the tree shape, when the tree reports one, with cache counters.
func (e *Engine[V, S]) Stats() map[string]int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := map[string]int{"values": e.tree.Len()}
	if shaped, ok := e.tree.(interface{ Stats() map[string]int }); ok {
		for k, v := range shaped.Stats() {
			stats[k] = v
		}
	}
	for k, v := range e.cache.Stats() {
		stats[k] = v
	}
	return stats
}

// Validate checks the tree's invariants when the tree supports it.
func (e *Engine[V, S]) Validate() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if v, ok := e.tree.(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return nil
}
