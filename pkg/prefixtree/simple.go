package prefixtree

import "slices"

// SimpleTree is the uncompressed prefix tree: every non-leaf child extends
// its parent's prefix by exactly one symbol.
//
// A SimpleTree is not safe for concurrent use.
type SimpleTree[V comparable, S comparable] struct {
	root *node[V, S]
	mode WeightMode
	opts options
}

// NewSimple returns an empty uncompressed tree aggregating weights by mode.
func NewSimple[V comparable, S comparable](mode WeightMode, opts ...Option) *SimpleTree[V, S] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &SimpleTree[V, S]{
		root: &node[V, S]{},
		mode: mode,
		opts: o,
	}
}

// Mode returns the weight mode fixed at construction.
func (t *SimpleTree[V, S]) Mode() WeightMode {
	return t.mode
}

// Len returns the number of distinct values stored.
func (t *SimpleTree[V, S]) Len() int {
	return t.root.count
}

// Weight returns the aggregate weight of the whole tree.
func (t *SimpleTree[V, S]) Weight() float64 {
	return t.root.weight
}

// Insert stores value with weight under prefix, adding to the weight of
// value when it is already present.
func (t *SimpleTree[V, S]) Insert(value V, weight float64, prefix []S) error {
	if err := checkInsert(weight, len(prefix), t.opts.maxDepth); err != nil {
		return err
	}
	t.insert(t.root, value, weight, prefix)
	return nil
}

// insert reports whether a new leaf was created beneath n.
func (t *SimpleTree[V, S]) insert(n *node[V, S], value V, weight float64, prefix []S) bool {
	depth := len(n.prefix)
	added := false

	if depth == len(prefix) {
		if i := n.findLeaf(value); i >= 0 {
			n.children[i].addWeight(weight)
			n.reposition(i)
		} else {
			n.insertChild(newLeaf[V, S](value, weight))
			added = true
		}
	} else if i := n.branch(prefix[depth], depth); i >= 0 {
		added = t.insert(n.children[i], value, weight, prefix)
		n.reposition(i)
	} else {
		child := &node[V, S]{prefix: slices.Clone(prefix[:depth+1])}
		added = t.insert(child, value, weight, prefix)
		n.insertChild(child)
	}

	n.recompute(t.mode)
	return added
}

// Autocomplete returns up to limit matches for prefix ordered by
// non-increasing weight. A limit <= 0 returns every match.
func (t *SimpleTree[V, S]) Autocomplete(prefix []S, limit int) []Result[V] {
	n := t.root
	for depth := 0; depth < len(prefix); depth++ {
		i := n.branch(prefix[depth], depth)
		if i < 0 {
			return nil
		}
		n = n.children[i]
	}
	return collect(n, limit, t.mode)
}

// Remove deletes every value whose prefix starts with prefix. Unknown
// prefixes are ignored.
func (t *SimpleTree[V, S]) Remove(prefix []S) {
	t.remove(t.root, prefix)
}

// remove returns how many values left the subtree of n.
func (t *SimpleTree[V, S]) remove(n *node[V, S], prefix []S) int {
	depth := len(n.prefix)
	if depth == len(prefix) {
		removed := n.count
		n.reset()
		return removed
	}

	i := n.branch(prefix[depth], depth)
	if i < 0 {
		return 0
	}
	child := n.children[i]
	removed := t.remove(child, prefix)
	if removed == 0 {
		return 0
	}
	if child.empty() {
		n.removeAt(i)
	} else {
		n.reposition(i)
	}
	n.recompute(t.mode)
	if n.empty() {
		n.reset()
	}
	return removed
}
