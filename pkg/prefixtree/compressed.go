package prefixtree

import "slices"

// CompressedTree is the path-compressed prefix tree. A non-leaf child may
// extend its parent's prefix by several symbols, and no node below the root
// keeps a single child unless that child is a leaf. Every value sits in a
// leaf directly under the node whose prefix equals the value's prefix.
//
// A CompressedTree is not safe for concurrent use.
type CompressedTree[V comparable, S comparable] struct {
	root *node[V, S]
	mode WeightMode
	opts options
}

// NewCompressed returns an empty compressed tree aggregating weights by mode.
func NewCompressed[V comparable, S comparable](mode WeightMode, opts ...Option) *CompressedTree[V, S] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &CompressedTree[V, S]{
		root: &node[V, S]{},
		mode: mode,
		opts: o,
	}
}

// Mode returns the weight mode fixed at construction.
func (t *CompressedTree[V, S]) Mode() WeightMode {
	return t.mode
}

// Len returns the number of distinct values stored.
func (t *CompressedTree[V, S]) Len() int {
	return t.root.count
}

// Weight returns the aggregate weight of the whole tree.
func (t *CompressedTree[V, S]) Weight() float64 {
	return t.root.weight
}

// Insert stores value with weight under prefix, adding to the weight of
// value when it is already present.
func (t *CompressedTree[V, S]) Insert(value V, weight float64, prefix []S) error {
	if err := checkInsert(weight, len(prefix), t.opts.maxDepth); err != nil {
		return err
	}
	// The root has the empty prefix and always accepts.
	t.insert(t.root, value, weight, prefix, 0)
	return nil
}

// insert offers value to n, whose parent already matched the first consumed
// symbols of prefix. It returns the node that must take n's place in its
// parent (n itself unless n was split), whether a new leaf was created, and
// whether n accepted at all. n refuses when it shares no symbol with prefix
// past consumed; the parent then decides where the value goes.
func (t *CompressedTree[V, S]) insert(n *node[V, S], value V, weight float64, prefix []S, consumed int) (*node[V, S], bool, bool) {
	if slices.Equal(n.prefix, prefix) {
		added := false
		if i := n.findLeaf(value); i >= 0 {
			n.children[i].addWeight(weight)
			n.reposition(i)
		} else {
			n.insertChild(newLeaf[V, S](value, weight))
			added = true
		}
		n.recompute(t.mode)
		return n, added, true
	}

	if isPrefix(n.prefix, prefix) {
		added, placed := false, false
		for i, child := range n.children {
			if child.leaf {
				continue
			}
			replacement, a, ok := t.insert(child, value, weight, prefix, len(n.prefix))
			if !ok {
				continue
			}
			n.children[i] = replacement
			n.reposition(i)
			added, placed = a, true
			break
		}
		if !placed {
			n.insertChild(t.stub(value, weight, prefix))
			added = true
		}
		n.recompute(t.mode)
		return n, added, true
	}

	shared := commonPrefixLen(n.prefix, prefix)
	if shared <= consumed {
		return n, false, false
	}

	// Split: a new node holding the shared symbols adopts n and the value.
	// A value already stored here would have matched n exactly, so the
	// value is always new.
	parent := &node[V, S]{
		prefix:   slices.Clone(prefix[:shared]),
		children: []*node[V, S]{n},
	}
	if shared == len(prefix) {
		parent.insertChild(newLeaf[V, S](value, weight))
	} else {
		parent.insertChild(t.stub(value, weight, prefix))
	}
	parent.recompute(t.mode)
	return parent, true, true
}

// stub builds a prefix node holding a single leaf.
func (t *CompressedTree[V, S]) stub(value V, weight float64, prefix []S) *node[V, S] {
	n := &node[V, S]{
		prefix:   slices.Clone(prefix),
		children: []*node[V, S]{newLeaf[V, S](value, weight)},
	}
	n.recompute(t.mode)
	return n
}

// Autocomplete returns up to limit matches for prefix ordered by
// non-increasing weight. A limit <= 0 returns every match.
func (t *CompressedTree[V, S]) Autocomplete(prefix []S, limit int) []Result[V] {
	n := t.root
	for {
		// The query may end in the middle of a compressed edge.
		if isPrefix(prefix, n.prefix) {
			return collect(n, limit, t.mode)
		}
		if !isPrefix(n.prefix, prefix) {
			return nil
		}
		depth := len(n.prefix)
		i := n.branch(prefix[depth], depth)
		if i < 0 {
			return nil
		}
		n = n.children[i]
	}
}

// Remove deletes every value whose prefix starts with prefix. Unknown
// prefixes are ignored.
func (t *CompressedTree[V, S]) Remove(prefix []S) {
	t.remove(t.root, prefix)
}

// remove returns how many values left the subtree of n, and leaves n
// normalized.
func (t *CompressedTree[V, S]) remove(n *node[V, S], prefix []S) int {
	if isPrefix(prefix, n.prefix) {
		removed := n.count
		n.reset()
		return removed
	}
	if !isPrefix(n.prefix, prefix) {
		return 0
	}

	depth := len(n.prefix)
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
	t.normalize(n)
	return removed
}

// normalize collapses n into its only child when that child is not a leaf.
// The root keeps the empty prefix and is never collapsed.
func (t *CompressedTree[V, S]) normalize(n *node[V, S]) {
	if n.empty() {
		n.reset()
		return
	}
	if n == t.root {
		return
	}
	if len(n.children) == 1 && !n.children[0].leaf {
		n.absorb(n.children[0])
	}
}
