package prefixtree

import "slices"

// node is shared by both engines. A leaf has no prefix and holds one value;
// an internal node aggregates its leaves. The zero node is the empty tree.
type node[V comparable, S comparable] struct {
	prefix   []S
	value    V
	leaf     bool
	weight   float64
	total    float64
	peak     float64
	count    int
	children []*node[V, S]
}

func newLeaf[V comparable, S comparable](value V, weight float64) *node[V, S] {
	return &node[V, S]{
		value:  value,
		leaf:   true,
		weight: weight,
		total:  weight,
		peak:   weight,
		count:  1,
	}
}

func (n *node[V, S]) empty() bool {
	return n.weight == 0
}

// addWeight grows a leaf in place.
func (n *node[V, S]) addWeight(w float64) {
	n.weight += w
	n.total += w
	n.peak = n.weight
}

// recompute refreshes the cached aggregates from direct children only.
func (n *node[V, S]) recompute(mode WeightMode) {
	if n.leaf {
		return
	}
	var total, peak float64
	count := 0
	for _, child := range n.children {
		total += child.total
		count += child.count
		if child.peak > peak {
			peak = child.peak
		}
	}
	n.total = total
	n.count = count
	n.peak = peak
	n.weight = mode.aggregate(total, count)
}

// reset turns n into the empty sentinel.
func (n *node[V, S]) reset() {
	*n = node[V, S]{}
}

// insertChild places child just before the first sibling that is strictly
// lighter, so equal weights keep insertion order.
func (n *node[V, S]) insertChild(child *node[V, S]) int {
	i := 0
	for i < len(n.children) && n.children[i].weight >= child.weight {
		i++
	}
	n.children = slices.Insert(n.children, i, child)
	return i
}

// reposition bubbles the child at i until the siblings are sorted again.
// Only that child may be out of place.
func (n *node[V, S]) reposition(i int) int {
	for i > 0 && n.children[i].weight > n.children[i-1].weight {
		n.children[i], n.children[i-1] = n.children[i-1], n.children[i]
		i--
	}
	for i < len(n.children)-1 && n.children[i].weight < n.children[i+1].weight {
		n.children[i], n.children[i+1] = n.children[i+1], n.children[i]
		i++
	}
	return i
}

func (n *node[V, S]) removeAt(i int) {
	n.children = slices.Delete(n.children, i, i+1)
}

// findLeaf returns the index of the leaf child holding value, or -1.
func (n *node[V, S]) findLeaf(value V) int {
	for i, child := range n.children {
		if child.leaf && child.value == value {
			return i
		}
	}
	return -1
}

// branch returns the first non-leaf child whose prefix has sym at position
// depth, or -1.
func (n *node[V, S]) branch(sym S, depth int) int {
	for i, child := range n.children {
		if !child.leaf && len(child.prefix) > depth && child.prefix[depth] == sym {
			return i
		}
	}
	return -1
}

// absorb replaces n with its only child, removing one layer.
func (n *node[V, S]) absorb(child *node[V, S]) {
	*n = *child
}

// isPrefix reports whether p is a prefix of (or equal to) s.
func isPrefix[S comparable](p, s []S) bool {
	return len(p) <= len(s) && slices.Equal(p, s[:len(p)])
}

// commonPrefixLen returns the length of the longest shared prefix.
func commonPrefixLen[S comparable](a, b []S) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// walk visits n and every node beneath it, depth first, with its depth.
func (n *node[V, S]) walk(depth int, fn func(*node[V, S], int)) {
	fn(n, depth)
	for _, child := range n.children {
		child.walk(depth+1, fn)
	}
}
