package prefixtree

import (
	"fmt"
	"strings"
)

// String renders the tree indented by depth, one node per line:
// "prefix (weight)" for internal nodes, "value (weight)" for leaves.
func (t *SimpleTree[V, S]) String() string {
	return render(t.root)
}

// String renders the tree like SimpleTree.String.
func (t *CompressedTree[V, S]) String() string {
	return render(t.root)
}

// Stats returns counts describing the tree's shape.
func (t *SimpleTree[V, S]) Stats() map[string]int {
	return shape(t.root)
}

// Stats returns counts describing the tree's shape.
func (t *CompressedTree[V, S]) Stats() map[string]int {
	return shape(t.root)
}

func render[V comparable, S comparable](root *node[V, S]) string {
	if root.empty() {
		return ""
	}
	var b strings.Builder
	root.walk(0, func(n *node[V, S], depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		if n.leaf {
			fmt.Fprintf(&b, "%v (%v)\n", n.value, n.weight)
			return
		}
		fmt.Fprintf(&b, "%v (%v)\n", n.prefix, n.weight)
	})
	return b.String()
}

func shape[V comparable, S comparable](root *node[V, S]) map[string]int {
	stats := map[string]int{
		"values": root.count,
		"nodes":  0,
		"leaves": 0,
		"depth":  0,
	}
	if root.empty() {
		return stats
	}
	root.walk(0, func(n *node[V, S], depth int) {
		stats["nodes"]++
		if n.leaf {
			stats["leaves"]++
		}
		if depth > stats["depth"] {
			stats["depth"] = depth
		}
	})
	return stats
}
