package prefixtree

import (
	"fmt"
	"math"
)

// Validate recomputes every cached aggregate from scratch and checks the
// structural invariants of the uncompressed tree.
func (t *SimpleTree[V, S]) Validate() error {
	return validate(t.root, t.mode, false)
}

// Validate recomputes every cached aggregate from scratch and checks the
// structural invariants of the compressed tree, including that no node below
// the root is compressible.
func (t *CompressedTree[V, S]) Validate() error {
	return validate(t.root, t.mode, true)
}

type tally struct {
	total float64
	peak  float64
	count int
}

func validate[V comparable, S comparable](root *node[V, S], mode WeightMode, compressed bool) error {
	if root.leaf {
		return fmt.Errorf("%w: root is a leaf", ErrCorrupt)
	}
	if len(root.prefix) != 0 {
		return fmt.Errorf("%w: root prefix %v is not empty", ErrCorrupt, root.prefix)
	}
	if root.empty() {
		if len(root.children) != 0 || root.count != 0 {
			return fmt.Errorf("%w: empty root has %d children, count %d", ErrCorrupt, len(root.children), root.count)
		}
		return nil
	}
	_, err := check(root, mode, compressed, true)
	return err
}

func check[V comparable, S comparable](n *node[V, S], mode WeightMode, compressed, isRoot bool) (tally, error) {
	if n.weight < 0 || math.IsNaN(n.weight) {
		return tally{}, fmt.Errorf("%w: node %v has weight %v", ErrCorrupt, n.prefix, n.weight)
	}

	if n.leaf {
		switch {
		case len(n.children) != 0:
			return tally{}, fmt.Errorf("%w: leaf %v has children", ErrCorrupt, n.value)
		case n.prefix != nil:
			return tally{}, fmt.Errorf("%w: leaf %v carries prefix %v", ErrCorrupt, n.value, n.prefix)
		case n.weight <= 0:
			return tally{}, fmt.Errorf("%w: leaf %v has weight %v", ErrCorrupt, n.value, n.weight)
		case n.count != 1 || n.total != n.weight || n.peak != n.weight:
			return tally{}, fmt.Errorf("%w: leaf %v caches count %d total %v peak %v", ErrCorrupt, n.value, n.count, n.total, n.peak)
		}
		return tally{total: n.weight, peak: n.weight, count: 1}, nil
	}

	if len(n.children) == 0 {
		return tally{}, fmt.Errorf("%w: node %v is an empty subtree", ErrCorrupt, n.prefix)
	}
	if compressed && !isRoot && len(n.children) == 1 && !n.children[0].leaf {
		return tally{}, fmt.Errorf("%w: node %v is compressible", ErrCorrupt, n.prefix)
	}

	var sum tally
	depth := len(n.prefix)
	branches := make(map[S]bool)
	values := make(map[V]bool)
	for i, child := range n.children {
		if i > 0 && n.children[i-1].weight < child.weight {
			return tally{}, fmt.Errorf("%w: children of %v not sorted at %d", ErrCorrupt, n.prefix, i)
		}
		if child.leaf {
			if values[child.value] {
				return tally{}, fmt.Errorf("%w: duplicate leaf %v under %v", ErrCorrupt, child.value, n.prefix)
			}
			values[child.value] = true
		} else {
			if !isPrefix(n.prefix, child.prefix) || len(child.prefix) <= depth {
				return tally{}, fmt.Errorf("%w: child %v does not extend %v", ErrCorrupt, child.prefix, n.prefix)
			}
			if !compressed && len(child.prefix) != depth+1 {
				return tally{}, fmt.Errorf("%w: child %v skips symbols past %v", ErrCorrupt, child.prefix, n.prefix)
			}
			sym := child.prefix[depth]
			if branches[sym] {
				return tally{}, fmt.Errorf("%w: siblings under %v share symbol %v", ErrCorrupt, n.prefix, sym)
			}
			branches[sym] = true
		}

		got, err := check(child, mode, compressed, false)
		if err != nil {
			return tally{}, err
		}
		sum.total += got.total
		sum.count += got.count
		sum.peak = max(sum.peak, got.peak)
	}

	switch {
	case n.count != sum.count:
		return tally{}, fmt.Errorf("%w: node %v caches count %d, has %d leaves", ErrCorrupt, n.prefix, n.count, sum.count)
	case !approxEqual(n.total, sum.total):
		return tally{}, fmt.Errorf("%w: node %v caches total %v, leaves sum to %v", ErrCorrupt, n.prefix, n.total, sum.total)
	case n.peak != sum.peak:
		return tally{}, fmt.Errorf("%w: node %v caches peak %v, heaviest leaf is %v", ErrCorrupt, n.prefix, n.peak, sum.peak)
	case !approxEqual(n.weight, mode.aggregate(sum.total, sum.count)):
		return tally{}, fmt.Errorf("%w: node %v has weight %v, want %v", ErrCorrupt, n.prefix, n.weight, mode.aggregate(sum.total, sum.count))
	}
	return sum, nil
}

// approxEqual tolerates the drift of summing floats in a different order.
func approxEqual(a, b float64) bool {
	const eps = 1e-9
	diff := math.Abs(a - b)
	return diff <= eps || diff <= eps*math.Max(math.Abs(a), math.Abs(b))
}
