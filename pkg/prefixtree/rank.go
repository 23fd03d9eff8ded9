package prefixtree

// merge combines two weight-descending slices into one. On equal weights
// the element of a goes first. The output is cut at limit when limit > 0.
func merge[V any](a, b []Result[V], limit int) []Result[V] {
	size := len(a) + len(b)
	if limit > 0 && size > limit {
		size = limit
	}
	merged := make([]Result[V], 0, size)
	i, j := 0, 0
	for len(merged) < size {
		switch {
		case j >= len(b):
			merged = append(merged, a[i])
			i++
		case i >= len(a):
			merged = append(merged, b[j])
			j++
		case a[i].Weight >= b[j].Weight:
			merged = append(merged, a[i])
			i++
		default:
			merged = append(merged, b[j])
			j++
		}
	}
	return merged
}

// collect gathers up to limit leaves beneath n by non-increasing weight.
//
// Children are visited in their sorted order. Once limit results are held,
// a child whose heaviest leaf cannot beat the last result is skipped, and in
// Sum mode the walk stops at the first child whose aggregate cannot beat it,
// since a sum bounds every leaf beneath it and later siblings are lighter.
func collect[V comparable, S comparable](n *node[V, S], limit int, mode WeightMode) []Result[V] {
	if n.empty() {
		return nil
	}
	if n.leaf {
		return []Result[V]{{Value: n.value, Weight: n.weight}}
	}
	var results []Result[V]
	for _, child := range n.children {
		if limit > 0 && len(results) >= limit {
			floor := results[len(results)-1].Weight
			if mode == Sum && child.weight <= floor {
				break
			}
			if child.peak <= floor {
				continue
			}
		}
		results = merge(results, collect(child, limit, mode), limit)
	}
	return results
}
