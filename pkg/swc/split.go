package swc

// SplitEdges inserts a midpoint node into every parent-link of ns whose
// parent is present in the set. The midpoint averages position and
// radius, takes the child's type, attaches to the original parent, and
// becomes the child's new parent. New ids are allocated sequentially
// above the current maximum id, then the whole set is re-sorted to
// restore parent-before-child numbering.
//
// For a set with E qualifying parent-links the result has exactly 2E
// parent-links and E additional nodes.
func SplitEdges(ns NodeSet) (NodeSet, error) {
	if len(ns) == 0 {
		return ns, nil
	}

	ids := SortedIDs(ns)
	nextID := ids[len(ids)-1] + 1

	out := make(NodeSet, 2*len(ns))
	for _, id := range ids {
		n := ns[id]
		out[id] = n

		parent, ok := ns[n.ParentID]
		if n.ParentID == Root || !ok {
			continue
		}

		mid := Node{
			ID:       nextID,
			ParentID: parent.ID,
			Type:     n.Type,
			X:        (parent.X + n.X) / 2,
			Y:        (parent.Y + n.Y) / 2,
			Z:        (parent.Z + n.Z) / 2,
			Radius:   (parent.Radius + n.Radius) / 2,
		}
		out[nextID] = mid

		child := n
		child.ParentID = nextID
		out[child.ID] = child

		nextID++
	}

	if !IsTopologicallySorted(out) {
		return TopologicalSort(out)
	}
	return out, nil
}

// SplitEdgesN applies SplitEdges N times, collecting each intermediate
// result. Level i holds the set after i+1 splits; node count grows
// geometrically, so N must be bounded by the caller.
func SplitEdgesN(ns NodeSet, n int) ([]NodeSet, error) {
	splits := make([]NodeSet, 0, n)
	current := ns
	for i := 0; i < n; i++ {
		next, err := SplitEdges(current)
		if err != nil {
			return nil, err
		}
		splits = append(splits, next)
		current = next
	}
	return splits, nil
}
