package swc

import (
	"github.com/neurite-tools/neurite/pkg/errors"
)

// IsTopologicallySorted reports whether every non-root node's parent id
// is strictly smaller than its own id.
func IsTopologicallySorted(ns NodeSet) bool {
	for id, n := range ns {
		if n.ParentID != Root && n.ParentID >= id {
			return false
		}
	}
	return true
}

// TopologicalSort renumbers ns so that parents precede children: Kahn's
// algorithm over the induced DAG (edges only where the parent exists in
// the set), with zero-in-degree nodes processed in ascending id order.
// Nodes are assigned new sequential ids 1..n in dequeue order and every
// parent id is remapped accordingly; roots keep parent Root. A node
// whose declared parent is absent from the set is treated as an
// independent root, and its remapped parent becomes Root.
//
// Returns ErrCodeCycle if the parent structure contains a cycle; nodes
// on a cycle never reach zero in-degree, and silently dropping them
// would truncate the morphology.
func TopologicalSort(ns NodeSet) (NodeSet, error) {
	adj := make(map[int][]int)
	inDegree := make(map[int]int, len(ns))

	for _, id := range SortedIDs(ns) {
		n := ns[id]
		if _, ok := ns[n.ParentID]; n.ParentID != Root && ok {
			adj[n.ParentID] = append(adj[n.ParentID], id)
			inDegree[id]++
		}
	}

	queue := make([]int, 0, len(ns))
	for _, id := range SortedIDs(ns) {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]int, 0, len(ns))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, child := range adj[id] {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(order) != len(ns) {
		return nil, errors.New(errors.ErrCodeCycle,
			"parent structure contains a cycle: %d of %d nodes unreachable",
			len(ns)-len(order), len(ns))
	}

	remap := make(map[int]int, len(order))
	for i, oldID := range order {
		remap[oldID] = i + 1
	}

	sorted := make(NodeSet, len(ns))
	for _, oldID := range order {
		n := ns[oldID]
		n.ID = remap[oldID]
		if n.ParentID == Root {
			// keep Root
		} else if newPID, ok := remap[n.ParentID]; ok {
			n.ParentID = newPID
		} else {
			n.ParentID = Root
		}
		sorted[n.ID] = n
	}
	return sorted, nil
}
