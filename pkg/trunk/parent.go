package trunk

import (
	"maps"
	"slices"

	"github.com/neurite-tools/neurite/pkg/swc"
)

// ParentMap derives the trunk hierarchy: for each trunk, the id of the
// trunk containing the parent of its first (lowest-id, proximal) node,
// or -1 for a root trunk. The parent id is looked up in the original,
// un-reset node set, so trunks must come from Decompose with resetIndex
// false.
func ParentMap(ns swc.NodeSet, trunks Map) map[int]int {
	nodeToTrunk := make(map[int]int)
	for _, tid := range slices.Sorted(maps.Keys(trunks)) {
		for nodeID := range trunks[tid] {
			nodeToTrunk[nodeID] = tid
		}
	}

	parents := make(map[int]int, len(trunks))
	for _, tid := range slices.Sorted(maps.Keys(trunks)) {
		t := trunks[tid]
		if len(t) == 0 {
			continue
		}

		first := t[swc.SortedIDs(t)[0]]
		parentID := swc.Root
		if orig, ok := ns[first.ID]; ok {
			parentID = orig.ParentID
		}

		if ptid, ok := nodeToTrunk[parentID]; parentID != swc.Root && ok {
			parents[tid] = ptid
		} else {
			parents[tid] = -1
		}
	}
	return parents
}
