// Package trunk decomposes a neuron skeleton into maximal unbranched
// paths and reassembles processed paths into a single tree.
//
// A trunk is a maximal simple path whose interior nodes all have exactly
// two neighbors in the undirected view of the tree, bounded by branch
// points (degree > 2) or leaves. Decomposition, the trunk parent map and
// the two assembly modes are pure functions over [swc.NodeSet] values;
// nothing in this package mutates its input.
package trunk

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/neurite-tools/neurite/pkg/swc"
)

// Map holds extracted trunks keyed by sequential trunk id (from 0 in
// discovery order). Each trunk is itself a node set, ordered by
// ascending node id.
type Map map[int]swc.NodeSet

// NeighborMap builds the symmetric adjacency of ns from its parent
// links: for every node whose parent exists in the set, the node and its
// parent appear in each other's neighbor list. The undirected view is
// derived on demand, never stored, so it cannot drift from the node set.
func NeighborMap(ns swc.NodeSet) map[int][]int {
	neighbors := make(map[int][]int)
	for _, id := range swc.SortedIDs(ns) {
		n := ns[id]
		if _, ok := ns[n.ParentID]; n.ParentID != swc.Root && ok {
			neighbors[id] = append(neighbors[id], n.ParentID)
			neighbors[n.ParentID] = append(neighbors[n.ParentID], id)
		}
	}
	return neighbors
}

// Decompose extracts all trunks of ns. Every walk starts at a branch
// point (more than two neighbors) and follows degree-2 chains until it
// reaches another branch point or a leaf; the two structural endpoints
// are included in the trunk. Each physical trunk is emitted exactly once
// regardless of which end discovered it, via a canonical key comparing
// the id sequence with its reverse.
//
// When resetIndex is true the nodes of each trunk are renumbered locally
// from 1 in walk order with a straight parent chain (-1, 1, 2, ...);
// otherwise original ids and parents are kept.
//
// A tree with no branch point (straight chains, single nodes, Y-junction
// arms of length zero) yields no trunks; that is a property of the
// branch-point-seeded walk, not a failure.
func Decompose(ns swc.NodeSet, resetIndex bool) Map {
	neighbors := NeighborMap(ns)
	visited := make(map[int]bool)
	seen := make(map[string]bool)
	trunks := make(Map)
	trunkID := 0

	for _, id := range slices.Sorted(maps.Keys(neighbors)) {
		if len(neighbors[id]) <= 2 {
			continue
		}
		for _, nbr := range neighbors[id] {
			if visited[nbr] {
				continue
			}

			path := []int{id}
			prev, curr := id, nbr
			for len(neighbors[curr]) == 2 && !visited[curr] {
				path = append(path, curr)
				visited[curr] = true

				nexts := neighbors[curr]
				if nexts[0] == prev {
					curr = nexts[1]
				} else {
					curr = nexts[0]
				}
				prev = path[len(path)-1]
			}
			path = append(path, curr)

			key := canonicalKey(path)
			if seen[key] {
				continue
			}
			seen[key] = true

			trunks[trunkID] = buildTrunk(ns, path, resetIndex)
			trunkID++
		}
	}
	return trunks
}

func buildTrunk(ns swc.NodeSet, path []int, resetIndex bool) swc.NodeSet {
	out := make(swc.NodeSet, len(path))
	if resetIndex {
		for i, id := range path {
			n := ns[id]
			n.ID = i + 1
			if i == 0 {
				n.ParentID = swc.Root
			} else {
				n.ParentID = i
			}
			out[n.ID] = n
		}
	} else {
		for _, id := range path {
			out[id] = ns[id]
		}
	}
	return out
}

// canonicalKey renders the lexicographically smaller of the id sequence
// and its reverse, so both traversal directions map to one key.
func canonicalKey(path []int) string {
	rev := make([]int, len(path))
	for i, id := range path {
		rev[len(path)-1-i] = id
	}
	best := path
	if slices.Compare(rev, path) < 0 {
		best = rev
	}

	var b strings.Builder
	for _, id := range best {
		fmt.Fprintf(&b, "%d,", id)
	}
	return b.String()
}
