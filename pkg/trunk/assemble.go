package trunk

import (
	"maps"
	"slices"

	"github.com/neurite-tools/neurite/pkg/errors"
	"github.com/neurite-tools/neurite/pkg/swc"
)

// Assemble flattens trunks that kept their original node ids into a
// single node set with sequential ids from 1. Nodes shared between
// trunks (branch points) keep their first occurrence; parent ids are
// rewritten through the remap table, or to root when the parent was not
// part of any trunk.
func Assemble(trunks Map) swc.NodeSet {
	out := make(swc.NodeSet)
	remap := make(map[int]int)
	newID := 1

	for _, tid := range slices.Sorted(maps.Keys(trunks)) {
		t := trunks[tid]
		for _, oldID := range swc.SortedIDs(t) {
			if _, ok := remap[oldID]; ok {
				continue
			}
			n := t[oldID]
			n.ID = newID
			remap[oldID] = newID
			out[newID] = n
			newID++
		}
	}

	for _, id := range swc.SortedIDs(out) {
		n := out[id]
		if newPID, ok := remap[n.ParentID]; n.ParentID != swc.Root && ok {
			n.ParentID = newPID
		} else {
			n.ParentID = swc.Root
		}
		out[id] = n
	}
	return out
}

// AssembleWithParents reconnects independently renumbered (typically
// resampled) trunks into one tree, using the trunk parent map for the
// hierarchy and nearest-distance disambiguation for the attachment
// point.
//
// Trunks containing a soma-typed node are processed first: the soma
// becomes the new global root with id 1, and each such trunk's remaining
// nodes chain off it with sequential global ids. All other trunks are
// appended afterwards with a placeholder root parent on their first
// emitted node; a final pass attaches that node to whichever recorded
// endpoint (start or end) of its parent trunk lies nearer in space, with
// the start winning exact ties. The two emission loops intentionally
// keep their distinct local-id conditions: in a soma trunk the node with
// local id 2 attaches directly to the soma, while in other trunks it
// receives the placeholder.
//
// Every trunk's first node (local id 1) duplicates a node already owned
// by its parent trunk and is dropped during emission.
//
// A trunk with no parent in the map keeps its placeholder root and a
// repair warning is recorded. Returns ErrCodeInvalidInput when no trunk
// contains a soma node, since there is nothing to root the tree at;
// preprocess the morphology first.
func AssembleWithParents(resampled Map, parentMap map[int]int) (swc.NodeSet, []errors.Warning, error) {
	tids := slices.Sorted(maps.Keys(resampled))

	var doneTrunks []int
	var somaNode swc.Node
	found := false
	for _, tid := range tids {
		for _, id := range swc.SortedIDs(resampled[tid]) {
			if n := resampled[tid][id]; n.Type == swc.TypeSoma {
				doneTrunks = append(doneTrunks, tid)
				somaNode = n
				found = true
				break
			}
		}
	}
	if !found {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput,
			"no soma-typed node in any trunk; preprocess the morphology first")
	}

	somaNode.ID = 1
	somaNode.ParentID = swc.Root
	final := swc.NodeSet{1: somaNode}

	// trunkEnds records, per trunk, the global ids bounding its emitted
	// node run: index 0 the start, index 1 the end.
	trunkEnds := make(map[int][]int)
	globalID := 1

	for _, tid := range doneTrunks {
		trunkEnds[tid] = append(trunkEnds[tid], 1)
		for _, id := range swc.SortedIDs(resampled[tid]) {
			n := resampled[tid][id]
			if n.ParentID == swc.Root {
				continue
			}
			newNode := n
			newNode.ID = globalID + 1
			if n.ID == 2 {
				newNode.ParentID = 1
			}
			if n.ID > 2 {
				newNode.ParentID = globalID
			}
			final[newNode.ID] = newNode
			globalID++
		}
		trunkEnds[tid] = append(trunkEnds[tid], globalID)
	}

	for _, tid := range tids {
		trunkEnds[tid] = append(trunkEnds[tid], globalID)
		if slices.Contains(doneTrunks, tid) {
			continue
		}
		for _, id := range swc.SortedIDs(resampled[tid]) {
			n := resampled[tid][id]
			if n.ParentID == swc.Root {
				continue
			}
			newNode := n
			newNode.ID = globalID + 1
			if n.ID > 2 {
				newNode.ParentID = globalID
			} else {
				newNode.ParentID = swc.Root
			}
			final[newNode.ID] = newNode
			globalID++
		}
		trunkEnds[tid] = append(trunkEnds[tid], globalID)
	}

	var warns []errors.Warning
	for _, tid := range tids {
		if slices.Contains(doneTrunks, tid) {
			continue
		}

		childStartID := trunkEnds[tid][0]
		child, ok := final[childStartID+1]
		if !ok {
			warns = append(warns, errors.Warnf(errors.WarnRepair, 0,
				"trunk %d emitted no nodes; left detached", tid))
			continue
		}

		ptid, ok := parentMap[tid]
		if !ok || ptid == -1 {
			warns = append(warns, errors.Warnf(errors.WarnRepair, 0,
				"trunk %d has no parent trunk; left as root", tid))
			continue
		}
		ends, ok := trunkEnds[ptid]
		if !ok || len(ends) < 2 {
			warns = append(warns, errors.Warnf(errors.WarnRepair, 0,
				"trunk %d parent trunk %d not assembled; left detached", tid, ptid))
			continue
		}

		parentStartID, parentEndID := ends[0], ends[1]
		parentStart := final[parentStartID]
		parentEnd := final[parentEndID]

		if swc.Distance(child, parentEnd) < swc.Distance(child, parentStart) {
			child.ParentID = parentEndID
		} else {
			child.ParentID = parentStartID
		}
		final[child.ID] = child
	}

	return final, warns, nil
}
