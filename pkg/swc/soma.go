package swc

import (
	"github.com/neurite-tools/neurite/pkg/errors"
)

// HasSomaSegment reports whether ns contains more than one soma-typed
// node. A segment (as opposed to a single soma sample) has to be
// consolidated before trunk extraction.
func HasSomaSegment(ns NodeSet) bool {
	count := 0
	for _, n := range ns {
		if n.Type == TypeSoma {
			count++
			if count > 1 {
				return true
			}
		}
	}
	return false
}

// IsSomaMissing reports whether ns contains no soma-typed node at all.
func IsSomaMissing(ns NodeSet) bool {
	for _, n := range ns {
		if n.Type == TypeSoma {
			return false
		}
	}
	return true
}

// RemoveSomaSegment collapses all soma-typed nodes into a single soma at
// their centroid (position and radius averaged), placed at id 1 with no
// parent. The remaining nodes are renumbered sequentially from 2 in
// ascending original-id order; a node whose parent was part of the soma
// segment (or was literally id 1) is re-attached to the new soma. The
// result is re-sorted if the rewrite broke topological order.
//
// If ns has no soma node the input is returned unchanged.
func RemoveSomaSegment(ns NodeSet) (NodeSet, error) {
	var somaIDs []int
	for _, id := range SortedIDs(ns) {
		if ns[id].Type == TypeSoma {
			somaIDs = append(somaIDs, id)
		}
	}
	if len(somaIDs) == 0 {
		return ns, nil
	}

	var x, y, z, r float64
	for _, id := range somaIDs {
		n := ns[id]
		x += n.X
		y += n.Y
		z += n.Z
		r += n.Radius
	}
	count := float64(len(somaIDs))
	soma := Node{
		ID:       1,
		ParentID: Root,
		Type:     TypeSoma,
		X:        x / count,
		Y:        y / count,
		Z:        z / count,
		Radius:   r / count,
	}

	out := NodeSet{1: soma}
	remap := make(map[int]int)
	nextID := 2
	for _, id := range SortedIDs(ns) {
		n := ns[id]
		if n.Type == TypeSoma {
			continue
		}
		n.ID = nextID
		remap[id] = nextID
		out[nextID] = n
		nextID++
	}

	for _, id := range SortedIDs(out) {
		if id == 1 {
			continue
		}
		n := out[id]
		if parent, ok := ns[n.ParentID]; (ok && parent.Type == TypeSoma) || n.ParentID == 1 {
			n.ParentID = 1
		} else if newPID, ok := remap[n.ParentID]; ok {
			n.ParentID = newPID
		} else {
			n.ParentID = 1
		}
		out[id] = n
	}

	if !IsTopologicallySorted(out) {
		return TopologicalSort(out)
	}
	return out, nil
}

// SetSoma assigns the soma type to the first root node (ascending id)
// when ns has no soma at all. If a soma is present the input is returned
// unchanged. If no root exists the repair cannot be applied; the input
// is returned unchanged together with a repair warning.
func SetSoma(ns NodeSet) (NodeSet, []errors.Warning) {
	if !IsSomaMissing(ns) {
		return ns, nil
	}

	for _, id := range SortedIDs(ns) {
		if ns[id].ParentID == Root {
			out := Clone(ns)
			n := out[id]
			n.Type = TypeSoma
			out[id] = n
			return out, nil
		}
	}

	warn := errors.Warnf(errors.WarnRepair, 0,
		"soma is missing and no root node is available to assign")
	return ns, []errors.Warning{warn}
}

// Preprocess applies the standard soma repairs: SetSoma when the soma is
// missing, then RemoveSomaSegment when a multi-node soma segment exists.
// Both conditions are evaluated against the original input, and each
// repair is applied to the original input; the two checks are mutually
// exclusive on any input a single repair can produce, so no chaining is
// performed. When neither condition holds the input is returned
// unchanged.
func Preprocess(ns NodeSet) (NodeSet, []errors.Warning, error) {
	out := ns
	var warns []errors.Warning
	if IsSomaMissing(ns) {
		var w []errors.Warning
		out, w = SetSoma(ns)
		warns = append(warns, w...)
	}
	if HasSomaSegment(ns) {
		repaired, err := RemoveSomaSegment(ns)
		if err != nil {
			return nil, warns, err
		}
		out = repaired
	}
	return out, warns, nil
}
