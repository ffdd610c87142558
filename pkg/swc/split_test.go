package swc

import "testing"

// edgeCount counts parent-links whose parent exists in the set.
func edgeCount(ns NodeSet) int {
	count := 0
	for _, n := range ns {
		if _, ok := ns[n.ParentID]; n.ParentID != Root && ok {
			count++
		}
	}
	return count
}

func TestSplitEdges_DoublesEdges(t *testing.T) {
	ns := NodeSet{
		1: {ID: 1, Type: TypeSoma, X: 0, Radius: 4, ParentID: Root},
		2: {ID: 2, Type: TypeAxon, X: 2, Radius: 2, ParentID: 1},
		3: {ID: 3, Type: TypeAxon, X: 4, Radius: 2, ParentID: 2},
	}

	out, err := SplitEdges(ns)
	if err != nil {
		t.Fatalf("SplitEdges() error: %v", err)
	}
	if len(out) != 5 {
		t.Fatalf("SplitEdges() nodes = %d, want 5", len(out))
	}
	if got := edgeCount(out); got != 4 {
		t.Errorf("edge count = %d, want 4", got)
	}
	if !IsTopologicallySorted(out) {
		t.Error("result is not topologically sorted")
	}

	// The midpoint between the soma and the first axon sample averages
	// position and radius and takes the child's type.
	found := false
	for _, n := range out {
		if n.X == 1 && n.Radius == 3 && n.Type == TypeAxon {
			found = true
		}
	}
	if !found {
		t.Error("midpoint node (x=1, r=3, axon) not found")
	}
}

func TestSplitEdges_Empty(t *testing.T) {
	out, err := SplitEdges(NodeSet{})
	if err != nil {
		t.Fatalf("SplitEdges() error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("SplitEdges() nodes = %d, want 0", len(out))
	}
}

func TestSplitEdgesN_GeometricGrowth(t *testing.T) {
	ns := NodeSet{
		1: {ID: 1, Type: TypeSoma, X: 0, Radius: 1, ParentID: Root},
		2: {ID: 2, Type: TypeAxon, X: 8, Radius: 1, ParentID: 1},
	}

	levels, err := SplitEdgesN(ns, 2)
	if err != nil {
		t.Fatalf("SplitEdgesN() error: %v", err)
	}
	if len(levels) != 2 {
		t.Fatalf("SplitEdgesN() levels = %d, want 2", len(levels))
	}
	if len(levels[0]) != 3 {
		t.Errorf("level 0 nodes = %d, want 3", len(levels[0]))
	}
	if len(levels[1]) != 5 {
		t.Errorf("level 1 nodes = %d, want 5", len(levels[1]))
	}
	if got := edgeCount(levels[1]); got != 4 {
		t.Errorf("level 1 edge count = %d, want 4", got)
	}
}
