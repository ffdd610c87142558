package swc

import (
	"testing"

	"github.com/neurite-tools/neurite/pkg/errors"
)

func TestHasSomaSegment(t *testing.T) {
	single := NodeSet{
		1: {ID: 1, Type: TypeSoma, ParentID: Root},
		2: {ID: 2, Type: TypeAxon, ParentID: 1},
	}
	if HasSomaSegment(single) {
		t.Error("HasSomaSegment() = true for a single soma sample")
	}

	segment := NodeSet{
		1: {ID: 1, Type: TypeSoma, ParentID: Root},
		2: {ID: 2, Type: TypeSoma, ParentID: 1},
	}
	if !HasSomaSegment(segment) {
		t.Error("HasSomaSegment() = false for a multi-node soma")
	}
}

func TestIsSomaMissing(t *testing.T) {
	ns := NodeSet{
		1: {ID: 1, Type: TypeAxon, ParentID: Root},
	}
	if !IsSomaMissing(ns) {
		t.Error("IsSomaMissing() = false with no soma node")
	}

	ns[2] = Node{ID: 2, Type: TypeSoma, ParentID: 1}
	if IsSomaMissing(ns) {
		t.Error("IsSomaMissing() = true with a soma node present")
	}
}

func TestRemoveSomaSegment_Centroid(t *testing.T) {
	ns := NodeSet{
		1: {ID: 1, Type: TypeSoma, X: 0, Radius: 1, ParentID: Root},
		2: {ID: 2, Type: TypeSoma, X: 2, Radius: 2, ParentID: 1},
		3: {ID: 3, Type: TypeSoma, X: 4, Radius: 3, ParentID: 2},
		4: {ID: 4, Type: TypeBasalDendrite, X: 6, Radius: 1, ParentID: 3},
		5: {ID: 5, Type: TypeBasalDendrite, X: 8, Radius: 1, ParentID: 4},
	}

	out, err := RemoveSomaSegment(ns)
	if err != nil {
		t.Fatalf("RemoveSomaSegment() error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("RemoveSomaSegment() nodes = %d, want 3", len(out))
	}

	soma := out[1]
	if soma.Type != TypeSoma || soma.ParentID != Root {
		t.Errorf("soma = %+v, want soma-typed root at id 1", soma)
	}
	if soma.X != 2 || soma.Radius != 2 {
		t.Errorf("soma centroid = (x=%g, r=%g), want (2, 2)", soma.X, soma.Radius)
	}

	// Non-soma nodes renumber from 2; the dendrite that hung off the
	// segment re-attaches to the consolidated soma.
	if out[2].X != 6 || out[2].ParentID != 1 {
		t.Errorf("node 2 = %+v, want x=6 parent=1", out[2])
	}
	if out[3].X != 8 || out[3].ParentID != 2 {
		t.Errorf("node 3 = %+v, want x=8 parent=2", out[3])
	}
	if !IsTopologicallySorted(out) {
		t.Error("result is not topologically sorted")
	}
}

func TestRemoveSomaSegment_NoSoma(t *testing.T) {
	ns := NodeSet{
		1: {ID: 1, Type: TypeAxon, ParentID: Root},
	}
	out, err := RemoveSomaSegment(ns)
	if err != nil {
		t.Fatalf("RemoveSomaSegment() error: %v", err)
	}
	if len(out) != 1 || out[1] != ns[1] {
		t.Errorf("RemoveSomaSegment() = %v, want input unchanged", out)
	}
}

func TestSetSoma_AssignsFirstRoot(t *testing.T) {
	ns := NodeSet{
		1: {ID: 1, Type: TypeAxon, ParentID: Root},
		2: {ID: 2, Type: TypeAxon, ParentID: 1},
	}

	out, warns := SetSoma(ns)
	if len(warns) != 0 {
		t.Errorf("SetSoma() warnings = %d, want 0", len(warns))
	}
	if out[1].Type != TypeSoma {
		t.Errorf("root type = %d, want %d", out[1].Type, TypeSoma)
	}
	if out[2].Type != TypeAxon {
		t.Errorf("child type = %d, want unchanged %d", out[2].Type, TypeAxon)
	}
	if ns[1].Type != TypeAxon {
		t.Error("SetSoma() mutated its input")
	}
}

func TestSetSoma_NoRoot(t *testing.T) {
	ns := NodeSet{
		1: {ID: 1, Type: TypeAxon, ParentID: 2},
		2: {ID: 2, Type: TypeAxon, ParentID: 1},
	}

	out, warns := SetSoma(ns)
	if len(warns) != 1 {
		t.Fatalf("SetSoma() warnings = %d, want 1", len(warns))
	}
	if warns[0].Kind != errors.WarnRepair {
		t.Errorf("warning kind = %v, want %v", warns[0].Kind, errors.WarnRepair)
	}
	if IsSomaMissing(out) == false {
		t.Error("SetSoma() assigned a soma despite missing root")
	}
}

func TestPreprocess_CleanInputUnchanged(t *testing.T) {
	ns := NodeSet{
		1: {ID: 1, Type: TypeSoma, Radius: 5, ParentID: Root},
		2: {ID: 2, Type: TypeAxon, X: 10, Radius: 1, ParentID: 1},
	}

	out, warns, err := Preprocess(ns)
	if err != nil {
		t.Fatalf("Preprocess() error: %v", err)
	}
	if len(warns) != 0 {
		t.Errorf("Preprocess() warnings = %d, want 0", len(warns))
	}
	for id, n := range ns {
		if out[id] != n {
			t.Errorf("node %d = %+v, want %+v", id, out[id], n)
		}
	}
}

func TestPreprocess_MissingSoma(t *testing.T) {
	ns := NodeSet{
		1: {ID: 1, Type: TypeAxon, ParentID: Root},
		2: {ID: 2, Type: TypeAxon, ParentID: 1},
	}

	out, _, err := Preprocess(ns)
	if err != nil {
		t.Fatalf("Preprocess() error: %v", err)
	}
	if IsSomaMissing(out) {
		t.Error("Preprocess() left the soma missing")
	}
}

func TestPreprocess_SomaSegment(t *testing.T) {
	ns := NodeSet{
		1: {ID: 1, Type: TypeSoma, X: 0, Radius: 2, ParentID: Root},
		2: {ID: 2, Type: TypeSoma, X: 2, Radius: 2, ParentID: 1},
		3: {ID: 3, Type: TypeAxon, X: 4, Radius: 1, ParentID: 2},
	}

	out, _, err := Preprocess(ns)
	if err != nil {
		t.Fatalf("Preprocess() error: %v", err)
	}
	if HasSomaSegment(out) {
		t.Error("Preprocess() left a multi-node soma segment")
	}
	if out[1].X != 1 {
		t.Errorf("consolidated soma x = %g, want 1", out[1].X)
	}
}
