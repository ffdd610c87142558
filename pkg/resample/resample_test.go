package resample

import (
	"testing"

	"github.com/neurite-tools/neurite/pkg/errors"
	"github.com/neurite-tools/neurite/pkg/swc"
	"github.com/neurite-tools/neurite/pkg/trunk"
)

func TestLinear_StraightTrunk(t *testing.T) {
	tr := swc.NodeSet{
		1: {ID: 1, Type: swc.TypeBasalDendrite, X: 0, Radius: 1, ParentID: swc.Root},
		2: {ID: 2, Type: swc.TypeBasalDendrite, X: 10, Radius: 1, ParentID: 1},
	}

	out := Linear(tr, 2)
	if len(out) != 5 {
		t.Fatalf("Linear() nodes = %d, want 5 for length 10 at delta 2", len(out))
	}

	wantX := []float64{0, 2.5, 5, 7.5, 10}
	for i, want := range wantX {
		n := out[i+1]
		if n.X != want {
			t.Errorf("node %d x = %g, want %g", i+1, n.X, want)
		}
		wantParent := i
		if i == 0 {
			wantParent = swc.Root
		}
		if n.ParentID != wantParent {
			t.Errorf("node %d parent = %d, want %d", i+1, n.ParentID, wantParent)
		}
	}
	if !swc.IsTopologicallySorted(out) {
		t.Error("result is not topologically sorted")
	}
}

func TestLinear_EndpointsVerbatim(t *testing.T) {
	tr := swc.NodeSet{
		1: {ID: 1, Type: swc.TypeSoma, X: 0, Radius: 5, ParentID: swc.Root},
		2: {ID: 2, Type: swc.TypeBasalDendrite, X: 1, Radius: 0.5, ParentID: 1},
		3: {ID: 3, Type: swc.TypeBasalDendrite, X: 10, Radius: 0.25, ParentID: 2},
	}

	out := Linear(tr, 2)
	first := out[1]
	last := out[len(out)]
	if first.Type != swc.TypeSoma || first.X != 0 || first.Radius != 5 {
		t.Errorf("first node = %+v, want verbatim soma endpoint", first)
	}
	if last.Type != swc.TypeBasalDendrite || last.X != 10 || last.Radius != 0.25 {
		t.Errorf("last node = %+v, want verbatim distal endpoint", last)
	}

	// Interior nodes carry the trunk's dominant type.
	for id := 2; id < len(out); id++ {
		if out[id].Type != swc.TypeBasalDendrite {
			t.Errorf("node %d type = %d, want %d", id, out[id].Type, swc.TypeBasalDendrite)
		}
	}
}

func TestLinear_MinimumFourNodes(t *testing.T) {
	tr := swc.NodeSet{
		1: {ID: 1, Type: swc.TypeAxon, X: 0, Radius: 1, ParentID: swc.Root},
		2: {ID: 2, Type: swc.TypeAxon, X: 1, Radius: 1, ParentID: 1},
	}

	out := Linear(tr, 1)
	if len(out) != 4 {
		t.Errorf("Linear() nodes = %d, want floor of 4", len(out))
	}
}

func TestLinear_TooFewNodes(t *testing.T) {
	tr := swc.NodeSet{
		1: {ID: 1, Type: swc.TypeAxon, ParentID: swc.Root},
	}
	if out := Linear(tr, 1); len(out) != 0 {
		t.Errorf("Linear() nodes = %d, want 0 for a single-node trunk", len(out))
	}
	if out := Linear(swc.NodeSet{}, 1); len(out) != 0 {
		t.Errorf("Linear() nodes = %d, want 0 for an empty trunk", len(out))
	}
}

func TestByMethod_UnknownFallsBackToLinear(t *testing.T) {
	trunks := trunk.Map{
		0: swc.NodeSet{
			1: {ID: 1, Type: swc.TypeAxon, X: 0, Radius: 1, ParentID: swc.Root},
			2: {ID: 2, Type: swc.TypeAxon, X: 10, Radius: 1, ParentID: 1},
		},
	}

	got := ByMethod("nearest", trunks, 2)
	want := AllLinear(trunks, 2)
	if len(got[0]) != len(want[0]) {
		t.Fatalf("ByMethod() nodes = %d, want %d", len(got[0]), len(want[0]))
	}
	for id, n := range want[0] {
		if got[0][id] != n {
			t.Errorf("node %d = %+v, want %+v", id, got[0][id], n)
		}
	}
}

func TestValidateMethod(t *testing.T) {
	if err := ValidateMethod(MethodLinear); err != nil {
		t.Errorf("ValidateMethod(linear) = %v, want nil", err)
	}
	if err := ValidateMethod(MethodCubic); err != nil {
		t.Errorf("ValidateMethod(cubic) = %v, want nil", err)
	}
	if err := ValidateMethod("nearest"); !errors.Is(err, errors.ErrCodeInvalidMethod) {
		t.Errorf("ValidateMethod(nearest) = %v, want code %s", err, errors.ErrCodeInvalidMethod)
	}
}
