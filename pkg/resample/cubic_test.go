package resample

import (
	"math"
	"testing"

	"github.com/neurite-tools/neurite/pkg/swc"
)

func TestCubic_TwoNodeTrunkIsLinear(t *testing.T) {
	tr := swc.NodeSet{
		1: {ID: 1, Type: swc.TypeAxon, X: 0, Radius: 1, ParentID: swc.Root},
		2: {ID: 2, Type: swc.TypeAxon, X: 10, Radius: 1, ParentID: 1},
	}

	out := Cubic(tr, 2)
	if len(out) != 5 {
		t.Fatalf("Cubic() nodes = %d, want 5 for length 10 at delta 2", len(out))
	}

	// A spline through two knots degenerates to the straight line.
	wantX := []float64{0, 2.5, 5, 7.5, 10}
	for i, want := range wantX {
		if got := out[i+1].X; math.Abs(got-want) > 1e-9 {
			t.Errorf("node %d x = %g, want %g", i+1, got, want)
		}
	}
	if !swc.IsTopologicallySorted(out) {
		t.Error("result is not topologically sorted")
	}
}

func TestCubic_RadiusClamp(t *testing.T) {
	tr := swc.NodeSet{
		1: {ID: 1, Type: swc.TypeAxon, X: 0, Radius: 1, ParentID: swc.Root},
		2: {ID: 2, Type: swc.TypeAxon, X: 10, Radius: 1, ParentID: 1},
	}

	out := Cubic(tr, 2)

	// Endpoints keep their measured radius; interior radii are lifted to
	// 1.05 times the thinnest original sample.
	if out[1].Radius != 1 || out[len(out)].Radius != 1 {
		t.Errorf("endpoint radii = (%g, %g), want (1, 1)",
			out[1].Radius, out[len(out)].Radius)
	}
	for id := 2; id < len(out); id++ {
		if got := out[id].Radius; math.Abs(got-1.05) > 1e-9 {
			t.Errorf("node %d radius = %g, want 1.05", id, got)
		}
	}
}

func TestCubic_ZeroLengthFallsBackToLinear(t *testing.T) {
	tr := swc.NodeSet{
		1: {ID: 1, Type: swc.TypeAxon, Radius: 1, ParentID: swc.Root},
		2: {ID: 2, Type: swc.TypeAxon, Radius: 1, ParentID: 1},
	}

	out := Cubic(tr, 1)
	if len(out) != 4 {
		t.Fatalf("Cubic() nodes = %d, want 4 via the linear fallback", len(out))
	}
	for id, n := range out {
		if n.X != 0 || n.Y != 0 || n.Z != 0 {
			t.Errorf("node %d position = (%g, %g, %g), want origin", id, n.X, n.Y, n.Z)
		}
	}
}

func TestCubic_TooFewNodes(t *testing.T) {
	tr := swc.NodeSet{
		1: {ID: 1, Type: swc.TypeAxon, ParentID: swc.Root},
	}
	if out := Cubic(tr, 1); len(out) != 0 {
		t.Errorf("Cubic() nodes = %d, want 0 for a single-node trunk", len(out))
	}
}
