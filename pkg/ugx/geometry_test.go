package ugx

import (
	"testing"

	"github.com/neurite-tools/neurite/pkg/errors"
	"github.com/neurite-tools/neurite/pkg/swc"
)

func TestFromNodes_DegenerateGrid(t *testing.T) {
	ns := swc.NodeSet{
		1: {ID: 1, Type: swc.TypeSoma, X: 0, Radius: 5, ParentID: swc.Root},
		2: {ID: 2, Type: swc.TypeAxon, X: 10, Radius: 1, ParentID: 1},
		3: {ID: 3, Type: swc.TypeAxon, X: 20, Radius: 1, ParentID: 2},
	}

	g := FromNodes(ns)
	if len(g.Points) != 3 {
		t.Fatalf("points = %d, want 3", len(g.Points))
	}
	if len(g.Edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(g.Edges))
	}
	if len(g.Faces) != 0 {
		t.Errorf("faces = %d, want 0 for a tree grid", len(g.Faces))
	}

	// Vertex index i holds node id i+1 and keeps its radius.
	if g.Points[1].X != 10 || g.Radii[1] != 1 {
		t.Errorf("vertex 1 = (%+v, r=%g), want x=10 r=1", g.Points[1], g.Radii[1])
	}
	if g.Edges[0] != [2]int{0, 1} || g.Edges[1] != [2]int{1, 2} {
		t.Errorf("edges = %v, want [[0 1] [1 2]]", g.Edges)
	}

	if g.SubsetNames[swc.TypeSoma] != "soma" || g.SubsetNames[swc.TypeAxon] != "axon" {
		t.Errorf("subset names = %v, want soma and axon entries", g.SubsetNames)
	}
	if g.VertexSubsets[0] != swc.TypeSoma || g.VertexSubsets[2] != swc.TypeAxon {
		t.Errorf("vertex subsets = %v, want soma at 0 and axon at 2", g.VertexSubsets)
	}
}

func TestToNodes_RoundTrip(t *testing.T) {
	ns := swc.NodeSet{
		1: {ID: 1, Type: swc.TypeSoma, X: 0, Radius: 5, ParentID: swc.Root},
		2: {ID: 2, Type: swc.TypeBasalDendrite, X: 1, Y: 2, Z: 3, Radius: 0.5, ParentID: 1},
		3: {ID: 3, Type: swc.TypeBasalDendrite, X: 2, Y: 4, Z: 6, Radius: 0.5, ParentID: 2},
	}

	got, warns, err := ToNodes(FromNodes(ns))
	if err != nil {
		t.Fatalf("ToNodes() error: %v", err)
	}
	if len(warns) != 0 {
		t.Errorf("ToNodes() warnings = %d, want 0", len(warns))
	}
	for id, n := range ns {
		if got[id] != n {
			t.Errorf("node %d = %+v, want %+v", id, got[id], n)
		}
	}
}

func TestToNodes_Empty(t *testing.T) {
	_, _, err := ToNodes(NewGeometry())
	if !errors.Is(err, errors.ErrCodeEmptyGeometry) {
		t.Errorf("ToNodes() error = %v, want code %s", err, errors.ErrCodeEmptyGeometry)
	}
}

func TestToNodes_OutOfRangeEdgeSkipped(t *testing.T) {
	g := NewGeometry()
	g.Points[0] = Point{}
	g.Points[1] = Point{X: 1}
	g.Edges = append(g.Edges, [2]int{0, 1}, [2]int{0, 7})

	ns, warns, err := ToNodes(g)
	if err != nil {
		t.Fatalf("ToNodes() error: %v", err)
	}
	if len(warns) != 1 {
		t.Fatalf("ToNodes() warnings = %d, want 1", len(warns))
	}
	if warns[0].Kind != errors.WarnReference {
		t.Errorf("warning kind = %v, want %v", warns[0].Kind, errors.WarnReference)
	}
	if ns[2].ParentID != 1 {
		t.Errorf("node 2 parent = %d, want 1", ns[2].ParentID)
	}
}

func TestToNodes_DefaultRadius(t *testing.T) {
	g := NewGeometry()
	g.Points[0] = Point{}

	ns, _, err := ToNodes(g)
	if err != nil {
		t.Fatalf("ToNodes() error: %v", err)
	}
	if ns[1].Radius != 1.0 {
		t.Errorf("node 1 radius = %g, want default 1.0", ns[1].Radius)
	}
	if ns[1].Type != swc.TypeUndefined {
		t.Errorf("node 1 type = %d, want undefined without a subset", ns[1].Type)
	}
}

func TestAppend_OffsetsIndices(t *testing.T) {
	a := NewGeometry()
	a.Points[0] = Point{}
	a.Points[1] = Point{X: 1}
	a.Edges = append(a.Edges, [2]int{0, 1})
	a.EdgeSubsets[0] = 0
	a.SubsetNames[0] = "axon"

	b := NewGeometry()
	b.Points[0] = Point{Y: 1}
	b.Points[1] = Point{Y: 2}
	b.Points[2] = Point{Y: 3}
	b.Edges = append(b.Edges, [2]int{0, 2})
	b.Faces = append(b.Faces, [3]int{0, 1, 2})
	b.FaceSubsets[0] = 1
	b.SubsetNames[0] = "ignored"
	b.SubsetNames[1] = "dend"

	a.Append(b)
	if len(a.Points) != 5 {
		t.Fatalf("points = %d, want 5", len(a.Points))
	}
	if a.Points[2].Y != 1 || a.Points[4].Y != 3 {
		t.Errorf("appended points misplaced: %v", a.Points)
	}
	if a.Edges[1] != [2]int{2, 4} {
		t.Errorf("appended edge = %v, want [2 4]", a.Edges[1])
	}
	if a.Faces[0] != [3]int{2, 3, 4} {
		t.Errorf("appended face = %v, want [2 3 4]", a.Faces[0])
	}
	if a.FaceSubsets[0] != 1 {
		t.Errorf("face subset = %d, want 1", a.FaceSubsets[0])
	}

	// Existing subset names win on id conflicts.
	if a.SubsetNames[0] != "axon" || a.SubsetNames[1] != "dend" {
		t.Errorf("subset names = %v, want axon and dend", a.SubsetNames)
	}
}
