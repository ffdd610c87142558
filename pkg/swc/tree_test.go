package swc

import (
	"path/filepath"
	"testing"

	"github.com/neurite-tools/neurite/pkg/errors"
)

func TestTree_EdgeCounts(t *testing.T) {
	// Two children share parent 1: one adjacency bucket, two links.
	tree := NewTreeFromNodes(NodeSet{
		1: {ID: 1, Type: TypeSoma, ParentID: Root},
		2: {ID: 2, Type: TypeAxon, ParentID: 1},
		3: {ID: 3, Type: TypeAxon, ParentID: 1},
	})

	if got := tree.NumberOfNodes(); got != 3 {
		t.Errorf("NumberOfNodes() = %d, want 3", got)
	}
	if got := tree.NumberOfEdges(); got != 1 {
		t.Errorf("NumberOfEdges() = %d, want 1 adjacency bucket", got)
	}
	if got := tree.TrueEdgeCount(); got != 2 {
		t.Errorf("TrueEdgeCount() = %d, want 2", got)
	}
}

func TestTree_SetNodesRebuildsAdjacency(t *testing.T) {
	tree := NewTreeFromNodes(NodeSet{
		1: {ID: 1, ParentID: Root},
		2: {ID: 2, ParentID: 1},
	})
	tree.SetNodes(NodeSet{
		1: {ID: 1, ParentID: Root},
		2: {ID: 2, ParentID: 1},
		3: {ID: 3, ParentID: 2},
	})

	if got := tree.Children(1); len(got) != 1 || got[0] != 2 {
		t.Errorf("Children(1) = %v, want [2]", got)
	}
	if got := tree.Children(2); len(got) != 1 || got[0] != 3 {
		t.Errorf("Children(2) = %v, want [3]", got)
	}
}

func TestTree_NodesReturnsCopy(t *testing.T) {
	tree := NewTreeFromNodes(NodeSet{
		1: {ID: 1, Type: TypeSoma, ParentID: Root},
	})

	ns := tree.Nodes()
	ns[1] = Node{ID: 1, Type: TypeAxon, ParentID: Root}

	if tree.Nodes()[1].Type != TypeSoma {
		t.Error("mutating Nodes() result changed the tree")
	}
}

func TestTree_ReadFileRejectsUnknownExtension(t *testing.T) {
	tree := NewTree()
	_, err := tree.ReadFile(filepath.Join(t.TempDir(), "neuron.obj"))
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ReadFile() error = %v, want code %s", err, errors.ErrCodeUnsupported)
	}
}

func TestTree_ReadWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "neuron.swc")
	tree := NewTreeFromNodes(NodeSet{
		1: {ID: 1, Type: TypeSoma, Radius: 5, ParentID: Root},
		2: {ID: 2, Type: TypeAxon, X: 10, Radius: 1, ParentID: 1},
	})
	if err := tree.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	loaded := NewTree()
	warns, err := loaded.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if len(warns) != 0 {
		t.Errorf("ReadFile() warnings = %d, want 0", len(warns))
	}
	for id, n := range tree.Nodes() {
		if loaded.Nodes()[id] != n {
			t.Errorf("node %d = %+v, want %+v", id, loaded.Nodes()[id], n)
		}
	}
}
