// Package swc implements the neuron skeleton data model: typed point-and-
// radius nodes linked into a tree, plus the topology checks and repairs
// that make a raw reconstruction usable.
//
// The central types are [Node], [NodeSet] and [Tree]. A Tree owns a
// NodeSet together with a derived child adjacency that is rebuilt
// whenever the node set is replaced. All repairs (topological sort, soma
// consolidation, edge splitting) are pure functions from NodeSet to
// NodeSet; callers adopt a result with [Tree.SetNodes].
package swc

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/neurite-tools/neurite/pkg/errors"
)

// Tree is the node store: an id→node table plus a derived parent→children
// adjacency. The adjacency is rebuilt from scratch whenever the node set
// changes, never patched incrementally, so it cannot drift out of sync.
//
// The zero value is not usable - use NewTree or one of the constructors.
// Tree is not safe for concurrent use without external synchronization.
type Tree struct {
	nodes    NodeSet
	children map[int][]int // parent id -> child ids, insertion order
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{
		nodes:    make(NodeSet),
		children: make(map[int][]int),
	}
}

// NewTreeFromNodes creates a tree holding a copy of the given node set.
func NewTreeFromNodes(ns NodeSet) *Tree {
	t := NewTree()
	t.SetNodes(ns)
	return t
}

// AddNode inserts or overwrites a node by id. If the node has a parent,
// its id is appended to that parent's child list. No validation is
// performed here; bulk loaders call this per line and validate after.
func (t *Tree) AddNode(n Node) {
	t.nodes[n.ID] = n
	if n.ParentID != Root {
		t.children[n.ParentID] = append(t.children[n.ParentID], n.ID)
	}
}

// SetNodes clears the store and re-adds every node of ns in ascending id
// order, rebuilding the adjacency from scratch. Used to atomically adopt
// the result of a transformation.
func (t *Tree) SetNodes(ns NodeSet) {
	t.nodes = make(NodeSet, len(ns))
	t.children = make(map[int][]int)
	for _, id := range SortedIDs(ns) {
		t.AddNode(ns[id])
	}
}

// Nodes returns a copy of the stored node set.
func (t *Tree) Nodes() NodeSet {
	return Clone(t.nodes)
}

// Children returns the child ids recorded for the given parent id.
func (t *Tree) Children(id int) []int {
	return slices.Clone(t.children[id])
}

// NumberOfNodes returns the node count.
func (t *Tree) NumberOfNodes() int { return len(t.nodes) }

// NumberOfEdges returns the number of adjacency buckets: the count of
// distinct parent ids that have at least one child. This preserves the
// historical meaning of the edge count in the file-format tooling this
// package replaces; it is NOT the number of parent-links when several
// children share a parent. Use TrueEdgeCount for the actual link count.
func (t *Tree) NumberOfEdges() int { return len(t.children) }

// TrueEdgeCount returns the number of parent-links: nodes whose parent
// is not Root and is present in the set.
func (t *Tree) TrueEdgeCount() int {
	count := 0
	for _, n := range t.nodes {
		if n.ParentID != Root {
			if _, ok := t.nodes[n.ParentID]; ok {
				count++
			}
		}
	}
	return count
}

// ReadFile loads a morphology from path, dispatching on the file
// extension: .swc is read as the SWC text format, anything else is
// rejected. UGX grid files are handled by the ugx package, which layers
// on top of this one; use ugx.ReadTreeFile for extension dispatch across
// both formats.
func (t *Tree) ReadFile(path string) ([]errors.Warning, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".swc" {
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported file format: %s", ext)
	}
	ns, warns, err := ReadFile(path)
	if err != nil {
		return warns, err
	}
	t.SetNodes(ns)
	return warns, nil
}

// WriteFile writes the stored node set to path in SWC text format.
func (t *Tree) WriteFile(path string) error {
	return WriteFile(t.nodes, path)
}
