package swc

import (
	"maps"
	"math"
	"slices"
)

// Root is the parent id sentinel marking a node with no parent.
const Root = -1

// Structure type tags used in SWC morphology files. Values above
// TypeCustom are tolerated and carried through unchanged.
const (
	TypeUndefined      = 0
	TypeSoma           = 1
	TypeAxon           = 2
	TypeBasalDendrite  = 3
	TypeApicalDendrite = 4
	TypeForkPoint      = 5
	TypeEndPoint       = 6
	TypeCustom         = 7
)

// Node is a single sample point of a neuron skeleton: a position with a
// radius, a structure type tag, and a link to its parent sample.
//
// Invariant: ParentID is either Root or the id of another node in the
// same NodeSet.
type Node struct {
	ID       int     // Unique identifier, >= 1
	Type     int     // Structure type tag (TypeSoma, TypeAxon, ...)
	X, Y, Z  float64 // Position in microns
	Radius   float64 // Cross-section radius in microns, >= 0
	ParentID int     // Parent node id, or Root
}

// Pos returns the node position as separate coordinates.
func (n Node) Pos() (x, y, z float64) { return n.X, n.Y, n.Z }

// Distance returns the Euclidean distance between two node positions.
func Distance(a, b Node) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// NodeSet maps node ids to nodes. All transformation functions in this
// package and its siblings treat node sets as values: they never mutate
// their input and return a freshly built set.
//
// Iteration-order sensitive algorithms always walk a NodeSet in
// ascending id order (see SortedIDs); this mirrors the ordered-map
// semantics the format contracts were defined against.
type NodeSet map[int]Node

// SortedIDs returns the ids of ns in ascending order.
func SortedIDs(ns NodeSet) []int {
	return slices.Sorted(maps.Keys(ns))
}

// InOrder returns the nodes of ns ordered by ascending id.
func InOrder(ns NodeSet) []Node {
	ids := SortedIDs(ns)
	nodes := make([]Node, len(ids))
	for i, id := range ids {
		nodes[i] = ns[id]
	}
	return nodes
}

// Clone returns a shallow copy of ns.
func Clone(ns NodeSet) NodeSet {
	out := make(NodeSet, len(ns))
	maps.Copy(out, ns)
	return out
}
