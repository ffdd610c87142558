// Package ugx implements the XML grid format used to exchange neuron
// morphologies and generated tube meshes: points, edges, triangular
// faces, a per-vertex diameter attachment, and named subsets tagging
// geometry by structure type.
//
// The same container serves two roles. A neuron tree is a degenerate
// grid carrying only vertices and edges; a tube mesh additionally
// carries faces. [FromNodes] and [ToNodes] convert between the tree view
// and [swc.NodeSet], while [Encode] and [Decode] handle the wire format
// for either role.
package ugx

import (
	"fmt"
	"maps"
	"slices"

	"github.com/neurite-tools/neurite/pkg/errors"
	"github.com/neurite-tools/neurite/pkg/swc"
)

// Point is a 3D coordinate.
type Point struct {
	X, Y, Z float64
}

// Geometry is the in-memory grid: indexed points with optional radii,
// edge and face index lists, and subset assignments per element class.
// Vertex, edge and face indices are 0-based throughout, as on the wire;
// only the tree conversion layer deals in 1-based node ids.
type Geometry struct {
	Points map[int]Point // vertex index -> coordinate
	Edges  [][2]int      // vertex index pairs
	Faces  [][3]int      // vertex index triples

	VertexSubsets map[int]int    // vertex index -> subset id
	EdgeSubsets   map[int]int    // edge index -> subset id
	FaceSubsets   map[int]int    // face index -> subset id
	SubsetNames   map[int]string // subset id -> name
	Radii         map[int]float64
}

// NewGeometry creates an empty geometry with all maps initialized.
func NewGeometry() *Geometry {
	return &Geometry{
		Points:        make(map[int]Point),
		VertexSubsets: make(map[int]int),
		EdgeSubsets:   make(map[int]int),
		FaceSubsets:   make(map[int]int),
		SubsetNames:   make(map[int]string),
		Radii:         make(map[int]float64),
	}
}

// Subset names for the standard structure types, as written by the tree
// exporter and recognized by the tree importer.
var subsetNameForType = map[int]string{
	swc.TypeSoma:           "soma",
	swc.TypeAxon:           "axon",
	swc.TypeBasalDendrite:  "dend",
	swc.TypeApicalDendrite: "apic",
	swc.TypeForkPoint:      "fork",
	swc.TypeEndPoint:       "end",
}

// typeForSubsetName is the inverse mapping used on import: unknown names
// map to the custom tag, vertices in no subset stay undefined.
func typeForSubsetName(name string) int {
	for typ, n := range subsetNameForType {
		if n == name {
			return typ
		}
	}
	return swc.TypeCustom
}

// FromNodes converts a node set into a degenerate grid: one vertex per
// node in ascending id order, one edge per parent-link whose parent is
// present, one subset per structure type (named for the standard types,
// "neurite" otherwise). Edge subset membership follows the child node's
// type. Radii are carried into the diameter attachment on encode.
func FromNodes(ns swc.NodeSet) *Geometry {
	g := NewGeometry()

	idToIndex := make(map[int]int, len(ns))
	ids := swc.SortedIDs(ns)
	for i, id := range ids {
		n := ns[id]
		idToIndex[id] = i
		g.Points[i] = Point{X: n.X, Y: n.Y, Z: n.Z}
		g.Radii[i] = n.Radius
		g.VertexSubsets[i] = n.Type
		if name, ok := subsetNameForType[n.Type]; ok {
			g.SubsetNames[n.Type] = name
		} else {
			g.SubsetNames[n.Type] = "neurite"
		}
	}

	for _, id := range ids {
		n := ns[id]
		if _, ok := ns[n.ParentID]; n.ParentID == swc.Root || !ok {
			continue
		}
		g.Edges = append(g.Edges, [2]int{idToIndex[n.ParentID], idToIndex[n.ID]})
		g.EdgeSubsets[len(g.Edges)-1] = n.Type
	}

	return g
}

// ToNodes reconstructs a node set from a grid read off the wire. Vertex
// index i becomes node id i+1. The node type comes from the name of the
// vertex's subset (unknown names map to the custom tag, absent subsets
// to undefined), the radius from the diameter attachment (default 1.0
// when absent). Edges referencing out-of-range vertex indices are
// skipped with a reference warning.
//
// Returns ErrCodeEmptyGeometry if the grid holds no vertices at all.
func ToNodes(g *Geometry) (swc.NodeSet, []errors.Warning, error) {
	numVertices := len(g.Points)
	if numVertices == 0 {
		return nil, nil, errors.New(errors.ErrCodeEmptyGeometry, "grid contains no vertices")
	}

	ns := make(swc.NodeSet, numVertices)
	for _, idx := range slices.Sorted(maps.Keys(g.Points)) {
		p := g.Points[idx]
		typ := swc.TypeUndefined
		if sid, ok := g.VertexSubsets[idx]; ok {
			typ = typeForSubsetName(g.SubsetNames[sid])
		}
		radius := 1.0
		if r, ok := g.Radii[idx]; ok {
			radius = r
		}
		ns[idx+1] = swc.Node{
			ID:       idx + 1,
			Type:     typ,
			X:        p.X,
			Y:        p.Y,
			Z:        p.Z,
			Radius:   radius,
			ParentID: swc.Root,
		}
	}

	var warns []errors.Warning
	for _, e := range g.Edges {
		from, to := e[0], e[1]
		if from < 0 || from >= numVertices || to < 0 || to >= numVertices {
			warns = append(warns, errors.Warnf(errors.WarnReference, 0,
				"edge (%d, %d) references a vertex outside [0, %d); skipped", from, to, numVertices))
			continue
		}
		child := ns[to+1]
		child.ParentID = from + 1
		ns[to+1] = child
	}

	return ns, warns, nil
}

// Append merges other into g, offsetting other's vertex indices past
// g's existing points. Subset names merge by id; when both sides name
// the same subset id, g's name wins.
func (g *Geometry) Append(other *Geometry) {
	offset := len(g.Points)
	edgeOffset := len(g.Edges)
	faceOffset := len(g.Faces)

	for _, idx := range slices.Sorted(maps.Keys(other.Points)) {
		g.Points[offset+idx] = other.Points[idx]
		if r, ok := other.Radii[idx]; ok {
			g.Radii[offset+idx] = r
		}
		if sid, ok := other.VertexSubsets[idx]; ok {
			g.VertexSubsets[offset+idx] = sid
		}
	}
	for i, e := range other.Edges {
		g.Edges = append(g.Edges, [2]int{e[0] + offset, e[1] + offset})
		if sid, ok := other.EdgeSubsets[i]; ok {
			g.EdgeSubsets[edgeOffset+i] = sid
		}
	}
	for i, f := range other.Faces {
		g.Faces = append(g.Faces, [3]int{f[0] + offset, f[1] + offset, f[2] + offset})
		if sid, ok := other.FaceSubsets[i]; ok {
			g.FaceSubsets[faceOffset+i] = sid
		}
	}
	for sid, name := range other.SubsetNames {
		if _, ok := g.SubsetNames[sid]; !ok {
			g.SubsetNames[sid] = name
		}
	}
}

// String implements fmt.Stringer with a compact size summary.
func (g *Geometry) String() string {
	return fmt.Sprintf("grid{%d points, %d edges, %d faces, %d subsets}",
		len(g.Points), len(g.Edges), len(g.Faces), len(g.SubsetNames))
}
