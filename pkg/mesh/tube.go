// Package mesh turns an ordered node path into a tapered tube mesh.
//
// The tube is built from parallel-transport frames: a locally
// orthonormal (tangent, normal, binormal) basis propagated along the
// path so the ring orientation does not accumulate twist. Each node
// contributes one ring of vertices scaled by its radius; consecutive
// rings are stitched with quads split into two triangles. Every
// element is tagged with its source node's structure type, so viewers
// can color soma, axon and dendrite tube sections independently.
package mesh

import (
	"fmt"
	"math"

	"github.com/neurite-tools/neurite/pkg/errors"
	"github.com/neurite-tools/neurite/pkg/swc"
	"github.com/neurite-tools/neurite/pkg/ugx"
)

// DefaultSegments is the ring resolution used when the caller does not
// specify one.
const DefaultSegments = 8

// frame is one parallel-transport basis sample.
type frame struct {
	t, n, b Vec3
}

// transportFrames computes one frame per node. The first normal is
// seeded as (0,1,0), or (1,0,0) when the initial tangent is within
// 1e-3 of parallel to it; each later normal comes from the previous
// binormal crossed with the new tangent.
func transportFrames(nodes []swc.Node) []frame {
	if len(nodes) < 2 {
		return nil
	}

	frames := make([]frame, 0, len(nodes))

	t0 := position(nodes[1]).Sub(position(nodes[0])).Normalize()
	n0 := Vec3{0, 1, 0}
	if t0.Cross(n0).Norm() < 1e-3 {
		n0 = Vec3{1, 0, 0}
	}
	b0 := t0.Cross(n0).Normalize()
	n0 = b0.Cross(t0).Normalize()
	frames = append(frames, frame{t: t0, n: n0, b: b0})

	for i := 1; i < len(nodes); i++ {
		t := position(nodes[i]).Sub(position(nodes[i-1])).Normalize()
		bPrev := frames[len(frames)-1].b
		n := bPrev.Cross(t).Normalize()
		b := t.Cross(n).Normalize()
		frames = append(frames, frame{t: t, n: n, b: b})
	}
	return frames
}

func position(n swc.Node) Vec3 {
	return Vec3{n.X, n.Y, n.Z}
}

// Display names for the mesh subsets, keyed by structure type.
var meshSubsetNames = map[int]string{
	swc.TypeSoma:           "Soma",
	swc.TypeAxon:           "Axon",
	swc.TypeBasalDendrite:  "Dendrite",
	swc.TypeApicalDendrite: "ApicalDendrite",
	swc.TypeForkPoint:      "ForkPoint",
	swc.TypeEndPoint:       "EndPoint",
	swc.TypeCustom:         "Custom",
}

// TubeFromPath builds a tube mesh along path, visiting nodes in
// ascending id order. Each node emits segments ring vertices at angles
// 2πj/segments in its frame's normal/binormal plane, scaled by the
// node's radius. Vertex, edge and face subsets use the structure type
// of the ring's source node (for stitching elements, the earlier
// ring's node); subset names use the display names above, or
// "UnknownType_N" for types outside the standard range.
//
// Returns ErrCodeInvalidInput when the path has fewer than two nodes,
// since no tangent can be computed, and when segments is less than 3,
// since a ring needs at least a triangle's worth of vertices.
func TubeFromPath(path swc.NodeSet, segments int) (*ugx.Geometry, error) {
	if len(path) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"tube path needs at least 2 nodes, got %d", len(path))
	}
	if segments < 3 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"tube rings need at least 3 segments, got %d", segments)
	}

	nodes := swc.InOrder(path)
	frames := transportFrames(nodes)

	g := ugx.NewGeometry()
	vid := 0
	for i, node := range nodes {
		f := frames[i]
		p := position(node)
		r := node.Radius

		for j := 0; j < segments; j++ {
			theta := 2 * math.Pi * float64(j) / float64(segments)
			circ := f.n.Scale(math.Cos(theta)).Add(f.b.Scale(math.Sin(theta)))
			v := p.Add(circ.Scale(r))

			g.Points[vid] = ugx.Point{X: v.X, Y: v.Y, Z: v.Z}
			g.Radii[vid] = r
			g.VertexSubsets[vid] = node.Type
			vid++
		}
	}

	for i := 0; i < len(nodes)-1; i++ {
		for j := 0; j < segments; j++ {
			a := i*segments + j
			b := i*segments + (j+1)%segments
			c := (i+1)*segments + j
			d := (i+1)*segments + (j+1)%segments

			g.Edges = append(g.Edges, [2]int{a, c}, [2]int{a, b}, [2]int{c, d})
			g.Faces = append(g.Faces, [3]int{a, b, c}, [3]int{b, d, c})

			typ := nodes[i].Type
			g.EdgeSubsets[len(g.Edges)-3] = typ
			g.EdgeSubsets[len(g.Edges)-2] = typ
			g.EdgeSubsets[len(g.Edges)-1] = typ
			g.FaceSubsets[len(g.Faces)-2] = typ
			g.FaceSubsets[len(g.Faces)-1] = typ
		}
	}

	for _, node := range nodes {
		if name, ok := meshSubsetNames[node.Type]; ok {
			g.SubsetNames[node.Type] = name
		} else {
			g.SubsetNames[node.Type] = fmt.Sprintf("UnknownType_%d", node.Type)
		}
	}

	return g, nil
}
