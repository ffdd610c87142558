// Package resample rebuilds the geometry of a single trunk at a target
// node spacing, either by piecewise linear interpolation or by a natural
// cubic spline parameterized by cumulative arc length.
//
// Both resamplers return a fresh node set with sequential ids from 1 and
// a straight parent chain, and both copy the trunk's first and last node
// verbatim so endpoints are preserved exactly through any number of
// refinement rounds.
package resample

import (
	"maps"
	"math"
	"slices"

	"github.com/neurite-tools/neurite/pkg/swc"
)

// Resampling method names accepted by ByMethod and the pipeline.
const (
	MethodLinear = "linear"
	MethodCubic  = "cubic"
)

// orderedNodes flattens a trunk into ascending-id order and tallies the
// structure types present.
func orderedNodes(t swc.NodeSet) ([]swc.Node, map[int]int) {
	nodes := swc.InOrder(t)
	typeCount := make(map[int]int)
	for _, n := range nodes {
		typeCount[n.Type]++
	}
	return nodes, typeCount
}

// dominantType picks the most frequent structure type; ties go to the
// smallest type tag.
func dominantType(nodes []swc.Node, typeCount map[int]int) int {
	dominant := nodes[0].Type
	maxCount := 0
	for _, typ := range slices.Sorted(maps.Keys(typeCount)) {
		if typeCount[typ] > maxCount {
			dominant = typ
			maxCount = typeCount[typ]
		}
	}
	return dominant
}

// arcLengths returns the cumulative polyline length at every node; the
// last entry is the total length.
func arcLengths(nodes []swc.Node) []float64 {
	s := make([]float64, len(nodes))
	for i := 1; i < len(nodes); i++ {
		s[i] = s[i-1] + swc.Distance(nodes[i], nodes[i-1])
	}
	return s
}

// pointCount converts a trunk length and spacing into an output node
// count, floored at 4 so even short trunks keep a usable shape.
func pointCount(totalLength, delta float64) int {
	n := int(math.Round(totalLength / delta))
	if n <= 3 {
		n = 4
	}
	return n
}

// Linear resamples a trunk with piecewise linear interpolation. The
// output has pointCount(length, delta) nodes; the first and last are
// copied verbatim from the trunk's endpoints, interior nodes carry the
// dominant type and interpolate position and radius between the two
// original samples bracketing the parametric position t = j/(N-1).
//
// Segment selection is by point-index fraction, not by arc length within
// the segment: output spacing is only uniform when the input samples
// are. That is a deliberate simplification carried by the refinement
// pipeline, not an approximation to fix.
//
// A trunk with fewer than two nodes yields an empty set.
func Linear(t swc.NodeSet, delta float64) swc.NodeSet {
	nodes, typeCount := orderedNodes(t)
	if len(nodes) < 2 {
		return swc.NodeSet{}
	}

	dominant := dominantType(nodes, typeCount)
	s := arcLengths(nodes)
	n := pointCount(s[len(s)-1], delta)

	out := make(swc.NodeSet, n)
	for j := 0; j < n; j++ {
		t := float64(j) / float64(n-1)
		seg := int(t * float64(len(nodes)-1))
		next := min(seg+1, len(nodes)-1)
		alpha := t*float64(len(nodes)-1) - float64(seg)

		var interp swc.Node
		if j == 0 || j == n-1 {
			if j == 0 {
				interp = nodes[0]
				interp.ParentID = swc.Root
			} else {
				interp = nodes[len(nodes)-1]
				interp.ParentID = j
			}
			interp.ID = j + 1
		} else {
			interp = swc.Node{
				ID:       j + 1,
				ParentID: j,
				Type:     dominant,
				X:        lerp(nodes[seg].X, nodes[next].X, alpha),
				Y:        lerp(nodes[seg].Y, nodes[next].Y, alpha),
				Z:        lerp(nodes[seg].Z, nodes[next].Z, alpha),
				Radius: math.Abs(lerp(nodes[seg].Radius, nodes[next].Radius, alpha)),
			}
		}
		out[interp.ID] = interp
	}
	return out
}

func lerp(a, b, alpha float64) float64 {
	return (1-alpha)*a + alpha*b
}
