package resample

import (
	"math"

	"github.com/neurite-tools/neurite/pkg/swc"
)

// Cubic resamples a trunk with natural cubic splines fitted
// independently to x(s), y(s), z(s) and r(s), parameterized by
// cumulative arc length s and sampled at N uniform arc-length positions
// (N as for Linear). Endpoints are copied verbatim, bypassing spline
// evaluation. Interior radii are clamped to
//
//	max(|spline(s)|, 1.05 × min original radius)
//
// so overshoot near thin segments cannot pinch the tube below its
// thinnest measured cross-section.
//
// A zero-length trunk (all points coincident) has no usable spline
// parameterization and falls back to linear interpolation, which is
// well-defined there. Coincident interior points on an otherwise
// nonzero-length trunk still produce degenerate knot spacing.
func Cubic(t swc.NodeSet, delta float64) swc.NodeSet {
	nodes, typeCount := orderedNodes(t)
	if len(nodes) < 2 {
		return swc.NodeSet{}
	}

	s := arcLengths(nodes)
	totalLength := s[len(s)-1]
	if totalLength == 0 {
		return Linear(t, delta)
	}

	dominant := dominantType(nodes, typeCount)
	n := pointCount(totalLength, delta)

	ts := make([]float64, n)
	for i := range ts {
		ts[i] = float64(i) * totalLength / float64(n-1)
	}

	xs := make([]float64, len(nodes))
	ys := make([]float64, len(nodes))
	zs := make([]float64, len(nodes))
	rs := make([]float64, len(nodes))
	minRadius := math.Inf(1)
	for i, p := range nodes {
		xs[i], ys[i], zs[i], rs[i] = p.X, p.Y, p.Z, p.Radius
		minRadius = math.Min(minRadius, p.Radius)
	}
	clampRadius := 1.05 * minRadius

	xNew := splineSample(s, xs, ts)
	yNew := splineSample(s, ys, ts)
	zNew := splineSample(s, zs, ts)
	rNew := splineSample(s, rs, ts)

	out := make(swc.NodeSet, n)
	for i := 0; i < n; i++ {
		var node swc.Node
		if i == 0 || i == n-1 {
			if i == 0 {
				node = nodes[0]
				node.ParentID = swc.Root
			} else {
				node = nodes[len(nodes)-1]
				node.ParentID = i
			}
			node.ID = i + 1
		} else {
			node = swc.Node{
				ID:       i + 1,
				ParentID: i,
				Type:     dominant,
				X:        xNew[i],
				Y:        yNew[i],
				Z:        zNew[i],
				Radius:   math.Max(math.Abs(rNew[i]), clampRadius),
			}
		}
		out[node.ID] = node
	}
	return out
}

// splineSample fits a natural cubic spline through (x[i], y[i]) and
// evaluates it at every query point. The tridiagonal system is solved
// with the Thomas algorithm under the natural boundary condition
// (second derivative zero at both ends). Knots must be strictly
// increasing.
func splineSample(x, y, queries []float64) []float64 {
	n := len(x)
	h := make([]float64, n-1)
	alpha := make([]float64, n-1)
	l := make([]float64, n)
	mu := make([]float64, n)
	z := make([]float64, n)
	b := make([]float64, n-1)
	c := make([]float64, n)
	d := make([]float64, n-1)

	for i := 0; i < n-1; i++ {
		h[i] = x[i+1] - x[i]
	}
	for i := 1; i < n-1; i++ {
		alpha[i] = (3.0/h[i])*(y[i+1]-y[i]) - (3.0/h[i-1])*(y[i]-y[i-1])
	}

	l[0] = 1
	for i := 1; i < n-1; i++ {
		l[i] = 2*(x[i+1]-x[i-1]) - h[i-1]*mu[i-1]
		mu[i] = h[i] / l[i]
		z[i] = (alpha[i] - h[i-1]*z[i-1]) / l[i]
	}
	l[n-1] = 1

	for j := n - 2; j >= 0; j-- {
		c[j] = z[j] - mu[j]*c[j+1]
		b[j] = (y[j+1]-y[j])/h[j] - h[j]*(c[j+1]+2*c[j])/3.0
		d[j] = (c[j+1] - c[j]) / (3.0 * h[j])
	}

	result := make([]float64, len(queries))
	for qi, xq := range queries {
		i := 0
		for i < n-2 && xq > x[i+1] {
			i++
		}
		dx := xq - x[i]
		result[qi] = y[i] + b[i]*dx + c[i]*dx*dx + d[i]*dx*dx*dx
	}
	return result
}
