// Package render visualizes neuron topology as node-link diagrams.
//
// Two views are supported: the raw tree, one graph node per sample
// colored by structure type, and the trunk view, one graph node per
// unbranched path so large morphologies stay readable. Both produce
// Graphviz DOT source that [RenderSVG] and [RenderPNG] turn into
// images.
package render

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/neurite-tools/neurite/pkg/swc"
	"github.com/neurite-tools/neurite/pkg/trunk"
)

// Options configures diagram generation.
type Options struct {
	// Detailed includes position and radius in node labels. When
	// false, only the node id is shown.
	Detailed bool
}

// Fill colors per structure type, loosely following the conventions
// neuron viewers use (soma dark, axon blue, dendrites red/orange).
var typeColors = map[int]string{
	swc.TypeSoma:           "gray25",
	swc.TypeAxon:           "steelblue",
	swc.TypeBasalDendrite:  "firebrick",
	swc.TypeApicalDendrite: "darkorange",
	swc.TypeForkPoint:      "seagreen",
	swc.TypeEndPoint:       "mediumpurple",
}

// ToDOT converts a morphology to Graphviz DOT, one graph node per
// sample, edges following parent links. Edges pointing at absent
// parents are omitted.
func ToDOT(ns swc.NodeSet, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph neuron {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	ids := swc.SortedIDs(ns)
	for _, id := range ids {
		n := ns[id]
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
		if color, ok := typeColors[n.Type]; ok {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%s", color), "fontcolor=white")
		}
		fmt.Fprintf(&buf, "  %d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, id := range ids {
		n := ns[id]
		if _, ok := ns[n.ParentID]; n.ParentID == swc.Root || !ok {
			continue
		}
		fmt.Fprintf(&buf, "  %d -> %d;\n", n.ParentID, n.ID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// TrunkDOT converts a trunk decomposition to Graphviz DOT, one graph
// node per trunk labeled with its id and node count, edges following
// the trunk parent map.
func TrunkDOT(trunks trunk.Map, parents map[int]int) string {
	var buf bytes.Buffer
	buf.WriteString("digraph trunks {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, tid := range slices.Sorted(maps.Keys(trunks)) {
		fmt.Fprintf(&buf, "  %d [label=\"trunk %d\\n%d nodes\"];\n", tid, tid, len(trunks[tid]))
	}

	buf.WriteString("\n")
	for _, tid := range slices.Sorted(maps.Keys(parents)) {
		pid := parents[tid]
		if pid < 0 {
			continue
		}
		fmt.Fprintf(&buf, "  %d -> %d;\n", pid, tid)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n swc.Node, detailed bool) string {
	if !detailed {
		return fmt.Sprintf("%d", n.ID)
	}
	return fmt.Sprintf("%d\n(%.1f, %.1f, %.1f)\nr=%.2f", n.ID, n.X, n.Y, n.Z, n.Radius)
}
