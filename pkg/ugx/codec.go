package ugx

import (
	"encoding/xml"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/neurite-tools/neurite/pkg/errors"
	"github.com/neurite-tools/neurite/pkg/swc"
)

// Wire representation. Every element carries its payload as a flat
// whitespace-separated text list, so the schema is a handful of string
// fields decoded with the field splitters below.

type xmlGrid struct {
	XMLName       xml.Name            `xml:"grid"`
	Name          string              `xml:"name,attr"`
	Vertices      *xmlVertices        `xml:"vertices"`
	Edges         *xmlFlatText        `xml:"edges"`
	Triangles     *xmlFlatText        `xml:"triangles"`
	Attachments   []xmlAttachment     `xml:"vertex_attachment"`
	SubsetHandler *xmlSubsetHandler   `xml:"subset_handler"`
	Projection    *xmlProjectionProxy `xml:"projection_handler"`
}

type xmlVertices struct {
	Coords int    `xml:"coords,attr"`
	Text   string `xml:",chardata"`
}

type xmlFlatText struct {
	Text string `xml:",chardata"`
}

type xmlAttachment struct {
	Name   string `xml:"name,attr"`
	Type   string `xml:"type,attr"`
	PassOn string `xml:"passOn,attr"`
	Global string `xml:"global,attr"`
	Text   string `xml:",chardata"`
}

type xmlSubsetHandler struct {
	Name    string      `xml:"name,attr"`
	Subsets []xmlSubset `xml:"subset"`
}

type xmlSubset struct {
	Name     string       `xml:"name,attr"`
	Color    string       `xml:"color,attr"`
	State    string       `xml:"state,attr"`
	Vertices *xmlFlatText `xml:"vertices"`
	Edges    *xmlFlatText `xml:"edges"`
	Faces    *xmlFlatText `xml:"faces"`
}

type xmlProjectionProxy struct {
	Name          string          `xml:"name,attr"`
	SubsetHandler string          `xml:"subset_handler,attr"`
	Default       *xmlProjDefault `xml:"default"`
}

type xmlProjDefault struct {
	Type string `xml:"type,attr"`
	Text string `xml:",chardata"`
}

// Decode parses a grid document from r into a Geometry. Subset ids are
// assigned positionally in document order; vertex types are resolved by
// name later, in ToNodes. Missing optional parts (attachment, subsets,
// faces) degrade to empty maps; a document without a <vertices> element
// fails with ErrCodeInvalidFormat.
func Decode(r io.Reader) (*Geometry, error) {
	var doc xmlGrid
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse grid document")
	}
	if doc.Vertices == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "grid document has no <vertices> element")
	}

	g := NewGeometry()

	coords, err := parseFloats(doc.Vertices.Text)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse vertex coordinates")
	}
	for i := 0; i+2 < len(coords); i += 3 {
		g.Points[i/3] = Point{X: coords[i], Y: coords[i+1], Z: coords[i+2]}
	}

	if doc.Edges != nil {
		pairs, err := parseInts(doc.Edges.Text)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse edge list")
		}
		for i := 0; i+1 < len(pairs); i += 2 {
			g.Edges = append(g.Edges, [2]int{pairs[i], pairs[i+1]})
		}
	}

	if doc.Triangles != nil {
		tris, err := parseInts(doc.Triangles.Text)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse triangle list")
		}
		for i := 0; i+2 < len(tris); i += 3 {
			g.Faces = append(g.Faces, [3]int{tris[i], tris[i+1], tris[i+2]})
		}
	}

	for _, att := range doc.Attachments {
		isDiameter := att.Name == "diameter"
		isRadius := att.Name == "radius"
		if !isDiameter && !isRadius {
			continue
		}
		values, err := parseFloats(att.Text)
		if err != nil {
			// Optional attachment: degrade to default radii.
			continue
		}
		for i, v := range values {
			if isDiameter {
				v /= 2
			}
			g.Radii[i] = v
		}
	}

	if doc.SubsetHandler != nil {
		for sid, sub := range doc.SubsetHandler.Subsets {
			name := sub.Name
			if name == "" {
				name = "unnamed"
			}
			g.SubsetNames[sid] = name
			assignSubset(g.VertexSubsets, sub.Vertices, sid)
			assignSubset(g.EdgeSubsets, sub.Edges, sid)
			assignSubset(g.FaceSubsets, sub.Faces, sid)
		}
	}

	return g, nil
}

func assignSubset(target map[int]int, elem *xmlFlatText, sid int) {
	if elem == nil {
		return
	}
	indices, err := parseInts(elem.Text)
	if err != nil {
		return
	}
	for _, idx := range indices {
		target[idx] = sid
	}
}

// Encode writes g to w as a grid document. Subsets are emitted in
// ascending subset-id order; per-element subset membership lists are
// sorted ascending. Radii are written as a diameter attachment (twice
// the radius), one value per vertex, zero where no radius is recorded.
func Encode(g *Geometry, w io.Writer) error {
	doc := xmlGrid{
		Name: "defGrid",
		Vertices: &xmlVertices{
			Coords: 3,
			Text:   joinFloats(pointsFlat(g)),
		},
	}

	if len(g.Edges) > 0 {
		flat := make([]int, 0, 2*len(g.Edges))
		for _, e := range g.Edges {
			flat = append(flat, e[0], e[1])
		}
		doc.Edges = &xmlFlatText{Text: joinInts(flat)}
	}

	if len(g.Faces) > 0 {
		flat := make([]int, 0, 3*len(g.Faces))
		for _, f := range g.Faces {
			flat = append(flat, f[0], f[1], f[2])
		}
		doc.Triangles = &xmlFlatText{Text: joinInts(flat)}
	}

	if len(g.Radii) > 0 {
		diameters := make([]float64, len(g.Points))
		for i := range diameters {
			if r, ok := g.Radii[i]; ok {
				diameters[i] = 2 * r
			}
		}
		doc.Attachments = []xmlAttachment{{
			Name:   "diameter",
			Type:   "double",
			PassOn: "0",
			Global: "1",
			Text:   joinFloats(diameters),
		}}
	}

	if len(g.SubsetNames) > 0 {
		sh := &xmlSubsetHandler{Name: "defSH"}
		for _, sid := range slices.Sorted(maps.Keys(g.SubsetNames)) {
			sub := xmlSubset{
				Name:  g.SubsetNames[sid],
				Color: "0.7 0.7 0.2",
				State: "0",
			}
			if vis := membership(g.VertexSubsets, sid); len(vis) > 0 {
				sub.Vertices = &xmlFlatText{Text: joinInts(vis)}
			}
			if eis := membership(g.EdgeSubsets, sid); len(eis) > 0 {
				sub.Edges = &xmlFlatText{Text: joinInts(eis)}
			}
			if fis := membership(g.FaceSubsets, sid); len(fis) > 0 {
				sub.Faces = &xmlFlatText{Text: joinInts(fis)}
			}
			sh.Subsets = append(sh.Subsets, sub)
		}
		doc.SubsetHandler = sh
	}

	doc.Projection = &xmlProjectionProxy{
		Name:          "defPH",
		SubsetHandler: "0",
		Default:       &xmlProjDefault{Type: "default", Text: "0 0"},
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write grid document")
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write grid document")
	}
	return enc.Close()
}

func membership(subsets map[int]int, sid int) []int {
	var out []int
	for idx, s := range subsets {
		if s == sid {
			out = append(out, idx)
		}
	}
	slices.Sort(out)
	return out
}

func pointsFlat(g *Geometry) []float64 {
	flat := make([]float64, 0, 3*len(g.Points))
	for _, idx := range slices.Sorted(maps.Keys(g.Points)) {
		p := g.Points[idx]
		flat = append(flat, p.X, p.Y, p.Z)
	}
	return flat
}

// ReadTree decodes a grid document and converts it to a node set.
func ReadTree(r io.Reader) (swc.NodeSet, []errors.Warning, error) {
	g, err := Decode(r)
	if err != nil {
		return nil, nil, err
	}
	return ToNodes(g)
}

// WriteTree converts a node set to a degenerate grid and encodes it.
func WriteTree(ns swc.NodeSet, w io.Writer) error {
	return Encode(FromNodes(ns), w)
}

// ReadFile decodes a grid file from disk.
func ReadFile(path string) (*Geometry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()
	return Decode(f)
}

// WriteFile encodes a grid file to disk.
func WriteFile(g *Geometry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return Encode(g, f)
}

// ReadTreeFile loads a morphology from disk, dispatching on the file
// extension: .swc as the text format, .ugx as a grid document.
func ReadTreeFile(path string) (swc.NodeSet, []errors.Warning, error) {
	switch ext := strings.ToLower(pathExt(path)); ext {
	case ".swc":
		return swc.ReadFile(path)
	case ".ugx":
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		defer f.Close()
		return ReadTree(f)
	default:
		return nil, nil, errors.New(errors.ErrCodeUnsupported, "unsupported file format: %s", ext)
	}
}

// WriteTreeFile writes a morphology to disk, dispatching on extension
// like ReadTreeFile.
func WriteTreeFile(ns swc.NodeSet, path string) error {
	switch ext := strings.ToLower(pathExt(path)); ext {
	case ".swc":
		return swc.WriteFile(ns, path)
	case ".ugx":
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
		}
		defer f.Close()
		return WriteTree(ns, f)
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported file format: %s", ext)
	}
}

func pathExt(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i:]
	}
	return ""
}

func parseFloats(text string) ([]float64, error) {
	fields := strings.Fields(text)
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseInts(text string) ([]int, error) {
	fields := strings.Fields(text)
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func joinFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
