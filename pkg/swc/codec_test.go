package swc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/neurite-tools/neurite/pkg/errors"
)

func TestRead_Basic(t *testing.T) {
	input := `# comment header
1 1 0 0 0 5 -1
2 3 10 0 0 1 1

3 3 20 0 0 1 2  # inline comment
`
	ns, warns, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if len(warns) != 0 {
		t.Errorf("Read() warnings = %d, want 0", len(warns))
	}
	if len(ns) != 3 {
		t.Fatalf("Read() nodes = %d, want 3", len(ns))
	}
	if ns[1].Type != TypeSoma {
		t.Errorf("node 1 type = %d, want %d", ns[1].Type, TypeSoma)
	}
	if ns[3].ParentID != 2 {
		t.Errorf("node 3 parent = %d, want 2", ns[3].ParentID)
	}
	if ns[2].X != 10 {
		t.Errorf("node 2 x = %g, want 10", ns[2].X)
	}
}

func TestRead_TabSeparated(t *testing.T) {
	input := "1\t1\t0\t0\t0\t5\t-1\n2\t3\t1\t2\t3\t0.5\t1\n"
	ns, warns, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if len(warns) != 0 {
		t.Errorf("Read() warnings = %d, want 0", len(warns))
	}
	if len(ns) != 2 {
		t.Errorf("Read() nodes = %d, want 2", len(ns))
	}
	if ns[2].Radius != 0.5 {
		t.Errorf("node 2 radius = %g, want 0.5", ns[2].Radius)
	}
}

func TestRead_MalformedLineSkipped(t *testing.T) {
	input := `1 1 0 0 0 5 -1
2 3 not-a-number 0 0 1 1
3 3 20 0 0 1 1
4 3 20 0 0 1
`
	ns, warns, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if len(ns) != 2 {
		t.Errorf("Read() nodes = %d, want 2", len(ns))
	}
	if len(warns) != 2 {
		t.Fatalf("Read() warnings = %d, want 2", len(warns))
	}
	if warns[0].Kind != errors.WarnParse {
		t.Errorf("warning kind = %v, want %v", warns[0].Kind, errors.WarnParse)
	}
	if warns[0].Line != 2 {
		t.Errorf("warning line = %d, want 2", warns[0].Line)
	}
}

func TestWrite_AscendingOrder(t *testing.T) {
	ns := NodeSet{
		3: {ID: 3, Type: 3, X: 20, Radius: 1, ParentID: 1},
		1: {ID: 1, Type: 1, Radius: 5, ParentID: Root},
	}

	var buf bytes.Buffer
	if err := Write(ns, &buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	want := "1 1 0 0 0 5 -1\n3 3 20 0 0 1 1\n"
	if buf.String() != want {
		t.Errorf("Write() = %q, want %q", buf.String(), want)
	}
}

func TestReadWrite_RoundTrip(t *testing.T) {
	ns := NodeSet{
		1: {ID: 1, Type: TypeSoma, X: 0.25, Y: -3.5, Z: 1e-3, Radius: 5, ParentID: Root},
		2: {ID: 2, Type: TypeAxon, X: 10.125, Y: 0, Z: 0, Radius: 0.7, ParentID: 1},
	}

	var buf bytes.Buffer
	if err := Write(ns, &buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	got, warns, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if len(warns) != 0 {
		t.Errorf("Read() warnings = %d, want 0", len(warns))
	}
	for id, n := range ns {
		if got[id] != n {
			t.Errorf("node %d = %+v, want %+v", id, got[id], n)
		}
	}
}

func TestReadFile_NotFound(t *testing.T) {
	_, _, err := ReadFile("/nonexistent/path/neuron.swc")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile() error = %v, want code %s", err, errors.ErrCodeFileNotFound)
	}
}
