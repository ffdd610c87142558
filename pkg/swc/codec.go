package swc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/neurite-tools/neurite/pkg/errors"
)

// Read parses the SWC text format from r. Each non-blank, non-comment
// line holds one node as seven whitespace-separated columns:
//
//	id type x y z radius parentId
//
// Inline comments introduced by '#' are stripped, tabs are treated as
// field separators, and malformed lines are skipped with a parse warning
// carrying the line number. Parsing only fails on read errors.
func Read(r io.Reader) (NodeSet, []errors.Warning, error) {
	ns := make(NodeSet)
	var warns []errors.Warning

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		n, err := parseLine(fields)
		if err != nil {
			warns = append(warns, errors.Warnf(errors.WarnParse, lineNo,
				"malformed line %q: %v", strings.TrimSpace(scanner.Text()), err))
			continue
		}
		ns[n.ID] = n
	}
	if err := scanner.Err(); err != nil {
		return nil, warns, errors.Wrap(errors.ErrCodeInternal, err, "read swc input")
	}
	return ns, warns, nil
}

func parseLine(fields []string) (Node, error) {
	if len(fields) != 7 {
		return Node{}, fmt.Errorf("want 7 columns, got %d", len(fields))
	}

	var n Node
	var err error
	if n.ID, err = strconv.Atoi(fields[0]); err != nil {
		return Node{}, fmt.Errorf("id: %w", err)
	}
	if n.Type, err = strconv.Atoi(fields[1]); err != nil {
		return Node{}, fmt.Errorf("type: %w", err)
	}
	if n.X, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return Node{}, fmt.Errorf("x: %w", err)
	}
	if n.Y, err = strconv.ParseFloat(fields[3], 64); err != nil {
		return Node{}, fmt.Errorf("y: %w", err)
	}
	if n.Z, err = strconv.ParseFloat(fields[4], 64); err != nil {
		return Node{}, fmt.Errorf("z: %w", err)
	}
	if n.Radius, err = strconv.ParseFloat(fields[5], 64); err != nil {
		return Node{}, fmt.Errorf("radius: %w", err)
	}
	if n.ParentID, err = strconv.Atoi(fields[6]); err != nil {
		return Node{}, fmt.Errorf("parent id: %w", err)
	}
	return n, nil
}

// Write emits ns to w in SWC text format, one node per line in ascending
// id order, columns space-separated in the same order Read expects.
func Write(ns NodeSet, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, id := range SortedIDs(ns) {
		n := ns[id]
		_, err := fmt.Fprintf(bw, "%d %d %s %s %s %s %d\n",
			n.ID, n.Type,
			formatFloat(n.X), formatFloat(n.Y), formatFloat(n.Z),
			formatFloat(n.Radius), n.ParentID)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write swc output")
		}
	}
	return bw.Flush()
}

// ReadFile reads an SWC file from disk.
func ReadFile(path string) (NodeSet, []errors.Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()
	return Read(f)
}

// WriteFile writes ns to an SWC file on disk.
func WriteFile(ns NodeSet, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return Write(ns, f)
}

// formatFloat renders a coordinate with the shortest representation that
// round-trips through ParseFloat, keeping written files diff-stable.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
