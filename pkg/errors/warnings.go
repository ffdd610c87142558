package errors

import "fmt"

// WarningKind categorizes non-fatal diagnostics.
type WarningKind string

// Warning kinds raised while reading or repairing morphologies.
const (
	// WarnParse marks a malformed input line that was skipped.
	WarnParse WarningKind = "parse"
	// WarnReference marks an edge or index referencing a nonexistent entity.
	WarnReference WarningKind = "reference"
	// WarnRepair marks a repair that could not be applied.
	WarnRepair WarningKind = "repair"
)

// Warning is a non-fatal diagnostic. Readers and repair operations
// accumulate warnings and continue with best-effort data; only missing
// mandatory geometry is a hard error.
type Warning struct {
	Kind    WarningKind // Category of the diagnostic
	Line    int         // 1-based input line number, 0 if not applicable
	Message string      // Human-readable description
}

// String formats the warning for log output.
func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s warning (line %d): %s", w.Kind, w.Line, w.Message)
	}
	return fmt.Sprintf("%s warning: %s", w.Kind, w.Message)
}

// Warnf constructs a Warning with a formatted message.
func Warnf(kind WarningKind, line int, format string, args ...any) Warning {
	return Warning{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}
