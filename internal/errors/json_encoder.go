package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorContext is a structured payload commonly attached to a Report's Data
// field by the type checker and class dictionary: the constraints in play,
// the decisions already made, and (for an internal bug) a trace slice.
type ErrorContext struct {
	Constraints []string          `json:"constraints,omitempty"`
	Decisions   []string          `json:"decisions,omitempty"`
	TraceSlice  string            `json:"trace_slice,omitempty"`
	Environment map[string]string `json:"environment,omitempty"`
}

// SafeEncodeError encodes any error as Report JSON, never panicking: if err
// is already a *ReportError its Report is used verbatim; otherwise it is
// wrapped as a generic internal bug under the given phase. Used at the
// outermost driver boundary (spec §7), where a bug anywhere downstream must
// still produce well-formed JSON instead of crashing the CLI.
func SafeEncodeError(err error, phase string) []byte {
	if err == nil {
		return nil
	}

	rep, ok := AsReport(err)
	if !ok {
		rep = NewGeneric(phase, err)
	}

	data, jsonErr := json.Marshal(rep)
	if jsonErr != nil {
		fallback := &Report{
			Schema:  schemaV1,
			Code:    BUG001,
			Phase:   phase,
			Kind:    InternalBugKind.String(),
			Message: "failed to encode error report",
			Data:    map[string]any{"original_error": jsonErr.Error()},
		}
		data, _ = json.Marshal(fallback)
	}
	return data
}

// FormatSourceSpan formats a bare file position as "file:line:col", for
// callers that only have a position string to work with rather than a full
// ast.Span (e.g. a diagnostic relayed from the external parser).
func FormatSourceSpan(file string, line, col int) string {
	return fmt.Sprintf("%s:%d:%d", file, line, col)
}
