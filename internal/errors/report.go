package errors

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shiika-lang/shiikac/internal/ast"
)

// schemaV1 is the JSON schema tag stamped on every Report (spec §7).
const schemaV1 = "shiika.error/v1"

// Report is the canonical structured error value for every diagnostic this
// compiler raises: one of spec §7's five kinds, a phase-prefixed Code from
// the ErrorRegistry, and the source Span the diagnostic pertains to.
type Report struct {
	Schema  string         `json:"schema"`         // always schemaV1
	Code    string         `json:"code"`           // e.g. CLS003, CHK009
	Phase   string         `json:"phase"`          // owning component, from ErrorRegistry
	Kind    string         `json:"kind"`            // one of spec §7's five kind names
	Message string         `json:"message"`        // human-readable message
	Span    *ast.Span      `json:"span,omitempty"` // source location (optional: internal bugs may lack one)
	Data    map[string]any `json:"data,omitempty"` // structured payload, e.g. {"expected": "Int", "got": "String"}
	Fix     *Fix           `json:"fix,omitempty"`  // suggested fix (optional)
}

// Fix is a suggested repair attached to a Report by WithFix.
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// newReport builds a Report from a registered code, panicking if the code
// was never registered: an unregistered code is a bug in the caller, not a
// condition a compiled program can trigger.
func newReport(code, message string, span *ast.Span, data map[string]any) *Report {
	info, ok := GetErrorInfo(code)
	if !ok {
		panic(fmt.Sprintf("errors: code %s is not registered in ErrorRegistry", code))
	}
	return &Report{
		Schema:  schemaV1,
		Code:    code,
		Phase:   info.Phase,
		Kind:    info.Kind.String(),
		Message: message,
		Span:    span,
		Data:    data,
	}
}

// NewSyntaxError builds a Report for a syntax error surfaced by the external
// parser, re-coded under our taxonomy (spec §7).
func NewSyntaxError(code, message string, span *ast.Span, data map[string]any) *Report {
	return newReport(code, message, span, data)
}

// NewNameError builds a Report for a Names & Namespaces failure (spec §4.1).
func NewNameError(code, message string, span *ast.Span, data map[string]any) *Report {
	return newReport(code, message, span, data)
}

// NewTypeError builds a Report for a Type Universe or Type Checker failure
// (spec §4.2, §4.4).
func NewTypeError(code, message string, span *ast.Span, data map[string]any) *Report {
	return newReport(code, message, span, data)
}

// NewProgramError builds a Report for a Class Dictionary or HIR-level
// program-structure failure (spec §4.3, §4.5).
func NewProgramError(code, message string, span *ast.Span, data map[string]any) *Report {
	return newReport(code, message, span, data)
}

// NewInternalBug builds a Report for a compiler-internal invariant
// violation (e.g. an MIR-builder assumption broken by an earlier phase).
func NewInternalBug(code, message string, span *ast.Span, data map[string]any) *Report {
	return newReport(code, message, span, data)
}

// WithFix attaches a suggested fix, returning the same Report for chaining.
func (r *Report) WithFix(suggestion string, confidence float64) *Report {
	r.Fix = &Fix{Suggestion: suggestion, Confidence: confidence}
	return r
}

// WithData merges key/value pairs into the Report's structured payload.
func (r *Report) WithData(data map[string]any) *Report {
	if r.Data == nil {
		r.Data = make(map[string]any, len(data))
	}
	for k, v := range data {
		r.Data[k] = v
	}
	return r
}

// ReportError wraps a Report as an error
// This allows structured reports to survive errors.As() unwrapping
type ReportError struct {
	Rep *Report
}

// Error implements the error interface
func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport attempts to extract a Report from an error chain
// Returns the Report and true if found, nil and false otherwise
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as a ReportError
// Call sites should return errors.WrapReport(report) to preserve structure
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON converts a Report to JSON: fields in struct declaration order, and
// the keys of the Data map sorted
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error

	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}

	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewGeneric wraps an arbitrary Go error as a Report under BUG001, used at
// the driver boundary when a component panics or returns a plain error
// instead of a *Report (spec §7's InternalBug catch-all).
func NewGeneric(phase string, err error) *Report {
	return &Report{
		Schema:  schemaV1,
		Code:    BUG001,
		Phase:   phase,
		Kind:    InternalBugKind.String(),
		Message: err.Error(),
		Data:    map[string]any{},
	}
}
