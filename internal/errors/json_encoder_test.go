package errors

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewTypeError(t *testing.T) {
	rep := NewTypeError(CHK001, "argument type mismatch", nil, nil)

	if rep.Schema != schemaV1 {
		t.Errorf("expected schema %s, got %s", schemaV1, rep.Schema)
	}
	if rep.Phase != "typecheck" {
		t.Errorf("expected phase typecheck, got %s", rep.Phase)
	}
	if rep.Code != CHK001 {
		t.Errorf("expected code %s, got %s", CHK001, rep.Code)
	}
	if rep.Kind != TypeErrorKind.String() {
		t.Errorf("expected kind %s, got %s", TypeErrorKind, rep.Kind)
	}
}

func TestNewReportUnregisteredCodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for an unregistered code")
		}
	}()
	NewTypeError("NOPE999", "bogus", nil, nil)
}

func TestWithFix(t *testing.T) {
	rep := NewNameError(NAM001, "unresolved name 'foo'", nil, nil)
	rep = rep.WithFix("did you mean 'Foo'?", 0.9)

	if rep.Fix.Suggestion != "did you mean 'Foo'?" {
		t.Errorf("expected fix suggestion, got %s", rep.Fix.Suggestion)
	}
	if rep.Fix.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %f", rep.Fix.Confidence)
	}
}

func TestWithData(t *testing.T) {
	rep := NewProgramError(CLS001, "unknown superclass 'Bar'", nil, nil)
	rep = rep.WithData(map[string]any{"superclass": "Bar"})

	if rep.Data["superclass"] != "Bar" {
		t.Errorf("expected data to carry superclass, got %v", rep.Data)
	}
}

func TestToJSON(t *testing.T) {
	ctx := ErrorContext{
		Constraints: []string{"T <: Comparable<T>"},
		Decisions:   []string{"resolved T -> Int"},
	}

	rep := NewTypeError(CHK008, "no common ancestor", nil, map[string]any{"context": ctx}).
		WithFix("add an explicit return type annotation", 0.6)

	jsonStr, err := rep.ToJSON(true)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	var result map[string]interface{}
	if parseErr := json.Unmarshal([]byte(jsonStr), &result); parseErr != nil {
		t.Fatalf("failed to parse JSON: %v", parseErr)
	}

	if result["schema"] != schemaV1 {
		t.Errorf("expected schema %s, got %v", schemaV1, result["schema"])
	}
	if result["phase"] != "typecheck" {
		t.Errorf("expected phase typecheck, got %v", result["phase"])
	}
	if result["code"] != CHK008 {
		t.Errorf("expected code %s, got %v", CHK008, result["code"])
	}
	if _, ok := result["fix"]; !ok {
		t.Error("fix field should be present once set")
	}
}

type wrapper struct{ inner error }

func (w *wrapper) Error() string { return w.inner.Error() }
func (w *wrapper) Unwrap() error { return w.inner }

func TestWrapReportAndAsReport(t *testing.T) {
	rep := NewInternalBug(MIR001, "vtable slot missing for Foo#bar", nil, nil)
	err := WrapReport(rep)

	got, ok := AsReport(err)
	if !ok {
		t.Fatal("expected AsReport to find the wrapped Report")
	}
	if got != rep {
		t.Error("expected AsReport to return the same Report instance")
	}

	got2, ok := AsReport(&wrapper{inner: err})
	if !ok || got2 != rep {
		t.Error("expected AsReport to unwrap through errors.As")
	}
}

func TestSafeEncodeError(t *testing.T) {
	if result := SafeEncodeError(nil, "typecheck"); result != nil {
		t.Error("expected nil for nil error")
	}

	plain := errors.New("boom")
	result := SafeEncodeError(plain, "runtime")

	var parsed map[string]interface{}
	if err := json.Unmarshal(result, &parsed); err != nil {
		t.Fatalf("failed to parse result: %v", err)
	}
	if parsed["phase"] != "runtime" {
		t.Errorf("expected phase runtime, got %v", parsed["phase"])
	}
	if !strings.Contains(parsed["message"].(string), "boom") {
		t.Errorf("expected message to contain 'boom', got %v", parsed["message"])
	}

	rep := NewNameError(NAM001, "unresolved name 'x'", nil, nil)
	result = SafeEncodeError(WrapReport(rep), "names")
	if err := json.Unmarshal(result, &parsed); err != nil {
		t.Fatalf("failed to parse result: %v", err)
	}
	if parsed["code"] != NAM001 {
		t.Errorf("expected code %s preserved through SafeEncodeError, got %v", NAM001, parsed["code"])
	}
}

func TestFormatSourceSpan(t *testing.T) {
	tests := []struct {
		file     string
		line     int
		col      int
		expected string
	}{
		{"main.shk", 10, 5, "main.shk:10:5"},
		{"test.shk", 1, 1, "test.shk:1:1"},
		{"/path/to/file.shk", 100, 25, "/path/to/file.shk:100:25"},
	}

	for _, tt := range tests {
		result := FormatSourceSpan(tt.file, tt.line, tt.col)
		if result != tt.expected {
			t.Errorf("FormatSourceSpan(%s, %d, %d) = %s, want %s", tt.file, tt.line, tt.col, result, tt.expected)
		}
	}
}
