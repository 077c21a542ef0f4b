package errors

import "testing"

func TestErrorCodeTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		phase    string
		category string
	}{
		{"NAM001", NAM001, "names", "resolution"},
		{"NAM003", NAM003, "names", "definition"},
		{"TY001", TY001, "ty", "application"},
		{"CLS001", CLS001, "classdict", "hierarchy"},
		{"CLS003", CLS003, "classdict", "reopen"},
		{"CHK001", CHK001, "typecheck", "conformance"},
		{"CHK004", CHK004, "typecheck", "condition"},
		{"HIR001", HIR001, "hir", "pattern"},
		{"MIR001", MIR001, "mir", "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, exists := GetErrorInfo(tt.code)
			if !exists {
				t.Fatalf("error code %s not found in registry", tt.code)
			}
			if info.Code != tt.code {
				t.Errorf("code mismatch: got %s, want %s", info.Code, tt.code)
			}
			if info.Phase != tt.phase {
				t.Errorf("phase mismatch for %s: got %s, want %s", tt.code, info.Phase, tt.phase)
			}
			if info.Category != tt.category {
				t.Errorf("category mismatch for %s: got %s, want %s", tt.code, info.Category, tt.category)
			}
		})
	}
}

func TestErrorKindCheckers(t *testing.T) {
	tests := []struct {
		name         string
		code         string
		isSyntax     bool
		isName       bool
		isType       bool
		isProgram    bool
		isInternal   bool
	}{
		{"syntax error", SYN001, true, false, false, false, false},
		{"name error", NAM001, false, true, false, false, false},
		{"type universe error", TY001, false, false, true, false, false},
		{"checker error", CHK001, false, false, true, false, false},
		{"class dict error", CLS001, false, false, false, true, false},
		{"hir program error", HIR001, false, false, false, true, false},
		{"mir internal bug", MIR001, false, false, false, false, true},
		{"unregistered code", "NOPE999", false, false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSyntaxError(tt.code); got != tt.isSyntax {
				t.Errorf("IsSyntaxError(%s) = %v, want %v", tt.code, got, tt.isSyntax)
			}
			if got := IsNameError(tt.code); got != tt.isName {
				t.Errorf("IsNameError(%s) = %v, want %v", tt.code, got, tt.isName)
			}
			if got := IsTypeError(tt.code); got != tt.isType {
				t.Errorf("IsTypeError(%s) = %v, want %v", tt.code, got, tt.isType)
			}
			if got := IsProgramError(tt.code); got != tt.isProgram {
				t.Errorf("IsProgramError(%s) = %v, want %v", tt.code, got, tt.isProgram)
			}
			if got := IsInternalBug(tt.code); got != tt.isInternal {
				t.Errorf("IsInternalBug(%s) = %v, want %v", tt.code, got, tt.isInternal)
			}
		})
	}
}

func TestAllErrorCodesInRegistry(t *testing.T) {
	allCodes := []string{
		NAM001, NAM002, NAM003, NAM004, NAM005, NAM006,
		TY001, TY002, TY003, TY004,
		CLS001, CLS002, CLS003, CLS004, CLS005, CLS006, CLS007, CLS008, CLS009, CLS010,
		CHK001, CHK002, CHK003, CHK004, CHK005, CHK006, CHK007, CHK008, CHK009, CHK010,
		HIR001, HIR002, HIR003, HIR004, HIR005, HIR006,
		MIR001, MIR002, MIR003, MIR004,
		SYN001, BUG001,
	}

	for _, code := range allCodes {
		t.Run(code, func(t *testing.T) {
			if _, exists := GetErrorInfo(code); !exists {
				t.Errorf("error code %s is defined but not in registry", code)
			}
		})
	}

	if len(ErrorRegistry) != len(allCodes) {
		t.Errorf("registry has %d codes, expected exactly %d", len(ErrorRegistry), len(allCodes))
	}
}

func TestErrorInfoConsistency(t *testing.T) {
	validPhases := map[string]bool{
		"names": true, "ty": true, "classdict": true, "typecheck": true,
		"hir": true, "mir": true, "syntax": true, "internal": true,
	}

	for code, info := range ErrorRegistry {
		if info.Code != code {
			t.Errorf("code mismatch in registry: key=%s, info.Code=%s", code, info.Code)
		}
		if len(code) < 4 || len(code) > 6 {
			t.Errorf("invalid code format: %s", code)
		}
		if !validPhases[info.Phase] {
			t.Errorf("invalid phase for %s: %s", code, info.Phase)
		}
		if info.Description == "" {
			t.Errorf("empty description for %s", code)
		}
	}
}
