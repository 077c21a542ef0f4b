// Package typecheck implements the Type Checker & Inferencer component
// (spec §4.4): condition/logical-operator Bool checks, if-expression NCA
// typing with Void/Never promotion, method-arity/argument conformance
// checks, block-arity checks, and the MethodCallInf substitution solver.
// Grounded on
// _examples/original_source/lib/skc_ast2hir/src/type_system/type_checking.rs
// and convert_exprs/block.rs, with Go-idiomatic error returns (a
// *errors.Report wrapped by internal/classdict-style helpers) in place of
// anyhow::Result.
package typecheck

import (
	"fmt"

	"github.com/shiika-lang/shiikac/internal/classdict"
	"github.com/shiika-lang/shiikac/internal/errors"
	"github.com/shiika-lang/shiikac/internal/ty"
)

func typeErrorf(code, format string, args ...any) error {
	return errors.WrapReport(errors.NewTypeError(code, fmt.Sprintf(format, args...), nil, nil))
}

func programErrorf(code, format string, args ...any) error {
	return errors.WrapReport(errors.NewProgramError(code, fmt.Sprintf(format, args...), nil, nil))
}

// CheckConditionTy implements `check_condition_ty`: the condition of an
// if/while must be exactly Bool.
func CheckConditionTy(t ty.TermTy, on string) error {
	if t.Equals(ty.Raw("Bool")) {
		return nil
	}
	return typeErrorf(errors.CHK004, "%s condition must be Bool but got %s", on, t.Fullname())
}

// CheckLogicalOperatorTy implements `check_logical_operator_ty`: an operand
// of `&&`/`||` must be exactly Bool.
func CheckLogicalOperatorTy(t ty.TermTy, on string) error {
	if t.Equals(ty.Raw("Bool")) {
		return nil
	}
	return typeErrorf(errors.CHK005, "%s must be Bool but got %s", on, t.Fullname())
}

// IfResultTy implements spec §4.4's if-expression typing: the nearest
// common ancestor of all branch types, Void if any branch is Void (the
// others are then void-ified by the caller), or Never if every branch is
// Never.
func IfResultTy(d *classdict.ClassDict, branchTys []ty.TermTy) (ty.TermTy, error) {
	if len(branchTys) == 0 {
		return ty.Raw("Void"), nil
	}
	allNever := true
	for _, t := range branchTys {
		if !t.Equals(ty.Raw("Never")) {
			allNever = false
		}
		if t.Equals(ty.Raw("Void")) {
			return ty.Raw("Void"), nil
		}
	}
	if allNever {
		return ty.Raw("Never"), nil
	}
	result := branchTys[0]
	for _, t := range branchTys[1:] {
		nca, ok := classdict.NearestCommonAncestor(d, result, t)
		if !ok {
			return nil, typeErrorf(errors.CHK008, "if clauses type mismatch: %s vs %s", result, t)
		}
		result = nca
	}
	return result, nil
}

// CheckMethodArity implements `check_method_arity`: the actual argument
// count must equal the declared parameter count (no default/variadic
// arguments, spec §4.4).
func CheckMethodArity(sig *classdict.MethodSignature, argTys []ty.TermTy) error {
	if len(sig.Params) != len(argTys) {
		return typeErrorf(errors.CHK002, "%s takes %d args but got %d",
			sig.Fullname, len(sig.Params), len(argTys))
	}
	return nil
}

// CheckArgTypes implements `check_arg_types`: every actual argument must
// conform to its declared parameter type, or to the inferred type solved by
// MethodCallInf when present (e.g. the element type of a generic method's
// receiver).
func CheckArgTypes(d *classdict.ClassDict, sig *classdict.MethodSignature, argTys []ty.TermTy, inf *Solution) error {
	for i, param := range sig.Params {
		expected := param.Ty
		var inferred ty.TermTy
		if inf != nil && i < len(inf.ArgTys) && inf.ArgTys[i] != nil {
			expected = inf.ArgTys[i]
			inferred = inf.ArgTys[i]
		}
		if classdict.Conforms(d, argTys[i], expected) {
			continue
		}
		if inferred != nil {
			return typeErrorf(errors.CHK001, "the argument `%s' of `%s' is inferred to %s but got %s",
				param.Name, sig.Fullname, expected, argTys[i])
		}
		return typeErrorf(errors.CHK001, "the argument `%s' of `%s' should be %s but got %s",
			param.Name, sig.Fullname, param.Ty, argTys[i])
	}
	return nil
}

// CheckMethodArgs runs the arity check then the per-argument conformance
// check, per `check_method_args`'s two-step order.
func CheckMethodArgs(d *classdict.ClassDict, sig *classdict.MethodSignature, argTys []ty.TermTy, inf *Solution) error {
	if err := CheckMethodArity(sig, argTys); err != nil {
		return err
	}
	return CheckArgTypes(d, sig, argTys, inf)
}

// CheckBlockArity implements `check_block_arity`: the number of a block's
// declared parameters must equal the solved block-param-type arity.
func CheckBlockArity(blockTaker string, expected, got int) error {
	if expected == got {
		return nil
	}
	return typeErrorf(errors.CHK006, "the block of %s takes %d args but got %d", blockTaker, expected, got)
}

// CheckExtractorArity implements the pattern-matching arm of spec §4.5's
// "component count must equal the case's initializer arity or a program
// error is raised".
func CheckExtractorArity(caseName string, expected, got int) error {
	if expected == got {
		return nil
	}
	return programErrorf(errors.HIR003, "pattern %s expects %d argument(s) but got %d", caseName, expected, got)
}
