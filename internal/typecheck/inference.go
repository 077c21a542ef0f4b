package typecheck

import (
	"github.com/shiika-lang/shiikac/internal/classdict"
	"github.com/shiika-lang/shiikac/internal/errors"
	"github.com/shiika-lang/shiikac/internal/ty"
)

// Solution is the result of MethodCallInf (spec §4.4): the substituted
// method type-parameter list, the fully-specialized parameter types
// (ArgTys, aligned with sig.Params so CheckArgTypes can consult them
// directly), and the solved block-parameter types for block-arity checking.
type Solution struct {
	MethodArgs    []ty.TermTy // one entry per method type parameter, nil where unsolved
	ArgTys        []ty.TermTy // sig.Params[i]'s type after substitution, one per param
	BlockParamTys []ty.TermTy // solved parameter types of the trailing block, if any
}

// MethodCallInf implements spec §4.4's method-call inference: given the
// method signature and the actual argument types, solve a substitution over
// the method's own type parameters (sig.TypeParam) such that each actual
// conforms to the substituted parameter type. The procedure is directional
// and monotone: for each type parameter, collect lower-bound constraints
// from every argument position that mentions it and take their nearest
// common ancestor; an argument that then still fails to conform to its
// substituted parameter type is rejected.
func MethodCallInf(d *classdict.ClassDict, sig *classdict.MethodSignature, argTys []ty.TermTy) (*Solution, error) {
	if len(sig.TypeParam) == 0 {
		return &Solution{ArgTys: paramTys(sig)}, nil
	}
	if len(sig.Params) != len(argTys) {
		return nil, typeErrorf(errors.CHK002, "%s takes %d args but got %d", sig.Fullname, len(sig.Params), len(argTys))
	}

	methodArgs := make([]ty.TermTy, len(sig.TypeParam))
	for i, param := range sig.Params {
		collectLowerBounds(d, param.Ty, argTys[i], methodArgs)
	}

	argResult := make([]ty.TermTy, len(sig.Params))
	for i, param := range sig.Params {
		argResult[i] = param.Ty.Substitute(nil, methodArgs)
		if !classdict.Conforms(d, argTys[i], argResult[i]) {
			return nil, typeErrorf(errors.CHK001,
				"the argument `%s' of `%s' is inferred to %s but got %s",
				param.Name, sig.Fullname, argResult[i], argTys[i])
		}
	}

	var blockParamTys []ty.TermTy
	if blockTy, ok := sig.BlockTy(); ok {
		specialized := blockTy.Substitute(nil, methodArgs)
		if params, _, ok := ty.FnXInfo(specialized); ok {
			blockParamTys = params
		}
	}

	return &Solution{MethodArgs: methodArgs, ArgTys: argResult, BlockParamTys: blockParamTys}, nil
}

// collectLowerBounds walks paramTy/argTy in lockstep; wherever paramTy
// mentions a method-bound TyParamRef, it folds argTy's corresponding
// sub-term into that index's running nearest-common-ancestor accumulator.
// Monotone: a later call only ever widens an index's bound, never narrows
// it, matching spec §4.4's "collect lower-bound constraints ... pick the
// nearest common ancestor of collected types".
func collectLowerBounds(d *classdict.ClassDict, paramTy, argTy ty.TermTy, methodArgs []ty.TermTy) {
	switch p := paramTy.(type) {
	case *ty.TyParamRef:
		if p.Kind != ty.MethodBound || p.Index >= len(methodArgs) {
			return
		}
		if methodArgs[p.Index] == nil {
			methodArgs[p.Index] = argTy
			return
		}
		if nca, ok := classdict.NearestCommonAncestor(d, methodArgs[p.Index], argTy); ok {
			methodArgs[p.Index] = nca
		}
	case *ty.Lit:
		argLit, ok := argTy.(*ty.Lit)
		if !ok || p.Erasure() != argLit.Erasure() || len(p.TypeArgs) != len(argLit.TypeArgs) {
			return
		}
		for i := range p.TypeArgs {
			collectLowerBounds(d, p.TypeArgs[i], argLit.TypeArgs[i], methodArgs)
		}
	}
}

func paramTys(sig *classdict.MethodSignature) []ty.TermTy {
	out := make([]ty.TermTy, len(sig.Params))
	for i, p := range sig.Params {
		out[i] = p.Ty
	}
	return out
}
