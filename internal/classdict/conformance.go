package classdict

import (
	"github.com/shiika-lang/shiikac/internal/names"
	"github.com/shiika-lang/shiikac/internal/ty"
)

// ancestorChain walks lit's superclass chain, specializing each hop's type
// arguments by the previous hop's, starting at lit itself. Grounded on
// spec §4.2's conformance/NCA prose (no direct Rust source for this walk
// was in the retrieval pack; cross-checked against pattern_match.rs's use
// of conforms/nearest_common_ancestor as a black box).
func ancestorChain(d *ClassDict, lit *ty.Lit) []*ty.Lit {
	chain := []*ty.Lit{lit}
	cur := lit
	for {
		sk, ok := d.FindType(names.NewClassFullname(cur.Erasure().String()))
		if !ok {
			break
		}
		cls, ok := sk.(*SkClass)
		if !ok || cls.Superclass == nil {
			break
		}
		specialized := cls.Superclass.Ty().Substitute(cur.TypeArgs, nil)
		next, ok := specialized.(*ty.Lit)
		if !ok {
			break
		}
		chain = append(chain, next)
		cur = next
	}
	return chain
}

// Conforms implements spec §4.2's conformance relation.
func Conforms(d *ClassDict, a, b ty.TermTy) bool {
	if a.Equals(b) {
		return true
	}
	if aRef, ok := a.(*ty.TyParamRef); ok {
		return Conforms(d, aRef.Upper, b)
	}
	if bRef, ok := b.(*ty.TyParamRef); ok {
		return Conforms(d, a, bRef.Lower)
	}
	aLit, aOk := a.(*ty.Lit)
	bLit, bOk := b.(*ty.Lit)
	if !aOk || !bOk {
		return false
	}
	// Never is bottom: conforms to everything (the Equals check above
	// already handled Never-conforms-to-Never).
	if aLit.BaseName == "Never" && !aLit.Meta {
		return true
	}
	if aArity, aIsFn := ty.FnArity(aLit.BaseName); aIsFn {
		bArity, bIsFn := ty.FnArity(bLit.BaseName)
		if !bIsFn || aArity != bArity {
			return false
		}
		aParams, aRet, _ := ty.FnXInfo(aLit)
		bParams, bRet, _ := ty.FnXInfo(bLit)
		// Contravariant in parameters: b's param must conform to a's, so
		// that a (used where b is expected) accepts everything b's callers
		// would pass.
		for i := range aParams {
			if !Conforms(d, bParams[i], aParams[i]) {
				return false
			}
		}
		// Covariant in return.
		return Conforms(d, aRet, bRet)
	}

	for _, anc := range ancestorChain(d, aLit) {
		if anc.Erasure() == bLit.Erasure() {
			return conformsTypeArgs(d, anc, bLit)
		}
	}
	return false
}

// conformsTypeArgs checks type-argument conformance at a common erasure,
// per the declaring class's TyParam.Variance (spec §4.2).
func conformsTypeArgs(d *ClassDict, a, b *ty.Lit) bool {
	if len(a.TypeArgs) != len(b.TypeArgs) {
		return len(a.TypeArgs) == 0 && len(b.TypeArgs) == 0
	}
	var typarams []ty.TyParam
	if sk, ok := d.FindType(names.NewClassFullname(a.Erasure().String())); ok {
		typarams = sk.Base().TypeParam
	}
	for i := range a.TypeArgs {
		variance := ty.Invariant
		if i < len(typarams) {
			variance = typarams[i].Variance
		}
		switch variance {
		case ty.CovariantOut:
			if !Conforms(d, a.TypeArgs[i], b.TypeArgs[i]) {
				return false
			}
		case ty.ContravariantIn:
			if !Conforms(d, b.TypeArgs[i], a.TypeArgs[i]) {
				return false
			}
		default:
			if !a.TypeArgs[i].Equals(b.TypeArgs[i]) {
				return false
			}
		}
	}
	return true
}

// NearestCommonAncestor implements spec §4.2's NCA: walk a's ancestor
// chain, pick the lowest erasure also present in b's chain, and return a's
// specialized type at that erasure (re-substituted along a's own chain).
func NearestCommonAncestor(d *ClassDict, a, b ty.TermTy) (ty.TermTy, bool) {
	aLit, aOk := a.(*ty.Lit)
	bLit, bOk := b.(*ty.Lit)
	if !aOk || !bOk {
		if a.Equals(b) {
			return a, true
		}
		return nil, false
	}

	bChain := ancestorChain(d, bLit)
	bErasures := make(map[ty.Erasure]bool, len(bChain))
	for _, anc := range bChain {
		bErasures[anc.Erasure()] = true
	}

	for _, anc := range ancestorChain(d, aLit) {
		if bErasures[anc.Erasure()] {
			return anc, true
		}
	}
	return nil, false
}
