package hir

import (
	"github.com/shiika-lang/shiikac/internal/classdict"
	"github.com/shiika-lang/shiikac/internal/ty"
)

// LVar is one local variable slot recorded on a method, lambda, or
// match-clause body (spec §3's method-lowering contract: "an ordered list
// of local variables (name+type)").
type LVar struct {
	Name     string
	Ty       ty.TermTy
	Readonly bool
}

// SkMethod is a fully-lowered method: its signature, the local variables its
// body declares, and the lowered body itself (spec §4.5).
type SkMethod struct {
	Signature *classdict.MethodSignature
	LVars     []LVar
	Body      Expressions
}

// Capture is one outer local captured by a lambda, recorded by identity
// (name), not value, per spec §4.5's closures contract.
type Capture struct {
	Name string
	Ty   ty.TermTy
}

// Lambda is a lowered closure: its Fn<N> type's parameters, its body, and
// the list of outer locals it captures. HasBreak records whether the body
// (not a nested while-loop's own body) contains a `break` that must unwind
// through this closure's caller.
type Lambda struct {
	Name     string
	Params   []classdict.MethodParam
	Body     Expressions
	Captures []Capture
	LVars    []LVar
	HasBreak bool
}

// FnType returns this lambda's Fn<N> type.
func (l *Lambda) FnType() ty.TermTy {
	paramTys := make([]ty.TermTy, len(l.Params))
	for i, p := range l.Params {
		paramTys[i] = p.Ty
	}
	return ty.FnType(paramTys, l.Body.Ty())
}
