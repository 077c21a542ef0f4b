package classdict

import (
	"fmt"
	"strings"

	"github.com/shiika-lang/shiikac/internal/names"
	"github.com/shiika-lang/shiikac/internal/ty"
)

// MethodParam is one declared parameter of a MethodSignature (spec §3).
type MethodParam struct {
	Name string
	Ty   ty.TermTy
}

// Substitute returns a copy of p with its type specialized by classArgs and
// methodArgs (spec §4.2's substitute).
func (p MethodParam) Substitute(classArgs, methodArgs []ty.TermTy) MethodParam {
	return MethodParam{Name: p.Name, Ty: p.Ty.Substitute(classArgs, methodArgs)}
}

// MethodSignature is spec §3's `MethodSignature`.
type MethodSignature struct {
	Fullname  names.MethodFullname
	RetTy     ty.TermTy
	Params    []MethodParam
	TypeParam []ty.TyParam
}

// IsClassMethod reports whether this signature belongs to a metaclass
// (i.e. is a class method, `ClassName.method`, not an instance method).
func (s *MethodSignature) IsClassMethod() bool { return s.Fullname.Owner.IsMeta() }

// BlockTy returns the Fn<N> type of this signature's trailing block
// parameter, if its last parameter is Fn-shaped.
func (s *MethodSignature) BlockTy() (ty.TermTy, bool) {
	if len(s.Params) == 0 {
		return nil, false
	}
	last := s.Params[len(s.Params)-1]
	if _, _, ok := ty.FnXInfo(last.Ty); ok {
		return last.Ty, true
	}
	return nil, false
}

// Specialize substitutes class/method type arguments into RetTy and every
// parameter's type (spec §4.3's "Signatures are specialized by substituting
// class/method type arguments").
func (s *MethodSignature) Specialize(classArgs, methodArgs []ty.TermTy) *MethodSignature {
	params := make([]MethodParam, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.Substitute(classArgs, methodArgs)
	}
	return &MethodSignature{
		Fullname:  s.Fullname,
		RetTy:     s.RetTy.Substitute(classArgs, methodArgs),
		Params:    params,
		TypeParam: s.TypeParam, // e.g. Array<T>#map<U> specializes T, keeps U
	}
}

// EquivalentTo reports whether s and other agree on first name, return
// type, parameter types, and type-parameter count, ignoring parameter names —
// used to validate that a module requirement is satisfied by a concrete
// override.
func (s *MethodSignature) EquivalentTo(other *MethodSignature) bool {
	if s.Fullname.FirstName != other.Fullname.FirstName {
		return false
	}
	if !s.RetTy.Equals(other.RetTy) {
		return false
	}
	if len(s.Params) != len(other.Params) {
		return false
	}
	for i := range s.Params {
		if !s.Params[i].Ty.Equals(other.Params[i].Ty) {
			return false
		}
	}
	return len(s.TypeParam) == len(other.TypeParam)
}

func (s *MethodSignature) String() string {
	var tp string
	if len(s.TypeParam) > 0 {
		names := make([]string, len(s.TypeParam))
		for i, t := range s.TypeParam {
			names[i] = t.Name
		}
		tp = "<" + strings.Join(names, ", ") + ">"
	}
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = fmt.Sprintf("%s: %s", p.Name, p.Ty)
	}
	return fmt.Sprintf("%s%s(%s) -> %s", s.Fullname, tp, strings.Join(params, ", "), s.RetTy)
}

// SignatureOfNew builds the `.new` signature installed on a class's
// metaclass: same parameters as #initialize, returning the instance type.
func SignatureOfNew(metaclassFullname names.ClassFullname, initParams []MethodParam, instanceTy ty.TermTy) *MethodSignature {
	return &MethodSignature{
		Fullname: names.NewClassMethodFullname(metaclassFullname, "new"),
		RetTy:    instanceTy,
		Params:   initParams,
	}
}

// SignatureOfInitialize builds a default `#initialize` signature.
func SignatureOfInitialize(classFullname names.ClassFullname, params []MethodParam) *MethodSignature {
	return &MethodSignature{
		Fullname: names.NewInstanceMethodFullname(classFullname, "initialize"),
		RetTy:    ty.Raw("Void"),
		Params:   params,
	}
}
