// Package ty implements the Type Universe component (spec §4.2): TermTy,
// the tagged Lit/TyParamRef sum, erasure, and the pure (registry-free)
// operations over it. Conformance and nearest-common-ancestor need the
// class hierarchy and so live in internal/classdict, which imports this
// package (mirroring how the teacher's internal/types/types.go separates a
// Type sum from the conformance logic that walks a registry).
package ty

import (
	"fmt"
	"strconv"
	"strings"
)

// Variance is the declared variance of a class type parameter (spec §3).
type Variance int

const (
	Invariant Variance = iota
	CovariantOut
	ContravariantIn
)

func (v Variance) String() string {
	switch v {
	case CovariantOut:
		return "out"
	case ContravariantIn:
		return "in"
	default:
		return ""
	}
}

// TyParamKind distinguishes a class type parameter from a method type
// parameter (spec §3).
type TyParamKind int

const (
	ClassBound TyParamKind = iota
	MethodBound
)

func (k TyParamKind) String() string {
	if k == MethodBound {
		return "M"
	}
	return "C"
}

// TyParam is a class or method type-parameter declaration (spec §3).
type TyParam struct {
	Name     string
	Upper    TermTy // nil => Object
	Lower    TermTy // nil => Never
	Variance Variance
}

// Erasure is (base_name, is_meta) with type arguments removed (spec §3). It
// locates the owning class of a method and tests runtime class identity.
type Erasure struct {
	BaseName string
	IsMeta   bool
}

func NewErasure(baseName string, isMeta bool) Erasure { return Erasure{baseName, isMeta} }

func (e Erasure) String() string {
	if e.IsMeta {
		return "Meta:" + e.BaseName
	}
	return e.BaseName
}

// ToTermTy returns the raw (argument-less) TermTy of this erasure.
func (e Erasure) ToTermTy() TermTy {
	return &Lit{BaseName: e.BaseName, Meta: e.IsMeta}
}

// TermTy is the tagged value described in spec §3: either a Lit (raw
// literal type) or a TyParamRef (type-parameter reference).
type TermTy interface {
	// Fullname is the display name: the literal's base_name, or the type
	// parameter's name (not a real class name; matches the teacher's Rust
	// `TyParamRef::into_term_ty`, which reuses class_fullname(name) as a
	// display fullname only).
	Fullname() string
	Erasure() Erasure
	IsMeta() bool
	String() string
	Equals(other TermTy) bool
	// Substitute recursively replaces TyParamRef occurrences by index and
	// kind with the corresponding entry of classArgs/methodArgs.
	Substitute(classArgs, methodArgs []TermTy) TermTy
	IsTyParamRef() bool
}

// Lit is a raw literal type: a class/module name plus type arguments and a
// meta flag (spec §3). The field is named Meta (not IsMeta) so it doesn't
// collide with the TermTy.IsMeta() accessor method below.
type Lit struct {
	BaseName string
	TypeArgs []TermTy
	Meta     bool
}

// Raw builds Lit{name, [], false}.
func Raw(name string) *Lit { return &Lit{BaseName: name} }

// Spe builds a specialized Lit{name, args, false}.
func Spe(name string, args ...TermTy) *Lit { return &Lit{BaseName: name, TypeArgs: args} }

// MetaOf builds Lit{name, [], true}, the "class value" of name. Metaclass
// always carries is_meta=true (spec §3 invariant); "Metaclass" itself has no
// non-meta form.
func MetaOf(name string) *Lit {
	return &Lit{BaseName: name, Meta: true}
}

func (t *Lit) Fullname() string { return t.BaseName }
func (t *Lit) Erasure() Erasure { return Erasure{t.BaseName, t.Meta} }
func (t *Lit) IsMeta() bool     { return t.Meta }

func (t *Lit) IsTyParamRef() bool { return false }

func (t *Lit) String() string {
	var b strings.Builder
	if t.Meta {
		b.WriteString("Meta:")
	}
	b.WriteString(t.BaseName)
	if len(t.TypeArgs) > 0 {
		b.WriteByte('<')
		for i, a := range t.TypeArgs {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteByte('>')
	}
	return b.String()
}

func (t *Lit) Equals(other TermTy) bool {
	o, ok := other.(*Lit)
	if !ok {
		return false
	}
	if t.BaseName != o.BaseName || t.Meta != o.Meta || len(t.TypeArgs) != len(o.TypeArgs) {
		return false
	}
	for i := range t.TypeArgs {
		if !t.TypeArgs[i].Equals(o.TypeArgs[i]) {
			return false
		}
	}
	return true
}

func (t *Lit) Substitute(classArgs, methodArgs []TermTy) TermTy {
	args := make([]TermTy, len(t.TypeArgs))
	for i, a := range t.TypeArgs {
		args[i] = a.Substitute(classArgs, methodArgs)
	}
	return &Lit{BaseName: t.BaseName, TypeArgs: args, Meta: t.Meta}
}

// MetaTy returns the class-value type of a non-meta Lit.
func (t *Lit) MetaTy() *Lit {
	return &Lit{BaseName: t.BaseName, TypeArgs: t.TypeArgs, Meta: true}
}

// InstanceTy returns the non-meta type of a meta Lit (its "as class value"
// counterpart turned back into an ordinary type).
func (t *Lit) InstanceTy() *Lit {
	return &Lit{BaseName: t.BaseName, TypeArgs: t.TypeArgs, Meta: false}
}

// TyParamRef is a reference to a class- or method-bound type parameter
// (spec §3).
type TyParamRef struct {
	Kind       TyParamKind
	Name       string
	Index      int
	Upper      *Lit
	Lower      *Lit
	AsClassVal bool
}

// NewTyParamRef builds a TyParamRef with default bounds Object/Never, per
// spec §4.2's `typaram_ref`.
func NewTyParamRef(name string, kind TyParamKind, idx int) *TyParamRef {
	return &TyParamRef{
		Kind:  kind,
		Name:  name,
		Index: idx,
		Upper: Raw("Object"),
		Lower: Raw("Never"),
	}
}

func (t *TyParamRef) Fullname() string { return t.Name }
func (t *TyParamRef) Erasure() Erasure { return Erasure{t.Name, t.AsClassVal} }
func (t *TyParamRef) IsMeta() bool     { return t.AsClassVal }
func (t *TyParamRef) IsTyParamRef() bool { return true }

func (t *TyParamRef) String() string {
	marker := " "
	if t.AsClassVal {
		marker = "!"
	}
	return fmt.Sprintf("TyParamRef(%s%s%d%s)", t.Name, marker, t.Index, t.Kind)
}

func (t *TyParamRef) Equals(other TermTy) bool {
	o, ok := other.(*TyParamRef)
	if !ok {
		return false
	}
	return t.Kind == o.Kind && t.Index == o.Index && t.AsClassVal == o.AsClassVal
}

func (t *TyParamRef) Substitute(classArgs, methodArgs []TermTy) TermTy {
	var pool []TermTy
	if t.Kind == ClassBound {
		pool = classArgs
	} else {
		pool = methodArgs
	}
	if t.Index < len(pool) && pool[t.Index] != nil {
		return pool[t.Index]
	}
	return t
}

// AsClassValue returns a new TyParamRef referring to this type parameter
// "as a class value" (`as_class_value` is toggled only by this explicit
// operation, per spec §3's invariant, never spontaneously).
func (t *TyParamRef) AsClassValue() *TyParamRef {
	cp := *t
	cp.AsClassVal = true
	return &cp
}

// AsType is the inverse of AsClassValue.
func (t *TyParamRef) AsType() *TyParamRef {
	cp := *t
	cp.AsClassVal = false
	return &cp
}

// Substitute is a free function wrapper so call sites matching spec
// terminology (`substitute(class_args, method_args)`) read naturally.
func Substitute(t TermTy, classArgs, methodArgs []TermTy) TermTy {
	return t.Substitute(classArgs, methodArgs)
}

// FnArity parses a "FnN" base name into N, the block/lambda arity.
func FnArity(baseName string) (int, bool) {
	if !strings.HasPrefix(baseName, "Fn") {
		return 0, false
	}
	n, err := strconv.Atoi(baseName[2:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// FnXInfo implements spec §4.2's `fn_x_info`: if ty is Lit{name = "Fn" ++ n,
// args}, return the arg types (all but the last) and the return type (the
// last). ok is false if ty is not Fn-shaped.
func FnXInfo(t TermTy) (params []TermTy, ret TermTy, ok bool) {
	lit, isLit := t.(*Lit)
	if !isLit {
		return nil, nil, false
	}
	if _, isFn := FnArity(lit.BaseName); !isFn {
		return nil, nil, false
	}
	if len(lit.TypeArgs) == 0 {
		return nil, nil, false
	}
	return lit.TypeArgs[:len(lit.TypeArgs)-1], lit.TypeArgs[len(lit.TypeArgs)-1], true
}

// FnType builds the `Fn<N>` type for a block/lambda with the given
// parameter types and return type (used by the HIR builder for closures,
// spec §4.5).
func FnType(paramTys []TermTy, retTy TermTy) *Lit {
	args := append(append([]TermTy(nil), paramTys...), retTy)
	return Spe(fmt.Sprintf("Fn%d", len(paramTys)), args...)
}
