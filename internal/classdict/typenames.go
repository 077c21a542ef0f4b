package classdict

import (
	"github.com/shiika-lang/shiikac/internal/ast"
	"github.com/shiika-lang/shiikac/internal/names"
	"github.com/shiika-lang/shiikac/internal/ty"
)

// ParseTypeParams converts the AST's surface `<T, out U, in V: Upper>`
// declarations into ty.TyParam values. Bounds are resolved as simple,
// argument-less names (Object/Never or another already-declared class);
// this is a deliberate simplification over the general recursive resolver
// below, since a type parameter's own bound cannot itself reference that
// parameter.
func ParseTypeParams(params []*ast.TypeParam) []ty.TyParam {
	out := make([]ty.TyParam, len(params))
	for i, p := range params {
		tp := ty.TyParam{Name: p.Name, Variance: astVariance(p.Variance)}
		if p.Upper != nil {
			tp.Upper = ty.Raw(names.Canonicalize(lastSegment(p.Upper)))
		}
		if p.Lower != nil {
			tp.Lower = ty.Raw(names.Canonicalize(lastSegment(p.Lower)))
		}
		out[i] = tp
	}
	return out
}

// boundedTyParamRef builds a TyParamRef carrying tp's declared bounds
// (default Object/Never, set by NewTyParamRef, when tp left them unwritten).
func boundedTyParamRef(tp ty.TyParam, kind ty.TyParamKind, idx int) *ty.TyParamRef {
	ref := ty.NewTyParamRef(tp.Name, kind, idx)
	if upper, ok := tp.Upper.(*ty.Lit); ok {
		ref.Upper = upper
	}
	if lower, ok := tp.Lower.(*ty.Lit); ok {
		ref.Lower = lower
	}
	return ref
}

func lastSegment(t *ast.TypeName) string {
	if len(t.Segments) == 0 {
		return ""
	}
	return t.Segments[len(t.Segments)-1]
}

func astVariance(v ast.Variance) ty.Variance {
	switch v {
	case ast.Covariant:
		return ty.CovariantOut
	case ast.Contravariant:
		return ty.ContravariantIn
	default:
		return ty.Invariant
	}
}

// resolveTypename implements spec §4.1/§4.3's `_resolve_typename`: a
// single-segment, argument-less name that matches a class or method type
// parameter resolves to a TyParamRef (method parameters shadow class
// parameters); otherwise it is resolved as a class reference via
// resolveSimpleTypename, checking type-argument arity.
func (d *ClassDict) resolveTypename(ns names.Namespace, classTP, methodTP []ty.TyParam, name *ast.TypeName) (ty.TermTy, error) {
	if len(name.Args) == 0 && len(name.Segments) == 1 {
		s := name.Segments[0]
		for i, t := range methodTP {
			if t.Name == s {
				ref := boundedTyParamRef(t, ty.MethodBound, i)
				if name.Meta {
					return ref.AsClassValue(), nil
				}
				return ref, nil
			}
		}
		for i, t := range classTP {
			if t.Name == s {
				ref := boundedTyParamRef(t, ty.ClassBound, i)
				if name.Meta {
					return ref.AsClassValue(), nil
				}
				return ref, nil
			}
		}
	}

	tyargs := make([]ty.TermTy, len(name.Args))
	for i, a := range name.Args {
		arg, err := d.resolveTypename(ns, classTP, methodTP, a)
		if err != nil {
			return nil, err
		}
		tyargs[i] = arg
	}

	resolved, typarams, err := d.resolveSimpleTypename(ns, name.Segments)
	if err != nil {
		return nil, err
	}
	if len(name.Args) != len(typarams) {
		return nil, typeErrorf(TY001, "wrong number of type arguments for %s: want %d, got %d",
			resolved, len(typarams), len(name.Args))
	}
	if name.Meta {
		return ty.MetaOf(resolved), nil
	}
	return ty.Spe(resolved, tyargs...), nil
}

// resolveSimpleTypename implements `_resolve_simple_typename`: try
// successive namespace prefixes, per spec §4.1's resolution order.
func (d *ClassDict) resolveSimpleTypename(ns names.Namespace, segments []string) (string, []ty.TyParam, error) {
	full, ok := ns.Resolve(segments, func(c names.ClassFullname) bool {
		_, known := d.classIndex[c.String()]
		return known
	})
	if !ok {
		return "", nil, nameErrorf(NAM001, "unknown type %v in namespace %v", segments, ns)
	}
	return full.String(), d.classIndex[full.String()], nil
}

// CreateSignature converts an AST method signature into a MethodSignature,
// grounded on indexing.rs's `create_signature`. owner is the class (for an
// instance method) or the metaclass (for a class method) this signature is
// installed on.
func (d *ClassDict) CreateSignature(ns names.Namespace, owner names.ClassFullname, sig *ast.MethodSig, classTP []ty.TyParam) (*MethodSignature, error) {
	methodTP := ParseTypeParams(sig.TypeParam)
	var retTy ty.TermTy = ty.Raw("Void")
	if sig.RetTyp != nil {
		var err error
		retTy, err = d.resolveTypename(ns, classTP, methodTP, sig.RetTyp)
		if err != nil {
			return nil, err
		}
	}
	params, err := d.convertParams(ns, sig.Params, classTP, methodTP)
	if err != nil {
		return nil, err
	}
	var fullname names.MethodFullname
	if owner.IsMeta() {
		fullname = names.NewClassMethodFullname(owner, sig.Name)
	} else {
		fullname = names.NewInstanceMethodFullname(owner, sig.Name)
	}
	return &MethodSignature{
		Fullname:  fullname,
		RetTy:     retTy,
		Params:    params,
		TypeParam: methodTP,
	}, nil
}

func (d *ClassDict) convertParams(ns names.Namespace, astParams []*ast.Param, classTP, methodTP []ty.TyParam) ([]MethodParam, error) {
	out := make([]MethodParam, len(astParams))
	for i, p := range astParams {
		t, err := d.resolveTypename(ns, classTP, methodTP, p.Typ)
		if err != nil {
			return nil, err
		}
		out[i] = MethodParam{Name: p.Name, Ty: t}
	}
	return out, nil
}
