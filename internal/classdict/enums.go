package classdict

import (
	"github.com/shiika-lang/shiikac/internal/ast"
	"github.com/shiika-lang/shiikac/internal/names"
	"github.com/shiika-lang/shiikac/internal/ty"
)

// indexEnum registers the enum itself as a class with Object as its
// superclass, then indexes each of its cases as a subclass of the enum
// (spec §4.3's enum-case expansion).
func (d *ClassDict) indexEnum(ns names.Namespace, def *ast.EnumDefinition) error {
	full := ns.ClassFullname(def.Name)
	enumTP := d.classIndex[full.String()]
	inner := ns.Add(def.Name)

	existing, wasRegistered := d.FindType(full)
	sk, ok := existing.(*SkClass)
	if !wasRegistered || !ok {
		sk = &SkClass{
			Core:       newBase(ty.NewErasure(full.String(), false), enumTP, nil),
			Superclass: SimpleSuperclass("Object"),
			IVars:      map[string]*SkIVar{},
		}
		d.AddType(sk)
		if err := d.addNewClass(full, sk); err != nil {
			return err
		}
	}

	for _, c := range def.Cases {
		if err := d.indexEnumCase(inner, full, enumTP, c); err != nil {
			return err
		}
	}

	return d.indexDefsInClass(inner, full, enumTP, sk, def.Defs)
}

// indexEnumCase builds one `case Name(params...)` as a subclass of the
// enum: nullary cases get Never... as the superclass's type arguments (a
// case with no payload can never actually hold the enum's type parameters),
// parameterized cases propagate the enum's own type parameters unchanged.
// Auto-generated readonly getters and a synthesized `#initialize` mirror
// each payload param (spec §4.3).
func (d *ClassDict) indexEnumCase(ns names.Namespace, enumFull names.ClassFullname, enumTP []ty.TyParam, c *ast.EnumCase) error {
	caseFull := enumFull.Sub(c.Name)
	if _, exists := d.FindType(caseFull); exists {
		return programErrorf(CLS007, "enum case %s collides with a sibling case", caseFull)
	}

	nullary := len(c.Params) == 0
	superArgs := make([]ty.TermTy, len(enumTP))
	for i, tp := range enumTP {
		if nullary {
			superArgs[i] = ty.Raw("Never")
		} else {
			superArgs[i] = ty.NewTyParamRef(tp.Name, ty.ClassBound, i)
		}
	}

	ivarList, err := d.enumCaseIvars(ns, enumTP, c.Params)
	if err != nil {
		return err
	}
	ivars := make(map[string]*SkIVar, len(ivarList))
	for _, iv := range ivarList {
		ivars[iv.Name] = iv
	}

	sk := &SkClass{
		Core:       newBase(ty.NewErasure(caseFull.String(), false), nil, nil),
		Superclass: &Superclass{Fullname: enumFull, TypeArgs: superArgs},
		IVars:      ivars,
		ConstIsObj: nullary,
	}
	d.AddType(sk)

	for _, iv := range ivarList {
		sk.Core.MethodSigs[names.MethodFirstname(iv.AccessorName())] = &MethodSignature{
			Fullname: names.NewInstanceMethodFullname(caseFull, iv.AccessorName()),
			RetTy:    iv.Ty,
		}
	}

	initParams := make([]MethodParam, len(ivarList))
	for i, iv := range ivarList {
		initParams[i] = MethodParam{Name: iv.Name, Ty: iv.Ty}
	}
	sk.Core.MethodSigs["initialize"] = SignatureOfInitialize(caseFull, initParams)

	if err := d.addNewClass(caseFull, sk); err != nil {
		return err
	}
	return d.syncNewSignature(caseFull, nil, initParams)
}

// enumCaseIvars resolves each case payload parameter's declared type against
// the enclosing enum's type parameters (a case has none of its own) and
// assigns stable, declaration-ordered slot indices.
func (d *ClassDict) enumCaseIvars(ns names.Namespace, enumTP []ty.TyParam, params []*ast.Param) ([]*SkIVar, error) {
	out := make([]*SkIVar, len(params))
	for i, p := range params {
		t, err := d.resolveTypename(ns, enumTP, nil, p.Typ)
		if err != nil {
			return nil, err
		}
		out[i] = &SkIVar{Idx: i, Name: p.Name, Ty: t, Readonly: true}
	}
	return out, nil
}
