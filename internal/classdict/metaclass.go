package classdict

import (
	"github.com/shiika-lang/shiikac/internal/names"
	"github.com/shiika-lang/shiikac/internal/ty"
)

// addNewClass synthesizes sk's sibling metaclass: superclass Class, ivars
// copied from Class itself (spec §4.3's metaclass synthesis; the metaclass
// ivar inheritance is grounded on indexing.rs's `add_new_class`), and an
// initial (zero-parameter) `.new` signature — replaced once the class body
// is scanned for an explicit `#initialize` by syncNewSignature.
func (d *ClassDict) addNewClass(full names.ClassFullname, sk *SkClass) error {
	meta := full.MetaName()
	metaSk := &SkClass{
		Core:       newBase(ty.NewErasure(meta.String(), true), sk.Core.TypeParam, nil),
		Superclass: SimpleSuperclass("Class"),
		IVars:      copyIVars(d.GetClass(names.NewClassFullname("Class")).IVars),
	}
	d.AddType(metaSk)
	return d.syncNewSignature(full, sk.Core.TypeParam, nil)
}

// addNewModule synthesizes a module's metaclass, the same way as a class's
// except that no `.new` is ever registered (spec §4.3: "for modules: same
// but ... no `.new`" — a module is never directly instantiated).
func (d *ClassDict) addNewModule(full names.ClassFullname, sk *SkModule) error {
	meta := full.MetaName()
	metaSk := &SkClass{
		Core:       newBase(ty.NewErasure(meta.String(), true), sk.Core.TypeParam, nil),
		Superclass: SimpleSuperclass("Class"),
		IVars:      copyIVars(d.GetClass(names.NewClassFullname("Class")).IVars),
	}
	d.AddType(metaSk)
	return nil
}

func copyIVars(src map[string]*SkIVar) map[string]*SkIVar {
	out := make(map[string]*SkIVar, len(src))
	for k, v := range src {
		cp := *v
		out[k] = &cp
	}
	return out
}

// syncNewSignature (re)installs `ClassName.new` on full's metaclass with the
// given initializer parameter list and the class's own (possibly generic)
// instance type as its return type. Never gets no `.new` at all: it can never be
// instantiated (spec §4.3).
func (d *ClassDict) syncNewSignature(full names.ClassFullname, classTP []ty.TyParam, params []MethodParam) error {
	if full.String() == "Never" {
		return nil
	}
	meta := full.MetaName()
	instanceTy := instanceTypeFor(full, classTP)
	sig := SignatureOfNew(meta, params, instanceTy)
	d.GetClass(meta).Core.MethodSigs["new"] = sig
	return nil
}

// instanceTypeFor builds the class's own instance type, specialized by its
// own type parameters (as class-bound TyParamRefs) when generic.
func instanceTypeFor(full names.ClassFullname, classTP []ty.TyParam) ty.TermTy {
	if len(classTP) == 0 {
		return ty.Raw(full.String())
	}
	args := make([]ty.TermTy, len(classTP))
	for i, tp := range classTP {
		args[i] = ty.NewTyParamRef(tp.Name, ty.ClassBound, i)
	}
	return ty.Spe(full.String(), args...)
}
