package classdict

import (
	"github.com/shiika-lang/shiikac/internal/names"
	"github.com/shiika-lang/shiikac/internal/ty"
)

// LookupMethod resolves firstName against receiver's own method set, then
// its included modules, then walks its superclass chain, specializing the
// found signature by the type arguments accumulated along the way (spec
// §4.3's method resolution). It reports the class or module the method is
// actually defined on (not necessarily receiver's own class).
func LookupMethod(d *ClassDict, receiver ty.TermTy, firstName names.MethodFirstname) (*MethodSignature, names.ClassFullname, bool) {
	cur, ok := asLit(receiver)
	if !ok {
		return nil, names.ClassFullname{}, false
	}
	for {
		sk, ok := d.FindType(names.NewClassFullname(cur.Erasure().String()))
		if !ok {
			return nil, names.ClassFullname{}, false
		}
		if sig, found := sk.Base().MethodSigs[firstName]; found {
			return sig.Specialize(cur.TypeArgs, nil), sk.Fullname(), true
		}
		cls, isCls := sk.(*SkClass)
		if !isCls {
			return nil, names.ClassFullname{}, false
		}
		for _, inc := range cls.Includes {
			incSk, ok := d.FindType(inc.Fullname)
			if !ok {
				continue
			}
			if sig, found := incSk.Base().MethodSigs[firstName]; found {
				incArgs := substituteAll(inc.TypeArgs, cur.TypeArgs, nil)
				return sig.Specialize(incArgs, nil), inc.Fullname, true
			}
		}
		if cls.Superclass == nil {
			return nil, names.ClassFullname{}, false
		}
		next := cls.Superclass.Ty().Substitute(cur.TypeArgs, nil)
		nextLit, ok := next.(*ty.Lit)
		if !ok {
			return nil, names.ClassFullname{}, false
		}
		cur = nextLit
	}
}

// asLit unwraps a TyParamRef to its upper bound, so a method call on a
// generic receiver (`fn(x: T) { x.foo }`) resolves against whatever foo is
// statically known to conform to.
func asLit(t ty.TermTy) (*ty.Lit, bool) {
	switch v := t.(type) {
	case *ty.Lit:
		return v, true
	case *ty.TyParamRef:
		return asLit(v.Upper)
	default:
		return nil, false
	}
}

// validateRequirements checks every class's included modules' abstract
// requirements are satisfied by some method reachable from the class's own
// resolution order (spec §4.3's "module requirement left unimplemented").
func (d *ClassDict) validateRequirements() error {
	for name, sk := range d.skTypes {
		cls, ok := sk.(*SkClass)
		if !ok || len(cls.Includes) == 0 {
			continue
		}
		receiver := instanceTypeFor(names.NewClassFullname(name), cls.Core.TypeParam)
		for _, inc := range cls.Includes {
			modSk, ok := d.FindType(inc.Fullname)
			if !ok {
				continue
			}
			mod, ok := modSk.(*SkModule)
			if !ok {
				continue
			}
			for _, req := range mod.Requirements {
				found, _, ok := LookupMethod(d, receiver, req.Fullname.FirstName)
				if !ok || !found.EquivalentTo(req) {
					return programErrorf(CLS004, "class %s does not implement %s required by module %s",
						name, req.Fullname.FirstName, inc.Fullname)
				}
			}
		}
	}
	return nil
}
