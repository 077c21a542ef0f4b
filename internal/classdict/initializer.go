package classdict

import (
	"github.com/shiika-lang/shiikac/internal/names"
	"github.com/shiika-lang/shiikac/internal/ty"
)

// inheritInitializer is called once a class body with no explicit
// `#initialize` has been fully scanned: it walks the superclass chain for
// the nearest ancestor that defines `#initialize`, specializing the found
// signature by each hop's type arguments in turn (spec §4.3's "Initializer
// inheritance... specialized by the superclass's type arguments", grounded
// on indexing.rs's `_initializer_params`/`specialized_initialize`). A class
// whose chain defines no `#initialize` anywhere gets a zero-parameter
// `.new`; no `#initialize` signature is recorded for it.
func (d *ClassDict) inheritInitializer(full names.ClassFullname, sk *SkClass) error {
	if sk.Superclass == nil {
		return d.syncNewSignature(full, sk.Core.TypeParam, nil)
	}

	superFullname := sk.Superclass.Fullname
	classArgs := sk.Superclass.TypeArgs
	for {
		superSk, ok := d.FindType(superFullname)
		if !ok {
			break
		}
		superCls, ok := superSk.(*SkClass)
		if !ok {
			break
		}
		if sig, found := superCls.Core.MethodSigs["initialize"]; found {
			specialized := sig.Specialize(classArgs, nil)
			sk.Core.MethodSigs["initialize"] = specialized
			return d.syncNewSignature(full, sk.Core.TypeParam, specialized.Params)
		}
		if superCls.Superclass == nil {
			break
		}
		classArgs = substituteAll(superCls.Superclass.TypeArgs, classArgs, nil)
		superFullname = superCls.Superclass.Fullname
	}

	return d.syncNewSignature(full, sk.Core.TypeParam, nil)
}

func substituteAll(args, classArgs, methodArgs []ty.TermTy) []ty.TermTy {
	out := make([]ty.TermTy, len(args))
	for i, a := range args {
		out[i] = a.Substitute(classArgs, methodArgs)
	}
	return out
}
