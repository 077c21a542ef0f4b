package classdict

import (
	"github.com/shiika-lang/shiikac/internal/ast"
	"github.com/shiika-lang/shiikac/internal/names"
	"github.com/shiika-lang/shiikac/internal/ty"
)

// IndexProgram runs the Class Dictionary's indexing pass (spec §4.3) over a
// whole program: every class, module and enum becomes an SkType. Indexing
// runs in two passes so that a superclass/module-inclusion list can resolve
// a sibling regardless of declaration order: collectNames first records
// every class/module/enum's name, type-parameter arity and kind (class vs.
// module), then the second pass resolves bodies against that table.
// Grounded on indexing.rs's `index_program`.
func IndexProgram(prog *ast.Program) (*ClassDict, error) {
	d := New()
	if err := d.collectNames(names.Root(), prog.TopLevelItems); err != nil {
		return nil, err
	}
	for _, item := range prog.TopLevelItems {
		def, ok := item.(ast.Definition)
		if !ok {
			continue
		}
		if err := d.indexDef(names.Root(), def); err != nil {
			return nil, err
		}
	}
	if err := d.validateNoCycles(); err != nil {
		return nil, err
	}
	if err := d.validateRequirements(); err != nil {
		return nil, err
	}
	return d, nil
}

// collectNames walks the full definition tree recording each class/module's
// type-parameter arity (for resolveTypename's arity check) and whether it
// is a module (for resolveSupers's class-vs-module check), before any
// superclass or method body is resolved.
func (d *ClassDict) collectNames(ns names.Namespace, items []ast.TopLevelItem) error {
	for _, item := range items {
		switch def := item.(type) {
		case *ast.ClassDefinition:
			full := ns.ClassFullname(def.Name)
			d.classIndex[full.String()] = ParseTypeParams(def.TypeParam)
			if err := d.collectNames(ns.Add(def.Name), defsToItems(def.Defs)); err != nil {
				return err
			}
		case *ast.ModuleDefinition:
			full := ns.ClassFullname(def.Name)
			d.classIndex[full.String()] = ParseTypeParams(def.TypeParam)
			d.isModule[full.String()] = true
			if err := d.collectNames(ns.Add(def.Name), defsToItems(def.Defs)); err != nil {
				return err
			}
		case *ast.EnumDefinition:
			full := ns.ClassFullname(def.Name)
			d.classIndex[full.String()] = ParseTypeParams(def.TypeParam)
			for _, c := range def.Cases {
				d.classIndex[full.Sub(c.Name).String()] = nil
			}
			if err := d.collectNames(ns.Add(def.Name), defsToItems(def.Defs)); err != nil {
				return err
			}
		}
	}
	return nil
}

func defsToItems(defs []ast.Definition) []ast.TopLevelItem {
	items := make([]ast.TopLevelItem, len(defs))
	for i, def := range defs {
		items[i] = def
	}
	return items
}

// indexDef dispatches one definition to its kind-specific indexer. A bare
// top-level expression or a constant definition is the HIR builder's
// concern, not the class dictionary's (spec §4.5 owns const_inits).
func (d *ClassDict) indexDef(ns names.Namespace, def ast.Definition) error {
	switch def := def.(type) {
	case *ast.ClassDefinition:
		return d.indexClass(ns, def)
	case *ast.ModuleDefinition:
		return d.indexModule(ns, def)
	case *ast.EnumDefinition:
		return d.indexEnum(ns, def)
	default:
		return nil
	}
}

// indexClass resolves def's superclass chain and the bodies nested under it
// (spec §4.3). Grounded on indexing.rs's `index_class`/`add_new_class`.
func (d *ClassDict) indexClass(ns names.Namespace, def *ast.ClassDefinition) error {
	full := ns.ClassFullname(def.Name)
	classTP := d.classIndex[full.String()]
	inner := ns.Add(def.Name)

	super, includes, err := d.resolveSupers(inner, classTP, def.Supers)
	if err != nil {
		return err
	}

	existing, wasRegistered := d.FindType(full)
	var sk *SkClass
	if cls, ok := existing.(*SkClass); wasRegistered && ok {
		if cls.Superclass == nil || super == nil || cls.Superclass.Fullname != super.Fullname {
			return programErrorf(CLS003, "class %s reopened with a different superclass", full)
		}
		if len(classTP) != len(cls.Core.TypeParam) {
			return programErrorf(CLS008, "class %s reopened with %d type parameters, was %d",
				full, len(classTP), len(cls.Core.TypeParam))
		}
		sk = cls
		sk.Includes = mergeIncludes(sk.Includes, includes)
	} else {
		sk = &SkClass{
			Core:       newBase(ty.NewErasure(full.String(), false), classTP, nil),
			Superclass: super,
			Includes:   includes,
			IVars:      map[string]*SkIVar{},
		}
		d.AddType(sk)
		if err := d.addNewClass(full, sk); err != nil {
			return err
		}
	}

	return d.indexDefsInClass(inner, full, classTP, sk, def.Defs)
}

// indexModule resolves def's included-module requirements list and nested
// bodies (spec §4.3: "same but register requirements, no `.new`").
func (d *ClassDict) indexModule(ns names.Namespace, def *ast.ModuleDefinition) error {
	full := ns.ClassFullname(def.Name)
	moduleTP := d.classIndex[full.String()]
	inner := ns.Add(def.Name)

	existing, wasRegistered := d.FindType(full)
	var sk *SkModule
	if mod, ok := existing.(*SkModule); wasRegistered && ok {
		if len(moduleTP) != len(mod.Core.TypeParam) {
			return programErrorf(CLS008, "module %s reopened with %d type parameters, was %d",
				full, len(moduleTP), len(mod.Core.TypeParam))
		}
		sk = mod
	} else {
		sk = &SkModule{Core: newBase(ty.NewErasure(full.String(), false), moduleTP, nil)}
		d.AddType(sk)
		if err := d.addNewModule(full, sk); err != nil {
			return err
		}
	}

	return d.indexDefsInModule(inner, full, moduleTP, sk, def.Defs)
}

// resolveSupers resolves a class's `Supers` list: at most one class,
// which if present must come first, followed by zero or more modules (spec
// §4.3). A class with no superclass at all is a name error (NAM001; see
// DESIGN.md's Open Question #1): this compiler never defaults a bare class
// to Object.
func (d *ClassDict) resolveSupers(ns names.Namespace, classTP []ty.TyParam, supers []*ast.TypeName) (*Superclass, []*Superclass, error) {
	if len(supers) == 0 {
		return nil, nil, nameErrorf(NAM001, "class has no superclass; an explicit superclass (at minimum Object) is required")
	}

	t, err := d.resolveTypename(ns, classTP, nil, supers[0])
	if err != nil {
		return nil, nil, err
	}
	lit, ok := t.(*ty.Lit)
	if !ok || lit.Meta {
		return nil, nil, programErrorf(CLS001, "invalid superclass reference %s", supers[0])
	}
	if d.isModule[lit.BaseName] {
		return nil, nil, programErrorf(CLS001, "superclass %s is a module, not a class", lit.BaseName)
	}
	super := &Superclass{Fullname: names.NewClassFullname(lit.BaseName), TypeArgs: lit.TypeArgs}

	var includes []*Superclass
	for _, m := range supers[1:] {
		mt, err := d.resolveTypename(ns, classTP, nil, m)
		if err != nil {
			return nil, nil, err
		}
		mlit, ok := mt.(*ty.Lit)
		if !ok {
			return nil, nil, programErrorf(CLS002, "invalid included module reference %s", m)
		}
		if !d.isModule[mlit.BaseName] {
			return nil, nil, programErrorf(CLS001, "only one class may appear among a class's supers (found extra class %s)", mlit.BaseName)
		}
		includes = append(includes, &Superclass{Fullname: names.NewClassFullname(mlit.BaseName), TypeArgs: mlit.TypeArgs})
	}
	return super, includes, nil
}

// mergeIncludes appends modules from incoming that aren't already present in
// existing, by fullname — reopening a class may add further `include`s.
func mergeIncludes(existing, incoming []*Superclass) []*Superclass {
	seen := make(map[string]bool, len(existing))
	for _, s := range existing {
		seen[s.Fullname.String()] = true
	}
	for _, s := range incoming {
		if !seen[s.Fullname.String()] {
			existing = append(existing, s)
			seen[s.Fullname.String()] = true
		}
	}
	return existing
}

// indexDefsInClass processes the member definitions nested in a class body:
// method signatures are registered on sk (instance methods) or its
// metaclass (class methods); nested class/module/enum defs recurse.
func (d *ClassDict) indexDefsInClass(ns names.Namespace, full names.ClassFullname, classTP []ty.TyParam, sk *SkClass, defs []ast.Definition) error {
	meta := full.MetaName()
	sawInitialize := false
	for _, def := range defs {
		switch def := def.(type) {
		case *ast.InstanceMethodDefinition:
			sig, err := d.CreateSignature(ns, full, def.Sig, classTP)
			if err != nil {
				return err
			}
			if _, dup := sk.Core.MethodSigs[sig.Fullname.FirstName]; dup {
				return programErrorf(CLS005, "duplicate method definition %s", sig.Fullname)
			}
			sk.Core.MethodSigs[sig.Fullname.FirstName] = sig
			if def.Sig.Name == "initialize" {
				sawInitialize = true
				if err := d.syncNewSignature(full, classTP, sig.Params); err != nil {
					return err
				}
			}
		case *ast.ClassMethodDefinition:
			sig, err := d.CreateSignature(ns, meta, def.Sig, classTP)
			if err != nil {
				return err
			}
			metaSk := d.GetClass(meta)
			if _, dup := metaSk.Core.MethodSigs[sig.Fullname.FirstName]; dup {
				return programErrorf(CLS005, "duplicate class method definition %s", sig.Fullname)
			}
			metaSk.Core.MethodSigs[sig.Fullname.FirstName] = sig
		case *ast.ClassDefinition:
			if err := d.indexClass(ns, def); err != nil {
				return err
			}
		case *ast.ModuleDefinition:
			if err := d.indexModule(ns, def); err != nil {
				return err
			}
		case *ast.EnumDefinition:
			if err := d.indexEnum(ns, def); err != nil {
				return err
			}
		}
	}
	if !sawInitialize {
		// A re-opening without #initialize keeps the #initialize (and `.new`)
		// an earlier declaration already recorded, own or inherited.
		if _, own := sk.Core.MethodSigs["initialize"]; !own {
			return d.inheritInitializer(full, sk)
		}
	}
	return nil
}

// indexDefsInModule processes a module body: method definitions become
// concrete methods, method requirements become abstract Requirements (spec
// §4.3, "register requirements").
func (d *ClassDict) indexDefsInModule(ns names.Namespace, full names.ClassFullname, moduleTP []ty.TyParam, sk *SkModule, defs []ast.Definition) error {
	meta := full.MetaName()
	for _, def := range defs {
		switch def := def.(type) {
		case *ast.InstanceMethodDefinition:
			sig, err := d.CreateSignature(ns, full, def.Sig, moduleTP)
			if err != nil {
				return err
			}
			sk.Core.MethodSigs[sig.Fullname.FirstName] = sig
		case *ast.ClassMethodDefinition:
			sig, err := d.CreateSignature(ns, meta, def.Sig, moduleTP)
			if err != nil {
				return err
			}
			d.GetClass(meta).Core.MethodSigs[sig.Fullname.FirstName] = sig
		case *ast.MethodRequirementDefinition:
			sig, err := d.CreateSignature(ns, full, def.Sig, moduleTP)
			if err != nil {
				return err
			}
			sk.Requirements = append(sk.Requirements, sig)
		case *ast.ClassDefinition:
			if err := d.indexClass(ns, def); err != nil {
				return err
			}
		case *ast.ModuleDefinition:
			if err := d.indexModule(ns, def); err != nil {
				return err
			}
		case *ast.EnumDefinition:
			if err := d.indexEnum(ns, def); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateNoCycles walks every registered class's ancestor chain looking
// for a repeated erasure before the chain bottoms out, catching a
// superclass cycle introduced by mutually-reopened classes (spec §4.3's
// "cyclic superclass chain" edge case). Lookup-time ancestor walks
// (Conforms, NearestCommonAncestor) assume this has already been checked.
func (d *ClassDict) validateNoCycles() error {
	for name, sk := range d.skTypes {
		cls, ok := sk.(*SkClass)
		if !ok || cls.Superclass == nil {
			continue
		}
		seen := map[string]bool{name: true}
		cur := cls
		for cur.Superclass != nil {
			next := cur.Superclass.Fullname.String()
			if seen[next] {
				return programErrorf(CLS006, "cyclic superclass chain involving %s", next)
			}
			seen[next] = true
			nsk, ok := d.FindType(cur.Superclass.Fullname)
			if !ok {
				break
			}
			nextCls, ok := nsk.(*SkClass)
			if !ok {
				break
			}
			cur = nextCls
		}
	}
	return nil
}
