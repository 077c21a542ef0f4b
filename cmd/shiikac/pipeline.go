package main

import (
	"fmt"

	"github.com/shiika-lang/shiikac/internal/ast"
	"github.com/shiika-lang/shiikac/internal/classdict"
	"github.com/shiika-lang/shiikac/internal/hir"
	"github.com/shiika-lang/shiikac/internal/mir"
	"github.com/shiika-lang/shiikac/internal/names"
)

// buildResult is everything a successful run of the pipeline produces, for
// the "build" subcommand to report on and optionally dump.
type buildResult struct {
	dict    *classdict.ClassDict
	methods map[string]*hir.SkMethod
	mir     *mir.Mir
	exports *mir.LibraryExports
}

// runPipeline implements the driver's three in-scope phases (spec §4.3-
// §4.6): index the program into a ClassDict, lower every instance/class
// method body to HIR, then partition and build the MIR. Each phase's
// failure is wrapped with %w under a phase prefix ("indexing: ", "hir: ",
// "mir: "), so a *errors.ReportError from the owning component is still
// reachable through errors.As.
func runPipeline(prog *ast.Program) (*buildResult, error) {
	dict, err := classdict.IndexProgram(prog)
	if err != nil {
		return nil, fmt.Errorf("indexing: %w", err)
	}

	methods, err := lowerMethods(dict, prog)
	if err != nil {
		return nil, fmt.Errorf("hir: %w", err)
	}

	m, err := mir.Build(dict, dict.AllClassNames(), methods)
	if err != nil {
		return nil, fmt.Errorf("mir: %w", err)
	}

	exports := mir.NewLibraryExports(dict, m, nil)
	return &buildResult{dict: dict, methods: methods, mir: m, exports: exports}, nil
}

// lowerMethods walks every class/enum-case definition in prog and lowers
// each of its instance and class method bodies via internal/hir, keyed by
// mangled method fullname ("Class#method" / "Meta:Class.method") the same way
// internal/mir expects.
func lowerMethods(dict *classdict.ClassDict, prog *ast.Program) (map[string]*hir.SkMethod, error) {
	out := map[string]*hir.SkMethod{}
	var walk func(ns names.Namespace, defs []ast.Definition) error
	walk = func(ns names.Namespace, defs []ast.Definition) error {
		for _, def := range defs {
			switch n := def.(type) {
			case *ast.ClassDefinition:
				if err := lowerClassBody(dict, ns, n.Name, n.TypeParam, n.Defs, out); err != nil {
					return err
				}
				if err := walk(ns.Add(n.Name), n.Defs); err != nil {
					return err
				}
			case *ast.ModuleDefinition:
				if err := walk(ns.Add(n.Name), n.Defs); err != nil {
					return err
				}
			case *ast.EnumDefinition:
				if err := lowerClassBody(dict, ns, n.Name, n.TypeParam, n.Defs, out); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(names.Root(), prog.TopLevelItems); err != nil {
		return nil, err
	}
	return out, nil
}

func lowerClassBody(dict *classdict.ClassDict, ns names.Namespace, className string, typarams []*ast.TypeParam, defs []ast.Definition, out map[string]*hir.SkMethod) error {
	full := ns.ClassFullname(className)
	cls := dict.GetClass(full)
	classTP := make([]string, len(typarams))
	for i, tp := range typarams {
		classTP[i] = tp.Name
	}
	innerNS := ns.Add(className)
	b := hir.NewBuilder(dict)

	for _, def := range defs {
		switch m := def.(type) {
		case *ast.InstanceMethodDefinition:
			sig, ok := cls.Core.MethodSigs[names.MethodFirstname(m.Sig.Name)]
			if !ok {
				continue
			}
			lowered, err := b.LowerMethod(innerNS, sig, classTP, m.BodyExprs)
			if err != nil {
				return fmt.Errorf("%s#%s: %w", full, m.Sig.Name, err)
			}
			out[sig.Fullname.String()] = lowered
		case *ast.ClassMethodDefinition:
			metaCls := dict.GetClass(full.MetaName())
			sig, ok := metaCls.Core.MethodSigs[names.MethodFirstname(m.Sig.Name)]
			if !ok {
				continue
			}
			lowered, err := b.LowerMethod(innerNS, sig, classTP, m.BodyExprs)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", full, m.Sig.Name, err)
			}
			out[sig.Fullname.String()] = lowered
		}
	}
	return nil
}
