// Package examples supplies a small registry of bundled internal/ast
// programs for cmd/shiikac and cmd/shiikac-dict to exercise end to end.
// Source-text lexing and parsing are out of scope (spec.md §1: the AST is
// consumed, not produced, by this compiler), so these programs are built
// directly as Go values rather than read from a .shiika file — the same
// role a real frontend's parser output would fill.
package examples

import "github.com/shiika-lang/shiikac/internal/ast"

func typeName(seg string) *ast.TypeName { return &ast.TypeName{Segments: []string{seg}} }

func param(name, typ string) *ast.Param { return &ast.Param{Name: name, Typ: typeName(typ)} }

// Animals builds a small Animal/Dog/Cat hierarchy: Animal declares `legs`
// and `speak`, Dog overrides `speak` and declares its own initializer, Cat
// only inherits. Exercises class indexing, vtable override, and
// initializer inheritance.
func Animals() *ast.Program {
	return &ast.Program{TopLevelItems: []ast.TopLevelItem{
		&ast.ClassDefinition{
			Name:   "Animal",
			Supers: []*ast.TypeName{typeName("Object")},
			Defs: []ast.Definition{
				&ast.InstanceMethodDefinition{
					Sig: &ast.MethodSig{Name: "legs", RetTyp: typeName("Int")},
					BodyExprs: []ast.Expression{
						&ast.Literal{Kind: ast.IntLiteral, Value: int64(4)},
					},
				},
				&ast.InstanceMethodDefinition{
					Sig: &ast.MethodSig{Name: "speak", RetTyp: typeName("Void")},
					BodyExprs: []ast.Expression{
						&ast.Literal{Kind: ast.StringLiteral, Value: "..."},
					},
				},
			},
		},
		&ast.ClassDefinition{
			Name:   "Dog",
			Supers: []*ast.TypeName{typeName("Animal")},
			Defs: []ast.Definition{
				&ast.InstanceMethodDefinition{
					Sig: &ast.MethodSig{Name: "initialize", Params: []*ast.Param{param("name", "String")}},
				},
				&ast.InstanceMethodDefinition{
					Sig: &ast.MethodSig{Name: "speak", RetTyp: typeName("Void")},
					BodyExprs: []ast.Expression{
						&ast.Literal{Kind: ast.StringLiteral, Value: "Woof"},
					},
				},
			},
		},
		&ast.ClassDefinition{
			Name:   "Cat",
			Supers: []*ast.TypeName{typeName("Animal")},
		},
	}}
}

// IntOptionEnum builds a non-generic `IntOption = Some(Int) | None` enum.
// Exercises enum-case indexing.
func IntOptionEnum() *ast.Program {
	return &ast.Program{TopLevelItems: []ast.TopLevelItem{
		&ast.EnumDefinition{
			Name: "IntOption",
			Cases: []*ast.EnumCase{
				{Name: "Some", Params: []*ast.Param{param("value", "Int")}},
				{Name: "None"},
			},
		},
	}}
}

// Registry lists every bundled program by name, for cmd/shiikac's `build`/
// `check` subcommands and cmd/shiikac-dict's startup dictionary.
func Registry() map[string]*ast.Program {
	return map[string]*ast.Program{
		"animals":    Animals(),
		"int-option": IntOptionEnum(),
	}
}

// Names returns the registry's keys in a fixed, stable order for
// cmd/shiikac's `list` subcommand.
func Names() []string {
	return []string{"animals", "int-option"}
}
