package mir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiika-lang/shiikac/internal/ast"
	"github.com/shiika-lang/shiikac/internal/classdict"
	"github.com/shiika-lang/shiikac/internal/names"
)

func typeName(seg string) *ast.TypeName { return &ast.TypeName{Segments: []string{seg}} }

func classDef(name string, supers []*ast.TypeName, defs ...ast.Definition) *ast.ClassDefinition {
	return &ast.ClassDefinition{Name: name, Supers: supers, Defs: defs}
}

func methodDef(name string) *ast.InstanceMethodDefinition {
	return &ast.InstanceMethodDefinition{Sig: &ast.MethodSig{Name: name}}
}

func TestBuildPartitionsForeignAndOwnClasses(t *testing.T) {
	prog := &ast.Program{TopLevelItems: []ast.TopLevelItem{
		classDef("Animal", []*ast.TypeName{typeName("Object")}),
		classDef("Dog", []*ast.TypeName{typeName("Animal")}),
	}}
	d, err := classdict.IndexProgram(prog)
	require.NoError(t, err)

	// Animal stands in for a class imported from a library export: mark it
	// foreign by hand, as the driver would after loading a LibraryExports.
	d.GetClass(names.NewClassFullname("Animal")).Core.Foreign = true

	m, err := Build(d, []string{"Object", "Animal", "Dog"}, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Animal"}, m.ForeignClasses)
	assert.ElementsMatch(t, []string{"Object", "Dog"}, m.OwnClasses)
}

func TestBuildUnindexedClassIsInternalBug(t *testing.T) {
	d := classdict.New()
	_, err := Build(d, []string{"Nope"}, nil)
	require.Error(t, err)
}

func TestBuildVTableOverrideReplacesInheritedSlot(t *testing.T) {
	prog := &ast.Program{TopLevelItems: []ast.TopLevelItem{
		classDef("Animal", []*ast.TypeName{typeName("Object")}, methodDef("speak"), methodDef("legs")),
		classDef("Dog", []*ast.TypeName{typeName("Animal")}, methodDef("speak")),
	}}
	d, err := classdict.IndexProgram(prog)
	require.NoError(t, err)

	m, err := Build(d, []string{"Object", "Animal", "Dog"}, nil)
	require.NoError(t, err)

	animalVT := m.VTables["Animal"]
	dogVT := m.VTables["Dog"]
	require.NotNil(t, animalVT)
	require.NotNil(t, dogVT)

	speakIdx := -1
	for i, slot := range animalVT.Slots {
		if slot == "Animal#speak" {
			speakIdx = i
		}
	}
	require.GreaterOrEqual(t, speakIdx, 0)

	// Dog's vtable must be the same length as Animal's (override replaces,
	// doesn't append) and carry "Dog#speak" at Animal's own slot index.
	assert.Len(t, dogVT.Slots, len(animalVT.Slots))
	assert.Equal(t, "Dog#speak", dogVT.Slots[speakIdx])

	legsIdx := -1
	for i, slot := range dogVT.Slots {
		if slot == "Animal#legs" {
			legsIdx = i
		}
	}
	assert.GreaterOrEqual(t, legsIdx, 0, "Dog inherits Animal#legs unmodified")
}

func TestBuildWitnessTableOrdersByModuleRequirementDeclarationOrder(t *testing.T) {
	prog := &ast.Program{TopLevelItems: []ast.TopLevelItem{
		&ast.ModuleDefinition{
			Name: "Greetable",
			Defs: []ast.Definition{
				&ast.MethodRequirementDefinition{Sig: &ast.MethodSig{Name: "greeting", RetTyp: typeName("String")}},
				&ast.MethodRequirementDefinition{Sig: &ast.MethodSig{Name: "farewell", RetTyp: typeName("String")}},
			},
		},
		classDef("Polite", []*ast.TypeName{typeName("Object"), typeName("Greetable")},
			&ast.InstanceMethodDefinition{Sig: &ast.MethodSig{Name: "greeting", RetTyp: typeName("String")}},
			&ast.InstanceMethodDefinition{Sig: &ast.MethodSig{Name: "farewell", RetTyp: typeName("String")}},
		),
	}}
	d, err := classdict.IndexProgram(prog)
	require.NoError(t, err)

	m, err := Build(d, []string{"Object", "Greetable", "Polite"}, nil)
	require.NoError(t, err)

	require.Len(t, m.WitnessTables, 1)
	wt := m.WitnessTables[0]
	assert.Equal(t, "Polite", wt.Class)
	assert.Equal(t, "Greetable", wt.Module)
	require.Len(t, wt.Slots, 2)
	assert.Equal(t, "Polite#greeting", wt.Slots[0])
	assert.Equal(t, "Polite#farewell", wt.Slots[1])
}

func TestNewLibraryExportsFieldsPopulated(t *testing.T) {
	prog := &ast.Program{TopLevelItems: []ast.TopLevelItem{
		classDef("Animal", []*ast.TypeName{typeName("Object")}, methodDef("speak")),
	}}
	d, err := classdict.IndexProgram(prog)
	require.NoError(t, err)

	m, err := Build(d, []string{"Object", "Animal"}, nil)
	require.NoError(t, err)

	le := NewLibraryExports(d, m, nil)
	var animal *SkTypeExport
	for i := range le.SkTypes {
		if le.SkTypes[i].Fullname == "Animal" {
			animal = &le.SkTypes[i]
		}
	}
	require.NotNil(t, animal)
	assert.Equal(t, "Object", animal.Superclass)
	assert.False(t, animal.IsModule)
	_, hasSpeak := animal.Methods["speak"]
	assert.True(t, hasSpeak)

	require.Len(t, le.VTables, len(m.VTables))
}

func TestLibraryExportsToJSONFieldOrderAndToYAML(t *testing.T) {
	le := &LibraryExports{
		SkTypes:   []SkTypeExport{{Fullname: "Animal", Methods: map[string]string{}}},
		VTables:   []*VTable{{Class: "Animal", Slots: []string{"Animal#speak"}}},
		Constants: map[string]string{"Animal": "Meta:Animal"},
	}
	data, err := le.ToJSON(false)
	require.NoError(t, err)
	s := string(data)
	skIdx := indexOf(s, `"sk_types"`)
	vtIdx := indexOf(s, `"vtables"`)
	constIdx := indexOf(s, `"constants"`)
	require.True(t, skIdx >= 0 && vtIdx >= 0 && constIdx >= 0)
	assert.True(t, skIdx < vtIdx && vtIdx < constIdx, "field order must be sk_types, vtables, constants")

	ydata, err := le.ToYAML()
	require.NoError(t, err)
	ys := string(ydata)
	assert.Contains(t, ys, "sk_types:")
	assert.Contains(t, ys, "vtables:")
	assert.Contains(t, ys, "constants:")
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
