package typecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiika-lang/shiikac/internal/ast"
	"github.com/shiika-lang/shiikac/internal/classdict"
	"github.com/shiika-lang/shiikac/internal/errors"
	"github.com/shiika-lang/shiikac/internal/ty"
)

func typeName(seg string) *ast.TypeName { return &ast.TypeName{Segments: []string{seg}} }

func TestCheckConditionTy(t *testing.T) {
	assert.NoError(t, CheckConditionTy(ty.Raw("Bool"), "if"))
	err := CheckConditionTy(ty.Raw("Int"), "if")
	require.Error(t, err)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.CHK004, rep.Code)
}

func TestCheckLogicalOperatorTy(t *testing.T) {
	assert.NoError(t, CheckLogicalOperatorTy(ty.Raw("Bool"), "&&"))
	err := CheckLogicalOperatorTy(ty.Raw("String"), "&&")
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.CHK005, rep.Code)
}

func buildAnimalDict(t *testing.T) *classdict.ClassDict {
	t.Helper()
	prog := &ast.Program{TopLevelItems: []ast.TopLevelItem{
		&ast.ClassDefinition{Name: "Animal", Supers: []*ast.TypeName{typeName("Object")}},
		&ast.ClassDefinition{Name: "Dog", Supers: []*ast.TypeName{typeName("Animal")}},
		&ast.ClassDefinition{Name: "Cat", Supers: []*ast.TypeName{typeName("Animal")}},
	}}
	d, err := classdict.IndexProgram(prog)
	require.NoError(t, err)
	return d
}

func TestIfResultTyCommonAncestor(t *testing.T) {
	d := buildAnimalDict(t)
	result, err := IfResultTy(d, []ty.TermTy{ty.Raw("Dog"), ty.Raw("Cat")})
	require.NoError(t, err)
	assert.Equal(t, "Animal", result.Fullname())
}

func TestIfResultTyVoidPromotes(t *testing.T) {
	d := buildAnimalDict(t)
	result, err := IfResultTy(d, []ty.TermTy{ty.Raw("Dog"), ty.Raw("Void")})
	require.NoError(t, err)
	assert.True(t, result.Equals(ty.Raw("Void")))
}

func TestIfResultTyAllNever(t *testing.T) {
	d := buildAnimalDict(t)
	result, err := IfResultTy(d, []ty.TermTy{ty.Raw("Never"), ty.Raw("Never")})
	require.NoError(t, err)
	assert.True(t, result.Equals(ty.Raw("Never")))
}

func TestIfResultTyNoCommonAncestorIsObject(t *testing.T) {
	// Scenario 3 of spec.md §8: Int vs String below Object yields Object.
	d := classdict.New()
	result, err := IfResultTy(d, []ty.TermTy{ty.Raw("Int"), ty.Raw("String")})
	require.NoError(t, err)
	assert.Equal(t, "Object", result.Fullname())
}

func TestCheckMethodArgsArityMismatch(t *testing.T) {
	d := buildAnimalDict(t)
	sig := &classdict.MethodSignature{
		Params: []classdict.MethodParam{{Name: "a", Ty: ty.Raw("Animal")}},
	}
	err := CheckMethodArgs(d, sig, nil, nil)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.CHK002, rep.Code)
}

func TestCheckMethodArgsConformance(t *testing.T) {
	d := buildAnimalDict(t)
	sig := &classdict.MethodSignature{
		Params: []classdict.MethodParam{{Name: "a", Ty: ty.Raw("Animal")}},
	}
	assert.NoError(t, CheckMethodArgs(d, sig, []ty.TermTy{ty.Raw("Dog")}, nil))

	err := CheckMethodArgs(d, sig, []ty.TermTy{ty.Raw("String")}, nil)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.CHK001, rep.Code)
}

func TestCheckBlockArity(t *testing.T) {
	assert.NoError(t, CheckBlockArity("Array#each", 1, 1))
	err := CheckBlockArity("Array#each", 1, 2)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.CHK006, rep.Code)
}

// boxPushSignature builds a generic `push<T>(x: T)` signature returning Void
// by hand (bypassing the parser) to exercise MethodCallInf's
// directional solver, matching concrete scenario 2 of spec.md §8.
func boxPushSignature() *classdict.MethodSignature {
	t0 := &ty.TyParamRef{Kind: ty.MethodBound, Name: "T", Index: 0, Upper: ty.Raw("Object"), Lower: ty.Raw("Never")}
	return &classdict.MethodSignature{
		TypeParam: []ty.TyParam{{Name: "T"}},
		Params:    []classdict.MethodParam{{Name: "x", Ty: t0}},
		RetTy:     ty.Raw("Void"),
	}
}

func TestMethodCallInfSolvesFromArgument(t *testing.T) {
	d := buildAnimalDict(t)
	sig := boxPushSignature()
	sol, err := MethodCallInf(d, sig, []ty.TermTy{ty.Raw("Dog")})
	require.NoError(t, err)
	require.Len(t, sol.MethodArgs, 1)
	assert.True(t, sol.MethodArgs[0].Equals(ty.Raw("Dog")))
}

func TestMethodCallInfWidensToCommonAncestor(t *testing.T) {
	d := buildAnimalDict(t)
	// push(T) called twice conceptually: simulate a two-arg method `pair(a:
	// T, b: T)` so both positions constrain the same index.
	t0 := &ty.TyParamRef{Kind: ty.MethodBound, Name: "T", Index: 0, Upper: ty.Raw("Object"), Lower: ty.Raw("Never")}
	sig := &classdict.MethodSignature{
		TypeParam: []ty.TyParam{{Name: "T"}},
		Params: []classdict.MethodParam{
			{Name: "a", Ty: t0},
			{Name: "b", Ty: t0},
		},
		RetTy: ty.Raw("Void"),
	}
	sol, err := MethodCallInf(d, sig, []ty.TermTy{ty.Raw("Dog"), ty.Raw("Cat")})
	require.NoError(t, err)
	assert.Equal(t, "Animal", sol.MethodArgs[0].Fullname())
}

func TestCheckReturnValueTyParamRefStructuralEquality(t *testing.T) {
	d := classdict.New()
	ref := &ty.TyParamRef{Kind: ty.MethodBound, Name: "V", Index: 0, Upper: ty.Raw("Object"), Lower: ty.Raw("Never")}
	sig := &classdict.MethodSignature{RetTy: ref}
	// Structurally equal to ret_ty itself: short-circuits, no lower-bound walk.
	assert.NoError(t, CheckReturnValue(d, sig, ref))
}

func TestCheckReturnValueFallsBackToLowerBound(t *testing.T) {
	d := buildAnimalDict(t)
	ref := &ty.TyParamRef{Kind: ty.MethodBound, Name: "V", Index: 0, Upper: ty.Raw("Object"), Lower: ty.Raw("Animal")}
	sig := &classdict.MethodSignature{RetTy: ref}
	assert.NoError(t, CheckReturnValue(d, sig, ty.Raw("Dog")))

	err := CheckReturnValue(d, sig, ty.Raw("String"))
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.CHK003, rep.Code)
}

func TestCheckExtractorArity(t *testing.T) {
	assert.NoError(t, CheckExtractorArity("Some", 1, 1))
	err := CheckExtractorArity("Some", 1, 2)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.HIR003, rep.Code)
}
