package ty

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestRawSpeMeta(t *testing.T) {
	assert.Equal(t, "Int", Raw("Int").String())
	assert.False(t, Raw("Int").IsMeta())
	assert.True(t, MetaOf("Int").IsMeta())

	arr := Spe("Array", Raw("Int"))
	assert.Equal(t, "Array<Int>", arr.String())
}

func TestEqualsIsStructural(t *testing.T) {
	a := Spe("Array", Raw("Int"))
	b := Spe("Array", Raw("Int"))
	c := Spe("Array", Raw("String"))
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("structurally equal values differ: %s", diff)
	}
}

func TestTyParamRefSubstitute(t *testing.T) {
	ref := NewTyParamRef("T", ClassBound, 0)
	out := ref.Substitute([]TermTy{Raw("Int")}, nil)
	assert.True(t, out.Equals(Raw("Int")))

	// Out of range / unbound index: returned unchanged.
	unbound := ref.Substitute(nil, nil)
	assert.Equal(t, ref, unbound)
}

func TestSubstituteRecursesIntoTypeArgs(t *testing.T) {
	ty := Spe("Array", NewTyParamRef("T", ClassBound, 0))
	out := ty.Substitute([]TermTy{Raw("String")}, nil)
	assert.Equal(t, "Array<String>", out.String())
}

func TestAsClassValueToggle(t *testing.T) {
	ref := NewTyParamRef("T", MethodBound, 0)
	assert.False(t, ref.AsClassVal)
	cls := ref.AsClassValue()
	assert.True(t, cls.AsClassVal)
	assert.False(t, cls.AsType().AsClassVal)
}

func TestFnXInfo(t *testing.T) {
	fn := FnType([]TermTy{Raw("Int"), Raw("String")}, Raw("Bool"))
	params, ret, ok := FnXInfo(fn)
	assert.True(t, ok)
	assert.Len(t, params, 2)
	assert.True(t, ret.Equals(Raw("Bool")))

	_, _, ok = FnXInfo(Raw("Int"))
	assert.False(t, ok)
}
