package inspector

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiika-lang/shiikac/internal/classdict"
	"github.com/shiika-lang/shiikac/internal/examples"
)

func buildDict(t *testing.T) *classdict.ClassDict {
	t.Helper()
	d, err := classdict.IndexProgram(examples.Animals())
	require.NoError(t, err)
	return d
}

func TestHandleClassShowsSuperclassAndMethods(t *testing.T) {
	insp := New(buildDict(t))
	var buf bytes.Buffer
	insp.handle(":class Dog", &buf)
	out := buf.String()
	assert.Contains(t, out, "Dog")
	assert.Contains(t, out, "Animal")
}

func TestHandleClassUnknownIsError(t *testing.T) {
	insp := New(buildDict(t))
	var buf bytes.Buffer
	insp.handle(":class Nope", &buf)
	assert.Contains(t, buf.String(), "Error")
}

func TestHandleLookupFindsInheritedMethod(t *testing.T) {
	insp := New(buildDict(t))
	var buf bytes.Buffer
	insp.handle(":lookup Dog#legs", &buf)
	out := buf.String()
	assert.Contains(t, out, "Animal#legs")
}

func TestHandleConformsTrueForSubclass(t *testing.T) {
	insp := New(buildDict(t))
	var buf bytes.Buffer
	insp.handle(":conforms Dog Animal", &buf)
	assert.Contains(t, buf.String(), "yes")
}

func TestHandleConformsFalseForUnrelatedClass(t *testing.T) {
	insp := New(buildDict(t))
	var buf bytes.Buffer
	insp.handle(":conforms Dog String", &buf)
	assert.Contains(t, buf.String(), "no")
}

func TestHandleListShowsAllClasses(t *testing.T) {
	insp := New(buildDict(t))
	var buf bytes.Buffer
	insp.handle(":list", &buf)
	out := buf.String()
	assert.Contains(t, out, "Dog")
	assert.Contains(t, out, "Animal")
	assert.Contains(t, out, "Cat")
}

func TestHandleUnknownCommandWarns(t *testing.T) {
	insp := New(buildDict(t))
	var buf bytes.Buffer
	insp.handle(":bogus", &buf)
	assert.Contains(t, buf.String(), "Warning")
}
