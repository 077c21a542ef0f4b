package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespaceClassFullname(t *testing.T) {
	ns := Root().Add("A").Add("B")
	assert.Equal(t, "A::B::C", ns.ClassFullname("C").String())
}

func TestNamespaceResolveOrder(t *testing.T) {
	known := map[string]bool{
		"A::B::Foo": true,
		"A::Foo":    true,
	}
	ns := Root().Add("A").Add("B")

	// A::B::Foo exists, so it is found even though A::Foo also exists.
	got, ok := ns.Resolve([]string{"Foo"}, func(c ClassFullname) bool { return known[c.String()] })
	require.True(t, ok)
	assert.Equal(t, "A::B::Foo", got.String())

	// Only the shallower A::Foo exists.
	delete(known, "A::B::Foo")
	got, ok = ns.Resolve([]string{"Foo"}, func(c ClassFullname) bool { return known[c.String()] })
	require.True(t, ok)
	assert.Equal(t, "A::Foo", got.String())

	// Neither exists.
	delete(known, "A::Foo")
	_, ok = ns.Resolve([]string{"Foo"}, func(c ClassFullname) bool { return known[c.String()] })
	assert.False(t, ok)
}

func TestMetaName(t *testing.T) {
	c := NewClassFullname("Foo")
	assert.Equal(t, "Meta:Foo", c.MetaName().String())
	assert.True(t, c.MetaName().IsMeta())
	assert.Equal(t, "Foo", c.MetaName().InstanceName().String())
}

func TestMethodFullname(t *testing.T) {
	cls := NewClassFullname("Foo")
	m := NewInstanceMethodFullname(cls, "bar")
	assert.Equal(t, "Foo#bar", m.String())
	assert.Equal(t, MethodFirstname("bar"), m.FirstName)

	cm := NewClassMethodFullname(cls, "new")
	assert.Equal(t, "Foo.new", cm.String())
}

func TestCanonicalizeNFC(t *testing.T) {
	// "café" written with a combining acute accent (NFD) should canonicalize
	// to the same string as the precomposed (NFC) form.
	nfd := "café"
	nfc := "café"
	assert.Equal(t, Canonicalize(nfc), Canonicalize(nfd))
}
