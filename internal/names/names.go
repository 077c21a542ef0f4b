// Package names implements the Names & Namespaces component (spec §4.1):
// canonical dotted identifiers for types, methods and constants, the
// meta/non-meta distinction, and namespace-prefix resolution.
package names

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Canonicalize applies Unicode NFC normalization to a single identifier
// segment. Lexing itself is out of scope for this compiler (spec §1), but
// canonicalization of the names the class dictionary interns is this
// component's concern, not the lexer's: two differently-encoded spellings
// of the same identifier must name the same class.
func Canonicalize(segment string) string {
	b := []byte(segment)
	if norm.NFC.IsNormal(b) {
		return segment
	}
	return string(norm.NFC.Bytes(b))
}

// MetaPrefix names the synthesized metaclass of a class.
const MetaPrefix = "Meta:"

// ClassFirstname is a single, unqualified class/module segment as written
// in source (before namespace resolution).
type ClassFirstname string

// ClassFullname is the canonical "A::B::C" dotted identifier of a class,
// module, or enum case.
type ClassFullname struct {
	full string
}

// NewClassFullname builds a ClassFullname from an already-resolved dotted
// string (e.g. "Foo::Bar").
func NewClassFullname(full string) ClassFullname {
	return ClassFullname{full: full}
}

func (c ClassFullname) String() string { return c.full }
func (c ClassFullname) IsEmpty() bool  { return c.full == "" }

// MetaName returns the fullname of this class's metaclass, e.g.
// "Meta:Foo" for "Foo". Metaclass always carries is_meta=true (spec §3).
func (c ClassFullname) MetaName() ClassFullname {
	if strings.HasPrefix(c.full, MetaPrefix) {
		return c
	}
	return ClassFullname{full: MetaPrefix + c.full}
}

// IsMeta reports whether this fullname already denotes a metaclass.
func (c ClassFullname) IsMeta() bool {
	return strings.HasPrefix(c.full, MetaPrefix)
}

// InstanceName strips the Meta: prefix, if present, returning the fullname
// of the class this metaclass is the metaclass of. A no-op on non-meta
// names.
func (c ClassFullname) InstanceName() ClassFullname {
	if s, ok := strings.CutPrefix(c.full, MetaPrefix); ok {
		return ClassFullname{full: s}
	}
	return c
}

// Sub returns the fullname of an inner definition nested directly under c,
// e.g. Sub("Bar") on "Foo" yields "Foo::Bar".
func (c ClassFullname) Sub(firstname string) ClassFullname {
	if c.full == "" {
		return ClassFullname{full: firstname}
	}
	return ClassFullname{full: c.full + "::" + firstname}
}

// MethodFirstname is the unqualified method name used as a method_sigs key
// (spec §3 MethodSignature / §4.3 lookups).
type MethodFirstname string

// MethodFullname pairs a qualified display name with the unqualified first
// name used for signature-table lookups (spec §3), plus the owning class or
// metaclass fullname (Owner.IsMeta() distinguishes a class method from an
// instance method, per spec §9's "every class is also a runtime value").
type MethodFullname struct {
	FullName  string
	FirstName MethodFirstname
	Owner     ClassFullname
}

// NewInstanceMethodFullname builds "ClassName#method".
func NewInstanceMethodFullname(cls ClassFullname, method string) MethodFullname {
	return MethodFullname{
		FullName:  cls.String() + "#" + method,
		FirstName: MethodFirstname(method),
		Owner:     cls,
	}
}

// NewClassMethodFullname builds "ClassName.method". cls must already be a
// metaclass fullname (e.g. the result of ClassFullname.MetaName()).
func NewClassMethodFullname(cls ClassFullname, method string) MethodFullname {
	return MethodFullname{
		FullName:  cls.String() + "." + method,
		FirstName: MethodFirstname(method),
		Owner:     cls,
	}
}

func (m MethodFullname) String() string { return m.FullName }

// ConstFullname is the canonical dotted identifier of a constant.
type ConstFullname struct {
	full string
}

func NewConstFullname(full string) ConstFullname { return ConstFullname{full: full} }
func (c ConstFullname) String() string            { return c.full }

// ToConstFullname treats this class's own name as the constant holding its
// class-object value (spec §9, "Metaclasses as values").
func (c ClassFullname) ToConstFullname() ConstFullname {
	return ConstFullname{full: c.full}
}

// Namespace is a finite sequence of class first-names used during name
// resolution (spec §4.1).
type Namespace struct {
	segments []string
}

// Root is the empty, toplevel namespace.
func Root() Namespace { return Namespace{} }

// Add returns a new Namespace with firstname appended, used when entering
// the body of a class/module definition.
func (ns Namespace) Add(firstname string) Namespace {
	next := make([]string, len(ns.segments)+1)
	copy(next, ns.segments)
	next[len(ns.segments)] = Canonicalize(firstname)
	return Namespace{segments: next}
}

// Size returns the number of segments in the namespace.
func (ns Namespace) Size() int { return len(ns.segments) }

// Head returns the first n segments of the namespace (n must be <= Size()).
func (ns Namespace) Head(n int) []string {
	return append([]string(nil), ns.segments[:n]...)
}

// ClassFullname qualifies firstname with this namespace's full path, e.g.
// ns=[A,B], firstname=C yields "A::B::C".
func (ns Namespace) ClassFullname(firstname string) ClassFullname {
	segs := append(append([]string(nil), ns.segments...), Canonicalize(firstname))
	return ClassFullname{full: strings.Join(segs, "::")}
}

// Resolve tries successive prefixes head(n), head(n-1), ..., [] concatenated
// with query, per spec §4.1, calling exists against each candidate in turn.
// It returns the first candidate for which exists returns true, and false
// if none match.
func (ns Namespace) Resolve(query []string, exists func(ClassFullname) bool) (ClassFullname, bool) {
	n := ns.Size()
	canon := make([]string, len(query))
	for i, s := range query {
		canon[i] = Canonicalize(s)
	}
	for k := 0; k <= n; k++ {
		head := ns.Head(n - k)
		candidate := strings.Join(append(head, canon...), "::")
		full := ClassFullname{full: candidate}
		if exists(full) {
			return full, true
		}
	}
	return ClassFullname{}, false
}
