// Package codegen names the runtime C-ABI surface and object layout spec
// §6 fixes for a real LLVM emitter to target, and declares the Target
// interface such an emitter would implement. No LLVM IR is generated here
// (out of scope per spec.md §1); this package is the seam between MIR and
// the externally-compiled runtime library. Symbol names and the object
// header layout are taken verbatim from
// original_source/lib/skc_codegen/src/code_gen_context.rs and
// original_source/lib/skc_rustlib/src/builtin/object.rs so a future emitter
// needs no renaming.
package codegen

// Runtime C-ABI symbols every emitted module calls by name (spec §6).
// The emitter links against an externally-compiled runtime library that
// defines these; this package only fixes their names and signatures so
// MIR-to-LLVM lowering and the runtime agree on a calling convention.
const (
	// SymGCInit initializes the Boehm GC, called once at program start.
	// Signature: () -> void
	SymGCInit = "GC_init"

	// SymMalloc allocates a GC-managed object of the given byte size.
	// Signature: (i64) -> i8*
	SymMalloc = "shiika_malloc"

	// SymRealloc resizes a GC-managed allocation.
	// Signature: (i8*, i64) -> i8*
	SymRealloc = "shiika_realloc"

	// SymLookupWtable resolves a module method against an object's witness
	// table by module id and method index.
	// Signature: (i8*, i64, i64) -> i8*
	SymLookupWtable = "shiika_lookup_wtable"

	// SymInsertWtable installs an entry into an object's witness table,
	// used by object initialization.
	// Signature: (i8*, i64, i8*, i64) -> void
	SymInsertWtable = "shiika_insert_wtable"
)

// RuntimeSymbols lists every Sym* constant above, in the declaration order
// a driver would emit `declare` statements for them.
var RuntimeSymbols = []string{
	SymGCInit,
	SymMalloc,
	SymRealloc,
	SymLookupWtable,
	SymInsertWtable,
}

// ObjectHeaderFields are the fixed fields every Shiika object's LLVM struct
// type begins with, in order, before any instance field declared by the
// class itself (spec §6's "header {vtable: i8*, class_obj: *Class} followed
// by instance fields in idx order"), grounded on
// skc_rustlib/builtin/object.rs's ShiikaObject{vtable, class_obj}.
var ObjectHeaderFields = []string{"vtable", "class_obj"}

// PrimitiveEmbed names the one value a primitive class's object embeds
// immediately after the object header, and the LLVM scalar type it's
// embedded as.
type PrimitiveEmbed struct {
	Class   string
	LLVMTyp string
}

// PrimitiveEmbeds is spec §6's fixed list of primitive classes and their
// embedded representation.
var PrimitiveEmbeds = []PrimitiveEmbed{
	{Class: "Int", LLVMTyp: "i64"},
	{Class: "Float", LLVMTyp: "f64"},
	{Class: "Bool", LLVMTyp: "i1"},
	{Class: "Shiika::Internal::Ptr", LLVMTyp: "i8*"},
}

// PrimitiveEmbedFor returns the embedded scalar type for a primitive
// class's fullname, and false for any class that embeds no scalar (an
// ordinary object whose instance fields immediately follow the header).
func PrimitiveEmbedFor(class string) (string, bool) {
	for _, p := range PrimitiveEmbeds {
		if p.Class == class {
			return p.LLVMTyp, true
		}
	}
	return "", false
}
