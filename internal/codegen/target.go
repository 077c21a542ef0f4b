package codegen

import (
	"github.com/shiika-lang/shiikac/internal/hir"
	"github.com/shiika-lang/shiikac/internal/mir"
)

// Target is what a real LLVM emitter would implement: the MIR-to-bitcode
// lowering surface this compiler stops short of (spec §1 places LLVM IR
// emission out of scope; this interface only fixes the seam). A Target
// receives the frozen Mir plus the lowered method bodies already on its
// hir.SkMethod entries and is responsible for everything downstream:
// struct-type declarations matching ObjectHeaderFields/PrimitiveEmbeds,
// vtable/witness-table global arrays, method function bodies, and the
// `declare`s for RuntimeSymbols.
type Target interface {
	// DeclareType emits the LLVM struct type for one class, including its
	// object header and, for a primitive class, its embedded scalar.
	DeclareType(class string, ivars int) error

	// DeclareRuntimeSymbol emits an external declaration for one of
	// RuntimeSymbols, called by name from emitted method bodies.
	DeclareRuntimeSymbol(sym string) error

	// EmitVTable emits the global array backing one class's VTable.
	EmitVTable(vt *mir.VTable) error

	// EmitWitnessTable emits the global array backing one (class, module)
	// WitnessTable.
	EmitWitnessTable(wt *mir.WitnessTable) error

	// EmitMethod lowers one method's HIR body to an LLVM function body.
	EmitMethod(fullname string, m *hir.SkMethod) error

	// Finish finalizes the module (verification, optional optimization
	// passes) and returns the bitcode bytes.
	Finish() ([]byte, error)
}
