// Package hir implements the HIR Builder component (spec §4.5): the typed
// intermediate representation, a scoped context stack for lowering method
// bodies and closures, constant-initializer ordering, string-literal
// interning, and pattern-match lowering. Grounded on
// _examples/original_source/src/hir/mod.rs (node shapes),
// src/hir/hir_maker.rs (context stack / constant-init / lowering driver),
// and lib/skc_ast2hir/src/pattern_match.rs (match lowering), adapted from
// Rust enums to a Go tagged-struct sum (spec §9's "tagged sums, not virtual
// methods").
package hir

import "github.com/shiika-lang/shiikac/internal/ty"

// Expression is a single typed HIR node (spec §3's `HirExpression{ty, locs,
// node}`). Node is the tagged variant; exactly one of the fields on Node is
// meaningful, selected by Node.Kind.
type Expression struct {
	Ty   ty.TermTy
	Node Node
}

// Expressions is an ordered sequence of Expression, typed by its last
// element (Void if empty), mirroring `HirExpressions`.
type Expressions struct {
	Exprs []Expression
}

// Ty returns the sequence's type: its last expression's type, or Void if
// the sequence is empty.
func (e Expressions) Ty() ty.TermTy {
	if len(e.Exprs) == 0 {
		return ty.Raw("Void")
	}
	return e.Exprs[len(e.Exprs)-1].Ty
}

// NodeKind tags the variant of a Node (spec §9's explicit tagged sum).
type NodeKind int

const (
	NIf NodeKind = iota
	NMethodCall
	NSelfExpr
	NIntLiteral
	NFloatLiteral
	NBoolLiteral
	NStringLiteral
	NLVarRef
	NLVarAssign
	NIVarRef
	NIVarAssign
	NConstRef
	NClassLiteral
	NLambda
	NReturn
	NWhile
	NBreak
	NBitCast
	NMatch
	NNop
)

// Node is the tagged sum of every HIR expression variant.
type Node struct {
	Kind NodeKind

	// NIf
	Cond, Then, Else *Expression

	// NMethodCall
	Receiver *Expression
	Method   string
	Args     []Expression

	// NIntLiteral / NFloatLiteral / NBoolLiteral
	IntValue   int64
	FloatValue float64
	BoolValue  bool

	// NStringLiteral: index into the program's interned string table.
	StrIndex int

	// NLVarRef / NLVarAssign / NIVarRef / NIVarAssign
	Name string
	RHS  *Expression

	// NConstRef / NClassLiteral
	Const string

	// NLambda
	Lambda *Lambda

	// NReturn
	ReturnArg *Expression

	// NWhile
	WhileCond *Expression
	WhileBody *Expressions

	// NBitCast
	Underlying *Expression

	// NMatch
	Match *MatchExpr
}

// Self builds the `self` reference node.
func Self(t ty.TermTy) Expression { return Expression{Ty: t, Node: Node{Kind: NSelfExpr}} }

// IntLiteral builds a decimal-literal node, typed Int.
func IntLiteral(v int64) Expression {
	return Expression{Ty: ty.Raw("Int"), Node: Node{Kind: NIntLiteral, IntValue: v}}
}

// FloatLiteral builds a float-literal node, typed Float.
func FloatLiteral(v float64) Expression {
	return Expression{Ty: ty.Raw("Float"), Node: Node{Kind: NFloatLiteral, FloatValue: v}}
}

// BoolLiteral builds a boolean-literal node, typed Bool.
func BoolLiteral(v bool) Expression {
	return Expression{Ty: ty.Raw("Bool"), Node: Node{Kind: NBoolLiteral, BoolValue: v}}
}

// StringLiteral builds a string-literal node referencing an interned index.
func StringLiteral(index int) Expression {
	return Expression{Ty: ty.Raw("String"), Node: Node{Kind: NStringLiteral, StrIndex: index}}
}

// If builds an if-expression node, typed resultTy (spec §4.4's NCA result).
func If(resultTy ty.TermTy, cond, then, els Expression) Expression {
	return Expression{Ty: resultTy, Node: Node{Kind: NIf, Cond: &cond, Then: &then, Else: &els}}
}

// MethodCall builds a method-call node.
func MethodCall(resultTy ty.TermTy, receiver Expression, method string, args []Expression) Expression {
	return Expression{Ty: resultTy, Node: Node{Kind: NMethodCall, Receiver: &receiver, Method: method, Args: args}}
}

// LVarRef/LVarAssign build local-variable reference/assignment nodes.
func LVarRef(t ty.TermTy, name string) Expression {
	return Expression{Ty: t, Node: Node{Kind: NLVarRef, Name: name}}
}

func LVarAssign(name string, rhs Expression) Expression {
	return Expression{Ty: rhs.Ty, Node: Node{Kind: NLVarAssign, Name: name, RHS: &rhs}}
}

// IVarRef/IVarAssign build instance-variable reference/assignment nodes.
func IVarRef(t ty.TermTy, name string) Expression {
	return Expression{Ty: t, Node: Node{Kind: NIVarRef, Name: name}}
}

func IVarAssign(name string, rhs Expression) Expression {
	return Expression{Ty: rhs.Ty, Node: Node{Kind: NIVarAssign, Name: name, RHS: &rhs}}
}

// ConstRef builds a reference to an already-registered constant.
func ConstRef(t ty.TermTy, fullname string) Expression {
	return Expression{Ty: t, Node: Node{Kind: NConstRef, Const: fullname}}
}

// ClassLiteral builds an explicit class-value reference node (spec §9's
// "every class is also a runtime value").
func ClassLiteral(t ty.TermTy, fullname string) Expression {
	return Expression{Ty: t, Node: Node{Kind: NClassLiteral, Const: fullname}}
}

// Return builds a `return` node, typed Never (control never falls through).
func Return(arg *Expression) Expression {
	return Expression{Ty: ty.Raw("Never"), Node: Node{Kind: NReturn, ReturnArg: arg}}
}

// While builds a while-loop node, typed Void.
func While(cond Expression, body Expressions) Expression {
	return Expression{Ty: ty.Raw("Void"), Node: Node{Kind: NWhile, WhileCond: &cond, WhileBody: &body}}
}

// Break builds a `break` node, typed Never.
func Break() Expression {
	return Expression{Ty: ty.Raw("Never"), Node: Node{Kind: NBreak}}
}

// BitCast builds a bitcast node: reinterprets expr's runtime value at type
// t, used to unify match/if branch types (spec §4.5 item 4).
func BitCast(t ty.TermTy, expr Expression) Expression {
	return Expression{Ty: t, Node: Node{Kind: NBitCast, Underlying: &expr}}
}

// Nop is the else-less-if / empty-body placeholder, typed Void.
func Nop() Expression { return Expression{Ty: ty.Raw("Void"), Node: Node{Kind: NNop}} }

// Voidify destructively retypes e to Void in place, used when a method's
// declared return type is Void but its last expression isn't (spec §4.5's
// method-lowering contract) or when unifying Void-containing if/match
// branches.
func Voidify(e *Expression) {
	e.Ty = ty.Raw("Void")
}
