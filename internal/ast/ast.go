// Package ast declares the AST consumer interface the class dictionary and
// HIR builder are written against. Lexing and parsing are external
// collaborators (spec §1); this package holds only the node shapes a parser
// is expected to hand the rest of the pipeline.
package ast

import "fmt"

// Pos is a single source position. Line/Column are 1-based; Offset is the
// byte offset used for diagnostics ordering.
type Pos struct {
	File   string
	Line   int
	Column int
	Offset int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// internalFile marks a Span with no source origin (spec §6's `<<internal>>`
// sentinel).
const internalFile = "<<internal>>"

// Span is a source range. End is exclusive.
type Span struct {
	Begin Pos
	End   Pos
}

// Internal returns the sentinel span used for synthesized nodes (e.g. the
// panic clause appended to every match, or synthesized `.new` bodies).
func Internal() Span {
	return Span{Begin: Pos{File: internalFile}, End: Pos{File: internalFile}}
}

// IsInternal reports whether s is the internal sentinel span.
func (s Span) IsInternal() bool {
	return s.Begin.File == internalFile
}

func (s Span) String() string {
	if s.IsInternal() {
		return internalFile
	}
	return fmt.Sprintf("%s-%d:%d", s.Begin, s.End.Line, s.End.Column)
}

// Node is the common interface for every AST node.
type Node interface {
	Span() Span
}

// Program is the parser's complete output: an ordered list of top-level
// items, each either a Definition or a bare Expression (spec §6).
type Program struct {
	TopLevelItems []TopLevelItem
}

// TopLevelItem is either a Definition or an Expression at file scope.
type TopLevelItem interface {
	Node
	topLevelItem()
}

// Variance is the declared variance of a type parameter (spec §3/§9).
type Variance int

const (
	Invariant Variance = iota
	Covariant          // `out T`
	Contravariant      // `in T`
)

func (v Variance) String() string {
	switch v {
	case Covariant:
		return "out"
	case Contravariant:
		return "in"
	default:
		return ""
	}
}

// TypeParam is a single `<T>` / `<out T>` / `<in T: Upper>` declaration.
type TypeParam struct {
	Name     string
	Variance Variance
	Upper    *TypeName // nil = Object
	Lower    *TypeName // nil = Never
	Sp       Span
}

func (t *TypeParam) Span() Span { return t.Sp }

// TypeName is an unresolved reference to a type as written in source:
// segments (dotted path) plus type arguments. A single, argument-less
// segment may turn out to name a type parameter; that is resolved later by
// the Names & Namespaces / Type Universe components (spec §4.1).
type TypeName struct {
	Segments []string
	Args     []*TypeName
	Meta     bool // written as a class-value reference, e.g. `class Foo`
	Sp       Span
}

func (t *TypeName) Span() Span { return t.Sp }

// Param is a method or block parameter declaration.
type Param struct {
	Name string
	Typ  *TypeName // nil for block params whose type is inferred
	Sp   Span
}

func (p *Param) Span() Span { return p.Sp }

// MethodSig is the surface signature of a method or method requirement.
type MethodSig struct {
	Name      string
	TypeParam []*TypeParam
	Params    []*Param
	RetTyp    *TypeName // nil => Void
	Sp        Span
}

func (m *MethodSig) Span() Span { return m.Sp }

// Definition is the sum of all top-level/inner declaration kinds (spec §6).
type Definition interface {
	TopLevelItem
	definition()
}

type baseDef struct{ Sp Span }

func (b baseDef) Span() Span        { return b.Sp }
func (b baseDef) topLevelItem()     {}
func (b baseDef) definition()       {}

// ClassDefinition declares a class and its inner defs.
type ClassDefinition struct {
	baseDef
	Name      string
	TypeParam []*TypeParam
	Supers    []*TypeName // first entry may be a class; rest must be modules
	Defs      []Definition
}

// ModuleDefinition declares a module (a mixin with abstract requirements).
type ModuleDefinition struct {
	baseDef
	Name      string
	TypeParam []*TypeParam
	Defs      []Definition
}

// EnumCase is one `case Name(params...)` entry of an enum.
type EnumCase struct {
	Name   string
	Params []*Param
	Sp     Span
}

func (e *EnumCase) Span() Span { return e.Sp }

// EnumDefinition declares an enum and its cases.
type EnumDefinition struct {
	baseDef
	Name      string
	TypeParam []*TypeParam
	Cases     []*EnumCase
	Defs      []Definition
}

// ConstDefinition declares a toplevel or in-class constant.
type ConstDefinition struct {
	baseDef
	Name string
	Expr Expression
}

// InstanceMethodDefinition declares `def name(...): T ... end`.
type InstanceMethodDefinition struct {
	baseDef
	Sig       *MethodSig
	BodyExprs []Expression
}

// ClassMethodDefinition declares `def self.name(...): T ... end`.
type ClassMethodDefinition struct {
	baseDef
	Sig       *MethodSig
	BodyExprs []Expression
}

// MethodRequirementDefinition declares an abstract method inside a module.
type MethodRequirementDefinition struct {
	baseDef
	Sig *MethodSig
}

// Expression is the sum of all expression-node kinds (spec §6).
type Expression interface {
	TopLevelItem
	expression()
}

type baseExpr struct{ Sp Span }

func (b baseExpr) Span() Span       { return b.Sp }
func (b baseExpr) topLevelItem()    {}
func (b baseExpr) expression()      {}

// LiteralKind tags the kind of a Literal node.
type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	FloatLiteral
	BoolLiteral
	StringLiteral
)

// Literal is a primitive literal.
type Literal struct {
	baseExpr
	Kind  LiteralKind
	Value interface{}
}

// BareName is an unqualified identifier reference: a local variable, a
// method argument, or (if capitalized) a constant/class reference.
type BareName struct {
	baseExpr
	Name string
}

// ConstRef is a possibly-qualified constant/class reference, e.g. `Foo::Bar`.
type ConstRef struct {
	baseExpr
	Segments []string
}

// Assign is `lhs = rhs` against a local variable, ivar, or constant.
type Assign struct {
	baseExpr
	Lhs Expression
	Rhs Expression
}

// IVarRef is `@name`.
type IVarRef struct {
	baseExpr
	Name string
}

// MethodCall is `receiver.name(args) { block }`. Receiver is nil for an
// implicit-self call.
type MethodCall struct {
	baseExpr
	Receiver  Expression
	Name      string
	Args      []Expression
	TypeArgs  []*TypeName
	Block     *LambdaExpr // nil if no block given
	HasParens bool        // distinguishes `foo` (bare ref) from `foo()` (call)
}

// BinOp is a binary operator call, sugar for a MethodCall on the left
// operand (spec's Int.+(Int) in scenario 1 of §8).
type BinOp struct {
	baseExpr
	Op          string
	Left, Right Expression
}

// LambdaExpr is `{ |params| exprs }` or `fn(params) { exprs }`.
type LambdaExpr struct {
	baseExpr
	Params []*Param
	Exprs  []Expression
	IsFn   bool // true for a standalone `fn` expression, false for a block
}

// If is `if cond then .. else .. end`. Else is nil for an else-less if.
type If struct {
	baseExpr
	Cond Expression
	Then []Expression
	Else []Expression
}

// While is `while cond do .. end`.
type While struct {
	baseExpr
	Cond Expression
	Body []Expression
}

// Break is `break` (only legal inside a while not separated by a lambda).
type Break struct {
	baseExpr
}

// Return is `return expr`.
type Return struct {
	baseExpr
	Arg Expression // nil for a bare `return`
}

// LVarDecl is `let name = expr` (or `var name = expr` for a mutable local).
type LVarDecl struct {
	baseExpr
	Name     string
	Expr     Expression
	Readonly bool
}

// Pattern is the sum of all pattern-node kinds used by Match (spec §4.5).
type Pattern interface {
	Node
	pattern()
}

type basePattern struct{ Sp Span }

func (b basePattern) Span() Span { return b.Sp }
func (b basePattern) pattern()    {}

// WildcardPattern is `_`.
type WildcardPattern struct{ basePattern }

// VariablePattern binds the matched value to a new readonly local.
type VariablePattern struct {
	basePattern
	Name string
}

// BoolPattern, IntPattern, FloatPattern, StringPattern match a literal.
type BoolPattern struct {
	basePattern
	Value bool
}
type IntPattern struct {
	basePattern
	Value int64
}
type FloatPattern struct {
	basePattern
	Value float64
}
type StringPattern struct {
	basePattern
	Value string
}

// ExtractorPattern is `Ctor(p1, p2, ...)`, matching a class/enum-case by
// identity and recursively binding its ivars.
type ExtractorPattern struct {
	basePattern
	Segments []string
	Params   []Pattern
}

// MatchClause is one `pattern => body` arm of a Match expression.
type MatchClause struct {
	Pattern Pattern
	Body    []Expression
	Sp      Span
}

func (m *MatchClause) Span() Span { return m.Sp }

// Match is `match value { clauses... }`.
type Match struct {
	baseExpr
	Value   Expression
	Clauses []*MatchClause
}

// ClassLiteral is an explicit class-value reference, e.g. `class Int`.
type ClassLiteral struct {
	baseExpr
	Name *TypeName
}
