package hir

import (
	"fmt"

	"github.com/shiika-lang/shiikac/internal/ast"
	"github.com/shiika-lang/shiikac/internal/classdict"
	"github.com/shiika-lang/shiikac/internal/errors"
	"github.com/shiika-lang/shiikac/internal/names"
	"github.com/shiika-lang/shiikac/internal/ty"
	"github.com/shiika-lang/shiikac/internal/typecheck"
)

// ConstInit is one entry of the ordered const_inits list (spec §4.5): a
// constant's fullname and the expression that computes its value.
type ConstInit struct {
	Fullname names.ConstFullname
	Expr     Expression
}

// Builder lowers an already-indexed ClassDict and its AST method bodies
// into HIR (spec §4.5). It owns the monotonic string-literal and
// lambda-name counters (spec §5: "owned by the HIR builder", not
// process-wide state).
type Builder struct {
	Dict *classdict.ClassDict

	Stack *Stack

	strLiterals []string
	constInits  []ConstInit
	lambdaCt    int
	gensymCt    int
}

// NewBuilder returns a Builder over an already-frozen dictionary (spec §9's
// "frozen after indexing").
func NewBuilder(d *classdict.ClassDict) *Builder {
	return &Builder{Dict: d, Stack: NewStack()}
}

func internalBugf(code, format string, args ...any) error {
	return errors.WrapReport(errors.NewInternalBug(code, fmt.Sprintf(format, args...), nil, nil))
}

// internString interns s into the program's string table, returning a
// StringLiteral node carrying its index (spec §4.5: "interned into a
// per-program vector").
func (b *Builder) internString(s string) Expression {
	for i, existing := range b.strLiterals {
		if existing == s {
			return StringLiteral(i)
		}
	}
	idx := len(b.strLiterals)
	b.strLiterals = append(b.strLiterals, s)
	return StringLiteral(idx)
}

func (b *Builder) genLambdaName() string {
	b.lambdaCt++
	return fmt.Sprintf("lambda_%d", b.lambdaCt)
}

func (b *Builder) genLvarName(prefix string) string {
	b.gensymCt++
	return fmt.Sprintf("%s_%d", prefix, b.gensymCt)
}

// ConstInits returns the ordered constant-initializer list built so far.
func (b *Builder) ConstInits() []ConstInit { return b.constInits }

// StringLiterals returns the interned string table built so far.
func (b *Builder) StringLiterals() []string { return b.strLiterals }

func (b *Builder) registerConst(full names.ConstFullname, expr Expression) {
	b.constInits = append(b.constInits, ConstInit{Fullname: full, Expr: expr})
}

// DefineClassConstants implements spec §4.5's constant-initialization
// contract: a fixed prelude (Metaclass, Class, Shiika::Internal::Ptr first),
// then every other registered class/module in declaration order, each
// producing a constant holding its meta-instance (or, for a const_is_obj
// case, the sole instance itself).
func (b *Builder) DefineClassConstants(order []string) {
	prelude := []string{"Metaclass", "Class", "Shiika::Internal::Ptr"}
	seen := map[string]bool{}
	emit := func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		t, ok := b.Dict.FindType(names.NewClassFullname(name))
		if !ok {
			return
		}
		cls, isClass := t.(*classdict.SkClass)
		constIsObj := isClass && cls.ConstIsObj
		full := names.NewClassFullname(name).ToConstFullname()
		if constIsObj {
			clsLit := ClassLiteral(ty.MetaOf(name), name)
			instance := MethodCall(ty.Raw(name), clsLit, "new", nil)
			b.registerConst(full, instance)
		} else {
			b.registerConst(full, ClassLiteral(ty.MetaOf(name), name))
		}
	}
	for _, name := range prelude {
		emit(name)
	}
	for _, name := range order {
		emit(name)
	}
}

// LowerMethod implements spec §4.5's method lowering: push a Method frame
// carrying the class's and method's type parameters plus the method's
// parameter lvars, lower the body, check-return-value, void-ify the last
// expression if the declared return is Void.
func (b *Builder) LowerMethod(ns names.Namespace, sig *classdict.MethodSignature, classTP []string, bodyExprs []ast.Expression) (*SkMethod, error) {
	snapshot := b.Stack.Snapshot()
	frame := b.Stack.Push(FMethod)
	frame.classTypeParam = classTP
	methodTP := make([]string, len(sig.TypeParam))
	for i, tp := range sig.TypeParam {
		methodTP[i] = tp.Name
	}
	frame.methodTypeParam = methodTP
	for _, p := range sig.Params {
		b.Stack.Declare(p.Name, p.Ty, false)
	}

	body, err := b.convertExprs(ns, bodyExprs)
	if err != nil {
		b.Stack.Unwind(snapshot)
		return nil, err
	}

	if sig.RetTy.Equals(ty.Raw("Void")) {
		voidifyExprs(&body)
	} else if err := typecheck.CheckReturnValue(b.Dict, sig, body.Ty()); err != nil {
		b.Stack.Unwind(snapshot)
		return nil, err
	}

	lvars := frame.ExtractLVars()
	if _, err := b.Stack.Pop(); err != nil {
		return nil, err
	}
	return &SkMethod{Signature: sig, LVars: lvars, Body: body}, nil
}

func voidifyExprs(e *Expressions) {
	if len(e.Exprs) == 0 {
		e.Exprs = []Expression{Nop()}
		return
	}
	Voidify(&e.Exprs[len(e.Exprs)-1])
}

// SynthesizeNew implements spec §4.5's `.new` synthesis: a pseudo-body that
// allocates an instance of instanceTy, then calls #initialize (declared on
// owner, possibly an ancestor — the emitter bitcasts the receiver there).
func SynthesizeNew(instanceTy ty.TermTy, initOwner names.ClassFullname, params []classdict.MethodParam) Expressions {
	args := make([]Expression, len(params))
	for i, p := range params {
		args[i] = LVarRef(p.Ty, p.Name)
	}
	alloc := MethodCall(instanceTy, Self(ty.MetaOf(instanceTy.Fullname())), "allocate", nil)
	receiver := alloc
	if initOwner.String() != instanceTy.Fullname() {
		receiver = BitCast(ty.Raw(initOwner.String()), alloc)
	}
	initCall := MethodCall(ty.Raw("Void"), receiver, "initialize", args)
	return Expressions{Exprs: []Expression{alloc, initCall, LVarRef(instanceTy, "<<new_result>>")}}
}

// convertExprs lowers a sequence of AST expressions in order.
func (b *Builder) convertExprs(ns names.Namespace, exprs []ast.Expression) (Expressions, error) {
	out := make([]Expression, 0, len(exprs))
	for _, e := range exprs {
		lowered, err := b.convertExpr(ns, e)
		if err != nil {
			return Expressions{}, err
		}
		out = append(out, lowered)
	}
	return Expressions{Exprs: out}, nil
}

// convertExpr dispatches a single AST expression to its lowering (spec
// §4.5). Unhandled expression kinds are an InternalBug: the AST consumer
// interface (spec §6) is closed over a fixed set of node kinds.
func (b *Builder) convertExpr(ns names.Namespace, e ast.Expression) (Expression, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return b.convertLiteral(n), nil
	case *ast.BareName:
		return b.convertBareName(ns, n)
	case *ast.IVarRef:
		t, _, ok := b.Stack.Resolve("@" + n.Name)
		if !ok {
			return Expression{}, programErrorf(errors.NAM005, "unknown instance variable @%s", n.Name)
		}
		return IVarRef(t, n.Name), nil
	case *ast.Assign:
		return b.convertAssign(ns, n)
	case *ast.LVarDecl:
		return b.convertLVarDecl(ns, n)
	case *ast.MethodCall:
		return b.convertMethodCall(ns, n)
	case *ast.BinOp:
		return b.convertBinOp(ns, n)
	case *ast.If:
		return b.convertIf(ns, n)
	case *ast.While:
		return b.convertWhile(ns, n)
	case *ast.Break:
		return b.convertBreak()
	case *ast.Return:
		return b.convertReturn(ns, n)
	case *ast.LambdaExpr:
		return b.convertLambda(ns, n, nil)
	case *ast.Match:
		return b.convertMatchExpr(ns, n)
	case *ast.ConstRef:
		return b.convertConstRef(ns, n)
	case *ast.ClassLiteral:
		return b.convertClassLiteral(ns, n)
	default:
		return Expression{}, internalBugf(errors.BUG001, "unhandled expression kind %T", e)
	}
}

func (b *Builder) convertLiteral(n *ast.Literal) Expression {
	switch n.Kind {
	case ast.IntLiteral:
		return IntLiteral(n.Value.(int64))
	case ast.FloatLiteral:
		return FloatLiteral(n.Value.(float64))
	case ast.BoolLiteral:
		return BoolLiteral(n.Value.(bool))
	case ast.StringLiteral:
		return b.internString(n.Value.(string))
	default:
		return Nop()
	}
}

func (b *Builder) convertBareName(ns names.Namespace, n *ast.BareName) (Expression, error) {
	if t, readonly, ok := b.Stack.Resolve(n.Name); ok {
		_ = readonly
		return LVarRef(t, n.Name), nil
	}
	return b.convertConstRef(ns, &ast.ConstRef{Segments: []string{n.Name}})
}

func (b *Builder) convertConstRef(ns names.Namespace, n *ast.ConstRef) (Expression, error) {
	full, ok := ns.Resolve(n.Segments, func(c names.ClassFullname) bool {
		_, found := b.Dict.FindType(c)
		return found
	})
	if !ok {
		return Expression{}, programErrorf(errors.NAM001, "unresolved name %v", n.Segments)
	}
	t, _ := b.Dict.FindType(full)
	cls, isClass := t.(*classdict.SkClass)
	if isClass && cls.ConstIsObj {
		return ConstRef(ty.Raw(full.String()), full.String()), nil
	}
	return ConstRef(ty.MetaOf(full.String()), full.String()), nil
}

func (b *Builder) convertClassLiteral(ns names.Namespace, n *ast.ClassLiteral) (Expression, error) {
	full, ok := ns.Resolve(n.Name.Segments, func(c names.ClassFullname) bool {
		_, found := b.Dict.FindType(c)
		return found
	})
	if !ok {
		return Expression{}, programErrorf(errors.NAM001, "unresolved class %v", n.Name.Segments)
	}
	return ClassLiteral(ty.MetaOf(full.String()), full.String()), nil
}

func (b *Builder) convertAssign(ns names.Namespace, n *ast.Assign) (Expression, error) {
	rhs, err := b.convertExpr(ns, n.Rhs)
	if err != nil {
		return Expression{}, err
	}
	switch lhs := n.Lhs.(type) {
	case *ast.BareName:
		if _, readonly, ok := b.Stack.Resolve(lhs.Name); ok {
			if readonly {
				return Expression{}, typeErrorf(errors.CHK007, "assignment to a readonly local %s", lhs.Name)
			}
		}
		b.Stack.Declare(lhs.Name, rhs.Ty, false)
		return LVarAssign(lhs.Name, rhs), nil
	case *ast.IVarRef:
		b.Stack.Declare("@"+lhs.Name, rhs.Ty, false)
		return IVarAssign(lhs.Name, rhs), nil
	default:
		return Expression{}, programErrorf(errors.BUG001, "unsupported assignment target %T", n.Lhs)
	}
}

func (b *Builder) convertLVarDecl(ns names.Namespace, n *ast.LVarDecl) (Expression, error) {
	rhs, err := b.convertExpr(ns, n.Expr)
	if err != nil {
		return Expression{}, err
	}
	b.Stack.Declare(n.Name, rhs.Ty, n.Readonly)
	return LVarAssign(n.Name, rhs), nil
}

func (b *Builder) convertBreak() (Expression, error) {
	frame, separated, ok := b.Stack.InnermostWhile()
	if !ok || separated {
		return Expression{}, programErrorf(errors.HIR002, "break outside a while loop")
	}
	frame.hasBreak = true
	// Every block lambda between the break and its loop records it too.
	for i := len(b.Stack.frames) - 1; i >= 0 && b.Stack.frames[i] != frame; i-- {
		if b.Stack.frames[i].Kind == FLambda {
			b.Stack.frames[i].hasBreak = true
		}
	}
	return Break(), nil
}

func (b *Builder) convertReturn(ns names.Namespace, n *ast.Return) (Expression, error) {
	if n.Arg == nil {
		return Return(nil), nil
	}
	arg, err := b.convertExpr(ns, n.Arg)
	if err != nil {
		return Expression{}, err
	}
	return Return(&arg), nil
}

func (b *Builder) convertWhile(ns names.Namespace, n *ast.While) (Expression, error) {
	cond, err := b.convertExpr(ns, n.Cond)
	if err != nil {
		return Expression{}, err
	}
	if err := typecheck.CheckConditionTy(cond.Ty, "while"); err != nil {
		return Expression{}, err
	}
	snapshot := b.Stack.Snapshot()
	b.Stack.Push(FWhile)
	body, err := b.convertExprs(ns, n.Body)
	if err != nil {
		b.Stack.Unwind(snapshot)
		return Expression{}, err
	}
	if _, err := b.Stack.Pop(); err != nil {
		return Expression{}, err
	}
	return While(cond, body), nil
}

func (b *Builder) convertIf(ns names.Namespace, n *ast.If) (Expression, error) {
	cond, err := b.convertExpr(ns, n.Cond)
	if err != nil {
		return Expression{}, err
	}
	if err := typecheck.CheckConditionTy(cond.Ty, "if"); err != nil {
		return Expression{}, err
	}
	then, err := b.convertExprs(ns, n.Then)
	if err != nil {
		return Expression{}, err
	}
	var els Expressions
	if n.Else != nil {
		els, err = b.convertExprs(ns, n.Else)
		if err != nil {
			return Expression{}, err
		}
	} else {
		els = Expressions{Exprs: []Expression{Nop()}}
	}
	resultTy, err := typecheck.IfResultTy(b.Dict, []ty.TermTy{then.Ty(), els.Ty()})
	if err != nil {
		return Expression{}, err
	}
	thenExpr := lastOrNop(then)
	elseExpr := lastOrNop(els)
	if resultTy.Equals(ty.Raw("Void")) {
		Voidify(&thenExpr)
		Voidify(&elseExpr)
	}
	if !thenExpr.Ty.Equals(resultTy) {
		thenExpr = BitCast(resultTy, thenExpr)
	}
	if !elseExpr.Ty.Equals(resultTy) {
		elseExpr = BitCast(resultTy, elseExpr)
	}
	return If(resultTy, cond, thenExpr, elseExpr), nil
}

func lastOrNop(e Expressions) Expression {
	if len(e.Exprs) == 0 {
		return Nop()
	}
	return e.Exprs[len(e.Exprs)-1]
}

func (b *Builder) convertBinOp(ns names.Namespace, n *ast.BinOp) (Expression, error) {
	return b.convertMethodCall(ns, &ast.MethodCall{
		Receiver:  n.Left,
		Name:      n.Op,
		Args:      []ast.Expression{n.Right},
		HasParens: true,
	})
}

// convertMethodCall lowers a method call: resolve the receiver, look up the
// signature, solve MethodCallInf, check args, lower any trailing block
// against the solved block-parameter types.
func (b *Builder) convertMethodCall(ns names.Namespace, n *ast.MethodCall) (Expression, error) {
	var receiver Expression
	var err error
	if n.Receiver != nil {
		receiver, err = b.convertExpr(ns, n.Receiver)
		if err != nil {
			return Expression{}, err
		}
	} else {
		receiver = Self(ty.Raw("Object"))
	}

	sig, owner, ok := classdict.LookupMethod(b.Dict, receiver.Ty, names.MethodFirstname(n.Name))
	if !ok {
		return Expression{}, typeErrorf(errors.CHK009, "method %s not found on %s", n.Name, receiver.Ty)
	}

	argTys := make([]ty.TermTy, len(n.Args))
	argExprs := make([]Expression, len(n.Args))
	for i, a := range n.Args {
		lowered, err := b.convertExpr(ns, a)
		if err != nil {
			return Expression{}, err
		}
		argExprs[i] = lowered
		argTys[i] = lowered.Ty
	}

	sol, err := typecheck.MethodCallInf(b.Dict, sig, argTys)
	if err != nil {
		return Expression{}, err
	}
	if err := typecheck.CheckArgTypes(b.Dict, sig, argTys, sol); err != nil {
		return Expression{}, err
	}

	if n.Block != nil {
		block, err := b.convertLambda(ns, n.Block, sol.BlockParamTys)
		if err != nil {
			return Expression{}, err
		}
		argExprs = append(argExprs, block)
	}

	mangled := owner.String() + methodSep(owner) + n.Name
	resultTy := sig.RetTy
	if sol != nil {
		resultTy = resultTy.Substitute(nil, sol.MethodArgs)
	}
	return MethodCall(resultTy, receiver, mangled, argExprs), nil
}

func methodSep(owner names.ClassFullname) string {
	if owner.IsMeta() {
		return "."
	}
	return "#"
}

// convertLambda implements spec §4.5's closures: push a Lambda frame,
// inherit declared parameter types from expectedParamTys when the source
// left them unannotated, lower the body, and record the frame's capture
// list on the resulting Lambda.
func (b *Builder) convertLambda(ns names.Namespace, n *ast.LambdaExpr, expectedParamTys []ty.TermTy) (Expression, error) {
	if expectedParamTys != nil {
		if err := typecheck.CheckBlockArity("block", len(expectedParamTys), len(n.Params)); err != nil {
			return Expression{}, err
		}
	}
	params := make([]classdict.MethodParam, len(n.Params))
	for i, p := range n.Params {
		t := ty.Raw("Object")
		if i < len(expectedParamTys) && expectedParamTys[i] != nil {
			t = expectedParamTys[i]
		} else if p.Typ != nil {
			t = ty.Raw(lastTypeSegment(p.Typ))
		}
		params[i] = classdict.MethodParam{Name: p.Name, Ty: t}
	}

	snapshot := b.Stack.Snapshot()
	frame := b.Stack.Push(FLambda)
	frame.blocksBody = !n.IsFn
	for _, p := range params {
		b.Stack.Declare(p.Name, p.Ty, false)
	}

	body, err := b.convertExprs(ns, n.Exprs)
	if err != nil {
		b.Stack.Unwind(snapshot)
		return Expression{}, err
	}
	lvars := frame.ExtractLVars()
	captures := frame.captures
	hasBreak := frame.hasBreak
	if _, err := b.Stack.Pop(); err != nil {
		return Expression{}, err
	}

	lam := &Lambda{
		Name:     b.genLambdaName(),
		Params:   params,
		Body:     body,
		Captures: captures,
		LVars:    lvars,
		HasBreak: hasBreak,
	}
	return Expression{Ty: lam.FnType(), Node: Node{Kind: NLambda, Lambda: lam}}, nil
}

func lastTypeSegment(t *ast.TypeName) string {
	if len(t.Segments) == 0 {
		return "Object"
	}
	return t.Segments[len(t.Segments)-1]
}

// convertMatchExpr implements spec §4.5's full match-expression lowering:
// evaluate the scrutinee once into a fresh local, compile every clause,
// append the synthetic panic clause, and unify the result type.
func (b *Builder) convertMatchExpr(ns names.Namespace, n *ast.Match) (Expression, error) {
	scrutinee, err := b.convertExpr(ns, n.Value)
	if err != nil {
		return Expression{}, err
	}
	tmpName := b.genLvarName("match_expr")
	b.Stack.Declare(tmpName, scrutinee.Ty, true)
	tmpRef := LVarRef(scrutinee.Ty, tmpName)

	clauses := make([]MatchClause, 0, len(n.Clauses)+1)
	for _, c := range n.Clauses {
		clause, err := b.convertMatchClause(ns, tmpRef, c)
		if err != nil {
			return Expression{}, err
		}
		clauses = append(clauses, clause)
	}
	clauses = append(clauses, b.panicClause())

	resultTy, err := CalcResultTy(b.Dict, clauses)
	if err != nil {
		return Expression{}, err
	}

	match := &MatchExpr{
		TmpName:   tmpName,
		TmpTy:     scrutinee.Ty,
		Scrutinee: LVarAssign(tmpName, scrutinee),
		Clauses:   clauses,
	}
	return Expression{Ty: resultTy, Node: Node{Kind: NMatch, Match: match}}, nil
}

func (b *Builder) convertMatchClause(ns names.Namespace, value Expression, c *ast.MatchClause) (MatchClause, error) {
	components, err := b.convertPattern(ns, value, c.Pattern)
	if err != nil {
		return MatchClause{}, err
	}

	snapshot := b.Stack.Snapshot()
	frame := b.Stack.Push(FMatchClause)
	for _, comp := range components {
		if comp.Kind.Kind == CBind {
			b.Stack.Declare(comp.Kind.Bind, comp.Kind.Expr.Ty, true)
		}
	}
	body, err := b.convertExprs(ns, c.Body)
	if err != nil {
		b.Stack.Unwind(snapshot)
		return MatchClause{}, err
	}
	lvars := frame.ExtractLVars()
	if _, err := b.Stack.Pop(); err != nil {
		return MatchClause{}, err
	}
	return MatchClause{Components: components, LVars: lvars, Body: body}, nil
}
