// pattern.go lowers AST patterns into match Components (spec §4.5's
// pattern-matching algorithm), grounded essentially verbatim on
// _examples/original_source/lib/skc_ast2hir/src/pattern_match.rs:
// convert_match/convert_extractor/test_class/calc_result_ty.
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

// ComponentKind tags a match Component: either a boolean Test or a Bind of
// a readonly local (spec §3's `Component`).
type ComponentKind int

const (
	CTest ComponentKind = iota
	CBind
)

// Component is one step of a compiled pattern, in evaluation order.
type Component struct {
	Kind Tag
}

// Tag is the tagged payload of a Component; exactly one field is
// meaningful, selected by Kind.
type Tag struct {
	Kind ComponentKind
	Test Expression // CTest: a Bool-typed expression to short-circuit on
	Bind string     // CBind: the local name introduced
	Expr Expression // CBind: the value bound to Bind
}

// MatchClause is one lowered clause of a Match expression: its components
// (in order), the lvars its Bind components declared, and its lowered body.
type MatchClause struct {
	Components []Component
	LVars      []LVar
	Body       Expressions
}

// MatchExpr is a fully-lowered match expression: the scrutinee evaluated and
// assigned into a fresh temporary exactly once, every clause (the synthetic
// panic clause always last), and the unified result type.
type MatchExpr struct {
	TmpName   string
	TmpTy     ty.TermTy
	Scrutinee Expression // the `tmp = <scrutinee>` assignment, evaluated before any clause
	Clauses   []MatchClause
}

func programErrorf(code, format string, args ...any) error {
	return errors.WrapReport(errors.NewProgramError(code, fmt.Sprintf(format, args...), nil, nil))
}

func typeErrorf(code, format string, args ...any) error {
	return errors.WrapReport(errors.NewTypeError(code, fmt.Sprintf(format, args...), nil, nil))
}

// convertPattern implements spec §4.5 step 2: compile one pattern against
// the scrutinee value (already bound to a fresh local, referenced here as
// `value`) into an ordered Component list.
func (b *Builder) convertPattern(ns names.Namespace, value Expression, pat ast.Pattern) ([]Component, error) {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return nil, nil
	case *ast.VariablePattern:
		return []Component{{Tag{Kind: CBind, Bind: p.Name, Expr: value}}}, nil
	case *ast.BoolPattern:
		if err := checkScrutineeTy(value, "Bool"); err != nil {
			return nil, err
		}
		return []Component{eqTest(value, "Bool", BoolLiteral(p.Value))}, nil
	case *ast.IntPattern:
		if err := checkScrutineeTy(value, "Int"); err != nil {
			return nil, err
		}
		return []Component{eqTest(value, "Int", IntLiteral(p.Value))}, nil
	case *ast.FloatPattern:
		if err := checkScrutineeTy(value, "Float"); err != nil {
			return nil, err
		}
		return []Component{eqTest(value, "Float", FloatLiteral(p.Value))}, nil
	case *ast.StringPattern:
		if err := checkScrutineeTy(value, "String"); err != nil {
			return nil, err
		}
		return []Component{eqTest(value, "String", b.internString(p.Value))}, nil
	case *ast.ExtractorPattern:
		return b.convertExtractor(ns, value, p)
	default:
		return nil, programErrorf(errors.BUG001, "unhandled pattern kind %T", pat)
	}
}

func checkScrutineeTy(value Expression, name string) error {
	if !value.Ty.Equals(ty.Raw(name)) {
		return typeErrorf(errors.HIR003, "expr of `%s' never matches `%s'", value.Ty, name)
	}
	return nil
}

func eqTest(value Expression, name string, rhs Expression) Component {
	test := MethodCall(ty.Raw("Bool"), value, name+"#==", []Expression{rhs})
	return Component{Tag{Kind: CTest, Test: test}}
}

// convertExtractor implements `convert_extractor`: resolve the pattern's
// class, check it can conform to the scrutinee's type, emit the
// class-identity test (singleton-vs-class per SUPPLEMENTED FEATURES item 5),
// bitcast, then recurse into each ivar via its auto-generated getter.
func (b *Builder) convertExtractor(ns names.Namespace, value Expression, p *ast.ExtractorPattern) ([]Component, error) {
	patTy, sk, err := b.resolveExtractorTy(ns, p.Segments, value.Ty)
	if err != nil {
		return nil, err
	}
	if !classdict.Conforms(b.Dict, patTy, value.Ty) {
		return nil, typeErrorf(errors.HIR003, "expr of `%s' never matches `%s'", value.Ty, patTy)
	}

	cast := BitCast(patTy, value)
	components := []Component{{Tag{Kind: CTest, Test: testClass(sk, patTy, value)}}}

	init, _, ok := classdict.LookupMethod(b.Dict, patTy, "initialize")
	var ivars []classdict.MethodParam
	if ok {
		ivars = init.Params
	}
	if err := typecheck.CheckExtractorArity(lastSegment(p.Segments), len(ivars), len(p.Params)); err != nil {
		return nil, err
	}
	for i, param := range p.Params {
		getter := MethodCall(ivars[i].Ty, cast, ivars[i].Name, nil)
		sub, err := b.convertPattern(ns, getter, param)
		if err != nil {
			return nil, err
		}
		components = append(components, sub...)
	}
	return components, nil
}

func lastSegment(segs []string) string {
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// resolveExtractorTy resolves the extractor's class name, propagating the
// scrutinee's own type arguments onto the pattern type (`infer_pat_ty`).
func (b *Builder) resolveExtractorTy(ns names.Namespace, segments []string, scrutinee ty.TermTy) (ty.TermTy, *classdict.SkClass, error) {
	full, ok := ns.Resolve(segments, func(c names.ClassFullname) bool {
		_, found := b.Dict.FindType(c)
		return found
	})
	if !ok {
		return nil, nil, programErrorf(errors.NAM001, "unknown pattern class %v", segments)
	}
	t, ok := b.Dict.FindType(full)
	if !ok {
		return nil, nil, programErrorf(errors.NAM001, "unknown pattern class %v", segments)
	}
	cls, ok := t.(*classdict.SkClass)
	if !ok {
		return nil, nil, typeErrorf(errors.TY003, "%s is not a class", full)
	}
	base := ty.Raw(full.String())
	if scrutineeLit, ok := scrutinee.(*ty.Lit); ok && len(scrutineeLit.TypeArgs) > 0 {
		return base.Substitute(scrutineeLit.TypeArgs, nil), cls, nil
	}
	return base, cls, nil
}

// testClass implements `test_class`: a singleton case (const_is_obj) tests
// identity against its constant; any other class tests its erasure against
// the pattern's erasure class.
func testClass(sk *classdict.SkClass, patTy ty.TermTy, value Expression) Expression {
	if sk.ConstIsObj {
		constRef := ConstRef(patTy, patTy.Fullname())
		return MethodCall(ty.Raw("Bool"), constRef, "Object#==", []Expression{value})
	}
	clsOfValue := MethodCall(ty.Raw("Class"), value, "Object#class", nil)
	erasureCls := MethodCall(ty.Raw("Class"), clsOfValue, "Class#erasure_class", nil)
	clsLiteral := ClassLiteral(ty.MetaOf(patTy.Fullname()), patTy.Fullname())
	return MethodCall(ty.Raw("Bool"), erasureCls, "Class#==", []Expression{clsLiteral})
}

// CalcResultTy implements `calc_result_ty`: NCA of all non-Never clause
// bodies, Void-promoted if any is Void, bitcasting the rest to the unified
// type (spec §4.5 step 4).
func CalcResultTy(d *classdict.ClassDict, clauses []MatchClause) (ty.TermTy, error) {
	var live []int
	for i, c := range clauses {
		if !c.Body.Ty().Equals(ty.Raw("Never")) {
			live = append(live, i)
		}
	}
	if len(live) == 0 {
		return ty.Raw("Never"), nil
	}
	anyVoid := false
	for _, i := range live {
		if clauses[i].Body.Ty().Equals(ty.Raw("Void")) {
			anyVoid = true
		}
	}
	if anyVoid {
		for _, i := range live {
			if !clauses[i].Body.Ty().Equals(ty.Raw("Void")) {
				voidifyBody(&clauses[i])
			}
		}
		return ty.Raw("Void"), nil
	}
	result := clauses[live[0]].Body.Ty()
	for _, i := range live[1:] {
		nca, ok := classdict.NearestCommonAncestor(d, result, clauses[i].Body.Ty())
		if !ok {
			return nil, typeErrorf(errors.CHK008, "match clause type mismatch (%s vs %s)", result, clauses[i].Body.Ty())
		}
		result = nca
	}
	for _, i := range live {
		if !clauses[i].Body.Ty().Equals(result) {
			bitcastBody(&clauses[i], result)
		}
	}
	return result, nil
}

func voidifyBody(c *MatchClause) {
	if len(c.Body.Exprs) == 0 {
		c.Body.Exprs = []Expression{Nop()}
		return
	}
	Voidify(&c.Body.Exprs[len(c.Body.Exprs)-1])
}

func bitcastBody(c *MatchClause, t ty.TermTy) {
	last := Expression{}
	if len(c.Body.Exprs) > 0 {
		last = c.Body.Exprs[len(c.Body.Exprs)-1]
	} else {
		last = Nop()
	}
	cast := BitCast(t, last)
	if len(c.Body.Exprs) > 0 {
		c.Body.Exprs[len(c.Body.Exprs)-1] = cast
	} else {
		c.Body.Exprs = []Expression{cast}
	}
}

// panicClause builds the synthetic final clause appended to every match
// (spec §4.5 step 3): no components (always matches), body panics.
func (b *Builder) panicClause() MatchClause {
	msg := b.internString("no matching clause found")
	panicCall := MethodCall(ty.Raw("Never"), IntLiteral(0), "Object#panic", []Expression{msg})
	return MatchClause{Body: Expressions{Exprs: []Expression{panicCall}}}
}
