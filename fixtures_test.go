package lookout

import (
	"fmt"
	"strings"

	"github.com/jward/lookout/ast"
	"github.com/jward/lookout/metadata"
	"github.com/jward/lookout/pos"
	"github.com/jward/lookout/types"
)

// source locates spans in a test document by searching its text, so that
// hand-built trees stay in step with the text they describe.
type source struct {
	text  string
	lines *pos.LineIndex
}

func newSource(text string) *source {
	return &source{text: text, lines: pos.NewLineIndex(text)}
}

// span returns the span of the nth (0-based) occurrence of needle.
func (s *source) span(needle string, nth int) pos.Span {
	off := s.index(needle, nth)
	return pos.NewSpan(pos.BytePos(off), pos.BytePos(off+len(needle)))
}

// within returns the span of the first occurrence of target inside the nth
// occurrence of ctx.
func (s *source) within(ctx string, nth int, target string) pos.Span {
	base := s.index(ctx, nth)
	i := strings.Index(ctx, target)
	if i < 0 {
		panic(fmt.Sprintf("%q does not contain %q", ctx, target))
	}
	return pos.NewSpan(pos.BytePos(base+i), pos.BytePos(base+i+len(target)))
}

// trimmed spans the text without leading and trailing whitespace.
func (s *source) trimmed() pos.Span {
	start := len(s.text) - len(strings.TrimLeft(s.text, " \n"))
	end := len(strings.TrimRight(s.text, " \n"))
	return pos.NewSpan(pos.BytePos(start), pos.BytePos(end))
}

func (s *source) loc(line, col int) pos.BytePos {
	p, err := s.lines.Offset(line, col)
	if err != nil {
		panic(err)
	}
	return p
}

func (s *source) index(needle string, nth int) int {
	from := 0
	for i := 0; ; i++ {
		j := strings.Index(s.text[from:], needle)
		if j < 0 {
			panic(fmt.Sprintf("occurrence %d of %q not found", nth, needle))
		}
		if i == nth {
			return from + j
		}
		from += j + len(needle)
	}
}

func merge(a, b pos.Span) pos.Span { return a.Merge(b) }

// Shorthands for building trees.

func ident(name string, typ types.Type, span pos.Span) *ast.Ident {
	return ast.NewIdent(name, typ, span)
}

func intLit(v string, span pos.Span) *ast.Literal {
	return ast.NewLiteral(ast.IntLit, v, types.Int(), span)
}

func floatLit(v string, span pos.Span) *ast.Literal {
	return ast.NewLiteral(ast.FloatLit, v, types.Float(), span)
}

func stringLit(v string, span pos.Span) *ast.Literal {
	return ast.NewLiteral(ast.StringLit, v, types.String(), span)
}

func fn(args []types.Type, ret types.Type) types.Type { return types.Func(args, ret) }

func tv(name string) types.Type { return types.NewVar(name) }

func binding(name ast.Pattern, args []*ast.Ident, expr ast.Expr, typ types.Type) *ast.ValueBinding {
	return ast.NewValueBinding(name, args, expr, typ, merge(name.Span(), expr.Span()))
}

func let1(b *ast.ValueBinding, body ast.Expr, span pos.Span) *ast.LetExpr {
	return ast.NewLetExpr(false, []*ast.ValueBinding{b}, body, span)
}

func lineDoc(text string) *metadata.Metadata {
	return &metadata.Metadata{Comment: metadata.LineComment(text)}
}

// let abc = 1 in abc
func identifierProgram() (*source, ast.Expr) {
	s := newSource("let abc = 1 in abc")
	b := binding(ident("abc", types.Int(), s.span("abc", 0)), nil, intLit("1", s.span("1", 0)), types.Int())
	body := ident("abc", types.Int(), s.span("abc", 1))
	return s, let1(b, body, s.trimmed())
}

func literalStringProgram() (*source, ast.Expr) {
	s := newSource(` "asd" `)
	return s, stringLit("asd", s.span(`"asd"`, 0))
}

func inLetProgram() (*source, ast.Expr) {
	s := newSource("\nrec\nlet f x = 1\nlet g x = \"asd\"\n1\n")
	f := binding(
		ident("f", fn([]types.Type{tv("a")}, types.Int()), s.within("let f", 0, "f")),
		[]*ast.Ident{ident("x", tv("a"), s.within("f x", 0, "x"))},
		intLit("1", s.span("1", 0)),
		fn([]types.Type{tv("a")}, types.Int()),
	)
	g := binding(
		ident("g", fn([]types.Type{tv("a")}, types.String()), s.within("let g", 0, "g")),
		[]*ast.Ident{ident("x", tv("a"), s.within("g x", 0, "x"))},
		stringLit("asd", s.span(`"asd"`, 0)),
		fn([]types.Type{tv("a")}, types.String()),
	)
	body := intLit("1", s.span("1", 1))
	return s, ast.NewLetExpr(true, []*ast.ValueBinding{f, g}, body, s.trimmed())
}

func letInLetProgram() (*source, ast.Expr) {
	s := newSource("\nlet f =\n    let g y =\n        123\n    g\nf\n")
	gType := fn([]types.Type{tv("a")}, types.Int())
	g := binding(
		ident("g", gType, s.span("g", 0)),
		[]*ast.Ident{ident("y", tv("a"), s.span("y", 0))},
		intLit("123", s.span("123", 0)),
		gType,
	)
	inner := let1(g, ident("g", gType, s.span("g", 1)), merge(s.span("let", 1), s.span("g", 1)))
	f := binding(ident("f", gType, s.span("f", 0)), nil, inner, gType)
	return s, let1(f, ident("f", gType, s.span("f", 1)), s.trimmed())
}

func functionAppProgram() (*source, ast.Expr) {
	s := newSource("\nlet f x = f x\n1\n")
	fType := fn([]types.Type{tv("a")}, tv("a0"))
	app := ast.NewAppExpr(
		ident("f", fType, s.span("f", 1)),
		[]ast.Expr{ident("x", tv("a"), s.span("x", 1))},
		tv("a0"),
		merge(s.span("f", 1), s.span("x", 1)),
	)
	f := binding(
		ident("f", fType, s.span("f", 0)),
		[]*ast.Ident{ident("x", tv("a"), s.span("x", 0))},
		app,
		fType,
	)
	return s, let1(f, intLit("1", s.span("1", 0)), s.trimmed())
}

func binopProgram() (*source, ast.Expr) {
	s := newSource("\nlet (++) l r =\n    l #Int+ 1\n    r #Float+ 1.0\n    l\n1 ++ 2.0\n")
	opType := fn([]types.Type{types.Int(), types.Float()}, types.Int())

	first := ast.NewInfixExpr(
		ident("l", types.Int(), s.within("l #Int+ 1", 0, "l")),
		ident("#Int+", nil, s.span("#Int+", 0)),
		intLit("1", s.within("l #Int+ 1", 0, "1")),
		types.Int(),
		s.span("l #Int+ 1", 0),
	)
	second := ast.NewInfixExpr(
		ident("r", types.Float(), s.within("r #Float+ 1.0", 0, "r")),
		ident("#Float+", nil, s.span("#Float+", 0)),
		floatLit("1.0", s.within("r #Float+ 1.0", 0, "1.0")),
		types.Float(),
		s.span("r #Float+ 1.0", 0),
	)
	last := ident("l", types.Int(), s.within("    l\n", 0, "l"))
	block := ast.NewBlockExpr([]ast.Expr{first, second, last}, merge(first.Span(), last.Span()))

	op := binding(
		ident("++", opType, s.span("(++)", 0)),
		[]*ast.Ident{
			ident("l", types.Int(), s.within("l r =", 0, "l")),
			ident("r", types.Float(), s.within("l r =", 0, "r")),
		},
		block,
		opType,
	)
	body := ast.NewInfixExpr(
		intLit("1", s.within("1 ++ 2.0", 0, "1")),
		ident("++", opType, s.within("1 ++ 2.0", 0, "++")),
		floatLit("2.0", s.within("1 ++ 2.0", 0, "2.0")),
		types.Int(),
		s.span("1 ++ 2.0", 0),
	)
	return s, let1(op, body, s.trimmed())
}

func fieldAccessProgram() (*source, ast.Expr) {
	s := newSource("\nlet r = { x = 1 }\nr.x\n")
	recT := types.NewRecord(types.Field{Name: "x", Type: types.Int()})
	rec := ast.NewRecordExpr(nil, []*ast.RecordField{
		ast.NewRecordField(ident("x", types.Int(), s.within("x = 1", 0, "x")), intLit("1", s.span("1", 0)), s.span("x = 1", 0)),
	}, nil, recT, s.span("{ x = 1 }", 0))
	r := binding(ident("r", recT, s.within("let r", 0, "r")), nil, rec, recT)
	body := ast.NewProjectionExpr(
		ident("r", recT, s.within("r.x", 0, "r")),
		ident("x", types.Int(), s.within("r.x", 0, "x")),
		s.span("r.x", 0),
	)
	return s, let1(r, body, s.trimmed())
}

func doBindingProgram() (*source, ast.Expr) {
	s := newSource("\ntype Option a = | None | Some a\nlet flat_map f x =\n    match x with\n    | Some y -> f y\n    | None -> None\n\ndo x = Some 1\nNone\n")
	option := func(arg types.Type) types.Type { return types.NewApp(types.NewCon("Option"), arg) }

	none := ast.NewConstructor(ident("None", option(tv("a")), s.within("| None |", 0, "None")), nil, s.within("| None |", 0, "None"))
	some := ast.NewConstructor(
		ident("Some", fn([]types.Type{tv("a")}, option(tv("a"))), s.within("| Some a", 0, "Some")),
		[]ast.TypeExpr{ast.NewTypeIdent("a", types.Typ(), s.within("| Some a", 0, "a"))},
		s.within("| Some a", 0, "Some a"),
	)
	variant := ast.NewVariantTypeExpr([]*ast.Constructor{none, some}, types.Typ(), merge(s.span("| None", 0), some.Span()))
	optionBinding := ast.NewTypeBinding(
		ast.NewTypeIdent("Option", types.KindArity(1), s.within("type Option", 0, "Option")),
		[]*ast.TypeIdent{ast.NewTypeIdent("a", types.Typ(), s.within("Option a =", 0, "a"))},
		variant,
		merge(s.span("Option", 0), variant.Span()),
	)

	fType := fn([]types.Type{tv("a")}, option(tv("b")))
	alt1 := ast.NewAlternative(
		ast.NewConstructorPattern(
			ident("Some", fn([]types.Type{tv("a")}, option(tv("a"))), s.within("| Some y", 0, "Some")),
			[]ast.Pattern{ident("y", tv("a"), s.within("Some y", 0, "y"))},
			option(tv("a")),
			s.span("Some y", 0),
		),
		ast.NewAppExpr(
			ident("f", fType, s.within("f y\n", 0, "f")),
			[]ast.Expr{ident("y", tv("a"), s.within("f y\n", 0, "y"))},
			option(tv("b")),
			s.span("f y", 0),
		),
		s.span("Some y -> f y", 0),
	)
	alt2 := ast.NewAlternative(
		ident("None", option(tv("a")), s.within("| None ->", 0, "None")),
		ident("None", option(tv("b")), s.within("-> None", 0, "None")),
		s.span("None -> None", 0),
	)
	match := ast.NewMatchExpr(
		ident("x", option(tv("a")), s.within("match x", 0, "x")),
		[]*ast.Alternative{alt1, alt2},
		option(tv("b")),
		merge(s.span("match", 0), alt2.Span()),
	)
	flatMapType := fn([]types.Type{fType, option(tv("a"))}, option(tv("b")))
	flatMap := binding(
		ident("flat_map", flatMapType, s.span("flat_map", 0)),
		[]*ast.Ident{
			ident("f", fType, s.within("f x =", 0, "f")),
			ident("x", option(tv("a")), s.within("f x =", 0, "x")),
		},
		match,
		flatMapType,
	)

	bound := ast.NewAppExpr(
		ident("Some", fn([]types.Type{types.Int()}, option(types.Int())), s.within("= Some 1", 0, "Some")),
		[]ast.Expr{intLit("1", s.within("Some 1", 0, "1"))},
		option(types.Int()),
		s.span("Some 1", 0),
	)
	last := ident("None", option(tv("c")), s.within("\nNone\n", 0, "None"))
	do := ast.NewDoExpr(ident("x", nil, s.within("do x", 0, "x")), bound, last, merge(s.span("do", 0), last.Span()))

	inner := let1(flatMap, do, merge(s.span("let", 0), do.Span()))
	return s, ast.NewTypeLetExpr([]*ast.TypeBinding{optionBinding}, inner, s.trimmed())
}

func parensProgram() (*source, ast.Expr) {
	s := newSource("\nlet id x = x\n(id 1)\n")
	idType := fn([]types.Type{tv("a")}, tv("a"))
	id := binding(
		ident("id", idType, s.within("let id", 0, "id")),
		[]*ast.Ident{ident("x", tv("a"), s.within("id x", 0, "x"))},
		ident("x", tv("a"), s.within("= x", 0, "x")),
		idType,
	)
	app := ast.NewAppExpr(
		ident("id", fn([]types.Type{types.Int()}, types.Int()), s.within("(id 1)", 0, "id")),
		[]ast.Expr{intLit("1", s.within("(id 1)", 0, "1"))},
		types.Int(),
		s.span("(id 1)", 0),
	)
	return s, let1(id, app, s.trimmed())
}

func recordBraceProgram() (*source, ast.Expr) {
	s := newSource("\nlet { x } = { x = 1 }\nx\n")
	recT := types.NewRecord(types.Field{Name: "x", Type: types.Int()})
	pattern := ast.NewRecordPattern(nil, []*ast.PatternField{
		ast.NewPatternField(ident("x", types.Int(), s.within("{ x }", 0, "x")), nil, s.within("{ x }", 0, "x")),
	}, recT, s.span("{ x }", 0))
	rec := ast.NewRecordExpr(nil, []*ast.RecordField{
		ast.NewRecordField(ident("x", types.Int(), s.within("{ x = 1 }", 0, "x")), intLit("1", s.span("1", 0)), s.span("x = 1", 0)),
	}, nil, recT, s.span("{ x = 1 }", 0))
	b := binding(pattern, nil, rec, recT)
	return s, let1(b, ident("x", types.Int(), s.within("\nx\n", 0, "x")), s.trimmed())
}

func inRecordProgram() (*source, ast.Expr) {
	s := newSource("\n{\n    test = 123,\n    s = \"asd\"\n}\n")
	recT := types.NewRecord(
		types.Field{Name: "test", Type: types.Int()},
		types.Field{Name: "s", Type: types.String()},
	)
	return s, ast.NewRecordExpr(nil, []*ast.RecordField{
		ast.NewRecordField(ident("test", types.Int(), s.span("test", 0)), intLit("123", s.span("123", 0)), s.span("test = 123", 0)),
		ast.NewRecordField(ident("s", types.String(), s.within("s = ", 0, "s")), stringLit("asd", s.span(`"asd"`, 0)), s.span(`s = "asd"`, 0)),
	}, nil, recT, s.trimmed())
}

func recordCtorFieldProgram() (*source, ast.Expr) {
	s := newSource("{ test = 123 }")
	recT := types.NewRecord(types.Field{Name: "test", Type: types.Int()})
	return s, ast.NewRecordExpr(nil, []*ast.RecordField{
		ast.NewRecordField(ident("test", nil, s.span("test", 0)), intLit("123", s.span("123", 0)), s.span("test = 123", 0)),
	}, nil, recT, s.trimmed())
}

func functionArgProgram() (*source, ast.Expr) {
	s := newSource("\nlet f x = x #Int+ 1\n\"\"\n")
	fType := fn([]types.Type{types.Int()}, types.Int())
	body := ast.NewInfixExpr(
		ident("x", types.Int(), s.within("= x", 0, "x")),
		ident("#Int+", nil, s.span("#Int+", 0)),
		intLit("1", s.span("1", 0)),
		types.Int(),
		s.span("x #Int+ 1", 0),
	)
	f := binding(
		ident("f", fType, s.within("let f", 0, "f")),
		[]*ast.Ident{ident("x", nil, s.within("f x", 0, "x"))},
		body,
		fType,
	)
	return s, let1(f, stringLit("", s.span(`""`, 0)), s.trimmed())
}

func lambdaArgProgram() (*source, ast.Expr) {
	s := newSource("\nlet f : Int -> String -> String = \\x y -> y\n1.0\n")
	fType := fn([]types.Type{types.Int(), types.String()}, types.String())
	annot := ast.NewFunctionTypeExpr(
		[]ast.TypeExpr{
			ast.NewTypeIdent("Int", nil, s.span("Int", 0)),
			ast.NewTypeIdent("String", nil, s.span("String", 0)),
		},
		ast.NewTypeIdent("String", nil, s.span("String", 1)),
		types.Typ(),
		s.span("Int -> String -> String", 0),
	)
	lambda := ast.NewLambdaExpr(
		[]*ast.Ident{
			ident("x", nil, s.within(`\x y`, 0, "x")),
			ident("y", nil, s.within(`\x y`, 0, "y")),
		},
		ident("y", types.String(), s.within("-> y", 0, "y")),
		fType,
		s.span(`\x y -> y`, 0),
	)
	f := ast.NewValueBinding(ident("f", fType, s.within("let f", 0, "f")), nil, lambda, fType, merge(s.within("let f", 0, "f"), lambda.Span()))
	f.Annotation = annot
	return s, let1(f, floatLit("1.0", s.span("1.0", 0)), s.trimmed())
}

func unitProgram() (*source, ast.Expr) {
	s := newSource("()")
	return s, ast.NewTupleExpr(nil, types.Unit(), s.span("()", 0))
}

// variableDocProgram documents abc but not abb; body is the trailing text.
func variableDocProgram(body string) (*source, ast.Expr) {
	s := newSource("\n/// test\nlet abc = 1\nlet abb = 2\n" + body + "\n")
	abc := binding(ident("abc", types.Int(), s.span("abc", 0)), nil, intLit("1", s.span("1", 0)), types.Int())
	abc.Metadata = lineDoc("test")
	abb := binding(ident("abb", types.Int(), s.span("abb", 0)), nil, intLit("2", s.span("2", 0)), types.Int())

	var tail ast.Expr
	lines := strings.Split(body, "\n")
	if len(lines) == 1 {
		tail = ident(body, nil, s.within("\n"+body+"\n", 0, body))
	} else {
		var exprs []ast.Expr
		for i, l := range lines {
			// the nth use is the occurrence after the declaration
			exprs = append(exprs, ident(l, types.Int(), s.span(l, 1+countBefore(lines, i, l))))
		}
		tail = ast.NewBlockExpr(exprs, merge(exprs[0].Span(), exprs[len(exprs)-1].Span()))
	}
	inner := let1(abb, tail, merge(s.span("let", 1), tail.Span()))
	return s, let1(abc, inner, merge(s.span("let", 0), tail.Span()))
}

func countBefore(lines []string, i int, l string) int {
	n := 0
	for _, prev := range lines[:i] {
		if prev == l {
			n++
		}
	}
	return n
}

func binopDocProgram() (*source, ast.Expr) {
	s := newSource("\n/// test\nlet (+++) x y = 1\n1 +++ 3\n")
	opType := fn([]types.Type{tv("a"), tv("b")}, types.Int())
	op := binding(
		ident("+++", opType, s.span("(+++)", 0)),
		[]*ast.Ident{
			ident("x", tv("a"), s.within("x y", 0, "x")),
			ident("y", tv("b"), s.within("x y", 0, "y")),
		},
		intLit("1", s.within("= 1", 0, "1")),
		opType,
	)
	op.Metadata = lineDoc("test")
	body := ast.NewInfixExpr(
		intLit("1", s.within("1 +++ 3", 0, "1")),
		ident("+++", fn([]types.Type{types.Int(), types.Int()}, types.Int()), s.within("1 +++ 3", 0, "+++")),
		intLit("3", s.within("1 +++ 3", 0, "3")),
		types.Int(),
		s.span("1 +++ 3", 0),
	)
	return s, let1(op, body, merge(s.span("let", 0), body.Span()))
}

// moduleProgram binds a record with a documented field abc and projects
// field from it.
func moduleProgram(field string) (*source, ast.Expr) {
	s := newSource("\nlet module = {\n        /// test\n        abc = 1,\n        abb = 2\n    }\nmodule." + field + "\n")
	recT := types.NewRecord(
		types.Field{Name: "abc", Type: types.Int()},
		types.Field{Name: "abb", Type: types.Int()},
	)
	abc := ast.NewRecordField(ident("abc", types.Int(), s.span("abc", 0)), intLit("1", s.span("1", 0)), s.span("abc = 1", 0))
	abc.Metadata = lineDoc("test")
	abb := ast.NewRecordField(ident("abb", types.Int(), s.span("abb", 0)), intLit("2", s.span("2", 0)), s.span("abb = 2", 0))
	rec := ast.NewRecordExpr(nil, []*ast.RecordField{abc, abb}, nil, recT, merge(s.span("{", 0), s.span("}", 0)))
	m := binding(ident("module", recT, s.span("module", 0)), nil, rec, recT)

	var fieldType types.Type
	if t, ok := types.FieldType(recT, field); ok {
		fieldType = t
	}
	body := ast.NewProjectionExpr(
		ident("module", recT, s.span("module", 1)),
		ident(field, fieldType, s.within("module."+field, 0, field)),
		s.span("module."+field, 0),
	)
	return s, let1(m, body, s.trimmed())
}

func typePatternProgram() (*source, ast.Expr) {
	s := newSource("\nlet { Test } =\n    /// test\n    type Test = Int\n    { Test }\n()\n")
	test := ast.NewTypeBinding(
		ast.NewTypeIdent("Test", types.Typ(), s.within("type Test", 0, "Test")),
		nil,
		ast.NewTypeIdent("Int", types.Typ(), s.within("= Int", 0, "Int")),
		s.span("Test = Int", 0),
	)
	test.Metadata = lineDoc("test")
	exported := ast.NewRecordExpr(
		[]*ast.TypeIdent{ast.NewTypeIdent("Test", types.Typ(), s.within("{ Test }", 1, "Test"))},
		nil, nil, types.NewRecord(), s.span("{ Test }", 1),
	)
	typeLet := ast.NewTypeLetExpr([]*ast.TypeBinding{test}, exported, merge(s.span("type", 0), exported.Span()))
	pattern := ast.NewRecordPattern(
		[]*ast.TypeIdent{ast.NewTypeIdent("Test", types.Typ(), s.within("{ Test }", 0, "Test"))},
		nil, types.NewRecord(), s.span("{ Test }", 0),
	)
	b := binding(pattern, nil, typeLet, types.NewRecord())
	return s, let1(b, ast.NewTupleExpr(nil, types.Unit(), s.span("()", 0)), s.trimmed())
}

func shadowingProgram() (*source, ast.Expr) {
	s := newSource("\nlet test = 1\nlet dummy =\n    let test = 3\n    test\ntest #Int+ test #Int+ dummy\n")
	outer := binding(ident("test", types.Int(), s.within("let test = 1", 0, "test")), nil, intLit("1", s.span("1", 0)), types.Int())
	innerUse := ident("test", types.Int(), s.within("    test\n", 0, "test"))
	inner := let1(
		binding(ident("test", types.Int(), s.within("let test = 3", 0, "test")), nil, intLit("3", s.span("3", 0)), types.Int()),
		innerUse,
		merge(s.within("let test = 3", 0, "let"), innerUse.Span()),
	)
	dummy := binding(ident("dummy", types.Int(), s.span("dummy", 0)), nil, inner, types.Int())

	lhs := ast.NewInfixExpr(
		ident("test", types.Int(), s.within("\ntest #Int+", 0, "test")),
		ident("#Int+", nil, s.span("#Int+", 0)),
		ident("test", types.Int(), s.within("+ test", 0, "test")),
		types.Int(),
		s.span("test #Int+ test", 0),
	)
	body := ast.NewInfixExpr(
		lhs,
		ident("#Int+", nil, s.span("#Int+", 1)),
		ident("dummy", types.Int(), s.span("dummy", 1)),
		types.Int(),
		s.span("test #Int+ test #Int+ dummy", 0),
	)
	inner2 := let1(dummy, body, merge(s.span("let dummy", 0), body.Span()))
	return s, let1(outer, inner2, s.trimmed())
}

// A recursive group where g is used before it is declared.
func forwardUseProgram() (*source, ast.Expr) {
	s := newSource("\nrec\nlet f = g\nlet g = 1\nf\n")
	f := binding(ident("f", types.Int(), s.within("let f", 0, "f")), nil, ident("g", types.Int(), s.within("= g", 0, "g")), types.Int())
	g := binding(ident("g", types.Int(), s.within("let g", 0, "g")), nil, intLit("1", s.span("1", 0)), types.Int())
	body := ident("f", types.Int(), s.within("\nf\n", 0, "f"))
	return s, ast.NewLetExpr(true, []*ast.ValueBinding{f, g}, body, s.trimmed())
}

func allSymbolsProgram() (*source, ast.Expr) {
	s := newSource("\nlet test = 1\nlet dummy =\n    let test = 3\n    test\ntype Abc a = a Int\n// Unpacked values are not counted because they probably originated in another module\nlet { x, y } = { x = 1, y = 2 }\n1\n")
	recT := types.NewRecord(
		types.Field{Name: "x", Type: types.Int()},
		types.Field{Name: "y", Type: types.Int()},
	)

	last := intLit("1", s.within("\n1\n", 0, "1"))
	destructure := binding(
		ast.NewRecordPattern(nil, []*ast.PatternField{
			ast.NewPatternField(ident("x", types.Int(), s.within("{ x, y }", 0, "x")), nil, s.within("{ x, y }", 0, "x")),
			ast.NewPatternField(ident("y", types.Int(), s.within("{ x, y }", 0, "y")), nil, s.within("{ x, y }", 0, "y")),
		}, recT, s.span("{ x, y }", 0)),
		nil,
		ast.NewRecordExpr(nil, []*ast.RecordField{
			ast.NewRecordField(ident("x", types.Int(), s.within("x = 1", 0, "x")), intLit("1", s.within("x = 1", 0, "1")), s.span("x = 1", 0)),
			ast.NewRecordField(ident("y", types.Int(), s.within("y = 2", 0, "y")), intLit("2", s.within("y = 2", 0, "2")), s.span("y = 2", 0)),
		}, nil, recT, s.span("{ x = 1, y = 2 }", 0)),
		recT,
	)
	destructureLet := let1(destructure, last, merge(s.span("let {", 0), last.Span()))

	abcKind := types.KindArity(1)
	alias := ast.NewTypeAppExpr(
		ast.NewTypeIdent("a", types.KindArity(1), s.within("= a Int", 0, "a")),
		[]ast.TypeExpr{ast.NewTypeIdent("Int", types.Typ(), s.within("a Int", 0, "Int"))},
		types.Typ(),
		s.span("a Int", 0),
	)
	abc := ast.NewTypeBinding(
		ast.NewTypeIdent("Abc", abcKind, s.span("Abc", 0)),
		[]*ast.TypeIdent{ast.NewTypeIdent("a", types.KindArity(1), s.within("Abc a", 0, "a"))},
		alias,
		merge(s.span("Abc", 0), alias.Span()),
	)
	typeLet := ast.NewTypeLetExpr([]*ast.TypeBinding{abc}, destructureLet, merge(s.span("type", 0), last.Span()))

	innerUse := ident("test", types.Int(), s.within("    test\n", 0, "test"))
	inner := let1(
		binding(ident("test", types.Int(), s.within("let test = 3", 0, "test")), nil, intLit("3", s.span("3", 0)), types.Int()),
		innerUse,
		merge(s.within("let test = 3", 0, "let"), innerUse.Span()),
	)
	dummy := binding(ident("dummy", types.Int(), s.span("dummy", 0)), nil, inner, types.Int())
	dummyLet := let1(dummy, typeLet, merge(s.span("let dummy", 0), last.Span()))

	outer := binding(ident("test", types.Int(), s.within("let test = 1", 0, "test")), nil, intLit("1", s.span("1", 0)), types.Int())
	return s, let1(outer, dummyLet, s.trimmed())
}

// type Test a = | Test a
// let x : Test Int = Test 1
// 1.0
func typeProgram() (*source, ast.Expr) {
	s := newSource("\ntype Test a = | Test a\nlet x : Test Int = Test 1\n1.0\n")
	testKind := types.KindArity(1)
	testOf := func(arg types.Type) types.Type { return types.NewApp(types.NewCon("Test"), arg) }

	ctor := ast.NewConstructor(
		ident("Test", fn([]types.Type{tv("a")}, testOf(tv("a"))), s.within("| Test a", 0, "Test")),
		[]ast.TypeExpr{ast.NewTypeIdent("a", types.Typ(), s.within("| Test a", 0, "a"))},
		s.within("| Test a", 0, "Test a"),
	)
	ctor.Metadata = lineDoc("the only constructor")
	variant := ast.NewVariantTypeExpr([]*ast.Constructor{ctor}, types.Typ(), s.span("| Test a", 0))
	decl := ast.NewTypeBinding(
		ast.NewTypeIdent("Test", testKind, s.within("type Test", 0, "Test")),
		[]*ast.TypeIdent{ast.NewTypeIdent("a", types.Typ(), s.within("Test a =", 0, "a"))},
		variant,
		merge(s.within("type Test", 0, "Test"), variant.Span()),
	)

	annot := ast.NewTypeAppExpr(
		ast.NewTypeIdent("Test", testKind, s.within(": Test Int", 0, "Test")),
		[]ast.TypeExpr{ast.NewTypeIdent("Int", nil, s.within("Test Int", 0, "Int"))},
		types.Typ(),
		s.span("Test Int", 0),
	)
	value := ast.NewAppExpr(
		ident("Test", fn([]types.Type{types.Int()}, testOf(types.Int())), s.within("= Test 1", 0, "Test")),
		[]ast.Expr{intLit("1", s.span("1", 0))},
		testOf(types.Int()),
		s.span("Test 1", 0),
	)
	x := binding(ident("x", testOf(types.Int()), s.within("let x", 0, "x")), nil, value, testOf(types.Int()))
	x.Annotation = annot

	body := floatLit("1.0", s.span("1.0", 0))
	letX := let1(x, body, merge(s.span("let", 0), body.Span()))
	return s, ast.NewTypeLetExpr([]*ast.TypeBinding{decl}, letX, s.trimmed())
}

// type R = { x : Int, f : Test }
// 1
func recordTypeProgram() (*source, ast.Expr) {
	s := newSource("\ntype R = { x : Int, f : Test }\n1\n")
	x := ast.NewTypeField(
		ident("x", nil, s.within("x : Int", 0, "x")),
		ast.NewTypeIdent("Int", nil, s.within("x : Int", 0, "Int")),
		s.span("x : Int", 0),
	)
	f := ast.NewTypeField(
		ident("f", nil, s.within("f : Test", 0, "f")),
		ast.NewTypeIdent("Test", types.KindArity(1), s.within("f : Test", 0, "Test")),
		s.span("f : Test", 0),
	)
	rec := ast.NewRecordTypeExpr([]*ast.TypeField{x, f}, types.Typ(), s.span("{ x : Int, f : Test }", 0))
	decl := ast.NewTypeBinding(
		ast.NewTypeIdent("R", types.Typ(), s.within("type R", 0, "R")),
		nil,
		rec,
		merge(s.within("type R", 0, "R"), rec.Span()),
	)
	return s, ast.NewTypeLetExpr([]*ast.TypeBinding{decl}, intLit("1", s.span("1", 0)), s.trimmed())
}

// allPrograms lists every fixture for whole-tree properties.
func allPrograms() map[string]func() (*source, ast.Expr) {
	return map[string]func() (*source, ast.Expr){
		"identifier":   identifierProgram,
		"literal":      literalStringProgram,
		"in_let":       inLetProgram,
		"let_in_let":   letInLetProgram,
		"function_app": functionAppProgram,
		"binop":        binopProgram,
		"field_access": fieldAccessProgram,
		"do_binding":   doBindingProgram,
		"parens":       parensProgram,
		"record_brace": recordBraceProgram,
		"in_record":    inRecordProgram,
		"record_field": recordCtorFieldProgram,
		"function_arg": functionArgProgram,
		"lambda_arg":   lambdaArgProgram,
		"unit":         unitProgram,
		"variable_doc": func() (*source, ast.Expr) { return variableDocProgram("abb\nabc") },
		"binop_doc":    binopDocProgram,
		"module":       func() (*source, ast.Expr) { return moduleProgram("abc") },
		"type_pattern": typePatternProgram,
		"shadowing":    shadowingProgram,
		"forward_use":  forwardUseProgram,
		"record_type":  recordTypeProgram,
		"all_symbols":  allSymbolsProgram,
		"type":         typeProgram,
	}
}

// source returns the text covered by span.
func (s *source) source(span pos.Span) string { return span.Text(s.text) }
