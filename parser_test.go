// parser_test.go
package jingo

import (
	"testing"
)

func parseOK(t *testing.T, src string) []Expr {
	t.Helper()
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return prog
}

// parseOne parses src and requires exactly one top-level expression.
func parseOne(t *testing.T, src string) Expr {
	t.Helper()
	prog := parseOK(t, src)
	if len(prog) != 1 {
		t.Fatalf("parse %q: want one expression, got %d", src, len(prog))
	}
	return prog[0]
}

func wantStop(t *testing.T, src string, kind StopKind) *ParseStop {
	t.Helper()
	_, err := Parse(src)
	if err == nil {
		t.Fatalf("parse %q: expected failure", src)
	}
	stop := asStop(err)
	if stop == nil {
		t.Fatalf("parse %q: not a ParseStop: %v", src, err)
	}
	if stop.Kind != kind {
		t.Fatalf("parse %q: want stop %v, got %v (%v)", src, kind, stop.Kind, err)
	}
	return stop
}

func Test_Parse_Empty(t *testing.T) {
	if prog := parseOK(t, ""); len(prog) != 0 {
		t.Fatalf("empty input: %v", prog)
	}
	if prog := parseOK(t, "  \n\t -- just a comment\n"); len(prog) != 0 {
		t.Fatalf("comment-only input: %v", prog)
	}
}

func Test_Parse_Literals(t *testing.T) {
	for src, want := range map[string]ExprKind{
		"512":     IntLit(512),
		"3.5":     FloatLit(3.5),
		`"hi"`:    StrLit("hi"),
		"'x'":     CharLit('x'),
		"true":    BoolLit(true),
		"false":   BoolLit(false),
		"none":    NoneLit{},
		"self":    SelfRef{},
		"a.b.c":   Path{Fields: []string{"a", "b"}, ID: "c"},
		".secret": Path{Fields: []string{"self"}, ID: "secret"},
	} {
		e := parseOne(t, src)
		if !EqualKind(e.Kind, want) {
			t.Fatalf("%s: want %#v, got %#v", src, want, e.Kind)
		}
		if e.Start != 0 {
			t.Fatalf("%s: literal start should be 0, got %d", src, e.Start)
		}
	}
}

func Test_Parse_Operator_Claims_Buffer(t *testing.T) {
	e := parseOne(t, "5 + 3")
	op, ok := e.Kind.(Op)
	if !ok || op.Kind != OpAdd {
		t.Fatalf("want add node, got %#v", e.Kind)
	}
	if !EqualKind(op.Left.Kind, IntLit(5)) || !EqualKind(op.Right.Kind, IntLit(3)) {
		t.Fatalf("operands: %s", FormatExpr(e))
	}
	// the node is anchored at the operator token, not the claimed operand
	if e.Start != 2 {
		t.Fatalf("op start: want 2, got %d", e.Start)
	}
}

func Test_Parse_Operator_NoLeftExpr(t *testing.T) {
	wantStop(t, "+ 5", NoLeftExpr)
	wantStop(t, "and true", NoLeftExpr)
}

func Test_Parse_Operator_MissingRight(t *testing.T) {
	wantStop(t, "5 +", UnexpectedEof)
	wantStop(t, "5 + 5 + 5 +", UnexpectedEof)
}

func Test_Parse_Operators_Chain_LeftToRight(t *testing.T) {
	// no precedence: `*` binds whatever the buffer holds, which is the
	// already-built addition
	e := parseOne(t, "1 + 2 * 3")
	outer := e.Kind.(Op)
	if outer.Kind != OpMul {
		t.Fatalf("outer op: %v", outer.Kind)
	}
	inner, ok := outer.Left.Kind.(Op)
	if !ok || inner.Kind != OpAdd {
		t.Fatalf("left of `*` should be the addition, got %#v", outer.Left.Kind)
	}
	if !EqualKind(outer.Right.Kind, IntLit(3)) {
		t.Fatalf("right of `*`: %#v", outer.Right.Kind)
	}
}

func Test_Parse_Minus_And_Star_Are_Operators(t *testing.T) {
	if op := parseOne(t, "8 - 2").Kind.(Op); op.Kind != OpSub {
		t.Fatalf("minus: %v", op.Kind)
	}
	if op := parseOne(t, "8 * 2").Kind.(Op); op.Kind != OpMul {
		t.Fatalf("star: %v", op.Kind)
	}
}

func Test_Parse_Operator_Claims_Preceding_Let(t *testing.T) {
	// the buffer protocol has no notion of statements: the let itself is
	// still buffered when `+` arrives and becomes its left operand
	e := parseOne(t, "let x = 5 + 3")
	op, ok := e.Kind.(Op)
	if !ok || op.Kind != OpAdd {
		t.Fatalf("want add claiming the let, got %#v", e.Kind)
	}
	if _, ok := op.Left.Kind.(Let); !ok {
		t.Fatalf("left operand should be the let, got %#v", op.Left.Kind)
	}
}

func Test_Parse_Not(t *testing.T) {
	e := parseOne(t, "!true")
	n, ok := e.Kind.(Not)
	if !ok || !EqualKind(n.Expr.Kind, BoolLit(true)) {
		t.Fatalf("not: %#v", e.Kind)
	}
	wantStop(t, "!", UnexpectedEof)
}

func Test_Parse_Let(t *testing.T) {
	e := parseOne(t, "let x = 5")
	l := e.Kind.(Let)
	if l.Path.ID != "x" || l.Mutable || !EqualKind(l.Value.Kind, IntLit(5)) {
		t.Fatalf("let: %#v", l)
	}
	if e.Start != 0 {
		t.Fatalf("let start: %d", e.Start)
	}

	if l := parseOne(t, "let mut y = none").Kind.(Let); !l.Mutable || l.Path.ID != "y" {
		t.Fatalf("let mut: %#v", l)
	}

	wantStop(t, "let", UnexpectedEof)
	wantStop(t, "let x", UnexpectedEof)
	wantStop(t, "let x =", UnexpectedEof)
	wantStop(t, "let 5 = 3", UnexpectedToken)
}

func Test_Parse_LetSet(t *testing.T) {
	e := parseOne(t, "x = 5")
	s := e.Kind.(LetSet)
	if s.Path.ID != "x" || !EqualKind(s.Value.Kind, IntLit(5)) {
		t.Fatalf("set: %#v", s)
	}
	// `=` anchors at the symbol, like any other buffer-claiming token
	if e.Start != 2 {
		t.Fatalf("set start: %d", e.Start)
	}

	wantStop(t, "= 5", NoLeftExpr)
	wantStop(t, "5 = 3", UnexpectedToken)
}

func Test_Parse_Calls(t *testing.T) {
	e := parseOne(t, "greet()")
	if c, ok := e.Kind.(LetCall); !ok || c.Path.ID != "greet" {
		t.Fatalf("zero-arg call: %#v", e.Kind)
	}

	e = parseOne(t, "io.print(1, x, \"hi\")")
	c := e.Kind.(FunctionCall)
	if c.Path.ID != "print" || len(c.Args) != 3 {
		t.Fatalf("call: %#v", c)
	}
	if !EqualKind(c.Args[0].Kind, IntLit(1)) {
		t.Fatalf("arg 0: %#v", c.Args[0].Kind)
	}
}

func Test_Parse_Call_Args_Run_Own_Buffers(t *testing.T) {
	c := parseOne(t, "f(1 + 2, 3)").Kind.(FunctionCall)
	if len(c.Args) != 2 {
		t.Fatalf("args: %#v", c.Args)
	}
	if op, ok := c.Args[0].Kind.(Op); !ok || op.Kind != OpAdd {
		t.Fatalf("first arg should be the addition: %#v", c.Args[0].Kind)
	}
	if !EqualKind(c.Args[1].Kind, IntLit(3)) {
		t.Fatalf("second arg: %#v", c.Args[1].Kind)
	}
}

func Test_Parse_Call_Errors(t *testing.T) {
	wantStop(t, "f(", UnexpectedEof)
	wantStop(t, "f(1,", UnexpectedEof)
	wantStop(t, "f(1 2)", MultipleExpressions)
	wantStop(t, "f(,)", UnexpectedToken)
}

func Test_Parse_Class(t *testing.T) {
	e := parseOne(t, "class Foo { let x = 2 }")
	c := e.Kind.(Class)
	if c.ID != "Foo" || len(c.Body) != 1 {
		t.Fatalf("class: %#v", c)
	}
	if _, ok := c.Body[0].Kind.(Let); !ok {
		t.Fatalf("member: %#v", c.Body[0].Kind)
	}

	if c := parseOne(t, "class Empty { }").Kind.(Class); len(c.Body) != 0 {
		t.Fatalf("empty class: %#v", c)
	}
}

func Test_Parse_Class_Name_Must_Be_Local(t *testing.T) {
	stop := wantStop(t, "class a.b { }", ClassNameIsPath)
	// anchored at the offending name, not the keyword
	if stop.Offset != 6 {
		t.Fatalf("offset: %d", stop.Offset)
	}
}

func Test_Parse_Class_Unclosed(t *testing.T) {
	wantStop(t, "class Foo {", UnexpectedEof)
	wantStop(t, "class Foo { let x = 2", UnexpectedEof)
}

func Test_Parse_While(t *testing.T) {
	e := parseOne(t, "while x < 10 { break }")
	w := e.Kind.(While)
	if op, ok := w.Cond.Kind.(Op); !ok || op.Kind != OpLess {
		t.Fatalf("cond: %#v", w.Cond.Kind)
	}
	if len(w.Body) != 1 {
		t.Fatalf("body: %#v", w.Body)
	}
	if _, ok := w.Body[0].Kind.(Break); !ok {
		t.Fatalf("body[0]: %#v", w.Body[0].Kind)
	}
}

func Test_Parse_While_Condition_Is_One_Expression(t *testing.T) {
	wantStop(t, "while 1 2 { }", MultipleExpressions)
	wantStop(t, "while { }", UnexpectedToken)
	wantStop(t, "while true", UnexpectedEof)
}

func Test_Parse_Match(t *testing.T) {
	src := `match {
    x == 1 { return "one" }
    x == 2 { return "two" }
    _ { return "many" }
}`
	e := parseOne(t, src)
	m := e.Kind.(Match)
	if len(m.Segments) != 2 || !m.HasDefault {
		t.Fatalf("match: %#v", m)
	}
	if op, ok := m.Segments[0].Cond.Kind.(Op); !ok || op.Kind != OpEq {
		t.Fatalf("segment cond: %#v", m.Segments[0].Cond.Kind)
	}
	if len(m.Default) != 1 {
		t.Fatalf("default: %#v", m.Default)
	}
}

func Test_Parse_Match_Errors(t *testing.T) {
	wantStop(t, "match { _ { } _ { } }", UnexpectedToken)
	wantStop(t, "match {", UnexpectedEof)
	wantStop(t, "match true { }", UnexpectedToken)
}

func Test_Parse_Function(t *testing.T) {
	e := parseOne(t, "fun add(a, b) { return a }")
	f, ok := e.Kind.(Subprogram)
	if !ok {
		t.Fatalf("want subprogram, got %#v", e.Kind)
	}
	if f.Target != "" || f.Name != "add" {
		t.Fatalf("fun: %#v", f)
	}
	if len(f.Args) != 2 || f.Args[0] != "a" || f.Args[1] != "b" {
		t.Fatalf("params: %v", f.Args)
	}
	if len(f.Body) != 1 {
		t.Fatalf("body: %#v", f.Body)
	}
	ret, ok := f.Body[0].Kind.(Return)
	if !ok {
		t.Fatalf("body[0]: %#v", f.Body[0].Kind)
	}
	if !EqualKind(ret.Value.Kind, Path{ID: "a"}) {
		t.Fatalf("return value: %#v", ret.Value.Kind)
	}
}

func Test_Parse_Return_Value_Takes_One_Expression(t *testing.T) {
	// like a let initializer, the return value position consumes exactly
	// one expression, so the trailing operator claims the buffered Return
	// itself as its left operand
	e := parseOne(t, "fun add(a, b) { return a + b }")
	f, ok := e.Kind.(Subprogram)
	if !ok || len(f.Body) != 1 {
		t.Fatalf("fun: %#v", e.Kind)
	}
	op, ok := f.Body[0].Kind.(Op)
	if !ok || op.Kind != OpAdd {
		t.Fatalf("body[0]: %#v", f.Body[0].Kind)
	}
	ret, ok := op.Left.Kind.(Return)
	if !ok || !EqualKind(ret.Value.Kind, Path{ID: "a"}) {
		t.Fatalf("left operand: %#v", op.Left.Kind)
	}
	if !EqualKind(op.Right.Kind, Path{ID: "b"}) {
		t.Fatalf("right operand: %#v", op.Right.Kind)
	}
}

func Test_Parse_Method_Target(t *testing.T) {
	f := parseOne(t, "fun Counter.bump(n) { }").Kind.(Subprogram)
	if f.Target != "Counter" || f.Name != "bump" || len(f.Args) != 1 {
		t.Fatalf("method: %#v", f)
	}
}

func Test_Parse_Function_Errors(t *testing.T) {
	wantStop(t, "fun", UnexpectedEof)
	wantStop(t, "fun f", UnexpectedEof)
	wantStop(t, "fun f(", UnexpectedEof)
	wantStop(t, "fun f(a.b) { }", UnexpectedToken)
	wantStop(t, "fun f(a b) { }", UnexpectedToken)
	wantStop(t, "fun f()", UnexpectedEof)
}

func Test_Parse_Return_Requires_Value(t *testing.T) {
	r := parseOne(t, "return none").Kind.(Return)
	if !EqualKind(r.Value.Kind, NoneLit{}) {
		t.Fatalf("return: %#v", r)
	}
	wantStop(t, "return", UnexpectedEof)
	wantStop(t, "fun f() { return }", UnexpectedToken)
}

func Test_Parse_Doc_Attaches_To_Next(t *testing.T) {
	e := parseOne(t, "--- makes a thing\nlet x = 5")
	if e.Doc != "makes a thing" {
		t.Fatalf("doc: %q", e.Doc)
	}
	if _, ok := e.Kind.(Let); !ok {
		t.Fatalf("kind under doc: %#v", e.Kind)
	}
	// start stays the first real token
	if e.Start != 18 {
		t.Fatalf("start: %d", e.Start)
	}
}

func Test_Parse_Doc_Runs_Merge(t *testing.T) {
	e := parseOne(t, "--- first\n\n--- second\nlet x = 5")
	if e.Doc != "first\nsecond" {
		t.Fatalf("doc: %q", e.Doc)
	}
}

func Test_Parse_Trailing_Doc_Dropped(t *testing.T) {
	prog := parseOK(t, "let x = 5\n--- nothing follows")
	if len(prog) != 1 {
		t.Fatalf("program: %v", prog)
	}
	if _, ok := prog[0].Kind.(Let); !ok || prog[0].Doc != "" {
		t.Fatalf("expr: %#v doc %q", prog[0].Kind, prog[0].Doc)
	}
}

func Test_Parse_Unknown_Token(t *testing.T) {
	stop := wantStop(t, "let x = §", UnknownToken)
	if stop.Offset != 8 {
		t.Fatalf("offset: %d", stop.Offset)
	}
	if stop.Benign() {
		t.Fatalf("unknown token must not be benign")
	}
}

func Test_Parse_Brace_Inside_Unfinished_Construct_Fails(t *testing.T) {
	// a } read while an inner construct still wants tokens must fail the
	// parse, never close the enclosing block with the construct dropped
	for _, src := range []string{
		"class C { let x = }",
		"class A { while x }",
		"class B { x = }",
		"fun f() { return }",
		"while x }",
	} {
		wantStop(t, src, UnexpectedToken)
	}
}

func Test_Parse_Stray_Closers(t *testing.T) {
	wantStop(t, "}", UnexpectedToken)
	wantStop(t, ")", UnexpectedToken)
	wantStop(t, ",", UnexpectedToken)
	wantStop(t, "{", UnexpectedToken)
}

func Test_Parse_Multiple_TopLevel(t *testing.T) {
	prog := parseOK(t, "let a = 1\nlet b = 2\na = 3")
	if len(prog) != 3 {
		t.Fatalf("want 3 expressions, got %d", len(prog))
	}
	if _, ok := prog[2].Kind.(LetSet); !ok {
		t.Fatalf("third: %#v", prog[2].Kind)
	}
}

func Test_Parse_Nested_Blocks(t *testing.T) {
	src := `class Counter {
    let count = 0

    fun Counter.bump(by) {
        .count = .count + by
        match {
            .count > 100 { return true }
            _ { return false }
        }
    }
}`
	c := parseOne(t, src).Kind.(Class)
	if len(c.Body) != 2 {
		t.Fatalf("members: %d", len(c.Body))
	}
	f := c.Body[1].Kind.(Subprogram)
	if f.Target != "Counter" || len(f.Body) != 2 {
		t.Fatalf("method: %#v", f)
	}
	if _, ok := f.Body[1].Kind.(Match); !ok {
		t.Fatalf("second body expr: %#v", f.Body[1].Kind)
	}
}

func Test_ParseWith_Resumes_Cursor(t *testing.T) {
	lex := NewLexer("let a = 1")
	prog, err := ParseWith(lex)
	if err != nil || len(prog) != 1 {
		t.Fatalf("prog %v err %v", prog, err)
	}
	// the cursor is spent; a second drive yields nothing
	prog, err = ParseWith(lex)
	if err != nil || len(prog) != 0 {
		t.Fatalf("second drive: prog %v err %v", prog, err)
	}
}
