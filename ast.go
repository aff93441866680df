// ast.go: the Jingo AST.
//
// Every node the parser can produce is an Expr envelope around a closed
// ExprKind union. Nodes are built once, at the moment their governing token
// is consumed, and never mutated afterwards; children are owned exclusively
// by their parent, so the tree has no shared or back references.
package jingo

import (
	"fmt"
	"strconv"
	"strings"
)

// Path is a scoped name: zero or more scoping field identifiers plus a
// terminal identifier. Empty Fields means an unqualified local name.
type Path struct {
	Fields []string
	ID     string
}

// Local reports whether the path is a bare, unscoped identifier.
func (p Path) Local() bool { return len(p.Fields) == 0 }

// SelfScoped reports whether the path reads a member of the enclosing
// instance (spelled with a leading dot in source).
func (p Path) SelfScoped() bool { return len(p.Fields) > 0 && p.Fields[0] == "self" }

func (p Path) String() string {
	if p.SelfScoped() {
		rest := append(append([]string{}, p.Fields[1:]...), p.ID)
		return "." + strings.Join(rest, ".")
	}
	return strings.Join(append(append([]string{}, p.Fields...), p.ID), ".")
}

// Expr is the envelope for every node: the payload, an optional attached
// documentation string, and the byte offset of the first token consumed for
// the expression (doc tokens skipped to reach it do not move Start).
type Expr struct {
	Kind  ExprKind
	Doc   string
	Start int
}

// ExprKind is the closed union of node payloads.
type ExprKind interface{ exprKind() }

// Not negates its inner expression ("!x").
type Not struct{ Expr Expr }

// Op applies a binary operator to two operands. Operators combine
// left-to-right with no precedence levels; see the parser notes.
type Op struct {
	Left  Expr
	Right Expr
	Kind  OpKind
}

// Class declares a class with an unqualified name and a body of members.
type Class struct {
	ID   string
	Body []Expr
}

// Subprogram is a function declaration. A non-empty Target names the class
// the subprogram is a method of; free functions have an empty Target.
type Subprogram struct {
	Target string
	Name   string
	Args   []string
	Body   []Expr
}

// FunctionCall invokes a path with one or more arguments.
type FunctionCall struct {
	Path Path
	Args []Expr
}

// LetCall invokes a path with no arguments.
type LetCall struct{ Path Path }

// MatchSegment is one condition/body arm of a Match.
type MatchSegment struct {
	Cond Expr
	Body []Expr
}

// Match selects the first segment whose condition holds; the wildcard
// segment, when present, is the default body.
type Match struct {
	Segments   []MatchSegment
	Default    []Expr
	HasDefault bool
}

// While loops over its body as long as the condition holds.
type While struct {
	Cond Expr
	Body []Expr
}

// Return yields a value from the enclosing subprogram.
type Return struct{ Value Expr }

// Break exits the enclosing loop.
type Break struct{}

// Let binds a new name to a value, optionally mutable.
type Let struct {
	Path    Path
	Mutable bool
	Value   Expr
}

// LetSet assigns a new value to an existing binding.
type LetSet struct {
	Path  Path
	Value Expr
}

// Literals and references.
type (
	IntLit   int64
	FloatLit float64
	StrLit   string
	CharLit  rune
	BoolLit  bool
	NoneLit  struct{}
	SelfRef  struct{}
)

func (Not) exprKind()          {}
func (Op) exprKind()           {}
func (Path) exprKind()         {}
func (Class) exprKind()        {}
func (Subprogram) exprKind()   {}
func (FunctionCall) exprKind() {}
func (LetCall) exprKind()      {}
func (Match) exprKind()        {}
func (While) exprKind()        {}
func (Return) exprKind()       {}
func (Break) exprKind()        {}
func (Let) exprKind()          {}
func (LetSet) exprKind()       {}
func (IntLit) exprKind()       {}
func (FloatLit) exprKind()     {}
func (StrLit) exprKind()       {}
func (CharLit) exprKind()      {}
func (BoolLit) exprKind()      {}
func (NoneLit) exprKind()      {}
func (SelfRef) exprKind()      {}

// EqualExpr reports structural equality of two expressions, ignoring byte
// offsets but comparing attached documentation.
func EqualExpr(a, b Expr) bool {
	return a.Doc == b.Doc && EqualKind(a.Kind, b.Kind)
}

// EqualKind reports structural equality of two payloads, ignoring the byte
// offsets and documentation of nested expressions.
func EqualKind(a, b ExprKind) bool {
	switch x := a.(type) {
	case Not:
		y, ok := b.(Not)
		return ok && EqualKind(x.Expr.Kind, y.Expr.Kind)
	case Op:
		y, ok := b.(Op)
		return ok && x.Kind == y.Kind &&
			EqualKind(x.Left.Kind, y.Left.Kind) && EqualKind(x.Right.Kind, y.Right.Kind)
	case Path:
		y, ok := b.(Path)
		return ok && equalPath(x, y)
	case Class:
		y, ok := b.(Class)
		return ok && x.ID == y.ID && equalBody(x.Body, y.Body)
	case Subprogram:
		y, ok := b.(Subprogram)
		return ok && x.Target == y.Target && x.Name == y.Name &&
			equalStrings(x.Args, y.Args) && equalBody(x.Body, y.Body)
	case FunctionCall:
		y, ok := b.(FunctionCall)
		return ok && equalPath(x.Path, y.Path) && equalBody(x.Args, y.Args)
	case LetCall:
		y, ok := b.(LetCall)
		return ok && equalPath(x.Path, y.Path)
	case Match:
		y, ok := b.(Match)
		if !ok || len(x.Segments) != len(y.Segments) || x.HasDefault != y.HasDefault {
			return false
		}
		for i := range x.Segments {
			if !EqualKind(x.Segments[i].Cond.Kind, y.Segments[i].Cond.Kind) ||
				!equalBody(x.Segments[i].Body, y.Segments[i].Body) {
				return false
			}
		}
		return equalBody(x.Default, y.Default)
	case While:
		y, ok := b.(While)
		return ok && EqualKind(x.Cond.Kind, y.Cond.Kind) && equalBody(x.Body, y.Body)
	case Return:
		y, ok := b.(Return)
		return ok && EqualKind(x.Value.Kind, y.Value.Kind)
	case Break:
		_, ok := b.(Break)
		return ok
	case Let:
		y, ok := b.(Let)
		return ok && x.Mutable == y.Mutable && equalPath(x.Path, y.Path) &&
			EqualKind(x.Value.Kind, y.Value.Kind)
	case LetSet:
		y, ok := b.(LetSet)
		return ok && equalPath(x.Path, y.Path) && EqualKind(x.Value.Kind, y.Value.Kind)
	case IntLit:
		y, ok := b.(IntLit)
		return ok && x == y
	case FloatLit:
		y, ok := b.(FloatLit)
		return ok && x == y
	case StrLit:
		y, ok := b.(StrLit)
		return ok && x == y
	case CharLit:
		y, ok := b.(CharLit)
		return ok && x == y
	case BoolLit:
		y, ok := b.(BoolLit)
		return ok && x == y
	case NoneLit:
		_, ok := b.(NoneLit)
		return ok
	case SelfRef:
		_, ok := b.(SelfRef)
		return ok
	}
	return false
}

func equalPath(a, b Path) bool {
	return a.ID == b.ID && equalStrings(a.Fields, b.Fields)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalBody(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualKind(a[i].Kind, b[i].Kind) {
			return false
		}
	}
	return true
}

// Sexpr renders an expression as a compact s-expression, the debug form the
// `parse` command prints.
func Sexpr(e Expr) string {
	var b strings.Builder
	writeSexpr(&b, e)
	return b.String()
}

// SexprProgram renders a whole program, one top-level node per line.
func SexprProgram(prog []Expr) string {
	lines := make([]string, 0, len(prog))
	for _, e := range prog {
		lines = append(lines, Sexpr(e))
	}
	return strings.Join(lines, "\n")
}

func writeSexpr(b *strings.Builder, e Expr) {
	switch k := e.Kind.(type) {
	case Not:
		sexprList(b, "not", k.Expr)
	case Op:
		sexprList(b, k.Kind.String(), k.Left, k.Right)
	case Path:
		fmt.Fprintf(b, "(path %s)", k)
	case Class:
		b.WriteString("(class " + k.ID)
		sexprBody(b, k.Body)
		b.WriteByte(')')
	case Subprogram:
		b.WriteString("(fun ")
		if k.Target != "" {
			b.WriteString(k.Target + ".")
		}
		b.WriteString(k.Name + " (" + strings.Join(k.Args, " ") + ")")
		sexprBody(b, k.Body)
		b.WriteByte(')')
	case FunctionCall:
		b.WriteString("(call " + k.Path.String())
		for _, a := range k.Args {
			b.WriteByte(' ')
			writeSexpr(b, a)
		}
		b.WriteByte(')')
	case LetCall:
		fmt.Fprintf(b, "(call %s)", k.Path)
	case Match:
		b.WriteString("(match")
		for _, seg := range k.Segments {
			b.WriteString(" (")
			writeSexpr(b, seg.Cond)
			sexprBody(b, seg.Body)
			b.WriteByte(')')
		}
		if k.HasDefault {
			b.WriteString(" (_")
			sexprBody(b, k.Default)
			b.WriteByte(')')
		}
		b.WriteByte(')')
	case While:
		b.WriteString("(while ")
		writeSexpr(b, k.Cond)
		sexprBody(b, k.Body)
		b.WriteByte(')')
	case Return:
		sexprList(b, "return", k.Value)
	case Break:
		b.WriteString("(break)")
	case Let:
		b.WriteString("(let ")
		if k.Mutable {
			b.WriteString("mut ")
		}
		b.WriteString(k.Path.String() + " ")
		writeSexpr(b, k.Value)
		b.WriteByte(')')
	case LetSet:
		b.WriteString("(set " + k.Path.String() + " ")
		writeSexpr(b, k.Value)
		b.WriteByte(')')
	case IntLit:
		b.WriteString(strconv.FormatInt(int64(k), 10))
	case FloatLit:
		b.WriteString(formatFloat(float64(k)))
	case StrLit:
		b.WriteString(quoteString(string(k)))
	case CharLit:
		b.WriteString(quoteChar(rune(k)))
	case BoolLit:
		b.WriteString(strconv.FormatBool(bool(k)))
	case NoneLit:
		b.WriteString("none")
	case SelfRef:
		b.WriteString("self")
	default:
		b.WriteString("(?)")
	}
}

func sexprList(b *strings.Builder, tag string, kids ...Expr) {
	b.WriteString("(" + tag)
	for _, k := range kids {
		b.WriteByte(' ')
		writeSexpr(b, k)
	}
	b.WriteByte(')')
}

func sexprBody(b *strings.Builder, body []Expr) {
	for _, e := range body {
		b.WriteByte(' ')
		writeSexpr(b, e)
	}
}
