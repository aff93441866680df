// printer.go: canonical source form of an AST.
//
// Format renders a parsed program back to Jingo source such that parsing
// the output yields a structurally equal tree. There is nothing to
// parenthesize: the grammar has no grouping, and operator chains re-parse
// left-to-right exactly as they are printed.
package jingo

import (
	"strconv"
	"strings"
)

// Format renders a whole program, one top-level expression per stanza.
func Format(prog []Expr) string {
	p := &printer{}
	for i, e := range prog {
		if i > 0 {
			p.nl()
		}
		p.stmt(e)
		p.nl()
	}
	return p.b.String()
}

// FormatExpr renders a single expression without a trailing newline.
func FormatExpr(e Expr) string {
	p := &printer{}
	p.stmt(e)
	return p.b.String()
}

// Pretty parses src and returns its canonical form.
func Pretty(src string) (string, error) {
	prog, err := Parse(src)
	if err != nil {
		return "", WrapErrorWithSource(err, src)
	}
	return Format(prog), nil
}

type printer struct {
	b     strings.Builder
	depth int
}

func (p *printer) write(s string) { p.b.WriteString(s) }
func (p *printer) nl()            { p.b.WriteByte('\n') }
func (p *printer) pad() {
	for i := 0; i < p.depth; i++ {
		p.b.WriteString("    ")
	}
}

// stmt prints an expression at the current indent, with its documentation
// lines above it.
func (p *printer) stmt(e Expr) {
	if e.Doc != "" {
		for _, ln := range strings.Split(e.Doc, "\n") {
			p.pad()
			if ln == "" {
				p.write("---")
			} else {
				p.write("--- " + ln)
			}
			p.nl()
		}
	}
	p.pad()
	p.expr(e)
}

func (p *printer) expr(e Expr) {
	switch k := e.Kind.(type) {
	case Not:
		p.write("!")
		p.expr(k.Expr)

	case Op:
		p.expr(k.Left)
		p.write(" " + k.Kind.String() + " ")
		p.expr(k.Right)

	case Path:
		p.write(k.String())

	case Class:
		p.write("class " + k.ID + " {")
		p.block(k.Body)
		p.write("}")

	case Subprogram:
		p.write("fun ")
		if k.Target != "" {
			p.write(k.Target + ".")
		}
		p.write(k.Name + "(" + strings.Join(k.Args, ", ") + ") {")
		p.block(k.Body)
		p.write("}")

	case FunctionCall:
		p.write(k.Path.String() + "(")
		for i, a := range k.Args {
			if i > 0 {
				p.write(", ")
			}
			p.expr(a)
		}
		p.write(")")

	case LetCall:
		p.write(k.Path.String() + "()")

	case Match:
		p.write("match {")
		p.depth++
		for _, seg := range k.Segments {
			p.nl()
			p.pad()
			p.expr(seg.Cond)
			p.write(" {")
			p.block(seg.Body)
			p.write("}")
		}
		if k.HasDefault {
			p.nl()
			p.pad()
			p.write("_ {")
			p.block(k.Default)
			p.write("}")
		}
		p.depth--
		p.nl()
		p.pad()
		p.write("}")

	case While:
		p.write("while ")
		p.expr(k.Cond)
		p.write(" {")
		p.block(k.Body)
		p.write("}")

	case Return:
		p.write("return ")
		p.expr(k.Value)

	case Break:
		p.write("break")

	case Let:
		p.write("let ")
		if k.Mutable {
			p.write("mut ")
		}
		p.write(k.Path.String() + " = ")
		p.expr(k.Value)

	case LetSet:
		p.write(k.Path.String() + " = ")
		p.expr(k.Value)

	case IntLit:
		p.write(strconv.FormatInt(int64(k), 10))
	case FloatLit:
		p.write(formatFloat(float64(k)))
	case StrLit:
		p.write(quoteString(string(k)))
	case CharLit:
		p.write(quoteChar(rune(k)))
	case BoolLit:
		p.write(strconv.FormatBool(bool(k)))
	case NoneLit:
		p.write("none")
	case SelfRef:
		p.write("self")
	}
}

// block prints a brace body indented one level; empty bodies collapse to
// "{ }".
func (p *printer) block(body []Expr) {
	if len(body) == 0 {
		p.write(" ")
		return
	}
	p.depth++
	for _, e := range body {
		p.nl()
		p.stmt(e)
	}
	p.depth--
	p.nl()
	p.pad()
}

// formatFloat always keeps a decimal point so the literal re-lexes as a
// float.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func quoteChar(r rune) string {
	switch r {
	case '\\':
		return `'\\'`
	case '\'':
		return `'\''`
	case '\n':
		return `'\n'`
	case '\r':
		return `'\r'`
	case '\t':
		return `'\t'`
	case '\b':
		return `'\b'`
	case '\f':
		return `'\f'`
	case 0:
		return `'\0'`
	}
	if strconv.IsPrint(r) {
		return "'" + string(r) + "'"
	}
	return "'\\x" + strconv.FormatInt(int64(r), 16) + "'"
}
