// parser.go: single-pass recursive descent over a live lexer cursor.
//
// The parser does not tokenize-then-parse; it interleaves, pulling one
// token at a time and keeping a single token of lookahead over the lexer.
//
// The central mechanism is the one-slot expression lookahead buffer. Each
// context (the top level, every block body, every condition, every call
// argument) owns its own buffer and passes it explicitly through the
// recursion. `next` parses one expression given that buffer; when it meets
// a binary-operator token it does not parse a prefix expression; it takes
// ownership of whatever expression is buffered as the operator's left
// operand (NoLeftExpr when the buffer is empty), parses exactly one right
// operand with a fresh buffer, and the combined node becomes the new
// buffer contents. A buffered expression is committed to the output only
// when a new expression is about to replace it.
//
// There are no precedence levels: a run of operators applies left-to-right
// from whatever was most recently buffered.
//
// A stop that escapes a construct mid-parse is marked nested; the body and
// condition routines reclaim a terminator token only from unmarked stops,
// so a brace read inside an unfinished let or condition fails the parse
// instead of quietly closing the enclosing block.
//
// Recursion depth is proportional to source nesting; callers feeding
// untrusted input should bound it upstream.
package jingo

import (
	"errors"
	"strings"
)

// Parse tokenizes and parses a complete source text into its ordered
// top-level expressions.
func Parse(src string) ([]Expr, error) {
	return ParseWith(NewLexer(src))
}

// ParseWith drives an existing lexer cursor to the end of its input.
func ParseWith(lex *Lexer) ([]Expr, error) {
	p := &parser{lex: lex}
	return p.program()
}

type parser struct {
	lex      *Lexer
	peeked   Token
	havePeek bool
}

func (p *parser) advanceTok() Token {
	if p.havePeek {
		p.havePeek = false
		return p.peeked
	}
	return p.lex.Next()
}

func (p *parser) peekTok() Token {
	if !p.havePeek {
		p.peeked = p.lex.Next()
		p.havePeek = true
	}
	return p.peeked
}

// need consumes the next token and requires the given kind. Its failures
// are always mid-construct, so they are marked nested.
func (p *parser) need(kind TokenKind) (Token, error) {
	tok := p.advanceTok()
	if tok.Kind == kind {
		return tok, nil
	}
	if tok.Kind == EOF {
		return Token{}, &ParseStop{Kind: UnexpectedEof, Offset: tok.Start, Nested: true}
	}
	return Token{}, &ParseStop{Kind: UnexpectedToken, Offset: tok.Start, Tok: tok, Nested: true}
}

func asStop(err error) *ParseStop {
	var stop *ParseStop
	if errors.As(err, &stop) {
		return stop
	}
	return nil
}

// intoEof converts the benign end-of-input signal into a hard failure, for
// contexts that are mid-construct when the input runs out.
func intoEof(err error) error {
	if stop := asStop(err); stop != nil && stop.Kind == FileEnded {
		return &ParseStop{Kind: UnexpectedEof, Offset: stop.Offset}
	}
	return err
}

// program runs the top-level loop: FileEnded is the expected way it stops,
// flushing the final buffered expression.
func (p *parser) program() ([]Expr, error) {
	var out []Expr
	var buf *Expr
	for {
		e, err := p.next(&buf, "")
		if err != nil {
			if stop := asStop(err); stop != nil && stop.Benign() {
				if buf != nil {
					out = append(out, *buf)
				}
				return out, nil
			}
			return nil, err
		}
		if buf != nil {
			out = append(out, *buf)
		}
		claimed := e
		buf = &claimed
	}
}

// next parses one expression. buf is the caller's lookahead slot: operator
// tokens steal its contents for their left operand. doc carries the text of
// documentation tokens already skipped; it attaches to the expression
// produced here, whose Start remains the first non-doc token.
func (p *parser) next(buf **Expr, doc string) (Expr, error) {
	tok := p.advanceTok()

	switch tok.Kind {
	case EOF:
		return Expr{}, &ParseStop{Kind: FileEnded, Offset: tok.Start}

	case ILLEGAL:
		return Expr{}, &ParseStop{Kind: UnknownToken, Offset: tok.Start, Tok: tok}

	case DOC:
		// Forward: the doc text rides down to whatever real expression
		// follows. Adjacent doc tokens merge through the recursion.
		text := tok.Literal.(string)
		if doc != "" {
			text = doc + "\n" + text
		}
		return p.next(buf, text)

	case INT:
		return Expr{Kind: IntLit(tok.Literal.(int64)), Doc: doc, Start: tok.Start}, nil
	case FLOAT:
		return Expr{Kind: FloatLit(tok.Literal.(float64)), Doc: doc, Start: tok.Start}, nil
	case STRING:
		return Expr{Kind: StrLit(tok.Literal.(string)), Doc: doc, Start: tok.Start}, nil
	case CHAR:
		return Expr{Kind: CharLit(tok.Literal.(rune)), Doc: doc, Start: tok.Start}, nil
	case TRUE:
		return Expr{Kind: BoolLit(true), Doc: doc, Start: tok.Start}, nil
	case FALSE:
		return Expr{Kind: BoolLit(false), Doc: doc, Start: tok.Start}, nil
	case NONE:
		return Expr{Kind: NoneLit{}, Doc: doc, Start: tok.Start}, nil

	case PATH:
		return p.pathExpr(tok, doc)

	case OP:
		return p.opExpr(tok, tok.Literal.(OpKind), buf, doc)
	case MINUS:
		return p.opExpr(tok, OpSub, buf, doc)
	case STAR:
		return p.opExpr(tok, OpMul, buf, doc)

	case ASSIGN:
		return p.assignExpr(tok, buf, doc)

	case BANG:
		inner, err := p.one()
		if err != nil {
			return Expr{}, err
		}
		return Expr{Kind: Not{Expr: inner}, Doc: doc, Start: tok.Start}, nil

	case RETURN:
		val, err := p.one()
		if err != nil {
			return Expr{}, err
		}
		return Expr{Kind: Return{Value: val}, Doc: doc, Start: tok.Start}, nil

	case BREAK:
		return Expr{Kind: Break{}, Doc: doc, Start: tok.Start}, nil

	case LET:
		return p.letFlow(tok, doc)
	case CLASS:
		return p.classFlow(tok, doc)
	case WHILE:
		return p.whileFlow(tok, doc)
	case MATCH:
		return p.matchFlow(tok, doc)
	case FUN:
		return p.subprogramFlow(tok, doc)
	}

	// Delimiters and keywords with no construct here: stray closing braces
	// land here too, and block routines reclaim them as their terminator.
	return Expr{}, &ParseStop{Kind: UnexpectedToken, Offset: tok.Start, Tok: tok}
}

// one parses exactly one complete expression with a fresh, empty buffer.
// Running out of input here is always a hard failure, and any stop crosses
// a construct boundary on the way out, so it is marked nested.
func (p *parser) one() (Expr, error) {
	var fresh *Expr
	e, err := p.next(&fresh, "")
	if err != nil {
		err = intoEof(err)
		if stop := asStop(err); stop != nil {
			stop.Nested = true
		}
		return Expr{}, err
	}
	return e, nil
}

// oneUntil parses one expression under its own buffer until a token from
// stops surfaces as unexpected; that token is consumed, not re-offered.
// The second return is the stop token kind that ended the expression.
func (p *parser) oneUntil(stops ...TokenKind) (Expr, TokenKind, error) {
	var buf *Expr
	for {
		e, err := p.next(&buf, "")
		if err != nil {
			stop := asStop(err)
			if stop != nil && stop.Kind == UnexpectedToken && !stop.Nested {
				for _, s := range stops {
					if stop.Tok.Kind == s {
						if buf == nil {
							// Terminator with nothing parsed yet.
							stop.Nested = true
							return Expr{}, 0, err
						}
						return *buf, s, nil
					}
				}
			}
			if stop != nil {
				stop.Nested = true
			}
			return Expr{}, 0, intoEof(err)
		}
		if buf != nil {
			return Expr{}, 0, &ParseStop{Kind: MultipleExpressions, Offset: e.Start}
		}
		claimed := e
		buf = &claimed
	}
}

// condition parses the single controlling expression of while/match
// segments; the block's opening brace terminates it and is consumed.
func (p *parser) condition() (Expr, error) {
	e, _, err := p.oneUntil(LBRACE)
	return e, err
}

// body parses expressions under the buffer protocol until a stray closing
// brace surfaces as an unexpected-token failure, which is the block's
// normal, successful end. A nested-marked brace came out of an unfinished
// inner construct and stays a failure.
func (p *parser) body() ([]Expr, error) {
	var out []Expr
	var buf *Expr
	for {
		e, err := p.next(&buf, "")
		if err != nil {
			stop := asStop(err)
			if stop != nil && stop.Kind == UnexpectedToken &&
				!stop.Nested && stop.Tok.Kind == RBRACE {
				if buf != nil {
					out = append(out, *buf)
				}
				return out, nil
			}
			if stop != nil {
				stop.Nested = true
			}
			return nil, intoEof(err)
		}
		if buf != nil {
			out = append(out, *buf)
		}
		claimed := e
		buf = &claimed
	}
}

// pathExpr resolves a PATH token: a call when a parenthesis follows
// immediately, the self reference for a bare `self`, a plain path read
// otherwise.
func (p *parser) pathExpr(tok Token, doc string) (Expr, error) {
	pa := tok.Literal.(Path)

	if p.peekTok().Kind == LPAREN {
		p.advanceTok()
		args, err := p.callArgs()
		if err != nil {
			return Expr{}, err
		}
		if len(args) == 0 {
			return Expr{Kind: LetCall{Path: pa}, Doc: doc, Start: tok.Start}, nil
		}
		return Expr{Kind: FunctionCall{Path: pa, Args: args}, Doc: doc, Start: tok.Start}, nil
	}

	if pa.Local() && pa.ID == "self" {
		return Expr{Kind: SelfRef{}, Doc: doc, Start: tok.Start}, nil
	}
	return Expr{Kind: pa, Doc: doc, Start: tok.Start}, nil
}

// callArgs parses a comma-separated argument list after the opening
// parenthesis, each argument under its own buffer.
func (p *parser) callArgs() ([]Expr, error) {
	if p.peekTok().Kind == RPAREN {
		p.advanceTok()
		return nil, nil
	}
	var args []Expr
	for {
		arg, stopKind, err := p.oneUntil(COMMA, RPAREN)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if stopKind == RPAREN {
			return args, nil
		}
	}
}

// opExpr claims the buffered expression as the operator's left operand and
// parses exactly one right operand. The node's Start is the operator
// token, not the left operand.
func (p *parser) opExpr(tok Token, kind OpKind, buf **Expr, doc string) (Expr, error) {
	if *buf == nil {
		return Expr{}, &ParseStop{Kind: NoLeftExpr, Offset: tok.Start, Tok: tok}
	}
	left := **buf
	*buf = nil

	right, err := p.one()
	if err != nil {
		return Expr{}, err
	}
	return Expr{
		Kind:  Op{Left: left, Right: right, Kind: kind},
		Doc:   doc,
		Start: tok.Start,
	}, nil
}

// assignExpr handles `=`: like an operator it claims the buffered left
// expression, which must be a plain path read.
func (p *parser) assignExpr(tok Token, buf **Expr, doc string) (Expr, error) {
	if *buf == nil {
		return Expr{}, &ParseStop{Kind: NoLeftExpr, Offset: tok.Start, Tok: tok}
	}
	target, ok := (*buf).Kind.(Path)
	if !ok {
		return Expr{}, &ParseStop{Kind: UnexpectedToken, Offset: tok.Start, Tok: tok, Nested: true}
	}
	*buf = nil

	val, err := p.one()
	if err != nil {
		return Expr{}, err
	}
	return Expr{Kind: LetSet{Path: target, Value: val}, Doc: doc, Start: tok.Start}, nil
}

// letFlow: optional `mut`, a path, a required `=`, one expression.
func (p *parser) letFlow(kw Token, doc string) (Expr, error) {
	mutable := false
	if p.peekTok().Kind == MUT {
		p.advanceTok()
		mutable = true
	}
	nameTok, err := p.need(PATH)
	if err != nil {
		return Expr{}, err
	}
	if _, err := p.need(ASSIGN); err != nil {
		return Expr{}, err
	}
	val, err := p.one()
	if err != nil {
		return Expr{}, err
	}
	return Expr{
		Kind:  Let{Path: nameTok.Literal.(Path), Mutable: mutable, Value: val},
		Doc:   doc,
		Start: kw.Start,
	}, nil
}

// classFlow: an unqualified name, `{`, body.
func (p *parser) classFlow(kw Token, doc string) (Expr, error) {
	nameTok, err := p.need(PATH)
	if err != nil {
		return Expr{}, err
	}
	name := nameTok.Literal.(Path)
	if !name.Local() {
		return Expr{}, &ParseStop{Kind: ClassNameIsPath, Offset: nameTok.Start, Tok: nameTok}
	}
	if _, err := p.need(LBRACE); err != nil {
		return Expr{}, err
	}
	members, err := p.body()
	if err != nil {
		return Expr{}, err
	}
	return Expr{Kind: Class{ID: name.ID, Body: members}, Doc: doc, Start: kw.Start}, nil
}

// whileFlow: condition, then body.
func (p *parser) whileFlow(kw Token, doc string) (Expr, error) {
	cond, err := p.condition()
	if err != nil {
		return Expr{}, err
	}
	loop, err := p.body()
	if err != nil {
		return Expr{}, err
	}
	return Expr{Kind: While{Cond: cond, Body: loop}, Doc: doc, Start: kw.Start}, nil
}

// matchFlow: `{`, then condition/body segments; a wildcard segment is the
// default body; `}` ends the match.
func (p *parser) matchFlow(kw Token, doc string) (Expr, error) {
	if _, err := p.need(LBRACE); err != nil {
		return Expr{}, err
	}
	var m Match
	for {
		switch p.peekTok().Kind {
		case RBRACE:
			p.advanceTok()
			return Expr{Kind: m, Doc: doc, Start: kw.Start}, nil
		case EOF:
			tok := p.advanceTok()
			return Expr{}, &ParseStop{Kind: UnexpectedEof, Offset: tok.Start}
		case WILDCARD:
			tok := p.advanceTok()
			if m.HasDefault {
				return Expr{}, &ParseStop{Kind: UnexpectedToken, Offset: tok.Start, Tok: tok, Nested: true}
			}
			if _, err := p.need(LBRACE); err != nil {
				return Expr{}, err
			}
			deflt, err := p.body()
			if err != nil {
				return Expr{}, err
			}
			m.Default = deflt
			m.HasDefault = true
		default:
			cond, err := p.condition()
			if err != nil {
				return Expr{}, err
			}
			segBody, err := p.body()
			if err != nil {
				return Expr{}, err
			}
			m.Segments = append(m.Segments, MatchSegment{Cond: cond, Body: segBody})
		}
	}
}

// subprogramFlow: a path whose fields name the method target, `(`,
// comma-separated unqualified parameter names, `)`, `{`, body.
func (p *parser) subprogramFlow(kw Token, doc string) (Expr, error) {
	nameTok, err := p.need(PATH)
	if err != nil {
		return Expr{}, err
	}
	name := nameTok.Literal.(Path)

	if _, err := p.need(LPAREN); err != nil {
		return Expr{}, err
	}
	args, err := p.paramNames()
	if err != nil {
		return Expr{}, err
	}
	if _, err := p.need(LBRACE); err != nil {
		return Expr{}, err
	}
	members, err := p.body()
	if err != nil {
		return Expr{}, err
	}
	return Expr{
		Kind: Subprogram{
			Target: strings.Join(name.Fields, "."),
			Name:   name.ID,
			Args:   args,
			Body:   members,
		},
		Doc:   doc,
		Start: kw.Start,
	}, nil
}

// paramNames reads the parameter identifiers of a declaration up to the
// closing parenthesis. Each must be an unqualified name.
func (p *parser) paramNames() ([]string, error) {
	if p.peekTok().Kind == RPAREN {
		p.advanceTok()
		return nil, nil
	}
	var args []string
	for {
		tok, err := p.need(PATH)
		if err != nil {
			return nil, err
		}
		name := tok.Literal.(Path)
		if !name.Local() {
			return nil, &ParseStop{Kind: UnexpectedToken, Offset: tok.Start, Tok: tok, Nested: true}
		}
		args = append(args, name.ID)

		sep := p.advanceTok()
		switch sep.Kind {
		case COMMA:
			continue
		case RPAREN:
			return args, nil
		case EOF:
			return nil, &ParseStop{Kind: UnexpectedEof, Offset: sep.Start, Nested: true}
		default:
			return nil, &ParseStop{Kind: UnexpectedToken, Offset: sep.Start, Tok: sep, Nested: true}
		}
	}
}
