// lexer.go: pull-based scanner for Jingo source.
//
// The lexer is a cursor over the raw source string. Each call to Next
// advances past exactly one lexeme (silently eating whitespace and `--`
// comments on the way) and returns the token it found. It is driven on
// demand by the parser and is never run to completion up front.
//
// Unknown input never raises an error here: the scanner returns an ILLEGAL
// token whose Lexeme holds the offending slice, and the parser turns that
// into a diagnostic with a precise byte offset.
package jingo

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// TokenKind classifies a lexeme.
type TokenKind int

const (
	// Special
	EOF TokenKind = iota
	ILLEGAL

	// Delimiters
	LPAREN // "("
	RPAREN // ")"
	LBRACE // "{"
	RBRACE // "}"
	COMMA  // ","

	// Bare symbols
	ASSIGN   // "="
	BANG     // "!"
	STAR     // "*"
	MINUS    // "-"
	WILDCARD // "_"

	// Composite binary operator; Literal carries an OpKind
	OP

	// Keywords
	MATCH
	TRUE
	FALSE
	NONE
	CLASS
	WHILE
	RETURN
	BREAK
	LET
	MUT
	FUN

	// Literals carrying data
	STRING // Literal is string
	CHAR   // Literal is rune (the codepoint)
	FLOAT  // Literal is float64
	INT    // Literal is int64
	PATH   // Literal is Path

	// One or more merged `---` lines; Literal is string
	DOC
)

var tokenKindNames = [...]string{
	EOF: "eof", ILLEGAL: "illegal",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", COMMA: ",",
	ASSIGN: "=", BANG: "!", STAR: "*", MINUS: "-", WILDCARD: "_",
	OP:    "op",
	MATCH: "match", TRUE: "true", FALSE: "false", NONE: "none",
	CLASS: "class", WHILE: "while", RETURN: "return", BREAK: "break",
	LET: "let", MUT: "mut", FUN: "fun",
	STRING: "string", CHAR: "char", FLOAT: "float", INT: "int",
	PATH: "path", DOC: "doc",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) && tokenKindNames[k] != "" {
		return tokenKindNames[k]
	}
	return "token(" + strconv.Itoa(int(k)) + ")"
}

// OpKind selects the operation of an OP token, so the parser can treat
// every binary operator as a single lexical class.
type OpKind int

const (
	OpAdd OpKind = iota
	OpSub
	OpMul
	OpDiv
	OpGreater
	OpGreaterEq
	OpLess
	OpLessEq
	OpEq
	OpNotEq
	OpAnd
	OpOr
)

var opKindNames = [...]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/",
	OpGreater: ">", OpGreaterEq: ">=", OpLess: "<", OpLessEq: "<=",
	OpEq: "==", OpNotEq: "!=", OpAnd: "and", OpOr: "or",
}

func (o OpKind) String() string { return opKindNames[o] }

// Token is a single lexeme with its half-open byte range in the source.
type Token struct {
	Kind    TokenKind
	Lexeme  string // raw text slice
	Literal any    // decoded payload for literal-bearing kinds
	Start   int    // byte offset, inclusive
	End     int    // byte offset, exclusive
}

var keywords = map[string]TokenKind{
	"match":  MATCH,
	"true":   TRUE,
	"false":  FALSE,
	"none":   NONE,
	"class":  CLASS,
	"while":  WHILE,
	"return": RETURN,
	"break":  BREAK,
	"let":    LET,
	"mut":    MUT,
	"fun":    FUN,
}

// wordOps are identifier-shaped operators; they lex straight to OP.
var wordOps = map[string]OpKind{
	"and": OpAnd,
	"or":  OpOr,
}

// Lexer scans Jingo source one token at a time.
type Lexer struct {
	src   string
	start int // start index of current token
	cur   int // current index
}

// NewLexer creates a lexer over the given, fully decoded source text.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	return ch, true
}

// match consumes the next byte when it equals b.
func (l *Lexer) match(b byte) bool {
	if c, ok := l.peek(); ok && c == b {
		l.cur++
		return true
	}
	return false
}

func (l *Lexer) make(kind TokenKind, lit any) Token {
	return Token{
		Kind:    kind,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Start:   l.start,
		End:     l.cur,
	}
}

func (l *Lexer) illegal() Token { return l.make(ILLEGAL, nil) }

func (l *Lexer) skipWhitespace() {
	for {
		b, ok := l.peek()
		if !ok {
			return
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			l.cur++
		default:
			return
		}
	}
}

// skipLine eats until the next '\n' without consuming it.
func (l *Lexer) skipLine() {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			return
		}
		l.cur++
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

// Next returns the next token. The cursor position strictly increases; a
// returned token is never offered again. At end of input it returns EOF
// forever.
func (l *Lexer) Next() Token {
	for {
		l.skipWhitespace()
		l.start = l.cur

		if l.isAtEnd() {
			return l.make(EOF, nil)
		}

		ch, _ := l.advance()

		switch ch {
		case '(':
			return l.make(LPAREN, nil)
		case ')':
			return l.make(RPAREN, nil)
		case '{':
			return l.make(LBRACE, nil)
		case '}':
			return l.make(RBRACE, nil)
		case ',':
			return l.make(COMMA, nil)
		case '*':
			return l.make(STAR, nil)
		case '+':
			return l.make(OP, OpAdd)
		case '/':
			return l.make(OP, OpDiv)
		case '=':
			if l.match('=') {
				return l.make(OP, OpEq)
			}
			return l.make(ASSIGN, nil)
		case '!':
			if l.match('=') {
				return l.make(OP, OpNotEq)
			}
			return l.make(BANG, nil)
		case '<':
			if l.match('=') {
				return l.make(OP, OpLessEq)
			}
			return l.make(OP, OpLess)
		case '>':
			if l.match('=') {
				return l.make(OP, OpGreaterEq)
			}
			return l.make(OP, OpGreater)
		case '-':
			if l.match('-') {
				if l.match('-') {
					return l.make(DOC, l.scanDocRun())
				}
				// `--` line comment, consumed silently
				l.skipLine()
				continue
			}
			return l.make(MINUS, nil)
		case '"':
			return l.scanString()
		case '\'':
			return l.scanChar()
		case '.':
			if b, ok := l.peek(); ok && isAlpha(b) {
				return l.scanPath(true)
			}
			return l.illegal()
		}

		if isDigit(ch) {
			l.cur = l.start
			return l.scanNumber()
		}
		if isAlpha(ch) {
			l.cur = l.start
			return l.scanPath(false)
		}

		// No lexical rule matches; the offending slice stays in Lexeme.
		if ch >= utf8.RuneSelf {
			l.cur--
			_, size := utf8.DecodeRuneInString(l.src[l.cur:])
			l.cur += size
		}
		return l.illegal()
	}
}

// restOfLine consumes up to (not including) the next newline and returns
// the consumed slice.
func (l *Lexer) restOfLine() string {
	from := l.cur
	l.skipLine()
	return l.src[from:l.cur]
}

// scanDocRun merges consecutive `---` lines, newline-joined, each with the
// marker and surrounding whitespace stripped. The run is broken by a blank
// line, a `--` comment or any other content. The leading `---` was already
// consumed by the caller.
func (l *Lexer) scanDocRun() string {
	lines := []string{strings.TrimSpace(l.restOfLine())}
	for {
		save := l.cur
		if !l.match('\n') {
			break
		}
		for {
			b, ok := l.peek()
			if !ok || (b != ' ' && b != '\t' && b != '\r') {
				break
			}
			l.cur++
		}
		if strings.HasPrefix(l.src[l.cur:], "---") {
			l.cur += 3
			lines = append(lines, strings.TrimSpace(l.restOfLine()))
			continue
		}
		l.cur = save
		break
	}
	return strings.Join(lines, "\n")
}

// scanString decodes a double-quoted string literal. Escape handling is
// optimistic: recognized escapes decode, anything else keeps the escaped
// byte verbatim. An unterminated literal (including one ended by a lone
// trailing backslash swallowing the closing quote) is ILLEGAL.
func (l *Lexer) scanString() Token {
	var out []rune
	for !l.isAtEnd() {
		ch, _ := l.advance()
		if ch == '"' {
			return l.make(STRING, string(out))
		}
		if ch == '\\' {
			esc, ok := l.advance()
			if !ok {
				return l.illegal()
			}
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '0':
				out = append(out, 0)
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			default:
				out = append(out, rune(esc))
			}
			continue
		}
		if ch < utf8.RuneSelf {
			out = append(out, rune(ch))
			continue
		}
		l.cur--
		r, size := utf8.DecodeRuneInString(l.src[l.cur:])
		out = append(out, r)
		l.cur += size
	}
	return l.illegal()
}

// scanChar decodes a character literal: exactly one raw character or one
// recognized escape between single quotes. The payload is the numeric
// codepoint.
func (l *Lexer) scanChar() Token {
	ch, ok := l.advance()
	if !ok || ch == '\'' {
		return l.illegal()
	}

	var r rune
	switch {
	case ch == '\\':
		esc, ok := l.advance()
		if !ok {
			return l.illegal()
		}
		switch esc {
		case 'n':
			r = '\n'
		case 'r':
			r = '\r'
		case 't':
			r = '\t'
		case 'b':
			r = '\b'
		case 'f':
			r = '\f'
		case '0':
			r = 0
		case '\'':
			r = '\''
		case '\\':
			r = '\\'
		case 'x':
			// 1 to 8 hex digits
			from := l.cur
			for l.cur-from < 8 {
				b, ok := l.peek()
				if !ok || !isHex(b) {
					break
				}
				l.cur++
			}
			if l.cur == from {
				return l.illegal()
			}
			v, err := strconv.ParseUint(l.src[from:l.cur], 16, 64)
			if err != nil || v > 0x10FFFF {
				return l.illegal()
			}
			r = rune(v)
		default:
			return l.illegal()
		}
	case ch < utf8.RuneSelf:
		r = rune(ch)
	default:
		l.cur--
		var size int
		r, size = utf8.DecodeRuneInString(l.src[l.cur:])
		l.cur += size
	}

	if !l.match('\'') {
		return l.illegal()
	}
	return l.make(CHAR, r)
}

// scanNumber reads an integer, turning into a float once a '.' is seen.
// A second '.' is an immediate lexical failure rather than being absorbed.
func (l *Lexer) scanNumber() Token {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.cur++
	}

	if b, ok := l.peek(); ok && b == '.' {
		l.cur++
		for {
			b, ok := l.peek()
			if !ok || !isDigit(b) {
				break
			}
			l.cur++
		}
		if b, ok := l.peek(); ok && b == '.' {
			l.cur++
			return l.illegal()
		}
		v, err := strconv.ParseFloat(l.src[l.start:l.cur], 64)
		if err != nil {
			return l.illegal()
		}
		return l.make(FLOAT, v)
	}

	v, err := strconv.ParseInt(l.src[l.start:l.cur], 10, 64)
	if err != nil {
		return l.illegal()
	}
	return l.make(INT, v)
}

func (l *Lexer) scanIdent() string {
	from := l.cur
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.cur++
	}
	return l.src[from:l.cur]
}

// scanPath reads a dotted identifier chain. A rooted (leading-dot) path is
// scoped to the enclosing instance, which reads as a `self` field. Bare
// single identifiers resolve to keywords and word operators first.
func (l *Lexer) scanPath(rooted bool) Token {
	var parts []string
	if rooted {
		parts = append(parts, "self")
	}
	parts = append(parts, l.scanIdent())

	for {
		b, ok := l.peek()
		if !ok || b != '.' {
			break
		}
		b2, ok2 := l.peekN(1)
		if !ok2 || !isAlpha(b2) {
			break
		}
		l.cur++ // '.'
		parts = append(parts, l.scanIdent())
	}

	if !rooted && len(parts) == 1 {
		word := parts[0]
		if kind, ok := keywords[word]; ok {
			return l.make(kind, nil)
		}
		if op, ok := wordOps[word]; ok {
			return l.make(OP, op)
		}
		if word == "_" {
			return l.make(WILDCARD, nil)
		}
	}

	p := Path{Fields: parts[:len(parts)-1], ID: parts[len(parts)-1]}
	return l.make(PATH, p)
}
