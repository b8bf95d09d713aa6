// Package parser implements rill's recursive-descent parser with a
// Pratt-style precedence table for expressions.
package parser

import (
	"fmt"

	"github.com/rillscript/rill/internal/ast"
	"github.com/rillscript/rill/internal/errs"
	"github.com/rillscript/rill/internal/lexer"
)

// Precedence levels, low to high.
const (
	LOWEST int = iota
	ASSIGNMENT // = += -= *= /= %= <<= >>=  (right-assoc)
	LOGICOR    // ||
	LOGICAND   // &&
	EQUALITY   // == !=
	RELATIONAL // < <= > >=
	SHIFT      // << >>
	ADDITIVE   // + -
	MULTIPLICATIVE
	UNARY
	POSTFIX // calls, index, member, path
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN: ASSIGNMENT, lexer.PLUSEQ: ASSIGNMENT, lexer.MINUSEQ: ASSIGNMENT,
	lexer.STAREQ: ASSIGNMENT, lexer.SLASHEQ: ASSIGNMENT, lexer.PERCENTEQ: ASSIGNMENT,
	lexer.SHLEQ: ASSIGNMENT, lexer.SHREQ: ASSIGNMENT,
	lexer.OR:  LOGICOR,
	lexer.AND: LOGICAND,
	lexer.EQ:  EQUALITY, lexer.NEQ: EQUALITY,
	lexer.LT: RELATIONAL, lexer.LE: RELATIONAL, lexer.GT: RELATIONAL, lexer.GE: RELATIONAL,
	lexer.SHL: SHIFT, lexer.SHR: SHIFT,
	lexer.PLUS: ADDITIVE, lexer.MINUS: ADDITIVE,
	lexer.STAR: MULTIPLICATIVE, lexer.SLASH: MULTIPLICATIVE, lexer.PERCENT: MULTIPLICATIVE,
	lexer.LPAREN: POSTFIX, lexer.LBRACKET: POSTFIX, lexer.DOT: POSTFIX, lexer.COLONCOLON: POSTFIX,
}

// compoundBase maps a compound-assignment token to the operator it
// desugars against: `x += e` parses as `x = x + e`.
var compoundBase = map[lexer.TokenType]string{
	lexer.PLUSEQ: "+", lexer.MINUSEQ: "-", lexer.STAREQ: "*",
	lexer.SLASHEQ: "/", lexer.PERCENTEQ: "%", lexer.SHLEQ: "<<", lexer.SHREQ: ">>",
}

// Parser consumes a token stream (produced lazily from a Lexer) and builds
// an ast.Program. The grammar needs only a single current token plus the
// Pratt precedence loop below, which re-reads p.cur as "the next operator"
// after each prefix or infix handler advances past what it consumed.
type Parser struct {
	lex    *lexer.Lexer
	source string

	cur    lexer.Token
	lexErr error
}

// New constructs a Parser positioned at the first token of source.
func New(source string) *Parser {
	p := &Parser{lex: lexer.New(source), source: source}
	p.advance()
	return p
}

func (p *Parser) advance() {
	if p.lexErr != nil {
		p.cur = lexer.Token{Type: lexer.EOF}
		return
	}
	tok, err := p.lex.Next()
	if err != nil {
		p.lexErr = err
		tok = lexer.Token{Type: lexer.EOF}
	}
	p.cur = tok
}

func (p *Parser) curIs(t lexer.TokenType) bool { return p.cur.Type == t }

// expect advances past cur if it has type t, else records a ParseError.
func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curIs(t) {
		p.advance()
		return true
	}
	p.errorf("expected %s, got %s %q", t, p.cur.Type, p.cur.Literal)
	return false
}

func (p *Parser) errorf(format string, args ...any) {
	if p.lexErr != nil {
		return // a lex error already explains the failure
	}
	p.setErr(&errs.ParseError{Msg: fmt.Sprintf(format, args...), Pos: p.cur.Pos, Source: p.source})
}

func (p *Parser) setErr(err error) {
	if p.lexErr == nil {
		p.lexErr = err
	}
}

// Parse lexes and parses source into a Program, or fails with a *errs.LexError
// or *errs.ParseError.
func Parse(source string) (*ast.Program, error) {
	p := New(source)
	prog := &ast.Program{}
	for !p.curIs(lexer.EOF) {
		if p.lexErr != nil {
			return nil, p.asLexError()
		}
		stmt := p.parseStatement()
		if p.lexErr != nil {
			return nil, p.asLexError()
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

// asLexError wraps a raw *lexer.Error surfaced through p.lexErr into the
// engine's *errs.LexError kind; parser-origin errors are already typed.
func (p *Parser) asLexError() error {
	if le, ok := p.lexErr.(*lexer.Error); ok {
		return &errs.LexError{Msg: le.Msg, Pos: le.Pos, Source: p.source}
	}
	return p.lexErr
}
