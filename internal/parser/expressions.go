package parser

import (
	"strconv"

	"github.com/rillscript/rill/internal/ast"
	"github.com/rillscript/rill/internal/lexer"
)

// parseExpression implements Pratt-style precedence climbing: a prefix
// parser produces the left operand, then a loop consumes infix/postfix
// operators whose precedence is strictly greater than the caller's.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for !p.curIs(lexer.SEMI) && precedence < p.curPrecedenceAfterLeft() {
		switch p.cur.Type {
		case lexer.LPAREN:
			left = p.parseCall(left)
		case lexer.LBRACKET:
			left = p.parseIndex(left)
		case lexer.DOT:
			left = p.parseDot(left)
		case lexer.COLONCOLON:
			left = p.parsePath(left)
		case lexer.ASSIGN:
			left = p.parseAssign(left, "")
		case lexer.PLUSEQ, lexer.MINUSEQ, lexer.STAREQ, lexer.SLASHEQ, lexer.PERCENTEQ, lexer.SHLEQ, lexer.SHREQ:
			op := compoundBase[p.cur.Type]
			left = p.parseAssign(left, op)
		default:
			left = p.parseBinary(left)
		}
		if left == nil {
			return nil
		}
	}
	return left
}

// curPrecedenceAfterLeft is peekPrecedence renamed to reflect that, once a
// left operand has been parsed, p.cur is the would-be infix operator
// (advance() is called inside each prefix/infix handler as it consumes
// tokens, so by the time we loop back here p.cur sits on the next operator).
func (p *Parser) curPrecedenceAfterLeft() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) parsePrefix() ast.Expression {
	tok := p.cur
	switch tok.Type {
	case lexer.INT:
		n, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			p.errorf("invalid integer literal %q: %s", tok.Literal, err)
			return nil
		}
		p.advance()
		return &ast.IntegerLiteral{Token: tok, Value: n}
	case lexer.FLOAT:
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.errorf("invalid float literal %q: %s", tok.Literal, err)
			return nil
		}
		p.advance()
		return &ast.FloatLiteral{Token: tok, Value: f}
	case lexer.TRUE:
		p.advance()
		return &ast.BoolLiteral{Token: tok, Value: true}
	case lexer.FALSE:
		p.advance()
		return &ast.BoolLiteral{Token: tok, Value: false}
	case lexer.STRING:
		p.advance()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}
	case lexer.CHAR:
		p.advance()
		r := []rune(tok.Literal)[0]
		return &ast.CharLiteral{Token: tok, Value: r}
	case lexer.IDENT:
		p.advance()
		return &ast.Ident{Token: tok, Name: tok.Literal}
	case lexer.LPAREN:
		p.advance()
		expr := p.parseExpression(LOWEST)
		p.expect(lexer.RPAREN)
		return expr
	case lexer.LBRACKET:
		return p.parseArrayLiteral()
	case lexer.MINUS, lexer.PLUS, lexer.NOT:
		p.advance()
		operand := p.parseExpression(UNARY)
		return &ast.UnaryExpr{Token: tok, Operator: tok.Type.String(), Operand: operand}
	case lexer.IMPORT:
		p.advance()
		path := p.parseExpression(UNARY)
		return &ast.ImportExpr{Token: tok, Path: path}
	default:
		p.errorf("unexpected token %s %q in expression", tok.Type, tok.Literal)
		return nil
	}
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.cur
	p.advance() // '['
	lit := &ast.ArrayLiteral{Token: tok}
	for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
		lit.Elements = append(lit.Elements, p.parseExpression(LOWEST))
		if p.curIs(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.RBRACKET)
	return lit
}

func (p *Parser) parseBinary(left ast.Expression) ast.Expression {
	tok := p.cur
	prec := precedences[tok.Type]
	p.advance()
	right := p.parseExpression(prec)
	return &ast.BinaryExpr{Token: tok, Left: left, Operator: tok.Type.String(), Right: right}
}

func (p *Parser) parseCall(left ast.Expression) ast.Expression {
	tok := p.cur
	ident, ok := left.(*ast.Ident)
	if !ok {
		p.errorf("cannot call a non-function expression")
		return nil
	}
	args := p.parseArgs()
	return &ast.CallExpr{Token: tok, Callee: ident, Args: args}
}

// parseArgs parses a parenthesized, comma-separated argument list; cur is
// '(' on entry and ')' on exit.
func (p *Parser) parseArgs() []ast.Expression {
	p.advance() // '('
	var args []ast.Expression
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		args = append(args, p.parseExpression(LOWEST))
		if p.curIs(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.RPAREN)
	return args
}

func (p *Parser) parseIndex(left ast.Expression) ast.Expression {
	tok := p.cur
	p.advance() // '['
	idx := p.parseExpression(LOWEST)
	p.expect(lexer.RBRACKET)
	return &ast.IndexExpr{Token: tok, Target: left, Index: idx}
}

// parseDot parses `left.name` or `left.name(args...)`.
func (p *Parser) parseDot(left ast.Expression) ast.Expression {
	tok := p.cur
	p.advance() // '.'
	if !p.curIs(lexer.IDENT) {
		p.errorf("expected identifier after '.', got %s", p.cur.Type)
		return nil
	}
	name := p.cur.Literal
	p.advance()
	if p.curIs(lexer.LPAREN) {
		args := p.parseArgs()
		return &ast.MethodCallExpr{Token: tok, Target: left, Name: name, Args: args}
	}
	return &ast.PropertyExpr{Token: tok, Target: left, Name: name}
}

// parsePath parses `module::name`; left must be an identifier naming the
// module binding.
func (p *Parser) parsePath(left ast.Expression) ast.Expression {
	tok := p.cur
	ident, ok := left.(*ast.Ident)
	if !ok {
		p.errorf("'::' must follow a module identifier")
		return nil
	}
	p.advance() // '::'
	if !p.curIs(lexer.IDENT) {
		p.errorf("expected name after '::', got %s", p.cur.Type)
		return nil
	}
	name := p.cur.Literal
	p.advance()
	return &ast.PathExpr{Token: tok, Module: ident, Name: name}
}

// parseAssign parses `target = value` or, for a compound operator, desugars
// `target op= value` into `target = target op value`. Assignment is
// right-associative.
func (p *Parser) parseAssign(target ast.Expression, op string) ast.Expression {
	tok := p.cur
	if !isLValue(target) {
		p.errorf("invalid assignment target")
		return nil
	}
	p.advance() // '=' or compound-assign token
	value := p.parseExpression(ASSIGNMENT - 1)
	return &ast.AssignExpr{Token: tok, Target: target, Operator: op, Value: value}
}

// isLValue reports whether expr has one of the recognized lvalue shapes:
// an identifier, or a chain of index/property steps ending at one.
func isLValue(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.Ident:
		return true
	case *ast.IndexExpr:
		return isLValue(e.Target)
	case *ast.PropertyExpr:
		return isLValue(e.Target)
	default:
		return false
	}
}
