package parser

import (
	"github.com/rillscript/rill/internal/ast"
	"github.com/rillscript/rill/internal/lexer"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case lexer.LET:
		return p.parseLetStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.LOOP:
		return p.parseLoopStatement()
	case lexer.BREAK:
		return p.parseBreakStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.FN:
		return p.parseFunctionDecl()
	case lexer.USE:
		return p.parseUseStatement()
	case lexer.LBRACE:
		return p.parseBlockStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLetStatement() ast.Statement {
	tok := p.cur
	p.advance() // 'let'
	if !p.curIs(lexer.IDENT) {
		p.errorf("expected identifier after 'let', got %s", p.cur.Type)
		return &ast.LetStatement{Token: tok}
	}
	name := &ast.Ident{Token: p.cur, Name: p.cur.Literal}
	p.advance()
	if !p.expect(lexer.ASSIGN) {
		return &ast.LetStatement{Token: tok, Name: name}
	}
	value := p.parseExpression(LOWEST)
	p.consumeSemi()
	return &ast.LetStatement{Token: tok, Name: name, Value: value}
}

// consumeSemi optionally consumes a trailing ';' (used after statement
// forms where a following '}' is also valid, e.g. the last statement in a
// block).
func (p *Parser) consumeSemi() {
	if p.curIs(lexer.SEMI) {
		p.advance()
	}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	tok := p.cur
	p.expect(lexer.LBRACE)
	blk := &ast.BlockStatement{Token: tok}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if p.lexErr != nil {
			return blk
		}
		stmt := p.parseStatement()
		blk.Statements = append(blk.Statements, stmt)
	}
	p.expect(lexer.RBRACE)
	return blk
}

// parseIfStatement parses `if cond { } else { }` and `else if` chains:
// else-if is sugar, not a new AST node — the else branch is a block
// containing a single nested IfStatement.
func (p *Parser) parseIfStatement() ast.Statement {
	tok := p.cur
	p.advance() // 'if'
	cond := p.parseExpression(LOWEST)
	cons := p.parseBlockStatement()
	stmt := &ast.IfStatement{Token: tok, Condition: cond, Consequence: cons}
	if p.curIs(lexer.ELSE) {
		p.advance()
		if p.curIs(lexer.IF) {
			nested := p.parseIfStatement()
			stmt.Alternative = &ast.BlockStatement{Token: p.cur, Statements: []ast.Statement{nested}}
		} else {
			stmt.Alternative = p.parseBlockStatement()
		}
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	tok := p.cur
	p.advance() // 'while'
	cond := p.parseExpression(LOWEST)
	body := p.parseBlockStatement()
	return &ast.WhileStatement{Token: tok, Condition: cond, Body: body}
}

func (p *Parser) parseLoopStatement() ast.Statement {
	tok := p.cur
	p.advance() // 'loop'
	body := p.parseBlockStatement()
	return &ast.LoopStatement{Token: tok, Body: body}
}

func (p *Parser) parseBreakStatement() ast.Statement {
	tok := p.cur
	p.advance() // 'break'
	p.expect(lexer.SEMI)
	return &ast.BreakStatement{Token: tok}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	tok := p.cur
	p.advance() // 'return'
	if p.curIs(lexer.SEMI) {
		p.advance()
		return &ast.ReturnStatement{Token: tok}
	}
	value := p.parseExpression(LOWEST)
	p.consumeSemi()
	return &ast.ReturnStatement{Token: tok, Value: value}
}

func (p *Parser) parseUseStatement() ast.Statement {
	tok := p.cur
	p.advance() // 'use'
	if !p.curIs(lexer.IDENT) {
		p.errorf("expected module identifier after 'use', got %s", p.cur.Type)
		return &ast.UseStatement{Token: tok}
	}
	module := &ast.Ident{Token: p.cur, Name: p.cur.Literal}
	p.advance()
	if !p.expect(lexer.COLONCOLON) {
		return &ast.UseStatement{Token: tok, Module: module}
	}
	if !p.curIs(lexer.IDENT) {
		p.errorf("expected name after '::', got %s", p.cur.Type)
		return &ast.UseStatement{Token: tok, Module: module}
	}
	name := p.cur.Literal
	p.advance()
	p.expect(lexer.SEMI)
	return &ast.UseStatement{Token: tok, Module: module, Name: name}
}

func (p *Parser) parseFunctionDecl() ast.Statement {
	tok := p.cur
	p.advance() // 'fn'
	if !p.curIs(lexer.IDENT) {
		p.errorf("expected function name, got %s", p.cur.Type)
		return &ast.FunctionDecl{Token: tok}
	}
	name := p.cur.Literal
	p.advance()
	if !p.expect(lexer.LPAREN) {
		return &ast.FunctionDecl{Token: tok, Name: name}
	}
	var params []*ast.Ident
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		if !p.curIs(lexer.IDENT) {
			p.errorf("expected parameter name, got %s", p.cur.Type)
			break
		}
		params = append(params, &ast.Ident{Token: p.cur, Name: p.cur.Literal})
		p.advance()
		if p.curIs(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.RPAREN)
	body := p.parseBlockStatement()
	return &ast.FunctionDecl{Token: tok, Name: name, Parameters: params, Body: body}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.cur
	expr := p.parseExpression(LOWEST)
	stmt := &ast.ExpressionStatement{Token: tok, Expr: expr}
	if p.curIs(lexer.SEMI) {
		p.advance()
		stmt.NoSemi = false
	} else {
		// No semicolon: either the trailing expression of a block (its
		// implicit value) or the final top-level statement.
		stmt.NoSemi = true
	}
	return stmt
}
