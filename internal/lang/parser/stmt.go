package parser

import (
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/ast"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
)

func (p *Parser) parseProgram() (*ast.Program, error) {
	var body []ast.Stmt
	start := p.peek().Span
	for !p.isAtEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	end := p.previous().Span
	return ast.NewProgram(token.Merge(start, end), body), nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch {
	case p.checkKeyword(token.KwIf):
		return p.parseIf()
	case p.checkKeyword(token.KwWhile):
		return p.parseWhile()
	case p.checkKeyword(token.KwFor):
		return p.parseFor()
	case p.checkKeyword(token.KwLoop):
		return p.parseLoop()
	case p.checkKeyword(token.KwVar):
		return p.parseVarDecl()
	case p.checkKeyword(token.KwReturn):
		return p.parseReturn()
	case p.checkKeyword(token.KwBreak):
		tok := p.advance()
		if _, err := p.expectSymbol(token.Semicolon); err != nil {
			return nil, err
		}
		return ast.NewBreak(tok.Span), nil
	case p.checkKeyword(token.KwContinue):
		tok := p.advance()
		if _, err := p.expectSymbol(token.Semicolon); err != nil {
			return nil, err
		}
		return ast.NewContinue(tok.Span), nil
	case p.checkSymbol(token.LeftBrace) && !p.looksLikeObjectLiteral():
		body, span, err := p.parseBlockBody()
		if err != nil {
			return nil, err
		}
		return ast.NewBlock(span, body), nil
	default:
		return p.parseExprStatement()
	}
}

// parseBlockBody parses `{ stmt* }` and returns the body plus the span of
// the whole block (used by both Block statements and function literals).
func (p *Parser) parseBlockBody() ([]ast.Stmt, token.Span, error) {
	open, err := p.expectSymbol(token.LeftBrace)
	if err != nil {
		return nil, token.Span{}, err
	}
	var body []ast.Stmt
	for !p.checkSymbol(token.RightBrace) && !p.isAtEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, token.Span{}, err
		}
		body = append(body, stmt)
	}
	closeTok, err := p.expectSymbol(token.RightBrace)
	if err != nil {
		return nil, token.Span{}, err
	}
	return body, token.Merge(open.Span, closeTok.Span), nil
}

func (p *Parser) parseExprStatement() (ast.Stmt, error) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	semi, err := p.expectSymbol(token.Semicolon)
	if err != nil {
		return nil, err
	}
	return ast.NewExprStmt(token.Merge(expr.Span(), semi.Span), expr), nil
}

// parseVarDecl parses `var $name [= expr];`. The leading `$` is mandatory.
func (p *Parser) parseVarDecl() (ast.Stmt, error) {
	start := p.advance() // 'var'
	nameTok := p.peek()
	if nameTok.Kind != token.KindIdentifier || !nameTok.Dollar {
		return nil, &Error{Kind: ErrMissingIdentifier, Span: nameTok.Span, Token: nameTok, Expected: "$-prefixed variable name"}
	}
	p.advance()
	dst := token.NewIdentifier(nameTok.Str, token.ForcedVariable)

	var initExpr ast.Expr
	if p.matchSymbol(token.Equal) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		initExpr = e
	} else {
		id := p.getExprID()
		initExpr = ast.NewLiteral(id, nameTok.Span, ast.Literal{Kind: ast.LitUndefined}, "")
	}

	semi, err := p.expectSymbol(token.Semicolon)
	if err != nil {
		return nil, err
	}
	return ast.NewDeclaration(token.Merge(start.Span, semi.Span), dst, initExpr), nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	start := p.advance() // 'if'
	if _, err := p.expectSymbol(token.LeftParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSymbol(token.RightParen); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var elseBody ast.Stmt
	end := body.Span()
	if p.matchKeyword(token.KwElse) {
		elseBody, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
		end = elseBody.Span()
	}
	return ast.NewIf(token.Merge(start.Span, end), cond, body, elseBody), nil
}

// parseWhile lowers `while (cond) body` to Loop{Some(cond), body, None}.
func (p *Parser) parseWhile() (ast.Stmt, error) {
	start := p.advance() // 'while'
	if _, err := p.expectSymbol(token.LeftParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSymbol(token.RightParen); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return ast.NewLoop(token.Merge(start.Span, body.Span()), cond, body, nil), nil
}

// parseLoop lowers bare `loop body` to Loop{None, body, None}.
func (p *Parser) parseLoop() (ast.Stmt, error) {
	start := p.advance() // 'loop'
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return ast.NewLoop(token.Merge(start.Span, body.Span()), nil, body, nil), nil
}

// parseFor lowers `for (init; cond; step) body` to
// Block{[init, Loop{cond, body, post: step}]} (spec §4.2).
func (p *Parser) parseFor() (ast.Stmt, error) {
	start := p.advance() // 'for'
	if _, err := p.expectSymbol(token.LeftParen); err != nil {
		return nil, err
	}

	var initStmt ast.Stmt
	var err error
	if p.checkSymbol(token.Semicolon) {
		p.advance()
	} else if p.checkKeyword(token.KwVar) {
		initStmt, err = p.parseVarDecl()
		if err != nil {
			return nil, err
		}
	} else {
		initStmt, err = p.parseExprStatement()
		if err != nil {
			return nil, err
		}
	}

	var cond ast.Expr
	if !p.checkSymbol(token.Semicolon) {
		cond, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expectSymbol(token.Semicolon); err != nil {
		return nil, err
	}

	var step ast.Expr
	if !p.checkSymbol(token.RightParen) {
		step, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	closeParen, err := p.expectSymbol(token.RightParen)
	if err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	var post ast.Stmt
	if step != nil {
		post = ast.NewExprStmt(step.Span(), step)
	}
	loop := ast.NewLoop(token.Merge(closeParen.Span, body.Span()), cond, body, post)

	stmts := []ast.Stmt{}
	if initStmt != nil {
		stmts = append(stmts, initStmt)
	}
	stmts = append(stmts, loop)
	return ast.NewBlock(token.Merge(start.Span, body.Span()), stmts), nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	start := p.advance() // 'return'
	var expr ast.Expr
	if !p.checkSymbol(token.Semicolon) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		expr = e
	}
	semi, err := p.expectSymbol(token.Semicolon)
	if err != nil {
		return nil, err
	}
	return ast.NewReturn(token.Merge(start.Span, semi.Span), expr), nil
}
