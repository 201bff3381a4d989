package parser

import (
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/ast"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
)

// parseExpr is the entry point of the Pratt-style precedence ladder
// (spec §4.2): assignment, logical-or/and, equality, comparison,
// additive/multiplicative, unary, call/member, primary.
func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() (ast.Expr, error) {
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	// A bare '=' is a comparison inside SQL scope, not an assignment.
	if p.inSelectDepth == 0 && p.checkSymbol(token.Equal) {
		eq := p.advance()
		value, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}

		switch dst := expr.(type) {
		case *ast.VariableExpr:
			id := p.getExprID()
			return ast.NewAssignment(id, token.Merge(expr.Span(), value.Span()), dst.Name, value), nil
		case *ast.GetExpr:
			id := p.getExprID()
			setExpr := ast.NewSet(id, token.Merge(expr.Span(), value.Span()), dst.Object, dst.Name, value)
			return setExpr, nil
		default:
			return nil, &Error{Kind: ErrInvalidAssignmentTarget, Span: eq.Span, Token: eq}
		}
	}

	return expr, nil
}

func (p *Parser) matchOr() bool {
	return p.matchSymbol(token.PipePipe) || (p.inSelectDepth > 0 && p.matchSql(token.KwOr))
}

func (p *Parser) matchAnd() bool {
	return p.matchSymbol(token.AmpAmp) || (p.inSelectDepth > 0 && p.matchSql(token.KwAnd))
}

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.matchOr() {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		id := p.getExprID()
		left = ast.NewLogical(id, token.Merge(left.Span(), right.Span()), ast.LogOr, left, right)
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.matchAnd() {
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		id := p.getExprID()
		left = ast.NewLogical(id, token.Merge(left.Span(), right.Span()), ast.LogAnd, left, right)
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch {
		case p.matchSymbol(token.EqualEqual):
			op = ast.BinEq
		case p.matchSymbol(token.BangEqual):
			op = ast.BinNotEq
		case p.inSelectDepth > 0 && p.matchSymbol(token.Equal):
			op = ast.BinEq
		case p.checkSql(token.KwIs):
			p.advance()
			op = ast.BinEq
			if p.matchSql(token.KwNot) {
				op = ast.BinNotEq
			}
		default:
			return left, nil
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		id := p.getExprID()
		left = ast.NewBinary(id, token.Merge(left.Span(), right.Span()), op, left, right)
	}
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.matchSymbol(token.Less):
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			id := p.getExprID()
			left = ast.NewBinary(id, token.Merge(left.Span(), right.Span()), ast.BinLess, left, right)
		case p.matchSymbol(token.LessEqual):
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			id := p.getExprID()
			left = ast.NewBinary(id, token.Merge(left.Span(), right.Span()), ast.BinLessEq, left, right)
		case p.matchSymbol(token.Greater):
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			id := p.getExprID()
			left = ast.NewBinary(id, token.Merge(left.Span(), right.Span()), ast.BinGreater, left, right)
		case p.matchSymbol(token.GreaterEqual):
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			id := p.getExprID()
			left = ast.NewBinary(id, token.Merge(left.Span(), right.Span()), ast.BinGreaterEq, left, right)
		case p.checkSql(token.KwBetween):
			left, err = p.parseBetween(left, ast.Between)
			if err != nil {
				return nil, err
			}
		case p.checkSql(token.KwNot) && p.peekAt(1).Kind == token.KindSqlKeyword && p.peekAt(1).Sql == token.KwBetween:
			p.advance() // NOT
			left, err = p.parseBetween(left, ast.NotBetween)
			if err != nil {
				return nil, err
			}
		case p.matchSql(token.KwIn):
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			id := p.getExprID()
			left = ast.NewBinary(id, token.Merge(left.Span(), right.Span()), ast.BinIn, left, right)
		case p.matchSql(token.KwLike):
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			id := p.getExprID()
			left = ast.NewBinary(id, token.Merge(left.Span(), right.Span()), ast.BinLike, left, right)
		default:
			return left, nil
		}
	}
}

func (p *Parser) parseBetween(subject ast.Expr, kind ast.BetweenKind) (ast.Expr, error) {
	p.advance() // BETWEEN
	lower, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSql(token.KwAnd); err != nil {
		return nil, err
	}
	upper, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	id := p.getExprID()
	return ast.NewBetween(id, token.Merge(subject.Span(), upper.Span()), subject, lower, upper, kind), nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch {
		case p.matchSymbol(token.Plus):
			op = ast.BinAdd
		case p.matchSymbol(token.Minus):
			op = ast.BinSub
		default:
			return left, nil
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		id := p.getExprID()
		left = ast.NewBinary(id, token.Merge(left.Span(), right.Span()), op, left, right)
	}
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch {
		case p.matchSymbol(token.Star):
			op = ast.BinMul
		case p.matchSymbol(token.Slash):
			op = ast.BinDiv
		default:
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		id := p.getExprID()
		left = ast.NewBinary(id, token.Merge(left.Span(), right.Span()), op, left, right)
	}
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	switch {
	case p.checkSymbol(token.Minus):
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		id := p.getExprID()
		return ast.NewUnary(id, token.Merge(tok.Span, operand.Span()), ast.UnaryNeg, operand), nil
	case p.checkSymbol(token.Bang):
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		id := p.getExprID()
		return ast.NewUnary(id, token.Merge(tok.Span, operand.Span()), ast.UnaryNot, operand), nil
	default:
		return p.parseCallOrMember()
	}
}

func (p *Parser) parseCallOrMember() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	// A dotted chain off a bare (Plain) identifier in SQL scope lowers to
	// a single FieldPath rather than nested Get expressions (spec §4.2).
	if p.inSelectDepth > 0 {
		if v, ok := expr.(*ast.VariableExpr); ok && v.Name.Kind == token.Plain && p.checkSymbol(token.Dot) {
			tail := []token.Identifier{}
			for p.matchSymbol(token.Dot) {
				idTok, err := p.expectIdentifier()
				if err != nil {
					return nil, err
				}
				tail = append(tail, token.NewIdentifier(idTok.Str, token.Plain))
			}
			id := p.getExprID()
			return ast.NewFieldPath(id, token.Merge(v.Span(), p.previous().Span), v.Name, tail), nil
		}
	}

	for {
		switch {
		case p.matchSymbol(token.LeftParen):
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			closeTok, err := p.expectSymbol(token.RightParen)
			if err != nil {
				return nil, err
			}
			id := p.getExprID()
			expr = ast.NewCall(id, token.Merge(expr.Span(), closeTok.Span), expr, args)
		case p.matchSymbol(token.Dot, token.DoubleColon):
			// `::` is the namespaced-builtin separator (io::print,
			// math::avg, ...); it lowers to the same Get chain as `.`
			// member access, since both reach into a namespace object.
			nameTok, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			id := p.getExprID()
			expr = ast.NewGet(id, token.Merge(expr.Span(), nameTok.Span), expr, nameTok.Str)
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArgList() ([]ast.Expr, error) {
	var args []ast.Expr
	if p.checkSymbol(token.RightParen) {
		return args, nil
	}
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.matchSymbol(token.Comma) {
			break
		}
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case token.KindStr:
		p.advance()
		id := p.getExprID()
		return ast.NewLiteral(id, tok.Span, ast.Literal{Kind: ast.LitStr, Str: tok.Str}, tok.Lexeme), nil
	case token.KindNum:
		p.advance()
		id := p.getExprID()
		return ast.NewLiteral(id, tok.Span, ast.Literal{Kind: ast.LitNum, Num: tok.Num}, tok.Lexeme), nil
	case token.KindTrue:
		p.advance()
		id := p.getExprID()
		return ast.NewLiteral(id, tok.Span, ast.Literal{Kind: ast.LitBool, Bool: true}, tok.Lexeme), nil
	case token.KindFalse:
		p.advance()
		id := p.getExprID()
		return ast.NewLiteral(id, tok.Span, ast.Literal{Kind: ast.LitBool, Bool: false}, tok.Lexeme), nil
	case token.KindUndefined:
		p.advance()
		id := p.getExprID()
		return ast.NewLiteral(id, tok.Span, ast.Literal{Kind: ast.LitUndefined}, tok.Lexeme), nil
	case token.KindIdentifier:
		p.advance()
		kind := token.Plain
		if tok.Dollar {
			kind = token.Variable
		}
		id := p.getExprID()
		return ast.NewVariable(id, tok.Span, token.NewIdentifier(tok.Str, kind)), nil
	case token.KindSymbol:
		switch tok.Symbol {
		case token.LeftParen:
			return p.parseGroupingOrSubquery()
		case token.LeftBrace:
			return p.parseObjectLiteral()
		case token.LeftBracket:
			return p.parseArrayLiteral()
		}
	case token.KindKeyword:
		if tok.Keyword == token.KwFunction {
			return p.parseFunctionLiteral()
		}
	case token.KindSqlKeyword:
		switch tok.Sql {
		case token.KwSelect:
			return p.parseSelectExpr()
		case token.KwInsert:
			return p.parseInsertExpr()
		case token.KwUpdate:
			return p.parseUpdateExpr()
		case token.KwDelete:
			return p.parseDeleteExpr()
		}
	}

	return nil, &Error{Kind: ErrUnexpectedToken, Span: tok.Span, Token: tok}
}

func (p *Parser) parseGroupingOrSubquery() (ast.Expr, error) {
	open := p.advance() // '('
	if p.checkSql(token.KwSelect) {
		expr, err := p.parseSelectExpr()
		if err != nil {
			return nil, err
		}
		closeTok, err := p.expectSymbol(token.RightParen)
		if err != nil {
			return nil, err
		}
		sel := expr.(*ast.SelectExpr)
		return ast.NewSelectExpr(sel.ID(), token.Merge(open.Span, closeTok.Span), sel.Query), nil
	}
	inner, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	closeTok, err := p.expectSymbol(token.RightParen)
	if err != nil {
		return nil, err
	}
	id := p.getExprID()
	return ast.NewGrouping(id, token.Merge(open.Span, closeTok.Span), inner), nil
}

func (p *Parser) parseArrayLiteral() (ast.Expr, error) {
	open := p.advance() // '['
	var elements []ast.Expr
	if !p.checkSymbol(token.RightBracket) {
		for {
			el, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elements = append(elements, el)
			if !p.matchSymbol(token.Comma) {
				break
			}
		}
	}
	closeTok, err := p.expectSymbol(token.RightBracket)
	if err != nil {
		return nil, err
	}
	id := p.getExprID()
	return ast.NewLiteral(id, token.Merge(open.Span, closeTok.Span), ast.Literal{Kind: ast.LitArray, Array: elements}, ""), nil
}

func (p *Parser) parseObjectLiteral() (ast.Expr, error) {
	open := p.advance() // '{'
	var fields []ast.ObjectField
	seen := map[string]bool{}
	if !p.checkSymbol(token.RightBrace) {
		for {
			key, err := p.parseObjectKey()
			if err != nil {
				return nil, err
			}
			if seen[key] {
				return nil, &Error{Kind: ErrUnexpectedToken, Span: p.peek().Span, Token: p.peek(), Expected: "unique object key"}
			}
			seen[key] = true
			if _, err := p.expectSymbol(token.Colon); err != nil {
				return nil, err
			}
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.ObjectField{Key: key, Value: val})
			if !p.matchSymbol(token.Comma) {
				break
			}
		}
	}
	closeTok, err := p.expectSymbol(token.RightBrace)
	if err != nil {
		return nil, err
	}
	id := p.getExprID()
	return ast.NewLiteral(id, token.Merge(open.Span, closeTok.Span), ast.Literal{Kind: ast.LitObject, Object: fields}, ""), nil
}

func (p *Parser) parseObjectKey() (string, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.KindIdentifier:
		p.advance()
		return tok.Str, nil
	case token.KindStr:
		p.advance()
		return tok.Str, nil
	case token.KindNum:
		p.advance()
		return tok.Lexeme, nil
	default:
		return "", &Error{Kind: ErrMissingIdentifier, Span: tok.Span, Token: tok}
	}
}

// looksLikeObjectLiteral implements the statement-level `{` disambiguation
// rule (spec §4.2): an expression statement starting with `{` is an
// object literal only if the first two look-ahead tokens are
// `{ identifier|string|number :` or `{ }`; otherwise it's a block.
func (p *Parser) looksLikeObjectLiteral() bool {
	if !p.checkSymbol(token.LeftBrace) {
		return false
	}
	if p.peekAt(1).Kind == token.KindSymbol && p.peekAt(1).Symbol == token.RightBrace {
		return true
	}
	second := p.peekAt(1)
	switch second.Kind {
	case token.KindIdentifier, token.KindStr, token.KindNum:
		third := p.peekAt(2)
		return third.Kind == token.KindSymbol && third.Symbol == token.Colon
	default:
		return false
	}
}

func (p *Parser) parseFunctionLiteral() (ast.Expr, error) {
	start := p.advance() // 'function'
	var name *token.Identifier
	if p.peek().Kind == token.KindIdentifier && !p.peek().Dollar {
		nameTok := p.advance()
		id := token.NewIdentifier(nameTok.Str, token.Symbol)
		name = &id
	}
	if _, err := p.expectSymbol(token.LeftParen); err != nil {
		return nil, err
	}
	var params []ast.Param
	if !p.checkSymbol(token.RightParen) {
		for {
			paramTok, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			param := ast.Param{Name: token.NewIdentifier(paramTok.Str, token.Variable)}
			if p.matchSymbol(token.Colon) {
				ty, err := p.parseTypeAnnotation()
				if err != nil {
					return nil, err
				}
				param.Type = ty
			}
			params = append(params, param)
			if !p.matchSymbol(token.Comma) {
				break
			}
		}
	}
	if _, err := p.expectSymbol(token.RightParen); err != nil {
		return nil, err
	}
	var retType *ast.TypeAnnotation
	if p.matchSymbol(token.Colon) {
		ty, err := p.parseTypeAnnotation()
		if err != nil {
			return nil, err
		}
		retType = ty
	}
	body, closeSpan, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	id := p.getExprID()
	return ast.NewFunction(id, token.Merge(start.Span, closeSpan), name, params, retType, body), nil
}

func (p *Parser) parseTypeAnnotation() (*ast.TypeAnnotation, error) {
	tok, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if kind, ok := ast.TypeAnnotationKinds[tok.Str]; ok {
		return &ast.TypeAnnotation{Kind: kind, Name: tok.Str}, nil
	}
	return &ast.TypeAnnotation{Kind: ast.TyUnknown, Name: tok.Str}, nil
}
