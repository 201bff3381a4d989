package parser

import (
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/ast"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
)

func (p *Parser) parseSelectExpr() (ast.Expr, error) {
	start := p.peek().Span
	id := p.getExprID()
	sel, err := p.parseSelect()
	if err != nil {
		return nil, err
	}
	span := token.Merge(start, p.previous().Span)
	return ast.NewSelectExpr(id, span, sel), nil
}

func (p *Parser) parseInsertExpr() (ast.Expr, error) {
	start := p.peek().Span
	id := p.getExprID()
	ins, err := p.parseInsert()
	if err != nil {
		return nil, err
	}
	span := token.Merge(start, p.previous().Span)
	return ast.NewInsertExpr(id, span, ins), nil
}

func (p *Parser) parseUpdateExpr() (ast.Expr, error) {
	start := p.peek().Span
	id := p.getExprID()
	upd, err := p.parseUpdate()
	if err != nil {
		return nil, err
	}
	span := token.Merge(start, p.previous().Span)
	return ast.NewUpdateExpr(id, span, upd), nil
}

func (p *Parser) parseDeleteExpr() (ast.Expr, error) {
	start := p.peek().Span
	id := p.getExprID()
	del, err := p.parseDelete()
	if err != nil {
		return nil, err
	}
	span := token.Merge(start, p.previous().Span)
	return ast.NewDeleteExpr(id, span, del), nil
}

// parseSelect parses a full SELECT: one or more cores joined by compound
// operators (left-leaning nesting), then the trailing ORDER BY/LIMIT that
// applies to the whole chain.
func (p *Parser) parseSelect() (*ast.Select, error) {
	core, err := p.parseSelectCore()
	if err != nil {
		return nil, err
	}
	core, err = p.parseCompoundChain(core)
	if err != nil {
		return nil, err
	}

	sel := &ast.Select{Core: core}

	if p.matchSql(token.KwOrder) {
		if _, err := p.expectSql(token.KwBy); err != nil {
			return nil, err
		}
		terms, err := p.parseOrderTerms()
		if err != nil {
			return nil, err
		}
		sel.OrderBy = terms
	}

	if p.matchSql(token.KwLimit) {
		lim, err := p.parseLimit()
		if err != nil {
			return nil, err
		}
		sel.Limit = lim
	}

	return sel, nil
}

// parseCompoundChain attaches UNION/UNION ALL/INTERSECT/EXCEPT cores,
// producing left-leaning nesting: `a UNION b EXCEPT c` becomes
// Except(Union(a,b), c) (spec §4.2, testable scenario 6).
func (p *Parser) parseCompoundChain(head *ast.SelectCore) (*ast.SelectCore, error) {
	tail := head
	for {
		var op ast.CompoundOp
		switch {
		case p.checkSql(token.KwUnion):
			p.advance()
			op = ast.CompoundUnion
			if p.matchSql(token.KwAll) {
				op = ast.CompoundUnionAll
			}
		case p.checkSql(token.KwIntersect):
			p.advance()
			op = ast.CompoundIntersect
		case p.checkSql(token.KwExcept):
			p.advance()
			op = ast.CompoundExcept
		default:
			return head, nil
		}
		right, err := p.parseSelectCore()
		if err != nil {
			return nil, err
		}
		tail.Compound = &ast.Compound{Operator: op, Core: right}
		tail = right
	}
}

func (p *Parser) parseOrderTerms() ([]ast.OrderTerm, error) {
	var terms []ast.OrderTerm
	for {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		dir := ast.Asc
		if p.matchSql(token.KwDesc) {
			dir = ast.Desc
		} else {
			p.matchSql(token.KwAsc)
		}
		terms = append(terms, ast.OrderTerm{Expr: expr, Dir: dir})
		if !p.matchSymbol(token.Comma) {
			break
		}
	}
	return terms, nil
}

// parseLimit handles `LIMIT count`, `LIMIT count OFFSET offset`, and the
// SQLite-style `LIMIT offset, count` comma form (note the inverted order).
func (p *Parser) parseLimit() (*ast.LimitClause, error) {
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.matchSymbol(token.Comma) {
		second, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.LimitClause{Count: second, Offset: first}, nil
	}
	lim := &ast.LimitClause{Count: first}
	if p.matchSql(token.KwOffset) {
		off, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lim.Offset = off
	}
	return lim, nil
}

// parseSelectCore parses one SELECT ... [GROUP BY ... [HAVING ...]] unit.
// in_select_depth is held for the body of the core so a bare `=` inside
// the projection/where/having parses as comparison, not assignment.
func (p *Parser) parseSelectCore() (*ast.SelectCore, error) {
	if _, err := p.expectSql(token.KwSelect); err != nil {
		return nil, err
	}

	p.inSelectDepth++
	defer func() { p.inSelectDepth-- }()

	core := &ast.SelectCore{}
	if p.matchSql(token.KwDistinct) {
		core.Distinct = true
	} else {
		p.matchSql(token.KwAll)
	}

	proj, err := p.parseProjectionList()
	if err != nil {
		return nil, err
	}
	core.Projection = proj

	if p.matchSql(token.KwFrom) {
		from, err := p.parseFromGroup()
		if err != nil {
			return nil, err
		}
		core.From = from
	}

	if p.matchSql(token.KwWhere) {
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		core.Where = where
	}

	if p.matchSql(token.KwGroup) {
		if _, err := p.expectSql(token.KwBy); err != nil {
			return nil, err
		}
		groupBy, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		core.GroupBy = groupBy
	}

	if p.matchSql(token.KwHaving) {
		having, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		core.Having = having
	}

	return core, nil
}

func (p *Parser) parseExprList() ([]ast.Expr, error) {
	var out []ast.Expr
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if !p.matchSymbol(token.Comma) {
			break
		}
	}
	return out, nil
}

func (p *Parser) parseProjectionList() ([]ast.Projected, error) {
	var out []ast.Projected
	for {
		if p.checkSymbol(token.Star) {
			p.advance()
			out = append(out, ast.Projected{Star: true})
		} else {
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			proj := ast.Projected{Expr: expr}
			if p.matchSql(token.KwAs) {
				aliasTok, err := p.expectIdentifier()
				if err != nil {
					return nil, err
				}
				proj.Alias = aliasTok.Str
			}
			out = append(out, proj)
		}
		if !p.matchSymbol(token.Comma) {
			break
		}
	}
	return out, nil
}

// parseFromGroup parses the top-level comma-separated FROM list as an
// implicit cross product (Group), with left-associative JOINs inside each
// item.
func (p *Parser) parseFromGroup() (*ast.FromClause, error) {
	var items []*ast.FromClause
	for {
		item, err := p.parseFromItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if !p.matchSymbol(token.Comma) {
			break
		}
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return &ast.FromClause{Kind: ast.FromGroup, Items: items}, nil
}

func (p *Parser) parseFromItem() (*ast.FromClause, error) {
	left, err := p.parseFromPrimary()
	if err != nil {
		return nil, err
	}
	for {
		joinType, ok := p.matchJoinKeyword()
		if !ok {
			return left, nil
		}
		right, err := p.parseFromPrimary()
		if err != nil {
			return nil, err
		}
		var constraint ast.Expr
		if p.matchSql(token.KwOn) {
			constraint, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		} else if joinType != ast.JoinCross {
			return nil, &Error{Kind: ErrMissingToken, Span: p.peek().Span, Token: p.peek(), Expected: "ON"}
		}
		left = &ast.FromClause{Kind: ast.FromJoin, Left: left, Right: right, JoinKind: joinType, Constraint: constraint}
	}
}

func (p *Parser) matchJoinKeyword() (ast.JoinType, bool) {
	switch {
	case p.matchSql(token.KwJoin):
		return ast.JoinInner, true
	case p.matchSql(token.KwInner):
		p.matchSql(token.KwJoin)
		return ast.JoinInner, true
	case p.matchSql(token.KwLeft):
		p.matchSql(token.KwJoin)
		return ast.JoinLeft, true
	case p.matchSql(token.KwRight):
		p.matchSql(token.KwJoin)
		return ast.JoinRight, true
	case p.matchSql(token.KwCross):
		p.matchSql(token.KwJoin)
		return ast.JoinCross, true
	default:
		return ast.JoinInner, false
	}
}

// parseFromPrimary handles a bare collection name, an aliased arbitrary
// expression, a parenthesized nested FROM, or a parenthesized SELECT
// (subquery), distinguished by whether the first token after '(' is
// SELECT (spec §4.2).
func (p *Parser) parseFromPrimary() (*ast.FromClause, error) {
	if p.matchSymbol(token.LeftParen) {
		if p.checkSql(token.KwSelect) {
			sel, err := p.parseSelect()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectSymbol(token.RightParen); err != nil {
				return nil, err
			}
			fc := &ast.FromClause{Kind: ast.FromSubselect, Subquery: sel}
			return p.withOptionalAlias(fc), nil
		}
		inner, err := p.parseFromGroup()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectSymbol(token.RightParen); err != nil {
			return nil, err
		}
		return inner, nil
	}

	if p.peek().Kind == token.KindIdentifier {
		nameTok := p.advance()
		fc := &ast.FromClause{Kind: ast.FromSource, Name: nameTok.Str}
		return p.withOptionalAlias(fc), nil
	}

	// Arbitrary expression used as a source, e.g. a variable bound to an
	// array/object (spec §1: "query sources may be ... runtime
	// expressions").
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	fc := &ast.FromClause{Kind: ast.FromExpressionSource, SourceExpr: expr}
	return p.withOptionalAlias(fc), nil
}

func (p *Parser) withOptionalAlias(fc *ast.FromClause) *ast.FromClause {
	if p.matchSql(token.KwAs) {
		if aliasTok := p.peek(); aliasTok.Kind == token.KindIdentifier {
			p.advance()
			fc.Alias = aliasTok.Str
		}
		return fc
	}
	if p.peek().Kind == token.KindIdentifier {
		// Implicit alias: bare identifier immediately following, as long
		// as it isn't the start of a join/compound/clause keyword (those
		// are SqlKeyword tokens, not KindIdentifier, so no conflict).
		aliasTok := p.advance()
		fc.Alias = aliasTok.Str
	}
	return fc
}

func (p *Parser) parseInsert() (*ast.Insert, error) {
	if _, err := p.expectSql(token.KwInsert); err != nil {
		return nil, err
	}
	if _, err := p.expectSql(token.KwInto); err != nil {
		return nil, err
	}
	nameTok, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	ins := &ast.Insert{Into: nameTok.Str}

	if p.matchSymbol(token.LeftParen) {
		for {
			colTok, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			ins.Columns = append(ins.Columns, colTok.Str)
			if !p.matchSymbol(token.Comma) {
				break
			}
		}
		if _, err := p.expectSymbol(token.RightParen); err != nil {
			return nil, err
		}
	}

	switch {
	case p.matchSql(token.KwValues):
		for {
			if _, err := p.expectSymbol(token.LeftParen); err != nil {
				return nil, err
			}
			row, err := p.parseExprList()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectSymbol(token.RightParen); err != nil {
				return nil, err
			}
			ins.Values = append(ins.Values, row)
			if !p.matchSymbol(token.Comma) {
				break
			}
		}
	case p.checkSql(token.KwSelect):
		sel, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		ins.Query = sel
	default:
		return nil, &Error{Kind: ErrMissingToken, Span: p.peek().Span, Token: p.peek(), Expected: "VALUES or SELECT"}
	}

	return ins, nil
}

func (p *Parser) parseUpdate() (*ast.Update, error) {
	if _, err := p.expectSql(token.KwUpdate); err != nil {
		return nil, err
	}
	nameTok, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSql(token.KwSet); err != nil {
		return nil, err
	}

	p.inSelectDepth++
	defer func() { p.inSelectDepth-- }()

	upd := &ast.Update{Name: nameTok.Str}
	for {
		colTok, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectSymbol(token.Equal); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		upd.Set = append(upd.Set, ast.SetField{Column: colTok.Str, Value: val})
		if !p.matchSymbol(token.Comma) {
			break
		}
	}

	if p.matchSql(token.KwWhere) {
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		upd.Where = where
	}

	return upd, nil
}

func (p *Parser) parseDelete() (*ast.Delete, error) {
	if _, err := p.expectSql(token.KwDelete); err != nil {
		return nil, err
	}
	if _, err := p.expectSql(token.KwFrom); err != nil {
		return nil, err
	}
	nameTok, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}

	p.inSelectDepth++
	defer func() { p.inSelectDepth-- }()

	del := &ast.Delete{From: nameTok.Str}
	if p.matchSql(token.KwWhere) {
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		del.Where = where
	}
	return del, nil
}
