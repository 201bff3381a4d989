package plan

import (
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/ast"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/env"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
)

// Lower builds a plan tree from a parsed SELECT, each step wrapping the
// previous: FROM, then WHERE, then (if grouped or aggregated) Aggregate,
// then HAVING, then Projection, then any compound chain (the rest of the
// chain is lowered the same way and becomes the Compound's right side),
// then ORDER BY, then OFFSET/LIMIT. ORDER BY and OFFSET/LIMIT apply to
// the whole compound chain; a core inside a chain has none of its own.
// root resolves aggregate callees during discovery.
func Lower(sel *ast.Select, root *env.Frame) (Node, error) {
	core, err := lowerCore(sel.Core, root)
	if err != nil {
		return nil, err
	}

	if len(sel.OrderBy) > 0 {
		core = &Order{Input: core, Terms: sel.OrderBy}
	}
	if sel.Limit != nil {
		if sel.Limit.Offset != nil {
			core = &Offset{Input: core, Amount: sel.Limit.Offset}
		}
		core = &Limit{Input: core, Count: sel.Limit.Count}
	}
	return core, nil
}

func lowerCore(core *ast.SelectCore, root *env.Frame) (Node, error) {
	base, err := lowerFrom(core.From, root)
	if err != nil {
		return nil, err
	}

	if core.Where != nil {
		if err := checkNoAggregates(root, core.Where, "WHERE"); err != nil {
			return nil, err
		}
		base = &Filter{Input: base, Predicate: core.Where}
	}

	for _, g := range core.GroupBy {
		if err := checkNoAggregates(root, g, "GROUP BY"); err != nil {
			return nil, err
		}
	}

	aggs, err := discoverAggregates(root, core.Projection, core.Having)
	if err != nil {
		return nil, err
	}
	if len(core.GroupBy) > 0 || len(aggs) > 0 {
		base = &Aggregate{Input: base, GroupBy: core.GroupBy, Aggregations: aggs}
	}

	if core.Having != nil {
		base = &Filter{Input: base, Predicate: core.Having}
	}

	if err := checkProjectionAliases(core.Projection); err != nil {
		return nil, err
	}
	base = &Projection{Input: base, Items: core.Projection}

	if core.Compound != nil {
		right, err := lowerCore(core.Compound.Core, root)
		if err != nil {
			return nil, err
		}
		base = &Compound{Left: base, Right: right, Operator: core.Compound.Operator}
	}

	return base, nil
}

func checkProjectionAliases(items []ast.Projected) error {
	sc := newScope()
	for _, p := range items {
		if p.Alias == "" {
			continue
		}
		span := token.Span{}
		if p.Expr != nil {
			span = p.Expr.Span()
		}
		if err := sc.bind(p.Alias, span); err != nil {
			return err
		}
	}
	return nil
}

func lowerFrom(fc *ast.FromClause, root *env.Frame) (Node, error) {
	if fc == nil {
		return Nothing{}, nil
	}
	sc := newScope()
	return lowerFromInto(fc, root, sc)
}

func lowerFromInto(fc *ast.FromClause, root *env.Frame, sc *scope) (Node, error) {
	switch fc.Kind {
	case ast.FromSource:
		alias := fc.Alias
		if alias == "" {
			alias = fc.Name
		}
		if err := sc.bind(alias, token.Span{}); err != nil {
			return nil, err
		}
		return &Scan{Name: fc.Name, Alias: alias}, nil
	case ast.FromExpressionSource:
		alias := fc.Alias
		if err := sc.bind(alias, fc.SourceExpr.Span()); err != nil {
			return nil, err
		}
		return &EvalScan{Source: fc.SourceExpr, Alias: alias}, nil
	case ast.FromSubselect:
		inner, err := Lower(fc.Subquery, root)
		if err != nil {
			return nil, err
		}
		if err := sc.bind(fc.Alias, token.Span{}); err != nil {
			return nil, err
		}
		return &Subquery{Plan: inner, Alias: fc.Alias}, nil
	case ast.FromJoin:
		if fc.JoinKind != ast.JoinCross {
			if err := rejectSubquery(fc.Constraint); err != nil {
				return nil, err
			}
		}
		left, err := lowerFromInto(fc.Left, root, sc)
		if err != nil {
			return nil, err
		}
		right, err := lowerFromInto(fc.Right, root, sc)
		if err != nil {
			return nil, err
		}
		return &Join{Left: left, Right: right, Kind: fc.JoinKind, Constraint: fc.Constraint}, nil
	case ast.FromGroup:
		var result Node
		for i, item := range fc.Items {
			n, err := lowerFromInto(item, root, sc)
			if err != nil {
				return nil, err
			}
			if i == 0 {
				result = n
				continue
			}
			result = &Join{Left: result, Right: n, Kind: ast.JoinCross}
		}
		return result, nil
	default:
		return Nothing{}, nil
	}
}

// rejectSubquery walks a join ON-constraint for a SQL-statement
// expression; ON clauses must be side-effect-free predicates over the
// joined rows (spec §4.5).
func rejectSubquery(e ast.Expr) error {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.SelectExpr:
		return &Error{Kind: ErrSubqueryNotAllowed, Span: n.Span()}
	case *ast.InsertExpr:
		return &Error{Kind: ErrSubqueryNotAllowed, Span: n.Span()}
	case *ast.UpdateExpr:
		return &Error{Kind: ErrSubqueryNotAllowed, Span: n.Span()}
	case *ast.DeleteExpr:
		return &Error{Kind: ErrSubqueryNotAllowed, Span: n.Span()}
	case *ast.BinaryExpr:
		if err := rejectSubquery(n.Left); err != nil {
			return err
		}
		return rejectSubquery(n.Right)
	case *ast.LogicalExpr:
		if err := rejectSubquery(n.Left); err != nil {
			return err
		}
		return rejectSubquery(n.Right)
	case *ast.UnaryExpr:
		return rejectSubquery(n.Expr)
	case *ast.GroupingExpr:
		return rejectSubquery(n.Inner)
	case *ast.BetweenExpr:
		if err := rejectSubquery(n.Subject); err != nil {
			return err
		}
		if err := rejectSubquery(n.Lower); err != nil {
			return err
		}
		return rejectSubquery(n.Upper)
	case *ast.CallExpr:
		for _, a := range n.Args {
			if err := rejectSubquery(a); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}
