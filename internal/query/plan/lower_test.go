package plan

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/ast"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/interp"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/value"
)

func ident(name string) token.Identifier {
	return token.NewIdentifier(name, token.Variable)
}

func num(id ast.ExprID, n float64) *ast.LiteralExpr {
	return ast.NewLiteral(id, token.Span{}, ast.Literal{Kind: ast.LitNum, Num: n}, "")
}

func variable(id ast.ExprID, name string) *ast.VariableExpr {
	return ast.NewVariable(id, token.Span{}, ident(name))
}

func scanFrom(name, alias string) *ast.FromClause {
	return &ast.FromClause{Kind: ast.FromSource, Name: name, Alias: alias}
}

func newInterp() *interp.Interp {
	return interp.New(nil, &bytes.Buffer{})
}

// FROM -> WHERE -> HAVING -> Projection -> ORDER BY -> OFFSET -> LIMIT,
// the nesting order spec §4.5 prescribes; this query has no aggregate
// call or GROUP BY, so no Aggregate node sits between WHERE and HAVING.
func TestLowerOrdersStagesInsideOut(t *testing.T) {
	it := newInterp()
	it.Root.Define("sum", value.FromCallable(&interp.Builtin{FnName: "sum", Min: 1, Max: 1, Aggregate: true}))

	sel := &ast.Select{
		Core: &ast.SelectCore{
			Projection: []ast.Projected{{Expr: variable(1, "total"), Alias: "total"}},
			From:       scanFrom("orders", "o"),
			Where:      ast.NewBinary(2, token.Span{}, ast.BinGreater, variable(3, "amount"), num(4, 0)),
			Having:     ast.NewBinary(5, token.Span{}, ast.BinGreater, variable(6, "total"), num(7, 10)),
		},
		OrderBy: []ast.OrderTerm{{Expr: variable(8, "total"), Dir: ast.Desc}},
		Limit:   &ast.LimitClause{Count: num(9, 5), Offset: num(10, 1)},
	}

	plan, err := Lower(sel, it.Root)
	require.NoError(t, err)

	limit, ok := plan.(*Limit)
	require.True(t, ok)
	offset, ok := limit.Input.(*Offset)
	require.True(t, ok)
	order, ok := offset.Input.(*Order)
	require.True(t, ok)
	projection, ok := order.Input.(*Projection)
	require.True(t, ok)
	having, ok := projection.Input.(*Filter)
	require.True(t, ok)
	where, ok := having.Input.(*Filter)
	require.True(t, ok, "no aggregate call or GROUP BY, so HAVING's input is the WHERE filter directly")
	_, ok = where.Input.(*Scan)
	require.True(t, ok)
}

func TestLowerWrapsAggregateWhenAggregateCallPresent(t *testing.T) {
	it := newInterp()
	it.Root.Define("sum", value.FromCallable(&interp.Builtin{FnName: "sum", Min: 1, Max: 1, Aggregate: true}))

	sumCall := ast.NewCall(1, token.Span{}, variable(2, "sum"), []ast.Expr{variable(3, "amount")})

	sel := &ast.Select{
		Core: &ast.SelectCore{
			Projection: []ast.Projected{{Expr: sumCall, Alias: "total"}},
			From:       scanFrom("orders", "o"),
		},
	}

	plan, err := Lower(sel, it.Root)
	require.NoError(t, err)

	projection, ok := plan.(*Projection)
	require.True(t, ok)
	agg, ok := projection.Input.(*Aggregate)
	require.True(t, ok)
	require.Len(t, agg.Aggregations, 1)
	assert.Equal(t, "sum", agg.Aggregations[0].Name)
}

func TestLowerCompoundNestsLeftLeaning(t *testing.T) {
	it := newInterp()

	left := &ast.SelectCore{
		Projection: []ast.Projected{{Star: true}},
		From:       scanFrom("a", "a"),
		Compound: &ast.Compound{
			Operator: ast.CompoundUnionAll,
			Core: &ast.SelectCore{
				Projection: []ast.Projected{{Star: true}},
				From:       scanFrom("b", "b"),
			},
		},
	}
	sel := &ast.Select{Core: left}

	plan, err := Lower(sel, it.Root)
	require.NoError(t, err)

	compound, ok := plan.(*Compound)
	require.True(t, ok)
	assert.Equal(t, ast.CompoundUnionAll, compound.Operator)
	_, ok = compound.Left.(*Projection)
	require.True(t, ok)
	_, ok = compound.Right.(*Projection)
	require.True(t, ok)
}

func TestLowerDuplicateAliasInFromJoin(t *testing.T) {
	it := newInterp()

	fc := &ast.FromClause{
		Kind:     ast.FromJoin,
		Left:     scanFrom("orders", "o"),
		Right:    scanFrom("orders2", "o"), // same alias collides
		JoinKind: ast.JoinCross,
	}
	sel := &ast.Select{Core: &ast.SelectCore{
		Projection: []ast.Projected{{Star: true}},
		From:       fc,
	}}

	_, err := Lower(sel, it.Root)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateObjectInScope)
}

func TestLowerDuplicateProjectionAlias(t *testing.T) {
	it := newInterp()

	sel := &ast.Select{Core: &ast.SelectCore{
		Projection: []ast.Projected{
			{Expr: variable(1, "a"), Alias: "x"},
			{Expr: variable(2, "b"), Alias: "x"},
		},
		From: scanFrom("t", "t"),
	}}

	_, err := Lower(sel, it.Root)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateObjectInScope)
}

func TestLowerSubqueryNotAllowedInJoinConstraint(t *testing.T) {
	it := newInterp()

	subSelect := ast.NewSelectExpr(1, token.Span{}, &ast.Select{
		Core: &ast.SelectCore{Projection: []ast.Projected{{Star: true}}, From: scanFrom("x", "x")},
	})

	fc := &ast.FromClause{
		Kind:       ast.FromJoin,
		Left:       scanFrom("a", "a"),
		Right:      scanFrom("b", "b"),
		JoinKind:   ast.JoinInner,
		Constraint: subSelect,
	}
	sel := &ast.Select{Core: &ast.SelectCore{
		Projection: []ast.Projected{{Star: true}},
		From:       fc,
	}}

	_, err := Lower(sel, it.Root)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSubqueryNotAllowed)
}

func TestLowerAggregationNotAllowedInWhere(t *testing.T) {
	it := newInterp()
	it.Root.Define("sum", value.FromCallable(&interp.Builtin{FnName: "sum", Min: 1, Max: 1, Aggregate: true}))

	sumCall := ast.NewCall(1, token.Span{}, variable(2, "sum"), []ast.Expr{variable(3, "amount")})

	sel := &ast.Select{Core: &ast.SelectCore{
		Projection: []ast.Projected{{Star: true}},
		From:       scanFrom("orders", "o"),
		Where:      ast.NewBinary(4, token.Span{}, ast.BinGreater, sumCall, num(5, 0)),
	}}

	_, err := Lower(sel, it.Root)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAggregationNotAllowed)
}

func TestLowerNestedAggregationNotAllowed(t *testing.T) {
	it := newInterp()
	it.Root.Define("sum", value.FromCallable(&interp.Builtin{FnName: "sum", Min: 1, Max: 1, Aggregate: true}))

	inner := ast.NewCall(1, token.Span{}, variable(2, "sum"), []ast.Expr{variable(3, "amount")})
	outer := ast.NewCall(4, token.Span{}, variable(5, "sum"), []ast.Expr{inner})

	sel := &ast.Select{Core: &ast.SelectCore{
		Projection: []ast.Projected{{Expr: outer, Alias: "total"}},
		From:       scanFrom("orders", "o"),
	}}

	_, err := Lower(sel, it.Root)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNestedAggregationNotAllowed)
}
