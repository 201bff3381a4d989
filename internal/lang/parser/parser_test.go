package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/ast"
)

func TestParseVarDeclRequiresDollarPrefix(t *testing.T) {
	_, err := Parse("var x = 1;")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingIdentifier)
}

func TestParseVarDeclDefaultsToUndefined(t *testing.T) {
	program, err := Parse("var $x;")
	require.NoError(t, err)
	require.Len(t, program.Body, 1)
	decl, ok := program.Body[0].(*ast.Declaration)
	require.True(t, ok)
	lit, ok := decl.Expr.(*ast.LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, ast.LitUndefined, lit.Value.Kind)
}

func TestParseAssignmentVsSqlComparison(t *testing.T) {
	program, err := Parse(`$x = 1;`)
	require.NoError(t, err)
	stmt, ok := program.Body[0].(*ast.ExprStmt)
	require.True(t, ok)
	_, ok = stmt.Expr.(*ast.AssignmentExpr)
	assert.True(t, ok, "bare '=' outside SQL scope must parse as assignment")

	program, err = Parse(`select * from t where a = 1;`)
	require.NoError(t, err)
	stmt, ok = program.Body[0].(*ast.ExprStmt)
	require.True(t, ok)
	sel, ok := stmt.Expr.(*ast.SelectExpr)
	require.True(t, ok)
	where, ok := sel.Query.Core.Where.(*ast.BinaryExpr)
	require.True(t, ok, "bare '=' inside a SELECT's WHERE must parse as comparison")
	assert.Equal(t, ast.BinEq, where.Op)
}

func TestParseForLoweredToBlockWithLoop(t *testing.T) {
	program, err := Parse(`for ($i = 0; $i < 10; $i = $i + 1) { io.print($i); }`)
	require.NoError(t, err)
	block, ok := program.Body[0].(*ast.Block)
	require.True(t, ok)
	require.Len(t, block.Body, 2)
	_, ok = block.Body[0].(*ast.ExprStmt)
	require.True(t, ok)
	loop, ok := block.Body[1].(*ast.Loop)
	require.True(t, ok)
	require.NotNil(t, loop.Condition)
	require.NotNil(t, loop.Post)
}

func TestParseWhileLoweredToLoop(t *testing.T) {
	program, err := Parse(`while ($x) { $x = false; }`)
	require.NoError(t, err)
	loop, ok := program.Body[0].(*ast.Loop)
	require.True(t, ok)
	assert.NotNil(t, loop.Condition)
	assert.Nil(t, loop.Post)
}

func TestParseBareLoop(t *testing.T) {
	program, err := Parse(`loop { break; }`)
	require.NoError(t, err)
	loop, ok := program.Body[0].(*ast.Loop)
	require.True(t, ok)
	assert.Nil(t, loop.Condition)
	assert.Nil(t, loop.Post)
}

func TestParseObjectLiteralVsBlockDisambiguation(t *testing.T) {
	program, err := Parse(`{ "a": 1 };`)
	require.NoError(t, err)
	stmt, ok := program.Body[0].(*ast.ExprStmt)
	require.True(t, ok)
	lit, ok := stmt.Expr.(*ast.LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, ast.LitObject, lit.Value.Kind)

	program, err = Parse(`{ $x = 1; }`)
	require.NoError(t, err)
	_, ok = program.Body[0].(*ast.Block)
	assert.True(t, ok)
}

func TestParseObjectLiteralDuplicateKeyIsError(t *testing.T) {
	_, err := Parse(`var $x = { "a": 1, "a": 2 };`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedToken)
}

func TestParseFieldPathInsideSelect(t *testing.T) {
	program, err := Parse(`select u.profile.name from users u;`)
	require.NoError(t, err)
	stmt := program.Body[0].(*ast.ExprStmt)
	sel := stmt.Expr.(*ast.SelectExpr)
	require.Len(t, sel.Query.Core.Projection, 1)
	fp, ok := sel.Query.Core.Projection[0].Expr.(*ast.FieldPathExpr)
	require.True(t, ok)
	assert.Equal(t, "u", fp.Head.Name)
	require.Len(t, fp.Tail, 2)
	assert.Equal(t, "profile", fp.Tail[0].Name)
	assert.Equal(t, "name", fp.Tail[1].Name)
}

func TestParseJoinChainLeftAssociative(t *testing.T) {
	program, err := Parse(`select * from a join b on a.id = b.a_id left join c on b.id = c.b_id;`)
	require.NoError(t, err)
	sel := program.Body[0].(*ast.ExprStmt).Expr.(*ast.SelectExpr)
	outer := sel.Query.Core.From
	require.Equal(t, ast.FromJoin, outer.Kind)
	assert.Equal(t, ast.JoinLeft, outer.JoinKind)
	inner := outer.Left
	require.Equal(t, ast.FromJoin, inner.Kind)
	assert.Equal(t, ast.JoinInner, inner.JoinKind)
}

func TestParseCrossJoinWithoutOnIsLegal(t *testing.T) {
	_, err := Parse(`select * from a cross join b;`)
	require.NoError(t, err)
}

func TestParseInnerJoinWithoutOnIsError(t *testing.T) {
	_, err := Parse(`select * from a join b;`)
	require.Error(t, err)
}

func TestParseCompoundLeftLeaningNesting(t *testing.T) {
	program, err := Parse(`select a from x union select a from y except select a from z;`)
	require.NoError(t, err)
	sel := program.Body[0].(*ast.ExprStmt).Expr.(*ast.SelectExpr)
	core := sel.Query.Core
	require.NotNil(t, core.Compound)
	assert.Equal(t, ast.CompoundUnion, core.Compound.Operator)
	next := core.Compound.Core
	require.NotNil(t, next.Compound)
	assert.Equal(t, ast.CompoundExcept, next.Compound.Operator)
}

func TestParseLimitOffsetForm(t *testing.T) {
	program, err := Parse(`select * from t limit 10 offset 5;`)
	require.NoError(t, err)
	sel := program.Body[0].(*ast.ExprStmt).Expr.(*ast.SelectExpr)
	require.NotNil(t, sel.Query.Limit)
	countLit := sel.Query.Limit.Count.(*ast.LiteralExpr)
	offsetLit := sel.Query.Limit.Offset.(*ast.LiteralExpr)
	assert.Equal(t, float64(10), countLit.Value.Num)
	assert.Equal(t, float64(5), offsetLit.Value.Num)
}

func TestParseLimitCommaForm(t *testing.T) {
	program, err := Parse(`select * from t limit 5, 10;`)
	require.NoError(t, err)
	sel := program.Body[0].(*ast.ExprStmt).Expr.(*ast.SelectExpr)
	require.NotNil(t, sel.Query.Limit)
	countLit := sel.Query.Limit.Count.(*ast.LiteralExpr)
	offsetLit := sel.Query.Limit.Offset.(*ast.LiteralExpr)
	assert.Equal(t, float64(10), countLit.Value.Num, "comma form inverts: offset, count")
	assert.Equal(t, float64(5), offsetLit.Value.Num)
}

func TestParseOrderByDescDefault(t *testing.T) {
	program, err := Parse(`select * from t order by a desc, b;`)
	require.NoError(t, err)
	sel := program.Body[0].(*ast.ExprStmt).Expr.(*ast.SelectExpr)
	require.Len(t, sel.Query.OrderBy, 2)
	assert.Equal(t, ast.Desc, sel.Query.OrderBy[0].Dir)
	assert.Equal(t, ast.Asc, sel.Query.OrderBy[1].Dir)
}

func TestParseInsertValues(t *testing.T) {
	program, err := Parse(`insert into t (a, b) values (1, 2), (3, 4);`)
	require.NoError(t, err)
	ins := program.Body[0].(*ast.ExprStmt).Expr.(*ast.InsertExpr)
	assert.Equal(t, "t", ins.Insert.Into)
	require.Len(t, ins.Insert.Values, 2)
}

func TestParseInsertSelect(t *testing.T) {
	program, err := Parse(`insert into t select a from s;`)
	require.NoError(t, err)
	ins := program.Body[0].(*ast.ExprStmt).Expr.(*ast.InsertExpr)
	require.NotNil(t, ins.Insert.Query)
}

func TestParseUpdateWhereComparison(t *testing.T) {
	program, err := Parse(`update t set a = 1 where b = 2;`)
	require.NoError(t, err)
	upd := program.Body[0].(*ast.ExprStmt).Expr.(*ast.UpdateExpr)
	require.Len(t, upd.Update.Set, 1)
	where, ok := upd.Update.Where.(*ast.BinaryExpr)
	require.True(t, ok, "WHERE '=' inside UPDATE must parse as comparison, not assignment")
	assert.Equal(t, ast.BinEq, where.Op)
}

func TestParseDeleteWhere(t *testing.T) {
	program, err := Parse(`delete from t where a = 1;`)
	require.NoError(t, err)
	del := program.Body[0].(*ast.ExprStmt).Expr.(*ast.DeleteExpr)
	assert.Equal(t, "t", del.Delete.From)
	require.NotNil(t, del.Delete.Where)
}

func TestParseSubqueryInFrom(t *testing.T) {
	program, err := Parse(`select * from (select a from t) sub;`)
	require.NoError(t, err)
	sel := program.Body[0].(*ast.ExprStmt).Expr.(*ast.SelectExpr)
	from := sel.Query.Core.From
	require.Equal(t, ast.FromSubselect, from.Kind)
	assert.Equal(t, "sub", from.Alias)
}

func TestParseScalarSubquerySpanCoversParens(t *testing.T) {
	src := `select * from t where a = (select b from u);`
	program, err := Parse(src)
	require.NoError(t, err)
	sel := program.Body[0].(*ast.ExprStmt).Expr.(*ast.SelectExpr)
	cmp := sel.Query.Core.Where.(*ast.BinaryExpr)
	sub, ok := cmp.Right.(*ast.SelectExpr)
	require.True(t, ok)

	open := strings.Index(src, "(")
	closeParen := strings.Index(src, ")")
	assert.Equal(t, open, sub.Span().Start)
	assert.Equal(t, closeParen+1, sub.Span().End)
}

func TestParseBetweenAndNotBetween(t *testing.T) {
	program, err := Parse(`select * from t where a between 1 and 10;`)
	require.NoError(t, err)
	sel := program.Body[0].(*ast.ExprStmt).Expr.(*ast.SelectExpr)
	between, ok := sel.Query.Core.Where.(*ast.BetweenExpr)
	require.True(t, ok)
	assert.Equal(t, ast.Between, between.Kind)

	program, err = Parse(`select * from t where a not between 1 and 10;`)
	require.NoError(t, err)
	sel = program.Body[0].(*ast.ExprStmt).Expr.(*ast.SelectExpr)
	between, ok = sel.Query.Core.Where.(*ast.BetweenExpr)
	require.True(t, ok)
	assert.Equal(t, ast.NotBetween, between.Kind)
}

func TestParseTypeAnnotationKinds(t *testing.T) {
	program, err := Parse(`function f($a: num, $b: any, $c: widget): bool { return true; }`)
	require.NoError(t, err)
	require.Len(t, program.Body, 1)
	stmt, ok := program.Body[0].(*ast.ExprStmt)
	require.True(t, ok)
	fn, ok := stmt.Expr.(*ast.FunctionExpr)
	require.True(t, ok)
	require.Len(t, fn.Params, 3)

	assert.Equal(t, ast.TyNum, fn.Params[0].Type.Kind)
	assert.Equal(t, ast.TyAny, fn.Params[1].Type.Kind)
	assert.Equal(t, ast.TyUnknown, fn.Params[2].Type.Kind)
	assert.Equal(t, "widget", fn.Params[2].Type.Name)

	require.NotNil(t, fn.ReturnType)
	assert.Equal(t, ast.TyBool, fn.ReturnType.Kind)
}

func TestParseExprIDsAreUnique(t *testing.T) {
	program, err := Parse(`
		var $x = 1 + 2 * 3;
		function f($a, $b) { return $a + $b; }
		select a, b from t where a = 1 and b in [1,2,3];
	`)
	require.NoError(t, err)

	seen := map[ast.ExprID]bool{}
	var walkStmt func(ast.Stmt)
	var walkExpr func(ast.Expr)
	walkExpr = func(e ast.Expr) {
		if e == nil {
			return
		}
		require.False(t, seen[e.ID()], "expression id %d reused", e.ID())
		seen[e.ID()] = true
		switch n := e.(type) {
		case *ast.BinaryExpr:
			walkExpr(n.Left)
			walkExpr(n.Right)
		case *ast.LogicalExpr:
			walkExpr(n.Left)
			walkExpr(n.Right)
		case *ast.FunctionExpr:
			for _, s := range n.Body {
				walkStmt(s)
			}
		case *ast.SelectExpr:
			for _, proj := range n.Query.Core.Projection {
				walkExpr(proj.Expr)
			}
			walkExpr(n.Query.Core.Where)
		}
	}
	walkStmt = func(s ast.Stmt) {
		switch n := s.(type) {
		case *ast.ExprStmt:
			walkExpr(n.Expr)
		case *ast.Declaration:
			walkExpr(n.Expr)
		case *ast.Return:
			walkExpr(n.Expr)
		}
	}
	for _, s := range program.Body {
		walkStmt(s)
	}
	assert.True(t, len(seen) > 0)
}
