package interp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/ast"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/resolver"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/value"
)

func ident(name string) token.Identifier {
	return token.NewIdentifier(name, token.Variable)
}

func num(id ast.ExprID, n float64) *ast.LiteralExpr {
	return ast.NewLiteral(id, token.Span{}, ast.Literal{Kind: ast.LitNum, Num: n}, "")
}

func runProgram(t *testing.T, body []ast.Stmt) (*Interp, error) {
	t.Helper()
	program := ast.NewProgram(token.Span{}, body)
	r := resolver.New()
	require.NoError(t, r.Resolve(program))
	out := &bytes.Buffer{}
	it := New(r.Locals, out)
	err := it.Run(program)
	return it, err
}

// var $x = 1; { var $x = 2; } — the outer binding is unaffected by the
// inner shadowing declaration (spec §4.3/§4.4 interaction).
func TestDeclarationShadowingDoesNotLeak(t *testing.T) {
	outerDecl := ast.NewDeclaration(token.Span{}, ident("x"), num(1, 1))
	innerDecl := ast.NewDeclaration(token.Span{}, ident("x"), num(2, 2))
	block := ast.NewBlock(token.Span{}, []ast.Stmt{innerDecl})
	readOuter := ast.NewVariable(3, token.Span{}, ident("x"))

	it, err := runProgram(t, []ast.Stmt{outerDecl, block, ast.NewExprStmt(token.Span{}, readOuter)})
	require.NoError(t, err)

	v, err := it.evalVariable(readOuter)
	require.NoError(t, err)
	assert.Equal(t, float64(1), v.AsNum())
}

// A closure captures its defining frame by reference: mutating the
// captured variable after the closure is created is visible on the next
// call (spec §4.4 "Closures capture their environment by reference").
func TestClosureCapturesByReference(t *testing.T) {
	counterDecl := ast.NewDeclaration(token.Span{}, ident("n"), num(1, 0))

	// fn bump() { $n = $n + 1; return $n; }
	nRead := ast.NewVariable(2, token.Span{}, ident("n"))
	nPlus1 := ast.NewBinary(3, token.Span{}, ast.BinAdd, nRead, num(4, 1))
	assign := ast.NewAssignment(5, token.Span{}, ident("n"), nPlus1)
	assignStmt := ast.NewExprStmt(token.Span{}, assign)
	nRead2 := ast.NewVariable(6, token.Span{}, ident("n"))
	ret := ast.NewReturn(token.Span{}, nRead2)
	fnName := ident("bump")
	fn := ast.NewFunction(7, token.Span{}, &fnName, nil, nil, []ast.Stmt{assignStmt, ret})
	fnDecl := ast.NewExprStmt(token.Span{}, fn)

	call1 := ast.NewCall(8, token.Span{}, ast.NewVariable(9, token.Span{}, ident("bump")), nil)
	call2 := ast.NewCall(10, token.Span{}, ast.NewVariable(11, token.Span{}, ident("bump")), nil)

	program := ast.NewProgram(token.Span{}, []ast.Stmt{counterDecl, fnDecl})
	r := resolver.New()
	require.NoError(t, r.Resolve(program))
	it := New(r.Locals, &bytes.Buffer{})
	require.NoError(t, it.Run(program))

	v1, err := it.evalExpr(call1)
	require.NoError(t, err)
	assert.Equal(t, float64(1), v1.AsNum())

	v2, err := it.evalExpr(call2)
	require.NoError(t, err)
	assert.Equal(t, float64(2), v2.AsNum())
}

// Logical And/Or yield Bool of the last-evaluated operand's truthiness,
// not the operand's own value (spec §4.4).
func TestLogicalReturnsBoolNotOperand(t *testing.T) {
	it, _ := runProgram(t, nil)

	and := ast.NewLogical(1, token.Span{}, ast.LogAnd, num(2, 0), num(3, 5))
	v, err := it.evalExpr(and)
	require.NoError(t, err)
	assert.Equal(t, value.KindBool, v.Kind())
	assert.False(t, v.AsBool())

	or := ast.NewLogical(4, token.Span{}, ast.LogOr, num(5, 1), num(6, 5))
	v, err = it.evalExpr(or)
	require.NoError(t, err)
	assert.Equal(t, value.KindBool, v.Kind())
	assert.True(t, v.AsBool())
}

// Short-circuiting must not evaluate the right operand at all: a right
// side that would error (calling a non-callable) never runs.
func TestLogicalAndShortCircuits(t *testing.T) {
	it, _ := runProgram(t, nil)

	notCallable := ast.NewCall(1, token.Span{}, num(2, 1), nil)
	and := ast.NewLogical(3, token.Span{}, ast.LogAnd, num(4, 0), notCallable)

	v, err := it.evalExpr(and)
	require.NoError(t, err)
	assert.False(t, v.AsBool())
}

// A for-loop lowered to Loop{Condition,Body,Post} runs 0..9 and
// accumulates via a shared accumulator variable.
func TestLoopLoweringAccumulates(t *testing.T) {
	accDecl := ast.NewDeclaration(token.Span{}, ident("acc"), num(1, 0))
	iDecl := ast.NewDeclaration(token.Span{}, ident("i"), num(2, 0))

	cond := ast.NewBinary(3, token.Span{}, ast.BinLess,
		ast.NewVariable(4, token.Span{}, ident("i")), num(5, 10))

	bodyAssign := ast.NewAssignment(6, token.Span{}, ident("acc"),
		ast.NewBinary(7, token.Span{}, ast.BinAdd,
			ast.NewVariable(8, token.Span{}, ident("acc")),
			ast.NewVariable(9, token.Span{}, ident("i"))))
	body := ast.NewBlock(token.Span{}, []ast.Stmt{ast.NewExprStmt(token.Span{}, bodyAssign)})

	post := ast.NewExprStmt(token.Span{}, ast.NewAssignment(10, token.Span{}, ident("i"),
		ast.NewBinary(11, token.Span{}, ast.BinAdd,
			ast.NewVariable(12, token.Span{}, ident("i")), num(13, 1))))

	loop := ast.NewLoop(token.Span{}, cond, body, post)

	accRead := ast.NewVariable(14, token.Span{}, ident("acc"))
	it, err := runProgram(t, []ast.Stmt{accDecl, iDecl, loop, ast.NewExprStmt(token.Span{}, accRead)})
	require.NoError(t, err)

	v, err := it.evalVariable(accRead)
	require.NoError(t, err)
	assert.Equal(t, float64(45), v.AsNum())
}

// break unwinds only the nearest loop, and nothing after it in the body
// runs on the breaking iteration.
func TestBreakStopsLoop(t *testing.T) {
	countDecl := ast.NewDeclaration(token.Span{}, ident("count"), num(1, 0))

	body := ast.NewBlock(token.Span{}, []ast.Stmt{
		ast.NewExprStmt(token.Span{}, ast.NewAssignment(2, token.Span{}, ident("count"),
			ast.NewBinary(3, token.Span{}, ast.BinAdd,
				ast.NewVariable(4, token.Span{}, ident("count")), num(5, 1)))),
		ast.NewBreak(token.Span{}),
	})
	loop := ast.NewLoop(token.Span{}, nil, body, nil)

	countRead := ast.NewVariable(6, token.Span{}, ident("count"))
	it, err := runProgram(t, []ast.Stmt{countDecl, loop, ast.NewExprStmt(token.Span{}, countRead)})
	require.NoError(t, err)

	v, err := it.evalVariable(countRead)
	require.NoError(t, err)
	assert.Equal(t, float64(1), v.AsNum())
}

// Calling a user function with too few arguments is an arity-mismatch
// error, not a panic or silent Undefined fill-in.
func TestCallArityMismatch(t *testing.T) {
	fnName := ident("needsOne")
	paramRef := ast.NewVariable(2, token.Span{}, ident("a"))
	fn := ast.NewFunction(1, token.Span{}, &fnName, []ast.Param{{Name: ident("a")}}, nil,
		[]ast.Stmt{ast.NewReturn(token.Span{}, paramRef)})

	it, err := runProgram(t, []ast.Stmt{ast.NewExprStmt(token.Span{}, fn)})
	require.NoError(t, err)

	call := ast.NewCall(3, token.Span{}, ast.NewVariable(4, token.Span{}, ident("needsOne")), nil)
	_, err = it.evalExpr(call)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArityMismatch)
}

// Calling a non-callable value raises ErrNotCallable.
func TestCallNonCallable(t *testing.T) {
	it, _ := runProgram(t, nil)
	call := ast.NewCall(1, token.Span{}, num(2, 5), nil)
	_, err := it.evalExpr(call)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotCallable)
}

// BETWEEN checks inclusive numeric bounds; NOT BETWEEN negates.
func TestBetweenInclusiveBounds(t *testing.T) {
	it, _ := runProgram(t, nil)

	between := ast.NewBetween(1, token.Span{}, num(2, 5), num(3, 1), num(4, 5), ast.Between)
	v, err := it.evalExpr(between)
	require.NoError(t, err)
	assert.True(t, v.AsBool())

	notBetween := ast.NewBetween(5, token.Span{}, num(6, 5), num(7, 1), num(8, 5), ast.NotBetween)
	v, err = it.evalExpr(notBetween)
	require.NoError(t, err)
	assert.False(t, v.AsBool())
}

// IN requires an array right operand and tests membership by value
// equality.
func TestBinaryInMembership(t *testing.T) {
	it, _ := runProgram(t, nil)

	arr := ast.NewLiteral(1, token.Span{}, ast.Literal{
		Kind:  ast.LitArray,
		Array: []ast.Expr{num(2, 1), num(3, 2), num(4, 3)},
	}, "")
	in := ast.NewBinary(5, token.Span{}, ast.BinIn, num(6, 2), arr)
	v, err := it.evalExpr(in)
	require.NoError(t, err)
	assert.True(t, v.AsBool())

	notIn := ast.NewBinary(7, token.Span{}, ast.BinIn, num(8, 9), arr)
	v, err = it.evalExpr(notIn)
	require.NoError(t, err)
	assert.False(t, v.AsBool())
}

// LIKE implements SQL-style % and _ wildcards.
func TestBinaryLikeWildcards(t *testing.T) {
	it, _ := runProgram(t, nil)

	str := func(id ast.ExprID, s string) *ast.LiteralExpr {
		return ast.NewLiteral(id, token.Span{}, ast.Literal{Kind: ast.LitStr, Str: s}, "")
	}

	like := ast.NewBinary(1, token.Span{}, ast.BinLike, str(2, "hello world"), str(3, "hello%"))
	v, err := it.evalExpr(like)
	require.NoError(t, err)
	assert.True(t, v.AsBool())

	noMatch := ast.NewBinary(4, token.Span{}, ast.BinLike, str(5, "hello"), str(6, "h_llo_"))
	v, err = it.evalExpr(noMatch)
	require.NoError(t, err)
	assert.False(t, v.AsBool())
}

// Aggregate calls read their pre-computed result from the active
// execution row, keyed by call signature, rather than invoking anything.
func TestAggregateCallReadsFromExecRow(t *testing.T) {
	it, _ := runProgram(t, nil)
	it.Root.Define("avg", value.FromCallable(&Builtin{FnName: "avg", Min: 1, Max: 1, Aggregate: true}))

	call := ast.NewCall(1, token.Span{}, ast.NewVariable(2, token.Span{}, ident("avg")),
		[]ast.Expr{ast.NewVariable(3, token.Span{}, ident("price"))})

	row := &ExecRow{Aggregates: map[string]value.Value{call.Signature(): value.Num(42)}}
	var result value.Value
	err := it.WithExecRow(row, func() error {
		v, err := it.evalExpr(call)
		result = v
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, float64(42), result.AsNum())
}

// A builtin dispatches through Builtin.Fn with the evaluated arguments.
func TestBuiltinCallDispatch(t *testing.T) {
	it, _ := runProgram(t, nil)
	it.Root.Define("double", value.FromCallable(&Builtin{
		FnName: "double", Min: 1, Max: 1,
		Fn: func(it *Interp, span token.Span, args []value.Value) (value.Value, error) {
			return value.Num(args[0].AsNum() * 2), nil
		},
	}))

	call := ast.NewCall(1, token.Span{}, ast.NewVariable(2, token.Span{}, ident("double")), []ast.Expr{num(3, 21)})
	v, err := it.evalExpr(call)
	require.NoError(t, err)
	assert.Equal(t, float64(42), v.AsNum())
}
