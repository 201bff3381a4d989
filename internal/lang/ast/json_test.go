package ast

import (
	"encoding/json"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
)

func TestExprJSONRoundTripBinary(t *testing.T) {
	left := NewVariable(1, token.Span{Start: 0, End: 1, Line: 1, LineEnd: 1}, token.NewIdentifier("x", token.Variable))
	right := NewLiteral(2, token.Span{Start: 4, End: 5, Line: 1, LineEnd: 1}, Literal{Kind: LitNum, Num: 1}, "1")
	original := NewBinary(3, token.Span{Start: 0, End: 5, Line: 1, LineEnd: 1}, BinGreater, left, right)

	data, err := json.Marshal(original)
	assert.NoError(t, err)

	decoded, err := DecodeExpr(data)
	assert.NoError(t, err)
	assert.Equal(t, original.String(), decoded.String())

	reencoded, err := json.Marshal(decoded)
	assert.NoError(t, err)
	assert.Equal(t, string(data), string(reencoded))
}

func TestExprJSONRoundTripLiteralArrayAndObject(t *testing.T) {
	arr := NewLiteral(1, token.Span{}, Literal{
		Kind: LitArray,
		Array: []Expr{
			NewLiteral(2, token.Span{}, Literal{Kind: LitNum, Num: 1}, "1"),
			NewLiteral(3, token.Span{}, Literal{Kind: LitStr, Str: "hi"}, `"hi"`),
		},
	}, "[1, \"hi\"]")

	obj := NewLiteral(4, token.Span{}, Literal{
		Kind: LitObject,
		Object: []ObjectField{
			{Key: "a", Value: arr},
		},
	}, `{a: [1, "hi"]}`)

	data, err := json.Marshal(obj)
	assert.NoError(t, err)

	decoded, err := DecodeExpr(data)
	assert.NoError(t, err)

	reencoded, err := json.Marshal(decoded)
	assert.NoError(t, err)
	assert.Equal(t, string(data), string(reencoded))
}

func TestExprJSONRoundTripCallAndFieldPath(t *testing.T) {
	fp := NewFieldPath(1, token.Span{}, token.NewIdentifier("o", token.Plain), []token.Identifier{
		token.NewIdentifier("amount", token.Plain),
	})
	callee := NewGet(2, token.Span{}, NewVariable(3, token.Span{}, token.NewIdentifier("math", token.Plain)), "avg")
	call := NewCall(4, token.Span{}, callee, []Expr{fp})

	data, err := json.Marshal(call)
	assert.NoError(t, err)

	decoded, err := DecodeExpr(data)
	assert.NoError(t, err)
	assert.Equal(t, call.String(), decoded.String())

	reencoded, err := json.Marshal(decoded)
	assert.NoError(t, err)
	assert.Equal(t, string(data), string(reencoded))
}

func TestStmtJSONRoundTripProgram(t *testing.T) {
	cond := NewLiteral(1, token.Span{}, Literal{Kind: LitBool, Bool: true}, "true")
	body := NewBlock(token.Span{}, []Stmt{NewBreak(token.Span{})})
	ifStmt := NewIf(token.Span{}, cond, body, nil)
	program := NewProgram(token.Span{}, []Stmt{ifStmt, NewReturn(token.Span{}, nil)})

	data, err := json.Marshal(program)
	assert.NoError(t, err)

	decoded, err := DecodeStmt(data)
	assert.NoError(t, err)

	reencoded, err := json.Marshal(decoded)
	assert.NoError(t, err)
	assert.Equal(t, string(data), string(reencoded))
}

func TestSelectJSONRoundTrip(t *testing.T) {
	where := NewBinary(1, token.Span{}, BinEq,
		NewFieldPath(2, token.Span{}, token.NewIdentifier("id", token.Plain), nil),
		NewLiteral(3, token.Span{}, Literal{Kind: LitNum, Num: 1}, "1"),
	)

	query := &Select{
		Core: &SelectCore{
			Projection: []Projected{{Star: true}},
			From:       &FromClause{Kind: FromSource, Name: "users"},
			Where:      where,
		},
		OrderBy: []OrderTerm{{Expr: NewFieldPath(4, token.Span{}, token.NewIdentifier("id", token.Plain), nil), Dir: Desc}},
		Limit:   &LimitClause{Count: NewLiteral(5, token.Span{}, Literal{Kind: LitNum, Num: 10}, "10")},
	}
	selExpr := NewSelectExpr(6, token.Span{}, query)

	data, err := json.Marshal(selExpr)
	assert.NoError(t, err)

	decoded, err := DecodeExpr(data)
	assert.NoError(t, err)

	reencoded, err := json.Marshal(decoded)
	assert.NoError(t, err)
	assert.Equal(t, string(data), string(reencoded))
}
