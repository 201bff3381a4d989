package ast

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
)

func TestCallSignatureIsCanonicalCallText(t *testing.T) {
	callee := NewGet(1, token.Span{}, NewVariable(2, token.Span{}, token.NewIdentifier("math", token.Plain)), "avg")
	call := NewCall(3, token.Span{}, callee, []Expr{NewLiteral(4, token.Span{}, Literal{Kind: LitNum, Num: 1}, "1")})

	assert.Equal(t, "math.avg(1)", call.Signature())
}

func TestCallSignatureDistinguishesArity(t *testing.T) {
	callee := NewVariable(1, token.Span{}, token.NewIdentifier("sum", token.Plain))
	one := NewCall(2, token.Span{}, callee, []Expr{NewLiteral(3, token.Span{}, Literal{Kind: LitNum, Num: 1}, "1")})
	two := NewCall(4, token.Span{}, callee, []Expr{
		NewLiteral(5, token.Span{}, Literal{Kind: LitNum, Num: 1}, "1"),
		NewLiteral(6, token.Span{}, Literal{Kind: LitNum, Num: 2}, "2"),
	})

	assert.Equal(t, "sum(1)", one.Signature())
	assert.Equal(t, "sum(1, 2)", two.Signature())
}

func TestExprStringRendersCanonicalForm(t *testing.T) {
	left := NewVariable(1, token.Span{}, token.NewIdentifier("x", token.Variable))
	right := NewLiteral(2, token.Span{}, Literal{Kind: LitNum, Num: 1}, "1")
	bin := NewBinary(3, token.Span{}, BinGreater, left, right)

	assert.Equal(t, "($x > 1)", bin.String())
}

func TestExprStringFieldPathJoinsSegments(t *testing.T) {
	fp := NewFieldPath(1, token.Span{}, token.NewIdentifier("o", token.Plain), []token.Identifier{
		token.NewIdentifier("amount", token.Plain),
	})

	assert.Equal(t, "o.amount", fp.String())
}

func TestExprStringCallRendersArgs(t *testing.T) {
	callee := NewVariable(1, token.Span{}, token.NewIdentifier("f", token.Plain))
	call := NewCall(2, token.Span{}, callee, []Expr{
		NewLiteral(3, token.Span{}, Literal{Kind: LitNum, Num: 1}, "1"),
		NewLiteral(4, token.Span{}, Literal{Kind: LitNum, Num: 2}, "2"),
	})

	assert.Equal(t, "f(1, 2)", call.String())
}
