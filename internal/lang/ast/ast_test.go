package ast

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
)

func TestExprCarriesIDAndSpan(t *testing.T) {
	sp := token.Span{Start: 0, End: 3, Line: 1, LineEnd: 1}
	lit := NewLiteral(7, sp, Literal{Kind: LitNum, Num: 42}, "42")

	assert.Equal(t, ExprID(7), lit.ID())
	assert.Equal(t, sp, lit.Span())
}

func TestFunctionExprSharesBodyAcrossReferences(t *testing.T) {
	body := []Stmt{NewReturn(token.Span{}, nil)}
	fn := NewFunction(1, token.Span{}, nil, nil, nil, body)

	other := fn // simulate a second captured reference
	assert.Equal(t, fn, other)
	assert.True(t, &fn.Body[0] == &other.Body[0])
}
