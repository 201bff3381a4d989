package planmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/ast"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
	"github.com/lykia-rs/lykiadb-sub001/internal/query/plan"
)

func TestRenderScanAndProjection(t *testing.T) {
	node := &plan.Projection{
		Input: &plan.Filter{
			Input: &plan.Scan{Name: "orders", Alias: "o"},
			Predicate: ast.NewBinary(1, token.Span{}, ast.BinGreater,
				ast.NewVariable(2, token.Span{}, token.NewIdentifier("amount", token.Variable)),
				ast.NewLiteral(3, token.Span{}, ast.Literal{Kind: ast.LitNum, Num: 0}, ""),
			),
		},
		Items: []ast.Projected{{Star: true}},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, node))

	out := buf.String()
	assert.Contains(t, out, "Query plan")
	assert.Contains(t, out, "Projection")
	assert.Contains(t, out, "Filter")
	assert.Contains(t, out, "Scan")
	assert.Contains(t, out, "orders")
}

func TestRenderJoinShowsBothSides(t *testing.T) {
	node := &plan.Join{
		Left:       &plan.Scan{Name: "orders", Alias: "o"},
		Right:      &plan.Scan{Name: "customers", Alias: "c"},
		Kind:       ast.JoinInner,
		Constraint: ast.NewLiteral(1, token.Span{}, ast.Literal{Kind: ast.LitBool, Bool: true}, ""),
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, node))

	out := buf.String()
	assert.Contains(t, out, "Join (inner)")
	assert.Contains(t, out, "orders")
	assert.Contains(t, out, "customers")
}
