package ast

import (
	"fmt"
	"strings"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
)

// Signature renders a canonical call signature used as the key for an
// aggregate's pre-computed per-row result (spec §4.4/§4.5): the call's
// canonical String() form, so two syntactically identical aggregate
// calls in the same query share one computed value while calls that
// differ in callee or in any argument don't collide.
func (c *CallExpr) Signature() string {
	return c.String()
}

// String renders an operator's canonical source spelling.
func (op UnaryOp) String() string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryNot:
		return "!"
	default:
		return "?"
	}
}

func (op BinaryOp) String() string {
	switch op {
	case BinAdd:
		return "+"
	case BinSub:
		return "-"
	case BinMul:
		return "*"
	case BinDiv:
		return "/"
	case BinEq:
		return "=="
	case BinNotEq:
		return "!="
	case BinLess:
		return "<"
	case BinLessEq:
		return "<="
	case BinGreater:
		return ">"
	case BinGreaterEq:
		return ">="
	case BinIn:
		return "in"
	case BinLike:
		return "like"
	default:
		return "?"
	}
}

func (op LogicalOp) String() string {
	switch op {
	case LogAnd:
		return "&&"
	case LogOr:
		return "||"
	default:
		return "?"
	}
}

// String renders e's stable canonical form: two syntactically identical
// expressions always render identically, independent of span or parse
// order, for use in diagnostics and as a building block of Signature.
// LiteralExpr renders its preserved source lexeme (Raw) rather than
// re-deriving one from Value, so array/object literals round-trip
// exactly.
func (e *LiteralExpr) String() string { return e.Raw }

func (e *VariableExpr) String() string {
	if e.Name.Kind == token.Variable || e.Name.Kind == token.ForcedVariable {
		return "$" + e.Name.Name
	}
	return e.Name.Name
}

func (e *FieldPathExpr) String() string {
	parts := make([]string, 0, len(e.Tail)+1)
	parts = append(parts, e.Head.Name)
	for _, t := range e.Tail {
		parts = append(parts, t.Name)
	}
	return strings.Join(parts, ".")
}

func (e *GroupingExpr) String() string { return "(" + e.Inner.String() + ")" }

func (e *UnaryExpr) String() string { return e.Op.String() + e.Expr.String() }

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Op, e.Right.String())
}

func (e *LogicalExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Op, e.Right.String())
}

func (e *AssignmentExpr) String() string {
	return fmt.Sprintf("$%s = %s", e.Dst.Name, e.Expr.String())
}

func (e *CallExpr) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Callee.String(), strings.Join(args, ", "))
}

func (e *GetExpr) String() string { return e.Object.String() + "." + e.Name }

func (e *SetExpr) String() string {
	return fmt.Sprintf("%s.%s = %s", e.Object.String(), e.Name, e.Value.String())
}

func (e *BetweenExpr) String() string {
	not := ""
	if e.Kind == NotBetween {
		not = "not "
	}
	return fmt.Sprintf("%s %sbetween %s and %s", e.Subject.String(), not, e.Lower.String(), e.Upper.String())
}

func (e *FunctionExpr) String() string {
	if e.Name != nil {
		return fmt.Sprintf("function %s(/%d params/)", e.Name.Name, len(e.Params))
	}
	return fmt.Sprintf("function(/%d params/)", len(e.Params))
}

// SQL sub-tree wrappers render as a shallow marker rather than the full
// statement text: rendering a SELECT/INSERT/UPDATE/DELETE canonically
// would require walking the whole SQL sub-tree, a concern the planner
// (not diagnostics) already owns.
func (e *SelectExpr) String() string { return "<select>" }
func (e *InsertExpr) String() string { return "<insert>" }
func (e *UpdateExpr) String() string { return "<update>" }
func (e *DeleteExpr) String() string { return "<delete>" }
