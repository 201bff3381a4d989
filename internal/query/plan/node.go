// Package plan lowers a parsed SELECT (and the row-producing shape of
// INSERT ... SELECT) into a logical plan tree, and provides a reference
// executor that walks that tree bottom-up, evaluating embedded
// expressions through the tree-walking evaluator (spec §4.5).
package plan

import (
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/ast"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/interp"
)

// Node is a logical plan node. The concrete types below are the closed
// set spec §4.5 names: Scan, EvalScan, Join, Subquery, Filter,
// Aggregate, Projection, Order, Limit, Offset, Compound, Nothing.
type Node interface {
	planNode()
}

// Nothing is the plan for a FROM-less SELECT (e.g. `SELECT 1+1`): it
// yields exactly one empty row.
type Nothing struct{}

// Scan reads a named collection, bound under Alias in each row it
// produces (Alias defaults to Name when no AS clause was given).
type Scan struct {
	Name  string
	Alias string
}

// EvalScan treats an arbitrary expression as a row source: the
// expression is evaluated once and must yield an Array of Object rows,
// bound under Alias.
type EvalScan struct {
	Source ast.Expr
	Alias  string
}

// Join combines Left and Right; Constraint is nil only when Kind is
// ast.JoinCross.
type Join struct {
	Left, Right Node
	Kind        ast.JoinType
	Constraint  ast.Expr
}

// Subquery wraps a fully-lowered inner plan, exposed to the outer query
// under Alias as if it were a single collection.
type Subquery struct {
	Plan  Node
	Alias string
}

// Filter keeps only rows for which Predicate evaluates truthy. Used both
// for WHERE (input rows only) and HAVING (input rows already enriched
// with aggregate results by signature).
type Filter struct {
	Input     Node
	Predicate ast.Expr
}

// Aggregation is one discovered aggregate call (spec §4.5): Factory is
// the resolved aggregate Builtin's reduction function, captured once at
// lowering time so the executor never needs to re-resolve the callee.
type Aggregation struct {
	Name          string
	Args          []ast.Expr
	CallSignature string
	Factory       interp.BuiltinFunc
}

// Aggregate groups Input's rows by GroupBy (nil/empty means one
// implicit group over every row) and computes Aggregations per group.
type Aggregate struct {
	Input        Node
	GroupBy      []ast.Expr
	Aggregations []Aggregation
}

// Projection evaluates each item's expression per row, shaping the
// output row (column name = alias; without one, the last segment of a
// field path or member access, or the variable's name; any other
// unaliased expression is named "?column?").
type Projection struct {
	Input Node
	Items []ast.Projected
}

// Order sorts Input's rows by Terms, applied in order (first term is the
// primary sort key).
type Order struct {
	Input Node
	Terms []ast.OrderTerm
}

// Limit caps the row count; Offset skips a prefix. Always nested as
// Offset(Limit-wrapped) — offset first per spec's lowering order.
type Limit struct {
	Input Node
	Count ast.Expr
}

type Offset struct {
	Input  Node
	Amount ast.Expr
}

// Compound combines Left and Right with a set operator (UNION[ALL],
// INTERSECT, EXCEPT).
type Compound struct {
	Left, Right Node
	Operator    ast.CompoundOp
}

func (Nothing) planNode()    {}
func (*Scan) planNode()      {}
func (*EvalScan) planNode()  {}
func (*Join) planNode()      {}
func (*Subquery) planNode()  {}
func (*Filter) planNode()    {}
func (*Aggregate) planNode() {}
func (*Projection) planNode() {}
func (*Order) planNode()     {}
func (*Limit) planNode()     {}
func (*Offset) planNode()    {}
func (*Compound) planNode()  {}
