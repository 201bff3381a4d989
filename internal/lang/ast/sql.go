package ast

import "github.com/lykia-rs/lykiadb-sub001/internal/lang/token"

// CompoundOp is a set operator combining two SELECT cores.
type CompoundOp int

const (
	CompoundUnion CompoundOp = iota
	CompoundUnionAll
	CompoundIntersect
	CompoundExcept
)

// OrderDir is ASC (default) or DESC.
type OrderDir int

const (
	Asc OrderDir = iota
	Desc
)

// OrderTerm is one ORDER BY expression and its direction.
type OrderTerm struct {
	Expr Expr     `json:"expr"`
	Dir  OrderDir `json:"dir"`
}

// Compound nests a set operator over an outer core's right-hand side;
// nesting is left-leaning: `a UNION b EXCEPT c` is Except(Union(a,b), c).
type Compound struct {
	Operator CompoundOp  `json:"operator"`
	Core     *SelectCore `json:"core"`
}

// SelectCore is one SELECT ... [compound SELECT ...] unit, before
// ORDER BY/LIMIT are applied by the enclosing Select.
type SelectCore struct {
	Distinct   bool        `json:"distinct,omitempty"`
	Projection []Projected `json:"projection"`
	From       *FromClause `json:"from,omitempty"` // nil if no FROM
	Where      Expr        `json:"where,omitempty"` // nil if absent
	GroupBy    []Expr      `json:"group_by,omitempty"`
	Having     Expr        `json:"having,omitempty"` // nil if absent
	Compound   *Compound   `json:"compound,omitempty"`
}

// Projected is one projection list entry, with an optional alias.
type Projected struct {
	Expr  Expr   `json:"expr,omitempty"`
	Alias string `json:"alias,omitempty"` // "" if none
	Star  bool   `json:"star,omitempty"`  // true for a bare `*`; a qualified `alias.*` is not parsed
}

// Select wraps a SelectCore with the trailing ORDER BY/LIMIT clauses that
// apply to the whole compound chain.
type Select struct {
	Core    *SelectCore  `json:"core"`
	OrderBy []OrderTerm  `json:"order_by,omitempty"`
	Limit   *LimitClause `json:"limit,omitempty"` // nil if absent
}

// LimitClause models both `LIMIT n [OFFSET m]` and the SQLite-style
// `LIMIT m, n` comma form, which inverts argument order.
type LimitClause struct {
	Count  Expr `json:"count"`
	Offset Expr `json:"offset,omitempty"` // nil if absent
}

// FromSourceKind discriminates FromClause leaf/branch shapes.
type FromSourceKind int

const (
	FromSource FromSourceKind = iota
	FromExpressionSource
	FromSubselect
	FromJoin
	FromGroup
)

// JoinType enumerates supported join kinds. Only Cross may omit a
// constraint.
type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
	JoinCross
)

// FromClause is a tree: Source (a named collection), ExpressionSource (an
// arbitrary expression aliased as a collection), Subselect, Join, or a
// top-level Group representing an implicit comma cross product.
type FromClause struct {
	Kind FromSourceKind `json:"kind"`

	// FromSource
	Name  string `json:"name,omitempty"`
	Alias string `json:"alias,omitempty"`

	// FromExpressionSource
	SourceExpr Expr `json:"source_expr,omitempty"`

	// FromSubselect
	Subquery *Select `json:"subquery,omitempty"`

	// FromJoin
	Left       *FromClause `json:"left,omitempty"`
	Right      *FromClause `json:"right,omitempty"`
	JoinKind   JoinType    `json:"join_kind,omitempty"`
	Constraint Expr        `json:"constraint,omitempty"` // nil only legal for JoinCross

	// FromGroup
	Items []*FromClause `json:"items,omitempty"`
}

// Insert models `INSERT INTO name VALUES (...)` or `INSERT INTO name SELECT ...`.
type Insert struct {
	Into    string     `json:"into"`
	Columns []string   `json:"columns,omitempty"`
	Values  [][]Expr   `json:"values,omitempty"` // nil when Query is set
	Query   *Select    `json:"query,omitempty"`  // nil when Values is set
}

// Update models `UPDATE name SET col = expr, ... [WHERE ...]`.
type Update struct {
	Name  string     `json:"name"`
	Set   []SetField `json:"set"`
	Where Expr       `json:"where,omitempty"` // nil if absent
}

// SetField is one assignment in an UPDATE's SET clause.
type SetField struct {
	Column string `json:"column"`
	Value  Expr   `json:"value"`
}

// Delete models `DELETE FROM name [WHERE ...]`.
type Delete struct {
	From  string `json:"from"`
	Where Expr   `json:"where,omitempty"` // nil if absent
}

// Identifier re-exports token.Identifier for readability in SQL contexts
// that don't need a full token.Identifier import alias.
type Identifier = token.Identifier
