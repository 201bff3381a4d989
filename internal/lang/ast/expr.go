// Package ast defines the uniform AST LykiaDB's parser produces: scripts
// and SQL queries are both expressions, every node carries a span and a
// parser-assigned, monotonically unique id.
package ast

import "github.com/lykia-rs/lykiadb-sub001/internal/lang/token"

// ExprID uniquely identifies one expression node within a single parse.
// It is the key used by the resolver's side tables and the planner's
// call-signature cache — deliberately an integer rather than a pointer, so
// those tables stay plain maps.
type ExprID uint64

// Expr is the tagged-variant expression interface; every concrete type in
// this file implements it.
type Expr interface {
	ID() ExprID
	Span() token.Span
	exprNode()
}

type base struct {
	id   ExprID
	span token.Span
}

func (b base) ID() ExprID      { return b.id }
func (b base) Span() token.Span { return b.span }
func (base) exprNode()         {}

// UnaryOp enumerates unary operators.
type UnaryOp int

const (
	UnaryNeg UnaryOp = iota
	UnaryNot
)

// BinaryOp enumerates arithmetic/comparison binary operators.
type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinEq
	BinNotEq
	BinLess
	BinLessEq
	BinGreater
	BinGreaterEq
	BinIn
	BinLike
)

// LogicalOp enumerates short-circuiting logical operators.
type LogicalOp int

const (
	LogAnd LogicalOp = iota
	LogOr
)

// BetweenKind distinguishes BETWEEN from NOT BETWEEN.
type BetweenKind int

const (
	Between BetweenKind = iota
	NotBetween
)

// LiteralExpr wraps a Literal with the raw source lexeme, preserved so a
// round-trip through canonical JSON stays faithful.
type LiteralExpr struct {
	base
	Value Literal
	Raw   string
}

// VariableExpr reads a (possibly $-forced) variable binding.
type VariableExpr struct {
	base
	Name token.Identifier
}

// FieldPathExpr is a dotted name reference (a.b.c) used in SQL-scope
// contexts, where Head refers to a row's field rather than an environment
// binding.
type FieldPathExpr struct {
	base
	Head token.Identifier
	Tail []token.Identifier
}

// GroupingExpr is a parenthesized sub-expression.
type GroupingExpr struct {
	base
	Inner Expr
}

// UnaryExpr applies a prefix unary operator.
type UnaryExpr struct {
	base
	Op   UnaryOp
	Expr Expr
}

// BinaryExpr applies an arithmetic/comparison binary operator.
type BinaryExpr struct {
	base
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// LogicalExpr applies && / || with short-circuit evaluation.
type LogicalExpr struct {
	base
	Op    LogicalOp
	Left  Expr
	Right Expr
}

// AssignmentExpr assigns to a variable destination. A member-access
// (Get) left-hand side parses as a SetExpr instead; no other shape is a
// legal left-hand side (enforced in the parser).
type AssignmentExpr struct {
	base
	Dst  token.Identifier
	Expr Expr
}

// CallExpr invokes a callee with positional arguments.
type CallExpr struct {
	base
	Callee Expr
	Args   []Expr
}

// GetExpr is member access (object.name).
type GetExpr struct {
	base
	Object Expr
	Name   string
}

// SetExpr is member assignment (object.name = value).
type SetExpr struct {
	base
	Object Expr
	Name   string
	Value  Expr
}

// BetweenExpr tests subject ∈ [lower, upper] (or its negation).
type BetweenExpr struct {
	base
	Subject Expr
	Lower   Expr
	Upper   Expr
	Kind    BetweenKind
}

// TypeKind is the closed set of type-annotation names the core
// recognizes syntactically without ever enforcing (spec §1 Non-goals).
type TypeKind int

const (
	TyAny TypeKind = iota
	TyStr
	TyNum
	TyBool
	TyArray
	TyObject
	TyCallable
	// TyUnknown is the fallback for any annotation name the core does
	// not special-case, preserved verbatim in TypeAnnotation.Name for
	// forward compatibility with names the core doesn't know about yet.
	TyUnknown
)

// TypeAnnotationKinds maps every recognized annotation keyword to its
// TypeKind; a name absent from this table parses as TyUnknown.
var TypeAnnotationKinds = map[string]TypeKind{
	"any":      TyAny,
	"str":      TyStr,
	"num":      TyNum,
	"bool":     TyBool,
	"array":    TyArray,
	"object":   TyObject,
	"callable": TyCallable,
}

// TypeAnnotation is parsed but never enforced by the core.
type TypeAnnotation struct {
	Kind TypeKind
	Name string
}

// Param is one function-literal parameter with its optional type
// annotation.
type Param struct {
	Name token.Identifier
	Type *TypeAnnotation
}

// FunctionExpr is a closure literal. Body is a slice of statements shared
// by every captured reference to this literal (a function value holds a
// pointer to the same FunctionExpr, never a copy).
type FunctionExpr struct {
	base
	Name       *token.Identifier
	Params     []Param
	ReturnType *TypeAnnotation
	Body       []Stmt
}

// SelectExpr/InsertExpr/UpdateExpr/DeleteExpr wrap SQL sub-trees so SQL
// statements can be used as r-values inside script expressions.
type SelectExpr struct {
	base
	Query *Select
}

type InsertExpr struct {
	base
	Insert *Insert
}

type UpdateExpr struct {
	base
	Update *Update
}

type DeleteExpr struct {
	base
	Delete *Delete
}

func NewLiteral(id ExprID, span token.Span, value Literal, raw string) *LiteralExpr {
	return &LiteralExpr{base: base{id, span}, Value: value, Raw: raw}
}

func NewVariable(id ExprID, span token.Span, name token.Identifier) *VariableExpr {
	return &VariableExpr{base: base{id, span}, Name: name}
}

func NewFieldPath(id ExprID, span token.Span, head token.Identifier, tail []token.Identifier) *FieldPathExpr {
	return &FieldPathExpr{base: base{id, span}, Head: head, Tail: tail}
}

func NewGrouping(id ExprID, span token.Span, inner Expr) *GroupingExpr {
	return &GroupingExpr{base: base{id, span}, Inner: inner}
}

func NewUnary(id ExprID, span token.Span, op UnaryOp, expr Expr) *UnaryExpr {
	return &UnaryExpr{base: base{id, span}, Op: op, Expr: expr}
}

func NewBinary(id ExprID, span token.Span, op BinaryOp, left, right Expr) *BinaryExpr {
	return &BinaryExpr{base: base{id, span}, Op: op, Left: left, Right: right}
}

func NewLogical(id ExprID, span token.Span, op LogicalOp, left, right Expr) *LogicalExpr {
	return &LogicalExpr{base: base{id, span}, Op: op, Left: left, Right: right}
}

func NewAssignment(id ExprID, span token.Span, dst token.Identifier, expr Expr) *AssignmentExpr {
	return &AssignmentExpr{base: base{id, span}, Dst: dst, Expr: expr}
}

func NewCall(id ExprID, span token.Span, callee Expr, args []Expr) *CallExpr {
	return &CallExpr{base: base{id, span}, Callee: callee, Args: args}
}

func NewGet(id ExprID, span token.Span, object Expr, name string) *GetExpr {
	return &GetExpr{base: base{id, span}, Object: object, Name: name}
}

func NewSet(id ExprID, span token.Span, object Expr, name string, value Expr) *SetExpr {
	return &SetExpr{base: base{id, span}, Object: object, Name: name, Value: value}
}

func NewBetween(id ExprID, span token.Span, subject, lower, upper Expr, kind BetweenKind) *BetweenExpr {
	return &BetweenExpr{base: base{id, span}, Subject: subject, Lower: lower, Upper: upper, Kind: kind}
}

func NewFunction(id ExprID, span token.Span, name *token.Identifier, params []Param, ret *TypeAnnotation, body []Stmt) *FunctionExpr {
	return &FunctionExpr{base: base{id, span}, Name: name, Params: params, ReturnType: ret, Body: body}
}

func NewSelectExpr(id ExprID, span token.Span, query *Select) *SelectExpr {
	return &SelectExpr{base: base{id, span}, Query: query}
}

func NewInsertExpr(id ExprID, span token.Span, insert *Insert) *InsertExpr {
	return &InsertExpr{base: base{id, span}, Insert: insert}
}

func NewUpdateExpr(id ExprID, span token.Span, update *Update) *UpdateExpr {
	return &UpdateExpr{base: base{id, span}, Update: update}
}

func NewDeleteExpr(id ExprID, span token.Span, del *Delete) *DeleteExpr {
	return &DeleteExpr{base: base{id, span}, Delete: del}
}
