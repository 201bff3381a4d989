// Package interp is the tree-walking evaluator (spec §4.4): a
// single-threaded, stack-recursive visitor over the AST that produces
// values, threading an environment frame chain, a resolver's locals
// table, and an optional per-row binding used while evaluating a
// projection/filter inside a running query.
package interp

import (
	"io"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/ast"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/env"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/value"
)

// ExecRow is the "execution row" slot: the per-row bindings and
// pre-computed aggregate results visible while evaluating a query's
// projection/filter expressions (spec §4.4, §4.5).
type ExecRow struct {
	Fields     map[string]value.Value
	Aggregates map[string]value.Value // keyed by CallExpr.Signature()
}

// QueryExecutor lowers and runs a SQL sub-tree, injecting rows into the
// interpreter's execution-row slot as it goes. It lives behind an
// interface so this package never imports the planner/executor — the
// planner instead depends on interp to evaluate scalar expressions
// within a row.
type QueryExecutor interface {
	RunSelect(it *Interp, sel *ast.Select) (value.Value, error)
	RunInsert(it *Interp, ins *ast.Insert) (value.Value, error)
	RunUpdate(it *Interp, upd *ast.Update) (value.Value, error)
	RunDelete(it *Interp, del *ast.Delete) (value.Value, error)
}

// Interp holds all evaluator state (spec §4.4).
type Interp struct {
	Root    *env.Frame
	Out     io.Writer
	Queries QueryExecutor // nil until a planner/executor is wired in

	locals  map[ast.ExprID]int
	current *env.Frame
	execRow *ExecRow
}

// New constructs an interpreter over a fresh root frame, consuming a
// resolver's locals table.
func New(locals map[ast.ExprID]int, out io.Writer) *Interp {
	root := env.New(nil)
	return &Interp{
		Root:   root,
		Out:    out,
		locals: locals,
		current: root,
	}
}

// Run executes a parsed program's top-level statements against the root
// frame.
func (it *Interp) Run(program *ast.Program) error {
	if program == nil {
		return &Error{Kind: ErrNoProgramLoaded}
	}
	it.current = it.Root
	return it.execStmts(program.Body)
}

// WithExecRow runs fn with row installed as the active execution row,
// restoring whatever was active beforehand — used by the query executor
// while streaming rows through a plan's embedded expressions.
func (it *Interp) WithExecRow(row *ExecRow, fn func() error) error {
	prev := it.execRow
	it.execRow = row
	defer func() { it.execRow = prev }()
	return fn()
}

// Eval evaluates a single expression against the interpreter's current
// frame — the entry point the query executor uses for projections,
// filters and join constraints.
func (it *Interp) Eval(e ast.Expr) (value.Value, error) {
	return it.evalExpr(e)
}

// PushFrame installs a fresh child frame as current and returns a
// restorer, for callers (e.g. the executor) that need their own scope
// without going through a Block statement.
func (it *Interp) PushFrame() func() {
	prev := it.current
	it.current = env.New(prev)
	return func() { it.current = prev }
}

// Current exposes the interpreter's active frame, e.g. so a freshly
// constructed UserFunction can capture it.
func (it *Interp) Current() *env.Frame { return it.current }

// newCallFrame creates a fresh frame parented by a function's closure,
// not the caller's frame — giving user functions lexical, not dynamic,
// scoping.
func (it *Interp) newCallFrame(closure *env.Frame) *env.Frame {
	return env.New(closure)
}
