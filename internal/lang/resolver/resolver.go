// Package resolver walks the AST once to statically resolve variable
// accesses to a lexical scope distance, used by the evaluator so built-ins
// stay cheap to look up without populating every local scope.
package resolver

import (
	"errors"
	"fmt"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/ast"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
)

// ErrReadInOwnInitializer is raised when a declared-but-not-yet-defined
// name is read inside its own initializer (`var $x = $x;`).
var ErrReadInOwnInitializer = errors.New("cannot read local variable in its own initializer")

// Error is the resolver's typed error value.
type Error struct {
	Kind error
	Span token.Span
	Name string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Span, e.Name)
}

func (e *Error) Unwrap() error { return e.Kind }

type scope map[string]bool // name -> initialized

// Resolver produces the Locals side table: expression id -> scope
// distance. Absence of a key means "reach root scope".
type Resolver struct {
	scopes []scope
	Locals map[ast.ExprID]int
}

func New() *Resolver {
	return &Resolver{Locals: make(map[ast.ExprID]int)}
}

// Resolve walks a parsed program, returning the first resolver error
// encountered, if any.
func (r *Resolver) Resolve(program *ast.Program) error {
	return r.resolveStmts(program.Body)
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, scope{}) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = false
}

func (r *Resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

func (r *Resolver) resolveLocal(id ast.ExprID, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.Locals[id] = len(r.scopes) - 1 - i
			return
		}
	}
	// absent: caller falls back to the root environment
}

func (r *Resolver) resolveStmts(body []ast.Stmt) error {
	for _, s := range body {
		if err := r.resolveStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) resolveStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.Block:
		r.beginScope()
		err := r.resolveStmts(n.Body)
		r.endScope()
		return err
	case *ast.ExprStmt:
		return r.resolveExpr(n.Expr)
	case *ast.Declaration:
		r.declare(n.Dst.Name)
		if err := r.resolveExpr(n.Expr); err != nil {
			return err
		}
		r.define(n.Dst.Name)
		return nil
	case *ast.If:
		if err := r.resolveExpr(n.Condition); err != nil {
			return err
		}
		if err := r.resolveStmt(n.Body); err != nil {
			return err
		}
		if n.Else != nil {
			return r.resolveStmt(n.Else)
		}
		return nil
	case *ast.Loop:
		if n.Condition != nil {
			if err := r.resolveExpr(n.Condition); err != nil {
				return err
			}
		}
		if err := r.resolveStmt(n.Body); err != nil {
			return err
		}
		if n.Post != nil {
			return r.resolveStmt(n.Post)
		}
		return nil
	case *ast.Return:
		if n.Expr != nil {
			return r.resolveExpr(n.Expr)
		}
		return nil
	case *ast.Break, *ast.Continue:
		return nil
	default:
		return nil
	}
}

func (r *Resolver) resolveExpr(e ast.Expr) error {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.LiteralExpr:
		switch n.Value.Kind {
		case ast.LitArray:
			for _, el := range n.Value.Array {
				if err := r.resolveExpr(el); err != nil {
					return err
				}
			}
		case ast.LitObject:
			for _, f := range n.Value.Object {
				if err := r.resolveExpr(f.Value); err != nil {
					return err
				}
			}
		}
		return nil
	case *ast.VariableExpr:
		if len(r.scopes) > 0 {
			if initialized, ok := r.scopes[len(r.scopes)-1][n.Name.Name]; ok && !initialized {
				return &Error{Kind: ErrReadInOwnInitializer, Span: n.Span(), Name: n.Name.Name}
			}
		}
		r.resolveLocal(n.ID(), n.Name.Name)
		return nil
	case *ast.FieldPathExpr:
		// SQL name resolution is the planner's responsibility.
		return nil
	case *ast.GroupingExpr:
		return r.resolveExpr(n.Inner)
	case *ast.UnaryExpr:
		return r.resolveExpr(n.Expr)
	case *ast.BinaryExpr:
		if err := r.resolveExpr(n.Left); err != nil {
			return err
		}
		return r.resolveExpr(n.Right)
	case *ast.LogicalExpr:
		if err := r.resolveExpr(n.Left); err != nil {
			return err
		}
		return r.resolveExpr(n.Right)
	case *ast.AssignmentExpr:
		if err := r.resolveExpr(n.Expr); err != nil {
			return err
		}
		r.resolveLocal(n.ID(), n.Dst.Name)
		return nil
	case *ast.CallExpr:
		if err := r.resolveExpr(n.Callee); err != nil {
			return err
		}
		for _, a := range n.Args {
			if err := r.resolveExpr(a); err != nil {
				return err
			}
		}
		return nil
	case *ast.GetExpr:
		return r.resolveExpr(n.Object)
	case *ast.SetExpr:
		if err := r.resolveExpr(n.Object); err != nil {
			return err
		}
		return r.resolveExpr(n.Value)
	case *ast.BetweenExpr:
		if err := r.resolveExpr(n.Subject); err != nil {
			return err
		}
		if err := r.resolveExpr(n.Lower); err != nil {
			return err
		}
		return r.resolveExpr(n.Upper)
	case *ast.FunctionExpr:
		if n.Name != nil {
			r.declare(n.Name.Name)
			r.define(n.Name.Name)
		}
		r.beginScope()
		for _, p := range n.Params {
			r.declare(p.Name.Name)
			r.define(p.Name.Name)
		}
		err := r.resolveStmts(n.Body)
		r.endScope()
		return err
	case *ast.SelectExpr, *ast.InsertExpr, *ast.UpdateExpr, *ast.DeleteExpr:
		// SQL name resolution is the planner's responsibility.
		return nil
	default:
		return nil
	}
}
