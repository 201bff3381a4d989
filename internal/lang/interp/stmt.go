package interp

import (
	"errors"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/ast"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/env"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/value"
)

func (it *Interp) execStmts(body []ast.Stmt) error {
	for _, s := range body {
		if err := it.execStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interp) execStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.Program:
		return it.execStmts(n.Body)
	case *ast.Block:
		prev := it.current
		it.current = env.New(prev)
		err := it.execStmts(n.Body)
		it.current = prev
		return err
	case *ast.ExprStmt:
		_, err := it.evalExpr(n.Expr)
		return err
	case *ast.Declaration:
		val, err := it.evalExpr(n.Expr)
		if err != nil {
			return err
		}
		it.current.Define(n.Dst.Name, val)
		return nil
	case *ast.If:
		cond, err := it.evalExpr(n.Condition)
		if err != nil {
			return err
		}
		if cond.Truthy() {
			return it.execStmt(n.Body)
		}
		if n.Else != nil {
			return it.execStmt(n.Else)
		}
		return nil
	case *ast.Loop:
		return it.execLoop(n)
	case *ast.Return:
		val, err := it.evalOptional(n.Expr)
		if err != nil {
			return err
		}
		return returnSignal{Value: val}
	case *ast.Break:
		return breakSignal{}
	case *ast.Continue:
		return continueSignal{}
	default:
		return &Error{Kind: ErrUnexpectedStatement, Span: s.Span()}
	}
}

// execLoop drives while/for/bare-loop (all lowered to Loop by the
// parser): test condition (absence means always-true), run body, run
// post; Break/Continue unwind only this loop's iteration (spec §4.4).
func (it *Interp) execLoop(n *ast.Loop) error {
	for {
		if n.Condition != nil {
			cond, err := it.evalExpr(n.Condition)
			if err != nil {
				return err
			}
			if !cond.Truthy() {
				return nil
			}
		}

		if err := it.execStmt(n.Body); err != nil {
			var brk breakSignal
			if errors.As(err, &brk) {
				return nil
			}
			var cnt continueSignal
			if !errors.As(err, &cnt) {
				return err
			}
		}

		if n.Post != nil {
			if err := it.execStmt(n.Post); err != nil {
				return err
			}
		}
	}
}

// evalOptional evaluates e, or yields Undefined if e is nil (an omitted
// `return;` expression).
func (it *Interp) evalOptional(e ast.Expr) (value.Value, error) {
	if e == nil {
		return value.Undefined(), nil
	}
	return it.evalExpr(e)
}
