package plan

import (
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/ast"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/env"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/interp"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/value"
)

// discoverAggregates walks a projection list and an optional HAVING
// expression for Call expressions whose callee resolves to an aggregate
// callable (spec §4.5). root is used for a minimal evaluation pass over
// just the callee (e.g. `math.avg`'s Get(Variable(math), avg) chain),
// without evaluating the call's arguments.
func discoverAggregates(root *env.Frame, projection []ast.Projected, having ast.Expr) ([]Aggregation, error) {
	d := &aggregateDiscovery{root: root, seen: map[string]Aggregation{}}
	for _, p := range projection {
		if p.Expr == nil {
			continue
		}
		if err := d.walk(p.Expr, false); err != nil {
			return nil, err
		}
	}
	if having != nil {
		if err := d.walk(having, false); err != nil {
			return nil, err
		}
	}
	out := make([]Aggregation, 0, len(d.order))
	for _, sig := range d.order {
		out = append(out, d.seen[sig])
	}
	return out, nil
}

// checkNoAggregates raises AggregationNotAllowed if e (a WHERE predicate
// or a GROUP BY expression) contains an aggregate call.
func checkNoAggregates(root *env.Frame, e ast.Expr, clause string) error {
	if e == nil {
		return nil
	}
	d := &aggregateDiscovery{root: root, seen: map[string]Aggregation{}, forbidClause: clause}
	return d.walk(e, false)
}

type aggregateDiscovery struct {
	root         *env.Frame
	seen         map[string]Aggregation
	order        []string
	forbidClause string
}

func (d *aggregateDiscovery) walk(e ast.Expr, insideAggregateArgs bool) error {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.CallExpr:
		isAgg := d.isAggregateCallee(n.Callee)
		if isAgg {
			if d.forbidClause != "" {
				return &Error{Kind: ErrAggregationNotAllowed, Span: n.Span(), Msg: d.forbidClause}
			}
			if insideAggregateArgs {
				return &Error{Kind: ErrNestedAggregationNotAllowed, Span: n.Span()}
			}
			sig := n.Signature()
			if _, ok := d.seen[sig]; !ok {
				d.seen[sig] = Aggregation{
					Name:          aggregateName(n),
					Args:          n.Args,
					CallSignature: sig,
					Factory:       d.resolveFactory(n.Callee),
				}
				d.order = append(d.order, sig)
			}
		}
		for _, a := range n.Args {
			if err := d.walk(a, insideAggregateArgs || isAgg); err != nil {
				return err
			}
		}
		return d.walk(n.Callee, insideAggregateArgs)
	case *ast.BinaryExpr:
		if err := d.walk(n.Left, insideAggregateArgs); err != nil {
			return err
		}
		return d.walk(n.Right, insideAggregateArgs)
	case *ast.LogicalExpr:
		if err := d.walk(n.Left, insideAggregateArgs); err != nil {
			return err
		}
		return d.walk(n.Right, insideAggregateArgs)
	case *ast.UnaryExpr:
		return d.walk(n.Expr, insideAggregateArgs)
	case *ast.GroupingExpr:
		return d.walk(n.Inner, insideAggregateArgs)
	case *ast.GetExpr:
		return d.walk(n.Object, insideAggregateArgs)
	case *ast.BetweenExpr:
		if err := d.walk(n.Subject, insideAggregateArgs); err != nil {
			return err
		}
		if err := d.walk(n.Lower, insideAggregateArgs); err != nil {
			return err
		}
		return d.walk(n.Upper, insideAggregateArgs)
	default:
		return nil
	}
}

func (d *aggregateDiscovery) isAggregateCallee(callee ast.Expr) bool {
	v, ok := d.evalCallee(callee)
	if !ok || v.Kind() != value.KindCallable {
		return false
	}
	return v.AsCallable().IsAggregate()
}

func (d *aggregateDiscovery) resolveFactory(callee ast.Expr) interp.BuiltinFunc {
	v, ok := d.evalCallee(callee)
	if !ok {
		return nil
	}
	b, ok := v.AsCallable().(*interp.Builtin)
	if !ok {
		return nil
	}
	return b.Fn
}

// evalCallee resolves a Variable/Get chain directly against root,
// without going through the evaluator (the planner runs before any
// execution row exists, and the callee of an aggregate call is always a
// namespace lookup, never itself computed).
func (d *aggregateDiscovery) evalCallee(callee ast.Expr) (value.Value, bool) {
	switch n := callee.(type) {
	case *ast.VariableExpr:
		v, err := d.root.GetRoot(n.Name.Name)
		if err != nil {
			return value.Value{}, false
		}
		return v, true
	case *ast.GetExpr:
		objV, ok := d.evalCallee(n.Object)
		if !ok || objV.Kind() != value.KindObject {
			return value.Value{}, false
		}
		return objV.AsObject().Get(n.Name)
	default:
		return value.Value{}, false
	}
}

func aggregateName(c *ast.CallExpr) string {
	if v, ok := c.Callee.(*ast.GetExpr); ok {
		return v.Name
	}
	if v, ok := c.Callee.(*ast.VariableExpr); ok {
		return v.Name.Name
	}
	return "<anonymous>"
}
