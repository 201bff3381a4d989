package interp

import (
	"regexp"
	"strings"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/ast"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/value"
)

func (it *Interp) evalExpr(e ast.Expr) (value.Value, error) {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return it.evalLiteral(n)
	case *ast.VariableExpr:
		return it.evalVariable(n)
	case *ast.FieldPathExpr:
		return it.evalFieldPath(n)
	case *ast.GroupingExpr:
		return it.evalExpr(n.Inner)
	case *ast.UnaryExpr:
		return it.evalUnary(n)
	case *ast.BinaryExpr:
		return it.evalBinary(n)
	case *ast.LogicalExpr:
		return it.evalLogical(n)
	case *ast.AssignmentExpr:
		return it.evalAssignment(n)
	case *ast.CallExpr:
		return it.evalCall(n)
	case *ast.GetExpr:
		return it.evalGet(n)
	case *ast.SetExpr:
		return it.evalSet(n)
	case *ast.BetweenExpr:
		return it.evalBetween(n)
	case *ast.FunctionExpr:
		return it.evalFunctionLiteral(n)
	case *ast.SelectExpr:
		return it.runQuery(e.Span(), func(qe QueryExecutor) (value.Value, error) { return qe.RunSelect(it, n.Query) })
	case *ast.InsertExpr:
		return it.runQuery(e.Span(), func(qe QueryExecutor) (value.Value, error) { return qe.RunInsert(it, n.Insert) })
	case *ast.UpdateExpr:
		return it.runQuery(e.Span(), func(qe QueryExecutor) (value.Value, error) { return qe.RunUpdate(it, n.Update) })
	case *ast.DeleteExpr:
		return it.runQuery(e.Span(), func(qe QueryExecutor) (value.Value, error) { return qe.RunDelete(it, n.Delete) })
	default:
		return value.Undefined(), &Error{Kind: ErrUnexpectedStatement, Span: e.Span()}
	}
}

func (it *Interp) runQuery(span token.Span, run func(QueryExecutor) (value.Value, error)) (value.Value, error) {
	if it.Queries == nil {
		return value.Undefined(), &Error{Kind: ErrUnexpectedStatement, Span: span, Msg: "no query executor wired"}
	}
	return run(it.Queries)
}

func (it *Interp) evalLiteral(n *ast.LiteralExpr) (value.Value, error) {
	switch n.Value.Kind {
	case ast.LitStr:
		return value.Str(n.Value.Str), nil
	case ast.LitNum:
		return value.Num(n.Value.Num), nil
	case ast.LitBool:
		return value.Bool(n.Value.Bool), nil
	case ast.LitUndefined:
		return value.Undefined(), nil
	case ast.LitArray:
		elems := make([]value.Value, len(n.Value.Array))
		for i, el := range n.Value.Array {
			v, err := it.evalExpr(el)
			if err != nil {
				return value.Undefined(), err
			}
			elems[i] = v
		}
		return value.FromArray(&value.Array{Elements: elems}), nil
	case ast.LitObject:
		obj := value.NewObject()
		for _, f := range n.Value.Object {
			v, err := it.evalExpr(f.Value)
			if err != nil {
				return value.Undefined(), err
			}
			obj.Set(f.Key, v)
		}
		return value.FromObject(obj), nil
	default:
		return value.Undefined(), &Error{Kind: ErrUnexpectedStatement, Span: n.Span()}
	}
}

// evalVariable implements spec §4.4's lookup order: the active
// execution row wins if it carries the name; otherwise consult the
// resolver's locals table for a scope distance, or fall back to the
// root frame.
func (it *Interp) evalVariable(n *ast.VariableExpr) (value.Value, error) {
	if it.execRow != nil {
		if v, ok := it.execRow.Fields[n.Name.Name]; ok {
			return v, nil
		}
	}
	var v value.Value
	var err error
	if dist, ok := it.locals[n.ID()]; ok {
		v, err = it.current.GetAt(dist, n.Name.Name)
	} else {
		v, err = it.current.GetRoot(n.Name.Name)
	}
	if err != nil {
		return value.Undefined(), &Error{Kind: err, Span: n.Span(), Msg: n.Name.Name}
	}
	return v, nil
}

// evalFieldPath reads a dotted chain against the active execution row
// only — FieldPath exists exclusively for SQL-scope row field access
// (spec §4.4).
func (it *Interp) evalFieldPath(n *ast.FieldPathExpr) (value.Value, error) {
	if it.execRow == nil {
		return value.Undefined(), &Error{Kind: ErrPropertyNotFound, Span: n.Span(), Msg: n.Head.Name}
	}
	cur, ok := it.execRow.Fields[n.Head.Name]
	if !ok {
		return value.Undefined(), &Error{Kind: ErrPropertyNotFound, Span: n.Span(), Msg: n.Head.Name}
	}
	for _, seg := range n.Tail {
		if cur.Kind() != value.KindObject {
			return value.Undefined(), &Error{Kind: ErrInvalidPropertyAccess, Span: n.Span(), Msg: seg.Name}
		}
		next, ok := cur.AsObject().Get(seg.Name)
		if !ok {
			return value.Undefined(), &Error{Kind: ErrPropertyNotFound, Span: n.Span(), Msg: seg.Name}
		}
		cur = next
	}
	return cur, nil
}

func (it *Interp) evalUnary(n *ast.UnaryExpr) (value.Value, error) {
	operand, err := it.evalExpr(n.Expr)
	if err != nil {
		return value.Undefined(), err
	}
	switch n.Op {
	case ast.UnaryNeg:
		if operand.Kind() == value.KindNum {
			return value.Num(-operand.AsNum()), nil
		}
		return value.Undefined(), nil
	case ast.UnaryNot:
		return value.Bool(!operand.Truthy()), nil
	default:
		return value.Undefined(), &Error{Kind: ErrUnexpectedStatement, Span: n.Span()}
	}
}

func (it *Interp) evalBinary(n *ast.BinaryExpr) (value.Value, error) {
	left, err := it.evalExpr(n.Left)
	if err != nil {
		return value.Undefined(), err
	}
	right, err := it.evalExpr(n.Right)
	if err != nil {
		return value.Undefined(), err
	}
	switch n.Op {
	case ast.BinAdd:
		return value.Add(left, right), nil
	case ast.BinSub:
		return value.Sub(left, right), nil
	case ast.BinMul:
		return value.Mul(left, right), nil
	case ast.BinDiv:
		return value.Div(left, right), nil
	case ast.BinEq:
		return value.Bool(value.Equal(left, right)), nil
	case ast.BinNotEq:
		return value.Bool(!value.Equal(left, right)), nil
	case ast.BinLess, ast.BinLessEq, ast.BinGreater, ast.BinGreaterEq:
		cmp, ok := value.Compare(left, right)
		if !ok {
			return value.Undefined(), nil
		}
		return value.Bool(compareSatisfies(n.Op, cmp)), nil
	case ast.BinIn:
		if right.Kind() != value.KindArray {
			return value.Undefined(), &Error{Kind: ErrInvalidArgumentType, Span: n.Span(), Msg: "IN requires an array"}
		}
		for _, el := range right.AsArray().Elements {
			if value.Equal(left, el) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	case ast.BinLike:
		if left.Kind() != value.KindStr || right.Kind() != value.KindStr {
			return value.Undefined(), &Error{Kind: ErrInvalidArgumentType, Span: n.Span(), Msg: "LIKE requires strings"}
		}
		return value.Bool(sqlLike(left.AsStr(), right.AsStr())), nil
	default:
		return value.Undefined(), &Error{Kind: ErrUnexpectedStatement, Span: n.Span()}
	}
}

func compareSatisfies(op ast.BinaryOp, cmp int) bool {
	switch op {
	case ast.BinLess:
		return cmp < 0
	case ast.BinLessEq:
		return cmp <= 0
	case ast.BinGreater:
		return cmp > 0
	case ast.BinGreaterEq:
		return cmp >= 0
	default:
		return false
	}
}

// sqlLike implements SQL LIKE matching: '%' matches any run of
// characters, '_' matches exactly one.
func sqlLike(s, pattern string) bool {
	var sb strings.Builder
	sb.WriteByte('^')
	for _, r := range pattern {
		switch r {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteByte('$')
	re, err := regexp.Compile(sb.String())
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

// evalLogical implements short-circuit && / ||: the result is Bool of
// the *last evaluated operand's* truthiness, not the operand itself
// (spec §4.4 — a deliberate departure from Lua-style semantics).
func (it *Interp) evalLogical(n *ast.LogicalExpr) (value.Value, error) {
	left, err := it.evalExpr(n.Left)
	if err != nil {
		return value.Undefined(), err
	}
	if n.Op == ast.LogAnd && !left.Truthy() {
		return value.Bool(false), nil
	}
	if n.Op == ast.LogOr && left.Truthy() {
		return value.Bool(true), nil
	}
	right, err := it.evalExpr(n.Right)
	if err != nil {
		return value.Undefined(), err
	}
	return value.Bool(right.Truthy()), nil
}

func (it *Interp) evalAssignment(n *ast.AssignmentExpr) (value.Value, error) {
	rhs, err := it.evalExpr(n.Expr)
	if err != nil {
		return value.Undefined(), err
	}
	var assignErr error
	if dist, ok := it.locals[n.ID()]; ok {
		assignErr = it.current.AssignAt(dist, n.Dst.Name, rhs)
	} else {
		assignErr = it.current.AssignRoot(n.Dst.Name, rhs)
	}
	if assignErr != nil {
		return value.Undefined(), &Error{Kind: assignErr, Span: n.Span(), Msg: n.Dst.Name}
	}
	return rhs, nil
}

func (it *Interp) evalBetween(n *ast.BetweenExpr) (value.Value, error) {
	lower, err := it.evalExpr(n.Lower)
	if err != nil {
		return value.Undefined(), err
	}
	upper, err := it.evalExpr(n.Upper)
	if err != nil {
		return value.Undefined(), err
	}
	subject, err := it.evalExpr(n.Subject)
	if err != nil {
		return value.Undefined(), err
	}
	if lower.Kind() != value.KindNum || upper.Kind() != value.KindNum || subject.Kind() != value.KindNum {
		return value.Undefined(), &Error{Kind: ErrInvalidRangeExpression, Span: n.Span()}
	}
	lo, hi := lower.AsNum(), upper.AsNum()
	if lo > hi {
		lo, hi = hi, lo
	}
	s := subject.AsNum()
	in := lo <= s && s <= hi
	if n.Kind == ast.NotBetween {
		in = !in
	}
	return value.Bool(in), nil
}

func (it *Interp) evalGet(n *ast.GetExpr) (value.Value, error) {
	obj, err := it.evalExpr(n.Object)
	if err != nil {
		return value.Undefined(), err
	}
	if obj.Kind() != value.KindObject {
		return value.Undefined(), &Error{Kind: ErrInvalidPropertyAccess, Span: n.Span(), Msg: n.Name}
	}
	v, ok := obj.AsObject().Get(n.Name)
	if !ok {
		return value.Undefined(), &Error{Kind: ErrPropertyNotFound, Span: n.Span(), Msg: n.Name}
	}
	return v, nil
}

func (it *Interp) evalSet(n *ast.SetExpr) (value.Value, error) {
	obj, err := it.evalExpr(n.Object)
	if err != nil {
		return value.Undefined(), err
	}
	if obj.Kind() != value.KindObject {
		return value.Undefined(), &Error{Kind: ErrInvalidPropertyAccess, Span: n.Span(), Msg: n.Name}
	}
	val, err := it.evalExpr(n.Value)
	if err != nil {
		return value.Undefined(), err
	}
	obj.AsObject().Set(n.Name, val)
	return val, nil
}

func (it *Interp) evalFunctionLiteral(n *ast.FunctionExpr) (value.Value, error) {
	fn := &UserFunction{Decl: n, Closure: it.current}
	v := value.FromCallable(fn)
	if n.Name != nil {
		it.current.Define(n.Name.Name, v)
	}
	return v, nil
}

func (it *Interp) evalCall(n *ast.CallExpr) (value.Value, error) {
	calleeVal, err := it.evalExpr(n.Callee)
	if err != nil {
		return value.Undefined(), err
	}
	callable := calleeVal.AsCallable()
	if callable == nil {
		return value.Undefined(), &Error{Kind: ErrNotCallable, Span: n.Span()}
	}

	// An aggregate used inside a running query's row scope was already
	// reduced by the planner's Aggregate node; reading it directly here
	// would require re-scanning every row the plan already consumed.
	// Outside a row (plain script use, or the planner's own internal
	// reduction over a collected column) it's just a Builtin like any
	// other, called through Fn below.
	if callable.IsAggregate() && it.execRow != nil {
		return it.lookupAggregate(n)
	}

	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := it.evalExpr(a)
		if err != nil {
			return value.Undefined(), err
		}
		args[i] = v
	}

	min, max := callable.Arity()
	if len(args) < min || (max >= 0 && len(args) > max) {
		return value.Undefined(), &Error{Kind: ErrArityMismatch, Span: n.Span(), Msg: callable.Name()}
	}

	switch fn := callable.(type) {
	case *UserFunction:
		return it.callUserFunction(fn, args)
	case *Builtin:
		return fn.Fn(it, n.Span(), args)
	default:
		return value.Undefined(), &Error{Kind: ErrNotCallable, Span: n.Span()}
	}
}

// lookupAggregate implements spec §4.4's aggregate dispatch: when an
// execution row is active and the callee is an aggregate, the result was
// already computed by the planner's Aggregate node and is looked up by
// call signature; absence means the planner failed to populate it.
func (it *Interp) lookupAggregate(n *ast.CallExpr) (value.Value, error) {
	if it.execRow == nil {
		return value.Undefined(), &Error{Kind: ErrUnexpectedStatement, Span: n.Span(), Msg: "aggregate call outside a query row"}
	}
	v, ok := it.execRow.Aggregates[n.Signature()]
	if !ok {
		return value.Undefined(), &Error{Kind: ErrUnexpectedStatement, Span: n.Span(), Msg: "aggregate result missing for " + n.Signature()}
	}
	return v, nil
}

// callUserFunction establishes a call frame parented by the closure,
// binds parameters positionally, executes the body, and unwraps a
// Return signal; falling off the end yields Undefined (spec §4.4).
func (it *Interp) callUserFunction(fn *UserFunction, args []value.Value) (value.Value, error) {
	callFrame := it.newCallFrame(fn.Closure)
	for i, p := range fn.Decl.Params {
		callFrame.Define(p.Name.Name, args[i])
	}

	prev := it.current
	it.current = callFrame
	err := it.execStmts(fn.Decl.Body)
	it.current = prev

	if err == nil {
		return value.Undefined(), nil
	}
	if ret, ok := asReturn(err); ok {
		return ret.Value, nil
	}
	return value.Undefined(), err
}
