package plan

import (
	"sort"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/ast"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/interp"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/value"
)

// Executor implements interp.QueryExecutor: it lowers a SQL sub-tree and
// walks the resulting plan bottom-up, producing rows by evaluating the
// plan's embedded expressions through the same tree-walking evaluator
// (spec §4.5's "Execution" paragraph). Row storage (memtable/compaction,
// the block layer) is an external collaborator per spec §1's
// Non-goals; a Scan here reads its source straight out of the
// interpreter's root frame, expecting an Array of Object rows bound
// under the collection's name — the simplest binding that lets SQL
// statements run end-to-end against script-level data without smuggling
// a storage engine into the core.
type Executor struct{}

// New returns a reference Executor.
func New() *Executor { return &Executor{} }

var _ interp.QueryExecutor = (*Executor)(nil)

func (ex *Executor) RunSelect(it *interp.Interp, sel *ast.Select) (value.Value, error) {
	p, err := Lower(sel, it.Root)
	if err != nil {
		return value.Undefined(), err
	}
	rows, err := ex.run(it, p)
	if err != nil {
		return value.Undefined(), err
	}
	elems := make([]value.Value, len(rows))
	for i, r := range rows {
		elems[i] = rowToObject(r)
	}
	return value.FromArray(&value.Array{Elements: elems}), nil
}

func (ex *Executor) RunInsert(it *interp.Interp, ins *ast.Insert) (value.Value, error) {
	table, err := ex.table(it, ins.Into)
	if err != nil {
		return value.Undefined(), err
	}

	var newRows []value.Value
	if ins.Query != nil {
		p, err := Lower(ins.Query, it.Root)
		if err != nil {
			return value.Undefined(), err
		}
		rows, err := ex.run(it, p)
		if err != nil {
			return value.Undefined(), err
		}
		for _, r := range rows {
			newRows = append(newRows, rowToObject(r))
		}
	} else {
		for _, tuple := range ins.Values {
			obj := value.NewObject()
			for i, colExpr := range tuple {
				v, err := it.Eval(colExpr)
				if err != nil {
					return value.Undefined(), err
				}
				name := columnName(ins.Columns, i)
				obj.Set(name, v)
			}
			newRows = append(newRows, value.FromObject(obj))
		}
	}

	table.Elements = append(table.Elements, newRows...)
	return value.Num(float64(len(newRows))), nil
}

func (ex *Executor) RunUpdate(it *interp.Interp, upd *ast.Update) (value.Value, error) {
	table, err := ex.table(it, upd.Name)
	if err != nil {
		return value.Undefined(), err
	}

	count := 0
	for _, rowVal := range table.Elements {
		if rowVal.Kind() != value.KindObject {
			continue
		}
		match := true
		if upd.Where != nil {
			row := &interp.ExecRow{Fields: map[string]value.Value{upd.Name: rowVal}}
			v, err := evalInRow(it, row, upd.Where)
			if err != nil {
				return value.Undefined(), err
			}
			match = v.Truthy()
		}
		if !match {
			continue
		}
		row := &interp.ExecRow{Fields: map[string]value.Value{upd.Name: rowVal}}
		for _, set := range upd.Set {
			v, err := evalInRow(it, row, set.Value)
			if err != nil {
				return value.Undefined(), err
			}
			rowVal.AsObject().Set(set.Column, v)
		}
		count++
	}
	return value.Num(float64(count)), nil
}

func (ex *Executor) RunDelete(it *interp.Interp, del *ast.Delete) (value.Value, error) {
	table, err := ex.table(it, del.From)
	if err != nil {
		return value.Undefined(), err
	}

	kept := table.Elements[:0]
	deleted := 0
	for _, rowVal := range table.Elements {
		match := false
		if rowVal.Kind() == value.KindObject {
			if del.Where != nil {
				row := &interp.ExecRow{Fields: map[string]value.Value{del.From: rowVal}}
				v, err := evalInRow(it, row, del.Where)
				if err != nil {
					return value.Undefined(), err
				}
				match = v.Truthy()
			} else {
				match = true
			}
		}
		if match {
			deleted++
			continue
		}
		kept = append(kept, rowVal)
	}
	table.Elements = kept
	return value.Num(float64(deleted)), nil
}

func (ex *Executor) table(it *interp.Interp, name string) (*value.Array, error) {
	v, err := it.Root.GetRoot(name)
	if err != nil {
		return nil, &Error{Kind: ErrDuplicateObjectInScope, Msg: "unknown collection " + name}
	}
	if v.Kind() != value.KindArray {
		return nil, &Error{Msg: name + " is not a collection"}
	}
	return v.AsArray(), nil
}

func columnName(cols []string, i int) string {
	if i < len(cols) {
		return cols[i]
	}
	return ""
}

func evalInRow(it *interp.Interp, row *interp.ExecRow, e ast.Expr) (value.Value, error) {
	var v value.Value
	err := it.WithExecRow(row, func() error {
		var innerErr error
		v, innerErr = it.Eval(e)
		return innerErr
	})
	return v, err
}

// run walks a plan node bottom-up, returning the rows it produces as
// execution-row field maps (table alias -> row Object), before
// projection has shaped the final output columns.
func (ex *Executor) run(it *interp.Interp, n Node) ([]*interp.ExecRow, error) {
	switch node := n.(type) {
	case Nothing:
		return []*interp.ExecRow{{Fields: map[string]value.Value{}}}, nil
	case *Scan:
		return ex.runScan(it, node)
	case *EvalScan:
		return ex.runEvalScan(it, node)
	case *Join:
		return ex.runJoin(it, node)
	case *Subquery:
		return ex.runSubquery(it, node)
	case *Filter:
		return ex.runFilter(it, node)
	case *Aggregate:
		return ex.runAggregate(it, node)
	case *Projection:
		return ex.runProjection(it, node)
	case *Order:
		return ex.runOrder(it, node)
	case *Limit:
		return ex.runLimit(it, node)
	case *Offset:
		return ex.runOffset(it, node)
	case *Compound:
		return ex.runCompound(it, node)
	default:
		return nil, &Error{Msg: "unknown plan node"}
	}
}

func (ex *Executor) runScan(it *interp.Interp, n *Scan) ([]*interp.ExecRow, error) {
	v, err := it.Root.GetRoot(n.Name)
	if err != nil {
		return nil, err
	}
	if v.Kind() != value.KindArray {
		return nil, &Error{Msg: n.Name + " is not a collection"}
	}
	rows := make([]*interp.ExecRow, len(v.AsArray().Elements))
	for i, el := range v.AsArray().Elements {
		rows[i] = &interp.ExecRow{Fields: map[string]value.Value{n.Alias: el}}
	}
	return rows, nil
}

func (ex *Executor) runEvalScan(it *interp.Interp, n *EvalScan) ([]*interp.ExecRow, error) {
	v, err := it.Eval(n.Source)
	if err != nil {
		return nil, err
	}
	if v.Kind() != value.KindArray {
		return nil, &Error{Msg: "FROM expression did not yield an array"}
	}
	rows := make([]*interp.ExecRow, len(v.AsArray().Elements))
	for i, el := range v.AsArray().Elements {
		rows[i] = &interp.ExecRow{Fields: map[string]value.Value{n.Alias: el}}
	}
	return rows, nil
}

func (ex *Executor) runJoin(it *interp.Interp, n *Join) ([]*interp.ExecRow, error) {
	left, err := ex.run(it, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := ex.run(it, n.Right)
	if err != nil {
		return nil, err
	}

	var out []*interp.ExecRow
	for _, l := range left {
		matched := false
		for _, r := range right {
			merged := mergeFields(l.Fields, r.Fields)
			ok := true
			if n.Constraint != nil {
				row := &interp.ExecRow{Fields: merged}
				v, err := evalInRow(it, row, n.Constraint)
				if err != nil {
					return nil, err
				}
				ok = v.Truthy()
			}
			if ok {
				matched = true
				out = append(out, &interp.ExecRow{Fields: merged})
			}
		}
		if !matched && n.Kind == ast.JoinLeft {
			out = append(out, &interp.ExecRow{Fields: copyFields(l.Fields)})
		}
	}
	return out, nil
}

func mergeFields(a, b map[string]value.Value) map[string]value.Value {
	out := make(map[string]value.Value, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

func copyFields(a map[string]value.Value) map[string]value.Value {
	out := make(map[string]value.Value, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

func (ex *Executor) runSubquery(it *interp.Interp, n *Subquery) ([]*interp.ExecRow, error) {
	rows, err := ex.run(it, n.Plan)
	if err != nil {
		return nil, err
	}
	out := make([]*interp.ExecRow, len(rows))
	for i, r := range rows {
		out[i] = &interp.ExecRow{Fields: map[string]value.Value{n.Alias: rowToObject(r)}}
	}
	return out, nil
}

func (ex *Executor) runFilter(it *interp.Interp, n *Filter) ([]*interp.ExecRow, error) {
	rows, err := ex.run(it, n.Input)
	if err != nil {
		return nil, err
	}
	var out []*interp.ExecRow
	for _, r := range rows {
		v, err := evalInRow(it, r, n.Predicate)
		if err != nil {
			return nil, err
		}
		if v.Truthy() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (ex *Executor) runAggregate(it *interp.Interp, n *Aggregate) ([]*interp.ExecRow, error) {
	rows, err := ex.run(it, n.Input)
	if err != nil {
		return nil, err
	}

	type group struct {
		key  string
		rows []*interp.ExecRow
	}
	var groups []*group
	index := map[string]*group{}

	for _, r := range rows {
		key, err := groupKey(it, r, n.GroupBy)
		if err != nil {
			return nil, err
		}
		g, ok := index[key]
		if !ok {
			g = &group{key: key}
			index[key] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, r)
	}
	if len(groups) == 0 && len(n.GroupBy) == 0 {
		// An aggregate with no GROUP BY over zero rows still yields one
		// implicit group (e.g. a sum over an empty collection).
		groups = append(groups, &group{})
	}

	out := make([]*interp.ExecRow, len(groups))
	for i, g := range groups {
		var fields map[string]value.Value
		if len(g.rows) > 0 {
			fields = copyFields(g.rows[0].Fields)
		} else {
			fields = map[string]value.Value{}
		}
		aggregates := map[string]value.Value{}
		for _, agg := range n.Aggregations {
			v, err := computeAggregate(it, g.rows, agg)
			if err != nil {
				return nil, err
			}
			aggregates[agg.CallSignature] = v
		}
		out[i] = &interp.ExecRow{Fields: fields, Aggregates: aggregates}
	}
	return out, nil
}

func groupKey(it *interp.Interp, r *interp.ExecRow, groupBy []ast.Expr) (string, error) {
	if len(groupBy) == 0 {
		return "", nil
	}
	key := ""
	for _, g := range groupBy {
		v, err := evalInRow(it, r, g)
		if err != nil {
			return "", err
		}
		key += v.String() + "\x00"
	}
	return key, nil
}

func computeAggregate(it *interp.Interp, rows []*interp.ExecRow, agg Aggregation) (value.Value, error) {
	if agg.Factory == nil || len(agg.Args) == 0 {
		return value.Undefined(), nil
	}
	elems := make([]value.Value, 0, len(rows))
	for _, r := range rows {
		v, err := evalInRow(it, r, agg.Args[0])
		if err != nil {
			return value.Undefined(), err
		}
		elems = append(elems, v)
	}
	return agg.Factory(it, agg.Args[0].Span(), []value.Value{value.FromArray(&value.Array{Elements: elems})})
}

func (ex *Executor) runProjection(it *interp.Interp, n *Projection) ([]*interp.ExecRow, error) {
	rows, err := ex.run(it, n.Input)
	if err != nil {
		return nil, err
	}
	out := make([]*interp.ExecRow, len(rows))
	for i, r := range rows {
		obj := value.NewObject()
		for _, p := range n.Items {
			if p.Star {
				for _, tableVal := range r.Fields {
					if tableVal.Kind() != value.KindObject {
						continue
					}
					for _, k := range tableVal.AsObject().Keys() {
						fv, _ := tableVal.AsObject().Get(k)
						obj.Set(k, fv)
					}
				}
				continue
			}
			v, err := evalInRow(it, r, p.Expr)
			if err != nil {
				return nil, err
			}
			obj.Set(projectionName(p), v)
		}
		fields := copyFields(r.Fields)
		fields[""] = value.FromObject(obj)
		out[i] = &interp.ExecRow{Fields: fields}
	}
	return out, nil
}

func projectionName(p ast.Projected) string {
	if p.Alias != "" {
		return p.Alias
	}
	if ge, ok := p.Expr.(*ast.GetExpr); ok {
		return ge.Name
	}
	if ve, ok := p.Expr.(*ast.VariableExpr); ok {
		return ve.Name.Name
	}
	if fp, ok := p.Expr.(*ast.FieldPathExpr); ok {
		if len(fp.Tail) > 0 {
			return fp.Tail[len(fp.Tail)-1].Name
		}
		return fp.Head.Name
	}
	return "?column?"
}

func rowToObject(r *interp.ExecRow) value.Value {
	if v, ok := r.Fields[""]; ok {
		return v
	}
	obj := value.NewObject()
	for k, v := range r.Fields {
		obj.Set(k, v)
	}
	return value.FromObject(obj)
}

func (ex *Executor) runOrder(it *interp.Interp, n *Order) ([]*interp.ExecRow, error) {
	rows, err := ex.run(it, n.Input)
	if err != nil {
		return nil, err
	}
	var sortErr error
	sort.SliceStable(rows, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		for _, term := range n.Terms {
			vi, err := evalInRow(it, rows[i], term.Expr)
			if err != nil {
				sortErr = err
				return false
			}
			vj, err := evalInRow(it, rows[j], term.Expr)
			if err != nil {
				sortErr = err
				return false
			}
			cmp, ok := value.Compare(vi, vj)
			if !ok || cmp == 0 {
				continue
			}
			if term.Dir == ast.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	return rows, sortErr
}

func (ex *Executor) runLimit(it *interp.Interp, n *Limit) ([]*interp.ExecRow, error) {
	rows, err := ex.run(it, n.Input)
	if err != nil {
		return nil, err
	}
	v, err := it.Eval(n.Count)
	if err != nil {
		return nil, err
	}
	if v.Kind() != value.KindNum {
		return rows, nil
	}
	count := int(v.AsNum())
	if count < 0 {
		count = 0
	}
	if count > len(rows) {
		count = len(rows)
	}
	return rows[:count], nil
}

func (ex *Executor) runOffset(it *interp.Interp, n *Offset) ([]*interp.ExecRow, error) {
	rows, err := ex.run(it, n.Input)
	if err != nil {
		return nil, err
	}
	v, err := it.Eval(n.Amount)
	if err != nil {
		return nil, err
	}
	if v.Kind() != value.KindNum {
		return rows, nil
	}
	offset := int(v.AsNum())
	if offset < 0 {
		offset = 0
	}
	if offset > len(rows) {
		offset = len(rows)
	}
	return rows[offset:], nil
}

func (ex *Executor) runCompound(it *interp.Interp, n *Compound) ([]*interp.ExecRow, error) {
	left, err := ex.run(it, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := ex.run(it, n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Operator {
	case ast.CompoundUnionAll:
		return append(left, right...), nil
	case ast.CompoundUnion:
		return dedupRows(append(left, right...)), nil
	case ast.CompoundIntersect:
		return intersectRows(left, right), nil
	case ast.CompoundExcept:
		return exceptRows(left, right), nil
	default:
		return nil, &Error{Msg: "unknown compound operator"}
	}
}

func rowSignature(r *interp.ExecRow) string {
	return rowToObject(r).String()
}

func dedupRows(rows []*interp.ExecRow) []*interp.ExecRow {
	seen := map[string]bool{}
	var out []*interp.ExecRow
	for _, r := range rows {
		sig := rowSignature(r)
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out = append(out, r)
	}
	return out
}

func intersectRows(left, right []*interp.ExecRow) []*interp.ExecRow {
	rightSigs := map[string]bool{}
	for _, r := range right {
		rightSigs[rowSignature(r)] = true
	}
	var out []*interp.ExecRow
	seen := map[string]bool{}
	for _, r := range left {
		sig := rowSignature(r)
		if rightSigs[sig] && !seen[sig] {
			seen[sig] = true
			out = append(out, r)
		}
	}
	return out
}

func exceptRows(left, right []*interp.ExecRow) []*interp.ExecRow {
	rightSigs := map[string]bool{}
	for _, r := range right {
		rightSigs[rowSignature(r)] = true
	}
	var out []*interp.ExecRow
	seen := map[string]bool{}
	for _, r := range left {
		sig := rowSignature(r)
		if !rightSigs[sig] && !seen[sig] {
			seen[sig] = true
			out = append(out, r)
		}
	}
	return out
}
