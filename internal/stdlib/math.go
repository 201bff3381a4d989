package stdlib

import (
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/interp"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/value"
)

// mathFuncs implements the `math` namespace: avg/sum/min/max, all
// aggregates (spec §6, §4.5). Each takes one argument: either an Array
// (plain script use, or the planner reducing a collected column) or a
// single Num (the degenerate one-row case). Used as a SQL projection
// expression, the evaluator never actually calls Fn — the active
// execution row's precomputed result is read directly by signature.
func mathFuncs() map[string]value.Value {
	return map[string]value.Value{
		"avg": value.FromCallable(aggregateBuiltin("avg", reduceAvg)),
		"sum": value.FromCallable(aggregateBuiltin("sum", reduceSum)),
		"min": value.FromCallable(aggregateBuiltin("min", reduceMin)),
		"max": value.FromCallable(aggregateBuiltin("max", reduceMax)),
	}
}

func aggregateBuiltin(name string, reduce func([]float64) (float64, bool)) *interp.Builtin {
	return &interp.Builtin{
		FnName: name, Min: 1, Max: 1, Aggregate: true,
		Fn: func(it *interp.Interp, span token.Span, args []value.Value) (value.Value, error) {
			nums, ok := numericOperands(args[0])
			if !ok {
				return value.Undefined(), &interp.Error{Kind: interp.ErrInvalidArgumentType, Span: span, Msg: name + " requires a numeric array"}
			}
			result, ok := reduce(nums)
			if !ok {
				return value.Undefined(), nil
			}
			return value.Num(result), nil
		},
	}
}

func numericOperands(v value.Value) ([]float64, bool) {
	switch v.Kind() {
	case value.KindNum:
		return []float64{v.AsNum()}, true
	case value.KindArray:
		elems := v.AsArray().Elements
		nums := make([]float64, 0, len(elems))
		for _, el := range elems {
			if el.Kind() != value.KindNum {
				return nil, false
			}
			nums = append(nums, el.AsNum())
		}
		return nums, true
	default:
		return nil, false
	}
}

func reduceAvg(nums []float64) (float64, bool) {
	if len(nums) == 0 {
		return 0, false
	}
	sum, _ := reduceSum(nums)
	return sum / float64(len(nums)), true
}

func reduceSum(nums []float64) (float64, bool) {
	var total float64
	for _, n := range nums {
		total += n
	}
	return total, true
}

func reduceMin(nums []float64) (float64, bool) {
	if len(nums) == 0 {
		return 0, false
	}
	m := nums[0]
	for _, n := range nums[1:] {
		if n < m {
			m = n
		}
	}
	return m, true
}

func reduceMax(nums []float64) (float64, bool) {
	if len(nums) == 0 {
		return 0, false
	}
	m := nums[0]
	for _, n := range nums[1:] {
		if n > m {
			m = n
		}
	}
	return m, true
}
