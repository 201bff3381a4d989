package stdlib

import (
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/interp"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/value"
)

// benchmarkFuncs implements the `Benchmark` namespace: fib(n), a
// deliberately naive recursive Fibonacci used as a reference CPU load
// for snapshot comparisons (spec §6).
func benchmarkFuncs() map[string]value.Value {
	fib := &interp.Builtin{
		FnName: "fib", Min: 1, Max: 1,
		Fn: func(it *interp.Interp, span token.Span, args []value.Value) (value.Value, error) {
			if args[0].Kind() != value.KindNum {
				return value.Undefined(), &interp.Error{Kind: interp.ErrInvalidArgumentType, Span: span, Msg: "fib expects a number"}
			}
			return value.Num(float64(naiveFib(int(args[0].AsNum())))), nil
		},
	}
	return map[string]value.Value{
		"fib": value.FromCallable(fib),
	}
}

func naiveFib(n int) int {
	if n < 2 {
		return n
	}
	return naiveFib(n-1) + naiveFib(n-2)
}
