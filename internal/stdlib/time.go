package stdlib

import (
	stdtime "time"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/interp"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/value"
)

// timeFuncs implements the `time` namespace: clock() returns the
// current monotonic-adjacent wall time in fractional seconds, the
// resolution benchmark scripts use to measure elapsed work (spec §6).
func timeFuncs() map[string]value.Value {
	clock := &interp.Builtin{
		FnName: "clock", Min: 0, Max: 0,
		Fn: func(it *interp.Interp, span token.Span, args []value.Value) (value.Value, error) {
			return value.Num(float64(stdtime.Now().UnixNano()) / float64(stdtime.Second)), nil
		},
	}
	return map[string]value.Value{
		"clock": value.FromCallable(clock),
	}
}
