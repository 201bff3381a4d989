package stdlib

import (
	"fmt"
	stdio "io"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/interp"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/value"
)

// ioFuncs implements the `io` namespace: print(x) writes x's textual
// form followed by a newline to out and yields Undefined (spec §6's
// "unit" return).
func ioFuncs(out stdio.Writer) map[string]value.Value {
	print := &interp.Builtin{
		FnName: "print", Min: 1, Max: 1,
		Fn: func(it *interp.Interp, span token.Span, args []value.Value) (value.Value, error) {
			fmt.Fprintln(out, args[0].String())
			return value.Undefined(), nil
		},
	}
	return map[string]value.Value{
		"print": value.FromCallable(print),
	}
}
