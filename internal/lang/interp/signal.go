package interp

import "github.com/lykia-rs/lykiadb-sub001/internal/lang/value"

// signal is the evaluator's "halt" sum type (spec §4.4): a statement
// either completes normally (nil), or raises one of these to unwind the
// Go call stack up to the frame that handles it — returnSignal up to the
// enclosing function call, breakSignal/continueSignal up to the nearest
// loop driver. Plain *Error values propagate unchanged past both.
type returnSignal struct {
	Value value.Value
}

func (returnSignal) Error() string { return "return" }

type breakSignal struct{}

func (breakSignal) Error() string { return "break" }

type continueSignal struct{}

func (continueSignal) Error() string { return "continue" }

// asReturn unwraps a returnSignal from err, if that's what it is.
func asReturn(err error) (returnSignal, bool) {
	if ret, ok := err.(returnSignal); ok {
		return ret, true
	}
	return returnSignal{}, false
}
