package interp

import (
	"errors"
	"fmt"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
)

// Sentinel errors, one per evaluator failure kind (spec §4.4/§7).
var (
	ErrArityMismatch         = errors.New("arity mismatch")
	ErrNotCallable           = errors.New("not callable")
	ErrPropertyNotFound      = errors.New("property not found")
	ErrInvalidPropertyAccess = errors.New("invalid property access")
	ErrUnexpectedStatement   = errors.New("unexpected statement")
	ErrInvalidRangeExpression = errors.New("invalid range expression")
	ErrInvalidArgumentType   = errors.New("invalid argument type")
	ErrNoProgramLoaded       = errors.New("no program loaded")
)

// Error is the evaluator's typed error value.
type Error struct {
	Kind error
	Span token.Span
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Span, e.Msg)
	}
	return fmt.Sprintf("%s at %s", e.Kind, e.Span)
}

func (e *Error) Unwrap() error { return e.Kind }
