package plan

import (
	"errors"
	"fmt"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
)

// Sentinel errors, one per planner failure kind (spec §4.5).
var (
	ErrDuplicateObjectInScope    = errors.New("duplicate object in scope")
	ErrSubqueryNotAllowed        = errors.New("subquery not allowed here")
	ErrAggregationNotAllowed     = errors.New("aggregation not allowed in this clause")
	ErrNestedAggregationNotAllowed = errors.New("aggregations cannot be nested")
)

// Error is the planner's typed error value.
type Error struct {
	Kind  error
	Span  token.Span
	Msg   string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Span, e.Msg)
	}
	return fmt.Sprintf("%s at %s", e.Kind, e.Span)
}

func (e *Error) Unwrap() error { return e.Kind }
