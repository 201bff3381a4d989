package interp

import (
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/ast"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/env"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/value"
)

// BuiltinFunc is a native callable's implementation, invoked with the
// interpreter, the call's span (for error reporting) and its evaluated
// arguments (spec §4.4: "Built-in: invoked with (interpreter, call-span,
// args); may freely signal errors").
type BuiltinFunc func(it *Interp, span token.Span, args []value.Value) (value.Value, error)

// Builtin is a native callable, e.g. io.print or math.avg.
type Builtin struct {
	FnName      string
	Min, Max    int // Max < 0 means unbounded
	Aggregate   bool
	Fn          BuiltinFunc
}

func (b *Builtin) Arity() (int, int) { return b.Min, b.Max }
func (b *Builtin) Name() string      { return b.FnName }
func (b *Builtin) IsAggregate() bool { return b.Aggregate }

var _ value.Callable = (*Builtin)(nil)

// UserFunction is a script-defined closure: a function literal plus the
// environment frame active when it was evaluated.
type UserFunction struct {
	Decl    *ast.FunctionExpr
	Closure *env.Frame
}

func (f *UserFunction) Arity() (int, int) {
	n := len(f.Decl.Params)
	return n, n
}

func (f *UserFunction) Name() string {
	if f.Decl.Name != nil {
		return f.Decl.Name.Name
	}
	return ""
}

func (f *UserFunction) IsAggregate() bool { return false }

var _ value.Callable = (*UserFunction)(nil)
