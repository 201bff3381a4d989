package stdlib

import (
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/interp"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/value"
)

// dtypeNamespace implements `dtype`: singleton tags for the scalar kinds
// plus constructors for the parameterized ones (spec §6). A parameterized
// tag (`array(x)`, `object(x)`, `callable(x)`, `tuple(x)`, `of_(x)`) wraps
// whatever Datatype its argument names, so `dtype.array(dtype.num)`
// describes "array of num" without the core ever enforcing it at runtime
// (spec §1 Non-goals: no static type checking).
func dtypeNamespace() value.Value {
	obj := value.NewObject()
	for _, name := range []string{"str", "num", "bool", "unit", "none", "dtype"} {
		obj.Set(name, value.FromDatatype(value.Datatype{Name: name}))
	}
	for _, name := range []string{"array", "object", "callable", "tuple", "of_"} {
		obj.Set(name, value.FromCallable(parameterizedTag(name)))
	}
	return value.FromObject(obj)
}

func parameterizedTag(name string) *interp.Builtin {
	return &interp.Builtin{
		FnName: name, Min: 1, Max: 1,
		Fn: func(it *interp.Interp, span token.Span, args []value.Value) (value.Value, error) {
			if args[0].Kind() != value.KindDatatype {
				return value.Undefined(), &interp.Error{Kind: interp.ErrInvalidArgumentType, Span: span, Msg: name + " expects a dtype"}
			}
			of := args[0].AsDatatype()
			return value.FromDatatype(value.Datatype{Name: name, Of: &of}), nil
		},
	}
}
