package stdlib

import (
	"encoding/json"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/interp"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/value"
)

// jsonFuncs implements the `json` namespace: stringify(x) and parse(s)
// (spec §6). There is no third-party JSON library among this module's
// dependencies (the pack's JSON-adjacent libraries — protobuf, CEL — were
// dropped for having no SPEC_FULL.md home; see DESIGN.md), so this
// namespace uses the standard library's encoding/json, via an explicit
// Value<->any bridge.
func jsonFuncs() map[string]value.Value {
	stringify := &interp.Builtin{
		FnName: "stringify", Min: 1, Max: 1,
		Fn: func(it *interp.Interp, span token.Span, args []value.Value) (value.Value, error) {
			raw, err := json.Marshal(toAny(args[0]))
			if err != nil {
				return value.Undefined(), &interp.Error{Kind: interp.ErrInvalidArgumentType, Span: span, Msg: err.Error()}
			}
			return value.Str(string(raw)), nil
		},
	}
	parse := &interp.Builtin{
		FnName: "parse", Min: 1, Max: 1,
		Fn: func(it *interp.Interp, span token.Span, args []value.Value) (value.Value, error) {
			if args[0].Kind() != value.KindStr {
				return value.Undefined(), &interp.Error{Kind: interp.ErrInvalidArgumentType, Span: span, Msg: "parse expects a string"}
			}
			var decoded any
			if err := json.Unmarshal([]byte(args[0].AsStr()), &decoded); err != nil {
				return value.Undefined(), &interp.Error{Kind: interp.ErrInvalidArgumentType, Span: span, Msg: err.Error()}
			}
			return fromAny(decoded), nil
		},
	}
	return map[string]value.Value{
		"stringify": value.FromCallable(stringify),
		"parse":     value.FromCallable(parse),
	}
}

func toAny(v value.Value) any {
	switch v.Kind() {
	case value.KindStr:
		return v.AsStr()
	case value.KindNum:
		return v.AsNum()
	case value.KindBool:
		return v.AsBool()
	case value.KindUndefined:
		return nil
	case value.KindArray:
		elems := v.AsArray().Elements
		out := make([]any, len(elems))
		for i, el := range elems {
			out[i] = toAny(el)
		}
		return out
	case value.KindObject:
		obj := v.AsObject()
		out := make(map[string]any, obj.Len())
		for _, k := range obj.Keys() {
			fv, _ := obj.Get(k)
			out[k] = toAny(fv)
		}
		return out
	default:
		return v.String()
	}
}

func fromAny(a any) value.Value {
	switch x := a.(type) {
	case nil:
		return value.Undefined()
	case string:
		return value.Str(x)
	case float64:
		return value.Num(x)
	case bool:
		return value.Bool(x)
	case []any:
		elems := make([]value.Value, len(x))
		for i, el := range x {
			elems[i] = fromAny(el)
		}
		return value.FromArray(&value.Array{Elements: elems})
	case map[string]any:
		obj := value.NewObject()
		for k, fv := range x {
			obj.Set(k, fromAny(fv))
		}
		return value.FromObject(obj)
	default:
		return value.Undefined()
	}
}
