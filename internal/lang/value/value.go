// Package value defines the tagged-variant runtime value model shared by
// the evaluator, environment and planner.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind discriminates the Value sum type.
type Kind int

const (
	KindStr Kind = iota
	KindNum
	KindBool
	KindUndefined
	KindArray
	KindObject
	KindCallable
	KindDatatype
)

// Value is the runtime sum type. Containers (Array, Object) are shared,
// mutable, reference-counted-by-Go's-GC handles: copying a Value copies
// the reference, never the contents. There is no implicit deep copy.
type Value struct {
	kind     Kind
	str      string
	num      float64
	boolean  bool
	array    *Array
	object   *Object
	callable Callable
	datatype Datatype
}

// Array is a shared, mutable, ordered sequence of values.
type Array struct {
	Elements []Value
}

// Object is a shared, mutable string-keyed map. Field order is not
// significant; equality/iteration order is insertion order for display
// purposes only.
type Object struct {
	order  []string
	fields map[string]Value
}

func NewObject() *Object {
	return &Object{fields: make(map[string]Value)}
}

func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.fields[key]
	return v, ok
}

func (o *Object) Set(key string, v Value) {
	if _, exists := o.fields[key]; !exists {
		o.order = append(o.order, key)
	}
	o.fields[key] = v
}

func (o *Object) Keys() []string {
	out := make([]string, len(o.order))
	copy(out, o.order)
	return out
}

func (o *Object) Len() int { return len(o.fields) }

// Callable is implemented by user-defined functions, built-ins and
// aggregates; see the interp package for concrete implementations. It
// lives here (not in interp) so Value doesn't need to import the
// evaluator.
type Callable interface {
	Arity() (min, max int) // max < 0 means unbounded
	Name() string
	IsAggregate() bool
}

// Datatype is a first-class type tag value (dtype.str, dtype.array(x), ...).
type Datatype struct {
	Name string
	Of   *Datatype // parameterized tags: array(x), object(x), callable(x), tuple(x)
}

func Str(s string) Value           { return Value{kind: KindStr, str: s} }
func Num(n float64) Value          { return Value{kind: KindNum, num: n} }
func Bool(b bool) Value            { return Value{kind: KindBool, boolean: b} }
func Undefined() Value             { return Value{kind: KindUndefined} }
func FromArray(a *Array) Value     { return Value{kind: KindArray, array: a} }
func FromObject(o *Object) Value   { return Value{kind: KindObject, object: o} }
func FromCallable(c Callable) Value { return Value{kind: KindCallable, callable: c} }
func FromDatatype(d Datatype) Value { return Value{kind: KindDatatype, datatype: d} }

func (v Value) Kind() Kind         { return v.kind }
func (v Value) AsStr() string      { return v.str }
func (v Value) AsNum() float64     { return v.num }
func (v Value) AsBool() bool       { return v.boolean }
func (v Value) AsArray() *Array    { return v.array }
func (v Value) AsObject() *Object  { return v.object }
func (v Value) AsCallable() Callable { return v.callable }
func (v Value) AsDatatype() Datatype { return v.datatype }

func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// Truthy implements the §7 truthiness table: Undefined is false; Bool is
// itself; Num is false iff NaN or zero; Str is false iff empty;
// Array/Object/Callable/Datatype are always true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindUndefined:
		return false
	case KindBool:
		return v.boolean
	case KindNum:
		return !(math.IsNaN(v.num) || v.num == 0)
	case KindStr:
		return v.str != ""
	default:
		return true
	}
}

// String renders a display form; cyclic Array/Object graphs are detected
// via a visited-pointer set so display never recurses unboundedly (spec
// §9, "Cyclic value graphs").
func (v Value) String() string {
	var sb strings.Builder
	v.writeTo(&sb, map[interface{}]bool{})
	return sb.String()
}

func (v Value) writeTo(sb *strings.Builder, seen map[interface{}]bool) {
	switch v.kind {
	case KindUndefined:
		sb.WriteString("undefined")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.boolean))
	case KindNum:
		sb.WriteString(formatNum(v.num))
	case KindStr:
		sb.WriteString(v.str)
	case KindArray:
		if seen[v.array] {
			sb.WriteString("[...]")
			return
		}
		seen[v.array] = true
		sb.WriteByte('[')
		for i, el := range v.array.Elements {
			if i > 0 {
				sb.WriteString(", ")
			}
			el.writeTo(sb, seen)
		}
		sb.WriteByte(']')
		delete(seen, v.array)
	case KindObject:
		if seen[v.object] {
			sb.WriteString("{...}")
			return
		}
		seen[v.object] = true
		sb.WriteByte('{')
		keys := v.object.Keys()
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			fv := v.object.fields[k]
			sb.WriteString(k)
			sb.WriteString(": ")
			fv.writeTo(sb, seen)
		}
		sb.WriteByte('}')
		delete(seen, v.object)
	case KindCallable:
		fmt.Fprintf(sb, "<function %s>", v.callable.Name())
	case KindDatatype:
		sb.WriteString(v.datatype.Name)
	}
}

func formatNum(n float64) string {
	if math.IsInf(n, 1) {
		return "inf"
	}
	if math.IsInf(n, -1) {
		return "-inf"
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
