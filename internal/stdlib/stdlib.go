// Package stdlib implements the built-in namespaces exposed in the root
// environment (spec §6): io, json, time, math, Benchmark and dtype. Each
// namespace is an ordinary Value object whose fields are Callables, so
// script code reaches them through plain member access (`io.print(x)` or
// the SQL-flavored `io::print(x)`).
package stdlib

import (
	"io"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/env"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/value"
)

// Install binds every built-in namespace into root, the interpreter's
// root frame, so they're reachable by ordinary GetRoot lookup regardless
// of lexical scope depth.
func Install(root *env.Frame, out io.Writer) {
	root.Define("io", namespaceObject(ioFuncs(out)))
	root.Define("json", namespaceObject(jsonFuncs()))
	root.Define("time", namespaceObject(timeFuncs()))
	root.Define("math", namespaceObject(mathFuncs()))
	root.Define("Benchmark", namespaceObject(benchmarkFuncs()))
	root.Define("dtype", dtypeNamespace())
}

func namespaceObject(fns map[string]value.Value) value.Value {
	obj := value.NewObject()
	for name, fn := range fns {
		obj.Set(name, fn)
	}
	return value.FromObject(obj)
}
