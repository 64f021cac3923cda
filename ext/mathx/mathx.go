// Package mathx registers the "math" builtin object a host embedding the
// compiler typically wants available: the constants and single/double
// argument numeric functions the teacher's own ext/math package exposed
// to its interpreter, here declared as compile-time schema instead of
// live callables since the compile target is JavaScript's own Math.
package mathx

import "github.com/rbxzy/pywisp/registry"

var constants = []string{
	"E", "PI", "PHI", "SQRT2", "SQRTE", "SQRTPI", "SQRTPHI",
	"LN2", "LOG2E", "LN10", "LOG10E", "NaN",
}

var unary = []string{
	"abs", "acos", "acosh", "asin", "asinh", "atan", "atanh", "cbrt",
	"ceil", "cos", "cosh", "exp", "exp2", "expm1", "floor", "log",
	"log10", "log1p", "log2", "round", "sin", "sinh", "sqrt", "tan",
	"tanh", "trunc", "isNaN", "isFinite",
}

var binary = []string{"atan2", "hypot", "max", "min", "pow"}

// Register adds the "math" builtin object and its properties to t.
func Register(t *registry.Table) {
	props := map[string]registry.Prop{}
	for _, name := range constants {
		props[name] = registry.Prop{IsFunction: false}
	}
	for _, name := range unary {
		props[name] = registry.Prop{IsFunction: true, Arity: 1, ArgTypes: []registry.Type{registry.TNumber}}
	}
	for _, name := range binary {
		props[name] = registry.Prop{IsFunction: true, Arity: 2, ArgTypes: []registry.Type{registry.TNumber, registry.TNumber}}
	}
	t.RegisterBuiltinObject("math", props)
}
