// Package rex registers the "regex" builtin object grounded on the
// teacher's ext/re package, whose Regex class exposes "create" (compile
// a pattern) and "match" (run it against a reader). The host runtime
// supplies a JavaScript RegExp-backed implementation; the compiler only
// enforces that both entry points are called with a string argument.
package rex

import "github.com/rbxzy/pywisp/registry"

// Register adds "regex" to t.
func Register(t *registry.Table) {
	t.RegisterBuiltinObject("regex", map[string]registry.Prop{
		"test":  {IsFunction: true, Arity: 2, ArgTypes: []registry.Type{registry.TString, registry.TString}},
		"match": {IsFunction: true, Arity: 2, ArgTypes: []registry.Type{registry.TString, registry.TString}},
	})
}
