// Package textx registers the "text" builtin object, a thin compile-time
// counterpart to the teacher's ext/text UTF-8 codec package.
package textx

import "github.com/rbxzy/pywisp/registry"

// Register adds the "text" builtin object and its properties to t.
func Register(t *registry.Table) {
	t.RegisterBuiltinObject("text", map[string]registry.Prop{
		"upper":    {IsFunction: true, Arity: 1, ArgTypes: []registry.Type{registry.TString}},
		"lower":    {IsFunction: true, Arity: 1, ArgTypes: []registry.Type{registry.TString}},
		"trim":     {IsFunction: true, Arity: 1, ArgTypes: []registry.Type{registry.TString}},
		"split":    {IsFunction: true, Arity: 2, ArgTypes: []registry.Type{registry.TString, registry.TString}},
		"join":     {IsFunction: true, Arity: 2},
		"contains": {IsFunction: true, Arity: 2, ArgTypes: []registry.Type{registry.TString, registry.TString}},
		"format":   {IsFunction: true, Arity: registry.Variadic},
	})
}
