// Package systemx registers the "system" builtin object grounded on the
// teacher's ext/system package: standard streams, process arguments and
// environment, and a File class left as a reserved declaration since its
// runtime shape is supplied by the host, not checked by the compiler.
package systemx

import (
	"github.com/rbxzy/pywisp/ext/textx"
	"github.com/rbxzy/pywisp/registry"
)

// Register adds "system" and "File" to t. The teacher's system package
// imports its text package at runtime (itpr.Import("text")) to decode
// bytes read from a Stream; this registers textx first to carry the
// same "system depends on textual decoding" relationship at the
// compile-time-schema level.
func Register(t *registry.Table) {
	textx.Register(t)
	t.RegisterBuiltinObject("system", map[string]registry.Prop{
		"input":  {IsFunction: false},
		"output": {IsFunction: false},
		"args":   {IsFunction: false},
		"env":    {IsFunction: false},
		"eval":   {IsFunction: true, Arity: 1, ArgTypes: []registry.Type{registry.TString}},
	})
	t.RegisterReservedDeclaration("File")
}
