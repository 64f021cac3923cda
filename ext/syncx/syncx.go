// Package syncx registers the "sync" builtin object and the Mutex and
// Channel classes the teacher's ext/sync package exposed, targeted here
// at a JavaScript host runtime that supplies those primitives (workers,
// SharedArrayBuffer-backed locks) rather than goroutines.
package syncx

import "github.com/rbxzy/pywisp/registry"

// Register adds "sync", "Mutex" and "Channel" to t. Mutex and Channel are
// reserved declarations: a host runtime supplies them as opaque objects,
// so no property schema is enforced on them.
func Register(t *registry.Table) {
	t.RegisterBuiltinObject("sync", map[string]registry.Prop{
		"spawn": {IsFunction: true, Arity: 1},
	})
	t.RegisterReservedDeclaration("Mutex")
	t.RegisterReservedDeclaration("Channel")
}
