// Package webx registers the reserved-function binding for "serve",
// grounded on the teacher's ext/web package, whose single "serve" entry
// point starts an HTTP listener dispatching to a request-handler
// function. A DSL author writes "def _serve(path, vars): ..." and the
// declaration is rewritten to a call to the host runtime's real
// "serve(handler)" with the body wrapped as the handler argument — the
// reserved-function transformation spec.md describes, with a concrete
// worked example.
package webx

import "github.com/rbxzy/pywisp/registry"

// Register adds the "_serve" -> "serve" reserved-function mapping to t.
func Register(t *registry.Table) {
	t.RegisterReservedFunction("_serve", "serve")
}
