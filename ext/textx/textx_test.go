package textx

import (
	"testing"

	"github.com/rbxzy/pywisp/registry"
)

func TestRegisterAddsTextFunctions(t *testing.T) {
	table := registry.New()
	Register(table)

	obj, ok := table.BuiltinObjects["text"]
	if !ok {
		t.Fatalf("expected a 'text' builtin object")
	}
	if p, ok := obj.Props["upper"]; !ok || !p.IsFunction {
		t.Fatalf("expected upper to be a function property")
	}
}
