package systemx

import (
	"testing"

	"github.com/rbxzy/pywisp/registry"
)

func TestRegisterAddsSystemAndFile(t *testing.T) {
	table := registry.New()
	Register(table)

	obj, ok := table.BuiltinObjects["system"]
	if !ok {
		t.Fatalf("expected a 'system' builtin object")
	}
	if p, ok := obj.Props["eval"]; !ok || !p.IsFunction {
		t.Fatalf("expected eval to be a function property")
	}
	if !table.IsReservedDeclaration("File") {
		t.Fatalf("expected File to be a reserved declaration")
	}
}
