package syncx

import (
	"testing"

	"github.com/rbxzy/pywisp/registry"
)

func TestRegisterAddsSyncAndReservedClasses(t *testing.T) {
	table := registry.New()
	Register(table)

	if _, ok := table.BuiltinObjects["sync"]; !ok {
		t.Fatalf("expected a 'sync' builtin object")
	}
	if !table.IsReservedDeclaration("Mutex") {
		t.Fatalf("expected Mutex to be a reserved declaration")
	}
	if !table.IsReservedDeclaration("Channel") {
		t.Fatalf("expected Channel to be a reserved declaration")
	}
}
