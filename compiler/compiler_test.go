package compiler

import (
	"strings"
	"testing"

	"github.com/rbxzy/pywisp/registry"
)

func TestCompileSuccessIncludesBoilerplate(t *testing.T) {
	c := New()
	c.DefineBoilerplate("\"use strict\";")
	res := c.Compile("x = 1\n")
	if !res.Success {
		t.Fatalf("expected success, errors: %+v", res.Errors)
	}
	if res.Final == nil || !strings.HasPrefix(*res.Final, "\"use strict\";\n") {
		t.Fatalf("expected Final to start with the boilerplate, got %v", res.Final)
	}
	if res.Output != *res.Final {
		t.Fatalf("expected Output to equal Final on success")
	}
}

func TestCompileFailureOmitsRawAndFinal(t *testing.T) {
	c := New()
	c.DefineBoilerplate("\"use strict\";")
	res := c.Compile("y = x\n")
	if res.Success {
		t.Fatalf("expected failure for an undefined variable")
	}
	if res.Raw != nil || res.Final != nil {
		t.Fatalf("expected Raw and Final to be omitted on failure")
	}
	if res.Output != "\"use strict\";" {
		t.Fatalf("expected Output to fall back to the boilerplate alone, got %q", res.Output)
	}
}

func TestCompileRunsLaterStagesOnBestEffort(t *testing.T) {
	c := New()
	res := c.Compile("x = )\ny = 2\n")
	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.Errors.Parser.Empty() {
		t.Fatalf("expected a parser diagnostic")
	}
	if res.AST == nil {
		t.Fatalf("expected a partial AST even on failure")
	}
}

func TestCompileRegistersFunction(t *testing.T) {
	c := New()
	c.RegisterFunction("wait", 1, registry.TNumber)
	res := c.Compile("wait(1)\n")
	if !res.Success {
		t.Fatalf("expected success, errors: %+v", res.Errors)
	}
	res2 := c.Compile("wait()\n")
	if res2.Success {
		t.Fatalf("expected an arity failure")
	}
}

func TestClearCustomRegistrations(t *testing.T) {
	c := New()
	c.RegisterFunction("wait", 1)
	c.DefineBoilerplate("X")
	c.ClearCustomRegistrations()

	// "wait" is gone entirely, not just its arity constraint.
	res := c.Compile("wait(1, 2)\n")
	if res.Success {
		t.Fatalf("expected an undefined-variable failure once the registration was cleared")
	}
	if res.Output != "" {
		t.Fatalf("expected the boilerplate to be cleared too, got %q", res.Output)
	}

	c.RegisterFunction("wait", 2)
	res2 := c.Compile("wait(1, 2)\n")
	if !res2.Success {
		t.Fatalf("expected success with the new arity-2 registration, errors: %+v", res2.Errors)
	}
}
