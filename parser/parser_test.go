package parser

import (
	"testing"

	"github.com/rbxzy/pywisp/ast"
	"github.com/rbxzy/pywisp/lexer"
)

func parseSrc(t *testing.T, src string) (*ast.Program, bool) {
	t.Helper()
	toks, lexErrs := lexer.New(src, lexer.VariantSelf).Scan()
	if !lexErrs.Empty() {
		t.Fatalf("unexpected lex errors: %v", lexErrs)
	}
	prog, errs := Parse(toks)
	return prog, errs.Empty()
}

func TestParseVariableDeclaration(t *testing.T) {
	prog, ok := parseSrc(t, "x = 1\n")
	if !ok {
		t.Fatalf("expected no parse errors")
	}
	if len(prog.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Stmts))
	}
	v, ok := prog.Stmts[0].(*ast.VariableStmt)
	if !ok || !v.IsLocal || v.Name != "x" {
		t.Fatalf("unexpected node: %#v", prog.Stmts[0])
	}
}

func TestParseGlobalAssignment(t *testing.T) {
	prog, ok := parseSrc(t, "global count = 0\n")
	if !ok {
		t.Fatalf("expected no parse errors")
	}
	v := prog.Stmts[0].(*ast.VariableStmt)
	if v.IsLocal {
		t.Fatalf("expected a global declaration")
	}
}

func TestParseAugmentedAssignment(t *testing.T) {
	prog, ok := parseSrc(t, "x += 1\n")
	if !ok {
		t.Fatalf("expected no parse errors")
	}
	a, ok := prog.Stmts[0].(*ast.AssignStmt)
	if !ok || a.Op != ast.OpAddAssign {
		t.Fatalf("unexpected node: %#v", prog.Stmts[0])
	}
}

func TestParsePrecedenceUnaryVsPow(t *testing.T) {
	// The spec's precedence table places unary '-' above '**', so
	// "-a ** b" must parse as "(-a) ** b", not "-(a ** b)".
	prog, ok := parseSrc(t, "x = -a ** b\n")
	if !ok {
		t.Fatalf("expected no parse errors")
	}
	v := prog.Stmts[0].(*ast.VariableStmt)
	bin, ok := v.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.BinPow {
		t.Fatalf("expected top-level '**', got %#v", v.Value)
	}
	if _, ok := bin.Left.(*ast.UnaryExpr); !ok {
		t.Fatalf("expected left operand of '**' to be a unary negation, got %#v", bin.Left)
	}
}

func TestParseIfElifElse(t *testing.T) {
	src := "if a:\n    x = 1\nelif b:\n    x = 2\nelse:\n    x = 3\n"
	prog, ok := parseSrc(t, src)
	if !ok {
		t.Fatalf("expected no parse errors")
	}
	ifs := prog.Stmts[0].(*ast.IfStmt)
	if len(ifs.Branches) != 2 {
		t.Fatalf("expected 2 branches (if + elif), got %d", len(ifs.Branches))
	}
	if ifs.ElseBody == nil {
		t.Fatalf("expected an else body")
	}
}

func TestParseClassWithImplements(t *testing.T) {
	src := "class Dog implements Animal:\n    def init(name):\n        self.name = name\n"
	prog, ok := parseSrc(t, src)
	if !ok {
		t.Fatalf("expected no parse errors")
	}
	c := prog.Stmts[0].(*ast.ClassStmt)
	if c.Name != "Dog" || c.Parent != "Animal" {
		t.Fatalf("unexpected class node: %#v", c)
	}
	if len(c.Members) != 1 || c.Members[0].Name != "init" {
		t.Fatalf("unexpected members: %#v", c.Members)
	}
}

func TestParseListLiteral(t *testing.T) {
	prog, ok := parseSrc(t, "x = {1, 2, 3}\n")
	if !ok {
		t.Fatalf("expected no parse errors")
	}
	v := prog.Stmts[0].(*ast.VariableStmt)
	if _, ok := v.Value.(*ast.ListLiteralExpr); !ok {
		t.Fatalf("expected a list literal, got %#v", v.Value)
	}
}

func TestParseObjectLiteral(t *testing.T) {
	prog, ok := parseSrc(t, "x = {a = 1, b = 2}\n")
	if !ok {
		t.Fatalf("expected no parse errors")
	}
	v := prog.Stmts[0].(*ast.VariableStmt)
	obj, ok := v.Value.(*ast.ObjectLiteralExpr)
	if !ok || len(obj.Entries) != 2 {
		t.Fatalf("expected a 2-entry object literal, got %#v", v.Value)
	}
}

func TestParseMixedBraceLiteralIsError(t *testing.T) {
	_, ok := parseSrc(t, "x = {1, a = 2}\n")
	if ok {
		t.Fatalf("expected a parse error for mixed list/object entries")
	}
}

func TestParseEmptyBraceLiteralIsObject(t *testing.T) {
	prog, ok := parseSrc(t, "x = {}\n")
	if !ok {
		t.Fatalf("expected no parse errors")
	}
	v := prog.Stmts[0].(*ast.VariableStmt)
	if _, ok := v.Value.(*ast.ObjectLiteralExpr); !ok {
		t.Fatalf("expected empty braces to parse as an object literal, got %#v", v.Value)
	}
}

func TestParseForLoop(t *testing.T) {
	src := "for i = 0, i < 10, i + 1:\n    pass\n"
	prog, ok := parseSrc(t, src)
	if !ok {
		t.Fatalf("expected no parse errors")
	}
	f := prog.Stmts[0].(*ast.ForStmt)
	if f.InitName != "i" || !f.InitIsLocal {
		t.Fatalf("unexpected for-loop node: %#v", f)
	}
}

func TestParseForLoopAugmentedStep(t *testing.T) {
	src := "for global i = 0, i < 3, i += 1:\n    print(i)\n"
	prog, ok := parseSrc(t, src)
	if !ok {
		t.Fatalf("expected no parse errors")
	}
	f := prog.Stmts[0].(*ast.ForStmt)
	if f.InitName != "i" || f.InitIsLocal {
		t.Fatalf("unexpected for-loop node: %#v", f)
	}
	step, ok := f.Step.(*ast.BinaryExpr)
	if !ok || step.Op != ast.BinAdd {
		t.Fatalf("expected step to desugar to 'i + 1', got %#v", f.Step)
	}
	left, ok := step.Left.(*ast.VarExpr)
	if !ok || left.Name != "i" {
		t.Fatalf("expected step left operand to be 'i', got %#v", step.Left)
	}
}

func TestParseRecoversAfterError(t *testing.T) {
	src := "x = )\ny = 1\n"
	prog, errs := func() (*ast.Program, []string) {
		toks, _ := lexer.New(src, lexer.VariantSelf).Scan()
		p, e := Parse(toks)
		msgs := make([]string, len(e))
		for i, d := range e {
			msgs[i] = d.Message
		}
		return p, msgs
	}()
	if len(errs) == 0 {
		t.Fatalf("expected a parse error for the malformed first statement")
	}
	found := false
	for _, s := range prog.Stmts {
		if v, ok := s.(*ast.VariableStmt); ok && v.Name == "y" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the parser to recover and still parse the second statement")
	}
}
