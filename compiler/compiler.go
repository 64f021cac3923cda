// Package compiler is the stateful façade a host application drives:
// register functions, builtin objects, reserved names and boilerplate
// against an owned registry.Table, then repeatedly Compile source
// through the lexer, parser and transpile stages.
package compiler

import (
	"github.com/rbxzy/pywisp/ast"
	"github.com/rbxzy/pywisp/diag"
	"github.com/rbxzy/pywisp/lexer"
	"github.com/rbxzy/pywisp/parser"
	"github.com/rbxzy/pywisp/registry"
	"github.com/rbxzy/pywisp/transpile"
)

// StageErrors groups the diagnostics produced by each of the three
// pipeline stages.
type StageErrors struct {
	Lexer      diag.List
	Parser     diag.List
	Transpiler diag.List
}

// Result is the outcome of a single Compile call. Raw and Final are only
// populated when Success is true; a failed compile still carries Output
// (the registered boilerplate alone), Tokens and AST for inspection.
type Result struct {
	Success bool
	Output  string
	Raw     *string
	Final   *string

	Tokens []lexer.Token
	AST    *ast.Program
	Errors StageErrors

	Source string
}

// Compiler owns one registry.Table and a fixed self/this spelling.
type Compiler struct {
	table   *registry.Table
	variant lexer.Variant
}

// New returns a Compiler with an empty registration table, using the
// "self" spelling for the implicit receiver keyword.
func New() *Compiler {
	return &Compiler{table: registry.New(), variant: lexer.VariantSelf}
}

// NewWithVariant is like New but uses the given self/this spelling.
func NewWithVariant(variant lexer.Variant) *Compiler {
	return &Compiler{table: registry.New(), variant: variant}
}

// Table returns the Compiler's underlying registration table, so a host
// bundle (e.g. an ext/* package) can register directly against it.
func (c *Compiler) Table() *registry.Table {
	return c.table
}

func (c *Compiler) RegisterFunction(name string, arity int, argTypes ...registry.Type) {
	c.table.RegisterFunction(name, arity, argTypes...)
}

func (c *Compiler) RegisterBuiltinObject(name string, props map[string]registry.Prop) {
	c.table.RegisterBuiltinObject(name, props)
}

func (c *Compiler) RegisterReservedDeclaration(name string) {
	c.table.RegisterReservedDeclaration(name)
}

func (c *Compiler) RegisterReservedFunction(dslName, jsName string) {
	c.table.RegisterReservedFunction(dslName, jsName)
}

func (c *Compiler) DefineBoilerplate(code string) {
	c.table.DefineBoilerplate(code)
}

func (c *Compiler) ClearCustomRegistrations() {
	c.table.ClearCustomRegistrations()
}

// Compile runs source through every stage, batching diagnostics rather
// than stopping at the first failing stage.
func (c *Compiler) Compile(source string) Result {
	toks, lexErrs := lexer.New(source, c.variant).Scan()
	prog, parseErrs := parser.Parse(toks)
	raw, transErrs := transpile.Emit(prog, c.table)

	res := Result{
		Tokens: toks,
		AST:    prog,
		Source: source,
		Errors: StageErrors{Lexer: lexErrs, Parser: parseErrs, Transpiler: transErrs},
	}

	res.Success = lexErrs.Empty() && parseErrs.Empty() && transErrs.Empty()
	if res.Success {
		final := c.table.Boilerplate + "\n" + raw
		res.Raw = &raw
		res.Final = &final
		res.Output = final
	} else {
		res.Output = c.table.Boilerplate
	}
	return res
}
