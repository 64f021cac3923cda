// Command pywispc drives a compiler.Compiler from the shell: "run" reads
// a source file and prints the generated JavaScript, "repl" accepts
// blank-line-terminated blocks interactively.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bobappleyard/readline"

	"github.com/rbxzy/pywisp/compiler"
	"github.com/rbxzy/pywisp/lexer"
	"github.com/rbxzy/pywisp/registry"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: pywispc [run|repl] ...")
		os.Exit(1)
	}
	switch os.Args[1] {
	case "run":
		runFile()
	case "repl":
		repl()
	default:
		fmt.Println("Unknown command:", os.Args[1])
		os.Exit(1)
	}
}

func runFile() {
	runCmd := flag.NewFlagSet("run", flag.ExitOnError)
	useThis := runCmd.Bool("this", false, "use \"this\" instead of \"self\" as the receiver keyword")
	if len(os.Args) < 3 {
		fmt.Println("Usage: pywispc run <source.pw> [-this]")
		os.Exit(1)
	}
	path := os.Args[2]
	runCmd.Parse(os.Args[3:])

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		os.Exit(1)
	}

	c := newCompiler(*useThis)
	res := c.Compile(string(src))
	if !res.Success {
		reportErrors(res.Errors)
		os.Exit(1)
	}
	fmt.Println(res.Output)
}

func reportErrors(errs compiler.StageErrors) {
	for _, d := range errs.Lexer {
		fmt.Fprintf(os.Stderr, "lex %s\n", d.Error())
	}
	for _, d := range errs.Parser {
		fmt.Fprintf(os.Stderr, "parse %s\n", d.Error())
	}
	for _, d := range errs.Transpiler {
		fmt.Fprintf(os.Stderr, "compile %s\n", d.Error())
	}
}

// newCompiler builds a Compiler with a small default registration
// suitable for interactive experimentation.
func newCompiler(useThis bool) *compiler.Compiler {
	variant := lexer.VariantSelf
	if useThis {
		variant = lexer.VariantThis
	}
	c := compiler.NewWithVariant(variant)
	c.RegisterFunction("print", registry.Variadic)
	c.RegisterReservedDeclaration("Object")
	c.DefineBoilerplate("\"use strict\";")
	return c
}

func repl() {
	c := newCompiler(false)
	readline.Completer = func(query, ctx string) []string {
		var res []string
		for _, kw := range []string{"def", "class", "if", "elif", "else", "while", "for", "return", "break", "pass", "global", "implements", "lambda"} {
			if strings.HasPrefix(kw, query) {
				res = append(res, kw)
			}
		}
		return res
	}

	fmt.Println("pywispc repl. Enter a blank line to compile the block, Ctrl-D to quit.")
	for {
		block, ok := readBlock()
		if !ok {
			break
		}
		if strings.TrimSpace(block) == "" {
			continue
		}
		readline.AddHistory(block)
		res := c.Compile(block)
		if !res.Success {
			reportErrors(res.Errors)
			continue
		}
		fmt.Println(res.Output)
	}
	fmt.Println()
}

func readBlock() (string, bool) {
	var lines []string
	for {
		r := readline.Reader()
		raw, err := io.ReadAll(r)
		if err == io.EOF && len(raw) == 0 {
			if len(lines) == 0 {
				return "", false
			}
			return strings.Join(lines, "\n"), true
		}
		line := strings.TrimRight(string(raw), "\n")
		if line == "" {
			return strings.Join(lines, "\n"), true
		}
		lines = append(lines, line)
	}
}
