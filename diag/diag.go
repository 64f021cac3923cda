// Package diag defines the diagnostic record shared by the lexer, parser
// and transpiler stages. No stage ever returns an error up to its caller;
// every failure is appended here and the stage keeps running.
package diag

import "fmt"

// Loc is the {line, col, len} triple carried by every token and AST node.
// Line is 1-indexed, Col is 0-indexed, Len is the column span.
type Loc struct {
	Line int
	Col  int
	Len  int
}

// Diagnostic is one reported problem, stable enough that callers may
// pattern-match on the Message prefix (e.g. "Undefined variable").
type Diagnostic struct {
	Message string
	Line    int
	Col     int
	Len     int
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Col, d.Message)
}

func at(loc Loc, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Message: fmt.Sprintf(format, args...),
		Line:    loc.Line,
		Col:     loc.Col,
		Len:     loc.Len,
	}
}

// New builds a diagnostic at the given location.
func New(loc Loc, format string, args ...interface{}) Diagnostic {
	return at(loc, format, args...)
}

// List is an ordered collection of diagnostics for a single stage.
type List []Diagnostic

func (l *List) Add(loc Loc, format string, args ...interface{}) {
	*l = append(*l, at(loc, format, args...))
}

func (l List) Empty() bool { return len(l) == 0 }
