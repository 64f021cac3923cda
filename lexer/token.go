package lexer

import "github.com/rbxzy/pywisp/diag"

// Kind identifies the lexical class of a Token. The set is closed: every
// kind the parser can see is listed here.
type Kind uint8

const (
	EOF Kind = iota

	// literals
	NUMBER
	STRING
	TRUE
	FALSE
	NONE

	IDENTIFIER

	// keywords
	GLOBAL
	DEF
	LAMBDA
	CLASS
	IMPLEMENTS
	SELFTHIS // spelled "self" or "this" depending on lexer.Variant
	IF
	ELIF
	ELSE
	WHILE
	FOR
	BREAK
	RETURN
	PASS
	AND
	OR
	NOT

	// punctuation
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	COLON
	DOT
	EQ

	// operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	STARSTAR
	PLUSEQ
	MINUSEQ
	STAREQ
	SLASHEQ
	PERCENTEQ
	EQEQ
	BANGEQ
	LT
	LE
	GT
	GE

	// structural
	NEWLINE
	INDENT
	DEDENT
)

// Token is a tagged record pointing at a span of source text.
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal interface{} // decoded value for NUMBER/STRING/TRUE/FALSE/NONE, else nil
	Loc     diag.Loc
}

// Variant selects which spelling the implicit-receiver keyword uses. Both
// documented DSL flavors share every other production.
type Variant int

const (
	VariantSelf Variant = iota
	VariantThis
)

func (v Variant) keyword() string {
	if v == VariantThis {
		return "this"
	}
	return "self"
}

func keywordTable(v Variant) map[string]Kind {
	kw := map[string]Kind{
		"global":     GLOBAL,
		"def":        DEF,
		"lambda":     LAMBDA,
		"class":      CLASS,
		"implements": IMPLEMENTS,
		"if":         IF,
		"elif":       ELIF,
		"else":       ELSE,
		"while":      WHILE,
		"for":        FOR,
		"break":      BREAK,
		"return":     RETURN,
		"pass":       PASS,
		"and":        AND,
		"or":         OR,
		"not":        NOT,
		"True":       TRUE,
		"False":      FALSE,
		"None":       NONE,
	}
	kw[v.keyword()] = SELFTHIS
	return kw
}
