package lexer

import (
	"strings"

	"github.com/rbxzy/pywisp/diag"
)

// Scanner performs lexical analysis on DSL source, including the synthetic
// INDENT/DEDENT/NEWLINE tokens that model the off-side rule.
type Scanner struct {
	src     string
	pos     int
	line    int
	colAtBOL int // column where the current logical line's content starts
	atBOL   bool // true when positioned to measure a new line's indentation

	indents []int
	kw      map[string]Kind

	tokens []Token
	errs   diag.List
}

// New creates a Scanner over source, using the given self/this variant.
func New(source string, variant Variant) *Scanner {
	return &Scanner{
		src:     source,
		line:    1,
		atBOL:   true,
		indents: []int{0},
		kw:      keywordTable(variant),
	}
}

// Scan tokenizes the whole source, returning the token stream and any
// lexical diagnostics. It never panics.
func (s *Scanner) Scan() ([]Token, diag.List) {
	for {
		if s.atBOL {
			if s.handleIndentation() {
				continue
			}
		}
		tok, more := s.next()
		s.tokens = append(s.tokens, tok)
		if !more {
			break
		}
	}
	return s.tokens, s.errs
}

func (s *Scanner) loc(line, col, length int) diag.Loc {
	return diag.Loc{Line: line, Col: col, Len: length}
}

func (s *Scanner) eof() bool { return s.pos >= len(s.src) }

func (s *Scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *Scanner) peekAt(off int) byte {
	if s.pos+off >= len(s.src) {
		return 0
	}
	return s.src[s.pos+off]
}

func (s *Scanner) advance() byte {
	c := s.src[s.pos]
	s.pos++
	return c
}

// handleIndentation measures the leading whitespace of a logical line and
// emits INDENT/DEDENT tokens as needed. It returns false only at end of
// input, after emitting the closing DEDENTs, so the caller falls through to
// next() for EOF; otherwise it returns true and the caller re-enters the
// scan loop.
func (s *Scanner) handleIndentation() bool {
	start := s.pos
	level := 0
	for !s.eof() {
		c := s.peek()
		if c == ' ' {
			level++
			s.pos++
		} else if c == '\t' {
			level++ // tabs expand to a single level-unit, consistent across the file
			s.pos++
		} else {
			break
		}
	}

	// Blank line or comment-only line: don't affect indentation.
	// At end of input atBOL stays set, so the following next() reports EOF.
	if s.eof() {
		return s.emitFinalDedents()
	}
	c := s.peek()
	if c == '\n' {
		s.pos++
		s.line++
		return true
	}
	if c == '#' {
		s.skipLineComment()
		return true
	}

	s.atBOL = false
	top := s.indents[len(s.indents)-1]
	switch {
	case level > top:
		s.indents = append(s.indents, level)
		s.tokens = append(s.tokens, Token{Kind: INDENT, Loc: s.loc(s.line, 0, 0)})
	case level < top:
		for len(s.indents) > 0 && s.indents[len(s.indents)-1] > level {
			s.indents = s.indents[:len(s.indents)-1]
			s.tokens = append(s.tokens, Token{Kind: DEDENT, Loc: s.loc(s.line, 0, 0)})
		}
		if s.indents[len(s.indents)-1] != level {
			s.errs.Add(s.loc(s.line, 0, 0), "Inconsistent dedent")
			s.indents = append(s.indents, level)
		}
	}
	_ = start
	return true
}

func (s *Scanner) emitFinalDedents() bool {
	for len(s.indents) > 1 {
		s.indents = s.indents[:len(s.indents)-1]
		s.tokens = append(s.tokens, Token{Kind: DEDENT, Loc: s.loc(s.line, 0, 0)})
	}
	return false
}

func (s *Scanner) skipLineComment() {
	for !s.eof() && s.peek() != '\n' {
		s.pos++
	}
}

// next scans one non-structural token. The bool return is false once EOF
// has been fully reported (including trailing DEDENTs).
func (s *Scanner) next() (Token, bool) {
	s.skipInlineWhitespace()

	if s.eof() {
		if !s.atBOL {
			s.atBOL = true
			return Token{Kind: NEWLINE, Loc: s.loc(s.line, 0, 0)}, true
		}
		return Token{Kind: EOF, Loc: s.loc(s.line, 0, 0)}, false
	}

	line := s.line
	col := s.pos
	c := s.peek()

	if c == '\n' {
		s.pos++
		s.line++
		s.atBOL = true
		return Token{Kind: NEWLINE, Loc: s.loc(line, col, 0)}, true
	}
	if c == '#' {
		s.skipLineComment()
		return s.next()
	}

	if c == '"' || c == '\'' {
		return s.scanString(c)
	}
	if isDigit(c) {
		return s.scanNumber()
	}
	if isIdentStart(c) {
		return s.scanIdentOrKeyword()
	}

	return s.scanOperator()
}

func (s *Scanner) skipInlineWhitespace() {
	for !s.eof() {
		c := s.peek()
		if c == ' ' || c == '\t' || c == '\r' {
			s.pos++
			continue
		}
		break
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool { return isIdentStart(c) || isDigit(c) }

func (s *Scanner) scanIdentOrKeyword() (Token, bool) {
	line, col := s.line, s.pos
	start := s.pos
	for !s.eof() && isIdentCont(s.peek()) {
		s.pos++
	}
	text := s.src[start:s.pos]
	loc := s.loc(line, col, len(text))
	if k, ok := s.kw[text]; ok {
		switch k {
		case TRUE:
			return Token{Kind: TRUE, Lexeme: text, Literal: true, Loc: loc}, true
		case FALSE:
			return Token{Kind: FALSE, Lexeme: text, Literal: false, Loc: loc}, true
		case NONE:
			return Token{Kind: NONE, Lexeme: text, Literal: nil, Loc: loc}, true
		default:
			return Token{Kind: k, Lexeme: text, Loc: loc}, true
		}
	}
	return Token{Kind: IDENTIFIER, Lexeme: text, Loc: loc}, true
}

func (s *Scanner) scanNumber() (Token, bool) {
	line, col := s.line, s.pos
	start := s.pos
	for !s.eof() && isDigit(s.peek()) {
		s.pos++
	}
	if !s.eof() && s.peek() == '.' && isDigit(s.peekAt(1)) {
		s.pos++
		for !s.eof() && isDigit(s.peek()) {
			s.pos++
		}
	}
	text := s.src[start:s.pos]
	n, _ := parseFloat(text)
	return Token{Kind: NUMBER, Lexeme: text, Literal: n, Loc: s.loc(line, col, len(text))}, true
}

// parseFloat avoids importing strconv's full error machinery at call sites;
// it is always given a syntactically valid run of digits by the caller.
func parseFloat(text string) (float64, error) {
	var whole, frac float64
	var fracDiv float64 = 1
	inFrac := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '.' {
			inFrac = true
			continue
		}
		d := float64(c - '0')
		if inFrac {
			fracDiv *= 10
			frac += d / fracDiv
		} else {
			whole = whole*10 + d
		}
	}
	return whole + frac, nil
}

var escapes = map[byte]byte{
	'n': '\n', 't': '\t', 'r': '\r', '\\': '\\',
	'"': '"', '\'': '\'', '0': 0, 'a': '\a', 'b': '\b', 'f': '\f', 'v': '\v',
}

func (s *Scanner) scanString(quote byte) (Token, bool) {
	line, col := s.line, s.pos
	start := s.pos

	triple := quote == '"' && s.peekAt(1) == '"' && s.peekAt(2) == '"'
	if triple {
		s.pos += 3
	} else {
		s.pos++
	}

	var b strings.Builder
	for {
		if s.eof() {
			s.errs.Add(s.loc(line, col, 1), "Unterminated string")
			break
		}
		c := s.peek()
		if triple {
			if c == '"' && s.peekAt(1) == '"' && s.peekAt(2) == '"' {
				s.pos += 3
				break
			}
		} else if c == quote {
			s.pos++
			break
		}
		if c == '\n' {
			s.line++
		}
		if c == '\\' {
			s.pos++
			if s.eof() {
				s.errs.Add(s.loc(line, col, 1), "Unterminated string")
				break
			}
			e := s.advance()
			if repl, ok := escapes[e]; ok {
				b.WriteByte(repl)
			} else {
				// Unknown escape sequences preserve the backslash literally.
				b.WriteByte('\\')
				b.WriteByte(e)
			}
			continue
		}
		b.WriteByte(c)
		s.pos++
	}

	text := s.src[start:s.pos]
	return Token{Kind: STRING, Lexeme: text, Literal: b.String(), Loc: s.loc(line, col, len(text))}, true
}

type twoCharOp struct {
	first, second byte
	kind          Kind
}

var twoCharOps = []twoCharOp{
	{'*', '*', STARSTAR},
	{'=', '=', EQEQ},
	{'!', '=', BANGEQ},
	{'<', '=', LE},
	{'>', '=', GE},
	{'+', '=', PLUSEQ},
	{'-', '=', MINUSEQ},
	{'*', '=', STAREQ},
	{'/', '=', SLASHEQ},
	{'%', '=', PERCENTEQ},
}

var oneCharOps = map[byte]Kind{
	'(': LPAREN, ')': RPAREN,
	'{': LBRACE, '}': RBRACE,
	'[': LBRACKET, ']': RBRACKET,
	',': COMMA, ':': COLON, '.': DOT, '=': EQ,
	'+': PLUS, '-': MINUS, '*': STAR, '/': SLASH, '%': PERCENT,
	'<': LT, '>': GT,
}

func (s *Scanner) scanOperator() (Token, bool) {
	line, col := s.line, s.pos
	c := s.peek()
	for _, op := range twoCharOps {
		if c == op.first && s.peekAt(1) == op.second {
			s.pos += 2
			return Token{Kind: op.kind, Lexeme: s.src[col:s.pos], Loc: s.loc(line, col, 2)}, true
		}
	}
	if k, ok := oneCharOps[c]; ok {
		s.pos++
		return Token{Kind: k, Lexeme: string(c), Loc: s.loc(line, col, 1)}, true
	}
	s.pos++
	s.errs.Add(s.loc(line, col, 1), "Unknown character %q", c)
	return s.next()
}
