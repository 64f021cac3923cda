package lexer

import "testing"

func kinds(toks []Token) []Kind {
	ks := make([]Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func sameKinds(a, b []Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestScanIndentation(t *testing.T) {
	src := "def f():\n    x = 1\n    y = 2\nz = 3\n"
	toks, errs := New(src, VariantSelf).Scan()
	if !errs.Empty() {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	want := []Kind{
		DEF, IDENTIFIER, LPAREN, RPAREN, COLON, NEWLINE,
		INDENT,
		IDENTIFIER, EQ, NUMBER, NEWLINE,
		IDENTIFIER, EQ, NUMBER, NEWLINE,
		DEDENT,
		IDENTIFIER, EQ, NUMBER, NEWLINE,
		EOF,
	}
	got := kinds(toks)
	if !sameKinds(got, want) {
		t.Fatalf("kinds mismatch\ngot:  %v\nwant: %v", got, want)
	}
}

func TestScanInconsistentDedent(t *testing.T) {
	src := "if True:\n    if True:\n        x = 1\n   y = 2\n"
	_, errs := New(src, VariantSelf).Scan()
	if errs.Empty() {
		t.Fatalf("expected an inconsistent-dedent diagnostic")
	}
}

func TestScanStringEscapes(t *testing.T) {
	toks, errs := New(`x = "a\nb"`, VariantSelf).Scan()
	if !errs.Empty() {
		t.Fatalf("unexpected lex errors")
	}
	var str Token
	for _, tk := range toks {
		if tk.Kind == STRING {
			str = tk
		}
	}
	if str.Literal != "a\nb" {
		t.Fatalf("got %q, want %q", str.Literal, "a\nb")
	}
}

func TestScanTripleQuotedString(t *testing.T) {
	toks, errs := New(`x = """hello
world"""`, VariantSelf).Scan()
	if !errs.Empty() {
		t.Fatalf("unexpected lex errors")
	}
	var found bool
	for _, tk := range toks {
		if tk.Kind == STRING && tk.Literal == "hello\nworld" {
			found = true
		}
	}
	if !found {
		t.Fatalf("triple-quoted string not decoded correctly")
	}
}

func TestScanThisVariant(t *testing.T) {
	toks, _ := New("this.x", VariantThis).Scan()
	if toks[0].Kind != SELFTHIS {
		t.Fatalf("expected SELFTHIS for %q, got %v", "this", toks[0].Kind)
	}
	toks2, _ := New("self.x", VariantThis).Scan()
	if toks2[0].Kind == SELFTHIS {
		t.Fatalf("did not expect 'self' to be a keyword in VariantThis")
	}
}

func TestScanTwoCharOperators(t *testing.T) {
	toks, errs := New("x ** 2 == 4 and x != 0", VariantSelf).Scan()
	if !errs.Empty() {
		t.Fatalf("unexpected lex errors")
	}
	want := []Kind{IDENTIFIER, STARSTAR, NUMBER, EQEQ, NUMBER, AND, IDENTIFIER, BANGEQ, NUMBER, NEWLINE, EOF}
	if !sameKinds(kinds(toks), want) {
		t.Fatalf("kinds mismatch: %v", kinds(toks))
	}
}

func TestScanUnknownCharacterRecovers(t *testing.T) {
	toks, errs := New("x = 1 $ y = 2\n", VariantSelf).Scan()
	if errs.Empty() {
		t.Fatalf("expected an unknown-character diagnostic")
	}
	if toks[len(toks)-1].Kind != EOF {
		t.Fatalf("scanner did not run to completion after an unknown character")
	}
}
