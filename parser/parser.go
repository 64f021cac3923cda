// Package parser implements a recursive-descent parser with Pratt-style
// expression precedence over the DSL's token stream. The core expression
// loop (parse a prefix term, then keep folding in infix operators whose
// precedence exceeds the caller's floor) is the same shape as
// parse.Parser.ParseWith in the teacher corpus; here it is specialized to
// a fixed, closed grammar instead of a registration-table-driven one,
// because the statement grammar (indentation blocks, for/def/class heads)
// is concrete rather than pluggable.
package parser

import (
	"github.com/rbxzy/pywisp/ast"
	"github.com/rbxzy/pywisp/diag"
	"github.com/rbxzy/pywisp/lexer"
)

type Parser struct {
	toks []lexer.Token
	pos  int
	errs diag.List
}

// Parse consumes a full token stream and returns the parsed program along
// with any parse diagnostics. It never panics; on an unexpected token it
// records the error and synchronizes to the next statement boundary.
func Parse(toks []lexer.Token) (*ast.Program, diag.List) {
	p := &Parser{toks: toks}
	prog := &ast.Program{}
	for !p.check(lexer.EOF) {
		if p.check(lexer.NEWLINE) {
			p.advance()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Stmts = append(prog.Stmts, stmt)
		}
	}
	return prog, p.errs
}

// --- token stream helpers ---

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(off int) lexer.Token {
	i := p.pos + off
	if i >= len(p.toks) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.toks[i]
}

func (p *Parser) check(k lexer.Kind) bool { return p.cur().Kind == k }

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) match(k lexer.Kind) (lexer.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	return lexer.Token{}, false
}

func (p *Parser) expect(k lexer.Kind, what string) (lexer.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	p.errs.Add(p.cur().Loc, "Expected %s, got %q", what, p.cur().Lexeme)
	return lexer.Token{}, false
}

func (p *Parser) errorf(loc diag.Loc, format string, args ...interface{}) {
	p.errs.Add(loc, format, args...)
}

// synchronize discards tokens until the next NEWLINE at the current nesting
// (INDENT/DEDENT are never discarded, so block structure survives an error
// inside a single statement).
func (p *Parser) synchronize() {
	for {
		switch p.cur().Kind {
		case lexer.NEWLINE:
			p.advance()
			return
		case lexer.INDENT, lexer.DEDENT, lexer.EOF:
			return
		default:
			p.advance()
		}
	}
}

func (p *Parser) skipNewlines() {
	for p.check(lexer.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) endOfSimpleStmt() {
	if p.check(lexer.NEWLINE) {
		p.advance()
		return
	}
	if p.check(lexer.EOF) || p.check(lexer.DEDENT) {
		return
	}
	p.errorf(p.cur().Loc, "Expected end of statement, got %q", p.cur().Lexeme)
	p.synchronize()
}

// --- statements ---

func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur().Kind {
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FOR:
		return p.parseFor()
	case lexer.DEF:
		return p.parseDef()
	case lexer.CLASS:
		return p.parseClass()
	default:
		return p.parseSimpleStatement()
	}
}

func (p *Parser) parseBlock() []ast.Stmt {
	if _, ok := p.expect(lexer.COLON, "':'"); !ok {
		p.synchronize()
		return nil
	}
	p.skipNewlines()
	if _, ok := p.expect(lexer.INDENT, "indented block"); !ok {
		return nil
	}
	var body []ast.Stmt
	for !p.check(lexer.DEDENT) && !p.check(lexer.EOF) {
		if p.check(lexer.NEWLINE) {
			p.advance()
			continue
		}
		if s := p.parseStatement(); s != nil {
			body = append(body, s)
		}
	}
	p.expect(lexer.DEDENT, "dedent")
	return body
}

func (p *Parser) parseIf() ast.Stmt {
	tok := p.advance() // IF
	branches := []ast.Branch{}
	cond := p.parseExpr(0)
	body := p.parseBlock()
	branches = append(branches, ast.Branch{Cond: cond, Body: body})
	for p.check(lexer.ELIF) {
		p.advance()
		c := p.parseExpr(0)
		b := p.parseBlock()
		branches = append(branches, ast.Branch{Cond: c, Body: b})
	}
	var elseBody []ast.Stmt
	if p.check(lexer.ELSE) {
		p.advance()
		elseBody = p.parseBlock()
	}
	return &ast.IfStmt{Branches: branches, ElseBody: elseBody, At: tok.Loc}
}

func (p *Parser) parseWhile() ast.Stmt {
	tok := p.advance() // WHILE
	cond := p.parseExpr(0)
	body := p.parseBlock()
	return &ast.WhileStmt{Cond: cond, Body: body, At: tok.Loc}
}

func (p *Parser) parseFor() ast.Stmt {
	tok := p.advance() // FOR
	isLocal := true
	if p.check(lexer.GLOBAL) {
		p.advance()
		isLocal = false
	}
	nameTok, _ := p.expect(lexer.IDENTIFIER, "identifier")
	p.expect(lexer.EQ, "'='")
	initVal := p.parseExpr(0)
	p.expect(lexer.COMMA, "','")
	cond := p.parseExpr(0)
	p.expect(lexer.COMMA, "','")
	step := p.parseForStep()
	body := p.parseBlock()
	return &ast.ForStmt{
		InitName:    nameTok.Lexeme,
		InitValue:   initVal,
		InitIsLocal: isLocal,
		Cond:        cond,
		Step:        step,
		Body:        body,
		At:          tok.Loc,
	}
}

// parseForStep parses a for-loop's step clause. The grammar allows any
// expression there, but an assignment or augmented assignment is the
// typical spelling ("i = i + 1", "i += 1"); since ast.ForStmt.Step is a
// plain value expression (the loop variable's next value, not a
// statement), "IDENT op EXPR" is recognized here and reduced to that
// value directly rather than routed through the general Pratt parser,
// which has no expression-level assignment operators.
func (p *Parser) parseForStep() ast.Expr {
	if p.cur().Kind == lexer.IDENTIFIER {
		nameTok := p.cur()
		if next := p.peekAt(1); next.Kind == lexer.EQ {
			p.advance()
			p.advance()
			return p.parseExpr(0)
		}
		if op, ok := forStepBinOp(p.peekAt(1).Kind); ok {
			p.advance()
			p.advance()
			rhs := p.parseExpr(0)
			return &ast.BinaryExpr{Left: &ast.VarExpr{Name: nameTok.Lexeme, At: nameTok.Loc}, Op: op, Right: rhs, At: nameTok.Loc}
		}
	}
	return p.parseExpr(0)
}

func forStepBinOp(k lexer.Kind) (ast.BinOp, bool) {
	switch k {
	case lexer.PLUSEQ:
		return ast.BinAdd, true
	case lexer.MINUSEQ:
		return ast.BinSub, true
	case lexer.STAREQ:
		return ast.BinMul, true
	case lexer.SLASHEQ:
		return ast.BinDiv, true
	case lexer.PERCENTEQ:
		return ast.BinMod, true
	default:
		return 0, false
	}
}

func (p *Parser) parseParamList() []ast.Param {
	p.expect(lexer.LPAREN, "'('")
	var params []ast.Param
	for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
		if t, ok := p.expect(lexer.IDENTIFIER, "parameter name"); ok {
			params = append(params, ast.Param{Name: t.Lexeme, At: t.Loc})
		} else {
			break
		}
		if p.check(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RPAREN, "')'")
	return params
}

func (p *Parser) parseDef() ast.Stmt {
	tok := p.advance() // DEF
	nameTok, _ := p.expect(lexer.IDENTIFIER, "function name")
	params := p.parseParamList()
	body := p.parseBlock()
	return &ast.FunctionStmt{
		Name:    nameTok.Lexeme,
		Params:  params,
		Body:    body,
		IsLocal: true,
		At:      tok.Loc,
	}
}

func (p *Parser) parseClass() ast.Stmt {
	tok := p.advance() // CLASS
	nameTok, _ := p.expect(lexer.IDENTIFIER, "class name")
	parent := ""
	if p.check(lexer.IMPLEMENTS) {
		p.advance()
		if pt, ok := p.expect(lexer.IDENTIFIER, "parent class name"); ok {
			parent = pt.Lexeme
		}
	}
	p.expect(lexer.COLON, "':'")
	p.skipNewlines()
	p.expect(lexer.INDENT, "indented class body")

	var members []*ast.FunctionStmt
	sawInit := false
	for !p.check(lexer.DEDENT) && !p.check(lexer.EOF) {
		if p.check(lexer.NEWLINE) {
			p.advance()
			continue
		}
		if p.check(lexer.PASS) {
			passTok := p.advance()
			p.endOfSimpleStmt()
			_ = passTok
			continue
		}
		if !p.check(lexer.DEF) {
			p.errorf(p.cur().Loc, "Expected method definition, got %q", p.cur().Lexeme)
			p.synchronize()
			continue
		}
		m := p.parseDef().(*ast.FunctionStmt)
		if m.Name == "init" {
			if sawInit {
				p.errorf(m.At, "duplicate 'init'")
			}
			sawInit = true
		}
		members = append(members, m)
	}
	p.expect(lexer.DEDENT, "dedent")

	return &ast.ClassStmt{
		Name:    nameTok.Lexeme,
		Parent:  parent,
		Members: members,
		IsLocal: true,
		At:      tok.Loc,
	}
}

func (p *Parser) parseSimpleStatement() ast.Stmt {
	switch p.cur().Kind {
	case lexer.GLOBAL:
		tok := p.advance()
		nameTok, _ := p.expect(lexer.IDENTIFIER, "identifier")
		p.expect(lexer.EQ, "'='")
		val := p.parseExpr(0)
		p.endOfSimpleStmt()
		return &ast.VariableStmt{Name: nameTok.Lexeme, Value: val, IsLocal: false, At: tok.Loc}
	case lexer.RETURN:
		tok := p.advance()
		var val ast.Expr
		if !p.check(lexer.NEWLINE) && !p.check(lexer.EOF) && !p.check(lexer.DEDENT) {
			val = p.parseExpr(0)
		}
		p.endOfSimpleStmt()
		return &ast.ReturnStmt{Value: val, At: tok.Loc}
	case lexer.BREAK:
		tok := p.advance()
		p.endOfSimpleStmt()
		return &ast.BreakStmt{At: tok.Loc}
	case lexer.PASS:
		tok := p.advance()
		p.endOfSimpleStmt()
		return &ast.PassStmt{At: tok.Loc}
	}

	startLoc := p.cur().Loc
	expr := p.parseExpr(0)

	if v, ok := expr.(*ast.VarExpr); ok && p.check(lexer.EQ) {
		p.advance()
		val := p.parseExpr(0)
		p.endOfSimpleStmt()
		return &ast.VariableStmt{Name: v.Name, Value: val, IsLocal: true, At: startLoc}
	}

	if op, ok := assignOpFor(p.cur().Kind); ok {
		p.advance()
		if !isAssignable(expr) {
			p.errorf(startLoc, "Invalid assignment target")
		}
		val := p.parseExpr(0)
		p.endOfSimpleStmt()
		return &ast.AssignStmt{Target: expr, Op: op, Value: val, At: startLoc}
	}

	p.endOfSimpleStmt()
	return &ast.ExpressionStmt{Expression: expr, At: startLoc}
}

func isAssignable(e ast.Expr) bool {
	switch e.(type) {
	case *ast.VarExpr, *ast.MemberExpr, *ast.IndexExpr:
		return true
	default:
		return false
	}
}

func assignOpFor(k lexer.Kind) (ast.AssignOp, bool) {
	switch k {
	case lexer.EQ:
		return ast.OpAssign, true
	case lexer.PLUSEQ:
		return ast.OpAddAssign, true
	case lexer.MINUSEQ:
		return ast.OpSubAssign, true
	case lexer.STAREQ:
		return ast.OpMulAssign, true
	case lexer.SLASHEQ:
		return ast.OpDivAssign, true
	case lexer.PERCENTEQ:
		return ast.OpModAssign, true
	default:
		return 0, false
	}
}

// --- expressions ---

const (
	precNone = iota
	precOr
	precAnd
	precNot
	precCmp
	precAddSub
	precMulDivMod
	precPow
)

func infixPrecedence(k lexer.Kind) int {
	switch k {
	case lexer.OR:
		return precOr
	case lexer.AND:
		return precAnd
	case lexer.EQEQ, lexer.BANGEQ, lexer.LT, lexer.LE, lexer.GT, lexer.GE:
		return precCmp
	case lexer.PLUS, lexer.MINUS:
		return precAddSub
	case lexer.STAR, lexer.SLASH, lexer.PERCENT:
		return precMulDivMod
	case lexer.STARSTAR:
		return precPow
	default:
		return precNone
	}
}

func (p *Parser) parseExpr(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		k := p.cur().Kind
		prec := infixPrecedence(k)
		if prec == precNone || prec <= minPrec {
			break
		}
		opTok := p.advance()
		var right ast.Expr
		if prec == precPow {
			right = p.parseExpr(prec - 1) // right-associative
		} else {
			right = p.parseExpr(prec)
		}
		left = combineInfix(left, opTok, right)
	}
	return left
}

func combineInfix(left ast.Expr, opTok lexer.Token, right ast.Expr) ast.Expr {
	loc := left.Loc()
	switch opTok.Kind {
	case lexer.AND:
		return &ast.LogicalExpr{Left: left, Op: ast.LogicalAnd, Right: right, At: loc}
	case lexer.OR:
		return &ast.LogicalExpr{Left: left, Op: ast.LogicalOr, Right: right, At: loc}
	default:
		return &ast.BinaryExpr{Left: left, Op: binOpFor(opTok.Kind), Right: right, At: loc}
	}
}

func binOpFor(k lexer.Kind) ast.BinOp {
	switch k {
	case lexer.PLUS:
		return ast.BinAdd
	case lexer.MINUS:
		return ast.BinSub
	case lexer.STAR:
		return ast.BinMul
	case lexer.SLASH:
		return ast.BinDiv
	case lexer.PERCENT:
		return ast.BinMod
	case lexer.STARSTAR:
		return ast.BinPow
	case lexer.EQEQ:
		return ast.BinEq
	case lexer.BANGEQ:
		return ast.BinNe
	case lexer.LT:
		return ast.BinLt
	case lexer.LE:
		return ast.BinLe
	case lexer.GT:
		return ast.BinGt
	case lexer.GE:
		return ast.BinGe
	default:
		return ast.BinAdd
	}
}

// parseUnary handles "not" (right, level 3) and unary "-" (right, level 8)
// before falling through to the postfix chain.
func (p *Parser) parseUnary() ast.Expr {
	if p.check(lexer.NOT) {
		tok := p.advance()
		operand := p.parseExpr(precNot)
		return &ast.UnaryExpr{Op: ast.UnaryNot, Operand: operand, At: tok.Loc}
	}
	if p.check(lexer.MINUS) {
		tok := p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Op: ast.UnaryNeg, Operand: operand, At: tok.Loc}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case lexer.LPAREN:
			tok := p.advance()
			args := p.parseArgs()
			p.expect(lexer.RPAREN, "')'")
			expr = &ast.CallExpr{Callee: expr, Args: args, At: tok.Loc}
		case lexer.DOT:
			p.advance()
			nameTok, _ := p.expect(lexer.IDENTIFIER, "member name")
			expr = &ast.MemberExpr{Object: expr, Name: nameTok.Lexeme, At: expr.Loc()}
		case lexer.LBRACKET:
			tok := p.advance()
			idx := p.parseExpr(0)
			p.expect(lexer.RBRACKET, "']'")
			expr = &ast.IndexExpr{Object: expr, Index: idx, At: tok.Loc}
		default:
			return expr
		}
	}
}

func (p *Parser) parseArgs() []ast.Expr {
	var args []ast.Expr
	for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
		args = append(args, p.parseExpr(0))
		if p.check(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return args
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch tok.Kind {
	case lexer.NUMBER:
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LitNumber, Value: tok.Literal, At: tok.Loc}
	case lexer.STRING:
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LitString, Value: tok.Literal, At: tok.Loc}
	case lexer.TRUE, lexer.FALSE:
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LitBool, Value: tok.Literal, At: tok.Loc}
	case lexer.NONE:
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LitNone, Value: nil, At: tok.Loc}
	case lexer.SELFTHIS:
		p.advance()
		return &ast.VarExpr{Name: "self", At: tok.Loc}
	case lexer.IDENTIFIER:
		p.advance()
		return &ast.VarExpr{Name: tok.Lexeme, At: tok.Loc}
	case lexer.LPAREN:
		p.advance()
		inner := p.parseExpr(0)
		p.expect(lexer.RPAREN, "')'")
		return &ast.GroupExpr{Inner: inner, At: tok.Loc}
	case lexer.LBRACE:
		return p.parseBraceLiteral()
	case lexer.LAMBDA:
		return p.parseLambda()
	case lexer.DEF:
		return p.parseFunctionExpr()
	default:
		p.errorf(tok.Loc, "Unexpected token %q", tok.Lexeme)
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LitNone, At: tok.Loc}
	}
}

func (p *Parser) parseLambda() ast.Expr {
	tok := p.advance() // LAMBDA
	var params []ast.Param
	for !p.check(lexer.COLON) && !p.check(lexer.EOF) {
		if t, ok := p.expect(lexer.IDENTIFIER, "parameter name"); ok {
			params = append(params, ast.Param{Name: t.Lexeme, At: t.Loc})
		} else {
			break
		}
		if p.check(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.COLON, "':'")
	body := p.parseExpr(0)
	return &ast.FunctionExpr{
		Params: params,
		Body:   []ast.Stmt{&ast.ReturnStmt{Value: body, At: tok.Loc}},
		At:     tok.Loc,
	}
}

func (p *Parser) parseFunctionExpr() ast.Expr {
	tok := p.advance() // DEF
	params := p.parseParamList()
	body := p.parseBlock()
	return &ast.FunctionExpr{Params: params, Body: body, At: tok.Loc}
}

// parseBraceLiteral implements the {}-disambiguation rule: an empty brace
// is an object literal; otherwise the brace content is scanned for an
// "IDENT =" pattern at bracket-depth zero to decide object vs list, and
// any entry that does not match the chosen shape is a hard error.
func (p *Parser) parseBraceLiteral() ast.Expr {
	tok := p.advance() // LBRACE
	p.skipNewlines()
	if p.check(lexer.RBRACE) {
		p.advance()
		return &ast.ObjectLiteralExpr{At: tok.Loc}
	}

	wantObject := p.looksLikeObjectLiteral()
	if wantObject {
		return p.parseObjectEntries(tok)
	}
	return p.parseListEntries(tok)
}

func (p *Parser) looksLikeObjectLiteral() bool {
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		t := p.toks[i]
		switch t.Kind {
		case lexer.LPAREN, lexer.LBRACKET, lexer.LBRACE:
			depth++
		case lexer.RPAREN, lexer.RBRACKET:
			depth--
		case lexer.RBRACE:
			if depth == 0 {
				return false
			}
			depth--
		case lexer.IDENTIFIER:
			if depth == 0 && i+1 < len(p.toks) && p.toks[i+1].Kind == lexer.EQ {
				return true
			}
		case lexer.EOF:
			return false
		}
	}
	return false
}

func (p *Parser) parseObjectEntries(tok lexer.Token) ast.Expr {
	lit := &ast.ObjectLiteralExpr{At: tok.Loc}
	for {
		p.skipNewlines()
		if p.check(lexer.RBRACE) || p.check(lexer.EOF) {
			break
		}
		if p.check(lexer.IDENTIFIER) && p.peekAt(1).Kind == lexer.EQ {
			nameTok := p.advance()
			p.advance() // EQ
			val := p.parseExpr(0)
			lit.Entries = append(lit.Entries, ast.ObjectEntry{Key: nameTok.Lexeme, Value: val})
		} else {
			p.errorf(p.cur().Loc, "Cannot mix list and object entries")
			p.parseExpr(0)
		}
		p.skipNewlines()
		if p.check(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RBRACE, "'}'")
	return lit
}

func (p *Parser) parseListEntries(tok lexer.Token) ast.Expr {
	lit := &ast.ListLiteralExpr{At: tok.Loc}
	for {
		p.skipNewlines()
		if p.check(lexer.RBRACE) || p.check(lexer.EOF) {
			break
		}
		if p.check(lexer.IDENTIFIER) && p.peekAt(1).Kind == lexer.EQ {
			p.errorf(p.cur().Loc, "Cannot mix list and object entries")
			p.advance()
			p.advance()
		}
		val := p.parseExpr(0)
		lit.Elements = append(lit.Elements, val)
		p.skipNewlines()
		if p.check(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RBRACE, "'}'")
	return lit
}
