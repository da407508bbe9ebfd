// Package parser turns a Pyrl token stream into an ast.Program. The
// grammar is realized as a predictive recursive-descent parser with a
// precedence-climbing expression parser, which accepts exactly the same
// language a generated LALR(1) table for this grammar would.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/oops"

	"github.com/pyrl-lang/pyrl/internal/ast"
	"github.com/pyrl-lang/pyrl/internal/token"
)

// Parser consumes a fixed token slice produced by the lexer.
type Parser struct {
	toks  []token.Token
	idx   int
	style blockStyle
}

// blockStyle tracks which body syntax the enclosing block used. Nested
// control forms must keep the enclosing construct's style: indented
// bodies nest indented `if`/`for`/`while`, braced bodies nest braced
// ones, and mixing the two within one construct is a parse error. At top
// level (and at the start of each function/method/test body, which sets
// its own style) either form is accepted.
type blockStyle int

const (
	styleFree blockStyle = iota
	styleIndented
	styleBraced
)

// New creates a Parser over a complete token stream (including the
// trailing EOF token the lexer always appends).
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse parses an entire program: declaration* EOF.
func (p *Parser) Parse() (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(parseError); ok {
				err = pe.err
				return
			}
			panic(r)
		}
	}()

	pos := p.pos()
	stmts := []ast.Stmt{}
	p.skipSeparators()
	for !p.atEnd() {
		stmts = append(stmts, p.declaration())
		p.skipSeparators()
	}
	return &ast.Program{Base: ast.Base{P: pos}, Stmts: stmts}, nil
}

// ParseExpr parses a single standalone expression.
func (p *Parser) ParseExpr() (e ast.Expr, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(parseError); ok {
				err = pe.err
				return
			}
			panic(r)
		}
	}()
	return p.expression(), nil
}

// parseError is the internal panic/recover carrier so deeply nested
// recursive-descent calls don't need to thread an error return through
// every production.
type parseError struct{ err error }

// fail raises a structured ParseError, the same kind/line/col shape
// interp.New produces for runtime errors, without parser importing the
// interp package back.
func (p *Parser) fail(format string, args ...any) {
	tok := p.current()
	msg := fmt.Sprintf(format, args...)
	err := oops.
		Code("ParseError").
		With("line", tok.Line).
		With("col", tok.Col).
		Errorf("ParseError: %s", msg)
	panic(parseError{err: err})
}

// ---------------------------------------------------------------- declarations

func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.check(token.KW_DEF):
		return p.funcDefIndented()
	case p.check(token.KW_CLASS):
		return p.classDef()
	case p.check(token.KW_TEST):
		return p.testBlock()
	case p.check(token.FUNCVAR) && p.peekKind(1) == token.LPAREN && p.headsFuncVarDef():
		return p.funcVarDef()
	default:
		return p.statement()
	}
}

func (p *Parser) funcDefIndented() ast.Stmt {
	pos := p.pos()
	p.advance() // def
	name := p.consume(token.IDENT, "expected function name after 'def'").Lexeme
	p.consume(token.LPAREN, "expected '(' after function name")
	params := p.paramList()
	p.consume(token.RPAREN, "expected ')' after parameters")
	p.consume(token.COLON, "expected ':' after function header")
	body := p.indentedBody()
	return &ast.FuncDef{Base: ast.Base{P: pos}, Name: name, Params: params, Body: body, Kind: ast.KindIndentedDef}
}

// headsFuncVarDef distinguishes an anonymous-block definition
// `&name(params) = { ... }` from a plain call statement `&name(args)` by
// scanning past the matching ')' for `= {`. Both begin FUNCVAR LPAREN, so
// one token of lookahead is not enough.
func (p *Parser) headsFuncVarDef() bool {
	depth := 1
	i := 2 // past FUNCVAR LPAREN
	for {
		switch p.peekKind(i) {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				return p.peekKind(i+1) == token.ASSIGN && p.peekKind(i+2) == token.LBRACE
			}
		case token.EOF:
			return false
		}
		i++
	}
}

func (p *Parser) funcVarDef() ast.Stmt {
	pos := p.pos()
	name := p.advance().Text // &name
	p.consume(token.LPAREN, "expected '(' after function name")
	params := p.paramList()
	p.consume(token.RPAREN, "expected ')' after parameters")
	p.consume(token.ASSIGN, "expected '=' after parameter list")
	body := p.bracedBody()
	return &ast.FuncDef{Base: ast.Base{P: pos}, Name: name, Params: params, Body: body, Kind: ast.KindAnonBlock}
}

func (p *Parser) paramList() []ast.Param {
	var params []ast.Param
	for !p.check(token.RPAREN) {
		vararg := false
		if p.check(token.STAR) {
			p.advance()
			vararg = true
		}
		name := p.consume(token.SCALAR, "expected a parameter name").Text
		var def ast.Expr
		if p.match(token.ASSIGN) {
			def = p.expression()
		}
		params = append(params, ast.Param{Name: name, Default: def, Vararg: vararg})
		if !p.match(token.COMMA) {
			break
		}
	}
	return params
}

func (p *Parser) classDef() ast.Stmt {
	pos := p.pos()
	p.advance() // class
	name := p.consume(token.IDENT, "expected class name").Lexeme
	parent := ""
	if p.match(token.KW_EXTENDS) {
		parent = p.consume(token.IDENT, "expected parent class name after 'extends'").Lexeme
	}

	var members []ast.ClassMember
	if p.check(token.LBRACE) {
		p.advance()
		for !p.check(token.RBRACE) && !p.atEnd() {
			members = append(members, p.classMember())
			for p.match(token.SEMI) {
			}
		}
		p.consume(token.RBRACE, "expected '}' to close class body")
	} else {
		p.consume(token.COLON, "expected ':' or '{' after class header")
		p.consume(token.NEWLINE, "expected newline after class header")
		p.consume(token.INDENT, "expected indented class body")
		for !p.check(token.DEDENT) && !p.atEnd() {
			members = append(members, p.classMember())
			p.skipSeparators()
		}
		p.consume(token.DEDENT, "expected dedent to close class body")
	}

	return &ast.ClassDef{Base: ast.Base{P: pos}, Name: name, Parent: parent, Members: members}
}

func (p *Parser) classMember() ast.ClassMember {
	switch {
	case p.check(token.KW_PROP):
		pos := p.pos()
		p.advance()
		name := p.consume(token.IDENT, "expected property name after 'prop'").Lexeme
		var def ast.Expr
		if p.match(token.ASSIGN) {
			def = p.expression()
		}
		return &ast.PropDef{Base: ast.Base{P: pos}, Name: name, Default: def}
	case p.check(token.KW_METHOD):
		pos := p.pos()
		p.advance()
		name := p.consume(token.IDENT, "expected method name").Lexeme
		params, body := p.methodSignatureAndBody()
		return &ast.MethodDef{Base: ast.Base{P: pos}, Name: name, Params: params, Body: body}
	case p.check(token.KW_INIT):
		pos := p.pos()
		p.advance()
		params, body := p.methodSignatureAndBody()
		return &ast.MethodDef{Base: ast.Base{P: pos}, Name: "init", Params: params, Body: body, IsInit: true}
	default:
		p.fail("expected 'prop', 'method', or 'init' in class body")
		return nil
	}
}

func (p *Parser) methodSignatureAndBody() ([]ast.Param, *ast.Block) {
	p.consume(token.LPAREN, "expected '(' after method name")
	params := p.paramList()
	p.consume(token.RPAREN, "expected ')' after parameters")
	if p.match(token.ASSIGN) {
		return params, p.bracedBody()
	}
	p.consume(token.COLON, "expected ':' or '=' after method header")
	return params, p.indentedBody()
}

func (p *Parser) testBlock() ast.Stmt {
	pos := p.pos()
	p.advance() // test
	label := p.consume(token.STRING, "expected a string label after 'test'").Text
	body := p.bracedBody()
	return &ast.TestBlock{Base: ast.Base{P: pos}, Label: label, Body: body}
}

// ---------------------------------------------------------------- statements

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.check(token.KW_IF):
		return p.ifStmt()
	case p.check(token.KW_WHILE):
		return p.whileStmt()
	case p.check(token.KW_FOR):
		return p.forStmt()
	case p.check(token.KW_PRINT):
		return p.printStmt()
	case p.check(token.KW_ASSERT):
		return p.assertStmt()
	case p.check(token.KW_RETURN):
		return p.returnStmt()
	default:
		return p.assignOrExprStmt()
	}
}

func (p *Parser) body() *ast.Block {
	if p.check(token.LBRACE) {
		if p.style == styleIndented {
			p.fail("braced block not allowed inside an indented body")
		}
		return p.bracedBody()
	}
	if p.style == styleBraced {
		p.fail("indented block not allowed inside a braced body")
	}
	p.consume(token.COLON, "expected ':' or '{' to start a block")
	return p.indentedBody()
}

func (p *Parser) indentedBody() *ast.Block {
	pos := p.pos()
	p.consume(token.NEWLINE, "expected newline before an indented block")
	p.consume(token.INDENT, "expected an indented block")
	prev := p.style
	p.style = styleIndented
	var stmts []ast.Stmt
	for !p.check(token.DEDENT) && !p.atEnd() {
		stmts = append(stmts, p.declaration())
		p.skipSeparators()
	}
	p.style = prev
	p.consume(token.DEDENT, "expected dedent to close block")
	return &ast.Block{Base: ast.Base{P: pos}, Stmts: stmts, Kind: ast.Indented}
}

func (p *Parser) bracedBody() *ast.Block {
	pos := p.pos()
	p.consume(token.LBRACE, "expected '{' to start a block")
	prev := p.style
	p.style = styleBraced
	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.atEnd() {
		stmts = append(stmts, p.declaration())
		for p.match(token.SEMI) {
		}
	}
	p.style = prev
	p.consume(token.RBRACE, "expected '}' to close block")
	return &ast.Block{Base: ast.Base{P: pos}, Stmts: stmts, Kind: ast.Braced}
}

func (p *Parser) ifStmt() ast.Stmt {
	pos := p.pos()
	p.advance() // if
	cond := p.expression()
	then := p.body()

	// The elif/else arms belong to the same construct as the then arm, so
	// at top level (where either style is open) the first arm's choice
	// binds the rest.
	prev := p.style
	if p.style == styleFree {
		if then.Kind == ast.Braced {
			p.style = styleBraced
		} else {
			p.style = styleIndented
		}
	}

	var elifs []ast.Elif
	var elseBlock *ast.Block
	for p.check(token.KW_ELIF) {
		p.advance()
		ec := p.expression()
		eb := p.body()
		elifs = append(elifs, ast.Elif{Cond: ec, Body: eb})
	}
	if p.match(token.KW_ELSE) {
		elseBlock = p.body()
	}
	p.style = prev
	return &ast.If{Base: ast.Base{P: pos}, Cond: cond, Then: then, Elif: elifs, Else: elseBlock}
}

func (p *Parser) whileStmt() ast.Stmt {
	pos := p.pos()
	p.advance() // while
	cond := p.expression()
	body := p.body()
	return &ast.While{Base: ast.Base{P: pos}, Cond: cond, Body: body}
}

func (p *Parser) forStmt() ast.Stmt {
	pos := p.pos()
	p.advance() // for
	v := p.consume(token.SCALAR, "expected a $variable after 'for'")
	p.consume(token.KW_IN, "expected 'in' after for-loop variable")
	iter := p.expression()
	body := p.body()
	return &ast.For{Base: ast.Base{P: pos}, VarSigil: '$', VarName: v.Text, Iter: iter, Body: body}
}

func (p *Parser) printStmt() ast.Stmt {
	pos := p.pos()
	p.advance() // print
	var args []ast.Expr
	paren := p.match(token.LPAREN)
	if paren && p.check(token.RPAREN) {
		p.advance()
		return &ast.Print{Base: ast.Base{P: pos}, Args: args}
	}
	args = append(args, p.expression())
	for p.match(token.COMMA) {
		args = append(args, p.expression())
	}
	if paren {
		p.consume(token.RPAREN, "expected ')' after print arguments")
	}
	return &ast.Print{Base: ast.Base{P: pos}, Args: args}
}

func (p *Parser) assertStmt() ast.Stmt {
	pos := p.pos()
	p.advance() // assert
	return &ast.Assert{Base: ast.Base{P: pos}, X: p.expression()}
}

func (p *Parser) returnStmt() ast.Stmt {
	pos := p.pos()
	p.advance() // return
	if p.check(token.NEWLINE) || p.check(token.SEMI) || p.check(token.DEDENT) || p.check(token.RBRACE) || p.atEnd() {
		return &ast.Return{Base: ast.Base{P: pos}}
	}
	return &ast.Return{Base: ast.Base{P: pos}, Value: p.expression()}
}

// assignOrExprStmt parses an expression and, if followed by '=', turns it
// into an Assign statement provided the left side is a permitted target: a
// sigil variable, an index expression, or an attribute expression.
func (p *Parser) assignOrExprStmt() ast.Stmt {
	pos := p.pos()
	lhs := p.expression()
	if p.match(token.ASSIGN) {
		switch lhs.(type) {
		case *ast.VarRef, *ast.Index, *ast.Attr:
		default:
			p.fail("invalid assignment target")
		}
		value := p.expression()
		return &ast.Assign{Base: ast.Base{P: pos}, Target: lhs, Value: value}
	}
	return &ast.ExprStmt{Base: ast.Base{P: pos}, X: lhs}
}

// ---------------------------------------------------------------- expressions

func (p *Parser) expression() ast.Expr { return p.logicOr() }

func (p *Parser) logicOr() ast.Expr {
	lhs := p.logicAnd()
	for p.check(token.KW_OR) {
		pos := p.pos()
		p.advance()
		rhs := p.logicAnd()
		lhs = &ast.LogicalOr{Base: ast.Base{P: pos}, L: lhs, R: rhs}
	}
	return lhs
}

func (p *Parser) logicAnd() ast.Expr {
	lhs := p.logicNot()
	for p.check(token.KW_AND) {
		pos := p.pos()
		p.advance()
		rhs := p.logicNot()
		lhs = &ast.LogicalAnd{Base: ast.Base{P: pos}, L: lhs, R: rhs}
	}
	return lhs
}

func (p *Parser) logicNot() ast.Expr {
	if p.check(token.KW_NOT) {
		pos := p.pos()
		p.advance()
		return &ast.LogicalNot{Base: ast.Base{P: pos}, X: p.logicNot()}
	}
	return p.comparison()
}

var compareOps = map[token.Kind]string{
	token.EQ: "==", token.NEQ: "!=", token.LT: "<", token.LE: "<=",
	token.GT: ">", token.GE: ">=", token.KW_IN: "in",
}

func (p *Parser) comparison() ast.Expr {
	lhs := p.additive()
	for {
		pos := p.pos()
		if op, ok := compareOps[p.current().Kind]; ok {
			p.advance()
			rhs := p.additive()
			lhs = &ast.Compare{Base: ast.Base{P: pos}, Op: op, L: lhs, R: rhs}
			continue
		}
		if p.check(token.MATCH) || p.check(token.NOTMATCH) {
			negated := p.check(token.NOTMATCH)
			p.advance()
			if p.check(token.REGEX_SUBST) {
				tok := p.advance()
				body, repl := splitSubst(tok.Text)
				lhs = &ast.RegexSubst{Base: ast.Base{P: pos}, Target: lhs, Pattern: body, Replacement: repl, Flags: tok.Flags}
			} else {
				rhs := p.additive()
				lhs = &ast.RegexMatch{Base: ast.Base{P: pos}, Target: lhs, Pattern: rhs, Negated: negated}
			}
			continue
		}
		return lhs
	}
}

func splitSubst(text string) (body, repl string) {
	parts := strings.SplitN(text, "\x00", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}

func (p *Parser) additive() ast.Expr {
	lhs := p.multiplicative()
	for p.check(token.PLUS) || p.check(token.MINUS) {
		pos := p.pos()
		op := p.advance()
		rhs := p.multiplicative()
		lhs = &ast.Binary{Base: ast.Base{P: pos}, Op: op.Lexeme, L: lhs, R: rhs}
	}
	return lhs
}

func (p *Parser) multiplicative() ast.Expr {
	lhs := p.unary()
	for p.check(token.STAR) || p.check(token.SLASH) || p.check(token.DSLASH) || p.check(token.PERCENT) {
		pos := p.pos()
		op := p.advance()
		rhs := p.unary()
		lhs = &ast.Binary{Base: ast.Base{P: pos}, Op: op.Lexeme, L: lhs, R: rhs}
	}
	return lhs
}

func (p *Parser) unary() ast.Expr {
	if p.check(token.PLUS) || p.check(token.MINUS) {
		pos := p.pos()
		op := p.advance()
		return &ast.Unary{Base: ast.Base{P: pos}, Op: op.Lexeme, X: p.unary()}
	}
	return p.power()
}

func (p *Parser) power() ast.Expr {
	lhs := p.callExpr()
	if p.check(token.POW) || p.check(token.CARET) {
		pos := p.pos()
		op := p.advance()
		rhs := p.power() // right-associative
		return &ast.Binary{Base: ast.Base{P: pos}, Op: op.Lexeme, L: lhs, R: rhs}
	}
	return lhs
}

func (p *Parser) callExpr() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.check(token.LPAREN):
			pos := p.pos()
			p.advance()
			args := p.argList(token.RPAREN)
			p.consume(token.RPAREN, "expected ')' after arguments")
			expr = &ast.Call{Base: ast.Base{P: pos}, Callee: expr, Args: args}
		case p.check(token.LBRACKET):
			pos := p.pos()
			p.advance()
			key := p.expression()
			p.consume(token.RBRACKET, "expected ']' after index")
			expr = &ast.Index{Base: ast.Base{P: pos}, Collection: expr, Key: key}
		case p.check(token.DOT):
			pos := p.pos()
			p.advance()
			name := p.consume(token.IDENT, "expected a field or method name after '.'").Lexeme
			if p.check(token.LPAREN) {
				p.advance()
				args := p.argList(token.RPAREN)
				p.consume(token.RPAREN, "expected ')' after method arguments")
				expr = &ast.MethodCall{Base: ast.Base{P: pos}, Obj: expr, Name: name, Args: args}
			} else {
				expr = &ast.Attr{Base: ast.Base{P: pos}, Obj: expr, Name: name}
			}
		default:
			return expr
		}
	}
}

func (p *Parser) argList(end token.Kind) []ast.Expr {
	var args []ast.Expr
	if p.check(end) {
		return args
	}
	args = append(args, p.expression())
	for p.match(token.COMMA) {
		args = append(args, p.expression())
	}
	return args
}

func (p *Parser) primary() ast.Expr {
	pos := p.pos()
	tok := p.current()

	switch tok.Kind {
	case token.INT:
		p.advance()
		v := parseIntLiteral(tok.Lexeme)
		return &ast.Literal{Base: ast.Base{P: pos}, Kind: ast.LitInt, I: v}
	case token.FLOAT:
		p.advance()
		f, _ := strconv.ParseFloat(tok.Lexeme, 64)
		return &ast.Literal{Base: ast.Base{P: pos}, Kind: ast.LitFloat, F: f}
	case token.STRING, token.RAWSTRING:
		p.advance()
		return &ast.Literal{Base: ast.Base{P: pos}, Kind: ast.LitString, S: tok.Text}
	case token.KW_TRUE:
		p.advance()
		return &ast.Literal{Base: ast.Base{P: pos}, Kind: ast.LitBool, B: true}
	case token.KW_FALSE:
		p.advance()
		return &ast.Literal{Base: ast.Base{P: pos}, Kind: ast.LitBool, B: false}
	case token.KW_NONE:
		p.advance()
		return &ast.Literal{Base: ast.Base{P: pos}, Kind: ast.LitNone}
	case token.SCALAR, token.ARRAYVAR, token.HASHVAR, token.FUNCVAR:
		p.advance()
		return &ast.VarRef{Base: ast.Base{P: pos}, Sigil: tok.Kind.Sigil(), Name: tok.Text}
	case token.IDENT:
		p.advance()
		return &ast.IdentRef{Base: ast.Base{P: pos}, Name: tok.Lexeme}
	case token.REGEX_QR, token.REGEX_MATCH:
		p.advance()
		return &ast.RegexLit{Base: ast.Base{P: pos}, Source: tok.Text, Flags: tok.Flags}
	case token.LPAREN:
		p.advance()
		e := p.expression()
		p.consume(token.RPAREN, "expected ')' after expression")
		return e
	case token.LBRACKET:
		return p.listLit(pos)
	case token.LBRACE:
		return p.braceExpr(pos)
	default:
		p.fail("expected an expression, found %s", tok.Kind)
		return nil
	}
}

func parseIntLiteral(lexeme string) int64 {
	base := 10
	s := lexeme
	switch {
	case strings.HasPrefix(lexeme, "0x") || strings.HasPrefix(lexeme, "0X"):
		base, s = 16, lexeme[2:]
	case strings.HasPrefix(lexeme, "0b") || strings.HasPrefix(lexeme, "0B"):
		base, s = 2, lexeme[2:]
	}
	v, _ := strconv.ParseInt(s, base, 64)
	return v
}

func (p *Parser) listLit(pos ast.Pos) ast.Expr {
	p.advance() // [
	elems := p.argList(token.RBRACKET)
	p.consume(token.RBRACKET, "expected ']' to close list literal")
	return &ast.ListLit{Base: ast.Base{P: pos}, Elems: elems}
}

// braceExpr disambiguates HashLit from Lambda at a '{' in expression
// position: `{}` and `{"k": v, ...}` are hash literals; `{|$a, $b| expr}`
// is a lambda, distinguished by one token of lookahead without
// backtracking.
func (p *Parser) braceExpr(pos ast.Pos) ast.Expr {
	p.advance() // {
	if p.check(token.PIPE) {
		return p.lambdaBody(pos)
	}
	var pairs []ast.HashPair
	for !p.check(token.RBRACE) {
		key := p.consume(token.STRING, "expected a string key in hash literal").Text
		p.consume(token.COLON, "expected ':' after hash key")
		val := p.expression()
		pairs = append(pairs, ast.HashPair{Key: key, Value: val})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.consume(token.RBRACE, "expected '}' to close hash literal")
	return &ast.HashLit{Base: ast.Base{P: pos}, Pairs: pairs}
}

func (p *Parser) lambdaBody(pos ast.Pos) ast.Expr {
	p.advance() // |
	var params []ast.Param
	for !p.check(token.PIPE) {
		vararg := false
		if p.check(token.STAR) {
			p.advance()
			vararg = true
		}
		name := p.consume(token.SCALAR, "expected a parameter name").Text
		var def ast.Expr
		if p.match(token.ASSIGN) {
			def = p.expression()
		}
		params = append(params, ast.Param{Name: name, Default: def, Vararg: vararg})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.consume(token.PIPE, "expected '|' to close lambda parameter list")
	body := p.expression()
	p.consume(token.RBRACE, "expected '}' to close lambda")
	return &ast.Lambda{Base: ast.Base{P: pos}, Params: params, Body: body}
}

// ---------------------------------------------------------------- cursor primitives

func (p *Parser) pos() ast.Pos {
	t := p.current()
	return ast.Pos{Line: t.Line, Col: t.Col}
}

func (p *Parser) current() token.Token { return p.toks[p.idx] }

func (p *Parser) peekKind(n int) token.Kind {
	if p.idx+n >= len(p.toks) {
		return token.EOF
	}
	return p.toks[p.idx+n].Kind
}

func (p *Parser) atEnd() bool { return p.current().Kind == token.EOF }

func (p *Parser) check(k token.Kind) bool { return !p.atEnd() && p.current().Kind == k }

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) advance() token.Token {
	t := p.current()
	if !p.atEnd() {
		p.idx++
	}
	return t
}

func (p *Parser) consume(k token.Kind, msg string) token.Token {
	if !p.check(k) {
		p.fail("%s (found %s)", msg, p.current().Kind)
	}
	return p.advance()
}

// skipSeparators consumes any run of NEWLINE/SEMI tokens between
// statements, tolerating either style's terminator everywhere: the
// grammar uses NEWLINE between indented-body statements and `;` between
// braced-body statements, and top-level statements accept both.
func (p *Parser) skipSeparators() {
	for p.check(token.NEWLINE) || p.check(token.SEMI) {
		p.advance()
	}
}
