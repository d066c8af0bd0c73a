// Package parser implements Lox's recursive-descent grammar: one method
// per production, with panic/recover-based error recovery so a single
// syntax error doesn't abort the whole parse.
package parser

import (
	"fmt"

	"tree_lox/ast"
	"tree_lox/scanner"
	"tree_lox/token"
)

const maxArgs = 255

// ErrorSink matches the contract shared with the scanner and resolver.
type ErrorSink interface {
	ReportStatic(line int, where, message string)
}

type loopKind int

const (
	noLoop loopKind = iota
	inLoop
)

// syntaxError is the sentinel panicked by consume/primary on a malformed
// token stream; declaration's recover catches it and calls synchronize.
type syntaxError struct{}

type Parser struct {
	tokens  []token.Token
	current int

	currentLoop loopKind

	errors   ErrorSink
	hadError bool
}

// New scans source completely up front (scanner-then-parser, not
// interleaved) and prepares a Parser over the resulting token stream.
func New(source string, sink ErrorSink) *Parser {
	scn := scanner.New(source, sink)
	toks := scn.ScanTokens()
	return &Parser{tokens: toks, errors: sink}
}

// Parse returns the program's statement list. ok is false if any syntax
// error was reported, in which case the driver must not proceed to
// resolution.
func (p *Parser) Parse() (stmts []ast.Stmt, ok bool) {
	for !p.check(token.END_OF_FILE) {
		stmts = append(stmts, p.declarationRecovering())
	}
	return stmts, !p.hadError
}

func (p *Parser) declarationRecovering() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(syntaxError); !ok {
				panic(r)
			}
			p.synchronize()
			stmt = nil
		}
	}()
	return p.declaration()
}

// Statements
// --------------------------------------------------------

func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.match(token.CLASS):
		return p.classDeclaration()
	case p.match(token.FUN):
		return p.function("function")
	case p.match(token.VAR):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect class name.")

	var superclass *ast.Variable
	if p.match(token.LESS) {
		p.consume(token.IDENTIFIER, "Expect superclass name.")
		superclass = &ast.Variable{Name: p.previous()}
	}

	p.consume(token.LEFT_BRACE, "Expect '{' before class body.")

	var methods []*ast.Function
	for !p.check(token.RIGHT_BRACE) && !p.check(token.END_OF_FILE) {
		methods = append(methods, p.function("method"))
	}

	p.consume(token.RIGHT_BRACE, "Expect '}' after class body.")
	return &ast.Class{Name: name, Superclass: superclass, Methods: methods}
}

func (p *Parser) function(kind string) *ast.Function {
	name := p.consume(token.IDENTIFIER, "Expect "+kind+" name.")
	p.consume(token.LEFT_PAREN, "Expect '(' after "+kind+" name.")

	var params []token.Token
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(p.peek(), fmt.Sprintf("Can't have more than %d parameters.", maxArgs))
			}
			params = append(params, p.consume(token.IDENTIFIER, "Expect parameter name."))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after parameters.")

	p.consume(token.LEFT_BRACE, "Expect '{' before "+kind+" body.")
	body := p.block()
	return &ast.Function{Name: name, Params: params, Body: body}
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect variable name.")

	var initializer ast.Expr
	if p.match(token.EQUAL) {
		initializer = p.expression()
	}

	p.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	return &ast.Var{Name: name, Initializer: initializer}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.ASSERT):
		return p.assertStatement()
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.BREAK):
		return p.breakStatement()
	case p.match(token.CONTINUE):
		return p.continueStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.LEFT_BRACE):
		return ast.NewBlock(p.block()...)
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) assertStatement() ast.Stmt {
	keyword := p.previous()
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression.")
	return &ast.Assert{Keyword: keyword, Expression: expr}
}

func (p *Parser) printStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after value.")
	return &ast.Print{Expression: expr}
}

func (p *Parser) breakStatement() ast.Stmt {
	kw := p.previous()
	if p.currentLoop == noLoop {
		p.errorAt(kw, "Can't use 'break' outside of a loop.")
	}
	p.consume(token.SEMICOLON, "Expect ';' after 'break'.")
	return &ast.Break{Keyword: kw}
}

func (p *Parser) continueStatement() ast.Stmt {
	kw := p.previous()
	if p.currentLoop == noLoop {
		p.errorAt(kw, "Can't use 'continue' outside of a loop.")
	}
	p.consume(token.SEMICOLON, "Expect ';' after 'continue'.")
	return &ast.Continue{Keyword: kw}
}

func (p *Parser) returnStatement() ast.Stmt {
	kw := p.previous()
	var value ast.Expr
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after return value.")
	return &ast.Return{Keyword: kw, Value: value}
}

func (p *Parser) ifStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}
	return &ast.If{Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

func (p *Parser) whileStatement() ast.Stmt {
	enclosingLoop := p.currentLoop
	p.currentLoop = inLoop
	defer func() { p.currentLoop = enclosingLoop }()

	p.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after condition.")

	body := p.statement()
	return &ast.For{Condition: condition, Body: body}
}

// forStatement desugars 'for' into a Block containing the initializer
// followed by a For node carrying the update expression separately (not
// appended into Body), so that 'continue' still runs it.
func (p *Parser) forStatement() ast.Stmt {
	enclosingLoop := p.currentLoop
	p.currentLoop = inLoop
	defer func() { p.currentLoop = enclosingLoop }()

	p.consume(token.LEFT_PAREN, "Expect '(' after 'for'.")

	var initializer ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
		initializer = nil
	case p.match(token.VAR):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expr = &ast.Literal{Value: true}
	if !p.check(token.SEMICOLON) {
		condition = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after loop condition.")

	var update ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		update = p.expression()
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")

	body := p.statement()
	loop := &ast.For{Condition: condition, Body: body, Update: update}

	if initializer == nil {
		return loop
	}
	return ast.NewBlock(initializer, loop)
}

func (p *Parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RIGHT_BRACE) && !p.check(token.END_OF_FILE) {
		stmts = append(stmts, p.declarationRecovering())
	}
	p.consume(token.RIGHT_BRACE, "Expect '}' after block.")
	return stmts
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression.")
	return &ast.Expression{Expression: expr}
}

// Expressions
// --------------------------------------------------------

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

// assignment parses the left side as an ordinary expression, then, on
// seeing '=', rewrites a Variable into Assign and a Get into Set; any
// other shape is a syntax error that does not synchronize, since the
// tokens already form a valid expression.
func (p *Parser) assignment() ast.Expr {
	expr := p.ternary()

	if p.match(token.EQUAL) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Target: target, Value: value}
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}
		default:
			p.errorAt(equals, "Invalid assignment target.")
		}
	}

	return expr
}

func (p *Parser) ternary() ast.Expr {
	expr := p.or()

	if p.match(token.QUESTION) {
		trueExpr := p.expression()
		p.consume(token.COLON, "Expect ':' in ternary expression.")
		falseExpr := p.ternary()
		return &ast.Ternary{Condition: expr, TrueExpr: trueExpr, FalseExpr: falseExpr}
	}

	return expr
}

func (p *Parser) or() ast.Expr {
	expr := p.and()
	for p.match(token.OR) {
		op := p.previous()
		right := p.and()
		expr = &ast.Logical{Operator: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()
	for p.match(token.AND) {
		op := p.previous()
		right := p.equality()
		expr = &ast.Logical{Operator: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	return p.leftBinary(p.comparison, token.BANG_EQUAL, token.EQUAL_EQUAL)
}

func (p *Parser) comparison() ast.Expr {
	return p.leftBinary(p.term, token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL)
}

func (p *Parser) term() ast.Expr {
	return p.leftBinary(p.factor, token.MINUS, token.PLUS)
}

func (p *Parser) factor() ast.Expr {
	return p.leftBinary(p.unary, token.SLASH, token.STAR)
}

// leftBinary implements the shared shape of equality/comparison/term/factor:
// left-associative binary operators built one grammar level at a time.
func (p *Parser) leftBinary(operand func() ast.Expr, kinds ...token.Kind) ast.Expr {
	expr := operand()
	for p.matchAny(kinds...) {
		op := p.previous()
		right := operand()
		expr = &ast.Binary{Operator: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.matchAny(token.BANG, token.MINUS) {
		op := p.previous()
		right := p.unary()
		return &ast.Unary{Operator: op, Right: right}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(token.LEFT_PAREN):
			expr = p.finishCall(expr)
		case p.match(token.DOT):
			name := p.consume(token.IDENTIFIER, "Expect property name after '.'.")
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(args) >= maxArgs {
				p.errorAt(p.peek(), fmt.Sprintf("Can't have more than %d arguments.", maxArgs))
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Arguments: args}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Value: false}
	case p.match(token.TRUE):
		return &ast.Literal{Value: true}
	case p.match(token.NIL):
		return &ast.Literal{Value: nil}
	case p.matchAny(token.NUMBER, token.STRING):
		return &ast.Literal{Value: p.previous().Literal}
	case p.match(token.THIS):
		kw := p.previous()
		return &ast.This{Keyword: kw, Var: &ast.Variable{Name: kw}}
	case p.match(token.SUPER):
		return p.super_()
	case p.match(token.IDENTIFIER):
		return &ast.Variable{Name: p.previous()}
	case p.match(token.LEFT_PAREN):
		expr := p.expression()
		p.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
		return &ast.Grouping{Expr: expr}
	}

	p.errorAt(p.peek(), "Expect expression.")
	panic(syntaxError{})
}

func (p *Parser) super_() ast.Expr {
	kw := p.previous()
	p.consume(token.DOT, "Expect '.' after 'super'.")
	method := p.consume(token.IDENTIFIER, "Expect superclass method name.")
	return &ast.Super{Keyword: kw, Method: method, Var: &ast.Variable{Name: kw}}
}

// Token stream helpers
// --------------------------------------------------------

func (p *Parser) matchAny(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) match(kind token.Kind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) advance() token.Token {
	if !p.check(token.END_OF_FILE) {
		p.current++
	}
	return p.previous()
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) consume(kind token.Kind, message string) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	p.errorAt(p.peek(), message)
	panic(syntaxError{})
}

// synchronize discards tokens until it lands on a likely statement
// boundary, so one syntax error doesn't cascade into a wall of spurious
// ones.
func (p *Parser) synchronize() {
	p.advance()

	for !p.check(token.END_OF_FILE) {
		if p.previous().Kind == token.SEMICOLON {
			return
		}

		switch p.peek().Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR,
			token.IF, token.WHILE, token.PRINT, token.RETURN, token.ASSERT:
			return
		}

		p.advance()
	}
}

func (p *Parser) errorAt(tok token.Token, message string) {
	p.hadError = true
	where := " at '" + tok.Lexeme + "'"
	if tok.Kind == token.END_OF_FILE {
		where = " at end"
	}
	p.errors.ReportStatic(tok.Line, where, message)
}
