// Package parser turns snippet source text into an *ast.Program.
//
// It accepts a JavaScript-like statement and expression grammar that is
// somewhat wider than what the evaluator supports: constructs such as unary
// operators, assignments and variable declarations are parsed into their own
// node kinds so that the evaluator can reject them with a precise error.
// Syntax outside even that (loops, classes, object literals, templates, ...)
// is reported as a *Error.
package parser

import (
	"fmt"

	"github.com/podhmo/exprbox/ast"
)

// Error is a syntax error at a source position.
type Error struct {
	Pos ast.Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Parse parses a complete program.
func Parse(src string) (*ast.Program, error) {
	return ParseWithOffset(src, 0)
}

// ParseWithOffset parses src numbering its first line 1+lineOffset. Callers
// that wrap user text in a synthetic header line pass -1 so that reported
// positions match the user's text.
func ParseWithOffset(src string, lineOffset int) (*ast.Program, error) {
	toks, err := NewLexer(src, 1+lineOffset).Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, closers: matchBrackets(toks)}
	return p.program()
}

// MaxNesting bounds how deeply statements and expressions may nest.
const MaxNesting = 1000

type parser struct {
	toks    []Token
	i       int
	closers []int // index of the matching close bracket for each opener, or -1
	depth   int
}

// enter records one more level of nesting at the current token.
// Every successful call must be paired with leave.
func (p *parser) enter() error {
	if p.depth >= MaxNesting {
		return p.errorf(p.peek(), "maximum nesting depth of %d exceeded", MaxNesting)
	}
	p.depth++
	return nil
}

func (p *parser) leave() { p.depth-- }

// matchBrackets pairs every '(', '[' and '{' with the close bracket that
// ends it. Bracket types are not checked against each other here; the
// grammar rejects mismatches when it gets there.
func matchBrackets(toks []Token) []int {
	closers := make([]int, len(toks))
	var open []int
	for j, t := range toks {
		closers[j] = -1
		switch t.Type {
		case LPAREN, LBRACKET, LBRACE:
			open = append(open, j)
		case RPAREN, RBRACKET, RBRACE:
			if n := len(open); n > 0 {
				closers[open[n-1]] = j
				open = open[:n-1]
			}
		}
	}
	return closers
}

func (p *parser) peek() Token { return p.toks[p.i] }

func (p *parser) peekAt(n int) Token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+n]
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) atEnd() bool { return p.peek().Type == EOF }

func (p *parser) advance() Token {
	t := p.toks[p.i]
	if t.Type != EOF {
		p.i++
	}
	return t
}

func (p *parser) match(tt ...TokenType) bool {
	for _, t := range tt {
		if p.peek().Type == t {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) need(tt TokenType, what string) (Token, error) {
	if p.peek().Type == tt {
		return p.advance(), nil
	}
	return Token{}, p.errorf(p.peek(), "expected %s, found %s", what, describe(p.peek()))
}

func (p *parser) errorf(at Token, format string, args ...any) error {
	return &Error{Pos: at.Pos, Msg: fmt.Sprintf(format, args...)}
}

func describe(t Token) string {
	if t.Type == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Lexeme)
}

func (p *parser) program() (*ast.Program, error) {
	prog := &ast.Program{Start: p.peek().Pos}
	for !p.atEnd() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		prog.Body = append(prog.Body, stmt)
	}
	return prog, nil
}

// --- Statements ---

func (p *parser) statement() (ast.Statement, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	t := p.peek()
	switch t.Type {
	case LBRACE:
		return p.block()
	case SEMICOLON:
		p.advance()
		return &ast.EmptyStatement{Start: t.Pos}, nil
	case IF:
		return p.ifStatement()
	case RETURN:
		return p.returnStatement()
	case FUNCTION:
		return p.functionDeclaration(false)
	case LET, CONST, VAR:
		return p.variableDeclaration()
	case RESERVED:
		return nil, p.errorf(t, "unsupported syntax: %q", t.Lexeme)
	case IDENT:
		if t.Lexeme == "async" && p.peekAt(1).Type == FUNCTION {
			p.advance()
			return p.functionDeclaration(true)
		}
	}

	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.terminate(); err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Expression: expr}, nil
}

// terminate consumes an optional ';'. Without one, the statement must end at
// a '}', at the end of input, or at a line break.
func (p *parser) terminate() error {
	if p.match(SEMICOLON) {
		return nil
	}
	next := p.peek()
	if next.Type == RBRACE || next.Type == EOF {
		return nil
	}
	if p.i > 0 && next.Pos.Line > p.prev().Pos.Line {
		return nil
	}
	return p.errorf(next, "unexpected %s", describe(next))
}

func (p *parser) block() (*ast.BlockStatement, error) {
	open, err := p.need(LBRACE, `"{"`)
	if err != nil {
		return nil, err
	}
	blk := &ast.BlockStatement{Start: open.Pos}
	for p.peek().Type != RBRACE {
		if p.atEnd() {
			return nil, p.errorf(p.peek(), `expected "}", found end of input`)
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		blk.Body = append(blk.Body, stmt)
	}
	p.advance()
	return blk, nil
}

func (p *parser) ifStatement() (ast.Statement, error) {
	start := p.advance()
	if _, err := p.need(LPAREN, `"(" after if`); err != nil {
		return nil, err
	}
	test, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RPAREN, `")"`); err != nil {
		return nil, err
	}
	cons, err := p.statement()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStatement{Start: start.Pos, Test: test, Consequent: cons}
	if p.match(ELSE) {
		alt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmt.Alternate = alt
	}
	return stmt, nil
}

func (p *parser) returnStatement() (ast.Statement, error) {
	start := p.advance()
	stmt := &ast.ReturnStatement{Start: start.Pos}
	next := p.peek()
	// a line break after `return` ends the statement
	if next.Type == SEMICOLON || next.Type == RBRACE || next.Type == EOF || next.Pos.Line > start.Pos.Line {
		p.match(SEMICOLON)
		return stmt, nil
	}
	arg, err := p.expression()
	if err != nil {
		return nil, err
	}
	stmt.Argument = arg
	if err := p.terminate(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) functionDeclaration(async bool) (ast.Statement, error) {
	start := p.peek()
	if async {
		start = p.prev()
	}
	p.advance() // function
	fn := &ast.FunctionDeclaration{Start: start.Pos, Async: async}
	if p.match(STAR) {
		fn.Generator = true
	}
	name, err := p.need(IDENT, "function name")
	if err != nil {
		return nil, err
	}
	fn.Name = &ast.Identifier{Start: name.Pos, Name: name.Lexeme}
	params, err := p.parameters()
	if err != nil {
		return nil, err
	}
	fn.Params = params
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

func (p *parser) variableDeclaration() (ast.Statement, error) {
	kw := p.advance()
	name, err := p.need(IDENT, "variable name")
	if err != nil {
		return nil, err
	}
	decl := &ast.VariableDeclaration{
		Start:   kw.Pos,
		Keyword: kw.Lexeme,
		Name:    &ast.Identifier{Start: name.Pos, Name: name.Lexeme},
	}
	if p.match(ASSIGN) {
		init, err := p.expression()
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}
	if err := p.terminate(); err != nil {
		return nil, err
	}
	return decl, nil
}

// parameters parses "(a, b)". Only plain identifiers are accepted.
func (p *parser) parameters() ([]*ast.Identifier, error) {
	if _, err := p.need(LPAREN, `"("`); err != nil {
		return nil, err
	}
	var params []*ast.Identifier
	for p.peek().Type != RPAREN {
		t := p.peek()
		if t.Type != IDENT {
			return nil, p.errorf(t, "unsupported parameter %s", describe(t))
		}
		p.advance()
		params = append(params, &ast.Identifier{Start: t.Pos, Name: t.Lexeme})
		if p.peek().Type == ASSIGN {
			return nil, p.errorf(p.peek(), "default parameter values are not supported")
		}
		if !p.match(COMMA) {
			break
		}
	}
	if _, err := p.need(RPAREN, `")"`); err != nil {
		return nil, err
	}
	return params, nil
}

// --- Expressions ---

// binding powers for infix operators; higher binds tighter
var precedence = map[TokenType]int{
	NULLISH:    1,
	OR:         2,
	AND:        3,
	EQ:         6,
	NEQ:        6,
	STRICT_EQ:  6,
	STRICT_NEQ: 6,
	LT:         7,
	GT:         7,
	LE:         7,
	GE:         7,
	PLUS:       9,
	MINUS:      9,
	STAR:       10,
	SLASH:      10,
	PERCENT:    10,
}

func (p *parser) expression() (ast.Expression, error) {
	return p.assignment()
}

func (p *parser) assignment() (ast.Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.binary(1)
	if err != nil {
		return nil, err
	}
	if p.peek().Type != ASSIGN {
		return left, nil
	}
	eq := p.advance()
	switch left.(type) {
	case *ast.Identifier, *ast.MemberExpression:
	default:
		return nil, p.errorf(eq, "invalid assignment target")
	}
	right, err := p.assignment()
	if err != nil {
		return nil, err
	}
	return &ast.AssignmentExpression{Operator: "=", Left: left, Right: right}, nil
}

func (p *parser) binary(minPrec int) (ast.Expression, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		prec, ok := precedence[op.Type]
		if !ok || prec < minPrec {
			return left, nil
		}
		p.advance()
		right, err := p.binary(prec + 1)
		if err != nil {
			return nil, err
		}
		switch op.Type {
		case AND, OR, NULLISH:
			left = &ast.LogicalExpression{Operator: op.Lexeme, Left: left, Right: right}
		default:
			left = &ast.BinaryExpression{Operator: op.Lexeme, Left: left, Right: right}
		}
	}
}

func (p *parser) unary() (ast.Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	t := p.peek()
	switch t.Type {
	case BANG, MINUS, PLUS:
		p.advance()
		arg, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Start: t.Pos, Operator: t.Lexeme, Argument: arg}, nil
	}
	return p.postfix()
}

func (p *parser) postfix() (ast.Expression, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Type {
		case DOT:
			p.advance()
			name := p.peek()
			if name.Type == EOF || !isIdentifierName(name) {
				return nil, p.errorf(name, "expected property name, found %s", describe(name))
			}
			p.advance()
			expr = &ast.MemberExpression{
				Object:   expr,
				Property: &ast.Identifier{Start: name.Pos, Name: name.Lexeme},
			}
		case LBRACKET:
			p.advance()
			prop, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.need(RBRACKET, `"]"`); err != nil {
				return nil, err
			}
			expr = &ast.MemberExpression{Object: expr, Property: prop, Computed: true}
		case LPAREN:
			args, err := p.arguments()
			if err != nil {
				return nil, err
			}
			expr = &ast.CallExpression{Callee: expr, Arguments: args}
		default:
			return expr, nil
		}
	}
}

// isIdentifierName reports whether t may be used after '.', where keywords
// are allowed as property names.
func isIdentifierName(t Token) bool {
	if t.Type == IDENT {
		return true
	}
	if len(t.Lexeme) == 0 {
		return false
	}
	_, ok := keywords[t.Lexeme]
	return ok
}

func (p *parser) arguments() ([]ast.Expression, error) {
	p.advance() // (
	var args []ast.Expression
	for p.peek().Type != RPAREN {
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.match(COMMA) {
			break
		}
	}
	if _, err := p.need(RPAREN, `")"`); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) primary() (ast.Expression, error) {
	t := p.peek()
	switch t.Type {
	case NUMBER:
		p.advance()
		return &ast.NumericLiteral{Start: t.Pos, Raw: t.Lexeme, Value: t.Literal.(float64)}, nil
	case STRING:
		p.advance()
		return &ast.StringLiteral{Start: t.Pos, Value: t.Literal.(string)}, nil
	case TRUE, FALSE:
		p.advance()
		return &ast.BooleanLiteral{Start: t.Pos, Value: t.Type == TRUE}, nil
	case NULL:
		p.advance()
		return &ast.NullLiteral{Start: t.Pos}, nil
	case LBRACKET:
		return p.arrayLiteral()
	case LPAREN:
		if p.isArrowAt(p.i) {
			return p.arrowFunction(t, false)
		}
		p.advance()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RPAREN, `")"`); err != nil {
			return nil, err
		}
		return expr, nil
	case IDENT:
		if t.Lexeme == "async" {
			next := p.peekAt(1)
			if next.Type == IDENT && p.peekAt(2).Type == ARROW && next.Pos.Line == t.Pos.Line {
				p.advance()
				return p.arrowFunction(t, true)
			}
			if next.Type == LPAREN && p.isArrowAt(p.i+1) {
				p.advance()
				return p.arrowFunction(t, true)
			}
		}
		if p.peekAt(1).Type == ARROW {
			return p.arrowFunction(t, false)
		}
		p.advance()
		return &ast.Identifier{Start: t.Pos, Name: t.Lexeme}, nil
	case LBRACE:
		return nil, p.errorf(t, "object literals are not supported")
	case FUNCTION:
		return nil, p.errorf(t, "function expressions are not supported")
	case RESERVED:
		return nil, p.errorf(t, "unsupported syntax: %q", t.Lexeme)
	}
	return nil, p.errorf(t, "unexpected %s", describe(t))
}

func (p *parser) arrayLiteral() (ast.Expression, error) {
	open := p.advance()
	arr := &ast.ArrayExpression{Start: open.Pos}
	for p.peek().Type != RBRACKET {
		if p.peek().Type == COMMA {
			return nil, p.errorf(p.peek(), "array holes are not supported")
		}
		elem, err := p.expression()
		if err != nil {
			return nil, err
		}
		arr.Elements = append(arr.Elements, elem)
		if !p.match(COMMA) {
			break
		}
	}
	if _, err := p.need(RBRACKET, `"]"`); err != nil {
		return nil, err
	}
	return arr, nil
}

// isArrowAt reports whether the '(' at index i closes a parameter list
// followed by "=>".
func (p *parser) isArrowAt(i int) bool {
	if i >= len(p.toks) || p.toks[i].Type != LPAREN {
		return false
	}
	j := p.closers[i]
	return j >= 0 && j+1 < len(p.toks) && p.toks[j+1].Type == ARROW
}

// arrowFunction parses `x => body` or `(a, b) => body`; start is the first
// token of the expression (the `async` keyword when async is set).
func (p *parser) arrowFunction(start Token, async bool) (ast.Expression, error) {
	fn := &ast.ArrowFunctionExpression{Start: start.Pos, Async: async}
	if p.peek().Type == IDENT {
		t := p.advance()
		fn.Params = []*ast.Identifier{{Start: t.Pos, Name: t.Lexeme}}
	} else {
		params, err := p.parameters()
		if err != nil {
			return nil, err
		}
		fn.Params = params
	}
	if _, err := p.need(ARROW, `"=>"`); err != nil {
		return nil, err
	}
	if p.peek().Type == LBRACE {
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		fn.Body = body
		return fn, nil
	}
	body, err := p.assignment()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}
