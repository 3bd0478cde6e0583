/*
File    : cmini/internal/parser/parser.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package parser implements a recursive-descent parser for statements
// and declarations, and a one-pass precedence-climbing algorithm with
// in-place root rewriting for expressions.
//
// A Parser is an explicit value wrapping its own lexer and two node
// arenas (REDESIGN FLAG 1 — no package-level g_parser). Expr and Stmt,
// the two recursively-shaped, high-volume node kinds, are allocated
// from arena.Arena so their lifetime matches "parser owns AST nodes";
// the smaller fixed-shape records hung off them (Type, Param, Decl,
// Call, Assign, If, While, Block, Return, Function) are ordinary Go
// composite literals — their allocation count is bounded by the
// program's declaration/parameter/function counts, not by expression
// depth, so arena-backing them would multiply the number of arena
// instantiations for no real benefit.
package parser

import (
	"github.com/akashmaji946/cmini/internal/arena"
	"github.com/akashmaji946/cmini/internal/ast"
	"github.com/akashmaji946/cmini/internal/diag"
	"github.com/akashmaji946/cmini/internal/lexer"
	"github.com/akashmaji946/cmini/internal/token"
)

// Parser holds the lexer it drives and the arenas backing the AST it
// builds. The zero value is not ready to use; construct with New.
type Parser struct {
	lex *lexer.Lexer

	exprArena arena.Arena[ast.Expr]
	stmtArena arena.Arena[ast.Stmt]
}

// New returns a Parser reading from src.
func New(src string) *Parser {
	return &Parser{lex: lexer.New(src)}
}

// Parse lexes and parses src in one call, the entry point used by the
// compiler driver.
func Parse(src string) (*ast.Program, error) {
	return New(src).ParseProgram()
}

func (p *Parser) newExpr(tok token.Token) (*ast.Expr, error) {
	e, err := p.exprArena.New()
	if err != nil {
		return nil, err
	}
	e.Token = tok
	return e, nil
}

func (p *Parser) newStmt(kind ast.StmtKind) (*ast.Stmt, error) {
	s, err := p.stmtArena.New()
	if err != nil {
		return nil, err
	}
	s.Kind = kind
	return s, nil
}

// ParseProgram parses a whole compilation unit: zero or more functions
// followed by end of input.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}

	for p.lex.Peek(0).Kind.IsTypeKeyword() {
		fn, err := p.parseFunction(prog.Functions)
		if err != nil {
			return nil, err
		}
		prog.Functions = append(prog.Functions, fn)
	}

	tok := p.lex.Peek(0)
	if tok.Kind != token.EOF {
		return nil, diag.At(*tok, "eof expected")
	}
	p.lex.Eat()

	return prog, nil
}

func (p *Parser) parseType() (*ast.Type, error) {
	tok := p.lex.Peek(0)
	if !tok.Kind.IsTypeKeyword() {
		return nil, diag.At(*tok, "type keyword expected")
	}
	root := &ast.Type{Token: *tok}
	p.lex.Eat()

	cur := root
	for {
		tok = p.lex.Peek(0)
		if tok.Kind != token.Kind('*') {
			break
		}
		cur.Next = &ast.Type{Token: *tok}
		cur = cur.Next
		p.lex.Eat()
	}
	return root, nil
}

// identAlreadyDefined mirrors ident_already_defined_in_function: a name
// clashes if it matches a parameter, or one of the declarations already
// parsed in the function's declaration prefix.
func identAlreadyDefined(name string, params []*ast.Param, decls []*ast.Stmt) bool {
	for _, pm := range params {
		if pm.Ident.Text == name {
			return true
		}
	}
	for _, s := range decls {
		if s.Kind != ast.StmtDecl {
			break
		}
		if s.Decl.Ident.Text == name {
			return true
		}
	}
	return false
}

func (p *Parser) parseCall(ident token.Token) (*ast.Call, error) {
	p.lex.Eat() // identifier
	p.lex.Eat() // '('

	tok := p.lex.Peek(0)
	if tok.Kind == token.Kind(')') {
		p.lex.Eat()
		return &ast.Call{Ident: ident}, nil
	}

	var args []*ast.Expr
	for {
		expr, err := p.parseExpression(false)
		if err != nil {
			return nil, err
		}
		args = append(args, expr)

		tok = p.lex.Peek(0)
		if tok.Kind != token.Kind(',') {
			break
		}
		p.lex.Eat()
	}

	if tok.Kind != token.Kind(')') {
		return nil, diag.At(*tok, "')' after last function-call argument expected")
	}
	p.lex.Eat()

	return &ast.Call{Ident: ident, Args: args}, nil
}

// isUnaryChain mirrors expression_is_unary: e is a pure prefix-operator
// chain if every node down its Left spine is +, -, or !.
func isUnaryChain(e *ast.Expr) bool {
	for e != nil {
		k := e.Token.Kind
		if k != token.Kind('+') && k != token.Kind('-') && k != token.Kind('!') {
			return false
		}
		e = e.Left
	}
	return true
}

// precedenceOf mirrors get_possible_operator_precedence. 0 means "not an
// operator at all" — the signal to stop accumulating the expression.
func precedenceOf(k token.Kind, isUnary bool) int {
	switch k {
	case token.OrOr:
		return 1
	case token.AndAnd:
		return 2
	case token.EqEq, token.Ne:
		return 3
	case token.Ge, token.Le, token.Kind('>'), token.Kind('<'):
		return 4
	case token.Kind('+'), token.Kind('-'), token.Kind('!'):
		if isUnary {
			return 7
		}
		return 5
	case token.Kind('*'), token.Kind('/'), token.Kind('%'):
		return 6
	default:
		return 0
	}
}

// parseExpression is the one-pass climb with root rewriting described
// in the grammar: curr tracks the insertion point, and when a new
// operator doesn't out-rank the previous one the tree is re-spliced by
// walking the right spine from the root.
//
// One deviation from a literal translation: a run of same-precedence
// unary prefix operators (e.g. "!!x") must right-nest, not left-fold —
// unary precedence is a constant (7), so two in a row are a precedence
// tie, and tie-breaking by "ascend" (correct for left-associative binary
// operators, which is its purpose) would splice the second prefix
// operator in as a new root with the first dangling off its Left with
// no child at all. Forcing every unary application to always descend,
// regardless of the tie, keeps prefix chains right-nested without
// touching the binary-operator tie-break that left-associativity
// depends on (unary precedence is strictly above every binary level, so
// the two cases never otherwise collide).
func (p *Parser) parseExpression(inParen bool) (*ast.Expr, error) {
	var root *ast.Expr
	curr := &root
	prevPrecedence := -1

	for {
		var operandExpr *ast.Expr
		var operator token.Token
		isUnary := false

		tok := p.lex.Peek(0)

		switch {
		case tok.Kind == token.Kind('+') || tok.Kind == token.Kind('-') || tok.Kind == token.Kind('!'):
			operator = *tok
			isUnary = true

		case tok.Kind == token.IDENTIFIER || tok.Kind.IsLiteral() || tok.Kind == token.Kind('('):
			e, err := p.newExpr(*tok)
			if err != nil {
				return nil, err
			}
			operandExpr = e

			switch {
			case tok.Kind == token.Kind('('):
				p.lex.Eat()
				inner, err := p.parseExpression(true)
				if err != nil {
					return nil, err
				}
				e.Left = inner
				p.lex.Eat() // matching ')'

			case tok.Kind == token.IDENTIFIER:
				tok1 := p.lex.Peek(1)
				if tok1.Kind == token.Kind('(') {
					call, err := p.parseCall(*tok)
					if err != nil {
						return nil, err
					}
					e.Call = call
				} else {
					p.lex.Eat()
				}

			default:
				p.lex.Eat()
			}

			operator = *p.lex.Peek(0)

		case inParen && tok.Kind == token.Kind(')'):
			return root, nil

		default:
			return nil, diag.At(*tok, "not an expression")
		}

		precedence := precedenceOf(operator.Kind, isUnary)
		if precedence == 0 {
			*curr = operandExpr
			return root, nil
		}
		p.lex.Eat() // the operator is viable; consume it

		if precedence > prevPrecedence || isUnary {
			node, err := p.newExpr(operator)
			if err != nil {
				return nil, err
			}
			node.Left = operandExpr
			*curr = node
			curr = &node.Right
			prevPrecedence = precedence
		} else {
			*curr = operandExpr

			curr = &root
			currPrecedence := precedenceOf((*curr).Token.Kind, isUnaryChain(*curr))
			for precedence > currPrecedence {
				curr = &(*curr).Right
				currPrecedence = precedenceOf((*curr).Token.Kind, isUnaryChain(*curr))
			}

			sub, err := p.newExpr(operator)
			if err != nil {
				return nil, err
			}
			sub.Left = *curr
			*curr = sub
			curr = &sub.Right
			prevPrecedence = precedence
		}
	}
}

func (p *Parser) parseAssignment() (*ast.Assign, error) {
	tok := p.lex.Peek(0)
	if tok.Kind != token.IDENTIFIER {
		return nil, diag.At(*tok, "identifier for assignment expected")
	}
	ident := *tok
	p.lex.Eat()

	tok = p.lex.Peek(0)
	if tok.Kind != token.Kind('=') {
		return nil, diag.At(*tok, "'=' for assignment expected")
	}
	p.lex.Eat()

	expr, err := p.parseExpression(false)
	if err != nil {
		return nil, err
	}

	tok = p.lex.Peek(0)
	if tok.Kind != token.Kind(';') {
		return nil, diag.At(*tok, "';' at the end of assignment expected")
	}
	p.lex.Eat()

	return &ast.Assign{Ident: ident, Expr: expr}, nil
}

func (p *Parser) parseWhile() (*ast.While, error) {
	tok := p.lex.Peek(0)
	if tok.Kind != token.KeywordWhile {
		return nil, diag.At(*tok, "while keyword expected")
	}
	p.lex.Eat()

	tok = p.lex.Peek(0)
	if tok.Kind != token.Kind('(') {
		return nil, diag.At(*tok, "'(' expected after while keyword")
	}
	p.lex.Eat()

	expr, err := p.parseExpression(false)
	if err != nil {
		return nil, err
	}

	tok = p.lex.Peek(0)
	if tok.Kind != token.Kind(')') {
		return nil, diag.At(*tok, "')' expected after while expression")
	}
	p.lex.Eat()

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	return &ast.While{Expr: expr, Body: body}, nil
}

func (p *Parser) parseIf() (*ast.If, error) {
	tok := p.lex.Peek(0)
	if tok.Kind != token.KeywordIf {
		return nil, diag.At(*tok, "if keyword expected")
	}
	p.lex.Eat()

	tok = p.lex.Peek(0)
	if tok.Kind != token.Kind('(') {
		return nil, diag.At(*tok, "'(' expected before if expression")
	}
	p.lex.Eat()

	expr, err := p.parseExpression(false)
	if err != nil {
		return nil, err
	}

	tok = p.lex.Peek(0)
	if tok.Kind != token.Kind(')') {
		return nil, diag.At(*tok, "')' expected after if expression")
	}
	p.lex.Eat()

	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	tok = p.lex.Peek(0)
	if tok.Kind != token.KeywordElse {
		return &ast.If{Expr: expr, Then: then}, nil
	}
	p.lex.Eat()

	els, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	return &ast.If{Expr: expr, Then: then, Else: els}, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	tok := p.lex.Peek(0)
	if tok.Kind != token.Kind('{') {
		return nil, diag.At(*tok, "'{' expected for beginning of block")
	}
	p.lex.Eat()

	stmts, err := p.parseStatements()
	if err != nil {
		return nil, err
	}

	tok = p.lex.Peek(0)
	if tok.Kind != token.Kind('}') {
		return nil, diag.At(*tok, "not a statement and not '}' for end of block")
	}
	p.lex.Eat()

	return &ast.Block{Stmts: stmts}, nil
}

func (p *Parser) parseReturn() (*ast.Return, error) {
	tok := p.lex.Peek(0)
	if tok.Kind != token.KeywordReturn {
		return nil, diag.At(*tok, "return keyword expected")
	}
	p.lex.Eat()

	tok = p.lex.Peek(0)
	if tok.Kind == token.Kind(';') {
		p.lex.Eat()
		return &ast.Return{}, nil
	}

	expr, err := p.parseExpression(false)
	if err != nil {
		return nil, err
	}

	tok = p.lex.Peek(0)
	if tok.Kind != token.Kind(';') {
		return nil, diag.At(*tok, "missing ';' at the end of return statement")
	}
	p.lex.Eat()

	return &ast.Return{Expr: expr}, nil
}

// startsStatement reports whether k can begin a statement, used by
// parseStatements to know when to stop (mirroring parse_statements'
// silent "else break").
func startsStatement(k token.Kind) bool {
	switch k {
	case token.Kind('{'), token.KeywordWhile, token.KeywordIf, token.KeywordReturn, token.IDENTIFIER:
		return true
	}
	return false
}

// parseStatement parses exactly one statement, erroring if the current
// token cannot begin one (used for if/while bodies, which the grammar
// requires to be present).
func (p *Parser) parseStatement() (*ast.Stmt, error) {
	tok := p.lex.Peek(0)

	switch {
	case tok.Kind == token.Kind('{'):
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		s, err := p.newStmt(ast.StmtBlock)
		if err != nil {
			return nil, err
		}
		s.Block = block
		return s, nil

	case tok.Kind == token.KeywordWhile:
		w, err := p.parseWhile()
		if err != nil {
			return nil, err
		}
		s, err := p.newStmt(ast.StmtWhile)
		if err != nil {
			return nil, err
		}
		s.While = w
		return s, nil

	case tok.Kind == token.KeywordIf:
		ifStmt, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		s, err := p.newStmt(ast.StmtIf)
		if err != nil {
			return nil, err
		}
		s.If = ifStmt
		return s, nil

	case tok.Kind == token.KeywordReturn:
		ret, err := p.parseReturn()
		if err != nil {
			return nil, err
		}
		s, err := p.newStmt(ast.StmtReturn)
		if err != nil {
			return nil, err
		}
		s.Return = ret
		return s, nil

	case tok.Kind == token.IDENTIFIER:
		tok1 := p.lex.Peek(1)
		switch tok1.Kind {
		case token.Kind('='):
			assign, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			s, err := p.newStmt(ast.StmtAssign)
			if err != nil {
				return nil, err
			}
			s.Assign = assign
			return s, nil

		case token.Kind('('):
			ident := *tok
			call, err := p.parseCall(ident)
			if err != nil {
				return nil, err
			}
			semi := p.lex.Peek(0)
			if semi.Kind != token.Kind(';') {
				return nil, diag.At(*semi, "';' expected after function call statement")
			}
			p.lex.Eat()

			s, err := p.newStmt(ast.StmtExpr)
			if err != nil {
				return nil, err
			}
			callExpr, err := p.newExpr(ident)
			if err != nil {
				return nil, err
			}
			callExpr.Call = call
			s.Expr = callExpr
			return s, nil

		default:
			return nil, diag.At(*tok1, "invalid statement after an identifier has been found")
		}

	default:
		return nil, diag.At(*tok, "not a statement")
	}
}

// parseStatements parses statements until the current token can't
// start one (used for block bodies and the non-declaration suffix of a
// function body).
func (p *Parser) parseStatements() ([]*ast.Stmt, error) {
	var stmts []*ast.Stmt
	for startsStatement(p.lex.Peek(0).Kind) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// parseDeclarations parses the contiguous declaration prefix of a
// function body (decl*), enforcing redeclaration against both params
// and the declarations parsed so far.
func (p *Parser) parseDeclarations(params []*ast.Param) ([]*ast.Stmt, error) {
	var decls []*ast.Stmt

	for p.lex.Peek(0).Kind.IsTypeKeyword() {
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}

		identTok := p.lex.Peek(0)
		if identTok.Kind != token.IDENTIFIER {
			return nil, diag.At(*identTok, "identifier expected for declaration")
		}
		if identAlreadyDefined(identTok.Text, params, decls) {
			return nil, diag.At(*identTok, "ident is already defined")
		}
		ident := *identTok
		p.lex.Eat()

		s, err := p.newStmt(ast.StmtDecl)
		if err != nil {
			return nil, err
		}
		decl := &ast.Decl{Type: typ, Ident: ident}
		s.Decl = decl

		tok := p.lex.Peek(0)
		if tok.Kind == token.Kind(';') {
			p.lex.Eat()
		} else {
			if tok.Kind != token.Kind('=') {
				return nil, diag.At(*tok, "'=' expected for declaration")
			}
			p.lex.Eat()

			expr, err := p.parseExpression(false)
			if err != nil {
				return nil, err
			}
			decl.Expr = expr

			tok = p.lex.Peek(0)
			if tok.Kind != token.Kind(';') {
				return nil, diag.At(*tok, "';' expected at the end of the declaration")
			}
			p.lex.Eat()
		}

		decls = append(decls, s)
	}

	return decls, nil
}

// parseFunctionParameters parses the comma-separated parameter list
// between a function's parentheses. An empty list (whether spelled
// "()" or "(void)") is represented simply as a nil slice — the "empty
// argument sentinel" the source uses is modelled as "ordinary container
// that may be empty" per the redesign guidance, applied consistently
// to parameter lists as well as call argument lists.
func (p *Parser) parseFunctionParameters() ([]*ast.Param, error) {
	tok := p.lex.Peek(0)
	if tok.Kind == token.Kind(')') {
		return nil, nil
	}
	if tok.Kind == token.KeywordVoid {
		if p.lex.Peek(1).Kind == token.Kind(')') {
			p.lex.Eat()
			return nil, nil
		}
	}

	var params []*ast.Param
	for {
		tok := p.lex.Peek(0)
		if !tok.Kind.IsTypeKeyword() {
			return nil, diag.At(*tok, "not a valid parameter type")
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}

		identTok := p.lex.Peek(0)
		if identTok.Kind != token.IDENTIFIER {
			return nil, diag.At(*identTok, "identifier expected after parameter type")
		}
		for _, existing := range params {
			if existing.Ident.Text == identTok.Text {
				return nil, diag.At(*identTok, "parameter is already defined")
			}
		}
		ident := *identTok
		p.lex.Eat()

		params = append(params, &ast.Param{Type: typ, Ident: ident})

		tok = p.lex.Peek(0)
		if tok.Kind != token.Kind(',') {
			break
		}
		p.lex.Eat()
	}
	return params, nil
}

func (p *Parser) parseFunction(existing []*ast.Function) (*ast.Function, error) {
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	identTok := p.lex.Peek(0)
	if identTok.Kind != token.IDENTIFIER {
		return nil, diag.At(*identTok, "identifier expected for function declaration")
	}
	for _, fn := range existing {
		if fn.Ident.Text == identTok.Text {
			return nil, diag.At(*identTok, "function identifier is already defined")
		}
	}
	ident := *identTok
	p.lex.Eat()

	tok := p.lex.Peek(0)
	if tok.Kind != token.Kind('(') {
		return nil, diag.At(*tok, "'(' expected for function declaration")
	}
	p.lex.Eat()

	params, err := p.parseFunctionParameters()
	if err != nil {
		return nil, err
	}

	tok = p.lex.Peek(0)
	if tok.Kind != token.Kind(')') {
		return nil, diag.At(*tok, "not a function parameter")
	}
	p.lex.Eat()

	tok = p.lex.Peek(0)
	if tok.Kind != token.Kind('{') {
		return nil, diag.At(*tok, "'{' expected for function declaration")
	}
	p.lex.Eat()

	fn := &ast.Function{Type: typ, Ident: ident, Params: params}

	decls, err := p.parseDeclarations(params)
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	fn.Body = append(decls, stmts...)

	tok = p.lex.Peek(0)
	if tok.Kind != token.Kind('}') {
		return nil, diag.At(*tok, "'}' expected for function declaration")
	}
	p.lex.Eat()

	return fn, nil
}
