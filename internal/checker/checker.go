/*
File    : cmini/internal/checker/checker.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package checker walks a parsed ast.Program and verifies identifier
// resolution, the four recognised type shapes, integer literal range,
// definite assignment, and definite return. Check is the single entry
// point; every internal helper returns a *diag.Diagnostic (as error)
// and the walk aborts at the first one, matching the front end's
// fail-fast propagation contract.
package checker

import (
	"github.com/akashmaji946/cmini/internal/ast"
	"github.com/akashmaji946/cmini/internal/diag"
	"github.com/akashmaji946/cmini/internal/token"
)

// identInfo is the result of resolving an identifier: its type and,
// when it names a function rather than a parameter or local, the
// function declaration itself (needed to check a call's arguments).
type identInfo struct {
	typ *ast.Type
	fn  *ast.Function
}

// Check verifies every function in prog.
func Check(prog *ast.Program) error {
	for _, fn := range prog.Functions {
		if err := checkFunction(fn, prog); err != nil {
			return err
		}
	}
	return nil
}

// lookupIdent resolves ident against fn's declaration prefix, then its
// parameters, then the program's global function table — the order
// fixed by the data model.
func lookupIdent(ident token.Token, fn *ast.Function, prog *ast.Program) (identInfo, error) {
	if fn != nil {
		for _, s := range fn.Body {
			if s.Kind != ast.StmtDecl {
				break
			}
			if s.Decl.Ident.Text == ident.Text {
				return identInfo{typ: s.Decl.Type}, nil
			}
		}
		for _, pm := range fn.Params {
			if pm.Ident.Text == ident.Text {
				return identInfo{typ: pm.Type}, nil
			}
		}
	}
	for _, f := range prog.Functions {
		if f.Ident.Text == ident.Text {
			return identInfo{typ: f.Type, fn: f}, nil
		}
	}
	return identInfo{}, diag.At(ident, "identifier is not defined")
}

// checkCall zips a call's arguments against the resolved function's
// parameters. Representing both sides as plain slices (REDESIGN FLAG 3)
// turns the original's "empty argument sentinel" special case into an
// ordinary length comparison.
func checkCall(call *ast.Call, info identInfo, fn *ast.Function, prog *ast.Program) error {
	if info.fn == nil {
		return diag.At(call.Ident, "identifier is not a function")
	}
	params := info.fn.Params
	if len(call.Args) != len(params) {
		if len(call.Args) > len(params) {
			return diag.At(call.Ident, "more arguments than parameters")
		}
		return diag.At(call.Ident, "more parameters than arguments")
	}
	for i, arg := range call.Args {
		if err := checkExpr(arg, params[i].Type, fn, prog); err != nil {
			return err
		}
	}
	return nil
}

// checkIntLiteralWithinLimits compares the literal's digit string,
// leading zeros stripped, against "2147483647" or "2147483648" (the
// latter only valid when an odd number of enclosing '-' make it
// negative) by length then lexicographic order.
func checkIntLiteralWithinLimits(tok token.Token, unaryIsNegative bool) error {
	const maxPositive = "2147483647"
	const maxNegative = "2147483648"

	cmp := maxPositive
	if unaryIsNegative {
		cmp = maxNegative
	}

	digits := tok.Text
	for len(digits) > 1 && digits[0] == '0' {
		digits = digits[1:]
	}

	switch {
	case len(digits) > len(cmp):
		return diag.At(tok, "int literal too large")
	case len(digits) < len(cmp):
		return nil
	case digits > cmp:
		return diag.At(tok, "int literal too large")
	}
	return nil
}

// checkDoubleLiteralWithinLimits exists for symmetry with the int
// check; double literal range is not enforced (§4.4).
func checkDoubleLiteralWithinLimits(token.Token) error { return nil }

// checkExprInt verifies e as an int-context expression. unaryIsNegative
// tracks the parity of enclosing '-' prefixes so integer-literal range
// checking can pick the right bound.
//
// A node is classified unary by e.IsUnary() (Left == nil), the rule
// spec.md's data model states directly, rather than a deeper walk down
// a child chain — simpler, and it sidesteps a latent ambiguity in the
// original where a binary '+'/'-' node whose *left* subtree happens to
// bottom out at a unary chain could be misread as unary itself. No
// testable property in this spec exercises that shape, so there is
// nothing forcing a riskier, more literal translation.
func checkExprInt(e *ast.Expr, unaryIsNegative bool, fn *ast.Function, prog *ast.Program) error {
	if e.IsUnary() {
		switch e.Token.Kind {
		case token.Kind('+'):
			return checkExprInt(e.Right, unaryIsNegative, fn, prog)
		case token.Kind('-'):
			return checkExprInt(e.Right, !unaryIsNegative, fn, prog)
		case token.Kind('!'):
			return diag.At(e.Token, "invalid unary operator '!' in int expression")
		}
	}

	switch e.Token.Kind {
	case token.Kind('+'), token.Kind('-'), token.Kind('*'), token.Kind('/'), token.Kind('%'):
		if err := checkExprInt(e.Left, false, fn, prog); err != nil {
			return err
		}
		return checkExprInt(e.Right, false, fn, prog)

	case token.IDENTIFIER:
		info, err := lookupIdent(e.Token, fn, prog)
		if err != nil {
			return err
		}
		if !info.typ.IsInt() {
			return diag.At(e.Token, "type is not int")
		}
		if e.Call != nil {
			return checkCall(e.Call, info, fn, prog)
		}
		return nil

	case token.LiteralInt:
		return checkIntLiteralWithinLimits(e.Token, unaryIsNegative)

	case token.Kind('('):
		return checkExprInt(e.Left, false, fn, prog)

	case token.LiteralDouble:
		return diag.At(e.Token, "cannot convert double to int")
	}

	return diag.At(e.Token, "not an int expression")
}

// checkExprDouble mirrors checkExprInt, additionally accepting double
// literals (and still accepting int literals, matching the source's
// implicit literal widening).
func checkExprDouble(e *ast.Expr, unaryIsNegative bool, fn *ast.Function, prog *ast.Program) error {
	if e.IsUnary() {
		switch e.Token.Kind {
		case token.Kind('+'):
			return checkExprDouble(e.Right, unaryIsNegative, fn, prog)
		case token.Kind('-'):
			return checkExprDouble(e.Right, !unaryIsNegative, fn, prog)
		case token.Kind('!'):
			return diag.At(e.Token, "invalid unary operator '!' in double expression")
		}
	}

	switch e.Token.Kind {
	case token.Kind('+'), token.Kind('-'), token.Kind('*'), token.Kind('/'), token.Kind('%'):
		if err := checkExprDouble(e.Left, false, fn, prog); err != nil {
			return err
		}
		return checkExprDouble(e.Right, false, fn, prog)

	case token.IDENTIFIER:
		info, err := lookupIdent(e.Token, fn, prog)
		if err != nil {
			return err
		}
		if !info.typ.IsDouble() {
			return diag.At(e.Token, "is not type double")
		}
		if e.Call != nil {
			return checkCall(e.Call, info, fn, prog)
		}
		return nil

	case token.LiteralInt:
		return checkIntLiteralWithinLimits(e.Token, unaryIsNegative)

	case token.LiteralDouble:
		return checkDoubleLiteralWithinLimits(e.Token)

	case token.Kind('('):
		return checkExprDouble(e.Left, false, fn, prog)
	}

	return diag.At(e.Token, "not a double expression")
}

// checkExprBool verifies e as a condition. Per Open Question 3, an
// identifier or call result is accepted once it resolves — its
// resolved type is not required to be boolean or numeric.
func checkExprBool(e *ast.Expr, fn *ast.Function, prog *ast.Program) error {
	if e.Token.Kind == token.Kind('!') && e.IsUnary() {
		return checkExprBool(e.Right, fn, prog)
	}

	switch e.Token.Kind {
	case token.AndAnd, token.OrOr:
		if err := checkExprBool(e.Left, fn, prog); err != nil {
			return err
		}
		return checkExprBool(e.Right, fn, prog)

	case token.EqEq, token.Ne, token.Le, token.Ge, token.Kind('>'), token.Kind('<'):
		if err := checkExprDouble(e.Left, false, fn, prog); err != nil {
			return err
		}
		return checkExprDouble(e.Right, false, fn, prog)

	case token.IDENTIFIER:
		info, err := lookupIdent(e.Token, fn, prog)
		if err != nil {
			return err
		}
		if e.Call != nil {
			return checkCall(e.Call, info, fn, prog)
		}
		return nil

	case token.Kind('('):
		return checkExprBool(e.Left, fn, prog)
	}

	return diag.At(e.Token, "not a bool expression")
}

// checkExprString accepts only a string literal or an identifier of
// type char* (the sole recognised string shape).
func checkExprString(e *ast.Expr, fn *ast.Function, prog *ast.Program) error {
	switch e.Token.Kind {
	case token.IDENTIFIER:
		info, err := lookupIdent(e.Token, fn, prog)
		if err != nil {
			return err
		}
		if !info.typ.IsString() {
			return diag.At(e.Token, "identifier is not of type string")
		}
		return nil
	case token.LiteralString:
		return nil
	}
	return diag.At(e.Token, "is not type string")
}

// checkExpr dispatches to the context matching typ, first stripping any
// enclosing parenthesis nodes.
func checkExpr(e *ast.Expr, typ *ast.Type, fn *ast.Function, prog *ast.Program) error {
	for e.Token.Kind == token.Kind('(') {
		e = e.Left
	}
	switch {
	case typ.IsInt():
		return checkExprInt(e, false, fn, prog)
	case typ.IsDouble():
		return checkExprDouble(e, false, fn, prog)
	case typ.IsString():
		return checkExprString(e, fn, prog)
	}
	return diag.At(e.Token, "expression is no type at all")
}

// findIdentUse returns the first Expr node referencing target within e
// (descending into call arguments as well as Left/Right children), or
// nil if target is not referenced anywhere in e.
func findIdentUse(target string, e *ast.Expr) *ast.Expr {
	if e == nil {
		return nil
	}
	if e.Call != nil {
		for _, arg := range e.Call.Args {
			if found := findIdentUse(target, arg); found != nil {
				return found
			}
		}
	} else if e.Token.Kind == token.IDENTIFIER && e.Token.Text == target {
		return e
	}
	if found := findIdentUse(target, e.Left); found != nil {
		return found
	}
	return findIdentUse(target, e.Right)
}

func errNotInitialized(bad *ast.Expr) error {
	return diag.At(bad.Token, "identifier is not initialized")
}

// walkAssignment proves that target is assigned before any use across
// stmts, returning whether it ends the sequence definitely assigned.
// Reaching the end of stmts without ever assigning target is not an
// error by itself — only an actual use before assignment is.
//
// Three points intentionally depart from a literal translation of the
// source's check_ident_is_initialized_when_used_in_statement:
//
//  1. An if's else branch is walked on its own (Open Question 4 — the
//     source re-walks the then branch by an apparent typo).
//  2. A while body is walked only for illegal uses; any assignment
//     inside it is never considered to reach past the loop (§4.5 —
//     literally sharing one mutable "initialized" flag into the loop
//     body, as the source does, would let a single iteration's
//     assignment satisfy the loop's own non-executing case, failing
//     the explicit testable property "int x; while (c) { x = 1; }
//     print(x);" must be rejected).
//  3. Each branch of an if is walked independently and the two results
//     are combined with a plain boolean AND, instead of threading one
//     shared mutable flag through both — the only way to make "both
//     branches must initialise" hold once point 1 is fixed, since a
//     single shared flag set true by either branch can't later be
//     unset by the other.
func walkAssignment(target string, stmts []*ast.Stmt) (bool, error) {
	for _, s := range stmts {
		switch s.Kind {
		case ast.StmtDecl:
			if s.Decl.Expr != nil {
				if bad := findIdentUse(target, s.Decl.Expr); bad != nil {
					return false, errNotInitialized(bad)
				}
			}

		case ast.StmtAssign:
			if bad := findIdentUse(target, s.Assign.Expr); bad != nil {
				return false, errNotInitialized(bad)
			}
			if s.Assign.Ident.Text == target {
				return true, nil
			}

		case ast.StmtIf:
			if bad := findIdentUse(target, s.If.Expr); bad != nil {
				return false, errNotInitialized(bad)
			}
			thenInitted, err := walkAssignment(target, []*ast.Stmt{s.If.Then})
			if err != nil {
				return false, err
			}
			elseInitted := false
			if s.If.Else != nil {
				elseInitted, err = walkAssignment(target, []*ast.Stmt{s.If.Else})
				if err != nil {
					return false, err
				}
			}
			if thenInitted && elseInitted {
				return true, nil
			}

		case ast.StmtWhile:
			if bad := findIdentUse(target, s.While.Expr); bad != nil {
				return false, errNotInitialized(bad)
			}
			if _, err := walkAssignment(target, []*ast.Stmt{s.While.Body}); err != nil {
				return false, err
			}

		case ast.StmtBlock:
			initted, err := walkAssignment(target, s.Block.Stmts)
			if err != nil {
				return false, err
			}
			if initted {
				return true, nil
			}

		case ast.StmtReturn:
			if s.Return.Expr != nil {
				if bad := findIdentUse(target, s.Return.Expr); bad != nil {
					return false, errNotInitialized(bad)
				}
			}
			return false, nil

		case ast.StmtExpr:
			if s.Expr.Call != nil {
				for _, arg := range s.Expr.Call.Args {
					if bad := findIdentUse(target, arg); bad != nil {
						return false, errNotInitialized(bad)
					}
				}
			}
		}
	}
	return false, nil
}

// stmtDefinitelyReturns implements §4.5's definite-return rule for a
// single statement.
func stmtDefinitelyReturns(s *ast.Stmt) bool {
	switch s.Kind {
	case ast.StmtReturn:
		return true
	case ast.StmtBlock:
		return bodyDefinitelyReturns(s.Block.Stmts)
	case ast.StmtIf:
		if s.If.Else == nil {
			return false
		}
		return stmtDefinitelyReturns(s.If.Then) && stmtDefinitelyReturns(s.If.Else)
	default:
		return false
	}
}

func bodyDefinitelyReturns(stmts []*ast.Stmt) bool {
	for _, s := range stmts {
		if stmtDefinitelyReturns(s) {
			return true
		}
	}
	return false
}

// checkStatement type-checks a single statement. Declarations without
// an initialiser are not checked here — their forward definite-
// assignment walk runs once per declaration from checkFunction, which
// has the surrounding index into the body that walkAssignment needs.
func checkStatement(s *ast.Stmt, fn *ast.Function, prog *ast.Program) error {
	switch s.Kind {
	case ast.StmtDecl:
		decl := s.Decl
		if decl.Expr == nil {
			return nil
		}
		if err := checkExpr(decl.Expr, decl.Type, fn, prog); err != nil {
			return err
		}
		if bad := findIdentUse(decl.Ident.Text, decl.Expr); bad != nil {
			return errNotInitialized(bad)
		}
		return nil

	case ast.StmtAssign:
		info, err := lookupIdent(s.Assign.Ident, fn, prog)
		if err != nil {
			return err
		}
		return checkExpr(s.Assign.Expr, info.typ, fn, prog)

	case ast.StmtIf:
		if err := checkExprBool(s.If.Expr, fn, prog); err != nil {
			return err
		}
		if err := checkStatement(s.If.Then, fn, prog); err != nil {
			return err
		}
		if s.If.Else != nil {
			return checkStatement(s.If.Else, fn, prog)
		}
		return nil

	case ast.StmtWhile:
		if err := checkExprBool(s.While.Expr, fn, prog); err != nil {
			return err
		}
		return checkStatement(s.While.Body, fn, prog)

	case ast.StmtBlock:
		for _, sub := range s.Block.Stmts {
			if err := checkStatement(sub, fn, prog); err != nil {
				return err
			}
		}
		return nil

	case ast.StmtReturn:
		if fn.Type.IsVoid() {
			if s.Return.Expr != nil {
				return diag.At(fn.Ident, "function type is void but return statement has expression")
			}
			return nil
		}
		if s.Return.Expr == nil {
			return diag.At(fn.Ident, "function type is not void but return has no expression")
		}
		return checkExpr(s.Return.Expr, fn.Type, fn, prog)

	case ast.StmtExpr:
		call := s.Expr.Call
		info, err := lookupIdent(call.Ident, fn, prog)
		if err != nil {
			return err
		}
		return checkCall(call, info, fn, prog)
	}
	return nil
}

// checkFunction type-checks every statement, proves definite assignment
// for each uninitialised declaration against the rest of the body, and
// — for a non-void function — proves definite return.
func checkFunction(fn *ast.Function, prog *ast.Program) error {
	for i, s := range fn.Body {
		if err := checkStatement(s, fn, prog); err != nil {
			return err
		}
		if s.Kind == ast.StmtDecl && s.Decl.Expr == nil {
			if _, err := walkAssignment(s.Decl.Ident.Text, fn.Body[i+1:]); err != nil {
				return err
			}
		}
	}

	if !fn.Type.IsVoid() && !bodyDefinitelyReturns(fn.Body) {
		return diag.At(fn.Ident, "function does not definitely have return")
	}

	return nil
}
