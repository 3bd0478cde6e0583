/*
File    : cmini/internal/printer/printer.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package printer pretty-prints an AST as a two-space-indented tree.
// It is observability only — nothing downstream depends on its output
// — so it implements ast.Visitor the way the teacher's PrintingVisitor
// does: one Visit method per node shape, a bytes.Buffer, and an indent
// counter, rewired from go-mix's dynamic-value printing (there are no
// runtime values here, Non-goals) to this language's type/AST-shape
// printing.
package printer

import (
	"bytes"
	"fmt"

	"github.com/akashmaji946/cmini/internal/ast"
	"github.com/akashmaji946/cmini/internal/token"
)

const indentSize = 2

// Printer walks a Program and accumulates its textual rendering.
type Printer struct {
	indent int
	buf    bytes.Buffer
}

// Print renders prog's tree and returns it as a string.
func Print(prog *ast.Program) string {
	p := &Printer{}
	prog.Accept(p)
	return p.buf.String()
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteByte(' ')
	}
}

func (p *Printer) line(format string, args ...any) {
	p.writeIndent()
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

// VisitProgram implements ast.Visitor.
func (p *Printer) VisitProgram(prog *ast.Program) {
	p.line("program")
	p.indent += indentSize
	for _, fn := range prog.Functions {
		fn.Accept(p)
	}
	p.indent -= indentSize
}

// VisitFunction implements ast.Visitor.
func (p *Printer) VisitFunction(fn *ast.Function) {
	p.line("function %s %s", fn.Type.String(), fn.Ident.Text)
	p.indent += indentSize
	for _, param := range fn.Params {
		p.line("param %s %s", param.Type.String(), param.Ident.Text)
	}
	for _, s := range fn.Body {
		s.Accept(p)
	}
	p.indent -= indentSize
}

// VisitStmt implements ast.Visitor, dispatching on s.Kind since Stmt is
// a tagged variant rather than one Go type per grammar production.
func (p *Printer) VisitStmt(s *ast.Stmt) {
	switch s.Kind {
	case ast.StmtDecl:
		d := s.Decl
		p.line("declaration %s %s", d.Type.String(), d.Ident.Text)
		if d.Expr != nil {
			p.indent += indentSize
			d.Expr.Accept(p)
			p.indent -= indentSize
		}
	case ast.StmtAssign:
		a := s.Assign
		p.line("assignment %s", a.Ident.Text)
		p.indent += indentSize
		a.Expr.Accept(p)
		p.indent -= indentSize
	case ast.StmtIf:
		n := s.If
		p.line("if")
		p.indent += indentSize
		n.Expr.Accept(p)
		n.Then.Accept(p)
		if n.Else != nil {
			n.Else.Accept(p)
		}
		p.indent -= indentSize
	case ast.StmtWhile:
		n := s.While
		p.line("while")
		p.indent += indentSize
		n.Expr.Accept(p)
		n.Body.Accept(p)
		p.indent -= indentSize
	case ast.StmtBlock:
		p.line("block")
		p.indent += indentSize
		for _, inner := range s.Block.Stmts {
			inner.Accept(p)
		}
		p.indent -= indentSize
	case ast.StmtReturn:
		p.line("return")
		if s.Return.Expr != nil {
			p.indent += indentSize
			s.Return.Expr.Accept(p)
			p.indent -= indentSize
		}
	case ast.StmtExpr:
		p.line("expression")
		p.indent += indentSize
		s.Expr.Accept(p)
		p.indent -= indentSize
	default:
		p.line("unknown-statement")
	}
}

// VisitExpr implements ast.Visitor.
func (p *Printer) VisitExpr(e *ast.Expr) {
	switch {
	case e.Call != nil:
		p.line("call %s", e.Call.Ident.Text)
		p.indent += indentSize
		for _, arg := range e.Call.Args {
			arg.Accept(p)
		}
		p.indent -= indentSize
	case e.Token.Kind == token.Kind('('):
		p.line("(")
		p.indent += indentSize
		e.Left.Accept(p)
		p.indent -= indentSize
	case e.IsUnary():
		p.line("unary %s", e.Token.Kind.String())
		p.indent += indentSize
		e.Right.Accept(p)
		p.indent -= indentSize
	case e.IsLeaf():
		p.line("%s", leafLabel(e.Token))
	default:
		p.line("binary %s", e.Token.Kind.String())
		p.indent += indentSize
		e.Left.Accept(p)
		e.Right.Accept(p)
		p.indent -= indentSize
	}
}

func leafLabel(t token.Token) string {
	switch t.Kind {
	case token.IDENTIFIER:
		return "identifier " + t.Text
	case token.LiteralInt:
		return t.Text
	case token.LiteralDouble:
		return t.Text
	case token.LiteralString:
		return fmt.Sprintf("%q", t.Text)
	default:
		return t.Kind.String()
	}
}
