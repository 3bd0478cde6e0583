package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akashmaji946/cmini/internal/ast"
	"github.com/akashmaji946/cmini/internal/token"
)

// parseExpr is a test helper that parses src as a standalone,
// non-parenthesised expression.
func parseExpr(t *testing.T, src string) *ast.Expr {
	t.Helper()
	p := New(src)
	e, err := p.parseExpression(false)
	assert.NoError(t, err)
	return e
}

func TestParser_Precedence_LeftAssociativeSamePrecedence(t *testing.T) {
	// 1-2-3 => (1-2)-3
	root := parseExpr(t, "1-2-3")
	assert.Equal(t, token.Kind('-'), root.Token.Kind)
	assert.Equal(t, "3", root.Right.Token.Text)
	assert.Equal(t, token.Kind('-'), root.Left.Token.Kind)
	assert.Equal(t, "1", root.Left.Left.Token.Text)
	assert.Equal(t, "2", root.Left.Right.Token.Text)
}

func TestParser_Precedence_HigherOpBindsTighterOnRight(t *testing.T) {
	// 1-2*3 => 1-(2*3)
	root := parseExpr(t, "1-2*3")
	assert.Equal(t, token.Kind('-'), root.Token.Kind)
	assert.Equal(t, "1", root.Left.Token.Text)
	assert.Equal(t, token.Kind('*'), root.Right.Token.Kind)
	assert.Equal(t, "2", root.Right.Left.Token.Text)
	assert.Equal(t, "3", root.Right.Right.Token.Text)
}

func TestParser_Precedence_HigherOpBindsTighterOnLeft(t *testing.T) {
	// 1*2-3 => (1*2)-3
	root := parseExpr(t, "1*2-3")
	assert.Equal(t, token.Kind('-'), root.Token.Kind)
	assert.Equal(t, "3", root.Right.Token.Text)
	assert.Equal(t, token.Kind('*'), root.Left.Token.Kind)
	assert.Equal(t, "1", root.Left.Left.Token.Text)
	assert.Equal(t, "2", root.Left.Right.Token.Text)
}

func TestParser_Precedence_ConsecutiveUnaryRightNests(t *testing.T) {
	// !!x => !( !(x) )
	root := parseExpr(t, "!!x")
	assert.Equal(t, token.Kind('!'), root.Token.Kind)
	assert.Nil(t, root.Left)
	assert.True(t, root.IsUnary())

	inner := root.Right
	assert.Equal(t, token.Kind('!'), inner.Token.Kind)
	assert.Nil(t, inner.Left)
	assert.True(t, inner.IsUnary())

	assert.Equal(t, "x", inner.Right.Token.Text)
}

func TestParser_Precedence_NegatedParenthesisedNegation(t *testing.T) {
	// -(-x) => -( (-(x)) )
	root := parseExpr(t, "-(-x)")
	assert.Equal(t, token.Kind('-'), root.Token.Kind)
	assert.Nil(t, root.Left)

	paren := root.Right
	assert.Equal(t, token.Kind('('), paren.Token.Kind)
	assert.Nil(t, paren.Right)

	negX := paren.Left
	assert.Equal(t, token.Kind('-'), negX.Token.Kind)
	assert.Nil(t, negX.Left)
	assert.Equal(t, "x", negX.Right.Token.Text)
}

func TestParser_Call_ZeroArguments(t *testing.T) {
	root := parseExpr(t, "f()")
	assert.Equal(t, token.IDENTIFIER, root.Token.Kind)
	assert.NotNil(t, root.Call)
	assert.Equal(t, "f", root.Call.Ident.Text)
	assert.Empty(t, root.Call.Args)
}

func TestParser_Call_MultipleArguments(t *testing.T) {
	root := parseExpr(t, "f(1, x, 2+3)")
	assert.Equal(t, "f", root.Call.Ident.Text)
	assert.Len(t, root.Call.Args, 3)
	assert.Equal(t, "1", root.Call.Args[0].Token.Text)
	assert.Equal(t, "x", root.Call.Args[1].Token.Text)
	assert.Equal(t, token.Kind('+'), root.Call.Args[2].Token.Kind)
}

func TestParser_ParseProgram_SimpleFunction(t *testing.T) {
	prog, err := Parse(`int main(void) { return 0; }`)
	assert.NoError(t, err)
	assert.Len(t, prog.Functions, 1)

	fn := prog.Functions[0]
	assert.Equal(t, "main", fn.Ident.Text)
	assert.True(t, fn.Type.IsInt())
	assert.Empty(t, fn.Params)
	assert.Len(t, fn.Body, 1)
	assert.Equal(t, ast.StmtReturn, fn.Body[0].Kind)
	assert.Equal(t, "0", fn.Body[0].Return.Expr.Token.Text)
}

func TestParser_ParseProgram_DeclarationsThenStatements(t *testing.T) {
	prog, err := Parse(`int main(void) { int x = 2 + 3 * 4; return x; }`)
	assert.NoError(t, err)

	fn := prog.Functions[0]
	assert.Len(t, fn.Body, 2)
	assert.Equal(t, ast.StmtDecl, fn.Body[0].Kind)

	expr := fn.Body[0].Decl.Expr
	assert.Equal(t, token.Kind('+'), expr.Token.Kind)
	assert.Equal(t, token.Kind('*'), expr.Right.Token.Kind)

	assert.Equal(t, ast.StmtReturn, fn.Body[1].Kind)
}

func TestParser_Redeclaration_DuplicateParams(t *testing.T) {
	_, err := Parse(`int f(int x, int x) { return 0; }`)
	assert.Error(t, err)
}

func TestParser_Redeclaration_ParamShadowedByLocal(t *testing.T) {
	_, err := Parse(`int f(int x) { int x; return 0; }`)
	assert.Error(t, err)
}

func TestParser_Redeclaration_DuplicateFunctionNames(t *testing.T) {
	_, err := Parse(`int f(void) { return 0; } int f(void) { return 1; }`)
	assert.Error(t, err)
}

func TestParser_TrailingUnreachableCodeIsAccepted(t *testing.T) {
	_, err := Parse(`int main(void) { return 1; return 2; }`)
	assert.NoError(t, err)
}

func TestParser_DeclarationAfterStatementIsRejected(t *testing.T) {
	_, err := Parse(`int main(void) { return 0; int x; }`)
	assert.Error(t, err)
}

func TestParser_CallStatement(t *testing.T) {
	prog, err := Parse(`int f(void){ return 0; } int main(void) { f(); return 0; }`)
	assert.NoError(t, err)
	main := prog.Functions[1]
	assert.Equal(t, ast.StmtExpr, main.Body[0].Kind)
	assert.Equal(t, "f", main.Body[0].Expr.Token.Text)
}
