package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akashmaji946/cmini/internal/token"
)

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	l := New(src)
	var out []token.Kind
	for {
		tok := l.Peek(0)
		out = append(out, tok.Kind)
		if tok.Kind == token.EOF {
			return out
		}
		l.Eat()
	}
}

func TestLexer_KeywordsAndIdentifiers(t *testing.T) {
	got := kinds(t, "int x return foo")
	assert.Equal(t, []token.Kind{
		token.KeywordInt, token.IDENTIFIER, token.KeywordReturn, token.IDENTIFIER, token.EOF,
	}, got)
}

func TestLexer_Literals(t *testing.T) {
	l := New(`42 3.14 "hi"`)

	tok := l.Peek(0)
	assert.Equal(t, token.LiteralInt, tok.Kind)
	assert.Equal(t, "42", tok.Text)
	l.Eat()

	tok = l.Peek(0)
	assert.Equal(t, token.LiteralDouble, tok.Kind)
	assert.Equal(t, "3.14", tok.Text)
	l.Eat()

	tok = l.Peek(0)
	assert.Equal(t, token.LiteralString, tok.Kind)
	assert.Equal(t, `"hi"`, tok.Text)
	l.Eat()

	assert.Equal(t, token.EOF, l.Peek(0).Kind)
}

func TestLexer_UnclosedString(t *testing.T) {
	l := New(`"unterminated`)
	assert.Equal(t, token.UnclosedString, l.Peek(0).Kind)
}

func TestLexer_UnclosedBlockComment(t *testing.T) {
	l := New("/* never closes")
	assert.Equal(t, token.UnclosedComment, l.Peek(0).Kind)
}

func TestLexer_TwoCharOperatorsBeforeSingleChar(t *testing.T) {
	got := kinds(t, "== <= >= != && || ++ --")
	assert.Equal(t, []token.Kind{
		token.EqEq, token.Le, token.Ge, token.Ne, token.AndAnd, token.OrOr,
		token.PlusPlus, token.MinusMinus, token.EOF,
	}, got)
}

func TestLexer_SingleCharFallback(t *testing.T) {
	got := kinds(t, "= < > ! & |")
	assert.Equal(t, []token.Kind{
		token.Kind('='), token.Kind('<'), token.Kind('>'), token.Kind('!'),
		token.Kind('&'), token.Kind('|'), token.EOF,
	}, got)
}

func TestLexer_CommentsAndWhitespaceAreSkipped(t *testing.T) {
	got := kinds(t, "int // a trailing comment\n x /* block\nspanning lines */ y")
	assert.Equal(t, []token.Kind{
		token.KeywordInt, token.IDENTIFIER, token.IDENTIFIER, token.EOF,
	}, got)
}

func TestLexer_LineAndColumnTracking(t *testing.T) {
	l := New("int\n  x")

	first := l.Peek(0)
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, 1, first.Col0)
	assert.Equal(t, 3, first.Col1)
	l.Eat()

	second := l.Peek(0)
	assert.Equal(t, 2, second.Line)
	assert.Equal(t, 3, second.Col0)
}

func TestLexer_PeekDoesNotConsume(t *testing.T) {
	l := New("a b")

	first := l.Peek(0)
	assert.Equal(t, "a", first.Text)

	// Repeated Peek(0) before Eat must return the same token.
	again := l.Peek(0)
	assert.Same(t, first, again)

	second := l.Peek(1)
	assert.Equal(t, "b", second.Text)

	l.Eat()
	assert.Same(t, second, l.Peek(0))
}

func TestLexer_EOFIsStableAfterEnd(t *testing.T) {
	l := New("x")
	l.Peek(0)
	l.Eat()
	assert.Equal(t, token.EOF, l.Peek(0).Kind)
	assert.Equal(t, token.EOF, l.Peek(0).Kind)
}

func TestLexer_ErrorByteProducesErrorKind(t *testing.T) {
	l := New("@")
	assert.Equal(t, token.ERROR, l.Peek(0).Kind)
}
