package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akashmaji946/cmini/internal/parser"
)

// checkSrc parses src (expected to parse cleanly) and runs Check over
// the result, returning Check's verdict.
func checkSrc(t *testing.T, src string) error {
	t.Helper()
	prog, err := parser.Parse(src)
	assert.NoError(t, err)
	return Check(prog)
}

func TestChecker_LiteralBounds_MaxPositiveAccepted(t *testing.T) {
	assert.NoError(t, checkSrc(t, `int f(void) { int x = 2147483647; return x; }`))
}

func TestChecker_LiteralBounds_OnePastMaxPositiveRejected(t *testing.T) {
	assert.Error(t, checkSrc(t, `int f(void) { int x = 2147483648; return x; }`))
}

func TestChecker_LiteralBounds_MaxNegativeAccepted(t *testing.T) {
	assert.NoError(t, checkSrc(t, `int f(void) { int x = -2147483648; return x; }`))
}

func TestChecker_LiteralBounds_OnePastMaxNegativeRejected(t *testing.T) {
	assert.Error(t, checkSrc(t, `int f(void) { int x = -2147483649; return x; }`))
}

func TestChecker_LiteralBounds_LeadingZerosStripped(t *testing.T) {
	assert.NoError(t, checkSrc(t, `int f(void) { int x = 002147483647; return x; }`))
}

func TestChecker_TypeStrictness_DoubleLiteralInIntContextRejected(t *testing.T) {
	assert.Error(t, checkSrc(t, `int f(void) { int x = 1.0; return x; }`))
}

func TestChecker_TypeStrictness_IntLiteralInDoubleContextAccepted(t *testing.T) {
	assert.NoError(t, checkSrc(t, `double f(void) { double x = 1; return x; }`))
}

func TestChecker_TypeStrictness_NotOperatorRejectedInIntContext(t *testing.T) {
	assert.Error(t, checkSrc(t, `int f(void) { int x = !1; return x; }`))
}

func TestChecker_DefiniteAssignment_AssignThenUsePasses(t *testing.T) {
	assert.NoError(t, checkSrc(t, `int print(int x) { return x; } int f(void) { int x; x = 1; return print(x); }`))
}

func TestChecker_DefiniteAssignment_UseBeforeAssignFails(t *testing.T) {
	assert.Error(t, checkSrc(t, `int print(int x) { return x; } int f(void) { int x; return print(x); }`))
}

func TestChecker_DefiniteAssignment_BothIfBranchesInitialisePasses(t *testing.T) {
	assert.NoError(t, checkSrc(t, `
		int print(int x) { return x; }
		int f(int c) {
			int x;
			if (c) { x = 1; } else { x = 2; }
			return print(x);
		}`))
}

func TestChecker_DefiniteAssignment_OneIfBranchMissingFails(t *testing.T) {
	assert.Error(t, checkSrc(t, `
		int print(int x) { return x; }
		int f(int c) {
			int x;
			if (c) { x = 1; }
			return print(x);
		}`))
}

func TestChecker_DefiniteAssignment_WhileBodyNotPromoted(t *testing.T) {
	assert.Error(t, checkSrc(t, `
		int print(int x) { return x; }
		int f(int c) {
			int x;
			while (c) { x = 1; }
			return print(x);
		}`))
}

func TestChecker_DefiniteAssignment_SelfReferenceInInitialiserRejected(t *testing.T) {
	assert.Error(t, checkSrc(t, `int f(void) { int x = x + 1; return x; }`))
}

func TestChecker_DefiniteReturn_BothBranchesReturnPasses(t *testing.T) {
	assert.NoError(t, checkSrc(t, `int f(int c) { if (c) return 1; else return 2; }`))
}

func TestChecker_DefiniteReturn_MissingElseFails(t *testing.T) {
	assert.Error(t, checkSrc(t, `int f(int c) { if (c) return 1; }`))
}

func TestChecker_DefiniteReturn_VoidFunctionNeedsNoReturn(t *testing.T) {
	assert.NoError(t, checkSrc(t, `void g(void) {}`))
}

func TestChecker_DefiniteReturn_WhileNeverSatisfiesIt(t *testing.T) {
	assert.Error(t, checkSrc(t, `int f(int c) { while (c) { return 1; } }`))
}

func TestChecker_CallArity_MismatchedArgumentCountFails(t *testing.T) {
	assert.Error(t, checkSrc(t, `int f(void) { return 0; } int main(void) { return f(1); }`))
}

func TestChecker_CallArity_VoidParamsMatchesZeroArgs(t *testing.T) {
	assert.NoError(t, checkSrc(t, `int f(void) { return 0; } int main(void) { return f(); }`))
}

func TestChecker_CallCheck_FunctionWithoutDefiniteReturnFails(t *testing.T) {
	assert.Error(t, checkSrc(t, `int f(void) { } int main(void) { return f(); }`))
}

func TestChecker_UndefinedIdentifierFails(t *testing.T) {
	assert.Error(t, checkSrc(t, `int f(void) { return y; }`))
}

func TestChecker_StringContext_IdentifierOfCharPointerAccepted(t *testing.T) {
	assert.NoError(t, checkSrc(t, `char* f(char* s) { return s; }`))
}

func TestChecker_EndToEnd_SimpleMainPasses(t *testing.T) {
	assert.NoError(t, checkSrc(t, `int main(void) { return 0; }`))
}

func TestChecker_EndToEnd_UninitialisedReturnFails(t *testing.T) {
	assert.Error(t, checkSrc(t, `int main(void) { int x; return x; }`))
}

func TestChecker_EndToEnd_TrailingUnreachableReturnPasses(t *testing.T) {
	assert.NoError(t, checkSrc(t, `int main(void) { return 1; return 2; }`))
}

func TestChecker_EndToEnd_BoolConditionOverDoubleComparisonPasses(t *testing.T) {
	assert.NoError(t, checkSrc(t, `int main(void) { if (1 == 1) return 1; else return 0; }`))
}
