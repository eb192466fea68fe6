package linger

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Errors_Messages(t *testing.T) {
	assert.Equal(t, `unknown variable "x"`, errUnknownVariable("x").Error())
	assert.Equal(t, `bad argument "true"`, errBadArg(BoolVal(true)).Error())
	assert.Equal(t, `bad args: [1, a]`, errBadArgs(NumVal(1), StrVal("a")).Error())
	assert.Equal(t, `procedure "f" expected 2 args, instead got 3`, errArgMismatch("f", 2, 3).Error())
	assert.Equal(t, `cannot assign to "c" because it is a constant`, errReassignConstant("c").Error())
	assert.Equal(t, `cannot assign to top-level procedure "main"`, errReassignTopLevelProc("main").Error())
	assert.Equal(t, `index 7 is out of bounds`, errIndexOutOfBounds(7).Error())
}

func Test_Errors_BadArgsFormatsValues(t *testing.T) {
	// Operand rendering goes through the display formatter, so lists and
	// procedures read the same way they print.
	err := errBadArgs(ListVal([]Value{NumVal(1), NumVal(2)}), Nil)
	assert.Equal(t, `bad args: [[1, 2], nil]`, err.Error())
}

func Test_Errors_WrapLexError(t *testing.T) {
	src := "let x = 1;\nlet $ = 2;\nx;"
	_, err := Tokenize(src)
	require.Error(t, err)

	wrapped := WrapErrorWithSource(err, src)
	out := wrapped.Error()
	assert.Contains(t, out, "LEXICAL ERROR at 2:5:")
	assert.Contains(t, out, "   2 | let $ = 2;")
	assert.Contains(t, out, "|     ^")
	// Context lines around the failure.
	assert.Contains(t, out, "   1 | let x = 1;")
	assert.Contains(t, out, "   3 | x;")
}

func Test_Errors_WrapParseError(t *testing.T) {
	src := "proc main() {\n\tlet x = ;\n}"
	toks, err := Tokenize(src)
	require.NoError(t, err)
	_, err = ParseProgram(toks)
	require.Error(t, err)

	wrapped := WrapErrorWithSource(err, src)
	assert.Contains(t, wrapped.Error(), "PARSE ERROR at 2:")
	assert.Contains(t, wrapped.Error(), "^")
}

func Test_Errors_WrapPositionlessParseError(t *testing.T) {
	err := WrapErrorWithSource(&ParseError{Code: ParseNoMain, Msg: "main procedure not found"}, "proc f() {}")
	assert.Equal(t, "PARSE ERROR: main procedure not found", err.Error())
}

func Test_Errors_WrapRuntimeError(t *testing.T) {
	err := WrapErrorWithSource(errUnknownVariable("y"), "y;")
	assert.Equal(t, `RUNTIME ERROR: unknown variable "y"`, err.Error())
}

func Test_Errors_WrapLeavesForeignErrorsAlone(t *testing.T) {
	sentinel := errors.New("disk on fire")
	assert.Same(t, sentinel, WrapErrorWithSource(sentinel, ""))
}

func Test_Errors_CaretColumnAlignment(t *testing.T) {
	src := "proc main() {\n    nope = ;\n}"
	toks, err := Tokenize(src)
	require.NoError(t, err)
	_, err = ParseProgram(toks)
	require.Error(t, err)

	out := WrapErrorWithSource(err, src).Error()
	// The caret line must place '^' under the offending column.
	var snippet, caret string
	for _, ln := range strings.Split(out, "\n") {
		if strings.HasPrefix(ln, "   2 | ") {
			snippet = ln
		}
		if strings.HasPrefix(ln, "     | ") {
			caret = ln
		}
	}
	require.NotEmpty(t, snippet)
	require.NotEmpty(t, caret)
	col := strings.Index(caret, "^")
	require.Greater(t, col, 0)
	assert.Equal(t, byte(';'), snippet[col], "caret must sit under the ';' token")
}
