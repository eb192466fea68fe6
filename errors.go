// errors.go — error types and user-facing caret-snippet rendering.
//
// Three error families cross the engine boundary, never recovered from
// internally: *LexError (scanner), *ParseError (parser) and *RuntimeError
// (interpreter). Each carries a machine-readable code so tests and embedders
// can match on the failure kind without string parsing; Error() produces the
// human-readable message.
//
// WrapErrorWithSource turns a lex/parse error into a multi-line snippet with
// a caret under the offending column:
//
//	PARSE ERROR at 3:12: unexpected token ")"
//
//	   2 | let x = (1 + 2
//	   3 |            );
//	     |            ^
//	   4 | }
//
// Runtime errors carry no source position and render with a plain header.
// Any other error is returned unchanged.
package linger

import (
	"fmt"
	"strings"
)

/* ---------- lex errors ---------- */

// LexError is a scanner failure at a 1-based source position.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string { return e.Msg }

/* ---------- parse errors ---------- */

// ParseErrorCode tags the grammar rule or structural check that failed.
type ParseErrorCode int

const (
	ParseUnexpectedToken ParseErrorCode = iota
	ParseUnexpectedEOF
	ParseExpected
	ParseNoMain
	ParseMultipleSameNamedProcs
	ParseKeywordAsVar
	ParseKeywordAsProc
	ParseKeywordAsParam
	ParseExpectedStatement
	ParseExpectedBlock
	ParseExpectedAssignment
	ParseExpectedAssignmentOrInitialization
)

// ParseError is a parser failure. Line/Col locate the offending token; both
// are zero for failures with no single position (NoMain, duplicate procs).
type ParseError struct {
	Code ParseErrorCode
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string { return e.Msg }

func errUnexpectedToken(tok Token) *ParseError {
	if tok.Type == EOF {
		return &ParseError{Code: ParseUnexpectedEOF, Line: tok.Line, Col: tok.Col, Msg: "unexpected end of file"}
	}
	return &ParseError{
		Code: ParseUnexpectedToken,
		Line: tok.Line,
		Col:  tok.Col,
		Msg:  fmt.Sprintf("unexpected token %q", tok.Lexeme),
	}
}

func errExpected(want TokenType, got Token) *ParseError {
	if got.Type == EOF {
		return &ParseError{Code: ParseUnexpectedEOF, Line: got.Line, Col: got.Col, Msg: "unexpected end of file"}
	}
	return &ParseError{
		Code: ParseExpected,
		Line: got.Line,
		Col:  got.Col,
		Msg:  fmt.Sprintf("expected token %q, instead got %q", want.String(), got.Lexeme),
	}
}

func errKeywordAs(code ParseErrorCode, what string, tok Token) *ParseError {
	return &ParseError{
		Code: code,
		Line: tok.Line,
		Col:  tok.Col,
		Msg:  fmt.Sprintf("keyword %q used as %s", tok.Lexeme, what),
	}
}

/* ---------- runtime errors ---------- */

// RuntimeErrorCode tags the evaluation failure kind.
type RuntimeErrorCode int

const (
	ErrUnknownVariable RuntimeErrorCode = iota
	ErrBadArg
	ErrBadArgs
	ErrArgMismatch
	ErrExpectedBool
	ErrExpectedInteger
	ErrExpectedList
	ErrBinaryAsUnary
	ErrUnaryAsBinary
	ErrBreakNotInLoop
	ErrContinueNotInLoop
	ErrInvalidAssignmentTarget
	ErrReassignConstant
	ErrReassignTopLevelProc
	ErrNotIndexable
	ErrIndexOutOfBounds
)

// RuntimeError is a fatal evaluation failure. The whole program run stops;
// there is no user-level recovery.
type RuntimeError struct {
	Code RuntimeErrorCode
	Msg  string
}

func (e *RuntimeError) Error() string { return e.Msg }

func rtError(code RuntimeErrorCode, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func errUnknownVariable(name string) *RuntimeError {
	return rtError(ErrUnknownVariable, "unknown variable %q", name)
}

func errBadArg(v Value) *RuntimeError {
	return rtError(ErrBadArg, "bad argument %q", FormatValue(v))
}

func errBadArgs(vs ...Value) *RuntimeError {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = FormatValue(v)
	}
	return rtError(ErrBadArgs, "bad args: [%s]", strings.Join(parts, ", "))
}

func errArgMismatch(name string, expected, actual int) *RuntimeError {
	return rtError(ErrArgMismatch, "procedure %q expected %d args, instead got %d", name, expected, actual)
}

func errExpectedBool(v Value) *RuntimeError {
	return rtError(ErrExpectedBool, "expected boolean value, instead got %s", FormatValue(v))
}

func errExpectedInteger(v Value) *RuntimeError {
	return rtError(ErrExpectedInteger, "expected an integer but got %q, which is not an integer", FormatValue(v))
}

func errExpectedList(v Value) *RuntimeError {
	return rtError(ErrExpectedList, "expected a list, instead got %s, which is not a list", FormatValue(v))
}

func errReassignConstant(name string) *RuntimeError {
	return rtError(ErrReassignConstant, "cannot assign to %q because it is a constant", name)
}

func errReassignTopLevelProc(name string) *RuntimeError {
	return rtError(ErrReassignTopLevelProc, "cannot assign to top-level procedure %q", name)
}

func errNotIndexable(v Value) *RuntimeError {
	return rtError(ErrNotIndexable, "%q is not indexable", FormatValue(v))
}

func errIndexOutOfBounds(index int64) *RuntimeError {
	return rtError(ErrIndexOutOfBounds, "index %d is out of bounds", index)
}

/* ---------- boundary rendering ---------- */

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes the three engine error types
// and leaves other errors untouched.
func WrapErrorWithSource(err error, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", prettyErrorString(src, "LEXICAL ERROR", e.Line, e.Col, e.Msg))
	case *ParseError:
		if e.Line == 0 {
			return fmt.Errorf("PARSE ERROR: %s", e.Msg)
		}
		return fmt.Errorf("%s", prettyErrorString(src, "PARSE ERROR", e.Line, e.Col, e.Msg))
	case *RuntimeError:
		return fmt.Errorf("RUNTIME ERROR: %s", e.Msg)
	default:
		return err
	}
}

// prettyErrorString builds a snippet with a header and a caret. It shows at
// most one previous and one next line. Coordinates are 1-based and clamped to
// the source bounds so rendering never panics on odd positions.
func prettyErrorString(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if line > len(lines) {
		line = len(lines)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
