package linger

import (
	"errors"
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

// runProg evaluates a full program and returns main's result plus everything
// print wrote.
func runProg(t *testing.T, src string) (Value, string) {
	t.Helper()
	var out strings.Builder
	ip := NewInterp(&out)
	v, err := ip.EvalSource(src)
	if err != nil {
		t.Fatalf("EvalSource error: %v\nsource:\n%s", err, src)
	}
	return v, out.String()
}

// evalMain wraps body in a main procedure and returns its result.
func evalMain(t *testing.T, body string) Value {
	t.Helper()
	v, _ := runProg(t, "proc main() {\n"+body+"\n}")
	return v
}

// wantRuntimeErr asserts evaluation fails with the given runtime error code.
func wantRuntimeErr(t *testing.T, src string, code RuntimeErrorCode) *RuntimeError {
	t.Helper()
	ip := NewInterp(&strings.Builder{})
	_, err := ip.EvalSource(src)
	if err == nil {
		t.Fatalf("want runtime error %v, got success\nsource:\n%s", code, src)
	}
	var rte *RuntimeError
	if !errors.As(err, &rte) {
		t.Fatalf("want *RuntimeError, got %T: %v", err, err)
	}
	if rte.Code != code {
		t.Fatalf("want error code %v, got %v (%v)", code, rte.Code, rte)
	}
	return rte
}

func wantNum(t *testing.T, v Value, f float64) {
	t.Helper()
	if v.Tag != VTNum || v.Num() != f {
		t.Fatalf("want num %g, got %#v", f, v)
	}
}

func wantBool(t *testing.T, v Value, b bool) {
	t.Helper()
	if v.Tag != VTBool || v.Bool() != b {
		t.Fatalf("want bool %v, got %#v", b, v)
	}
}

func wantStr(t *testing.T, v Value, s string) {
	t.Helper()
	if v.Tag != VTStr || v.Str() != s {
		t.Fatalf("want str %q, got %#v", s, v)
	}
}

func wantNil(t *testing.T, v Value) {
	t.Helper()
	if v.Tag != VTNil {
		t.Fatalf("want nil, got %#v", v)
	}
}

// --- expressions -----------------------------------------------------------

func Test_Interp_Precedence(t *testing.T) {
	wantNum(t, evalMain(t, "return 2 + 3 * 4;"), 14)
	wantNum(t, evalMain(t, "return (2 + 3) * 4;"), 20)
	wantNum(t, evalMain(t, "return 10 - 4 - 3;"), 3)
	wantNum(t, evalMain(t, "return 7 % 4;"), 3)
	wantNum(t, evalMain(t, "return -3 + 5;"), 2)
	wantBool(t, evalMain(t, "return 1 + 1 == 2;"), true)
	wantBool(t, evalMain(t, "return 1 < 2 && 2 <= 2;"), true)
}

func Test_Interp_StringConcat(t *testing.T) {
	wantStr(t, evalMain(t, `return "foo" + "bar";`), "foobar")
}

func Test_Interp_PlusMismatch(t *testing.T) {
	wantRuntimeErr(t, `proc main() { 1 + "x"; }`, ErrBadArg)
	wantRuntimeErr(t, `proc main() { true + 1; }`, ErrBadArg)
}

func Test_Interp_EqualityTypes(t *testing.T) {
	wantBool(t, evalMain(t, "return true != false;"), true)
	wantRuntimeErr(t, `proc main() { "a" == "a"; }`, ErrBadArgs)
	wantRuntimeErr(t, `proc main() { 1 == true; }`, ErrBadArgs)
}

func Test_Interp_ShortCircuit(t *testing.T) {
	_, out := runProg(t, `
proc noisy() {
	print("boom");
	return true;
}
proc main() {
	let a = false && noisy();
	let b = true || noisy();
	return a || b;
}`)
	if out != "" {
		t.Fatalf("short-circuit evaluated right operand, printed %q", out)
	}
}

func Test_Interp_LogicalNonBool(t *testing.T) {
	wantRuntimeErr(t, "proc main() { 1 && true; }", ErrBadArg)
	wantRuntimeErr(t, "proc main() { false || 0; }", ErrBadArg)
	wantRuntimeErr(t, "proc main() { !5; }", ErrBadArg)
	wantRuntimeErr(t, "proc main() { -true; }", ErrBadArg)
}

func Test_Interp_IncrementDecrement(t *testing.T) {
	wantNum(t, evalMain(t, "let x = 5; return ++x;"), 6)
	wantNum(t, evalMain(t, "let x = 5; return x++;"), 5)
	wantNum(t, evalMain(t, "let x = 5; x++; return x;"), 6)
	wantNum(t, evalMain(t, "let x = 5; return --x;"), 4)
	wantNum(t, evalMain(t, "let x = 5; x--; return x;"), 4)
	wantRuntimeErr(t, "proc main() { ++5; }", ErrInvalidAssignmentTarget)
	wantRuntimeErr(t, "proc main() { const x = 1; ++x; }", ErrReassignConstant)
	wantRuntimeErr(t, `proc main() { let s = "a"; s++; }`, ErrBadArg)
}

// --- scoping ---------------------------------------------------------------

func Test_Interp_ReassignmentEscapesBlock(t *testing.T) {
	wantNum(t, evalMain(t, `
let x = 1;
{
	x = 2;
}
return x;`), 2)
}

func Test_Interp_NewBindingStaysInBlock(t *testing.T) {
	wantRuntimeErr(t, `
proc main() {
	{
		let y = 1;
	}
	return y;
}`, ErrUnknownVariable)
}

func Test_Interp_ShadowingDoesNotLeak(t *testing.T) {
	wantNum(t, evalMain(t, `
let x = 1;
{
	let x = 99;
}
return x;`), 1)
}

func Test_Interp_ClosureCapturesByValue(t *testing.T) {
	wantNum(t, evalMain(t, `
let x = 1;
const f = (a) -> {
	return x + a + 4;
};
x = 100;
return f(1);`), 6)
}

func Test_Interp_ConstImmutable(t *testing.T) {
	wantRuntimeErr(t, "proc main() { const c = 1; c = 2; }", ErrReassignConstant)
}

func Test_Interp_ShadowedConstantStaysConstant(t *testing.T) {
	// Reassigning a mutable shadow of an outer constant fails at block
	// exit, when the write would otherwise merge into the constant.
	wantRuntimeErr(t, `
proc main() {
	const x = 1;
	{
		let x = 2;
		x = 3;
	}
	x = 4;
	return x;
}`, ErrReassignConstant)
	// Without a reassignment of the shadow, nothing merges and the
	// constant is untouched.
	wantNum(t, evalMain(t, `
const x = 1;
{
	let x = 2;
}
return x;`), 1)
}

func Test_Interp_ReassignTopLevelProc(t *testing.T) {
	wantRuntimeErr(t, `
proc helper() { return 1; }
proc main() { helper = 2; }`, ErrReassignTopLevelProc)
}

func Test_Interp_ParamsAreConstants(t *testing.T) {
	wantRuntimeErr(t, `
proc f(n) { n = 2; }
proc main() { f(1); }`, ErrReassignConstant)
}

// --- control flow ----------------------------------------------------------

func Test_Interp_IfElseChain(t *testing.T) {
	src := `
proc classify(n) {
	if (n < 0) {
		return "negative";
	} else if (n == 0) {
		return "zero";
	} else {
		return "positive";
	}
}
proc main() {
	return classify(%s);
}`
	for _, tc := range []struct {
		arg  string
		want string
	}{
		{"-3", "negative"},
		{"0", "zero"},
		{"7", "positive"},
	} {
		v, _ := runProg(t, strings.Replace(src, "%s", tc.arg, 1))
		wantStr(t, v, tc.want)
	}
}

func Test_Interp_IfCondMustBeBool(t *testing.T) {
	wantRuntimeErr(t, "proc main() { if (1) {} }", ErrExpectedBool)
	wantRuntimeErr(t, "proc main() { while (0) {} }", ErrExpectedBool)
}

func Test_Interp_WhileAndForAgree(t *testing.T) {
	_, whileOut := runProg(t, `
proc main() {
	let i = 0;
	while (i < 3) {
		print(i);
		i = i + 1;
	}
}`)
	_, forOut := runProg(t, `
proc main() {
	for (let i = 0; i < 3; i = i + 1) {
		print(i);
	}
}`)
	if whileOut != forOut || whileOut != "012" {
		t.Fatalf("while printed %q, for printed %q, want both \"012\"", whileOut, forOut)
	}
}

func Test_Interp_ForCompoundStep(t *testing.T) {
	_, out := runProg(t, `
proc main() {
	for (let i = 0; i < 10; i += 3) {
		print(i);
	}
}`)
	if out != "0369" {
		t.Fatalf("want \"0369\", got %q", out)
	}
}

func Test_Interp_BreakContinue(t *testing.T) {
	_, out := runProg(t, `
proc main() {
	let i = 0;
	while (true) {
		i = i + 1;
		if (i == 2) {
			continue;
		}
		if (i > 4) {
			break;
		}
		print(i);
	}
}`)
	if out != "134" {
		t.Fatalf("want \"134\", got %q", out)
	}
}

func Test_Interp_BreakOutsideLoop(t *testing.T) {
	wantRuntimeErr(t, "proc main() { break; }", ErrBreakNotInLoop)
	wantRuntimeErr(t, "proc main() { continue; }", ErrContinueNotInLoop)
	// A procedure boundary resets loop context.
	wantRuntimeErr(t, `
proc inner() { break; }
proc main() {
	while (true) {
		inner();
	}
}`, ErrBreakNotInLoop)
}

func Test_Interp_ReturnThroughLoop(t *testing.T) {
	wantNum(t, evalMain(t, `
let i = 0;
while (true) {
	if (i == 15) {
		return i;
	}
	i = i + 1;
}`), 15)
}

func Test_Interp_BareReturn(t *testing.T) {
	wantNil(t, evalMain(t, "return;"))
}

func Test_Interp_MainResultIsLastValue(t *testing.T) {
	// Without an explicit return, main evaluates to its last statement.
	wantNum(t, evalMain(t, "3 + 4;"), 7)
	wantNil(t, evalMain(t, "let x = 3;"))
}

// --- procedures ------------------------------------------------------------

func Test_Interp_Fibonacci(t *testing.T) {
	wantNum(t, evalMain(t, `
const fib = (n) -> {
	if (n < 2) {
		return n;
	}
	return fib(n - 1) + fib(n - 2);
};
return fib(10);`), 55)
}

func Test_Interp_TopLevelRecursion(t *testing.T) {
	v, _ := runProg(t, `
proc fact(n) {
	if (n <= 1) {
		return 1;
	}
	return n * fact(n - 1);
}
proc main() {
	return fact(5);
}`)
	wantNum(t, v, 120)
}

func Test_Interp_IdentityPrints(t *testing.T) {
	_, out := runProg(t, `
proc identity(x) {
	return x;
}
proc main() {
	print(identity(5));
	print(identity(true));
}`)
	if out != "5true" {
		t.Fatalf("want \"5true\", got %q", out)
	}
}

func Test_Interp_ArityMismatch(t *testing.T) {
	err := wantRuntimeErr(t, `
proc f(a, b) { return a; }
proc main() { f(1); }`, ErrArgMismatch)
	if !strings.Contains(err.Msg, `"f"`) || !strings.Contains(err.Msg, "2") {
		t.Fatalf("arity message should name the procedure and count: %q", err.Msg)
	}
}

func Test_Interp_LambdaArityUsesPlaceholderName(t *testing.T) {
	err := wantRuntimeErr(t, "proc main() { ((a) -> { return a; })(); }", ErrArgMismatch)
	if !strings.Contains(err.Msg, "<lambda>") {
		t.Fatalf("want <lambda> in message, got %q", err.Msg)
	}
}

func Test_Interp_CallNonProcedure(t *testing.T) {
	wantRuntimeErr(t, "proc main() { let x = 5; x(); }", ErrBadArg)
}

func Test_Interp_HigherOrder(t *testing.T) {
	wantNum(t, evalMain(t, `
const twice = (f, x) -> {
	return f(f(x));
};
const addThree = (n) -> {
	return n + 3;
};
return twice(addThree, 1);`), 7)
}

// --- builtins and indexing -------------------------------------------------

func Test_Interp_ListBuiltins(t *testing.T) {
	wantNum(t, evalMain(t, "return head(list(7, 8, 9));"), 7)
	wantNum(t, evalMain(t, "return head(rest(list(7, 8, 9)));"), 8)
	wantBool(t, evalMain(t, "return is_empty(list());"), true)
	wantBool(t, evalMain(t, "return is_empty(list(1));"), false)
	wantNil(t, evalMain(t, "return head(list());"))
	wantNil(t, evalMain(t, "return rest(list());"))
	wantBool(t, evalMain(t, "return is_nil(head(list()));"), true)
	wantBool(t, evalMain(t, "return is_nil(0);"), false)
}

func Test_Interp_BuiltinErrors(t *testing.T) {
	err := wantRuntimeErr(t, "proc main() { head(list(1), list(2)); }", ErrArgMismatch)
	if !strings.Contains(err.Msg, `"head"`) {
		t.Fatalf("arity message should name the builtin: %q", err.Msg)
	}
	wantRuntimeErr(t, "proc main() { is_empty(5); }", ErrExpectedList)
	wantRuntimeErr(t, "proc main() { rest(5); }", ErrExpectedList)
}

func Test_Interp_ListConcat(t *testing.T) {
	wantNum(t, evalMain(t, "return (list(1) + list(2, 3))[2];"), 3)
}

func Test_Interp_Indexing(t *testing.T) {
	wantNum(t, evalMain(t, "return list(4, 5, 6)[1];"), 5)
	wantStr(t, evalMain(t, `return "abc"[0];`), "a")
	wantRuntimeErr(t, "proc main() { list(1)[0.5]; }", ErrExpectedInteger)
	wantRuntimeErr(t, "proc main() { list(1)[1]; }", ErrIndexOutOfBounds)
	wantRuntimeErr(t, "proc main() { list(1)[-1]; }", ErrIndexOutOfBounds)
	wantRuntimeErr(t, `proc main() { "ab"[2]; }`, ErrIndexOutOfBounds)
	wantRuntimeErr(t, "proc main() { 5[0]; }", ErrNotIndexable)
}

func Test_Interp_PrintJoinsWithSpaces(t *testing.T) {
	_, out := runProg(t, `proc main() { print(1, "two", true, nilish()); }
proc nilish() { return; }`)
	if out != "1 two true nil" {
		t.Fatalf("want \"1 two true nil\", got %q", out)
	}
}

func Test_Interp_UnknownVariable(t *testing.T) {
	wantRuntimeErr(t, "proc main() { return nope; }", ErrUnknownVariable)
}

// --- statement-mode evaluation (REPL path) ---------------------------------

func Test_Interp_EvalStatementsPersistsBindings(t *testing.T) {
	ip := NewInterp(&strings.Builder{})
	env := NewEnvironment(nil)

	if _, err := ip.EvalStatements(env, "let x = 2;"); err != nil {
		t.Fatalf("let: %v", err)
	}
	v, err := ip.EvalStatements(env, "x + 40;")
	if err != nil {
		t.Fatalf("expr: %v", err)
	}
	wantNum(t, v, 42)

	if _, err := ip.EvalStatements(env, "x = x * 10;"); err != nil {
		t.Fatalf("reassign: %v", err)
	}
	v, err = ip.EvalStatements(env, "x;")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	wantNum(t, v, 20)
}

func Test_Interp_EvalStatementsBreakFails(t *testing.T) {
	ip := NewInterp(&strings.Builder{})
	env := NewEnvironment(nil)
	_, err := ip.EvalStatements(env, "break;")
	var rte *RuntimeError
	if !errors.As(err, &rte) || rte.Code != ErrBreakNotInLoop {
		t.Fatalf("want BreakNotInLoop, got %v", err)
	}
}
