// interpreter.go — the tree-walking evaluator for core Linger programs.
//
// Statement execution is a small state machine: every statement yields a
// value plus a control-flow signal (normal, return, break, continue). Signals
// propagate value-like through block execution; there is no panic-based
// unwinding anywhere in the engine. An inLoop flag threads through statement
// execution so a break or continue that reaches a non-loop context is caught
// structurally (BreakNotInLoop/ContinueNotInLoop) instead of silently
// unwinding past a procedure boundary.
//
// Expression evaluation lives partly here (literals, variables, lambdas,
// calls) and partly in interpreter_ops.go (operators, indexing, builtins).
package linger

import (
	"io"
	"os"
)

// signal is the control-flow outcome of executing one statement.
type signal int

const (
	sigNormal signal = iota
	sigReturn
	sigBreak
	sigContinue
)

// Interp evaluates core programs. Out is the sink the print builtin writes
// to; evaluation has no other side channel. An Interp holds no evaluation
// state of its own, so one value can run any number of programs in sequence.
type Interp struct {
	Out io.Writer
}

// NewInterp creates an interpreter writing print output to out
// (os.Stdout when nil).
func NewInterp(out io.Writer) *Interp {
	if out == nil {
		out = os.Stdout
	}
	return &Interp{Out: out}
}

// Run evaluates the program's main procedure and returns its result value.
// The parser guarantees main exists; a program assembled by hand without one
// fails the same way parsing would.
func (ip *Interp) Run(prog *Program) (Value, error) {
	var main *Procedure
	for _, p := range prog.Procs {
		if p.Name == "main" {
			main = p
			break
		}
	}
	if main == nil {
		return Nil, &ParseError{Code: ParseNoMain, Msg: "main procedure not found"}
	}
	env := NewEnvironment(prog.Procs)
	v, _, err := ip.execStmt(env, main.Body, false)
	return v, err
}

// EvalSource is the whole front end in one call: tokenize, parse, desugar,
// run. Callers that want caret-annotated messages wrap the returned error
// with WrapErrorWithSource.
func (ip *Interp) EvalSource(src string) (Value, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return Nil, err
	}
	sugared, err := ParseProgram(toks)
	if err != nil {
		return Nil, err
	}
	return ip.Run(Desugar(sugared))
}

// EvalStatements evaluates src as a bare statement list directly against env,
// so let/const bindings persist across calls. This is the REPL path. The
// result is the last statement's value; return yields its value immediately;
// break and continue are outside any loop here and fail accordingly.
func (ip *Interp) EvalStatements(env *Environment, src string) (Value, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return Nil, err
	}
	sugared, err := ParseStatements(toks)
	if err != nil {
		return Nil, err
	}
	result := Nil
	for _, stmt := range DesugarStmts(sugared) {
		v, sig, err := ip.execStmt(env, stmt, false)
		if err != nil {
			return Nil, err
		}
		switch sig {
		case sigReturn:
			return v, nil
		case sigBreak:
			return Nil, rtError(ErrBreakNotInLoop, "break statement found outside of a loop")
		case sigContinue:
			return Nil, rtError(ErrContinueNotInLoop, "continue statement found outside of a loop")
		}
		result = v
	}
	return result, nil
}

/* ---------- statements ---------- */

func (ip *Interp) execStmt(env *Environment, stmt Stmt, inLoop bool) (Value, signal, error) {
	switch s := stmt.(type) {
	case *ExprStmt:
		v, err := ip.evalExpr(env, s.Expr)
		return v, sigNormal, err

	case *Let:
		v, err := ip.evalExpr(env, s.Expr)
		if err != nil {
			return Nil, sigNormal, err
		}
		env.InsertNew(s.Name, v, Mutable)
		return Nil, sigNormal, nil

	case *Const:
		v, err := ip.evalExpr(env, s.Expr)
		if err != nil {
			return Nil, sigNormal, err
		}
		env.InsertNew(s.Name, v, Constant)
		return Nil, sigNormal, nil

	case *Assign:
		v, err := ip.evalExpr(env, s.Expr)
		if err != nil {
			return Nil, sigNormal, err
		}
		if err := env.Reassign(s.Name, v); err != nil {
			return Nil, sigNormal, err
		}
		return Nil, sigNormal, nil

	case *If:
		cond, err := ip.evalExpr(env, s.Cond)
		if err != nil {
			return Nil, sigNormal, err
		}
		if cond.Tag != VTBool {
			return Nil, sigNormal, errExpectedBool(cond)
		}
		if cond.Bool() {
			return ip.execStmt(env, s.Then, inLoop)
		}
		if s.Else != nil {
			return ip.execStmt(env, s.Else, inLoop)
		}
		return Nil, sigNormal, nil

	case *While:
		for {
			cond, err := ip.evalExpr(env, s.Cond)
			if err != nil {
				return Nil, sigNormal, err
			}
			if cond.Tag != VTBool {
				return Nil, sigNormal, errExpectedBool(cond)
			}
			if !cond.Bool() {
				return Nil, sigNormal, nil
			}
			v, sig, err := ip.execStmt(env, s.Body, true)
			if err != nil {
				return Nil, sigNormal, err
			}
			switch sig {
			case sigReturn:
				return v, sigReturn, nil
			case sigBreak:
				return Nil, sigNormal, nil
			}
			// Normal and continue both re-test the condition.
		}

	case *Return:
		if s.Expr == nil {
			return Nil, sigReturn, nil
		}
		v, err := ip.evalExpr(env, s.Expr)
		return v, sigReturn, err

	case *Break:
		return Nil, sigBreak, nil

	case *Continue:
		return Nil, sigContinue, nil

	case *Block:
		return ip.execBlock(env, s, inLoop)

	default:
		panic("interp: unknown statement")
	}
}

// execBlock runs a block against a child snapshot. On any non-normal signal
// the remaining statements are skipped, reassignments accumulated so far
// merge into the parent, and the signal propagates. A break or continue
// arriving while not directly inside a loop body is fatal.
func (ip *Interp) execBlock(env *Environment, b *Block, inLoop bool) (Value, signal, error) {
	blockEnv := env.Child()
	blockValue := Nil
	for _, stmt := range b.Stmts {
		v, sig, err := ip.execStmt(blockEnv, stmt, inLoop)
		if err != nil {
			return Nil, sigNormal, err
		}
		switch sig {
		case sigReturn:
			if err := env.MergeReassignments(blockEnv); err != nil {
				return Nil, sigNormal, err
			}
			return v, sigReturn, nil
		case sigBreak:
			if !inLoop {
				return Nil, sigNormal, rtError(ErrBreakNotInLoop, "break statement found outside of a loop")
			}
			if err := env.MergeReassignments(blockEnv); err != nil {
				return Nil, sigNormal, err
			}
			return v, sigBreak, nil
		case sigContinue:
			if !inLoop {
				return Nil, sigNormal, rtError(ErrContinueNotInLoop, "continue statement found outside of a loop")
			}
			if err := env.MergeReassignments(blockEnv); err != nil {
				return Nil, sigNormal, err
			}
			return v, sigContinue, nil
		}
		blockValue = v
	}
	if err := env.MergeReassignments(blockEnv); err != nil {
		return Nil, sigNormal, err
	}
	return blockValue, sigNormal, nil
}

/* ---------- expressions ---------- */

func (ip *Interp) evalExpr(env *Environment, expr Expr) (Value, error) {
	switch e := expr.(type) {
	case *Num:
		return NumVal(e.Value), nil
	case *Bool:
		return BoolVal(e.Value), nil
	case *Str:
		return StrVal(e.Value), nil
	case *Var:
		return env.Get(e.Name)
	case *Lambda:
		// The captured snapshot is taken now; later mutation of the
		// defining scope never reaches this closure.
		return ProcVal(&Proc{Params: e.Params, Body: e.Body, Env: env.Clone()}), nil
	case *Binary:
		return ip.evalBinary(env, e)
	case *Unary:
		return ip.evalUnary(env, e)
	case *BuiltinCall:
		return ip.evalBuiltin(env, e)
	case *Call:
		return ip.evalCall(env, e)
	case *Index:
		return ip.evalIndex(env, e)
	default:
		panic("interp: unknown expression")
	}
}

// evalCall applies a procedure value. Arity is checked against the parameter
// list before arguments are evaluated; arguments evaluate left to right in
// the caller's environment; parameters bind as constants in a child of the
// procedure's captured snapshot. A procedure body that finishes without
// returning yields nil.
func (ip *Interp) evalCall(env *Environment, call *Call) (Value, error) {
	name := "<lambda>"
	if v, ok := call.Callee.(*Var); ok {
		name = v.Name
	}

	callee, err := ip.evalExpr(env, call.Callee)
	if err != nil {
		return Nil, err
	}
	if callee.Tag != VTProc {
		return Nil, errBadArg(callee)
	}
	proc := callee.ProcRef()

	if len(call.Args) != len(proc.Params) {
		return Nil, errArgMismatch(name, len(proc.Params), len(call.Args))
	}

	args := make([]Value, len(call.Args))
	for i, argExpr := range call.Args {
		if args[i], err = ip.evalExpr(env, argExpr); err != nil {
			return Nil, err
		}
	}

	callEnv := proc.Env.Child()
	for i, param := range proc.Params {
		callEnv.InsertNew(param, args[i], Constant)
	}

	// A fresh call is never "inside" the caller's loop.
	v, _, err := ip.execStmt(callEnv, proc.Body, false)
	return v, err
}
