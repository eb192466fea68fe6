// interpreter_ops.go — operator, indexing, and builtin evaluation.
package linger

import (
	"math"
	"strings"
)

// evalBinary evaluates a binary operator application. The logical operators
// short-circuit, so they receive the unevaluated right operand; everything
// else is strict in both operands.
func (ip *Interp) evalBinary(env *Environment, bin *Binary) (Value, error) {
	if bin.Op == OpLogicAnd || bin.Op == OpLogicOr {
		return ip.evalLogical(env, bin)
	}

	l, err := ip.evalExpr(env, bin.Left)
	if err != nil {
		return Nil, err
	}
	r, err := ip.evalExpr(env, bin.Right)
	if err != nil {
		return Nil, err
	}

	switch bin.Op {
	case OpPlus:
		return evalPlus(l, r)

	case OpMinus, OpTimes, OpDiv, OpMod:
		if l.Tag != VTNum || r.Tag != VTNum {
			return Nil, errBadArgs(l, r)
		}
		switch bin.Op {
		case OpMinus:
			return NumVal(l.Num() - r.Num()), nil
		case OpTimes:
			return NumVal(l.Num() * r.Num()), nil
		case OpDiv:
			return NumVal(l.Num() / r.Num()), nil
		default:
			return NumVal(math.Mod(l.Num(), r.Num())), nil
		}

	case OpEq, OpNe:
		var eq bool
		switch {
		case l.Tag == VTNum && r.Tag == VTNum:
			eq = l.Num() == r.Num()
		case l.Tag == VTBool && r.Tag == VTBool:
			eq = l.Bool() == r.Bool()
		default:
			return Nil, errBadArgs(l, r)
		}
		if bin.Op == OpNe {
			eq = !eq
		}
		return BoolVal(eq), nil

	case OpLT, OpGT, OpLTE, OpGTE:
		if l.Tag != VTNum || r.Tag != VTNum {
			return Nil, errBadArgs(l, r)
		}
		a, b := l.Num(), r.Num()
		switch bin.Op {
		case OpLT:
			return BoolVal(a < b), nil
		case OpGT:
			return BoolVal(a > b), nil
		case OpLTE:
			return BoolVal(a <= b), nil
		default:
			return BoolVal(a >= b), nil
		}

	default:
		return Nil, rtError(ErrUnaryAsBinary, "tried to use unary operator %q as a binary operator", bin.Op)
	}
}

// evalPlus handles the one overloaded operator: numeric addition, string
// concatenation, and list concatenation. On a type mismatch the reported
// value is the right operand when the left is a number, otherwise the left.
func evalPlus(l, r Value) (Value, error) {
	switch {
	case l.Tag == VTNum && r.Tag == VTNum:
		return NumVal(l.Num() + r.Num()), nil
	case l.Tag == VTStr && r.Tag == VTStr:
		return StrVal(l.Str() + r.Str()), nil
	case l.Tag == VTList && r.Tag == VTList:
		ll, rl := l.List(), r.List()
		joined := make([]Value, 0, len(ll)+len(rl))
		joined = append(joined, ll...)
		joined = append(joined, rl...)
		return ListVal(joined), nil
	case l.Tag == VTNum:
		return Nil, errBadArg(r)
	default:
		return Nil, errBadArg(l)
	}
}

func (ip *Interp) evalLogical(env *Environment, bin *Binary) (Value, error) {
	l, err := ip.evalExpr(env, bin.Left)
	if err != nil {
		return Nil, err
	}
	if l.Tag != VTBool {
		return Nil, errBadArg(l)
	}
	if bin.Op == OpLogicAnd && !l.Bool() {
		return BoolVal(false), nil
	}
	if bin.Op == OpLogicOr && l.Bool() {
		return BoolVal(true), nil
	}
	r, err := ip.evalExpr(env, bin.Right)
	if err != nil {
		return Nil, err
	}
	if r.Tag != VTBool {
		return Nil, errBadArg(r)
	}
	return r, nil
}

func (ip *Interp) evalUnary(env *Environment, un *Unary) (Value, error) {
	switch un.Op {
	case OpMinus:
		v, err := ip.evalExpr(env, un.Operand)
		if err != nil {
			return Nil, err
		}
		if v.Tag != VTNum {
			return Nil, errBadArg(v)
		}
		return NumVal(-v.Num()), nil

	case OpLogicNot:
		v, err := ip.evalExpr(env, un.Operand)
		if err != nil {
			return Nil, err
		}
		if v.Tag != VTBool {
			return Nil, errBadArg(v)
		}
		return BoolVal(!v.Bool()), nil

	case OpPreIncrement, OpPostIncrement, OpPreDecrement, OpPostDecrement:
		return ip.evalIncDec(env, un)

	default:
		return Nil, rtError(ErrBinaryAsUnary, "tried to use binary operator %q as a unary operator", un.Op)
	}
}

// evalIncDec mutates a numeric variable in place. Only a plain variable is a
// valid operand; pre forms yield the updated value, post forms the original.
func (ip *Interp) evalIncDec(env *Environment, un *Unary) (Value, error) {
	target, ok := un.Operand.(*Var)
	if !ok {
		return Nil, rtError(ErrInvalidAssignmentTarget, "invalid assignment target")
	}
	old, err := env.Get(target.Name)
	if err != nil {
		return Nil, err
	}
	if old.Tag != VTNum {
		return Nil, errBadArg(old)
	}
	delta := 1.0
	if un.Op == OpPreDecrement || un.Op == OpPostDecrement {
		delta = -1.0
	}
	updated := NumVal(old.Num() + delta)
	if err := env.Reassign(target.Name, updated); err != nil {
		return Nil, err
	}
	if un.Op == OpPreIncrement || un.Op == OpPreDecrement {
		return updated, nil
	}
	return old, nil
}

/* ---------- indexing ---------- */

// evalIndex subscripts a list or a string. String indexing yields a one
// character string; the index must be a whole number within bounds.
func (ip *Interp) evalIndex(env *Environment, idx *Index) (Value, error) {
	base, err := ip.evalExpr(env, idx.Base)
	if err != nil {
		return Nil, err
	}
	if base.Tag != VTList && base.Tag != VTStr {
		return Nil, errNotIndexable(base)
	}
	iv, err := ip.evalExpr(env, idx.Index)
	if err != nil {
		return Nil, err
	}
	if iv.Tag != VTNum {
		return Nil, errExpectedInteger(iv)
	}
	n := iv.Num()
	if n != math.Trunc(n) {
		return Nil, errExpectedInteger(iv)
	}
	i := int64(n)

	if base.Tag == VTList {
		items := base.List()
		if i < 0 || i >= int64(len(items)) {
			return Nil, errIndexOutOfBounds(i)
		}
		return items[i], nil
	}
	chars := []rune(base.Str())
	if i < 0 || i >= int64(len(chars)) {
		return Nil, errIndexOutOfBounds(i)
	}
	return StrVal(string(chars[i])), nil
}

/* ---------- builtins ---------- */

func (ip *Interp) evalBuiltin(env *Environment, call *BuiltinCall) (Value, error) {
	args := make([]Value, len(call.Args))
	for i, argExpr := range call.Args {
		v, err := ip.evalExpr(env, argExpr)
		if err != nil {
			return Nil, err
		}
		args[i] = v
	}

	switch call.Builtin {
	case BuiltinPrint:
		parts := make([]string, len(args))
		for i, v := range args {
			parts[i] = FormatValue(v)
		}
		if _, err := ip.Out.Write([]byte(strings.Join(parts, " "))); err != nil {
			return Nil, err
		}
		return Nil, nil

	case BuiltinList:
		return ListVal(args), nil

	case BuiltinIsNil:
		if len(args) != 1 {
			return Nil, errArgMismatch("is_nil", 1, len(args))
		}
		return BoolVal(args[0].Tag == VTNil), nil

	case BuiltinIsEmpty:
		items, err := singleListArg("is_empty", args)
		if err != nil {
			return Nil, err
		}
		return BoolVal(len(items) == 0), nil

	case BuiltinHead:
		items, err := singleListArg("head", args)
		if err != nil {
			return Nil, err
		}
		if len(items) == 0 {
			return Nil, nil
		}
		return items[0], nil

	case BuiltinRest:
		items, err := singleListArg("rest", args)
		if err != nil {
			return Nil, err
		}
		if len(items) == 0 {
			return Nil, nil
		}
		rest := make([]Value, len(items)-1)
		copy(rest, items[1:])
		return ListVal(rest), nil

	default:
		panic("interp: unknown builtin")
	}
}

func singleListArg(name string, args []Value) ([]Value, error) {
	if len(args) != 1 {
		return nil, errArgMismatch(name, 1, len(args))
	}
	if args[0].Tag != VTList {
		return nil, errExpectedList(args[0])
	}
	return args[0].List(), nil
}
