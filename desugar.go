// desugar.go — lowering from the sugared tree to the core tree.
//
// Desugaring is total: every shape the parser can produce has a lowering, so
// there is no error path. The rewrites are
//
//	for (init; stop; step) body  →  { init; while (stop) { body…; step } }
//	if/else-if…/else             →  right-nested ifs folded over the else
//	name += rhs                  →  name = name + rhs   (and -= likewise)
//
// Everything else maps one-to-one with sub-trees desugared recursively.
package linger

// Desugar lowers a sugared program into core form.
func Desugar(sp *SugaredProgram) *Program {
	procs := make([]*Procedure, len(sp.Procs))
	for i, proc := range sp.Procs {
		procs[i] = &Procedure{
			Name:   proc.Name,
			Params: proc.Params,
			Body:   desugarBlock(proc.Body),
		}
	}
	return &Program{Procs: procs}
}

// DesugarStmts lowers a bare statement list (the REPL path).
func DesugarStmts(stmts []SugaredStmt) []Stmt {
	out := make([]Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = desugarStmt(s)
	}
	return out
}

func desugarBlock(b *SugaredBlock) *Block {
	return &Block{Stmts: DesugarStmts(b.Stmts)}
}

func desugarStmt(stmt SugaredStmt) Stmt {
	switch s := stmt.(type) {
	case *SugaredExprStmt:
		return &ExprStmt{Expr: desugarExpr(s.Expr)}

	case *SugaredLet:
		return &Let{Name: s.Name, Expr: desugarExpr(s.Expr)}

	case *SugaredConst:
		return &Const{Name: s.Name, Expr: desugarExpr(s.Expr)}

	case *SugaredAssign:
		return &Assign{Name: s.Name, Expr: desugarExpr(s.Expr)}

	case *SugaredOpAssign:
		op := OpPlus
		if s.Op == AssignMinus {
			op = OpMinus
		}
		return &Assign{
			Name: s.Name,
			Expr: &Binary{Op: op, Left: &Var{Name: s.Name}, Right: desugarExpr(s.Expr)},
		}

	case *SugaredBlock:
		return desugarBlock(s)

	case *SugaredIf:
		// Fold the else-if arms right-to-left onto the optional else, then
		// wrap the leading if around the result. No else stays nil, not an
		// empty block, so the interpreter can skip without entering a scope.
		var acc Stmt
		if s.Else != nil {
			acc = desugarBlock(s.Else)
		}
		for i := len(s.ElseIfs) - 1; i >= 0; i-- {
			arm := s.ElseIfs[i]
			acc = &If{Cond: desugarExpr(arm.Cond), Then: desugarBlock(arm.Block), Else: acc}
		}
		return &If{Cond: desugarExpr(s.Cond), Then: desugarBlock(s.Then), Else: acc}

	case *SugaredWhile:
		return &While{Cond: desugarExpr(s.Cond), Body: desugarBlock(s.Body)}

	case *SugaredFor:
		// The step lands after the user's body statements, so each
		// iteration runs body-then-step; the init's binding lives in the
		// outer synthetic block and dies with the loop.
		bodyStmts := DesugarStmts(s.Body.Stmts)
		bodyStmts = append(bodyStmts, desugarStmt(s.Step))
		loop := &While{
			Cond: desugarExpr(s.Stop),
			Body: &Block{Stmts: bodyStmts},
		}
		return &Block{Stmts: []Stmt{desugarStmt(s.Init), loop}}

	case *SugaredBreak:
		return &Break{}

	case *SugaredContinue:
		return &Continue{}

	case *SugaredReturn:
		if s.Expr == nil {
			return &Return{}
		}
		return &Return{Expr: desugarExpr(s.Expr)}

	default:
		panic("desugar: unknown statement")
	}
}

func desugarExpr(expr SugaredExpr) Expr {
	switch e := expr.(type) {
	case *SugaredNum:
		return &Num{Value: e.Value}
	case *SugaredBool:
		return &Bool{Value: e.Value}
	case *SugaredStr:
		return &Str{Value: e.Value}
	case *SugaredVar:
		return &Var{Name: e.Name}
	case *SugaredBinary:
		return &Binary{Op: e.Op, Left: desugarExpr(e.Left), Right: desugarExpr(e.Right)}
	case *SugaredUnary:
		return &Unary{Op: e.Op, Operand: desugarExpr(e.Operand)}
	case *SugaredBuiltinCall:
		return &BuiltinCall{Builtin: e.Builtin, Args: desugarExprs(e.Args)}
	case *SugaredCall:
		return &Call{Callee: desugarExpr(e.Callee), Args: desugarExprs(e.Args)}
	case *SugaredLambda:
		return &Lambda{Params: e.Params, Body: desugarBlock(e.Body)}
	case *SugaredIndex:
		return &Index{Base: desugarExpr(e.Base), Index: desugarExpr(e.Index)}
	default:
		panic("desugar: unknown expression")
	}
}

func desugarExprs(exprs []SugaredExpr) []Expr {
	out := make([]Expr, len(exprs))
	for i, e := range exprs {
		out[i] = desugarExpr(e)
	}
	return out
}
