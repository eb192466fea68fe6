// ast.go — the two Linger syntax trees.
//
// The parser produces the "sugared" tree: the language exactly as written,
// including for-loops, compound assignment, and else-if chains. The desugarer
// (desugar.go) lowers it into the core tree, which is the only form the
// interpreter ever sees. Keeping the hierarchies separate means the
// interpreter's statement switch stays minimal and the lowering rules live in
// one place.
package linger

// Operator identifies a unary or binary operator. The same enum is shared by
// the lexer, both trees, and the interpreter; which arities are legal for a
// given operator is enforced at evaluation time (BinaryAsUnary/UnaryAsBinary).
type Operator int

const (
	OpPlus Operator = iota
	OpMinus
	OpTimes
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLT
	OpGT
	OpLTE
	OpGTE
	OpLogicAnd
	OpLogicOr
	OpLogicNot
	OpPreIncrement
	OpPostIncrement
	OpPreDecrement
	OpPostDecrement
)

var operatorNames = map[Operator]string{
	OpPlus:          "+",
	OpMinus:         "-",
	OpTimes:         "*",
	OpDiv:           "/",
	OpMod:           "%",
	OpEq:            "==",
	OpNe:            "!=",
	OpLT:            "<",
	OpGT:            ">",
	OpLTE:           "<=",
	OpGTE:           ">=",
	OpLogicAnd:      "&&",
	OpLogicOr:       "||",
	OpLogicNot:      "!",
	OpPreIncrement:  "++",
	OpPostIncrement: "++",
	OpPreDecrement:  "--",
	OpPostDecrement: "--",
}

func (op Operator) String() string { return operatorNames[op] }

// AssignOp identifies a compound assignment operator (+= or -=). It exists
// only in the sugared tree; desugaring rewrites it into a plain assignment.
type AssignOp int

const (
	AssignPlus AssignOp = iota
	AssignMinus
)

// Builtin identifies a primitive procedure recognized by direct-name call
// syntax. Builtins are resolved by the parser, not the environment; `print(x)`
// is a builtin call, but `print` in any other position is an ordinary
// variable reference.
type Builtin int

const (
	BuiltinPrint Builtin = iota
	BuiltinList
	BuiltinIsEmpty
	BuiltinIsNil
	BuiltinHead
	BuiltinRest
)

var builtinNames = map[string]Builtin{
	"print":    BuiltinPrint,
	"list":     BuiltinList,
	"is_empty": BuiltinIsEmpty,
	"is_nil":   BuiltinIsNil,
	"head":     BuiltinHead,
	"rest":     BuiltinRest,
}

var builtinDisplay = map[Builtin]string{
	BuiltinPrint:   "print",
	BuiltinList:    "list",
	BuiltinIsEmpty: "is_empty",
	BuiltinIsNil:   "is_nil",
	BuiltinHead:    "head",
	BuiltinRest:    "rest",
}

func (b Builtin) String() string { return builtinDisplay[b] }

/* ---------- sugared tree (parser output) ---------- */

// SugaredProgram is an ordered collection of top-level procedures, exactly as
// parsed. The parser guarantees names are unique and that one of them is
// "main".
type SugaredProgram struct {
	Procs []*SugaredProcedure
}

type SugaredProcedure struct {
	Name   string
	Params []string
	Body   *SugaredBlock
}

// SugaredStmt is a statement as written, before lowering.
type SugaredStmt interface{ sugaredStmt() }

type (
	SugaredExprStmt struct{ Expr SugaredExpr }

	SugaredLet struct {
		Name string
		Expr SugaredExpr
	}

	SugaredConst struct {
		Name string
		Expr SugaredExpr
	}

	SugaredAssign struct {
		Name string
		Expr SugaredExpr
	}

	// SugaredOpAssign is `name += expr` or `name -= expr`.
	SugaredOpAssign struct {
		Op   AssignOp
		Name string
		Expr SugaredExpr
	}

	SugaredBlock struct{ Stmts []SugaredStmt }

	// SugaredIf carries the full chain: the leading condition/block, any
	// number of `else if` arms, and an optional trailing else block.
	SugaredIf struct {
		Cond    SugaredExpr
		Then    *SugaredBlock
		ElseIfs []SugaredElseIf
		Else    *SugaredBlock // nil when absent
	}

	SugaredWhile struct {
		Cond SugaredExpr
		Body *SugaredBlock
	}

	// SugaredFor is `for (init; stop; step) { body }`. Init is a let/const
	// or assignment-like statement; Step is assignment-like. Both are
	// validated by the parser (isAssignment* predicates).
	SugaredFor struct {
		Init SugaredStmt
		Stop SugaredExpr
		Step SugaredStmt
		Body *SugaredBlock
	}

	SugaredBreak    struct{}
	SugaredContinue struct{}

	SugaredReturn struct{ Expr SugaredExpr } // nil Expr for bare `return;`
)

type SugaredElseIf struct {
	Cond  SugaredExpr
	Block *SugaredBlock
}

func (*SugaredExprStmt) sugaredStmt() {}
func (*SugaredLet) sugaredStmt()      {}
func (*SugaredConst) sugaredStmt()    {}
func (*SugaredAssign) sugaredStmt()   {}
func (*SugaredOpAssign) sugaredStmt() {}
func (*SugaredBlock) sugaredStmt()    {}
func (*SugaredIf) sugaredStmt()       {}
func (*SugaredWhile) sugaredStmt()    {}
func (*SugaredFor) sugaredStmt()      {}
func (*SugaredBreak) sugaredStmt()    {}
func (*SugaredContinue) sugaredStmt() {}
func (*SugaredReturn) sugaredStmt()   {}

// SugaredExpr is an expression as written.
type SugaredExpr interface{ sugaredExpr() }

type (
	SugaredNum  struct{ Value float64 }
	SugaredBool struct{ Value bool }
	SugaredStr  struct{ Value string }
	SugaredVar  struct{ Name string }

	SugaredBinary struct {
		Op          Operator
		Left, Right SugaredExpr
	}

	SugaredUnary struct {
		Op      Operator
		Operand SugaredExpr
	}

	SugaredBuiltinCall struct {
		Builtin Builtin
		Args    []SugaredExpr
	}

	SugaredCall struct {
		Callee SugaredExpr
		Args   []SugaredExpr
	}

	SugaredLambda struct {
		Params []string
		Body   *SugaredBlock
	}

	SugaredIndex struct {
		Base  SugaredExpr
		Index SugaredExpr
	}
)

func (*SugaredNum) sugaredExpr()         {}
func (*SugaredBool) sugaredExpr()        {}
func (*SugaredStr) sugaredExpr()         {}
func (*SugaredVar) sugaredExpr()         {}
func (*SugaredBinary) sugaredExpr()      {}
func (*SugaredUnary) sugaredExpr()       {}
func (*SugaredBuiltinCall) sugaredExpr() {}
func (*SugaredCall) sugaredExpr()        {}
func (*SugaredLambda) sugaredExpr()      {}
func (*SugaredIndex) sugaredExpr()       {}

/* ---------- core tree (desugarer output, interpreter input) ---------- */

// Program is the lowered program: the same procedure set with bodies in core
// form. Every core body is expressible with let/const/assign/if/while/block/
// break/continue/return only.
type Program struct {
	Procs []*Procedure
}

type Procedure struct {
	Name   string
	Params []string
	Body   *Block
}

// Stmt is a core statement.
type Stmt interface{ coreStmt() }

type (
	ExprStmt struct{ Expr Expr }

	Let struct {
		Name string
		Expr Expr
	}

	Const struct {
		Name string
		Expr Expr
	}

	Assign struct {
		Name string
		Expr Expr
	}

	Block struct{ Stmts []Stmt }

	// If has no else-if arms: chains are right-nested by the desugarer.
	// Else is nil when the source had no trailing else, so the interpreter
	// can skip without entering a block.
	If struct {
		Cond Expr
		Then Stmt
		Else Stmt
	}

	While struct {
		Cond Expr
		Body Stmt
	}

	Break    struct{}
	Continue struct{}

	Return struct{ Expr Expr } // nil Expr yields nil
)

func (*ExprStmt) coreStmt() {}
func (*Let) coreStmt()      {}
func (*Const) coreStmt()    {}
func (*Assign) coreStmt()   {}
func (*Block) coreStmt()    {}
func (*If) coreStmt()       {}
func (*While) coreStmt()    {}
func (*Break) coreStmt()    {}
func (*Continue) coreStmt() {}
func (*Return) coreStmt()   {}

// Expr is a core expression. The increment/decrement unaries survive
// desugaring: they have no pure-core equivalent without temporaries.
type Expr interface{ coreExpr() }

type (
	Num  struct{ Value float64 }
	Bool struct{ Value bool }
	Str  struct{ Value string }
	Var  struct{ Name string }

	Binary struct {
		Op          Operator
		Left, Right Expr
	}

	Unary struct {
		Op      Operator
		Operand Expr
	}

	BuiltinCall struct {
		Builtin Builtin
		Args    []Expr
	}

	Call struct {
		Callee Expr
		Args   []Expr
	}

	Lambda struct {
		Params []string
		Body   *Block
	}

	Index struct {
		Base  Expr
		Index Expr
	}
)

func (*Num) coreExpr()         {}
func (*Bool) coreExpr()        {}
func (*Str) coreExpr()         {}
func (*Var) coreExpr()         {}
func (*Binary) coreExpr()      {}
func (*Unary) coreExpr()       {}
func (*BuiltinCall) coreExpr() {}
func (*Call) coreExpr()        {}
func (*Lambda) coreExpr()      {}
func (*Index) coreExpr()       {}
