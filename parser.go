// parser.go — recursive-descent parser for Linger.
//
// The parser consumes the token sequence from lexer.go and produces the
// sugared tree (ast.go). Statement dispatch is by leading token: keywords
// pick their statement form directly; an identifier followed by '=', '+=' or
// '-=' parses as an assignment; anything else is a bare expression statement
// terminated by ';'.
//
// Expressions are precedence-climbing, lowest first:
//
//	||  →  &&  →  == !=  →  < > <= >=  →  + -  →  * % /
//	→  unary (- ! prefix ++/--)  →  call/index postfix  →  primary
//
// Each binary level loops over same-precedence operators instead of recursing
// into itself, so left associativity holds and no level can be skipped.
//
// A '(' in primary position is ambiguous between a parenthesized expression
// and a lambda parameter list. We trial-parse the parameter-list grammar and
// restore the cursor when it fails with an unexpected token; any other
// failure (a keyword used as a parameter name) is a real error and
// propagates. The trial is bounded by the parameter-list grammar itself, so
// parsing stays linear in practice.
package linger

type parser struct {
	toks []Token
	i    int
}

/* ---------- public entry points ---------- */

// ParseProgram parses a complete token sequence into a sugared program. The
// program must consist solely of top-level procedures, with unique names and
// one of them named "main".
func ParseProgram(toks []Token) (*SugaredProgram, error) {
	p := &parser{toks: toks}
	return p.program()
}

// ParseStatements parses a token sequence as a bare statement list running to
// end of input. This is the REPL entry point; program files go through
// ParseProgram.
func ParseStatements(toks []Token) ([]SugaredStmt, error) {
	p := &parser{toks: toks}
	var stmts []SugaredStmt
	for !p.at(EOF) {
		stmt, err := p.statement(true)
		if err != nil {
			return nil, err
		}
		if stmt == nil {
			// A stray '}' with no open block.
			return nil, errUnexpectedToken(p.prev())
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

/* ---------- token basics ---------- */

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *parser) peekN(n int) Token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+n]
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) at(tt TokenType) bool { return p.peek().Type == tt }

func (p *parser) advance() Token {
	tok := p.peek()
	if tok.Type != EOF {
		p.i++
	}
	return tok
}

func (p *parser) match(tts ...TokenType) bool {
	for _, tt := range tts {
		if p.peek().Type == tt {
			p.i++
			return true
		}
	}
	return false
}

func (p *parser) need(tt TokenType) (Token, error) {
	if p.match(tt) {
		return p.prev(), nil
	}
	return Token{}, errExpected(tt, p.peek())
}

/* ---------- procedures ---------- */

func (p *parser) program() (*SugaredProgram, error) {
	var procs []*SugaredProcedure
	seen := map[string]bool{}
	for p.at(PROC) {
		proc, err := p.procedure()
		if err != nil {
			return nil, err
		}
		if seen[proc.Name] {
			return nil, &ParseError{
				Code: ParseMultipleSameNamedProcs,
				Msg:  "multiple procedures with name \"" + proc.Name + "\"",
			}
		}
		seen[proc.Name] = true
		procs = append(procs, proc)
	}
	if !p.at(EOF) {
		return nil, errUnexpectedToken(p.peek())
	}
	if !seen["main"] {
		return nil, &ParseError{Code: ParseNoMain, Msg: "main procedure not found"}
	}
	return &SugaredProgram{Procs: procs}, nil
}

func (p *parser) procedure() (*SugaredProcedure, error) {
	if _, err := p.need(PROC); err != nil {
		return nil, err
	}
	if p.peek().IsKeyword() {
		return nil, errKeywordAs(ParseKeywordAsProc, "procedure name", p.peek())
	}
	name, err := p.need(ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LPAREN); err != nil {
		return nil, err
	}
	params, err := p.params()
	if err != nil {
		return nil, err
	}
	body, err := p.blockStatement()
	if err != nil {
		return nil, err
	}
	return &SugaredProcedure{Name: name.Lexeme, Params: params, Body: body}, nil
}

// params parses a parameter list after its opening '(' has been consumed,
// through the closing ')'. A trailing comma is an unexpected-token error.
func (p *parser) params() ([]string, error) {
	var params []string
	if p.match(RPAREN) {
		return params, nil
	}
	for {
		if p.peek().IsKeyword() {
			return nil, errKeywordAs(ParseKeywordAsParam, "parameter name", p.peek())
		}
		name, err := p.need(ID)
		if err != nil {
			if pe, ok := err.(*ParseError); ok && pe.Code == ParseExpected {
				return nil, errUnexpectedToken(p.peek())
			}
			return nil, err
		}
		params = append(params, name.Lexeme)
		if p.match(RPAREN) {
			return params, nil
		}
		if !p.at(COMMA) {
			return nil, errUnexpectedToken(p.peek())
		}
		if p.peekN(1).Type == RPAREN {
			return nil, errUnexpectedToken(p.peek())
		}
		p.advance()
	}
}

/* ---------- statements ---------- */

// statement parses one statement. It returns (nil, nil) when the next token
// is the '}' closing the current block, which it consumes; statement lists
// use that as their terminator. parseSemicolon is false only for the step
// clause of a for-loop, which ends at ')' instead of ';'.
func (p *parser) statement(parseSemicolon bool) (SugaredStmt, error) {
	if p.peek().IsKeyword() && p.peekN(1).Type == ASSIGN {
		return nil, errKeywordAs(ParseKeywordAsVar, "variable", p.peek())
	}

	switch p.peek().Type {
	case RCURLY:
		p.advance()
		return nil, nil

	case LET, CONST:
		isConst := p.advance().Type == CONST
		if p.peek().IsKeyword() {
			return nil, errKeywordAs(ParseKeywordAsVar, "variable", p.peek())
		}
		name, err := p.need(ID)
		if err != nil {
			return nil, err
		}
		if _, err := p.need(ASSIGN); err != nil {
			return nil, err
		}
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.semicolon(parseSemicolon); err != nil {
			return nil, err
		}
		if isConst {
			return &SugaredConst{Name: name.Lexeme, Expr: expr}, nil
		}
		return &SugaredLet{Name: name.Lexeme, Expr: expr}, nil

	case IF:
		return p.ifStatement()

	case WHILE:
		p.advance()
		cond, err := p.parenExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.blockStatement()
		if err != nil {
			return nil, err
		}
		return &SugaredWhile{Cond: cond, Body: body}, nil

	case FOR:
		return p.forStatement()

	case RETURN:
		p.advance()
		if p.match(SEMICOLON) {
			return &SugaredReturn{}, nil
		}
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(SEMICOLON); err != nil {
			return nil, err
		}
		return &SugaredReturn{Expr: expr}, nil

	case BREAK:
		p.advance()
		if _, err := p.need(SEMICOLON); err != nil {
			return nil, err
		}
		return &SugaredBreak{}, nil

	case CONTINUE:
		p.advance()
		if _, err := p.need(SEMICOLON); err != nil {
			return nil, err
		}
		return &SugaredContinue{}, nil

	case LCURLY:
		return p.blockStatement()

	case ID:
		switch p.peekN(1).Type {
		case ASSIGN:
			name := p.advance()
			p.advance() // '='
			expr, err := p.expression()
			if err != nil {
				return nil, err
			}
			if err := p.semicolon(parseSemicolon); err != nil {
				return nil, err
			}
			return &SugaredAssign{Name: name.Lexeme, Expr: expr}, nil
		case PLUS_ASSIGN, MINUS_ASSIGN:
			name := p.advance()
			op := AssignPlus
			if p.advance().Type == MINUS_ASSIGN {
				op = AssignMinus
			}
			expr, err := p.expression()
			if err != nil {
				return nil, err
			}
			if err := p.semicolon(parseSemicolon); err != nil {
				return nil, err
			}
			return &SugaredOpAssign{Op: op, Name: name.Lexeme, Expr: expr}, nil
		}
	}

	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.semicolon(parseSemicolon); err != nil {
		return nil, err
	}
	return &SugaredExprStmt{Expr: expr}, nil
}

func (p *parser) semicolon(required bool) error {
	if !required {
		return nil
	}
	_, err := p.need(SEMICOLON)
	return err
}

// blockStatement parses a '{' ... '}' block. The closing brace is consumed by
// the statement loop's nil return.
func (p *parser) blockStatement() (*SugaredBlock, error) {
	if !p.at(LCURLY) {
		return nil, &ParseError{
			Code: ParseExpectedBlock,
			Line: p.peek().Line,
			Col:  p.peek().Col,
			Msg:  "expected a block",
		}
	}
	p.advance()
	var stmts []SugaredStmt
	for {
		stmt, err := p.statement(true)
		if err != nil {
			return nil, err
		}
		if stmt == nil {
			return &SugaredBlock{Stmts: stmts}, nil
		}
		stmts = append(stmts, stmt)
	}
}

func (p *parser) parenExpr() (SugaredExpr, error) {
	if _, err := p.need(LPAREN); err != nil {
		return nil, err
	}
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RPAREN); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *parser) ifStatement() (SugaredStmt, error) {
	p.advance() // 'if'
	cond, err := p.parenExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.blockStatement()
	if err != nil {
		return nil, err
	}

	var elseIfs []SugaredElseIf
	var elseBlock *SugaredBlock
	for p.at(ELSE) {
		if p.peekN(1).Type == IF {
			p.advance() // 'else'
			p.advance() // 'if'
			cond, err := p.parenExpr()
			if err != nil {
				return nil, err
			}
			block, err := p.blockStatement()
			if err != nil {
				return nil, err
			}
			elseIfs = append(elseIfs, SugaredElseIf{Cond: cond, Block: block})
			continue
		}
		p.advance() // 'else'
		elseBlock, err = p.blockStatement()
		if err != nil {
			return nil, err
		}
		break
	}
	return &SugaredIf{Cond: cond, Then: then, ElseIfs: elseIfs, Else: elseBlock}, nil
}

func (p *parser) forStatement() (SugaredStmt, error) {
	p.advance() // 'for'
	if _, err := p.need(LPAREN); err != nil {
		return nil, err
	}

	init, err := p.statement(true)
	if err != nil {
		return nil, err
	}
	if init == nil {
		return nil, &ParseError{Code: ParseExpectedStatement, Msg: "expected a statement"}
	}
	if !isAssignmentOrInitialization(init) {
		return nil, &ParseError{
			Code: ParseExpectedAssignmentOrInitialization,
			Msg:  "expected an assignment or initialization statement",
		}
	}

	stop, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(SEMICOLON); err != nil {
		return nil, err
	}

	step, err := p.statement(false)
	if err != nil {
		return nil, err
	}
	if step == nil {
		return nil, &ParseError{Code: ParseExpectedStatement, Msg: "expected a statement"}
	}
	if !isAssignment(step) {
		return nil, &ParseError{
			Code: ParseExpectedAssignment,
			Msg:  "expected an assignment statement",
		}
	}
	if _, err := p.need(RPAREN); err != nil {
		return nil, err
	}

	body, err := p.blockStatement()
	if err != nil {
		return nil, err
	}
	return &SugaredFor{Init: init, Stop: stop, Step: step, Body: body}, nil
}

// isAssignment validates the shape of a for-loop step clause: a plain or
// compound assignment, or an increment/decrement expression statement.
func isAssignment(stmt SugaredStmt) bool {
	switch s := stmt.(type) {
	case *SugaredAssign, *SugaredOpAssign:
		return true
	case *SugaredExprStmt:
		if u, ok := s.Expr.(*SugaredUnary); ok {
			switch u.Op {
			case OpPreIncrement, OpPostIncrement, OpPreDecrement, OpPostDecrement:
				return true
			}
		}
	}
	return false
}

// isAssignmentOrInitialization additionally admits let/const, for the
// for-loop init clause.
func isAssignmentOrInitialization(stmt SugaredStmt) bool {
	switch stmt.(type) {
	case *SugaredLet, *SugaredConst:
		return true
	}
	return isAssignment(stmt)
}

/* ---------- expressions ---------- */

var binaryOps = map[TokenType]Operator{
	PLUS:       OpPlus,
	MINUS:      OpMinus,
	STAR:       OpTimes,
	SLASH:      OpDiv,
	PERCENT:    OpMod,
	EQ:         OpEq,
	NEQ:        OpNe,
	LESS:       OpLT,
	GREATER:    OpGT,
	LESS_EQ:    OpLTE,
	GREATER_EQ: OpGTE,
	LOGIC_AND:  OpLogicAnd,
	LOGIC_OR:   OpLogicOr,
}

func (p *parser) expression() (SugaredExpr, error) {
	return p.logicalOr()
}

// binaryLevel parses one precedence level: a sub-expression followed by any
// number of same-level operators, folded left.
func (p *parser) binaryLevel(sub func() (SugaredExpr, error), tts ...TokenType) (SugaredExpr, error) {
	expr, err := sub()
	if err != nil {
		return nil, err
	}
	for p.match(tts...) {
		op := binaryOps[p.prev().Type]
		right, err := sub()
		if err != nil {
			return nil, err
		}
		expr = &SugaredBinary{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

func (p *parser) logicalOr() (SugaredExpr, error) {
	return p.binaryLevel(p.logicalAnd, LOGIC_OR)
}

func (p *parser) logicalAnd() (SugaredExpr, error) {
	return p.binaryLevel(p.equality, LOGIC_AND)
}

func (p *parser) equality() (SugaredExpr, error) {
	return p.binaryLevel(p.relational, EQ, NEQ)
}

func (p *parser) relational() (SugaredExpr, error) {
	return p.binaryLevel(p.additive, LESS, GREATER, LESS_EQ, GREATER_EQ)
}

func (p *parser) additive() (SugaredExpr, error) {
	return p.binaryLevel(p.multiplicative, PLUS, MINUS)
}

func (p *parser) multiplicative() (SugaredExpr, error) {
	return p.binaryLevel(p.unary, STAR, PERCENT, SLASH)
}

func (p *parser) unary() (SugaredExpr, error) {
	switch p.peek().Type {
	case MINUS:
		p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &SugaredUnary{Op: OpMinus, Operand: operand}, nil
	case BANG:
		p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &SugaredUnary{Op: OpLogicNot, Operand: operand}, nil
	case PLUS_PLUS, MINUS_MINUS:
		op := OpPreIncrement
		if p.advance().Type == MINUS_MINUS {
			op = OpPreDecrement
		}
		operand, err := p.postfix()
		if err != nil {
			return nil, err
		}
		return &SugaredUnary{Op: op, Operand: operand}, nil
	}

	expr, err := p.postfix()
	if err != nil {
		return nil, err
	}
	switch p.peek().Type {
	case PLUS_PLUS:
		p.advance()
		return &SugaredUnary{Op: OpPostIncrement, Operand: expr}, nil
	case MINUS_MINUS:
		p.advance()
		return &SugaredUnary{Op: OpPostDecrement, Operand: expr}, nil
	}
	return expr, nil
}

// postfix parses a primary expression followed by any number of call and
// index suffixes. A call whose callee is a bare variable reference matching a
// builtin name becomes a builtin-call node; calls through any other
// expression never do.
func (p *parser) postfix() (SugaredExpr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Type {
		case LPAREN:
			p.advance()
			args, err := p.args()
			if err != nil {
				return nil, err
			}
			if v, ok := expr.(*SugaredVar); ok {
				if b, isBuiltin := builtinNames[v.Name]; isBuiltin {
					expr = &SugaredBuiltinCall{Builtin: b, Args: args}
					continue
				}
			}
			expr = &SugaredCall{Callee: expr, Args: args}
		case LSQUARE:
			p.advance()
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.need(RSQUARE); err != nil {
				return nil, err
			}
			expr = &SugaredIndex{Base: expr, Index: index}
		default:
			return expr, nil
		}
	}
}

// args parses a call argument list after its '(' has been consumed, through
// the closing ')'.
func (p *parser) args() ([]SugaredExpr, error) {
	var args []SugaredExpr
	if p.match(RPAREN) {
		return args, nil
	}
	for {
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.match(RPAREN) {
			return args, nil
		}
		if !p.at(COMMA) {
			return nil, errUnexpectedToken(p.peek())
		}
		if p.peekN(1).Type == RPAREN {
			return nil, errUnexpectedToken(p.peek())
		}
		p.advance()
	}
}

func (p *parser) primary() (SugaredExpr, error) {
	tok := p.peek()
	switch tok.Type {
	case NUMBER:
		p.advance()
		return &SugaredNum{Value: tok.Literal.(float64)}, nil
	case BOOLEAN:
		p.advance()
		return &SugaredBool{Value: tok.Literal.(bool)}, nil
	case STRING:
		p.advance()
		return &SugaredStr{Value: tok.Literal.(string)}, nil
	case ID:
		p.advance()
		return &SugaredVar{Name: tok.Lexeme}, nil
	case LPAREN:
		return p.lambdaOrGroup()
	}
	if tok.IsKeyword() {
		return nil, errKeywordAs(ParseKeywordAsVar, "variable", tok)
	}
	return nil, errUnexpectedToken(tok)
}

// lambdaOrGroup disambiguates '(' between a lambda parameter list and a
// parenthesized expression. The parameter-list grammar is tried first; if it
// fails with an unexpected token the cursor is restored and the contents
// reparse as a plain expression. Any other parameter-list failure is real and
// propagates, as does a missing '->' after a list that did parse.
func (p *parser) lambdaOrGroup() (SugaredExpr, error) {
	p.advance() // '('
	mark := p.i

	params, err := p.params()
	if err != nil {
		pe, ok := err.(*ParseError)
		if !ok || pe.Code != ParseUnexpectedToken {
			return nil, err
		}
		p.i = mark
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	}

	if _, err := p.need(THIN_ARROW); err != nil {
		return nil, err
	}
	body, err := p.blockStatement()
	if err != nil {
		return nil, err
	}
	return &SugaredLambda{Params: params, Body: body}, nil
}
