// lexer.go — scanner for Linger source text.
//
// The lexer converts raw source into a flat, ordered token sequence. Every
// token carries its 1-based line and column so the parser and the caret
// renderer (errors.go) can point at the offending spot. The parser consumes
// the sequence by index with arbitrary lookahead; the lexer itself keeps no
// grammar knowledge.
//
// Failure modes are the three lex errors: an unknown character sequence, an
// unterminated string literal, and an invalid escape sequence. All surface as
// *LexError.
package linger

import (
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Literals & identifiers
	ID
	NUMBER
	STRING
	BOOLEAN

	// Punctuation
	LPAREN    // "("
	RPAREN    // ")"
	LCURLY    // "{"
	RCURLY    // "}"
	LSQUARE   // "["
	RSQUARE   // "]"
	SEMICOLON // ";"
	COMMA     // ","

	// Operators
	PLUS         // "+"
	MINUS        // "-"
	STAR         // "*"
	SLASH        // "/"
	PERCENT      // "%"
	ASSIGN       // "="
	EQ           // "=="
	NEQ          // "!="
	LESS         // "<"
	LESS_EQ      // "<="
	GREATER      // ">"
	GREATER_EQ   // ">="
	LOGIC_AND    // "&&"
	LOGIC_OR     // "||"
	BANG         // "!"
	PLUS_ASSIGN  // "+="
	MINUS_ASSIGN // "-="
	PLUS_PLUS    // "++"
	MINUS_MINUS  // "--"
	THIN_ARROW   // "->"

	// Keywords
	PROC
	LET
	CONST
	IF
	ELSE
	WHILE
	FOR
	RETURN
	BREAK
	CONTINUE
)

var tokenNames = map[TokenType]string{
	EOF:          "<eof>",
	ID:           "identifier",
	NUMBER:       "number",
	STRING:       "string",
	BOOLEAN:      "boolean",
	LPAREN:       "(",
	RPAREN:       ")",
	LCURLY:       "{",
	RCURLY:       "}",
	LSQUARE:      "[",
	RSQUARE:      "]",
	SEMICOLON:    ";",
	COMMA:        ",",
	PLUS:         "+",
	MINUS:        "-",
	STAR:         "*",
	SLASH:        "/",
	PERCENT:      "%",
	ASSIGN:       "=",
	EQ:           "==",
	NEQ:          "!=",
	LESS:         "<",
	LESS_EQ:      "<=",
	GREATER:      ">",
	GREATER_EQ:   ">=",
	LOGIC_AND:    "&&",
	LOGIC_OR:     "||",
	BANG:         "!",
	PLUS_ASSIGN:  "+=",
	MINUS_ASSIGN: "-=",
	PLUS_PLUS:    "++",
	MINUS_MINUS:  "--",
	THIN_ARROW:   "->",
	PROC:         "proc",
	LET:          "let",
	CONST:        "const",
	IF:           "if",
	ELSE:         "else",
	WHILE:        "while",
	FOR:          "for",
	RETURN:       "return",
	BREAK:        "break",
	CONTINUE:     "continue",
}

func (tt TokenType) String() string { return tokenNames[tt] }

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // float64 for NUMBER, decoded string for STRING, bool for BOOLEAN
	Line    int         // 1-based
	Col     int         // 1-based
}

// IsKeyword reports whether the token is a reserved word. true and false lex
// as BOOLEAN literals and are not keywords in this sense.
func (t Token) IsKeyword() bool {
	return t.Type >= PROC && t.Type <= CONTINUE
}

// keywords map
var keywords = map[string]TokenType{
	"proc":     PROC,
	"let":      LET,
	"const":    CONST,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"return":   RETURN,
	"break":    BREAK,
	"continue": CONTINUE,
	"true":     BOOLEAN,
	"false":    BOOLEAN,
}

// Lexer scans a Linger source string into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	line   int // 1-based
	col    int // 1-based column of l.cur
	tokens []Token

	// position of the current token's first byte
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Tokenize is the one-shot wrapper used by the parse entry points.
func Tokenize(src string) ([]Token, error) {
	return NewLexer(src).Scan()
}

// Scan tokenizes the whole source. The returned slice always ends with an EOF
// token positioned just past the last input byte.
func (l *Lexer) Scan() ([]Token, error) {
	for {
		l.skipBlanks()
		if l.isAtEnd() {
			break
		}
		l.start = l.cur
		l.tokStartLine = l.line
		l.tokStartCol = l.col
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	l.tokens = append(l.tokens, Token{Type: EOF, Line: l.line, Col: l.col})
	return l.tokens, nil
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.src[l.cur]
}

func (l *Lexer) peekNext() byte {
	if l.cur+1 >= len(l.src) {
		return 0
	}
	return l.src[l.cur+1]
}

func (l *Lexer) advance() byte {
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

// match consumes the next byte when it equals want.
func (l *Lexer) match(want byte) bool {
	if l.isAtEnd() || l.src[l.cur] != want {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) {
	l.tokens = append(l.tokens, Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	})
}

// skipBlanks consumes whitespace and // line comments.
func (l *Lexer) skipBlanks() {
	for !l.isAtEnd() {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		case '/':
			if l.peekNext() != '/' {
				return
			}
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) scanToken() error {
	ch := l.advance()
	switch ch {
	case '(':
		l.addToken(LPAREN, nil)
	case ')':
		l.addToken(RPAREN, nil)
	case '{':
		l.addToken(LCURLY, nil)
	case '}':
		l.addToken(RCURLY, nil)
	case '[':
		l.addToken(LSQUARE, nil)
	case ']':
		l.addToken(RSQUARE, nil)
	case ';':
		l.addToken(SEMICOLON, nil)
	case ',':
		l.addToken(COMMA, nil)
	case '*':
		l.addToken(STAR, nil)
	case '/':
		l.addToken(SLASH, nil)
	case '%':
		l.addToken(PERCENT, nil)
	case '+':
		switch {
		case l.match('+'):
			l.addToken(PLUS_PLUS, nil)
		case l.match('='):
			l.addToken(PLUS_ASSIGN, nil)
		default:
			l.addToken(PLUS, nil)
		}
	case '-':
		switch {
		case l.match('-'):
			l.addToken(MINUS_MINUS, nil)
		case l.match('='):
			l.addToken(MINUS_ASSIGN, nil)
		case l.match('>'):
			l.addToken(THIN_ARROW, nil)
		default:
			l.addToken(MINUS, nil)
		}
	case '=':
		if l.match('=') {
			l.addToken(EQ, nil)
		} else {
			l.addToken(ASSIGN, nil)
		}
	case '!':
		if l.match('=') {
			l.addToken(NEQ, nil)
		} else {
			l.addToken(BANG, nil)
		}
	case '<':
		if l.match('=') {
			l.addToken(LESS_EQ, nil)
		} else {
			l.addToken(LESS, nil)
		}
	case '>':
		if l.match('=') {
			l.addToken(GREATER_EQ, nil)
		} else {
			l.addToken(GREATER, nil)
		}
	case '&':
		if l.match('&') {
			l.addToken(LOGIC_AND, nil)
		} else {
			return l.errUnknown("&")
		}
	case '|':
		if l.match('|') {
			l.addToken(LOGIC_OR, nil)
		} else {
			return l.errUnknown("|")
		}
	case '"':
		return l.scanString()
	default:
		if isDigit(ch) {
			l.scanNumber()
			return nil
		}
		if isAlpha(ch) {
			l.scanIdentifier()
			return nil
		}
		return l.errUnknown(string(ch))
	}
	return nil
}

func (l *Lexer) scanNumber() {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	// Digits with at most one interior dot; ParseFloat cannot fail here.
	n, _ := strconv.ParseFloat(l.src[l.start:l.cur], 64)
	l.addToken(NUMBER, n)
}

func (l *Lexer) scanIdentifier() {
	for isAlphaNum(l.peek()) {
		l.advance()
	}
	word := l.src[l.start:l.cur]
	if tt, ok := keywords[word]; ok {
		if tt == BOOLEAN {
			l.addToken(BOOLEAN, word == "true")
			return
		}
		l.addToken(tt, nil)
		return
	}
	l.addToken(ID, nil)
}

func (l *Lexer) scanString() error {
	var decoded []byte
	for {
		if l.isAtEnd() || l.peek() == '\n' {
			return &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: "unterminated string literal"}
		}
		ch := l.advance()
		if ch == '"' {
			break
		}
		if ch != '\\' {
			decoded = append(decoded, ch)
			continue
		}
		if l.isAtEnd() {
			return &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: "unterminated string literal"}
		}
		esc := l.advance()
		switch esc {
		case 'n':
			decoded = append(decoded, '\n')
		case 't':
			decoded = append(decoded, '\t')
		case 'r':
			decoded = append(decoded, '\r')
		case '\\':
			decoded = append(decoded, '\\')
		case '"':
			decoded = append(decoded, '"')
		default:
			return &LexError{
				Line: l.line,
				Col:  l.col - 2,
				Msg:  `invalid escape sequence "\` + string(esc) + `"`,
			}
		}
	}
	l.addToken(STRING, string(decoded))
	return nil
}

func (l *Lexer) errUnknown(s string) error {
	return &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: "unknown token: " + s}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}
