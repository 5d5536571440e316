package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/podhmo/exprbox/ast"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Literals & identifiers
	IDENT
	NUMBER
	STRING

	// Keywords
	FUNCTION
	RETURN
	IF
	ELSE
	TRUE
	FALSE
	NULL
	LET
	CONST
	VAR
	RESERVED // recognized keyword the snippet language does not support

	// Punctuation
	LPAREN    // "("
	RPAREN    // ")"
	LBRACE    // "{"
	RBRACE    // "}"
	LBRACKET  // "["
	RBRACKET  // "]"
	COMMA     // ","
	DOT       // "."
	SEMICOLON // ";"
	COLON     // ":"
	QUESTION  // "?"
	ARROW     // "=>"

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	BANG
	ASSIGN     // "="
	EQ         // "=="
	STRICT_EQ  // "==="
	NEQ        // "!="
	STRICT_NEQ // "!=="
	LT
	GT
	LE
	GE
	AND     // "&&"
	OR      // "||"
	NULLISH // "??"
)

var keywords = map[string]TokenType{
	"function": FUNCTION,
	"return":   RETURN,
	"if":       IF,
	"else":     ELSE,
	"true":     TRUE,
	"false":    FALSE,
	"null":     NULL,
	"let":      LET,
	"const":    CONST,
	"var":      VAR,

	"for":      RESERVED,
	"while":    RESERVED,
	"do":       RESERVED,
	"switch":   RESERVED,
	"case":     RESERVED,
	"break":    RESERVED,
	"continue": RESERVED,
	"try":      RESERVED,
	"catch":    RESERVED,
	"finally":  RESERVED,
	"throw":    RESERVED,
	"class":    RESERVED,
	"new":      RESERVED,
	"this":     RESERVED,
	"typeof":   RESERVED,
	"delete":   RESERVED,
	"void":     RESERVED,
	"yield":    RESERVED,
	"await":    RESERVED,
	"import":   RESERVED,
	"export":   RESERVED,
}

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string // raw text slice
	Literal any    // float64 for NUMBER, string for STRING
	Pos     ast.Pos
}

// Lexer scans snippet source into tokens.
type Lexer struct {
	src   string
	start int // start index of current token
	cur   int // current index
	line  int
	col   int // 1-based column of cur
	// position of the current token's first byte
	startLine int
	startCol  int
}

// NewLexer creates a lexer whose first line is numbered firstLine.
func NewLexer(src string, firstLine int) *Lexer {
	return &Lexer{src: src, line: firstLine, col: 1}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.src[l.cur]
}

func (l *Lexer) peekN(n int) byte {
	if l.cur+n >= len(l.src) {
		return 0
	}
	return l.src[l.cur+n]
}

func (l *Lexer) advance() byte {
	b := l.src[l.cur]
	l.cur++
	if b == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return b
}

func (l *Lexer) match(b byte) bool {
	if l.peek() != b || l.isAtEnd() {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) err(format string, args ...any) error {
	return &Error{Pos: ast.Pos{Line: l.startLine, Column: l.startCol}, Msg: fmt.Sprintf(format, args...)}
}

func (l *Lexer) token(tt TokenType, lit any) Token {
	return Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Pos:     ast.Pos{Line: l.startLine, Column: l.startCol},
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' || b == '$'
}
func isAlphaNum(b byte) bool { return isAlpha(b) || isDigit(b) }

// skipTrivia skips whitespace and comments.
func (l *Lexer) skipTrivia() error {
	for !l.isAtEnd() {
		switch c := l.peek(); {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '/' && l.peekN(1) == '/':
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		case c == '/' && l.peekN(1) == '*':
			l.start, l.startLine, l.startCol = l.cur, l.line, l.col
			l.advance()
			l.advance()
			for {
				if l.isAtEnd() {
					return l.err("unterminated comment")
				}
				if l.peek() == '*' && l.peekN(1) == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

// Scan tokenizes the whole source. The last token is always EOF.
func (l *Lexer) Scan() ([]Token, error) {
	var toks []Token
	for {
		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) scanToken() (Token, error) {
	if err := l.skipTrivia(); err != nil {
		return Token{}, err
	}
	l.start, l.startLine, l.startCol = l.cur, l.line, l.col
	if l.isAtEnd() {
		return l.token(EOF, nil), nil
	}

	c := l.advance()
	switch {
	case isAlpha(c):
		for isAlphaNum(l.peek()) {
			l.advance()
		}
		word := l.src[l.start:l.cur]
		if tt, ok := keywords[word]; ok {
			return l.token(tt, nil), nil
		}
		return l.token(IDENT, nil), nil
	case isDigit(c) || (c == '.' && isDigit(l.peek())):
		return l.scanNumber()
	case c == '"' || c == '\'':
		s, err := l.scanString(c)
		if err != nil {
			return Token{}, err
		}
		return l.token(STRING, s), nil
	}

	switch c {
	case '(':
		return l.token(LPAREN, nil), nil
	case ')':
		return l.token(RPAREN, nil), nil
	case '{':
		return l.token(LBRACE, nil), nil
	case '}':
		return l.token(RBRACE, nil), nil
	case '[':
		return l.token(LBRACKET, nil), nil
	case ']':
		return l.token(RBRACKET, nil), nil
	case ',':
		return l.token(COMMA, nil), nil
	case '.':
		return l.token(DOT, nil), nil
	case ';':
		return l.token(SEMICOLON, nil), nil
	case ':':
		return l.token(COLON, nil), nil
	case '+':
		return l.token(PLUS, nil), nil
	case '-':
		return l.token(MINUS, nil), nil
	case '*':
		return l.token(STAR, nil), nil
	case '/':
		return l.token(SLASH, nil), nil
	case '%':
		return l.token(PERCENT, nil), nil
	case '?':
		if l.match('?') {
			return l.token(NULLISH, nil), nil
		}
		return l.token(QUESTION, nil), nil
	case '!':
		if l.match('=') {
			if l.match('=') {
				return l.token(STRICT_NEQ, nil), nil
			}
			return l.token(NEQ, nil), nil
		}
		return l.token(BANG, nil), nil
	case '=':
		if l.match('>') {
			return l.token(ARROW, nil), nil
		}
		if l.match('=') {
			if l.match('=') {
				return l.token(STRICT_EQ, nil), nil
			}
			return l.token(EQ, nil), nil
		}
		return l.token(ASSIGN, nil), nil
	case '<':
		if l.match('=') {
			return l.token(LE, nil), nil
		}
		return l.token(LT, nil), nil
	case '>':
		if l.match('=') {
			return l.token(GE, nil), nil
		}
		return l.token(GT, nil), nil
	case '&':
		if l.match('&') {
			return l.token(AND, nil), nil
		}
	case '|':
		if l.match('|') {
			return l.token(OR, nil), nil
		}
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.start:])
	return Token{}, l.err("unexpected character %q", r)
}

func (l *Lexer) scanNumber() (Token, error) {
	first := l.src[l.start]
	if first == '0' && (l.peek() == 'x' || l.peek() == 'X' || l.peek() == 'b' || l.peek() == 'B' || l.peek() == 'o' || l.peek() == 'O') {
		l.advance()
		digitsStart := l.cur
		for isAlphaNum(l.peek()) {
			l.advance()
		}
		lexeme := l.src[l.start:l.cur]
		base := map[byte]int{'x': 16, 'b': 2, 'o': 8}[strings.ToLower(lexeme[1:2])[0]]
		v, err := strconv.ParseUint(l.src[digitsStart:l.cur], base, 64)
		if err != nil {
			return Token{}, l.err("invalid number literal %q", lexeme)
		}
		return l.token(NUMBER, float64(v)), nil
	}

	for isDigit(l.peek()) {
		l.advance()
	}
	if first != '.' && l.peek() == '.' && isDigit(l.peekN(1)) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	} else if first != '.' && l.peek() == '.' && !isAlpha(l.peekN(1)) {
		// "1." is a valid literal; "1.toFixed" is not part of the language
		l.advance()
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		if !isDigit(l.peek()) {
			return Token{}, l.err("invalid number literal %q", l.src[l.start:l.cur])
		}
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if isAlpha(l.peek()) {
		return Token{}, l.err("identifier starts immediately after numeric literal")
	}
	lexeme := l.src[l.start:l.cur]
	v, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		// ParseFloat reports out-of-range values with ±Inf, which is what we want
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			return Token{}, l.err("invalid number literal %q", lexeme)
		}
	}
	return l.token(NUMBER, v), nil
}

func (l *Lexer) scanString(quote byte) (string, error) {
	var b strings.Builder
	for {
		if l.isAtEnd() || l.peek() == '\n' {
			return "", l.err("unterminated string literal")
		}
		c := l.advance()
		if c == quote {
			return b.String(), nil
		}
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(l.src[l.cur-1:])
			if r == utf8.RuneError && size == 1 {
				return "", l.err("invalid UTF-8 in string literal")
			}
			b.WriteRune(r)
			for range size - 1 {
				l.advance()
			}
			continue
		}
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if l.isAtEnd() {
			return "", l.err("unterminated string literal")
		}
		esc := l.advance()
		switch esc {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		case 'x':
			r, err := l.scanHex(2)
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
		case 'u':
			var r rune
			var err error
			if l.match('{') {
				r, err = l.scanHexUntilBrace()
			} else {
				r, err = l.scanHex(4)
			}
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
		default:
			b.WriteByte(esc)
		}
	}
}

func (l *Lexer) scanHex(n int) (rune, error) {
	if l.cur+n > len(l.src) {
		return 0, l.err("invalid escape sequence")
	}
	v, err := strconv.ParseUint(l.src[l.cur:l.cur+n], 16, 32)
	if err != nil {
		return 0, l.err("invalid escape sequence")
	}
	for i := 0; i < n; i++ {
		l.advance()
	}
	return rune(v), nil
}

func (l *Lexer) scanHexUntilBrace() (rune, error) {
	start := l.cur
	for !l.isAtEnd() && l.peek() != '}' {
		l.advance()
	}
	if l.isAtEnd() {
		return 0, l.err("invalid escape sequence")
	}
	v, err := strconv.ParseUint(l.src[start:l.cur], 16, 32)
	if err != nil || v > utf8.MaxRune {
		return 0, l.err("invalid escape sequence")
	}
	l.advance() // '}'
	return rune(v), nil
}
