package main

// TokenType is the type of token (identifier, operator, literal, etc.).
type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	IDENT  = "IDENT"
	NUMBER = "NUMBER"

	ASSIGN    = "="
	PLUS      = "+"
	MINUS     = "-"
	ASTERISK  = "*"
	SLASH     = "/"
	SEMICOLON = ";"
	LPAREN    = "("
	RPAREN    = ")"
)

type Token struct {
	Type     TokenType
	Literal  string
	Location Location
}

// Lexer splits source text into tokens. Unknown characters are reported to
// Errors and returned as ILLEGAL tokens.
type Lexer struct {
	input  []byte
	pos    int
	line   int
	column int

	Errors *ErrorCollector
}

func NewLexer(input []byte, errs *ErrorCollector) *Lexer {
	return &Lexer{input: input, line: 1, column: 1, Errors: errs}
}

func (l *Lexer) peek(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *Lexer) advance() {
	if l.input[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			l.advance()
		} else if c == '/' && l.peek(1) == '/' {
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.advance()
			}
		} else {
			return
		}
	}
}

// NextToken scans and returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	startLine, startColumn := l.line, l.column
	start := l.pos
	var tokenType TokenType

	if l.pos >= len(l.input) {
		return Token{
			Type:     EOF,
			Location: Location{FirstLine: startLine, FirstColumn: startColumn, LastLine: startLine, LastColumn: startColumn},
		}
	}

	c := l.input[l.pos]
	switch {
	case isLetter(c):
		for isLetter(l.peek(0)) || isDigit(l.peek(0)) {
			l.advance()
		}
		tokenType = IDENT
	case isDigit(c):
		for isDigit(l.peek(0)) {
			l.advance()
		}
		tokenType = NUMBER
	default:
		l.advance()
		switch c {
		case '=':
			tokenType = ASSIGN
		case '+':
			tokenType = PLUS
		case '-':
			tokenType = MINUS
		case '*':
			tokenType = ASTERISK
		case '/':
			tokenType = SLASH
		case ';':
			tokenType = SEMICOLON
		case '(':
			tokenType = LPAREN
		case ')':
			tokenType = RPAREN
		default:
			tokenType = ILLEGAL
		}
	}

	tok := Token{
		Type:    tokenType,
		Literal: string(l.input[start:l.pos]),
		Location: Location{
			FirstLine:   startLine,
			FirstColumn: startColumn,
			LastLine:    l.line,
			LastColumn:  l.column - 1,
		},
	}
	if tokenType == ILLEGAL && l.Errors != nil {
		l.Errors.Report(tok.Location, "unexpected character '%s'", tok.Literal)
	}
	return tok
}

// Tokenize scans the whole input. The last token is EOF.
func Tokenize(input []byte, errs *ErrorCollector) []Token {
	l := NewLexer(input, errs)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens
		}
	}
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
