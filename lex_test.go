package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func lexOne(input string) Token {
	return NewLexer([]byte(input), NewErrorCollector(nil)).NextToken()
}

func TestNumberLiteral(t *testing.T) {
	tok := lexOne("12345")
	be.Equal(t, tok.Type, TokenType(NUMBER))
	be.Equal(t, tok.Literal, "12345")
	be.Equal(t, tok.Location, loc(1, 1, 1, 5))
}

func TestIdentifier(t *testing.T) {
	tests := []string{"foobar", "a", "_tmp", "x1y2"}
	for _, input := range tests {
		tok := lexOne(input)
		be.Equal(t, tok.Type, TokenType(IDENT))
		be.Equal(t, tok.Literal, input)
	}
}

func TestOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
	}{
		{"=", ASSIGN},
		{"+", PLUS},
		{"-", MINUS},
		{"*", ASTERISK},
		{"/", SLASH},
		{";", SEMICOLON},
		{"(", LPAREN},
		{")", RPAREN},
	}

	for _, tt := range tests {
		tok := lexOne(tt.input)
		be.Equal(t, tok.Type, tt.expected)
		be.Equal(t, tok.Literal, tt.input)
	}
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize([]byte("a = 4;\nbc"), NewErrorCollector(nil))

	expected := []Token{
		{Type: IDENT, Literal: "a", Location: loc(1, 1, 1, 1)},
		{Type: ASSIGN, Literal: "=", Location: loc(1, 3, 1, 3)},
		{Type: NUMBER, Literal: "4", Location: loc(1, 5, 1, 5)},
		{Type: SEMICOLON, Literal: ";", Location: loc(1, 6, 1, 6)},
		{Type: IDENT, Literal: "bc", Location: loc(2, 1, 2, 2)},
		{Type: EOF, Literal: "", Location: loc(2, 3, 2, 3)},
	}
	be.Equal(t, len(tokens), len(expected))
	for i := range expected {
		be.Equal(t, tokens[i], expected[i])
	}
}

func TestComments(t *testing.T) {
	tokens := Tokenize([]byte("// leading\n7; // trailing\n"), NewErrorCollector(nil))
	be.Equal(t, len(tokens), 3)
	be.Equal(t, tokens[0].Literal, "7")
	be.Equal(t, tokens[0].Location, loc(2, 1, 2, 1))
	be.Equal(t, tokens[1].Type, TokenType(SEMICOLON))
	be.Equal(t, tokens[2].Type, TokenType(EOF))
}

func TestSlashIsNotComment(t *testing.T) {
	tokens := Tokenize([]byte("8 / 2"), NewErrorCollector(nil))
	be.Equal(t, tokens[1].Type, TokenType(SLASH))
	be.Equal(t, tokens[2].Literal, "2")
}

func TestIllegalCharacter(t *testing.T) {
	errs := NewErrorCollector(nil)
	tokens := Tokenize([]byte("a $ b"), errs)
	be.Equal(t, tokens[1].Type, TokenType(ILLEGAL))
	be.Equal(t, tokens[1].Literal, "$")
	be.Equal(t, tokens[2].Literal, "b")

	be.Equal(t, errs.Count(), 1)
	be.Equal(t, errs.String(), "Error (1, 3) to (1, 3): unexpected character '$'")
}
