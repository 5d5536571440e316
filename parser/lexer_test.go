package parser

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanTypes(t *testing.T, src string) []TokenType {
	t.Helper()
	toks, err := NewLexer(src, 1).Scan()
	require.NoError(t, err)
	types := make([]TokenType, 0, len(toks))
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	return types
}

func TestLexer_Operators(t *testing.T) {
	got := scanTypes(t, "a === b !== c == d != e <= f >= g && h || i ?? j => k")
	want := []TokenType{
		IDENT, STRICT_EQ, IDENT, STRICT_NEQ, IDENT, EQ, IDENT, NEQ, IDENT, LE, IDENT, GE, IDENT,
		AND, IDENT, OR, IDENT, NULLISH, IDENT, ARROW, IDENT, EOF,
	}
	assert.Equal(t, want, got)
}

func TestLexer_Keywords(t *testing.T) {
	got := scanTypes(t, "function async return if else true false null let while")
	want := []TokenType{FUNCTION, IDENT, RETURN, IF, ELSE, TRUE, FALSE, NULL, LET, RESERVED, EOF}
	assert.Equal(t, want, got)
}

func TestLexer_Numbers(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"42", 42},
		{"3.25", 3.25},
		{".5", 0.5},
		{"1.", 1},
		{"1e3", 1000},
		{"2.5E-1", 0.25},
		{"0x1F", 31},
		{"0b101", 5},
		{"0o17", 15},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			toks, err := NewLexer(tt.src, 1).Scan()
			require.NoError(t, err)
			require.Len(t, toks, 2)
			assert.Equal(t, NUMBER, toks[0].Type)
			assert.Equal(t, tt.want, toks[0].Literal)
		})
	}

	t.Run("overflow is infinity", func(t *testing.T) {
		toks, err := NewLexer("1e999", 1).Scan()
		require.NoError(t, err)
		assert.True(t, math.IsInf(toks[0].Literal.(float64), 1))
	})
}

func TestLexer_Strings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"double", `"hello"`, "hello"},
		{"single", `'it'`, "it"},
		{"escapes", `"a\tb\nc\\d\"e"`, "a\tb\nc\\d\"e"},
		{"hex", `"\x41"`, "A"},
		{"unicode", `"é"`, "é"},
		{"code point", `"\u{1F600}"`, "😀"},
		{"multi-byte raw", `"日本"`, "日本"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := NewLexer(tt.src, 1).Scan()
			require.NoError(t, err)
			assert.Equal(t, STRING, toks[0].Type)
			assert.Equal(t, tt.want, toks[0].Literal)
		})
	}
}

func TestLexer_CommentsAndPositions(t *testing.T) {
	src := "// leading\nfoo /* inline */ bar\n  baz"
	toks, err := NewLexer(src, 1).Scan()
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, "foo", toks[0].Lexeme)
	assert.Equal(t, "2:1", toks[0].Pos.String())
	assert.Equal(t, "2:18", toks[1].Pos.String())
	assert.Equal(t, "3:3", toks[2].Pos.String())
}

func TestLexer_FirstLineOffset(t *testing.T) {
	toks, err := NewLexer("header\nx", 0).Scan()
	require.NoError(t, err)
	assert.Equal(t, 0, toks[0].Pos.Line)
	assert.Equal(t, 1, toks[1].Pos.Line)
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"unterminated string", `"abc`, "unterminated string literal"},
		{"newline in string", "'a\nb'", "unterminated string literal"},
		{"unterminated comment", "/* abc", "unterminated comment"},
		{"stray character", "a # b", `unexpected character '#'`},
		{"single ampersand", "a & b", `unexpected character '&'`},
		{"ident after number", "3in", "identifier starts immediately after numeric literal"},
		{"bad hex", "0xZZ", `invalid number literal "0xZZ"`},
		{"bad exponent", "1e+", `invalid number literal "1e+"`},
		{"invalid utf-8 in string", "\"a\xffb\"", "invalid UTF-8 in string literal"},
		{"truncated utf-8 in string", "'\xe2\x82'", "invalid UTF-8 in string literal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLexer(tt.src, 1).Scan()
			require.Error(t, err)
			var perr *Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.msg, perr.Msg)
		})
	}
}
