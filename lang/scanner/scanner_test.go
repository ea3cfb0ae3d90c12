package scanner_test

import (
	"testing"

	"github.com/emberlang/ember/lang/scanner"
	"github.com/emberlang/ember/lang/token"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	s := scanner.New(src)
	var toks []token.Token
	for {
		tok := s.ScanToken()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestScanPunctuationAndKeywords(t *testing.T) {
	toks := scanAll(t, `var x = 1 + 2; print x;`)
	require.Equal(t, []token.Kind{
		token.VAR, token.IDENT, token.EQUAL, token.NUMBER, token.PLUS, token.NUMBER,
		token.SEMICOLON, token.PRINT, token.IDENT, token.SEMICOLON, token.EOF,
	}, kinds(toks))
}

func TestScanTwoCharOperators(t *testing.T) {
	toks := scanAll(t, `a != b == c <= d >= e`)
	require.Equal(t, []token.Kind{
		token.IDENT, token.BANG_EQUAL, token.IDENT, token.EQUAL_EQUAL, token.IDENT,
		token.LESS_EQUAL, token.IDENT, token.GREATER_EQUAL, token.IDENT, token.EOF,
	}, kinds(toks))
}

func TestScanLineComment(t *testing.T) {
	toks := scanAll(t, "1 // comment\n2")
	require.Equal(t, []token.Kind{token.NUMBER, token.NUMBER, token.EOF}, kinds(toks))
	require.Equal(t, 1, toks[0].Line)
	require.Equal(t, 2, toks[1].Line)
}

func TestScanMultilineString(t *testing.T) {
	toks := scanAll(t, "\"a\nb\" 1")
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, "\"a\nb\"", toks[0].Lexeme)
	require.Equal(t, 2, toks[1].Line) // the NUMBER token, after the embedded newline
}

func TestScanUnterminatedString(t *testing.T) {
	toks := scanAll(t, `"abc`)
	require.Equal(t, token.ILLEGAL, toks[0].Kind)
	require.Equal(t, "Unterminated string.", toks[0].Lexeme)
}

func TestScanUnknownCharacter(t *testing.T) {
	toks := scanAll(t, `@`)
	require.Equal(t, token.ILLEGAL, toks[0].Kind)
	require.Equal(t, "Unexpected character.", toks[0].Lexeme)
}

func TestScanNumber(t *testing.T) {
	toks := scanAll(t, `123 1.5 1.`)
	require.Equal(t, "123", toks[0].Lexeme)
	require.Equal(t, "1.5", toks[1].Lexeme)
	// a trailing dot with no fractional digit is not consumed as part of the
	// number; it scans as NUMBER "1" followed by DOT.
	require.Equal(t, token.NUMBER, toks[2].Kind)
	require.Equal(t, "1", toks[2].Lexeme)
	require.Equal(t, token.DOT, toks[3].Kind)
}
