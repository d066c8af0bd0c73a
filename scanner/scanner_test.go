package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tree_lox/token"
)

type stubSink struct {
	reports []string
}

func (s *stubSink) ReportStatic(line int, where, message string) {
	s.reports = append(s.reports, message)
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanTokens(t *testing.T) {
	cases := []struct {
		name   string
		source string
		expect []token.Kind
	}{
		{
			"punctuation and operators",
			"(){},.-+;*/:? ! != = == < <= > >=",
			[]token.Kind{
				token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
				token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SEMICOLON,
				token.STAR, token.SLASH, token.COLON, token.QUESTION,
				token.BANG, token.BANG_EQUAL, token.EQUAL, token.EQUAL_EQUAL,
				token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL,
				token.END_OF_FILE,
			},
		},
		{
			"keywords vs identifiers",
			"var assert break continue x",
			[]token.Kind{token.VAR, token.ASSERT, token.BREAK, token.CONTINUE, token.IDENTIFIER, token.END_OF_FILE},
		},
		{
			"line comment is skipped",
			"var x; // trailing comment\nvar y;",
			[]token.Kind{token.VAR, token.IDENTIFIER, token.SEMICOLON, token.VAR, token.IDENTIFIER, token.SEMICOLON, token.END_OF_FILE},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sink := &stubSink{}
			toks := New(c.source, sink).ScanTokens()
			assert.Equal(t, c.expect, kinds(toks))
			assert.Empty(t, sink.reports)
		})
	}
}

func TestScanTokensAlwaysEndsInSingleEOF(t *testing.T) {
	toks := New("1 + 2", &stubSink{}).ScanTokens()
	require := assert.New(t)
	require.NotEmpty(toks)
	require.Equal(token.END_OF_FILE, toks[len(toks)-1].Kind)

	count := 0
	for _, tok := range toks {
		if tok.Kind == token.END_OF_FILE {
			count++
		}
	}
	require.Equal(1, count)
}

func TestScanNumberLiteral(t *testing.T) {
	toks := New("1.5", &stubSink{}).ScanTokens()
	assert.Equal(t, 1.5, toks[0].Literal)
}

func TestScanStringLiteral(t *testing.T) {
	toks := New(`"hello"`, &stubSink{}).ScanTokens()
	assert.Equal(t, "hello", toks[0].Literal)
}

func TestUnterminatedStringReportsError(t *testing.T) {
	sink := &stubSink{}
	scn := New(`"unterminated`, sink)
	toks := scn.ScanTokens()
	assert.Contains(t, sink.reports, "Unterminated string.")
	assert.True(t, scn.HadError())
	assert.Equal(t, token.INVALID, toks[0].Kind)
}

func TestUnexpectedCharacterReportsError(t *testing.T) {
	sink := &stubSink{}
	New("@", sink).ScanTokens()
	assert.Len(t, sink.reports, 1)
}
