package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ralph-lang/ralphc/internal/token"
)

func scanTypes(t *testing.T, src string) []token.Type {
	t.Helper()
	toks, errs := New(src).Scan()
	assert.Empty(t, errs)
	types := make([]token.Type, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	return types
}

func TestScanKeywordsAndPunctuation(t *testing.T) {
	types := scanTypes(t, `Contract Foo(mut a: U256) { pub fn bar() -> U256 { return a } }`)
	assert.Equal(t, token.CONTRACT, types[0])
	assert.Contains(t, types, token.MUT)
	assert.Contains(t, types, token.PUB)
	assert.Contains(t, types, token.FN)
	assert.Contains(t, types, token.ARROW)
	assert.Equal(t, token.EOF, types[len(types)-1])
}

func TestScanPanicAndAssertBang(t *testing.T) {
	toks, errs := New(`panic!(1) assert!(true)`).Scan()
	assert.Empty(t, errs)
	assert.Equal(t, token.PANIC, toks[0].Type)
	assert.Equal(t, "panic!", toks[0].Lexeme)
	var sawAssert bool
	for _, tok := range toks {
		if tok.Type == token.ASSERT {
			sawAssert = true
		}
	}
	assert.True(t, sawAssert)
}

func TestScanNumberSuffixes(t *testing.T) {
	toks, errs := New(`1000u -5i 0xFF`).Scan()
	assert.Empty(t, errs)
	assert.Equal(t, "1000u", toks[0].Lexeme)
	assert.Equal(t, token.MINUS, toks[1].Type)
	assert.Equal(t, "5i", toks[2].Lexeme)
	assert.Equal(t, "0xFF", toks[3].Lexeme)
}

func TestScanHexBytesAndAddress(t *testing.T) {
	toks, errs := New(`#deadbeef @1DrDyTr9RpRsQnDnyTuCAAmFsmAvzgmvq8fdS8VVDtDyw`).Scan()
	assert.Empty(t, errs)
	assert.Equal(t, token.HEX_BYTES, toks[0].Type)
	assert.Equal(t, "deadbeef", toks[0].Lexeme)
	assert.Equal(t, token.ADDRESS, toks[1].Type)
}

func TestScanOperators(t *testing.T) {
	toks, errs := New(`** |**| << >> && || -> =>`).Scan()
	assert.Empty(t, errs)
	want := []token.Type{token.STAR_STAR, token.PIPE_STAR_PIPE, token.SHL, token.SHR, token.AND_AND, token.OR_OR, token.ARROW, token.FAT_ARROW, token.EOF}
	for i, w := range want {
		assert.Equal(t, w, toks[i].Type, "token %d", i)
	}
}

func TestScanDocComment(t *testing.T) {
	toks, errs := New("/// doc\nlet x = 1;").Scan()
	assert.Empty(t, errs)
	assert.Equal(t, token.DOC_COMMENT, toks[0].Type)
}

func TestScanUnterminatedStringReportsError(t *testing.T) {
	_, errs := New(`"unterminated`).Scan()
	assert.NotEmpty(t, errs)
}
