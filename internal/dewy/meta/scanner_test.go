package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func kinds(toks []Token) []TokenKind {
	var out []TokenKind
	for _, t := range toks {
		if t.IsTrivia() {
			continue
		}
		out = append(out, t.Kind)
	}
	return out
}

func Test_Scanner_SimpleRule(t *testing.T) {
	assert := assert.New(t)

	s := NewScanner(`#S = 'a' 'b';`)
	toks, err := s.All()
	assert.NoError(err)
	assert.Equal([]TokenKind{
		TokHashtag, TokEquals,
		TokSingleQuote, TokChar, TokSingleQuote,
		TokSingleQuote, TokChar, TokSingleQuote,
		TokSemicolon,
	}, kinds(toks))
}

func Test_Scanner_Charset(t *testing.T) {
	assert := assert.New(t)

	s := NewScanner(`#digit = [0-9];`)
	toks, err := s.All()
	assert.NoError(err)
	assert.Equal([]TokenKind{
		TokHashtag, TokEquals,
		TokLeftBracket, TokChar, TokMinus, TokChar, TokRightBracket,
		TokSemicolon,
	}, kinds(toks))
}

func Test_Scanner_MetafuncArgsMode(t *testing.T) {
	assert := assert.New(t)

	s := NewScanner(`#foo(#bar);`)
	toks, err := s.All()
	assert.NoError(err)
	assert.Equal([]TokenKind{
		TokHashtag, TokLeftParen, TokHashtag, TokRightParen, TokSemicolon,
	}, kinds(toks))
}

func Test_Scanner_ScanFailReportsPosition(t *testing.T) {
	assert := assert.New(t)

	s := NewScanner(`!`)
	_, err := s.All()
	assert.Error(err)
	var scanErr *ScanError
	assert.ErrorAs(err, &scanErr)
	assert.Equal('!', scanErr.Offending)
	assert.Equal(0, scanErr.Pos)
}

func Test_Scanner_UnterminatedStringIsScanFail(t *testing.T) {
	assert := assert.New(t)

	s := NewScanner(`#S = 'a`)
	_, err := s.All()
	assert.Error(err)
	var scanErr *ScanError
	assert.ErrorAs(err, &scanErr)
}

func Test_Scanner_NestedStringModesRestoreCorrectly(t *testing.T) {
	assert := assert.New(t)

	s := NewScanner(`#S = "ab" [c-d] {Ef};`)
	toks, err := s.All()
	assert.NoError(err)
	assert.Equal([]TokenKind{
		TokHashtag, TokEquals,
		TokDoubleQuote, TokChar, TokChar, TokDoubleQuote,
		TokLeftBracket, TokChar, TokMinus, TokChar, TokRightBracket,
		TokLeftBrace, TokChar, TokChar, TokRightBrace,
		TokSemicolon,
	}, kinds(toks))
}
