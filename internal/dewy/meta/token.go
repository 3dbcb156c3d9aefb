// Package meta implements the meta-scanner, meta-parser, constant-folding,
// and lowering stages that turn Dewy grammar source text into productions
// inserted into a grammar.Grammar.
package meta

import "fmt"

// TokenKind enumerates every meta-token kind the scanner can produce.
type TokenKind int

const (
	TokHashtag TokenKind = iota
	TokSingleQuote
	TokDoubleQuote
	TokChar
	TokEscape
	TokHexNumber
	TokDecNumber
	TokAnyset
	TokEpsilon
	TokDollar
	TokAmpersand
	TokPeriod
	TokStar
	TokPlus
	TokQuestion
	TokTilde
	TokSemicolon
	TokVerticalBar
	TokMinus
	TokForwardSlash
	TokGreater
	TokLess
	TokEquals
	TokLeftParen
	TokRightParen
	TokLeftBracket
	TokRightBracket
	TokLeftBrace
	TokRightBrace
	TokWhitespace
	TokComment
	TokEOF
)

var tokenKindNames = map[TokenKind]string{
	TokHashtag:      "hashtag",
	TokSingleQuote:  "single_quote",
	TokDoubleQuote:  "double_quote",
	TokChar:         "char",
	TokEscape:       "escape",
	TokHexNumber:    "hex_number",
	TokDecNumber:    "dec_number",
	TokAnyset:       "anyset",
	TokEpsilon:      "epsilon",
	TokDollar:       "dollar",
	TokAmpersand:    "ampersand",
	TokPeriod:       "period",
	TokStar:         "star",
	TokPlus:         "plus",
	TokQuestion:     "question",
	TokTilde:        "tilde",
	TokSemicolon:    "semicolon",
	TokVerticalBar:  "vertical_bar",
	TokMinus:        "minus",
	TokForwardSlash: "forward_slash",
	TokGreater:      "greater",
	TokLess:         "less",
	TokEquals:       "equals",
	TokLeftParen:    "left_paren",
	TokRightParen:   "right_paren",
	TokLeftBracket:  "left_bracket",
	TokRightBracket: "right_bracket",
	TokLeftBrace:    "left_brace",
	TokRightBrace:   "right_brace",
	TokWhitespace:   "whitespace",
	TokComment:      "comment",
	TokEOF:          "eof",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a single lexeme produced by the meta-scanner.
type Token struct {
	Kind TokenKind
	Text string // the literal text as it appeared in source, delimiters included
	Pos  int    // rune (not byte) offset of the first rune of the token
	Line int    // 1-indexed line number
	Col  int    // 1-indexed column (rune, not byte) within the line
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Text, t.Line, t.Col)
}

// IsTrivia reports whether t is whitespace or a comment: tokens that
// survive in the stream only to preserve source positions and are
// otherwise ignored by the parser.
func (t Token) IsTrivia() bool {
	return t.Kind == TokWhitespace || t.Kind == TokComment
}

// ScanError is a fatal, unrecoverable scan failure: no matcher in the
// scanner's current mode accepted the next character.
type ScanError struct {
	Pos, Line, Col int
	Offending      rune
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan-fail at %d:%d: unexpected character %q", e.Line, e.Col, e.Offending)
}
