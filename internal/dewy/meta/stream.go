package meta

// TokenStream is a cursor over a token slice that understands trivia
// (whitespace and comments) well enough to skip it on request while still
// letting callers address tokens by their raw (trivia-inclusive) index
// for position reporting, mirroring the original scanner's token-stream
// helpers (get_next_real_token, get_next_token_of_type, is_token_i_of_type,
// get_matching_pair_type).
type TokenStream struct {
	toks []Token
	pos  int
}

// NewTokenStream wraps a raw token slice (as produced by Scanner.All,
// trivia included) for parser consumption.
func NewTokenStream(toks []Token) *TokenStream {
	return &TokenStream{toks: toks}
}

func (ts *TokenStream) AtEnd() bool {
	return ts.realIndexFrom(ts.pos) >= len(ts.toks)
}

// realIndexFrom returns the index of the first non-trivia token at or
// after i, or len(ts.toks) if none remains.
func (ts *TokenStream) realIndexFrom(i int) int {
	for i < len(ts.toks) && ts.toks[i].IsTrivia() {
		i++
	}
	return i
}

// NextReal consumes and returns the next non-trivia token, advancing the
// cursor past it (and any trivia that preceded it). The second return is
// false once the stream is exhausted.
func (ts *TokenStream) NextReal() (Token, bool) {
	i := ts.realIndexFrom(ts.pos)
	if i >= len(ts.toks) {
		ts.pos = i
		return Token{}, false
	}
	ts.pos = i + 1
	return ts.toks[i], true
}

// Peek returns the next non-trivia token without consuming it.
func (ts *TokenStream) Peek() (Token, bool) {
	i := ts.realIndexFrom(ts.pos)
	if i >= len(ts.toks) {
		return Token{}, false
	}
	return ts.toks[i], true
}

// PeekAt returns the k-th non-trivia token from the current cursor
// (0-indexed, 0 == Peek()) without consuming anything.
func (ts *TokenStream) PeekAt(k int) (Token, bool) {
	i := ts.pos
	for count := 0; ; count++ {
		i = ts.realIndexFrom(i)
		if i >= len(ts.toks) {
			return Token{}, false
		}
		if count == k {
			return ts.toks[i], true
		}
		i++
	}
}

// IsTypeAt reports whether the k-th upcoming non-trivia token has the
// given kind.
func (ts *TokenStream) IsTypeAt(k int, kind TokenKind) bool {
	tok, ok := ts.PeekAt(k)
	return ok && tok.Kind == kind
}

// NextOfType consumes and returns the next non-trivia token only if it has
// the given kind; otherwise the cursor is left unchanged and ok is false.
func (ts *TokenStream) NextOfType(kind TokenKind) (Token, bool) {
	save := ts.pos
	tok, ok := ts.NextReal()
	if !ok || tok.Kind != kind {
		ts.pos = save
		return Token{}, false
	}
	return tok, true
}

// pairCloser maps an opening delimiter kind to its closer.
var pairCloser = map[TokenKind]TokenKind{
	TokLeftParen:   TokRightParen,
	TokLeftBracket: TokRightBracket,
	TokLeftBrace:   TokRightBrace,
}

// MatchingPair scans forward from an opening delimiter token at raw index
// openRawIdx and returns the raw index of its matching closing delimiter,
// accounting for nesting of the same delimiter kind. ok is false if no
// match is found before the stream ends.
func (ts *TokenStream) MatchingPair(openRawIdx int) (int, bool) {
	if openRawIdx < 0 || openRawIdx >= len(ts.toks) {
		return 0, false
	}
	open := ts.toks[openRawIdx].Kind
	closer, known := pairCloser[open]
	if !known {
		return 0, false
	}

	depth := 1
	for i := openRawIdx + 1; i < len(ts.toks); i++ {
		switch ts.toks[i].Kind {
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// Mark/Reset support backtracking in the recursive-descent parser.
func (ts *TokenStream) Mark() int   { return ts.pos }
func (ts *TokenStream) Reset(m int) { ts.pos = m }
