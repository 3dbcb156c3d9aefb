package meta

import (
	"fmt"
	"strconv"

	"github.com/david-andrew/dewy/internal/dewy/charset"
)

// ParseError is a fatal, unrecoverable meta-parse failure.
type ParseError struct {
	Pos, Line, Col int
	Msg            string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse-fail at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Parser is a recursive-descent parser over a meta-token stream, turning
// Dewy grammar source into a list of Rule definitions. Precedence, loosest
// to tightest: alternation (|), binary set algebra (- & / > <, left
// associative, all one precedence level), concatenation (juxtaposition),
// prefix unary (~ &), postfix repetition (* + ? {n}), atom.
type Parser struct {
	ts *TokenStream
}

// NewParser builds a Parser over the full token stream (trivia included)
// produced by Scanner.All.
func NewParser(toks []Token) *Parser {
	return &Parser{ts: NewTokenStream(toks)}
}

// ParseProgram parses a full Dewy grammar source file into its list of
// rule definitions, in source order.
func (p *Parser) ParseProgram() ([]Rule, error) {
	var rules []Rule
	for !p.ts.AtEnd() {
		rule, err := p.parseRule()
		if err != nil {
			return rules, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (p *Parser) errorAt(tok Token, msg string) error {
	return &ParseError{Pos: tok.Pos, Line: tok.Line, Col: tok.Col, Msg: msg}
}

func (p *Parser) parseRule() (Rule, error) {
	hashTok, ok := p.ts.NextOfType(TokHashtag)
	if !ok {
		tok, _ := p.ts.Peek()
		return Rule{}, p.errorAt(tok, "expected rule name (#identifier)")
	}
	name := hashTok.Text[1:] // strip leading '#'

	if _, ok := p.ts.NextOfType(TokEquals); !ok {
		tok, _ := p.ts.Peek()
		return Rule{}, p.errorAt(tok, "expected '=' after rule name")
	}

	body, err := p.parseOr()
	if err != nil {
		return Rule{}, err
	}

	if _, ok := p.ts.NextOfType(TokSemicolon); !ok {
		tok, _ := p.ts.Peek()
		return Rule{}, p.errorAt(tok, "expected ';' to terminate rule")
	}

	return Rule{Name: name, Body: Fold(body)}, nil
}

func (p *Parser) parseOr() (*Node, error) {
	first, err := p.parseSetOp()
	if err != nil {
		return nil, err
	}
	items := []*Node{first}
	for p.ts.IsTypeAt(0, TokVerticalBar) {
		p.ts.NextReal()
		next, err := p.parseSetOp()
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return &Node{Kind: NodeOr, Items: items}, nil
}

var setOpKinds = map[TokenKind]func(l, r *Node) *Node{
	TokMinus:        RejectNode,
	TokAmpersand:    IntersectNode,
	TokForwardSlash: NoFollowNode,
	TokGreater:      GreaterThanNode,
	TokLess:         LessThanNode,
}

func (p *Parser) parseSetOp() (*Node, error) {
	left, err := p.parseCat()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.ts.Peek()
		if !ok {
			break
		}
		ctor, isSetOp := setOpKinds[tok.Kind]
		if !isSetOp {
			break
		}
		p.ts.NextReal()
		right, err := p.parseCat()
		if err != nil {
			return nil, err
		}
		left = ctor(left, right)
	}
	return left, nil
}

// catStopKinds are tokens that can never begin a new concatenation operand,
// marking the end of the current run of juxtaposed atoms.
var catStopKinds = map[TokenKind]bool{
	TokVerticalBar:  true,
	TokMinus:        true,
	TokAmpersand:    true,
	TokForwardSlash: true,
	TokGreater:      true,
	TokLess:         true,
	TokSemicolon:    true,
	TokRightParen:   true,
	TokRightBracket: true,
	TokRightBrace:   true,
}

func (p *Parser) parseCat() (*Node, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	items := []*Node{first}
	for {
		tok, ok := p.ts.Peek()
		if !ok || catStopKinds[tok.Kind] {
			break
		}
		next, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return &Node{Kind: NodeCat, Items: items}, nil
}

func (p *Parser) parseUnary() (*Node, error) {
	tok, ok := p.ts.Peek()
	if ok && tok.Kind == TokTilde {
		p.ts.NextReal()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ComplimentNode(inner), nil
	}
	if ok && tok.Kind == TokAmpersand && p.ts.IsTypeAt(1, TokLeftParen) {
		p.ts.NextReal()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return CaptureNode(inner), nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (*Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.ts.Peek()
		if !ok {
			break
		}
		switch tok.Kind {
		case TokStar:
			p.ts.NextReal()
			atom = StarNode(atom)
		case TokPlus:
			p.ts.NextReal()
			atom = PlusNode(atom)
		case TokQuestion:
			p.ts.NextReal()
			atom = OptionNode(atom)
		case TokLeftBrace:
			if !p.ts.IsTypeAt(1, TokDecNumber) {
				return atom, nil
			}
			p.ts.NextReal() // '{'
			numTok, _ := p.ts.NextOfType(TokDecNumber)
			if _, ok := p.ts.NextOfType(TokRightBrace); !ok {
				t, _ := p.ts.Peek()
				return nil, p.errorAt(t, "expected '}' to close repetition count")
			}
			n, convErr := strconv.Atoi(numTok.Text)
			if convErr != nil {
				return nil, p.errorAt(numTok, "invalid repetition count")
			}
			atom = CountNode(atom, n)
		default:
			return atom, nil
		}
	}
	return atom, nil
}

func (p *Parser) parseAtom() (*Node, error) {
	tok, ok := p.ts.Peek()
	if !ok {
		return nil, p.errorAt(Token{}, "unexpected end of input")
	}

	switch tok.Kind {
	case TokLeftParen:
		p.ts.NextReal()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, ok := p.ts.NextOfType(TokRightParen); !ok {
			t, _ := p.ts.Peek()
			return nil, p.errorAt(t, "expected ')'")
		}
		return inner, nil

	case TokSingleQuote:
		return p.parseQuotedString(TokSingleQuote)

	case TokDoubleQuote:
		return p.parseQuotedString(TokDoubleQuote)

	case TokLeftBrace:
		return p.parseCaselessString()

	case TokLeftBracket:
		return p.parseCharsetBody()

	case TokAnyset:
		p.ts.NextReal()
		return CharsetNode(charset.Any()), nil

	case TokEpsilon:
		p.ts.NextReal()
		return Eps(), nil

	case TokDollar:
		p.ts.NextReal()
		return IdentifierNode("$"), nil

	case TokHashtag:
		p.ts.NextReal()
		return IdentifierNode(tok.Text[1:]), nil

	case TokHexNumber:
		p.ts.NextReal()
		return StringNode([]rune{HexValue(tok.Text)}), nil

	case TokDecNumber:
		p.ts.NextReal()
		n, err := strconv.Atoi(tok.Text)
		if err != nil {
			return nil, p.errorAt(tok, "invalid decimal codepoint literal")
		}
		return StringNode([]rune{rune(n)}), nil
	}

	return nil, p.errorAt(tok, fmt.Sprintf("unexpected token %s", tok))
}

// parseQuotedString consumes the already-peeked opening quote and every
// char/escape/hex-number token up to (and consuming) the matching closer.
func (p *Parser) parseQuotedString(quoteKind TokenKind) (*Node, error) {
	p.ts.NextReal() // opening quote
	var runes []rune
	for {
		tok, ok := p.ts.Peek()
		if !ok {
			return nil, p.errorAt(tok, "unterminated string literal")
		}
		if tok.Kind == quoteKind {
			p.ts.NextReal()
			return StringNode(runes), nil
		}
		r, err := p.decodeCharLike(tok)
		if err != nil {
			return nil, err
		}
		runes = append(runes, r)
		p.ts.NextReal()
	}
}

func (p *Parser) parseCaselessString() (*Node, error) {
	p.ts.NextReal() // '{'
	var runes []rune
	for {
		tok, ok := p.ts.Peek()
		if !ok {
			return nil, p.errorAt(tok, "unterminated caseless string")
		}
		if tok.Kind == TokRightBrace {
			p.ts.NextReal()
			return CaselessNode(runes), nil
		}
		r, err := p.decodeCharLike(tok)
		if err != nil {
			return nil, err
		}
		runes = append(runes, r)
		p.ts.NextReal()
	}
}

// parseCharsetBody consumes `[` ... `]`, building a charset.Set out of
// single chars, escapes, hex-number literals, and `lo-hi` ranges.
func (p *Parser) parseCharsetBody() (*Node, error) {
	p.ts.NextReal() // '['
	var ranges []charset.Range
	for {
		tok, ok := p.ts.Peek()
		if !ok {
			return nil, p.errorAt(tok, "unterminated charset")
		}
		if tok.Kind == TokRightBracket {
			p.ts.NextReal()
			return CharsetNode(charset.New(ranges...)), nil
		}

		lo, err := p.decodeCharLike(tok)
		if err != nil {
			return nil, err
		}
		p.ts.NextReal()

		if p.ts.IsTypeAt(0, TokMinus) {
			p.ts.NextReal()
			hiTok, ok := p.ts.Peek()
			if !ok {
				return nil, p.errorAt(hiTok, "expected range upper bound")
			}
			hi, err := p.decodeCharLike(hiTok)
			if err != nil {
				return nil, err
			}
			p.ts.NextReal()
			ranges = append(ranges, charset.Range{Lo: lo, Hi: hi})
		} else {
			ranges = append(ranges, charset.Range{Lo: lo, Hi: lo})
		}
	}
}

func (p *Parser) decodeCharLike(tok Token) (rune, error) {
	switch tok.Kind {
	case TokChar:
		return []rune(tok.Text)[0], nil
	case TokEscape:
		return EscapedRune(tok.Text), nil
	case TokHexNumber:
		return HexValue(tok.Text), nil
	}
	return 0, p.errorAt(tok, fmt.Sprintf("expected a character, got %s", tok))
}
