package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func parseOneRule(t *testing.T, src string) *Node {
	t.Helper()
	s := NewScanner(src)
	toks, err := s.All()
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	p := NewParser(toks)
	rules, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("expected exactly one rule, got %d", len(rules))
	}
	return rules[0].Body
}

func Test_Parser_Concatenation(t *testing.T) {
	assert := assert.New(t)
	body := parseOneRule(t, `#S = 'a' 'b';`)
	assert.Equal(NodeString, body.Kind)
	assert.Equal("ab", string(body.Runes))
}

func Test_Parser_Alternation(t *testing.T) {
	assert := assert.New(t)
	body := parseOneRule(t, `#S = 'a' | 'b';`)
	assert.Equal(NodeCharset, body.Kind)
}

func Test_Parser_StarPlusOption(t *testing.T) {
	assert := assert.New(t)

	star := parseOneRule(t, `#S = 'a'*;`)
	assert.Equal(NodeStar, star.Kind)

	plus := parseOneRule(t, `#S = 'a'+;`)
	assert.Equal(NodePlus, plus.Kind)

	opt := parseOneRule(t, `#S = 'a'?;`)
	assert.Equal(NodeOption, opt.Kind)
}

func Test_Parser_RepetitionCount(t *testing.T) {
	assert := assert.New(t)
	// constant folding merges the three expanded 'a' literals into one string
	body := parseOneRule(t, `#S = 'a'{3};`)
	assert.Equal(NodeString, body.Kind)
	assert.Equal("aaa", string(body.Runes))
}

func Test_Parser_GroupingParens(t *testing.T) {
	assert := assert.New(t)
	body := parseOneRule(t, `#S = ('a' | 'b')*;`)
	assert.Equal(NodeStar, body.Kind)
	assert.Equal(NodeCharset, body.Inner.Kind)
}

func Test_Parser_IdentifierReference(t *testing.T) {
	assert := assert.New(t)
	body := parseOneRule(t, `#S = #A #B;`)
	assert.Equal(NodeCat, body.Kind)
	assert.Equal(NodeIdentifier, body.Items[0].Kind)
	assert.Equal("A", body.Items[0].Name)
	assert.Equal(NodeIdentifier, body.Items[1].Kind)
	assert.Equal("B", body.Items[1].Name)
}

func Test_Parser_SetAlgebraOperators(t *testing.T) {
	assert := assert.New(t)

	reject := parseOneRule(t, `#S = #A - #B;`)
	assert.Equal(NodeReject, reject.Kind)

	nofollow := parseOneRule(t, `#S = #A / #B;`)
	assert.Equal(NodeNoFollow, nofollow.Kind)

	gt := parseOneRule(t, `#S = #A > #B;`)
	assert.Equal(NodeGreaterThan, gt.Kind)
}

func Test_Parser_Compliment(t *testing.T) {
	assert := assert.New(t)
	body := parseOneRule(t, `#S = ~[0-9];`)
	assert.Equal(NodeCharset, body.Kind) // folded: ~[0-9] over a literal charset collapses
}

func Test_Parser_AnysetAndEpsilon(t *testing.T) {
	assert := assert.New(t)

	any := parseOneRule(t, "#S = \\u;")
	assert.Equal(NodeCharset, any.Kind)

	eps := parseOneRule(t, `#S = ϵ;`)
	assert.Equal(NodeEpsilon, eps.Kind)
}

func Test_Parser_CaselessString(t *testing.T) {
	assert := assert.New(t)
	body := parseOneRule(t, `#S = {abc};`)
	assert.Equal(NodeCaseless, body.Kind)
	assert.Equal("abc", string(body.Runes))
}

func Test_Parser_MultipleRules(t *testing.T) {
	assert := assert.New(t)

	s := NewScanner(`#S = #A; #A = 'x';`)
	toks, err := s.All()
	assert.NoError(err)

	p := NewParser(toks)
	rules, err := p.ParseProgram()
	assert.NoError(err)
	assert.Len(rules, 2)
	assert.Equal("S", rules[0].Name)
	assert.Equal("A", rules[1].Name)
}
