package meta

import (
	"testing"

	"github.com/david-andrew/dewy/internal/dewy/charset"
	"github.com/stretchr/testify/assert"
)

func Test_Fold_ComplimentOfCompliment(t *testing.T) {
	assert := assert.New(t)
	n := ComplimentNode(ComplimentNode(CharsetNode(charset.New(charset.Range{Lo: 'a', Hi: 'z'}))))
	folded := Fold(n)
	assert.Equal(NodeCharset, folded.Kind)
	assert.True(folded.Charset.Equal(charset.New(charset.Range{Lo: 'a', Hi: 'z'})))
}

func Test_Fold_IntersectAndRejectOfCharsets(t *testing.T) {
	assert := assert.New(t)

	ab := charset.New(charset.Range{Lo: 'a', Hi: 'b'})
	bc := charset.New(charset.Range{Lo: 'b', Hi: 'c'})

	inter := Fold(IntersectNode(CharsetNode(ab), CharsetNode(bc)))
	assert.Equal(NodeCharset, inter.Kind)
	assert.True(inter.Charset.Equal(charset.Single('b')))

	rej := Fold(RejectNode(CharsetNode(ab), CharsetNode(bc)))
	assert.Equal(NodeCharset, rej.Kind)
	assert.True(rej.Charset.Equal(charset.Single('a')))
}

func Test_Fold_CatFlattensAndMergesStrings(t *testing.T) {
	assert := assert.New(t)

	n := CatNode(StringNode([]rune("ab")), CatNode(StringNode([]rune("cd")), Eps()))
	folded := Fold(n)
	assert.Equal(NodeString, folded.Kind)
	assert.Equal("abcd", string(folded.Runes))
}

func Test_Fold_OrFlattensAndMergesCharsets(t *testing.T) {
	assert := assert.New(t)

	n := OrNode(
		CharsetNode(charset.Single('a')),
		OrNode(CharsetNode(charset.Single('b')), IdentifierNode("X")),
	)
	folded := Fold(n)
	assert.Equal(NodeOr, folded.Kind)
	assert.Len(folded.Items, 2)
	assert.Equal(NodeCharset, folded.Items[0].Kind)
	assert.True(folded.Items[0].Charset.Equal(charset.New(charset.Range{Lo: 'a', Hi: 'b'})))
	assert.Equal(NodeIdentifier, folded.Items[1].Kind)
}

func Test_Fold_ZeroAndOneCountsAndEpsilonOptionCollapse(t *testing.T) {
	assert := assert.New(t)

	zero := Fold(CountNode(CharsetNode(charset.Single('a')), 0))
	assert.Equal(NodeEpsilon, zero.Kind)

	one := Fold(CountNode(CharsetNode(charset.Single('a')), 1))
	assert.Equal(NodeCharset, one.Kind)

	opt := Fold(OptionNode(Eps()))
	assert.Equal(NodeEpsilon, opt.Kind)
}
