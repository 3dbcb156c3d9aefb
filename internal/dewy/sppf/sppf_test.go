package sppf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_AddLeaf_InternsByPositionAndRune(t *testing.T) {
	assert := assert.New(t)
	f := New()

	a := f.AddLeaf(0, 'a')
	b := f.AddLeaf(0, 'a')
	c := f.AddLeaf(1, 'a')

	assert.Equal(a, b)
	assert.NotEqual(a, c)
}

func Test_AddSymbolNode_InternsByHeadAndSpan(t *testing.T) {
	assert := assert.New(t)
	f := New()

	n1 := f.AddSymbolNode(5, 0, 2)
	n2 := f.AddSymbolNode(5, 0, 2)
	n3 := f.AddSymbolNode(5, 0, 3)

	assert.Equal(n1, n2)
	assert.NotEqual(n1, n3)
}

func Test_AddFamily_PacksAmbiguousDerivations(t *testing.T) {
	assert := assert.New(t)
	f := New()

	leafA := f.AddLeaf(0, 'a')
	leafB := f.AddLeaf(1, 'b')
	node := f.AddSymbolNode(1, 0, 2)

	f.AddFamily(node, 10, []int{leafA, leafB})
	assert.False(f.IsAmbiguous(node))

	f.AddFamily(node, 11, []int{leafB, leafA})
	assert.True(f.IsAmbiguous(node))
	assert.Len(f.Families(node), 2)

	// adding the exact same family again must not create a third entry
	f.AddFamily(node, 10, []int{leafA, leafB})
	assert.Len(f.Families(node), 2)
}

func Test_AddNullableString_EmptyReturnsRootEpsilon(t *testing.T) {
	assert := assert.New(t)
	f := New()
	assert.Equal(f.RootEpsilon(), f.AddNullableString(nil))
}

func Test_AddNullableString_SharesSingleSymbolSubnodes(t *testing.T) {
	assert := assert.New(t)
	f := New()

	n1 := f.AddNullableString([]int{3, 4})
	fams := f.Families(n1)
	assert.Len(fams, 1)
	assert.Len(fams[0].Children, 2)

	// requesting the same sequence again must reuse the interned node
	n2 := f.AddNullableString([]int{3, 4})
	assert.Equal(n1, n2)

	// the single-symbol nullable node for 3 must be reachable and shared
	single := f.AddNullableString([]int{3})
	assert.Equal(single, fams[0].Children[0])
}

func Test_Dump_RendersNonEmptyOutput(t *testing.T) {
	assert := assert.New(t)
	f := New()
	leaf := f.AddLeaf(0, 'x')
	node := f.AddSymbolNode(1, 0, 1)
	f.AddFamily(node, 0, []int{leaf})

	out := f.Dump(node)
	assert.NotEmpty(out)
	assert.Contains(out, "sym(1, 0..1)")
}
