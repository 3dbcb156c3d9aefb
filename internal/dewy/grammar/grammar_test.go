package grammar

import (
	"testing"

	"github.com/david-andrew/dewy/internal/dewy/charset"
	"github.com/stretchr/testify/assert"
)

func Test_Grammar_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		build     func(g *Grammar)
		expectErr bool
	}{
		{
			name:      "empty grammar",
			build:     func(g *Grammar) {},
			expectErr: true,
		},
		{
			name: "no rules in grammar",
			build: func(g *Grammar) {
				g.AddTerm("int", charset.New(charset.Range{'0', '9'}))
			},
			expectErr: true,
		},
		{
			name: "no terminals in grammar",
			build: func(g *Grammar) {
				s := g.AddNonTerminal("S")
				g.AddProduction(s, []int{s})
				g.SetStart(s)
			},
			expectErr: true,
		},
		{
			name: "single rule grammar",
			build: func(g *Grammar) {
				term := g.AddTerm("int", charset.New(charset.Range{'0', '9'}))
				s := g.AddNonTerminal("S")
				g.AddProduction(s, []int{term})
				g.SetStart(s)
			},
			expectErr: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := New()
			tc.build(g)

			actual := g.Validate()
			if tc.expectErr {
				assert.Error(actual)
			} else {
				assert.NoError(actual)
			}
		})
	}
}

func Test_Grammar_AddRule_Idempotent(t *testing.T) {
	assert := assert.New(t)

	g := New()
	a := g.AddTerm("a", charset.Single('a'))
	p1 := g.AddRule("S", []int{a, a})
	p2 := g.AddRule("S", []int{a, a})

	assert.Equal(p1.BodyIdx, p2.BodyIdx)

	s, _ := g.Symbols.NonTerminalNamed("S")
	assert.Len(g.Productions(s), 1)
}

func Test_Analyze_NullableCascade(t *testing.T) {
	// A -> B; B -> C; C -> ϵ
	assert := assert.New(t)

	g := New()
	term := g.AddTerm("x", charset.Single('x'))
	a := g.AddNonTerminal("A")
	b := g.AddNonTerminal("B")
	c := g.AddNonTerminal("C")
	g.AddProduction(a, []int{b})
	g.AddProduction(b, []int{c})
	g.AddProduction(c, nil)
	g.SetStart(a)
	_ = term

	analysis := Analyze(g)
	assert.True(analysis.IsNullable(a))
	assert.True(analysis.IsNullable(b))
	assert.True(analysis.IsNullable(c))
}

func Test_Analyze_FirstSet(t *testing.T) {
	// S -> A B; A -> 'a' | ϵ; B -> 'b'
	assert := assert.New(t)

	g := New()
	ta := g.AddTerm("a", charset.Single('a'))
	tb := g.AddTerm("b", charset.Single('b'))
	s := g.AddNonTerminal("S")
	a := g.AddNonTerminal("A")
	b := g.AddNonTerminal("B")

	g.AddProduction(s, []int{a, b})
	g.AddProduction(a, []int{ta})
	g.AddProduction(a, nil)
	g.AddProduction(b, []int{tb})
	g.SetStart(s)

	analysis := Analyze(g)

	firstS := analysis.FirstOfSymbol(s)
	assert.True(firstS.Terminals[ta])
	assert.True(firstS.Terminals[tb])
	assert.False(firstS.Nullable)
	assert.True(analysis.IsNullable(a))
}

func Test_Grammar_Finalize(t *testing.T) {
	assert := assert.New(t)

	g := New()
	ta := g.AddTerm("a", charset.Single('a'))
	s := g.AddNonTerminal("S")
	g.AddProduction(s, []int{ta})
	g.SetStart(s)

	assert.NoError(g.Finalize())
	assert.True(g.Symbols.IsTerminal(g.Endmarker()))

	bodies := g.Productions(g.AugmentedStart())
	assert.Len(bodies, 1)
	body := g.Bodies.Get(bodies[0])
	assert.Equal([]int{s, g.Endmarker()}, []int(body))
}
