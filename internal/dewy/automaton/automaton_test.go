package automaton

import (
	"testing"

	"github.com/david-andrew/dewy/internal/dewy/charset"
	"github.com/david-andrew/dewy/internal/dewy/grammar"
	"github.com/stretchr/testify/assert"
)

// fakeRegistrar is a NullableRegistrar stand-in that records each call and
// returns the call count, for tests that don't need real SPPF nullable nodes.
type fakeRegistrar struct {
	calls [][]int
}

func (f *fakeRegistrar) AddNullableString(syms []int) int {
	f.calls = append(f.calls, syms)
	return len(f.calls)
}

// buildSimple returns a finalized grammar for #S = 'a' 'b'; plus its
// analysis, a minimal but realistic fixture for automaton construction.
func buildSimple(t *testing.T) (*grammar.Grammar, *grammar.Analysis) {
	t.Helper()
	g := grammar.New()
	a := g.AddTerm("a", charset.Single('a'))
	b := g.AddTerm("b", charset.Single('b'))
	s := g.AddNonTerminal("S")
	g.AddProduction(s, []int{a, b})
	g.SetStart(s)
	if err := g.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return g, grammar.Analyze(g)
}

func Test_Build_SimpleConcatenation(t *testing.T) {
	assert := assert.New(t)
	g, an := buildSimple(t)

	reg := &fakeRegistrar{}
	_, table, err := Build(g, an, reg)
	assert.NoError(err)

	// state 0 should push on some terminal ('a' is the only one that can begin S)
	a, _ := g.Symbols.Get(0), true
	_ = a
	terminals := g.Terminals()
	assert.Len(terminals, 3) // a, b, endmarker

	pushed := false
	for _, term := range terminals {
		if _, ok := table.Push(0, term); ok {
			pushed = true
		}
	}
	assert.True(pushed)
}

func Test_Build_AcceptsEmptyLanguageWithNullableStart(t *testing.T) {
	assert := assert.New(t)

	g := grammar.New()
	term := g.AddTerm("x", charset.Single('x'))
	s := g.AddNonTerminal("S")
	g.AddProduction(s, nil) // S -> ϵ
	g.SetStart(s)
	_ = term
	assert.NoError(g.Finalize())

	an := grammar.Analyze(g)
	reg := &fakeRegistrar{}
	a, table, err := Build(g, an, reg)
	assert.NoError(err)
	assert.NotEmpty(a.Itemsets())

	// state 0 should accept on endmarker, since S is immediately nullable
	accepted := false
	for _, act := range table.Actions(0, g.Endmarker()) {
		if act.Kind == ActionAccept {
			accepted = true
		}
	}
	assert.True(accepted)
}

func Test_Closure_ExpandsNonTerminal(t *testing.T) {
	assert := assert.New(t)
	g, an := buildSimple(t)

	startBodies := g.Productions(g.AugmentedStart())
	kernel := newItemSet()
	kernel.add(Item{Head: g.AugmentedStart(), BodyIdx: startBodies[0], Position: 0, Lookahead: g.Endmarker()}, map[string]bool{})

	closure := Closure(g, an, kernel)
	assert.True(len(closure.Items) >= 2) // kernel item + expanded S production
}
