// Package grammar holds the interned symbol/body tables, the production
// map, and the FIRST/nullable fixed-point analysis that the meta-parser's
// lowering pass populates and the automaton package consumes.
package grammar

import (
	"fmt"

	"github.com/david-andrew/dewy/internal/dewy/charset"
)

// Production is a single head -> body mapping, named by the interned
// indices of both sides.
type Production struct {
	Head    int
	BodyIdx int
}

func (p Production) String() string {
	return fmt.Sprintf("%d -> %s", p.Head, bodyKeyOrEps(p.BodyIdx))
}

func bodyKeyOrEps(idx int) string {
	if idx == EpsilonBodyIndex {
		return "ϵ"
	}
	return fmt.Sprintf("#%d", idx)
}

// Grammar is the frozen-after-construction table of interned symbols,
// interned bodies, and the productions relating them, plus the
// capture/precedence/reject/nofollow side annotations recorded by the
// lowerer for extended operators whose filter semantics are left to a
// post-parse consumer.
type Grammar struct {
	Symbols *SymbolTable
	Bodies  *BodyTable

	// prods maps a non-terminal head index to the ordered (by insertion)
	// list of body indices produced from it.
	prods map[int][]int
	// prodSeen dedupes AddProduction so repeated insertion of the same
	// head/body pair is idempotent, as required for lowering rules that
	// reuse an already-lowered identifier.
	prodSeen map[int]map[int]bool
	// order is the global insertion order of every (head, bodyIdx) pair,
	// independent of head; AllProductions, Validate and the fingerprint
	// walk productions in this order.
	order []Production

	start      int
	startSet   bool
	startPrime int
	endmarker  int
	finalized  bool

	// Side tables recorded by the lowerer for capture/precedence/reject/
	// nofollow operators (§4.2); enforcement is left to a post-parse
	// consumer, per spec.
	Captures   map[int]bool   // captured symbol (terminal or non-terminal) -> true
	Precedence map[int][2]int // anonymous head -> (higher, lower) operand heads for >/<
	Rejects    map[int][2]int // anonymous head -> (base, rejected) operand heads for A - B
	NoFollows  map[int][2]int // anonymous head -> (base, forbidden) operand heads for A / B
}

// New returns an empty Grammar with fresh interning tables.
func New() *Grammar {
	return &Grammar{
		Symbols:    NewSymbolTable(),
		Bodies:     NewBodyTable(),
		prods:      map[int][]int{},
		prodSeen:   map[int]map[int]bool{},
		Captures:   map[int]bool{},
		Precedence: map[int][2]int{},
		Rejects:    map[int][2]int{},
		NoFollows:  map[int][2]int{},
	}
}

// AddTerm interns a terminal symbol from a charset and returns its index.
func (g *Grammar) AddTerm(label string, cs charset.Set) int {
	return g.Symbols.InternTerminal(cs, label)
}

// AddNonTerminal interns (or finds) the non-terminal named name.
func (g *Grammar) AddNonTerminal(name string) int {
	return g.Symbols.InternNonTerminal(name)
}

// AddRule interns body as a production of the non-terminal named head,
// creating head if it does not already exist. It is idempotent: adding the
// same head/body pair twice has no additional effect, as required for
// lowering to remain stable when re-run over already-lowered productions.
func (g *Grammar) AddRule(head string, body []int) Production {
	headIdx := g.AddNonTerminal(head)
	return g.AddProduction(headIdx, body)
}

// AddProduction interns body and inserts it as a production of headIdx,
// deduplicating via the interned body-set.
func (g *Grammar) AddProduction(headIdx int, body []int) Production {
	bodyIdx := g.Bodies.Intern(body)

	if g.prodSeen[headIdx] == nil {
		g.prodSeen[headIdx] = map[int]bool{}
	}
	p := Production{Head: headIdx, BodyIdx: bodyIdx}
	if g.prodSeen[headIdx][bodyIdx] {
		return p
	}
	g.prodSeen[headIdx][bodyIdx] = true
	g.prods[headIdx] = append(g.prods[headIdx], bodyIdx)
	g.order = append(g.order, p)
	return p
}

// SetStart records which non-terminal the grammar starts from.
func (g *Grammar) SetStart(nt int) {
	g.start = nt
	g.startSet = true
}

// StartSymbol returns the grammar's start non-terminal index.
func (g *Grammar) StartSymbol() int {
	return g.start
}

// IsTerminal reports whether idx names a terminal symbol.
func (g *Grammar) IsTerminal(idx int) bool {
	return g.Symbols.IsTerminal(idx)
}

// Productions returns the ordered body indices produced by headIdx.
func (g *Grammar) Productions(headIdx int) []int {
	return g.prods[headIdx]
}

// AllProductions returns every production in the grammar in insertion
// order.
func (g *Grammar) AllProductions() []Production {
	return g.order
}

// NonTerminals returns every interned non-terminal index, in order of
// interning.
func (g *Grammar) NonTerminals() []int {
	var out []int
	for i := 0; i < g.Symbols.Len(); i++ {
		if !g.Symbols.IsTerminal(i) {
			out = append(out, i)
		}
	}
	return out
}

// Terminals returns every interned terminal index, in order of interning.
func (g *Grammar) Terminals() []int {
	var out []int
	for i := 0; i < g.Symbols.Len(); i++ {
		if g.Symbols.IsTerminal(i) {
			out = append(out, i)
		}
	}
	return out
}

// Finalize appends the augmented start rule start' -> start $ and interns
// the distinguished endmarker terminal. It must be called exactly once,
// after every rule has been lowered and added, and before FIRST/nullable
// analysis or itemset construction run.
func (g *Grammar) Finalize() error {
	if g.finalized {
		return fmt.Errorf("dewy/grammar: Finalize called twice")
	}
	if !g.startSet {
		return fmt.Errorf("dewy/grammar: no start symbol set")
	}

	g.endmarker = g.Symbols.InternTerminal(charset.Single(charset.EndOfInput), EndmarkerName)
	g.startPrime = g.Symbols.InternNonTerminal(AugmentedStartName)
	g.AddProduction(g.startPrime, []int{g.start, g.endmarker})

	g.finalized = true
	return nil
}

// AugmentedStart returns the index of start', valid only after Finalize.
func (g *Grammar) AugmentedStart() int {
	return g.startPrime
}

// Endmarker returns the index of the distinguished $ terminal, valid only
// after Finalize.
func (g *Grammar) Endmarker() int {
	return g.endmarker
}

// Finalized reports whether Finalize has already run.
func (g *Grammar) Finalized() bool {
	return g.finalized
}

// Validate checks the structural invariants a grammar must satisfy before
// analysis can proceed: at least one terminal, at least one rule, a start
// symbol that has been set, and every production body referencing only
// interned symbols.
func (g *Grammar) Validate() error {
	if g.Symbols.Len() == 0 {
		return fmt.Errorf("dewy/grammar: empty grammar (no symbols)")
	}
	if len(g.Terminals()) == 0 {
		return fmt.Errorf("dewy/grammar: grammar has no terminals")
	}
	if len(g.order) == 0 {
		return fmt.Errorf("dewy/grammar: grammar has no rules")
	}
	if !g.startSet {
		return fmt.Errorf("dewy/grammar: grammar has no start symbol")
	}
	for _, p := range g.order {
		for _, sym := range g.Bodies.Get(p.BodyIdx) {
			if sym < 0 || sym >= g.Symbols.Len() {
				return fmt.Errorf("dewy/grammar: production %s references unknown symbol %d", p, sym)
			}
		}
	}
	return nil
}

// Fingerprint returns a stable digest of the finalized grammar's interned
// tables, productions, and start symbol, for use as a cache-key guard (see
// automaton.Table's serialization round-trip): a rezi-serialized table is
// only trusted if the fingerprint of the grammar that produced it matches
// the fingerprint of the grammar currently being compiled.
func (g *Grammar) Fingerprint() (string, error) {
	return fingerprint(g)
}
