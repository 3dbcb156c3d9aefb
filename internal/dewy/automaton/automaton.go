package automaton

import "github.com/david-andrew/dewy/internal/dewy/grammar"

// NullableRegistrar is implemented by the SPPF forest: the table builder
// registers the nullable symbol suffix of every right-nulled reduction so
// the driver can graft a pre-built nullable subtree onto the reduction's
// children instead of deriving it at parse time.
type NullableRegistrar interface {
	AddNullableString(syms []int) int
}

// Automaton holds every canonical LR(1) itemset discovered for a grammar,
// in discovery order, with state 0 always the closure of the augmented
// start item.
type Automaton struct {
	g        *grammar.Grammar
	an       *grammar.Analysis
	itemsets []*ItemSet
	index    map[string]int
}

// Itemsets returns every discovered state, in discovery order.
func (a *Automaton) Itemsets() []*ItemSet {
	return a.itemsets
}

// Closure expands kernel with every item implied by a non-terminal
// immediately after a dot, per the standard LR(1) CLOSURE(I) construction:
// for item [A -> α•Xβ, a] with X a non-terminal, add [X -> •γ, b] for every
// production X -> γ and every b in FIRST(βa).
func Closure(g *grammar.Grammar, an *grammar.Analysis, kernel *ItemSet) *ItemSet {
	seen := map[string]bool{}
	closure := newItemSet()
	for _, it := range kernel.Items {
		closure.add(it, seen)
	}

	for {
		grew := false
		for i := 0; i < len(closure.Items); i++ {
			it := closure.Items[i]
			sym, ok := it.NextSymbol(g)
			if !ok || g.IsTerminal(sym) {
				continue
			}

			body := g.Bodies.Get(it.BodyIdx)
			remaining := append([]int{}, body[it.Position+1:]...)
			lookaheads := an.FirstOfSequenceWithLookahead(remaining, it.Lookahead)

			for _, bodyIdx := range g.Productions(sym) {
				for la := range lookaheads {
					newItem := Item{Head: sym, BodyIdx: bodyIdx, Position: 0, Lookahead: la}
					if closure.add(newItem, seen) {
						grew = true
					}
				}
			}
		}
		if !grew {
			break
		}
	}

	return closure
}

// Goto computes the itemset reached from itemset by shifting the dot past
// symbol, or an empty itemset if no item in itemset expects symbol next.
func Goto(g *grammar.Grammar, an *grammar.Analysis, itemset *ItemSet, symbol int) *ItemSet {
	kernel := newItemSet()
	seen := map[string]bool{}
	for _, it := range itemset.Items {
		sym, ok := it.NextSymbol(g)
		if !ok || sym != symbol {
			continue
		}
		kernel.add(Item{Head: it.Head, BodyIdx: it.BodyIdx, Position: it.Position + 1, Lookahead: it.Lookahead}, seen)
	}
	if len(kernel.Items) == 0 {
		return kernel
	}
	return Closure(g, an, kernel)
}

// Build constructs the full canonical LR(1) automaton and compiles it into
// a right-nulled action Table. g must already be finalized (augmented with
// start' and the endmarker) and an must be its FIRST/nullable analysis.
// nr registers the nullable symbol suffix of every right-nulled reduction.
func Build(g *grammar.Grammar, an *grammar.Analysis, nr NullableRegistrar) (*Automaton, *Table, error) {
	if !g.Finalized() {
		return nil, nil, errNotFinalized
	}

	a := &Automaton{g: g, an: an, index: map[string]int{}}
	table := newTable(g)

	startBodies := g.Productions(g.AugmentedStart())
	if len(startBodies) != 1 {
		return nil, nil, errBadAugmentedStart
	}
	kernel := newItemSet()
	kernel.add(Item{Head: g.AugmentedStart(), BodyIdx: startBodies[0], Position: 0, Lookahead: g.Endmarker()}, map[string]bool{})
	start := Closure(g, an, kernel)
	a.addItemset(start)

	symbols := make([]int, g.Symbols.Len())
	for i := range symbols {
		symbols[i] = i
	}

	for {
		grew := false
		for stateIdx := 0; stateIdx < len(a.itemsets); stateIdx++ {
			itemset := a.itemsets[stateIdx]
			for _, sym := range symbols {
				gotoSet := Goto(g, an, itemset, sym)
				if len(gotoSet.Items) == 0 {
					continue
				}
				targetIdx, isNew := a.internItemset(gotoSet)
				if isNew {
					grew = true
				}
				table.insertPush(stateIdx, sym, targetIdx)
			}
		}
		if !grew {
			break
		}
	}

	for stateIdx, itemset := range a.itemsets {
		for _, it := range itemset.Items {
			if it.Head == g.AugmentedStart() {
				// The driver never shifts the endmarker as a real GSS
				// transition (it is a lookahead sentinel, not an input
				// symbol), so an augmented-start item is accept-ready once
				// every symbol remaining before its trailing $ is nullable,
				// regardless of whether $ itself has been "consumed" by a
				// GOTO. Stripping the trailing endmarker before the
				// all-nullable check is what lets an immediately nullable
				// start symbol accept at state 0 on an empty input.
				body := g.Bodies.Get(it.BodyIdx)
				remaining := body[it.Position:]
				if len(remaining) > 0 && remaining[len(remaining)-1] == g.Endmarker() {
					remaining = remaining[:len(remaining)-1]
				}
				allNullable := true
				for _, sym := range remaining {
					if !an.IsNullable(sym) {
						allNullable = false
						break
					}
				}
				if allNullable {
					table.insertAccept(stateIdx, it.Lookahead)
				}
				continue
			}

			if !it.IsRightNulled(g, an) {
				continue
			}
			body := g.Bodies.Get(it.BodyIdx)

			nullableIdx := 0
			if it.Position < len(body) {
				nullableIdx = nr.AddNullableString(append([]int{}, body[it.Position:]...))
			}
			table.insertReduce(stateIdx, it.Lookahead, it.Head, it.BodyIdx, it.Position, nullableIdx)
		}
	}

	return a, table, nil
}

func (a *Automaton) addItemset(s *ItemSet) int {
	idx := len(a.itemsets)
	a.itemsets = append(a.itemsets, s)
	a.index[s.canonicalKey()] = idx
	return idx
}

// internItemset returns the index of an itemset structurally equal to s,
// adding s as a new state if none exists yet.
func (a *Automaton) internItemset(s *ItemSet) (int, bool) {
	key := s.canonicalKey()
	if idx, ok := a.index[key]; ok {
		return idx, false
	}
	return a.addItemset(s), true
}
