package grammar

import "github.com/david-andrew/dewy/internal/util"

// FSet is the FIRST-set result for a symbol or symbol string: the set of
// terminal indices that can begin a derivation, plus a nullable flag kept
// separate from the terminal set (rather than stuffing an epsilon
// pseudo-symbol into it), matching the original compiler's fset
// representation.
type FSet struct {
	Terminals map[int]bool
	Nullable  bool
}

func newFSet() FSet {
	return FSet{Terminals: map[int]bool{}}
}

// mergeInto adds every terminal of src into dst, and ORs in src's nullable
// flag if do_nullable is set; this mirrors fset_union_into(left, right,
// do_nullable) from the original implementation.
func (dst *FSet) mergeInto(src FSet, doNullable bool) {
	for t := range src.Terminals {
		dst.Terminals[t] = true
	}
	if doNullable {
		dst.Nullable = dst.Nullable || src.Nullable
	}
}

// Analysis is the frozen result of running FIRST/nullable fixed-point
// analysis over a finalized Grammar.
type Analysis struct {
	g     *Grammar
	first map[int]FSet
}

// Analyze iterates CLOSURE-style fixed point over every symbol's FIRST set
// and nullable flag until no further growth occurs, per the standard
// textbook construction: every terminal's FIRST is itself and never
// nullable; every non-terminal's FIRST accumulates FIRST(Y) \ {ε} for each
// symbol Y in each of its production bodies, for as long as the
// already-seen prefix is nullable, and the non-terminal itself becomes
// nullable if it owns an epsilon body or every symbol in some body is
// nullable.
func Analyze(g *Grammar) *Analysis {
	a := &Analysis{g: g, first: map[int]FSet{}}

	for i := 0; i < g.Symbols.Len(); i++ {
		if g.IsTerminal(i) {
			a.first[i] = FSet{Terminals: map[int]bool{i: true}}
		} else {
			a.first[i] = newFSet()
		}
	}

	changed := true
	for changed {
		changed = false
		for _, headIdx := range util.OrderedKeys(g.prods) {
			for _, bodyIdx := range g.prods[headIdx] {
				body := g.Bodies.Get(bodyIdx)
				before := a.snapshot(headIdx)

				if len(body) == 0 {
					a.first[headIdx] = markNullable(a.first[headIdx])
				} else {
					allNullableSoFar := true
					for _, sym := range body {
						symFirst := a.first[sym]
						headFirst := a.first[headIdx]
						headFirst.mergeInto(symFirst, false)
						a.first[headIdx] = headFirst
						if !symFirst.Nullable {
							allNullableSoFar = false
							break
						}
					}
					if allNullableSoFar {
						a.first[headIdx] = markNullable(a.first[headIdx])
					}
				}

				if !a.snapshotEqual(headIdx, before) {
					changed = true
				}
			}
		}
	}

	return a
}

func markNullable(f FSet) FSet {
	f.Nullable = true
	return f
}

// snapshot/snapshotEqual track whether a fixed-point iteration grew a
// symbol's FSet, bounding the loop (monotone, finite per spec since
// growth is bounded by the total terminal count).
func (a *Analysis) snapshot(sym int) int {
	f := a.first[sym]
	n := len(f.Terminals)
	if f.Nullable {
		n++
	}
	return n
}

func (a *Analysis) snapshotEqual(sym int, before int) bool {
	return a.snapshot(sym) == before
}

// FirstOfSymbol returns the FIRST set of a single symbol.
func (a *Analysis) FirstOfSymbol(sym int) FSet {
	return a.first[sym]
}

// IsNullable reports whether sym can derive epsilon.
func (a *Analysis) IsNullable(sym int) bool {
	return a.first[sym].Nullable
}

// FirstOfSequence computes FIRST(α) for a symbol string α: the union of
// FIRST(Y_i) \ {ε} for each prefix symbol while every preceding symbol is
// nullable, with the whole sequence nullable iff every symbol in it is.
func (a *Analysis) FirstOfSequence(seq []int) FSet {
	result := newFSet()
	result.Nullable = true

	for _, sym := range seq {
		symFirst := a.first[sym]
		result.mergeInto(symFirst, false)
		if !symFirst.Nullable {
			result.Nullable = false
			break
		}
	}

	return result
}

// FirstOfSequenceWithLookahead computes FIRST(αa) for a terminal lookahead
// a: FIRST(α) if α is not nullable, else FIRST(α) ∪ {a}.
func (a *Analysis) FirstOfSequenceWithLookahead(seq []int, lookahead int) map[int]bool {
	alpha := a.FirstOfSequence(seq)
	out := map[int]bool{}
	for t := range alpha.Terminals {
		out[t] = true
	}
	if alpha.Nullable {
		out[lookahead] = true
	}
	return out
}
