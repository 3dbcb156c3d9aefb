// Package automaton builds the canonical LR(1) item-set automaton for a
// finalized grammar and compiles it into an action table whose reduce
// actions are right-nulled: an item is reducible not only when its dot has
// reached the end of its body but also when every symbol remaining after
// the dot is nullable, letting the driver fold a nullable tail into the
// reduction instead of shifting through it.
package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/david-andrew/dewy/internal/dewy/grammar"
)

// Item is a single LR(1) item: a production with a dot position and one
// lookahead symbol. The automaton holds many items differing only in
// lookahead for the same (head, body, position), rather than merging them
// into a lookahead set, matching the item representation construction
// builds on.
type Item struct {
	Head      int
	BodyIdx   int
	Position  int
	Lookahead int
}

func (it Item) key() string {
	return fmt.Sprintf("%d.%d.%d.%d", it.Head, it.BodyIdx, it.Position, it.Lookahead)
}

func (it Item) String(g *grammar.Grammar) string {
	body := g.Bodies.Get(it.BodyIdx)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d -> ", it.Head)
	for i, sym := range body {
		if i == it.Position {
			sb.WriteString("• ")
		}
		fmt.Fprintf(&sb, "%d ", sym)
	}
	if it.Position >= len(body) {
		sb.WriteString("• ")
	}
	fmt.Fprintf(&sb, ", %d", it.Lookahead)
	return sb.String()
}

// NextSymbol returns the symbol immediately after the dot and true, or
// (0, false) if the dot is already at the end of the body.
func (it Item) NextSymbol(g *grammar.Grammar) (int, bool) {
	body := g.Bodies.Get(it.BodyIdx)
	if it.Position >= len(body) {
		return 0, false
	}
	return body[it.Position], true
}

// IsRightNulled reports whether it is reducible: the dot has reached the
// end of the body, or every symbol remaining after the dot is nullable.
func (it Item) IsRightNulled(g *grammar.Grammar, an *grammar.Analysis) bool {
	body := g.Bodies.Get(it.BodyIdx)
	for _, sym := range body[it.Position:] {
		if !an.IsNullable(sym) {
			return false
		}
	}
	return true
}

// ItemSet is a deduplicated collection of items kept in insertion order;
// canonicalKey sorts the item keys, so two structurally equal sets always
// produce the same canonical string, letting the builder intern itemsets
// by that string.
type ItemSet struct {
	Items []Item
}

func newItemSet() *ItemSet {
	return &ItemSet{}
}

func (s *ItemSet) add(it Item, seen map[string]bool) bool {
	k := it.key()
	if seen[k] {
		return false
	}
	seen[k] = true
	s.Items = append(s.Items, it)
	return true
}

func (s *ItemSet) canonicalKey() string {
	keys := make([]string, len(s.Items))
	for i, it := range s.Items {
		keys[i] = it.key()
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}
