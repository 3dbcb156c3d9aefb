// Package sppf implements the Shared Packed Parse Forest the RNGLR driver
// builds while it parses: a DAG of labeled nodes where local ambiguity
// (more than one production deriving the same span of input) is recorded
// as a packed family rather than duplicated subtrees.
package sppf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/rosed"
)

// NodeKind distinguishes the three SPPF node shapes: a leaf standing for
// one consumed input symbol, a labeled inner node standing for a
// non-terminal spanning [Start, End), and a nullable node standing for
// the (possibly multi-symbol) right-nulled tail of a reduction.
type NodeKind int

const (
	NodeLeaf NodeKind = iota
	NodeSymbol
	NodeNullable
)

// nodeLabel is the interning key for a node: leaves are keyed by input
// position, symbol nodes by (head, start, end), and nullable nodes by
// their symbol sequence.
type nodeLabel struct {
	kind    NodeKind
	head    int
	start   int
	end     int
	nullKey string
}

// Family is one packed alternative for a node: the production it came
// from (or -1 for a nullable/leaf pseudo-family) and its ordered list of
// child node indices.
type Family struct {
	BodyIdx  int
	Children []int
}

func (fam Family) key() string {
	parts := make([]string, len(fam.Children))
	for i, c := range fam.Children {
		parts[i] = fmt.Sprintf("%d", c)
	}
	return fmt.Sprintf("%d:%s", fam.BodyIdx, strings.Join(parts, ","))
}

type nodeRecord struct {
	label     nodeLabel
	families  []Family
	familySet map[string]bool
}

// Forest is the parse forest built by a single parse run. Index 0 is
// always the root epsilon node, representing the empty symbol sequence
// that every right-nulled nullable string bottoms out at.
type Forest struct {
	nodes       []nodeRecord
	index       map[nodeLabel]int
	rootEpsilon int
}

// New returns a forest seeded with the root epsilon node at index 0.
func New() *Forest {
	f := &Forest{index: map[nodeLabel]int{}}
	f.rootEpsilon = f.intern(nodeLabel{kind: NodeNullable, nullKey: ""})
	return f
}

func (f *Forest) intern(label nodeLabel) int {
	if idx, ok := f.index[label]; ok {
		return idx
	}
	idx := len(f.nodes)
	f.nodes = append(f.nodes, nodeRecord{label: label, familySet: map[string]bool{}})
	f.index[label] = idx
	return idx
}

// RootEpsilon returns the index of the shared empty-derivation node.
func (f *Forest) RootEpsilon() int {
	return f.rootEpsilon
}

// AddLeaf interns (or finds) the leaf node for the input symbol consumed
// at pos, labeled with the rune itself so two equal characters at
// different positions remain distinct nodes.
func (f *Forest) AddLeaf(pos int, r rune) int {
	return f.intern(nodeLabel{kind: NodeLeaf, start: pos, end: pos + 1, head: int(r)})
}

// AddSymbolNode interns (or finds) the inner node labeled (head, start,
// end): the derivation of non-terminal head spanning input [start, end).
func (f *Forest) AddSymbolNode(head, start, end int) int {
	return f.intern(nodeLabel{kind: NodeSymbol, head: head, start: start, end: end})
}

// AddNullableString interns (or finds) the nullable node standing for
// the given sequence of (nullable) symbols, recursively building and
// connecting the per-symbol nullable sub-nodes the way the original
// construction does, so a multi-symbol right-nulled tail and any of its
// single-symbol components share structure. An empty sequence returns
// the root epsilon node. This method satisfies automaton.NullableRegistrar.
func (f *Forest) AddNullableString(syms []int) int {
	if len(syms) == 0 {
		return f.rootEpsilon
	}
	if len(syms) == 1 {
		return f.addNullableSymbol(syms[0])
	}

	key := make([]string, len(syms))
	for i, s := range syms {
		key[i] = fmt.Sprintf("%d", s)
	}
	nullKey := strings.Join(key, ",")

	idx := f.intern(nodeLabel{kind: NodeNullable, nullKey: nullKey})
	if len(f.nodes[idx].families) > 0 {
		return idx
	}

	children := make([]int, len(syms))
	for i, sym := range syms {
		children[i] = f.addNullableSymbol(sym)
	}
	f.addFamily(idx, -1, children)
	return idx
}

// addNullableSymbol interns the single-symbol nullable node for sym,
// connecting it to the root epsilon so its subtree bottoms out cleanly.
func (f *Forest) addNullableSymbol(sym int) int {
	nullKey := fmt.Sprintf("%d", sym)
	idx := f.intern(nodeLabel{kind: NodeNullable, nullKey: nullKey})
	if len(f.nodes[idx].families) == 0 {
		f.addFamily(idx, -1, []int{f.rootEpsilon})
	}
	return idx
}

// AddFamily connects node to a family of children produced by bodyIdx,
// packing it alongside any family already recorded for node when the
// children differ (an ambiguous derivation), and is a no-op if an
// identical family was already added.
func (f *Forest) AddFamily(node, bodyIdx int, children []int) {
	f.addFamily(node, bodyIdx, children)
}

func (f *Forest) addFamily(node, bodyIdx int, children []int) {
	rec := &f.nodes[node]
	fam := Family{BodyIdx: bodyIdx, Children: append([]int{}, children...)}
	k := fam.key()
	if rec.familySet[k] {
		return
	}
	rec.familySet[k] = true
	rec.families = append(rec.families, fam)
}

// Families returns every packed family recorded for node; more than one
// entry means node is locally ambiguous.
func (f *Forest) Families(node int) []Family {
	return f.nodes[node].families
}

// IsAmbiguous reports whether node has more than one packed family.
func (f *Forest) IsAmbiguous(node int) bool {
	return len(f.nodes[node].families) > 1
}

// Kind, Head, Span report a node's label.
func (f *Forest) Kind(node int) NodeKind   { return f.nodes[node].label.kind }
func (f *Forest) Head(node int) int        { return f.nodes[node].label.head }
func (f *Forest) Span(node int) (int, int) { return f.nodes[node].label.start, f.nodes[node].label.end }

// Dump renders the subtree rooted at node as an indented, rosed-formatted
// forest, expanding every packed family as a bracketed alternative list.
func (f *Forest) Dump(root int) string {
	var sb strings.Builder
	f.dumpNode(&sb, root, 0, map[int]bool{})
	return rosed.Edit(sb.String()).String()
}

func (f *Forest) dumpNode(sb *strings.Builder, node, depth int, visiting map[int]bool) {
	indent := strings.Repeat("  ", depth)
	label := f.describe(node)
	if visiting[node] {
		fmt.Fprintf(sb, "%s%s (cycle)\n", indent, label)
		return
	}

	rec := f.nodes[node]
	if len(rec.families) == 0 {
		fmt.Fprintf(sb, "%s%s\n", indent, label)
		return
	}

	visiting[node] = true
	defer delete(visiting, node)

	if len(rec.families) == 1 {
		fmt.Fprintf(sb, "%s%s\n", indent, label)
		for _, c := range rec.families[0].Children {
			f.dumpNode(sb, c, depth+1, visiting)
		}
		return
	}

	fmt.Fprintf(sb, "%s%s (packed, %d alternatives)\n", indent, label, len(rec.families))
	for i, fam := range rec.families {
		fmt.Fprintf(sb, "%s  alt %d (production #%d):\n", indent, i, fam.BodyIdx)
		for _, c := range fam.Children {
			f.dumpNode(sb, c, depth+2, visiting)
		}
	}
}

func (f *Forest) describe(node int) string {
	rec := f.nodes[node]
	switch rec.label.kind {
	case NodeLeaf:
		return fmt.Sprintf("leaf(%q @ %d)", rune(rec.label.head), rec.label.start)
	case NodeSymbol:
		return fmt.Sprintf("sym(%d, %d..%d)", rec.label.head, rec.label.start, rec.label.end)
	case NodeNullable:
		if rec.label.nullKey == "" {
			return "ϵ"
		}
		return fmt.Sprintf("null(%s)", rec.label.nullKey)
	}
	return "?"
}

// Size returns the number of distinct nodes interned into the forest.
func (f *Forest) Size() int {
	return len(f.nodes)
}

// AmbiguousNodes returns the indices of every node with more than one
// packed family, in ascending order, for diagnostics and tests.
func (f *Forest) AmbiguousNodes() []int {
	var out []int
	for i, rec := range f.nodes {
		if len(rec.families) > 1 {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}
