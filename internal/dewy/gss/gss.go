// Package gss implements the Graph-Structured Stack used by the RNGLR
// driver: a DAG of parser stack frames, one frustum of nodes per input
// position, with edges pointing back toward earlier positions. Several
// active parses share a single GSS instead of maintaining independent
// stacks, which is what lets the driver explore every viable derivation
// of an ambiguous grammar without exponential blowup.
package gss

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
)

// Coord identifies a single node: the input position it was created at
// (Pos, the "nodes_idx" bucket) and its slot within that position's node
// list (Slot, the "node_idx").
type Coord struct {
	Pos  int
	Slot int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Pos, c.Slot)
}

type edgeKey struct {
	parent Coord
	child  Coord
}

// GSS is the graph-structured stack: a per-position bucket of labeled
// state nodes (arraylist.List, insertion-ordered and amortised O(1)
// indexed, matching the append-only access pattern the driver needs for
// nodes[position][slot]) plus a set of directed edges from a newer node
// back to the older node it was pushed from.
type GSS struct {
	buckets   []*arraylist.List // buckets[pos] holds the states created at pos, in insertion order
	children  map[Coord][]Coord // parent -> nodes it has an edge to (older, "below" it on the stack)
	edgeSeen  map[edgeKey]bool
	edgeLabel map[edgeKey]int // parent->child edge -> SPPF node index it is labelled with
}

// New returns an empty GSS.
func New() *GSS {
	return &GSS{children: map[Coord][]Coord{}, edgeSeen: map[edgeKey]bool{}, edgeLabel: map[edgeKey]int{}}
}

func (g *GSS) bucket(pos int) *arraylist.List {
	for len(g.buckets) <= pos {
		g.buckets = append(g.buckets, arraylist.New())
	}
	return g.buckets[pos]
}

// NodesAt returns the coordinates of every node created at pos, in
// insertion order.
func (g *GSS) NodesAt(pos int) []Coord {
	b := g.bucket(pos)
	out := make([]Coord, b.Size())
	for i := range out {
		out[i] = Coord{Pos: pos, Slot: i}
	}
	return out
}

// StateAt returns the state label of the node at c.
func (g *GSS) StateAt(c Coord) int {
	v, ok := g.bucket(c.Pos).Get(c.Slot)
	if !ok {
		panic(fmt.Sprintf("dewy/gss: no node at %s", c))
	}
	return v.(int)
}

// GetNodeWithLabel returns the coordinate of the node at pos labeled
// state, if one has already been created there.
func (g *GSS) GetNodeWithLabel(pos, state int) (Coord, bool) {
	b := g.bucket(pos)
	for i := 0; i < b.Size(); i++ {
		v, _ := b.Get(i)
		if v.(int) == state {
			return Coord{Pos: pos, Slot: i}, true
		}
	}
	return Coord{}, false
}

// AddNode returns the coordinate of the node at pos labeled state,
// creating it if it does not already exist; the GSS never holds two
// nodes with the same label at the same position.
func (g *GSS) AddNode(pos, state int) Coord {
	if c, ok := g.GetNodeWithLabel(pos, state); ok {
		return c
	}
	b := g.bucket(pos)
	slot := b.Size()
	b.Add(state)
	return Coord{Pos: pos, Slot: slot}
}

// DoesEdgeExist reports whether an edge from parent to child has already
// been added.
func (g *GSS) DoesEdgeExist(parent, child Coord) bool {
	return g.edgeSeen[edgeKey{parent, child}]
}

// AddEdge adds a directed edge from parent back to child, returning true
// if the edge is new.
func (g *GSS) AddEdge(parent, child Coord) bool {
	k := edgeKey{parent, child}
	if g.edgeSeen[k] {
		return false
	}
	g.edgeSeen[k] = true
	g.children[parent] = append(g.children[parent], child)
	return true
}

// SetEdgeLabel records the SPPF node index that labels the parent->child
// edge, recording the sub-forest consumed by that stack transition (§4.7).
func (g *GSS) SetEdgeLabel(parent, child Coord, sppfNode int) {
	g.edgeLabel[edgeKey{parent, child}] = sppfNode
}

// EdgeLabel returns the SPPF node index labelling the parent->child edge,
// if one has been recorded.
func (g *GSS) EdgeLabel(parent, child Coord) (int, bool) {
	v, ok := g.edgeLabel[edgeKey{parent, child}]
	return v, ok
}

// Children returns the nodes parent has an edge to, in the order the
// edges were added.
func (g *GSS) Children(parent Coord) []Coord {
	return g.children[parent]
}

// GetReachable returns every node reachable from root by following
// exactly length edges, i.e. the set of GSS nodes length frames below
// root on the stack. GetReachable(root, 0) is {root}.
func (g *GSS) GetReachable(root Coord, length int) []Coord {
	if length == 0 {
		return []Coord{root}
	}
	var out []Coord
	for _, c := range g.children[root] {
		out = append(out, g.GetReachable(c, length-1)...)
	}
	return out
}

// GetAllPaths returns every path of exactly length edges starting at
// root, each path listed root-first. The RNGLR driver walks these paths
// to collect the SPPF children of a reduction spanning length symbols.
func (g *GSS) GetAllPaths(root Coord, length int) [][]Coord {
	if length == 0 {
		return [][]Coord{{root}}
	}
	var out [][]Coord
	for _, c := range g.children[root] {
		for _, sub := range g.GetAllPaths(c, length-1) {
			path := make([]Coord, 0, len(sub)+1)
			path = append(path, root)
			path = append(path, sub...)
			out = append(out, path)
		}
	}
	return out
}

// NonEmptyAt reports whether any node has been created at pos, used by
// the driver to detect a dead parse (every active stack frame died
// before consuming the whole input).
func (g *GSS) NonEmptyAt(pos int) bool {
	return pos < len(g.buckets) && g.buckets[pos].Size() > 0
}
