// Package rnglr implements the generalized shift/reduce driver described in
// spec.md §4.9: a fixed-point loop over a pending-reduction queue and a
// pending-shift queue that walks a Graph-Structured Stack, building a Shared
// Packed Parse Forest as it goes. Unlike a canonical LR parser it never gets
// stuck on a shift/reduce or reduce/reduce conflict — every viable action is
// explored, and local ambiguity is recorded by the SPPF as a packed family
// rather than resolved at parse time.
package rnglr

import (
	"github.com/david-andrew/dewy/internal/dewy/automaton"
	"github.com/david-andrew/dewy/internal/dewy/charset"
	"github.com/david-andrew/dewy/internal/dewy/gss"
	"github.com/david-andrew/dewy/internal/dewy/grammar"
	"github.com/david-andrew/dewy/internal/dewy/sppf"
	"github.com/google/uuid"
)

// reduction is the driver's pending-reduction queue entry, trimmed of the
// gss_child_or_⊥ field spec.md lists: node must always be the most
// recently discovered or extended GSS node on this path, never an older
// ancestor, so walking exactly length edges back from it (gss.GetAllPaths)
// always reconstructs the production's full child list without a
// separately tracked first-child coordinate.
type reduction struct {
	node        gss.Coord
	head        int
	bodyIdx     int
	length      int
	nullableIdx int
}

// shiftTuple is the driver's pending-shift queue entry: node is the GSS
// frame that will shift the next input rune, landing on target.
type shiftTuple struct {
	node   gss.Coord
	target int
}

type reductionQueue struct{ items []reduction }

func (q *reductionQueue) push(r reduction) { q.items = append(q.items, r) }
func (q *reductionQueue) empty() bool      { return len(q.items) == 0 }
func (q *reductionQueue) pop() reduction {
	r := q.items[0]
	q.items = q.items[1:]
	return r
}

type shiftQueue struct{ items []shiftTuple }

func (q *shiftQueue) push(s shiftTuple) { q.items = append(q.items, s) }

// Result is the outcome of a single Driver.Parse run.
type Result struct {
	// TraceID distinguishes this run's diagnostics from other runs in a log.
	TraceID string
	// Accepted reports whether some GSS node at the end of input had an
	// accept action for the endmarker lookahead.
	Accepted bool
	// FailPos is the highest input position any GSS node reached, valid
	// when !Accepted (spec.md §7's "offending position").
	FailPos int
	// Root is the SPPF node spanning the whole input under the grammar's
	// start symbol, valid only when Accepted.
	Root int
	// Forest is the parse forest built during this run.
	Forest *sppf.Forest
}

// Driver runs the RNGLR/BSR parse loop over a compiled automaton.Table,
// sharing a single sppf.Forest and gss.GSS across the whole input.
type Driver struct {
	g      *grammar.Grammar
	table  *automaton.Table
	forest *sppf.Forest
}

// New returns a Driver that parses against table, recording its forest into
// forest (typically freshly constructed with sppf.New, which seeds the root
// epsilon node automaton.Build's nullable registrations already point at).
func New(g *grammar.Grammar, table *automaton.Table, forest *sppf.Forest) *Driver {
	return &Driver{g: g, table: table, forest: forest}
}

// charAt returns the input's lookahead rune at position i: the rune itself
// for i < len(input), or the reserved end-of-input sentinel once the real
// input is exhausted, so every table lookup can treat $ uniformly as just
// another lookahead character.
func charAt(input []rune, i int) rune {
	if i < len(input) {
		return input[i]
	}
	return charset.EndOfInput
}

// Parse runs the fixed-point reducer/shifter loop of spec.md §4.9 over
// input, returning the shared forest plus a verdict.
func (d *Driver) Parse(input []rune) *Result {
	traceID := uuid.NewString()
	stack := gss.New()
	R := &reductionQueue{}
	Q := &shiftQueue{}

	v0 := stack.AddNode(0, 0)
	for _, act := range d.table.MergedActions(0, charAt(input, 0)) {
		switch act.Kind {
		case automaton.ActionPush:
			Q.push(shiftTuple{node: v0, target: act.State})
		case automaton.ActionReduce:
			if act.Length == 0 {
				R.push(reduction{node: v0, head: act.Head, bodyIdx: act.BodyIdx, nullableIdx: act.NullableIdx})
			}
		}
	}

	for i := 0; i <= len(input); i++ {
		for !R.empty() {
			d.reduce(stack, R, Q, i, input, R.pop())
		}
		if i < len(input) {
			Q = d.shift(stack, Q, R, i, input)
		}
	}

	accepted, root := d.checkAccept(stack, len(input))
	failPos := len(input)
	if !accepted {
		failPos = d.highestReachedPosition(stack)
	}
	return &Result{TraceID: traceID, Accepted: accepted, FailPos: failPos, Root: root, Forest: d.forest}
}

// reduce processes one dequeued reduction tuple: for every length-long path
// from red.node it builds (or finds) the SPPF inner node the reduction
// produces, then either extends an existing GSS node at position i with a
// new back-edge or creates that node fresh, queuing whatever further
// actions the grammar's table has for it.
func (d *Driver) reduce(stack *gss.GSS, R *reductionQueue, Q *shiftQueue, i int, input []rune, red reduction) {
	body := d.g.Bodies.Get(red.bodyIdx)
	hasNullableTail := red.length < len(body)

	for _, path := range stack.GetAllPaths(red.node, red.length) {
		u := path[len(path)-1]

		children := make([]int, 0, len(path)-1)
		for k := len(path) - 1; k > 0; k-- {
			label, _ := stack.EdgeLabel(path[k-1], path[k])
			children = append(children, label)
		}
		if hasNullableTail {
			children = append(children, red.nullableIdx)
		}

		inner := d.forest.AddSymbolNode(red.head, u.Pos, i)
		d.forest.AddFamily(inner, red.bodyIdx, children)

		pushTarget, ok := d.table.Push(stack.StateAt(u), red.head)
		if !ok {
			// The grammar's GOTO table has no transition for this head from
			// u's state; the reduction this path represents cannot actually
			// extend any viable derivation, so it is simply abandoned.
			continue
		}

		lookahead := charAt(input, i)
		if w, exists := stack.GetNodeWithLabel(i, pushTarget); exists {
			if stack.DoesEdgeExist(w, u) {
				continue
			}
			stack.AddEdge(w, u)
			stack.SetEdgeLabel(w, u, inner)
			// w already existed, so its zero-length reductions were queued
			// when it was first created; only the new edge's positive-length
			// reductions open a path that was not already explored.
			for _, act := range d.table.MergedActions(pushTarget, lookahead) {
				if act.Kind == automaton.ActionReduce && act.Length > 0 {
					R.push(reduction{node: w, head: act.Head, bodyIdx: act.BodyIdx, length: act.Length, nullableIdx: act.NullableIdx})
				}
			}
			continue
		}

		w := stack.AddNode(i, pushTarget)
		stack.AddEdge(w, u)
		stack.SetEdgeLabel(w, u, inner)
		for _, act := range d.table.MergedActions(pushTarget, lookahead) {
			switch act.Kind {
			case automaton.ActionPush:
				Q.push(shiftTuple{node: w, target: act.State})
			case automaton.ActionReduce:
				R.push(reduction{node: w, head: act.Head, bodyIdx: act.BodyIdx, length: act.Length, nullableIdx: act.NullableIdx})
			case automaton.ActionAccept:
				// Acceptance is re-checked from the table directly once the
				// whole input has been processed; nothing to do mid-parse.
			}
		}
	}
}

// shift consumes every pending shift tuple against input[i], creating the
// leaf SPPF node for that rune once, and returns the queue of pushes
// discovered for position i+1.
func (d *Driver) shift(stack *gss.GSS, Q *shiftQueue, R *reductionQueue, i int, input []rune) *shiftQueue {
	leaf := d.forest.AddLeaf(i, input[i])
	next := &shiftQueue{}

	for _, s := range Q.items {
		w, existed := stack.GetNodeWithLabel(i+1, s.target)
		isNew := !existed
		if !existed {
			w = stack.AddNode(i+1, s.target)
		}
		if stack.DoesEdgeExist(w, s.node) {
			continue
		}
		stack.AddEdge(w, s.node)
		stack.SetEdgeLabel(w, s.node, leaf)

		if !isNew {
			continue
		}
		lookahead := charAt(input, i+1)
		for _, act := range d.table.MergedActions(s.target, lookahead) {
			switch act.Kind {
			case automaton.ActionPush:
				next.push(shiftTuple{node: w, target: act.State})
			case automaton.ActionReduce:
				R.push(reduction{node: w, head: act.Head, bodyIdx: act.BodyIdx, length: act.Length, nullableIdx: act.NullableIdx})
			case automaton.ActionAccept:
			}
		}
	}
	return next
}

// checkAccept reports whether any GSS node at pos has an accept action in
// its (state, $) cell, and if so the SPPF node spanning the whole input
// under the grammar's start symbol, for consumers that want the parse tree
// rather than a bare verdict.
func (d *Driver) checkAccept(stack *gss.GSS, pos int) (bool, int) {
	accepted := false
	for _, c := range stack.NodesAt(pos) {
		state := stack.StateAt(c)
		for _, act := range d.table.Actions(state, d.g.Endmarker()) {
			if act.Kind == automaton.ActionAccept {
				accepted = true
			}
		}
	}
	if !accepted {
		return false, 0
	}
	return true, d.forest.AddSymbolNode(d.g.StartSymbol(), 0, pos)
}

// highestReachedPosition returns the largest input position at which any
// GSS node exists, the "offending position" spec.md §7 reports on a failed
// parse: the furthest point any shifter invocation managed to reach before
// every remaining stack frame died.
func (d *Driver) highestReachedPosition(stack *gss.GSS) int {
	pos := 0
	for p := 0; stack.NonEmptyAt(p); p++ {
		pos = p
	}
	return pos
}
