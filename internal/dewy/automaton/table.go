package automaton

import (
	"errors"
	"fmt"
	"sort"

	"github.com/david-andrew/dewy/internal/dewy/grammar"
	"github.com/dekarrin/rezi"
	"github.com/dekarrin/rosed"
)

var (
	errNotFinalized      = errors.New("dewy/automaton: grammar must be Finalize()d before table construction")
	errBadAugmentedStart = errors.New("dewy/automaton: augmented start symbol has other than one production")
)

// ActionKind distinguishes the three RNGLR table cell action variants.
type ActionKind int

const (
	ActionPush ActionKind = iota
	ActionReduce
	ActionAccept
)

// Action is one entry of a table cell. A single (state, symbol) cell may
// hold several actions at once (shift/reduce and reduce/reduce conflicts
// are not resolved at table-build time; the generalized driver tries them
// all).
type Action struct {
	Kind ActionKind

	// Push
	State int

	// Reduce
	Head        int
	BodyIdx     int
	Length      int // dot position at the reducing item: the count of real (non right-nulled) symbols to pop
	NullableIdx int // SPPF node for the right-nulled tail, or 0 (root epsilon) if the item was a plain completed item
}

func (act Action) String() string {
	switch act.Kind {
	case ActionPush:
		return fmt.Sprintf("push %d", act.State)
	case ActionReduce:
		return fmt.Sprintf("reduce %d->#%d (len %d, null %d)", act.Head, act.BodyIdx, act.Length, act.NullableIdx)
	case ActionAccept:
		return "accept"
	}
	return "?"
}

type cellKey struct {
	state  int
	symbol int
}

// Table is the compiled action table over (state, symbol) cells.
type Table struct {
	g     *grammar.Grammar
	cells map[cellKey][]Action
}

func newTable(g *grammar.Grammar) *Table {
	return &Table{g: g, cells: map[cellKey][]Action{}}
}

func (t *Table) insertPush(state, symbol, target int) {
	k := cellKey{state, symbol}
	t.cells[k] = append(t.cells[k], Action{Kind: ActionPush, State: target})
}

func (t *Table) insertReduce(state, symbol, head, bodyIdx, length, nullableIdx int) {
	k := cellKey{state, symbol}
	t.cells[k] = append(t.cells[k], Action{Kind: ActionReduce, Head: head, BodyIdx: bodyIdx, Length: length, NullableIdx: nullableIdx})
}

func (t *Table) insertAccept(state, symbol int) {
	k := cellKey{state, symbol}
	t.cells[k] = append(t.cells[k], Action{Kind: ActionAccept})
}

// Actions returns the action list for an exact (state, symbol) cell.
func (t *Table) Actions(state, symbol int) []Action {
	return t.cells[cellKey{state, symbol}]
}

// Push returns the single push target for (state, symbol) if one exists.
func (t *Table) Push(state, symbol int) (int, bool) {
	for _, act := range t.Actions(state, symbol) {
		if act.Kind == ActionPush {
			return act.State, true
		}
	}
	return 0, false
}

// MergedActions unions the action lists of every terminal symbol whose
// charset contains c, since a single input codepoint may be a member of
// several overlapping terminal charsets.
func (t *Table) MergedActions(state int, c rune) []Action {
	var out []Action
	for _, sym := range t.g.Terminals() {
		cs := t.g.Symbols.Get(sym).Charset
		if cs.Contains(c) {
			out = append(out, t.Actions(state, sym)...)
		}
	}
	return out
}

// String renders the table as a rosed-formatted grid, one row per state,
// for debugging and CLI diagnostics.
func (t *Table) String() string {
	var keys []cellKey
	for k := range t.cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].state != keys[j].state {
			return keys[i].state < keys[j].state
		}
		return keys[i].symbol < keys[j].symbol
	})

	data := [][]string{{"state", "symbol", "actions"}}
	for _, k := range keys {
		var acts []string
		for _, a := range t.cells[k] {
			acts = append(acts, a.String())
		}
		data = append(data, []string{
			fmt.Sprintf("%d", k.state),
			fmt.Sprintf("%d", k.symbol),
			fmt.Sprintf("%v", acts),
		})
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// tableOnDisk is the rezi-serializable projection of a Table: cellKey maps
// don't round-trip through rezi directly, so cells are flattened to a
// parallel slice representation keyed by explicit fields.
type tableOnDisk struct {
	Fingerprint string
	States      []int
	Symbols     []int
	Kinds       []int
	PushTo      []int
	Head        []int
	BodyIdx     []int
	Length      []int
	NullableIdx []int
}

// Encode serializes t into a rezi byte stream guarded by the fingerprint
// of the grammar it was built from, so DecodeTable can detect a stale cache.
func (t *Table) Encode(fingerprint string) ([]byte, error) {
	var disk tableOnDisk
	disk.Fingerprint = fingerprint

	var keys []cellKey
	for k := range t.cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].state != keys[j].state {
			return keys[i].state < keys[j].state
		}
		return keys[i].symbol < keys[j].symbol
	})

	for _, k := range keys {
		for _, act := range t.cells[k] {
			disk.States = append(disk.States, k.state)
			disk.Symbols = append(disk.Symbols, k.symbol)
			disk.Kinds = append(disk.Kinds, int(act.Kind))
			disk.PushTo = append(disk.PushTo, act.State)
			disk.Head = append(disk.Head, act.Head)
			disk.BodyIdx = append(disk.BodyIdx, act.BodyIdx)
			disk.Length = append(disk.Length, act.Length)
			disk.NullableIdx = append(disk.NullableIdx, act.NullableIdx)
		}
	}

	return rezi.EncBinary(disk), nil
}

// DecodeTable deserializes a rezi byte stream produced by Encode, rejecting
// it if its embedded fingerprint does not match expectedFingerprint.
func DecodeTable(g *grammar.Grammar, data []byte, expectedFingerprint string) (*Table, error) {
	var disk tableOnDisk
	if _, err := rezi.DecBinary(data, &disk); err != nil {
		return nil, fmt.Errorf("dewy/automaton: decode table: %w", err)
	}
	if disk.Fingerprint != expectedFingerprint {
		return nil, fmt.Errorf("dewy/automaton: cached table fingerprint mismatch (grammar changed since it was cached)")
	}

	t := newTable(g)
	for i := range disk.States {
		k := cellKey{disk.States[i], disk.Symbols[i]}
		t.cells[k] = append(t.cells[k], Action{
			Kind:        ActionKind(disk.Kinds[i]),
			State:       disk.PushTo[i],
			Head:        disk.Head[i],
			BodyIdx:     disk.BodyIdx[i],
			Length:      disk.Length[i],
			NullableIdx: disk.NullableIdx[i],
		})
	}
	return t, nil
}
