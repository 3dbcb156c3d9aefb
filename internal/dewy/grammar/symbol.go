package grammar

import (
	"fmt"

	"github.com/david-andrew/dewy/internal/dewy/charset"
)

// SymbolKind distinguishes terminal from non-terminal symbols.
type SymbolKind int

const (
	// Terminal symbols are identified by a charset.Set of codepoints they
	// match.
	Terminal SymbolKind = iota
	// NonTerminal symbols are identified by a unique name.
	NonTerminal
)

func (k SymbolKind) String() string {
	if k == Terminal {
		return "terminal"
	}
	return "non-terminal"
}

// Symbol is an interned grammar symbol. Its SymbolTable index is its
// identity: two symbols with the same index are the same symbol, and two
// distinct indices never denote equal symbols.
type Symbol struct {
	Kind    SymbolKind
	Name    string      // non-terminal identifier, or a human label for a terminal
	Charset charset.Set // populated only when Kind == Terminal
}

func (s Symbol) String() string {
	if s.Kind == NonTerminal {
		return s.Name
	}
	if s.Name != "" {
		return s.Name
	}
	return s.Charset.String()
}

// EndmarkerName is the reserved name given to the distinguished $ terminal.
const EndmarkerName = "$"

// AugmentedStartName is the reserved name given to the distinguished start'
// non-terminal introduced by Grammar.Finalize.
const AugmentedStartName = "start'"

// SymbolTable interns terminals (by charset) and non-terminals (by name)
// into a single array-backed table whose slice index is each symbol's
// permanent identity.
type SymbolTable struct {
	symbols   []Symbol
	ntIndex   map[string]int
	termIndex map[string]int // keyed by charset.Set.Key()
}

// NewSymbolTable returns an empty interning table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		ntIndex:   map[string]int{},
		termIndex: map[string]int{},
	}
}

// InternNonTerminal returns the index of the non-terminal named name,
// interning it if this is the first time it has been seen.
func (st *SymbolTable) InternNonTerminal(name string) int {
	if idx, ok := st.ntIndex[name]; ok {
		return idx
	}
	idx := len(st.symbols)
	st.symbols = append(st.symbols, Symbol{Kind: NonTerminal, Name: name})
	st.ntIndex[name] = idx
	return idx
}

// InternTerminal returns the index of the terminal matching exactly cs,
// interning it if this is the first time an equal charset has been seen.
// label is an optional human-readable name carried for diagnostics and
// pretty-printing; it does not affect identity (only cs.Key() does).
func (st *SymbolTable) InternTerminal(cs charset.Set, label string) int {
	key := cs.Key()
	if idx, ok := st.termIndex[key]; ok {
		return idx
	}
	idx := len(st.symbols)
	st.symbols = append(st.symbols, Symbol{Kind: Terminal, Name: label, Charset: cs})
	st.termIndex[key] = idx
	return idx
}

// Get returns the Symbol at idx. It panics if idx is out of range, since a
// caller holding a symbol index for this table has violated an internal
// invariant if the index is invalid.
func (st *SymbolTable) Get(idx int) Symbol {
	if idx < 0 || idx >= len(st.symbols) {
		panic(fmt.Sprintf("dewy/grammar: symbol index %d out of range (table has %d symbols)", idx, len(st.symbols)))
	}
	return st.symbols[idx]
}

// Len returns the number of interned symbols.
func (st *SymbolTable) Len() int {
	return len(st.symbols)
}

// IsTerminal reports whether idx names a terminal symbol.
func (st *SymbolTable) IsTerminal(idx int) bool {
	return st.Get(idx).Kind == Terminal
}

// NonTerminalNamed returns the index of an already-interned non-terminal
// and whether it exists, without interning a new one.
func (st *SymbolTable) NonTerminalNamed(name string) (int, bool) {
	idx, ok := st.ntIndex[name]
	return idx, ok
}
