// Package dewy is the facade for the Dewy grammar compiler-compiler: given
// grammar source text, Compile tokenises, parses, lowers, and analyzes it
// into a right-nulled RNGLR parse table, and Parse drives that table over
// an input string, producing a Shared Packed Parse Forest. The stages
// underneath (internal/dewy/{meta,charset,grammar,automaton,gss,sppf,rnglr})
// are glued together here the same way ictiobus.go glues tunaq's
// scanner/parser/translation stages into one FISHI-to-lexer-and-parser
// entry point.
package dewy

import (
	"fmt"

	"github.com/david-andrew/dewy/internal/dewy/automaton"
	"github.com/david-andrew/dewy/internal/dewy/grammar"
	"github.com/david-andrew/dewy/internal/dewy/meta"
	"github.com/david-andrew/dewy/internal/dewy/rnglr"
	"github.com/david-andrew/dewy/internal/dewy/sppf"
)

// CompileError wraps a failure from any of the scan/parse/lower/build
// stages with the source position it was raised at, per spec.md §7's
// "offending rule's first token and a one-line cause" requirement.
type CompileError struct {
	Stage string // "scan", "parse", "lower", or "build"
	Pos   int
	Line  int
	Col   int
	Cause error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("dewy: %s error at %d:%d: %v", e.Stage, e.Line, e.Col, e.Cause)
}

func (e *CompileError) Unwrap() error {
	return e.Cause
}

// ParseError reports that an input string was rejected by a compiled
// grammar: no GSS node at the end of input had an accept action, and
// Pos names the furthest position any shifter invocation reached (spec.md
// §7's non-fatal "parse-fail (input)" verdict).
type ParseError struct {
	Pos     int
	TraceID string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dewy: input rejected at position %d (trace %s)", e.Pos, e.TraceID)
}

// Grammar is a compiled Dewy grammar: the interned symbol/production
// tables, the FIRST/nullable analysis, and the right-nulled RNGLR action
// table, ready to drive any number of Parse calls.
type Grammar struct {
	G      *grammar.Grammar
	An     *grammar.Analysis
	Auto   *automaton.Automaton
	Table  *automaton.Table
	Forest *sppf.Forest
}

// Compile scans, parses, lowers, and builds source into a Grammar.
// startOverride, if non-empty, replaces the start symbol the lowerer would
// otherwise infer (the first rule's head) with the named rule, letting a
// driver parse a sub-grammar without restating the whole file (spec.md §6
// mentions a start-symbol override as a driver convenience).
func Compile(source string, startOverride string) (*Grammar, error) {
	scanner := meta.NewScanner(source)
	toks, err := scanner.All()
	if err != nil {
		if se, ok := err.(*meta.ScanError); ok {
			return nil, &CompileError{Stage: "scan", Pos: se.Pos, Line: se.Line, Col: se.Col, Cause: se}
		}
		return nil, &CompileError{Stage: "scan", Cause: err}
	}

	parser := meta.NewParser(toks)
	rules, err := parser.ParseProgram()
	if err != nil {
		if pe, ok := err.(*meta.ParseError); ok {
			return nil, &CompileError{Stage: "parse", Pos: pe.Pos, Line: pe.Line, Col: pe.Col, Cause: pe}
		}
		return nil, &CompileError{Stage: "parse", Cause: err}
	}

	g := grammar.New()
	lw := meta.NewLowerer(g)
	if err := lw.LowerProgram(rules); err != nil {
		return nil, &CompileError{Stage: "lower", Cause: err}
	}

	if startOverride != "" {
		nt := g.AddNonTerminal(startOverride)
		g.SetStart(nt)
	}

	if err := g.Validate(); err != nil {
		return nil, &CompileError{Stage: "build", Cause: err}
	}
	if err := g.Finalize(); err != nil {
		return nil, &CompileError{Stage: "build", Cause: err}
	}

	an := grammar.Analyze(g)
	forest := sppf.New()
	auto, table, err := automaton.Build(g, an, forest)
	if err != nil {
		return nil, &CompileError{Stage: "build", Cause: err}
	}

	return &Grammar{G: g, An: an, Auto: auto, Table: table, Forest: forest}, nil
}

// Parse drives gr's compiled table over input using a fresh RNGLR/BSR
// parse run, sharing gr.Forest (and thus every nullable sub-forest
// automaton.Build pre-registered into it) across the run. On rejection it
// returns the forest accumulated so far (for diagnostics) alongside a
// *ParseError naming the offending position.
func (gr *Grammar) Parse(input string) (*sppf.Forest, int, error) {
	driver := rnglr.New(gr.G, gr.Table, gr.Forest)
	result := driver.Parse([]rune(input))
	if !result.Accepted {
		return result.Forest, 0, &ParseError{Pos: result.FailPos, TraceID: result.TraceID}
	}
	return result.Forest, result.Root, nil
}
