package meta

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/david-andrew/dewy/internal/dewy/charset"
	"github.com/david-andrew/dewy/internal/dewy/grammar"
)

// caseFolders drive literalRuneTerm's caseless matching; language.Und keeps
// the folding locale-independent, matching the meta-language's own lack of
// a locale notion.
var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
)

// LowerError reports a failure to lower a meta-AST construct into pure CFG
// productions, distinct from ScanError and ParseError since it originates
// after a syntactically valid parse.
type LowerError struct {
	Rule string
	Msg  string
}

func (e *LowerError) Error() string {
	return fmt.Sprintf("lower-fail in rule #%s: %s", e.Rule, e.Msg)
}

// Lowerer turns a parsed, folded program (a list of Rule definitions) into
// productions inserted into a grammar.Grammar, introducing a synthetic
// non-terminal for every extended construct (star, plus, option, nested
// alternation, and the set-algebra operators) that has no direct CFG
// production shape of its own.
type Lowerer struct {
	g          *grammar.Grammar
	rules      map[string]int
	curRule    string
	synthCount int
	emptyNT    int
	haveEmpty  bool
}

// NewLowerer returns a Lowerer that inserts productions into g.
func NewLowerer(g *grammar.Grammar) *Lowerer {
	return &Lowerer{g: g, rules: map[string]int{}}
}

// LowerProgram interns every rule name as a non-terminal up front (so
// forward references resolve), sets the grammar's start symbol to the
// first rule, then lowers each rule body in turn.
func (lw *Lowerer) LowerProgram(rules []Rule) error {
	if len(rules) == 0 {
		return fmt.Errorf("dewy/meta: program has no rules")
	}

	for _, r := range rules {
		lw.rules[r.Name] = lw.g.AddNonTerminal(r.Name)
	}
	lw.g.SetStart(lw.rules[rules[0].Name])

	for _, r := range rules {
		lw.curRule = r.Name
		head := lw.rules[r.Name]
		if err := lw.lowerTopLevel(head, r.Body); err != nil {
			return err
		}
	}
	return nil
}

func (lw *Lowerer) synthName(tag string) string {
	lw.synthCount++
	return fmt.Sprintf("$%s%d", tag, lw.synthCount)
}

func (lw *Lowerer) emptySymbol() int {
	if lw.haveEmpty {
		return lw.emptyNT
	}
	lw.emptyNT = lw.g.AddNonTerminal("$empty")
	lw.g.AddProduction(lw.emptyNT, nil)
	lw.haveEmpty = true
	return lw.emptyNT
}

// lowerTopLevel adds head's productions directly from node, without
// wrapping node in an extra synthetic non-terminal: a top-level Or becomes
// one production per alternative, anything else becomes head's sole
// production.
func (lw *Lowerer) lowerTopLevel(head int, node *Node) error {
	if node.Kind == NodeOr {
		for _, alt := range node.Items {
			if err := lw.addAlternative(head, alt); err != nil {
				return err
			}
		}
		return nil
	}
	return lw.addAlternative(head, node)
}

func (lw *Lowerer) addAlternative(head int, node *Node) error {
	body, err := lw.lowerSequence(node)
	if err != nil {
		return err
	}
	lw.g.AddProduction(head, body)
	return nil
}

// lowerSequence returns the production-body symbol list that node denotes
// when used as (one alternative of) a production body: a Cat flattens into
// its per-item symbols, an Epsilon contributes the empty body, anything
// else lowers to the single symbol that stands for its whole language.
func (lw *Lowerer) lowerSequence(node *Node) ([]int, error) {
	if node.Kind == NodeEpsilon {
		return nil, nil
	}
	if node.Kind == NodeCat {
		var body []int
		for _, item := range node.Items {
			if item.Kind == NodeEpsilon {
				continue
			}
			sym, err := lw.lowerSymbol(item)
			if err != nil {
				return nil, err
			}
			body = append(body, sym)
		}
		return body, nil
	}
	sym, err := lw.lowerSymbol(node)
	if err != nil {
		return nil, err
	}
	return []int{sym}, nil
}

// lowerSymbol returns the single symbol index (terminal or non-terminal)
// that stands for node's entire language, synthesizing new non-terminals
// and productions for any construct that needs more than one production
// to express.
func (lw *Lowerer) lowerSymbol(node *Node) (int, error) {
	switch node.Kind {
	case NodeEpsilon:
		return lw.emptySymbol(), nil

	case NodeCharset:
		return lw.g.AddTerm(node.Charset.String(), node.Charset), nil

	case NodeString:
		return lw.lowerLiteralRunes(node.Runes, false)

	case NodeCaseless:
		return lw.lowerLiteralRunes(node.Runes, true)

	case NodeIdentifier:
		if node.Name == "$" {
			return lw.g.AddTerm(grammar.EndmarkerName, charset.Single(charset.EndOfInput)), nil
		}
		nt, ok := lw.rules[node.Name]
		if !ok {
			return 0, &LowerError{Rule: lw.curRule, Msg: fmt.Sprintf("reference to undefined rule #%s", node.Name)}
		}
		return nt, nil

	case NodeStar:
		inner, err := lw.lowerSymbol(node.Inner)
		if err != nil {
			return 0, err
		}
		x := lw.g.AddNonTerminal(lw.synthName("star"))
		lw.g.AddProduction(x, []int{inner, x})
		lw.g.AddProduction(x, nil)
		return x, nil

	case NodePlus:
		inner, err := lw.lowerSymbol(node.Inner)
		if err != nil {
			return 0, err
		}
		x := lw.g.AddNonTerminal(lw.synthName("plus"))
		lw.g.AddProduction(x, []int{inner, x})
		lw.g.AddProduction(x, []int{inner})
		return x, nil

	case NodeOption:
		inner, err := lw.lowerSymbol(node.Inner)
		if err != nil {
			return 0, err
		}
		x := lw.g.AddNonTerminal(lw.synthName("opt"))
		lw.g.AddProduction(x, []int{inner})
		lw.g.AddProduction(x, nil)
		return x, nil

	case NodeCount:
		return lw.lowerSymbol(Fold(node))

	case NodeCat:
		body, err := lw.lowerSequence(node)
		if err != nil {
			return 0, err
		}
		x := lw.g.AddNonTerminal(lw.synthName("cat"))
		lw.g.AddProduction(x, body)
		return x, nil

	case NodeOr:
		x := lw.g.AddNonTerminal(lw.synthName("or"))
		for _, alt := range node.Items {
			body, err := lw.lowerSequence(alt)
			if err != nil {
				return 0, err
			}
			lw.g.AddProduction(x, body)
		}
		return x, nil

	case NodeCapture:
		inner, err := lw.lowerSymbol(node.Inner)
		if err != nil {
			return 0, err
		}
		lw.g.Captures[inner] = true
		return inner, nil

	case NodeCompliment:
		return 0, &LowerError{Rule: lw.curRule, Msg: "compliment (~) is only supported directly over a charset-level expression"}

	case NodeIntersect:
		return 0, &LowerError{Rule: lw.curRule, Msg: "intersect (&) is only supported directly between two charset-level expressions"}

	case NodeReject:
		left, err := lw.lowerSymbol(node.Left)
		if err != nil {
			return 0, err
		}
		right, err := lw.lowerSymbol(node.Right)
		if err != nil {
			return 0, err
		}
		x := lw.g.AddNonTerminal(lw.synthName("reject"))
		lw.g.AddProduction(x, []int{left})
		lw.g.Rejects[x] = [2]int{left, right}
		return x, nil

	case NodeNoFollow:
		left, err := lw.lowerSymbol(node.Left)
		if err != nil {
			return 0, err
		}
		right, err := lw.lowerSymbol(node.Right)
		if err != nil {
			return 0, err
		}
		x := lw.g.AddNonTerminal(lw.synthName("nofollow"))
		lw.g.AddProduction(x, []int{left})
		lw.g.NoFollows[x] = [2]int{left, right}
		return x, nil

	case NodeGreaterThan, NodeLessThan:
		left, err := lw.lowerSymbol(node.Left)
		if err != nil {
			return 0, err
		}
		right, err := lw.lowerSymbol(node.Right)
		if err != nil {
			return 0, err
		}
		x := lw.g.AddNonTerminal(lw.synthName("prec"))
		lw.g.AddProduction(x, []int{left})
		lw.g.AddProduction(x, []int{right})
		if node.Kind == NodeGreaterThan {
			lw.g.Precedence[x] = [2]int{left, right}
		} else {
			lw.g.Precedence[x] = [2]int{right, left}
		}
		return x, nil
	}

	return 0, &LowerError{Rule: lw.curRule, Msg: fmt.Sprintf("unsupported construct %s", node.Kind)}
}

// lowerLiteralRunes lowers a fixed rune sequence (from a string or caseless
// string literal) to a single symbol: the empty non-terminal if it has no
// runes, a single terminal if it has exactly one, or a fresh non-terminal
// sequencing one terminal per rune otherwise. When caseless is set, each
// rune's terminal charset covers both of its Unicode cases.
func (lw *Lowerer) lowerLiteralRunes(runes []rune, caseless bool) (int, error) {
	if len(runes) == 0 {
		return lw.emptySymbol(), nil
	}
	if len(runes) == 1 {
		return lw.literalRuneTerm(runes[0], caseless), nil
	}
	x := lw.g.AddNonTerminal(lw.synthName("lit"))
	body := make([]int, len(runes))
	for i, r := range runes {
		body[i] = lw.literalRuneTerm(r, caseless)
	}
	lw.g.AddProduction(x, body)
	return x, nil
}

func (lw *Lowerer) literalRuneTerm(r rune, caseless bool) int {
	if !caseless {
		return lw.g.AddTerm(string(r), charset.Single(r))
	}
	cs := charset.Empty()
	for _, folded := range []string{upperCaser.String(string(r)), lowerCaser.String(string(r))} {
		for _, fr := range folded {
			cs = cs.Union(charset.Single(fr))
		}
	}
	return lw.g.AddTerm(string(r)+"~", cs)
}
