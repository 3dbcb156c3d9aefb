package meta

import (
	"fmt"
	"strings"

	"github.com/david-andrew/dewy/internal/dewy/charset"
)

// NodeKind enumerates the meta-AST node variants produced by the parser,
// per the extended grammar's meta-language constructs.
type NodeKind int

const (
	NodeEpsilon NodeKind = iota
	NodeCharset
	NodeString
	NodeCaseless
	NodeIdentifier
	NodeStar
	NodePlus
	NodeOption
	NodeCount
	NodeCat
	NodeOr
	NodeCompliment
	NodeIntersect
	NodeReject
	NodeNoFollow
	NodeGreaterThan
	NodeLessThan
	NodeCapture
)

var nodeKindNames = map[NodeKind]string{
	NodeEpsilon:     "eps",
	NodeCharset:     "charset",
	NodeString:      "string",
	NodeCaseless:    "caseless",
	NodeIdentifier:  "identifier",
	NodeStar:        "star",
	NodePlus:        "plus",
	NodeOption:      "option",
	NodeCount:       "count",
	NodeCat:         "cat",
	NodeOr:          "or",
	NodeCompliment:  "compliment",
	NodeIntersect:   "intersect",
	NodeReject:      "reject",
	NodeNoFollow:    "nofollow",
	NodeGreaterThan: "greaterthan",
	NodeLessThan:    "lessthan",
	NodeCapture:     "capture",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node is a single meta-AST node. Not every field applies to every Kind;
// see the per-constructor doc comments for which fields are meaningful.
type Node struct {
	Kind    NodeKind
	Charset charset.Set // NodeCharset
	Runes   []rune      // NodeString, NodeCaseless
	Name    string      // NodeIdentifier
	Inner   *Node       // NodeStar, NodePlus, NodeOption, NodeCount, NodeCompliment, NodeCapture
	Count   int         // NodeCount: exact repetition count
	Items   []*Node     // NodeCat, NodeOr: operands in order
	Left    *Node       // NodeIntersect, NodeReject, NodeNoFollow, NodeGreaterThan, NodeLessThan
	Right   *Node       // NodeIntersect, NodeReject, NodeNoFollow, NodeGreaterThan, NodeLessThan
}

// Eps is the canonical empty-production node.
func Eps() *Node { return &Node{Kind: NodeEpsilon} }

func CharsetNode(cs charset.Set) *Node { return &Node{Kind: NodeCharset, Charset: cs} }

func StringNode(runes []rune) *Node { return &Node{Kind: NodeString, Runes: runes} }

func CaselessNode(runes []rune) *Node { return &Node{Kind: NodeCaseless, Runes: runes} }

func IdentifierNode(name string) *Node { return &Node{Kind: NodeIdentifier, Name: name} }

func StarNode(inner *Node) *Node { return &Node{Kind: NodeStar, Inner: inner} }

func PlusNode(inner *Node) *Node { return &Node{Kind: NodePlus, Inner: inner} }

func OptionNode(inner *Node) *Node { return &Node{Kind: NodeOption, Inner: inner} }

func CountNode(inner *Node, n int) *Node { return &Node{Kind: NodeCount, Inner: inner, Count: n} }

func CatNode(items ...*Node) *Node { return &Node{Kind: NodeCat, Items: items} }

func OrNode(items ...*Node) *Node { return &Node{Kind: NodeOr, Items: items} }

func ComplimentNode(inner *Node) *Node { return &Node{Kind: NodeCompliment, Inner: inner} }

func IntersectNode(l, r *Node) *Node { return &Node{Kind: NodeIntersect, Left: l, Right: r} }

func RejectNode(l, r *Node) *Node { return &Node{Kind: NodeReject, Left: l, Right: r} }

func NoFollowNode(l, r *Node) *Node { return &Node{Kind: NodeNoFollow, Left: l, Right: r} }

func GreaterThanNode(l, r *Node) *Node { return &Node{Kind: NodeGreaterThan, Left: l, Right: r} }

func LessThanNode(l, r *Node) *Node { return &Node{Kind: NodeLessThan, Left: l, Right: r} }

func CaptureNode(inner *Node) *Node { return &Node{Kind: NodeCapture, Inner: inner} }

// String renders a node as a compact s-expression, used by tests and
// diagnostics rather than as a wire format.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case NodeEpsilon:
		return "ϵ"
	case NodeCharset:
		return n.Charset.String()
	case NodeString:
		return fmt.Sprintf("%q", string(n.Runes))
	case NodeCaseless:
		return fmt.Sprintf("{%s}", string(n.Runes))
	case NodeIdentifier:
		return "#" + n.Name
	case NodeStar:
		return fmt.Sprintf("(%s)*", n.Inner)
	case NodePlus:
		return fmt.Sprintf("(%s)+", n.Inner)
	case NodeOption:
		return fmt.Sprintf("(%s)?", n.Inner)
	case NodeCount:
		return fmt.Sprintf("(%s){%d}", n.Inner, n.Count)
	case NodeCat:
		parts := make([]string, len(n.Items))
		for i, item := range n.Items {
			parts[i] = item.String()
		}
		return strings.Join(parts, " ")
	case NodeOr:
		parts := make([]string, len(n.Items))
		for i, item := range n.Items {
			parts[i] = item.String()
		}
		return strings.Join(parts, " | ")
	case NodeCompliment:
		return fmt.Sprintf("~(%s)", n.Inner)
	case NodeIntersect:
		return fmt.Sprintf("(%s & %s)", n.Left, n.Right)
	case NodeReject:
		return fmt.Sprintf("(%s - %s)", n.Left, n.Right)
	case NodeNoFollow:
		return fmt.Sprintf("(%s /%s)", n.Left, n.Right)
	case NodeGreaterThan:
		return fmt.Sprintf("(%s > %s)", n.Left, n.Right)
	case NodeLessThan:
		return fmt.Sprintf("(%s < %s)", n.Left, n.Right)
	case NodeCapture:
		return fmt.Sprintf("&(%s)", n.Inner)
	}
	return "<invalid>"
}

// Rule is a single parsed `#name = <node>;` meta-rule.
type Rule struct {
	Name string
	Body *Node
}
