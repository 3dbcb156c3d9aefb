package meta

import "github.com/david-andrew/dewy/internal/dewy/charset"

// Fold applies constant folding to a meta-AST: set-algebra operators over
// two charset operands collapse to a single charset node, degenerate
// repetition counts collapse to simpler nodes, and nested Cat/Or nodes
// flatten into their parent, all without changing the language the node
// denotes. Folding runs bottom-up so that folded children are visible to
// their parents.
func Fold(n *Node) *Node {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case NodeStar, NodePlus, NodeOption, NodeCompliment, NodeCapture:
		n.Inner = Fold(n.Inner)
	case NodeCount:
		n.Inner = Fold(n.Inner)
	case NodeCat, NodeOr:
		for i, item := range n.Items {
			n.Items[i] = Fold(item)
		}
	case NodeIntersect, NodeReject, NodeNoFollow, NodeGreaterThan, NodeLessThan:
		n.Left = Fold(n.Left)
		n.Right = Fold(n.Right)
	}

	switch n.Kind {
	case NodeCount:
		return foldCount(n)
	case NodeCat:
		return foldCat(n)
	case NodeOr:
		return foldOr(n)
	case NodeCompliment:
		if n.Inner.Kind == NodeCharset {
			return CharsetNode(n.Inner.Charset.Complement())
		}
		if n.Inner.Kind == NodeCompliment {
			return n.Inner.Inner
		}
	case NodeIntersect:
		if n.Left.Kind == NodeCharset && n.Right.Kind == NodeCharset {
			return CharsetNode(n.Left.Charset.Intersect(n.Right.Charset))
		}
	case NodeReject:
		if n.Left.Kind == NodeCharset && n.Right.Kind == NodeCharset {
			return CharsetNode(n.Left.Charset.Difference(n.Right.Charset))
		}
	case NodeOption:
		if n.Inner.Kind == NodeEpsilon {
			return Eps()
		}
	case NodeStar:
		if n.Inner.Kind == NodeEpsilon {
			return Eps()
		}
	}

	return n
}

// foldCount collapses {0} to epsilon, {1} to the bare inner node, and
// otherwise expands {n} to a flat concatenation of n copies (n is always
// a small literal parsed from source, so this never blows up unreasonably).
func foldCount(n *Node) *Node {
	if n.Count == 0 {
		return Eps()
	}
	if n.Count == 1 {
		return n.Inner
	}
	items := make([]*Node, n.Count)
	for i := range items {
		items[i] = cloneNode(n.Inner)
	}
	return foldCat(&Node{Kind: NodeCat, Items: items})
}

// foldCat flattens nested Cat nodes, drops epsilons and merges runs of
// adjacent string literals so that only non-trivial operands remain.
func foldCat(n *Node) *Node {
	var flat []*Node
	for _, item := range n.Items {
		if item.Kind == NodeCat {
			flat = append(flat, item.Items...)
		} else {
			flat = append(flat, item)
		}
	}

	var merged []*Node
	for _, item := range flat {
		if item.Kind == NodeEpsilon {
			continue
		}
		if len(merged) > 0 && merged[len(merged)-1].Kind == NodeString && item.Kind == NodeString {
			last := merged[len(merged)-1]
			last.Runes = append(append([]rune{}, last.Runes...), item.Runes...)
			continue
		}
		merged = append(merged, item)
	}

	if len(merged) == 0 {
		return Eps()
	}
	if len(merged) == 1 {
		return merged[0]
	}
	return &Node{Kind: NodeCat, Items: merged}
}

// foldOr flattens nested Or nodes and merges every charset alternative
// (and every single-rune string standing in for one) into a single charset
// via union, placed ahead of the remaining alternatives, matching the rule that `'a' | 'b'` denotes the same language as
// `[ab]`.
func foldOr(n *Node) *Node {
	var flat []*Node
	for _, item := range n.Items {
		if item.Kind == NodeOr {
			flat = append(flat, item.Items...)
		} else {
			flat = append(flat, item)
		}
	}

	var mergedCS charset.Set
	haveCS := false
	var rest []*Node
	for _, item := range flat {
		cs, ok := asSingleCharset(item)
		if ok {
			if haveCS {
				mergedCS = mergedCS.Union(cs)
			} else {
				mergedCS = cs
				haveCS = true
			}
			continue
		}
		rest = append(rest, item)
	}

	var items []*Node
	if haveCS {
		items = append(items, CharsetNode(mergedCS))
	}
	items = append(items, rest...)

	if len(items) == 0 {
		return Eps()
	}
	if len(items) == 1 {
		return items[0]
	}
	return &Node{Kind: NodeOr, Items: items}
}

// asSingleCharset reports whether a node denotes exactly one codepoint's
// worth of charset, returning that charset if so: a NodeCharset as-is, or
// a one-rune NodeString reinterpreted as a singleton set.
func asSingleCharset(n *Node) (charset.Set, bool) {
	if n.Kind == NodeCharset {
		return n.Charset, true
	}
	if n.Kind == NodeString && len(n.Runes) == 1 {
		return charset.Single(n.Runes[0]), true
	}
	return charset.Set{}, false
}

func cloneNode(n *Node) *Node {
	if n == nil {
		return nil
	}
	cp := *n
	cp.Inner = cloneNode(n.Inner)
	cp.Left = cloneNode(n.Left)
	cp.Right = cloneNode(n.Right)
	cp.Items = make([]*Node, len(n.Items))
	for i, item := range n.Items {
		cp.Items[i] = cloneNode(item)
	}
	cp.Runes = append([]rune{}, n.Runes...)
	return &cp
}
