package grammar

import "strconv"

// Body is a finite ordered sequence of interned symbol indices. The empty
// body (len(Body) == 0) denotes epsilon.
type Body []int

func (b Body) String() string {
	return bodyKey(b)
}

// EpsilonBodyIndex is the reserved index of the interned empty body. Every
// BodyTable interns it first, so it is always index 0, and every rule that
// produces epsilon shares this one index.
const EpsilonBodyIndex = 0

// BodyTable interns production bodies (symbol-index sequences) globally so
// that equal bodies, wherever they occur in the grammar, share one index.
type BodyTable struct {
	bodies []Body
	index  map[string]int
}

// NewBodyTable returns a table with the epsilon body pre-interned at index
// 0.
func NewBodyTable() *BodyTable {
	bt := &BodyTable{index: map[string]int{}}
	bt.Intern(nil)
	return bt
}

func bodyKey(b Body) string {
	if len(b) == 0 {
		return ""
	}
	var out []byte
	for i, sym := range b {
		if i > 0 {
			out = append(out, ',')
		}
		out = strconv.AppendInt(out, int64(sym), 10)
	}
	return string(out)
}

// Intern returns the index of body, interning it if this exact sequence of
// symbol indices has not been seen before.
func (bt *BodyTable) Intern(body []int) int {
	key := bodyKey(body)
	if idx, ok := bt.index[key]; ok {
		return idx
	}
	idx := len(bt.bodies)
	b := make(Body, len(body))
	copy(b, body)
	bt.bodies = append(bt.bodies, b)
	bt.index[key] = idx
	return idx
}

// Get returns the interned body at idx.
func (bt *BodyTable) Get(idx int) Body {
	return bt.bodies[idx]
}

// Len returns the number of interned bodies, including the epsilon body.
func (bt *BodyTable) Len() int {
	return len(bt.bodies)
}
