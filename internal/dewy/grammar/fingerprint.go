package grammar

import (
	"sort"

	"github.com/cnf/structhash"
)

// fingerprintable is a flattened, order-independent view of a Grammar
// that is hashed by structhash. Flattening first avoids hashing unexported
// map/slice internals whose iteration order structhash cannot be trusted
// to normalize on its own.
type fingerprintable struct {
	Symbols     []string
	Productions []string
	Start       int
	StartPrime  int
}

func fingerprint(g *Grammar) (string, error) {
	fp := fingerprintable{
		Start:      g.start,
		StartPrime: g.startPrime,
	}

	for i := 0; i < g.Symbols.Len(); i++ {
		s := g.Symbols.Get(i)
		if s.Kind == Terminal {
			fp.Symbols = append(fp.Symbols, "T:"+s.Charset.Key())
		} else {
			fp.Symbols = append(fp.Symbols, "N:"+s.Name)
		}
	}

	for _, p := range g.order {
		fp.Productions = append(fp.Productions, p.String())
	}
	sort.Strings(fp.Productions)

	return structhash.Hash(fp, 1)
}
