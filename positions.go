package reconcile

import (
	"iter"
	"maps"
	"slices"
)

// Cash is the reserved symbol holding the currency balance.
const Cash = "Cash"

// Positions maps a symbol to a quantity: shares, or the balance for Cash.
// A missing symbol has a quantity of zero.
type Positions map[string]float64

// Clone returns an independent copy, never nil.
func (p Positions) Clone() Positions {
	c := make(Positions, len(p))
	maps.Copy(c, p)
	return c
}

// Symbols returns an iterator over the symbols in lexicographic order.
func (p Positions) Symbols() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(p)))
}

// All returns an iterator over symbol and quantity pairs in symbol order.
func (p Positions) All() iter.Seq2[string, float64] {
	return sortedPairs(p)
}

// MarshalJSON implements the json.Marshaler interface with sorted keys.
func (p Positions) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	for symbol, quantity := range p.All() {
		w.Append(symbol, quantity)
	}
	return w.MarshalJSON()
}

// Diff maps a symbol to a signed, non-zero difference.
type Diff map[string]float64

// Difference returns a-b for every symbol of either mapping, keeping only the
// symbols where the difference is not exactly zero.
//
// The comparison is exact, there is no tolerance: float noise accumulated
// during a replay is reported like any other difference.
func Difference(a, b Positions) Diff {
	d := make(Diff)
	for symbol := range a {
		if v := a[symbol] - b[symbol]; v != 0 {
			d[symbol] = v
		}
	}
	for symbol := range b {
		if _, seen := a[symbol]; seen {
			continue
		}
		if v := -b[symbol]; v != 0 {
			d[symbol] = v
		}
	}
	return d
}

// All returns an iterator over symbol and difference pairs in symbol order.
func (d Diff) All() iter.Seq2[string, float64] {
	return sortedPairs(d)
}

// IsZero reports whether there is nothing to reconcile.
func (d Diff) IsZero() bool { return len(d) == 0 }

// MarshalJSON implements the json.Marshaler interface with sorted keys.
func (d Diff) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	for symbol, v := range d.All() {
		w.Append(symbol, v)
	}
	return w.MarshalJSON()
}

func sortedPairs[M ~map[string]float64](m M) iter.Seq2[string, float64] {
	keys := slices.Sorted(maps.Keys(m))
	return func(yield func(string, float64) bool) {
		for _, key := range keys {
			if !yield(key, m[key]) {
				return
			}
		}
	}
}
