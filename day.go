package reconcile

import (
	"fmt"
	"iter"
	"slices"
)

// Day holds the transactions recorded on one day and the positions recorded
// at the end of it.
type Day struct {
	positions    Positions
	snapshot     bool
	transactions []Transaction
	frozen       bool
}

func newDay() *Day {
	return &Day{positions: make(Positions)}
}

// SetPosition records the end of day quantity for a symbol, replacing any
// previous value.
func (d *Day) SetPosition(symbol string, quantity float64) error {
	if err := d.RecordSnapshot(); err != nil {
		return err
	}
	d.positions[symbol] = quantity
	return nil
}

// RecordSnapshot marks the day as carrying a recorded snapshot, which may be
// empty.
func (d *Day) RecordSnapshot() error {
	if d.frozen {
		return fmt.Errorf("cannot record positions: %w", ErrFrozen)
	}
	d.snapshot = true
	return nil
}

// HasSnapshot reports whether positions were recorded for the day.
func (d *Day) HasSnapshot() bool { return d.snapshot }

// AddTransaction appends t to the day's transactions.
func (d *Day) AddTransaction(t Transaction) error {
	if d.frozen {
		return fmt.Errorf("cannot add %s: %w", t, ErrFrozen)
	}
	d.transactions = append(d.transactions, t)
	return nil
}

// Positions returns a copy of the recorded positions. Modifying it does not
// affect the day.
func (d *Day) Positions() Positions {
	return d.positions.Clone()
}

// Transactions returns an iterator over the transactions in the order they
// were added. It can be iterated any number of times.
func (d *Day) Transactions() iter.Seq[Transaction] {
	return slices.Values(d.transactions)
}

// Len returns the number of transactions.
func (d *Day) Len() int { return len(d.transactions) }

// Reconcile returns the recorded positions minus the computed ones, only for
// symbols that differ.
func (d *Day) Reconcile(computed Positions) Diff {
	return Difference(d.positions, computed)
}
