package reconcile

import (
	"fmt"
	"io"
	"slices"
	"sync"
)

// Account is a sequence of days indexed by their offset since the account was
// opened.
//
// An Account is built first (Day, SetPosition, AddTransaction), then queried
// (Replay, Reconcile, Report). The first query freezes it: later mutations
// fail with ErrFrozen, and queries can then run concurrently.
type Account struct {
	days   []*Day
	freeze sync.Once
	frozen bool
}

// NewAccount creates an empty account.
func NewAccount() *Account {
	return &Account{}
}

// Len returns the number of days currently known.
func (a *Account) Len() int { return len(a.days) }

// Day returns the day at offset, creating it and any missing day before it.
func (a *Account) Day(offset int) (*Day, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOffset, offset)
	}
	if err := a.ensure(offset); err != nil {
		return nil, err
	}
	return a.days[offset], nil
}

// ensure grows the day sequence so that offset is a valid index.
func (a *Account) ensure(offset int) error {
	if offset < len(a.days) {
		return nil
	}
	if a.frozen {
		return fmt.Errorf("cannot create day %d: %w", offset, ErrFrozen)
	}
	for len(a.days) <= offset {
		a.days = append(a.days, newDay())
	}
	return nil
}

// Days returns the days in offset order.
func (a *Account) Days() []*Day {
	return a.days[:len(a.days):len(a.days)]
}

// day returns the day at offset, or an empty placeholder, without growing the
// sequence.
func (a *Account) day(offset int) *Day {
	if offset < len(a.days) {
		return a.days[offset]
	}
	return newDay()
}

func (a *Account) seal() {
	a.freeze.Do(func() {
		a.frozen = true
		for _, d := range a.days {
			d.frozen = true
		}
	})
}

// resolve validates a start and end offset pair. A negative end counts from
// the end of the sequence like a slice index: -1 is the last known day.
func (a *Account) resolve(start, end int) (int, int, error) {
	if end < 0 {
		end += len(a.days)
	}
	if start < 0 {
		return 0, 0, fmt.Errorf("%w: start %d", ErrInvalidOffset, start)
	}
	if end < 0 {
		return 0, 0, fmt.Errorf("%w: end day resolves to %d", ErrOutOfRange, end)
	}
	if end < start {
		return 0, 0, fmt.Errorf("%w: end day %d is before start day %d", ErrOutOfRange, end, start)
	}
	return start, end, nil
}

// Replay applies the transactions of days start+1 to end, in order, to the
// positions recorded on start.
func (a *Account) Replay(start, end int) (Positions, error) {
	start, end, err := a.resolve(start, end)
	if err != nil {
		return nil, err
	}
	a.seal()
	positions, _ := a.replay(start, end)
	return positions, nil
}

// replay returns the replayed positions and the number of transactions applied.
func (a *Account) replay(start, end int) (Positions, int) {
	positions := a.day(start).Positions()
	n := 0
	for i := start + 1; i <= end; i++ {
		for t := range a.day(i).Transactions() {
			t.Apply(positions)
			n++
		}
	}
	return positions, n
}

// Reconcile replays the transactions from start to end and returns the
// difference between the positions recorded on end and the replayed ones.
//
// A negative end counts from the end of the known days. Days beyond the known
// ones are read as empty and are not created.
func (a *Account) Reconcile(start, end int) (Diff, error) {
	r, err := a.Report(start, end)
	if err != nil {
		return nil, err
	}
	return r.Diff, nil
}

// ReconcileTo is like Reconcile and also writes the difference to w in the
// line format.
func (a *Account) ReconcileTo(w io.Writer, start, end int) (Diff, error) {
	diff, err := a.Reconcile(start, end)
	if err != nil {
		return nil, err
	}
	if err := EncodeDiff(w, diff); err != nil {
		return nil, err
	}
	return diff, nil
}

// Report is the detailed result of a reconciliation.
type Report struct {
	Start        int       // Start is the day whose positions the replay starts from.
	End          int       // End is the day whose recorded positions are compared.
	Transactions int       // Transactions is the number of transactions replayed.
	Snapshot     bool      // Snapshot is true when End has recorded positions.
	Replayed     Positions // Replayed are the positions computed by the replay.
	Recorded     Positions // Recorded are the positions recorded on End.
	Diff         Diff      // Diff is Recorded minus Replayed, non-zero entries only.
}

// Report reconciles start to end and keeps the intermediate positions.
func (a *Account) Report(start, end int) (*Report, error) {
	start, end, err := a.resolve(start, end)
	if err != nil {
		return nil, err
	}
	a.seal()

	replayed, n := a.replay(start, end)
	last := a.day(end)
	return &Report{
		Start:        start,
		End:          end,
		Transactions: n,
		Snapshot:     last.HasSnapshot(),
		Replayed:     replayed,
		Recorded:     last.Positions(),
		Diff:         last.Reconcile(replayed),
	}, nil
}

// Symbols returns every symbol in the report, sorted.
func (r *Report) Symbols() []string {
	all := r.Replayed.Clone()
	for symbol := range r.Recorded {
		all[symbol] = 0
	}
	return slices.Collect(all.Symbols())
}

// MarshalJSON implements the json.Marshaler interface with a stable key order.
func (r *Report) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("start", r.Start).
		Append("end", r.End).
		Append("transactions", r.Transactions).
		Append("snapshot", r.Snapshot).
		Append("replayed", r.Replayed).
		Append("recorded", r.Recorded).
		Append("diff", r.Diff)
	return w.MarshalJSON()
}
