package reconcile

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// canonicalInput is the reference scenario: one snapshot, a day of mixed
// transactions, and the recorded snapshot to reconcile against.
const canonicalInput = `D0-POS
AAPL 100
GOOG 200
SP500 175.75
Cash 1000

D1-TRN
AAPL SELL 100 30000
GOOG BUY 10 10000
Cash DEPOSIT 0 1000
Cash FEE 0 50
GOOG DIVIDEND 0 50
TD BUY 100 10000

D1-POS
GOOG 220
SP500 175.75
Cash 20000
MSFT 10
`

func mustDecode(t *testing.T, input string) *Account {
	t.Helper()
	account, err := DecodeAccount(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeAccount() unexpected error: %v", err)
	}
	return account
}

func TestAccount_ReconcileCanonical(t *testing.T) {
	account := mustDecode(t, canonicalInput)

	got, err := account.Reconcile(0, 1)
	if err != nil {
		t.Fatalf("Reconcile(0, 1) unexpected error: %v", err)
	}
	want := Diff{Cash: 8000, "GOOG": 10, "MSFT": 10, "TD": -100}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Reconcile(0, 1) mismatch (-want +got):\n%s", diff)
	}

	var b strings.Builder
	if _, err := account.ReconcileTo(&b, 0, 1); err != nil {
		t.Fatalf("ReconcileTo() unexpected error: %v", err)
	}
	if got, want := b.String(), "Cash 8000\nGOOG 10\nMSFT 10\nTD -100\n"; got != want {
		t.Errorf("ReconcileTo() wrote %q, want %q", got, want)
	}
}

func TestAccount_ReconcileNegativeEnd(t *testing.T) {
	account := mustDecode(t, canonicalInput)

	byOffset, err := account.Reconcile(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	byDefault, err := account.Reconcile(0, -1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(byOffset, byDefault); diff != "" {
		t.Errorf("Reconcile(0, -1) differs from Reconcile(0, 1) (-want +got):\n%s", diff)
	}

	// -2 is day 0: nothing replayed, the snapshot matches itself.
	got, err := account.Reconcile(0, -2)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsZero() {
		t.Errorf("Reconcile(0, -2) = %v, want empty", got)
	}
}

func TestAccount_ReconcileIsRepeatable(t *testing.T) {
	account := mustDecode(t, canonicalInput)
	first, err := account.Reconcile(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	second, err := account.Reconcile(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second Reconcile() differs (-first +second):\n%s", diff)
	}
	if account.Len() != 2 {
		t.Errorf("Len() = %d after reconcile, want 2", account.Len())
	}
}

func TestAccount_ReconcileErrors(t *testing.T) {
	testCases := []struct {
		name       string
		start, end int
		want       error
	}{
		{name: "negative start", start: -1, end: 1, want: ErrInvalidOffset},
		{name: "end before start", start: 1, end: 0, want: ErrOutOfRange},
		{name: "end too negative", start: 0, end: -3, want: ErrOutOfRange},
		{name: "negative end before start", start: 1, end: -2, want: ErrOutOfRange},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			account := mustDecode(t, canonicalInput)
			diff, err := account.Reconcile(tc.start, tc.end)
			if !errors.Is(err, tc.want) {
				t.Errorf("Reconcile(%d, %d) error = %v, want %v", tc.start, tc.end, err, tc.want)
			}
			if diff != nil {
				t.Errorf("Reconcile(%d, %d) = %v, want nil", tc.start, tc.end, diff)
			}
		})
	}
}

func TestAccount_ReconcileEmpty(t *testing.T) {
	_, err := NewAccount().Reconcile(0, -1)
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Reconcile(0, -1) on an empty account error = %v, want ErrOutOfRange", err)
	}
}

func TestAccount_ReconcileBeyondKnownDays(t *testing.T) {
	account := mustDecode(t, canonicalInput)

	// day 5 is unknown: it reads as an empty day and the account is unchanged.
	got, err := account.Reconcile(1, 5)
	if err != nil {
		t.Fatal(err)
	}
	want := Diff{"GOOG": -220, "SP500": -175.75, Cash: -20000, "MSFT": -10}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Reconcile(1, 5) mismatch (-want +got):\n%s", diff)
	}
	if account.Len() != 2 {
		t.Errorf("Len() = %d, want 2", account.Len())
	}
}

func TestAccount_DayIsIdempotent(t *testing.T) {
	account := NewAccount()
	d3, err := account.Day(3)
	if err != nil {
		t.Fatal(err)
	}
	if account.Len() != 4 {
		t.Fatalf("Len() = %d after Day(3), want 4", account.Len())
	}
	again, err := account.Day(3)
	if err != nil {
		t.Fatal(err)
	}
	if again != d3 {
		t.Errorf("Day(3) returned a different day the second time")
	}
	if _, err := account.Day(1); err != nil {
		t.Fatal(err)
	}
	if account.Len() != 4 {
		t.Errorf("Len() = %d, want 4", account.Len())
	}
	for i, d := range account.Days() {
		if d == nil {
			t.Errorf("day %d is nil", i)
		}
	}
}

func TestAccount_DayNegative(t *testing.T) {
	if _, err := NewAccount().Day(-1); !errors.Is(err, ErrInvalidOffset) {
		t.Errorf("Day(-1) error = %v, want ErrInvalidOffset", err)
	}
}

func TestAccount_Frozen(t *testing.T) {
	account := mustDecode(t, canonicalInput)
	if _, err := account.Reconcile(0, 1); err != nil {
		t.Fatal(err)
	}

	day, err := account.Day(1)
	if err != nil {
		t.Fatalf("Day(1) on a frozen account: %v", err)
	}
	if err := day.SetPosition("AAPL", 1); !errors.Is(err, ErrFrozen) {
		t.Errorf("SetPosition() error = %v, want ErrFrozen", err)
	}
	if err := day.AddTransaction(Transaction{Kind: Fee, Symbol: Cash, Value: 1}); !errors.Is(err, ErrFrozen) {
		t.Errorf("AddTransaction() error = %v, want ErrFrozen", err)
	}
	if _, err := account.Day(2); !errors.Is(err, ErrFrozen) {
		t.Errorf("Day(2) error = %v, want ErrFrozen", err)
	}
}

// Transactions of day 1 are all applied before those of day 2, which start
// from day 1's replayed positions, not its recorded ones.
func TestAccount_ReplayCrossDayOrder(t *testing.T) {
	account := mustDecode(t, `
D0-POS
Cash 100

D1-TRN
X BUY 1 100

D1-POS
X 1
Cash 5000

D2-TRN
X SELL 1 150
`)
	got, err := account.Replay(0, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := Positions{"X": 0, Cash: 150}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Replay(0, 2) mismatch (-want +got):\n%s", diff)
	}

	// replaying from day 1 starts from its recorded positions instead.
	got, err = account.Replay(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	want = Positions{"X": 0, Cash: 5150}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Replay(1, 2) mismatch (-want +got):\n%s", diff)
	}
}

// Same-day transactions only add to symbols and cash, swapping them leaves
// the result unchanged.
func TestAccount_SameDayOrderCommutes(t *testing.T) {
	a := mustDecode(t, "D0-POS\nCash 100\nD1-TRN\nA BUY 1 60\nB BUY 1 60\nD1-POS\nA 1\nB 1\n")
	b := mustDecode(t, "D0-POS\nCash 100\nD1-TRN\nB BUY 1 60\nA BUY 1 60\nD1-POS\nA 1\nB 1\n")

	da, err := a.Reconcile(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	db, err := b.Reconcile(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(da, db); diff != "" {
		t.Errorf("swapping same day transactions changed the result (-a +b):\n%s", diff)
	}
	if got := da[Cash]; got != 20 {
		t.Errorf("Cash difference = %v, want 20", got)
	}
}

func TestAccount_Report(t *testing.T) {
	account := mustDecode(t, canonicalInput)
	r, err := account.Report(0, -1)
	if err != nil {
		t.Fatal(err)
	}
	if r.Start != 0 || r.End != 1 {
		t.Errorf("Report range = [%d, %d], want [0, 1]", r.Start, r.End)
	}
	if r.Transactions != 6 {
		t.Errorf("Transactions = %d, want 6", r.Transactions)
	}
	if !r.Snapshot {
		t.Errorf("Snapshot = false, want true")
	}
	wantReplayed := Positions{"AAPL": 0, "GOOG": 210, "SP500": 175.75, "TD": 100, Cash: 12000}
	if diff := cmp.Diff(wantReplayed, r.Replayed); diff != "" {
		t.Errorf("Replayed mismatch (-want +got):\n%s", diff)
	}
	wantSymbols := []string{"AAPL", Cash, "GOOG", "MSFT", "SP500", "TD"}
	if diff := cmp.Diff(wantSymbols, r.Symbols()); diff != "" {
		t.Errorf("Symbols() mismatch (-want +got):\n%s", diff)
	}
}

func TestAccount_ConcurrentReconcile(t *testing.T) {
	account := mustDecode(t, canonicalInput)
	want := Diff{Cash: 8000, "GOOG": 10, "MSFT": 10, "TD": -100}

	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := account.Reconcile(0, 1)
			if err != nil {
				errs <- err.Error()
				return
			}
			if diff := cmp.Diff(want, got); diff != "" {
				errs <- diff
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}
