package reconcile

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the operation carried by a Transaction.
type Kind int

// Transaction kinds. The set is closed: ParseKind only resolves these names.
const (
	Buy Kind = iota
	Sell
	Deposit
	Fee
	Dividend
)

var kindNames = map[string]Kind{
	"BUY":      Buy,
	"SELL":     Sell,
	"DEPOSIT":  Deposit,
	"FEE":      Fee,
	"DIVIDEND": Dividend,
}

func (k Kind) String() string {
	switch k {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	case Deposit:
		return "DEPOSIT"
	case Fee:
		return "FEE"
	case Dividend:
		return "DIVIDEND"
	default:
		return "unknown"
	}
}

// title returns the kind name as used in human readable output (e.g. "Buy").
func (k Kind) title() string {
	s := k.String()
	return s[:1] + strings.ToLower(s[1:])
}

// ParseKind resolves an operation name, ignoring case.
func ParseKind(name string) (Kind, error) {
	k, ok := kindNames[strings.ToUpper(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	return k, nil
}

// Transaction is an operation recorded on a day. It is a value: once built it
// is never modified.
type Transaction struct {
	Kind     Kind
	Symbol   string  // Symbol is the security, or Cash for cash only operations.
	Quantity float64 // Quantity is the number of shares.
	Value    float64 // Value is the monetary amount.
}

// NewTransaction creates a transaction for the named operation.
func NewTransaction(operation, symbol string, quantity, value float64) (Transaction, error) {
	k, err := ParseKind(operation)
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{Kind: k, Symbol: symbol, Quantity: quantity, Value: value}, nil
}

// ParseTransaction parses a line in the form
//
//	<symbol> <operation> <quantity> <value>
func ParseTransaction(line string) (Transaction, error) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return Transaction{}, fmt.Errorf("%w: transaction wants 4 fields, got %d", ErrMalformedLine, len(fields))
	}
	quantity, err := parseNumber(fields[2])
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: quantity: %v", ErrMalformedLine, err)
	}
	value, err := parseNumber(fields[3])
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: value: %v", ErrMalformedLine, err)
	}
	return NewTransaction(fields[1], fields[0], quantity, value)
}

// parseNumber parses a finite float.
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

// Apply mutates positions according to the transaction. Missing symbols count
// as zero.
func (t Transaction) Apply(positions Positions) {
	switch t.Kind {
	case Buy:
		positions[t.Symbol] += t.Quantity
		positions[Cash] -= t.Value
	case Sell:
		positions[t.Symbol] -= t.Quantity
		positions[Cash] += t.Value
	case Deposit:
		positions[Cash] += t.Value
	case Fee:
		positions[Cash] -= t.Value
	case Dividend:
		// the paying security's share count is untouched.
		positions[Cash] += t.Value
	}
}

// String returns a short description, e.g. "Buy(GOOG, 10, 10000)".
func (t Transaction) String() string {
	return fmt.Sprintf("%s(%s, %s, %s)", t.Kind.title(), t.Symbol, FormatQuantity(t.Quantity), FormatQuantity(t.Value))
}

// Line returns the transaction in the line format accepted by ParseTransaction.
func (t Transaction) Line() string {
	return t.Symbol + " " + t.Kind.String() + " " + FormatQuantity(t.Quantity) + " " + FormatQuantity(t.Value)
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("operation", t.Kind.String())
	w.Append("symbol", t.Symbol)
	w.Optional("quantity", t.Quantity)
	w.Append("value", t.Value)
	return w.MarshalJSON()
}
