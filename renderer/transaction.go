package renderer

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/etnz/reconcile"
)

// Transaction renders a transaction to a sentence.
func Transaction(t reconcile.Transaction, currency string) string {
	value := Money(t.Value, currency)
	switch t.Kind {
	case reconcile.Buy:
		return fmt.Sprintf("Bought %s %s for %s", reconcile.FormatQuantity(t.Quantity), t.Symbol, value)
	case reconcile.Sell:
		return fmt.Sprintf("Sold %s %s for %s", reconcile.FormatQuantity(t.Quantity), t.Symbol, value)
	case reconcile.Deposit:
		return fmt.Sprintf("Deposited %s", value)
	case reconcile.Fee:
		return fmt.Sprintf("Paid a fee of %s", value)
	case reconcile.Dividend:
		return fmt.Sprintf("Received a dividend of %s from %s", value, t.Symbol)
	default:
		return t.String()
	}
}

// Quantity formats the quantity of symbol: an amount of money for Cash, a
// number of shares otherwise.
func Quantity(symbol string, v float64, currency string) string {
	if symbol == reconcile.Cash {
		return Money(v, currency)
	}
	return reconcile.FormatQuantity(v)
}

// Money formats an amount in the currency with the given ISO 4217 code. An
// unknown code, or an amount too large for the currency minor units, falls
// back to the plain number followed by the code.
func Money(v float64, code string) string {
	c := money.GetCurrency(strings.ToUpper(code))
	if c == nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return reconcile.FormatQuantity(v) + " " + code
	}
	minor := math.Round(v * math.Pow10(c.Fraction))
	if math.Abs(minor) >= 1<<63 {
		// beyond int64 minor units.
		return reconcile.FormatQuantity(v) + " " + c.Code
	}
	return money.New(int64(minor), c.Code).Display()
}
