package reconcile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Section headings: D<day>-POS opens the positions of a day, D<day>-TRN its
// transactions.
var headingPattern = regexp.MustCompile(`^D(\d+)-(POS|TRN)$`)

// MaxLineLength is the longest line DecodeAccount accepts.
const MaxLineLength = 1 << 20

const (
	sectionPositions    = "POS"
	sectionTransactions = "TRN"
)

// DecodeAccount reads an account in the line format:
//
//	D0-POS
//	<symbol> <quantity>
//	...
//
//	D1-TRN
//	<symbol> <operation> <quantity> <value>
//	...
//
// Blank lines are skipped, lines before the first heading are ignored. The
// first malformed line aborts the decoding.
func DecodeAccount(r io.Reader) (*Account, error) {
	account := NewAccount()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength)

	var day *Day
	var section string
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if m := headingPattern.FindStringSubmatch(line); m != nil {
			offset, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, &LineError{Line: n, Text: line, Err: fmt.Errorf("%w: %v", ErrInvalidOffset, err)}
			}
			if day, err = account.Day(offset); err != nil {
				return nil, &LineError{Line: n, Text: line, Err: err}
			}
			section = m[2]
			if section == sectionPositions {
				if err := day.RecordSnapshot(); err != nil {
					return nil, &LineError{Line: n, Text: line, Err: err}
				}
			}
			continue
		}

		var err error
		switch section {
		case "":
			// no heading yet.
		case sectionTransactions:
			var t Transaction
			if t, err = ParseTransaction(line); err == nil {
				err = day.AddTransaction(t)
			}
		case sectionPositions:
			var symbol string
			var quantity float64
			if symbol, quantity, err = parsePosition(line); err == nil {
				err = day.SetPosition(symbol, quantity)
			}
		}
		if err != nil {
			return nil, &LineError{Line: n, Text: line, Err: err}
		}
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &LineError{Line: n + 1, Err: fmt.Errorf("%w: line longer than %d bytes", ErrMalformedLine, MaxLineLength)}
		}
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return account, nil
}

// parsePosition parses a "<symbol> <quantity>" line.
func parsePosition(line string) (string, float64, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return "", 0, fmt.Errorf("%w: position wants 2 fields, got %d", ErrMalformedLine, len(fields))
	}
	quantity, err := parseNumber(fields[1])
	if err != nil {
		return "", 0, fmt.Errorf("%w: quantity: %v", ErrMalformedLine, err)
	}
	return fields[0], quantity, nil
}

// EncodeDiff writes one "<symbol> <difference>" line per entry, sorted by
// symbol.
func EncodeDiff(w io.Writer, diff Diff) error {
	bw := bufio.NewWriter(w)
	for symbol, v := range diff.All() {
		if _, err := fmt.Fprintf(bw, "%s %s\n", symbol, FormatDifference(v)); err != nil {
			return fmt.Errorf("failed to write difference: %w", err)
		}
	}
	return bw.Flush()
}

// EncodePositions writes one "<symbol> <quantity>" line per position, sorted
// by symbol.
func EncodePositions(w io.Writer, positions Positions) error {
	bw := bufio.NewWriter(w)
	for symbol, quantity := range positions.All() {
		if _, err := fmt.Fprintf(bw, "%s %s\n", symbol, FormatQuantity(quantity)); err != nil {
			return fmt.Errorf("failed to write position: %w", err)
		}
	}
	return bw.Flush()
}

// EncodeAccount writes the account back in the line format DecodeAccount
// reads. Days are written in offset order, positions sorted by symbol and
// transactions in their recorded order. Empty placeholder days are omitted,
// except the last one which keeps the number of days unchanged.
func EncodeAccount(w io.Writer, account *Account) error {
	bw := bufio.NewWriter(w)
	first := true
	block := func(heading string) {
		if !first {
			bw.WriteString("\n")
		}
		first = false
		bw.WriteString(heading + "\n")
	}

	days := account.Days()
	for offset, day := range days {
		if day.Len() > 0 || (offset == len(days)-1 && !day.HasSnapshot()) {
			block(fmt.Sprintf("D%d-%s", offset, sectionTransactions))
			for t := range day.Transactions() {
				bw.WriteString(t.Line() + "\n")
			}
		}
		if day.HasSnapshot() {
			block(fmt.Sprintf("D%d-%s", offset, sectionPositions))
			if err := EncodePositions(bw, day.positions); err != nil {
				return err
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write account: %w", err)
	}
	return nil
}
