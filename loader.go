package reconcile

import (
	"fmt"
	"os"
)

// LoadAccount opens and decodes the account file at path.
func LoadAccount(path string) (*Account, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open account file %q: %w", path, err)
	}
	defer f.Close()

	account, err := DecodeAccount(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode account file %q: %w", path, err)
	}
	return account, nil
}

// SaveDiff writes diff to the file at path in the line format, replacing any
// previous content.
func SaveDiff(path string, diff Diff) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error opening output file %q for writing: %w", path, err)
	}
	if err := EncodeDiff(f, diff); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReconcileFile reconciles the whole account stored at input and writes the
// differences to output.
func ReconcileFile(input, output string) (Diff, error) {
	account, err := LoadAccount(input)
	if err != nil {
		return nil, err
	}
	diff, err := account.Reconcile(0, -1)
	if err != nil {
		return nil, err
	}
	return diff, SaveDiff(output, diff)
}
