// Package renderer renders reconciliation results as markdown and HTML.
package renderer

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/reconcile"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.md
var templates embed.FS

type reconciliationRow struct {
	Symbol     string
	Replayed   string
	Recorded   string
	Difference string
}

type reconciliationView struct {
	Start        int
	End          int
	Transactions int
	Snapshot     bool
	Mismatches   int
	Rows         []reconciliationRow
}

// Reconciliation renders a reconciliation report to markdown: one row per
// symbol with its replayed and recorded quantities, and the difference when
// there is one. Cash amounts are formatted in currency.
func Reconciliation(r *reconcile.Report, currency string) string {
	view := reconciliationView{
		Start:        r.Start,
		End:          r.End,
		Transactions: r.Transactions,
		Snapshot:     r.Snapshot,
		Mismatches:   len(r.Diff),
	}
	for _, symbol := range r.Symbols() {
		row := reconciliationRow{Symbol: symbol}
		if v, ok := r.Replayed[symbol]; ok {
			row.Replayed = Quantity(symbol, v, currency)
		}
		if v, ok := r.Recorded[symbol]; ok {
			row.Recorded = Quantity(symbol, v, currency)
		}
		if v, ok := r.Diff[symbol]; ok {
			row.Difference = Quantity(symbol, v, currency)
		}
		view.Rows = append(view.Rows, row)
	}

	partials := map[string]string{
		"reconciliation_title": "reconciliation_title.md",
		"reconciliation_table": "reconciliation_table.md",
	}
	return renderTemplate("reconciliation", "reconciliation.md", partials, view)
}

type positionRow struct {
	Symbol   string
	Quantity string
}

type positionsView struct {
	Day          int
	Rows         []positionRow
	Transactions []string
}

// Positions renders the positions held on day to markdown, followed by the
// transactions that led to them, if any.
func Positions(day int, positions reconcile.Positions, replayed []reconcile.Transaction, currency string) string {
	view := positionsView{Day: day}
	for symbol, quantity := range positions.All() {
		view.Rows = append(view.Rows, positionRow{Symbol: symbol, Quantity: Quantity(symbol, quantity, currency)})
	}
	for _, t := range replayed {
		view.Transactions = append(view.Transactions, Transaction(t, currency))
	}

	partials := map[string]string{
		"positions_transactions": "positions_transactions.md",
	}
	return renderTemplate("positions", "positions.md", partials, view)
}

// HTML converts markdown, including tables, to an HTML fragment.
func HTML(markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var b bytes.Buffer
	if err := md.Convert([]byte(markdown), &b); err != nil {
		return "", fmt.Errorf("could not convert markdown to html: %w", err)
	}
	return b.String(), nil
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			if content, err = fs.ReadFile(templates, "templates/"+file); err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
