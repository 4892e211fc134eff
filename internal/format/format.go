// Package format is the presentation collaborator. It renders amounts,
// summaries and histories for display; the core packages hand it raw
// structured values and never format currency themselves.
package format

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sheikh-saqib/bank-ledger-system/internal/models"
)

// Formatter renders monetary values in a fixed currency and locale.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// New returns a formatter for the given ISO 4217 currency code.
func New(code string) (*Formatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", code, err)
	}
	return &Formatter{
		printer: message.NewPrinter(language.English),
		unit:    unit,
	}, nil
}

// Amount renders a decimal amount with the currency symbol.
func (f *Formatter) Amount(d decimal.Decimal) string {
	v, _ := d.Float64()
	return f.printer.Sprintf("%v", currency.Symbol(f.unit.Amount(v)))
}

// Rate renders an annual interest rate as a percentage.
func (f *Formatter) Rate(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// Summary renders an account summary as a multi-line block.
func (f *Formatter) Summary(s models.AccountSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Account:         %s\n", s.ID)
	fmt.Fprintf(&b, "Name:            %s\n", s.Name)
	fmt.Fprintf(&b, "Type:            %s\n", s.Type)
	fmt.Fprintf(&b, "Balance:         %s\n", f.Amount(s.Balance))
	fmt.Fprintf(&b, "Interest rate:   %s\n", f.Rate(s.InterestRate))
	fmt.Fprintf(&b, "Overdraft limit: %s\n", f.Amount(s.OverdraftLimit))
	fmt.Fprintf(&b, "Minimum balance: %s", f.Amount(s.MinimumBalance))
	return b.String()
}

// History renders transactions one per line, in the order given.
func (f *Formatter) History(txs []models.Transaction) string {
	if len(txs) == 0 {
		return "no transactions"
	}
	var b strings.Builder
	for i, tx := range txs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s  %-11s %12s  %s",
			tx.Timestamp.Format("2006-01-02 15:04:05"),
			tx.Type,
			f.Amount(tx.Amount),
			tx.Description,
		)
	}
	return b.String()
}
