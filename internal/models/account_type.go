package models

import "github.com/shopspring/decimal"

// AccountType selects the rule set an account operates under. The interest
// rate, overdraft limit and minimum balance are pure functions of the type,
// never stored independently, so they cannot drift from the tag.
type AccountType string

const (
	Savings  AccountType = "Savings"
	Cheque   AccountType = "Cheque"
	Business AccountType = "Business"
)

var (
	savingsRate  = decimal.NewFromFloat(0.025)
	chequeRate   = decimal.NewFromFloat(0.005)
	businessRate = decimal.NewFromFloat(0.015)

	chequeOverdraft   = decimal.NewFromInt(1000)
	businessOverdraft = decimal.NewFromInt(500)

	chequeMinimum   = decimal.NewFromInt(100)
	businessMinimum = decimal.NewFromInt(500)

	chequeGate   = decimal.NewFromInt(500)
	businessGate = decimal.NewFromInt(1000)
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case Savings, Cheque, Business:
		return true
	}
	return false
}

// InterestRate returns the annual interest rate for the type.
func (t AccountType) InterestRate() decimal.Decimal {
	switch t {
	case Cheque:
		return chequeRate
	case Business:
		return businessRate
	default:
		return savingsRate
	}
}

// OverdraftLimit returns how far below zero a balance may go.
func (t AccountType) OverdraftLimit() decimal.Decimal {
	switch t {
	case Cheque:
		return chequeOverdraft
	case Business:
		return businessOverdraft
	default:
		return decimal.Zero
	}
}

// MinimumBalance returns the floor below which a positive balance may not
// rest. An account may sit at exactly zero, at or above the minimum, or in
// overdraft, but never in between.
func (t AccountType) MinimumBalance() decimal.Decimal {
	switch t {
	case Cheque:
		return chequeMinimum
	case Business:
		return businessMinimum
	default:
		return decimal.Zero
	}
}

// ConversionGate returns the balance an account must hold before it can be
// converted to this type. Savings has no gate.
func (t AccountType) ConversionGate() decimal.Decimal {
	switch t {
	case Cheque:
		return chequeGate
	case Business:
		return businessGate
	default:
		return decimal.Zero
	}
}
