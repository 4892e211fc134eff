package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is a single holder's balance, limits, secret and transaction
// history. Accounts carry no lock of their own; the owning ledger serializes
// every mutation, so methods here assume exclusive access.
type Account struct {
	ID           string
	Name         string
	Balance      decimal.Decimal
	PIN          string
	Type         AccountType
	Transactions []Transaction
}

// AccountSummary is the raw structured view handed to the presentation
// collaborator. Currency and locale rendering are not a concern here.
type AccountSummary struct {
	ID             string
	Name           string
	Type           AccountType
	Balance        decimal.Decimal
	InterestRate   decimal.Decimal
	OverdraftLimit decimal.Decimal
	MinimumBalance decimal.Decimal
}

// NewAccount validates the name and PIN and returns a fresh account with a
// unique ID and zero balance.
func NewAccount(name, pin string, typ AccountType) (*Account, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	if !ValidPinFormat(pin) {
		return nil, ErrMalformedPin
	}
	if !typ.Valid() {
		typ = Savings
	}
	return &Account{
		ID:      uuid.New().String(),
		Name:    name,
		Balance: decimal.Zero,
		PIN:     pin,
		Type:    typ,
	}, nil
}

// ValidPinFormat reports whether pin is exactly four numeric digits.
func ValidPinFormat(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, r := range pin {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ValidatePin checks an entered PIN against the stored one. There is no
// lockout or rate limiting.
func (a *Account) ValidatePin(entered string) bool {
	return entered == a.PIN
}

// ChangePin replaces the PIN when the current one matches and the new one is
// well formed. The old PIN is discarded on success.
func (a *Account) ChangePin(current, newPin string) error {
	if !a.ValidatePin(current) {
		return ErrInvalidPin
	}
	if !ValidPinFormat(newPin) {
		return ErrMalformedPin
	}
	a.PIN = newPin
	return nil
}

// Deposit credits the balance and appends a Deposit transaction. An empty
// pin means the caller already proved authorization (the ledger's deposit
// path and the credit leg of a transfer); a non-empty pin must validate.
func (a *Account) Deposit(amount decimal.Decimal, pin string) error {
	if amount.Cmp(decimal.Zero) <= 0 {
		return ErrInvalidAmount
	}
	if pin != "" && !a.ValidatePin(pin) {
		return ErrInvalidPin
	}
	a.Balance = a.Balance.Add(amount)
	a.record(TxDeposit, amount, fmt.Sprintf("Deposit of %s", amount.StringFixed(2)))
	return nil
}

// Withdraw debits the balance after checking the PIN, the overdraft limit
// and the minimum-balance band. The resulting balance may be exactly zero,
// at or above the minimum, or in overdraft, but never strictly between zero
// and the minimum.
func (a *Account) Withdraw(amount decimal.Decimal, pin string) error {
	if !a.ValidatePin(pin) {
		return ErrInvalidPin
	}
	if amount.Cmp(decimal.Zero) <= 0 {
		return ErrInvalidAmount
	}
	remaining := a.Balance.Sub(amount)
	if remaining.LessThan(a.Type.OverdraftLimit().Neg()) {
		return ErrOverdraftExceeded
	}
	if remaining.IsPositive() && remaining.LessThan(a.Type.MinimumBalance()) {
		return ErrBelowMinimumBalance
	}
	a.Balance = remaining
	a.record(TxWithdrawal, amount, fmt.Sprintf("Withdrawal of %s", amount.StringFixed(2)))
	return nil
}

// CalculateInterest returns one month of interest on a positive balance.
// Negative and zero balances accrue nothing.
func (a *Account) CalculateInterest() decimal.Decimal {
	if !a.Balance.IsPositive() {
		return decimal.Zero
	}
	return a.Balance.Mul(a.Type.InterestRate()).Div(decimal.NewFromInt(12))
}

// ApplyMonthlyInterest is the PIN-gated wrapper around interest accrual.
func (a *Account) ApplyMonthlyInterest(pin string) error {
	if !a.ValidatePin(pin) {
		return ErrInvalidPin
	}
	a.ApplyMonthlyInterestInternal()
	return nil
}

// ApplyMonthlyInterestInternal credits one month of interest without a PIN
// check; it is reserved for the ledger's batch job. It reports whether any
// interest was applied.
func (a *Account) ApplyMonthlyInterestInternal() bool {
	interest := a.CalculateInterest()
	if !interest.IsPositive() {
		return false
	}
	a.Balance = a.Balance.Add(interest)
	a.record(TxInterest, interest, fmt.Sprintf("Monthly interest of %s", interest.StringFixed(2)))
	return true
}

// ConvertAccountType switches the account to a new type when the PIN matches
// and the target type's balance gate is met. The derived limits change
// immediately; the existing balance is neither rescaled nor clamped.
func (a *Account) ConvertAccountType(newType AccountType, pin string) error {
	if !a.ValidatePin(pin) {
		return ErrInvalidPin
	}
	if a.Balance.LessThan(newType.ConversionGate()) {
		return ErrBalanceGateUnmet
	}
	a.Type = newType
	return nil
}

// RecordTransfer appends the TransferIn/TransferOut leg of a completed
// transfer, carrying a human-readable counterparty reference. It is recorded
// in addition to the Withdrawal/Deposit entries of the transfer itself.
func (a *Account) RecordTransfer(typ TransactionType, amount decimal.Decimal, counterparty string) {
	desc := fmt.Sprintf("Transfer of %s to %s", amount.StringFixed(2), counterparty)
	if typ == TxTransferIn {
		desc = fmt.Sprintf("Transfer of %s from %s", amount.StringFixed(2), counterparty)
	}
	a.record(typ, amount, desc)
}

// TransactionHistory returns a fresh slice of transactions filtered to the
// inclusive [start, end] window where bounds are non-nil, newest first.
func (a *Account) TransactionHistory(start, end *time.Time) []Transaction {
	out := make([]Transaction, 0, len(a.Transactions))
	for _, tx := range a.Transactions {
		if start != nil && tx.Timestamp.Before(*start) {
			continue
		}
		if end != nil && tx.Timestamp.After(*end) {
			continue
		}
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// Summary returns the raw structured snapshot used for display.
func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:             a.ID,
		Name:           a.Name,
		Type:           a.Type,
		Balance:        a.Balance,
		InterestRate:   a.Type.InterestRate(),
		OverdraftLimit: a.Type.OverdraftLimit(),
		MinimumBalance: a.Type.MinimumBalance(),
	}
}

// Clone returns an independent copy so callers cannot mutate ledger-owned
// state through the result.
func (a *Account) Clone() *Account {
	cp := *a
	cp.Transactions = make([]Transaction, len(a.Transactions))
	copy(cp.Transactions, a.Transactions)
	return &cp
}

func (a *Account) record(typ TransactionType, amount decimal.Decimal, desc string) {
	a.Transactions = append(a.Transactions, Transaction{
		Type:        typ,
		Amount:      amount,
		Timestamp:   time.Now(),
		Description: desc,
	})
}
