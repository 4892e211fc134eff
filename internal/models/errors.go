package models

import "errors"

// Domain errors returned by account operations. Callers discriminate
// failure causes with errors.Is; expected conditions never panic.
var (
	// ErrInvalidName is returned when an account name is empty or whitespace.
	ErrInvalidName = errors.New("account name must not be empty")

	// ErrMalformedPin is returned when a new PIN is not exactly 4 digits.
	ErrMalformedPin = errors.New("pin must be exactly 4 digits")

	// ErrInvalidPin is returned when an entered PIN does not match.
	ErrInvalidPin = errors.New("invalid pin")

	// ErrInvalidAmount is returned for zero or negative amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrOverdraftExceeded is returned when a withdrawal would push the
	// balance below the account type's overdraft limit.
	ErrOverdraftExceeded = errors.New("overdraft limit exceeded")

	// ErrBelowMinimumBalance is returned when a withdrawal would leave the
	// balance above zero but below the account type's minimum balance.
	ErrBelowMinimumBalance = errors.New("balance would fall below minimum")

	// ErrBalanceGateUnmet is returned when the balance does not meet the
	// target type's conversion gate.
	ErrBalanceGateUnmet = errors.New("balance below conversion requirement")
)
