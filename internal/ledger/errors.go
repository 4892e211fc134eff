package ledger

import "errors"

var (
	// ErrAccountNotFound is returned when no account exists for an id or name.
	ErrAccountNotFound = errors.New("account not found")

	// ErrSameAccount is returned when a transfer names the same account on
	// both sides.
	ErrSameAccount = errors.New("cannot transfer to the same account")
)
