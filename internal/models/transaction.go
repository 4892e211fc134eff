package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a balance-affecting event.
type TransactionType string

const (
	TxDeposit     TransactionType = "Deposit"
	TxWithdrawal  TransactionType = "Withdrawal"
	TxInterest    TransactionType = "Interest"
	TxTransferIn  TransactionType = "TransferIn"
	TxTransferOut TransactionType = "TransferOut"
)

// Transaction is an immutable record of one balance-affecting event. The
// amount is always a positive magnitude; the sign is implied by the type.
// A transaction belongs to the account that recorded it and is never shared.
type Transaction struct {
	Type        TransactionType // which kind of event occurred
	Amount      decimal.Decimal // positive magnitude of the event
	Timestamp   time.Time       // when the account recorded the event
	Description string          // human-readable note
}
