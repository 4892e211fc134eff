// Package ledger implements the account ledger and transfer engine. A single
// Ledger owns every account, serializes all access behind one mutex, and
// orchestrates durable persistence through a SnapshotStore.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/bank-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/bank-ledger-system/internal/models"
	"github.com/sheikh-saqib/bank-ledger-system/internal/storage"
)

// Ledger is the single authoritative owner of all accounts. Every operation
// that reads or writes them runs inside the same critical section, so two
// operations on two different accounts are still mutually exclusive. Saves
// happen while the lock is held; save latency serializes all operations.
type Ledger struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
	store    interfaces.SnapshotStore
	log      zerolog.Logger
	validate *validator.Validate
	autosave *autoSaver
}

// New returns a ledger persisting through store. Call LoadAccounts before
// serving operations.
func New(store interfaces.SnapshotStore, log zerolog.Logger) *Ledger {
	return &Ledger{
		accounts: make(map[string]*models.Account),
		store:    store,
		log:      log,
		validate: validator.New(),
	}
}

// CreateAccountParams carries validated input for account creation.
type CreateAccountParams struct {
	Name string             `validate:"required"`
	PIN  string             `validate:"required,len=4,numeric"`
	Type models.AccountType `validate:"omitempty,oneof=Savings Cheque Business"`
}

// CreateAccount validates the parameters, constructs the account, inserts it
// under the lock and persists. Construction failures are reported as errors,
// never as a crash.
func (l *Ledger) CreateAccount(p CreateAccountParams) (*models.Account, error) {
	if err := l.validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "Name":
				return nil, models.ErrInvalidName
			case "PIN":
				return nil, models.ErrMalformedPin
			}
		}
		return nil, err
	}
	acct, err := models.NewAccount(p.Name, p.PIN, p.Type)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[acct.ID] = acct
	l.persistLocked()
	l.log.Info().Str("account_id", acct.ID).Str("type", string(acct.Type)).Msg("account created")
	return acct.Clone(), nil
}

// GetAccount returns a copy of the account with the given id.
func (l *Ledger) GetAccount(id string) (*models.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct, ok := l.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acct.Clone(), nil
}

// FindAccountByName returns a copy of the first account whose name matches,
// case-insensitively.
func (l *Ledger) FindAccountByName(name string) (*models.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, acct := range l.accounts {
		if strings.EqualFold(acct.Name, name) {
			return acct.Clone(), nil
		}
	}
	return nil, ErrAccountNotFound
}

// GetAllAccounts returns independent copies of every account, so callers
// cannot mutate ledger-owned state through the result.
func (l *Ledger) GetAllAccounts() []*models.Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*models.Account, 0, len(l.accounts))
	for _, acct := range l.accounts {
		out = append(out, acct.Clone())
	}
	return out
}

// VerifyPin checks the PIN for an account.
func (l *Ledger) VerifyPin(id, pin string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct, ok := l.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	if !acct.ValidatePin(pin) {
		return models.ErrInvalidPin
	}
	return nil
}

// ChangePin replaces an account's PIN and persists only on success.
func (l *Ledger) ChangePin(id, current, newPin string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct, ok := l.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	if err := acct.ChangePin(current, newPin); err != nil {
		return err
	}
	l.persistLocked()
	return nil
}

// Deposit checks the PIN at the ledger boundary, then credits the account
// without re-passing it: a deposit is PIN-gated exactly once, never twice.
func (l *Ledger) Deposit(id string, amount decimal.Decimal, pin string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct, ok := l.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	if !acct.ValidatePin(pin) {
		return models.ErrInvalidPin
	}
	if err := acct.Deposit(amount, ""); err != nil {
		return err
	}
	l.persistLocked()
	return nil
}

// Withdraw delegates to the account, which enforces its own PIN and balance
// rules, and persists on success.
func (l *Ledger) Withdraw(id string, amount decimal.Decimal, pin string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct, ok := l.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	if err := acct.Withdraw(amount, pin); err != nil {
		return err
	}
	l.persistLocked()
	return nil
}

// Transfer moves amount between two accounts atomically from the caller's
// viewpoint. The debit authenticates against the sender; the credit is then
// unauthenticated. If the credit fails the debit is compensated with an
// equal credit back to the sender, which leaves its own Deposit entry rather
// than erasing the Withdrawal. A completed transfer records four entries:
// Withdrawal+TransferOut on the sender, Deposit+TransferIn on the receiver.
func (l *Ledger) Transfer(fromID, toID string, amount decimal.Decimal, fromPin string) error {
	if fromID == toID {
		return ErrSameAccount
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	from, ok := l.accounts[fromID]
	if !ok {
		return ErrAccountNotFound
	}
	to, ok := l.accounts[toID]
	if !ok {
		return ErrAccountNotFound
	}

	if err := from.Withdraw(amount, fromPin); err != nil {
		return err
	}
	if err := to.Deposit(amount, ""); err != nil {
		l.compensate(from, amount)
		l.persistLocked()
		return fmt.Errorf("transfer credit failed: %w", err)
	}

	from.RecordTransfer(models.TxTransferOut, amount, fmt.Sprintf("%s (%s)", to.Name, to.ID))
	to.RecordTransfer(models.TxTransferIn, amount, fmt.Sprintf("%s (%s)", from.Name, from.ID))

	l.persistLocked()
	l.log.Info().
		Str("from", fromID).
		Str("to", toID).
		Str("amount", amount.StringFixed(2)).
		Msg("transfer completed")
	return nil
}

// compensate credits the sender back after a failed credit leg. This is a
// compensating action, not a transactional rollback: the original Withdrawal
// entry stays and the compensation appears as a visible Deposit entry.
func (l *Ledger) compensate(from *models.Account, amount decimal.Decimal) {
	if err := from.Deposit(amount, ""); err != nil {
		l.log.Error().Err(err).Str("account_id", from.ID).Msg("transfer compensation failed")
		return
	}
	l.log.Warn().Str("account_id", from.ID).Str("amount", amount.StringFixed(2)).
		Msg("transfer credit failed, sender compensated")
}

// ConvertAccountType delegates to the account and persists on success.
func (l *Ledger) ConvertAccountType(id string, newType models.AccountType, pin string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct, ok := l.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	if err := acct.ConvertAccountType(newType, pin); err != nil {
		return err
	}
	l.persistLocked()
	return nil
}

// ApplyMonthlyInterest accrues one month of interest on a single account,
// gated by its PIN.
func (l *Ledger) ApplyMonthlyInterest(id, pin string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct, ok := l.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	if err := acct.ApplyMonthlyInterest(pin); err != nil {
		return err
	}
	l.persistLocked()
	return nil
}

// ApplyInterestToAllAccounts runs the monthly interest batch over every
// account under the lock. It persists once, and only if at least one account
// accrued interest. It returns how many accounts were credited.
func (l *Ledger) ApplyInterestToAllAccounts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	applied := 0
	for _, acct := range l.accounts {
		if acct.ApplyMonthlyInterestInternal() {
			applied++
		}
	}
	if applied > 0 {
		l.persistLocked()
	}
	l.log.Info().Int("accounts", applied).Msg("monthly interest batch complete")
	return applied
}

// TransactionHistory returns the account's transactions filtered to the
// inclusive [start, end] window, newest first.
func (l *Ledger) TransactionHistory(id string, start, end *time.Time) ([]models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct, ok := l.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acct.TransactionHistory(start, end), nil
}

// AccountSummary returns the structured display view of an account.
func (l *Ledger) AccountSummary(id string) (models.AccountSummary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct, ok := l.accounts[id]
	if !ok {
		return models.AccountSummary{}, ErrAccountNotFound
	}
	return acct.Summary(), nil
}

// SaveAccounts serializes the full account collection to the primary store.
func (l *Ledger) SaveAccounts(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.store.Save(ctx, l.snapshotLocked()); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	return nil
}

// LoadAccounts restores the collection from the primary snapshot. On a read
// or parse failure it falls back through the backups, newest first. If every
// backup fails too, the ledger starts empty rather than failing; an empty
// ledger after such a failure is a signal to investigate, and it is logged
// as one.
func (l *Ledger) LoadAccounts(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap, err := l.store.Load(ctx)
	if err == nil {
		l.restoreLocked(snap)
		return nil
	}
	if errors.Is(err, storage.ErrSnapshotNotFound) {
		l.accounts = make(map[string]*models.Account)
		return nil
	}
	l.log.Warn().Err(err).Msg("primary snapshot unreadable, falling back to backups")

	names, lerr := l.store.ListBackups()
	if lerr != nil {
		l.log.Error().Err(lerr).Msg("listing backups failed")
	}
	for _, name := range names {
		snap, berr := l.store.LoadBackup(name)
		if berr != nil {
			l.log.Warn().Err(berr).Str("backup", name).Msg("backup unreadable")
			continue
		}
		l.restoreLocked(snap)
		l.log.Warn().Str("backup", name).Msg("restored from backup")
		return nil
	}

	l.accounts = make(map[string]*models.Account)
	l.log.Error().Msg("all backups exhausted, starting with an empty ledger")
	return nil
}

// CreateBackup writes a timestamped backup of the current state and prunes
// the backup directory to the most recent ten.
func (l *Ledger) CreateBackup() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name, err := l.store.CreateBackup(l.snapshotLocked())
	if err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}
	l.log.Info().Str("backup", name).Msg("backup created")
	return name, nil
}

// RestoreFromBackup replaces the in-memory collection with the named backup
// and immediately re-persists it as the new primary state.
func (l *Ledger) RestoreFromBackup(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	snap, err := l.store.LoadBackup(name)
	if err != nil {
		return fmt.Errorf("restore from backup: %w", err)
	}
	l.restoreLocked(snap)
	l.persistLocked()
	l.log.Info().Str("backup", name).Msg("restored from backup")
	return nil
}

// GetAvailableBackups lists backup names, most recent first.
func (l *Ledger) GetAvailableBackups() ([]string, error) {
	return l.store.ListBackups()
}

// persistLocked saves the snapshot while the lock is held. Persistence
// failures are logged, not propagated: the in-memory mutation already
// happened and the periodic autosave will retry.
func (l *Ledger) persistLocked() {
	if err := l.store.Save(context.Background(), l.snapshotLocked()); err != nil {
		l.log.Error().Err(err).Msg("snapshot save failed")
	}
}

func (l *Ledger) snapshotLocked() storage.Snapshot {
	snap := storage.Snapshot{Accounts: make([]storage.AccountRecord, 0, len(l.accounts))}
	for _, acct := range l.accounts {
		snap.Accounts = append(snap.Accounts, accountToRecord(acct))
	}
	return snap
}

func (l *Ledger) restoreLocked(snap storage.Snapshot) {
	l.accounts = make(map[string]*models.Account, len(snap.Accounts))
	for _, rec := range snap.Accounts {
		acct := accountFromRecord(rec)
		l.accounts[acct.ID] = acct
	}
}

func accountToRecord(a *models.Account) storage.AccountRecord {
	rec := storage.AccountRecord{
		ID:           a.ID,
		Name:         a.Name,
		Balance:      a.Balance,
		PIN:          a.PIN,
		Type:         string(a.Type),
		Transactions: make([]storage.TransactionRecord, 0, len(a.Transactions)),
	}
	for _, tx := range a.Transactions {
		rec.Transactions = append(rec.Transactions, storage.TransactionRecord{
			Type:        string(tx.Type),
			Amount:      tx.Amount,
			Timestamp:   tx.Timestamp,
			Description: tx.Description,
		})
	}
	return rec
}

func accountFromRecord(rec storage.AccountRecord) *models.Account {
	acct := &models.Account{
		ID:           rec.ID,
		Name:         rec.Name,
		Balance:      rec.Balance,
		PIN:          rec.PIN,
		Type:         models.AccountType(rec.Type),
		Transactions: make([]models.Transaction, 0, len(rec.Transactions)),
	}
	if !acct.Type.Valid() {
		acct.Type = models.Savings
	}
	for _, tx := range rec.Transactions {
		acct.Transactions = append(acct.Transactions, models.Transaction{
			Type:        models.TransactionType(tx.Type),
			Amount:      tx.Amount,
			Timestamp:   tx.Timestamp,
			Description: tx.Description,
		})
	}
	return acct
}
