package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/bank-ledger-system/internal/logger"
	"github.com/sheikh-saqib/bank-ledger-system/internal/models"
	"github.com/sheikh-saqib/bank-ledger-system/internal/storage"
)

// mockStore is an in-memory SnapshotStore with save counting and error
// injection, used to observe the ledger's persistence behavior.
type mockStore struct {
	mu        sync.Mutex
	saves     int
	snap      *storage.Snapshot
	backups   map[string]storage.Snapshot
	backupSeq int

	saveErr error
	loadErr error
}

func newMockStore() *mockStore {
	return &mockStore{backups: make(map[string]storage.Snapshot)}
}

func (m *mockStore) Save(ctx context.Context, snap storage.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.snap = &snap
	return nil
}

func (m *mockStore) Load(ctx context.Context) (storage.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return storage.Snapshot{}, m.loadErr
	}
	if m.snap == nil {
		return storage.Snapshot{}, storage.ErrSnapshotNotFound
	}
	return *m.snap, nil
}

func (m *mockStore) CreateBackup(snap storage.Snapshot) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backupSeq++
	name := fmt.Sprintf("accounts_backup_%03d.json", m.backupSeq)
	m.backups[name] = snap
	return name, nil
}

func (m *mockStore) LoadBackup(name string) (storage.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.backups[name]
	if !ok {
		return storage.Snapshot{}, storage.ErrSnapshotNotFound
	}
	return snap, nil
}

func (m *mockStore) ListBackups() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for i := m.backupSeq; i >= 1; i-- { // newest first
		names = append(names, fmt.Sprintf("accounts_backup_%03d.json", i))
	}
	return names, nil
}

func (m *mockStore) Close() error { return nil }

func (m *mockStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestLedger(t *testing.T) (*Ledger, *mockStore) {
	t.Helper()
	store := newMockStore()
	led := New(store, logger.NewWithWriter(testWriter{t}))
	require.NoError(t, led.LoadAccounts(context.Background()))
	return led, store
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func mustCreate(t *testing.T, led *Ledger, name, pin string, typ models.AccountType) *models.Account {
	t.Helper()
	acct, err := led.CreateAccount(CreateAccountParams{Name: name, PIN: pin, Type: typ})
	require.NoError(t, err)
	return acct
}

func TestCreateAccountValidation(t *testing.T) {
	led, store := newTestLedger(t)

	_, err := led.CreateAccount(CreateAccountParams{Name: "", PIN: "1234"})
	assert.ErrorIs(t, err, models.ErrInvalidName)

	for _, pin := range []string{"", "12", "12345", "abcd"} {
		_, err = led.CreateAccount(CreateAccountParams{Name: "A", PIN: pin})
		assert.ErrorIs(t, err, models.ErrMalformedPin, "pin %q", pin)
	}
	assert.Equal(t, 0, store.saveCount(), "failed creations must not persist")

	acct := mustCreate(t, led, "Thandi", "1234", models.Savings)
	assert.NotEmpty(t, acct.ID)
	assert.Equal(t, 1, store.saveCount())
}

func TestLookups(t *testing.T) {
	led, _ := newTestLedger(t)
	a := mustCreate(t, led, "Thandi", "1234", models.Savings)

	got, err := led.GetAccount(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = led.GetAccount("missing")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	byName, err := led.FindAccountByName("tHANdi")
	require.NoError(t, err)
	assert.Equal(t, a.ID, byName.ID)

	_, err = led.FindAccountByName("nobody")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestReturnedCopiesDoNotLeakState(t *testing.T) {
	led, _ := newTestLedger(t)
	a := mustCreate(t, led, "Thandi", "1234", models.Savings)
	require.NoError(t, led.Deposit(a.ID, dec("100"), "1234"))

	got, err := led.GetAccount(a.ID)
	require.NoError(t, err)
	got.Balance = dec("9999")
	got.Transactions[0].Description = "mutated"

	for _, cp := range led.GetAllAccounts() {
		cp.Balance = dec("-1")
	}

	fresh, err := led.GetAccount(a.ID)
	require.NoError(t, err)
	assert.True(t, fresh.Balance.Equal(dec("100")))
	assert.Contains(t, fresh.Transactions[0].Description, "Deposit")
}

func TestVerifyAndChangePin(t *testing.T) {
	led, store := newTestLedger(t)
	a := mustCreate(t, led, "Thandi", "1234", models.Savings)
	before := store.saveCount()

	require.NoError(t, led.VerifyPin(a.ID, "1234"))
	assert.ErrorIs(t, led.VerifyPin(a.ID, "0000"), models.ErrInvalidPin)
	assert.ErrorIs(t, led.VerifyPin("missing", "1234"), ErrAccountNotFound)

	assert.ErrorIs(t, led.ChangePin(a.ID, "0000", "5678"), models.ErrInvalidPin)
	assert.Equal(t, before, store.saveCount(), "failed pin change must not persist")

	require.NoError(t, led.ChangePin(a.ID, "1234", "5678"))
	assert.Equal(t, before+1, store.saveCount())
	require.NoError(t, led.VerifyPin(a.ID, "5678"))
}

func TestDepositGatesPinExactlyOnce(t *testing.T) {
	led, store := newTestLedger(t)
	a := mustCreate(t, led, "Thandi", "1234", models.Savings)
	before := store.saveCount()

	assert.ErrorIs(t, led.Deposit(a.ID, dec("100"), "0000"), models.ErrInvalidPin)
	assert.ErrorIs(t, led.Deposit(a.ID, dec("-1"), "1234"), models.ErrInvalidAmount)
	assert.ErrorIs(t, led.Deposit("missing", dec("100"), "1234"), ErrAccountNotFound)
	assert.Equal(t, before, store.saveCount())

	require.NoError(t, led.Deposit(a.ID, dec("1000"), "1234"))
	got, err := led.GetAccount(a.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("1000")))
	require.Len(t, got.Transactions, 1)
	assert.Equal(t, models.TxDeposit, got.Transactions[0].Type)
	assert.Equal(t, before+1, store.saveCount())
}

func TestWithdrawDelegates(t *testing.T) {
	led, store := newTestLedger(t)
	a := mustCreate(t, led, "Thandi", "1234", models.Savings)
	require.NoError(t, led.Deposit(a.ID, dec("1000"), "1234"))
	before := store.saveCount()

	assert.ErrorIs(t, led.Withdraw(a.ID, dec("10"), "0000"), models.ErrInvalidPin)
	assert.ErrorIs(t, led.Withdraw(a.ID, dec("5000"), "1234"), models.ErrOverdraftExceeded)
	assert.Equal(t, before, store.saveCount())

	require.NoError(t, led.Withdraw(a.ID, dec("200"), "1234"))
	got, err := led.GetAccount(a.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("800")))
	require.Len(t, got.Transactions, 2)
	assert.Equal(t, models.TxWithdrawal, got.Transactions[1].Type)
}

func TestSpecScenarioDepositWithdrawInterest(t *testing.T) {
	led, _ := newTestLedger(t)
	a := mustCreate(t, led, "Thandi", "1234", models.Savings)

	require.NoError(t, led.Deposit(a.ID, dec("1000"), "1234"))
	require.NoError(t, led.Withdraw(a.ID, dec("200"), "1234"))
	require.NoError(t, led.ApplyMonthlyInterest(a.ID, "1234"))

	got, err := led.GetAccount(a.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Round(4).Equal(dec("801.6667")), "balance = %s", got.Balance)
	require.Len(t, got.Transactions, 3)
	assert.Equal(t, models.TxInterest, got.Transactions[2].Type)
}

func TestTransfer(t *testing.T) {
	led, store := newTestLedger(t)
	a := mustCreate(t, led, "Alice", "1111", models.Savings)
	b := mustCreate(t, led, "Bob", "2222", models.Savings)
	require.NoError(t, led.Deposit(a.ID, dec("200"), "1111"))
	before := store.saveCount()

	require.NoError(t, led.Transfer(a.ID, b.ID, dec("100"), "1111"))

	from, err := led.GetAccount(a.ID)
	require.NoError(t, err)
	to, err := led.GetAccount(b.ID)
	require.NoError(t, err)

	assert.True(t, from.Balance.Equal(dec("100")))
	assert.True(t, to.Balance.Equal(dec("100")))

	// four entries across the pair: Withdrawal+TransferOut on the sender,
	// Deposit+TransferIn on the receiver (plus Alice's setup deposit)
	require.Len(t, from.Transactions, 3)
	assert.Equal(t, models.TxWithdrawal, from.Transactions[1].Type)
	assert.Equal(t, models.TxTransferOut, from.Transactions[2].Type)
	assert.Contains(t, from.Transactions[2].Description, "Bob")

	require.Len(t, to.Transactions, 2)
	assert.Equal(t, models.TxDeposit, to.Transactions[0].Type)
	assert.Equal(t, models.TxTransferIn, to.Transactions[1].Type)
	assert.Contains(t, to.Transactions[1].Description, "Alice")

	assert.Equal(t, before+1, store.saveCount(), "a transfer persists exactly once")
}

func TestTransferFailuresLeaveNoTrace(t *testing.T) {
	led, store := newTestLedger(t)
	a := mustCreate(t, led, "Alice", "1111", models.Savings)
	b := mustCreate(t, led, "Bob", "2222", models.Savings)
	require.NoError(t, led.Deposit(a.ID, dec("50"), "1111"))
	before := store.saveCount()

	assert.ErrorIs(t, led.Transfer(a.ID, a.ID, dec("10"), "1111"), ErrSameAccount)
	assert.ErrorIs(t, led.Transfer(a.ID, "missing", dec("10"), "1111"), ErrAccountNotFound)
	assert.ErrorIs(t, led.Transfer("missing", b.ID, dec("10"), "1111"), ErrAccountNotFound)
	assert.ErrorIs(t, led.Transfer(a.ID, b.ID, dec("10"), "9999"), models.ErrInvalidPin)
	assert.ErrorIs(t, led.Transfer(a.ID, b.ID, dec("100"), "1111"), models.ErrOverdraftExceeded)

	from, err := led.GetAccount(a.ID)
	require.NoError(t, err)
	to, err := led.GetAccount(b.ID)
	require.NoError(t, err)
	assert.True(t, from.Balance.Equal(dec("50")))
	assert.True(t, to.Balance.IsZero())
	assert.Len(t, from.Transactions, 1, "only the setup deposit")
	assert.Empty(t, to.Transactions)
	assert.Equal(t, before, store.saveCount())
}

func TestCompensationLeavesVisibleEntry(t *testing.T) {
	led, _ := newTestLedger(t)
	a := mustCreate(t, led, "Alice", "1111", models.Savings)
	require.NoError(t, led.Deposit(a.ID, dec("200"), "1111"))

	led.mu.Lock()
	from := led.accounts[a.ID]
	require.NoError(t, from.Withdraw(dec("100"), "1111"))
	led.compensate(from, dec("100"))
	led.mu.Unlock()

	got, err := led.GetAccount(a.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("200")), "compensation restores the balance")

	// the original withdrawal stays; the compensation is its own entry
	require.Len(t, got.Transactions, 3)
	assert.Equal(t, models.TxWithdrawal, got.Transactions[1].Type)
	assert.Equal(t, models.TxDeposit, got.Transactions[2].Type)
}

func TestScenarioTransferHundred(t *testing.T) {
	led, _ := newTestLedger(t)
	a := mustCreate(t, led, "A", "1234", models.Savings)
	b := mustCreate(t, led, "B", "4321", models.Savings)
	require.NoError(t, led.Deposit(a.ID, dec("200"), "1234"))

	require.NoError(t, led.Transfer(a.ID, b.ID, dec("100"), "1234"))

	from, _ := led.GetAccount(a.ID)
	to, _ := led.GetAccount(b.ID)
	assert.True(t, from.Balance.Equal(dec("100")))
	assert.True(t, to.Balance.Equal(dec("100")))
}

func TestConvertAccountTypeThroughLedger(t *testing.T) {
	led, store := newTestLedger(t)
	a := mustCreate(t, led, "Thandi", "1234", models.Savings)
	require.NoError(t, led.Deposit(a.ID, dec("999"), "1234"))
	before := store.saveCount()

	assert.ErrorIs(t, led.ConvertAccountType(a.ID, models.Business, "1234"), models.ErrBalanceGateUnmet)
	assert.Equal(t, before, store.saveCount())

	require.NoError(t, led.Deposit(a.ID, dec("1"), "1234"))
	require.NoError(t, led.ConvertAccountType(a.ID, models.Business, "1234"))

	got, err := led.GetAccount(a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Business, got.Type)
	assert.True(t, got.Type.OverdraftLimit().Equal(dec("500")))
	assert.True(t, got.Type.MinimumBalance().Equal(dec("500")))
}

func TestApplyInterestToAllAccountsPersistsOnce(t *testing.T) {
	led, store := newTestLedger(t)
	a := mustCreate(t, led, "A", "1111", models.Savings)
	b := mustCreate(t, led, "B", "2222", models.Cheque)
	mustCreate(t, led, "C", "3333", models.Savings) // zero balance, no accrual
	require.NoError(t, led.Deposit(a.ID, dec("1200"), "1111"))
	require.NoError(t, led.Deposit(b.ID, dec("600"), "2222"))
	before := store.saveCount()

	applied := led.ApplyInterestToAllAccounts()
	assert.Equal(t, 2, applied)
	assert.Equal(t, before+1, store.saveCount(), "batch persists once, not per account")

	// nothing accrues on an all-zero run, so nothing persists either
	led2, store2 := newTestLedger(t)
	mustCreate(t, led2, "Z", "0001", models.Savings)
	before2 := store2.saveCount()
	assert.Equal(t, 0, led2.ApplyInterestToAllAccounts())
	assert.Equal(t, before2, store2.saveCount())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newMockStore()
	led := New(store, logger.NewWithWriter(testWriter{t}))
	require.NoError(t, led.LoadAccounts(context.Background()))

	a := mustCreate(t, led, "Alice", "1111", models.Savings)
	b := mustCreate(t, led, "Bob", "2222", models.Cheque)
	require.NoError(t, led.Deposit(a.ID, dec("300"), "1111"))
	require.NoError(t, led.Deposit(b.ID, dec("700"), "2222"))
	require.NoError(t, led.Transfer(b.ID, a.ID, dec("100"), "2222"))

	reloaded := New(store, logger.NewWithWriter(testWriter{t}))
	require.NoError(t, reloaded.LoadAccounts(context.Background()))

	for _, orig := range led.GetAllAccounts() {
		got, err := reloaded.GetAccount(orig.ID)
		require.NoError(t, err)
		assert.Equal(t, orig.Name, got.Name)
		assert.Equal(t, orig.Type, got.Type)
		assert.Equal(t, orig.PIN, got.PIN)
		assert.True(t, orig.Balance.Equal(got.Balance))
		require.Equal(t, len(orig.Transactions), len(got.Transactions))
		for i := range orig.Transactions {
			assert.Equal(t, orig.Transactions[i].Type, got.Transactions[i].Type)
			assert.True(t, orig.Transactions[i].Amount.Equal(got.Transactions[i].Amount))
			assert.Equal(t, orig.Transactions[i].Description, got.Transactions[i].Description)
		}
	}
}

func TestLoadFallsBackToNewestBackup(t *testing.T) {
	store := newMockStore()
	led := New(store, logger.NewWithWriter(testWriter{t}))
	require.NoError(t, led.LoadAccounts(context.Background()))
	a := mustCreate(t, led, "Alice", "1111", models.Savings)
	require.NoError(t, led.Deposit(a.ID, dec("500"), "1111"))
	_, err := led.CreateBackup()
	require.NoError(t, err)

	store.loadErr = errors.New("corrupt snapshot")
	recovered := New(store, logger.NewWithWriter(testWriter{t}))
	require.NoError(t, recovered.LoadAccounts(context.Background()))

	got, err := recovered.GetAccount(a.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("500")))
}

func TestLoadWithNoUsableBackupsStartsEmpty(t *testing.T) {
	store := newMockStore()
	store.loadErr = errors.New("corrupt snapshot")

	led := New(store, logger.NewWithWriter(testWriter{t}))
	require.NoError(t, led.LoadAccounts(context.Background()), "exhausted backups must not be fatal")
	assert.Empty(t, led.GetAllAccounts())
}

func TestRestoreFromBackup(t *testing.T) {
	led, store := newTestLedger(t)
	a := mustCreate(t, led, "Alice", "1111", models.Savings)
	require.NoError(t, led.Deposit(a.ID, dec("500"), "1111"))
	name, err := led.CreateBackup()
	require.NoError(t, err)

	// diverge from the backed-up state
	require.NoError(t, led.Withdraw(a.ID, dec("400"), "1111"))
	before := store.saveCount()

	require.NoError(t, led.RestoreFromBackup(name))
	got, err := led.GetAccount(a.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("500")))
	assert.Equal(t, before+1, store.saveCount(), "restore re-persists as primary state")

	assert.Error(t, led.RestoreFromBackup("accounts_backup_999.json"))
}

func TestConcurrentTransfersConserveTotal(t *testing.T) {
	led, _ := newTestLedger(t)
	a := mustCreate(t, led, "A", "1111", models.Savings)
	b := mustCreate(t, led, "B", "2222", models.Savings)
	require.NoError(t, led.Deposit(a.ID, dec("1000"), "1111"))
	require.NoError(t, led.Deposit(b.ID, dec("1000"), "2222"))

	const n = 100
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if err := led.Transfer(a.ID, b.ID, dec("1"), "1111"); err != nil {
				t.Errorf("A->B: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if err := led.Transfer(b.ID, a.ID, dec("1"), "2222"); err != nil {
				t.Errorf("B->A: %v", err)
			}
		}()
	}
	wg.Wait()

	ga, _ := led.GetAccount(a.ID)
	gb, _ := led.GetAccount(b.ID)
	total := ga.Balance.Add(gb.Balance)
	assert.True(t, total.Equal(dec("2000")), "total = %s", total)
	assert.True(t, ga.Balance.GreaterThanOrEqual(decimal.Zero))
	assert.True(t, gb.Balance.GreaterThanOrEqual(decimal.Zero))
}

func TestConcurrentDeposits(t *testing.T) {
	led, _ := newTestLedger(t)
	a := mustCreate(t, led, "A", "1111", models.Savings)

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if err := led.Deposit(a.ID, dec("1"), "1111"); err != nil {
				t.Errorf("deposit: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := led.GetAccount(a.ID)
	assert.True(t, got.Balance.Equal(dec("50")))
	assert.Len(t, got.Transactions, workers)
}

func TestAutoSaveLifecycle(t *testing.T) {
	led, _ := newTestLedger(t)
	led.StartAutoSave(time.Second) // the job may or may not fire
	led.StartAutoSave(time.Second) // second start is a no-op
	led.StopAutoSave()
	led.StopAutoSave() // second stop is a no-op
}
