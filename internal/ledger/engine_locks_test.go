package ledger

import (
	"context"
	"errors"
	"testing"

	"ledger-core-go/internal/models"
	"ledger-core-go/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedStore is an in-memory store.LedgerStore that records the order in
// which rows are locked. It runs units of work one at a time and discards
// their writes when fn fails.
type scriptedStore struct {
	store.LedgerStore

	accounts map[string]*models.Account
	entries  []models.Entry
	locks    []string
	failAdd  error
	commits  int
}

func newScriptedStore(balances map[string]int64) *scriptedStore {
	s := &scriptedStore{accounts: make(map[string]*models.Account)}
	for id, balance := range balances {
		s.accounts[id] = &models.Account{Id: id, Balance: balance}
	}
	return s
}

func (s *scriptedStore) WithinTx(ctx context.Context, fn store.TxFunc) error {
	snapshot := make(map[string]int64, len(s.accounts))
	for id, account := range s.accounts {
		snapshot[id] = account.Balance
	}
	entries := len(s.entries)

	if err := fn(ctx, &scriptedTx{s: s}); err != nil {
		for id, balance := range snapshot {
			s.accounts[id].Balance = balance
		}
		s.entries = s.entries[:entries]
		return err
	}
	s.commits++
	return nil
}

type scriptedTx struct {
	s *scriptedStore
}

func (tx *scriptedTx) GetAccount(_ context.Context, id string) (*models.Account, error) {
	account, ok := tx.s.accounts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (tx *scriptedTx) GetAccountForUpdate(ctx context.Context, id string) (*models.Account, error) {
	tx.s.locks = append(tx.s.locks, id)
	return tx.GetAccount(ctx, id)
}

func (tx *scriptedTx) AddToBalance(_ context.Context, id string, delta int64) (int64, error) {
	if tx.s.failAdd != nil {
		return 0, tx.s.failAdd
	}
	account, ok := tx.s.accounts[id]
	if !ok {
		return 0, store.ErrNotFound
	}
	account.Balance += delta
	return account.Balance, nil
}

func (tx *scriptedTx) InsertEntry(_ context.Context, params store.InsertEntryParams) (*models.Entry, error) {
	entry := models.Entry{
		Id:        params.Id,
		PayerId:   params.PayerId,
		PayeeId:   params.PayeeId,
		Amount:    params.Amount,
		Kind:      params.Kind,
		CreatedAt: params.CreatedAt,
	}
	tx.s.entries = append(tx.s.entries, entry)
	return &entry, nil
}

func TestTransfer_LocksInCanonicalOrder(t *testing.T) {
	low := "10000000-0000-4000-8000-000000000000"
	high := "f0000000-0000-4000-8000-000000000000"
	s := newScriptedStore(map[string]int64{low: 500, high: 500})
	engine := NewEngine(s, nil)
	ctx := context.Background()

	_, err := engine.Transfer(ctx, low, high, 10)
	require.NoError(t, err)
	_, err = engine.Transfer(ctx, high, low, 10)
	require.NoError(t, err)

	assert.Equal(t, []string{low, high, low, high}, s.locks)
}

func TestTransfer_LocksBeforeFundsCheck(t *testing.T) {
	payer := "f0000000-0000-4000-8000-000000000000"
	payee := "10000000-0000-4000-8000-000000000000"
	s := newScriptedStore(map[string]int64{payer: 5, payee: 0})
	engine := NewEngine(s, nil)

	_, err := engine.Transfer(context.Background(), payer, payee, 10)
	assert.ErrorIs(t, err, store.ErrInsufficientFunds)

	// Both rows were locked even though the payer could not cover the amount
	assert.Equal(t, []string{payee, payer}, s.locks)
	assert.Empty(t, s.entries)
	assert.Zero(t, s.commits)
}

func TestTransfer_CanonicalizesBeforeOrdering(t *testing.T) {
	a := "abcdef00-0000-4000-8000-000000000000"
	b := "12345678-0000-4000-8000-000000000000"
	s := newScriptedStore(map[string]int64{a: 100, b: 100})
	engine := NewEngine(s, nil)

	_, err := engine.Transfer(context.Background(), "ABCDEF00-0000-4000-8000-000000000000", b, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{b, a}, s.locks)

	_, err = engine.Transfer(context.Background(), "ABCDEF00-0000-4000-8000-000000000000", a, 1)
	assert.ErrorIs(t, err, store.ErrInvalidTransaction)
}

func TestTransfer_StoreFailureLeavesNoTrace(t *testing.T) {
	payer := uuid.New().String()
	payee := uuid.New().String()
	s := newScriptedStore(map[string]int64{payer: 100, payee: 0})
	connectionLost := errors.New("connection reset by peer")
	s.failAdd = connectionLost
	publisher := &recordingPublisher{}
	engine := NewEngine(s, publisher)

	_, err := engine.Transfer(context.Background(), payer, payee, 50)
	assert.ErrorIs(t, err, connectionLost)

	assert.Equal(t, int64(100), s.accounts[payer].Balance)
	assert.Equal(t, int64(0), s.accounts[payee].Balance)
	assert.Empty(t, s.entries)
	assert.Empty(t, publisher.published())
}

func TestTransfer_PublishFailureKeepsResult(t *testing.T) {
	payer := uuid.New().String()
	payee := uuid.New().String()
	s := newScriptedStore(map[string]int64{payer: 100, payee: 0})
	publisher := &recordingPublisher{err: errors.New("broker unavailable")}
	engine := NewEngine(s, publisher)

	result, err := engine.Transfer(context.Background(), payer, payee, 40)
	require.NoError(t, err)
	assert.Equal(t, int64(60), result.PayerBalance)
	assert.Equal(t, 1, s.commits)

	published := publisher.published()
	require.Len(t, published, 1)
	assert.Equal(t, result.EntryId, published[0].EntryId)
	require.NotNil(t, published[0].PayerBalance)
	require.NotNil(t, published[0].PayeeBalance)
	assert.Equal(t, int64(60), *published[0].PayerBalance)
	assert.Equal(t, int64(40), *published[0].PayeeBalance)
}

func TestValidationHappensBeforeUnitOfWork(t *testing.T) {
	payer := uuid.New().String()
	payee := uuid.New().String()
	s := newScriptedStore(map[string]int64{payer: 100, payee: 0})
	engine := NewEngine(s, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"zero transfer", func() error { _, err := engine.Transfer(ctx, payer, payee, 0); return err }, store.ErrInvalidAmount},
		{"negative transfer", func() error { _, err := engine.Transfer(ctx, payer, payee, -5); return err }, store.ErrInvalidAmount},
		{"self transfer", func() error { _, err := engine.Transfer(ctx, payer, payer, 5); return err }, store.ErrInvalidTransaction},
		{"bad payer id", func() error { _, err := engine.Transfer(ctx, "nope", payee, 5); return err }, store.ErrValidation},
		{"zero deposit", func() error { _, err := engine.Deposit(ctx, payer, 0); return err }, store.ErrInvalidAmount},
		{"bad deposit id", func() error { _, err := engine.Deposit(ctx, "nope", 5); return err }, store.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, store.ErrValidation)
		})
	}

	assert.Empty(t, s.locks)
	assert.Zero(t, s.commits)
}
