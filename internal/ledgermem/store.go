// Package ledgermem provides an in-memory ledger store.
//
// It backs tests and database-free local runs with the same conditional
// commit semantics as the PostgreSQL repository.
package ledgermem

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mae-finance/wallet/internal/domain"
	"github.com/mae-finance/wallet/pkg/moneypkg"
)

type accountState struct {
	account     domain.Account
	history     []domain.Transaction // append-only, oldest first
	lastCreated time.Time
}

// Store is a mutex-guarded in-memory ledger store.
type Store struct {
	mu       sync.Mutex
	accounts map[string]*accountState
}

// New returns an empty Store.
func New() *Store {
	return &Store{accounts: make(map[string]*accountState)}
}

// Create creates the account with the given starting balance and then returns it.
func (s *Store) Create(ctx context.Context, owner string, balance moneypkg.Money) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[owner]; exists {
		return domain.Account{}, domain.ErrAccountAlreadyExists
	}

	account := domain.Account{
		Owner:     owner,
		Balance:   balance,
		Version:   0,
		CreatedAt: time.Now().UTC(),
	}

	s.accounts[owner] = &accountState{account: account}

	return account, nil
}

// Get returns the account of the given owner.
func (s *Store) Get(ctx context.Context, owner string) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.accounts[owner]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return state.account, nil
}

// Commit atomically updates the balance and appends the transaction record.
func (s *Store) Commit(ctx context.Context, arg domain.CommitParams) (domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Transaction{}, domain.ErrPersistenceUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.accounts[arg.Owner]
	if !ok {
		return domain.Transaction{}, domain.ErrAccountNotFound
	}

	if state.account.Version != arg.ExpectedVersion {
		return domain.Transaction{}, domain.ErrConcurrencyConflict
	}

	// Server-assigned timestamps stay monotonic per account.
	now := time.Now().UTC()
	if !now.After(state.lastCreated) {
		now = state.lastCreated.Add(time.Nanosecond)
	}

	txn := domain.Transaction{
		ID:           uuid.New(),
		Owner:        arg.Owner,
		Direction:    arg.Direction,
		Amount:       arg.Amount,
		Description:  arg.Description,
		Counterparty: arg.Counterparty,
		CreatedAt:    now,
	}

	state.account.Balance = arg.NewBalance
	state.account.Version++
	state.history = append(state.history, txn)
	state.lastCreated = now

	return txn, nil
}

// List returns at most limit most recent transactions of the owner, newest first.
func (s *Store) List(ctx context.Context, owner string, limit int32) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.accounts[owner]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	n := len(state.history)

	count := int(limit)
	if count < 0 {
		count = 0
	}

	if count > n {
		count = n
	}

	items := make([]domain.Transaction, 0, count)
	for i := n - 1; i >= n-count; i-- {
		items = append(items, state.history[i])
	}

	return items, nil
}
