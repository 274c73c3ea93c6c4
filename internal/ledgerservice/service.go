// Package ledgerservice manages the business logic layer of the ledger.
//
// It owns atomic balance mutation: every balance-changing operation goes
// through Apply, which validates the amount, checks sufficiency and commits
// the balance update together with the new transaction record as one unit.
package ledgerservice

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/mae-finance/wallet/internal/domain"
	"github.com/mae-finance/wallet/pkg/moneypkg"
)

// DefaultHistoryLimit caps history reads when the caller does not choose one.
const DefaultHistoryLimit = 10

const initialBackoff = 10 * time.Millisecond

// Store provides the persistence substrate interface needed by the ledger service.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type Store interface {
	Create(ctx context.Context, owner string, balance moneypkg.Money) (domain.Account, error)
	Get(ctx context.Context, owner string) (domain.Account, error)
	Commit(ctx context.Context, arg domain.CommitParams) (domain.Transaction, error)
	List(ctx context.Context, owner string, limit int32) ([]domain.Transaction, error)
}

// EventPublisher announces committed transactions to interested consumers.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type EventPublisher interface {
	PublishTransactionCompleted(ctx context.Context, txn domain.Transaction) error
}

// Service facilitates ledger service layer logic.
type Service struct {
	store       Store
	events      EventPublisher
	grant       moneypkg.Money
	maxAttempts int
}

// New returns a ledger Service.
//
// grant is the onboarding balance credited when an account is opened.
// maxAttempts bounds the optimistic commit retries; values below one fall
// back to three.
func New(store Store, events EventPublisher, grant moneypkg.Money, maxAttempts int) *Service {
	if maxAttempts < 1 {
		maxAttempts = 3
	}

	return &Service{
		store:       store,
		events:      events,
		grant:       grant,
		maxAttempts: maxAttempts,
	}
}

// Open creates the account of the given owner with the onboarding grant.
func (s *Service) Open(ctx context.Context, owner string) (domain.Account, error) {
	return s.store.Create(ctx, owner, s.grant)
}

// Apply validates and atomically commits one balance-changing operation.
//
// The read of the balance, the sufficiency check, the balance update and the
// history append happen as one isolated unit keyed on the account version.
// A lost race is retried with doubling backoff up to the configured attempt
// count before domain.ErrConcurrencyConflict surfaces. On any error the
// account and its history are left untouched.
func (s *Service) Apply(
	ctx context.Context,
	owner string,
	direction domain.Direction,
	amount moneypkg.Money,
	description string,
	counterparty string,
) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if !direction.Valid() || !amount.IsPositive() {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}

	backoff := initialBackoff

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return domain.Transaction{}, domain.ErrConcurrencyConflict
			case <-time.After(backoff):
			}

			backoff *= 2
		}

		account, err := s.store.Get(ctx, owner)
		if err != nil {
			return domain.Transaction{}, err
		}

		var newBalance moneypkg.Money

		if direction == domain.DirectionOutgoing {
			if account.Balance.LessThan(amount) {
				return domain.Transaction{}, domain.ErrInsufficientFunds
			}

			newBalance = account.Balance.Sub(amount)
		} else {
			newBalance = account.Balance.Add(amount)
		}

		txn, err := s.store.Commit(ctx, domain.CommitParams{
			Owner:           owner,
			ExpectedVersion: account.Version,
			NewBalance:      newBalance,
			Direction:       direction,
			Amount:          amount,
			Description:     description,
			Counterparty:    counterparty,
		})

		if err == nil {
			s.publish(ctx, txn)
			return txn, nil
		}

		if !errors.Is(err, domain.ErrConcurrencyConflict) {
			return domain.Transaction{}, err
		}

		l.Info().Str("owner", owner).Int("attempt", attempt+1).Msg("apply lost optimistic race")
	}

	return domain.Transaction{}, domain.ErrConcurrencyConflict
}

// GetAccount returns a consistent snapshot of the account.
func (s *Service) GetAccount(ctx context.Context, owner string) (domain.Account, error) {
	return s.store.Get(ctx, owner)
}

// RecentHistory returns at most limit most recent transactions, newest first.
func (s *Service) RecentHistory(ctx context.Context, owner string, limit int32) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	return s.store.List(ctx, owner, limit)
}

// publish announces the committed transaction. Publish failures are logged
// and never affect the committed result.
func (s *Service) publish(ctx context.Context, txn domain.Transaction) {
	if s.events == nil {
		return
	}

	if err := s.events.PublishTransactionCompleted(ctx, txn); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("transaction_id", txn.ID.String()).Msg("publish transaction event")
	}
}
