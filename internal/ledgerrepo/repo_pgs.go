// Package ledgerrepo manages the repository layer of accounts and transactions.
package ledgerrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/mae-finance/wallet/internal/domain"
	"github.com/mae-finance/wallet/pkg/moneypkg"
)

// RepoPGS facilitates ledger repository layer logic.
type RepoPGS struct {
	conn *sql.DB
}

// NewRepoPGS returns ledger RepoPGS.
func NewRepoPGS(conn *sql.DB) *RepoPGS {
	return &RepoPGS{conn: conn}
}

const createAccountQuery = `
INSERT INTO
    accounts (owner, balance)
VALUES
    ($1, $2)
RETURNING owner, balance, version, created_at
`

// Create creates the account with the given starting balance and then returns it.
func (r *RepoPGS) Create(ctx context.Context, owner string, balance moneypkg.Money) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.conn.QueryRowContext(ctx, createAccountQuery, owner, int64(balance))

	var a domain.Account

	err := row.Scan(
		&a.Owner,
		&a.Balance,
		&a.Version,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "accounts_pkey":
				return a, domain.ErrAccountAlreadyExists
			case "accounts_owner_fkey":
				return a, domain.ErrUserNotFound
			}
		}

		return a, domain.ErrPersistenceUnavailable
	}

	return a, nil
}

const getAccountQuery = `
SELECT
	owner, balance, version, created_at
FROM accounts
WHERE owner = $1
`

// Get returns the account of the given owner.
func (r *RepoPGS) Get(ctx context.Context, owner string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.conn.QueryRowContext(ctx, getAccountQuery, owner)

	var a domain.Account

	err := row.Scan(
		&a.Owner,
		&a.Balance,
		&a.Version,
		&a.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, domain.ErrPersistenceUnavailable
	}

	return a, nil
}

const commitBalanceQuery = `
UPDATE accounts
SET balance = $2, version = version + 1
WHERE owner = $1 AND version = $3
`

const commitInsertQuery = `
INSERT INTO
    transactions (owner, direction, amount, description, counterparty)
VALUES
    ($1, $2, $3, $4, $5)
RETURNING id, owner, direction, amount, description, counterparty, created_at
`

const commitVersionQuery = `
SELECT version FROM accounts WHERE owner = $1
`

// Commit atomically updates the balance and appends the transaction record.
//
// The balance update is keyed on the version observed at read time. A lost
// race rolls back with domain.ErrConcurrencyConflict and leaves no partial
// state.
func (r *RepoPGS) Commit(ctx context.Context, arg domain.CommitParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	var txn domain.Transaction

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return txn, domain.ErrPersistenceUnavailable
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	res, err := tx.ExecContext(ctx, commitBalanceQuery, arg.Owner, int64(arg.NewBalance), arg.ExpectedVersion)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "accounts_balance_check" {
			return txn, domain.ErrInsufficientFunds
		}

		return txn, domain.ErrPersistenceUnavailable
	}

	affected, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return txn, domain.ErrPersistenceUnavailable
	}

	if affected == 0 {
		var version int64
		if err := tx.QueryRowContext(ctx, commitVersionQuery, arg.Owner).Scan(&version); err != nil {
			if err == sql.ErrNoRows {
				return txn, domain.ErrAccountNotFound
			}

			l.Error().Err(err).Send()

			return txn, domain.ErrPersistenceUnavailable
		}

		return txn, domain.ErrConcurrencyConflict
	}

	counterparty := sql.NullString{String: arg.Counterparty, Valid: arg.Counterparty != ""}

	row := tx.QueryRowContext(ctx, commitInsertQuery,
		arg.Owner,
		string(arg.Direction),
		int64(arg.Amount),
		arg.Description,
		counterparty,
	)

	if err := scanTransaction(row, &txn); err != nil {
		l.Error().Err(err).Send()
		return txn, domain.ErrPersistenceUnavailable
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, domain.ErrPersistenceUnavailable
	}

	return txn, nil
}

const listTransactionsQuery = `
SELECT
	id, owner, direction, amount, description, counterparty, created_at
FROM transactions
WHERE owner = $1
ORDER BY created_at DESC
LIMIT $2
`

// List returns at most limit most recent transactions of the owner, newest first.
func (r *RepoPGS) List(ctx context.Context, owner string, limit int32) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.conn.QueryContext(ctx, listTransactionsQuery, owner, limit)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, domain.ErrPersistenceUnavailable
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var txn domain.Transaction
		if err := scanTransaction(rows, &txn); err != nil {
			l.Error().Err(err).Send()
			return nil, domain.ErrPersistenceUnavailable
		}

		items = append(items, txn)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, domain.ErrPersistenceUnavailable
	}

	return items, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row scanner, txn *domain.Transaction) error {
	var counterparty sql.NullString

	err := row.Scan(
		&txn.ID,
		&txn.Owner,
		&txn.Direction,
		&txn.Amount,
		&txn.Description,
		&counterparty,
		&txn.CreatedAt,
	)
	if err != nil {
		return err
	}

	txn.Counterparty = counterparty.String

	return nil
}
