package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mae-finance/wallet/pkg/moneypkg"
)

var (
	// ErrInvalidAmount indicates a non-positive or non-numeric amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientFunds indicates that the outgoing amount exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrConcurrencyConflict indicates that the atomic commit lost a race.
	ErrConcurrencyConflict = errors.New("concurrent balance update conflict")
	// ErrPersistenceUnavailable indicates that the storage substrate is unreachable.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)

// Direction tells whether a transaction adds to or subtracts from the balance.
type Direction string

const (
	// DirectionIncoming credits the account.
	DirectionIncoming Direction = "incoming"
	// DirectionOutgoing debits the account.
	DirectionOutgoing Direction = "outgoing"
)

// Valid reports whether the direction is one of the two known values.
func (d Direction) Valid() bool {
	return d == DirectionIncoming || d == DirectionOutgoing
}

// Transaction is an immutable fact describing one balance-changing event.
//
// Once persisted it is never mutated or deleted. CreatedAt is assigned by the
// server at commit, never by the caller.
type Transaction struct {
	ID           uuid.UUID      `json:"id"`
	Owner        string         `json:"owner"`
	Direction    Direction      `json:"direction"`
	Amount       moneypkg.Money `json:"amount"`
	Description  string         `json:"description"`
	Counterparty string         `json:"counterparty,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Signed returns the amount with the sign implied by the direction.
func (t Transaction) Signed() moneypkg.Money {
	if t.Direction == DirectionOutgoing {
		return -t.Amount
	}

	return t.Amount
}

// CommitParams is the input data for the conditional atomic commit.
//
// The commit succeeds only if the stored account version still equals
// ExpectedVersion; otherwise the store reports ErrConcurrencyConflict and
// leaves balance and history untouched.
type CommitParams struct {
	Owner           string
	ExpectedVersion int64
	NewBalance      moneypkg.Money
	Direction       Direction
	Amount          moneypkg.Money
	Description     string
	Counterparty    string
}
