// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"

	"github.com/mae-finance/wallet/pkg/moneypkg"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountAlreadyExists indicates that the owner already has an account.
	ErrAccountAlreadyExists = errors.New("account already exists")
)

// Account holds the current balance and owns the transaction history of one owner.
//
// Balance equals the sum of the signed amounts of all committed transactions
// for the owner. Version counts committed transactions and keys the
// optimistic commit.
type Account struct {
	Owner     string         `json:"owner"`
	Balance   moneypkg.Money `json:"balance"`
	Version   int64          `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
}
