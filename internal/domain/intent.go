package domain

import (
	"errors"

	"github.com/mae-finance/wallet/pkg/moneypkg"
)

// ErrMalformedPayload indicates that a payment descriptor cannot be tokenized.
var ErrMalformedPayload = errors.New("malformed payment payload")

// PaymentIntent is a structured, not-yet-committed payment candidate decoded
// from an external descriptor such as a QR payload.
//
// The intent carries no authority: all monetary validation happens when it is
// submitted to the ledger.
type PaymentIntent struct {
	RecipientName    string         `json:"recipient_name"`
	RecipientAddress string         `json:"recipient_address"`
	Amount           moneypkg.Money `json:"amount"`
	Reference        string         `json:"reference"`
}
