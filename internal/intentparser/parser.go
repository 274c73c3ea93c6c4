// Package intentparser decodes untrusted payment descriptors into payment candidates.
//
// A descriptor arrives as the free-text payload of a scanned or uploaded QR
// code, for example:
//
//	"Jane Doe <jane@example.com>, amount:12.50, ref:INV-1"
//
// Parsing only produces a candidate; all monetary validation happens when the
// candidate is submitted to the ledger.
package intentparser

import (
	"strings"

	"github.com/mae-finance/wallet/internal/domain"
	"github.com/mae-finance/wallet/pkg/moneypkg"
)

const (
	placeholderName    = "Merchant"
	defaultContact     = "Unknown Merchant <unknown@example.com>"
	defaultReference   = "N/A"
	amountTokenPrefix  = "amount:"
	refTokenPrefix     = "ref:"
	contactTokenMarker = "@"
)

// Parse decodes a raw payment descriptor into a PaymentIntent.
//
// Tokens are comma-separated and may appear in any order; unrecognized tokens
// are ignored. A missing or non-numeric amount parses to zero and is left for
// the ledger's positivity check to reject. Blank input is the only payload
// that cannot be minimally tokenized and returns domain.ErrMalformedPayload.
func Parse(raw string) (domain.PaymentIntent, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.PaymentIntent{}, domain.ErrMalformedPayload
	}

	tokens := strings.Split(raw, ",")
	for i, token := range tokens {
		tokens[i] = strings.TrimSpace(token)
	}

	name, address := splitContact(findToken(tokens, func(t string) bool {
		return strings.Contains(t, contactTokenMarker)
	}, defaultContact))

	amount := moneypkg.Zero
	if token, ok := strings.CutPrefix(findToken(tokens, func(t string) bool {
		return strings.HasPrefix(t, amountTokenPrefix)
	}, amountTokenPrefix+"0"), amountTokenPrefix); ok {
		if parsed, err := moneypkg.FromString(strings.TrimSpace(token)); err == nil {
			amount = parsed
		}
	}

	reference := defaultReference
	if token, ok := strings.CutPrefix(findToken(tokens, func(t string) bool {
		return strings.HasPrefix(t, refTokenPrefix)
	}, refTokenPrefix+defaultReference), refTokenPrefix); ok && token != "" {
		reference = token
	}

	return domain.PaymentIntent{
		RecipientName:    name,
		RecipientAddress: address,
		Amount:           amount,
		Reference:        reference,
	}, nil
}

// findToken returns the first token matching the predicate, or fallback.
func findToken(tokens []string, match func(string) bool, fallback string) string {
	for _, token := range tokens {
		if match(token) {
			return token
		}
	}

	return fallback
}

// splitContact splits "Name <address>" into display name and address. A bare
// address gets the placeholder display name.
func splitContact(token string) (name, address string) {
	open := strings.Index(token, "<")
	if open < 0 {
		return placeholderName, strings.TrimSpace(token)
	}

	name = strings.TrimSpace(token[:open])
	if name == "" {
		name = placeholderName
	}

	address = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(token[open+1:]), ">"))

	return name, address
}
