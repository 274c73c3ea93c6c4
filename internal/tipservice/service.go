// Package tipservice produces advisory financial tips from transaction history.
//
// The tip text comes from an external generator and is treated as opaque
// advisory content: a generator failure falls back to a fixed string and can
// never affect ledger state.
package tipservice

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mae-finance/wallet/internal/domain"
)

const (
	// FallbackEmptyHistory is returned without calling the generator when
	// there is no history to summarize.
	FallbackEmptyHistory = "Start making some transactions to receive personalized financial tips!"
	// FallbackUnavailable is returned whenever the external generator fails.
	FallbackUnavailable = "Could not fetch financial tip at this time. Please try again later."
)

// summaryLimit caps how many recent records feed the summary.
const summaryLimit = 10

// Generator provides the external text-generation collaborator interface.
//
//go:generate mockgen -source service.go -destination service_mock.go -package tipservice
type Generator interface {
	Generate(ctx context.Context, transactionHistory string) (string, error)
}

// Service facilitates tip service layer logic.
type Service struct {
	generator Generator
}

// New returns a tip Service backed by the given generator.
func New(g Generator) *Service {
	return &Service{generator: g}
}

// Tip returns one personalized financial tip for the given history.
//
// The history must already be ordered newest first; only the ten most recent
// records are summarized.
func (s *Service) Tip(ctx context.Context, transactions []domain.Transaction) string {
	if len(transactions) == 0 {
		return FallbackEmptyHistory
	}

	tip, err := s.generator.Generate(ctx, Summary(transactions))
	if err != nil || strings.TrimSpace(tip) == "" {
		zerolog.Ctx(ctx).Error().Err(err).Msg("financial tip generation failed")
		return FallbackUnavailable
	}

	return tip
}

// Summary renders transactions as human-readable lines for the generator,
// for example "Spent $40.00 for rent on 6/1/2026".
func Summary(transactions []domain.Transaction) string {
	if len(transactions) > summaryLimit {
		transactions = transactions[:summaryLimit]
	}

	lines := make([]string, 0, len(transactions))

	for _, txn := range transactions {
		verb := "Received"
		if txn.Direction == domain.DirectionOutgoing {
			verb = "Spent"
		}

		lines = append(lines, verb+" $"+txn.Amount.String()+" for "+txn.Description+" on "+txn.CreatedAt.Format("1/2/2006"))
	}

	return strings.Join(lines, "\n")
}
