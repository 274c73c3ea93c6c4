// Package ledgerdelivery manages delivery layer of accounts and transactions.
package ledgerdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/mae-finance/wallet/internal/domain"
	"github.com/mae-finance/wallet/internal/intentparser"
	"github.com/mae-finance/wallet/internal/middleware"
	"github.com/mae-finance/wallet/pkg/errorspkg"
	"github.com/mae-finance/wallet/pkg/moneypkg"
	"github.com/mae-finance/wallet/pkg/tokenpkg"
	"github.com/mae-finance/wallet/pkg/web"
)

// Ledger provides the service layer interface needed by the ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Ledger interface {
	GetAccount(ctx context.Context, owner string) (domain.Account, error)
	RecentHistory(ctx context.Context, owner string, limit int32) ([]domain.Transaction, error)
	Apply(ctx context.Context, owner string, direction domain.Direction, amount moneypkg.Money, description, counterparty string) (domain.Transaction, error)
}

// Advisor turns recent history into a short personalized tip.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Advisor interface {
	Tip(ctx context.Context, transactions []domain.Transaction) string
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	ledger  Ledger
	advisor Advisor
}

// NewHandler returns ledger Handler.
func NewHandler(ledger Ledger, advisor Advisor) *Handler {
	return &Handler{ledger: ledger, advisor: advisor}
}

// GetAccount handles the http request for the authenticated user's account.
func (h *Handler) GetAccount(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	account, err := h.ledger.GetAccount(ctx, authPayload.Username)
	if err != nil {
		switch err {
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrPersistenceUnavailable:
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := web.Response{
		Data: struct {
			Account domain.Account `json:"account"`
		}{account},
	}

	gctx.JSON(http.StatusOK, res)
}

type listTransactionsRequest struct {
	Limit int32 `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ListTransactions handles the http request for recent history, newest first.
func (h *Handler) ListTransactions(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req listTransactionsRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	transactions, err := h.ledger.RecentHistory(ctx, authPayload.Username, req.Limit)
	if err != nil {
		switch err {
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrPersistenceUnavailable:
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := web.Response{
		Data: struct {
			Transactions []domain.Transaction `json:"transactions"`
		}{transactions},
	}

	gctx.JSON(http.StatusOK, res)
}

type createTransferRequest struct {
	Direction   string `json:"direction" binding:"required,oneof=incoming outgoing"`
	Amount      string `json:"amount" binding:"required"`
	Recipient   string `json:"recipient"`
	Description string `json:"description"`
}

// CreateTransfer handles the http request to move money in or out of the
// authenticated user's account.
func (h *Handler) CreateTransfer(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createTransferRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	amount, err := moneypkg.FromString(req.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrInvalidAmount))

		return
	}

	direction := domain.Direction(req.Direction)

	description := req.Description
	if description == "" && req.Recipient != "" {
		if direction == domain.DirectionOutgoing {
			description = "Transfer to " + req.Recipient
		} else {
			description = "Transfer from " + req.Recipient
		}
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	txn, err := h.ledger.Apply(ctx, authPayload.Username, direction, amount, description, req.Recipient)
	if err != nil {
		applyErrorResponse(gctx, err)
		return
	}

	res := web.Response{
		Data: struct {
			Transaction domain.Transaction `json:"transaction"`
		}{txn},
	}

	gctx.JSON(http.StatusOK, res)
}

type scanPaymentRequest struct {
	Payload string `json:"payload" binding:"required"`
}

// ScanPayment handles the http request to pay a scanned QR payment descriptor.
//
// The payload is parsed into a payment intent and then applied as an outgoing
// transaction against the authenticated user's account.
func (h *Handler) ScanPayment(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req scanPaymentRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	intent, err := intentparser.Parse(req.Payload)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	description := "Payment to " + intent.RecipientName

	txn, err := h.ledger.Apply(ctx, authPayload.Username, domain.DirectionOutgoing, intent.Amount, description, intent.RecipientAddress)
	if err != nil {
		applyErrorResponse(gctx, err)
		return
	}

	res := web.Response{
		Data: struct {
			Intent      domain.PaymentIntent `json:"intent"`
			Transaction domain.Transaction   `json:"transaction"`
		}{intent, txn},
	}

	gctx.JSON(http.StatusOK, res)
}

// GetTip handles the http request for a personalized financial tip derived
// from the most recent transactions.
func (h *Handler) GetTip(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	transactions, err := h.ledger.RecentHistory(ctx, authPayload.Username, 0)
	if err != nil {
		switch err {
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrPersistenceUnavailable:
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	tip := h.advisor.Tip(ctx, transactions)

	res := web.Response{
		Data: struct {
			Tip string `json:"tip"`
		}{tip},
	}

	gctx.JSON(http.StatusOK, res)
}

func applyErrorResponse(gctx *gin.Context, err error) {
	switch err {
	case domain.ErrAccountNotFound:
		gctx.JSON(http.StatusNotFound, web.Error(err))
	case domain.ErrInvalidAmount:
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	case domain.ErrInsufficientFunds:
		gctx.JSON(http.StatusUnprocessableEntity, web.Error(err))
	case domain.ErrConcurrencyConflict:
		gctx.JSON(http.StatusConflict, web.Error(err))
	case domain.ErrPersistenceUnavailable:
		gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}
