// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/bank-account/internal/domain"
	"github.com/go-petr/bank-account/pkg/errorspkg"
	"github.com/go-petr/bank-account/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Create(ctx context.Context, number string) (domain.Account, error)
	Get(ctx context.Context, number string) (domain.Account, error)
	List(ctx context.Context, pageSize, pageID int32) ([]domain.Account, error)
	Deposit(ctx context.Context, number, amount string) (domain.Account, error)
	Withdraw(ctx context.Context, number, amount string) (domain.Account, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) Handler {
	return Handler{service: as}
}

// Account is the JSON view of domain.Account.
type Account struct {
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
}

func newAccount(a domain.Account) Account {
	return Account{
		AccountNumber: a.AccountNumber(),
		Balance:       a.Balance(),
	}
}

type data struct {
	Account Account `json:"account"`
}

type dataAccounts struct {
	Accounts []Account `json:"accounts"`
}

type createRequest struct {
	AccountNumber string `json:"account_number" binding:"required,account_number"`
}

// Create handles http request to create account.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.BindErrorMsg(err)})

		return
	}

	createdAccount, err := h.service.Create(ctx, req.AccountNumber)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidFormat):
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case errors.Is(err, domain.ErrAccountAlreadyExists):
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		}

		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{newAccount(createdAccount)}})
}

type numberRequest struct {
	AccountNumber string `uri:"number" binding:"required,account_number"`
}

// Get handles http request to get account.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req numberRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.BindErrorMsg(err)})

		return
	}

	acc, err := h.service.Get(ctx, req.AccountNumber)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{newAccount(acc)}})
}

type listRequest struct {
	PageID   int32 `form:"page_id" binding:"required,min=1"`
	PageSize int32 `form:"page_size" binding:"required,min=1,max=100"`
}

// List handles http request to list accounts.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.BindErrorMsg(err)})

		return
	}

	accounts, err := h.service.List(ctx, req.PageSize, req.PageID)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := dataAccounts{Accounts: make([]Account, 0, len(accounts))}
	for _, a := range accounts {
		res.Accounts = append(res.Accounts, newAccount(a))
	}

	gctx.JSON(http.StatusOK, web.Response{Data: res})
}

type amountRequest struct {
	Amount string `json:"amount" binding:"required"`
}

type changeFunc func(ctx context.Context, number, amount string) (domain.Account, error)

// Deposit handles http request to deposit money to account.
func (h *Handler) Deposit(gctx *gin.Context) {
	h.change(gctx, h.service.Deposit)
}

// Withdraw handles http request to withdraw money from account.
func (h *Handler) Withdraw(gctx *gin.Context) {
	h.change(gctx, h.service.Withdraw)
}

func (h *Handler) change(gctx *gin.Context, fn changeFunc) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri numberRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.BindErrorMsg(err)})

		return
	}

	var req amountRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.BindErrorMsg(err)})

		return
	}

	acc, err := fn(ctx, uri.AccountNumber, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case errors.Is(err, domain.ErrInsufficientBalance):
			gctx.JSON(http.StatusUnprocessableEntity, web.Error(err))
			return
		case errors.Is(err, domain.ErrOutOfRange), errors.Is(err, domain.ErrInvalidAmount):
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{newAccount(acc)}})
}
