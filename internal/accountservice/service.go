// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"
	"math"

	"github.com/go-petr/bank-account/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, acc *domain.Account) (domain.Account, error)
	Get(ctx context.Context, number string) (domain.Account, error)
	List(ctx context.Context, limit, offset int32) ([]domain.Account, error)
	Update(ctx context.Context, number string, fn func(*domain.Account) error) (domain.Account, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// Create creates and returns an account with zero balance for the given account number.
func (s *Service) Create(ctx context.Context, number string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	acc, err := domain.NewAccount(number)
	if err != nil {
		l.Info().Err(err).Str("account_number", number).Send()
		return domain.Account{}, err
	}

	created, err := s.repo.Create(ctx, acc)
	if err != nil {
		return created, err
	}

	return created, nil
}

// Get returns account for the given account number.
func (s *Service) Get(ctx context.Context, number string) (domain.Account, error) {
	acc, err := s.repo.Get(ctx, number)
	if err != nil {
		return acc, err
	}

	return acc, nil
}

// List returns the requested page of accounts.
func (s *Service) List(ctx context.Context, pageSize, pageID int32) ([]domain.Account, error) {
	limit := pageSize

	offset := int64(pageID-1) * int64(pageSize)
	if offset > math.MaxInt32 {
		return []domain.Account{}, nil
	}

	accounts, err := s.repo.List(ctx, limit, int32(offset))
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

// Deposit adds amount to the balance of the account and returns the changed account.
func (s *Service) Deposit(ctx context.Context, number, amount string) (domain.Account, error) {
	return s.change(ctx, number, amount, (*domain.Account).Deposit)
}

// Withdraw subtracts amount from the balance of the account and returns the changed account.
func (s *Service) Withdraw(ctx context.Context, number, amount string) (domain.Account, error) {
	return s.change(ctx, number, amount, (*domain.Account).Withdraw)
}

type balanceOp func(*domain.Account, decimal.Decimal) (decimal.Decimal, error)

func (s *Service) change(ctx context.Context, number, amount string, op balanceOp) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	amountDecimal, err := domain.ParseAmount(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Account{}, err
	}

	acc, err := s.repo.Update(ctx, number, func(a *domain.Account) error {
		_, err := op(a, amountDecimal)
		return err
	})
	if err != nil {
		l.Info().Err(err).Str("account_number", number).Str("amount", amount).Send()
		return domain.Account{}, err
	}

	return acc, nil
}
