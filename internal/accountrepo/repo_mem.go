// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/go-petr/bank-account/internal/domain"
	"github.com/rs/zerolog"
)

// RepoMem keeps accounts in memory for the lifetime of the process.
//
// All mutations of a stored account go through Update, which holds the write lock
// for the whole check-then-update sequence.
type RepoMem struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

// NewRepoMem returns an empty account RepoMem.
func NewRepoMem() *RepoMem {
	return &RepoMem{
		accounts: make(map[string]*domain.Account),
	}
}

// Create stores the account and returns a copy of it.
func (r *RepoMem) Create(ctx context.Context, acc *domain.Account) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	if err := ctx.Err(); err != nil {
		return domain.Account{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	number := acc.AccountNumber()
	if _, ok := r.accounts[number]; ok {
		l.Info().Str("account_number", number).Err(domain.ErrAccountAlreadyExists).Send()
		return domain.Account{}, domain.ErrAccountAlreadyExists
	}

	r.accounts[number] = acc

	return *acc, nil
}

// Get returns a copy of the account with the given number.
func (r *RepoMem) Get(ctx context.Context, number string) (domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return domain.Account{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.accounts[number]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return *acc, nil
}

// List returns the specified number of accounts ordered by account number.
func (r *RepoMem) List(ctx context.Context, limit, offset int32) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	numbers := make([]string, 0, len(r.accounts))
	for n := range r.accounts {
		numbers = append(numbers, n)
	}

	sort.Strings(numbers)

	items := []domain.Account{}

	if offset < 0 || int(offset) >= len(numbers) || limit <= 0 {
		return items, nil
	}

	end := int(offset) + int(limit)
	if end > len(numbers) {
		end = len(numbers)
	}

	for _, n := range numbers[offset:end] {
		items = append(items, *r.accounts[n])
	}

	return items, nil
}

// Update applies fn to the stored account under the write lock and returns
// a copy of the account after fn. An error from fn is returned as is.
func (r *RepoMem) Update(ctx context.Context, number string, fn func(*domain.Account) error) (domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return domain.Account{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[number]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	if err := fn(acc); err != nil {
		return *acc, err
	}

	return *acc, nil
}
