// Package integrationtest provides helpers used in end-to-end api tests.
package integrationtest

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/bank-account/cmd/httpserver"
	"github.com/go-petr/bank-account/internal/domain"
	"github.com/go-petr/bank-account/internal/middleware"
	"github.com/go-petr/bank-account/pkg/configpkg"
	"github.com/go-petr/bank-account/pkg/randompkg"
)

// configsDir returns the repository configs directory independent of the test's working dir.
func configsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "configs")
}

// SetupServer returns a test server with an empty account registry.
func SetupServer(t *testing.T) *httpserver.Server {
	t.Helper()

	dir := configsDir()

	config, err := configpkg.Load(dir)
	if err != nil {
		t.Fatalf(`configpkg.Load(%q) returned error: %v`, dir, err)
	}

	zerolog.SetGlobalLevel(zerolog.FatalLevel)

	logger := middleware.CreateLogger(config)

	gin.SetMode(gin.ReleaseMode)

	server, err := httpserver.New(logger, config)
	if err != nil {
		t.Fatalf(`httpserver.New(logger, config) returned error: %v`, err)
	}

	return server
}

// SeedAccount registers an account with a random number and the given balance.
func SeedAccount(t *testing.T, server *httpserver.Server, balance string) domain.Account {
	t.Helper()

	ctx := context.Background()

	acc, err := domain.NewAccount(randompkg.AccountNumber())
	if err != nil {
		t.Fatalf("domain.NewAccount() returned error: %v", err)
	}

	if _, err := server.Repo.Create(ctx, acc); err != nil {
		t.Fatalf("server.Repo.Create(ctx, %q) returned error: %v", acc.AccountNumber(), err)
	}

	amount := decimal.RequireFromString(balance)
	if !amount.IsPositive() {
		return *acc
	}

	seeded, err := server.Repo.Update(ctx, acc.AccountNumber(), func(a *domain.Account) error {
		_, err := a.Deposit(amount)
		return err
	})
	if err != nil {
		t.Fatalf("seeding balance %s returned error: %v", balance, err)
	}

	return seeded
}
