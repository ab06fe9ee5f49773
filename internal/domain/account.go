// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"fmt"

	"github.com/go-petr/bank-account/pkg/validatorpkg"
	"github.com/shopspring/decimal"
)

// AmountPrecision is the maximum number of fractional digits a money amount may carry.
const AmountPrecision = 2

// MaxAmountDigits is the maximum number of integer digits a money amount may carry.
const MaxAmountDigits = 30

var (
	// ErrInvalidFormat indicates that the account number does not match DDDD-LLLLL.
	ErrInvalidFormat = errors.New("invalid account number format")
	// ErrOutOfRange indicates that the amount is outside of the allowed range.
	ErrOutOfRange = errors.New("amount out of range")
	// ErrInsufficientBalance indicates that the account does not have sufficient balance.
	// It matches ErrOutOfRange with errors.Is.
	ErrInsufficientBalance = fmt.Errorf("insufficient balance: %w", ErrOutOfRange)
	// ErrInvalidAmount indicates an unparsable amount, one with too many decimal places
	// or one with more than MaxAmountDigits integer digits.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountAlreadyExists indicates that the account with the given number already exists.
	ErrAccountAlreadyExists = errors.New("account already exists")
)

// Account holds the account number and its balance.
//
// The zero value is not usable, accounts are created by NewAccount.
type Account struct {
	number  string
	balance decimal.Decimal
}

// NewAccount returns a new account with zero balance for the given account number.
func NewAccount(number string) (*Account, error) {
	if !validatorpkg.IsAccountNumber(number) {
		return nil, ErrInvalidFormat
	}

	return &Account{
		number:  number,
		balance: decimal.Zero,
	}, nil
}

// AccountNumber returns the account number exactly as it was given.
func (a *Account) AccountNumber() string {
	return a.number
}

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	return a.balance
}

// Deposit adds amount to the balance and returns the new balance.
func (a *Account) Deposit(amount decimal.Decimal) (decimal.Decimal, error) {
	if err := validAmount(amount); err != nil {
		return a.balance, err
	}

	a.balance = a.balance.Add(amount)

	return a.balance, nil
}

// Withdraw subtracts amount from the balance and returns the new balance.
func (a *Account) Withdraw(amount decimal.Decimal) (decimal.Decimal, error) {
	if err := validAmount(amount); err != nil {
		return a.balance, err
	}

	if amount.GreaterThan(a.balance) {
		return a.balance, ErrInsufficientBalance
	}

	a.balance = a.balance.Sub(amount)

	return a.balance, nil
}

// Equal reports whether both accounts have the same number and balance.
func (a Account) Equal(other Account) bool {
	return a.number == other.number && a.balance.Equal(other.balance)
}

// ParseAmount parses a money amount.
//
// Positive amounts that are too large or carry too many fractional digits
// are rejected with ErrInvalidAmount. Non-positive amounts are returned as is
// and rejected by Deposit and Withdraw.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}

	if amount.IsPositive() {
		if err := checkAmount(amount); err != nil {
			return decimal.Zero, err
		}
	}

	return amount, nil
}

// checkAmount validates a positive amount by its coefficient and exponent only,
// so oversized exponents never reach decimal arithmetic.
func checkAmount(amount decimal.Decimal) error {
	digits := int64(len(amount.Coefficient().String()))
	exp := int64(amount.Exponent())

	if digits+exp > MaxAmountDigits {
		return ErrInvalidAmount
	}

	// Trailing zeros of the coefficient can absorb at most digits fractional places.
	if -exp > digits+AmountPrecision {
		return ErrInvalidAmount
	}

	if !amount.Equal(amount.Truncate(AmountPrecision)) {
		return ErrInvalidAmount
	}

	return nil
}

func validAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrOutOfRange
	}

	return checkAmount(amount)
}
