// Package randompkg provides functionality for generating random application items.
package randompkg

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"
)

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// IntBetween generates a random integer between min and max inclusive.
func IntBetween(min, max int) int64 {
	return int64(min) + Intn(max-min+1)
}

// FloatBetween generates a random float between min and max.
func FloatBetween(min, max float64) float64 {
	return min + float64(Intn(1<<32))/(1<<32)*(max-min)
}

func fromAlphabet(alphabet string, n int) string {
	var sb strings.Builder

	k := len(alphabet)

	for i := 0; i < n; i++ {
		c := alphabet[Intn(k)]

		_ = sb.WriteByte(c) // The returned err is always nil.
	}

	return sb.String()
}

// String generates a random string of letters of length n.
func String(n int) string {
	return fromAlphabet(letters, n)
}

// AccountNumber generates a random well-formed account number.
func AccountNumber() string {
	return fromAlphabet(digits, 4) + "-" + fromAlphabet(letters, 5)
}

// MoneyAmountBetween generates a random amount of money between min and max with 2 decimal places.
func MoneyAmountBetween(min, max int) decimal.Decimal {
	cents := IntBetween(min*100, max*100)
	return decimal.New(cents, -2)
}
