/*
Package value provides the immutable value types shared across the barbershop
domain.

KEY CONCEPTS:
  - Money: a currency-tagged decimal amount, scale 2, banker's rounding
  - Quantity: a unit-tagged decimal amount, scale 3 (stock and sale items)
  - Period: a start/end time window with end >= start
  - Email, Phone, Address, CPFHash: validated contact data

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal everywhere, never float64 arithmetic
  2. Immutability: operations return new values, receivers are never mutated
  3. Fail-fast construction: a value that exists is a value that is valid
*/
package value

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// moneyScale is the number of decimal places every Money carries.
// Rounding is banker's (half-even), matching typical cash-register math.
const moneyScale = 2

// Money is a monetary amount in a specific currency. The zero value is not
// usable; construct through NewMoney or MustMoney.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NewMoney builds a Money from a decimal amount and an ISO-4217 currency
// code. The amount is normalized to two decimal places.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if currency == "" {
		return Money{}, fmt.Errorf("money: currency is required")
	}
	return Money{Amount: amount.RoundBank(moneyScale), Currency: currency}, nil
}

// MustMoney parses a decimal string ("40.00") into Money and panics on
// malformed input. Intended for literals in seeds and tests.
func MustMoney(amount, currency string) Money {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		panic(fmt.Sprintf("value: bad money literal %q: %v", amount, err))
	}
	m, err := NewMoney(d, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns 0.00 in the given currency.
func ZeroMoney(currency string) Money {
	return Money{Amount: decimal.Zero.RoundBank(moneyScale), Currency: currency}
}

func (m Money) IsZero() bool     { return m.Amount.IsZero() }
func (m Money) IsNegative() bool { return m.Amount.IsNegative() }
func (m Money) IsPositive() bool { return m.Amount.IsPositive() }

// Add returns m + other. Currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Add(other.Amount).RoundBank(moneyScale), Currency: m.Currency}, nil
}

// Sub returns m - other. Currencies must match. The result may be negative;
// callers enforce their own sign invariants.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Sub(other.Amount).RoundBank(moneyScale), Currency: m.Currency}, nil
}

// Mul returns m scaled by factor, rounded back to money scale.
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{Amount: m.Amount.Mul(factor).RoundBank(moneyScale), Currency: m.Currency}
}

// Equal reports amount and currency equality.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

func (m Money) sameCurrency(other Money) error {
	if m.Currency != other.Currency {
		return fmt.Errorf("money: currency mismatch: %s vs %s", m.Currency, other.Currency)
	}
	return nil
}

func (m Money) String() string {
	return m.Currency + " " + m.Amount.StringFixedBank(moneyScale)
}
