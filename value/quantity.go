package value

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// quantityScale allows fractional stock units (e.g. 0.125 l of shampoo).
const quantityScale = 3

// Quantity is a non-negative amount tied to a unit of measure ("un", "ml").
type Quantity struct {
	Amount decimal.Decimal `json:"amount"`
	Unit   string          `json:"unit"`
}

// NewQuantity builds a Quantity, rejecting negative amounts and blank units.
func NewQuantity(amount decimal.Decimal, unit string) (Quantity, error) {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return Quantity{}, fmt.Errorf("quantity: unit is required")
	}
	if amount.IsNegative() {
		return Quantity{}, fmt.Errorf("quantity: amount cannot be negative")
	}
	return Quantity{Amount: amount.RoundBank(quantityScale), Unit: unit}, nil
}

// Units is shorthand for a whole-number quantity of generic units.
func Units(n int64) Quantity {
	return Quantity{Amount: decimal.NewFromInt(n).RoundBank(quantityScale), Unit: "un"}
}

// Add returns q + other; units must match.
func (q Quantity) Add(other Quantity) (Quantity, error) {
	if err := q.sameUnit(other); err != nil {
		return Quantity{}, err
	}
	return Quantity{Amount: q.Amount.Add(other.Amount).RoundBank(quantityScale), Unit: q.Unit}, nil
}

// Sub returns q - other; units must match and the result cannot go negative.
func (q Quantity) Sub(other Quantity) (Quantity, error) {
	if err := q.sameUnit(other); err != nil {
		return Quantity{}, err
	}
	res := q.Amount.Sub(other.Amount)
	if res.IsNegative() {
		return Quantity{}, fmt.Errorf("quantity: result cannot be negative")
	}
	return Quantity{Amount: res.RoundBank(quantityScale), Unit: q.Unit}, nil
}

func (q Quantity) LessThan(other Quantity) bool { return q.Amount.LessThan(other.Amount) }
func (q Quantity) IsZero() bool                 { return q.Amount.IsZero() }

func (q Quantity) sameUnit(other Quantity) error {
	if q.Unit != other.Unit {
		return fmt.Errorf("quantity: unit mismatch: %s vs %s", q.Unit, other.Unit)
	}
	return nil
}

func (q Quantity) String() string {
	return q.Amount.String() + " " + q.Unit
}
