package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gustavoponcell/Barbearia/value"
)

// monthLayout is the accounting competence format ("2006-01").
const monthLayout = "2006-01"

// MonthOf returns the accounting month key for a timestamp.
func MonthOf(t time.Time) string { return t.Format(monthLayout) }

// ParseMonth validates a competence string.
func ParseMonth(s string) (string, error) {
	if _, err := time.Parse(monthLayout, s); err != nil {
		return "", validationf("invalid month %q, want YYYY-MM", s)
	}
	return s, nil
}

// Expense is a shop expense booked against an accounting month. PaidAt is
// nil until the expense is settled.
type Expense struct {
	ID          uuid.UUID       `json:"id"`
	Category    ExpenseCategory `json:"category"`
	Description string          `json:"description"`
	Amount      value.Money     `json:"amount"`
	Month       string          `json:"month"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
}

// NewExpense validates the booking.
func NewExpense(id uuid.UUID, category ExpenseCategory, description string, amount value.Money, month string) (*Expense, error) {
	if id == uuid.Nil {
		return nil, validationf("expense id is required")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, validationf("expense description is required")
	}
	if amount.IsNegative() {
		return nil, validationf("expense amount cannot be negative")
	}
	normalized, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}
	return &Expense{ID: id, Category: category, Description: description, Amount: amount, Month: normalized}, nil
}

// IsPaid reports whether a payment date was recorded.
func (e *Expense) IsPaid() bool { return e.PaidAt != nil }

// RecordPayment stamps the settlement date.
func (e *Expense) RecordPayment(at time.Time) error {
	if at.IsZero() {
		return validationf("payment date is required")
	}
	e.PaidAt = &at
	return nil
}
