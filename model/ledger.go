/*
ledger.go - Per-day cash record

One DailyLedger exists per calendar date. It accumulates inflows and
outflows, each recorded as a Movement with reason and timestamp, and keeps
a lazily computed closing balance.

INVARIANTS:
  - Movements never carry negative amounts.
  - Every recorded movement clears the cached closing balance, so the
    closing balance can never be read stale (ErrNotComputed instead).
  - ProjectBalance is the uncached projection, safe before consolidation.
*/
package model

import (
	"strings"
	"time"

	"github.com/gustavoponcell/Barbearia/value"
)

// MovementKind distinguishes cash in from cash out.
type MovementKind string

const (
	MovementInflow  MovementKind = "inflow"
	MovementOutflow MovementKind = "outflow"
)

// Movement is one cash movement with its reason and timestamp.
type Movement struct {
	Kind   MovementKind `json:"kind"`
	Amount value.Money  `json:"amount"`
	Reason string       `json:"reason"`
	At     time.Time    `json:"at"`
}

// DailyLedger is the cash record for a single date.
type DailyLedger struct {
	Date     time.Time         `json:"date"`
	Opening  value.Money       `json:"opening"`
	Inflows  value.Money       `json:"inflows"`
	Outflows value.Money       `json:"outflows"`
	Closing  *value.Money      `json:"closing,omitempty"`
	Sales    []*Sale           `json:"sales,omitempty"`
	Accounts []*BillingAccount `json:"accounts,omitempty"`
	Moves    []Movement        `json:"movements,omitempty"`
}

// NewDailyLedger opens the ledger for a date with an opening balance. The
// date is truncated to midnight UTC so lookups compare by day.
func NewDailyLedger(date time.Time, opening value.Money) (*DailyLedger, error) {
	if date.IsZero() {
		return nil, validationf("ledger date is required")
	}
	return &DailyLedger{
		Date:     LedgerDay(date),
		Opening:  opening,
		Inflows:  value.ZeroMoney(opening.Currency),
		Outflows: value.ZeroMoney(opening.Currency),
	}, nil
}

// LedgerDay normalizes a timestamp to its ledger date key.
func LedgerDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RecordInflow accumulates cash in and clears the closing balance. The
// caller supplies the movement timestamp.
func (l *DailyLedger) RecordInflow(amount value.Money, reason string, at time.Time) error {
	return l.record(MovementInflow, amount, reason, at)
}

// RecordOutflow accumulates cash out and clears the closing balance.
func (l *DailyLedger) RecordOutflow(amount value.Money, reason string, at time.Time) error {
	return l.record(MovementOutflow, amount, reason, at)
}

func (l *DailyLedger) record(kind MovementKind, amount value.Money, reason string, at time.Time) error {
	if amount.IsNegative() {
		return validationf("movement amount cannot be negative")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return validationf("movement reason is required")
	}
	if at.IsZero() {
		return validationf("movement timestamp is required")
	}
	var err error
	switch kind {
	case MovementInflow:
		l.Inflows, err = l.Inflows.Add(amount)
	case MovementOutflow:
		l.Outflows, err = l.Outflows.Add(amount)
	}
	if err != nil {
		return err
	}
	l.Moves = append(l.Moves, Movement{Kind: kind, Amount: amount, Reason: reason, At: at})
	l.Closing = nil
	return nil
}

// Consolidate computes and caches closing = opening + inflows - outflows.
func (l *DailyLedger) Consolidate() (value.Money, error) {
	closing, err := l.ProjectBalance()
	if err != nil {
		return value.Money{}, err
	}
	l.Closing = &closing
	return closing, nil
}

// ProjectBalance is the same formula, uncached.
func (l *DailyLedger) ProjectBalance() (value.Money, error) {
	acc, err := l.Opening.Add(l.Inflows)
	if err != nil {
		return value.Money{}, err
	}
	return acc.Sub(l.Outflows)
}

// IsConsolidated reports whether the closing balance is cached.
func (l *DailyLedger) IsConsolidated() bool { return l.Closing != nil }

// ClosingBalance returns the cached closing balance or ErrNotComputed.
func (l *DailyLedger) ClosingBalance() (value.Money, error) {
	if l.Closing == nil {
		return value.Money{}, ErrNotComputed
	}
	return *l.Closing, nil
}

// LinkSale attaches a sale to the day, skipping duplicates.
func (l *DailyLedger) LinkSale(s *Sale) {
	for _, existing := range l.Sales {
		if existing.ID == s.ID {
			return
		}
	}
	l.Sales = append(l.Sales, s)
}

// LinkAccount attaches a billing account to the day, skipping duplicates.
func (l *DailyLedger) LinkAccount(b *BillingAccount) {
	for _, existing := range l.Accounts {
		if existing.ID == b.ID {
			return
		}
	}
	l.Accounts = append(l.Accounts, b)
}
