/*
ledger.go - Daily cash ledger orchestration

PURPOSE:
  One ledger per calendar date. Explicitly opening a day that already has
  a ledger fails; the internal lazy path used by billing and cancellation
  silently reuses or creates the day's ledger with a zero opening
  balance. The asymmetry is deliberate: operators opening the till twice
  is a mistake, automated bookings landing on an unopened day are not.
*/
package engine

import (
	"time"

	"github.com/gustavoponcell/Barbearia/model"
	"github.com/gustavoponcell/Barbearia/value"
)

// OpenLedger opens the cash ledger for a date with an explicit opening
// balance. Fails if the date already has one.
func (e *Engine) OpenLedger(requester *model.User, date time.Time, opening value.Money) (*model.DailyLedger, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	day := model.LedgerDay(date)
	if l := e.lookupLedger(day); l != nil {
		return nil, invalidState("ledger for %s already open", day.Format("2006-01-02"))
	}
	ledger, err := model.NewDailyLedger(day, opening)
	if err != nil {
		return nil, err
	}
	e.ledgers = append(e.ledgers, ledger)
	e.log.Info("ledger opened", "date", day.Format("2006-01-02"), "opening", opening.String())
	return ledger, nil
}

// LedgerByDate returns the ledger for a date.
func (e *Engine) LedgerByDate(requester *model.User, date time.Time) (*model.DailyLedger, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	day := model.LedgerDay(date)
	if l := e.lookupLedger(day); l != nil {
		return l, nil
	}
	return nil, notFoundf("no ledger for %s", day.Format("2006-01-02"))
}

// RecordCashIn books a manual inflow on the date's ledger, creating it
// with a zero opening when absent.
func (e *Engine) RecordCashIn(requester *model.User, date time.Time, amount value.Money, reason string) error {
	if err := requireStaffOrAdmin(requester); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	ledger, err := e.getOrCreateLedger(date, amount.Currency)
	if err != nil {
		return err
	}
	if err := ledger.RecordInflow(amount, reason, e.now()); err != nil {
		return err
	}
	e.log.Info("cash in", "date", ledger.Date.Format("2006-01-02"), "amount", amount.String(), "reason", reason)
	return nil
}

// RecordCashOut books a manual outflow. Administrator only: cash leaves
// the till only under an administrator's hand.
func (e *Engine) RecordCashOut(requester *model.User, date time.Time, amount value.Money, reason string) error {
	if err := requireAdmin(requester); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	ledger, err := e.getOrCreateLedger(date, amount.Currency)
	if err != nil {
		return err
	}
	if err := ledger.RecordOutflow(amount, reason, e.now()); err != nil {
		return err
	}
	e.log.Info("cash out", "date", ledger.Date.Format("2006-01-02"), "amount", amount.String(), "reason", reason)
	return nil
}

// ConsolidateLedger caches the closing balance for a date and returns it.
func (e *Engine) ConsolidateLedger(requester *model.User, date time.Time) (value.Money, error) {
	if err := requireAdmin(requester); err != nil {
		return value.Money{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	day := model.LedgerDay(date)
	ledger := e.lookupLedger(day)
	if ledger == nil {
		return value.Money{}, notFoundf("no ledger for %s", day.Format("2006-01-02"))
	}
	closing, err := ledger.Consolidate()
	if err != nil {
		return value.Money{}, err
	}
	e.log.Info("ledger consolidated", "date", day.Format("2006-01-02"), "closing", closing.String())
	return closing, nil
}

// ListLedgers returns every ledger, oldest first. Administrator only.
func (e *Engine) ListLedgers(requester *model.User) ([]*model.DailyLedger, error) {
	if err := requireAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return sortWindow(e.ledgers, func(a, b *model.DailyLedger) bool {
		return a.Date.Before(b.Date)
	}, 0, 0), nil
}

// getOrCreateLedger must be called with the engine lock held. The lazy
// path opens the day with a zero balance in the movement's currency.
func (e *Engine) getOrCreateLedger(date time.Time, currency string) (*model.DailyLedger, error) {
	day := model.LedgerDay(date)
	if l := e.lookupLedger(day); l != nil {
		return l, nil
	}
	ledger, err := model.NewDailyLedger(day, value.ZeroMoney(currency))
	if err != nil {
		return nil, err
	}
	e.ledgers = append(e.ledgers, ledger)
	e.log.Debug("ledger lazily opened", "date", day.Format("2006-01-02"))
	return ledger, nil
}

// lookupLedger must be called with the engine lock held; day must already
// be normalized.
func (e *Engine) lookupLedger(day time.Time) *model.DailyLedger {
	for _, l := range e.ledgers {
		if l.Date.Equal(day) {
			return l
		}
	}
	return nil
}
