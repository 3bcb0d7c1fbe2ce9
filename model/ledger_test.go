package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavoponcell/Barbearia/model"
	"github.com/gustavoponcell/Barbearia/value"
)

func nowUTC() time.Time { return time.Now().UTC() }

func testLedger(t *testing.T, opening string) *model.DailyLedger {
	t.Helper()
	l, err := model.NewDailyLedger(nowUTC(), value.MustMoney(opening, "BRL"))
	require.NoError(t, err)
	return l
}

func TestDailyLedger_DateNormalizedToDay(t *testing.T) {
	// GIVEN: a timestamp deep into the afternoon
	// WHEN: opening the ledger
	// THEN: the date key is midnight UTC so day lookups match

	afternoon := time.Date(2026, time.August, 30, 15, 42, 7, 0, time.UTC)
	l, err := model.NewDailyLedger(afternoon, value.ZeroMoney("BRL"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC), l.Date)
}

func TestDailyLedger_ClosingBalanceNeverStale(t *testing.T) {
	// GIVEN: a consolidated ledger
	// WHEN: a new movement lands
	// THEN: the cached closing balance is cleared, never served stale

	l := testLedger(t, "100.00")
	require.NoError(t, l.RecordInflow(value.MustMoney("50.00", "BRL"), "morning sales", nowUTC()))

	closing, err := l.Consolidate()
	require.NoError(t, err)
	assert.True(t, closing.Equal(value.MustMoney("150.00", "BRL")))
	assert.True(t, l.IsConsolidated())

	require.NoError(t, l.RecordOutflow(value.MustMoney("20.00", "BRL"), "supplier payment", nowUTC()))
	assert.False(t, l.IsConsolidated())
	_, err = l.ClosingBalance()
	assert.ErrorIs(t, err, model.ErrNotComputed)

	closing, err = l.Consolidate()
	require.NoError(t, err)
	assert.True(t, closing.Equal(value.MustMoney("130.00", "BRL")))
}

func TestDailyLedger_ProjectBalance_Uncached(t *testing.T) {
	l := testLedger(t, "10.00")
	require.NoError(t, l.RecordInflow(value.MustMoney("5.00", "BRL"), "tip jar", nowUTC()))

	projected, err := l.ProjectBalance()
	require.NoError(t, err)
	assert.True(t, projected.Equal(value.MustMoney("15.00", "BRL")))
	assert.False(t, l.IsConsolidated(), "projection must not cache")
}

func TestDailyLedger_RejectsBadMovements(t *testing.T) {
	l := testLedger(t, "0.00")

	err := l.RecordInflow(value.MustMoney("-1.00", "BRL"), "bogus", nowUTC())
	assert.ErrorIs(t, err, model.ErrValidation)

	err = l.RecordInflow(value.MustMoney("1.00", "BRL"), "   ", nowUTC())
	assert.ErrorIs(t, err, model.ErrValidation)

	err = l.RecordInflow(value.MustMoney("1.00", "BRL"), "no clock", time.Time{})
	assert.ErrorIs(t, err, model.ErrValidation)

	assert.Empty(t, l.Moves, "rejected movements must not be recorded")
}

func TestDailyLedger_MovementCarriesCallerTimestamp(t *testing.T) {
	// GIVEN: a fixed timestamp
	// WHEN: recording a movement with it
	// THEN: the movement is stamped with exactly that time

	l := testLedger(t, "0.00")
	at := time.Date(2026, time.August, 30, 9, 15, 0, 0, time.UTC)
	require.NoError(t, l.RecordInflow(value.MustMoney("12.00", "BRL"), "first client", at))

	require.Len(t, l.Moves, 1)
	assert.True(t, l.Moves[0].At.Equal(at))
}

func TestDailyLedger_LinksDeduplicate(t *testing.T) {
	l := testLedger(t, "0.00")
	a := testAppointment(t, testCustomer(t, "Alice", "alice@example.com"))
	bookItem(t, a, testService(t, "Cut", "40.00", false))

	acct, err := model.NewBillingAccount(a.ID, a)
	require.NoError(t, err)
	l.LinkAccount(acct)
	l.LinkAccount(acct)
	assert.Len(t, l.Accounts, 1)
}

func TestMonthOf(t *testing.T) {
	assert.Equal(t, "2026-08", model.MonthOf(time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)))

	_, err := model.ParseMonth("2026-13")
	assert.Error(t, err)
	m, err := model.ParseMonth("2026-08")
	require.NoError(t, err)
	assert.Equal(t, "2026-08", m)
}
