package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavoponcell/Barbearia/model"
	"github.com/gustavoponcell/Barbearia/value"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

func testCustomer(t *testing.T, name, email string) *model.Customer {
	t.Helper()
	phone, err := value.ParsePhone("81999990000")
	require.NoError(t, err)
	mail, err := value.ParseEmail(email)
	require.NoError(t, err)
	cpf, err := value.HashCPF("11122233344")
	require.NoError(t, err)
	c, err := model.NewCustomer(uuid.New(), name,
		value.Address{Street: "Rua do Sol 1", City: "Recife"}, phone, mail, cpf, true)
	require.NoError(t, err)
	return c
}

func testService(t *testing.T, name, price string, needsWash bool) *model.Service {
	t.Helper()
	s, err := model.NewService(uuid.New(), name, value.MustMoney(price, "BRL"), 30, needsWash)
	require.NoError(t, err)
	return s
}

func testAppointment(t *testing.T, c *model.Customer) *model.Appointment {
	t.Helper()
	start := time.Date(2026, time.August, 30, 10, 0, 0, 0, time.UTC)
	a, err := model.NewAppointment(uuid.New(), c, model.Stations()[0],
		start, start.Add(45*time.Minute), value.ZeroMoney("BRL"))
	require.NoError(t, err)
	return a
}

func bookItem(t *testing.T, a *model.Appointment, svc *model.Service) {
	t.Helper()
	item, err := model.NewServiceItem(svc, svc.Price, svc.DurationMin)
	require.NoError(t, err)
	a.AddServiceItem(item)
}

var retention = decimal.RequireFromString("0.35")

// =============================================================================
// STATUS MACHINE TESTS
// =============================================================================

func TestAppointment_StatusMachine_HappyPath(t *testing.T) {
	// GIVEN: a fresh appointment (Waiting)
	// WHEN: walking Waiting -> InService -> Done
	// THEN: every step succeeds and Done is terminal

	a := testAppointment(t, testCustomer(t, "Alice", "alice@example.com"))
	assert.Equal(t, model.StatusWaiting, a.Status)

	require.NoError(t, a.ChangeStatus(model.StatusInService))
	require.NoError(t, a.ChangeStatus(model.StatusDone))

	err := a.ChangeStatus(model.StatusInService)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	err = a.ChangeStatus(model.StatusCancelled)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestAppointment_StatusMachine_NoSkipping(t *testing.T) {
	// GIVEN: a Waiting appointment
	// WHEN: jumping straight to Done
	// THEN: the transition is rejected with the offending pair

	a := testAppointment(t, testCustomer(t, "Alice", "alice@example.com"))
	err := a.ChangeStatus(model.StatusDone)

	var transErr *model.InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, model.StatusWaiting, transErr.From)
	assert.Equal(t, model.StatusDone, transErr.To)
}

func TestAppointment_CancelFromInService(t *testing.T) {
	a := testAppointment(t, testCustomer(t, "Alice", "alice@example.com"))
	bookItem(t, a, testService(t, "Classic Cut", "40.00", false))
	require.NoError(t, a.ChangeStatus(model.StatusInService))

	_, err := a.Cancel(retention)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, a.Status)
}

// =============================================================================
// CANCELLATION RETENTION TESTS
// =============================================================================

func TestAppointment_Cancel_RetentionSplit(t *testing.T) {
	// GIVEN: an appointment worth 100.00
	// WHEN: cancelling with a 35% retention
	// THEN: 35.00 is retained, 65.00 refundable, and they sum to the total

	a := testAppointment(t, testCustomer(t, "Alice", "alice@example.com"))
	bookItem(t, a, testService(t, "Cut", "60.00", false))
	bookItem(t, a, testService(t, "Beard", "40.00", false))

	cancel, err := a.Cancel(retention)
	require.NoError(t, err)

	assert.True(t, cancel.ServiceTotal.Equal(value.MustMoney("100.00", "BRL")))
	assert.True(t, cancel.Retained.Equal(value.MustMoney("35.00", "BRL")))
	assert.True(t, cancel.Refundable.Equal(value.MustMoney("65.00", "BRL")))

	sum, err := cancel.Retained.Add(cancel.Refundable)
	require.NoError(t, err)
	assert.True(t, sum.Equal(cancel.ServiceTotal))
}

func TestAppointment_Cancel_Twice_Rejected(t *testing.T) {
	// GIVEN: a cancelled appointment
	// WHEN: cancelling again
	// THEN: the status machine rejects it before any financial math

	a := testAppointment(t, testCustomer(t, "Alice", "alice@example.com"))
	bookItem(t, a, testService(t, "Cut", "40.00", false))

	_, err := a.Cancel(retention)
	require.NoError(t, err)

	_, err = a.Cancel(retention)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestAppointment_Cancel_NoItems_Rejected(t *testing.T) {
	// GIVEN: an appointment with no booked services
	// WHEN: cancelling
	// THEN: there is no total to retain against, so the cancel fails

	a := testAppointment(t, testCustomer(t, "Alice", "alice@example.com"))
	_, err := a.Cancel(retention)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, model.StatusWaiting, a.Status, "failed cancel must not move the status")
}

func TestAppointment_CancellationStatementMark_SetOnce(t *testing.T) {
	// GIVEN: a cancellation statement marker
	// WHEN: marking twice with different refs
	// THEN: the first ref wins, later marks are ignored

	a := testAppointment(t, testCustomer(t, "Alice", "alice@example.com"))
	first := time.Now()
	a.MarkCancellationStatement(first, "file-1")
	a.MarkCancellationStatement(first.Add(time.Hour), "file-2")

	require.True(t, a.IsCancellationStatementGenerated())
	assert.Equal(t, "file-1", a.CancellationStatement.FileRef)
}

func TestAppointment_NeedsWash(t *testing.T) {
	a := testAppointment(t, testCustomer(t, "Alice", "alice@example.com"))
	bookItem(t, a, testService(t, "Cut", "40.00", false))
	assert.False(t, a.NeedsWash())

	bookItem(t, a, testService(t, "Cut and Wash", "55.00", true))
	assert.True(t, a.NeedsWash())
}
