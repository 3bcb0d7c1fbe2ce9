package engine_test

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavoponcell/Barbearia/engine"
	"github.com/gustavoponcell/Barbearia/model"
	"github.com/gustavoponcell/Barbearia/value"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

// memWriter captures statements in memory and can be told to fail.
type memWriter struct {
	saved    []string
	failNext bool
}

func (w *memWriter) SaveStatement(customer *model.Customer, text string, dir string) (string, error) {
	if w.failNext {
		w.failNext = false
		return "", errors.New("disk full")
	}
	ref := fmt.Sprintf("mem:%d", len(w.saved))
	w.saved = append(w.saved, text)
	return ref, nil
}

// memCodec stores snapshots in a map and counts saves.
type memCodec struct {
	files map[string]*engine.Snapshot
	saves int
}

func newMemCodec() *memCodec {
	return &memCodec{files: map[string]*engine.Snapshot{}}
}

func (c *memCodec) Save(snap *engine.Snapshot, path string) error {
	c.saves++
	c.files[path] = snap
	return nil
}

func (c *memCodec) Load(path string) (*engine.Snapshot, error) {
	if snap, ok := c.files[path]; ok {
		return snap, nil
	}
	return &engine.Snapshot{}, nil
}

// =============================================================================
// TEST SETUP
// =============================================================================

type fixture struct {
	eng    *engine.Engine
	writer *memWriter
	codec  *memCodec
	admin  *model.User
	staff  *model.User
	barber *model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	writer := &memWriter{}
	codec := newMemCodec()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.New(writer, codec, "statements", logger)

	f := &fixture{eng: eng, writer: writer, codec: codec}
	f.admin = newUser(t, "Root Admin", "root", model.RoleAdmin)
	f.staff = newUser(t, "Front Desk", "desk", model.RoleStaff)
	f.barber = newUser(t, "Carlos Mendes", "carlos", model.RoleBarber)
	require.NoError(t, eng.RegisterUser(f.admin, f.staff))
	require.NoError(t, eng.RegisterUser(f.admin, f.barber))
	return f
}

func newUser(t *testing.T, name, login string, role model.Role) *model.User {
	t.Helper()
	u, err := model.NewUser(uuid.New(), name,
		value.Address{Street: "Rua Aurora 55", City: "Recife"},
		phone(t, "81988887777"), email(t, login+"@barbearia.local"),
		role, login, "hash-"+login, true)
	require.NoError(t, err)
	return u
}

func newCustomer(t *testing.T, name, mail string) *model.Customer {
	t.Helper()
	cpf, err := value.HashCPF("11122233344")
	require.NoError(t, err)
	c, err := model.NewCustomer(uuid.New(), name,
		value.Address{Street: "Rua do Sol 1", City: "Recife"},
		phone(t, "81977776666"), email(t, mail), cpf, true)
	require.NoError(t, err)
	return c
}

func phone(t *testing.T, raw string) value.Phone {
	t.Helper()
	p, err := value.ParsePhone(raw)
	require.NoError(t, err)
	return p
}

func email(t *testing.T, raw string) value.Email {
	t.Helper()
	e, err := value.ParseEmail(raw)
	require.NoError(t, err)
	return e
}

func newService(t *testing.T, f *fixture, name, price string) *model.Service {
	t.Helper()
	s, err := model.NewService(uuid.New(), name, value.MustMoney(price, "BRL"), 30, false)
	require.NoError(t, err)
	require.NoError(t, f.eng.AddService(f.admin, s))
	return s
}

func newAppointment(t *testing.T, f *fixture, c *model.Customer) *model.Appointment {
	t.Helper()
	start := time.Now().Add(time.Hour)
	a, err := model.NewAppointment(uuid.New(), c, model.Stations()[0],
		start, start.Add(45*time.Minute), value.ZeroMoney("BRL"))
	require.NoError(t, err)
	require.NoError(t, f.eng.RegisterAppointment(f.staff, a))
	return a
}

// =============================================================================
// AUTHORIZATION GATE TESTS
// =============================================================================

func TestAuth_BarberCannotOperateEngine(t *testing.T) {
	// GIVEN: an active barber
	// WHEN: calling a staff-or-admin operation
	// THEN: denied; barbers appear on schedules but do not operate the engine

	f := newFixture(t)
	c := newCustomer(t, "Alice Santos", "alice@example.com")

	err := f.eng.RegisterCustomer(f.barber, c)
	assert.ErrorIs(t, err, engine.ErrPermissionDenied)
	assert.True(t, engine.IsPermissionDenied(err))
}

func TestAuth_StaffCannotDoAdminWork(t *testing.T) {
	f := newFixture(t)
	s, err := model.NewService(uuid.New(), "Classic Cut", value.MustMoney("40.00", "BRL"), 30, false)
	require.NoError(t, err)

	err = f.eng.AddService(f.staff, s)
	assert.ErrorIs(t, err, engine.ErrPermissionDenied)

	err = f.eng.RecordCashOut(f.staff, time.Now(), value.MustMoney("10.00", "BRL"), "petty cash")
	assert.ErrorIs(t, err, engine.ErrPermissionDenied)
}

func TestAuth_NilAndInactiveRequestersDenied(t *testing.T) {
	f := newFixture(t)
	c := newCustomer(t, "Alice Santos", "alice@example.com")

	err := f.eng.RegisterCustomer(nil, c)
	assert.ErrorIs(t, err, engine.ErrPermissionDenied)

	f.staff.Deactivate()
	err = f.eng.RegisterCustomer(f.staff, c)
	assert.ErrorIs(t, err, engine.ErrPermissionDenied)
}

func TestAuth_CheckedBeforeAnyStateChange(t *testing.T) {
	// GIVEN: a barber and an empty registry
	// WHEN: a denied registration happens
	// THEN: nothing was stored

	f := newFixture(t)
	c := newCustomer(t, "Alice Santos", "alice@example.com")
	_ = f.eng.RegisterCustomer(f.barber, c)

	_, err := f.eng.CustomerByID(f.admin, c.ID)
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

// =============================================================================
// COUNTER TESTS
// =============================================================================

func TestCounters_AppointmentIncrementsExactlyOnce(t *testing.T) {
	// GIVEN: two registered appointments
	// WHEN: one is cancelled
	// THEN: the tally counts registrations, not live orders, and never
	//       double-counts a registration

	f := newFixture(t)
	svc := newService(t, f, "Classic Cut", "40.00")
	c := newCustomer(t, "Alice Santos", "alice@example.com")
	require.NoError(t, f.eng.RegisterCustomer(f.staff, c))

	a1 := newAppointment(t, f, c)
	a2 := newAppointment(t, f, c)
	assert.Equal(t, 2, f.eng.AppointmentCount())

	require.NoError(t, f.eng.BookService(f.staff, a1.ID, svc.ID))
	_, err := f.eng.CancelAppointment(f.staff, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.eng.AppointmentCount(), "cancellation must not decrement")

	_ = a2
}

func TestCounters_ServiceTally(t *testing.T) {
	f := newFixture(t)
	newService(t, f, "Classic Cut", "40.00")
	newService(t, f, "Beard Trim", "25.00")
	assert.Equal(t, 2, f.eng.ServiceCount())
}

func TestCounters_DuplicateRegistrationDoesNotCount(t *testing.T) {
	f := newFixture(t)
	c := newCustomer(t, "Alice Santos", "alice@example.com")
	require.NoError(t, f.eng.RegisterCustomer(f.staff, c))
	a := newAppointment(t, f, c)

	err := f.eng.RegisterAppointment(f.staff, a)
	assert.ErrorIs(t, err, engine.ErrValidation)
	assert.Equal(t, 1, f.eng.AppointmentCount())
}

// =============================================================================
// CANCELLATION FLOW TESTS
// =============================================================================

func TestCancel_RetentionFlowsIntoTodaysLedger(t *testing.T) {
	// GIVEN: an appointment worth 100.00
	// WHEN: cancelling it
	// THEN: the shop retains 35.00 as an inflow on today's ledger, the
	//       customer is owed 65.00 and the account total equals the retention

	f := newFixture(t)
	cut := newService(t, f, "Cut", "60.00")
	beard := newService(t, f, "Beard", "40.00")
	c := newCustomer(t, "Alice Santos", "alice@example.com")
	require.NoError(t, f.eng.RegisterCustomer(f.staff, c))
	a := newAppointment(t, f, c)
	require.NoError(t, f.eng.BookService(f.staff, a.ID, cut.ID))
	require.NoError(t, f.eng.BookService(f.staff, a.ID, beard.ID))

	cancel, err := f.eng.CancelAppointment(f.staff, a.ID)
	require.NoError(t, err)

	assert.True(t, cancel.Retained.Equal(value.MustMoney("35.00", "BRL")))
	assert.True(t, cancel.Refundable.Equal(value.MustMoney("65.00", "BRL")))

	ledger, err := f.eng.LedgerByDate(f.staff, time.Now())
	require.NoError(t, err)
	assert.True(t, ledger.Inflows.Equal(value.MustMoney("35.00", "BRL")))
	assert.Len(t, ledger.Accounts, 1)

	acct, err := f.eng.AccountByAppointment(f.staff, a.ID)
	require.NoError(t, err)
	total, err := acct.ComputedTotal()
	require.NoError(t, err)
	assert.True(t, total.Equal(cancel.Retained))
}

func TestCancel_TwoServiceRetentionSplit(t *testing.T) {
	// GIVEN: an appointment with a 40.00 and a 25.00 service booked
	// WHEN: cancelling it
	// THEN: 22.75 is retained and booked on today's ledger, 42.25 is
	//       refundable, and the two sum back to the 65.00 total

	f := newFixture(t)
	cut := newService(t, f, "Classic Cut", "40.00")
	wash := newService(t, f, "Hot Towel", "25.00")
	c := newCustomer(t, "Alice Santos", "alice@example.com")
	require.NoError(t, f.eng.RegisterCustomer(f.staff, c))
	a := newAppointment(t, f, c)
	require.NoError(t, f.eng.BookService(f.staff, a.ID, cut.ID))
	require.NoError(t, f.eng.BookService(f.staff, a.ID, wash.ID))

	cancel, err := f.eng.CancelAppointment(f.staff, a.ID)
	require.NoError(t, err)

	assert.True(t, cancel.ServiceTotal.Equal(value.MustMoney("65.00", "BRL")))
	assert.True(t, cancel.Retained.Equal(value.MustMoney("22.75", "BRL")))
	assert.True(t, cancel.Refundable.Equal(value.MustMoney("42.25", "BRL")))

	ledger, err := f.eng.LedgerByDate(f.staff, time.Now())
	require.NoError(t, err)
	assert.True(t, ledger.Inflows.Equal(value.MustMoney("22.75", "BRL")))
}

func TestCancel_TwiceHasNoSecondFinancialEffect(t *testing.T) {
	f := newFixture(t)
	svc := newService(t, f, "Cut", "100.00")
	c := newCustomer(t, "Alice Santos", "alice@example.com")
	require.NoError(t, f.eng.RegisterCustomer(f.staff, c))
	a := newAppointment(t, f, c)
	require.NoError(t, f.eng.BookService(f.staff, a.ID, svc.ID))

	_, err := f.eng.CancelAppointment(f.staff, a.ID)
	require.NoError(t, err)

	_, err = f.eng.CancelAppointment(f.staff, a.ID)
	assert.ErrorIs(t, err, engine.ErrInvalidTransition)

	ledger, err := f.eng.LedgerByDate(f.staff, time.Now())
	require.NoError(t, err)
	assert.True(t, ledger.Inflows.Equal(value.MustMoney("35.00", "BRL")), "retention must not double-book")
	assert.Len(t, f.writer.saved, 1, "statement must not be rewritten")
}

func TestCancel_StatementIdempotent(t *testing.T) {
	// GIVEN: a cancelled appointment with its statement written
	// WHEN: generating the statement again
	// THEN: the original file reference comes back and no new file is written

	f := newFixture(t)
	svc := newService(t, f, "Cut", "100.00")
	c := newCustomer(t, "Alice Santos", "alice@example.com")
	require.NoError(t, f.eng.RegisterCustomer(f.staff, c))
	a := newAppointment(t, f, c)
	require.NoError(t, f.eng.BookService(f.staff, a.ID, svc.ID))
	_, err := f.eng.CancelAppointment(f.staff, a.ID)
	require.NoError(t, err)
	require.Len(t, f.writer.saved, 1)

	ref1, err := f.eng.GenerateCancellationStatement(f.staff, a.ID)
	require.NoError(t, err)
	ref2, err := f.eng.GenerateCancellationStatement(f.staff, a.ID)
	require.NoError(t, err)

	assert.Equal(t, ref1, ref2)
	assert.Len(t, f.writer.saved, 1)

	refs, err := f.eng.CustomerStatementRefs(f.staff, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{ref1}, refs)
}

func TestCancel_FailedStatementWriteCanBeRetried(t *testing.T) {
	// GIVEN: the statement writer fails during cancellation
	// WHEN: cancelling
	// THEN: the financial effects stand, the marker stays unset, and a
	//       later generation attempt succeeds

	f := newFixture(t)
	svc := newService(t, f, "Cut", "100.00")
	c := newCustomer(t, "Alice Santos", "alice@example.com")
	require.NoError(t, f.eng.RegisterCustomer(f.staff, c))
	a := newAppointment(t, f, c)
	require.NoError(t, f.eng.BookService(f.staff, a.ID, svc.ID))

	f.writer.failNext = true
	cancel, err := f.eng.CancelAppointment(f.staff, a.ID)
	require.NoError(t, err, "cancellation is committed even when the statement write fails")
	assert.True(t, cancel.Retained.Equal(value.MustMoney("35.00", "BRL")))
	assert.False(t, a.IsCancellationStatementGenerated())

	ref, err := f.eng.GenerateCancellationStatement(f.staff, a.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, ref)
	assert.Len(t, f.writer.saved, 1)
}

// =============================================================================
// BILLING CLOSE TESTS
// =============================================================================

func TestCloseAccount_BooksLedgerAndStatementOnce(t *testing.T) {
	// GIVEN: a finished appointment worth 40.00
	// WHEN: closing its account twice
	// THEN: the ledger books 40.00 once and exactly one statement exists

	f := newFixture(t)
	svc := newService(t, f, "Classic Cut", "40.00")
	c := newCustomer(t, "Alice Santos", "alice@example.com")
	require.NoError(t, f.eng.RegisterCustomer(f.staff, c))
	a := newAppointment(t, f, c)
	require.NoError(t, f.eng.BookService(f.staff, a.ID, svc.ID))
	require.NoError(t, f.eng.AssignBarber(f.staff, a.ID, f.barber.ID))
	require.NoError(t, f.eng.StartService(f.staff, a.ID))
	require.NoError(t, f.eng.FinishService(f.staff, a.ID))

	acct, err := f.eng.CloseAccount(f.staff, a.ID, model.PaymentPix)
	require.NoError(t, err)
	assert.True(t, acct.Closed)

	_, err = f.eng.CloseAccount(f.staff, a.ID, model.PaymentCash)
	require.NoError(t, err)

	method, err := acct.SettledPayment()
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPix, method, "second close must not re-settle")

	ledger, err := f.eng.LedgerByDate(f.staff, time.Now())
	require.NoError(t, err)
	assert.True(t, ledger.Inflows.Equal(value.MustMoney("40.00", "BRL")))
	assert.Len(t, f.writer.saved, 1)
}

func TestCloseAccount_WithExtrasAndDiscount(t *testing.T) {
	f := newFixture(t)
	cut := newService(t, f, "Classic Cut", "40.00")
	beard := newService(t, f, "Beard Trim", "25.00")
	c := newCustomer(t, "Alice Santos", "alice@example.com")
	require.NoError(t, f.eng.RegisterCustomer(f.staff, c))
	a := newAppointment(t, f, c)
	require.NoError(t, f.eng.BookService(f.staff, a.ID, cut.ID))
	require.NoError(t, f.eng.AddExtraService(f.staff, a.ID, beard.ID))
	require.NoError(t, f.eng.ApplyDiscount(f.staff, a.ID, value.MustMoney("5.00", "BRL")))

	acct, err := f.eng.CloseAccount(f.staff, a.ID, model.PaymentDebitCard)
	require.NoError(t, err)
	total, err := acct.ComputedTotal()
	require.NoError(t, err)
	assert.True(t, total.Equal(value.MustMoney("60.00", "BRL")), "40 + 25 - 5, got %s", total)
}

// =============================================================================
// SECONDARY QUEUE TESTS
// =============================================================================

func TestQueue_LastInFirstOut(t *testing.T) {
	// GIVEN: two parked appointments
	// WHEN: promoting
	// THEN: the most recently parked one comes out first

	f := newFixture(t)
	c := newCustomer(t, "Alice Santos", "alice@example.com")
	require.NoError(t, f.eng.RegisterCustomer(f.staff, c))
	first := newAppointment(t, f, c)
	second := newAppointment(t, f, c)

	require.NoError(t, f.eng.ParkAppointment(f.staff, first))
	require.NoError(t, f.eng.ParkAppointment(f.staff, second))
	assert.Equal(t, 2, f.eng.ParkedDepth())

	peeked, err := f.eng.PeekParked(f.staff)
	require.NoError(t, err)
	assert.Equal(t, second.ID, peeked.ID)
	assert.Equal(t, 2, f.eng.ParkedDepth(), "peek must not remove")

	got, err := f.eng.PromoteParked(f.staff)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	got, err = f.eng.PromoteParked(f.staff)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestQueue_EmptyPop(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.PromoteParked(f.staff)
	assert.ErrorIs(t, err, engine.ErrEmptyQueue)
	_, err = f.eng.PeekParked(f.staff)
	assert.ErrorIs(t, err, engine.ErrEmptyQueue)
}

// =============================================================================
// PERSISTENCE TESTS
// =============================================================================

func TestSaveAll_RequiresAdmin_FileUntouched(t *testing.T) {
	// GIVEN: a staff requester
	// WHEN: saving the snapshot
	// THEN: denied before the codec is ever invoked

	f := newFixture(t)
	err := f.eng.SaveAll(f.staff, "snap.json")
	assert.ErrorIs(t, err, engine.ErrPermissionDenied)
	assert.Equal(t, 0, f.codec.saves)

	require.NoError(t, f.eng.SaveAll(f.admin, "snap.json"))
	assert.Equal(t, 1, f.codec.saves)
}

func TestLoadAll_ReconcilesCounters(t *testing.T) {
	// GIVEN: a saved snapshot with 2 appointments and 1 service
	// WHEN: a fresh engine loads it
	// THEN: the tallies equal the loaded collection sizes

	f := newFixture(t)
	newService(t, f, "Classic Cut", "40.00")
	c := newCustomer(t, "Alice Santos", "alice@example.com")
	require.NoError(t, f.eng.RegisterCustomer(f.staff, c))
	newAppointment(t, f, c)
	newAppointment(t, f, c)
	require.NoError(t, f.eng.SaveAll(f.admin, "snap.json"))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fresh := engine.New(f.writer, f.codec, "statements", logger)
	require.NoError(t, fresh.LoadAll(f.admin, "snap.json"))

	assert.Equal(t, 2, fresh.AppointmentCount())
	assert.Equal(t, 1, fresh.ServiceCount())
}

func TestLoadAll_MissingSnapshotMeansFreshStart(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.eng.LoadAll(f.admin, "never-written.json"))
	assert.Equal(t, 0, f.eng.AppointmentCount())
	assert.Equal(t, 0, f.eng.ServiceCount())
}

// =============================================================================
// SALES AND LEDGER TESTS
// =============================================================================

func TestRecordSale_WalkIn(t *testing.T) {
	// GIVEN: a product with 5 in stock
	// WHEN: a walk-in buys 2
	// THEN: stock drops, the ledger books the inflow and the statement
	//       says "walk-in"

	f := newFixture(t)
	p, err := model.NewProduct(uuid.New(), "Matte Pomade", "POM-01",
		value.Units(5), value.Units(1),
		value.MustMoney("35.00", "BRL"), value.MustMoney("18.00", "BRL"))
	require.NoError(t, err)
	require.NoError(t, f.eng.AddProduct(f.admin, p))

	sale, err := f.eng.RecordSale(f.staff, nil, model.PaymentCash, nil, []engine.SaleLine{
		{ProductID: p.ID, Qty: value.Units(2)},
	})
	require.NoError(t, err)

	total, err := sale.ComputedTotal()
	require.NoError(t, err)
	assert.True(t, total.Equal(value.MustMoney("70.00", "BRL")))
	assert.True(t, p.Stock.Amount.Equal(value.Units(3).Amount))

	ledger, err := f.eng.LedgerByDate(f.staff, time.Now())
	require.NoError(t, err)
	assert.True(t, ledger.Inflows.Equal(value.MustMoney("70.00", "BRL")))

	require.Len(t, f.writer.saved, 1)
	assert.Contains(t, f.writer.saved[0], "walk-in")
}

func TestRecordSale_InsufficientStockAbortsBeforeLedger(t *testing.T) {
	f := newFixture(t)
	p, err := model.NewProduct(uuid.New(), "Matte Pomade", "POM-01",
		value.Units(1), value.Units(1),
		value.MustMoney("35.00", "BRL"), value.MustMoney("18.00", "BRL"))
	require.NoError(t, err)
	require.NoError(t, f.eng.AddProduct(f.admin, p))

	_, err = f.eng.RecordSale(f.staff, nil, model.PaymentCash, nil, []engine.SaleLine{
		{ProductID: p.ID, Qty: value.Units(3)},
	})
	assert.ErrorIs(t, err, engine.ErrInvalidState)
	assert.True(t, p.Stock.Amount.Equal(value.Units(1).Amount), "stock untouched")

	_, err = f.eng.LedgerByDate(f.staff, time.Now())
	assert.ErrorIs(t, err, engine.ErrNotFound, "no ledger should have been opened")
}

func TestRecordSale_DuplicateLinesCheckedAgainstCombinedStock(t *testing.T) {
	// GIVEN: a product with 5 in stock and a sale asking for 3 + 3 of it
	// WHEN: recording the sale
	// THEN: it aborts on the combined quantity with stock, sales and
	//       ledger all untouched

	f := newFixture(t)
	p, err := model.NewProduct(uuid.New(), "Matte Pomade", "POM-01",
		value.Units(5), value.Units(1),
		value.MustMoney("35.00", "BRL"), value.MustMoney("18.00", "BRL"))
	require.NoError(t, err)
	require.NoError(t, f.eng.AddProduct(f.admin, p))

	_, err = f.eng.RecordSale(f.staff, nil, model.PaymentCash, nil, []engine.SaleLine{
		{ProductID: p.ID, Qty: value.Units(3)},
		{ProductID: p.ID, Qty: value.Units(3)},
	})
	assert.ErrorIs(t, err, engine.ErrInvalidState)
	assert.True(t, p.Stock.Amount.Equal(value.Units(5).Amount), "stock must be untouched after an aborted sale")

	sales, err := f.eng.ListSales(f.staff)
	require.NoError(t, err)
	assert.Empty(t, sales)
	_, err = f.eng.LedgerByDate(f.staff, time.Now())
	assert.ErrorIs(t, err, engine.ErrNotFound)

	// Two lines that fit together still go through.
	sale, err := f.eng.RecordSale(f.staff, nil, model.PaymentCash, nil, []engine.SaleLine{
		{ProductID: p.ID, Qty: value.Units(2)},
		{ProductID: p.ID, Qty: value.Units(3)},
	})
	require.NoError(t, err)
	total, err := sale.ComputedTotal()
	require.NoError(t, err)
	assert.True(t, total.Equal(value.MustMoney("175.00", "BRL")))
	assert.True(t, p.Stock.Amount.Equal(value.Units(0).Amount))
}

func TestOpenLedger_TwiceFails_LazyPathReuses(t *testing.T) {
	// GIVEN: an explicitly opened ledger for today
	// WHEN: opening it again vs. booking through the lazy path
	// THEN: the explicit open fails, the lazy path reuses the same day

	f := newFixture(t)
	today := time.Now()
	_, err := f.eng.OpenLedger(f.staff, today, value.MustMoney("100.00", "BRL"))
	require.NoError(t, err)

	_, err = f.eng.OpenLedger(f.staff, today, value.MustMoney("50.00", "BRL"))
	assert.ErrorIs(t, err, engine.ErrInvalidState)

	require.NoError(t, f.eng.RecordCashIn(f.staff, today, value.MustMoney("5.00", "BRL"), "tip jar"))
	ledger, err := f.eng.LedgerByDate(f.staff, today)
	require.NoError(t, err)
	assert.True(t, ledger.Opening.Equal(value.MustMoney("100.00", "BRL")), "lazy path must reuse the opened ledger")
}

func TestLedgerByDate_MissingDayIsNotFound(t *testing.T) {
	f := newFixture(t)
	lastWeek := time.Now().AddDate(0, 0, -7)

	_, err := f.eng.LedgerByDate(f.staff, lastWeek)
	assert.ErrorIs(t, err, engine.ErrNotFound)

	_, err = f.eng.ConsolidateLedger(f.admin, lastWeek)
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestListLedgers_RequiresAdmin(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.OpenLedger(f.staff, time.Now(), value.MustMoney("50.00", "BRL"))
	require.NoError(t, err)

	_, err = f.eng.ListLedgers(f.staff)
	assert.ErrorIs(t, err, engine.ErrPermissionDenied)

	ledgers, err := f.eng.ListLedgers(f.admin)
	require.NoError(t, err)
	assert.Len(t, ledgers, 1)
}

// =============================================================================
// SCHEDULING GUARD TESTS
// =============================================================================

func TestRegisterAppointment_RequiresRegisteredActiveCustomer(t *testing.T) {
	f := newFixture(t)
	ghost := newCustomer(t, "Ghost", "ghost@example.com")
	start := time.Now().Add(time.Hour)
	a, err := model.NewAppointment(uuid.New(), ghost, model.Stations()[0],
		start, start.Add(30*time.Minute), value.ZeroMoney("BRL"))
	require.NoError(t, err)

	err = f.eng.RegisterAppointment(f.staff, a)
	assert.ErrorIs(t, err, engine.ErrNotFound)

	require.NoError(t, f.eng.RegisterCustomer(f.staff, ghost))
	require.NoError(t, f.eng.DeactivateCustomer(f.admin, ghost.ID))
	err = f.eng.RegisterAppointment(f.staff, a)
	assert.ErrorIs(t, err, engine.ErrValidation)
}

func TestStartService_WashBasinRule(t *testing.T) {
	// GIVEN: a wash-dependent order on a station without a basin
	// WHEN: starting the service
	// THEN: rejected until the order sits at the basin station

	f := newFixture(t)
	wash, err := model.NewService(uuid.New(), "Cut and Wash", value.MustMoney("55.00", "BRL"), 45, true)
	require.NoError(t, err)
	require.NoError(t, f.eng.AddService(f.admin, wash))

	c := newCustomer(t, "Alice Santos", "alice@example.com")
	require.NoError(t, f.eng.RegisterCustomer(f.staff, c))

	start := time.Now().Add(time.Hour)
	a, err := model.NewAppointment(uuid.New(), c, model.Stations()[1],
		start, start.Add(45*time.Minute), value.ZeroMoney("BRL"))
	require.NoError(t, err)
	require.NoError(t, f.eng.RegisterAppointment(f.staff, a))
	require.NoError(t, f.eng.BookService(f.staff, a.ID, wash.ID))
	require.NoError(t, f.eng.AssignBarber(f.staff, a.ID, f.barber.ID))

	err = f.eng.StartService(f.staff, a.ID)
	assert.ErrorIs(t, err, engine.ErrInvalidState)
}

func TestAssignBarber_RejectsNonBarbers(t *testing.T) {
	f := newFixture(t)
	c := newCustomer(t, "Alice Santos", "alice@example.com")
	require.NoError(t, f.eng.RegisterCustomer(f.staff, c))
	a := newAppointment(t, f, c)

	err := f.eng.AssignBarber(f.staff, a.ID, f.staff.ID)
	assert.ErrorIs(t, err, engine.ErrValidation)
}

// =============================================================================
// LISTING TESTS
// =============================================================================

func TestListCustomers_SortedWindows(t *testing.T) {
	f := newFixture(t)
	for _, c := range []struct{ name, mail string }{
		{"Carla", "carla@example.com"},
		{"alice", "alice@example.com"},
		{"Bruno", "bruno@example.com"},
	} {
		require.NoError(t, f.eng.RegisterCustomer(f.staff, newCustomer(t, c.name, c.mail)))
	}

	all, err := f.eng.ListCustomersByName(f.staff, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "alice", all[0].Name)
	assert.Equal(t, "Bruno", all[1].Name)
	assert.Equal(t, "Carla", all[2].Name)

	window, err := f.eng.ListCustomersByName(f.staff, 1, 1)
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "Bruno", window[0].Name)

	past, err := f.eng.ListCustomersByName(f.staff, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, past)
}

// =============================================================================
// REPORTING TESTS
// =============================================================================

func TestMonthlyBalance(t *testing.T) {
	// GIVEN: a 70.00 sale this month and a 30.00 expense booked against it
	// WHEN: computing the monthly balance
	// THEN: net is 40.00

	f := newFixture(t)
	p, err := model.NewProduct(uuid.New(), "Matte Pomade", "POM-01",
		value.Units(5), value.Units(1),
		value.MustMoney("35.00", "BRL"), value.MustMoney("18.00", "BRL"))
	require.NoError(t, err)
	require.NoError(t, f.eng.AddProduct(f.admin, p))
	_, err = f.eng.RecordSale(f.staff, nil, model.PaymentCash, nil, []engine.SaleLine{
		{ProductID: p.ID, Qty: value.Units(2)},
	})
	require.NoError(t, err)

	month := model.MonthOf(time.Now())
	_, err = f.eng.BookExpense(f.admin, model.ExpenseCleaning, "cleaning supplies",
		value.MustMoney("30.00", "BRL"), month)
	require.NoError(t, err)

	balance, err := f.eng.ComputeMonthlyBalance(f.admin, month, "BRL")
	require.NoError(t, err)
	assert.True(t, balance.Revenue.Equal(value.MustMoney("70.00", "BRL")))
	assert.True(t, balance.Expenses.Equal(value.MustMoney("30.00", "BRL")))
	assert.True(t, balance.Net.Equal(value.MustMoney("40.00", "BRL")))

	_, err = f.eng.ComputeMonthlyBalance(f.staff, month, "BRL")
	assert.ErrorIs(t, err, engine.ErrPermissionDenied)
}
