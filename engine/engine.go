/*
Package engine implements the barbershop orchestration core.

PURPOSE:
  The Engine owns every mutable business collection (customers, staff,
  catalog, schedule, billing, sales, expenses, supplier receipts, daily
  ledgers), the secondary waiting queue, and the process-wide counters.
  All business rules that need cross-entity consistency live here:
  role-based authorization, the appointment lifecycle with financial
  retention on cancellation, ledger reconciliation, idempotent statement
  generation, and counter reconciliation after a snapshot reload.

OWNERSHIP:
  Collections are owned exclusively by the Engine instance. External
  components never mutate them directly; formatting and IO are delegated
  to the StatementWriter and SnapshotCodec collaborators.

CONCURRENCY:
  Single coarse mutex around every mutating operation. The engine is
  synchronous request/response; callers needing non-blocking behavior
  wrap it externally.
*/
package engine

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gustavoponcell/Barbearia/model"
)

// cancellationRetention is the fixed fraction of the service total kept by
// the shop when an appointment is cancelled.
var (
	cancellationRetention = decimal.RequireFromString("0.35")
	hundred               = decimal.NewFromInt(100)
)

// StatementWriter persists statement text for a customer (nil for
// walk-ins) and returns a stable file reference.
type StatementWriter interface {
	SaveStatement(customer *model.Customer, text string, dir string) (string, error)
}

// SnapshotCodec serializes the full engine state to and from a file.
// Load returns an empty snapshot when the file is absent or unparseable.
type SnapshotCodec interface {
	Save(snap *Snapshot, path string) error
	Load(path string) (*Snapshot, error)
}

// Engine is the orchestration core. Construct with New.
type Engine struct {
	mu sync.Mutex

	customers    []*model.Customer
	users        []*model.User
	services     []*model.Service
	products     []*model.Product
	appointments []*model.Appointment
	sales        []*model.Sale
	accounts     []*model.BillingAccount
	expenses     []*model.Expense
	receipts     []*model.SupplierReceipt
	ledgers      []*model.DailyLedger

	// waiting is the secondary queue: a LIFO stack of appointments not
	// yet promoted to the main schedule. Not part of the snapshot.
	waiting []*model.Appointment

	// Process-wide tallies, reconstructable from the collections. Guarded
	// by mu like everything else; reset only during LoadAll.
	appointmentCount int
	serviceCount     int

	statements   StatementWriter
	codec        SnapshotCodec
	statementDir string
	log          *slog.Logger
	now          func() time.Time
}

// New wires the engine with its collaborators. A nil logger falls back to
// slog.Default().
func New(statements StatementWriter, codec SnapshotCodec, statementDir string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if statementDir == "" {
		statementDir = "data/statements"
	}
	return &Engine{
		statements:   statements,
		codec:        codec,
		statementDir: statementDir,
		log:          logger,
		now:          time.Now,
	}
}

// Counts returns the collection sizes, mostly for reports and demos.
func (e *Engine) Counts() (customers, users, appointments, sales, ledgers int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.customers), len(e.users), len(e.appointments), len(e.sales), len(e.ledgers)
}

// AppointmentCount is the number of appointments ever registered.
// Cancellation never decrements it.
func (e *Engine) AppointmentCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.appointmentCount
}

// ServiceCount is the number of services ever catalogued, reconciled from
// the service list after every snapshot load.
func (e *Engine) ServiceCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.serviceCount
}

// resetCounters forces the tallies to match reloaded collections. Only the
// snapshot reload path calls this.
func (e *Engine) resetCounters(appointments, services int) {
	if appointments < 0 {
		appointments = 0
	}
	if services < 0 {
		services = 0
	}
	e.appointmentCount = appointments
	e.serviceCount = services
}

// sortWindow sorts a copy of src and returns the [offset, offset+limit)
// window. A non-positive limit means "everything after offset".
func sortWindow[T any](src []T, less func(a, b T) bool, offset, limit int) []T {
	out := make([]T, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return nil
	}
	rest := len(out) - offset
	if limit <= 0 || limit > rest {
		limit = rest
	}
	window := make([]T, limit)
	copy(window, out[offset:offset+limit])
	return window
}
