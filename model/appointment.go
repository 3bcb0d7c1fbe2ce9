/*
appointment.go - Service orders on the shop schedule

An Appointment links a customer, an optional barber, a station and a time
window to the service line-items that will be performed.

STATUS MACHINE:
  Waiting -> InService -> Done, with Cancelled reachable from any
  non-terminal state. Anything else fails with InvalidTransitionError.

CANCELLATION:
  Cancel applies a retention rate against the current service total and
  returns the financial breakdown. The appointment must have at least one
  service item and must not already be in a terminal state. The statement
  marker records the generated cancellation statement at most once.
*/
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gustavoponcell/Barbearia/value"
)

// ServiceItem is one service line on an appointment or billing account.
// The price is copied from the catalog at booking time so later catalog
// changes do not reprice existing orders.
type ServiceItem struct {
	Service     *Service     `json:"service"`
	Price       value.Money  `json:"price"`
	DurationMin int          `json:"duration_min"`
	Uses        []ProductUse `json:"uses,omitempty"`
}

// NewServiceItem validates the line against the catalog entry.
func NewServiceItem(svc *Service, price value.Money, durationMin int) (ServiceItem, error) {
	if svc == nil {
		return ServiceItem{}, validationf("service is required")
	}
	if durationMin <= 0 {
		return ServiceItem{}, validationf("item duration must be positive")
	}
	return ServiceItem{Service: svc, Price: price, DurationMin: durationMin}, nil
}

// Subtotal is the item price; product uses in internal mode do not bill.
func (i ServiceItem) Subtotal() value.Money { return i.Price }

// RecordUse attaches a product consumption to the item.
func (i *ServiceItem) RecordUse(use ProductUse) {
	i.Uses = append(i.Uses, use)
}

// ProductUse records product consumption during a service, either billed
// to the customer or absorbed internally.
type ProductUse struct {
	Product *Product       `json:"product"`
	Qty     value.Quantity `json:"qty"`
	Mode    ProductUseMode `json:"mode"`
}

// StatementMark is the idempotence marker of a generated statement:
// timestamp plus file reference, set at most once.
type StatementMark struct {
	GeneratedAt time.Time `json:"generated_at"`
	FileRef     string    `json:"file_ref"`
}

// Appointment is a service order on the schedule.
type Appointment struct {
	ID       uuid.UUID         `json:"id"`
	Customer *Customer         `json:"customer"`
	Barber   *User             `json:"barber,omitempty"`
	Station  Station           `json:"station"`
	Start    time.Time         `json:"start"`
	End      time.Time         `json:"end"`
	Items    []ServiceItem     `json:"items,omitempty"`
	Status   AppointmentStatus `json:"status"`
	Deposit  value.Money       `json:"deposit"`

	// CancellationStatement is set once the cancellation statement has
	// been written; further generation attempts are no-ops.
	CancellationStatement *StatementMark `json:"cancellation_statement,omitempty"`
}

// NewAppointment validates the order. The appointment counter is owned by
// the engine and bumped on registration, never here.
func NewAppointment(id uuid.UUID, customer *Customer, station Station, start, end time.Time, deposit value.Money) (*Appointment, error) {
	if id == uuid.Nil {
		return nil, validationf("appointment id is required")
	}
	if customer == nil {
		return nil, validationf("appointment customer is required")
	}
	if _, err := value.NewPeriod(start, end); err != nil {
		return nil, validationf("%v", err)
	}
	if !end.After(start) {
		return nil, validationf("appointment end must be after start")
	}
	return &Appointment{
		ID:       id,
		Customer: customer,
		Station:  station,
		Start:    start,
		End:      end,
		Status:   StatusWaiting,
		Deposit:  deposit,
	}, nil
}

// AddServiceItem appends a service line.
func (a *Appointment) AddServiceItem(item ServiceItem) {
	a.Items = append(a.Items, item)
}

// AssignBarber sets the barber; required before the order moves to
// InService in normal operation, but not enforced here.
func (a *Appointment) AssignBarber(barber *User) error {
	if barber == nil {
		return validationf("barber is required")
	}
	a.Barber = barber
	return nil
}

// ChangeStatus applies the status machine.
func (a *Appointment) ChangeStatus(next AppointmentStatus) error {
	if !a.Status.CanTransitionTo(next) {
		return &InvalidTransitionError{From: a.Status, To: next}
	}
	a.Status = next
	return nil
}

// ServiceTotal sums the service line subtotals. An appointment without
// items cannot be billed or cancelled with retention.
func (a *Appointment) ServiceTotal() (value.Money, error) {
	if len(a.Items) == 0 {
		return value.Money{}, validationf("appointment has no service items")
	}
	total := a.Items[0].Subtotal()
	for _, item := range a.Items[1:] {
		sum, err := total.Add(item.Subtotal())
		if err != nil {
			return value.Money{}, err
		}
		total = sum
	}
	return total, nil
}

// Period returns the booked window.
func (a *Appointment) Period() value.Period {
	return value.Period{Start: a.Start, End: a.End}
}

// NeedsWash reports whether any booked service requires a wash basin.
func (a *Appointment) NeedsWash() bool {
	for _, item := range a.Items {
		if item.Service != nil && item.Service.NeedsWash {
			return true
		}
	}
	return false
}

// Cancellation is the financial outcome of cancelling an appointment.
type Cancellation struct {
	Rate         decimal.Decimal `json:"rate"`
	ServiceTotal value.Money     `json:"service_total"`
	Retained     value.Money     `json:"retained"`
	Refundable   value.Money     `json:"refundable"`
}

// Cancel moves the appointment to Cancelled and computes the retention
// split: retained = round(total * rate), refundable = total - retained.
// Fails when the appointment has no service items or is already terminal.
func (a *Appointment) Cancel(rate decimal.Decimal) (Cancellation, error) {
	if a.Status == StatusCancelled {
		return Cancellation{}, &InvalidTransitionError{From: a.Status, To: StatusCancelled}
	}
	total, err := a.ServiceTotal()
	if err != nil {
		return Cancellation{}, err
	}
	if err := a.ChangeStatus(StatusCancelled); err != nil {
		return Cancellation{}, err
	}
	retained := total.Mul(rate)
	refundable, err := total.Sub(retained)
	if err != nil {
		return Cancellation{}, err
	}
	return Cancellation{Rate: rate, ServiceTotal: total, Retained: retained, Refundable: refundable}, nil
}

// IsCancellationStatementGenerated reports the idempotence marker.
func (a *Appointment) IsCancellationStatementGenerated() bool {
	return a.CancellationStatement != nil
}

// MarkCancellationStatement sets the marker once; later calls are ignored.
func (a *Appointment) MarkCancellationStatement(at time.Time, ref string) {
	if a.CancellationStatement != nil {
		return
	}
	a.CancellationStatement = &StatementMark{GeneratedAt: at, FileRef: ref}
}
