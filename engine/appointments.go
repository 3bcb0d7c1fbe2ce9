/*
appointments.go - Appointment lifecycle orchestration

PURPOSE:
  Registration on the schedule, barber assignment, service line booking,
  the Waiting -> InService -> Done walk and cancellation with financial
  retention. Cancellation is the one multi-entity flow: it moves the
  appointment, attaches the retention to the billing account, books the
  retained amount into today's ledger and writes the cancellation
  statement.

INVARIANTS:
  - The appointment tally increments exactly once, at registration.
  - A registered appointment always references a registered, active
    customer.
  - Services needing a wash basin only start on a station that has one.
  - Cancelling twice fails on the status machine before any financial
    effect repeats.
*/
package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gustavoponcell/Barbearia/model"
	"github.com/gustavoponcell/Barbearia/value"
)

// RegisterAppointment places an order on the schedule and bumps the
// appointment tally.
func (e *Engine) RegisterAppointment(requester *model.User, a *model.Appointment) error {
	if err := requireStaffOrAdmin(requester); err != nil {
		return err
	}
	if a == nil {
		return validationErr("appointment is required")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.findCustomer(a.Customer.ID); err != nil {
		return err
	}
	if !a.Customer.Active {
		return validationf("customer %s is deactivated", a.Customer.ID)
	}
	for _, existing := range e.appointments {
		if existing.ID == a.ID {
			return validationf("appointment id %s already registered", a.ID)
		}
	}
	e.appointments = append(e.appointments, a)
	e.appointmentCount++
	e.log.Info("appointment registered",
		"appointment", a.ID,
		"customer", a.Customer.ID,
		"station", a.Station.Number,
		"total_appointments", e.appointmentCount)
	return nil
}

// AssignBarber puts a barber on the order. The assignee must be an active
// user with the barber role.
func (e *Engine) AssignBarber(requester *model.User, apptID, barberID uuid.UUID) error {
	if err := requireStaffOrAdmin(requester); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	a, err := e.findAppointment(apptID)
	if err != nil {
		return err
	}
	barber, err := e.findUser(barberID)
	if err != nil {
		return err
	}
	if barber.Role != model.RoleBarber {
		return validationf("user %s is not a barber", barberID)
	}
	if !barber.Active {
		return validationf("barber %s is deactivated", barberID)
	}
	if err := a.AssignBarber(barber); err != nil {
		return err
	}
	e.log.Info("barber assigned", "appointment", apptID, "barber", barberID)
	return nil
}

// BookService copies a catalog entry onto the appointment at its current
// price and duration.
func (e *Engine) BookService(requester *model.User, apptID, serviceID uuid.UUID) error {
	if err := requireStaffOrAdmin(requester); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	a, err := e.findAppointment(apptID)
	if err != nil {
		return err
	}
	if a.Status.Terminal() {
		return invalidState("cannot book services on appointment %s in status %s", apptID, a.Status)
	}
	svc, err := e.findService(serviceID)
	if err != nil {
		return err
	}
	item, err := model.NewServiceItem(svc, svc.Price, svc.DurationMin)
	if err != nil {
		return err
	}
	a.AddServiceItem(item)
	e.log.Info("service booked", "appointment", apptID, "service", serviceID)
	return nil
}

// StartService moves the order to InService. A barber must be assigned,
// and wash-dependent orders must sit at a station with a basin.
func (e *Engine) StartService(requester *model.User, apptID uuid.UUID) error {
	if err := requireStaffOrAdmin(requester); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	a, err := e.findAppointment(apptID)
	if err != nil {
		return err
	}
	if a.Barber == nil {
		return invalidState("appointment %s has no barber assigned", apptID)
	}
	if a.NeedsWash() && !a.Station.HasWashBasin {
		return invalidState("appointment %s needs a wash basin but station %d has none", apptID, a.Station.Number)
	}
	if err := a.ChangeStatus(model.StatusInService); err != nil {
		return err
	}
	e.log.Info("service started", "appointment", apptID, "barber", a.Barber.ID)
	return nil
}

// FinishService moves the order to Done.
func (e *Engine) FinishService(requester *model.User, apptID uuid.UUID) error {
	if err := requireStaffOrAdmin(requester); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	a, err := e.findAppointment(apptID)
	if err != nil {
		return err
	}
	if err := a.ChangeStatus(model.StatusDone); err != nil {
		return err
	}
	e.log.Info("service finished", "appointment", apptID)
	return nil
}

// CancelAppointment cancels the order with retention: the shop keeps a
// fixed fraction of the service total, booked as a credit on the billing
// account and as an inflow on today's ledger, and writes the cancellation
// statement. The appointment tally is not decremented.
func (e *Engine) CancelAppointment(requester *model.User, apptID uuid.UUID) (model.Cancellation, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return model.Cancellation{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	a, err := e.findAppointment(apptID)
	if err != nil {
		return model.Cancellation{}, err
	}
	cancel, err := a.Cancel(cancellationRetention)
	if err != nil {
		return model.Cancellation{}, err
	}

	acct, err := e.getOrCreateAccount(a)
	if err != nil {
		return model.Cancellation{}, err
	}
	if err := acct.AttachCancellation(cancel); err != nil {
		return model.Cancellation{}, err
	}
	if _, err := acct.ComputeTotal(cancel.ServiceTotal); err != nil {
		return model.Cancellation{}, err
	}

	ledger, err := e.getOrCreateLedger(e.now(), cancel.Retained.Currency)
	if err != nil {
		return model.Cancellation{}, err
	}
	reason := fmt.Sprintf("cancellation retention for order %s", a.ID)
	if err := ledger.RecordInflow(cancel.Retained, reason, e.now()); err != nil {
		return model.Cancellation{}, err
	}
	ledger.LinkAccount(acct)

	// Statement writing is best effort: the cancellation committed above
	// stands even if the file write fails; the marker stays unset so a
	// retry can regenerate it.
	if err := e.writeCancellationStatement(a, cancel); err != nil {
		e.log.Error("cancellation statement failed", "appointment", apptID, "error", err)
	}

	e.log.Info("appointment cancelled",
		"appointment", apptID,
		"retained", cancel.Retained.String(),
		"refundable", cancel.Refundable.String())
	return cancel, nil
}

// AppointmentByID looks up an order.
func (e *Engine) AppointmentByID(requester *model.User, id uuid.UUID) (*model.Appointment, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.findAppointment(id)
}

// ListAppointmentsByStart returns a window of the schedule in
// chronological order.
func (e *Engine) ListAppointmentsByStart(requester *model.User, offset, limit int) ([]*model.Appointment, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return sortWindow(e.appointments, model.AppointmentByStart, offset, limit), nil
}

// ListAppointmentsByCustomerName returns a window of the schedule ordered
// by customer name.
func (e *Engine) ListAppointmentsByCustomerName(requester *model.User, offset, limit int) ([]*model.Appointment, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return sortWindow(e.appointments, model.AppointmentByCustomerName, offset, limit), nil
}

// AppointmentsByCustomer returns one customer's orders, chronological.
func (e *Engine) AppointmentsByCustomer(requester *model.User, customerID uuid.UUID) ([]*model.Appointment, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.findCustomer(customerID); err != nil {
		return nil, err
	}
	var mine []*model.Appointment
	for _, a := range e.appointments {
		if a.Customer != nil && a.Customer.ID == customerID {
			mine = append(mine, a)
		}
	}
	return sortWindow(mine, model.AppointmentByStart, 0, 0), nil
}

// RecordProductUse consumes stock against a booked service line. Billed
// uses also land a product charge on the appointment's billing account.
func (e *Engine) RecordProductUse(requester *model.User, apptID uuid.UUID, itemIndex int, productID uuid.UUID, qty value.Quantity, mode model.ProductUseMode) error {
	if err := requireStaffOrAdmin(requester); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	a, err := e.findAppointment(apptID)
	if err != nil {
		return err
	}
	if itemIndex < 0 || itemIndex >= len(a.Items) {
		return validationf("appointment %s has no service line %d", apptID, itemIndex)
	}
	p, err := e.findProduct(productID)
	if err != nil {
		return err
	}
	if err := p.StockOut(qty); err != nil {
		return err
	}
	a.Items[itemIndex].RecordUse(model.ProductUse{Product: p, Qty: qty, Mode: mode})
	if mode == model.UseBilled {
		acct, err := e.getOrCreateAccount(a)
		if err != nil {
			return err
		}
		charge := model.ProductCharge{Product: p, Qty: qty, UnitPrice: p.SalePrice}
		if err := acct.AddProductCharge(charge); err != nil {
			return err
		}
	}
	if p.BelowMinimum() {
		e.log.Warn("product below minimum stock", "product", p.ID, "stock", p.Stock.Amount.String())
	}
	e.log.Debug("product use recorded", "appointment", apptID, "product", productID, "mode", mode)
	return nil
}

// findAppointment must be called with the engine lock held.
func (e *Engine) findAppointment(id uuid.UUID) (*model.Appointment, error) {
	for _, a := range e.appointments {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, notFound("appointment", id)
}
