/*
billing.go - Billing account orchestration

PURPOSE:
  One billing account per appointment, created lazily the first time a
  charge or cancellation needs one. Closing computes the total from the
  appointment's service lines, settles the payment method and writes the
  service statement.

INVARIANTS:
  - At most one account per appointment; the lazy creator is the only
    code path that allocates accounts.
  - Closing an already closed account is a logged no-op on the financial
    side; only the statement generation is retried if it never succeeded.
*/
package engine

import (
	"github.com/google/uuid"

	"github.com/gustavoponcell/Barbearia/model"
	"github.com/gustavoponcell/Barbearia/value"
)

// OpenAccount explicitly opens the billing account for an appointment.
// Most callers rely on lazy creation instead.
func (e *Engine) OpenAccount(requester *model.User, apptID uuid.UUID) (*model.BillingAccount, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	a, err := e.findAppointment(apptID)
	if err != nil {
		return nil, err
	}
	return e.getOrCreateAccount(a)
}

// AccountByAppointment returns the account opened for an appointment.
func (e *Engine) AccountByAppointment(requester *model.User, apptID uuid.UUID) (*model.BillingAccount, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.findAppointment(apptID); err != nil {
		return nil, err
	}
	acct := e.lookupAccount(apptID)
	if acct == nil {
		return nil, notFound("billing account for appointment", apptID)
	}
	return acct, nil
}

// AddExtraService bills a service performed beyond the booked lines.
func (e *Engine) AddExtraService(requester *model.User, apptID, serviceID uuid.UUID) error {
	if err := requireStaffOrAdmin(requester); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	a, err := e.findAppointment(apptID)
	if err != nil {
		return err
	}
	svc, err := e.findService(serviceID)
	if err != nil {
		return err
	}
	acct, err := e.getOrCreateAccount(a)
	if err != nil {
		return err
	}
	if acct.Closed {
		return invalidState("account %s is closed", acct.ID)
	}
	item, err := model.NewServiceItem(svc, svc.Price, svc.DurationMin)
	if err != nil {
		return err
	}
	acct.AddServiceCharge(item)
	e.log.Info("extra service billed", "appointment", apptID, "service", serviceID)
	return nil
}

// AddAdjustment records a manual credit or debit on the account.
func (e *Engine) AddAdjustment(requester *model.User, apptID uuid.UUID, kind model.AdjustmentKind, description string, amount value.Money) error {
	if err := requireStaffOrAdmin(requester); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	a, err := e.findAppointment(apptID)
	if err != nil {
		return err
	}
	acct, err := e.getOrCreateAccount(a)
	if err != nil {
		return err
	}
	if acct.Closed {
		return invalidState("account %s is closed", acct.ID)
	}
	adj, err := model.NewAdjustment(kind, description, amount)
	if err != nil {
		return err
	}
	acct.AddAdjustment(adj)
	e.log.Info("adjustment recorded", "appointment", apptID, "kind", kind, "amount", amount.String())
	return nil
}

// ApplyDiscount sets the account discount.
func (e *Engine) ApplyDiscount(requester *model.User, apptID uuid.UUID, discount value.Money) error {
	if err := requireStaffOrAdmin(requester); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	a, err := e.findAppointment(apptID)
	if err != nil {
		return err
	}
	acct, err := e.getOrCreateAccount(a)
	if err != nil {
		return err
	}
	if acct.Closed {
		return invalidState("account %s is closed", acct.ID)
	}
	if err := acct.ApplyDiscount(discount); err != nil {
		return err
	}
	e.log.Info("discount applied", "appointment", apptID, "discount", discount.String())
	return nil
}

// CloseAccount computes and settles the account, books the total as an
// inflow on today's ledger and writes the service statement. Closing an
// already closed account only retries a missing statement.
func (e *Engine) CloseAccount(requester *model.User, apptID uuid.UUID, method model.PaymentMethod) (*model.BillingAccount, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	a, err := e.findAppointment(apptID)
	if err != nil {
		return nil, err
	}
	acct, err := e.getOrCreateAccount(a)
	if err != nil {
		return nil, err
	}
	if !acct.Closed {
		base, err := a.ServiceTotal()
		if err != nil {
			return nil, err
		}
		total, err := acct.ComputeTotal(base)
		if err != nil {
			return nil, err
		}
		if err := acct.Close(method); err != nil {
			return nil, err
		}
		ledger, err := e.getOrCreateLedger(e.now(), total.Currency)
		if err != nil {
			return nil, err
		}
		if total.IsPositive() {
			reason := "service order " + a.ID.String()
			if err := ledger.RecordInflow(total, reason, e.now()); err != nil {
				return nil, err
			}
		}
		ledger.LinkAccount(acct)
		e.log.Info("account closed",
			"appointment", apptID,
			"total", total.String(),
			"payment", method)
	} else {
		e.log.Debug("account already closed", "appointment", apptID)
	}

	if err := e.writeServiceStatement(acct); err != nil {
		e.log.Error("service statement failed", "appointment", apptID, "error", err)
	}
	return acct, nil
}

// getOrCreateAccount must be called with the engine lock held.
func (e *Engine) getOrCreateAccount(a *model.Appointment) (*model.BillingAccount, error) {
	if acct := e.lookupAccount(a.ID); acct != nil {
		return acct, nil
	}
	acct, err := model.NewBillingAccount(uuid.New(), a)
	if err != nil {
		return nil, err
	}
	e.accounts = append(e.accounts, acct)
	e.log.Debug("billing account opened", "account", acct.ID, "appointment", a.ID)
	return acct, nil
}

// lookupAccount must be called with the engine lock held.
func (e *Engine) lookupAccount(apptID uuid.UUID) *model.BillingAccount {
	for _, acct := range e.accounts {
		if acct.Appointment != nil && acct.Appointment.ID == apptID {
			return acct
		}
	}
	return nil
}
