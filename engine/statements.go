/*
statements.go - Statement text generation with idempotence markers

PURPOSE:
  Formats and writes the three statement kinds: service close-out,
  cancellation and counter sale. Each carrier entity holds an
  idempotence marker; once a statement was written the generator is a
  no-op that returns the original file reference. A failed write leaves
  the marker unset so the statement can be regenerated.

  Statement writes are best effort and non-transactional: the financial
  state they describe is already committed when the writer runs.
*/
package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gustavoponcell/Barbearia/model"
)

const statementTimeLayout = "2006-01-02 15:04:05"

// GenerateServiceStatement writes (or re-attempts) the close-out
// statement of an appointment's billing account and returns its file
// reference.
func (e *Engine) GenerateServiceStatement(requester *model.User, apptID uuid.UUID) (string, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.findAppointment(apptID); err != nil {
		return "", err
	}
	acct := e.lookupAccount(apptID)
	if acct == nil {
		return "", notFound("billing account for appointment", apptID)
	}
	if err := e.writeServiceStatement(acct); err != nil {
		return "", err
	}
	return acct.ServiceStatement.FileRef, nil
}

// GenerateCancellationStatement writes (or re-attempts) the cancellation
// statement of a cancelled appointment and returns its file reference.
func (e *Engine) GenerateCancellationStatement(requester *model.User, apptID uuid.UUID) (string, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	a, err := e.findAppointment(apptID)
	if err != nil {
		return "", err
	}
	if a.Status != model.StatusCancelled {
		return "", invalidState("appointment %s is not cancelled", apptID)
	}
	acct := e.lookupAccount(apptID)
	if acct == nil || acct.Cancellation == nil {
		return "", invalidState("appointment %s has no cancellation record", apptID)
	}
	cancel := model.Cancellation{
		Rate:         acct.Cancellation.Rate,
		ServiceTotal: acct.Cancellation.PriorTotal,
		Retained:     acct.Cancellation.Retained,
		Refundable:   acct.Cancellation.Refundable,
	}
	if err := e.writeCancellationStatement(a, cancel); err != nil {
		return "", err
	}
	return a.CancellationStatement.FileRef, nil
}

// GenerateSaleStatement writes (or re-attempts) a sale statement and
// returns its file reference.
func (e *Engine) GenerateSaleStatement(requester *model.User, saleID uuid.UUID) (string, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	var sale *model.Sale
	for _, s := range e.sales {
		if s.ID == saleID {
			sale = s
			break
		}
	}
	if sale == nil {
		return "", notFound("sale", saleID)
	}
	if err := e.writeSaleStatement(sale); err != nil {
		return "", err
	}
	return sale.Statement.FileRef, nil
}

// writeServiceStatement must be called with the engine lock held.
func (e *Engine) writeServiceStatement(acct *model.BillingAccount) error {
	if acct.IsServiceStatementGenerated() {
		e.log.Debug("service statement already generated", "account", acct.ID)
		return nil
	}
	a := acct.Appointment
	var b strings.Builder
	b.WriteString("SERVICE STATEMENT\n")
	b.WriteString("=================\n")
	fmt.Fprintf(&b, "Order:    %s\n", a.ID)
	fmt.Fprintf(&b, "Customer: %s\n", customerLabel(a.Customer))
	if a.Barber != nil {
		fmt.Fprintf(&b, "Barber:   %s\n", a.Barber.Name)
	}
	fmt.Fprintf(&b, "Station:  %d\n", a.Station.Number)
	b.WriteString("\nServices:\n")
	for _, item := range a.Items {
		fmt.Fprintf(&b, "  %-30s %s\n", item.Service.Name, item.Price.String())
	}
	for _, item := range acct.ExtraServices {
		fmt.Fprintf(&b, "  %-30s %s (extra)\n", item.Service.Name, item.Price.String())
	}
	if len(acct.ProductLines) > 0 {
		b.WriteString("\nProducts:\n")
		for _, line := range acct.ProductLines {
			fmt.Fprintf(&b, "  %-30s %s\n", line.Product.Name, line.Subtotal().String())
		}
	}
	for _, adj := range acct.Adjustments {
		fmt.Fprintf(&b, "\nAdjustment (%s): %s %s\n", adj.Kind, adj.Description, adj.Amount.String())
	}
	if acct.Discount != nil {
		fmt.Fprintf(&b, "Discount: %s\n", acct.Discount.String())
	}
	if total, err := acct.ComputedTotal(); err == nil {
		fmt.Fprintf(&b, "\nTOTAL: %s\n", total.String())
	}
	if method, err := acct.SettledPayment(); err == nil {
		fmt.Fprintf(&b, "Paid by: %s\n", method)
	}
	now := e.now()
	fmt.Fprintf(&b, "\nGenerated at %s\n", now.Format(statementTimeLayout))

	ref, err := e.statements.SaveStatement(a.Customer, b.String(), e.statementDir)
	if err != nil {
		return fmt.Errorf("write service statement: %w", err)
	}
	acct.MarkServiceStatement(now, ref)
	if a.Customer != nil {
		a.Customer.RecordStatementRef(ref)
	}
	e.log.Info("service statement generated", "account", acct.ID, "file", ref)
	return nil
}

// writeCancellationStatement must be called with the engine lock held.
func (e *Engine) writeCancellationStatement(a *model.Appointment, cancel model.Cancellation) error {
	if a.IsCancellationStatementGenerated() {
		e.log.Debug("cancellation statement already generated", "appointment", a.ID)
		return nil
	}
	var b strings.Builder
	b.WriteString("CANCELLATION STATEMENT\n")
	b.WriteString("======================\n")
	fmt.Fprintf(&b, "Order:    %s\n", a.ID)
	fmt.Fprintf(&b, "Customer: %s\n", customerLabel(a.Customer))
	b.WriteString("\nBooked services:\n")
	for _, item := range a.Items {
		fmt.Fprintf(&b, "  %-30s %s\n", item.Service.Name, item.Price.String())
	}
	pct := cancel.Rate.Mul(hundred).StringFixed(0)
	fmt.Fprintf(&b, "\nService total:   %s\n", cancel.ServiceTotal.String())
	fmt.Fprintf(&b, "Retained (%s%%):  %s\n", pct, cancel.Retained.String())
	fmt.Fprintf(&b, "Refundable:      %s\n", cancel.Refundable.String())
	now := e.now()
	fmt.Fprintf(&b, "\nGenerated at %s\n", now.Format(statementTimeLayout))

	ref, err := e.statements.SaveStatement(a.Customer, b.String(), e.statementDir)
	if err != nil {
		return fmt.Errorf("write cancellation statement: %w", err)
	}
	a.MarkCancellationStatement(now, ref)
	if a.Customer != nil {
		a.Customer.RecordStatementRef(ref)
	}
	e.log.Info("cancellation statement generated", "appointment", a.ID, "file", ref)
	return nil
}

// writeSaleStatement must be called with the engine lock held.
func (e *Engine) writeSaleStatement(sale *model.Sale) error {
	if sale.IsStatementGenerated() {
		e.log.Debug("sale statement already generated", "sale", sale.ID)
		return nil
	}
	var b strings.Builder
	b.WriteString("SALE STATEMENT\n")
	b.WriteString("==============\n")
	fmt.Fprintf(&b, "Sale:     %s\n", sale.ID)
	fmt.Fprintf(&b, "Customer: %s\n", customerLabel(sale.Customer))
	b.WriteString("\nItems:\n")
	for _, item := range sale.Items {
		fmt.Fprintf(&b, "  %-30s x%s  %s\n", item.Product.Name, item.Qty.Amount.String(), item.Subtotal().String())
	}
	if sale.Discount != nil {
		fmt.Fprintf(&b, "Discount: %s\n", sale.Discount.String())
	}
	if total, err := sale.ComputedTotal(); err == nil {
		fmt.Fprintf(&b, "\nTOTAL: %s\n", total.String())
	}
	fmt.Fprintf(&b, "Paid by: %s\n", sale.Payment)
	now := e.now()
	fmt.Fprintf(&b, "\nGenerated at %s\n", now.Format(statementTimeLayout))

	ref, err := e.statements.SaveStatement(sale.Customer, b.String(), e.statementDir)
	if err != nil {
		return fmt.Errorf("write sale statement: %w", err)
	}
	sale.MarkStatement(now, ref)
	if sale.Customer != nil {
		sale.Customer.RecordStatementRef(ref)
	}
	e.log.Info("sale statement generated", "sale", sale.ID, "file", ref)
	return nil
}

// customerLabel renders a customer name, tolerating walk-ins.
func customerLabel(c *model.Customer) string {
	if c == nil {
		return "walk-in"
	}
	return c.Name
}
