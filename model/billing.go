/*
billing.go - The invoice accumulating charges for one appointment

A BillingAccount is opened from exactly one appointment and accumulates
extra service lines, billed products and manual credit/debit adjustments
before the total is computed for settlement.

INVARIANTS:
  - The cached total is cleared by every mutation that affects it.
  - The total is never readable before ComputeTotal ran (ErrNotComputed);
    IsComputed is the explicit state query, no error-driven control flow.
  - A discount can never drive the total negative (ErrInvalidState).
  - A cancellation record attaches at most once and zeroes the service
    base; the retained amount is booked as a credit adjustment instead.
*/
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gustavoponcell/Barbearia/value"
)

// AdjustmentKind distinguishes manual credits from debits.
type AdjustmentKind string

const (
	AdjustmentCredit AdjustmentKind = "credit"
	AdjustmentDebit  AdjustmentKind = "debit"
)

// Adjustment is a manual correction applied to an account total.
type Adjustment struct {
	Kind        AdjustmentKind `json:"kind"`
	Description string         `json:"description"`
	Amount      value.Money    `json:"amount"`
}

// NewAdjustment validates the description and kind.
func NewAdjustment(kind AdjustmentKind, description string, amount value.Money) (Adjustment, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Adjustment{}, validationf("adjustment description is required")
	}
	if kind != AdjustmentCredit && kind != AdjustmentDebit {
		return Adjustment{}, validationf("unknown adjustment kind %q", kind)
	}
	return Adjustment{Kind: kind, Description: description, Amount: amount}, nil
}

// ProductCharge is a billed product line on an account.
type ProductCharge struct {
	Product   *Product       `json:"product"`
	Qty       value.Quantity `json:"qty"`
	UnitPrice value.Money    `json:"unit_price"`
}

// Subtotal is unit price times quantity.
func (c ProductCharge) Subtotal() value.Money {
	return c.UnitPrice.Mul(c.Qty.Amount)
}

// CancellationRecord captures the retention attached to an account when
// its appointment is cancelled. PriorTotal is the pre-retention service
// total.
type CancellationRecord struct {
	Rate       decimal.Decimal `json:"rate"`
	Retained   value.Money     `json:"retained"`
	Refundable value.Money     `json:"refundable"`
	PriorTotal value.Money     `json:"prior_total"`
}

// BillingAccount accumulates everything owed for one appointment.
type BillingAccount struct {
	ID            uuid.UUID           `json:"id"`
	Appointment   *Appointment        `json:"appointment"`
	ProductLines  []ProductCharge     `json:"product_lines,omitempty"`
	ExtraServices []ServiceItem       `json:"extra_services,omitempty"`
	Adjustments   []Adjustment        `json:"adjustments,omitempty"`
	Discount      *value.Money        `json:"discount,omitempty"`
	Total         *value.Money        `json:"total,omitempty"`
	Payment       PaymentMethod       `json:"payment,omitempty"`
	Cancellation  *CancellationRecord `json:"cancellation,omitempty"`
	Closed        bool                `json:"closed"`

	// ServiceStatement is set once the close-out statement was written.
	ServiceStatement *StatementMark `json:"service_statement,omitempty"`
}

// NewBillingAccount opens an account for an appointment.
func NewBillingAccount(id uuid.UUID, appt *Appointment) (*BillingAccount, error) {
	if id == uuid.Nil {
		return nil, validationf("account id is required")
	}
	if appt == nil {
		return nil, validationf("account appointment is required")
	}
	return &BillingAccount{ID: id, Appointment: appt}, nil
}

// AddProductCharge bills a product and invalidates the cached total.
func (b *BillingAccount) AddProductCharge(charge ProductCharge) error {
	if charge.Product == nil {
		return validationf("charge product is required")
	}
	b.ProductLines = append(b.ProductLines, charge)
	b.Total = nil
	return nil
}

// AddServiceCharge adds an extra service line and invalidates the total.
func (b *BillingAccount) AddServiceCharge(item ServiceItem) {
	b.ExtraServices = append(b.ExtraServices, item)
	b.Total = nil
}

// AddAdjustment records a manual credit or debit and invalidates the total.
func (b *BillingAccount) AddAdjustment(adj Adjustment) {
	b.Adjustments = append(b.Adjustments, adj)
	b.Total = nil
}

// ApplyDiscount sets the discount; negative discounts are rejected and the
// cached total is invalidated.
func (b *BillingAccount) ApplyDiscount(discount value.Money) error {
	if discount.IsNegative() {
		return validationf("discount cannot be negative")
	}
	b.Discount = &discount
	b.Total = nil
	return nil
}

// AttachCancellation records the retention at most once. The retained
// amount is booked as a credit adjustment so it survives the zeroed base.
func (b *BillingAccount) AttachCancellation(c Cancellation) error {
	if b.Cancellation != nil {
		return invalidStatef("cancellation already recorded on account %s", b.ID)
	}
	b.Cancellation = &CancellationRecord{
		Rate:       c.Rate,
		Retained:   c.Retained,
		Refundable: c.Refundable,
		PriorTotal: c.ServiceTotal,
	}
	pct := c.Rate.Mul(decimal.NewFromInt(100))
	b.Adjustments = append(b.Adjustments, Adjustment{
		Kind:        AdjustmentCredit,
		Description: "cancellation retention " + pct.String() + "%",
		Amount:      c.Retained,
	})
	b.Total = nil
	return nil
}

// IsComputed reports whether the total is currently cached.
func (b *BillingAccount) IsComputed() bool { return b.Total != nil }

// ComputedTotal returns the cached total or ErrNotComputed.
func (b *BillingAccount) ComputedTotal() (value.Money, error) {
	if b.Total == nil {
		return value.Money{}, ErrNotComputed
	}
	return *b.Total, nil
}

// IsSettled reports whether a payment method was recorded.
func (b *BillingAccount) IsSettled() bool { return b.Payment != "" }

// SettledPayment returns the payment method or ErrNotSettled.
func (b *BillingAccount) SettledPayment() (PaymentMethod, error) {
	if b.Payment == "" {
		return "", ErrNotSettled
	}
	return b.Payment, nil
}

// ComputeTotal computes and caches the account total. The base service
// total is zero when a cancellation is attached (the retention is already
// booked as a credit); then extra services and product lines add, credits
// add, debits subtract, and the discount subtracts last. A negative result
// is an invariant violation.
func (b *BillingAccount) ComputeTotal(baseServiceTotal value.Money) (value.Money, error) {
	acc := baseServiceTotal
	if b.Cancellation != nil {
		acc = value.ZeroMoney(baseServiceTotal.Currency)
	}
	var err error
	for _, item := range b.ExtraServices {
		if acc, err = acc.Add(item.Subtotal()); err != nil {
			return value.Money{}, err
		}
	}
	for _, line := range b.ProductLines {
		if acc, err = acc.Add(line.Subtotal()); err != nil {
			return value.Money{}, err
		}
	}
	for _, adj := range b.Adjustments {
		if adj.Kind == AdjustmentCredit {
			acc, err = acc.Add(adj.Amount)
		} else {
			acc, err = acc.Sub(adj.Amount)
		}
		if err != nil {
			return value.Money{}, err
		}
	}
	if b.Discount != nil {
		if acc, err = acc.Sub(*b.Discount); err != nil {
			return value.Money{}, err
		}
		if acc.IsNegative() {
			b.Total = nil
			return value.Money{}, invalidStatef("discount exceeds amount due on account %s", b.ID)
		}
	}
	if acc.IsNegative() {
		b.Total = nil
		return value.Money{}, invalidStatef("account %s total would be negative", b.ID)
	}
	b.Total = &acc
	return acc, nil
}

// Settle records the payment method; the total must already be computed.
func (b *BillingAccount) Settle(method PaymentMethod) error {
	if method == "" {
		return validationf("payment method is required")
	}
	if b.Total == nil {
		return ErrNotComputed
	}
	// Label only: no gateway integration.
	b.Payment = method
	return nil
}

// Close settles and flags the account closed.
func (b *BillingAccount) Close(method PaymentMethod) error {
	if err := b.Settle(method); err != nil {
		return err
	}
	b.Closed = true
	return nil
}

// IsServiceStatementGenerated reports the idempotence marker.
func (b *BillingAccount) IsServiceStatementGenerated() bool {
	return b.ServiceStatement != nil
}

// MarkServiceStatement sets the marker once; later calls are ignored.
func (b *BillingAccount) MarkServiceStatement(at time.Time, ref string) {
	if b.ServiceStatement != nil {
		return
	}
	b.ServiceStatement = &StatementMark{GeneratedAt: at, FileRef: ref}
}
