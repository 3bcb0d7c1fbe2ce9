package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gustavoponcell/Barbearia/value"
)

// ReceiptItem is one line of a supplier delivery.
type ReceiptItem struct {
	Product  *Product       `json:"product"`
	Qty      value.Quantity `json:"qty"`
	UnitCost value.Money    `json:"unit_cost"`
}

// Subtotal is unit cost times quantity.
func (i ReceiptItem) Subtotal() value.Money {
	return i.UnitCost.Mul(i.Qty.Amount)
}

// SupplierReceipt records goods received from a supplier against an
// invoice number. Payment is optional and recorded separately.
type SupplierReceipt struct {
	ID            uuid.UUID     `json:"id"`
	Supplier      string        `json:"supplier"`
	At            time.Time     `json:"at"`
	InvoiceNumber string        `json:"invoice_number"`
	Items         []ReceiptItem `json:"items,omitempty"`
	Total         *value.Money  `json:"total,omitempty"`
	Payment       *value.Money  `json:"payment,omitempty"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
}

// NewSupplierReceipt validates the receipt header.
func NewSupplierReceipt(id uuid.UUID, supplier string, at time.Time, invoiceNumber string) (*SupplierReceipt, error) {
	if id == uuid.Nil {
		return nil, validationf("receipt id is required")
	}
	supplier = strings.TrimSpace(supplier)
	if supplier == "" {
		return nil, validationf("receipt supplier is required")
	}
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	if invoiceNumber == "" {
		return nil, validationf("receipt invoice number is required")
	}
	if at.IsZero() {
		return nil, validationf("receipt timestamp is required")
	}
	return &SupplierReceipt{ID: id, Supplier: supplier, At: at, InvoiceNumber: invoiceNumber}, nil
}

// AddItem appends a delivery line and invalidates the cached total.
func (r *SupplierReceipt) AddItem(item ReceiptItem) error {
	if item.Product == nil {
		return validationf("receipt item product is required")
	}
	r.Items = append(r.Items, item)
	r.Total = nil
	return nil
}

// IsComputed reports whether the total is currently cached.
func (r *SupplierReceipt) IsComputed() bool { return r.Total != nil }

// ComputedTotal returns the cached total or ErrNotComputed.
func (r *SupplierReceipt) ComputedTotal() (value.Money, error) {
	if r.Total == nil {
		return value.Money{}, ErrNotComputed
	}
	return *r.Total, nil
}

// ComputeTotal sums the delivery line subtotals.
func (r *SupplierReceipt) ComputeTotal() (value.Money, error) {
	if len(r.Items) == 0 {
		return value.Money{}, invalidStatef("receipt %s has no items", r.ID)
	}
	total := r.Items[0].Subtotal()
	var err error
	for _, item := range r.Items[1:] {
		if total, err = total.Add(item.Subtotal()); err != nil {
			return value.Money{}, err
		}
	}
	r.Total = &total
	return total, nil
}

// RecordPayment stamps the amount paid and when.
func (r *SupplierReceipt) RecordPayment(amount value.Money, at time.Time) error {
	if amount.IsNegative() {
		return validationf("payment amount cannot be negative")
	}
	if at.IsZero() {
		return validationf("payment date is required")
	}
	r.Payment = &amount
	r.PaidAt = &at
	return nil
}
