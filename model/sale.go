package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/gustavoponcell/Barbearia/value"
)

// SaleItem is one product line on a counter sale.
type SaleItem struct {
	Product   *Product       `json:"product"`
	Qty       value.Quantity `json:"qty"`
	UnitPrice value.Money    `json:"unit_price"`
}

// Subtotal is unit price times quantity.
func (i SaleItem) Subtotal() value.Money {
	return i.UnitPrice.Mul(i.Qty.Amount)
}

// Sale is a counter sale of products, possibly to a walk-in (nil customer).
type Sale struct {
	ID       uuid.UUID     `json:"id"`
	Customer *Customer     `json:"customer,omitempty"`
	At       time.Time     `json:"at"`
	Items    []SaleItem    `json:"items,omitempty"`
	Payment  PaymentMethod `json:"payment"`
	Discount *value.Money  `json:"discount,omitempty"`
	Total    *value.Money  `json:"total,omitempty"`

	// Statement is set once the sale statement was written.
	Statement *StatementMark `json:"statement,omitempty"`
}

// NewSale validates the sale header. Customer may be nil for walk-ins.
func NewSale(id uuid.UUID, customer *Customer, at time.Time, payment PaymentMethod, discount *value.Money) (*Sale, error) {
	if id == uuid.Nil {
		return nil, validationf("sale id is required")
	}
	if at.IsZero() {
		return nil, validationf("sale timestamp is required")
	}
	if payment == "" {
		return nil, validationf("sale payment method is required")
	}
	if discount != nil && discount.IsNegative() {
		return nil, validationf("sale discount cannot be negative")
	}
	return &Sale{ID: id, Customer: customer, At: at, Payment: payment, Discount: discount}, nil
}

// AddItem appends a product line and invalidates the cached total.
func (s *Sale) AddItem(item SaleItem) error {
	if item.Product == nil {
		return validationf("sale item product is required")
	}
	s.Items = append(s.Items, item)
	s.Total = nil
	return nil
}

// IsComputed reports whether the total is currently cached.
func (s *Sale) IsComputed() bool { return s.Total != nil }

// ComputedTotal returns the cached total or ErrNotComputed.
func (s *Sale) ComputedTotal() (value.Money, error) {
	if s.Total == nil {
		return value.Money{}, ErrNotComputed
	}
	return *s.Total, nil
}

// ComputeTotal sums item subtotals minus discount; an empty sale or a
// discount above the item total is an invariant violation.
func (s *Sale) ComputeTotal() (value.Money, error) {
	if len(s.Items) == 0 {
		return value.Money{}, invalidStatef("sale %s has no items", s.ID)
	}
	total := s.Items[0].Subtotal()
	var err error
	for _, item := range s.Items[1:] {
		if total, err = total.Add(item.Subtotal()); err != nil {
			return value.Money{}, err
		}
	}
	if s.Discount != nil {
		if total, err = total.Sub(*s.Discount); err != nil {
			return value.Money{}, err
		}
		if total.IsNegative() {
			return value.Money{}, invalidStatef("discount exceeds sale %s item total", s.ID)
		}
	}
	s.Total = &total
	return total, nil
}

// IsStatementGenerated reports the idempotence marker.
func (s *Sale) IsStatementGenerated() bool { return s.Statement != nil }

// MarkStatement sets the marker once; later calls are ignored.
func (s *Sale) MarkStatement(at time.Time, ref string) {
	if s.Statement != nil {
		return
	}
	s.Statement = &StatementMark{GeneratedAt: at, FileRef: ref}
}
