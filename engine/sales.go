/*
sales.go - Counter sales

PURPOSE:
  Product sales at the counter, with or without an identified customer.
  Recording a sale moves stock, computes the total, books the inflow on
  the day's ledger and writes the sale statement.
*/
package engine

import (
	"github.com/google/uuid"

	"github.com/gustavoponcell/Barbearia/model"
	"github.com/gustavoponcell/Barbearia/value"
)

// SaleLine is one requested product line of a counter sale.
type SaleLine struct {
	ProductID uuid.UUID
	Qty       value.Quantity
}

// RecordSale rings up a counter sale. A nil customerID records a walk-in.
// Every line is checked against stock, with quantities summed per
// product, before any stock moves; a sale that cannot be fulfilled in
// full leaves stock and ledger untouched.
func (e *Engine) RecordSale(requester *model.User, customerID *uuid.UUID, payment model.PaymentMethod, discount *value.Money, lines []SaleLine) (*model.Sale, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, validationErr("sale needs at least one line")
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	var customer *model.Customer
	if customerID != nil {
		c, err := e.findCustomer(*customerID)
		if err != nil {
			return nil, err
		}
		customer = c
	}

	// Resolve and check every line before moving any stock. Requested
	// quantities are summed per product so that duplicate lines cannot
	// each pass individually and then fail halfway through the move.
	products := make([]*model.Product, len(lines))
	requested := make(map[uuid.UUID]value.Quantity, len(lines))
	for i, line := range lines {
		p, err := e.findProduct(line.ProductID)
		if err != nil {
			return nil, err
		}
		if line.Qty.Unit != p.Stock.Unit {
			return nil, validationf("sale unit %s does not match stock unit %s of %s", line.Qty.Unit, p.Stock.Unit, p.SKU)
		}
		total := line.Qty
		if prev, ok := requested[p.ID]; ok {
			if total, err = prev.Add(line.Qty); err != nil {
				return nil, err
			}
		}
		if p.Stock.LessThan(total) {
			return nil, invalidState("insufficient stock of %s (%s)", p.Name, p.SKU)
		}
		requested[p.ID] = total
		products[i] = p
	}

	sale, err := model.NewSale(uuid.New(), customer, e.now(), payment, discount)
	if err != nil {
		return nil, err
	}
	for i, line := range lines {
		p := products[i]
		if err := p.StockOut(line.Qty); err != nil {
			return nil, err
		}
		if err := sale.AddItem(model.SaleItem{Product: p, Qty: line.Qty, UnitPrice: p.SalePrice}); err != nil {
			return nil, err
		}
		if p.BelowMinimum() {
			e.log.Warn("product below minimum stock", "product", p.ID, "stock", p.Stock.Amount.String())
		}
	}

	total, err := sale.ComputeTotal()
	if err != nil {
		return nil, err
	}
	e.sales = append(e.sales, sale)

	ledger, err := e.getOrCreateLedger(sale.At, total.Currency)
	if err != nil {
		return nil, err
	}
	if err := ledger.RecordInflow(total, "counter sale "+sale.ID.String(), sale.At); err != nil {
		return nil, err
	}
	ledger.LinkSale(sale)

	if err := e.writeSaleStatement(sale); err != nil {
		e.log.Error("sale statement failed", "sale", sale.ID, "error", err)
	}

	e.log.Info("sale recorded", "sale", sale.ID, "total", total.String(), "payment", payment)
	return sale, nil
}

// SaleByID looks up a sale.
func (e *Engine) SaleByID(requester *model.User, id uuid.UUID) (*model.Sale, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range e.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, notFound("sale", id)
}

// ListSales returns every sale, oldest first.
func (e *Engine) ListSales(requester *model.User) ([]*model.Sale, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return sortWindow(e.sales, func(a, b *model.Sale) bool {
		return a.At.Before(b.At)
	}, 0, 0), nil
}
