/*
inventory.go - Supplier receiving and expense booking

PURPOSE:
  Goods received from suppliers raise stock and reprice the moving
  average cost; paying a receipt or an expense books the outflow on the
  payment date's ledger.
*/
package engine

import (
	"github.com/google/uuid"

	"github.com/gustavoponcell/Barbearia/model"
	"github.com/gustavoponcell/Barbearia/value"
)

// ReceiptLine is one delivered product line of a supplier receipt.
type ReceiptLine struct {
	ProductID uuid.UUID
	Qty       value.Quantity
	UnitCost  value.Money
}

// RecordSupplierReceipt books a delivery: stock in, average cost update
// and the receipt record. Administrator only.
func (e *Engine) RecordSupplierReceipt(requester *model.User, supplier, invoiceNumber string, lines []ReceiptLine) (*model.SupplierReceipt, error) {
	if err := requireAdmin(requester); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, validationErr("receipt needs at least one line")
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	receipt, err := model.NewSupplierReceipt(uuid.New(), supplier, e.now(), invoiceNumber)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		p, err := e.findProduct(line.ProductID)
		if err != nil {
			return nil, err
		}
		newCost, err := movingAverageCost(p, line.Qty, line.UnitCost)
		if err != nil {
			return nil, err
		}
		if err := p.StockIn(line.Qty); err != nil {
			return nil, err
		}
		p.UpdateAvgCost(newCost)
		if err := receipt.AddItem(model.ReceiptItem{Product: p, Qty: line.Qty, UnitCost: line.UnitCost}); err != nil {
			return nil, err
		}
	}
	total, err := receipt.ComputeTotal()
	if err != nil {
		return nil, err
	}
	e.receipts = append(e.receipts, receipt)
	e.log.Info("supplier receipt recorded",
		"receipt", receipt.ID,
		"supplier", supplier,
		"invoice", invoiceNumber,
		"total", total.String())
	return receipt, nil
}

// PaySupplierReceipt settles a receipt and books the outflow on today's
// ledger. Administrator only.
func (e *Engine) PaySupplierReceipt(requester *model.User, receiptID uuid.UUID, amount value.Money) error {
	if err := requireAdmin(requester); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	receipt, err := e.findReceipt(receiptID)
	if err != nil {
		return err
	}
	if receipt.PaidAt != nil {
		return invalidState("receipt %s already paid", receiptID)
	}
	now := e.now()
	if err := receipt.RecordPayment(amount, now); err != nil {
		return err
	}
	ledger, err := e.getOrCreateLedger(now, amount.Currency)
	if err != nil {
		return err
	}
	reason := "supplier " + receipt.Supplier + " invoice " + receipt.InvoiceNumber
	if err := ledger.RecordOutflow(amount, reason, now); err != nil {
		return err
	}
	e.log.Info("supplier receipt paid", "receipt", receiptID, "amount", amount.String())
	return nil
}

// ListSupplierReceipts returns every receipt, oldest first.
func (e *Engine) ListSupplierReceipts(requester *model.User) ([]*model.SupplierReceipt, error) {
	if err := requireAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return sortWindow(e.receipts, func(a, b *model.SupplierReceipt) bool {
		return a.At.Before(b.At)
	}, 0, 0), nil
}

// BookExpense records a shop expense against an accounting month.
// Administrator only.
func (e *Engine) BookExpense(requester *model.User, category model.ExpenseCategory, description string, amount value.Money, month string) (*model.Expense, error) {
	if err := requireAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	exp, err := model.NewExpense(uuid.New(), category, description, amount, month)
	if err != nil {
		return nil, err
	}
	e.expenses = append(e.expenses, exp)
	e.log.Info("expense booked", "expense", exp.ID, "category", category, "month", month, "amount", amount.String())
	return exp, nil
}

// PayExpense settles an expense and books the outflow on today's ledger.
// Administrator only.
func (e *Engine) PayExpense(requester *model.User, expenseID uuid.UUID) error {
	if err := requireAdmin(requester); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	exp, err := e.findExpense(expenseID)
	if err != nil {
		return err
	}
	if exp.IsPaid() {
		return invalidState("expense %s already paid", expenseID)
	}
	now := e.now()
	if err := exp.RecordPayment(now); err != nil {
		return err
	}
	ledger, err := e.getOrCreateLedger(now, exp.Amount.Currency)
	if err != nil {
		return err
	}
	if err := ledger.RecordOutflow(exp.Amount, string(exp.Category)+": "+exp.Description, now); err != nil {
		return err
	}
	e.log.Info("expense paid", "expense", expenseID, "amount", exp.Amount.String())
	return nil
}

// ExpensesByMonth returns the expenses booked against a month.
func (e *Engine) ExpensesByMonth(requester *model.User, month string) ([]*model.Expense, error) {
	if err := requireAdmin(requester); err != nil {
		return nil, err
	}
	normalized, err := model.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*model.Expense
	for _, exp := range e.expenses {
		if exp.Month == normalized {
			out = append(out, exp)
		}
	}
	return out, nil
}

// movingAverageCost blends the existing stock cost with the incoming
// delivery: (stock*avg + qty*cost) / (stock + qty). A delivery into empty
// stock just takes the delivery cost.
func movingAverageCost(p *model.Product, qty value.Quantity, unitCost value.Money) (value.Money, error) {
	if p.AvgCost.Currency != unitCost.Currency && !p.AvgCost.Amount.IsZero() {
		return value.Money{}, validationf("cost currency %s does not match product %s", unitCost.Currency, p.AvgCost.Currency)
	}
	if p.Stock.Unit != qty.Unit {
		return value.Money{}, validationf("delivery unit %s does not match stock unit %s", qty.Unit, p.Stock.Unit)
	}
	combined := p.Stock.Amount.Add(qty.Amount)
	if combined.IsZero() {
		return unitCost, nil
	}
	if p.Stock.Amount.IsZero() {
		return unitCost, nil
	}
	held := p.AvgCost.Amount.Mul(p.Stock.Amount)
	incoming := unitCost.Amount.Mul(qty.Amount)
	avg := held.Add(incoming).Div(combined)
	return value.NewMoney(avg, unitCost.Currency)
}

// findReceipt must be called with the engine lock held.
func (e *Engine) findReceipt(id uuid.UUID) (*model.SupplierReceipt, error) {
	for _, r := range e.receipts {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, notFound("supplier receipt", id)
}

// findExpense must be called with the engine lock held.
func (e *Engine) findExpense(id uuid.UUID) (*model.Expense, error) {
	for _, exp := range e.expenses {
		if exp.ID == id {
			return exp, nil
		}
	}
	return nil, notFound("expense", id)
}
