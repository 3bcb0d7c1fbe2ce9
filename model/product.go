package model

import (
	"strings"

	"github.com/google/uuid"

	"github.com/gustavoponcell/Barbearia/value"
)

// Product is a retail or consumable item with stock control. Stock never
// goes negative and movements must match the stock unit.
type Product struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	SKU       string         `json:"sku"`
	Stock     value.Quantity `json:"stock"`
	MinStock  value.Quantity `json:"min_stock"`
	SalePrice value.Money    `json:"sale_price"`
	AvgCost   value.Money    `json:"avg_cost"`
}

// NewProduct validates identity, SKU and that stock levels share a unit.
func NewProduct(id uuid.UUID, name, sku string, stock, minStock value.Quantity, salePrice, avgCost value.Money) (*Product, error) {
	if id == uuid.Nil {
		return nil, validationf("product id is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("product name is required")
	}
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, validationf("product sku is required")
	}
	if stock.Unit != minStock.Unit {
		return nil, validationf("stock and min stock must share a unit")
	}
	return &Product{ID: id, Name: name, SKU: sku, Stock: stock, MinStock: minStock, SalePrice: salePrice, AvgCost: avgCost}, nil
}

// StockIn adds quantity to stock.
func (p *Product) StockIn(qty value.Quantity) error {
	next, err := p.Stock.Add(qty)
	if err != nil {
		return validationf("%v", err)
	}
	p.Stock = next
	return nil
}

// StockOut removes quantity from stock; the quantity type rejects a
// negative result.
func (p *Product) StockOut(qty value.Quantity) error {
	next, err := p.Stock.Sub(qty)
	if err != nil {
		return validationf("%v", err)
	}
	p.Stock = next
	return nil
}

// BelowMinimum reports whether the stock dropped under the floor.
func (p *Product) BelowMinimum() bool {
	return p.Stock.LessThan(p.MinStock)
}

func (p *Product) UpdateSalePrice(price value.Money) { p.SalePrice = price }
func (p *Product) UpdateAvgCost(cost value.Money)    { p.AvgCost = cost }

func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return validationf("product name is required")
	}
	p.Name = name
	return nil
}
