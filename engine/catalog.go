/*
catalog.go - Service and product catalog

PURPOSE:
  Administrator-managed catalog of services and stocked products. Adding
  a service bumps the process-wide service tally exactly once, here and
  nowhere else.
*/
package engine

import (
	"strings"

	"github.com/google/uuid"

	"github.com/gustavoponcell/Barbearia/model"
	"github.com/gustavoponcell/Barbearia/value"
)

// AddService catalogs a service and increments the service tally.
func (e *Engine) AddService(requester *model.User, s *model.Service) error {
	if err := requireAdmin(requester); err != nil {
		return err
	}
	if s == nil {
		return validationErr("service is required")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, existing := range e.services {
		if existing.ID == s.ID {
			return validationf("service id %s already catalogued", s.ID)
		}
		if strings.EqualFold(existing.Name, s.Name) {
			return validationf("service %q already catalogued", s.Name)
		}
	}
	e.services = append(e.services, s)
	e.serviceCount++
	e.log.Info("service catalogued", "service", s.ID, "name", s.Name, "total_services", e.serviceCount)
	return nil
}

// ServiceByID looks up a catalog entry.
func (e *Engine) ServiceByID(requester *model.User, id uuid.UUID) (*model.Service, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.findService(id)
}

// ListServices returns the catalog sorted by name.
func (e *Engine) ListServices(requester *model.User) ([]*model.Service, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return sortWindow(e.services, func(a, b *model.Service) bool {
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}, 0, 0), nil
}

// AddProduct registers a stocked product. SKUs are unique.
func (e *Engine) AddProduct(requester *model.User, p *model.Product) error {
	if err := requireAdmin(requester); err != nil {
		return err
	}
	if p == nil {
		return validationErr("product is required")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, existing := range e.products {
		if existing.ID == p.ID {
			return validationf("product id %s already registered", p.ID)
		}
		if strings.EqualFold(existing.SKU, p.SKU) {
			return validationf("product sku %q already registered", p.SKU)
		}
	}
	e.products = append(e.products, p)
	e.log.Info("product registered", "product", p.ID, "sku", p.SKU)
	return nil
}

// ProductByID looks up a product.
func (e *Engine) ProductByID(requester *model.User, id uuid.UUID) (*model.Product, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.findProduct(id)
}

// FindProductBySKU looks up a product by SKU, case-insensitive.
func (e *Engine) FindProductBySKU(requester *model.User, sku string) (*model.Product, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, p := range e.products {
		if strings.EqualFold(p.SKU, sku) {
			return p, nil
		}
	}
	return nil, validationf("no product with sku %q", sku)
}

// ListProducts returns products sorted by name.
func (e *Engine) ListProducts(requester *model.User) ([]*model.Product, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return sortWindow(e.products, func(a, b *model.Product) bool {
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}, 0, 0), nil
}

// ProductsBelowMinimum returns products whose stock dropped under the
// restock floor, sorted by name.
func (e *Engine) ProductsBelowMinimum(requester *model.User) ([]*model.Product, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	var low []*model.Product
	for _, p := range e.products {
		if p.BelowMinimum() {
			low = append(low, p)
		}
	}
	return sortWindow(low, func(a, b *model.Product) bool {
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}, 0, 0), nil
}

// UpdateProductSalePrice reprices a product. Administrator only.
func (e *Engine) UpdateProductSalePrice(requester *model.User, id uuid.UUID, price value.Money) error {
	if err := requireAdmin(requester); err != nil {
		return err
	}
	if price.IsNegative() {
		return validationErr("sale price cannot be negative")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	p, err := e.findProduct(id)
	if err != nil {
		return err
	}
	p.UpdateSalePrice(price)
	e.log.Info("product repriced", "product", id, "price", price.String())
	return nil
}

// findService must be called with the engine lock held.
func (e *Engine) findService(id uuid.UUID) (*model.Service, error) {
	for _, s := range e.services {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, notFound("service", id)
}

// findProduct must be called with the engine lock held.
func (e *Engine) findProduct(id uuid.UUID) (*model.Product, error) {
	for _, p := range e.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, notFound("product", id)
}
