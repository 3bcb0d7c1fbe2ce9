/*
customers.go - Customer registry operations

PURPOSE:
  Registration, lookup, contact updates, activation toggles and sorted
  listings for the customer base. Registration rejects duplicate ids and
  duplicate e-mail addresses so lookups stay unambiguous.
*/
package engine

import (
	"strings"

	"github.com/google/uuid"

	"github.com/gustavoponcell/Barbearia/model"
	"github.com/gustavoponcell/Barbearia/value"
)

// RegisterCustomer adds a customer to the registry.
func (e *Engine) RegisterCustomer(requester *model.User, c *model.Customer) error {
	if err := requireStaffOrAdmin(requester); err != nil {
		return err
	}
	if c == nil {
		return validationErr("customer is required")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, existing := range e.customers {
		if existing.ID == c.ID {
			return validationf("customer id %s already registered", c.ID)
		}
		if strings.EqualFold(existing.Email.Address, c.Email.Address) {
			return validationf("customer e-mail %s already registered", c.Email.Address)
		}
	}
	e.customers = append(e.customers, c)
	e.log.Info("customer registered", "customer", c.ID, "name", c.Name)
	return nil
}

// CustomerByID looks up a customer.
func (e *Engine) CustomerByID(requester *model.User, id uuid.UUID) (*model.Customer, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.findCustomer(id)
}

// FindCustomerByEmail looks up a customer by e-mail, case-insensitive.
func (e *Engine) FindCustomerByEmail(requester *model.User, email string) (*model.Customer, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range e.customers {
		if strings.EqualFold(c.Email.Address, email) {
			return c, nil
		}
	}
	return nil, validationf("no customer with e-mail %q", email)
}

// UpdateCustomerContact replaces a customer's whole contact block.
func (e *Engine) UpdateCustomerContact(requester *model.User, id uuid.UUID, addr value.Address, phone value.Phone, email value.Email) error {
	if err := requireStaffOrAdmin(requester); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.findCustomer(id)
	if err != nil {
		return err
	}
	for _, other := range e.customers {
		if other.ID != id && strings.EqualFold(other.Email.Address, email.Address) {
			return validationf("customer e-mail %s already registered", email.Address)
		}
	}
	c.UpdateContact(addr, phone, email)
	e.log.Info("customer contact updated", "customer", id)
	return nil
}

// DeactivateCustomer blocks new appointments for the customer.
// Administrator only.
func (e *Engine) DeactivateCustomer(requester *model.User, id uuid.UUID) error {
	if err := requireAdmin(requester); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.findCustomer(id)
	if err != nil {
		return err
	}
	c.Deactivate()
	e.log.Info("customer deactivated", "customer", id)
	return nil
}

// ReactivateCustomer lifts a deactivation. Administrator only.
func (e *Engine) ReactivateCustomer(requester *model.User, id uuid.UUID) error {
	if err := requireAdmin(requester); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.findCustomer(id)
	if err != nil {
		return err
	}
	c.Reactivate()
	e.log.Info("customer reactivated", "customer", id)
	return nil
}

// ListCustomersByName returns a window of the registry sorted by name.
func (e *Engine) ListCustomersByName(requester *model.User, offset, limit int) ([]*model.Customer, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return sortWindow(e.customers, model.CustomerByName, offset, limit), nil
}

// ListCustomersByEmail returns a window of the registry sorted by e-mail.
func (e *Engine) ListCustomersByEmail(requester *model.User, offset, limit int) ([]*model.Customer, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return sortWindow(e.customers, model.CustomerByEmail, offset, limit), nil
}

// CustomerStatementRefs returns the file references of every statement
// generated for the customer, oldest first.
func (e *Engine) CustomerStatementRefs(requester *model.User, id uuid.UUID) ([]string, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.findCustomer(id)
	if err != nil {
		return nil, err
	}
	refs := make([]string, len(c.StatementRefs))
	copy(refs, c.StatementRefs)
	return refs, nil
}

// findCustomer must be called with the engine lock held.
func (e *Engine) findCustomer(id uuid.UUID) (*model.Customer, error) {
	for _, c := range e.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, notFound("customer", id)
}
