package model

import (
	"github.com/google/uuid"

	"github.com/gustavoponcell/Barbearia/value"
)

// Customer is a barbershop client. Deactivation blocks new appointments
// without erasing history.
type Customer struct {
	ContactProfile
	CPF           value.CPFHash `json:"cpf"`
	Active        bool          `json:"active"`
	StatementRefs []string      `json:"statement_refs,omitempty"`
}

// NewCustomer validates the profile and tax id.
func NewCustomer(id uuid.UUID, name string, addr value.Address, phone value.Phone, email value.Email, cpf value.CPFHash, active bool) (*Customer, error) {
	profile, err := NewContactProfile(id, name, addr, phone, email)
	if err != nil {
		return nil, err
	}
	if cpf.Digest == "" {
		return nil, validationf("customer cpf is required")
	}
	return &Customer{ContactProfile: profile, CPF: cpf, Active: active}, nil
}

func (c *Customer) Deactivate() { c.Active = false }
func (c *Customer) Reactivate() { c.Active = true }

// RecordStatementRef appends a generated statement file reference to the
// customer history, skipping duplicates.
func (c *Customer) RecordStatementRef(ref string) {
	for _, existing := range c.StatementRefs {
		if existing == ref {
			return
		}
	}
	c.StatementRefs = append(c.StatementRefs, ref)
}
