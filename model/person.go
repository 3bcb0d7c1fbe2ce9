package model

import (
	"strings"

	"github.com/google/uuid"

	"github.com/gustavoponcell/Barbearia/value"
)

// ContactProfile is the shared person data embedded in Customer and User.
// Composition instead of a base type: entities embed the profile and expose
// it through the Person interface.
type ContactProfile struct {
	ID      uuid.UUID     `json:"id"`
	Name    string        `json:"name"`
	Address value.Address `json:"address"`
	Phone   value.Phone   `json:"phone"`
	Email   value.Email   `json:"email"`
}

// Person is implemented by every person-like entity.
type Person interface {
	PersonID() uuid.UUID
	PersonName() string
	ContactEmail() value.Email
}

// NewContactProfile validates the shared person fields.
func NewContactProfile(id uuid.UUID, name string, addr value.Address, phone value.Phone, email value.Email) (ContactProfile, error) {
	if id == uuid.Nil {
		return ContactProfile{}, validationf("person id is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ContactProfile{}, validationf("person name is required")
	}
	return ContactProfile{ID: id, Name: name, Address: addr, Phone: phone, Email: email}, nil
}

func (p ContactProfile) PersonID() uuid.UUID        { return p.ID }
func (p ContactProfile) PersonName() string         { return p.Name }
func (p ContactProfile) ContactEmail() value.Email  { return p.Email }

// UpdateContact replaces the whole contact block; partial updates are not
// allowed so a profile is always complete.
func (p *ContactProfile) UpdateContact(addr value.Address, phone value.Phone, email value.Email) {
	p.Address = addr
	p.Phone = phone
	p.Email = email
}
