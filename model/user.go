package model

import (
	"strings"

	"github.com/google/uuid"

	"github.com/gustavoponcell/Barbearia/value"
)

// User is an internal operator: administrator, front-desk staff or barber.
// The login is immutable; the password hash arrives pre-hashed.
type User struct {
	ContactProfile
	Role         Role   `json:"role"`
	Login        string `json:"login"`
	PasswordHash string `json:"password_hash"`
	Active       bool   `json:"active"`
}

// NewUser validates the profile and credentials.
func NewUser(id uuid.UUID, name string, addr value.Address, phone value.Phone, email value.Email, role Role, login, passwordHash string, active bool) (*User, error) {
	profile, err := NewContactProfile(id, name, addr, phone, email)
	if err != nil {
		return nil, err
	}
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, validationf("user login is required")
	}
	if passwordHash == "" {
		return nil, validationf("user password hash is required")
	}
	switch role {
	case RoleAdmin, RoleStaff, RoleBarber:
	default:
		return nil, validationf("unknown role %q", role)
	}
	return &User{ContactProfile: profile, Role: role, Login: login, PasswordHash: passwordHash, Active: active}, nil
}

func (u *User) ChangePassword(newHash string) error {
	if newHash == "" {
		return validationf("new password hash is required")
	}
	u.PasswordHash = newHash
	return nil
}

func (u *User) Deactivate() { u.Active = false }
func (u *User) Reactivate() { u.Active = true }
