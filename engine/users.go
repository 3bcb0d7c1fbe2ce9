/*
users.go - Internal operator registry

PURPOSE:
  Registration and lifecycle of administrators, staff and barbers.
  User management is administrator-only except password changes, which a
  user may do for themselves.
*/
package engine

import (
	"strings"

	"github.com/google/uuid"

	"github.com/gustavoponcell/Barbearia/model"
)

// RegisterUser adds an operator. Administrator only; logins are unique.
func (e *Engine) RegisterUser(requester *model.User, u *model.User) error {
	if err := requireAdmin(requester); err != nil {
		return err
	}
	if u == nil {
		return validationErr("user is required")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, existing := range e.users {
		if existing.ID == u.ID {
			return validationf("user id %s already registered", u.ID)
		}
		if strings.EqualFold(existing.Login, u.Login) {
			return validationf("login %q already taken", u.Login)
		}
	}
	e.users = append(e.users, u)
	e.log.Info("user registered", "user", u.ID, "login", u.Login, "role", u.Role)
	return nil
}

// UserByID looks up an operator.
func (e *Engine) UserByID(requester *model.User, id uuid.UUID) (*model.User, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.findUser(id)
}

// FindUserByLogin looks up an operator by login, case-insensitive.
func (e *Engine) FindUserByLogin(requester *model.User, login string) (*model.User, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, u := range e.users {
		if strings.EqualFold(u.Login, login) {
			return u, nil
		}
	}
	return nil, validationf("no user with login %q", login)
}

// ChangeUserPassword replaces the stored hash. Administrators may change
// anyone's; other users only their own.
func (e *Engine) ChangeUserPassword(requester *model.User, id uuid.UUID, newHash string) error {
	if requester == nil {
		return &PermissionError{Reason: "no authenticated user"}
	}
	if requester.Role != model.RoleAdmin && requester.ID != id {
		return &PermissionError{Reason: "users may only change their own password"}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	u, err := e.findUser(id)
	if err != nil {
		return err
	}
	if err := u.ChangePassword(newHash); err != nil {
		return err
	}
	e.log.Info("password changed", "user", id)
	return nil
}

// DeactivateUser blocks an operator. Administrator only, and never on the
// requester's own account.
func (e *Engine) DeactivateUser(requester *model.User, id uuid.UUID) error {
	if err := requireAdmin(requester); err != nil {
		return err
	}
	if requester.ID == id {
		return validationErr("administrators cannot deactivate themselves")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	u, err := e.findUser(id)
	if err != nil {
		return err
	}
	u.Deactivate()
	e.log.Info("user deactivated", "user", id)
	return nil
}

// ReactivateUser lifts a deactivation. Administrator only.
func (e *Engine) ReactivateUser(requester *model.User, id uuid.UUID) error {
	if err := requireAdmin(requester); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	u, err := e.findUser(id)
	if err != nil {
		return err
	}
	u.Reactivate()
	e.log.Info("user reactivated", "user", id)
	return nil
}

// ListBarbers returns every active barber, sorted by name.
func (e *Engine) ListBarbers(requester *model.User) ([]*model.User, error) {
	if err := requireStaffOrAdmin(requester); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	var barbers []*model.User
	for _, u := range e.users {
		if u.Role == model.RoleBarber && u.Active {
			barbers = append(barbers, u)
		}
	}
	return sortWindow(barbers, func(a, b *model.User) bool {
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}, 0, 0), nil
}

// findUser must be called with the engine lock held.
func (e *Engine) findUser(id uuid.UUID) (*model.User, error) {
	for _, u := range e.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, notFound("user", id)
}
