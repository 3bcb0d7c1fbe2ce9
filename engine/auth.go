/*
auth.go - Role-based capability gate

PURPOSE:
  Every privileged engine operation passes through one of two checks:
  admin-only, or staff-or-admin. The requester is the already
  authenticated user performing the call; the engine does not handle
  credentials, only capabilities.

INVARIANTS:
  - A nil or inactive requester is always denied.
  - Barbers hold neither capability: they appear on schedules but do not
    operate the engine.
  - Authorization failures are detected before any state is touched.
*/
package engine

import "github.com/gustavoponcell/Barbearia/model"

// requireAdmin denies unless the requester is an active administrator.
func requireAdmin(requester *model.User) error {
	if requester == nil {
		return &PermissionError{Reason: "no authenticated user"}
	}
	if !requester.Active {
		return &PermissionError{Reason: "user " + requester.Login + " is deactivated"}
	}
	if requester.Role != model.RoleAdmin {
		return &PermissionError{Reason: "operation requires administrator role"}
	}
	return nil
}

// requireStaffOrAdmin denies unless the requester is an active staff
// member or administrator.
func requireStaffOrAdmin(requester *model.User) error {
	if requester == nil {
		return &PermissionError{Reason: "no authenticated user"}
	}
	if !requester.Active {
		return &PermissionError{Reason: "user " + requester.Login + " is deactivated"}
	}
	if requester.Role != model.RoleAdmin && requester.Role != model.RoleStaff {
		return &PermissionError{Reason: "operation requires staff or administrator role"}
	}
	return nil
}
