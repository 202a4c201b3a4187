// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access, including user administration and invitations
	RoleAdmin UserRole = "admin"

	// Can edit every tree and review edit proposals
	RoleEditor UserRole = "editor"

	// Default role. Edits trees they own, proposes changes elsewhere
	RoleUser UserRole = "user"

	// Read-only access to trees they are linked to
	RoleGuest UserRole = "guest"
)

// Roles lists every valid role in descending order of privilege.
var Roles = []UserRole{RoleAdmin, RoleEditor, RoleUser, RoleGuest}

// IsValid reports whether r is one of the known roles.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleUser, RoleGuest:
		return true
	default:
		return false
	}
}

// CanEditAnyTree reports whether the role grants edit rights on trees it does not own.
func (r UserRole) CanEditAnyTree() bool {
	switch r {
	case RoleAdmin, RoleEditor:
		return true
	case RoleUser, RoleGuest:
		return false
	default:
		return false
	}
}

// CanPropose reports whether the role may submit edit proposals.
func (r UserRole) CanPropose() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleUser:
		return true
	case RoleGuest:
		return false
	default:
		return false
	}
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 40
	case RoleEditor:
		return 30
	case RoleUser:
		return 20
	case RoleGuest:
		return 10
	default:
		return 0
	}
}

// # Account Status

// UserStatus is the lifecycle state of an account.
type UserStatus string

const (
	StatusActive  UserStatus = "active"
	StatusPending UserStatus = "pending"
	StatusBlocked UserStatus = "blocked"
)

// IsValid reports whether s is one of the known statuses.
func (s UserStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusPending, StatusBlocked:
		return true
	default:
		return false
	}
}
