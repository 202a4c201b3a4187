// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// Caller is the identity every service operation acts on behalf of.
//
// It is resolved once per request by the authentication middleware and then
// passed explicitly; services never look it up on their own.
type Caller struct {
	UserID string
	Role   UserRole
	Status UserStatus

	// PersonID is the genealogy node claimed by this account, if any.
	PersonID *string
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// IsReviewer reports whether the caller may review edit proposals.
func (c Caller) IsReviewer() bool {
	return c.Role.CanEditAnyTree()
}
