// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account implements the admin console over user accounts.

Admins list accounts, change roles and statuses (activating pending
sign-ups or blocking accounts) and read site-wide counters. The package
reuses the [auth.User] entity.
*/
package account

import (
	"github.com/taibuivan/roots/internal/platform/sec"
)

// # Domain Entities

// UpdateInput is the body of PATCH /admin/users/{userID}. Nil fields are left as they are.
type UpdateInput struct {
	Role   *sec.UserRole   `json:"role"`
	Status *sec.UserStatus `json:"status"`
}

// TreePending counts pending proposals on one tree.
type TreePending struct {
	TreeID       string `json:"tree_id"`
	TreeName     string `json:"tree_name"`
	PendingCount int    `json:"pending_count"`
}

// Stats are the site-wide counters of the admin dashboard.
type Stats struct {
	TotalUsers             int           `json:"total_users"`
	TotalPersons           int           `json:"total_persons"`
	TotalTrees             int           `json:"total_trees"`
	PendingProposals       int           `json:"pending_proposals"`
	PendingProposalsByTree []TreePending `json:"pending_proposals_by_tree"`
}

// # Field Identifiers

const (
	FieldRole   = "role"
	FieldStatus = "status"
)
