// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"

	"github.com/taibuivan/roots/internal/platform/sec"
	"github.com/taibuivan/roots/internal/users/auth"
	"github.com/taibuivan/roots/pkg/pagination"
)

// Repository defines the admin data access contract.
type Repository interface {
	// List returns one page of accounts, newest first, and the total count.
	List(context context.Context, params pagination.Params) ([]*auth.User, int, error)

	FindByID(context context.Context, id string) (*auth.User, error)

	// Update writes role and status. Returns dberr.ErrNotFound for an unknown id.
	Update(context context.Context, id string, role sec.UserRole, status sec.UserStatus) error

	// Stats counts accounts, persons, trees and pending proposals. Trees
	// with pending proposals are ordered by their pending count, highest first.
	Stats(context context.Context) (*Stats, error)
}
