// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package invitation

import (
	"context"
	"time"
)

// Repository defines the persistence contract for invitations.
type Repository interface {
	Create(context context.Context, invitation *Invitation) error
	FindByID(context context.Context, id string) (*Invitation, error)
	FindByToken(context context.Context, token string) (*Invitation, error)

	// ListByCreator orders by expiry, latest first.
	ListByCreator(context context.Context, userID string) ([]*Invitation, error)

	Delete(context context.Context, id string) error

	// Consume increments used_count if the invitation is unexpired at now and
	// has uses left, in a single conditional statement. Returns
	// dberr.ErrNotFound when nothing was consumed.
	Consume(context context.Context, token string, now time.Time) (*Invitation, error)
}
