// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package proposal

import "context"

// Repository defines the persistence contract for proposals.
type Repository interface {
	Create(context context.Context, proposal *Proposal) error

	// FindForUpdate loads a proposal and locks its row until the transaction ends.
	FindForUpdate(context context.Context, id string) (*Proposal, error)

	// List returns proposals matching the filter, newest first.
	List(context context.Context, filter Filter) ([]*Proposal, error)

	// SaveReview persists status, reviewer, comment and review time.
	SaveReview(context context.Context, proposal *Proposal) error
}
