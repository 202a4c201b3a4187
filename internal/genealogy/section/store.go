// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package section

import "context"

// Repository defines the persistence contract for sections.
type Repository interface {
	// ListByPerson orders by sort_order, then creation time.
	ListByPerson(context context.Context, personID string) ([]*Section, error)

	FindByID(context context.Context, id string) (*Section, error)
	Create(context context.Context, section *Section) error

	// Update writes title, content and sort order and bumps updated_at.
	Update(context context.Context, section *Section) error

	Delete(context context.Context, id string) error
}
