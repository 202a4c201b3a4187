// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package relationship

import (
	"context"

	"github.com/taibuivan/roots/internal/genealogy/kinship"
)

// Repository defines the persistence contract for relationship edges.
type Repository interface {
	// PersonTree returns the tree a person belongs to.
	PersonTree(context context.Context, personID string) (string, error)

	FindByID(context context.Context, id string) (*Relationship, error)
	Exists(context context.Context, personID, relatedPersonID string, kind kinship.Kind) (bool, error)

	Create(context context.Context, relationship *Relationship) error

	// CreateIfAbsent inserts the edge unless its triple already exists.
	CreateIfAbsent(context context.Context, relationship *Relationship) (bool, error)

	Delete(context context.Context, id string) error

	// DeleteTriple removes the edge matching the triple, reporting whether one existed.
	DeleteTriple(context context.Context, personID, relatedPersonID string, kind kinship.Kind) (bool, error)

	// ListForPerson returns the outgoing edges of a person, ordered by id.
	ListForPerson(context context.Context, personID string) ([]*WithPerson, error)
}
