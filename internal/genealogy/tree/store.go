// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tree

import "context"

// Repository defines the persistence contract for trees and their layout inputs.
type Repository interface {
	ListByOwner(context context.Context, ownerID string) ([]*Tree, error)
	FindByID(context context.Context, id string) (*Tree, error)
	Create(context context.Context, tree *Tree) error
	Delete(context context.Context, id string) error

	// ContainsPerson reports whether personID belongs to treeID.
	ContainsPerson(context context.Context, treeID, personID string) (bool, error)

	// ListNodePersons returns the tree's persons ordered by (created_at, id).
	ListNodePersons(context context.Context, treeID string) ([]NodePerson, error)

	// ListEdges returns the tree's relationships ordered by id.
	ListEdges(context context.Context, treeID string) ([]LayoutEdge, error)
}
