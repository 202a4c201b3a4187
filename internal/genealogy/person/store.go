// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package person

import "context"

// Repository defines the persistence contract for persons.
type Repository interface {
	FindByID(context context.Context, id string) (*Person, error)

	// ListByTree returns the persons of a tree ordered by last, first name.
	ListByTree(context context.Context, treeID string) ([]*Person, error)

	Create(context context.Context, person *Person) error

	// Patch writes the given editable fields and bumps updated_at.
	// Keys outside [EditableFields] are ignored.
	Patch(context context.Context, id string, values map[string]*string) error

	// SetAvatar replaces both avatar URLs.
	SetAvatar(context context.Context, id string, url, thumbURL *string) error

	// Delete removes the person. Relationships, media, sections and proposals cascade.
	Delete(context context.Context, id string) error

	// MediaURLs returns every stored object URL attached to the person.
	MediaURLs(context context.Context, id string) ([]string, error)
}

// SearchQuery scopes a person search. Empty ids mean "no restriction".
type SearchQuery struct {
	Term    string
	TreeID  string
	OwnerID string
	Limit   int
}
