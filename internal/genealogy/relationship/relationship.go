// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package relationship stores the typed edges between persons and keeps them
symmetric.

Creating A→B of kind K also creates B→A of kind inverse(K) unless it is
already there; deleting an edge removes its inverse when present. Both
happen inside one transaction, so a request never leaves half a pair
behind. Pairs that are already asymmetric (from older data) are tolerated
on delete.
*/
package relationship

import (
	"time"

	"github.com/taibuivan/roots/internal/genealogy/kinship"
)

// # Domain Entities

// Relationship is a directed edge "PersonID is Type of RelatedPersonID".
type Relationship struct {
	ID              string       `json:"id"`
	TreeID          string       `json:"tree_id"`
	PersonID        string       `json:"person_id"`
	RelatedPersonID string       `json:"related_person_id"`
	Type            kinship.Kind `json:"relationship_type"`
	CreatedAt       time.Time    `json:"created_at"`
}

// CreateInput is the payload of POST /relationships.
type CreateInput struct {
	TreeID          string       `json:"tree_id"`
	PersonID        string       `json:"person_id"`
	RelatedPersonID string       `json:"related_person_id"`
	Type            kinship.Kind `json:"relationship_type"`
}

// RelatedPerson is the summary of the far end of an edge.
type RelatedPerson struct {
	ID             string  `json:"id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Patronymic     *string `json:"patronymic"`
	BirthDate      *string `json:"birth_date"`
	DeathDate      *string `json:"death_date"`
	AvatarThumbURL *string `json:"avatar_thumb_url"`
}

// WithPerson is an outgoing edge together with the related person.
type WithPerson struct {
	Relationship
	Related *RelatedPerson `json:"related"`
}

// Field names for validation
const (
	FieldTreeID          = "tree_id"
	FieldPersonID        = "person_id"
	FieldRelatedPersonID = "related_person_id"
	FieldType            = "relationship_type"
)
