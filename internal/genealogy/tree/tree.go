// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package tree manages family trees: ownership, access policy, and the
generational layout served to the graph view.

# Access Policy

  - [AccessEdit]: the owner, admins and editors.
  - [AccessView]: everyone with [AccessEdit], plus users whose claimed
    person belongs to the tree.

Other genealogy packages ask this package for a decision instead of
re-deriving it, so the policy lives in one place.
*/
package tree

import (
	"time"

	"github.com/taibuivan/roots/internal/genealogy/kinship"
)

// # Domain Entities

// Tree is one genealogy workspace owned by a user.
type Tree struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Access is the level of rights an operation needs on a tree.
type Access int

const (
	AccessView Access = iota + 1
	AccessEdit
)

// CreateInput is the payload of POST /trees.
type CreateInput struct {
	Name string `json:"name"`
}

// # Layout

// NodePerson is the slice of a person the layout engine needs.
type NodePerson struct {
	ID             string
	FirstName      string
	LastName       string
	AvatarThumbURL *string
	BirthDate      *string
}

// LayoutEdge is one stored relationship, read as "Source is Type of Target".
type LayoutEdge struct {
	ID     string       `json:"id"`
	Source string       `json:"source"`
	Target string       `json:"target"`
	Type   kinship.Kind `json:"type"`
}

// NodeData is the display payload of a graph node.
type NodeData struct {
	ID             string  `json:"id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	AvatarThumbURL *string `json:"avatar_thumb_url"`
	BirthDate      *string `json:"birth_date"`
}

// Position is a node's canvas coordinate in pixels.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one person placed on the canvas.
type Node struct {
	ID         string   `json:"id"`
	Data       NodeData `json:"data"`
	Position   Position `json:"position"`
	Generation int      `json:"generation"`
}

// Graph is the response of GET /trees/{id}/nodes.
type Graph struct {
	Nodes []Node       `json:"nodes"`
	Edges []LayoutEdge `json:"edges"`
}

// Field names for validation
const (
	FieldName = "name"
)
