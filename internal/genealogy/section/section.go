// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package section stores the free-form biography chapters of a person.
// Content is user-authored HTML and is sanitised before it is stored.
package section

import (
	"time"
)

// Section is one titled block of rich text on a person's page.
type Section struct {
	ID          string    `json:"id"`
	PersonID    string    `json:"person_id"`
	Title       string    `json:"title"`
	ContentHTML *string   `json:"content_html"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateInput is the body of POST /persons/{id}/sections.
type CreateInput struct {
	Title       string  `json:"title"`
	ContentHTML *string `json:"content_html"`
	SortOrder   int     `json:"sort_order"`
}

// UpdateInput is the body of PUT /sections/{id}. Nil fields are left unchanged.
type UpdateInput struct {
	Title       *string `json:"title"`
	ContentHTML *string `json:"content_html"`
	SortOrder   *int    `json:"sort_order"`
}

// Field names for validation
const (
	FieldTitle       = "title"
	FieldContentHTML = "content_html"
	FieldSortOrder   = "sort_order"
)
