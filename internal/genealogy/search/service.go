// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package search finds persons by name or birth place across the trees a caller may see.
package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/roots/internal/genealogy/person"
	"github.com/taibuivan/roots/internal/genealogy/tree"
	"github.com/taibuivan/roots/internal/platform/ctxutil"
	"github.com/taibuivan/roots/internal/platform/sec"
	"github.com/taibuivan/roots/internal/platform/validate"
)

// MaxResults caps every search response.
const MaxResults = 50

const (
	FieldQuery  = "q"
	FieldTreeID = "tree_id"
)

// Finder runs the person search query.
type Finder interface {
	Search(context context.Context, query person.SearchQuery) ([]*person.Person, error)
}

// TreeAuthorizer decides whether a caller may act on a tree.
type TreeAuthorizer interface {
	Authorize(context context.Context, caller sec.Caller, treeID string, level tree.Access) (*tree.Tree, error)
}

// Service implements person search.
type Service struct {
	finder Finder
	trees  TreeAuthorizer
}

// NewService constructs a search [Service].
func NewService(finder Finder, trees TreeAuthorizer) *Service {
	return &Service{finder: finder, trees: trees}
}

/*
Search matches term against first, last and patronymic names and birth place.

# Rules
  - term must not be blank.
  - With treeID the caller needs view access to that tree.
  - Without treeID admins search everything; everyone else searches the
    trees they own.
  - Results are ordered by last then first name, at most [MaxResults].
*/
func (service *Service) Search(context context.Context, caller sec.Caller, term, treeID string) ([]*person.Person, error) {
	term = strings.TrimSpace(term)

	validator := &validate.Validator{}
	validator.Required(FieldQuery, term)
	if treeID != "" {
		validator.UUID(FieldTreeID, treeID)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	query := person.SearchQuery{Term: term, TreeID: treeID, Limit: MaxResults}

	switch {
	case treeID != "":
		if _, err := service.trees.Authorize(context, caller, treeID, tree.AccessView); err != nil {
			return nil, err
		}
	case !caller.IsAdmin():
		query.OwnerID = caller.UserID
	}

	persons, err := service.finder.Search(context, query)
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Debug("search_performed",
		slog.String("tree_id", treeID),
		slog.Int("results", len(persons)),
	)
	return persons, nil
}
