// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tree

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/roots/internal/platform/apperr"
	"github.com/taibuivan/roots/internal/platform/ctxutil"
	"github.com/taibuivan/roots/internal/platform/dberr"
	"github.com/taibuivan/roots/internal/platform/sec"
	"github.com/taibuivan/roots/internal/platform/validate"
	"github.com/taibuivan/roots/pkg/uuid"
)

// Service implements tree use cases and the tree access policy.
type Service struct {
	repo Repository
}

// NewService constructs a tree [Service].
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// # Access Policy

/*
Authorize checks that caller holds the given access level on treeID.

Parameters:
  - context: context.Context
  - caller: sec.Caller
  - treeID: string
  - level: Access

Returns:
  - *Tree: The loaded tree when access is granted
  - error: apperr.NotFound for a missing tree, apperr.Forbidden otherwise
*/
func (service *Service) Authorize(context context.Context, caller sec.Caller, treeID string, level Access) (*Tree, error) {
	tree, err := service.repo.FindByID(context, treeID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("Tree")
		}
		return nil, err
	}

	if tree.OwnerID == caller.UserID || caller.Role.CanEditAnyTree() {
		return tree, nil
	}

	if level == AccessView && caller.PersonID != nil {
		linked, err := service.repo.ContainsPerson(context, treeID, *caller.PersonID)
		if err != nil {
			return nil, err
		}
		if linked {
			return tree, nil
		}
	}

	return nil, apperr.Forbidden("Access denied")
}

// # Use Cases

// List returns the caller's own trees, newest first.
func (service *Service) List(context context.Context, caller sec.Caller) ([]*Tree, error) {
	return service.repo.ListByOwner(context, caller.UserID)
}

// Get returns a tree the caller can view.
func (service *Service) Get(context context.Context, caller sec.Caller, treeID string) (*Tree, error) {
	return service.Authorize(context, caller, treeID, AccessView)
}

// Create makes a new tree owned by the caller.
func (service *Service) Create(context context.Context, caller sec.Caller, input CreateInput) (*Tree, error) {
	if caller.Role == sec.RoleGuest {
		return nil, apperr.Forbidden("Guests cannot create trees")
	}

	name := strings.TrimSpace(input.Name)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, 200)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	tree := &Tree{
		ID:      uuid.New(),
		OwnerID: caller.UserID,
		Name:    name,
	}

	if err := service.repo.Create(context, tree); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("tree_created",
		slog.String("tree_id", tree.ID),
		slog.String("owner_id", tree.OwnerID),
	)
	return tree, nil
}

// Delete removes a tree and, by cascade, everything in it. Owner only.
func (service *Service) Delete(context context.Context, caller sec.Caller, treeID string) error {
	tree, err := service.repo.FindByID(context, treeID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return apperr.NotFound("Tree")
		}
		return err
	}

	if tree.OwnerID != caller.UserID {
		return apperr.Forbidden("Not the tree owner")
	}

	if err := service.repo.Delete(context, treeID); err != nil {
		return err
	}

	ctxutil.GetLogger(context).Warn("tree_deleted", slog.String("tree_id", treeID))
	return nil
}

// Nodes computes the generational graph of a tree.
func (service *Service) Nodes(context context.Context, caller sec.Caller, treeID string) (Graph, error) {
	if _, err := service.Authorize(context, caller, treeID, AccessView); err != nil {
		return Graph{}, err
	}

	persons, err := service.repo.ListNodePersons(context, treeID)
	if err != nil {
		return Graph{}, err
	}

	edges, err := service.repo.ListEdges(context, treeID)
	if err != nil {
		return Graph{}, err
	}

	return Layout(persons, edges), nil
}
