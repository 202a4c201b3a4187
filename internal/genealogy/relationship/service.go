// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package relationship

import (
	"context"
	stdctx "context"
	"log/slog"

	"github.com/taibuivan/roots/internal/genealogy/kinship"
	"github.com/taibuivan/roots/internal/genealogy/tree"
	"github.com/taibuivan/roots/internal/platform/apperr"
	"github.com/taibuivan/roots/internal/platform/ctxutil"
	"github.com/taibuivan/roots/internal/platform/dberr"
	"github.com/taibuivan/roots/internal/platform/sec"
	"github.com/taibuivan/roots/internal/platform/validate"
	"github.com/taibuivan/roots/pkg/uuid"
)

// # Contracts

// TreeAuthorizer decides whether a caller may act on a tree.
type TreeAuthorizer interface {
	Authorize(context context.Context, caller sec.Caller, treeID string, level tree.Access) (*tree.Tree, error)
}

// Transactor runs a unit of work atomically.
type Transactor interface {
	WithinTx(context context.Context, fn func(context context.Context) error) error
}

// Service implements relationship use cases and the inverse-edge protocol.
type Service struct {
	repo  Repository
	trees TreeAuthorizer
	tx    Transactor
}

// NewService constructs a relationship [Service].
func NewService(repo Repository, trees TreeAuthorizer, tx Transactor) *Service {
	return &Service{repo: repo, trees: trees, tx: tx}
}

// # Inverse-Edge Protocol

/*
Create inserts A→B of the given kind and, if missing, its inverse B→A.

# Rules
  - Caller needs edit access to the tree.
  - Both persons must belong to the stated tree (404 otherwise).
  - An existing forward triple is a conflict; an existing inverse is reused.

Returns:
  - *Relationship: The forward edge
  - error: apperr.ValidationError, NotFound, Forbidden or Conflict
*/
func (service *Service) Create(context context.Context, caller sec.Caller, input CreateInput) (*Relationship, error) {
	validator := &validate.Validator{}
	validator.
		UUID(FieldTreeID, input.TreeID).
		UUID(FieldPersonID, input.PersonID).
		UUID(FieldRelatedPersonID, input.RelatedPersonID).
		OneOf(FieldType, string(input.Type), kinship.Strings()...).
		Custom(FieldRelatedPersonID, input.PersonID == input.RelatedPersonID, "A person cannot be related to themselves")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.trees.Authorize(context, caller, input.TreeID, tree.AccessEdit); err != nil {
		return nil, err
	}

	if err := service.requireInTree(context, input.PersonID, input.TreeID, "Person not found in tree"); err != nil {
		return nil, err
	}
	if err := service.requireInTree(context, input.RelatedPersonID, input.TreeID, "Related person not found in tree"); err != nil {
		return nil, err
	}

	inverseKind, _ := input.Type.Inverse()

	forward := &Relationship{
		ID:              uuid.New(),
		TreeID:          input.TreeID,
		PersonID:        input.PersonID,
		RelatedPersonID: input.RelatedPersonID,
		Type:            input.Type,
	}

	var inverseCreated bool
	err := service.tx.WithinTx(context, func(context stdctx.Context) error {
		exists, err := service.repo.Exists(context, forward.PersonID, forward.RelatedPersonID, forward.Type)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("Relationship already exists")
		}

		if err := service.repo.Create(context, forward); err != nil {
			return err
		}

		inverseCreated, err = service.repo.CreateIfAbsent(context, &Relationship{
			ID:              uuid.New(),
			TreeID:          forward.TreeID,
			PersonID:        forward.RelatedPersonID,
			RelatedPersonID: forward.PersonID,
			Type:            inverseKind,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("relationship_created",
		slog.String("relationship_id", forward.ID),
		slog.String("person_id", forward.PersonID),
		slog.String("related_person_id", forward.RelatedPersonID),
		slog.String("type", string(forward.Type)),
		slog.Bool("inverse_created", inverseCreated),
	)
	return forward, nil
}

/*
Delete removes an edge and its inverse when present.

A missing inverse is not an error; a missing edge is.
*/
func (service *Service) Delete(context context.Context, caller sec.Caller, relationshipID string) error {
	relationship, err := service.repo.FindByID(context, relationshipID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return apperr.NotFound("Relationship")
		}
		return err
	}

	if _, err := service.trees.Authorize(context, caller, relationship.TreeID, tree.AccessEdit); err != nil {
		return err
	}

	inverseKind, hasInverse := relationship.Type.Inverse()

	var inverseDeleted bool
	err = service.tx.WithinTx(context, func(context stdctx.Context) error {
		if hasInverse {
			var err error
			inverseDeleted, err = service.repo.DeleteTriple(context, relationship.RelatedPersonID, relationship.PersonID, inverseKind)
			if err != nil {
				return err
			}
		}
		return service.repo.Delete(context, relationship.ID)
	})
	if err != nil {
		if dberr.IsNotFound(err) {
			return apperr.NotFound("Relationship")
		}
		return err
	}

	ctxutil.GetLogger(context).Info("relationship_deleted",
		slog.String("relationship_id", relationship.ID),
		slog.Bool("inverse_deleted", inverseDeleted),
	)
	return nil
}

// ListForPerson returns a person's outgoing edges with the related person's summary.
func (service *Service) ListForPerson(context context.Context, caller sec.Caller, personID string) ([]*WithPerson, error) {
	treeID, err := service.repo.PersonTree(context, personID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("Person")
		}
		return nil, err
	}

	if _, err := service.trees.Authorize(context, caller, treeID, tree.AccessView); err != nil {
		return nil, err
	}

	return service.repo.ListForPerson(context, personID)
}

func (service *Service) requireInTree(context context.Context, personID, treeID, message string) error {
	personTree, err := service.repo.PersonTree(context, personID)
	if err != nil && !dberr.IsNotFound(err) {
		return err
	}

	if err != nil || personTree != treeID {
		return apperr.NotFoundMessage(message)
	}
	return nil
}
