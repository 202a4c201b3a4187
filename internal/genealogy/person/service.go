// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package person

import (
	"context"
	stdctx "context"
	"log/slog"

	"github.com/taibuivan/roots/internal/genealogy/proposal"
	"github.com/taibuivan/roots/internal/genealogy/tree"
	"github.com/taibuivan/roots/internal/platform/apperr"
	"github.com/taibuivan/roots/internal/platform/ctxutil"
	"github.com/taibuivan/roots/internal/platform/dberr"
	"github.com/taibuivan/roots/internal/platform/sec"
	"github.com/taibuivan/roots/internal/platform/validate"
	"github.com/taibuivan/roots/pkg/pointer"
	"github.com/taibuivan/roots/pkg/uuid"
)

const maxTextLength = 200

// # Contracts

// TreeAuthorizer decides whether a caller may act on a tree.
type TreeAuthorizer interface {
	Authorize(context context.Context, caller sec.Caller, treeID string, level tree.Access) (*tree.Tree, error)
}

// ProposalSubmitter records edit proposals for contributors without edit rights.
type ProposalSubmitter interface {
	Submit(context context.Context, caller sec.Caller, input proposal.SubmitInput) (*proposal.Proposal, error)
}

// BlobRemover deletes stored media. Failures are reported, never returned.
type BlobRemover interface {
	Delete(context context.Context, url string) bool
}

// Transactor runs a unit of work atomically.
type Transactor interface {
	WithinTx(context context.Context, fn func(context context.Context) error) error
}

// Service implements person use cases.
type Service struct {
	repo      Repository
	trees     TreeAuthorizer
	proposals ProposalSubmitter
	blobs     BlobRemover
	tx        Transactor
}

// NewService constructs a person [Service].
func NewService(repo Repository, trees TreeAuthorizer, proposals ProposalSubmitter, blobs BlobRemover, tx Transactor) *Service {
	return &Service{repo: repo, trees: trees, proposals: proposals, blobs: blobs, tx: tx}
}

// UpdateResult is the outcome of [Service.Update]. Exactly one of the two is set.
type UpdateResult struct {
	Person   *Person
	Proposal *proposal.Proposal
}

// # Access

/*
Authorize loads a person and checks the caller's access to its tree.

Returns:
  - *Person: The person
  - *tree.Tree: Its tree
  - error: apperr.NotFound or Forbidden
*/
func (service *Service) Authorize(context context.Context, caller sec.Caller, personID string, level tree.Access) (*Person, *tree.Tree, error) {
	person, err := service.repo.FindByID(context, personID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, nil, apperr.NotFound("Person")
		}
		return nil, nil, err
	}

	owningTree, err := service.trees.Authorize(context, caller, person.TreeID, level)
	if err != nil {
		return nil, nil, err
	}

	return person, owningTree, nil
}

// # Queries

// Get returns one person the caller can view.
func (service *Service) Get(context context.Context, caller sec.Caller, personID string) (*Person, error) {
	person, _, err := service.Authorize(context, caller, personID, tree.AccessView)
	return person, err
}

// ListByTree returns the persons of a tree the caller can view.
func (service *Service) ListByTree(context context.Context, caller sec.Caller, treeID string) ([]*Person, error) {
	if _, err := service.trees.Authorize(context, caller, treeID, tree.AccessView); err != nil {
		return nil, err
	}
	return service.repo.ListByTree(context, treeID)
}

// # Commands

/*
Create adds a person to a tree.

# Rules
  - Caller needs edit access to the tree.
  - First and last name are required.

Returns:
  - *Person: The stored person
  - error: apperr.ValidationError, NotFound or Forbidden
*/
func (service *Service) Create(context context.Context, caller sec.Caller, treeID string, input Input) (*Person, error) {
	values := input.Values()

	validator := &validate.Validator{}
	validator.
		Required(FieldFirstName, pointer.Val(values[FieldFirstName])).
		Required(FieldLastName, pointer.Val(values[FieldLastName]))
	validateValues(validator, values)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.trees.Authorize(context, caller, treeID, tree.AccessEdit); err != nil {
		return nil, err
	}

	person := &Person{
		ID:          uuid.New(),
		TreeID:      treeID,
		FirstName:   *values[FieldFirstName],
		LastName:    *values[FieldLastName],
		Patronymic:  values[FieldPatronymic],
		MaidenName:  values[FieldMaidenName],
		Gender:      values[FieldGender],
		BirthDate:   values[FieldBirthDate],
		BirthPlace:  values[FieldBirthPlace],
		DeathDate:   values[FieldDeathDate],
		DeathPlace:  values[FieldDeathPlace],
		BurialPlace: values[FieldBurialPlace],
		Residence:   values[FieldResidence],
	}

	if err := service.repo.Create(context, person); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("person_created",
		slog.String("person_id", person.ID),
		slog.String("tree_id", treeID),
	)
	return person, nil
}

/*
Update changes a person directly or through an edit proposal.

# Rules
  - Owner, editor and admin: the fields are written at once.
  - Other users with view access: the changed fields become a pending
    proposal. Nothing changed means nothing is stored and the person is
    returned as is.
  - Guests cannot edit.

Returns:
  - UpdateResult: Person for the direct path and the no-op, Proposal otherwise
  - error: apperr.ValidationError, NotFound or Forbidden
*/
func (service *Service) Update(context context.Context, caller sec.Caller, personID string, input Input) (UpdateResult, error) {
	values := input.Values()

	validator := &validate.Validator{}
	for _, field := range []string{FieldFirstName, FieldLastName} {
		if value, ok := values[field]; ok {
			validator.Required(field, pointer.Val(value))
		}
	}
	validateValues(validator, values)
	if err := validator.Err(); err != nil {
		return UpdateResult{}, err
	}

	person, owningTree, err := service.Authorize(context, caller, personID, tree.AccessView)
	if err != nil {
		return UpdateResult{}, err
	}

	if canEdit(caller, owningTree) {
		updated, err := service.patch(context, personID, values)
		if err != nil {
			return UpdateResult{}, err
		}

		ctxutil.GetLogger(context).Info("person_updated",
			slog.String("person_id", personID),
			slog.Int("fields", len(values)),
		)
		return UpdateResult{Person: updated}, nil
	}

	if !caller.Role.CanPropose() {
		return UpdateResult{}, apperr.Forbidden("Your role cannot edit persons")
	}

	changes := proposal.Diff(person.Snapshot(), values)
	if len(changes) == 0 {
		return UpdateResult{Person: person}, nil
	}

	submitted, err := service.proposals.Submit(context, caller, proposal.SubmitInput{
		TargetPersonID: personID,
		FieldChanges:   changes,
	})
	if err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{Proposal: submitted}, nil
}

/*
Delete removes a person with everything attached to it. Admin only.

Stored media is deleted after the row. A blob that fails to delete is
logged and left behind.
*/
func (service *Service) Delete(context context.Context, caller sec.Caller, personID string) error {
	if !caller.IsAdmin() {
		return apperr.Forbidden("Only admins can delete persons")
	}

	var urls []string
	err := service.tx.WithinTx(context, func(context stdctx.Context) error {
		var err error
		urls, err = service.repo.MediaURLs(context, personID)
		if err != nil {
			return err
		}
		return service.repo.Delete(context, personID)
	})
	if err != nil {
		if dberr.IsNotFound(err) {
			return apperr.NotFound("Person")
		}
		return err
	}

	removed := 0
	for _, url := range urls {
		if service.blobs.Delete(context, url) {
			removed++
		}
	}

	ctxutil.GetLogger(context).Info("person_deleted",
		slog.String("person_id", personID),
		slog.Int("blobs", len(urls)),
		slog.Int("blobs_removed", removed),
	)
	return nil
}

// SetAvatar replaces the avatar URLs of a person. Access is checked by the caller.
func (service *Service) SetAvatar(context context.Context, personID string, url, thumbURL *string) error {
	if err := service.repo.SetAvatar(context, personID, url, thumbURL); err != nil {
		if dberr.IsNotFound(err) {
			return apperr.NotFound("Person")
		}
		return err
	}
	return nil
}

// # Helpers

func (service *Service) patch(context context.Context, personID string, values map[string]*string) (*Person, error) {
	var updated *Person
	err := service.tx.WithinTx(context, func(context stdctx.Context) error {
		if err := service.repo.Patch(context, personID, values); err != nil {
			return err
		}

		var err error
		updated, err = service.repo.FindByID(context, personID)
		return err
	})
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("Person")
		}
		return nil, err
	}
	return updated, nil
}

func canEdit(caller sec.Caller, owningTree *tree.Tree) bool {
	return caller.Role.CanEditAnyTree() || owningTree.OwnerID == caller.UserID
}

// validateValues checks lengths, dates and gender of the supplied fields.
func validateValues(validator *validate.Validator, values map[string]*string) {
	for _, field := range EditableFields {
		value := values[field]
		if value == nil {
			continue
		}

		switch {
		case isDateField(field):
			validator.Date(field, *value)
		case field == FieldGender:
			validator.OneOf(field, *value, Genders...)
		default:
			validator.MaxLen(field, *value, maxTextLength)
		}
	}
}
