// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package proposal

import (
	"context"
	stdctx "context"
	"log/slog"
	"time"

	"github.com/taibuivan/roots/internal/genealogy/tree"
	"github.com/taibuivan/roots/internal/platform/apperr"
	"github.com/taibuivan/roots/internal/platform/ctxutil"
	"github.com/taibuivan/roots/internal/platform/dberr"
	"github.com/taibuivan/roots/internal/platform/sec"
	"github.com/taibuivan/roots/internal/platform/validate"
	"github.com/taibuivan/roots/pkg/uuid"
)

// # Contracts

// PersonGateway is the slice of the person store a proposal needs.
type PersonGateway interface {
	// TreeOf returns the tree a person belongs to, or dberr.ErrNotFound.
	TreeOf(context context.Context, personID string) (string, error)

	// ApplyChanges writes the given values onto a person and bumps its
	// modification time. It returns the field names it actually wrote;
	// names that are not editable person attributes are skipped.
	ApplyChanges(context context.Context, personID string, values map[string]*string) ([]string, error)
}

// TreeAuthorizer decides whether a caller may act on a tree.
type TreeAuthorizer interface {
	Authorize(context context.Context, caller sec.Caller, treeID string, level tree.Access) (*tree.Tree, error)
}

// Transactor runs a unit of work atomically.
type Transactor interface {
	WithinTx(context context.Context, fn func(context context.Context) error) error
}

// Service implements submission and review of edit proposals.
type Service struct {
	repo   Repository
	people PersonGateway
	trees  TreeAuthorizer
	tx     Transactor
}

// NewService constructs a proposal [Service].
func NewService(repo Repository, people PersonGateway, trees TreeAuthorizer, tx Transactor) *Service {
	return &Service{repo: repo, people: people, trees: trees, tx: tx}
}

// # Submission

/*
Submit records a pending proposal against a person.

# Rules
  - The caller's role must allow proposing (guests cannot).
  - The caller needs view access to the person's tree.
  - An empty change set is rejected.

Returns:
  - *Proposal: The stored proposal in status pending
  - error: apperr.ValidationError, NotFound or Forbidden
*/
func (service *Service) Submit(context context.Context, caller sec.Caller, input SubmitInput) (*Proposal, error) {
	validator := &validate.Validator{}
	validator.
		UUID(FieldTargetPersonID, input.TargetPersonID).
		Custom(FieldFieldChanges, len(input.FieldChanges) == 0, "At least one field change is required")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if !caller.Role.CanPropose() {
		return nil, apperr.Forbidden("Your role cannot propose changes")
	}

	treeID, err := service.people.TreeOf(context, input.TargetPersonID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("Person")
		}
		return nil, err
	}

	if _, err := service.trees.Authorize(context, caller, treeID, tree.AccessView); err != nil {
		return nil, err
	}

	proposal := &Proposal{
		ID:             uuid.New(),
		ProposedBy:     caller.UserID,
		TargetPersonID: input.TargetPersonID,
		FieldChanges:   input.FieldChanges,
		Status:         StatusPending,
	}

	if err := service.repo.Create(context, proposal); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("proposal_submitted",
		slog.String("proposal_id", proposal.ID),
		slog.String("person_id", proposal.TargetPersonID),
		slog.String("proposed_by", proposal.ProposedBy),
		slog.Int("fields", len(proposal.FieldChanges)),
	)
	return proposal, nil
}

// List returns proposals visible to the caller. Non-reviewers only see their own.
func (service *Service) List(context context.Context, caller sec.Caller, filter Filter) ([]*Proposal, error) {
	validator := &validate.Validator{}
	if filter.TreeID != "" {
		validator.UUID(FieldTreeID, filter.TreeID)
	}
	if filter.Status != "" {
		validator.OneOf(FieldStatus, string(filter.Status), statusStrings()...)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if !caller.IsReviewer() {
		filter.ProposedBy = caller.UserID
	}

	return service.repo.List(context, filter)
}

// # Review

/*
Review moves a proposal to a new status and, on acceptance, applies its
"after" values to the target person.

The status check, the review stamp and the person update share one
transaction with the proposal row locked.

Returns:
  - *Proposal: The reviewed proposal
  - error: apperr.ValidationError, Forbidden, NotFound or Conflict
*/
func (service *Service) Review(context context.Context, caller sec.Caller, proposalID string, input ReviewInput) (*Proposal, error) {
	if !caller.IsReviewer() {
		return nil, apperr.Forbidden("Only editors can review proposals")
	}

	validator := &validate.Validator{}
	validator.
		UUID("proposal_id", proposalID).
		OneOf(FieldStatus, string(input.Status), reviewTargets()...)
	if input.Comment != nil {
		validator.MaxLen(FieldComment, *input.Comment, 2000)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	var (
		proposal *Proposal
		applied  []string
	)

	err := service.tx.WithinTx(context, func(context stdctx.Context) error {
		var err error
		proposal, err = service.repo.FindForUpdate(context, proposalID)
		if err != nil {
			return err
		}

		if !proposal.Status.CanTransitionTo(input.Status) {
			return apperr.Conflict("Proposal is already reviewed")
		}

		reviewer := caller.UserID
		reviewedAt := time.Now().UTC()

		proposal.Status = input.Status
		proposal.ReviewedBy = &reviewer
		proposal.Comment = input.Comment
		proposal.ReviewedAt = &reviewedAt

		if err := service.repo.SaveReview(context, proposal); err != nil {
			return err
		}

		if input.Status != StatusAccepted {
			return nil
		}

		applied, err = service.people.ApplyChanges(context, proposal.TargetPersonID, proposal.FieldChanges.afterValues())
		return err
	})
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("Proposal")
		}
		return nil, err
	}

	ctxutil.GetLogger(context).Info("proposal_reviewed",
		slog.String("proposal_id", proposal.ID),
		slog.String("status", string(proposal.Status)),
		slog.String("reviewed_by", caller.UserID),
		slog.Any("applied_fields", applied),
	)
	return proposal, nil
}

// reviewTargets lists the statuses a reviewer may set. Pending is the initial state only.
func reviewTargets() []string {
	return []string{string(StatusAccepted), string(StatusRejected), string(StatusClarificationRequested)}
}

func (changes FieldChanges) afterValues() map[string]*string {
	values := make(map[string]*string, len(changes))
	for field, change := range changes {
		values[field] = change.After
	}
	return values
}
