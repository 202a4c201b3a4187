// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package invitation

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/roots/internal/platform/apperr"
	"github.com/taibuivan/roots/internal/platform/ctxutil"
	"github.com/taibuivan/roots/internal/platform/dberr"
	"github.com/taibuivan/roots/internal/platform/sec"
	"github.com/taibuivan/roots/internal/platform/validate"
	"github.com/taibuivan/roots/pkg/uuid"
)

// PersonLookup checks that an invitation target exists.
type PersonLookup interface {
	// TreeOf returns the tree a person belongs to, or dberr.ErrNotFound.
	TreeOf(context context.Context, personID string) (string, error)
}

// Service implements invitation use cases.
type Service struct {
	repo    Repository
	persons PersonLookup
	now     func() time.Time
}

// NewService constructs an invitation [Service].
func NewService(repo Repository, persons PersonLookup) *Service {
	return &Service{repo: repo, persons: persons, now: time.Now}
}

/*
Create issues a new invitation owned by the caller.

# Rules
  - Admin only.
  - expires_hours defaults to 72 and must lie in 1..8760.
  - max_uses defaults to 1 and must lie in 1..1000.
  - target_person_id, when given, must reference an existing person.
*/
func (service *Service) Create(context context.Context, caller sec.Caller, input CreateInput) (*Invitation, error) {
	if !caller.IsAdmin() {
		return nil, apperr.Forbidden("Only admins can create invitations")
	}

	hours := DefaultExpiresHours
	if input.ExpiresHours != nil {
		hours = *input.ExpiresHours
	}
	uses := DefaultMaxUses
	if input.MaxUses != nil {
		uses = *input.MaxUses
	}

	validator := &validate.Validator{}
	validator.
		Range(FieldExpiresHours, hours, 1, MaxExpiresHours).
		Range(FieldMaxUses, uses, 1, MaxUses)
	if input.TargetPersonID != nil {
		validator.UUID(FieldTargetPersonID, *input.TargetPersonID)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.TargetPersonID != nil {
		if _, err := service.persons.TreeOf(context, *input.TargetPersonID); err != nil {
			if dberr.IsNotFound(err) {
				return nil, apperr.NotFound("Person")
			}
			return nil, err
		}
	}

	token, err := sec.GenerateSecureToken(TokenBytes)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	invitation := &Invitation{
		ID:             uuid.New(),
		Token:          token,
		CreatedBy:      caller.UserID,
		TargetPersonID: input.TargetPersonID,
		ExpiresAt:      service.now().UTC().Add(time.Duration(hours) * time.Hour),
		MaxUses:        uses,
	}

	if err := service.repo.Create(context, invitation); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("invitation_created",
		slog.String("invitation_id", invitation.ID),
		slog.String("token_prefix", tokenPrefix(token)),
		slog.Int("max_uses", uses),
		slog.Int("expires_hours", hours),
	)
	return invitation, nil
}

// List returns the invitations the caller created.
func (service *Service) List(context context.Context, caller sec.Caller) ([]*Invitation, error) {
	return service.repo.ListByCreator(context, caller.UserID)
}

// Validate answers whether a token can be used right now. It never fails on
// unknown tokens; the answer says so instead.
func (service *Service) Validate(context context.Context, token string) (*Validation, error) {
	invitation, err := service.repo.FindByToken(context, token)
	if err != nil {
		if dberr.IsNotFound(err) {
			return &Validation{Valid: false, Message: MessageInvalid}, nil
		}
		return nil, err
	}

	valid, message := invitation.Check(service.now())
	result := &Validation{Valid: valid, Message: message}
	if valid {
		result.TargetPersonID = invitation.TargetPersonID
	}
	return result, nil
}

// Revoke deletes an invitation. Only its creator may revoke it.
func (service *Service) Revoke(context context.Context, caller sec.Caller, invitationID string) error {
	invitation, err := service.repo.FindByID(context, invitationID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return apperr.NotFound("Invitation")
		}
		return err
	}

	if invitation.CreatedBy != caller.UserID {
		return apperr.Forbidden("Not your invitation")
	}

	if err := service.repo.Delete(context, invitationID); err != nil {
		if dberr.IsNotFound(err) {
			return apperr.NotFound("Invitation")
		}
		return err
	}

	ctxutil.GetLogger(context).Info("invitation_revoked",
		slog.String("invitation_id", invitationID),
		slog.String("token_prefix", tokenPrefix(invitation.Token)),
	)
	return nil
}

/*
Consume spends one use of a token during registration.

Concurrent consumers of the last remaining use race on a single conditional
update, so at most max_uses registrations succeed.

Returns:
  - *Invitation: The invitation after the increment
  - error: apperr.ValidationError on invitation_token naming the reason
*/
func (service *Service) Consume(context context.Context, token string) (*Invitation, error) {
	invitation, err := service.repo.Consume(context, token, service.now())
	if err == nil {
		ctxutil.GetLogger(context).Info("invitation_consumed",
			slog.String("invitation_id", invitation.ID),
			slog.Int("used_count", invitation.UsedCount),
		)
		return invitation, nil
	}
	if !dberr.IsNotFound(err) {
		return nil, err
	}

	validation, err := service.Validate(context, token)
	if err != nil {
		return nil, err
	}

	message := validation.Message
	if validation.Valid {
		// Lost the race for the last use between the update and the lookup.
		message = MessageUsedUp
	}
	return nil, validate.RequiredError(FieldInvitationToken, message)
}

func tokenPrefix(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8]
}
