// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"

	"github.com/taibuivan/roots/internal/platform/apperr"
	"github.com/taibuivan/roots/internal/platform/ctxutil"
	"github.com/taibuivan/roots/internal/platform/dberr"
	"github.com/taibuivan/roots/internal/platform/sec"
	"github.com/taibuivan/roots/internal/platform/validate"
	"github.com/taibuivan/roots/internal/users/auth"
	"github.com/taibuivan/roots/pkg/pagination"
	"github.com/taibuivan/roots/pkg/slice"
)

// Service implements the admin use cases. Every method requires an admin caller.
type Service struct {
	repo Repository
}

// NewService constructs an account [Service].
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListUsers returns one page of accounts, newest first.
func (service *Service) ListUsers(context context.Context, caller sec.Caller, params pagination.Params) ([]*auth.User, pagination.Meta, error) {
	if !caller.IsAdmin() {
		return nil, pagination.Meta{}, apperr.Forbidden("Admin role required")
	}

	users, total, err := service.repo.List(context, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return users, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
UpdateUser changes the role and/or status of an account.

# Rules
  - Role and status must be known values.
  - An admin cannot take the admin role away from themselves.
*/
func (service *Service) UpdateUser(context context.Context, caller sec.Caller, userID string, input UpdateInput) (*auth.User, error) {
	if !caller.IsAdmin() {
		return nil, apperr.Forbidden("Admin role required")
	}

	validator := &validate.Validator{}
	validator.UUID("user_id", userID)
	if input.Role != nil {
		validator.OneOf(FieldRole, string(*input.Role), slice.Map(sec.Roles, func(role sec.UserRole) string { return string(role) })...)
	}
	if input.Status != nil {
		validator.Custom(FieldStatus, !input.Status.IsValid(), "Must be one of: active, pending, blocked")
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if userID == caller.UserID && input.Role != nil && *input.Role != sec.RoleAdmin {
		return nil, validate.RequiredError(FieldRole, "Cannot remove your own admin role")
	}

	user, err := service.repo.FindByID(context, userID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, err
	}

	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Status != nil {
		user.Status = *input.Status
	}

	if err := service.repo.Update(context, user.ID, user.Role, user.Status); err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, err
	}

	ctxutil.GetLogger(context).Info("user_updated_by_admin",
		slog.String("user_id", user.ID),
		slog.String("admin_id", caller.UserID),
		slog.String("role", string(user.Role)),
		slog.String("status", string(user.Status)),
	)
	return user, nil
}

// Stats returns the site-wide counters.
func (service *Service) Stats(context context.Context, caller sec.Caller) (*Stats, error) {
	if !caller.IsAdmin() {
		return nil, apperr.Forbidden("Admin role required")
	}
	return service.repo.Stats(context)
}
