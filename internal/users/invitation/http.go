// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package invitation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/roots/internal/platform/middleware"
	requestutil "github.com/taibuivan/roots/internal/platform/request"
	"github.com/taibuivan/roots/internal/platform/respond"
	"github.com/taibuivan/roots/internal/platform/sec"
	"github.com/taibuivan/roots/internal/platform/validate"
)

// Handler implements the HTTP layer for invitations.
type Handler struct {
	service *Service
}

// NewHandler constructs an invitation [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the invitation endpoints. Token validation is public.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/invitations/{token}", handler.validateToken)

	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		admin := authed.With(middleware.RequireRole(sec.RoleAdmin))
		admin.Post("/invitations", handler.createInvitation)
		admin.Get("/invitations", handler.listInvitations)
		admin.Delete("/invitations/{invitationID}", handler.revokeInvitation)
	})
}

func (handler *Handler) createInvitation(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	invitation, err := handler.service.Create(request.Context(), caller, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, invitation)
}

func (handler *Handler) listInvitations(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	invitations, err := handler.service.List(request.Context(), caller)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, invitations)
}

func (handler *Handler) validateToken(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, "token")
	if token == "" {
		respond.Error(writer, request, validate.RequiredError("token", "Token is required"))
		return
	}

	validation, err := handler.service.Validate(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, validation)
}

func (handler *Handler) revokeInvitation(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	invitationID, err := requestutil.UUIDParam(request, "invitationID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Revoke(request.Context(), caller, invitationID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
