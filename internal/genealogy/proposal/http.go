// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package proposal

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/roots/internal/platform/middleware"
	requestutil "github.com/taibuivan/roots/internal/platform/request"
	"github.com/taibuivan/roots/internal/platform/respond"
	"github.com/taibuivan/roots/internal/platform/sec"
)

// Handler implements the HTTP layer for edit proposals.
type Handler struct {
	service *Service
}

// NewHandler constructs a proposal [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the proposal endpoints.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Post("/proposals", handler.submitProposal)
		authed.Get("/proposals", handler.listProposals)

		authed.With(middleware.RequireRole(sec.RoleAdmin, sec.RoleEditor)).
			Patch("/proposals/{proposalID}", handler.reviewProposal)
	})
}

/*
POST /api/v1/proposals.

Response:
  - 201: Proposal in status pending
  - 400: Empty field_changes
  - 403: Guest caller or no access to the person's tree
*/
func (handler *Handler) submitProposal(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input SubmitInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	proposal, err := handler.service.Submit(request.Context(), caller, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, proposal)
}

// GET /api/v1/proposals?tree_id=&status=
func (handler *Handler) listProposals(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	query := request.URL.Query()
	filter := Filter{
		TreeID: query.Get(FieldTreeID),
		Status: Status(query.Get(FieldStatus)),
	}

	proposals, err := handler.service.List(request.Context(), caller, filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, proposals)
}

/*
PATCH /api/v1/proposals/{proposalID}.

Response:
  - 200: The reviewed proposal
  - 404: Unknown proposal
  - 409: Proposal is no longer pending and the target is not clarification_requested
*/
func (handler *Handler) reviewProposal(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	proposalID, err := requestutil.UUIDParam(request, "proposalID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input ReviewInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	proposal, err := handler.service.Review(request.Context(), caller, proposalID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, proposal)
}
