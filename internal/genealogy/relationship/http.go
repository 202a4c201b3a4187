// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package relationship

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/roots/internal/platform/middleware"
	requestutil "github.com/taibuivan/roots/internal/platform/request"
	"github.com/taibuivan/roots/internal/platform/respond"
)

// Handler implements the HTTP layer for relationships.
type Handler struct {
	service *Service
}

// NewHandler constructs a relationship [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the relationship endpoints.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Post("/relationships", handler.createRelationship)
		authed.Delete("/relationships/{relationshipID}", handler.deleteRelationship)
		authed.Get("/persons/{personID}/relationships", handler.listForPerson)
	})
}

/*
POST /api/v1/relationships.

Response:
  - 201: Relationship: the forward edge (its inverse is created alongside)
  - 404: Person not found in tree
  - 409: The forward edge already exists
*/
func (handler *Handler) createRelationship(writer http.ResponseWriter, request *http.Request) {
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

	relationship, err := handler.service.Create(request.Context(), caller, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, relationship)
}

func (handler *Handler) deleteRelationship(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	relationshipID, err := requestutil.UUIDParam(request, "relationshipID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), caller, relationshipID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) listForPerson(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	personID, err := requestutil.UUIDParam(request, "personID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	relationships, err := handler.service.ListForPerson(request.Context(), caller, personID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, relationships)
}
