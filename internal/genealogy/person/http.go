// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package person

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/roots/internal/platform/middleware"
	requestutil "github.com/taibuivan/roots/internal/platform/request"
	"github.com/taibuivan/roots/internal/platform/respond"
	"github.com/taibuivan/roots/internal/platform/sec"
)

// Handler implements the HTTP layer for persons.
type Handler struct {
	service *Service
}

// NewHandler constructs a person [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the person endpoints.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Get("/trees/{treeID}/persons", handler.listPersons)
		authed.Post("/trees/{treeID}/persons", handler.createPerson)
		authed.Get("/persons/{personID}", handler.getPerson)
		authed.Put("/persons/{personID}", handler.updatePerson)

		authed.With(middleware.RequireRole(sec.RoleAdmin)).
			Delete("/persons/{personID}", handler.deletePerson)
	})
}

func (handler *Handler) listPersons(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	treeID, err := requestutil.UUIDParam(request, "treeID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	persons, err := handler.service.ListByTree(request.Context(), caller, treeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, persons)
}

func (handler *Handler) createPerson(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	treeID, err := requestutil.UUIDParam(request, "treeID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	person, err := handler.service.Create(request.Context(), caller, treeID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, person)
}

func (handler *Handler) getPerson(writer http.ResponseWriter, request *http.Request) {
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

	person, err := handler.service.Get(request.Context(), caller, personID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, person)
}

/*
PUT /api/v1/persons/{personID}.

Response:
  - 200: Person: updated directly, or unchanged when the proposal diff is empty
  - 202: Proposal: the change awaits review
  - 403: Guest caller or no access to the tree
*/
func (handler *Handler) updatePerson(writer http.ResponseWriter, request *http.Request) {
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

	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Update(request.Context(), caller, personID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if result.Proposal != nil {
		respond.Accepted(writer, result.Proposal)
		return
	}
	respond.OK(writer, result.Person)
}

func (handler *Handler) deletePerson(writer http.ResponseWriter, request *http.Request) {
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

	if err := handler.service.Delete(request.Context(), caller, personID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
