// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package section

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/roots/internal/platform/middleware"
	requestutil "github.com/taibuivan/roots/internal/platform/request"
	"github.com/taibuivan/roots/internal/platform/respond"
)

// Handler implements the HTTP layer for sections.
type Handler struct {
	service *Service
}

// NewHandler constructs a section [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the section endpoints.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Get("/persons/{personID}/sections", handler.listSections)
		authed.Post("/persons/{personID}/sections", handler.createSection)
		authed.Put("/sections/{sectionID}", handler.updateSection)
		authed.Delete("/sections/{sectionID}", handler.deleteSection)
	})
}

func (handler *Handler) listSections(writer http.ResponseWriter, request *http.Request) {
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

	sections, err := handler.service.List(request.Context(), caller, personID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, sections)
}

func (handler *Handler) createSection(writer http.ResponseWriter, request *http.Request) {
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

	var input CreateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	section, err := handler.service.Create(request.Context(), caller, personID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, section)
}

func (handler *Handler) updateSection(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	sectionID, err := requestutil.UUIDParam(request, "sectionID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	section, err := handler.service.Update(request.Context(), caller, sectionID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, section)
}

func (handler *Handler) deleteSection(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	sectionID, err := requestutil.UUIDParam(request, "sectionID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), caller, sectionID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
