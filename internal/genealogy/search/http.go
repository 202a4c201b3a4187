// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/roots/internal/platform/middleware"
	requestutil "github.com/taibuivan/roots/internal/platform/request"
	"github.com/taibuivan/roots/internal/platform/respond"
)

// Handler implements the HTTP layer for search.
type Handler struct {
	service *Service
}

// NewHandler constructs a search [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts GET /search.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.With(middleware.RequireAuth).Get("/search", handler.search)
}

func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	query := request.URL.Query()
	persons, err := handler.service.Search(request.Context(), caller, query.Get(FieldQuery), query.Get(FieldTreeID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, persons)
}
