// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tree

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/roots/internal/platform/middleware"
	requestutil "github.com/taibuivan/roots/internal/platform/request"
	"github.com/taibuivan/roots/internal/platform/respond"
)

// Handler implements the HTTP layer for trees.
type Handler struct {
	service *Service
}

// NewHandler constructs a tree [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the tree endpoints on an authenticated router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Get("/trees", handler.listTrees)
		authed.Post("/trees", handler.createTree)
		authed.Get("/trees/{treeID}", handler.getTree)
		authed.Delete("/trees/{treeID}", handler.deleteTree)
		authed.Get("/trees/{treeID}/nodes", handler.getNodes)
	})
}

func (handler *Handler) listTrees(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	trees, err := handler.service.List(request.Context(), caller)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, trees)
}

func (handler *Handler) createTree(writer http.ResponseWriter, request *http.Request) {
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

	tree, err := handler.service.Create(request.Context(), caller, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, tree)
}

func (handler *Handler) getTree(writer http.ResponseWriter, request *http.Request) {
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

	tree, err := handler.service.Get(request.Context(), caller, treeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tree)
}

func (handler *Handler) deleteTree(writer http.ResponseWriter, request *http.Request) {
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

	if err := handler.service.Delete(request.Context(), caller, treeID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
GET /api/v1/trees/{treeID}/nodes.

Response:
  - 200: Graph: nodes with generation and position, plus every relationship edge
  - 403: Caller cannot view the tree
  - 404: Tree does not exist
*/
func (handler *Handler) getNodes(writer http.ResponseWriter, request *http.Request) {
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

	graph, err := handler.service.Nodes(request.Context(), caller, treeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, graph)
}
