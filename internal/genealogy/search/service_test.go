// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/roots/internal/genealogy/person"
	"github.com/taibuivan/roots/internal/genealogy/search"
	"github.com/taibuivan/roots/internal/genealogy/tree"
	"github.com/taibuivan/roots/internal/platform/apperr"
	"github.com/taibuivan/roots/internal/platform/ctxutil"
	"github.com/taibuivan/roots/internal/platform/sec"
)

const (
	treeID    = "0190a6c0-0000-7000-8000-0000000000e1"
	otherTree = "0190a6c0-0000-7000-8000-0000000000e2"
	userID    = "0190a6c0-0000-7000-8000-0000000000f1"
	adminID   = "0190a6c0-0000-7000-8000-0000000000f9"
)

var (
	user  = sec.Caller{UserID: userID, Role: sec.RoleUser}
	admin = sec.Caller{UserID: adminID, Role: sec.RoleAdmin}
)

type recordingFinder struct {
	queries []person.SearchQuery
}

func (finder *recordingFinder) Search(_ context.Context, query person.SearchQuery) ([]*person.Person, error) {
	finder.queries = append(finder.queries, query)
	return []*person.Person{{ID: "p1", TreeID: treeID, FirstName: "Anna", LastName: "Ivanova"}}, nil
}

type fakeTrees struct{}

func (fakeTrees) Authorize(_ context.Context, caller sec.Caller, id string, _ tree.Access) (*tree.Tree, error) {
	if id != treeID {
		return nil, apperr.NotFound("Tree")
	}
	if caller.UserID != userID && !caller.IsAdmin() {
		return nil, apperr.Forbidden("Access denied")
	}
	return &tree.Tree{ID: id, OwnerID: userID}, nil
}

func TestSearch_Scopes(t *testing.T) {
	tests := []struct {
		name   string
		caller sec.Caller
		treeID string
		want   person.SearchQuery
	}{
		{"user_without_tree_searches_owned", user, "", person.SearchQuery{Term: "anna", OwnerID: userID, Limit: search.MaxResults}},
		{"admin_without_tree_searches_all", admin, "", person.SearchQuery{Term: "anna", Limit: search.MaxResults}},
		{"user_with_tree", user, treeID, person.SearchQuery{Term: "anna", TreeID: treeID, Limit: search.MaxResults}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := &recordingFinder{}
			service := search.NewService(finder, fakeTrees{})

			results, err := service.Search(context.Background(), tt.caller, "  anna ", tt.treeID)
			require.NoError(t, err)
			assert.Len(t, results, 1)
			require.Len(t, finder.queries, 1)
			assert.Equal(t, tt.want, finder.queries[0])
		})
	}
}

func TestSearch_Rejections(t *testing.T) {
	stranger := sec.Caller{UserID: "0190a6c0-0000-7000-8000-0000000000f5", Role: sec.RoleUser}

	tests := []struct {
		name   string
		caller sec.Caller
		term   string
		treeID string
		status int
	}{
		{"blank_term", user, "   ", "", http.StatusBadRequest},
		{"bad_tree_id", user, "anna", "x", http.StatusBadRequest},
		{"unknown_tree", user, "anna", otherTree, http.StatusNotFound},
		{"no_access", stranger, "anna", treeID, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := &recordingFinder{}
			service := search.NewService(finder, fakeTrees{})

			_, err := service.Search(context.Background(), tt.caller, tt.term, tt.treeID)
			require.Error(t, err)
			assert.Equal(t, tt.status, apperr.As(err).HTTPStatus)
			assert.Empty(t, finder.queries)
		})
	}
}

func TestHandler_Search(t *testing.T) {
	router := chi.NewRouter()
	search.NewHandler(search.NewService(&recordingFinder{}, fakeTrees{})).RegisterRoutes(router)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/search?q=anna", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	request := httptest.NewRequest(http.MethodGet, "/search?q=anna&tree_id="+treeID, nil)
	request = request.WithContext(ctxutil.WithCaller(request.Context(), &user))
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"last_name":"Ivanova"`)
}
