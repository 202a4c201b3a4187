// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package section_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/roots/internal/genealogy/person"
	"github.com/taibuivan/roots/internal/genealogy/section"
	"github.com/taibuivan/roots/internal/genealogy/tree"
	"github.com/taibuivan/roots/internal/platform/apperr"
	"github.com/taibuivan/roots/internal/platform/ctxutil"
	"github.com/taibuivan/roots/internal/platform/dberr"
	"github.com/taibuivan/roots/internal/platform/sec"
)

const (
	personID  = "0190a6c0-0000-7000-8000-0000000000a1"
	ownerID   = "0190a6c0-0000-7000-8000-0000000000f1"
	viewerID  = "0190a6c0-0000-7000-8000-0000000000b1"
	missingID = "0190a6c0-0000-7000-8000-0000000000d9"
)

var (
	owner  = sec.Caller{UserID: ownerID, Role: sec.RoleUser}
	viewer = sec.Caller{UserID: viewerID, Role: sec.RoleUser}
)

func ptr[T any](value T) *T { return &value }

type fakeRepository struct {
	sections map[string]*section.Section
}

func (repo *fakeRepository) ListByPerson(_ context.Context, id string) ([]*section.Section, error) {
	result := []*section.Section{}
	for _, s := range repo.sections {
		if s.PersonID == id {
			result = append(result, s)
		}
	}
	return result, nil
}

func (repo *fakeRepository) FindByID(_ context.Context, id string) (*section.Section, error) {
	if s, ok := repo.sections[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, dberr.ErrNotFound
}

func (repo *fakeRepository) Create(_ context.Context, s *section.Section) error {
	repo.sections[s.ID] = s
	return nil
}

func (repo *fakeRepository) Update(_ context.Context, s *section.Section) error {
	repo.sections[s.ID] = s
	return nil
}

func (repo *fakeRepository) Delete(_ context.Context, id string) error {
	delete(repo.sections, id)
	return nil
}

type fakePersons struct{}

func (fakePersons) Authorize(_ context.Context, caller sec.Caller, id string, level tree.Access) (*person.Person, *tree.Tree, error) {
	if id != personID {
		return nil, nil, apperr.NotFound("Person")
	}
	if caller.UserID == ownerID || (caller.UserID == viewerID && level == tree.AccessView) {
		return &person.Person{ID: id}, &tree.Tree{OwnerID: ownerID}, nil
	}
	return nil, nil, apperr.Forbidden("Access denied")
}

func newService() (*section.Service, *fakeRepository) {
	repo := &fakeRepository{sections: map[string]*section.Section{}}
	return section.NewService(repo, fakePersons{}), repo
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected AppError, got %v", err)
	return appError.HTTPStatus
}

func TestCreate_SanitisesContent(t *testing.T) {
	service, _ := newService()

	created, err := service.Create(context.Background(), owner, personID, section.CreateInput{
		Title:       "  Early life ",
		ContentHTML: ptr(`<p onclick="steal()">Born in <b>Kyiv</b><script>alert(1)</script></p><a href="javascript:alert(1)">x</a>`),
	})
	require.NoError(t, err)

	assert.Equal(t, "Early life", created.Title)
	require.NotNil(t, created.ContentHTML)
	assert.Contains(t, *created.ContentHTML, "<b>Kyiv</b>")
	assert.NotContains(t, *created.ContentHTML, "script")
	assert.NotContains(t, *created.ContentHTML, "onclick")
	assert.NotContains(t, *created.ContentHTML, "javascript:")
}

func TestCreate_BlankContentStoredAsNull(t *testing.T) {
	service, _ := newService()

	created, err := service.Create(context.Background(), owner, personID, section.CreateInput{
		Title:       "Notes",
		ContentHTML: ptr("<script>only()</script>"),
	})
	require.NoError(t, err)
	assert.Nil(t, created.ContentHTML)
}

func TestCreate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		caller sec.Caller
		input  section.CreateInput
		status int
	}{
		{"missing_title", owner, section.CreateInput{Title: "   "}, http.StatusBadRequest},
		{"long_title", owner, section.CreateInput{Title: strings.Repeat("a", 201)}, http.StatusBadRequest},
		{"negative_order", owner, section.CreateInput{Title: "x", SortOrder: -1}, http.StatusBadRequest},
		{"view_only", viewer, section.CreateInput{Title: "x"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := newService()

			_, err := service.Create(context.Background(), tt.caller, personID, tt.input)

			require.Error(t, err)
			assert.Equal(t, tt.status, statusOf(t, err))
			assert.Empty(t, repo.sections)
		})
	}
}

func TestUpdateAndDelete(t *testing.T) {
	service, repo := newService()
	created, err := service.Create(context.Background(), owner, personID, section.CreateInput{Title: "War years"})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), owner, created.ID, section.UpdateInput{
		ContentHTML: ptr("<i>1941</i>"),
		SortOrder:   ptr(2),
	})
	require.NoError(t, err)
	assert.Equal(t, "War years", updated.Title)
	assert.Equal(t, "<i>1941</i>", *updated.ContentHTML)
	assert.Equal(t, 2, updated.SortOrder)

	_, err = service.Update(context.Background(), viewer, created.ID, section.UpdateInput{Title: ptr("Mine")})
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	listed, err := service.List(context.Background(), viewer, personID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	require.NoError(t, service.Delete(context.Background(), owner, created.ID))
	assert.Empty(t, repo.sections)

	err = service.Delete(context.Background(), owner, missingID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestHandler_Create(t *testing.T) {
	service, _ := newService()
	router := chi.NewRouter()
	section.NewHandler(service).RegisterRoutes(router)

	request := httptest.NewRequest(http.MethodPost, "/persons/"+personID+"/sections", strings.NewReader(`{"title":"Childhood","content_html":"<p>ok</p>"}`))
	request = request.WithContext(ctxutil.WithCaller(request.Context(), &owner))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"title":"Childhood"`)
}
