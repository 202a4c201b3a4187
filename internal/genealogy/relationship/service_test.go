// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package relationship_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/roots/internal/genealogy/kinship"
	"github.com/taibuivan/roots/internal/genealogy/relationship"
	"github.com/taibuivan/roots/internal/genealogy/tree"
	"github.com/taibuivan/roots/internal/platform/apperr"
	"github.com/taibuivan/roots/internal/platform/ctxutil"
	"github.com/taibuivan/roots/internal/platform/dberr"
	"github.com/taibuivan/roots/internal/platform/sec"
)

const (
	treeID      = "0190a6c0-0000-7000-8000-00000000000a"
	otherTreeID = "0190a6c0-0000-7000-8000-00000000000b"
	alice       = "0190a6c0-0000-7000-8000-0000000000a1"
	bob         = "0190a6c0-0000-7000-8000-0000000000a2"
	outsider    = "0190a6c0-0000-7000-8000-0000000000c1"
	ownerID     = "0190a6c0-0000-7000-8000-0000000000f1"
)

var owner = sec.Caller{UserID: ownerID, Role: sec.RoleUser}

// # Fakes

type fakeRepository struct {
	personTree map[string]string
	edges      []*relationship.Relationship
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		personTree: map[string]string{alice: treeID, bob: treeID, outsider: otherTreeID},
	}
}

func (repo *fakeRepository) PersonTree(_ context.Context, personID string) (string, error) {
	if id, ok := repo.personTree[personID]; ok {
		return id, nil
	}
	return "", dberr.ErrNotFound
}

func (repo *fakeRepository) FindByID(_ context.Context, id string) (*relationship.Relationship, error) {
	for _, edge := range repo.edges {
		if edge.ID == id {
			return edge, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repo *fakeRepository) Exists(_ context.Context, personID, relatedID string, kind kinship.Kind) (bool, error) {
	return repo.find(personID, relatedID, kind) >= 0, nil
}

func (repo *fakeRepository) Create(_ context.Context, edge *relationship.Relationship) error {
	if repo.find(edge.PersonID, edge.RelatedPersonID, edge.Type) >= 0 {
		return apperr.Conflict("Resource already exists")
	}
	repo.edges = append(repo.edges, edge)
	return nil
}

func (repo *fakeRepository) CreateIfAbsent(_ context.Context, edge *relationship.Relationship) (bool, error) {
	if repo.find(edge.PersonID, edge.RelatedPersonID, edge.Type) >= 0 {
		return false, nil
	}
	repo.edges = append(repo.edges, edge)
	return true, nil
}

func (repo *fakeRepository) Delete(_ context.Context, id string) error {
	for i, edge := range repo.edges {
		if edge.ID == id {
			repo.edges = append(repo.edges[:i], repo.edges[i+1:]...)
			return nil
		}
	}
	return dberr.ErrNotFound
}

func (repo *fakeRepository) DeleteTriple(_ context.Context, personID, relatedID string, kind kinship.Kind) (bool, error) {
	index := repo.find(personID, relatedID, kind)
	if index < 0 {
		return false, nil
	}
	repo.edges = append(repo.edges[:index], repo.edges[index+1:]...)
	return true, nil
}

func (repo *fakeRepository) ListForPerson(_ context.Context, personID string) ([]*relationship.WithPerson, error) {
	var result []*relationship.WithPerson
	for _, edge := range repo.edges {
		if edge.PersonID == personID {
			result = append(result, &relationship.WithPerson{Relationship: *edge})
		}
	}
	return result, nil
}

func (repo *fakeRepository) find(personID, relatedID string, kind kinship.Kind) int {
	for i, edge := range repo.edges {
		if edge.PersonID == personID && edge.RelatedPersonID == relatedID && edge.Type == kind {
			return i
		}
	}
	return -1
}

func (repo *fakeRepository) has(personID, relatedID string, kind kinship.Kind) bool {
	return repo.find(personID, relatedID, kind) >= 0
}

type fakeTrees struct{}

func (fakeTrees) Authorize(_ context.Context, caller sec.Caller, id string, _ tree.Access) (*tree.Tree, error) {
	if id != treeID && id != otherTreeID {
		return nil, apperr.NotFound("Tree")
	}
	if caller.UserID != ownerID && !caller.Role.CanEditAnyTree() {
		return nil, apperr.Forbidden("Access denied")
	}
	return &tree.Tree{ID: id, OwnerID: ownerID}, nil
}

// passthroughTx runs the unit of work without a database.
type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func newService() (*relationship.Service, *fakeRepository) {
	repo := newFakeRepository()
	return relationship.NewService(repo, fakeTrees{}, passthroughTx{}), repo
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected AppError, got %v", err)
	return appError.HTTPStatus
}

// # Create

func TestCreate_InversePairs(t *testing.T) {
	tests := []struct {
		kind    kinship.Kind
		inverse kinship.Kind
	}{
		{kinship.Parent, kinship.Child},
		{kinship.Child, kinship.Parent},
		{kinship.Spouse, kinship.Spouse},
		{kinship.Sibling, kinship.Sibling},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			service, repo := newService()

			created, err := service.Create(context.Background(), owner, relationship.CreateInput{
				TreeID: treeID, PersonID: alice, RelatedPersonID: bob, Type: tt.kind,
			})
			require.NoError(t, err)
			assert.Equal(t, alice, created.PersonID)

			assert.True(t, repo.has(alice, bob, tt.kind))
			assert.True(t, repo.has(bob, alice, tt.inverse))
			assert.Len(t, repo.edges, 2)
		})
	}
}

func TestCreate_TwiceKeepsOnePair(t *testing.T) {
	service, repo := newService()
	input := relationship.CreateInput{TreeID: treeID, PersonID: alice, RelatedPersonID: bob, Type: kinship.Parent}

	_, err := service.Create(context.Background(), owner, input)
	require.NoError(t, err)

	_, err = service.Create(context.Background(), owner, input)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	assert.Len(t, repo.edges, 2)
}

func TestCreate_ReusesExistingInverse(t *testing.T) {
	service, repo := newService()
	repo.edges = append(repo.edges, &relationship.Relationship{ID: "pre", TreeID: treeID, PersonID: bob, RelatedPersonID: alice, Type: kinship.Child})

	_, err := service.Create(context.Background(), owner, relationship.CreateInput{
		TreeID: treeID, PersonID: alice, RelatedPersonID: bob, Type: kinship.Parent,
	})
	require.NoError(t, err)
	assert.Len(t, repo.edges, 2)
}

func TestCreate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		caller  sec.Caller
		input   relationship.CreateInput
		status  int
		message string
	}{
		{
			name:   "unknown_kind",
			caller: owner,
			input:  relationship.CreateInput{TreeID: treeID, PersonID: alice, RelatedPersonID: bob, Type: "cousin"},
			status: http.StatusBadRequest,
		},
		{
			name:   "self_relationship",
			caller: owner,
			input:  relationship.CreateInput{TreeID: treeID, PersonID: alice, RelatedPersonID: alice, Type: kinship.Spouse},
			status: http.StatusBadRequest,
		},
		{
			name:    "person_outside_tree",
			caller:  owner,
			input:   relationship.CreateInput{TreeID: treeID, PersonID: outsider, RelatedPersonID: bob, Type: kinship.Parent},
			status:  http.StatusNotFound,
			message: "Person not found in tree",
		},
		{
			name:    "related_outside_tree",
			caller:  owner,
			input:   relationship.CreateInput{TreeID: treeID, PersonID: alice, RelatedPersonID: outsider, Type: kinship.Parent},
			status:  http.StatusNotFound,
			message: "Related person not found in tree",
		},
		{
			name:   "no_edit_access",
			caller: sec.Caller{UserID: "someone", Role: sec.RoleUser},
			input:  relationship.CreateInput{TreeID: treeID, PersonID: alice, RelatedPersonID: bob, Type: kinship.Parent},
			status: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := newService()

			_, err := service.Create(context.Background(), tt.caller, tt.input)
			assert.Equal(t, tt.status, statusOf(t, err))
			if tt.message != "" {
				assert.Equal(t, tt.message, err.Error())
			}
			assert.Empty(t, repo.edges)
		})
	}
}

// # Delete

func TestDelete_RemovesBothSides(t *testing.T) {
	service, repo := newService()

	created, err := service.Create(context.Background(), owner, relationship.CreateInput{
		TreeID: treeID, PersonID: alice, RelatedPersonID: bob, Type: kinship.Parent,
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), owner, created.ID))
	assert.Empty(t, repo.edges)
}

func TestDelete_ToleratesMissingInverse(t *testing.T) {
	service, repo := newService()
	repo.edges = append(repo.edges, &relationship.Relationship{ID: "lonely", TreeID: treeID, PersonID: alice, RelatedPersonID: bob, Type: kinship.Parent})

	require.NoError(t, service.Delete(context.Background(), owner, "lonely"))
	assert.Empty(t, repo.edges)
}

func TestDelete_Missing(t *testing.T) {
	service, _ := newService()

	err := service.Delete(context.Background(), owner, "0190a6c0-0000-7000-8000-000000000999")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

// # HTTP

func TestHandler_CreateAndList(t *testing.T) {
	service, _ := newService()
	router := chi.NewRouter()
	relationship.NewHandler(service).RegisterRoutes(router)

	withCaller := func(request *http.Request) *http.Request {
		return request.WithContext(ctxutil.WithCaller(request.Context(), &owner))
	}

	body := `{"tree_id":"` + treeID + `","person_id":"` + alice + `","related_person_id":"` + bob + `","relationship_type":"spouse"}`
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, withCaller(httptest.NewRequest(http.MethodPost, "/relationships", strings.NewReader(body))))
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"relationship_type":"spouse"`)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, withCaller(httptest.NewRequest(http.MethodGet, "/persons/"+bob+"/relationships", nil)))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"related_person_id":"`+alice+`"`)
}
