// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package proposal_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/roots/internal/genealogy/proposal"
	"github.com/taibuivan/roots/internal/genealogy/tree"
	"github.com/taibuivan/roots/internal/platform/apperr"
	"github.com/taibuivan/roots/internal/platform/ctxutil"
	"github.com/taibuivan/roots/internal/platform/dberr"
	"github.com/taibuivan/roots/internal/platform/sec"
)

const (
	treeID     = "0190a6c0-0000-7000-8000-00000000000a"
	personID   = "0190a6c0-0000-7000-8000-0000000000a1"
	ghostID    = "0190a6c0-0000-7000-8000-0000000000a9"
	userID     = "0190a6c0-0000-7000-8000-0000000000b1"
	strangerID = "0190a6c0-0000-7000-8000-0000000000b2"
	editorID   = "0190a6c0-0000-7000-8000-0000000000e1"
)

var (
	contributor = sec.Caller{UserID: userID, Role: sec.RoleUser}
	stranger    = sec.Caller{UserID: strangerID, Role: sec.RoleUser}
	editor      = sec.Caller{UserID: editorID, Role: sec.RoleEditor}
	guest       = sec.Caller{UserID: userID, Role: sec.RoleGuest}
)

func ptr(value string) *string { return &value }

// # Fakes

type fakeRepository struct {
	proposals []*proposal.Proposal
}

func (repo *fakeRepository) Create(_ context.Context, p *proposal.Proposal) error {
	repo.proposals = append(repo.proposals, p)
	return nil
}

func (repo *fakeRepository) FindForUpdate(_ context.Context, id string) (*proposal.Proposal, error) {
	for _, p := range repo.proposals {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repo *fakeRepository) List(_ context.Context, filter proposal.Filter) ([]*proposal.Proposal, error) {
	var result []*proposal.Proposal
	for _, p := range repo.proposals {
		if filter.ProposedBy != "" && p.ProposedBy != filter.ProposedBy {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

func (repo *fakeRepository) SaveReview(_ context.Context, _ *proposal.Proposal) error {
	return nil
}

// fakePeople stores one person as a field map. Only names listed in fields are editable.
type fakePeople struct {
	values map[string]*string
	fields map[string]bool
}

func newFakePeople() *fakePeople {
	return &fakePeople{
		values: map[string]*string{"first_name": ptr("Jon"), "last_name": ptr("Snow")},
		fields: map[string]bool{"first_name": true, "last_name": true, "birth_place": true},
	}
}

func (people *fakePeople) TreeOf(_ context.Context, id string) (string, error) {
	if id != personID {
		return "", dberr.ErrNotFound
	}
	return treeID, nil
}

func (people *fakePeople) ApplyChanges(_ context.Context, id string, values map[string]*string) ([]string, error) {
	if id != personID {
		return nil, dberr.ErrNotFound
	}

	var applied []string
	for field, value := range values {
		if !people.fields[field] {
			continue
		}
		people.values[field] = value
		applied = append(applied, field)
	}
	return applied, nil
}

type fakeTrees struct{}

func (fakeTrees) Authorize(_ context.Context, caller sec.Caller, id string, _ tree.Access) (*tree.Tree, error) {
	if caller.UserID == strangerID {
		return nil, apperr.Forbidden("Access denied")
	}
	return &tree.Tree{ID: id}, nil
}

// passthroughTx runs the unit of work without a database.
type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func newService() (*proposal.Service, *fakeRepository, *fakePeople) {
	repo := &fakeRepository{}
	people := newFakePeople()
	return proposal.NewService(repo, people, fakeTrees{}, passthroughTx{}), repo, people
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected AppError, got %v", err)
	return appError.HTTPStatus
}

func submit(t *testing.T, service *proposal.Service, changes proposal.FieldChanges) *proposal.Proposal {
	t.Helper()
	p, err := service.Submit(context.Background(), contributor, proposal.SubmitInput{
		TargetPersonID: personID,
		FieldChanges:   changes,
	})
	require.NoError(t, err)
	return p
}

// # Diff

func TestDiff(t *testing.T) {
	before := map[string]*string{"first_name": ptr("Jon"), "last_name": ptr("Snow"), "birth_place": nil}
	after := map[string]*string{"first_name": ptr("John"), "last_name": ptr("Snow"), "birth_place": nil, "death_place": ptr("Wall")}

	changes := proposal.Diff(before, after)

	require.Len(t, changes, 2)
	assert.Equal(t, "Jon", *changes["first_name"].Before)
	assert.Equal(t, "John", *changes["first_name"].After)
	assert.Nil(t, changes["death_place"].Before)
	assert.Equal(t, "Wall", *changes["death_place"].After)
}

func TestDiff_NoChanges(t *testing.T) {
	snapshot := map[string]*string{"first_name": ptr("Jon")}
	changes := proposal.Diff(snapshot, map[string]*string{"first_name": ptr("Jon")})

	assert.NotNil(t, changes)
	assert.Empty(t, changes)
}

// # Status Machine

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from proposal.Status
		to   proposal.Status
		want bool
	}{
		{proposal.StatusPending, proposal.StatusAccepted, true},
		{proposal.StatusPending, proposal.StatusRejected, true},
		{proposal.StatusAccepted, proposal.StatusRejected, false},
		{proposal.StatusRejected, proposal.StatusAccepted, false},
		{proposal.StatusClarificationRequested, proposal.StatusAccepted, false},
		{proposal.StatusAccepted, proposal.StatusClarificationRequested, true},
		{proposal.StatusRejected, proposal.StatusClarificationRequested, true},
		{proposal.StatusClarificationRequested, proposal.StatusClarificationRequested, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

// # Submit

func TestSubmit(t *testing.T) {
	service, repo, _ := newService()

	p := submit(t, service, proposal.FieldChanges{"first_name": {Before: ptr("Jon"), After: ptr("John")}})

	assert.Equal(t, proposal.StatusPending, p.Status)
	assert.Equal(t, userID, p.ProposedBy)
	assert.NotEmpty(t, p.ID)
	assert.Len(t, repo.proposals, 1)
}

func TestSubmit_Rejections(t *testing.T) {
	changes := proposal.FieldChanges{"first_name": {After: ptr("John")}}

	tests := []struct {
		name   string
		caller sec.Caller
		input  proposal.SubmitInput
		status int
	}{
		{"empty_changes", contributor, proposal.SubmitInput{TargetPersonID: personID}, http.StatusBadRequest},
		{"bad_person_id", contributor, proposal.SubmitInput{TargetPersonID: "nope", FieldChanges: changes}, http.StatusBadRequest},
		{"guest", guest, proposal.SubmitInput{TargetPersonID: personID, FieldChanges: changes}, http.StatusForbidden},
		{"unknown_person", contributor, proposal.SubmitInput{TargetPersonID: ghostID, FieldChanges: changes}, http.StatusNotFound},
		{"no_tree_access", stranger, proposal.SubmitInput{TargetPersonID: personID, FieldChanges: changes}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, _ := newService()

			_, err := service.Submit(context.Background(), tt.caller, tt.input)

			require.Error(t, err)
			assert.Equal(t, tt.status, statusOf(t, err))
			assert.Empty(t, repo.proposals)
		})
	}
}

// # Review

func TestReview_AcceptAppliesChanges(t *testing.T) {
	service, _, people := newService()
	p := submit(t, service, proposal.FieldChanges{
		"first_name": {Before: ptr("Jon"), After: ptr("John")},
		"nickname":   {Before: nil, After: ptr("Lord Snow")},
	})

	reviewed, err := service.Review(context.Background(), editor, p.ID, proposal.ReviewInput{
		Status:  proposal.StatusAccepted,
		Comment: ptr("Checked the parish record"),
	})
	require.NoError(t, err)

	assert.Equal(t, proposal.StatusAccepted, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, editorID, *reviewed.ReviewedBy)
	assert.NotNil(t, reviewed.ReviewedAt)
	assert.Equal(t, "Checked the parish record", *reviewed.Comment)

	assert.Equal(t, "John", *people.values["first_name"])
	assert.NotContains(t, people.values, "nickname")
}

func TestReview_RejectLeavesPersonUntouched(t *testing.T) {
	service, _, people := newService()
	p := submit(t, service, proposal.FieldChanges{"first_name": {Before: ptr("Jon"), After: ptr("John")}})

	reviewed, err := service.Review(context.Background(), editor, p.ID, proposal.ReviewInput{Status: proposal.StatusRejected})
	require.NoError(t, err)

	assert.Equal(t, proposal.StatusRejected, reviewed.Status)
	assert.Equal(t, "Jon", *people.values["first_name"])
}

func TestReview_AlreadyReviewed(t *testing.T) {
	service, _, _ := newService()
	p := submit(t, service, proposal.FieldChanges{"first_name": {After: ptr("John")}})

	_, err := service.Review(context.Background(), editor, p.ID, proposal.ReviewInput{Status: proposal.StatusAccepted})
	require.NoError(t, err)

	_, err = service.Review(context.Background(), editor, p.ID, proposal.ReviewInput{Status: proposal.StatusRejected})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	reviewed, err := service.Review(context.Background(), editor, p.ID, proposal.ReviewInput{Status: proposal.StatusClarificationRequested})
	require.NoError(t, err)
	assert.Equal(t, proposal.StatusClarificationRequested, reviewed.Status)
}

func TestReview_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		caller sec.Caller
		id     string
		status proposal.Status
		want   int
	}{
		{"not_reviewer", contributor, "", proposal.StatusAccepted, http.StatusForbidden},
		{"unknown_status", editor, "", "approved", http.StatusBadRequest},
		{"back_to_pending", editor, "", proposal.StatusPending, http.StatusBadRequest},
		{"missing_proposal", editor, ghostID, proposal.StatusAccepted, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, _ := newService()
			p := submit(t, service, proposal.FieldChanges{"first_name": {After: ptr("John")}})

			id := tt.id
			if id == "" {
				id = p.ID
			}

			_, err := service.Review(context.Background(), tt.caller, id, proposal.ReviewInput{Status: tt.status})
			require.Error(t, err)
			assert.Equal(t, tt.want, statusOf(t, err))
			assert.Equal(t, proposal.StatusPending, p.Status)
		})
	}
}

// # List

func TestList_ScopesNonReviewers(t *testing.T) {
	service, repo, _ := newService()
	submit(t, service, proposal.FieldChanges{"first_name": {After: ptr("John")}})
	repo.proposals = append(repo.proposals, &proposal.Proposal{ID: "other", ProposedBy: editorID, Status: proposal.StatusPending})

	mine, err := service.List(context.Background(), contributor, proposal.Filter{})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := service.List(context.Background(), editor, proposal.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = service.List(context.Background(), editor, proposal.Filter{Status: "approved"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

// # HTTP

func TestHandler_ReviewRequiresReviewerRole(t *testing.T) {
	service, _, _ := newService()
	p := submit(t, service, proposal.FieldChanges{"first_name": {After: ptr("John")}})

	router := chi.NewRouter()
	proposal.NewHandler(service).RegisterRoutes(router)

	patch := func(caller sec.Caller) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodPatch, "/proposals/"+p.ID, strings.NewReader(`{"status":"accepted"}`))
		request = request.WithContext(ctxutil.WithCaller(request.Context(), &caller))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	assert.Equal(t, http.StatusForbidden, patch(contributor).Code)

	recorder := patch(editor)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"accepted"`)
}

func TestHandler_Submit(t *testing.T) {
	service, _, _ := newService()
	router := chi.NewRouter()
	proposal.NewHandler(service).RegisterRoutes(router)

	body := `{"target_person_id":"` + personID + `","field_changes":{"last_name":{"before":"Snow","after":"Stark"}}}`
	request := httptest.NewRequest(http.MethodPost, "/proposals", strings.NewReader(body))
	request = request.WithContext(ctxutil.WithCaller(request.Context(), &contributor))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"pending"`)
}

func sortedKeys(values map[string]*string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func TestReview_UnknownFieldSkipped(t *testing.T) {
	service, _, people := newService()
	p := submit(t, service, proposal.FieldChanges{"favourite_colour": {After: ptr("grey")}})

	_, err := service.Review(context.Background(), editor, p.ID, proposal.ReviewInput{Status: proposal.StatusAccepted})
	require.NoError(t, err)

	assert.Equal(t, []string{"first_name", "last_name"}, sortedKeys(people.values))
}
