// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/roots/internal/platform/apperr"
	"github.com/taibuivan/roots/internal/platform/ctxutil"
	"github.com/taibuivan/roots/internal/platform/dberr"
	"github.com/taibuivan/roots/internal/platform/sec"
	"github.com/taibuivan/roots/internal/users/account"
	"github.com/taibuivan/roots/internal/users/auth"
	"github.com/taibuivan/roots/pkg/pagination"
)

const (
	adminID   = "0190a6c0-0000-7000-8000-0000000000f1"
	pendingID = "0190a6c0-0000-7000-8000-0000000000f2"
	missingID = "0190a6c0-0000-7000-8000-0000000000d9"
)

var (
	admin  = sec.Caller{UserID: adminID, Role: sec.RoleAdmin, Status: sec.StatusActive}
	editor = sec.Caller{UserID: pendingID, Role: sec.RoleEditor, Status: sec.StatusActive}
)

func ptr[T any](value T) *T { return &value }

type fakeRepository struct {
	users []*auth.User
	stats *account.Stats
}

func newRepository() *fakeRepository {
	return &fakeRepository{
		users: []*auth.User{
			{ID: pendingID, Email: "cousin@example.com", Role: sec.RoleUser, Status: sec.StatusPending},
			{ID: adminID, Email: "root@example.com", Role: sec.RoleAdmin, Status: sec.StatusActive},
		},
		stats: &account.Stats{
			TotalUsers: 2, TotalPersons: 10, TotalTrees: 1, PendingProposals: 3,
			PendingProposalsByTree: []account.TreePending{{TreeID: "t1", TreeName: "Ivanov", PendingCount: 3}},
		},
	}
}

func (repo *fakeRepository) List(_ context.Context, params pagination.Params) ([]*auth.User, int, error) {
	start := min(params.Offset(), len(repo.users))
	end := min(start+params.Limit, len(repo.users))
	return repo.users[start:end], len(repo.users), nil
}

func (repo *fakeRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repo *fakeRepository) Update(_ context.Context, id string, role sec.UserRole, status sec.UserStatus) error {
	for _, user := range repo.users {
		if user.ID == id {
			user.Role, user.Status = role, status
			return nil
		}
	}
	return dberr.ErrNotFound
}

func (repo *fakeRepository) Stats(context.Context) (*account.Stats, error) {
	return repo.stats, nil
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected AppError, got %v", err)
	return appError.HTTPStatus
}

func TestListUsers(t *testing.T) {
	service := account.NewService(newRepository())

	users, meta, err := service.ListUsers(context.Background(), admin, pagination.Params{Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, pagination.Meta{Page: 1, Limit: 1, Total: 2, TotalPages: 2}, meta)

	_, _, err = service.ListUsers(context.Background(), editor, pagination.Params{Page: 1, Limit: 20})
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
}

func TestUpdateUser_ActivatesPending(t *testing.T) {
	repo := newRepository()
	service := account.NewService(repo)

	user, err := service.UpdateUser(context.Background(), admin, pendingID, account.UpdateInput{
		Role:   ptr(sec.RoleEditor),
		Status: ptr(sec.StatusActive),
	})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleEditor, user.Role)
	assert.Equal(t, sec.StatusActive, user.Status)
	assert.Equal(t, sec.StatusActive, repo.users[0].Status)

	user, err = service.UpdateUser(context.Background(), admin, pendingID, account.UpdateInput{Status: ptr(sec.StatusBlocked)})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleEditor, user.Role)
	assert.Equal(t, sec.StatusBlocked, user.Status)
}

func TestUpdateUser_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		caller sec.Caller
		userID string
		input  account.UpdateInput
		status int
	}{
		{"not_admin", editor, pendingID, account.UpdateInput{Status: ptr(sec.StatusActive)}, http.StatusForbidden},
		{"own_admin_role", admin, adminID, account.UpdateInput{Role: ptr(sec.RoleUser)}, http.StatusBadRequest},
		{"unknown_role", admin, pendingID, account.UpdateInput{Role: ptr(sec.UserRole("owner"))}, http.StatusBadRequest},
		{"unknown_status", admin, pendingID, account.UpdateInput{Status: ptr(sec.UserStatus("gone"))}, http.StatusBadRequest},
		{"missing_user", admin, missingID, account.UpdateInput{Status: ptr(sec.StatusActive)}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepository()
			_, err := account.NewService(repo).UpdateUser(context.Background(), tt.caller, tt.userID, tt.input)
			assert.Equal(t, tt.status, statusOf(t, err))
			assert.Equal(t, sec.StatusPending, repo.users[0].Status)
			assert.Equal(t, sec.RoleAdmin, repo.users[1].Role)
		})
	}
}

func TestUpdateUser_OwnStatusKeepsRole(t *testing.T) {
	service := account.NewService(newRepository())

	user, err := service.UpdateUser(context.Background(), admin, adminID, account.UpdateInput{Role: ptr(sec.RoleAdmin)})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, user.Role)
}

func TestHandler(t *testing.T) {
	router := account.NewHandler(account.NewService(newRepository())).Routes()

	request := httptest.NewRequest(http.MethodGet, "/stats", nil)
	request = request.WithContext(ctxutil.WithCaller(request.Context(), &admin))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"pending_proposals_by_tree":[{"tree_id":"t1","tree_name":"Ivanov","pending_count":3}]`)

	request = httptest.NewRequest(http.MethodGet, "/users?limit=1", nil)
	request = request.WithContext(ctxutil.WithCaller(request.Context(), &admin))
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"total_pages":2`)

	request = httptest.NewRequest(http.MethodPatch, "/users/"+pendingID, strings.NewReader(`{"status":"active"}`))
	request = request.WithContext(ctxutil.WithCaller(request.Context(), &editor))
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}
