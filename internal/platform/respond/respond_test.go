// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/roots/internal/platform/apperr"
	"github.com/taibuivan/roots/internal/platform/respond"
	"github.com/taibuivan/roots/pkg/pagination"
)

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		status     int
		body       string
		retryAfter string
	}{
		{"opaque_internal", errors.New("pq: relation persons does not exist"), http.StatusInternalServerError, `{"error":"An unexpected error occurred","code":"INTERNAL_ERROR"}`, ""},
		{"wrapped_app_error", fmt.Errorf("load: %w", apperr.NotFound("Person")), http.StatusNotFound, `"code":"NOT_FOUND"`, ""},
		{"rate_limited", apperr.RateLimited(900), http.StatusTooManyRequests, `"code":"RATE_LIMITED"`, "900"},
		{"validation_details", apperr.ValidationError("Invalid input", apperr.FieldError{Field: "tree_id", Message: "Must be a valid UUID"}), http.StatusBadRequest, `"details":[{"field":"tree_id","message":"Must be a valid UUID"}]`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/trees", nil), tt.err)

			assert.Equal(t, tt.status, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.body)
			assert.NotContains(t, recorder.Body.String(), "pq:")
			assert.Equal(t, tt.retryAfter, recorder.Header().Get("Retry-After"))
		})
	}
}

func TestPaginated(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Paginated(recorder, []string{"a"}, pagination.NewMeta(2, 1, 3))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":["a"],"meta":{"page":2,"limit":1,"total":3,"total_pages":3}}`, recorder.Body.String())
}
