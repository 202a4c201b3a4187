// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/roots/internal/platform/apperr"
	"github.com/taibuivan/roots/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"no_rows", pgx.ErrNoRows, http.StatusNotFound},
		{"wrapped_no_rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), http.StatusNotFound},
		{"unique_violation", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, http.StatusConflict},
		{"foreign_key_violation", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, http.StatusNotFound},
		{"bad_uuid", &pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation}, http.StatusBadRequest},
		{"bad_date", &pgconn.PgError{Code: pgerrcode.InvalidDatetimeFormat}, http.StatusBadRequest},
		{"check_violation", &pgconn.PgError{Code: pgerrcode.CheckViolation}, http.StatusBadRequest},
		{"other_pg_error", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, http.StatusInternalServerError},
		{"plain_error", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(tt.err, "test_action")
			appError := apperr.As(wrapped)
			require.NotNil(t, appError)
			assert.Equal(t, tt.status, appError.HTTPStatus)
		})
	}
}

func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))
}

func TestWrap_KeepsAppError(t *testing.T) {
	original := apperr.Forbidden("Access denied")
	assert.Same(t, original, dberr.Wrap(original, "noop"))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, dberr.IsNotFound(pgx.ErrNoRows))
	assert.True(t, dberr.IsNotFound(apperr.NotFound("Person")))
	assert.False(t, dberr.IsNotFound(apperr.Conflict("dup")))
	assert.False(t, dberr.IsNotFound(errors.New("boom")))
}
