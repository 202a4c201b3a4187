// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/roots/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// The action label is kept on the cause so server logs show which query failed.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// Already classified (e.g. returned from a nested store call)
	if apperr.IsAppError(err) {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Constraint violations the caller can act on
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			conflict := apperr.Conflict("Resource already exists")
			conflict.Cause = fmt.Errorf("%s: %w", action, err)
			return conflict
		case pgerrcode.ForeignKeyViolation:
			notFound := apperr.NotFound("Referenced resource")
			notFound.Cause = fmt.Errorf("%s: %w", action, err)
			return notFound
		case pgerrcode.InvalidTextRepresentation:
			invalid := apperr.ValidationError("Malformed identifier")
			invalid.Cause = fmt.Errorf("%s: %w", action, err)
			return invalid
		case pgerrcode.InvalidDatetimeFormat, pgerrcode.DatetimeFieldOverflow,
			pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			invalid := apperr.ValidationError("Invalid field value")
			invalid.Cause = fmt.Errorf("%s: %w", action, err)
			return invalid
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsNotFound reports whether err classifies as a missing row.
func IsNotFound(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	appError := apperr.As(err)
	return appError != nil && appError.Code == "NOT_FOUND"
}
