// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/roots/internal/platform/apperr"
	"github.com/taibuivan/roots/internal/platform/ctxutil"
	"github.com/taibuivan/roots/internal/platform/sec"
	"github.com/taibuivan/roots/internal/platform/validate"
)

// maxJSONBody caps JSON payloads. Uploads use multipart and have their own limits.
const maxJSONBody = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - writer: http.ResponseWriter (used to enforce the body size cap)
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxJSONBody)
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param retrieves a named URL parameter from the request.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
UUIDParam retrieves a named URL parameter and checks that it is a UUID.

Returns:
  - string: The identifier
  - error: apperr.ValidationError when malformed
*/
func UUIDParam(request *http.Request, name string) (string, error) {
	value := chi.URLParam(request, name)
	if err := new(validate.Validator).UUID(name, value).Err(); err != nil {
		return "", err
	}
	return value, nil
}

// Caller returns the authenticated caller, or nil for anonymous requests.
func Caller(request *http.Request) *sec.Caller {
	return ctxutil.GetCaller(request.Context())
}

/*
RequiredCaller ensures the request is authenticated and returns the caller.

Returns:
  - sec.Caller: A copy of the resolved identity
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredCaller(request *http.Request) (sec.Caller, error) {
	caller := ctxutil.GetCaller(request.Context())
	if caller == nil {
		return sec.Caller{}, apperr.Unauthorized("Authentication required")
	}
	return *caller, nil
}
