// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/roots/internal/platform/apperr"
	"github.com/taibuivan/roots/internal/platform/constants"
	"github.com/taibuivan/roots/internal/platform/ctxutil"
	"github.com/taibuivan/roots/internal/platform/dberr"
	"github.com/taibuivan/roots/internal/platform/respond"
	"github.com/taibuivan/roots/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// IdentityResolver loads the current role and status of a token subject.
type IdentityResolver interface {
	ResolveCaller(ctx context.Context, userID string) (*sec.Caller, error)
}

/*
Authenticate extracts and verifies the access token, then resolves the caller.

# Flow
 1. Read 'Authorization: Bearer <token>', falling back to the access_token cookie.
 2. If neither is present, the request proceeds as anonymous.
 3. Verify the JWT via [TokenVerifier].
 4. Load the fresh [sec.Caller] via [IdentityResolver]; blocked accounts get 403.
 5. Inject the caller into the request context for the HTTP layer.
*/
func Authenticate(verifier TokenVerifier, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			tokenStr, err := extractToken(request)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if tokenStr == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Could not validate credentials"))
				return
			}

			// ── 3. Caller Resolution ──────────────────────────────────────────
			caller, err := resolver.ResolveCaller(request.Context(), claims.Subject)
			if err != nil {
				if dberr.IsNotFound(err) {
					respond.Error(writer, request, apperr.Unauthorized("Could not validate credentials"))
					return
				}
				respond.Error(writer, request, err)
				return
			}

			if caller.Status == sec.StatusBlocked {
				respond.Error(writer, request, apperr.Forbidden("Account is blocked"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			if holder, ok := request.Context().Value(callerHolderKey{}).(*callerHolder); ok {
				holder.userID = caller.UserID
			}

			ctx := ctxutil.WithCaller(request.Context(), caller)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// extractToken returns the bearer token, the cookie token, or "" for anonymous requests.
func extractToken(request *http.Request) (string, error) {
	if header := request.Header.Get(constants.HeaderAuthorization); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			return "", apperr.Unauthorized("Invalid authorization format")
		}
		return strings.TrimSpace(token), nil
	}

	if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", nil
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetCaller(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests unless the caller holds one of the listed roles.
// It implies [RequireAuth].
func RequireRole(roles ...sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			caller := ctxutil.GetCaller(request.Context())

			if caller == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			for _, role := range roles {
				if caller.Role == role {
					next.ServeHTTP(writer, request)
					return
				}
			}

			respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
		})
	}
}
