// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/roots/internal/platform/apperr"
	"github.com/taibuivan/roots/internal/platform/constants"
	"github.com/taibuivan/roots/internal/platform/middleware"
	requestutil "github.com/taibuivan/roots/internal/platform/request"
	"github.com/taibuivan/roots/internal/platform/respond"
	"github.com/taibuivan/roots/internal/platform/sec"
	"github.com/taibuivan/roots/internal/platform/validate"
)

// # Definitions & Constructors

// CookieOptions controls how session cookies are written.
type CookieOptions struct {
	// Secure marks cookies HTTPS-only. Enabled in production.
	Secure bool

	// FrontendURL is where the Google callback sends the browser afterwards.
	FrontendURL string
}

// Handler implements the authentication endpoints.
type Handler struct {
	authService *Service
	cookies     CookieOptions
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, cookies CookieOptions) *Handler {
	return &Handler{authService: service, cookies: cookies}
}

/*
Routes returns the router mounted at /auth.

# Endpoints
  - POST /register, /login, /refresh, /logout
  - GET  /me (authenticated)
  - GET  /google, /google/callback
*/
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)
	router.Get("/google", handler.googleRedirect)
	router.Get("/google/callback", handler.googleCallback)

	router.With(middleware.RequireAuth).Get("/me", handler.me)

	return router
}

/*
Register creates an account and signs it in.

POST /api/v1/auth/register

Response:
  - 201: User, with session cookies
  - 400: Validation failure or unusable invitation
  - 409: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input RegisterInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.IPAddress = middleware.RealIP(request)

	session, err := handler.authService.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, session)
	respond.Created(writer, session.User)
}

/*
Login authenticates with email and password.

POST /api/v1/auth/login

Response:
  - 200: User, with session cookies
  - 401: Invalid credentials
  - 403: Account blocked
  - 429: Too many attempts
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input LoginInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.IPAddress = middleware.RealIP(request)

	session, err := handler.authService.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, session)
	respond.OK(writer, session.User)
}

// Refresh rotates the refresh cookie. POST /api/v1/auth/refresh
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, apperr.Unauthorized("Invalid refresh token"))
		return
	}

	session, err := handler.authService.Refresh(request.Context(), cookie.Value)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, session)
	respond.OK(writer, map[string]string{FieldMessage: "Token refreshed"})
}

// Logout forgets the refresh session and clears both cookies. POST /api/v1/auth/logout
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil {
		if err := handler.authService.Logout(request.Context(), cookie.Value); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	handler.clearCookie(writer, constants.AccessTokenCookieName, "/")
	handler.clearCookie(writer, constants.RefreshTokenCookieName, constants.RefreshTokenCookiePath)
	respond.OK(writer, map[string]string{FieldMessage: "Logged out"})
}

// Me returns the signed-in account. GET /api/v1/auth/me
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Me(request.Context(), caller)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

// # Google Sign-In

// GoogleRedirect sends the browser to Google with a fresh state cookie.
func (handler *Handler) googleRedirect(writer http.ResponseWriter, request *http.Request) {
	if !handler.authService.GoogleEnabled() {
		respond.Error(writer, request, apperr.NotFoundMessage("Google sign-in is not configured"))
		return
	}

	state, err := sec.GenerateSecureToken(OAuthStateLength)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	target, err := handler.authService.GoogleAuthURL(state)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setCookie(writer, constants.OAuthStateCookieName, state, constants.RefreshTokenCookiePath, OAuthStateTTL)
	http.Redirect(writer, request, target, http.StatusTemporaryRedirect)
}

/*
GoogleCallback finishes the code flow and redirects to the frontend.

GET /api/v1/auth/google/callback?code=&state=

Response:
  - 302: To FRONTEND_URL with session cookies
  - 400: State mismatch or Google rejected the code
*/
func (handler *Handler) googleCallback(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	cookie, err := request.Cookie(constants.OAuthStateCookieName)
	if err != nil || cookie.Value == "" ||
		subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(query.Get(FieldState))) != 1 {
		respond.Error(writer, request, validate.RequiredError(FieldState, "Invalid OAuth state"))
		return
	}
	handler.clearCookie(writer, constants.OAuthStateCookieName, constants.RefreshTokenCookiePath)

	session, err := handler.authService.GoogleSignIn(request.Context(), query.Get(FieldCode))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, session)
	http.Redirect(writer, request, handler.cookies.FrontendURL, http.StatusFound)
}

// # Cookies

func (handler *Handler) setSessionCookies(writer http.ResponseWriter, session *Session) {
	handler.setCookie(writer, constants.AccessTokenCookieName, session.AccessToken, "/",
		time.Until(session.AccessExpiresAt))
	handler.setCookie(writer, constants.RefreshTokenCookieName, session.RefreshToken, constants.RefreshTokenCookiePath,
		time.Until(session.RefreshExpiresAt))
}

func (handler *Handler) setCookie(writer http.ResponseWriter, name, value, path string, ttl time.Duration) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   int(ttl / time.Second),
		Secure:   handler.cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (handler *Handler) clearCookie(writer http.ResponseWriter, name, path string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		Secure:   handler.cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
