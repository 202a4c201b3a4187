// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	stdctx "context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/roots/internal/platform/apperr"
	"github.com/taibuivan/roots/internal/platform/constants"
	"github.com/taibuivan/roots/internal/platform/ctxutil"
	"github.com/taibuivan/roots/internal/platform/dberr"
	"github.com/taibuivan/roots/internal/platform/sec"
	"github.com/taibuivan/roots/internal/platform/validate"
	"github.com/taibuivan/roots/internal/users/invitation"
	"github.com/taibuivan/roots/pkg/uuid"
)

// # Contracts & Types

// TokenProvider signs access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, role string, timeToLive time.Duration) (string, error)
}

// InvitationConsumer spends one use of an invitation token.
type InvitationConsumer interface {
	Consume(context context.Context, token string) (*invitation.Invitation, error)
}

// OAuthProvider runs an external authorization code flow.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(context context.Context, code string) (*ExternalIdentity, error)
}

// Transactor runs a unit of work atomically.
type Transactor interface {
	WithinTx(context context.Context, fn func(context context.Context) error) error
}

// Options holds the token lifetimes and attempt limits.
type Options struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// AttemptLimit attempts per AttemptWindow are allowed per email and per IP.
	AttemptLimit  int
	AttemptWindow time.Duration
}

// Service implements account and session use cases.
type Service struct {
	users       UserRepository
	sessions    SessionStore
	attempts    AttemptCounter
	tokens      TokenProvider
	invitations InvitationConsumer
	tx          Transactor
	google      OAuthProvider
	options     Options
}

/*
NewService constructs an auth [Service].

Parameters:
  - google: OAuthProvider, nil when Google sign-in is not configured
*/
func NewService(
	users UserRepository,
	sessions SessionStore,
	attempts AttemptCounter,
	tokens TokenProvider,
	invitations InvitationConsumer,
	tx Transactor,
	google OAuthProvider,
	options Options,
) *Service {
	return &Service{
		users:       users,
		sessions:    sessions,
		attempts:    attempts,
		tokens:      tokens,
		invitations: invitations,
		tx:          tx,
		google:      google,
		options:     options,
	}
}

// Session is a freshly issued token pair.
type Session struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
	User             *User
}

// # Registration Flow

// RegisterInput holds the data required to open an account.
type RegisterInput struct {
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	InvitationToken *string `json:"invitation_token"`
	IPAddress       string  `json:"-"`
}

/*
Register validates, hashes and persists a new account, then signs it in.

# Rules
  - Email must be unique (case-insensitive).
  - The very first account becomes an active admin.
  - A valid invitation activates the account and links it to the
    invitation's person. The invitation use and the insert share one
    transaction.
  - Otherwise the account is a pending user.
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Session, error) {
	input.Email = normalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		MaxLen(FieldPassword, input.Password, MaxPasswordLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.checkAttempts(context, "", input.IPAddress); err != nil {
		return nil, err
	}

	if _, err := service.users.FindByEmail(context, input.Email); err == nil {
		return nil, apperr.Conflict("Email already registered")
	} else if !dberr.IsNotFound(err) {
		return nil, err
	}

	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{ID: uuid.New(), Email: input.Email, PasswordHash: &hash}

	err = service.tx.WithinTx(context, func(context stdctx.Context) error {
		first, err := service.isFirstUser(context)
		if err != nil {
			return err
		}

		switch {
		case first:
			user.Role, user.Status = sec.RoleAdmin, sec.StatusActive
		case input.InvitationToken != nil && strings.TrimSpace(*input.InvitationToken) != "":
			accepted, err := service.invitations.Consume(context, strings.TrimSpace(*input.InvitationToken))
			if err != nil {
				return err
			}
			user.Role, user.Status, user.PersonID = sec.RoleUser, sec.StatusActive, accepted.TargetPersonID
		default:
			user.Role, user.Status = sec.RoleUser, sec.StatusPending
		}

		return service.users.Create(context, user)
	})
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("user_registered",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
		slog.String("status", string(user.Status)),
		slog.Bool("invited", user.PersonID != nil),
	)
	return service.issue(context, user)
}

// # Authentication Flow

// LoginInput defines credentials for a sign-in attempt.
type LoginInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	IPAddress string `json:"-"`
}

/*
Login checks credentials and issues a new session.

# Rules
  - Attempts are counted per email and per client IP; over the limit the
    caller gets 429 with the seconds left in the window.
  - Unknown email, OAuth-only accounts and wrong passwords share one message.
  - Blocked accounts are refused with 403.
  - Success clears the email counter.
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	input.Email = normalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.
		Required(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.checkAttempts(context, input.Email, input.IPAddress); err != nil {
		return nil, err
	}

	invalid := apperr.Unauthorized("Invalid email or password")

	user, err := service.users.FindByEmail(context, input.Email)
	if err != nil {
		if dberr.IsNotFound(err) {
			sec.VerifyPassword(input.Password, nil)
			return nil, invalid
		}
		return nil, err
	}

	if !sec.VerifyPassword(input.Password, user.PasswordHash) {
		return nil, invalid
	}

	if user.Status == sec.StatusBlocked {
		return nil, apperr.Forbidden("Account is blocked")
	}

	if err := service.attempts.Reset(context, constants.RedisPrefixLoginByEmail+input.Email); err != nil {
		ctxutil.GetLogger(context).Warn("login_attempts_reset_failed", slog.Any("error", err))
	}

	ctxutil.GetLogger(context).Info("user_logged_in", slog.String("user_id", user.ID))
	return service.issue(context, user)
}

/*
Refresh rotates a refresh token.

The presented token is consumed before anything else, so replaying it
fails even if issuing the new pair does.
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*Session, error) {
	invalid := apperr.Unauthorized("Invalid refresh token")
	if refreshToken == "" {
		return nil, invalid
	}

	userID, err := service.sessions.Take(context, sec.HashToken(refreshToken))
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, invalid
		}
		return nil, err
	}

	user, err := service.users.FindByID(context, userID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, invalid
		}
		return nil, err
	}

	if user.Status == sec.StatusBlocked {
		return nil, invalid
	}

	return service.issue(context, user)
}

// Logout forgets a refresh session. Unknown tokens are not an error.
func (service *Service) Logout(context context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return service.sessions.Delete(context, sec.HashToken(refreshToken))
}

// Me returns the caller's account.
func (service *Service) Me(context context.Context, caller sec.Caller) (*User, error) {
	user, err := service.users.FindByID(context, caller.UserID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, err
	}
	return user, nil
}

// ResolveCaller loads the current role and status of a token subject.
func (service *Service) ResolveCaller(context context.Context, userID string) (*sec.Caller, error) {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user.Caller(), nil
}

// # Google Sign-In

// GoogleEnabled reports whether Google sign-in is configured.
func (service *Service) GoogleEnabled() bool {
	return service.google != nil
}

// GoogleAuthURL returns the consent screen URL for the given CSRF state.
func (service *Service) GoogleAuthURL(state string) (string, error) {
	if service.google == nil {
		return "", apperr.NotFoundMessage("Google sign-in is not configured")
	}
	return service.google.AuthCodeURL(state), nil
}

/*
GoogleSignIn completes the Google code flow.

# Rules
  - An account already linked to the Google subject signs in.
  - Otherwise an account with the same email is linked and signs in.
  - Otherwise a new account is created with the first-user rule of
    [Service.Register] and no invitation.
*/
func (service *Service) GoogleSignIn(context context.Context, code string) (*Session, error) {
	if service.google == nil {
		return nil, apperr.NotFoundMessage("Google sign-in is not configured")
	}
	if code == "" {
		return nil, validate.RequiredError(FieldCode, "Authorization code is required")
	}

	identity, err := service.google.Exchange(context, code)
	if err != nil {
		ctxutil.GetLogger(context).Warn("google_exchange_failed", slog.Any("error", err))
		return nil, apperr.ValidationError("Failed to authenticate with Google")
	}
	if identity.Subject == "" || identity.Email == "" {
		return nil, apperr.ValidationError("Incomplete user info from Google")
	}

	user, err := service.resolveExternal(context, identity)
	if err != nil {
		return nil, err
	}

	if user.Status == sec.StatusBlocked {
		return nil, apperr.Forbidden("Account is blocked")
	}

	ctxutil.GetLogger(context).Info("user_logged_in",
		slog.String("user_id", user.ID),
		slog.String("provider", identity.Provider),
	)
	return service.issue(context, user)
}

func (service *Service) resolveExternal(context context.Context, identity *ExternalIdentity) (*User, error) {
	user, err := service.users.FindByOAuth(context, identity.Provider, identity.Subject)
	if err == nil {
		return user, nil
	}
	if !dberr.IsNotFound(err) {
		return nil, err
	}

	email := normalizeEmail(identity.Email)

	user, err = service.users.FindByEmail(context, email)
	if err == nil {
		if err := service.users.LinkOAuth(context, user.ID, identity.Provider, identity.Subject); err != nil {
			return nil, err
		}
		user.OAuthProvider, user.OAuthID = &identity.Provider, &identity.Subject
		return user, nil
	}
	if !dberr.IsNotFound(err) {
		return nil, err
	}

	user = &User{
		ID:            uuid.New(),
		Email:         email,
		OAuthProvider: &identity.Provider,
		OAuthID:       &identity.Subject,
	}

	err = service.tx.WithinTx(context, func(context stdctx.Context) error {
		first, err := service.isFirstUser(context)
		if err != nil {
			return err
		}

		user.Role, user.Status = sec.RoleUser, sec.StatusPending
		if first {
			user.Role, user.Status = sec.RoleAdmin, sec.StatusActive
		}
		return service.users.Create(context, user)
	})
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("user_registered",
		slog.String("user_id", user.ID),
		slog.String("provider", identity.Provider),
		slog.String("role", string(user.Role)),
	)
	return user, nil
}

// # Helpers

func (service *Service) isFirstUser(context context.Context) (bool, error) {
	count, err := service.users.Count(context)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// issue signs an access token and stores a new refresh session.
func (service *Service) issue(context context.Context, user *User) (*Session, error) {
	now := time.Now()

	accessToken, err := service.tokens.GenerateAccessToken(user.ID, string(user.Role), service.options.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	if err := service.sessions.Save(context, sec.HashToken(refreshToken), user.ID, service.options.RefreshTokenTTL); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &Session{
		AccessToken:      accessToken,
		AccessExpiresAt:  now.Add(service.options.AccessTokenTTL),
		RefreshToken:     refreshToken,
		RefreshExpiresAt: now.Add(service.options.RefreshTokenTTL),
		User:             user,
	}, nil
}

/*
checkAttempts counts one attempt against the email and IP windows.

An empty email or IP skips that counter. Counter failures are logged and
the attempt is let through.
*/
func (service *Service) checkAttempts(context context.Context, email, ip string) error {
	keys := make([]string, 0, 2)
	if email != "" {
		keys = append(keys, constants.RedisPrefixLoginByEmail+email)
	}
	if ip != "" {
		keys = append(keys, constants.RedisPrefixLoginByIP+ip)
	}

	for _, key := range keys {
		count, remaining, err := service.attempts.Hit(context, key, service.options.AttemptWindow)
		if err != nil {
			ctxutil.GetLogger(context).Warn("login_attempts_unavailable", slog.Any("error", err))
			return nil
		}

		if count > int64(service.options.AttemptLimit) {
			ctxutil.GetLogger(context).Warn("login_attempts_exceeded", slog.Int64("count", count))
			return apperr.RateLimited(retrySeconds(remaining))
		}
	}
	return nil
}

func retrySeconds(remaining time.Duration) int {
	seconds := int((remaining + time.Second - 1) / time.Second)
	if seconds < 1 {
		return 1
	}
	return seconds
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
