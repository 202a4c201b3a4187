// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements accounts, sign-in and session management.

# Sessions

A successful sign-in issues two cookies:

  - access_token: a short-lived HS256 JWT whose subject is the user id.
  - refresh_token: an opaque random token. Only its SHA-256 digest is kept,
    in Redis, with the refresh TTL. Every refresh consumes the old digest and
    issues a new pair.

Role and status are never trusted from the token; [Service.ResolveCaller]
re-reads them for every request so blocking takes effect immediately.

# Registration

The first account ever created becomes an active admin. Later accounts are
pending users unless they present a valid invitation, in which case they are
activated and linked to the invitation's person.
*/
package auth

import (
	"time"

	"github.com/taibuivan/roots/internal/platform/sec"
)

// # Domain Entities

// User is a registered account.
type User struct {
	ID            string         `json:"id"`
	Email         string         `json:"email"`
	PasswordHash  *string        `json:"-"`
	Role          sec.UserRole   `json:"role"`
	Status        sec.UserStatus `json:"status"`
	PersonID      *string        `json:"person_id"`
	OAuthProvider *string        `json:"oauth_provider"`
	OAuthID       *string        `json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Caller converts the account into the identity services act for.
func (user *User) Caller() *sec.Caller {
	return &sec.Caller{
		UserID:   user.ID,
		Role:     user.Role,
		Status:   user.Status,
		PersonID: user.PersonID,
	}
}

// ExternalIdentity is what an OAuth provider tells us about a user.
type ExternalIdentity struct {
	Provider string
	Subject  string
	Email    string
}

// # Field Identifiers

const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldInvitationToken = "invitation_token"
	FieldCode            = "code"
	FieldState           = "state"
	FieldMessage         = "message"
)
