// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for accounts.
type UserRepository interface {
	FindByID(context context.Context, id string) (*User, error)

	// FindByEmail matches case-insensitively.
	FindByEmail(context context.Context, email string) (*User, error)

	FindByOAuth(context context.Context, provider, subject string) (*User, error)

	// Count returns the number of accounts. Zero means the next one becomes admin.
	Count(context context.Context) (int, error)

	/*
		Create persists a new account and fills CreatedAt.

		Returns:
		  - error: apperr.Conflict on a duplicate email
	*/
	Create(context context.Context, user *User) error

	LinkOAuth(context context.Context, userID, provider, subject string) error
}

// # Volatile Data Access

// SessionStore keeps refresh-token digests with their owner.
type SessionStore interface {
	Save(context context.Context, tokenHash, userID string, ttl time.Duration) error

	/*
		Take atomically reads and removes a session so that a refresh token is
		usable exactly once.

		Returns:
		  - string: The owning user id
		  - error: dberr.ErrNotFound when absent or expired
	*/
	Take(context context.Context, tokenHash string) (string, error)

	Delete(context context.Context, tokenHash string) error
}

// AttemptCounter counts sign-in attempts in fixed windows.
type AttemptCounter interface {
	// Hit records one attempt and returns the count within the current window
	// and the time left until the window resets.
	Hit(context context.Context, key string, window time.Duration) (int64, time.Duration, error)

	Reset(context context.Context, key string) error
}
