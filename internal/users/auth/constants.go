// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// RefreshTokenLength is the byte length of the random refresh token.
	RefreshTokenLength = 32

	// OAuthStateLength is the byte length of the CSRF state for Google sign-in.
	OAuthStateLength = 16

	// OAuthStateTTL bounds how long a user may take on the Google consent screen.
	OAuthStateTTL = 10 * time.Minute

	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 8

	// MaxPasswordLength matches the bcrypt input limit.
	MaxPasswordLength = 72

	// ProviderGoogle is the oauth_provider value of Google-linked accounts.
	ProviderGoogle = "google"
)
