// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package invitation manages the links admins share with relatives.

An invitation carries an opaque token, an expiry and a use budget. Signing
up with a valid token activates the account at once and, when the
invitation names a person, links the account to that person so the new
member can view its tree.
*/
package invitation

import (
	"time"
)

// Defaults and bounds for new invitations.
const (
	DefaultExpiresHours = 72
	MaxExpiresHours     = 8760
	DefaultMaxUses      = 1
	MaxUses             = 1000
	TokenBytes          = 32
)

// Validation messages, also returned by the public check endpoint.
const (
	MessageInvalid = "Invalid token"
	MessageExpired = "Invitation expired"
	MessageUsedUp  = "Invitation fully used"
	MessageValid   = "Valid invitation"
)

// Invitation is a shareable sign-up token.
type Invitation struct {
	ID             string    `json:"id"`
	Token          string    `json:"token"`
	CreatedBy      string    `json:"created_by"`
	TargetPersonID *string   `json:"target_person_id"`
	ExpiresAt      time.Time `json:"expires_at"`
	MaxUses        int       `json:"max_uses"`
	UsedCount      int       `json:"used_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// Check reports why an invitation cannot be used at the given time, or [MessageValid].
func (invitation *Invitation) Check(now time.Time) (bool, string) {
	switch {
	case invitation.ExpiresAt.Before(now):
		return false, MessageExpired
	case invitation.UsedCount >= invitation.MaxUses:
		return false, MessageUsedUp
	default:
		return true, MessageValid
	}
}

// CreateInput is the body of POST /invitations. Nil fields take their defaults.
type CreateInput struct {
	TargetPersonID *string `json:"target_person_id"`
	ExpiresHours   *int    `json:"expires_hours"`
	MaxUses        *int    `json:"max_uses"`
}

// Validation is the public answer to "can this token be used?".
type Validation struct {
	Valid          bool    `json:"valid"`
	TargetPersonID *string `json:"target_person_id"`
	Message        string  `json:"message"`
}

// Field names for validation
const (
	FieldTargetPersonID  = "target_person_id"
	FieldExpiresHours    = "expires_hours"
	FieldMaxUses         = "max_uses"
	FieldInvitationToken = "invitation_token"
)
