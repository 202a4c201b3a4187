// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package proposal implements the edit-proposal workflow.

Contributors without edit rights on a tree cannot change a person directly.
Instead they submit the field-level diff as a proposal, which a reviewer
(admin or editor) accepts, rejects, or sends back for clarification.

# State Machine

	pending ──► accepted | rejected | clarification_requested
	any     ──► clarification_requested

Accepting a proposal writes every "after" value onto the target person in
the same transaction as the status change. Field names the person no longer
has are skipped.
*/
package proposal

import (
	"time"
)

// # Status

// Status is the review state of a proposal.
type Status string

const (
	StatusPending                Status = "pending"
	StatusAccepted               Status = "accepted"
	StatusRejected               Status = "rejected"
	StatusClarificationRequested Status = "clarification_requested"
)

// Statuses lists every valid status.
var Statuses = []Status{StatusPending, StatusAccepted, StatusRejected, StatusClarificationRequested}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusClarificationRequested:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether a reviewer may move a proposal from s to target.
//
// Only pending proposals can be decided. Clarification can be requested from any state.
func (s Status) CanTransitionTo(target Status) bool {
	if target == StatusClarificationRequested {
		return true
	}

	switch s {
	case StatusPending:
		return true
	case StatusAccepted, StatusRejected, StatusClarificationRequested:
		return false
	default:
		return false
	}
}

func statusStrings() []string {
	values := make([]string, len(Statuses))
	for i, status := range Statuses {
		values[i] = string(status)
	}
	return values
}

// # Domain Entities

// FieldChange is one before/after pair. Values are the string form of the field; nil means empty.
type FieldChange struct {
	Before *string `json:"before"`
	After  *string `json:"after"`
}

// FieldChanges maps a person field name to its change.
type FieldChanges map[string]FieldChange

/*
Diff compares two snapshots of the same fields and keeps only those whose
value differs. Fields present in after but missing from before count as empty.

Returns:
  - FieldChanges: Never nil; empty when nothing changed
*/
func Diff(before, after map[string]*string) FieldChanges {
	changes := FieldChanges{}
	for field, next := range after {
		previous := before[field]
		if sameValue(previous, next) {
			continue
		}
		changes[field] = FieldChange{Before: previous, After: next}
	}
	return changes
}

func sameValue(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Proposal is a reviewable change set against one person.
type Proposal struct {
	ID             string       `json:"id"`
	ProposedBy     string       `json:"proposed_by"`
	TargetPersonID string       `json:"target_person_id"`
	FieldChanges   FieldChanges `json:"field_changes"`
	Status         Status       `json:"status"`
	ReviewedBy     *string      `json:"reviewed_by"`
	Comment        *string      `json:"comment"`
	CreatedAt      time.Time    `json:"created_at"`
	ReviewedAt     *time.Time   `json:"reviewed_at"`
}

// SubmitInput is the payload of POST /proposals.
type SubmitInput struct {
	TargetPersonID string       `json:"target_person_id"`
	FieldChanges   FieldChanges `json:"field_changes"`
}

// ReviewInput is the payload of PATCH /proposals/{id}.
type ReviewInput struct {
	Status  Status  `json:"status"`
	Comment *string `json:"comment"`
}

// Filter narrows GET /proposals.
type Filter struct {
	TreeID     string
	Status     Status
	ProposedBy string
}

// Field names for validation
const (
	FieldTargetPersonID = "target_person_id"
	FieldFieldChanges   = "field_changes"
	FieldStatus         = "status"
	FieldComment        = "comment"
	FieldTreeID         = "tree_id"
)
