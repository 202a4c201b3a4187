// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package person

import (
	"context"
	"slices"
	"time"

	"github.com/taibuivan/roots/internal/platform/validate"
	"github.com/taibuivan/roots/pkg/pointer"
	"github.com/taibuivan/roots/pkg/slice"
)

// ProposalGateway exposes the person store to the proposal workflow.
type ProposalGateway struct {
	repo Repository
}

// NewProposalGateway constructs a [ProposalGateway].
func NewProposalGateway(repo Repository) *ProposalGateway {
	return &ProposalGateway{repo: repo}
}

// TreeOf returns the tree of a person.
func (gateway *ProposalGateway) TreeOf(context context.Context, personID string) (string, error) {
	person, err := gateway.repo.FindByID(context, personID)
	if err != nil {
		return "", err
	}
	return person.TreeID, nil
}

/*
ApplyChanges writes accepted proposal values onto a person.

Values are trimmed and a blank value clears an optional column. Unknown
field names are skipped, as are blank required names, dates outside
YYYY-MM-DD and genders outside [Genders], so an accept never fails on a
value the columns cannot hold. The person's updated_at is bumped even
if nothing applies.

Returns:
  - []string: The fields written, in column order
  - error: dberr.ErrNotFound or a database error
*/
func (gateway *ProposalGateway) ApplyChanges(context context.Context, personID string, values map[string]*string) ([]string, error) {
	writable := make(map[string]*string, len(values))
	for field, raw := range values {
		writable[field] = normalize(pointer.Val(raw))
	}

	applied := slice.Filter(EditableFields, func(field string) bool {
		value, ok := writable[field]
		return ok && castable(field, value)
	})

	patch := make(map[string]*string, len(applied))
	for _, field := range applied {
		patch[field] = writable[field]
	}

	if err := gateway.repo.Patch(context, personID, patch); err != nil {
		return nil, err
	}
	return applied, nil
}

// castable reports whether a normalized value fits its column.
func castable(field string, value *string) bool {
	if value == nil {
		return !isRequiredField(field)
	}

	switch {
	case isDateField(field):
		_, err := time.Parse(validate.DateLayout, *value)
		return err == nil
	case field == FieldGender:
		return slices.Contains(Genders, *value)
	}
	return true
}
