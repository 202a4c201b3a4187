// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package section

import (
	"context"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/taibuivan/roots/internal/genealogy/person"
	"github.com/taibuivan/roots/internal/genealogy/tree"
	"github.com/taibuivan/roots/internal/platform/apperr"
	"github.com/taibuivan/roots/internal/platform/ctxutil"
	"github.com/taibuivan/roots/internal/platform/dberr"
	"github.com/taibuivan/roots/internal/platform/sec"
	"github.com/taibuivan/roots/internal/platform/validate"
	"github.com/taibuivan/roots/pkg/uuid"
)

const (
	maxTitleLength   = 200
	maxContentLength = 100_000
)

// PersonAuthorizer resolves a person with the caller's tree access.
type PersonAuthorizer interface {
	Authorize(context context.Context, caller sec.Caller, personID string, level tree.Access) (*person.Person, *tree.Tree, error)
}

// Service implements section use cases.
type Service struct {
	repo    Repository
	persons PersonAuthorizer
	policy  *bluemonday.Policy
}

// NewService constructs a section [Service] sanitising with the UGC policy.
func NewService(repo Repository, persons PersonAuthorizer) *Service {
	return &Service{repo: repo, persons: persons, policy: bluemonday.UGCPolicy()}
}

// List returns the sections of a person the caller can view.
func (service *Service) List(context context.Context, caller sec.Caller, personID string) ([]*Section, error) {
	if _, _, err := service.persons.Authorize(context, caller, personID, tree.AccessView); err != nil {
		return nil, err
	}
	return service.repo.ListByPerson(context, personID)
}

/*
Create adds a section to a person.

# Rules
  - Caller needs edit access to the person's tree.
  - Title is required. Content is sanitised; scripts, handlers and unsafe
    URLs are stripped.
*/
func (service *Service) Create(context context.Context, caller sec.Caller, personID string, input CreateInput) (*Section, error) {
	input.Title = strings.TrimSpace(input.Title)

	validator := &validate.Validator{}
	validator.
		Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, maxTitleLength).
		Custom(FieldSortOrder, input.SortOrder < 0, "Must not be negative")
	if input.ContentHTML != nil {
		validator.MaxLen(FieldContentHTML, *input.ContentHTML, maxContentLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, _, err := service.persons.Authorize(context, caller, personID, tree.AccessEdit); err != nil {
		return nil, err
	}

	section := &Section{
		ID:          uuid.New(),
		PersonID:    personID,
		Title:       input.Title,
		ContentHTML: service.sanitize(input.ContentHTML),
		SortOrder:   input.SortOrder,
	}

	if err := service.repo.Create(context, section); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("section_created",
		slog.String("section_id", section.ID),
		slog.String("person_id", personID),
	)
	return section, nil
}

// Update changes the supplied fields of a section.
func (service *Service) Update(context context.Context, caller sec.Caller, sectionID string, input UpdateInput) (*Section, error) {
	validator := &validate.Validator{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		input.Title = &title
		validator.Required(FieldTitle, title).MaxLen(FieldTitle, title, maxTitleLength)
	}
	if input.ContentHTML != nil {
		validator.MaxLen(FieldContentHTML, *input.ContentHTML, maxContentLength)
	}
	if input.SortOrder != nil {
		validator.Custom(FieldSortOrder, *input.SortOrder < 0, "Must not be negative")
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	section, err := service.sectionForEdit(context, caller, sectionID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		section.Title = *input.Title
	}
	if input.ContentHTML != nil {
		section.ContentHTML = service.sanitize(input.ContentHTML)
	}
	if input.SortOrder != nil {
		section.SortOrder = *input.SortOrder
	}

	if err := service.repo.Update(context, section); err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("Section")
		}
		return nil, err
	}
	return section, nil
}

// Delete removes a section.
func (service *Service) Delete(context context.Context, caller sec.Caller, sectionID string) error {
	if _, err := service.sectionForEdit(context, caller, sectionID); err != nil {
		return err
	}

	if err := service.repo.Delete(context, sectionID); err != nil {
		if dberr.IsNotFound(err) {
			return apperr.NotFound("Section")
		}
		return err
	}

	ctxutil.GetLogger(context).Info("section_deleted", slog.String("section_id", sectionID))
	return nil
}

func (service *Service) sectionForEdit(context context.Context, caller sec.Caller, sectionID string) (*Section, error) {
	section, err := service.repo.FindByID(context, sectionID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("Section")
		}
		return nil, err
	}

	if _, _, err := service.persons.Authorize(context, caller, section.PersonID, tree.AccessEdit); err != nil {
		return nil, err
	}
	return section, nil
}

// sanitize returns nil for empty results so blank content is stored as NULL.
func (service *Service) sanitize(content *string) *string {
	if content == nil {
		return nil
	}

	clean := strings.TrimSpace(service.policy.Sanitize(*content))
	if clean == "" {
		return nil
	}
	return &clean
}
