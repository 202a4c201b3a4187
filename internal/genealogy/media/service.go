// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/taibuivan/roots/internal/genealogy/person"
	"github.com/taibuivan/roots/internal/genealogy/tree"
	"github.com/taibuivan/roots/internal/platform/apperr"
	"github.com/taibuivan/roots/internal/platform/ctxutil"
	"github.com/taibuivan/roots/internal/platform/dberr"
	"github.com/taibuivan/roots/internal/platform/imaging"
	"github.com/taibuivan/roots/internal/platform/sec"
	"github.com/taibuivan/roots/internal/platform/validate"
	"github.com/taibuivan/roots/pkg/uuid"
)

const (
	maxCaptionLength  = 200
	maxFileNameLength = 255
)

// # Contracts

// PersonAccess resolves a person with the caller's tree access and updates its avatar.
type PersonAccess interface {
	Authorize(context context.Context, caller sec.Caller, personID string, level tree.Access) (*person.Person, *tree.Tree, error)
	SetAvatar(context context.Context, personID string, url, thumbURL *string) error
}

// ObjectStore is the blob store behind media URLs.
type ObjectStore interface {
	Upload(context context.Context, data []byte, filename, contentType, subfolder string) (string, error)
	Delete(context context.Context, url string) bool
}

// Service implements photo and document use cases.
type Service struct {
	repo    Repository
	persons PersonAccess
	store   ObjectStore
}

// NewService constructs a media [Service].
func NewService(repo Repository, persons PersonAccess, store ObjectStore) *Service {
	return &Service{repo: repo, persons: persons, store: store}
}

// # Photos

/*
UploadPhoto stores a photo and its thumbnail for a person.

# Rules
  - Caller needs edit access to the person's tree.
  - Declared and sniffed types must both be JPEG, PNG or WEBP (415).
  - At most [MaxPhotoSize] bytes (413).

Both renditions are re-encoded JPEGs. If the row cannot be written the
uploaded objects are removed again.
*/
func (service *Service) UploadPhoto(context context.Context, caller sec.Caller, personID string, file File, caption *string) (*Photo, error) {
	if _, _, err := service.persons.Authorize(context, caller, personID, tree.AccessEdit); err != nil {
		return nil, err
	}

	if !slices.Contains(PhotoTypes, baseType(file.ContentType)) {
		return nil, apperr.UnsupportedMediaType(fmt.Sprintf("Unsupported image type: %s. Allowed: JPEG, PNG, WEBP", file.ContentType))
	}

	if !slices.Contains(PhotoTypes, sniff(file.Data)) {
		return nil, apperr.UnsupportedMediaType("File content does not match allowed image types")
	}

	if len(file.Data) > MaxPhotoSize {
		return nil, apperr.PayloadTooLarge("Photo exceeds 5MB limit")
	}

	if caption != nil {
		if err := new(validate.Validator).MaxLen(FieldCaption, *caption, maxCaptionLength).Err(); err != nil {
			return nil, err
		}
	}

	renditions, err := imaging.Process(file.Data)
	if err != nil {
		return nil, apperr.UnsupportedMediaType("Image could not be decoded")
	}

	name := jpegName(file.Name, "photo")

	fullURL, err := service.store.Upload(context, renditions.Full, name, "image/jpeg", photoFolder)
	if err != nil {
		return nil, err
	}

	thumbURL, err := service.store.Upload(context, renditions.Thumb, name, "image/jpeg", thumbFolder)
	if err != nil {
		service.store.Delete(context, fullURL)
		return nil, err
	}

	photo := &Photo{
		ID:       uuid.New(),
		PersonID: personID,
		FileURL:  fullURL,
		ThumbURL: &thumbURL,
		Caption:  caption,
	}

	if err := service.repo.CreatePhoto(context, photo); err != nil {
		service.store.Delete(context, fullURL)
		service.store.Delete(context, thumbURL)
		return nil, err
	}

	ctxutil.GetLogger(context).Info("photo_uploaded",
		slog.String("photo_id", photo.ID),
		slog.String("person_id", personID),
		slog.Int("bytes", len(file.Data)),
	)
	return photo, nil
}

// ListPhotos returns the photos of a person the caller can view.
func (service *Service) ListPhotos(context context.Context, caller sec.Caller, personID string) ([]*Photo, error) {
	if _, _, err := service.persons.Authorize(context, caller, personID, tree.AccessView); err != nil {
		return nil, err
	}
	return service.repo.ListPhotos(context, personID)
}

// UpdatePhoto changes the caption and sort order of a photo.
func (service *Service) UpdatePhoto(context context.Context, caller sec.Caller, photoID string, input PhotoUpdate) (*Photo, error) {
	validator := &validate.Validator{}
	if input.Caption != nil {
		validator.MaxLen(FieldCaption, *input.Caption, maxCaptionLength)
	}
	if input.SortOrder != nil {
		validator.Custom(FieldSortOrder, *input.SortOrder < 0, "Must not be negative")
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	photo, err := service.photoForEdit(context, caller, photoID)
	if err != nil {
		return nil, err
	}

	if input.Caption != nil {
		photo.Caption = input.Caption
	}
	if input.SortOrder != nil {
		photo.SortOrder = *input.SortOrder
	}

	if err := service.repo.UpdatePhoto(context, photo); err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("Photo")
		}
		return nil, err
	}
	return photo, nil
}

// DeletePhoto removes a photo row. Its blobs are deleted best-effort.
func (service *Service) DeletePhoto(context context.Context, caller sec.Caller, photoID string) error {
	photo, err := service.photoForEdit(context, caller, photoID)
	if err != nil {
		return err
	}

	if err := service.repo.DeletePhoto(context, photoID); err != nil {
		if dberr.IsNotFound(err) {
			return apperr.NotFound("Photo")
		}
		return err
	}

	service.store.Delete(context, photo.FileURL)
	if photo.ThumbURL != nil {
		service.store.Delete(context, *photo.ThumbURL)
	}

	ctxutil.GetLogger(context).Info("photo_deleted", slog.String("photo_id", photoID))
	return nil
}

// SetAvatar copies a photo's URLs onto its person.
func (service *Service) SetAvatar(context context.Context, caller sec.Caller, photoID string) (*Photo, error) {
	photo, err := service.photoForEdit(context, caller, photoID)
	if err != nil {
		return nil, err
	}

	if err := service.persons.SetAvatar(context, photo.PersonID, &photo.FileURL, photo.ThumbURL); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("avatar_set",
		slog.String("photo_id", photoID),
		slog.String("person_id", photo.PersonID),
	)
	return photo, nil
}

// # Documents

/*
UploadDocument stores an archived file for a person.

# Rules
  - Caller needs edit access to the person's tree.
  - The sniffed type must be one of [DocumentTypes] (415).
  - At most [MaxDocumentSize] bytes (413).
*/
func (service *Service) UploadDocument(context context.Context, caller sec.Caller, personID string, file File) (*Document, error) {
	if _, _, err := service.persons.Authorize(context, caller, personID, tree.AccessEdit); err != nil {
		return nil, err
	}

	detected := sniff(file.Data)
	if !slices.Contains(DocumentTypes, detected) {
		return nil, apperr.UnsupportedMediaType(fmt.Sprintf("Unsupported file type: %s", detected))
	}

	if len(file.Data) > MaxDocumentSize {
		return nil, apperr.PayloadTooLarge("Document exceeds 20MB limit")
	}

	name := displayName(file.Name, "document")

	fileURL, err := service.store.Upload(context, file.Data, name, detected, documentFolder)
	if err != nil {
		return nil, err
	}

	document := &Document{
		ID:       uuid.New(),
		PersonID: personID,
		FileURL:  fileURL,
		FileName: name,
		FileType: detected,
	}

	if err := service.repo.CreateDocument(context, document); err != nil {
		service.store.Delete(context, fileURL)
		return nil, err
	}

	ctxutil.GetLogger(context).Info("document_uploaded",
		slog.String("document_id", document.ID),
		slog.String("person_id", personID),
		slog.String("type", detected),
	)
	return document, nil
}

// ListDocuments returns the documents of a person the caller can view.
func (service *Service) ListDocuments(context context.Context, caller sec.Caller, personID string) ([]*Document, error) {
	if _, _, err := service.persons.Authorize(context, caller, personID, tree.AccessView); err != nil {
		return nil, err
	}
	return service.repo.ListDocuments(context, personID)
}

// DeleteDocument removes a document row. Its blob is deleted best-effort.
func (service *Service) DeleteDocument(context context.Context, caller sec.Caller, documentID string) error {
	document, err := service.repo.FindDocument(context, documentID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return apperr.NotFound("Document")
		}
		return err
	}

	if _, _, err := service.persons.Authorize(context, caller, document.PersonID, tree.AccessEdit); err != nil {
		return err
	}

	if err := service.repo.DeleteDocument(context, documentID); err != nil {
		if dberr.IsNotFound(err) {
			return apperr.NotFound("Document")
		}
		return err
	}

	service.store.Delete(context, document.FileURL)

	ctxutil.GetLogger(context).Info("document_deleted", slog.String("document_id", documentID))
	return nil
}

// # Helpers

func (service *Service) photoForEdit(context context.Context, caller sec.Caller, photoID string) (*Photo, error) {
	photo, err := service.repo.FindPhoto(context, photoID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("Photo")
		}
		return nil, err
	}

	if _, _, err := service.persons.Authorize(context, caller, photo.PersonID, tree.AccessEdit); err != nil {
		return nil, err
	}
	return photo, nil
}

// sniff returns the media type detected from content, without parameters.
func sniff(data []byte) string {
	return baseType(mimetype.Detect(data).String())
}

// baseType strips parameters such as "; charset=utf-8" and lower-cases.
func baseType(contentType string) string {
	base, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

// displayName keeps the base name of a client path, capped in length.
func displayName(name, fallback string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = fallback
	}
	if runes := []rune(name); len(runes) > maxFileNameLength {
		name = string(runes[len(runes)-maxFileNameLength:])
	}
	return name
}

// jpegName swaps the extension for .jpg since photos are re-encoded.
func jpegName(name, fallback string) string {
	name = displayName(name, fallback)
	return strings.TrimSuffix(name, path.Ext(name)) + ".jpg"
}
