// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/roots/internal/platform/apperr"
	"github.com/taibuivan/roots/internal/platform/middleware"
	requestutil "github.com/taibuivan/roots/internal/platform/request"
	"github.com/taibuivan/roots/internal/platform/respond"
	"github.com/taibuivan/roots/internal/platform/validate"
)

const (
	// multipartOverhead covers boundaries and the other form fields.
	multipartOverhead = 1 << 20
	multipartMemory   = 8 << 20
)

// Handler implements the HTTP layer for photos and documents.
type Handler struct {
	service *Service
}

// NewHandler constructs a media [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the media endpoints.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Post("/persons/{personID}/photos", handler.uploadPhoto)
		authed.Get("/persons/{personID}/photos", handler.listPhotos)
		authed.Put("/photos/{photoID}", handler.updatePhoto)
		authed.Delete("/photos/{photoID}", handler.deletePhoto)
		authed.Post("/photos/{photoID}/avatar", handler.setAvatar)

		authed.Post("/persons/{personID}/documents", handler.uploadDocument)
		authed.Get("/persons/{personID}/documents", handler.listDocuments)
		authed.Delete("/documents/{documentID}", handler.deleteDocument)
	})
}

// # Photos

/*
POST /api/v1/persons/{personID}/photos (multipart: file, caption).

Response:
  - 201: Photo
  - 413: Over 5MB
  - 415: Not a JPEG, PNG or WEBP image
*/
func (handler *Handler) uploadPhoto(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	personID, err := requestutil.UUIDParam(request, "personID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	file, err := readUpload(writer, request, MaxPhotoSize)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var caption *string
	if value := request.FormValue(FieldCaption); value != "" {
		caption = &value
	}

	photo, err := handler.service.UploadPhoto(request.Context(), caller, personID, file, caption)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, photo)
}

func (handler *Handler) listPhotos(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	personID, err := requestutil.UUIDParam(request, "personID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	photos, err := handler.service.ListPhotos(request.Context(), caller, personID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, photos)
}

func (handler *Handler) updatePhoto(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	photoID, err := requestutil.UUIDParam(request, "photoID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input PhotoUpdate
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	photo, err := handler.service.UpdatePhoto(request.Context(), caller, photoID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, photo)
}

func (handler *Handler) deletePhoto(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	photoID, err := requestutil.UUIDParam(request, "photoID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeletePhoto(request.Context(), caller, photoID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) setAvatar(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	photoID, err := requestutil.UUIDParam(request, "photoID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	photo, err := handler.service.SetAvatar(request.Context(), caller, photoID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, photo)
}

// # Documents

func (handler *Handler) uploadDocument(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	personID, err := requestutil.UUIDParam(request, "personID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	file, err := readUpload(writer, request, MaxDocumentSize)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	document, err := handler.service.UploadDocument(request.Context(), caller, personID, file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, document)
}

func (handler *Handler) listDocuments(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	personID, err := requestutil.UUIDParam(request, "personID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	documents, err := handler.service.ListDocuments(request.Context(), caller, personID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, documents)
}

func (handler *Handler) deleteDocument(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	documentID, err := requestutil.UUIDParam(request, "documentID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteDocument(request.Context(), caller, documentID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Multipart

/*
readUpload reads the "file" part of a multipart body.

The body is capped a little above limit so oversized uploads fail fast;
files between limit and the cap are read and left to the service to reject.
*/
func readUpload(writer http.ResponseWriter, request *http.Request, limit int64) (File, error) {
	request.Body = http.MaxBytesReader(writer, request.Body, limit+multipartOverhead)

	if err := request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return File{}, apperr.PayloadTooLarge("Upload exceeds size limit")
		}
		return File{}, validate.RequiredError(FieldFile, "Expected a multipart form with a file")
	}

	part, header, err := request.FormFile(FieldFile)
	if err != nil {
		return File{}, validate.RequiredError(FieldFile, "File is required")
	}
	defer part.Close()

	data, err := io.ReadAll(io.LimitReader(part, limit+1))
	if err != nil {
		return File{}, validate.RequiredError(FieldFile, "File could not be read")
	}

	return File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
