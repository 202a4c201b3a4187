// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media stores photos and documents attached to a person.

Uploads are checked twice: the declared content type and the type sniffed
from the bytes must both be acceptable. Photos are always re-encoded (see
package imaging) before they reach the object store.
*/
package media

import (
	"time"
)

// Upload limits in bytes.
const (
	MaxPhotoSize    = 5 << 20
	MaxDocumentSize = 20 << 20
)

// Object store folders.
const (
	photoFolder    = "photos"
	thumbFolder    = "photos/thumbs"
	documentFolder = "documents"
)

// PhotoTypes lists accepted photo content types.
var PhotoTypes = []string{"image/jpeg", "image/png", "image/webp"}

// DocumentTypes lists accepted document content types.
var DocumentTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"image/jpeg",
	"image/png",
}

// # Domain Entities

// Photo is an image of a person with its thumbnail.
type Photo struct {
	ID         string    `json:"id"`
	PersonID   string    `json:"person_id"`
	FileURL    string    `json:"file_url"`
	ThumbURL   *string   `json:"thumb_url"`
	Caption    *string   `json:"caption"`
	SortOrder  int       `json:"sort_order"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Document is an archived file attached to a person.
type Document struct {
	ID         string    `json:"id"`
	PersonID   string    `json:"person_id"`
	FileURL    string    `json:"file_url"`
	FileName   string    `json:"file_name"`
	FileType   string    `json:"file_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// # Inputs

// File is an uploaded multipart file read into memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// PhotoUpdate is the body of PUT /photos/{id}.
type PhotoUpdate struct {
	Caption   *string `json:"caption"`
	SortOrder *int    `json:"sort_order"`
}

// Field names for validation
const (
	FieldFile      = "file"
	FieldCaption   = "caption"
	FieldSortOrder = "sort_order"
)
