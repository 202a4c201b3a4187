// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import "context"

// Repository defines the persistence contract for photos and documents.
type Repository interface {
	CreatePhoto(context context.Context, photo *Photo) error
	FindPhoto(context context.Context, id string) (*Photo, error)

	// ListPhotos orders by sort_order, then upload time.
	ListPhotos(context context.Context, personID string) ([]*Photo, error)

	UpdatePhoto(context context.Context, photo *Photo) error
	DeletePhoto(context context.Context, id string) error

	CreateDocument(context context.Context, document *Document) error
	FindDocument(context context.Context, id string) (*Document, error)

	// ListDocuments returns the newest first.
	ListDocuments(context context.Context, personID string) ([]*Document, error)

	DeleteDocument(context context.Context, id string) error
}
