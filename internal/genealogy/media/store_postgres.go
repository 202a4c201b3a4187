// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/roots/internal/platform/database/schema"
	"github.com/taibuivan/roots/internal/platform/dberr"
	"github.com/taibuivan/roots/internal/platform/postgres"
)

// PostgresRepository implements [Repository] over pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a [PostgresRepository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var (
	photoColumns    = strings.Join(schema.Photo.Columns(), ", ")
	documentColumns = strings.Join(schema.Document.Columns(), ", ")
)

func scanPhoto(row pgx.Row) (*Photo, error) {
	photo := &Photo{}
	err := row.Scan(
		&photo.ID, &photo.PersonID, &photo.FileURL, &photo.ThumbURL,
		&photo.Caption, &photo.SortOrder, &photo.UploadedAt,
	)
	return photo, err
}

func scanDocument(row pgx.Row) (*Document, error) {
	document := &Document{}
	err := row.Scan(
		&document.ID, &document.PersonID, &document.FileURL,
		&document.FileName, &document.FileType, &document.UploadedAt,
	)
	return document, err
}

// # Photos

func (repository *PostgresRepository) CreatePhoto(context context.Context, photo *Photo) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s
	`,
		schema.Photo.Table,
		schema.Photo.ID, schema.Photo.PersonID, schema.Photo.FileURL,
		schema.Photo.ThumbURL, schema.Photo.Caption, schema.Photo.SortOrder,
		schema.Photo.UploadedAt,
	)

	err := postgres.Executor(context, repository.pool).QueryRow(context, query,
		photo.ID, photo.PersonID, photo.FileURL, photo.ThumbURL, photo.Caption, photo.SortOrder,
	).Scan(&photo.UploadedAt)
	return dberr.Wrap(err, "create_photo")
}

func (repository *PostgresRepository) FindPhoto(context context.Context, id string) (*Photo, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		photoColumns, schema.Photo.Table, schema.Photo.ID,
	)

	photo, err := scanPhoto(postgres.Executor(context, repository.pool).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_photo")
	}
	return photo, nil
}

func (repository *PostgresRepository) ListPhotos(context context.Context, personID string) ([]*Photo, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s, %s
	`,
		photoColumns,
		schema.Photo.Table,
		schema.Photo.PersonID,
		schema.Photo.SortOrder, schema.Photo.UploadedAt,
	)

	rows, err := postgres.Executor(context, repository.pool).Query(context, query, personID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_photos")
	}
	defer rows.Close()

	photos := []*Photo{}
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_photo")
		}
		photos = append(photos, photo)
	}

	return photos, dberr.Wrap(rows.Err(), "list_photos")
}

func (repository *PostgresRepository) UpdatePhoto(context context.Context, photo *Photo) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.Photo.Table, schema.Photo.Caption, schema.Photo.SortOrder, schema.Photo.ID,
	)

	command, err := postgres.Executor(context, repository.pool).Exec(context, query, photo.ID, photo.Caption, photo.SortOrder)
	if err != nil {
		return dberr.Wrap(err, "update_photo")
	}

	if command.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) DeletePhoto(context context.Context, id string) error {
	return repository.deleteRow(context, schema.Photo.Table, schema.Photo.ID, id, "delete_photo")
}

// # Documents

func (repository *PostgresRepository) CreateDocument(context context.Context, document *Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s
	`,
		schema.Document.Table,
		schema.Document.ID, schema.Document.PersonID, schema.Document.FileURL,
		schema.Document.FileName, schema.Document.FileType,
		schema.Document.UploadedAt,
	)

	err := postgres.Executor(context, repository.pool).QueryRow(context, query,
		document.ID, document.PersonID, document.FileURL, document.FileName, document.FileType,
	).Scan(&document.UploadedAt)
	return dberr.Wrap(err, "create_document")
}

func (repository *PostgresRepository) FindDocument(context context.Context, id string) (*Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		documentColumns, schema.Document.Table, schema.Document.ID,
	)

	document, err := scanDocument(postgres.Executor(context, repository.pool).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_document")
	}
	return document, nil
}

func (repository *PostgresRepository) ListDocuments(context context.Context, personID string) ([]*Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC, %s DESC
	`,
		documentColumns,
		schema.Document.Table,
		schema.Document.PersonID,
		schema.Document.UploadedAt, schema.Document.ID,
	)

	rows, err := postgres.Executor(context, repository.pool).Query(context, query, personID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_documents")
	}
	defer rows.Close()

	documents := []*Document{}
	for rows.Next() {
		document, err := scanDocument(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_document")
		}
		documents = append(documents, document)
	}

	return documents, dberr.Wrap(rows.Err(), "list_documents")
}

func (repository *PostgresRepository) DeleteDocument(context context.Context, id string) error {
	return repository.deleteRow(context, schema.Document.Table, schema.Document.ID, id, "delete_document")
}

func (repository *PostgresRepository) deleteRow(context context.Context, table, column, id, action string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, column)

	command, err := postgres.Executor(context, repository.pool).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, action)
	}

	if command.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
