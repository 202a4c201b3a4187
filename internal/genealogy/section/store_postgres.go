// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package section

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

var sectionColumns = strings.Join(schema.Section.Columns(), ", ")

func scanSection(row pgx.Row) (*Section, error) {
	section := &Section{}
	err := row.Scan(
		&section.ID, &section.PersonID, &section.Title, &section.ContentHTML,
		&section.SortOrder, &section.CreatedAt, &section.UpdatedAt,
	)
	return section, err
}

func (repository *PostgresRepository) ListByPerson(context context.Context, personID string) ([]*Section, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s, %s
	`,
		sectionColumns,
		schema.Section.Table,
		schema.Section.PersonID,
		schema.Section.SortOrder, schema.Section.CreatedAt,
	)

	rows, err := postgres.Executor(context, repository.pool).Query(context, query, personID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_sections")
	}
	defer rows.Close()

	sections := []*Section{}
	for rows.Next() {
		section, err := scanSection(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_section")
		}
		sections = append(sections, section)
	}

	return sections, dberr.Wrap(rows.Err(), "list_sections")
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Section, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		sectionColumns, schema.Section.Table, schema.Section.ID,
	)

	section, err := scanSection(postgres.Executor(context, repository.pool).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_section")
	}
	return section, nil
}

func (repository *PostgresRepository) Create(context context.Context, section *Section) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s
	`,
		schema.Section.Table,
		schema.Section.ID, schema.Section.PersonID, schema.Section.Title,
		schema.Section.ContentHTML, schema.Section.SortOrder,
		schema.Section.CreatedAt, schema.Section.UpdatedAt,
	)

	err := postgres.Executor(context, repository.pool).QueryRow(context, query,
		section.ID, section.PersonID, section.Title, section.ContentHTML, section.SortOrder,
	).Scan(&section.CreatedAt, &section.UpdatedAt)
	return dberr.Wrap(err, "create_section")
}

func (repository *PostgresRepository) Update(context context.Context, section *Section) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.Section.Table,
		schema.Section.Title, schema.Section.ContentHTML, schema.Section.SortOrder, schema.Section.UpdatedAt,
		schema.Section.ID,
		schema.Section.UpdatedAt,
	)

	err := postgres.Executor(context, repository.pool).QueryRow(context, query,
		section.ID, section.Title, section.ContentHTML, section.SortOrder,
	).Scan(&section.UpdatedAt)
	return dberr.Wrap(err, "update_section")
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Section.Table, schema.Section.ID)

	command, err := postgres.Executor(context, repository.pool).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_section")
	}

	if command.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
