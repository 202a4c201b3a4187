// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package person

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

// selectColumns reads DATE columns back as YYYY-MM-DD text.
func selectColumns() string {
	columns := make([]string, 0, len(schema.Person.Columns()))
	for _, column := range schema.Person.Columns() {
		if isDateField(column) {
			column = fmt.Sprintf("to_char(%s, 'YYYY-MM-DD')", column)
		}
		columns = append(columns, column)
	}
	return strings.Join(columns, ", ")
}

// placeholder casts text parameters for DATE columns.
func placeholder(field string, index int) string {
	if isDateField(field) {
		return fmt.Sprintf("$%d::text::date", index)
	}
	return fmt.Sprintf("$%d", index)
}

func scanPerson(row pgx.Row) (*Person, error) {
	person := &Person{}
	err := row.Scan(
		&person.ID, &person.TreeID, &person.FirstName, &person.LastName, &person.Patronymic, &person.MaidenName,
		&person.Gender, &person.BirthDate, &person.BirthPlace, &person.DeathDate, &person.DeathPlace,
		&person.BurialPlace, &person.Residence, &person.AvatarURL, &person.AvatarThumbURL,
		&person.CreatedAt, &person.UpdatedAt,
	)
	return person, err
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Person, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns(), schema.Person.Table, schema.Person.ID,
	)

	person, err := scanPerson(postgres.Executor(context, repository.pool).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_person")
	}
	return person, nil
}

func (repository *PostgresRepository) ListByTree(context context.Context, treeID string) ([]*Person, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s, %s, %s
	`,
		selectColumns(),
		schema.Person.Table,
		schema.Person.TreeID,
		schema.Person.LastName, schema.Person.FirstName, schema.Person.ID,
	)

	rows, err := postgres.Executor(context, repository.pool).Query(context, query, treeID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_persons")
	}
	defer rows.Close()

	persons := []*Person{}
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_person")
		}
		persons = append(persons, person)
	}

	return persons, dberr.Wrap(rows.Err(), "list_persons")
}

func (repository *PostgresRepository) Create(context context.Context, person *Person) error {
	values := person.Snapshot()

	columns := []string{schema.Person.ID, schema.Person.TreeID}
	placeholders := []string{"$1", "$2"}
	args := []any{person.ID, person.TreeID}

	for _, field := range EditableFields {
		args = append(args, values[field])
		columns = append(columns, field)
		placeholders = append(placeholders, placeholder(field, len(args)))
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES (%s)
		RETURNING %s, %s
	`,
		schema.Person.Table, strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		schema.Person.CreatedAt, schema.Person.UpdatedAt,
	)

	err := postgres.Executor(context, repository.pool).QueryRow(context, query, args...).Scan(
		&person.CreatedAt, &person.UpdatedAt,
	)
	return dberr.Wrap(err, "create_person")
}

func (repository *PostgresRepository) Patch(context context.Context, id string, values map[string]*string) error {
	args := []any{id}
	assignments := []string{fmt.Sprintf("%s = NOW()", schema.Person.UpdatedAt)}

	for _, field := range EditableFields {
		value, ok := values[field]
		if !ok {
			continue
		}
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = %s", field, placeholder(field, len(args))))
	}

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $1`,
		schema.Person.Table, strings.Join(assignments, ", "), schema.Person.ID,
	)

	command, err := postgres.Executor(context, repository.pool).Exec(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, "update_person")
	}

	if command.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) SetAvatar(context context.Context, id string, url, thumbURL *string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = NOW() WHERE %s = $1`,
		schema.Person.Table,
		schema.Person.AvatarURL, schema.Person.AvatarThumbURL, schema.Person.UpdatedAt,
		schema.Person.ID,
	)

	command, err := postgres.Executor(context, repository.pool).Exec(context, query, id, url, thumbURL)
	if err != nil {
		return dberr.Wrap(err, "set_avatar")
	}

	if command.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Person.Table, schema.Person.ID)

	command, err := postgres.Executor(context, repository.pool).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_person")
	}

	if command.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) MediaURLs(context context.Context, id string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE %s = $1
		UNION ALL
		SELECT %s FROM %s WHERE %s = $1 AND %s IS NOT NULL
		UNION ALL
		SELECT %s FROM %s WHERE %s = $1
	`,
		schema.Photo.FileURL, schema.Photo.Table, schema.Photo.PersonID,
		schema.Photo.ThumbURL, schema.Photo.Table, schema.Photo.PersonID, schema.Photo.ThumbURL,
		schema.Document.FileURL, schema.Document.Table, schema.Document.PersonID,
	)

	rows, err := postgres.Executor(context, repository.pool).Query(context, query, id)
	if err != nil {
		return nil, dberr.Wrap(err, "list_media_urls")
	}
	defer rows.Close()

	urls := []string{}
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, dberr.Wrap(err, "scan_media_url")
		}
		urls = append(urls, url)
	}

	return urls, dberr.Wrap(rows.Err(), "list_media_urls")
}

// likeEscaper escapes ILIKE wildcards so the term matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

/*
Search matches a term against names and birth place, case-insensitively.

An empty TreeID searches every tree; OwnerID, when set, further restricts
the scope to trees owned by that user.
*/
func (repository *PostgresRepository) Search(context context.Context, query SearchQuery) ([]*Person, error) {
	args := []any{"%" + likeEscaper.Replace(query.Term) + "%"}
	conditions := []string{fmt.Sprintf("(%s ILIKE $1 OR %s ILIKE $1 OR %s ILIKE $1 OR %s ILIKE $1)",
		schema.Person.FirstName, schema.Person.LastName, schema.Person.Patronymic, schema.Person.BirthPlace,
	)}

	if query.TreeID != "" {
		args = append(args, query.TreeID)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", schema.Person.TreeID, len(args)))
	}
	if query.OwnerID != "" {
		args = append(args, query.OwnerID)
		conditions = append(conditions, fmt.Sprintf("%s IN (SELECT %s FROM %s WHERE %s = $%d)",
			schema.Person.TreeID, schema.Tree.ID, schema.Tree.Table, schema.Tree.OwnerID, len(args),
		))
	}
	args = append(args, query.Limit)

	sql := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY %s, %s
		LIMIT $%d
	`,
		selectColumns(),
		schema.Person.Table,
		strings.Join(conditions, " AND "),
		schema.Person.LastName, schema.Person.FirstName,
		len(args),
	)

	rows, err := postgres.Executor(context, repository.pool).Query(context, sql, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "search_persons")
	}
	defer rows.Close()

	persons := []*Person{}
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_person")
		}
		persons = append(persons, person)
	}

	return persons, dberr.Wrap(rows.Err(), "search_persons")
}
