// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package relationship

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/roots/internal/genealogy/kinship"
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

var selectColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s",
	schema.Relationship.ID, schema.Relationship.TreeID, schema.Relationship.PersonID,
	schema.Relationship.RelatedPersonID, schema.Relationship.Type, schema.Relationship.CreatedAt,
)

func (repository *PostgresRepository) PersonTree(context context.Context, personID string) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.Person.TreeID, schema.Person.Table, schema.Person.ID,
	)

	var treeID string
	err := postgres.Executor(context, repository.pool).QueryRow(context, query, personID).Scan(&treeID)
	return treeID, dberr.Wrap(err, "get_person_tree")
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Relationship, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, schema.Relationship.Table, schema.Relationship.ID,
	)

	relationship := &Relationship{}
	err := postgres.Executor(context, repository.pool).QueryRow(context, query, id).Scan(
		&relationship.ID, &relationship.TreeID, &relationship.PersonID,
		&relationship.RelatedPersonID, &relationship.Type, &relationship.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_relationship")
	}

	return relationship, nil
}

func (repository *PostgresRepository) Exists(context context.Context, personID, relatedPersonID string, kind kinship.Kind) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2 AND %s = $3)`,
		schema.Relationship.Table, schema.Relationship.PersonID, schema.Relationship.RelatedPersonID, schema.Relationship.Type,
	)

	var exists bool
	err := postgres.Executor(context, repository.pool).QueryRow(context, query, personID, relatedPersonID, string(kind)).Scan(&exists)
	return exists, dberr.Wrap(err, "relationship_exists")
}

func (repository *PostgresRepository) Create(context context.Context, relationship *Relationship) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s
	`,
		schema.Relationship.Table, schema.Relationship.ID, schema.Relationship.TreeID,
		schema.Relationship.PersonID, schema.Relationship.RelatedPersonID, schema.Relationship.Type,
		schema.Relationship.CreatedAt,
	)

	err := postgres.Executor(context, repository.pool).QueryRow(context, query,
		relationship.ID, relationship.TreeID, relationship.PersonID, relationship.RelatedPersonID, string(relationship.Type),
	).Scan(&relationship.CreatedAt)
	return dberr.Wrap(err, "create_relationship")
}

func (repository *PostgresRepository) CreateIfAbsent(context context.Context, relationship *Relationship) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (%s, %s, %s) DO NOTHING
	`,
		schema.Relationship.Table, schema.Relationship.ID, schema.Relationship.TreeID,
		schema.Relationship.PersonID, schema.Relationship.RelatedPersonID, schema.Relationship.Type,
		schema.Relationship.PersonID, schema.Relationship.RelatedPersonID, schema.Relationship.Type,
	)

	command, err := postgres.Executor(context, repository.pool).Exec(context, query,
		relationship.ID, relationship.TreeID, relationship.PersonID, relationship.RelatedPersonID, string(relationship.Type),
	)
	if err != nil {
		return false, dberr.Wrap(err, "create_inverse_relationship")
	}

	return command.RowsAffected() == 1, nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Relationship.Table, schema.Relationship.ID)

	command, err := postgres.Executor(context, repository.pool).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_relationship")
	}

	if command.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) DeleteTriple(context context.Context, personID, relatedPersonID string, kind kinship.Kind) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2 AND %s = $3`,
		schema.Relationship.Table, schema.Relationship.PersonID, schema.Relationship.RelatedPersonID, schema.Relationship.Type,
	)

	command, err := postgres.Executor(context, repository.pool).Exec(context, query, personID, relatedPersonID, string(kind))
	if err != nil {
		return false, dberr.Wrap(err, "delete_inverse_relationship")
	}

	return command.RowsAffected() > 0, nil
}

func (repository *PostgresRepository) ListForPerson(context context.Context, personID string) ([]*WithPerson, error) {
	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, r.%s, r.%s, r.%s,
		       p.%s, p.%s, p.%s, p.%s,
		       to_char(p.%s, 'YYYY-MM-DD'), to_char(p.%s, 'YYYY-MM-DD'), p.%s
		FROM %s r
		LEFT JOIN %s p ON p.%s = r.%s
		WHERE r.%s = $1
		ORDER BY r.%s
	`,
		schema.Relationship.ID, schema.Relationship.TreeID, schema.Relationship.PersonID,
		schema.Relationship.RelatedPersonID, schema.Relationship.Type, schema.Relationship.CreatedAt,
		schema.Person.ID, schema.Person.FirstName, schema.Person.LastName, schema.Person.Patronymic,
		schema.Person.BirthDate, schema.Person.DeathDate, schema.Person.AvatarThumbURL,
		schema.Relationship.Table,
		schema.Person.Table, schema.Person.ID, schema.Relationship.RelatedPersonID,
		schema.Relationship.PersonID,
		schema.Relationship.ID,
	)

	rows, err := postgres.Executor(context, repository.pool).Query(context, query, personID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_person_relationships")
	}
	defer rows.Close()

	result := []*WithPerson{}
	for rows.Next() {
		item := &WithPerson{}
		var (
			relatedID            *string
			firstName, lastName  *string
			patronymic           *string
			birthDate, deathDate *string
			avatarThumbURL       *string
		)

		if err := rows.Scan(
			&item.ID, &item.TreeID, &item.PersonID, &item.RelatedPersonID, &item.Type, &item.CreatedAt,
			&relatedID, &firstName, &lastName, &patronymic, &birthDate, &deathDate, &avatarThumbURL,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_person_relationship")
		}

		if relatedID != nil {
			item.Related = &RelatedPerson{
				ID:             *relatedID,
				FirstName:      *firstName,
				LastName:       *lastName,
				Patronymic:     patronymic,
				BirthDate:      birthDate,
				DeathDate:      deathDate,
				AvatarThumbURL: avatarThumbURL,
			}
		}
		result = append(result, item)
	}

	return result, dberr.Wrap(rows.Err(), "list_person_relationships")
}
