// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tree

import (
	"context"
	"fmt"

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

func (repository *PostgresRepository) ListByOwner(context context.Context, ownerID string) ([]*Tree, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC, %s DESC
	`,
		schema.Tree.ID, schema.Tree.OwnerID, schema.Tree.Name, schema.Tree.CreatedAt,
		schema.Tree.Table,
		schema.Tree.OwnerID,
		schema.Tree.CreatedAt, schema.Tree.ID,
	)

	rows, err := postgres.Executor(context, repository.pool).Query(context, query, ownerID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_trees")
	}
	defer rows.Close()

	trees := []*Tree{}
	for rows.Next() {
		tree := &Tree{}
		if err := rows.Scan(&tree.ID, &tree.OwnerID, &tree.Name, &tree.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_tree")
		}
		trees = append(trees, tree)
	}

	return trees, dberr.Wrap(rows.Err(), "list_trees")
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Tree, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.Tree.ID, schema.Tree.OwnerID, schema.Tree.Name, schema.Tree.CreatedAt,
		schema.Tree.Table, schema.Tree.ID,
	)

	tree := &Tree{}
	err := postgres.Executor(context, repository.pool).QueryRow(context, query, id).Scan(
		&tree.ID, &tree.OwnerID, &tree.Name, &tree.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_tree")
	}

	return tree, nil
}

func (repository *PostgresRepository) Create(context context.Context, tree *Tree) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s
	`,
		schema.Tree.Table, schema.Tree.ID, schema.Tree.OwnerID, schema.Tree.Name,
		schema.Tree.CreatedAt,
	)

	err := postgres.Executor(context, repository.pool).QueryRow(context, query, tree.ID, tree.OwnerID, tree.Name).Scan(&tree.CreatedAt)
	return dberr.Wrap(err, "create_tree")
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Tree.Table, schema.Tree.ID)

	command, err := postgres.Executor(context, repository.pool).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_tree")
	}

	if command.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) ContainsPerson(context context.Context, treeID, personID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.Person.Table, schema.Person.ID, schema.Person.TreeID,
	)

	var exists bool
	err := postgres.Executor(context, repository.pool).QueryRow(context, query, personID, treeID).Scan(&exists)
	return exists, dberr.Wrap(err, "tree_contains_person")
}

func (repository *PostgresRepository) ListNodePersons(context context.Context, treeID string) ([]NodePerson, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, to_char(%s, 'YYYY-MM-DD')
		FROM %s
		WHERE %s = $1
		ORDER BY %s, %s
	`,
		schema.Person.ID, schema.Person.FirstName, schema.Person.LastName, schema.Person.AvatarThumbURL, schema.Person.BirthDate,
		schema.Person.Table,
		schema.Person.TreeID,
		schema.Person.CreatedAt, schema.Person.ID,
	)

	rows, err := postgres.Executor(context, repository.pool).Query(context, query, treeID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_node_persons")
	}
	defer rows.Close()

	persons := []NodePerson{}
	for rows.Next() {
		var person NodePerson
		if err := rows.Scan(&person.ID, &person.FirstName, &person.LastName, &person.AvatarThumbURL, &person.BirthDate); err != nil {
			return nil, dberr.Wrap(err, "scan_node_person")
		}
		persons = append(persons, person)
	}

	return persons, dberr.Wrap(rows.Err(), "list_node_persons")
}

func (repository *PostgresRepository) ListEdges(context context.Context, treeID string) ([]LayoutEdge, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s
	`,
		schema.Relationship.ID, schema.Relationship.PersonID, schema.Relationship.RelatedPersonID, schema.Relationship.Type,
		schema.Relationship.Table,
		schema.Relationship.TreeID,
		schema.Relationship.ID,
	)

	rows, err := postgres.Executor(context, repository.pool).Query(context, query, treeID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_edges")
	}
	defer rows.Close()

	edges := []LayoutEdge{}
	for rows.Next() {
		var edge LayoutEdge
		if err := rows.Scan(&edge.ID, &edge.Source, &edge.Target, &edge.Type); err != nil {
			return nil, dberr.Wrap(err, "scan_edge")
		}
		edges = append(edges, edge)
	}

	return edges, dberr.Wrap(rows.Err(), "list_edges")
}
