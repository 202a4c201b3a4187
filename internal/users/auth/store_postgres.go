// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

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

// # User Repository

// PostgresUserRepository implements [UserRepository] over pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a [PostgresUserRepository].
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

var userColumns = strings.Join(schema.User.Columns(), ", ")

// ScanUser reads a row selected with the full users column list.
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.Status,
		&user.PersonID, &user.OAuthProvider, &user.OAuthID, &user.CreatedAt,
	)
	return user, err
}

func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findOne(context, fmt.Sprintf("%s = $1", schema.User.ID), id)
}

func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, fmt.Sprintf("LOWER(%s) = LOWER($1)", schema.User.Email), email)
}

func (repository *PostgresUserRepository) FindByOAuth(context context.Context, provider, subject string) (*User, error) {
	return repository.findOne(context,
		fmt.Sprintf("%s = $1 AND %s = $2", schema.User.OAuthProvider, schema.User.OAuthID),
		provider, subject,
	)
}

func (repository *PostgresUserRepository) findOne(context context.Context, condition string, args ...any) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s`, userColumns, schema.User.Table, condition)

	user, err := ScanUser(postgres.Executor(context, repository.pool).QueryRow(context, query, args...))
	if err != nil {
		return nil, dberr.Wrap(err, "get_user")
	}
	return user, nil
}

func (repository *PostgresUserRepository) Count(context context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.User.Table)

	var count int
	err := postgres.Executor(context, repository.pool).QueryRow(context, query).Scan(&count)
	return count, dberr.Wrap(err, "count_users")
}

func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s
	`,
		schema.User.Table,
		schema.User.ID, schema.User.Email, schema.User.PasswordHash, schema.User.Role,
		schema.User.Status, schema.User.PersonID, schema.User.OAuthProvider, schema.User.OAuthID,
		schema.User.CreatedAt,
	)

	err := postgres.Executor(context, repository.pool).QueryRow(context, query,
		user.ID, user.Email, user.PasswordHash, user.Role,
		user.Status, user.PersonID, user.OAuthProvider, user.OAuthID,
	).Scan(&user.CreatedAt)
	return dberr.Wrap(err, "create_user")
}

func (repository *PostgresUserRepository) LinkOAuth(context context.Context, userID, provider, subject string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.User.Table, schema.User.OAuthProvider, schema.User.OAuthID, schema.User.ID,
	)

	command, err := postgres.Executor(context, repository.pool).Exec(context, query, userID, provider, subject)
	if err != nil {
		return dberr.Wrap(err, "link_oauth")
	}

	if command.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
