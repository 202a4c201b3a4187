// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package invitation

import (
	"context"
	"fmt"
	"strings"
	"time"

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

var invitationColumns = strings.Join(schema.Invitation.Columns(), ", ")

func scanInvitation(row pgx.Row) (*Invitation, error) {
	invitation := &Invitation{}
	err := row.Scan(
		&invitation.ID, &invitation.Token, &invitation.CreatedBy, &invitation.TargetPersonID,
		&invitation.ExpiresAt, &invitation.MaxUses, &invitation.UsedCount, &invitation.CreatedAt,
	)
	return invitation, err
}

func (repository *PostgresRepository) Create(context context.Context, invitation *Invitation) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, 0)
		RETURNING %s
	`,
		schema.Invitation.Table,
		schema.Invitation.ID, schema.Invitation.Token, schema.Invitation.CreatedBy,
		schema.Invitation.TargetPersonID, schema.Invitation.ExpiresAt, schema.Invitation.MaxUses,
		schema.Invitation.UsedCount,
		schema.Invitation.CreatedAt,
	)

	err := postgres.Executor(context, repository.pool).QueryRow(context, query,
		invitation.ID, invitation.Token, invitation.CreatedBy,
		invitation.TargetPersonID, invitation.ExpiresAt, invitation.MaxUses,
	).Scan(&invitation.CreatedAt)
	return dberr.Wrap(err, "create_invitation")
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Invitation, error) {
	return repository.findBy(context, schema.Invitation.ID, id)
}

func (repository *PostgresRepository) FindByToken(context context.Context, token string) (*Invitation, error) {
	return repository.findBy(context, schema.Invitation.Token, token)
}

func (repository *PostgresRepository) findBy(context context.Context, column, value string) (*Invitation, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, invitationColumns, schema.Invitation.Table, column)

	invitation, err := scanInvitation(postgres.Executor(context, repository.pool).QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, "get_invitation")
	}
	return invitation, nil
}

func (repository *PostgresRepository) ListByCreator(context context.Context, userID string) ([]*Invitation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
	`,
		invitationColumns,
		schema.Invitation.Table,
		schema.Invitation.CreatedBy,
		schema.Invitation.ExpiresAt,
	)

	rows, err := postgres.Executor(context, repository.pool).Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_invitations")
	}
	defer rows.Close()

	invitations := []*Invitation{}
	for rows.Next() {
		invitation, err := scanInvitation(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_invitation")
		}
		invitations = append(invitations, invitation)
	}

	return invitations, dberr.Wrap(rows.Err(), "list_invitations")
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Invitation.Table, schema.Invitation.ID)

	command, err := postgres.Executor(context, repository.pool).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_invitation")
	}

	if command.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Consume(context context.Context, token string, now time.Time) (*Invitation, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = %s + 1
		WHERE %s = $1 AND %s > $2 AND %s < %s
		RETURNING %s
	`,
		schema.Invitation.Table,
		schema.Invitation.UsedCount, schema.Invitation.UsedCount,
		schema.Invitation.Token, schema.Invitation.ExpiresAt,
		schema.Invitation.UsedCount, schema.Invitation.MaxUses,
		invitationColumns,
	)

	invitation, err := scanInvitation(postgres.Executor(context, repository.pool).QueryRow(context, query, token, now))
	if err != nil {
		return nil, dberr.Wrap(err, "consume_invitation")
	}
	return invitation, nil
}
