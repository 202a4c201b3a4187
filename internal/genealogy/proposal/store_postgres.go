// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package proposal

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

var proposalColumns = "ep." + strings.Join(schema.EditProposal.Columns(), ", ep.")

func scanProposal(row pgx.Row) (*Proposal, error) {
	proposal := &Proposal{}
	err := row.Scan(
		&proposal.ID, &proposal.ProposedBy, &proposal.TargetPersonID, &proposal.FieldChanges, &proposal.Status,
		&proposal.ReviewedBy, &proposal.Comment, &proposal.CreatedAt, &proposal.ReviewedAt,
	)
	return proposal, err
}

func (repository *PostgresRepository) Create(context context.Context, proposal *Proposal) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s
	`,
		schema.EditProposal.Table, schema.EditProposal.ID, schema.EditProposal.ProposedBy,
		schema.EditProposal.TargetPersonID, schema.EditProposal.FieldChanges, schema.EditProposal.Status,
		schema.EditProposal.CreatedAt,
	)

	err := postgres.Executor(context, repository.pool).QueryRow(context, query,
		proposal.ID, proposal.ProposedBy, proposal.TargetPersonID, proposal.FieldChanges, string(proposal.Status),
	).Scan(&proposal.CreatedAt)
	return dberr.Wrap(err, "create_proposal")
}

func (repository *PostgresRepository) FindForUpdate(context context.Context, id string) (*Proposal, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ep WHERE ep.%s = $1 FOR UPDATE`,
		proposalColumns, schema.EditProposal.Table, schema.EditProposal.ID,
	)

	proposal, err := scanProposal(postgres.Executor(context, repository.pool).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_proposal")
	}
	return proposal, nil
}

func (repository *PostgresRepository) List(context context.Context, filter Filter) ([]*Proposal, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.ProposedBy != "" {
		args = append(args, filter.ProposedBy)
		conditions = append(conditions, fmt.Sprintf("ep.%s = $%d", schema.EditProposal.ProposedBy, len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("ep.%s = $%d", schema.EditProposal.Status, len(args)))
	}
	if filter.TreeID != "" {
		args = append(args, filter.TreeID)
		conditions = append(conditions, fmt.Sprintf("p.%s = $%d", schema.Person.TreeID, len(args)))
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s ep
		JOIN %s p ON p.%s = ep.%s
	`,
		proposalColumns,
		schema.EditProposal.Table,
		schema.Person.Table, schema.Person.ID, schema.EditProposal.TargetPersonID,
	)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY ep.%s DESC, ep.%s DESC", schema.EditProposal.CreatedAt, schema.EditProposal.ID)

	rows, err := postgres.Executor(context, repository.pool).Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_proposals")
	}
	defer rows.Close()

	proposals := []*Proposal{}
	for rows.Next() {
		proposal, err := scanProposal(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_proposal")
		}
		proposals = append(proposals, proposal)
	}

	return proposals, dberr.Wrap(rows.Err(), "list_proposals")
}

func (repository *PostgresRepository) SaveReview(context context.Context, proposal *Proposal) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1
	`,
		schema.EditProposal.Table,
		schema.EditProposal.Status, schema.EditProposal.ReviewedBy, schema.EditProposal.Comment, schema.EditProposal.ReviewedAt,
		schema.EditProposal.ID,
	)

	command, err := postgres.Executor(context, repository.pool).Exec(context, query,
		proposal.ID, string(proposal.Status), proposal.ReviewedBy, proposal.Comment, proposal.ReviewedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "review_proposal")
	}

	if command.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
