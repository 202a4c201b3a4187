// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/roots/internal/genealogy/proposal"
	"github.com/taibuivan/roots/internal/platform/database/schema"
	"github.com/taibuivan/roots/internal/platform/dberr"
	"github.com/taibuivan/roots/internal/platform/postgres"
	"github.com/taibuivan/roots/internal/platform/sec"
	"github.com/taibuivan/roots/internal/users/auth"
	"github.com/taibuivan/roots/pkg/pagination"
)

// PostgresRepository implements [Repository] over pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a [PostgresRepository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var userColumns = strings.Join(schema.User.Columns(), ", ")

func (repository *PostgresRepository) List(context context.Context, params pagination.Params) ([]*auth.User, int, error) {
	executor := postgres.Executor(context, repository.pool)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.User.Table)
	if err := executor.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_users")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY %s DESC, %s DESC
		LIMIT $1 OFFSET $2
	`,
		userColumns,
		schema.User.Table,
		schema.User.CreatedAt, schema.User.ID,
	)

	rows, err := executor.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	users := []*auth.User{}
	for rows.Next() {
		user, err := auth.ScanUser(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		users = append(users, user)
	}

	return users, total, dberr.Wrap(rows.Err(), "list_users")
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, userColumns, schema.User.Table, schema.User.ID)

	user, err := auth.ScanUser(postgres.Executor(context, repository.pool).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_user")
	}
	return user, nil
}

func (repository *PostgresRepository) Update(context context.Context, id string, role sec.UserRole, status sec.UserStatus) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.User.Table, schema.User.Role, schema.User.Status, schema.User.ID,
	)

	command, err := postgres.Executor(context, repository.pool).Exec(context, query, id, role, status)
	if err != nil {
		return dberr.Wrap(err, "update_user")
	}

	if command.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Stats(context context.Context) (*Stats, error) {
	executor := postgres.Executor(context, repository.pool)

	totalsQuery := fmt.Sprintf(`
		SELECT
			(SELECT COUNT(*) FROM %s),
			(SELECT COUNT(*) FROM %s),
			(SELECT COUNT(*) FROM %s),
			(SELECT COUNT(*) FROM %s WHERE %s = $1)
	`,
		schema.User.Table,
		schema.Person.Table,
		schema.Tree.Table,
		schema.EditProposal.Table, schema.EditProposal.Status,
	)

	stats := &Stats{PendingProposalsByTree: []TreePending{}}
	err := executor.QueryRow(context, totalsQuery, proposal.StatusPending).Scan(
		&stats.TotalUsers, &stats.TotalPersons, &stats.TotalTrees, &stats.PendingProposals,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "count_totals")
	}

	byTreeQuery := fmt.Sprintf(`
		SELECT t.%s, t.%s, COUNT(ep.%s)
		FROM %s t
		JOIN %s p ON p.%s = t.%s
		JOIN %s ep ON ep.%s = p.%s
		WHERE ep.%s = $1
		GROUP BY t.%s, t.%s
		ORDER BY COUNT(ep.%s) DESC, t.%s
	`,
		schema.Tree.ID, schema.Tree.Name, schema.EditProposal.ID,
		schema.Tree.Table,
		schema.Person.Table, schema.Person.TreeID, schema.Tree.ID,
		schema.EditProposal.Table, schema.EditProposal.TargetPersonID, schema.Person.ID,
		schema.EditProposal.Status,
		schema.Tree.ID, schema.Tree.Name,
		schema.EditProposal.ID, schema.Tree.Name,
	)

	rows, err := executor.Query(context, byTreeQuery, proposal.StatusPending)
	if err != nil {
		return nil, dberr.Wrap(err, "count_pending_by_tree")
	}
	defer rows.Close()

	for rows.Next() {
		var item TreePending
		if err := rows.Scan(&item.TreeID, &item.TreeName, &item.PendingCount); err != nil {
			return nil, dberr.Wrap(err, "scan_pending_by_tree")
		}
		stats.PendingProposalsByTree = append(stats.PendingProposalsByTree, item)
	}

	return stats, dberr.Wrap(rows.Err(), "count_pending_by_tree")
}
