package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

const connectionCols = `id, requester_id, startup_id, founder_id, message, status, responded_at, created_at`

type ConnectionRepo struct {
	db *sql.DB
}

func NewConnectionRepo(db *sql.DB) *ConnectionRepo {
	return &ConnectionRepo{db: db}
}

func scanConnection(row rowScanner) (domain.Connection, error) {
	var (
		c           domain.Connection
		respondedAt sql.NullTime
	)
	err := row.Scan(&c.ID, &c.RequesterID, &c.StartupID, &c.FounderID, &c.Message, &c.Status, &respondedAt, &c.CreatedAt)
	if respondedAt.Valid {
		c.RespondedAt = &respondedAt.Time
	}
	return c, err
}

func (r *ConnectionRepo) Create(ctx context.Context, c domain.Connection) (domain.Connection, error) {
	const q = `
INSERT INTO connections (id, requester_id, startup_id, founder_id, message, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)`

	if _, err := r.db.ExecContext(ctx, q,
		c.ID, c.RequesterID, c.StartupID, c.FounderID, c.Message, c.Status, c.CreatedAt,
	); err != nil {
		if isUniqueViolation(err, "connections_requester_startup_key") {
			return domain.Connection{}, domain.ErrConnectionExists()
		}
		return domain.Connection{}, domain.ErrDBUnavailable(err)
	}
	return c, nil
}

func (r *ConnectionRepo) GetByID(ctx context.Context, id string) (domain.Connection, error) {
	c, err := scanConnection(r.db.QueryRowContext(ctx, `SELECT `+connectionCols+` FROM connections WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Connection{}, domain.ErrConnectionNotFound()
		}
		return domain.Connection{}, domain.ErrDBUnavailable(err)
	}
	return c, nil
}

// listBy takes a trusted column name.
func (r *ConnectionRepo) listBy(ctx context.Context, column, value string) ([]domain.Connection, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+connectionCols+` FROM connections WHERE `+column+` = $1 ORDER BY created_at DESC, id DESC`, value)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := make([]domain.Connection, 0)
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *ConnectionRepo) ListByRequester(ctx context.Context, requesterID string) ([]domain.Connection, error) {
	return r.listBy(ctx, "requester_id", requesterID)
}

func (r *ConnectionRepo) ListByFounder(ctx context.Context, founderID string) ([]domain.Connection, error) {
	return r.listBy(ctx, "founder_id", founderID)
}

func (r *ConnectionRepo) ListByStartup(ctx context.Context, startupID string) ([]domain.Connection, error) {
	return r.listBy(ctx, "startup_id", startupID)
}

// Answer is a conditional transition; when no pending row matches it reads
// the row back to tell a missing connection from an answered one.
func (r *ConnectionRepo) Answer(ctx context.Context, a domain.ConnectionAnswer) (domain.Connection, error) {
	const q = `
UPDATE connections
SET status = $2, responded_at = $3
WHERE id = $1 AND status = 'pending'
RETURNING ` + connectionCols

	c, err := scanConnection(r.db.QueryRowContext(ctx, q, a.ConnectionID, a.Status, a.RespondedAt))
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.Connection{}, domain.ErrDBUnavailable(err)
	}

	cur, err := r.GetByID(ctx, a.ConnectionID)
	if err != nil {
		return domain.Connection{}, err
	}
	return domain.Connection{}, domain.ErrConnectionAnswered(cur.Status)
}

func (r *ConnectionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM connections WHERE id = $1`, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return requireOneRow(res, domain.ErrConnectionNotFound())
}
