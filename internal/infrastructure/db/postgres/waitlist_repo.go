package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

const waitlistCols = `id, email, first_name, last_name, role, reason, status, approved_at, approved_by, created_at`

type WaitlistRepo struct {
	db *sql.DB
}

func NewWaitlistRepo(db *sql.DB) *WaitlistRepo {
	return &WaitlistRepo{db: db}
}

func scanWaitlistEntry(row rowScanner) (domain.WaitlistEntry, error) {
	var (
		e          domain.WaitlistEntry
		approvedAt sql.NullTime
	)
	err := row.Scan(&e.ID, &e.Email, &e.FirstName, &e.LastName, &e.Role, &e.Reason, &e.Status, &approvedAt, &e.ApprovedBy, &e.CreatedAt)
	if approvedAt.Valid {
		e.ApprovedAt = &approvedAt.Time
	}
	return e, err
}

func (r *WaitlistRepo) Create(ctx context.Context, e domain.WaitlistEntry) (domain.WaitlistEntry, error) {
	const q = `
INSERT INTO waitlist_entries (id, email, first_name, last_name, role, reason, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	if _, err := r.db.ExecContext(ctx, q,
		e.ID, e.Email, e.FirstName, e.LastName, e.Role, e.Reason, e.Status, e.CreatedAt,
	); err != nil {
		if isUniqueViolation(err, "waitlist_entries_email_key") {
			return domain.WaitlistEntry{}, domain.ErrAlreadyOnWaitlist()
		}
		return domain.WaitlistEntry{}, domain.ErrDBUnavailable(err)
	}
	return e, nil
}

func (r *WaitlistRepo) GetByID(ctx context.Context, id string) (domain.WaitlistEntry, error) {
	e, err := scanWaitlistEntry(r.db.QueryRowContext(ctx, `SELECT `+waitlistCols+` FROM waitlist_entries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.WaitlistEntry{}, domain.ErrWaitlistEntryNotFound()
		}
		return domain.WaitlistEntry{}, domain.ErrDBUnavailable(err)
	}
	return e, nil
}

func (r *WaitlistRepo) query(ctx context.Context, q string, args ...any) ([]domain.WaitlistEntry, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := make([]domain.WaitlistEntry, 0)
	for rows.Next() {
		e, err := scanWaitlistEntry(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *WaitlistRepo) List(ctx context.Context, p domain.Page) ([]domain.WaitlistEntry, int, error) {
	p = p.Normalize()

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM waitlist_entries`).Scan(&total); err != nil {
		return nil, 0, domain.ErrDBUnavailable(err)
	}
	items, err := r.query(ctx,
		`SELECT `+waitlistCols+` FROM waitlist_entries ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		p.Limit, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *WaitlistRepo) All(ctx context.Context) ([]domain.WaitlistEntry, error) {
	return r.query(ctx, `SELECT `+waitlistCols+` FROM waitlist_entries ORDER BY created_at DESC, id DESC`)
}

// Approve only stamps a pending entry, so a second approval keeps the first
// approver and time.
func (r *WaitlistRepo) Approve(ctx context.Context, a domain.Approval) (domain.WaitlistEntry, error) {
	const q = `
UPDATE waitlist_entries
SET status = 'approved', approved_at = $2, approved_by = $3
WHERE id = $1 AND status = 'pending'`

	if _, err := r.db.ExecContext(ctx, q, a.EntryID, a.ApprovedAt, a.ApprovedBy); err != nil {
		return domain.WaitlistEntry{}, domain.ErrDBUnavailable(err)
	}
	return r.GetByID(ctx, a.EntryID)
}

func (r *WaitlistRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM waitlist_entries WHERE id = $1`, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return requireOneRow(res, domain.ErrWaitlistEntryNotFound())
}
