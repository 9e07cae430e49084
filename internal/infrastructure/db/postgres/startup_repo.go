package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

const startupCols = `id, owner_id, name, tagline, industry, stage, funding_goal, created_at, updated_at`

type StartupRepo struct {
	db *sql.DB
}

func NewStartupRepo(db *sql.DB) *StartupRepo {
	return &StartupRepo{db: db}
}

func scanStartup(row rowScanner) (domain.Startup, error) {
	var s domain.Startup
	err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Tagline, &s.Industry, &s.Stage, &s.FundingGoal, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *StartupRepo) Create(ctx context.Context, s domain.Startup) (domain.Startup, error) {
	const q = `
INSERT INTO startups (id, owner_id, name, tagline, industry, stage, funding_goal, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	if _, err := r.db.ExecContext(ctx, q,
		s.ID, s.OwnerID, s.Name, s.Tagline, s.Industry, s.Stage, s.FundingGoal, s.CreatedAt, s.UpdatedAt,
	); err != nil {
		return domain.Startup{}, domain.ErrDBUnavailable(err)
	}
	return s, nil
}

func (r *StartupRepo) GetByID(ctx context.Context, id string) (domain.Startup, error) {
	s, err := scanStartup(r.db.QueryRowContext(ctx, `SELECT `+startupCols+` FROM startups WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Startup{}, domain.ErrStartupNotFound()
		}
		return domain.Startup{}, domain.ErrDBUnavailable(err)
	}
	return s, nil
}

func (r *StartupRepo) List(ctx context.Context, f domain.StartupFilter, p domain.Page) ([]domain.Startup, int, error) {
	p = p.Normalize()

	// $1 = '' disables the industry filter
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM startups WHERE ($1 = '' OR industry = $1)`, f.Industry,
	).Scan(&total); err != nil {
		return nil, 0, domain.ErrDBUnavailable(err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+startupCols+` FROM startups WHERE ($1 = '' OR industry = $1) ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		f.Industry, p.Limit, p.Offset(),
	)
	if err != nil {
		return nil, 0, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := make([]domain.Startup, 0)
	for rows.Next() {
		s, err := scanStartup(rows)
		if err != nil {
			return nil, 0, domain.ErrDBUnavailable(err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.ErrDBUnavailable(err)
	}
	return out, total, nil
}

func (r *StartupRepo) Update(ctx context.Context, s domain.Startup) (domain.Startup, error) {
	const q = `
UPDATE startups
SET name = $2, tagline = $3, industry = $4, stage = $5, funding_goal = $6, updated_at = $7
WHERE id = $1`

	res, err := r.db.ExecContext(ctx, q, s.ID, s.Name, s.Tagline, s.Industry, s.Stage, s.FundingGoal, s.UpdatedAt)
	if err != nil {
		return domain.Startup{}, domain.ErrDBUnavailable(err)
	}
	if err := requireOneRow(res, domain.ErrStartupNotFound()); err != nil {
		return domain.Startup{}, err
	}
	return s, nil
}

func (r *StartupRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM startups WHERE id = $1`, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return requireOneRow(res, domain.ErrStartupNotFound())
}

const interestCols = `id, startup_id, investor_id, amount, message, created_at`

type InterestRepo struct {
	db *sql.DB
}

func NewInterestRepo(db *sql.DB) *InterestRepo {
	return &InterestRepo{db: db}
}

func scanInterest(row rowScanner) (domain.Interest, error) {
	var i domain.Interest
	err := row.Scan(&i.ID, &i.StartupID, &i.InvestorID, &i.Amount, &i.Message, &i.CreatedAt)
	return i, err
}

func (r *InterestRepo) Create(ctx context.Context, i domain.Interest) (domain.Interest, error) {
	const q = `
INSERT INTO interests (id, startup_id, investor_id, amount, message, created_at)
VALUES ($1,$2,$3,$4,$5,$6)`

	if _, err := r.db.ExecContext(ctx, q, i.ID, i.StartupID, i.InvestorID, i.Amount, i.Message, i.CreatedAt); err != nil {
		if isUniqueViolation(err, "interests_startup_investor_key") {
			return domain.Interest{}, domain.ErrInterestAlreadyExists()
		}
		return domain.Interest{}, domain.ErrDBUnavailable(err)
	}
	return i, nil
}

func (r *InterestRepo) GetByID(ctx context.Context, id string) (domain.Interest, error) {
	i, err := scanInterest(r.db.QueryRowContext(ctx, `SELECT `+interestCols+` FROM interests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Interest{}, domain.ErrInterestNotFound()
		}
		return domain.Interest{}, domain.ErrDBUnavailable(err)
	}
	return i, nil
}

func (r *InterestRepo) ListByStartup(ctx context.Context, startupID string) ([]domain.Interest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+interestCols+` FROM interests WHERE startup_id = $1 ORDER BY created_at DESC`, startupID)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := make([]domain.Interest, 0)
	for rows.Next() {
		i, err := scanInterest(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *InterestRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM interests WHERE id = $1`, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return requireOneRow(res, domain.ErrInterestNotFound())
}
