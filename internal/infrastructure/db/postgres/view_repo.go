package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

const (
	// Signed-in viewers match on viewer_id, anonymous ones on ip.
	sqlRecordView = `
INSERT INTO startup_views (id, startup_id, viewer_id, ip, user_agent, created_at)
SELECT $1, $2, $3, $4, $5, $6
WHERE NOT EXISTS (
  SELECT 1 FROM startup_views
  WHERE startup_id = $2
    AND created_at > $7
    AND CASE WHEN $3 <> '' THEN viewer_id = $3 ELSE viewer_id = '' AND ip = $4 END
)`

	sqlViewTotals = `
SELECT COUNT(*),
       COUNT(DISTINCT viewer_id) FILTER (WHERE viewer_id <> ''),
       COUNT(DISTINCT ip) FILTER (WHERE viewer_id = '')
FROM startup_views
WHERE startup_id = $1 AND created_at >= $2`

	sqlViewTrend = `
SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*)
FROM startup_views
WHERE startup_id = $1 AND created_at >= $2
GROUP BY day
ORDER BY day`

	sqlOwnerViewSummary = `
SELECT s.id, s.name, COUNT(v.id), COUNT(v.id) FILTER (WHERE v.created_at >= $2)
FROM startups s
LEFT JOIN startup_views v ON v.startup_id = s.id
WHERE s.owner_id = $1
GROUP BY s.id, s.name
ORDER BY COUNT(v.id) DESC, s.name`
)

type ViewRepo struct {
	db *sql.DB
}

func NewViewRepo(db *sql.DB) *ViewRepo {
	return &ViewRepo{db: db}
}

// Record is a single statement; two concurrent first visits can both land.
func (r *ViewRepo) Record(ctx context.Context, v domain.ProfileView, window time.Duration) (bool, error) {
	res, err := r.db.ExecContext(ctx, sqlRecordView,
		v.ID, v.StartupID, v.ViewerID, v.IP, v.UserAgent, v.CreatedAt, v.CreatedAt.Add(-window))
	if err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	return n == 1, nil
}

func (r *ViewRepo) Stats(ctx context.Context, startupID string, since, trendSince time.Time) (domain.ViewStats, error) {
	var st domain.ViewStats
	if err := r.db.QueryRowContext(ctx, sqlViewTotals, startupID, since).
		Scan(&st.TotalViews, &st.RegisteredViewers, &st.AnonymousViewers); err != nil {
		return domain.ViewStats{}, domain.ErrDBUnavailable(err)
	}

	rows, err := r.db.QueryContext(ctx, sqlViewTrend, startupID, trendSince)
	if err != nil {
		return domain.ViewStats{}, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	st.Trend = make([]domain.DailyViews, 0)
	for rows.Next() {
		var d domain.DailyViews
		if err := rows.Scan(&d.Day, &d.Count); err != nil {
			return domain.ViewStats{}, domain.ErrDBUnavailable(err)
		}
		st.Trend = append(st.Trend, d)
	}
	if err := rows.Err(); err != nil {
		return domain.ViewStats{}, domain.ErrDBUnavailable(err)
	}
	return st, nil
}

func (r *ViewRepo) OwnerSummary(ctx context.Context, ownerID string, recentSince time.Time) ([]domain.StartupViewSummary, error) {
	rows, err := r.db.QueryContext(ctx, sqlOwnerViewSummary, ownerID, recentSince)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := make([]domain.StartupViewSummary, 0)
	for rows.Next() {
		var s domain.StartupViewSummary
		if err := rows.Scan(&s.StartupID, &s.Name, &s.TotalViews, &s.RecentViews); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}
