package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

// ViewRepo reads startup names from the startup repo for owner summaries.
type ViewRepo struct {
	mu       sync.RWMutex
	views    []domain.ProfileView
	startups *StartupRepo
}

func NewViewRepo(startups *StartupRepo) *ViewRepo {
	return &ViewRepo{startups: startups}
}

func sameViewer(a, b domain.ProfileView) bool {
	if a.ViewerID != "" || b.ViewerID != "" {
		return a.ViewerID == b.ViewerID
	}
	return a.IP == b.IP
}

func (r *ViewRepo) Record(ctx context.Context, v domain.ProfileView, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := v.CreatedAt.Add(-window)
	for _, cur := range r.views {
		if cur.StartupID == v.StartupID && cur.CreatedAt.After(cutoff) && sameViewer(cur, v) {
			return false, nil
		}
	}
	r.views = append(r.views, v)
	return true, nil
}

func (r *ViewRepo) Stats(ctx context.Context, startupID string, since, trendSince time.Time) (domain.ViewStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var st domain.ViewStats
	registered := map[string]struct{}{}
	anonymous := map[string]struct{}{}
	daily := map[string]int{}
	for _, v := range r.views {
		if v.StartupID != startupID {
			continue
		}
		if !v.CreatedAt.Before(since) {
			st.TotalViews++
			if v.ViewerID != "" {
				registered[v.ViewerID] = struct{}{}
			} else {
				anonymous[v.IP] = struct{}{}
			}
		}
		if !v.CreatedAt.Before(trendSince) {
			daily[v.CreatedAt.UTC().Format(time.DateOnly)]++
		}
	}
	st.RegisteredViewers = len(registered)
	st.AnonymousViewers = len(anonymous)

	st.Trend = make([]domain.DailyViews, 0, len(daily))
	for day, n := range daily {
		st.Trend = append(st.Trend, domain.DailyViews{Day: day, Count: n})
	}
	sort.Slice(st.Trend, func(i, j int) bool { return st.Trend[i].Day < st.Trend[j].Day })
	return st, nil
}

func (r *ViewRepo) OwnerSummary(ctx context.Context, ownerID string, recentSince time.Time) ([]domain.StartupViewSummary, error) {
	r.startups.mu.RLock()
	owned := make([]domain.Startup, 0)
	for _, s := range r.startups.byID {
		if s.OwnerID == ownerID {
			owned = append(owned, s)
		}
	}
	r.startups.mu.RUnlock()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.StartupViewSummary, 0, len(owned))
	for _, s := range owned {
		row := domain.StartupViewSummary{StartupID: s.ID, Name: s.Name}
		for _, v := range r.views {
			if v.StartupID != s.ID {
				continue
			}
			row.TotalViews++
			if !v.CreatedAt.Before(recentSince) {
				row.RecentViews++
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalViews == out[j].TotalViews {
			return out[i].Name < out[j].Name
		}
		return out[i].TotalViews > out[j].TotalViews
	})
	return out, nil
}
