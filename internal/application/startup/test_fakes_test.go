package startup

import (
	"context"
	"sync"
	"time"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

type fakeStartups struct {
	mu   sync.Mutex
	byID map[string]domain.Startup
}

func newFakeStartups() *fakeStartups {
	return &fakeStartups{byID: map[string]domain.Startup{}}
}

func (f *fakeStartups) Create(_ context.Context, s domain.Startup) (domain.Startup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[s.ID] = s
	return s, nil
}

func (f *fakeStartups) GetByID(_ context.Context, id string) (domain.Startup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return domain.Startup{}, domain.ErrStartupNotFound()
	}
	return s, nil
}

func (f *fakeStartups) List(_ context.Context, flt domain.StartupFilter, p domain.Page) ([]domain.Startup, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Startup
	for _, s := range f.byID {
		if flt.Industry == "" || s.Industry == flt.Industry {
			out = append(out, s)
		}
	}
	return out, len(out), nil
}

func (f *fakeStartups) Update(_ context.Context, s domain.Startup) (domain.Startup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[s.ID]; !ok {
		return domain.Startup{}, domain.ErrStartupNotFound()
	}
	f.byID[s.ID] = s
	return s, nil
}

func (f *fakeStartups) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrStartupNotFound()
	}
	delete(f.byID, id)
	return nil
}

type fakeInterests struct {
	mu   sync.Mutex
	byID map[string]domain.Interest
}

func newFakeInterests() *fakeInterests {
	return &fakeInterests{byID: map[string]domain.Interest{}}
}

func (f *fakeInterests) Create(_ context.Context, i domain.Interest) (domain.Interest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cur := range f.byID {
		if cur.StartupID == i.StartupID && cur.InvestorID == i.InvestorID {
			return domain.Interest{}, domain.ErrInterestAlreadyExists()
		}
	}
	f.byID[i.ID] = i
	return i, nil
}

func (f *fakeInterests) GetByID(_ context.Context, id string) (domain.Interest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, ok := f.byID[id]
	if !ok {
		return domain.Interest{}, domain.ErrInterestNotFound()
	}
	return i, nil
}

func (f *fakeInterests) ListByStartup(_ context.Context, startupID string) ([]domain.Interest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Interest
	for _, i := range f.byID {
		if i.StartupID == startupID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeInterests) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrInterestNotFound()
	}
	delete(f.byID, id)
	return nil
}

type fakeConnections struct {
	mu   sync.Mutex
	byID map[string]domain.Connection
}

func newFakeConnections() *fakeConnections {
	return &fakeConnections{byID: map[string]domain.Connection{}}
}

func (f *fakeConnections) Create(_ context.Context, c domain.Connection) (domain.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cur := range f.byID {
		if cur.RequesterID == c.RequesterID && cur.StartupID == c.StartupID {
			return domain.Connection{}, domain.ErrConnectionExists()
		}
	}
	f.byID[c.ID] = c
	return c, nil
}

func (f *fakeConnections) GetByID(_ context.Context, id string) (domain.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return domain.Connection{}, domain.ErrConnectionNotFound()
	}
	return c, nil
}

func (f *fakeConnections) filter(keep func(domain.Connection) bool) []domain.Connection {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Connection{}
	for _, c := range f.byID {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeConnections) ListByRequester(_ context.Context, id string) ([]domain.Connection, error) {
	return f.filter(func(c domain.Connection) bool { return c.RequesterID == id }), nil
}

func (f *fakeConnections) ListByFounder(_ context.Context, id string) ([]domain.Connection, error) {
	return f.filter(func(c domain.Connection) bool { return c.FounderID == id }), nil
}

func (f *fakeConnections) ListByStartup(_ context.Context, id string) ([]domain.Connection, error) {
	return f.filter(func(c domain.Connection) bool { return c.StartupID == id }), nil
}

func (f *fakeConnections) Answer(_ context.Context, a domain.ConnectionAnswer) (domain.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[a.ConnectionID]
	if !ok {
		return domain.Connection{}, domain.ErrConnectionNotFound()
	}
	if c.Status != domain.ConnectionPending {
		return domain.Connection{}, domain.ErrConnectionAnswered(c.Status)
	}
	at := a.RespondedAt
	c.Status, c.RespondedAt = a.Status, &at
	f.byID[c.ID] = c
	return c, nil
}

func (f *fakeConnections) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrConnectionNotFound()
	}
	delete(f.byID, id)
	return nil
}

type fakeViews struct {
	mu      sync.Mutex
	views   []domain.ProfileView
	windows []time.Duration
	since   time.Time
	trend   time.Time
	recent  time.Time
	summary []domain.StartupViewSummary
}

func newFakeViews() *fakeViews { return &fakeViews{} }

func (f *fakeViews) Record(_ context.Context, v domain.ProfileView, window time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows = append(f.windows, window)
	cutoff := v.CreatedAt.Add(-window)
	for _, cur := range f.views {
		if cur.StartupID != v.StartupID || !cur.CreatedAt.After(cutoff) {
			continue
		}
		if v.ViewerID != "" && cur.ViewerID == v.ViewerID {
			return false, nil
		}
		if v.ViewerID == "" && cur.ViewerID == "" && cur.IP == v.IP {
			return false, nil
		}
	}
	f.views = append(f.views, v)
	return true, nil
}

func (f *fakeViews) Stats(_ context.Context, startupID string, since, trendSince time.Time) (domain.ViewStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.since, f.trend = since, trendSince
	var st domain.ViewStats
	for _, v := range f.views {
		if v.StartupID == startupID && !v.CreatedAt.Before(since) {
			st.TotalViews++
		}
	}
	return st, nil
}

func (f *fakeViews) OwnerSummary(_ context.Context, _ string, recentSince time.Time) ([]domain.StartupViewSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recent = recentSince
	return f.summary, nil
}
