package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

type StartupRepo struct {
	mu   sync.RWMutex
	byID map[string]domain.Startup
}

func NewStartupRepo() *StartupRepo {
	return &StartupRepo{byID: make(map[string]domain.Startup)}
}

func (r *StartupRepo) Create(ctx context.Context, s domain.Startup) (domain.Startup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[s.ID] = s
	return s, nil
}

func (r *StartupRepo) GetByID(ctx context.Context, id string) (domain.Startup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return domain.Startup{}, domain.ErrStartupNotFound()
	}
	return s, nil
}

func (r *StartupRepo) List(ctx context.Context, f domain.StartupFilter, p domain.Page) ([]domain.Startup, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.Startup, 0)
	for _, s := range r.byID {
		if f.Industry != "" && s.Industry != f.Industry {
			continue
		}
		matched = append(matched, s)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := len(matched)
	p = p.Normalize()
	start := min(p.Offset(), total)
	end := min(start+p.Limit, total)
	return matched[start:end], total, nil
}

func (r *StartupRepo) Update(ctx context.Context, s domain.Startup) (domain.Startup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[s.ID]; !ok {
		return domain.Startup{}, domain.ErrStartupNotFound()
	}
	r.byID[s.ID] = s
	return s, nil
}

func (r *StartupRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrStartupNotFound()
	}
	delete(r.byID, id)
	return nil
}

type InterestRepo struct {
	mu   sync.RWMutex
	byID map[string]domain.Interest
}

func NewInterestRepo() *InterestRepo {
	return &InterestRepo{byID: make(map[string]domain.Interest)}
}

func (r *InterestRepo) Create(ctx context.Context, i domain.Interest) (domain.Interest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cur := range r.byID {
		if cur.StartupID == i.StartupID && cur.InvestorID == i.InvestorID {
			return domain.Interest{}, domain.ErrInterestAlreadyExists()
		}
	}
	r.byID[i.ID] = i
	return i, nil
}

func (r *InterestRepo) GetByID(ctx context.Context, id string) (domain.Interest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[id]
	if !ok {
		return domain.Interest{}, domain.ErrInterestNotFound()
	}
	return i, nil
}

func (r *InterestRepo) ListByStartup(ctx context.Context, startupID string) ([]domain.Interest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Interest, 0)
	for _, i := range r.byID {
		if i.StartupID == startupID {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return out, nil
}

func (r *InterestRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrInterestNotFound()
	}
	delete(r.byID, id)
	return nil
}
