package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

type WaitlistRepo struct {
	mu      sync.RWMutex
	byID    map[string]domain.WaitlistEntry
	byEmail map[string]string
}

func NewWaitlistRepo() *WaitlistRepo {
	return &WaitlistRepo{
		byID:    make(map[string]domain.WaitlistEntry),
		byEmail: make(map[string]string),
	}
}

func (r *WaitlistRepo) Create(ctx context.Context, e domain.WaitlistEntry) (domain.WaitlistEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[e.Email]; ok {
		return domain.WaitlistEntry{}, domain.ErrAlreadyOnWaitlist()
	}
	r.byID[e.ID] = e
	r.byEmail[e.Email] = e.ID
	return e, nil
}

func (r *WaitlistRepo) GetByID(ctx context.Context, id string) (domain.WaitlistEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return domain.WaitlistEntry{}, domain.ErrWaitlistEntryNotFound()
	}
	return e, nil
}

// newestFirst must be called with the lock held.
func (r *WaitlistRepo) newestFirst() []domain.WaitlistEntry {
	out := make([]domain.WaitlistEntry, 0, len(r.byID))
	for _, e := range r.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *WaitlistRepo) List(ctx context.Context, p domain.Page) ([]domain.WaitlistEntry, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.newestFirst()
	total := len(all)
	p = p.Normalize()
	start := min(p.Offset(), total)
	end := min(start+p.Limit, total)
	return all[start:end], total, nil
}

func (r *WaitlistRepo) All(ctx context.Context) ([]domain.WaitlistEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.newestFirst(), nil
}

// Approve keeps the first approval's time and approver.
func (r *WaitlistRepo) Approve(ctx context.Context, a domain.Approval) (domain.WaitlistEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[a.EntryID]
	if !ok {
		return domain.WaitlistEntry{}, domain.ErrWaitlistEntryNotFound()
	}
	if e.Status == domain.WaitlistApproved {
		return e, nil
	}
	at := a.ApprovedAt
	e.Status = domain.WaitlistApproved
	e.ApprovedAt = &at
	e.ApprovedBy = a.ApprovedBy
	r.byID[e.ID] = e
	return e, nil
}

func (r *WaitlistRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return domain.ErrWaitlistEntryNotFound()
	}
	delete(r.byID, id)
	delete(r.byEmail, e.Email)
	return nil
}
