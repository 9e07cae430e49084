package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

type ConnectionRepo struct {
	mu   sync.RWMutex
	byID map[string]domain.Connection
}

func NewConnectionRepo() *ConnectionRepo {
	return &ConnectionRepo{byID: make(map[string]domain.Connection)}
}

func (r *ConnectionRepo) Create(ctx context.Context, c domain.Connection) (domain.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cur := range r.byID {
		if cur.RequesterID == c.RequesterID && cur.StartupID == c.StartupID {
			return domain.Connection{}, domain.ErrConnectionExists()
		}
	}
	r.byID[c.ID] = c
	return c, nil
}

func (r *ConnectionRepo) GetByID(ctx context.Context, id string) (domain.Connection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return domain.Connection{}, domain.ErrConnectionNotFound()
	}
	return c, nil
}

func (r *ConnectionRepo) list(keep func(domain.Connection) bool) []domain.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Connection, 0)
	for _, c := range r.byID {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *ConnectionRepo) ListByRequester(ctx context.Context, requesterID string) ([]domain.Connection, error) {
	return r.list(func(c domain.Connection) bool { return c.RequesterID == requesterID }), nil
}

func (r *ConnectionRepo) ListByFounder(ctx context.Context, founderID string) ([]domain.Connection, error) {
	return r.list(func(c domain.Connection) bool { return c.FounderID == founderID }), nil
}

func (r *ConnectionRepo) ListByStartup(ctx context.Context, startupID string) ([]domain.Connection, error) {
	return r.list(func(c domain.Connection) bool { return c.StartupID == startupID }), nil
}

func (r *ConnectionRepo) Answer(ctx context.Context, a domain.ConnectionAnswer) (domain.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[a.ConnectionID]
	if !ok {
		return domain.Connection{}, domain.ErrConnectionNotFound()
	}
	if c.Status != domain.ConnectionPending {
		return domain.Connection{}, domain.ErrConnectionAnswered(c.Status)
	}
	at := a.RespondedAt
	c.Status = a.Status
	c.RespondedAt = &at
	r.byID[c.ID] = c
	return c, nil
}

func (r *ConnectionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrConnectionNotFound()
	}
	delete(r.byID, id)
	return nil
}
