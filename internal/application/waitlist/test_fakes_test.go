package waitlist

import (
	"context"
	"sort"
	"sync"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

type fakeRepo struct {
	mu      sync.Mutex
	entries map[string]domain.WaitlistEntry
	listErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{entries: map[string]domain.WaitlistEntry{}}
}

func (f *fakeRepo) Create(_ context.Context, e domain.WaitlistEntry) (domain.WaitlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cur := range f.entries {
		if cur.Email == e.Email {
			return domain.WaitlistEntry{}, domain.ErrAlreadyOnWaitlist()
		}
	}
	f.entries[e.ID] = e
	return e, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (domain.WaitlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok {
		return domain.WaitlistEntry{}, domain.ErrWaitlistEntryNotFound()
	}
	return e, nil
}

func (f *fakeRepo) sorted() []domain.WaitlistEntry {
	out := make([]domain.WaitlistEntry, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeRepo) List(_ context.Context, p domain.Page) ([]domain.WaitlistEntry, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	all := f.sorted()
	start := min(p.Offset(), len(all))
	end := min(start+p.Limit, len(all))
	return all[start:end], len(all), nil
}

func (f *fakeRepo) All(context.Context) ([]domain.WaitlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(), nil
}

func (f *fakeRepo) Approve(_ context.Context, a domain.Approval) (domain.WaitlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[a.EntryID]
	if !ok {
		return domain.WaitlistEntry{}, domain.ErrWaitlistEntryNotFound()
	}
	if e.Status != domain.WaitlistApproved {
		at := a.ApprovedAt
		e.Status, e.ApprovedAt, e.ApprovedBy = domain.WaitlistApproved, &at, a.ApprovedBy
		f.entries[e.ID] = e
	}
	return e, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[id]; !ok {
		return domain.ErrWaitlistEntryNotFound()
	}
	delete(f.entries, id)
	return nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, msg domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return n.err
}

type auditEntry struct {
	action string
	fields map[string]string
}
