package verification

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/authz"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

/*
Shared audit capture
*/

type auditEntry struct {
	action string
	fields map[string]string
}

/*
fakeStore is the RequestRepo; fakeUsers is its UserReader view. Both share one
mutex, so the submit/review re-checks behave like the transactional stores.
*/
type fakeStore struct {
	mu sync.Mutex

	users    map[string]domain.User
	requests map[string]domain.VerificationRequest

	// injected errors
	getUserErr    error
	createErr     error
	transitionErr error
	listIDsErr    error

	createCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[string]domain.User{},
		requests: map[string]domain.VerificationRequest{},
	}
}

func (f *fakeStore) addUser(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.VerificationStatus == "" {
		u.VerificationStatus = domain.StatusNotSubmitted
	}
	f.users[u.ID] = u
}

func (f *fakeStore) user(id string) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id]
}

type fakeUsers struct{ *fakeStore }

func (f fakeUsers) GetByID(_ context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getUserErr != nil {
		return domain.User{}, f.getUserErr
	}
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f fakeUsers) ListIDsByRole(_ context.Context, role string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listIDsErr != nil {
		return nil, f.listIDsErr
	}
	var ids []string
	for _, u := range f.users {
		if u.Role == role {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (f *fakeStore) CreatePending(_ context.Context, req domain.VerificationRequest) (domain.VerificationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	if f.createErr != nil {
		return domain.VerificationRequest{}, f.createErr
	}
	u, ok := f.users[req.UserID]
	if !ok {
		return domain.VerificationRequest{}, domain.ErrUserNotFound()
	}
	if u.RoleVerified {
		return domain.VerificationRequest{}, domain.ErrAlreadyVerified()
	}
	for _, r := range f.requests {
		if r.UserID == req.UserID && r.Status == domain.StatusPending {
			return domain.VerificationRequest{}, domain.ErrSubmissionInProgress()
		}
	}

	f.requests[req.ID] = req
	u.VerificationStatus = domain.StatusPending
	u.VerificationRejectionReason = ""
	f.users[u.ID] = u
	return req, nil
}

func (f *fakeStore) Transition(_ context.Context, t domain.Transition) (domain.VerificationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.transitionErr != nil {
		return domain.VerificationRequest{}, f.transitionErr
	}
	r, ok := f.requests[t.RequestID]
	if !ok {
		return domain.VerificationRequest{}, domain.ErrRequestNotFound()
	}
	if r.Status != domain.StatusPending {
		return domain.VerificationRequest{}, domain.ErrRequestNotPending(r.Status)
	}

	at := t.ReviewedAt
	r.Status = t.Decision.Status()
	r.ReviewedAt = &at
	r.ReviewedBy = t.ReviewerID
	r.RejectionReason = t.RejectionReason
	r.Notes = t.Notes
	f.requests[r.ID] = r

	u := f.users[r.UserID]
	u.RoleVerified = t.Decision == domain.DecisionApproved
	u.VerificationStatus = r.Status
	u.VerificationRejectionReason = t.RejectionReason
	f.users[u.ID] = u
	return r, nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (domain.VerificationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.requests[id]
	if !ok {
		return domain.VerificationRequest{}, domain.ErrRequestNotFound()
	}
	return r, nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeStore) LatestForUser(_ context.Context, userID string) (domain.VerificationRequest, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var (
		latest domain.VerificationRequest
		found  bool
	)
	for _, r := range f.requests {
		if r.UserID != userID {
			continue
		}
		if !found || r.SubmittedAt.After(latest.SubmittedAt) {
			latest, found = r, true
		}
	}
	return latest, found, nil
}

func (f *fakeStore) List(_ context.Context, flt domain.RequestFilter, p domain.Page) ([]domain.VerificationRequest, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var allowed map[string]bool
	if flt.UserIDs != nil {
		allowed = map[string]bool{}
		for _, id := range flt.UserIDs {
			allowed[id] = true
		}
	}

	var all []domain.VerificationRequest
	for _, r := range f.requests {
		if flt.Status != "" && r.Status != flt.Status {
			continue
		}
		if allowed != nil && !allowed[r.UserID] {
			continue
		}
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SubmittedAt.After(all[j].SubmittedAt) })

	total := len(all)
	start := p.Offset()
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) (domain.VerificationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.requests[id]
	if !ok {
		return domain.VerificationRequest{}, domain.ErrRequestNotFound()
	}
	if r.Status == domain.StatusApproved {
		return domain.VerificationRequest{}, domain.ErrApprovedRequestLocked()
	}
	delete(f.requests, id)
	if r.Status == domain.StatusPending {
		var latest *domain.VerificationRequest
		for _, cur := range f.requests {
			if cur.UserID == r.UserID && (latest == nil || cur.SubmittedAt.After(latest.SubmittedAt)) {
				c := cur
				latest = &c
			}
		}
		u := f.users[r.UserID]
		u.VerificationStatus, u.VerificationRejectionReason = domain.StateAfterWithdrawal(latest)
		f.users[u.ID] = u
	}
	return r, nil
}

func (f *fakeStore) DeleteByUser(_ context.Context, userID string) ([]domain.VerificationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.VerificationRequest
	for id, r := range f.requests {
		if r.UserID == userID {
			out = append(out, r)
			delete(f.requests, id)
		}
	}
	return out, nil
}

/*
fakeDocs records uploads and deletes.
*/
type fakeDocs struct {
	mu sync.Mutex

	uploaded map[string]string // publicID -> folder
	deleted  []string

	// failSlot makes uploads for that slot fail; block waits for ctx.
	failSlot  domain.DocumentSlot
	block     bool
	deleteErr error
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{uploaded: map[string]string{}}
}

func (d *fakeDocs) Upload(ctx context.Context, f domain.UploadFile, folder string) (domain.StoredObject, error) {
	if d.block {
		<-ctx.Done()
		return domain.StoredObject{}, ctx.Err()
	}
	if d.failSlot != "" && f.Slot == d.failSlot {
		return domain.StoredObject{}, errors.New("storage exploded")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	id := folder + "/" + f.Name
	d.uploaded[id] = folder
	return domain.StoredObject{URL: "https://files.test/" + id, PublicID: id, Format: "pdf", Bytes: f.Size}, nil
}

func (d *fakeDocs) Delete(_ context.Context, publicID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deleted = append(d.deleted, publicID)
	return d.deleteErr
}

func (d *fakeDocs) uploadCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.uploaded)
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

type fakeCache struct {
	mu          sync.Mutex
	invalidated []string
}

func (c *fakeCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, userID)
	return nil
}

/*
Test harness
*/

type harness struct {
	svc      *Service
	store    *fakeStore
	docs     *fakeDocs
	notifier *fakeNotifier
	cache    *fakeCache
	audits   *[]auditEntry
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newSvcForTest(t *testing.T) harness {
	t.Helper()

	store := newFakeStore()
	docs := newFakeDocs()
	n := &fakeNotifier{}
	c := &fakeCache{}

	var (
		mu     sync.Mutex
		audits []auditEntry
	)
	svc := NewService(store, fakeUsers{store}, docs, n, c, Config{
		UploadTimeout:    time.Second,
		AdminNotifyEmail: "admin@getlisted.test",
	}).WithAudit(func(action string, fields map[string]string) {
		mu.Lock()
		defer mu.Unlock()
		audits = append(audits, auditEntry{action: action, fields: fields})
	}).WithClock(func() time.Time { return fixedNow })

	return harness{svc: svc, store: store, docs: docs, notifier: n, cache: c, audits: &audits}
}

func upload(slot domain.DocumentSlot, name string) *domain.UploadFile {
	return &domain.UploadFile{Slot: slot, Name: name, ContentType: "application/pdf", Size: 2048}
}

func founderDocs() domain.DocumentSet {
	return domain.DocumentSet{
		IDDocument:           upload(domain.SlotIDDocument, "passport.pdf"),
		ProofOfAddress:       upload(domain.SlotProofOfAddress, "bill.pdf"),
		BusinessRegistration: upload(domain.SlotBusinessRegistration, "reg.pdf"),
	}
}

func investorDocs() domain.DocumentSet {
	return domain.DocumentSet{
		IDDocument:     upload(domain.SlotIDDocument, "passport.pdf"),
		ProofOfAddress: upload(domain.SlotProofOfAddress, "bill.pdf"),
	}
}

var admin = authz.Principal{ID: "admin-1", Role: "admin"}
