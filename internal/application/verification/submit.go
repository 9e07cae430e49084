package verification

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/logger"
)

// Submit stores the documents and opens a pending request for the caller.
// Role is read from the store; uploads complete before any database write.
func (s *Service) Submit(ctx context.Context, userID string, docs domain.DocumentSet) (domain.VerificationRequest, error) {
	audit := s.auditFn("verification.submit", map[string]string{"user_id": userID})

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		audit("error", err, nil)
		return domain.VerificationRequest{}, err
	}

	if !domain.RequiresVerification(u.Role) {
		err := domain.ErrUnsupportedRole(u.Role)
		audit("error", err, nil)
		return domain.VerificationRequest{}, err
	}
	if u.RoleVerified {
		err := domain.ErrAlreadyVerified()
		audit("error", err, nil)
		return domain.VerificationRequest{}, err
	}
	if u.VerificationStatus == domain.StatusPending {
		err := domain.ErrSubmissionInProgress()
		audit("error", err, nil)
		return domain.VerificationRequest{}, err
	}

	if err := docs.ValidateFor(u.Role); err != nil {
		audit("error", err, nil)
		return domain.VerificationRequest{}, err
	}

	stored, err := s.uploadAll(ctx, userID, docs)
	if err != nil {
		audit("error", err, nil)
		return domain.VerificationRequest{}, err
	}

	req := domain.VerificationRequest{
		ID:          uuid.NewString(),
		UserID:      userID,
		Status:      domain.StatusPending,
		SubmittedAt: s.now().UTC(),
	}
	for _, d := range stored {
		switch d.Slot {
		case domain.SlotIDDocument:
			req.IDDocument = d
		case domain.SlotProofOfAddress:
			req.ProofOfAddress = d
		case domain.SlotBusinessRegistration:
			br := d
			req.BusinessRegistration = &br
		case domain.SlotAdditionalDocuments:
			req.AdditionalDocuments = append(req.AdditionalDocuments, d)
		}
	}

	created, err := s.requests.CreatePending(ctx, req)
	if err != nil {
		// nothing references the uploads now
		s.deleteDocuments(context.WithoutCancel(ctx), stored)
		audit("error", err, nil)
		return domain.VerificationRequest{}, err
	}

	s.invalidate(ctx, userID)

	s.notify(ctx, domain.Notification{
		Template:  domain.TemplateAdminNotification,
		Recipient: s.adminEmail,
		Context: map[string]string{
			"subject":    fmt.Sprintf("New %s verification request", u.Role),
			"name":       "Admin",
			"message":    fmt.Sprintf("A new verification request has been submitted by %s (%s) for the role of %s.", u.FullName(), u.Email, u.Role),
			"user_id":    u.ID,
			"request_id": created.ID,
			"role":       u.Role,
		},
	})

	audit("success", nil, map[string]string{
		"request_id": created.ID,
		"role":       u.Role,
		"documents":  fmt.Sprintf("%d", len(stored)),
	})
	return created, nil
}

// uploadAll uploads every file concurrently under the upload timeout.
// On any failure, whatever did get stored is removed.
func (s *Service) uploadAll(ctx context.Context, userID string, docs domain.DocumentSet) ([]domain.Document, error) {
	files := docs.Files()
	out := make([]domain.Document, len(files))

	uctx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	var (
		mu       sync.Mutex
		uploaded []domain.Document
	)

	g, gctx := errgroup.WithContext(uctx)
	for i, f := range files {
		g.Go(func() error {
			folder := path.Join("verifications", userID, string(f.Slot))
			obj, err := s.docs.Upload(gctx, f, folder)
			if err != nil {
				return &uploadError{slot: f.Slot, err: err}
			}
			d := domain.Document{
				Slot:         f.Slot,
				URL:          obj.URL,
				PublicID:     obj.PublicID,
				OriginalName: f.Name,
				MimeType:     f.ContentType,
				Format:       obj.Format,
				Size:         f.Size,
				UploadedAt:   s.now().UTC(),
			}
			if obj.Bytes > 0 {
				d.Size = obj.Bytes
			}
			out[i] = d

			mu.Lock()
			uploaded = append(uploaded, d)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.deleteDocuments(context.WithoutCancel(ctx), uploaded)

		if errors.Is(uctx.Err(), context.DeadlineExceeded) {
			return nil, domain.ErrUploadTimeout(err)
		}
		var ue *uploadError
		if errors.As(err, &ue) {
			return nil, domain.ErrDocumentUploadFailed(string(ue.slot), ue.err)
		}
		return nil, domain.ErrDocumentUploadFailed("", err)
	}

	logger.WithCtx(ctx).Debug().
		Str("user_id", userID).
		Int("documents", len(out)).
		Msg("verification documents uploaded")
	return out, nil
}

type uploadError struct {
	slot domain.DocumentSlot
	err  error
}

func (e *uploadError) Error() string { return string(e.slot) + ": " + e.err.Error() }
func (e *uploadError) Unwrap() error { return e.err }
