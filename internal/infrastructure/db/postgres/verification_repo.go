package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

// VerificationRepo stores requests and owns the verification columns on users.
type VerificationRepo struct {
	db *sql.DB
}

func NewVerificationRepo(db *sql.DB) *VerificationRepo {
	return &VerificationRepo{db: db}
}

func (r *VerificationRepo) CreatePending(ctx context.Context, req domain.VerificationRequest) (domain.VerificationRequest, error) {
	idDoc, poa, br, extra, err := encodeDocuments(req)
	if err != nil {
		return domain.VerificationRequest{}, domain.ErrInternal(err)
	}

	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		var (
			verified bool
			status   string
		)
		if err := tx.QueryRowContext(ctx, sqlLockUserState, req.UserID).Scan(&verified, &status); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrUserNotFound()
			}
			return domain.ErrDBUnavailable(err)
		}
		if verified {
			return domain.ErrAlreadyVerified()
		}

		var pending bool
		if err := tx.QueryRowContext(ctx, sqlHasPending, req.UserID).Scan(&pending); err != nil {
			return domain.ErrDBUnavailable(err)
		}
		if pending {
			return domain.ErrSubmissionInProgress()
		}

		if _, err := tx.ExecContext(ctx, sqlInsertRequest,
			req.ID, req.UserID, idDoc, poa, br, extra, req.SubmittedAt,
		); err != nil {
			if isUniqueViolation(err, "verification_requests_one_pending") {
				return domain.ErrSubmissionInProgress()
			}
			return domain.ErrDBUnavailable(err)
		}

		if _, err := tx.ExecContext(ctx, sqlMarkUserPending, req.UserID); err != nil {
			return domain.ErrDBUnavailable(err)
		}
		return nil
	})
	if err != nil {
		return domain.VerificationRequest{}, err
	}

	req.Status = domain.StatusPending
	return req, nil
}

func (r *VerificationRepo) Transition(ctx context.Context, t domain.Transition) (domain.VerificationRequest, error) {
	var out domain.VerificationRequest

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		status := t.Decision.Status()
		req, err := scanRequest(tx.QueryRowContext(ctx, sqlTransitionRequest,
			t.RequestID, string(status), t.ReviewedAt, nullString(t.ReviewerID), t.RejectionReason, t.Notes,
		))
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return domain.ErrDBUnavailable(err)
			}
			// nothing updated: either missing or already decided
			var current string
			if err := tx.QueryRowContext(ctx, sqlRequestStatus, t.RequestID).Scan(&current); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return domain.ErrRequestNotFound()
				}
				return domain.ErrDBUnavailable(err)
			}
			return domain.ErrRequestNotPending(domain.VerificationStatus(current))
		}

		if _, err := tx.ExecContext(ctx, sqlApplyDecision,
			req.UserID, t.Decision == domain.DecisionApproved, string(status), t.RejectionReason,
		); err != nil {
			return domain.ErrDBUnavailable(err)
		}
		out = req
		return nil
	})
	return out, err
}

func (r *VerificationRepo) GetByID(ctx context.Context, id string) (domain.VerificationRequest, error) {
	req, err := scanRequest(r.db.QueryRowContext(ctx, sqlGetRequest, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.VerificationRequest{}, domain.ErrRequestNotFound()
		}
		return domain.VerificationRequest{}, domain.ErrDBUnavailable(err)
	}
	return req, nil
}

func (r *VerificationRepo) LatestForUser(ctx context.Context, userID string) (domain.VerificationRequest, bool, error) {
	req, err := scanRequest(r.db.QueryRowContext(ctx, sqlLatestForUser, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.VerificationRequest{}, false, nil
		}
		return domain.VerificationRequest{}, false, domain.ErrDBUnavailable(err)
	}
	return req, true, nil
}

func (r *VerificationRepo) List(ctx context.Context, f domain.RequestFilter, p domain.Page) ([]domain.VerificationRequest, int, error) {
	p = p.Normalize()
	if f.UserIDs != nil && len(f.UserIDs) == 0 {
		return []domain.VerificationRequest{}, 0, nil
	}

	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.UserIDs != nil {
		args = append(args, f.UserIDs)
		where = append(where, fmt.Sprintf("user_id = ANY($%d)", len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM verification_requests`+cond, args...).Scan(&total); err != nil {
		return nil, 0, domain.ErrDBUnavailable(err)
	}

	args = append(args, p.Limit, p.Offset())
	q := `SELECT ` + requestCols + ` FROM verification_requests` + cond +
		fmt.Sprintf(" ORDER BY submitted_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	items, err := collectRequests(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *VerificationRepo) Delete(ctx context.Context, id string) (domain.VerificationRequest, error) {
	var out domain.VerificationRequest

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var status string
		if err := tx.QueryRowContext(ctx, sqlLockRequestStatus, id).Scan(&status); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrRequestNotFound()
			}
			return domain.ErrDBUnavailable(err)
		}
		if domain.VerificationStatus(status) == domain.StatusApproved {
			return domain.ErrApprovedRequestLocked()
		}

		req, err := scanRequest(tx.QueryRowContext(ctx, sqlDeleteRequest, id))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrRequestNotFound()
			}
			return domain.ErrDBUnavailable(err)
		}
		if req.Status == domain.StatusPending {
			if _, err := tx.ExecContext(ctx, sqlRestoreUserAfterWithdrawal, req.UserID); err != nil {
				return domain.ErrDBUnavailable(err)
			}
		}
		out = req
		return nil
	})
	return out, err
}

func (r *VerificationRepo) DeleteByUser(ctx context.Context, userID string) ([]domain.VerificationRequest, error) {
	rows, err := r.db.QueryContext(ctx, sqlDeleteRequestsByUser, userID)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()
	return collectRequests(rows)
}

func collectRequests(rows *sql.Rows) ([]domain.VerificationRequest, error) {
	out := make([]domain.VerificationRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func scanRequest(row rowScanner) (domain.VerificationRequest, error) {
	var (
		req                   domain.VerificationRequest
		idDoc, poa, br, extra []byte
		status                string
		reviewedAt            sql.NullTime
		reviewedBy            sql.NullString
	)
	if err := row.Scan(
		&req.ID,
		&req.UserID,
		&idDoc,
		&poa,
		&br,
		&extra,
		&status,
		&req.SubmittedAt,
		&reviewedAt,
		&reviewedBy,
		&req.RejectionReason,
		&req.Notes,
	); err != nil {
		return domain.VerificationRequest{}, err
	}

	req.Status = domain.VerificationStatus(status)
	if reviewedAt.Valid {
		t := reviewedAt.Time.UTC()
		req.ReviewedAt = &t
	}
	req.ReviewedBy = reviewedBy.String

	if err := json.Unmarshal(idDoc, &req.IDDocument); err != nil {
		return domain.VerificationRequest{}, fmt.Errorf("decode id_document: %w", err)
	}
	if err := json.Unmarshal(poa, &req.ProofOfAddress); err != nil {
		return domain.VerificationRequest{}, fmt.Errorf("decode proof_of_address: %w", err)
	}
	if len(br) > 0 {
		var d domain.Document
		if err := json.Unmarshal(br, &d); err != nil {
			return domain.VerificationRequest{}, fmt.Errorf("decode business_registration: %w", err)
		}
		req.BusinessRegistration = &d
	}
	if len(extra) > 0 {
		if err := json.Unmarshal(extra, &req.AdditionalDocuments); err != nil {
			return domain.VerificationRequest{}, fmt.Errorf("decode additional_documents: %w", err)
		}
	}
	return req, nil
}

func encodeDocuments(req domain.VerificationRequest) (idDoc, poa []byte, br any, extra []byte, err error) {
	if idDoc, err = json.Marshal(req.IDDocument); err != nil {
		return
	}
	if poa, err = json.Marshal(req.ProofOfAddress); err != nil {
		return
	}
	if req.BusinessRegistration != nil {
		var b []byte
		if b, err = json.Marshal(req.BusinessRegistration); err != nil {
			return
		}
		br = b
	}
	docs := req.AdditionalDocuments
	if docs == nil {
		docs = []domain.Document{}
	}
	extra, err = json.Marshal(docs)
	return
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
