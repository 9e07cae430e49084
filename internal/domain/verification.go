package domain

import (
	"strings"
	"time"
)

type VerificationStatus string

const (
	StatusNotSubmitted VerificationStatus = "not_submitted"
	StatusPending      VerificationStatus = "pending"
	StatusApproved     VerificationStatus = "approved"
	StatusRejected     VerificationStatus = "rejected"
)

// IsRequestStatus reports whether s is a status a VerificationRequest can hold.
func IsRequestStatus(s string) bool {
	switch VerificationStatus(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Decision is the outcome an admin picks when reviewing a request.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

func (d Decision) Valid() bool {
	return d == DecisionApproved || d == DecisionRejected
}

func (d Decision) Status() VerificationStatus {
	if d == DecisionApproved {
		return StatusApproved
	}
	return StatusRejected
}

// Document is a stored file as recorded on a request.
type Document struct {
	Slot         DocumentSlot `json:"slot"`
	URL          string       `json:"url"`
	PublicID     string       `json:"public_id"`
	OriginalName string       `json:"original_name"`
	MimeType     string       `json:"mime_type"`
	Format       string       `json:"format,omitempty"`
	Size         int64        `json:"size"`
	UploadedAt   time.Time    `json:"uploaded_at"`
}

type VerificationRequest struct {
	ID     string
	UserID string

	IDDocument           Document
	ProofOfAddress       Document
	BusinessRegistration *Document
	AdditionalDocuments  []Document

	Status          VerificationStatus
	SubmittedAt     time.Time
	ReviewedAt      *time.Time
	ReviewedBy      string
	RejectionReason string
	Notes           string
}

// Documents returns every stored document on the request in slot order.
func (r VerificationRequest) Documents() []Document {
	out := make([]Document, 0, 3+len(r.AdditionalDocuments))
	if r.IDDocument.PublicID != "" || r.IDDocument.URL != "" {
		out = append(out, r.IDDocument)
	}
	if r.BusinessRegistration != nil {
		out = append(out, *r.BusinessRegistration)
	}
	if r.ProofOfAddress.PublicID != "" || r.ProofOfAddress.URL != "" {
		out = append(out, r.ProofOfAddress)
	}
	out = append(out, r.AdditionalDocuments...)
	return out
}

// StateAfterWithdrawal is the owner's status and rejection reason once their
// pending request is removed. latest is the newest request still on file.
func StateAfterWithdrawal(latest *VerificationRequest) (VerificationStatus, string) {
	if latest == nil {
		return StatusNotSubmitted, ""
	}
	return latest.Status, latest.RejectionReason
}

// Transition describes a pending -> approved/rejected move.
type Transition struct {
	RequestID       string
	ReviewerID      string
	Decision        Decision
	RejectionReason string
	Notes           string
	ReviewedAt      time.Time
}

// RequestFilter narrows admin listings. UserIDs is the resolved role filter:
// nil means "no role filter", an empty non-nil slice matches nothing.
type RequestFilter struct {
	Status  VerificationStatus
	Role    string
	UserIDs []string
}

type Page struct {
	Page  int
	Limit int
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Normalize applies defaults and caps.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Notification templates.
const (
	TemplateAdminNotification    = "admin-notification"
	TemplateVerificationApproved = "verification-approved"
	TemplateVerificationRejected = "verification-rejected"
)

type Notification struct {
	Template  string
	Recipient string
	Context   map[string]string
}

// NormalizeReason trims a rejection reason; blank means absent.
func NormalizeReason(s string) string {
	return strings.TrimSpace(s)
}
