package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrKind is used to map domain errors to HTTP status codes consistently.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"     // 400
	KindAuth           ErrKind = "auth"           // 401
	KindForbidden      ErrKind = "forbidden"      // 403
	KindNotFound       ErrKind = "not_found"      // 404
	KindConflict       ErrKind = "conflict"       // 409
	KindRateLimited    ErrKind = "rate_limited"   // 429
	KindInfrastructure ErrKind = "infrastructure" // 503
	KindInternal       ErrKind = "internal"       // 500
)

// Error is a structured domain error.
// - Kind: high-level category for HTTP mapping
// - Code: stable machine code (do not change casually)
// - Message: safe summary for clients
// - Meta: optional details (field, document, reason, etc.)
// - Cause: wrapped internal error for logging
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the stable code of a domain error, or "" for anything else.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ----------------------
// Validation errors (400)
// ----------------------

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "invalid JSON body", cause)
}

func ErrInvalidMultipart(cause error) *Error {
	return Wrap(KindValidation, "invalid_multipart", "invalid multipart body", cause)
}

func ErrMissingField(field string) *Error {
	return WithMeta(New(KindValidation, "missing_field", "missing required field"), map[string]string{
		"field": field,
	})
}

func ErrInvalidField(field, reason string) *Error {
	return WithMeta(New(KindValidation, "invalid_field", "invalid field"), map[string]string{
		"field":  field,
		"reason": reason,
	})
}

func ErrWeakPassword(reason string) *Error {
	return WithMeta(New(KindValidation, "weak_password", "password does not meet requirements"), map[string]string{
		"reason": reason,
	})
}

func ErrMissingRequiredDocument(document string) *Error {
	return WithMeta(New(KindValidation, "missing_required_document", "please upload "+document), map[string]string{
		"document": document,
	})
}

func ErrUnexpectedDocument(document string) *Error {
	return WithMeta(New(KindValidation, "unexpected_document", "document not accepted for this role"), map[string]string{
		"document": document,
	})
}

func ErrTooManyDocuments(document string, max int) *Error {
	return WithMeta(New(KindValidation, "too_many_documents", "too many documents"), map[string]string{
		"document": document,
		"max":      strconv.Itoa(max),
	})
}

func ErrFileTooLarge(document string, maxBytes int64) *Error {
	return WithMeta(New(KindValidation, "file_too_large", "file exceeds size limit"), map[string]string{
		"document":  document,
		"max_bytes": strconv.FormatInt(maxBytes, 10),
	})
}

func ErrUnsupportedFileType(document, name string) *Error {
	return WithMeta(New(KindValidation, "unsupported_file_type", "file type not allowed"), map[string]string{
		"document": document,
		"file":     name,
		"allowed":  "pdf,jpg,jpeg,png,doc,docx,xls,xlsx",
	})
}

func ErrInvalidDecision(decision string) *Error {
	return WithMeta(New(KindValidation, "invalid_decision", "please provide a valid status (approved/rejected)"), map[string]string{
		"status": decision,
	})
}

func ErrInvalidConnectionStatus(status string) *Error {
	return WithMeta(New(KindValidation, "invalid_connection_status", "status must be accepted or rejected"), map[string]string{
		"status": status,
	})
}

func ErrMissingRejectionReason() *Error {
	return New(KindValidation, "missing_rejection_reason", "please provide a reason for rejection")
}

func ErrInvalidRole(role string) *Error {
	return WithMeta(
		New(KindValidation, "invalid_role", "invalid role"),
		map[string]string{"role": role},
	)
}

// ----------------------
// Auth errors (401)
// ----------------------

// Login failures must not reveal whether the email exists.
func ErrInvalidCredentials() *Error {
	return New(KindAuth, "invalid_credentials", "invalid email or password")
}

func ErrTokenMissing() *Error {
	return New(KindAuth, "token_missing", "not authorized to access this route")
}

func ErrTokenInvalid() *Error {
	return New(KindAuth, "token_invalid", "invalid token")
}

func ErrTokenExpired() *Error {
	return New(KindAuth, "token_expired", "token is expired")
}

// ----------------------
// Forbidden (403)
// ----------------------

func ErrForbidden() *Error {
	return New(KindForbidden, "forbidden", "forbidden")
}

func ErrInsufficientRole(required string) *Error {
	return WithMeta(New(KindForbidden, "insufficient_role", "user role is not authorized to access this route"), map[string]string{
		"required": required,
	})
}

func ErrNotAuthorized() *Error {
	return New(KindForbidden, "not_authorized", "not authorized to perform this action")
}

func ErrNotOwner() *Error {
	return New(KindForbidden, "not_owner", "not authorized to access this resource")
}

func ErrUnsupportedRole(role string) *Error {
	return WithMeta(New(KindForbidden, "unsupported_role", "verification is only available for founders and investors"), map[string]string{
		"role": role,
	})
}

func ErrVerificationRequired(status VerificationStatus) *Error {
	return WithMeta(New(KindForbidden, "verification_required", "account verification required"), map[string]string{
		"verification_status":   string(status),
		"requires_verification": "true",
	})
}

func ErrCannotAffectSelf() *Error {
	return New(KindForbidden, "cannot_affect_self", "cannot perform this action on self")
}

// ----------------------
// Not Found (404)
// ----------------------

func ErrUserNotFound() *Error {
	return New(KindNotFound, "user_not_found", "user not found")
}

func ErrRequestNotFound() *Error {
	return New(KindNotFound, "request_not_found", "verification request not found")
}

func ErrStartupNotFound() *Error {
	return New(KindNotFound, "startup_not_found", "startup not found")
}

func ErrInterestNotFound() *Error {
	return New(KindNotFound, "interest_not_found", "interest not found")
}

func ErrWaitlistEntryNotFound() *Error {
	return New(KindNotFound, "waitlist_entry_not_found", "waitlist entry not found")
}

func ErrConnectionNotFound() *Error {
	return New(KindNotFound, "connection_not_found", "connection request not found")
}

// ----------------------
// Conflict (409)
// ----------------------

func ErrEmailAlreadyExists() *Error {
	return New(KindConflict, "email_already_exists", "email already registered")
}

func ErrAlreadyVerified() *Error {
	return New(KindConflict, "already_verified", "your account is already verified")
}

func ErrSubmissionInProgress() *Error {
	return New(KindConflict, "submission_in_progress", "you already have a pending verification request")
}

func ErrRequestNotPending(status VerificationStatus) *Error {
	return WithMeta(New(KindConflict, "request_not_pending", "verification request has already been reviewed"), map[string]string{
		"status": string(status),
	})
}

func ErrApprovedRequestLocked() *Error {
	return New(KindConflict, "approved_request_locked", "an approved verification request cannot be deleted")
}

func ErrRoleChangeNotAllowed(current string) *Error {
	return WithMeta(New(KindConflict, "role_change_not_allowed", "role cannot be changed"), map[string]string{
		"current_role": current,
	})
}

func ErrInterestAlreadyExists() *Error {
	return New(KindConflict, "interest_already_exists", "interest already registered for this startup")
}

func ErrAlreadyOnWaitlist() *Error {
	return New(KindConflict, "already_on_waitlist", "email already on waitlist")
}

func ErrConnectionExists() *Error {
	return New(KindConflict, "connection_exists", "you already have a connection request with this startup")
}

func ErrConnectionAnswered(status ConnectionStatus) *Error {
	return WithMeta(New(KindConflict, "connection_answered", "connection request has already been answered"), map[string]string{
		"status": string(status),
	})
}

func ErrOwnStartup() *Error {
	return New(KindConflict, "own_startup", "cannot request a connection to your own startup")
}

// ----------------------
// Rate limit (429)
// ----------------------

func ErrRateLimited(scope string) *Error {
	return WithMeta(New(KindRateLimited, "rate_limited", "too many requests"), map[string]string{
		"scope": scope,
	})
}

// ----------------------
// Infrastructure / internal (5xx)
// ----------------------

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "db_unavailable", "database unavailable", cause)
}

func ErrRedisUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "redis_unavailable", "cache unavailable", cause)
}

func ErrUploadTimeout(cause error) *Error {
	return WithMeta(
		Wrap(KindInfrastructure, "upload_timeout", "document upload timed out", cause),
		map[string]string{"retryable": "true"},
	)
}

func ErrDocumentUploadFailed(document string, cause error) *Error {
	return WithMeta(
		Wrap(KindInternal, "document_upload_failed", "error submitting verification", cause),
		map[string]string{"document": document, "retryable": "true"},
	)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "password hashing failed", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, "token_sign_failed", "token signing failed", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "internal error", cause)
}
