package domain

import "time"

type WaitlistStatus string

const (
	WaitlistPending  WaitlistStatus = "pending"
	WaitlistApproved WaitlistStatus = "approved"
)

// Roles a prospective member can state when joining the waitlist. Wider than
// the account roles on purpose: mentors and service providers wait here too.
var waitlistRoles = map[string]struct{}{
	"founder":          {},
	"investor":         {},
	"mentor":           {},
	"service_provider": {},
	"other":            {},
}

func IsWaitlistRole(r string) bool {
	_, ok := waitlistRoles[r]
	return ok
}

type WaitlistEntry struct {
	ID         string
	Email      string
	FirstName  string
	LastName   string
	Role       string
	Reason     string
	Status     WaitlistStatus
	ApprovedAt *time.Time
	ApprovedBy string
	CreatedAt  time.Time
}

// Approval marks an entry approved by an admin.
type Approval struct {
	EntryID    string
	ApprovedBy string
	ApprovedAt time.Time
}

const (
	TemplateWaitlistConfirmation = "waitlist-confirmation"
	TemplateWaitlistApproval     = "waitlist-approval"
)
