package domain

import "time"

type User struct {
	ID            string
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	Role          string
	EmailVerified bool

	// Written only by the verification stores.
	RoleVerified                bool
	VerificationStatus          VerificationStatus
	VerificationRejectionReason string

	CreatedAt time.Time
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IdentityState is the slice of a user the authorization gate needs on every request.
type IdentityState struct {
	UserID             string             `json:"user_id"`
	Role               string             `json:"role"`
	RoleVerified       bool               `json:"role_verified"`
	VerificationStatus VerificationStatus `json:"verification_status"`
}

func (u User) State() IdentityState {
	status := u.VerificationStatus
	if status == "" {
		status = StatusNotSubmitted
	}
	return IdentityState{
		UserID:             u.ID,
		Role:               u.Role,
		RoleVerified:       u.RoleVerified,
		VerificationStatus: status,
	}
}

// UserSummary is the public projection attached to verification requests.
type UserSummary struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Role      string
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
	}
}
