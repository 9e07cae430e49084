package dto

import "strings"

// -------- Accounts --------

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Role      string `json:"role" validate:"omitempty,role"`
}

func (r *RegisterRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Role = strings.TrimSpace(r.Role)
	return Validate(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return Validate(r)
}

// -------- Verification --------

// ReviewRequest is the admin decision body; status is approved or rejected.
type ReviewRequest struct {
	Status          string `json:"status" validate:"required,decision"`
	RejectionReason string `json:"rejectionReason" validate:"max=1000"`
	Notes           string `json:"notes" validate:"max=2000"`
}

func (r *ReviewRequest) Validate() error {
	r.Status = strings.TrimSpace(r.Status)
	return Validate(r)
}

// -------- Startups --------

type CreateStartupRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Tagline     string `json:"tagline" validate:"max=280"`
	Industry    string `json:"industry" validate:"required,max=60"`
	Stage       string `json:"stage" validate:"max=60"`
	FundingGoal int64  `json:"fundingGoal" validate:"gte=0"`
}

func (r *CreateStartupRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Industry = strings.TrimSpace(r.Industry)
	return Validate(r)
}

// UpdateStartupRequest is a partial update; absent fields are unchanged.
type UpdateStartupRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Tagline     *string `json:"tagline" validate:"omitempty,max=280"`
	Industry    *string `json:"industry" validate:"omitempty,min=1,max=60"`
	Stage       *string `json:"stage" validate:"omitempty,max=60"`
	FundingGoal *int64  `json:"fundingGoal" validate:"omitempty,gte=0"`
}

func (r *UpdateStartupRequest) Validate() error {
	return Validate(r)
}

type InterestRequest struct {
	Amount  int64  `json:"amount" validate:"gte=0"`
	Message string `json:"message" validate:"max=1000"`
}

func (r *InterestRequest) Validate() error {
	r.Message = strings.TrimSpace(r.Message)
	return Validate(r)
}

// -------- Waitlist --------

type JoinWaitlistRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
	Role      string `json:"role" validate:"required,waitlist_role"`
	Reason    string `json:"reason" validate:"required,max=500"`
}

func (r *JoinWaitlistRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Role = strings.TrimSpace(r.Role)
	r.Reason = strings.TrimSpace(r.Reason)
	return Validate(r)
}

// -------- Connections --------

type ConnectionRequest struct {
	StartupID string `json:"startupId" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

// Message length is checked by the service, which counts characters.
func (r *ConnectionRequest) Validate() error {
	r.StartupID = strings.TrimSpace(r.StartupID)
	r.Message = strings.TrimSpace(r.Message)
	return Validate(r)
}

// AnswerConnectionRequest carries accepted or rejected.
type AnswerConnectionRequest struct {
	Status string `json:"status" validate:"required,connection_answer"`
}

func (r *AnswerConnectionRequest) Validate() error {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	return Validate(r)
}
