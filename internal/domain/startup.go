package domain

import "time"

type Startup struct {
	ID          string
	OwnerID     string
	Name        string
	Tagline     string
	Industry    string
	Stage       string
	FundingGoal int64 // cents
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StartupPatch carries optional updates; nil fields are left unchanged.
type StartupPatch struct {
	Name        *string
	Tagline     *string
	Industry    *string
	Stage       *string
	FundingGoal *int64
}

func (p StartupPatch) Apply(s Startup) Startup {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Tagline != nil {
		s.Tagline = *p.Tagline
	}
	if p.Industry != nil {
		s.Industry = *p.Industry
	}
	if p.Stage != nil {
		s.Stage = *p.Stage
	}
	if p.FundingGoal != nil {
		s.FundingGoal = *p.FundingGoal
	}
	return s
}

type StartupFilter struct {
	Industry string
}

// Interest is an investor's expression of interest in a startup.
type Interest struct {
	ID         string
	StartupID  string
	InvestorID string
	Amount     int64 // cents
	Message    string
	CreatedAt  time.Time
}
