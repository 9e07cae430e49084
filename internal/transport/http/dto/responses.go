package dto

import (
	"time"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/verification"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

// -------- Accounts --------

type UserView struct {
	ID                              string    `json:"id"`
	Email                           string    `json:"email"`
	FirstName                       string    `json:"firstName"`
	LastName                        string    `json:"lastName"`
	Role                            string    `json:"role"`
	EmailVerified                   bool      `json:"emailVerified"`
	RoleVerified                    bool      `json:"roleVerified"`
	RoleVerificationStatus          string    `json:"roleVerificationStatus"`
	RoleVerificationRejectionReason string    `json:"roleVerificationRejectionReason,omitempty"`
	CreatedAt                       time.Time `json:"createdAt"`
}

func NewUserView(u domain.User) UserView {
	st := u.State()
	return UserView{
		ID:                              u.ID,
		Email:                           u.Email,
		FirstName:                       u.FirstName,
		LastName:                        u.LastName,
		Role:                            u.Role,
		EmailVerified:                   u.EmailVerified,
		RoleVerified:                    st.RoleVerified,
		RoleVerificationStatus:          string(st.VerificationStatus),
		RoleVerificationRejectionReason: u.VerificationRejectionReason,
		CreatedAt:                       u.CreatedAt,
	}
}

type TokensView struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// AuthData is returned by register/login.
type AuthData struct {
	User   UserView   `json:"user"`
	Tokens TokensView `json:"tokens"`
}

func NewAuthData(res auth.AuthResult) AuthData {
	return AuthData{
		User: NewUserView(res.User),
		Tokens: TokensView{
			AccessToken: res.Tokens.AccessToken,
			TokenType:   res.Tokens.TokenType,
			ExpiresIn:   res.Tokens.ExpiresIn,
		},
	}
}

// -------- Verification --------

type DocumentView struct {
	URL          string    `json:"url"`
	PublicID     string    `json:"publicId"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Format       string    `json:"format,omitempty"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

func newDocumentView(d domain.Document) DocumentView {
	return DocumentView{
		URL:          d.URL,
		PublicID:     d.PublicID,
		OriginalName: d.OriginalName,
		MimeType:     d.MimeType,
		Format:       d.Format,
		Size:         d.Size,
		UploadedAt:   d.UploadedAt,
	}
}

type DocumentsView struct {
	IDDocument           DocumentView   `json:"idDocument"`
	ProofOfAddress       DocumentView   `json:"proofOfAddress"`
	BusinessRegistration *DocumentView  `json:"businessRegistration,omitempty"`
	AdditionalDocuments  []DocumentView `json:"additionalDocuments"`
}

type UserSummaryView struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func newUserSummaryView(s *domain.UserSummary) *UserSummaryView {
	if s == nil {
		return nil
	}
	return &UserSummaryView{
		ID:        s.ID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Role:      s.Role,
	}
}

// RequestView is the full request as admins (and owners) see it.
type RequestView struct {
	ID              string           `json:"id"`
	UserID          string           `json:"userId"`
	Status          string           `json:"status"`
	Documents       DocumentsView    `json:"documents"`
	SubmittedAt     time.Time        `json:"submittedAt"`
	ReviewedAt      *time.Time       `json:"reviewedAt,omitempty"`
	ReviewedBy      string           `json:"reviewedBy,omitempty"`
	RejectionReason string           `json:"rejectionReason,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	User            *UserSummaryView `json:"user,omitempty"`
	Reviewer        *UserSummaryView `json:"reviewer,omitempty"`
}

func NewRequestView(r domain.VerificationRequest) RequestView {
	docs := DocumentsView{
		IDDocument:          newDocumentView(r.IDDocument),
		ProofOfAddress:      newDocumentView(r.ProofOfAddress),
		AdditionalDocuments: make([]DocumentView, 0, len(r.AdditionalDocuments)),
	}
	if r.BusinessRegistration != nil {
		br := newDocumentView(*r.BusinessRegistration)
		docs.BusinessRegistration = &br
	}
	for _, d := range r.AdditionalDocuments {
		docs.AdditionalDocuments = append(docs.AdditionalDocuments, newDocumentView(d))
	}

	return RequestView{
		ID:              r.ID,
		UserID:          r.UserID,
		Status:          string(r.Status),
		Documents:       docs,
		SubmittedAt:     r.SubmittedAt,
		ReviewedAt:      r.ReviewedAt,
		ReviewedBy:      r.ReviewedBy,
		RejectionReason: r.RejectionReason,
		Notes:           r.Notes,
	}
}

func NewRequestViewWithUsers(v verification.RequestView) RequestView {
	out := NewRequestView(v.Request)
	out.User = newUserSummaryView(v.Owner)
	out.Reviewer = newUserSummaryView(v.Reviewer)
	return out
}

func NewRequestViews(items []verification.RequestView) []RequestView {
	out := make([]RequestView, 0, len(items))
	for _, it := range items {
		out = append(out, NewRequestViewWithUsers(it))
	}
	return out
}

// SubmitData is the 201 body of a submission.
type SubmitData struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func NewSubmitData(r domain.VerificationRequest) SubmitData {
	return SubmitData{ID: r.ID, Status: string(r.Status), SubmittedAt: r.SubmittedAt}
}

type RequestSummary struct {
	ID              string     `json:"id"`
	Status          string     `json:"status"`
	SubmittedAt     time.Time  `json:"submittedAt"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
}

type StatusData struct {
	RoleVerified           bool            `json:"roleVerified"`
	RoleVerificationStatus string          `json:"roleVerificationStatus"`
	LatestRequest          *RequestSummary `json:"latestRequest,omitempty"`
}

func NewStatusData(s verification.StatusResult) StatusData {
	out := StatusData{
		RoleVerified:           s.RoleVerified,
		RoleVerificationStatus: string(s.VerificationStatus),
	}
	if s.Latest != nil {
		out.LatestRequest = &RequestSummary{
			ID:              s.Latest.ID,
			Status:          string(s.Latest.Status),
			SubmittedAt:     s.Latest.SubmittedAt,
			ReviewedAt:      s.Latest.ReviewedAt,
			RejectionReason: s.Latest.RejectionReason,
		}
	}
	return out
}

// -------- Startups --------

type StartupView struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Tagline     string    `json:"tagline,omitempty"`
	Industry    string    `json:"industry"`
	Stage       string    `json:"stage,omitempty"`
	FundingGoal int64     `json:"fundingGoal"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewStartupView(s domain.Startup) StartupView {
	return StartupView{
		ID:          s.ID,
		OwnerID:     s.OwnerID,
		Name:        s.Name,
		Tagline:     s.Tagline,
		Industry:    s.Industry,
		Stage:       s.Stage,
		FundingGoal: s.FundingGoal,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func NewStartupViews(items []domain.Startup) []StartupView {
	out := make([]StartupView, 0, len(items))
	for _, s := range items {
		out = append(out, NewStartupView(s))
	}
	return out
}

type InterestView struct {
	ID         string    `json:"id"`
	StartupID  string    `json:"startupId"`
	InvestorID string    `json:"investorId"`
	Amount     int64     `json:"amount"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewInterestView(i domain.Interest) InterestView {
	return InterestView{
		ID:         i.ID,
		StartupID:  i.StartupID,
		InvestorID: i.InvestorID,
		Amount:     i.Amount,
		Message:    i.Message,
		CreatedAt:  i.CreatedAt,
	}
}

func NewInterestViews(items []domain.Interest) []InterestView {
	out := make([]InterestView, 0, len(items))
	for _, i := range items {
		out = append(out, NewInterestView(i))
	}
	return out
}

// -------- Waitlist --------

type WaitlistEntryView struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Role       string     `json:"role"`
	Reason     string     `json:"reason"`
	Status     string     `json:"status"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	ApprovedBy string     `json:"approvedBy,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func NewWaitlistEntryView(e domain.WaitlistEntry) WaitlistEntryView {
	return WaitlistEntryView{
		ID:         e.ID,
		Email:      e.Email,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Role:       e.Role,
		Reason:     e.Reason,
		Status:     string(e.Status),
		ApprovedAt: e.ApprovedAt,
		ApprovedBy: e.ApprovedBy,
		CreatedAt:  e.CreatedAt,
	}
}

func NewWaitlistEntryViews(items []domain.WaitlistEntry) []WaitlistEntryView {
	out := make([]WaitlistEntryView, 0, len(items))
	for _, e := range items {
		out = append(out, NewWaitlistEntryView(e))
	}
	return out
}

// JoinWaitlistData tells a public caller no more than that the entry exists.
type JoinWaitlistData struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ApproveWaitlistData struct {
	Entry      WaitlistEntryView `json:"entry"`
	InviteSent bool              `json:"inviteSent"`
}

// -------- Connections --------

type ConnectionView struct {
	ID          string     `json:"id"`
	RequesterID string     `json:"requesterId"`
	StartupID   string     `json:"startupId"`
	FounderID   string     `json:"founderId"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func NewConnectionView(c domain.Connection) ConnectionView {
	return ConnectionView{
		ID:          c.ID,
		RequesterID: c.RequesterID,
		StartupID:   c.StartupID,
		FounderID:   c.FounderID,
		Message:     c.Message,
		Status:      string(c.Status),
		RespondedAt: c.RespondedAt,
		CreatedAt:   c.CreatedAt,
	}
}

func NewConnectionViews(items []domain.Connection) []ConnectionView {
	out := make([]ConnectionView, 0, len(items))
	for _, c := range items {
		out = append(out, NewConnectionView(c))
	}
	return out
}

// -------- Views --------

type DailyViewsView struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type ViewStatsData struct {
	Period            string           `json:"period"`
	TotalViews        int              `json:"totalViews"`
	UniqueViewers     int              `json:"uniqueViewers"`
	RegisteredViewers int              `json:"registeredViewers"`
	AnonymousViewers  int              `json:"anonymousViewers"`
	Trend             []DailyViewsView `json:"trend"`
}

func NewViewStatsData(period domain.ViewPeriod, s domain.ViewStats) ViewStatsData {
	trend := make([]DailyViewsView, 0, len(s.Trend))
	for _, d := range s.Trend {
		trend = append(trend, DailyViewsView{Date: d.Day, Count: d.Count})
	}
	return ViewStatsData{
		Period:            string(period),
		TotalViews:        s.TotalViews,
		UniqueViewers:     s.UniqueViewers(),
		RegisteredViewers: s.RegisteredViewers,
		AnonymousViewers:  s.AnonymousViewers,
		Trend:             trend,
	}
}

type StartupViewSummaryView struct {
	StartupID   string `json:"startupId"`
	Name        string `json:"name"`
	TotalViews  int    `json:"totalViews"`
	RecentViews int    `json:"recentViews"`
}

func NewStartupViewSummaries(items []domain.StartupViewSummary) []StartupViewSummaryView {
	out := make([]StartupViewSummaryView, 0, len(items))
	for _, s := range items {
		out = append(out, StartupViewSummaryView{
			StartupID:   s.StartupID,
			Name:        s.Name,
			TotalViews:  s.TotalViews,
			RecentViews: s.RecentViews,
		})
	}
	return out
}

type RecordViewData struct {
	Counted bool `json:"counted"`
}
