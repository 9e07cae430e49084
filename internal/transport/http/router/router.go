package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	CreateFounderProfile(w http.ResponseWriter, r *http.Request)
	CreateInvestorProfile(w http.ResponseWriter, r *http.Request)
	DeleteUser(w http.ResponseWriter, r *http.Request)
}

type VerificationHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type StartupHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	ExpressInterest(w http.ResponseWriter, r *http.Request)
	ListInterests(w http.ResponseWriter, r *http.Request)
	WithdrawInterest(w http.ResponseWriter, r *http.Request)
}

type WaitlistHandler interface {
	Join(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type ViewHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type ConnectionHandler interface {
	Request(w http.ResponseWriter, r *http.Request)
	Mine(w http.ResponseWriter, r *http.Request)
	Inbox(w http.ResponseWriter, r *http.Request)
	ForStartup(w http.ResponseWriter, r *http.Request)
	Answer(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type Middleware = func(http.Handler) http.Handler

type Deps struct {
	Health       HealthHandler
	Auth         AuthHandler
	Verification VerificationHandler
	Startups     StartupHandler
	Waitlist     WaitlistHandler
	Views        ViewHandler
	Connections  ConnectionHandler

	// Global chain, outermost first (request id, tracing, metrics).
	Global []Middleware

	AuthMW     Middleware
	OptionalMW Middleware // principal when present, anonymous otherwise
	AdminMW    Middleware // role {admin}
	FounderMW  Middleware // role {user, founder}
	InvestorMW Middleware // role {user, investor}
	BuilderMW  Middleware // role {founder, admin}
	BackerMW   Middleware // role {investor, admin}
	VerifiedMW Middleware

	RegisterRL Middleware
	LoginRL    Middleware
	SubmitRL   Middleware
	WaitlistRL Middleware
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.Verification == nil {
		return nil, fmt.Errorf("nil Verification handler")
	}
	if deps.Startups == nil {
		return nil, fmt.Errorf("nil Startups handler")
	}
	if deps.Waitlist == nil || deps.Views == nil || deps.Connections == nil {
		return nil, fmt.Errorf("nil community handler")
	}
	if deps.AuthMW == nil || deps.OptionalMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}
	if deps.AdminMW == nil || deps.FounderMW == nil || deps.InvestorMW == nil || deps.BuilderMW == nil || deps.BackerMW == nil {
		return nil, fmt.Errorf("nil role middleware")
	}
	if deps.VerifiedMW == nil {
		return nil, fmt.Errorf("nil Verified middleware")
	}
	registerRL := orPass(deps.RegisterRL)
	loginRL := orPass(deps.LoginRL)
	submitRL := orPass(deps.SubmitRL)
	waitlistRL := orPass(deps.WaitlistRL)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	for _, mw := range deps.Global {
		r.Use(mw)
	}
	r.Use(chimw.Recoverer)

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// --- Accounts ---
		r.Route("/auth", func(r chi.Router) {
			r.With(registerRL).Post("/register", deps.Auth.Register)
			r.With(loginRL).Post("/login", deps.Auth.Login)
			r.With(deps.AuthMW).Get("/me", deps.Auth.Me)
		})

		r.Route("/profiles", func(r chi.Router) {
			r.Use(deps.AuthMW)
			r.With(deps.FounderMW).Post("/founder", deps.Auth.CreateFounderProfile)
			r.With(deps.InvestorMW).Post("/investor", deps.Auth.CreateInvestorProfile)
		})

		// --- Verification workflow ---
		r.Route("/verification", func(r chi.Router) {
			r.Use(deps.AuthMW)

			r.With(submitRL).Post("/submit", deps.Verification.Submit)
			r.Get("/status", deps.Verification.Status)

			// Owner or admin; decided by the service.
			r.Get("/{id}", deps.Verification.Get)

			r.Group(func(r chi.Router) {
				r.Use(deps.AdminMW)
				r.Get("/", deps.Verification.List)
				r.Put("/{id}/review", deps.Verification.Review)
				r.Delete("/{id}", deps.Verification.Delete)
			})
		})

		// --- Admin ---
		r.Route("/admin", func(r chi.Router) {
			r.Use(deps.AuthMW)
			r.Use(deps.AdminMW)
			r.Delete("/users/{id}", deps.Auth.DeleteUser)
		})

		// --- Gated marketplace resources ---
		r.Route("/startups", func(r chi.Router) {
			r.Use(deps.AuthMW)

			r.Get("/", deps.Startups.List)
			r.Get("/{id}", deps.Startups.Get)

			r.Group(func(r chi.Router) {
				r.Use(deps.BuilderMW)
				r.Use(deps.VerifiedMW)
				r.Post("/", deps.Startups.Create)
				r.Put("/{id}", deps.Startups.Update)
				r.Delete("/{id}", deps.Startups.Delete)
			})

			// Startup owner or admin; decided by the service.
			r.Get("/{id}/interests", deps.Startups.ListInterests)
			r.With(deps.BackerMW, deps.VerifiedMW).Post("/{id}/interests", deps.Startups.ExpressInterest)
		})

		r.With(deps.AuthMW, deps.BackerMW).Delete("/interests/{id}", deps.Startups.WithdrawInterest)

		// --- Community ---
		r.Route("/waitlist", func(r chi.Router) {
			r.With(waitlistRL).Post("/", deps.Waitlist.Join)

			r.Group(func(r chi.Router) {
				r.Use(deps.AuthMW)
				r.Use(deps.AdminMW)
				r.Get("/", deps.Waitlist.List)
				r.Get("/export", deps.Waitlist.Export)
				r.Patch("/{id}/approve", deps.Waitlist.Approve)
				r.Delete("/{id}", deps.Waitlist.Delete)
			})
		})

		r.Route("/views/startups", func(r chi.Router) {
			r.With(deps.OptionalMW).Post("/{id}", deps.Views.Record)
			r.With(deps.AuthMW).Get("/{id}/stats", deps.Views.Stats)
			r.With(deps.AuthMW).Get("/", deps.Views.Summary)
		})

		// Requester, founder or admin; decided by the service.
		r.Route("/connections", func(r chi.Router) {
			r.Use(deps.AuthMW)
			r.Post("/", deps.Connections.Request)
			r.Get("/mine", deps.Connections.Mine)
			r.Get("/inbox", deps.Connections.Inbox)
			r.Get("/startup/{id}", deps.Connections.ForStartup)
			r.Put("/{id}", deps.Connections.Answer)
			r.Delete("/{id}", deps.Connections.Delete)
		})
	})

	return r, nil
}

func orPass(mw Middleware) Middleware {
	if mw != nil {
		return mw
	}
	return func(next http.Handler) http.Handler { return next }
}
