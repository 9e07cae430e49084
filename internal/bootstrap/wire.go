package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/authz"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/startup"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/verification"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/waitlist"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/audit"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/config"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/infrastructure/email"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/infrastructure/memory"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/infrastructure/redis"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/infrastructure/storage"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/tracing"
	http_handlers "github.com/baechuer/real-time-ressys/services/verification-service/internal/transport/http/handlers"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/transport/http/response"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/transport/http/router"
)

const serviceName = "verification-service"

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(dsn string, debug bool) (*sql.DB, error)

	NewRedis func(addr, password string, db int) RedisClient

	NewNotifier func(rabbitURL, exchange string) (verification.Notifier, error)

	NewDocumentStore func(ctx context.Context, cfg *config.Config) (verification.DocumentStore, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

// stores groups the identity, verification, marketplace and community persistence.
type stores struct {
	users interface {
		auth.UserRepo
		verification.UserReader
	}
	requests    verification.RequestRepo
	startups    startup.StartupRepo
	interests   startup.InterestRepo
	connections startup.ConnectionRepo
	views       startup.ViewRepo
	waitlist    waitlist.Repo
	seed        func(ctx context.Context, hasher *security.BcryptHasher, email, password string)
	ping        http_handlers.Check
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()
	fail := func(err error) (*http.Server, func(), error) {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 1) tracing
	tp, err := tracing.Init(context.Background(), tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: cfg.ServiceVersion,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	})
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("tracing unavailable; spans disabled")
	} else {
		cleanupFns = append(cleanupFns, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tp.Shutdown(ctx)
		})
	}

	// 2) stores
	st, closeStores, err := openStores(deps, cfg)
	if err != nil {
		return fail(err)
	}
	cleanupFns = append(cleanupFns, closeStores)

	// 3) redis (best-effort)
	var redisCli *redis.Client
	var redisPing http_handlers.Check
	if deps.NewRedis != nil && cfg.RedisAddr != "" {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := c.Ping(ctx)
		cancel()

		if err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; identity cache disabled, local rate limits")
			_ = c.Close()
		} else if rc, ok := c.(*redis.Client); ok {
			logger.Logger.Info().Msg("redis connected")
			redisCli = rc
			redisPing = rc.Ping
			cleanupFns = append(cleanupFns, func() { _ = rc.Close() })
		} else {
			_ = c.Close()
		}
	}

	// identity state, optionally cached
	var states authz.StateReader = authz.StoreStates{Users: st.users}
	var stateCache verification.StateCache
	if redisCli != nil {
		ic := redis.NewIdentityCache(states, redisCli, cfg.IdentityCacheTTL)
		states = ic
		stateCache = ic
	}

	// 4) notifier
	notifier, err := openNotifier(deps, cfg)
	if err != nil {
		return fail(err)
	}
	if c, ok := notifier.(interface{ Close() error }); ok {
		cleanupFns = append(cleanupFns, func() { _ = c.Close() })
	}

	// 5) document storage
	newDocs := deps.NewDocumentStore
	if newDocs == nil {
		newDocs = openDocumentStore
	}
	docs, err := newDocs(context.Background(), cfg)
	if err != nil {
		return fail(err)
	}

	// 6) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt signer")
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)

	st.seed(context.Background(), hasher, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	// 7) services
	auditFn := audit.New(logger.Logger).Func()

	verifySvc := verification.NewService(
		st.requests,
		st.users,
		docs,
		notifier,
		stateCache,
		verification.Config{
			UploadTimeout:    cfg.UploadTimeout,
			AdminNotifyEmail: cfg.AdminNotifyEmail,
		},
	).WithAudit(auditFn)

	authSvc := auth.NewService(
		st.users,
		hasher,
		signer,
		verifySvc,
		stateCache,
		auth.Config{AccessTTL: cfg.AccessTokenTTL},
	).WithAudit(auditFn)

	startupSvc := startup.NewService(st.startups, st.interests, st.connections, st.views)

	waitlistSvc := waitlist.NewService(st.waitlist, notifier, waitlist.Config{
		RegisterURL: cfg.WaitlistRegisterURL,
	}).WithAudit(auditFn)

	// 8) handlers + middleware
	gate := authz.NewGate(signer, states)

	authH := http_handlers.NewAuthHandler(authSvc)
	verifyH := http_handlers.NewVerificationHandler(verifySvc, cfg.MaxUploadBytes)
	startupH := http_handlers.NewStartupHandler(startupSvc)
	waitlistH := http_handlers.NewWaitlistHandler(waitlistSvc)
	viewH := http_handlers.NewViewHandler(startupSvc)
	connH := http_handlers.NewConnectionHandler(startupSvc)
	healthH := http_handlers.NewHealthHandler(map[string]http_handlers.Check{
		"db":    st.ping,
		"redis": redisPing,
	})

	roles := func(rs ...domain.Role) router.Middleware {
		return middleware.RequireRole(domain.Roles(rs...), response.WriteError)
	}

	// rate limit: Redis fixed window, local fallback when Redis is absent
	var limiter middleware.RateLimiter
	if redisCli != nil {
		limiter = redis.NewFixedWindowLimiter(redisCli)
	}
	rl := func(key string, limit int) router.Middleware {
		if !cfg.RLEnabled {
			return nil
		}
		return middleware.RateLimitFixedWindow(
			limiter,
			middleware.FixedWindowConfig{
				RouteKey: key,
				Limit:    limit,
				Window:   cfg.RLWindow,
			},
			response.WriteError,
		)
	}

	// 9) router
	newRouter := deps.NewRouter
	if newRouter == nil {
		newRouter = router.New
	}
	mux, err := newRouter(router.Deps{
		Health:       healthH,
		Auth:         authH,
		Verification: verifyH,
		Startups:     startupH,
		Waitlist:     waitlistH,
		Views:        viewH,
		Connections:  connH,

		Global: []router.Middleware{
			middleware.RequestID,
			tracing.Middleware(serviceName),
			middleware.Metrics,
		},

		AuthMW:     middleware.Auth(gate, response.WriteError),
		OptionalMW: middleware.OptionalAuth(gate),
		AdminMW:    roles(domain.RoleAdmin),
		FounderMW:  roles(domain.RoleUser, domain.RoleFounder),
		InvestorMW: roles(domain.RoleUser, domain.RoleInvestor),
		BuilderMW:  roles(domain.RoleFounder, domain.RoleAdmin),
		BackerMW:   roles(domain.RoleInvestor, domain.RoleAdmin),
		VerifiedMW: middleware.RequireVerified(response.WriteError),

		RegisterRL: rl("auth.register", minPositive(cfg.RLLimit, 10)),
		LoginRL:    rl("auth.login", minPositive(cfg.RLLimit, 20)),
		SubmitRL:   rl("verification.submit", minPositive(cfg.RLLimit, 5)),
		WaitlistRL: rl("waitlist.join", minPositive(cfg.RLLimit, 10)),
	})
	if err != nil {
		return fail(err)
	}

	// 10) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

func openStores(deps Deps, cfg *config.Config) (stores, func(), error) {
	switch cfg.StoreDriver {
	case "memory":
		logger.Logger.Warn().Msg("using in-memory stores; data is lost on restart")
		ms := memory.NewStore()
		users := ms.Users()
		startups := memory.NewStartupRepo()
		return stores{
			users:       users,
			requests:    ms.Verifications(),
			startups:    startups,
			interests:   memory.NewInterestRepo(),
			connections: memory.NewConnectionRepo(),
			views:       memory.NewViewRepo(startups),
			waitlist:    memory.NewWaitlistRepo(),
			seed: func(ctx context.Context, hasher *security.BcryptHasher, email, password string) {
				memory.SeedAdmin(ctx, users, hasher, email, password)
			},
		}, func() {}, nil

	case "postgres":
		if deps.NewDB == nil {
			return stores{}, nil, fmt.Errorf("bootstrap: no postgres opener")
		}
		db, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
		if err != nil {
			return stores{}, nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return stores{}, nil, fmt.Errorf("bootstrap: ensure schema: %w", err)
		}

		users := postgres.NewUserRepo(db)
		return stores{
			users:       users,
			requests:    postgres.NewVerificationRepo(db),
			startups:    postgres.NewStartupRepo(db),
			interests:   postgres.NewInterestRepo(db),
			connections: postgres.NewConnectionRepo(db),
			views:       postgres.NewViewRepo(db),
			waitlist:    postgres.NewWaitlistRepo(db),
			seed: func(ctx context.Context, hasher *security.BcryptHasher, email, password string) {
				postgres.SeedAdmin(ctx, users, hasher, email, password)
			},
			ping: db.PingContext,
		}, func() { _ = db.Close() }, nil

	default:
		return stores{}, nil, fmt.Errorf("bootstrap: unknown store driver %q", cfg.StoreDriver)
	}
}

func openNotifier(deps Deps, cfg *config.Config) (verification.Notifier, error) {
	switch cfg.NotifyDriver {
	case "smtp":
		return email.NewSMTPNotifier(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			Timeout:  cfg.SMTP.Timeout,
			Insecure: cfg.SMTP.Insecure,
		}, logger.Logger), nil

	case "rabbitmq":
		var (
			n   verification.Notifier
			err error
		)
		if cfg.RabbitURL == "" {
			err = fmt.Errorf("empty rabbitmq url")
		} else if deps.NewNotifier == nil {
			err = fmt.Errorf("no rabbitmq opener")
		} else {
			n, err = deps.NewNotifier(cfg.RabbitURL, cfg.RabbitExchange)
		}
		if err != nil {
			if cfg.Env == "dev" {
				logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop notifier")
				return memory.NewNoopNotifier(), nil
			}
			return nil, err
		}
		return n, nil

	default:
		return memory.NewNoopNotifier(), nil
	}
}

func openDocumentStore(ctx context.Context, cfg *config.Config) (verification.DocumentStore, error) {
	switch cfg.StorageDriver {
	case "cloudinary":
		return storage.NewCloudinaryStore(cfg.CloudinaryURL)
	case "s3":
		return storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Bucket:          cfg.S3.Bucket,
			UsePathStyle:    cfg.S3.UsePathStyle,
			PublicBaseURL:   cfg.S3.PublicBaseURL,
		})
	case "memory":
		logger.Logger.Warn().Msg("using in-memory document storage")
		return memory.NewDocumentStore(), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown storage driver %q", cfg.StorageDriver)
	}
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewNotifier: func(url, exchange string) (verification.Notifier, error) {
			return rabbitmq.NewNotifier(url, exchange)
		},
		NewDocumentStore: openDocumentStore,
		NewRouter:        router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

// minPositive caps a per-route budget by the configured global limit.
func minPositive(global, route int) int {
	if global > 0 && global < route {
		return global
	}
	return route
}
