package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	//App
	Env string // dev / staging / prod
	//HTTP
	HTTPAddr         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	//Auth / Security
	JWTSecret      string
	JWTIssuer      string
	AccessTokenTTL time.Duration
	BcryptCost     int

	// Identity + verification stores: "postgres" or "memory"
	StoreDriver string
	DBAddr      string
	DBDebug     bool

	// Redis (rate limit + identity cache). Empty address disables it.
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	IdentityCacheTTL time.Duration

	// Rate limit
	RLEnabled bool
	RLLimit   int
	RLWindow  time.Duration

	// Notifications: "rabbitmq", "smtp" or "noop"
	NotifyDriver     string
	AdminNotifyEmail string
	RabbitURL        string
	RabbitExchange   string
	SMTP             SMTPConfig

	// Link mailed to approved waitlist entries; empty sends no link.
	WaitlistRegisterURL string

	// Document storage: "cloudinary", "s3" or "memory"
	StorageDriver  string
	CloudinaryURL  string
	S3             S3Config
	UploadTimeout  time.Duration
	MaxUploadBytes int64

	// Tracing
	OTLPEndpoint   string
	ServiceVersion string

	// Dev seed
	SeedAdminEmail    string
	SeedAdminPassword string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Insecure bool
	Timeout  time.Duration
}

type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UsePathStyle    bool
	PublicBaseURL   string
}

func Load() (*Config, error) {
	// .env is optional; real env vars win.
	_ = godotenv.Load()

	cfg := &Config{
		Env:            getEnv("ENV", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		JWTIssuer:      getEnv("JWT_ISSUER", "verification-service"),
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", "postgres")),
		NotifyDriver:   strings.ToLower(getEnv("NOTIFY_DRIVER", "rabbitmq")),
		StorageDriver:  strings.ToLower(getEnv("STORAGE_DRIVER", "cloudinary")),
		RabbitExchange: getEnv("RABBIT_EXCHANGE", "city.events"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),

		AdminNotifyEmail:    getEnv("ADMIN_NOTIFY_EMAIL", ""),
		WaitlistRegisterURL: strings.TrimSpace(getEnv("WAITLIST_REGISTER_URL", "")),
		SeedAdminEmail:      getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword:   getEnv("SEED_ADMIN_PASSWORD", ""),
	}

	// required values
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}

	if cfg.WaitlistRegisterURL != "" {
		u, err := url.Parse(cfg.WaitlistRegisterURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("WAITLIST_REGISTER_URL must be an absolute http(s) URL")
		}
	}

	var err error
	if cfg.AccessTokenTTL, err = getDuration("ACCESS_TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 12); err != nil {
		return nil, err
	}

	// ---- stores ----
	switch cfg.StoreDriver {
	case "postgres":
		cfg.DBAddr = firstNonEmpty(
			strings.TrimSpace(os.Getenv("DB_ADDR")),
			buildPostgresURL(
				getEnv("POSTGRES_ADDR", ""),
				getEnv("POSTGRES_USER", ""),
				getEnv("POSTGRES_PASSWORD", ""),
				getEnv("POSTGRES_DB", ""),
				getEnv("POSTGRES_SSLMODE", "disable"),
			),
		)
		if cfg.DBAddr == "" {
			return nil, fmt.Errorf("missing database config: provide DB_ADDR or POSTGRES_ADDR/POSTGRES_USER/POSTGRES_DB")
		}
		if !strings.HasPrefix(cfg.DBAddr, "postgres://") && !strings.HasPrefix(cfg.DBAddr, "postgresql://") {
			return nil, fmt.Errorf("DB_ADDR must be a postgres URL")
		}
	case "memory":
		if cfg.Env != "dev" {
			return nil, fmt.Errorf("STORE_DRIVER=memory is only allowed when ENV=dev")
		}
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.DBDebug, err = getBool("DB_DEBUG", false); err != nil {
		return nil, err
	}

	// ---- redis ----
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.IdentityCacheTTL, err = getDuration("IDENTITY_CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.RLEnabled, err = getBool("RL_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.RLLimit, err = getInt("RL_REQUESTS_LIMIT", 100); err != nil {
		return nil, err
	}
	if cfg.RLWindow, err = getDuration("RL_WINDOW", time.Minute); err != nil {
		return nil, err
	}

	// ---- notifications ----
	switch cfg.NotifyDriver {
	case "rabbitmq":
		cfg.RabbitURL = firstNonEmpty(
			strings.TrimSpace(os.Getenv("RABBIT_URL")),
			strings.TrimSpace(os.Getenv("RABBITMQ_URL")),
		)
		if cfg.RabbitURL == "" && cfg.Env != "dev" {
			return nil, fmt.Errorf("missing required env var: RABBIT_URL")
		}
	case "smtp":
		if cfg.SMTP, err = loadSMTP(); err != nil {
			return nil, err
		}
	case "noop":
	default:
		return nil, fmt.Errorf("invalid NOTIFY_DRIVER %q", cfg.NotifyDriver)
	}

	// ---- document storage ----
	switch cfg.StorageDriver {
	case "cloudinary":
		cfg.CloudinaryURL = os.Getenv("CLOUDINARY_URL")
		if cfg.CloudinaryURL == "" {
			return nil, fmt.Errorf("missing required env var: CLOUDINARY_URL")
		}
	case "s3":
		if cfg.S3, err = loadS3(); err != nil {
			return nil, err
		}
	case "memory":
		if cfg.Env != "dev" {
			return nil, fmt.Errorf("STORAGE_DRIVER=memory is only allowed when ENV=dev")
		}
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	if cfg.UploadTimeout, err = getDuration("UPLOAD_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	maxUpload, err := getInt("MAX_UPLOAD_MB", 60)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(maxUpload) << 20

	//Timeout values are optional and have a default value if not
	if cfg.HTTPReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPWriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPIdleTimeout, err = getDuration("HTTP_IDLE_TIMEOUT", time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadSMTP() (SMTPConfig, error) {
	c := SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Username: getEnv("SMTP_USERNAME", ""),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     getEnv("SMTP_FROM", ""),
	}
	if c.Host == "" || c.From == "" {
		return SMTPConfig{}, fmt.Errorf("missing required env vars: SMTP_HOST and SMTP_FROM")
	}
	var err error
	if c.Port, err = getInt("SMTP_PORT", 587); err != nil {
		return SMTPConfig{}, err
	}
	if c.Insecure, err = getBool("SMTP_INSECURE", false); err != nil {
		return SMTPConfig{}, err
	}
	if c.Timeout, err = getDuration("SMTP_TIMEOUT", 10*time.Second); err != nil {
		return SMTPConfig{}, err
	}
	return c, nil
}

func loadS3() (S3Config, error) {
	c := S3Config{
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		Region:          getEnv("S3_REGION", "us-east-1"),
		AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		Bucket:          getEnv("S3_BUCKET", ""),
		PublicBaseURL:   getEnv("S3_PUBLIC_BASE_URL", ""),
	}
	if c.Bucket == "" {
		return S3Config{}, fmt.Errorf("missing required env var: S3_BUCKET")
	}
	var err error
	if c.UsePathStyle, err = getBool("S3_USE_PATH_STYLE", true); err != nil {
		return S3Config{}, err
	}
	return c, nil
}

// buildPostgresURL builds a safe postgres URL DSN (handles special characters).
func buildPostgresURL(addr, user, pass, db, sslmode string) string {
	if strings.TrimSpace(addr) == "" || strings.TrimSpace(user) == "" || strings.TrimSpace(db) == "" {
		return ""
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   strings.TrimSpace(addr),
		Path:   "/" + strings.TrimPrefix(strings.TrimSpace(db), "/"),
	}
	if pass != "" {
		u.User = url.UserPassword(user, pass)
	} else {
		u.User = url.User(user)
	}

	q := url.Values{}
	if strings.TrimSpace(sslmode) != "" {
		q.Set("sslmode", strings.TrimSpace(sslmode))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %q: %w", key, v, err)
	}
	return i, nil
}

func getBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	switch strings.ToLower(v) {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean for %s: %q", key, v)
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}
