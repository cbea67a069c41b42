package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "DEVFLOW_DB_DSN"
	EnvDBHost = "DEVFLOW_DB_HOST"
	EnvDBUser = "DEVFLOW_DB_USER"
	EnvDBName = "DEVFLOW_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Auth         AuthConfig
	Stripe       StripeConfig
	Site         SiteConfig
	PubSub       PubSubConfig
	GCP          GCPConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DEVFLOW_APP_ENV" required:"true"`
	Port         string `envconfig:"DEVFLOW_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DEVFLOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DEVFLOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DEVFLOW_DB_DSN"`
	Driver string `envconfig:"DEVFLOW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DEVFLOW_DB_HOST"`
	LegacyPort     int    `envconfig:"DEVFLOW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DEVFLOW_DB_USER"`
	LegacyPassword string `envconfig:"DEVFLOW_DB_PASSWORD"`
	LegacyName     string `envconfig:"DEVFLOW_DB_NAME"`
	LegacySSLMode  string `envconfig:"DEVFLOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DEVFLOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DEVFLOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DEVFLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DEVFLOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DEVFLOW_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DEVFLOW_REDIS_ADDR"`
	Password     string        `envconfig:"DEVFLOW_REDIS_PASSWORD"`
	DB           int           `envconfig:"DEVFLOW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DEVFLOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DEVFLOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DEVFLOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DEVFLOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DEVFLOW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// AuthConfig verifies bearer tokens minted by the hosted auth provider. The
// provider signs access tokens with a shared HS256 secret.
type AuthConfig struct {
	JWTSecret string `envconfig:"DEVFLOW_AUTH_JWT_SECRET" required:"true"`
	Issuer    string `envconfig:"DEVFLOW_AUTH_ISSUER"`
}

type StripeConfig struct {
	APIKey         string `envconfig:"DEVFLOW_STRIPE_API_KEY"`
	Secret         string `envconfig:"DEVFLOW_STRIPE_SECRET"`
	Env            string `envconfig:"DEVFLOW_STRIPE_ENV" default:"test"`
	MonthlyPriceID string `envconfig:"DEVFLOW_STRIPE_MONTHLY_PRICE_ID"`
	YearlyPriceID  string `envconfig:"DEVFLOW_STRIPE_YEARLY_PRICE_ID"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

// SiteConfig locates the customer-facing frontend; checkout success and
// cancel URLs are built against BaseURL.
type SiteConfig struct {
	BaseURL string `envconfig:"DEVFLOW_SITE_BASE_URL" required:"true"`
}

type PubSubConfig struct {
	RevalidateTopic string `envconfig:"DEVFLOW_PUBSUB_REVALIDATE_TOPIC" default:"devflow-revalidate-events"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"DEVFLOW_GCP_PROJECT_ID"`
}

type FeatureFlagsConfig struct {
	AutoMigrate       bool          `envconfig:"DEVFLOW_AUTO_MIGRATE" default:"false"`
	WebhookGuardTTL   time.Duration `envconfig:"DEVFLOW_WEBHOOK_GUARD_TTL" default:"24h"`
	RevalidateEnabled bool          `envconfig:"DEVFLOW_REVALIDATE_ENABLED" default:"true"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
