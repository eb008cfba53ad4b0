package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix  = ""
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Quotes   QuotesConfig
	Checkout CheckoutConfig
	Mailer   MailerConfig
	Outbox   OutboxConfig
	Cron     CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VERTILIFT_APP_ENV" required:"true"`
	Port         string `envconfig:"VERTILIFT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"VERTILIFT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VERTILIFT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN             string        `envconfig:"VERTILIFT_DB_DSN"`
	MaxOpenConns    int           `envconfig:"VERTILIFT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VERTILIFT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VERTILIFT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VERTILIFT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VERTILIFT_REDIS_URL"`
	Address      string        `envconfig:"VERTILIFT_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"VERTILIFT_REDIS_PASSWORD"`
	DB           int           `envconfig:"VERTILIFT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VERTILIFT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VERTILIFT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VERTILIFT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VERTILIFT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VERTILIFT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"VERTILIFT_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"VERTILIFT_JWT_ISSUER" default:"vertilift"`
}

type QuotesConfig struct {
	ValidityDays int `envconfig:"VERTILIFT_QUOTE_VALIDITY_DAYS" default:"30"`
}

// ValidityDuration returns the approval validity window.
func (q QuotesConfig) ValidityDuration() time.Duration {
	days := q.ValidityDays
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

type CheckoutConfig struct {
	MaxOrderValue      string `envconfig:"VERTILIFT_CHECKOUT_MAX_ORDER_VALUE" default:"50000"`
	MaxQuantityPerItem int    `envconfig:"VERTILIFT_CHECKOUT_MAX_QTY_PER_ITEM" default:"10"`
}

// MaxOrderValueDecimal parses the configured order-value ceiling.
func (c CheckoutConfig) MaxOrderValueDecimal() (decimal.Decimal, error) {
	value, err := decimal.NewFromString(c.MaxOrderValue)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse max order value: %w", err)
	}
	return value, nil
}

type MailerConfig struct {
	APIKey      string        `envconfig:"VERTILIFT_MAILER_API_KEY"`
	BaseURL     string        `envconfig:"VERTILIFT_MAILER_BASE_URL" default:"https://api.resend.com"`
	FromAddress string        `envconfig:"VERTILIFT_MAILER_FROM" default:"quotes@vertilift.example"`
	Timeout     time.Duration `envconfig:"VERTILIFT_MAILER_TIMEOUT" default:"10s"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"VERTILIFT_OUTBOX_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"VERTILIFT_OUTBOX_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"VERTILIFT_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CronConfig struct {
	ExpirySweepInterval time.Duration `envconfig:"VERTILIFT_CRON_EXPIRY_INTERVAL" default:"1h"`
	LockTTL             time.Duration `envconfig:"VERTILIFT_CRON_LOCK_TTL" default:"55m"`
}
