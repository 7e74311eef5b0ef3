package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
	Cart         CartConfig
	Tiers        TiersConfig
	Checkout     CheckoutConfig
	Notify       NotifyConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Maintenance  MaintenanceConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"HERBAL_APP_ENV" required:"true"`
	Port         string `envconfig:"HERBAL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"HERBAL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HERBAL_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"HERBAL_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"HERBAL_DB_DSN"`
	Driver string `envconfig:"HERBAL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"HERBAL_DB_HOST"`
	LegacyPort     int    `envconfig:"HERBAL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"HERBAL_DB_USER"`
	LegacyPassword string `envconfig:"HERBAL_DB_PASSWORD"`
	LegacyName     string `envconfig:"HERBAL_DB_NAME"`
	LegacySSLMode  string `envconfig:"HERBAL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HERBAL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HERBAL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HERBAL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HERBAL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HERBAL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"HERBAL_REDIS_ADDR"`
	Password     string        `envconfig:"HERBAL_REDIS_PASSWORD"`
	DB           int           `envconfig:"HERBAL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HERBAL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HERBAL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HERBAL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HERBAL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HERBAL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"HERBAL_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"HERBAL_CORS_ALLOWED_ORIGINS" default:"*"`
}

type CartConfig struct {
	SessionTTL time.Duration `envconfig:"HERBAL_CART_SESSION_TTL" default:"72h"`
}

type TiersConfig struct {
	CacheTTL time.Duration `envconfig:"HERBAL_TIERS_CACHE_TTL" default:"60s"`
}

// CheckoutConfig carries shipping rules and the payment instructions shown
// after an order is placed.
type CheckoutConfig struct {
	ShippingBaht        int           `envconfig:"HERBAL_CHECKOUT_SHIPPING_BAHT" default:"50"`
	FreeShippingMinBaht int           `envconfig:"HERBAL_CHECKOUT_FREE_SHIPPING_MIN_BAHT" default:"0"`
	ReferencePrefix     string        `envconfig:"HERBAL_CHECKOUT_REFERENCE_PREFIX" default:"HS"`
	PromptPayID         string        `envconfig:"HERBAL_CHECKOUT_PROMPTPAY_ID"`
	BankName            string        `envconfig:"HERBAL_CHECKOUT_BANK_NAME"`
	BankAccountName     string        `envconfig:"HERBAL_CHECKOUT_BANK_ACCOUNT_NAME"`
	BankAccountNumber   string        `envconfig:"HERBAL_CHECKOUT_BANK_ACCOUNT_NUMBER"`
	IdempotencyTTL      time.Duration `envconfig:"HERBAL_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
	RateLimitWindow     time.Duration `envconfig:"HERBAL_CHECKOUT_RATE_LIMIT_WINDOW" default:"10m"`
	RateLimitIP         int           `envconfig:"HERBAL_CHECKOUT_RATE_LIMIT_IP" default:"20"`
	RateLimitPhone      int           `envconfig:"HERBAL_CHECKOUT_RATE_LIMIT_PHONE" default:"5"`
}

func (c CheckoutConfig) validate() error {
	if c.ShippingBaht < 0 {
		return fmt.Errorf("%s must not be negative", EnvCheckoutShipping)
	}
	if c.FreeShippingMinBaht < 0 {
		return fmt.Errorf("%s must not be negative", EnvCheckoutFreeShippingMin)
	}
	return nil
}

type NotifyConfig struct {
	WebhookURL string        `envconfig:"HERBAL_NOTIFY_WEBHOOK_URL"`
	Timeout    time.Duration `envconfig:"HERBAL_NOTIFY_TIMEOUT" default:"5s"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"HERBAL_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"HERBAL_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"HERBAL_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic string `envconfig:"HERBAL_PUBSUB_ORDERS_TOPIC" default:"herbal-order-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"HERBAL_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"HERBAL_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"HERBAL_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

// MaintenanceConfig drives the maintenance worker. UnpaidOrderTTL is how long
// a transfer order may wait for payment before it expires.
type MaintenanceConfig struct {
	Interval            time.Duration `envconfig:"HERBAL_MAINTENANCE_INTERVAL" default:"1h"`
	LockTTL             time.Duration `envconfig:"HERBAL_MAINTENANCE_LOCK_TTL" default:"55m"`
	UnpaidOrderTTL      time.Duration `envconfig:"HERBAL_MAINTENANCE_UNPAID_ORDER_TTL" default:"72h"`
	ExpiryBatchSize     int           `envconfig:"HERBAL_MAINTENANCE_EXPIRY_BATCH_SIZE" default:"200"`
	OutboxRetentionDays int           `envconfig:"HERBAL_MAINTENANCE_OUTBOX_RETENTION_DAYS" default:"30"`
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
