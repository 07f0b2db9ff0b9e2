package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Gumroad       GumroadConfig
	Quota         QuotaConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Artwork       ArtworkConfig
	PubSub        PubSubConfig
	Cron          CronConfig
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
	Env          string `envconfig:"RELEASEBOARD_APP_ENV" required:"true"`
	Port         string `envconfig:"RELEASEBOARD_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RELEASEBOARD_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RELEASEBOARD_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"RELEASEBOARD_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"RELEASEBOARD_DB_DSN"`
	Driver string `envconfig:"RELEASEBOARD_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RELEASEBOARD_DB_HOST"`
	LegacyPort     int    `envconfig:"RELEASEBOARD_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RELEASEBOARD_DB_USER"`
	LegacyPassword string `envconfig:"RELEASEBOARD_DB_PASSWORD"`
	LegacyName     string `envconfig:"RELEASEBOARD_DB_NAME"`
	LegacySSLMode  string `envconfig:"RELEASEBOARD_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RELEASEBOARD_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RELEASEBOARD_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RELEASEBOARD_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RELEASEBOARD_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RELEASEBOARD_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RELEASEBOARD_REDIS_ADDR"`
	Password     string        `envconfig:"RELEASEBOARD_REDIS_PASSWORD"`
	DB           int           `envconfig:"RELEASEBOARD_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RELEASEBOARD_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RELEASEBOARD_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RELEASEBOARD_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RELEASEBOARD_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RELEASEBOARD_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"RELEASEBOARD_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"RELEASEBOARD_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"RELEASEBOARD_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"RELEASEBOARD_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the redis session lifetime configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"RELEASEBOARD_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"RELEASEBOARD_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"RELEASEBOARD_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"RELEASEBOARD_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"RELEASEBOARD_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"RELEASEBOARD_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"RELEASEBOARD_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"RELEASEBOARD_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"RELEASEBOARD_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"RELEASEBOARD_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"RELEASEBOARD_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RELEASEBOARD_AUTO_MIGRATE" default:"false"`
}

// GumroadConfig points license verification at the Gumroad-compatible endpoint.
type GumroadConfig struct {
	VerifyURL string        `envconfig:"RELEASEBOARD_GUMROAD_VERIFY_URL" default:"https://api.gumroad.com/v2/licenses/verify"`
	ProductID string        `envconfig:"RELEASEBOARD_GUMROAD_PRODUCT_ID" default:"hndlyt"`
	Timeout   time.Duration `envconfig:"RELEASEBOARD_GUMROAD_TIMEOUT" default:"10s"`
}

// QuotaConfig holds the per-tier submit-time limits.
type QuotaConfig struct {
	BasicMonthlyReleases int `envconfig:"RELEASEBOARD_QUOTA_BASIC_MONTHLY_RELEASES" default:"5"`
	BasicArtists         int `envconfig:"RELEASEBOARD_QUOTA_BASIC_ARTISTS" default:"2"`
	ProArtists           int `envconfig:"RELEASEBOARD_QUOTA_PRO_ARTISTS" default:"5"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"RELEASEBOARD_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"RELEASEBOARD_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"RELEASEBOARD_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"RELEASEBOARD_GCS_BUCKET_NAME" required:"true"`
	UploadURLExpiry   time.Duration `envconfig:"RELEASEBOARD_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry time.Duration `envconfig:"RELEASEBOARD_GCS_DOWNLOAD_URL_EXPIRY" default:"24h"`
}

type ArtworkConfig struct {
	MaxUploadMB int `envconfig:"RELEASEBOARD_ARTWORK_MAX_UPLOAD_MB" default:"5"`
}

type PubSubConfig struct {
	AnalyticsTopic        string `envconfig:"RELEASEBOARD_PUBSUB_ANALYTICS_TOPIC" required:"true"`
	AnalyticsSubscription string `envconfig:"RELEASEBOARD_PUBSUB_ANALYTICS_SUBSCRIPTION" required:"true"`

	IdempotencyTTL time.Duration `envconfig:"RELEASEBOARD_PUBSUB_IDEMPOTENCY_TTL" default:"24h"`
}

type CronConfig struct {
	SubscriptionExpiryInterval time.Duration `envconfig:"RELEASEBOARD_CRON_SUBSCRIPTION_EXPIRY_INTERVAL" default:"1h"`
	LockTTL                    time.Duration `envconfig:"RELEASEBOARD_CRON_LOCK_TTL" default:"5m"`
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
