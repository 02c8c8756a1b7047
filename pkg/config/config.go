package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/angelmondragon/accounts-service/pkg/env"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	Store         StoreConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Profile       ProfileConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.App.applyPortFallback()
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	if err := cfg.JWT.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ACCOUNTS_APP_ENV" default:"dev"`
	Port         string `envconfig:"ACCOUNTS_APP_PORT"`
	LogLevel     string `envconfig:"ACCOUNTS_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"ACCOUNTS_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"ACCOUNTS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

func (a *AppConfig) applyPortFallback() {
	if strings.TrimSpace(a.Port) != "" {
		return
	}
	if port := env.Get(EnvLegacyPort, ""); port != "" {
		a.Port = port
		return
	}
	a.Port = DefaultPort
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `envconfig:"ACCOUNTS_HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"ACCOUNTS_HTTP_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `envconfig:"ACCOUNTS_HTTP_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"ACCOUNTS_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	AllowedOrigins  []string      `envconfig:"ACCOUNTS_CORS_ALLOWED_ORIGINS" default:"*"`
}

// StoreConfig selects the user store. Mongo is the default; the SQL drivers
// share the DSN and pool settings.
type StoreConfig struct {
	Driver string `envconfig:"ACCOUNTS_STORE_DRIVER" default:"mongo"`

	MongoURI      string        `envconfig:"ACCOUNTS_MONGO_URI"`
	MongoDatabase string        `envconfig:"ACCOUNTS_MONGO_DATABASE" default:"accounts"`
	MongoTimeout  time.Duration `envconfig:"ACCOUNTS_MONGO_TIMEOUT" default:"10s"`

	DSN             string        `envconfig:"ACCOUNTS_DB_DSN"`
	MaxOpenConns    int           `envconfig:"ACCOUNTS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ACCOUNTS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ACCOUNTS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ACCOUNTS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	AutoMigrate     bool          `envconfig:"ACCOUNTS_AUTO_MIGRATE" default:"false"`
}

func (s *StoreConfig) validate() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	if s.Driver == "" {
		s.Driver = StoreDriverMongo
	}
	switch s.Driver {
	case StoreDriverMongo:
		if s.MongoURI == "" {
			if legacy := env.Get(EnvLegacyMongoURL, ""); legacy != "" {
				s.MongoURI = legacy
			}
		}
		if s.MongoURI == "" {
			return fmt.Errorf("%s is required for the %s store", EnvMongoURI, StoreDriverMongo)
		}
		if _, err := url.Parse(s.MongoURI); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMongoURI, err)
		}
	case StoreDriverPostgres, StoreDriverSQLite:
		if s.DSN == "" {
			return fmt.Errorf("%s is required for the %s store", EnvDBDSN, s.Driver)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvStoreDriver, s.Driver)
	}
	return nil
}

// RedisConfig is optional; an empty URL disables auth rate limiting.
type RedisConfig struct {
	URL          string        `envconfig:"ACCOUNTS_REDIS_URL"`
	PoolSize     int           `envconfig:"ACCOUNTS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ACCOUNTS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ACCOUNTS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ACCOUNTS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ACCOUNTS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"ACCOUNTS_JWT_SECRET"`
	Issuer            string `envconfig:"ACCOUNTS_JWT_ISSUER" default:"accounts-service"`
	ExpirationMinutes int    `envconfig:"ACCOUNTS_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

func (j *JWTConfig) validate() error {
	if j.Secret == "" {
		j.Secret = env.Get(EnvLegacyJWTSecret, "")
	}
	if j.Secret == "" {
		return fmt.Errorf("%s is required", EnvJWTSecret)
	}
	if j.ExpirationMinutes <= 0 {
		return fmt.Errorf("%s must be positive", EnvJWTExpMins)
	}
	return nil
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ACCOUNTS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ACCOUNTS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ACCOUNTS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ACCOUNTS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ACCOUNTS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"ACCOUNTS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"ACCOUNTS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"ACCOUNTS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"ACCOUNTS_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"ACCOUNTS_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"ACCOUNTS_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`

	// TrustProxyHeaders keys the IP limit on X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool `envconfig:"ACCOUNTS_AUTH_RATE_LIMIT_TRUST_PROXY_HEADERS" default:"false"`
}

type ProfileConfig struct {
	// SelfOnly restricts GET /users/{id} to the caller's own record.
	SelfOnly bool `envconfig:"ACCOUNTS_PROFILE_SELF_ONLY" default:"false"`
}
