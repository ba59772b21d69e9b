package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "CAFE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "CAFE_DB_DSN"
	EnvDBHost = "CAFE_DB_HOST"
	EnvDBUser = "CAFE_DB_USER"
	EnvDBName = "CAFE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Loyalty       LoyaltyConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string   `envconfig:"CAFE_APP_ENV" required:"true"`
	Port         string   `envconfig:"CAFE_APP_PORT" default:"3000"`
	LogLevel     string   `envconfig:"CAFE_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"CAFE_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"CAFE_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CAFE_DB_DSN"`
	Driver string `envconfig:"CAFE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CAFE_DB_HOST"`
	LegacyPort     int    `envconfig:"CAFE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CAFE_DB_USER"`
	LegacyPassword string `envconfig:"CAFE_DB_PASSWORD"`
	LegacyName     string `envconfig:"CAFE_DB_NAME"`
	LegacySSLMode  string `envconfig:"CAFE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CAFE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CAFE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CAFE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CAFE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CAFE_REDIS_URL"`
	Address      string        `envconfig:"CAFE_REDIS_ADDR"`
	Password     string        `envconfig:"CAFE_REDIS_PASSWORD"`
	DB           int           `envconfig:"CAFE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CAFE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CAFE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CAFE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CAFE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CAFE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CAFE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CAFE_JWT_ISSUER" default:"cafe-backend"`
	ExpirationMinutes int    `envconfig:"CAFE_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CAFE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CAFE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CAFE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CAFE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CAFE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow       time.Duration `envconfig:"CAFE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginNameLimit    int           `envconfig:"CAFE_AUTH_RATE_LIMIT_LOGIN_NAME_LIMIT" default:"5"`
	LoginIPLimit      int           `envconfig:"CAFE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow    time.Duration `envconfig:"CAFE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterNameLimit int           `envconfig:"CAFE_AUTH_RATE_LIMIT_REGISTER_NAME_LIMIT" default:"3"`
	RegisterIPLimit   int           `envconfig:"CAFE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// LoyaltyConfig carries the fallbacks used when the settings table has no
// value for a loyalty key.
type LoyaltyConfig struct {
	DefaultConversionRate    float64 `envconfig:"CAFE_LOYALTY_DEFAULT_CONVERSION_RATE" default:"10"`
	DefaultLowStockThreshold int     `envconfig:"CAFE_LOYALTY_DEFAULT_LOW_STOCK_THRESHOLD" default:"3"`
	ForecastAlpha            float64 `envconfig:"CAFE_FORECAST_ALPHA" default:"0.5"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CAFE_AUTO_MIGRATE" default:"false"`
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
