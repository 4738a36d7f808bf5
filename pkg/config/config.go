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
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Delivery      DeliveryConfig
	Checkout      CheckoutConfig
	Support       SupportConfig
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
	Env          string `envconfig:"BANGLAHAT_APP_ENV" required:"true"`
	Port         string `envconfig:"BANGLAHAT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BANGLAHAT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BANGLAHAT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BANGLAHAT_DB_DSN"`
	Driver string `envconfig:"BANGLAHAT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BANGLAHAT_DB_HOST"`
	LegacyPort     int    `envconfig:"BANGLAHAT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BANGLAHAT_DB_USER"`
	LegacyPassword string `envconfig:"BANGLAHAT_DB_PASSWORD"`
	LegacyName     string `envconfig:"BANGLAHAT_DB_NAME"`
	LegacySSLMode  string `envconfig:"BANGLAHAT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BANGLAHAT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BANGLAHAT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BANGLAHAT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BANGLAHAT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BANGLAHAT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BANGLAHAT_REDIS_ADDR"`
	Password     string        `envconfig:"BANGLAHAT_REDIS_PASSWORD"`
	DB           int           `envconfig:"BANGLAHAT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BANGLAHAT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BANGLAHAT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BANGLAHAT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BANGLAHAT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BANGLAHAT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BANGLAHAT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BANGLAHAT_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BANGLAHAT_JWT_EXPIRATION_MINUTES" default:"720"`
}

// AccessTokenTTL returns the access token TTL configured in minutes.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BANGLAHAT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BANGLAHAT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BANGLAHAT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BANGLAHAT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BANGLAHAT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"BANGLAHAT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"BANGLAHAT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"BANGLAHAT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BANGLAHAT_AUTO_MIGRATE" default:"false"`
}

// DeliveryConfig drives the district fee table. Amounts are taka.
type DeliveryConfig struct {
	InsideDhakaFee        int `envconfig:"BANGLAHAT_DELIVERY_INSIDE_DHAKA_FEE" default:"80"`
	OutsideDhakaFee       int `envconfig:"BANGLAHAT_DELIVERY_OUTSIDE_DHAKA_FEE" default:"120"`
	FreeDeliveryThreshold int `envconfig:"BANGLAHAT_DELIVERY_FREE_THRESHOLD" default:"2000"`
	FreeDeliveryEnabled   bool `envconfig:"BANGLAHAT_DELIVERY_FREE_ENABLED" default:"false"`
}

type CheckoutConfig struct {
	SessionTTL    time.Duration `envconfig:"BANGLAHAT_CHECKOUT_SESSION_TTL" default:"2h"`
	SubmitTimeout time.Duration `envconfig:"BANGLAHAT_CHECKOUT_SUBMIT_TIMEOUT" default:"20s"`
	CartTTL       time.Duration `envconfig:"BANGLAHAT_CART_TTL" default:"72h"`
}

type SupportConfig struct {
	WhatsAppNumber   string `envconfig:"BANGLAHAT_SUPPORT_WHATSAPP_NUMBER" default:"+8801712345678"`
	WhatsAppTemplate string `envconfig:"BANGLAHAT_SUPPORT_WHATSAPP_TEMPLATE" default:"আসসালামু আলাইকুম, আমি আমার অর্ডার সম্পর্কে জানতে চাই। ট্র্যাকিং আইডি: %s"`
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
