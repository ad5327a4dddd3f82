package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName          string
	AppVersion       string
	Environment      string
	HTTPAddr         string
	AuthCookieSecure bool

	LogLevel string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Redis    RedisConfig
	Lockout  LockoutConfig
	SMS      SMSConfig
	Password PasswordConfig

	Bootstrap BootstrapConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LockoutConfig controls the per-email login failure counter.
type LockoutConfig struct {
	Threshold int
	Window    time.Duration
}

type SMSConfig struct {
	Enabled    bool
	GatewayURL string
	SenderID   string
	Timeout    time.Duration
}

// PasswordConfig is the password policy enforced on signup and change.
type PasswordConfig struct {
	MinLength       int
	RequireUpper    bool
	RequireLower    bool
	RequireDigit    bool
	RequireSymbol   bool
	GeneratedLength int
}

type BootstrapConfig struct {
	EnsureDefaultAdmin bool
	AdminEmail         string
	AdminPassword      string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	return Config{
		AppName:          getenv("APP_SERVICE", "mtandao"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      environment,
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		AuthCookieSecure: authCookieSecure,
		LogLevel:         getenv("LOG_LEVEL", "info"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "mtandao"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 600),

		Redis: RedisConfig{
			Addr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
			Password: strings.TrimSpace(getenv("REDIS_PASSWORD", "")),
			DB:       getenvInt("REDIS_DB", 0),
		},
		Lockout: LockoutConfig{
			Threshold: getenvInt("LOGIN_LOCKOUT_THRESHOLD", 5),
			Window:    getenvDuration("LOGIN_LOCKOUT_WINDOW", 15*time.Minute),
		},
		SMS: SMSConfig{
			Enabled:    getenvBool("SMS_ENABLED", false),
			GatewayURL: strings.TrimSpace(getenv("SMS_GATEWAY_URL", "")),
			SenderID:   getenv("SMS_SENDER_ID", "MTANDAO"),
			Timeout:    getenvDuration("SMS_TIMEOUT", 5*time.Second),
		},
		Password: PasswordConfig{
			MinLength:       getenvInt("PASSWORD_MIN_LENGTH", 8),
			RequireUpper:    getenvBool("PASSWORD_REQUIRE_UPPER", true),
			RequireLower:    getenvBool("PASSWORD_REQUIRE_LOWER", true),
			RequireDigit:    getenvBool("PASSWORD_REQUIRE_DIGIT", true),
			RequireSymbol:   getenvBool("PASSWORD_REQUIRE_SYMBOL", false),
			GeneratedLength: getenvInt("PASSWORD_GENERATED_LENGTH", 12),
		},
		Bootstrap: BootstrapConfig{
			EnsureDefaultAdmin: getenvBool("BOOTSTRAP_DEFAULT_ADMIN", true),
			AdminEmail:         getenv("BOOTSTRAP_ADMIN_EMAIL", "admin@mtandao.local"),
			AdminPassword:      getenv("BOOTSTRAP_ADMIN_PASSWORD", "admin"),
		},
	}
}

var Module = fx.Module("config",
	fx.Provide(Load),
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
