package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Database  DatabaseConfig
	HTTP      HTTPConfig
	GRPC      GRPCConfig
	Auth      AuthConfig
	Redis     RedisConfig
	Vacations VacationConfig
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Driver string // "sqlite3" or "mysql"
	DSN    string // SQLite file path or MySQL DSN (without parseTime)
}

// HTTPConfig contains JSON API settings.
type HTTPConfig struct {
	Address        string   // listen address (e.g., ":8080")
	AllowedOrigins []string // CORS + CSRF origin allowlist; empty disables both checks
	Mode           string   // gin mode: debug, release, test
}

// GRPCConfig contains gRPC server settings.
type GRPCConfig struct {
	Address string // gRPC server listen address (e.g., ":50051"); empty disables the server
}

// AuthConfig contains session settings.
type AuthConfig struct {
	JWTSecret  string // session token signing secret
	SessionTTL time.Duration
	Cookie     CookieConfig
}

// CookieConfig controls the session cookie attributes.
type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

// RedisConfig contains the session store connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// VacationConfig toggles lifecycle behaviour.
type VacationConfig struct {
	// StrictTransitions only allows approve/decline from pending.
	StrictTransitions bool
}

// Load loads configuration from environment variables (and a .env file when present)
// with sensible defaults. JWT_SECRET is required.
func Load() (*Config, error) {
	cfg, err := load("")
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but uses a safe default for JWT_SECRET in development.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	return load("dev-secret-change-me")
}

func load(defaultSecret string) (*Config, error) {
	// A missing .env file is fine; real environment variables take precedence.
	_ = godotenv.Load()

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	ttl, err := getEnvDuration("SESSION_TTL", 8*time.Hour)
	if err != nil {
		return nil, err
	}
	secure, err := getEnvBool("COOKIE_SECURE", false)
	if err != nil {
		return nil, err
	}
	strict, err := getEnvBool("VACATION_STRICT_TRANSITIONS", false)
	if err != nil {
		return nil, err
	}
	sameSite, err := parseSameSite(getEnv("COOKIE_SAMESITE", "lax"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "sqlite3"),
			DSN:    getEnv("DB_DSN", "vacations.db"),
		},
		HTTP: HTTPConfig{
			Address:        getEnv("HTTP_ADDRESS", ":8080"),
			AllowedOrigins: getEnvList("ALLOWED_ORIGINS"),
			Mode:           getEnv("GIN_MODE", "release"),
		},
		GRPC: GRPCConfig{
			Address: getEnv("GRPC_ADDRESS", ":50051"),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", defaultSecret),
			SessionTTL: ttl,
			Cookie: CookieConfig{
				Name:     getEnv("COOKIE_NAME", "hr_session"),
				Path:     "/",
				Domain:   getEnv("COOKIE_DOMAIN", ""),
				Secure:   secure,
				SameSite: sameSite,
			},
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Vacations: VacationConfig{
			StrictTransitions: strict,
		},
	}, nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	if value, exists := os.LookupEnv(key); exists {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid boolean for %s: %w", key, err)
		}
		return b, nil
	}
	return defaultVal, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	}
	return defaultVal, nil
}

// getEnvList splits a comma-separated variable, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseSameSite(v string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "lax", "":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("invalid COOKIE_SAMESITE %q", v)
	}
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s, HTTP: %s, gRPC: %s, Redis: %s, StrictTransitions: %t, Auth: *** (masked) ***}",
		c.Database.Driver, c.HTTP.Address, c.GRPC.Address, c.Redis.Addr, c.Vacations.StrictTransitions)
}
