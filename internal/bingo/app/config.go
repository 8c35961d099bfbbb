package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

type Config struct {
	Env                 string        `yaml:"env"`                   // dev, test, staging, prod (default: dev)
	LogLevel            string        `yaml:"log_level"`             // debug, info, warn, error (default: info)
	LogFormat           string        `yaml:"log_format"`            // json, text (default: json)
	Port                int           `yaml:"port"`                  // HTTP server port (default: 3001)
	BasePath            string        `yaml:"base_path"`             // API route prefix (default: /api)
	ShutdownGracePeriod time.Duration `yaml:"shutdown_grace_period"` // Graceful shutdown timeout (default: 10s)
	CORSOrigins         []string      `yaml:"cors_origins"`          // Allowed origins (default: *)
	UserAdminRoutes     bool          `yaml:"user_admin_routes"`     // Expose unauthenticated user CRUD (default: true)

	StoreDriver  string `yaml:"store_driver"`  // sqlite or mongo (default: sqlite)
	DatabaseFile string `yaml:"database_file"` // SQLite file (default: bingo.db)
	DatabaseURL  string `yaml:"database_url"`  // MongoDB URI (default: mongodb://localhost:27017)
	DatabaseName string `yaml:"database_name"` // MongoDB database (default: billy_bingo)

	JWTSecret      string        `yaml:"jwt_secret"`      // Required outside dev and test
	TokenTTL       time.Duration `yaml:"token_ttl"`       // Bearer token lifetime (default: 168h)
	PasswordPepper string        `yaml:"password_pepper"` // Optional: mixed into every password hash

	SetlistFMAPIKey     string        `yaml:"setlistfm_api_key"`
	SetlistFMBaseURL    string        `yaml:"setlistfm_base_url"`    // default: https://api.setlist.fm/rest/1.0
	SetlistFMArtistMBID string        `yaml:"setlistfm_artist_mbid"` // default: Billy Strings
	SetlistFMLanguage   string        `yaml:"setlistfm_language"`    // default: en
	SetlistFMTimeout    time.Duration `yaml:"setlistfm_timeout"`     // default: 10s
	SetlistPageDelay    time.Duration `yaml:"setlist_page_delay"`    // Spacing between song pages (default: 100ms)
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Env:                 "dev",
		LogLevel:            "info",
		LogFormat:           "json",
		Port:                3001,
		BasePath:            "/api",
		ShutdownGracePeriod: 10 * time.Second,
		CORSOrigins:         []string{"*"},
		UserAdminRoutes:     true,
		StoreDriver:         DriverSQLite,
		DatabaseFile:        "bingo.db",
		DatabaseURL:         "mongodb://localhost:27017",
		DatabaseName:        "billy_bingo",
		TokenTTL:            7 * 24 * time.Hour,
		SetlistFMLanguage:   "en",
		SetlistFMTimeout:    10 * time.Second,
		SetlistPageDelay:    100 * time.Millisecond,
	}
}

// LoadConfig layers the defaults, the YAML file named by CONFIG_FILE (if
// any) and the environment, in that order.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.Env = getEnvOrDefault("ENV", cfg.Env)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.Port = getEnvIntOrDefault("PORT", cfg.Port)
	cfg.BasePath = getEnvOrDefault("BASE_PATH", cfg.BasePath)
	cfg.ShutdownGracePeriod = getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", cfg.ShutdownGracePeriod)
	cfg.CORSOrigins = getEnvListOrDefault("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.UserAdminRoutes = getEnvBoolOrDefault("USER_ADMIN_ROUTES", cfg.UserAdminRoutes)

	cfg.StoreDriver = getEnvOrDefault("STORE_DRIVER", cfg.StoreDriver)
	cfg.DatabaseFile = getEnvOrDefault("DATABASE_FILE", cfg.DatabaseFile)
	cfg.DatabaseURL = getEnvOrDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.DatabaseName = getEnvOrDefault("DATABASE_NAME", cfg.DatabaseName)

	cfg.JWTSecret = getEnvOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.TokenTTL = getEnvDurationOrDefault("TOKEN_TTL", cfg.TokenTTL)
	cfg.PasswordPepper = getEnvOrDefault("PASSWORD_PEPPER", cfg.PasswordPepper)

	cfg.SetlistFMAPIKey = getEnvOrDefault("SETLISTFM_API_KEY", cfg.SetlistFMAPIKey)
	cfg.SetlistFMBaseURL = getEnvOrDefault("SETLISTFM_BASE_URL", cfg.SetlistFMBaseURL)
	cfg.SetlistFMArtistMBID = getEnvOrDefault("SETLISTFM_ARTIST_MBID", cfg.SetlistFMArtistMBID)
	cfg.SetlistFMLanguage = getEnvOrDefault("SETLISTFM_LANGUAGE", cfg.SetlistFMLanguage)
	cfg.SetlistFMTimeout = getEnvDurationOrDefault("SETLISTFM_TIMEOUT", cfg.SetlistFMTimeout)
	cfg.SetlistPageDelay = getEnvDurationOrDefault("SETLIST_PAGE_DELAY", cfg.SetlistPageDelay)

	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case DriverSQLite, DriverMongo:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q (want %s or %s)", c.StoreDriver, DriverSQLite, DriverMongo))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %d", c.Port))
	}
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		errs = append(errs, fmt.Errorf("BASE_PATH %q must start with /", c.BasePath))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.JWTSecret == "" && !c.ephemeralSecretAllowed() {
		errs = append(errs, fmt.Errorf("JWT_SECRET is required when ENV=%s", c.Env))
	}
	return errors.Join(errs...)
}

// ephemeralSecretAllowed reports whether a missing JWT secret may be
// replaced by a random one that only lives as long as the process.
func (c Config) ephemeralSecretAllowed() bool {
	return c.Env == "dev" || c.Env == "test"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}

// getEnvListOrDefault splits a comma separated variable, dropping blanks.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
