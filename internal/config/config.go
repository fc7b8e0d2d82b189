package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/casperid/humanid/internal/humanid"
)

const (
	defaultAppName        = "humanid"
	defaultAppEnv         = "development"
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultLogFormat      = "json"
	defaultShutdownDelay  = 10 * time.Second
	defaultIdempotencyTTL = 24 * time.Hour
	defaultCacheTTL       = 6 * time.Hour
	defaultMaxSegments    = 8
	defaultLookupRate     = 120
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	LogFormat      string
	DatabaseURL    string
	RedisURL       string
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
	CacheTTL       time.Duration
	AdminKeyHash   string
	LookupRate     int

	HumanID HumanIDConfig
}

// HumanIDConfig selects derivation constants and the collision policy.
type HumanIDConfig struct {
	Segments        int
	WordLength      int
	ShortIDLength   int
	SeedMode        humanid.SeedMode
	WordMode        humanid.WordMode
	MaxSegments     int
	CollisionPolicy string
	ScanFallback    bool
	PoolFile        string
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:      getEnv("APP_NAME", defaultAppName),
		AppEnv:       getEnv("APP_ENV", defaultAppEnv),
		Port:         getEnv("PORT", defaultPort),
		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		LogFormat:    strings.ToLower(getEnv("LOG_FORMAT", defaultLogFormat)),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		AdminKeyHash: os.Getenv("ADMIN_KEY_HASH"),
		HumanID: HumanIDConfig{
			CollisionPolicy: strings.ToLower(getEnv("HUMANID_COLLISION_POLICY", "extend")),
			PoolFile:        os.Getenv("HUMANID_POOL_FILE"),
		},
	}

	var err error
	if cfg.ShutdownPeriod, err = durationEnv("SHUTDOWN_TIMEOUT", defaultShutdownDelay); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", defaultIdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = durationEnv("CACHE_TTL", defaultCacheTTL); err != nil {
		return Config{}, err
	}

	ints := []struct {
		key string
		dst *int
		def int
	}{
		{"LOOKUP_RATE_PER_MINUTE", &cfg.LookupRate, defaultLookupRate},
		{"HUMANID_SEGMENTS", &cfg.HumanID.Segments, humanid.DefaultSegments},
		{"HUMANID_WORD_LENGTH", &cfg.HumanID.WordLength, humanid.DefaultWordLength},
		{"HUMANID_SHORT_ID_LENGTH", &cfg.HumanID.ShortIDLength, humanid.DefaultShortIDLength},
		{"HUMANID_MAX_SEGMENTS", &cfg.HumanID.MaxSegments, defaultMaxSegments},
	}
	for _, v := range ints {
		if *v.dst, err = intEnv(v.key, v.def); err != nil {
			return Config{}, err
		}
	}

	if v := os.Getenv("HUMANID_SCAN_FALLBACK"); v != "" {
		if cfg.HumanID.ScanFallback, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("invalid HUMANID_SCAN_FALLBACK: %w", err)
		}
	}

	switch mode := strings.ToLower(getEnv("HUMANID_SEED_MODE", "unsigned")); mode {
	case "unsigned":
		cfg.HumanID.SeedMode = humanid.SeedUnsigned
	case "legacy":
		cfg.HumanID.SeedMode = humanid.SeedLegacySigned
	default:
		return Config{}, fmt.Errorf("invalid HUMANID_SEED_MODE %q", mode)
	}

	switch mode := strings.ToLower(getEnv("HUMANID_WORD_MODE", "flat")); mode {
	case "flat":
		cfg.HumanID.WordMode = humanid.FlatWords
	case "markov":
		cfg.HumanID.WordMode = humanid.MarkovWords
	default:
		return Config{}, fmt.Errorf("invalid HUMANID_WORD_MODE %q", mode)
	}

	switch cfg.HumanID.CollisionPolicy {
	case "extend", "reject":
	default:
		return Config{}, fmt.Errorf("invalid HUMANID_COLLISION_POLICY %q", cfg.HumanID.CollisionPolicy)
	}

	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.AdminKeyHash == "" {
			return Config{}, fmt.Errorf("ADMIN_KEY_HASH must be set when APP_ENV=%s", cfg.AppEnv)
		}
	}

	return cfg, nil
}

// IsDev reports whether the service may run without Postgres and Redis.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// durationEnv reads KEY_SECONDS as whole seconds, else KEY as a Go duration.
func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(key + "_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s_SECONDS: %w", key, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return d, nil
	}
	return fallback, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return n, nil
}
