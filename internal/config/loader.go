package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration values for the venue scheduler service.
type Config struct {
	HTTPPort        int
	SQLiteDSN       string
	VenuesFile      string
	RefreshInterval time.Duration
	CacheTTL        time.Duration
	CacheMaxEntries int
	MaxCalendarDays int
	ShutdownTimeout time.Duration
	LogLevel        string
	LogFormat       string
	// IgnoredStatuses are booking statuses that never occupy a venue.
	IgnoredStatuses []string
}

const envPrefix = "VENUE_SCHEDULER_"

// Load parses configuration values from the current process environment.
//
// The loader applies defaults for optional fields and reports every invalid
// variable at once.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:        8080,
		SQLiteDSN:       "venues.db",
		RefreshInterval: time.Minute,
		CacheTTL:        30 * time.Second,
		CacheMaxEntries: 256,
		MaxCalendarDays: 366,
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
		LogFormat:       "json",
		IgnoredStatuses: []string{"cancelled", "lost"},
	}

	invalid := make([]string, 0, 2)

	parsePositiveInt(envPrefix+"HTTP_PORT", &cfg.HTTPPort, &invalid)
	parsePositiveInt(envPrefix+"CACHE_MAX_ENTRIES", &cfg.CacheMaxEntries, &invalid)
	parsePositiveInt(envPrefix+"MAX_CALENDAR_DAYS", &cfg.MaxCalendarDays, &invalid)
	parsePositiveDuration(envPrefix+"REFRESH_INTERVAL", &cfg.RefreshInterval, &invalid)
	parsePositiveDuration(envPrefix+"CACHE_TTL", &cfg.CacheTTL, &invalid)
	parsePositiveDuration(envPrefix+"SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout, &invalid)

	if dsn := lookup("SQLITE_DSN"); dsn != "" {
		cfg.SQLiteDSN = dsn
	}
	if path := lookup("VENUES_FILE"); path != "" {
		cfg.VenuesFile = path
	}

	if level := strings.ToLower(lookup("LOG_LEVEL")); level != "" {
		switch level {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = level
		default:
			invalid = append(invalid, envPrefix+"LOG_LEVEL")
		}
	}
	if format := strings.ToLower(lookup("LOG_FORMAT")); format != "" {
		switch format {
		case "json", "text":
			cfg.LogFormat = format
		default:
			invalid = append(invalid, envPrefix+"LOG_FORMAT")
		}
	}

	if value, ok := os.LookupEnv(envPrefix + "IGNORED_STATUSES"); ok {
		cfg.IgnoredStatuses = splitList(value)
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// LoadDotEnv populates the environment from a .env file. A missing file is
// not an error; variables already set win.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}

func lookup(key string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + key))
}

func parsePositiveInt(key string, dst *int, invalid *[]string) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		*invalid = append(*invalid, key)
		return
	}
	*dst = n
}

func parsePositiveDuration(key string, dst *time.Duration, invalid *[]string) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		*invalid = append(*invalid, key)
		return
	}
	*dst = d
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
