package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-lookup/internal/weather"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type AppConfig struct {
	Port        string
	HTTPTimeout time.Duration
	LogLevel    slog.Level
	Env         string

	ForecastURL  string
	GeocodingURL string

	SearchDebounce time.Duration

	// HistoryBackend selects the key-value store behind the search history.
	HistoryBackend string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	DatabaseDSN    string

	// Location is what the static sensor reports. Nil means no fix is
	// available and the sensor reports permission denied.
	Location *weather.Coordinates

	// RefreshInterval controls periodic current-location refresh (0 = disabled).
	RefreshInterval time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found or error loading it", "error", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.Env = getenvDefault("ENV", "development")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getenvDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	cfg.ForecastURL = getenvDefault("WEATHER_FORECAST_URL", "https://api.open-meteo.com/v1/forecast")
	cfg.GeocodingURL = getenvDefault("WEATHER_GEOCODING_URL", "https://geocoding-api.open-meteo.com/v1/search")

	if cfg.SearchDebounce, err = getenvDuration("SEARCH_DEBOUNCE", "500ms"); err != nil {
		return nil, err
	}

	cfg.HistoryBackend = strings.ToLower(getenvDefault("HISTORY_BACKEND", BackendMemory))
	switch cfg.HistoryBackend {
	case BackendMemory, BackendRedis, BackendPostgres:
	default:
		return nil, fmt.Errorf("invalid HISTORY_BACKEND %q: want memory, redis or postgres", cfg.HistoryBackend)
	}
	cfg.RedisAddr = getenvDefault("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if cfg.RedisDB, err = getenvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	cfg.DatabaseDSN = os.Getenv("DB_DSN")
	if cfg.HistoryBackend == BackendPostgres && cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required for the postgres history backend")
	}

	if cfg.Location, err = loadLocation(); err != nil {
		return nil, err
	}

	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "0"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether logs should be emitted as JSON.
func (c *AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func loadLocation() (*weather.Coordinates, error) {
	latStr := os.Getenv("LOCATION_LAT")
	lonStr := os.Getenv("LOCATION_LON")
	if latStr == "" && lonStr == "" {
		return nil, nil
	}
	if latStr == "" || lonStr == "" {
		return nil, fmt.Errorf("LOCATION_LAT and LOCATION_LON must be set together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LOCATION_LAT: %w", err)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LOCATION_LON: %w", err)
	}
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("LOCATION_LAT %v out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return nil, fmt.Errorf("LOCATION_LON %v out of range [-180, 180]", lon)
	}

	return &weather.Coordinates{Latitude: lat, Longitude: lon}, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
