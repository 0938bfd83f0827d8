package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "HTTP_TIMEOUT", "LOG_LEVEL", "ENV", "SEARCH_DEBOUNCE", "HISTORY_BACKEND",
		"REDIS_ADDR", "REDIS_DB", "DB_DSN", "LOCATION_LAT", "LOCATION_LON", "REFRESH_INTERVAL",
		"WEATHER_FORECAST_URL", "WEATHER_GEOCODING_URL"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %v", cfg.HTTPTimeout)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info level, got %v", cfg.LogLevel)
	}
	if cfg.SearchDebounce != 500*time.Millisecond {
		t.Errorf("expected 500ms debounce, got %v", cfg.SearchDebounce)
	}
	if cfg.HistoryBackend != BackendMemory {
		t.Errorf("expected memory backend, got %s", cfg.HistoryBackend)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("unexpected redis addr %s", cfg.RedisAddr)
	}
	if cfg.Location != nil {
		t.Errorf("expected no static location, got %+v", cfg.Location)
	}
	if cfg.RefreshInterval != 0 {
		t.Errorf("expected refresh disabled, got %v", cfg.RefreshInterval)
	}
	if cfg.ForecastURL != "https://api.open-meteo.com/v1/forecast" {
		t.Errorf("unexpected forecast url %s", cfg.ForecastURL)
	}
	if cfg.IsProduction() {
		t.Error("expected development environment by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ENV", "production")
	t.Setenv("SEARCH_DEBOUNCE", "250ms")
	t.Setenv("HISTORY_BACKEND", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("LOCATION_LAT", "51.5074")
	t.Setenv("LOCATION_LON", "-0.1278")
	t.Setenv("REFRESH_INTERVAL", "15m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9000" || cfg.LogLevel != slog.LevelDebug || !cfg.IsProduction() {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.SearchDebounce != 250*time.Millisecond {
		t.Errorf("expected 250ms debounce, got %v", cfg.SearchDebounce)
	}
	if cfg.HistoryBackend != BackendRedis || cfg.RedisDB != 3 {
		t.Errorf("unexpected redis settings: %s db=%d", cfg.HistoryBackend, cfg.RedisDB)
	}
	if cfg.Location == nil || cfg.Location.Latitude != 51.5074 || cfg.Location.Longitude != -0.1278 {
		t.Errorf("unexpected location %+v", cfg.Location)
	}
	if cfg.RefreshInterval != 15*time.Minute {
		t.Errorf("expected 15m refresh, got %v", cfg.RefreshInterval)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad timeout", map[string]string{"HTTP_TIMEOUT": "soon"}},
		{"bad debounce", map[string]string{"SEARCH_DEBOUNCE": "fast"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
		{"unknown backend", map[string]string{"HISTORY_BACKEND": "sqlite"}},
		{"postgres without dsn", map[string]string{"HISTORY_BACKEND": "postgres", "DB_DSN": ""}},
		{"bad redis db", map[string]string{"REDIS_DB": "zero"}},
		{"latitude out of range", map[string]string{"LOCATION_LAT": "91", "LOCATION_LON": "0"}},
		{"longitude out of range", map[string]string{"LOCATION_LAT": "0", "LOCATION_LON": "-181"}},
		{"latitude only", map[string]string{"LOCATION_LAT": "10", "LOCATION_LON": ""}},
		{"non-numeric longitude", map[string]string{"LOCATION_LAT": "10", "LOCATION_LON": "east"}},
		{"bad refresh interval", map[string]string{"REFRESH_INTERVAL": "hourly"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
