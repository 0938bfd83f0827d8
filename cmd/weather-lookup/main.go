package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-lookup/internal/api/http"
	"github.com/i474232898/weather-lookup/internal/config"
	"github.com/i474232898/weather-lookup/internal/location"
	"github.com/i474232898/weather-lookup/internal/lookup"
	"github.com/i474232898/weather-lookup/internal/scheduler"
	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger := setupLogger(cfg)
	slog.SetDefault(appLogger)

	// Shared HTTP client for outbound Open-Meteo calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	client := providers.NewOpenMeteoClient(httpClient, providers.OpenMeteoConfig{
		ForecastURL:  cfg.ForecastURL,
		GeocodingURL: cfg.GeocodingURL,
	})

	kv, closeKV, err := openKeyValue(cfg, appLogger)
	if err != nil {
		appLogger.Error("failed to open history backend", "backend", cfg.HistoryBackend, "error", err)
		os.Exit(1)
	}
	defer closeKV()
	history := store.NewHistoryStore(kv, appLogger)

	sensor := location.NewStaticSensor(cfg.Location)
	opts := []lookup.Option{lookup.WithLogger(appLogger), lookup.WithDebounce(cfg.SearchDebounce)}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	services := httpapi.Services{
		Current: lookup.NewCurrentLocation(location.NewSource(sensor), client, opts...),
		Search:  lookup.NewSearch(client, history, opts...),
		History: lookup.NewHistory(startupCtx, client, history, opts...),
	}
	cancelStartup()
	defer services.Search.Close()

	// Periodic refresh of the current-location weather.
	sched := scheduler.New(services.Current, cfg.RefreshInterval, cfg.HTTPTimeout*2, appLogger)
	if err := sched.Start(); err != nil {
		appLogger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-lookup",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, services)

	go func() {
		appLogger.Info("http server listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			appLogger.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("error during shutdown", "error", err)
	} else {
		appLogger.Info("server stopped")
	}
}

func setupLogger(cfg *config.AppConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// openKeyValue opens the configured history backend. The returned func
// releases it.
func openKeyValue(cfg *config.AppConfig, logger *slog.Logger) (store.KeyValue, func(), error) {
	switch cfg.HistoryBackend {
	case config.BackendRedis:
		rs, err := store.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
		if err != nil {
			return nil, nil, err
		}
		return rs, closer(rs, logger), nil
	case config.BackendPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		ps, err := store.NewPostgresStore(ctx, cfg.DatabaseDSN, logger)
		if err != nil {
			return nil, nil, err
		}
		return ps, closer(ps, logger), nil
	default:
		return store.NewMemoryStore(), func() {}, nil
	}
}

func closer(c io.Closer, logger *slog.Logger) func() {
	return func() {
		if err := c.Close(); err != nil {
			logger.Warn("failed to close history backend", "error", err)
		}
	}
}
