package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/veloroute/internal/api"
	"github.com/UnknownOlympus/veloroute/internal/cache"
	"github.com/UnknownOlympus/veloroute/internal/config"
	"github.com/UnknownOlympus/veloroute/internal/geocoding"
	"github.com/UnknownOlympus/veloroute/internal/metrics"
	"github.com/UnknownOlympus/veloroute/internal/models"
	"github.com/UnknownOlympus/veloroute/internal/repository"
	"github.com/UnknownOlympus/veloroute/internal/service"
	"github.com/UnknownOlympus/veloroute/internal/store"
	"github.com/UnknownOlympus/veloroute/internal/textgen"
	"github.com/UnknownOlympus/veloroute/internal/viewport"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

const (
	readTimeout     = 5 * time.Second
	writeTimeout    = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env, logOutput(cfg.LogFile))

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Initialize the database connection.
	dtb, err := repository.NewDatabase(
		ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
	)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer dtb.Close()

	repo := repository.NewRepository(dtb, logger)
	if err = repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to prepare DB schema: %v", err)
	}

	geoProvider, err := setupGeocoder(ctx, cfg, logger, appMetrics)
	if err != nil {
		log.Fatalf("Failed to create geocoding provider: %v", err)
	}
	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.ProviderType)

	generator := setupGenerator(ctx, cfg, logger)

	poiStore := store.NewPoiStore(repo, logger, appMetrics)
	routeStore := store.NewRouteStore(repo, logger, appMetrics)

	// Both stores are loaded once at startup, concurrently.
	loadGroup, loadCtx := errgroup.WithContext(ctx)
	loadGroup.Go(func() error { return poiStore.Load(loadCtx) })
	loadGroup.Go(func() error { return routeStore.Load(loadCtx) })
	if err = loadGroup.Wait(); err != nil {
		log.Fatalf("Failed to load initial data: %v", err)
	}

	handlers := &api.Handlers{
		Pois:      poiStore,
		Route:     routeStore,
		Path:      models.DefaultRoutePath(),
		Geocoder:  service.NewGeocodeSession(service.NewAddressResolver(logger, geoProvider, cfg.ProviderType, appMetrics)),
		Enricher:  service.NewDescriptionEnricher(generator, poiStore, logger, appMetrics),
		Selection: service.NewSelection(),
		Viewport:  viewport.New(viewport.DefaultPadding),
		Log:       logger,
	}

	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      api.NewRouter(handlers, logger),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	monitoringServer := newMonitoringServer(ctx, logger, reg, dtb, cfg.HealthPort)

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.", "port", cfg.HTTPPort)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return serve(apiServer) })
	group.Go(func() error { return serve(monitoringServer) })
	group.Go(func() error {
		// Wait for the context to be canceled (e.g., by Ctrl+C).
		<-groupCtx.Done()
		logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(apiServer.Shutdown(shutdownCtx), monitoringServer.Shutdown(shutdownCtx))
	})

	if err = group.Wait(); err != nil {
		logger.ErrorContext(ctx, "Application stopped with error", "error", err)
		return
	}

	// Log graceful shutdown completion.
	logger.InfoContext(ctx, "Application stopped gracefully.")
}

func serve(server *http.Server) error {
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server on %s failed: %w", server.Addr, err)
	}
	return nil
}

// setupGeocoder creates the configured provider, wrapped in the Redis cache when one is configured.
func setupGeocoder(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	appMetrics *metrics.Metrics,
) (geocoding.Provider, error) {
	provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.ProviderType),
		APIKey:    cfg.APIKey,
		RateLimit: cfg.RateLimit,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Redis.Addr == "" {
		return provider, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err = rdb.Ping(ctx).Err(); err != nil {
		logger.WarnContext(ctx, "Redis unreachable at startup, cache will retry per request", "error", err)
	}
	logger.InfoContext(ctx, "Geocode cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)

	return cache.NewGeocodeCache(provider, rdb, cfg.Redis.TTL, logger, appMetrics), nil
}

// setupGenerator returns the Gemini generator, or the offline one when no key is configured.
func setupGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) textgen.Generator {
	if cfg.Gemini.APIKey == "" {
		logger.WarnContext(ctx, "Gemini API key not set, descriptions will not be generated")
		return textgen.Offline{}
	}

	generator, err := textgen.NewGeminiGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create Gemini generator, descriptions disabled", "error", err)
		return textgen.Offline{}
	}

	return generator
}

// newMonitoringServer builds an HTTP server that provides health check and metrics endpoints.
//
// Parameters:
// - ctx: A context.Context for managing cancellation and timeouts.
// - log: A logger for logging server events and errors.
// - reg: A registry with Prometheus collectors.
// - dtb: A pgxpool connector for database methods (ping)
// - port: The port number on which the server will listen.
func newMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	dtb *pgxpool.Pool,
	port int,
) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, req *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if err := dtb.Ping(req.Context()); err != nil {
			status, body = http.StatusServiceUnavailable, "DB ping failed"
		}
		writer.WriteHeader(status)
		_, err := writer.Write([]byte(body))
		if err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  readTimeout,
		WriteTimeout: readTimeout * 2,
	}
}

// logOutput returns stdout, or stdout plus a rotated log file when path is set.
func logOutput(path string) io.Writer {
	if path == "" {
		return os.Stdout
	}

	return io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 7,
		MaxAge:     7, // days
		Compress:   true,
	})
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string, out io.Writer) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(out, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{
				Level: slog.LevelWarn,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{
				Level: slog.LevelError,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
