package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/njprem/NoirBrew_Web/internal/config"
	"github.com/njprem/NoirBrew_Web/internal/domain"
	"github.com/njprem/NoirBrew_Web/internal/logging"
	"github.com/njprem/NoirBrew_Web/internal/mapview"
	"github.com/njprem/NoirBrew_Web/internal/render"
	"github.com/njprem/NoirBrew_Web/internal/repository/memory"
	"github.com/njprem/NoirBrew_Web/internal/repository/minio"
	"github.com/njprem/NoirBrew_Web/internal/repository/ports"
	"github.com/njprem/NoirBrew_Web/internal/repository/postgres"
	"github.com/njprem/NoirBrew_Web/internal/service"
	"github.com/njprem/NoirBrew_Web/internal/transport/backend"
	transporthttp "github.com/njprem/NoirBrew_Web/internal/transport/http"
)

func main() {
	cfg := config.Load()

	logger, logCloser := logging.Setup(logging.ParseLevel(cfg.LogLevel), logging.LogstashConfig{
		Addr:          cfg.LogstashTCPAddr,
		DialTimeout:   cfg.LogstashDialTimeout,
		WriteTimeout:  cfg.LogstashWriteTimeout,
		RetryInterval: cfg.LogstashRetryInterval,
		QueueSize:     cfg.LogstashQueueSize,
	})
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("open storage", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	cafes := backend.NewClient(cfg.BackendBaseURL, httpClient)

	var (
		maps    *mapview.Adapter
		mapPort ports.MapAdapter
		mapsKey string
	)
	if cfg.MapsEnabled {
		mapsKey = loadMapsKey(ctx, cafes, cfg.RequestTimeout, logger)
		if mapsKey != "" {
			directions := mapview.NewDirectionsClient(cfg.DirectionsAPIURL, mapsKey, httpClient)
			maps = mapview.NewAdapter(directions)
			mapPort = maps
		}
	}

	renderer, err := render.New(mapPort)
	if err != nil {
		logger.Error("load templates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	search := service.NewSearchService(cafes, service.NewResultCache(), service.SearchServiceConfig{
		RadiusMeters:       cfg.SearchRadiusMeters,
		RequestTimeout:     cfg.RequestTimeout,
		GeolocationTimeout: cfg.GeolocationTimeout,
	}, logger)
	favorites := service.NewFavoriteService(store, logger)
	themes := service.NewThemeService(store, domain.ParseTheme(cfg.DefaultTheme, domain.ThemeDark))
	state := service.NewAppState(search, favorites, themes, renderer, mapPort, service.AppStateConfig{
		DefaultLocation: cfg.DefaultLocation,
		RouteTimeout:    cfg.RequestTimeout,
	}, logger)

	deps := transporthttp.Dependencies{
		State:      state,
		Favorites:  favorites,
		Themes:     themes,
		Renderer:   renderer,
		Maps:       maps,
		MapsAPIKey: mapsKey,
		Logger:     logger,
	}
	e := transporthttp.NewRouter(cfg.AllowOrigins, logger)
	transporthttp.RegisterPages(e, deps)
	transporthttp.RegisterAPI(e, deps)
	transporthttp.RegisterSwagger(e)

	go func() {
		logger.Info("server starting", slog.String("port", cfg.Port), slog.Bool("maps", maps != nil))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	shutdown(e, logger)
}

func shutdown(e *echo.Echo, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("shutdown", slog.String("error", err.Error()))
	}
}

// loadMapsKey fetches the widget key from the backend. Any failure leaves the
// app running without a map.
func loadMapsKey(ctx context.Context, cafes ports.CafeBackend, timeout time.Duration, logger *slog.Logger) string {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cc, err := cafes.ClientConfig(ctx)
	if err != nil {
		logger.Warn("maps disabled: config fetch failed", slog.String("error", err.Error()))
		return ""
	}
	if cc.MapsAPIKey == "" {
		logger.Warn("maps disabled: backend returned no api key")
	}
	return cc.MapsAPIKey
}

func openStore(ctx context.Context, cfg config.Config) (ports.KeyValueStore, func(), error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.NewKeyValueRepo(db), func() { db.Close() }, nil
	case config.StorageMinIO:
		client, err := minio.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
		if err != nil {
			return nil, nil, err
		}
		if err := minio.EnsureBucket(ctx, client, cfg.MinIOBucketStorage); err != nil {
			return nil, nil, err
		}
		return minio.NewKeyValueStore(client, cfg.MinIOBucketStorage, "local-storage"), func() {}, nil
	default:
		return memory.NewKeyValueStore(), func() {}, nil
	}
}
