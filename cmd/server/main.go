package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"grokimg/internal/cache"
	"grokimg/internal/cache/memory"
	"grokimg/internal/cache/postgres"
	rediscache "grokimg/internal/cache/redis"
	s3cache "grokimg/internal/cache/s3"
	"grokimg/internal/config"
	"grokimg/internal/domain"
	"grokimg/internal/grok"
	"grokimg/internal/handler"
	"grokimg/internal/logger"
	"grokimg/internal/metrics"
	"grokimg/internal/port"
	"grokimg/internal/router"
	"grokimg/internal/service"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Log)

	registerCacheBackends()
	imageCache, closeCache, err := cache.NewCache(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize image cache: %w", err)
	}
	defer func() {
		if cerr := closeCache(); cerr != nil {
			log.Warn().Err(cerr).Msg("closing image cache")
		}
	}()
	log.Info().Str("backend", string(cfg.Cache.Backend)).Msg("image cache ready")

	// Initialize Grok client
	headers := grok.NewHeaderGenerator(cfg.Grok)
	uploader := grok.NewUploader(cfg.Grok, nil, headers, log)

	// Initialize metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observer, err := metrics.NewPrometheusObserver("grokimg", reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	// Initialize services
	resolver := service.NewImageResolver(imageCache, nil, cfg.Fetch)
	imageSvc := service.NewImageService(resolver, uploader, imageCache, service.ImageServiceOptions{
		CacheTTL: cfg.Cache.TTL,
		MaxBytes: cfg.Fetch.MaxBytes,
		Observer: observer,
	}, log)

	// Initialize handlers
	var pinger port.Pinger
	if p, ok := imageCache.(port.Pinger); ok {
		pinger = p
	}
	imageH := handler.NewImageHandler(imageSvc, cfg.Fetch.MaxBytes)
	healthH := handler.NewHealthHandler(pinger)

	// Setup router
	r := router.Setup(log, cfg.CORS.AllowedOrigins, imageH, healthH,
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return serve(srv, log)
}

func serve(srv *http.Server, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func registerCacheBackends() {
	cache.RegisterBackend(domain.CacheBackendMemory, func(cfg *config.Config) (port.ImageCache, cache.CloseFunc, error) {
		return memory.NewMemoryCache(cfg.Cache.MemorySize), nil, nil
	})
	cache.RegisterBackend(domain.CacheBackendRedis, func(cfg *config.Config) (port.ImageCache, cache.CloseFunc, error) {
		c := rediscache.NewRedisCache(&cfg.Redis, cfg.Cache.KeyPrefix)
		return c, c.Close, nil
	})
	cache.RegisterBackend(domain.CacheBackendS3, func(cfg *config.Config) (port.ImageCache, cache.CloseFunc, error) {
		c, err := s3cache.NewS3Cache(&cfg.S3, cfg.Cache.KeyPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		return c, nil, nil
	})
	cache.RegisterBackend(domain.CacheBackendPostgres, func(cfg *config.Config) (port.ImageCache, cache.CloseFunc, error) {
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return postgres.NewImageCacheRepo(db), db.Close, nil
	})
}
