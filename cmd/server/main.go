package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/progression/api/handler"
	"github.com/fastygo/progression/internal/config"
	"github.com/fastygo/progression/internal/infrastructure/buffer"
	"github.com/fastygo/progression/internal/infrastructure/geocode"
	"github.com/fastygo/progression/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/progression/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/progression/internal/infrastructure/redis"
	"github.com/fastygo/progression/internal/middleware"
	"github.com/fastygo/progression/internal/router"
	"github.com/fastygo/progression/internal/services"
	"github.com/fastygo/progression/internal/services/lifecycle"
	"github.com/fastygo/progression/pkg/httpcontext"
	"github.com/fastygo/progression/pkg/logger"
	"github.com/fastygo/progression/repository/postgres"
	redisRepo "github.com/fastygo/progression/repository/redis"
	progressionUC "github.com/fastygo/progression/usecase/progression"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger = zapLogger.With(zap.String("app", cfg.AppName), zap.String("env", cfg.Environment))

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pgInfra.Close(pool, zapLogger)
		return nil
	})

	// Redis only carries notifications and the geocode cache, so the
	// service starts without it and buffers until it comes back.
	redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis)
	if redisClient == nil {
		zapLogger.Fatal("redis configuration invalid", zap.Error(err))
	}
	if err != nil {
		zapLogger.Warn("redis unavailable at startup", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	bufferStore, err := buffer.Open(cfg.Buffer.Path, cfg.Buffer.Bucket)
	if err != nil {
		zapLogger.Fatal("failed to open notification buffer", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(monitor.Probes{
		Postgres:   pool.Ping,
		Redis:      func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		BufferSize: bufferStore.Size,
	}, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	customerRepo := postgres.NewCustomerRepository(pool)
	progressionRepo := postgres.NewProgressionRepository(pool)
	geocodeCache := redisRepo.NewGeocodeCache(redisClient, cfg.Geocode.CacheTTL)
	notificationStream := redisRepo.NewNotificationStream(redisClient, cfg.Notification.Stream, cfg.Notification.MaxLength)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		notificationStream,
		mon,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  cfg.Buffer.BatchSize,
			MaxRetries: cfg.Buffer.MaxRetry,
			MaxAge:     cfg.BufferRetention(),
		},
	)
	bufferProcessor.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})

	geocodeClient, err := geocode.NewClient(geocode.Config{
		BaseURL: cfg.Geocode.BaseURL,
		Timeout: cfg.Geocode.Timeout,
	})
	if err != nil {
		zapLogger.Fatal("geocode client setup failed", zap.Error(err))
	}

	progressionUseCase := progressionUC.New(
		customerRepo,
		progressionRepo,
		services.NewCachedGeocoder(geocodeClient, geocodeCache, zapLogger),
		services.NewNotifier(bufferProcessor),
		zapLogger,
	)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Progression: apiHandler.NewProgressionHandler(progressionUseCase, ctxAdapter, zapLogger),
		Health:      apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	var handler fasthttp.RequestHandler
	if cfg.Metrics.Enabled {
		metrics := middleware.NewMetrics(cfg.Metrics.Namespace)
		metrics.TrackGauge(cfg.Metrics.Namespace, "notification_buffer_size", "Notifications waiting for redelivery.", func() float64 {
			return float64(bufferProcessor.Size())
		})
		handlers.Metrics = metrics.Handler()
		handler = metrics.Middleware(router.New(handlers).Handler)
	} else {
		handler = router.New(handlers).Handler
	}
	handler = middleware.AccessLog(zapLogger)(handler)

	server := &fasthttp.Server{
		Handler:            handler,
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		Concurrency:        cfg.HTTP.MaxConn,
		MaxRequestBodySize: cfg.HTTP.MaxBodySize,
		Name:               cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
