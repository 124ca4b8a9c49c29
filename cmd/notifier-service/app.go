package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"notifier/internal/broker"
	"notifier/internal/config"
	"notifier/internal/constants"
	"notifier/internal/logger"
	"notifier/internal/notification"
	"notifier/pkg/circuitbreaker"
	"notifier/pkg/metrics"
	"notifier/pkg/middleware"
	"notifier/pkg/ratelimit"
)

type App struct {
	config    *config.Config
	logger    logger.Logger
	producer  broker.Producer
	scheduler *notification.Scheduler
	server    *http.Server
	router    *gin.Engine
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		config: cfg,
		logger: log,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	producer, err := broker.NewProducer(a.config.Broker, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create queue producer: %w", err)
	}
	a.producer = producer

	if !a.config.Broker.Configured() {
		a.logger.WarnwCtx(ctx, "Queue not fully configured, publishes will fail until it is",
			"queue", a.config.Broker.Queue,
			"connection_configured", a.config.Broker.ConnectionString != "",
		)
	}

	metrics.RegisterPublisherMetrics()
	metrics.RegisterSchedulerMetrics()
	metrics.RegisterHealthMetrics()

	counter := notification.NewCounter()
	schedState := notification.NewSchedulerState()
	queueState := notification.NewQueueState(a.config.Broker)
	schedule := notification.DescribeInterval(a.config.Scheduler.Interval)

	builder := notification.NewBuilder(counter, a.config.Service.Environment, schedule)

	var opts []notification.PublisherOption
	if a.config.CircuitBreaker.Enabled {
		metrics.RegisterCircuitBreakerMetrics()
		cbCfg := circuitbreaker.DefaultConfig("queue-publish")
		if a.config.CircuitBreaker.MaxRequests > 0 {
			cbCfg.MaxRequests = a.config.CircuitBreaker.MaxRequests
		}
		if a.config.CircuitBreaker.Interval > 0 {
			cbCfg.Interval = a.config.CircuitBreaker.Interval
		}
		if a.config.CircuitBreaker.Timeout > 0 {
			cbCfg.Timeout = a.config.CircuitBreaker.Timeout
		}
		opts = append(opts, notification.WithCircuitBreaker(circuitbreaker.NewWrapper(cbCfg)))
	}

	publisher := notification.NewPublisher(builder, producer, counter, queueState, a.logger, opts...)

	if a.config.Scheduler.Enabled {
		a.scheduler = notification.NewScheduler(
			a.config.Scheduler.Interval,
			clockwork.NewRealClock(),
			publisher,
			schedState,
			a.logger,
		)
	}

	aggregator := notification.NewAggregator(a.config.Broker, producer, schedState, queueState, schedule, a.logger)
	handler := notification.NewHandler(aggregator, publisher, schedState, a.config, schedule, a.logger)

	a.initRouter(handler)
	a.initServer()

	return nil
}

func (a *App) initRouter(handler *notification.Handler) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(a.logger))
	router.Use(middleware.LoggerMiddleware(a.logger))
	router.Use(middleware.RequestIDMiddleware())

	var sendMiddleware []gin.HandlerFunc
	if a.config.RateLimit.Enabled {
		metrics.RegisterRateLimitMetrics()
		rlCfg := ratelimit.Config{
			RPS:             a.config.RateLimit.RPS,
			Burst:           a.config.RateLimit.Burst,
			CleanupInterval: time.Duration(a.config.RateLimit.CleanupInterval) * time.Second,
			MaxAge:          time.Duration(a.config.RateLimit.MaxAge) * time.Second,
		}
		sendMiddleware = append(sendMiddleware, ratelimit.Middleware(rlCfg))
		a.logger.Infow("Rate limiting enabled on manual send", "rps", rlCfg.RPS, "burst", rlCfg.Burst)
	}

	handler.RegisterRoutes(router, sendMiddleware...)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a.router = router
}

func (a *App) initServer() {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  a.config.Server.ReadTimeoutSeconds,
		WriteTimeout: a.config.Server.WriteTimeoutSeconds,
	}
}

func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.InfowCtx(gctx, "Server listening", "port", a.config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if a.scheduler != nil {
		g.Go(func() error {
			if err := a.scheduler.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return a.Shutdown()
	})

	return g.Wait()
}

func (a *App) Shutdown() error {
	a.logger.Infow("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	var errs []error

	if a.server != nil {
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("producer close error: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	a.logger.Infow("Server exited successfully")
	return nil
}
