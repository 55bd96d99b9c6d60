package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-dose-reminder/internal/config"
	"github.com/KasumiMercury/primind-dose-reminder/internal/domain"
	"github.com/KasumiMercury/primind-dose-reminder/internal/handler"
	"github.com/KasumiMercury/primind-dose-reminder/internal/health"
	"github.com/KasumiMercury/primind-dose-reminder/internal/infra/firerecorder"
	"github.com/KasumiMercury/primind-dose-reminder/internal/infra/foreground"
	"github.com/KasumiMercury/primind-dose-reminder/internal/infra/notifier"
	"github.com/KasumiMercury/primind-dose-reminder/internal/infra/pushqueue"
	"github.com/KasumiMercury/primind-dose-reminder/internal/infra/repository"
	"github.com/KasumiMercury/primind-dose-reminder/internal/observability"
	"github.com/KasumiMercury/primind-dose-reminder/internal/observability/logging"
	"github.com/KasumiMercury/primind-dose-reminder/internal/observability/metrics"
	"github.com/KasumiMercury/primind-dose-reminder/internal/observability/middleware"
	"github.com/KasumiMercury/primind-dose-reminder/internal/service/gap"
	"github.com/KasumiMercury/primind-dose-reminder/internal/service/notify"
	"github.com/KasumiMercury/primind-dose-reminder/internal/service/permission"
	"github.com/KasumiMercury/primind-dose-reminder/internal/service/reminder"
	"github.com/KasumiMercury/primind-dose-reminder/internal/service/timeoption"
)

const (
	defaultServiceName = "dose-reminder"
	serviceModule      = logging.Module("dose-reminder")
)

func serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	obs, err := initObservability(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	if err := config.ValidateForRun(cfg); err != nil {
		return fmt.Errorf("configuration validation error: %w", err)
	}

	if err := cfg.TaskQueue.Validate(); err != nil {
		return fmt.Errorf("task queue configuration error: %w", err)
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		return fmt.Errorf("initialize HTTP metrics: %w", err)
	}

	reminderMetrics, err := metrics.NewReminderMetrics()
	if err != nil {
		return fmt.Errorf("initialize reminder metrics: %w", err)
	}

	schedulerMetrics, err := metrics.NewSchedulerMetrics()
	if err != nil {
		return fmt.Errorf("initialize scheduler metrics: %w", err)
	}

	// Delivery log (InfluxDB for local, BigQuery for gcloud)
	fireRecorder, err := firerecorder.NewRecorder(ctx, firerecorder.LoadConfig())
	if err != nil {
		return fmt.Errorf("initialize fire recorder: %w", err)
	}
	defer func() {
		if err := fireRecorder.Close(); err != nil {
			slog.Warn("failed to close fire recorder", slog.String("error", err.Error()))
		}
	}()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("failed to close reminder store", slog.String("error", err.Error()))
		}
	}()

	taskQueue, cleanup, err := initTaskQueue(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize task queue: %w", err)
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("task queue cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	hub := foreground.NewHub(cfg.CORS.AllowedOrigins)
	defer hub.Close()

	// Background push first; open views are the fallback.
	channels := make([]domain.Notifier, 0, 2)
	if taskQueue != nil {
		channels = append(channels, pushqueue.NewNotifier(taskQueue))
	}
	channels = append(channels, hub)
	deliveryChain := notifier.NewChain(channels...)

	repo := repository.NewReminderRepository(store)
	gate := permission.NewGate(repo, hub, cfg.Scheduler.PermissionRequestTimeout)
	validator := gap.NewValidator(cfg.Scheduler.DefaultGapHours)
	reminders := reminder.NewService(repo, validator, gate, reminderMetrics)

	scheduler := notify.NewScheduler(repo, repo, gate, deliveryChain,
		notify.WithInterval(cfg.Scheduler.TickInterval),
		notify.WithDosageLookup(reminders),
		notify.WithFireRecorder(fireRecorder),
		notify.WithMetrics(schedulerMetrics),
	)

	analysisHandler := handler.NewAnalysisHandler(reminders)
	medicineHandler := handler.NewMedicineHandler(reminders)
	reminderHandler := handler.NewReminderHandler(reminders)
	catalogHandler := handler.NewCatalogHandler(timeoption.NewCatalog())
	permissionHandler := handler.NewPermissionHandler(gate)

	// Setup router with observability middleware
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready", "/metrics", "/ws"},
		Module:      serviceModule,
		TracerName:  "github.com/KasumiMercury/primind-dose-reminder/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())
	r.Use(cors.New(corsConfig(cfg.CORS)))

	healthChecker := health.NewChecker(map[string]health.Pinger{
		string(cfg.Store.Backend): store,
	}, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())
	r.GET("/metrics", gin.WrapH(obs.MetricsHandler()))
	r.GET("/ws", gin.WrapH(hub))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/analysis", analysisHandler.HandleIngest)
		v1.DELETE("/analysis", analysisHandler.HandleClear)
		v1.GET("/medicines", medicineHandler.HandleList)
		v1.POST("/medicines", medicineHandler.HandleCreate)
		v1.PUT("/medicines/:id/times", medicineHandler.HandleUpdateTimes)
		v1.POST("/reminders/save", reminderHandler.HandleSave)
		v1.GET("/time-options", catalogHandler.HandleTimeOptions)
		v1.GET("/slots", catalogHandler.HandleSlots)
		v1.GET("/permission", permissionHandler.HandleGet)
		v1.PUT("/permission", permissionHandler.HandleResolve)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	schedulerHandle := scheduler.Start(ctx)
	defer schedulerHandle.Stop()

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("store_backend", string(cfg.Store.Backend)),
			slog.Duration("tick_interval", cfg.Scheduler.TickInterval),
			slog.Float64("default_gap_hours", cfg.Scheduler.DefaultGapHours),
			slog.Bool("background_push", taskQueue != nil),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()
		schedulerHandle.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}

		slog.Info("server exited properly")
		return nil

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server exited with error: %w", err)
	}
}

func initObservability(ctx context.Context, cfg *config.Config) (*observability.Resources, error) {
	service, env, projectID := platformIdentity(cfg)

	return observability.Init(ctx, observability.Config{
		ServiceInfo:     service,
		Environment:     env,
		LogLevel:        cfg.LogLevel,
		GCPProjectID:    projectID,
		SamplingRate:    1.0,
		DefaultModule:   serviceModule,
		TraceEndpoint:   cfg.TraceEndpoint,
		MetricsEndpoint: cfg.MetricsEndpoint,
	})
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	c.AllowHeaders = []string{"Origin", "Content-Type", middleware.RequestIDHeader}
	c.ExposeHeaders = []string{middleware.RequestIDHeader}
	c.AllowWebSockets = true

	if cfg.AllowAll() {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowedOrigins
	}
	return c
}
