package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Eursukkul/classpass-service/config"
	"github.com/Eursukkul/classpass-service/internal/handler"
	"github.com/Eursukkul/classpass-service/internal/jobs"
	"github.com/Eursukkul/classpass-service/internal/middleware"
	"github.com/Eursukkul/classpass-service/internal/repository"
	"github.com/Eursukkul/classpass-service/internal/service"
	"github.com/Eursukkul/classpass-service/internal/validation"
	"github.com/Eursukkul/classpass-service/pkg/logger"
	"github.com/Eursukkul/classpass-service/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
)

const serviceName = "classpass-api"

func main() {
	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: serviceName})

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", "error", err)
	}
	log.Info("configuration loaded", cfg.LogValues()...)

	if err := run(cfg, log); err != nil {
		log.Fatal("api stopped", "error", err)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	store, err := repository.OpenStore(cfg.DBDriver, cfg.DSN(), cfg.SQLitePath)
	if err != nil {
		return err
	}
	defer store.Close()

	var publisher service.EventPublisher
	if cfg.RabbitURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL, log)
		if err != nil {
			return err
		}
		defer p.Close()
		publisher = p
	} else {
		log.Info("RABBITMQ_URL not set, pass events disabled")
	}

	svc := service.NewPassService(store.Passes, store.Bookings, publisher,
		service.WithMaxClasses(cfg.MaxTotalClasses))

	scheduler := cron.New()
	if cfg.ExpirySweepSchedule != "" {
		if publisher == nil {
			log.Warn("expiry sweep needs RABBITMQ_URL, not scheduling it")
		} else {
			job := jobs.NewExpiryJob(store.Passes, publisher, cfg.ExpiringSoonDays, log)
			if _, err := job.Schedule(scheduler, cfg.ExpirySweepSchedule); err != nil {
				return err
			}
			log.Info("expiry sweep scheduled", "schedule", cfg.ExpirySweepSchedule)
		}
	}
	scheduler.Start()

	e := newServer(svc, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", "port", cfg.ServerPort)
		serverErrors <- e.Start(":" + cfg.ServerPort)
	}()

	select {
	case err := <-serverErrors:
		<-scheduler.Stop().Done()
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		log.Warn("expiry sweep still running at shutdown")
	}

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
		return e.Close()
	}

	log.Info("server stopped gracefully")
	return nil
}

func newServer(svc service.PassService, log *logger.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.NewErrorHandler(log)
	e.Validator = validation.New()

	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": serviceName})
	})

	api := e.Group("/api/class-passes")
	handler.NewPassHandler(svc).RegisterRoutes(api)

	return e
}
