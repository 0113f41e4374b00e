package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Eursukkul/classpass-service/config"
	"github.com/Eursukkul/classpass-service/internal/consumer"
	"github.com/Eursukkul/classpass-service/internal/repository"
	"github.com/Eursukkul/classpass-service/pkg/logger"
	"github.com/Eursukkul/classpass-service/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "classpass-notifier"})

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", "error", err)
	}
	if err := run(cfg, log); err != nil {
		log.Fatal("notifier stopped", "error", err)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	if cfg.RabbitURL == "" {
		return errors.New("RABBITMQ_URL is required")
	}

	store, err := repository.OpenStore(cfg.DBDriver, cfg.DSN(), cfg.SQLitePath)
	if err != nil {
		return err
	}
	defer store.Close()

	mq, err := rabbitmq.NewConsumer(cfg.RabbitURL, log)
	if err != nil {
		return err
	}
	defer mq.Close()

	msgs, err := mq.Consume()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := consumer.NewPassEventConsumer(store.Activities, log).Start(ctx, msgs)

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		// closing the channel ends the delivery stream
		mq.Close()
		<-done
		return nil
	case <-done:
		return errors.New("delivery channel closed by broker")
	}
}
