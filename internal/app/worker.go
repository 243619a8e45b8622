package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hrms-lite/internal/messaging/kafka"
	"hrms-lite/internal/messaging/kafka/producer"
	"hrms-lite/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker menjalankan relay outbox -> Kafka. Berjalan sebagai proses
// terpisah dari API (cmd/worker).
func RunWorker() error {
	logger := zap.L().Named("app.worker")

	cfg := dbConfigFromEnv()
	if connection.DriverName(cfg.Driver) != connection.DriverPostgres {
		return fmt.Errorf("outbox worker requires the postgres backend, got %s", connection.DriverName(cfg.Driver))
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg, 5)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := kafka.EnsureOutboxTable(ctx, sqlDB); err != nil {
		return err
	}
	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}
