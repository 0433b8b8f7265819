package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mostafa-SAID7/paytrack-app/internal/config"
	"github.com/Mostafa-SAID7/paytrack-app/internal/employee"
	"github.com/Mostafa-SAID7/paytrack-app/internal/events"
	"github.com/Mostafa-SAID7/paytrack-app/internal/messaging/kafka"
	"github.com/Mostafa-SAID7/paytrack-app/internal/messaging/kafka/consumer"
	"github.com/Mostafa-SAID7/paytrack-app/internal/payroll"
	"github.com/Mostafa-SAID7/paytrack-app/internal/shared/connection"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer processes payroll-run requests until SIGINT or SIGTERM.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database.DSN(), cfg.Database.MaxRetries)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Database.MaxRetries)
		if err != nil {
			return err
		}
		defer rdb.Close()
	}

	employeeRepo := employee.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	payrollService := payroll.NewServiceWithOutbox(sqlDB, payrollRepo, employeeRepo, outboxRepo, rdb, logger)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.PayrollCalculationRequestedTopic,
		GroupID:        cfg.Kafka.ConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer.ConsumePayrollCalculationRequested(ctx, reader, payrollService, logger)

	logger.Info("consumer shutting down")
	return nil
}
