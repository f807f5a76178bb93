package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/audit"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/config"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/events"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/messaging/kafka/consumer"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/paycomponent"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/payroll"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/salary"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/shared/connection"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/statutory"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/unpaidleave"
)

// RunConsumer provisions payroll defaults for employees announced on
// the lifecycle topic until interrupted.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
		cfg.Database.MaxRetries,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, cfg.Kafka.MaxRetries); err != nil {
		return err
	}

	auditService := audit.NewService(audit.NewRepository(gormDB))

	salaryRepo := salary.NewRepository(gormDB)
	salaryService := salary.NewService(sqlDB, salaryRepo, auditService)

	statutoryRepo := statutory.NewRepository(gormDB)
	rates := statutory.NewRateSource(statutoryRepo, cfg.Statutory)
	calculator := payroll.NewCalculator(
		salaryRepo,
		paycomponent.NewRepository(gormDB),
		unpaidleave.NewRepository(gormDB),
		rates,
	)
	statutoryService := statutory.NewService(sqlDB, statutoryRepo, calculator, rates, auditService)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.EmployeeCreatedTopic,
		GroupID:        cfg.Kafka.GroupID + "-employee-defaults",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeEmployeeLifecycle(ctx, reader, salaryService, statutoryService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
