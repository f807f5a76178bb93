package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/events"
)

// SalaryProvisioner writes the zero-amount first salary row for a new
// employee. Implementations are idempotent: a second call for the same
// employee is a no-op.
type SalaryProvisioner interface {
	ProvisionInitial(ctx context.Context, employeeID string) error
}

// StatutoryProvisioner writes the empty contribution configuration row
// for a new employee, also idempotently.
type StatutoryProvisioner interface {
	ProvisionDefault(ctx context.Context, employeeID string) error
}

// ConsumeEmployeeLifecycle provisions the payroll-side rows every new
// employee needs. Messages are committed only after both provisioners
// succeed; since both are idempotent, redelivery after a partial
// failure is safe.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	salaries SalaryProvisioner,
	statutory StatutoryProvisioner,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.EmployeeCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employee_created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := salaries.ProvisionInitial(ctx, event.EmployeeID); err != nil {
			log.Error("provision initial salary failed",
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		if err := statutory.ProvisionDefault(ctx, event.EmployeeID); err != nil {
			log.Error("provision statutory config failed",
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("employee payroll defaults provisioned",
			zap.String("employee_id", event.EmployeeID),
			zap.String("employee_number", event.EmployeeNumber),
		)
	}
}
