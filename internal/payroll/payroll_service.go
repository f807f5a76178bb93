package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/audit"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/employee"
	employeeerrors "github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/employee/errors"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/events"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/messaging/kafka"
	payrollerrors "github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/payroll/errors"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/payperiod"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/shared/contextutil"
)

const skipAlreadyProcessed = "transfer already exists for period"

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	// Payslip renders the live pay picture for one employee and period
	// without persisting anything.
	Payslip(ctx context.Context, employeeID string, year, month int) (PayslipResponse, error)

	// Transfer runs the batch processing path: the whole batch commits
	// or rolls back together, employees already transferred for the
	// period are skipped, and every written row is Completed.
	Transfer(ctx context.Context, req TransferRequest) (TransferRunResponse, error)

	// InitiateBankTransfer upserts Processing rows one employee at a
	// time, so partially completed runs can be resumed by calling it
	// again. Rows already Completed are never touched.
	InitiateBankTransfer(ctx context.Context, req TransferRequest) (TransferRunResponse, error)

	// CompleteTransfer flips one Processing row to Completed.
	CompleteTransfer(ctx context.Context, id string) (TransferResponse, error)

	GetAll(ctx context.Context, filter ListTransferFilter) ([]TransferResponse, error)
	GetByID(ctx context.Context, id string) (TransferResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employeeRepo employee.Repository
	calc         *Calculator
	outbox       kafka.OutboxRepository
	auditor      audit.Recorder
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	calc *Calculator,
	outboxRepo kafka.OutboxRepository,
	auditor audit.Recorder,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		calc:         calc,
		outbox:       outboxRepo,
		auditor:      auditor,
		logger:       l,
	}
}

func (s *service) Payslip(ctx context.Context, employeeID string, year, month int) (PayslipResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return PayslipResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	empl, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayslipResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return PayslipResponse{}, err
	}

	p, err := payperiod.Resolve(year, month)
	if err != nil {
		return PayslipResponse{}, err
	}

	gross, err := s.calc.Gross(ctx, employeeID, p)
	if err != nil {
		s.logger.Error("payslip gross aggregation failed",
			zap.String("employee_id", employeeID), zap.Error(err))
		return PayslipResponse{}, err
	}
	deductions, err := s.calc.Deductions(ctx, employeeID, gross.BasicSalary, p)
	if err != nil {
		s.logger.Error("payslip deductions aggregation failed",
			zap.String("employee_id", employeeID), zap.Error(err))
		return PayslipResponse{}, err
	}
	_, employerEpf, employerEtf, err := s.calc.Contributions(ctx, employeeID, gross.Gross)
	if err != nil {
		return PayslipResponse{}, err
	}

	return PayslipResponse{
		Employee: PayslipEmployee{ID: employeeID, FullName: empl.FullName},
		Period:   PayslipPeriod{Year: p.Year, Month: p.Month, MonthName: p.MonthName()},
		Earnings: PayslipSection{
			Breakdown: roundLines(gross.Lines),
			Total:     round2(gross.Gross),
		},
		Deductions: PayslipSection{
			Breakdown: roundLines(deductions.Lines),
			Total:     round2(deductions.Total),
		},
		EmployerContributions: EmployerContributions{
			Epf: round2(employerEpf),
			Etf: round2(employerEtf),
		},
		Summary: PayslipSummary{
			GrossSalary:     round2(gross.Gross),
			TotalDeductions: round2(deductions.Total),
			NetSalary:       round2(gross.Gross - deductions.Total),
		},
	}, nil
}

func (s *service) Transfer(ctx context.Context, req TransferRequest) (TransferRunResponse, error) {
	p, err := payperiod.Resolve(req.Year, req.Month)
	if err != nil {
		return TransferRunResponse{}, err
	}

	initiatedBy := actorUUID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transfer begin tx failed", zap.Error(err))
		return TransferRunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run := TransferRunResponse{PeriodYear: p.Year, PeriodMonth: p.Month}

	for _, id := range req.EmployeeIDs {
		employeeID, err := uuid.Parse(id)
		if err != nil {
			return TransferRunResponse{}, employeeerrors.ErrInvalidEmployeeID
		}

		exists, err := qtx.ExistsForPeriod(ctx, id, p.Year, p.Month)
		if err != nil {
			return TransferRunResponse{}, err
		}
		if exists {
			run.Skipped = append(run.Skipped, TransferSkip{EmployeeID: id, Reason: skipAlreadyProcessed})
			continue
		}

		row, err := s.buildTransfer(ctx, employeeID, p, StatusCompleted, initiatedBy)
		if err != nil {
			return TransferRunResponse{}, err
		}

		if err := qtx.Create(ctx, row); err != nil {
			s.logger.Error("transfer persist failed",
				zap.String("employee_id", id), zap.Error(err))
			return TransferRunResponse{}, mapTransferError(err)
		}

		run.Processed = append(run.Processed, mapToTransferResponse(*row))
	}

	run.ProcessedCount = len(run.Processed)
	run.SkippedCount = len(run.Skipped)

	if err := s.emitRunCompleted(ctx, tx, run); err != nil {
		return TransferRunResponse{}, err
	}

	if s.auditor != nil {
		s.auditor.WithTx(tx).Record(ctx, audit.Entry{
			ActorID:    contextutil.GetUserID(ctx),
			Action:     "payroll.transfer",
			EntityType: "payroll_transfer",
			EntityID:   p.String(),
			Details: fmt.Sprintf("period=%s processed=%d skipped=%d",
				p, run.ProcessedCount, run.SkippedCount),
		})
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("transfer commit failed", zap.Error(err))
		return TransferRunResponse{}, err
	}

	s.logger.Info("transfer run completed",
		zap.String("period", p.String()),
		zap.Int("processed", run.ProcessedCount),
		zap.Int("skipped", run.SkippedCount),
	)

	return run, nil
}

func (s *service) InitiateBankTransfer(ctx context.Context, req TransferRequest) (TransferRunResponse, error) {
	p, err := payperiod.Resolve(req.Year, req.Month)
	if err != nil {
		return TransferRunResponse{}, err
	}

	initiatedBy := actorUUID(ctx)

	run := TransferRunResponse{PeriodYear: p.Year, PeriodMonth: p.Month}

	// Each upsert stands alone. A failure mid-run leaves the earlier
	// Processing rows in place, and a rerun picks up where it stopped.
	for _, id := range req.EmployeeIDs {
		employeeID, err := uuid.Parse(id)
		if err != nil {
			return run, employeeerrors.ErrInvalidEmployeeID
		}

		row, err := s.buildTransfer(ctx, employeeID, p, StatusProcessing, initiatedBy)
		if err != nil {
			return run, err
		}

		written, err := s.repo.UpsertProcessing(ctx, row)
		if err != nil {
			s.logger.Error("initiate transfer upsert failed",
				zap.String("employee_id", id), zap.Error(err))
			return run, mapTransferError(err)
		}
		if !written {
			run.Skipped = append(run.Skipped, TransferSkip{EmployeeID: id, Reason: "transfer already completed"})
			continue
		}

		run.Processed = append(run.Processed, mapToTransferResponse(*row))
	}

	run.ProcessedCount = len(run.Processed)
	run.SkippedCount = len(run.Skipped)

	if s.auditor != nil {
		s.auditor.Record(ctx, audit.Entry{
			ActorID:    contextutil.GetUserID(ctx),
			Action:     "payroll.transfer.initiate",
			EntityType: "payroll_transfer",
			EntityID:   p.String(),
			Details: fmt.Sprintf("period=%s processing=%d skipped=%d",
				p, run.ProcessedCount, run.SkippedCount),
		})
	}

	s.logger.Info("bank transfer initiated",
		zap.String("period", p.String()),
		zap.Int("processing", run.ProcessedCount),
		zap.Int("skipped", run.SkippedCount),
	)

	return run, nil
}

// buildTransfer computes a fresh snapshot for one employee. Nothing is
// cached between runs; a rerun with changed inputs produces different
// amounts by design.
func (s *service) buildTransfer(ctx context.Context, employeeID uuid.UUID, p payperiod.Period, status string, initiatedBy *uuid.UUID) (*PayrollTransfer, error) {
	id := employeeID.String()

	gross, err := s.calc.Gross(ctx, id, p)
	if err != nil {
		s.logger.Error("transfer gross aggregation failed",
			zap.String("employee_id", id), zap.Error(err))
		return nil, err
	}
	deductions, err := s.calc.Deductions(ctx, id, gross.BasicSalary, p)
	if err != nil {
		s.logger.Error("transfer deductions aggregation failed",
			zap.String("employee_id", id), zap.Error(err))
		return nil, err
	}

	now := time.Now().UTC()
	return &PayrollTransfer{
		ID:              uuid.New(),
		EmployeeID:      employeeID,
		PeriodYear:      p.Year,
		PeriodMonth:     p.Month,
		GrossSalary:     round2(gross.Gross),
		TotalDeductions: round2(deductions.Total),
		NetSalary:       round2(gross.Gross - deductions.Total),
		Status:          status,
		InitiatedBy:     initiatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func (s *service) CompleteTransfer(ctx context.Context, id string) (TransferResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TransferResponse{}, payrollerrors.ErrInvalidTransferID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return TransferResponse{}, mapTransferError(err)
	}
	if row.Status != StatusProcessing {
		return TransferResponse{}, payrollerrors.ErrTransferNotProcessing
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("complete transfer begin tx failed", zap.Error(err))
		return TransferResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.MarkCompleted(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TransferResponse{}, payrollerrors.ErrTransferNotProcessing
		}
		s.logger.Error("complete transfer failed", zap.String("transfer_id", id), zap.Error(err))
		return TransferResponse{}, err
	}

	if s.auditor != nil {
		s.auditor.WithTx(tx).Record(ctx, audit.Entry{
			ActorID:    contextutil.GetUserID(ctx),
			Action:     "payroll.transfer.complete",
			EntityType: "payroll_transfer",
			EntityID:   id,
			Details:    fmt.Sprintf("employee_id=%s period=%04d-%02d", row.EmployeeID, row.PeriodYear, row.PeriodMonth),
		})
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("complete transfer commit failed", zap.Error(err))
		return TransferResponse{}, err
	}

	row.Status = StatusCompleted
	row.UpdatedAt = time.Now().UTC()

	s.logger.Info("transfer completed", zap.String("transfer_id", id))
	return mapToTransferResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, filter ListTransferFilter) ([]TransferResponse, error) {
	if filter.EmployeeID != "" {
		if _, err := uuid.Parse(filter.EmployeeID); err != nil {
			return nil, employeeerrors.ErrInvalidEmployeeID
		}
	}

	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("list transfers failed", zap.Error(err))
		return nil, err
	}

	res := make([]TransferResponse, len(rows))
	for i, row := range rows {
		res[i] = mapToTransferResponse(row)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (TransferResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TransferResponse{}, payrollerrors.ErrInvalidTransferID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return TransferResponse{}, mapTransferError(err)
	}
	return mapToTransferResponse(*row), nil
}

func (s *service) emitRunCompleted(ctx context.Context, tx *sql.Tx, run TransferRunResponse) error {
	if s.outbox == nil {
		return nil
	}

	event := events.PayrollRunCompletedEvent{
		EventType:      "payroll_run_completed",
		PeriodYear:     run.PeriodYear,
		PeriodMonth:    run.PeriodMonth,
		ProcessedCount: run.ProcessedCount,
		SkippedCount:   run.SkippedCount,
		InitiatedBy:    contextutil.GetUserID(ctx),
		OccurredAt:     time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal payroll run event failed", zap.Error(err))
		return err
	}

	aggregateID := fmt.Sprintf("%04d-%02d", run.PeriodYear, run.PeriodMonth)
	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payroll_run",
		AggregateID:   aggregateID,
		EventType:     event.EventType,
		Topic:         events.PayrollRunCompletedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("payroll run outbox persist failed", zap.Error(err))
		return err
	}
	return nil
}

func actorUUID(ctx context.Context) *uuid.UUID {
	actor, err := uuid.Parse(contextutil.GetUserID(ctx))
	if err != nil {
		return nil
	}
	return &actor
}

func mapTransferError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrTransferNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return employeeerrors.ErrEmployeeNotFound
	}
	if strings.Contains(strings.ToLower(err.Error()), "violates foreign key constraint") {
		return employeeerrors.ErrEmployeeNotFound
	}

	return err
}

func mapToTransferResponse(row PayrollTransfer) TransferResponse {
	resp := TransferResponse{
		ID:              row.ID.String(),
		EmployeeID:      row.EmployeeID.String(),
		EmployeeName:    row.EmployeeName,
		PeriodYear:      row.PeriodYear,
		PeriodMonth:     row.PeriodMonth,
		GrossSalary:     row.GrossSalary,
		TotalDeductions: row.TotalDeductions,
		NetSalary:       row.NetSalary,
		Status:          row.Status,
		CreatedAt:       row.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       row.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if row.InitiatedBy != nil {
		resp.InitiatedBy = row.InitiatedBy.String()
	}
	return resp
}

func roundLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, line := range lines {
		out[i] = Line{Label: line.Label, Amount: round2(line.Amount)}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
