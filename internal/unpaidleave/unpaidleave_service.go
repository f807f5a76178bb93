package unpaidleave

import (
	"context"
	"database/sql"
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
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/config"
	employeeerrors "github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/employee/errors"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/salary"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/shared/contextutil"
	unpaidleaveerrors "github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/unpaidleave/errors"
)

//go:generate mockgen -source=unpaidleave_service.go -destination=mock/unpaidleave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateUnpaidLeaveRequest) (UnpaidLeaveResponse, error)
	GetAll(ctx context.Context, filter ListUnpaidLeaveFilter) ([]UnpaidLeaveResponse, error)
	GetByID(ctx context.Context, id string) (UnpaidLeaveResponse, error)

	// Process fixes the monetary deduction for a pending record:
	// total_days times the employee's current daily rate, where the
	// daily rate is the latest basic salary divided by the configured
	// days per month.
	Process(ctx context.Context, id string) (ProcessUnpaidLeaveResponse, error)

	Delete(ctx context.Context, id string) error
}

type service struct {
	db         *sql.DB
	repo       Repository
	salaryRepo salary.Repository
	cfg        config.PayrollConfig
	auditor    audit.Recorder
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	salaryRepo salary.Repository,
	cfg config.PayrollConfig,
	auditor audit.Recorder,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("unpaidleave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("unpaidleave.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		salaryRepo: salaryRepo,
		cfg:        cfg,
		auditor:    auditor,
		logger:     l,
	}
}

func (s *service) Create(ctx context.Context, req CreateUnpaidLeaveRequest) (UnpaidLeaveResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return UnpaidLeaveResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return UnpaidLeaveResponse{}, unpaidleaveerrors.ErrInvalidDateRange
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return UnpaidLeaveResponse{}, unpaidleaveerrors.ErrInvalidDateRange
	}
	if startDate.After(endDate) {
		return UnpaidLeaveResponse{}, unpaidleaveerrors.ErrInvalidDateRange
	}

	row := &UnpaidLeave{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		StartDate:  startDate,
		EndDate:    endDate,
		TotalDays:  round2(req.TotalDays),
		Reason:     req.Reason,
		Status:     StatusPending,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create unpaid leave begin tx failed", zap.Error(err))
		return UnpaidLeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Create(ctx, row); err != nil {
		s.logger.Error("create unpaid leave persist failed", zap.Error(err))
		return UnpaidLeaveResponse{}, mapUnpaidLeaveError(err)
	}

	if s.auditor != nil {
		s.auditor.WithTx(tx).Record(ctx, audit.Entry{
			ActorID:    contextutil.GetUserID(ctx),
			Action:     "unpaidleave.create",
			EntityType: "unpaid_leave",
			EntityID:   row.ID.String(),
			Details: fmt.Sprintf("employee_id=%s total_days=%.2f",
				employeeID, row.TotalDays),
		})
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create unpaid leave commit failed", zap.Error(err))
		return UnpaidLeaveResponse{}, err
	}

	row.CreatedAt = time.Now().UTC()

	s.logger.Info("create unpaid leave success",
		zap.String("unpaid_leave_id", row.ID.String()),
		zap.String("employee_id", employeeID.String()),
		zap.Float64("total_days", row.TotalDays),
	)

	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, filter ListUnpaidLeaveFilter) ([]UnpaidLeaveResponse, error) {
	if filter.EmployeeID != "" {
		if _, err := uuid.Parse(filter.EmployeeID); err != nil {
			return nil, employeeerrors.ErrInvalidEmployeeID
		}
	}

	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("list unpaid leaves failed", zap.Error(err))
		return nil, err
	}

	res := make([]UnpaidLeaveResponse, len(rows))
	for i, row := range rows {
		res[i] = mapToResponse(row)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (UnpaidLeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UnpaidLeaveResponse{}, unpaidleaveerrors.ErrInvalidUnpaidLeaveID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UnpaidLeaveResponse{}, mapUnpaidLeaveError(err)
	}

	return mapToResponse(*row), nil
}

func (s *service) Process(ctx context.Context, id string) (ProcessUnpaidLeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ProcessUnpaidLeaveResponse{}, unpaidleaveerrors.ErrInvalidUnpaidLeaveID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ProcessUnpaidLeaveResponse{}, mapUnpaidLeaveError(err)
	}
	if row.Status != StatusPending {
		return ProcessUnpaidLeaveResponse{}, unpaidleaveerrors.ErrAlreadyProcessed
	}

	latest, err := s.salaryRepo.FindLatestByEmployee(ctx, row.EmployeeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProcessUnpaidLeaveResponse{}, unpaidleaveerrors.ErrNoSalaryForDeduction
		}
		return ProcessUnpaidLeaveResponse{}, err
	}

	dailyRate := latest.BasicSalary / s.cfg.DaysPerMonth
	amount := round2(row.TotalDays * dailyRate)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("process unpaid leave begin tx failed", zap.Error(err))
		return ProcessUnpaidLeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.MarkProcessed(ctx, id, amount); err != nil {
		// A zero-row update here means another call won the race.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProcessUnpaidLeaveResponse{}, unpaidleaveerrors.ErrAlreadyProcessed
		}
		s.logger.Error("process unpaid leave failed", zap.String("unpaid_leave_id", id), zap.Error(err))
		return ProcessUnpaidLeaveResponse{}, err
	}

	if s.auditor != nil {
		s.auditor.WithTx(tx).Record(ctx, audit.Entry{
			ActorID:    contextutil.GetUserID(ctx),
			Action:     "unpaidleave.process",
			EntityType: "unpaid_leave",
			EntityID:   id,
			Details: fmt.Sprintf("total_days=%.2f deduction_amount=%.2f",
				row.TotalDays, amount),
		})
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("process unpaid leave commit failed", zap.Error(err))
		return ProcessUnpaidLeaveResponse{}, err
	}

	now := time.Now().UTC()
	row.Status = StatusProcessed
	row.DeductionAmount = &amount
	row.ProcessedAt = &now
	row.UpdatedAt = now

	s.logger.Info("process unpaid leave success",
		zap.String("unpaid_leave_id", id),
		zap.String("employee_id", row.EmployeeID.String()),
		zap.Float64("deduction_amount", amount),
	)

	return ProcessUnpaidLeaveResponse{
		UnpaidLeaveResponse: mapToResponse(*row),
		BasicSalary:         latest.BasicSalary,
		DailyRate:           round2(dailyRate),
	}, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return unpaidleaveerrors.ErrInvalidUnpaidLeaveID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapUnpaidLeaveError(err)
	}
	if row.Status == StatusProcessed {
		return unpaidleaveerrors.ErrProcessedRowImmutable
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete unpaid leave begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete unpaid leave failed", zap.String("unpaid_leave_id", id), zap.Error(err))
		return mapUnpaidLeaveError(err)
	}

	if s.auditor != nil {
		s.auditor.WithTx(tx).Record(ctx, audit.Entry{
			ActorID:    contextutil.GetUserID(ctx),
			Action:     "unpaidleave.delete",
			EntityType: "unpaid_leave",
			EntityID:   id,
		})
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete unpaid leave commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("delete unpaid leave success", zap.String("unpaid_leave_id", id))
	return nil
}

func mapUnpaidLeaveError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return unpaidleaveerrors.ErrUnpaidLeaveNotFound
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

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func mapToResponse(row UnpaidLeave) UnpaidLeaveResponse {
	resp := UnpaidLeaveResponse{
		ID:              row.ID.String(),
		EmployeeID:      row.EmployeeID.String(),
		EmployeeName:    row.EmployeeName,
		StartDate:       row.StartDate.Format("2006-01-02"),
		EndDate:         row.EndDate.Format("2006-01-02"),
		TotalDays:       row.TotalDays,
		Reason:          row.Reason,
		Status:          row.Status,
		DeductionAmount: row.DeductionAmount,
		CreatedAt:       row.CreatedAt.UTC().Format(time.RFC3339),
	}
	if row.ProcessedAt != nil {
		resp.ProcessedAt = row.ProcessedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
